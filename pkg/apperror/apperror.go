package apperror

import (
	"errors"
	"fmt"
)

// Kind classifica um erro de negócio para que a camada de transporte
// possa traduzi-lo sem conhecer o domínio
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindPermission Kind = "permission"
)

// Error é um erro tipado com código estável e detalhe opcional do campo ofensor
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Value   any    `json:"value,omitempty"`
}

// New cria um novo erro tipado
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Validation cria um erro de entrada malformada ou fora do intervalo
func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

// Conflict cria um erro de violação de regra de negócio
func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// NotFound cria um erro de entidade inexistente
func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

// Permission cria um erro de escopo insuficiente
func Permission(code, message string) *Error {
	return New(KindPermission, code, message)
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s=%v)", e.Message, e.Field, e.Value)
}

// Is compara pelo código, permitindo errors.Is contra as sentinelas
// mesmo quando o erro carrega detalhes
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail retorna uma cópia do erro com o campo e valor ofensores
func (e *Error) WithDetail(field string, value any) *Error {
	cp := *e
	cp.Field = field
	cp.Value = value
	return &cp
}

// WithMessage retorna uma cópia do erro com outra mensagem
func (e *Error) WithMessage(message string) *Error {
	cp := *e
	cp.Message = message
	return &cp
}

// As extrai o *Error da cadeia de erros
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf retorna a classificação do erro, ou vazio para falhas inesperadas
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return ""
}

// Erros compartilhados entre pacotes de domínio
var (
	ErrPermissionDenied = Permission("PERMISSION_DENIED", "usuário não tem permissão para esta operação")
	ErrInvalidID        = Validation("INVALID_ID", "identificador inválido")
)
