package dto

import (
	"errors"
	"net/http"

	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

// ErrorResponse representa a estrutura de resposta para erros
type ErrorResponse struct {
	Code      int         `json:"code"`
	Message   string      `json:"message"`
	Details   string      `json:"details,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Field     string      `json:"field,omitempty"`
	Value     interface{} `json:"value,omitempty"`
}

// SuccessResponse representa a estrutura de resposta para operações bem-sucedidas
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewErrorResponse cria uma nova resposta de erro
func NewErrorResponse(code int, message, details string) ErrorResponse {
	return ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewSuccessResponse cria uma nova resposta de sucesso
func NewSuccessResponse(message string, data interface{}) SuccessResponse {
	return SuccessResponse{
		Message: message,
		Data:    data,
	}
}

// FromError traduz um erro de serviço em status HTTP e corpo de resposta.
// Falhas inesperadas viram 500 sem expor o erro interno.
func FromError(err error) (int, ErrorResponse) {
	appErr, ok := apperror.As(err)
	if !ok {
		return http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, "Erro interno", "")
	}

	status := StatusFor(appErr)
	return status, ErrorResponse{
		Code:      status,
		Message:   appErr.Message,
		ErrorCode: appErr.Code,
		Field:     appErr.Field,
		Value:     appErr.Value,
	}
}

// StatusFor mapeia a classificação do erro para o status HTTP
func StatusFor(appErr *apperror.Error) int {
	if errors.Is(appErr, user.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}

	switch appErr.Kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindPermission:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PaginationParams representa os parâmetros de paginação
type PaginationParams struct {
	Page     int
	PageSize int
}

// GetPagination retorna parâmetros de paginação com valores padrão
func GetPagination(page, pageSize int) PaginationParams {
	if page <= 0 {
		page = 1
	}

	if pageSize <= 0 {
		pageSize = 20
	} else if pageSize > 100 {
		pageSize = 100
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset retorna o deslocamento da página atual
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageInfo acompanha as respostas paginadas
type PageInfo struct {
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageInfo calcula o total de páginas
func NewPageInfo(totalCount int, p PaginationParams) PageInfo {
	return PageInfo{
		TotalCount: totalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: calculateTotalPages(totalCount, p.PageSize),
	}
}

// calculateTotalPages calcula o número total de páginas com base no total de registros e no tamanho da página
func calculateTotalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	return totalPages
}
