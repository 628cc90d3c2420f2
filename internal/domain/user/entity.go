package user

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyUsername      = apperror.Validation("USERNAME_REQUIRED", "nome de usuário não pode ser vazio")
	ErrInvalidIDNumber    = apperror.Validation("INVALID_ID_NUMBER", "número de identificação deve conter apenas dígitos")
	ErrPasswordTooShort   = apperror.Validation("PASSWORD_TOO_SHORT", "senha deve ter ao menos 8 caracteres")
	ErrInvalidLevel       = apperror.Validation("INVALID_USER_LEVEL", "nível de usuário inválido")
	ErrUserNotFound       = apperror.NotFound("USER_NOT_FOUND", "usuário não encontrado")
	ErrDuplicateUsername  = apperror.Conflict("DUPLICATE_USERNAME", "nome de usuário já está em uso")
	ErrDuplicateIDNumber  = apperror.Conflict("DUPLICATE_ID_NUMBER", "número de identificação já está em uso")
	ErrInvalidLoginToken  = apperror.Validation("INVALID_LOGIN_TOKEN", "token de login inválido")
	ErrUserInactive       = apperror.Permission("USER_INACTIVE", "conta de usuário desativada")
	ErrInvalidCredentials = apperror.Permission("INVALID_CREDENTIALS", "credenciais inválidas")
	ErrSelfDeactivation   = apperror.Conflict("SELF_DEACTIVATION", "usuário não pode desativar a própria conta")
)

// MinPasswordLength é o tamanho mínimo aceito para senhas
const MinPasswordLength = 8

// Level é o privilégio global do usuário, independente dos papéis por empresa
type Level string

const (
	LevelDeveloper Level = "DEVELOPER"
	LevelMember    Level = "MEMBER"
)

// User representa um usuário do sistema
type User struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	IDNumber      string    `json:"id_number"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Department    string    `json:"department"`
	ContactNumber string    `json:"contact_number"`
	Password      string    `json:"-"` // hash bcrypt
	Level         Level     `json:"level"`
	LoginToken    string    `json:"-"`
	IsActive      bool      `json:"is_active"`
	DateJoined    time.Time `json:"date_joined"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Profile reúne os dados cadastrais informados na criação
type Profile struct {
	Username      string
	IDNumber      string
	Email         string
	FirstName     string
	LastName      string
	Department    string
	ContactNumber string
}

// NewUser cria um novo usuário ativo com token de login próprio
func NewUser(p Profile, password string, level Level) (*User, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if !isDigits(p.IDNumber) {
		return nil, ErrInvalidIDNumber.WithDetail("id_number", p.IDNumber)
	}
	if level == "" {
		level = LevelMember
	}
	if level != LevelDeveloper && level != LevelMember {
		return nil, ErrInvalidLevel.WithDetail("level", string(level))
	}

	now := time.Now().UTC()
	u := &User{
		ID:            uuid.New().String(),
		Username:      username,
		IDNumber:      p.IDNumber,
		Email:         strings.TrimSpace(p.Email),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Department:    p.Department,
		ContactNumber: p.ContactNumber,
		Level:         level,
		LoginToken:    uuid.New().String(),
		IsActive:      true,
		DateJoined:    now,
		UpdatedAt:     now,
	}

	if err := u.SetPassword(password); err != nil {
		return nil, err
	}

	return u, nil
}

// ProfileUpdate reúne as alterações cadastrais; campos nulos não mudam
type ProfileUpdate struct {
	IDNumber      *string
	Email         *string
	FirstName     *string
	LastName      *string
	Department    *string
	ContactNumber *string
}

// UpdateProfile aplica as alterações cadastrais
func (u *User) UpdateProfile(p ProfileUpdate) error {
	if p.IDNumber != nil {
		if !isDigits(*p.IDNumber) {
			return ErrInvalidIDNumber.WithDetail("id_number", *p.IDNumber)
		}
		u.IDNumber = *p.IDNumber
	}
	if p.Email != nil {
		u.Email = strings.TrimSpace(*p.Email)
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.ContactNumber != nil {
		u.ContactNumber = *p.ContactNumber
	}
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetLevel altera o privilégio global
func (u *User) SetLevel(level Level) error {
	if level != LevelDeveloper && level != LevelMember {
		return ErrInvalidLevel.WithDetail("level", string(level))
	}
	u.Level = level
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetActive ativa ou desativa a conta. Conta inativa não autentica e não
// enxerga nada.
func (u *User) SetActive(active bool) {
	u.IsActive = active
	u.UpdatedAt = time.Now().UTC()
}

// SetPassword configura a senha do usuário com hash
func (u *User) SetPassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifica se a senha fornecida é válida
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsDeveloper indica privilégio global irrestrito
func (u *User) IsDeveloper() bool {
	return u.Level == LevelDeveloper
}

// RotateLoginToken invalida o QR de login atual gerando um novo token
func (u *User) RotateLoginToken() {
	u.LoginToken = uuid.New().String()
	u.UpdatedAt = time.Now().UTC()
}

// FullName retorna nome e sobrenome, ou o nome de usuário quando ambos faltam
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// ParseLoginToken aceita o conteúdo do QR de login ("login_token:<uuid>")
// ou o token puro e retorna o token normalizado
func ParseLoginToken(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	payload = strings.TrimPrefix(payload, "login_token:")

	id, err := uuid.Parse(payload)
	if err != nil {
		return "", ErrInvalidLoginToken
	}
	return id.String(), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
