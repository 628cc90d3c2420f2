package company

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

var (
	ErrEmptyName       = apperror.Validation("COMPANY_NAME_REQUIRED", "nome da empresa não pode ser vazio")
	ErrEmptyOwner      = apperror.Validation("COMPANY_OWNER_REQUIRED", "empresa precisa de um proprietário")
	ErrCompanyNotFound = apperror.NotFound("COMPANY_NOT_FOUND", "empresa não encontrada")
	ErrDuplicateName   = apperror.Conflict("DUPLICATE_COMPANY", "já existe uma empresa com este nome")
)

// Company é a raiz de um tenant
type Company struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCompany cria uma nova empresa
func NewCompany(name, description, ownerID string) (*Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if ownerID == "" {
		return nil, ErrEmptyOwner
	}

	now := time.Now().UTC()
	return &Company{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
