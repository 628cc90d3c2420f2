package branch

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

var (
	ErrEmptyName       = apperror.Validation("BRANCH_NAME_REQUIRED", "nome da filial não pode ser vazio")
	ErrEmptyCompanyID  = apperror.Validation("BRANCH_COMPANY_REQUIRED", "ID da empresa não pode ser vazio")
	ErrBranchNotFound  = apperror.NotFound("BRANCH_NOT_FOUND", "filial não encontrada")
	ErrDuplicateName   = apperror.Conflict("DUPLICATE_BRANCH", "já existe uma filial com este nome na empresa")
	ErrBranchNotActive = apperror.Conflict("BRANCH_INACTIVE", "filial não está ativa")
)

// Branch representa uma filial de uma empresa
type Branch struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewBranch cria uma nova filial ativa
func NewBranch(companyID, name, description string) (*Branch, error) {
	if companyID == "" {
		return nil, ErrEmptyCompanyID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	now := time.Now().UTC()
	return &Branch{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Name:        name,
		Description: description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Activate ativa a filial
func (b *Branch) Activate() {
	b.IsActive = true
	b.UpdatedAt = time.Now().UTC()
}

// Deactivate desativa a filial
func (b *Branch) Deactivate() {
	b.IsActive = false
	b.UpdatedAt = time.Now().UTC()
}

// Update atualiza os dados da filial
func (b *Branch) Update(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	b.Name = name
	b.Description = description
	b.UpdatedAt = time.Now().UTC()
	return nil
}
