package category

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hugohenrick/erp-estoque/pkg/apperror"
)

var (
	ErrEmptyName        = apperror.Validation("CATEGORY_NAME_REQUIRED", "nome da categoria não pode ser vazio")
	ErrEmptyCompanyID   = apperror.Validation("CATEGORY_COMPANY_REQUIRED", "ID da empresa não pode ser vazio")
	ErrCategoryNotFound = apperror.NotFound("CATEGORY_NOT_FOUND", "categoria não encontrada")
	ErrDuplicateName    = apperror.Conflict("DUPLICATE_CATEGORY", "já existe uma categoria com este nome")
	ErrScopeMismatch    = apperror.Conflict("CATEGORY_SCOPE_MISMATCH", "categoria não pertence à filial do item")
)

// Category agrupa itens de uma empresa, opcionalmente restrita a uma filial
type Category struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	BranchID    string    `json:"branch_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCategory cria uma nova categoria
func NewCategory(companyID, branchID, name, description string) (*Category, error) {
	if companyID == "" {
		return nil, ErrEmptyCompanyID
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	return &Category{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		BranchID:    branchID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// AppliesTo indica se a categoria pode classificar itens da filial informada
func (c *Category) AppliesTo(companyID, branchID string) bool {
	if c.CompanyID != companyID {
		return false
	}
	return c.BranchID == "" || c.BranchID == branchID
}
