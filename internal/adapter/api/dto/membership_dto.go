package dto

import (
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
)

// MembershipRequest representa um vínculo a conceder. UserID é ignorado
// na criação de usuário com vínculos.
type MembershipRequest struct {
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role" binding:"required"`
	BranchID  string `json:"branch_id"`
}

// MembershipUpdateRequest altera papel e filial do vínculo
type MembershipUpdateRequest struct {
	Role     string `json:"role" binding:"required"`
	BranchID string `json:"branch_id"`
}

// MembershipListResponse lista os vínculos de uma empresa
type MembershipListResponse struct {
	Memberships []*membership.Membership `json:"memberships"`
}

// CategoryRequest representa os dados de criação de categoria
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	BranchID    string `json:"branch_id"`
}

// CategoryListResponse lista categorias
type CategoryListResponse struct {
	Categories []*category.Category `json:"categories"`
}
