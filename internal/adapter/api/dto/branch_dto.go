package dto

import (
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/branch"
	"github.com/hugohenrick/erp-estoque/internal/domain/company"
)

// CompanyRequest representa os dados de criação de empresa
type CompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CompanyResponse representa a estrutura de resposta para empresa
type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BranchRequest representa a estrutura de dados para criação de filial
type BranchRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// BranchUpdateRequest traz apenas os campos a alterar
type BranchUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// BranchResponse representa a estrutura de resposta para filial
type BranchResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCompanyResponse converte um modelo de domínio em uma resposta DTO
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCompanyListResponse converte uma lista de empresas
func ToCompanyListResponse(companies []*company.Company) []CompanyResponse {
	out := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		out[i] = ToCompanyResponse(c)
	}
	return out
}

// ToBranchResponse converte um modelo de domínio em uma resposta DTO
func ToBranchResponse(b *branch.Branch) BranchResponse {
	return BranchResponse{
		ID:          b.ID,
		CompanyID:   b.CompanyID,
		Name:        b.Name,
		Description: b.Description,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToBranchListResponse converte uma lista de filiais
func ToBranchListResponse(branches []*branch.Branch) []BranchResponse {
	out := make([]BranchResponse, len(branches))
	for i, b := range branches {
		out[i] = ToBranchResponse(b)
	}
	return out
}
