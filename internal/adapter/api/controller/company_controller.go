package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/internal/domain/category"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
)

// CompanyController gerencia empresas, filiais, vínculos e categorias
type CompanyController struct {
	tenancy *tenancy.Service
}

// NewCompanyController cria uma nova instância de CompanyController
func NewCompanyController(tenancySvc *tenancy.Service) *CompanyController {
	return &CompanyController{tenancy: tenancySvc}
}

// Create cria uma nova empresa
// @Summary Cria uma nova empresa
// @Description Somente desenvolvedores. O criador recebe o vínculo de proprietário.
// @Tags companies
// @Accept json
// @Produce json
// @Security Bearer
// @Param company body dto.CompanyRequest true "Dados da empresa"
// @Success 201 {object} dto.CompanyResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /companies [post]
func (c *CompanyController) Create(ctx *gin.Context) {
	var request dto.CompanyRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	co, _, err := c.tenancy.CreateCompany(ctx.Request.Context(), currentScope(ctx), request.Name, request.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToCompanyResponse(co))
}

// List lista as empresas visíveis
// @Summary Lista empresas
// @Tags companies
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CompanyResponse
// @Router /companies [get]
func (c *CompanyController) List(ctx *gin.Context) {
	companies, err := c.tenancy.ListCompanies(ctx.Request.Context(), currentScope(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyListResponse(companies))
}

// GetByID busca uma empresa pelo ID
// @Summary Busca uma empresa
// @Tags companies
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Success 200 {object} dto.CompanyResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /companies/{id} [get]
func (c *CompanyController) GetByID(ctx *gin.Context) {
	co, err := c.tenancy.GetCompany(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCompanyResponse(co))
}

// CreateBranch cria uma filial na empresa
// @Summary Cria uma filial
// @Tags branches
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Param branch body dto.BranchRequest true "Dados da filial"
// @Success 201 {object} dto.BranchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /companies/{id}/branches [post]
func (c *CompanyController) CreateBranch(ctx *gin.Context) {
	var request dto.BranchRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	b, err := c.tenancy.CreateBranch(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), request.Name, request.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToBranchResponse(b))
}

// ListBranches lista as filiais visíveis da empresa
// @Summary Lista filiais da empresa
// @Tags branches
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Success 200 {array} dto.BranchResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /companies/{id}/branches [get]
func (c *CompanyController) ListBranches(ctx *gin.Context) {
	branches, err := c.tenancy.ListBranches(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBranchListResponse(branches))
}

// ListVisibleBranches lista todas as filiais visíveis ao usuário
// @Summary Lista filiais visíveis
// @Tags branches
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.BranchResponse
// @Router /branches [get]
func (c *CompanyController) ListVisibleBranches(ctx *gin.Context) {
	branches, err := c.tenancy.ListVisibleBranches(ctx.Request.Context(), currentScope(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBranchListResponse(branches))
}

// GetBranch busca uma filial pelo ID
// @Summary Busca uma filial
// @Tags branches
// @Produce json
// @Security Bearer
// @Param id path string true "ID da filial"
// @Success 200 {object} dto.BranchResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /branches/{id} [get]
func (c *CompanyController) GetBranch(ctx *gin.Context) {
	b, err := c.tenancy.GetBranch(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBranchResponse(b))
}

// UpdateBranch altera dados e situação de uma filial
// @Summary Atualiza uma filial
// @Tags branches
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da filial"
// @Param branch body dto.BranchUpdateRequest true "Campos a alterar"
// @Success 200 {object} dto.BranchResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /branches/{id} [patch]
func (c *CompanyController) UpdateBranch(ctx *gin.Context) {
	var request dto.BranchUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	b, err := c.tenancy.UpdateBranch(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), tenancy.BranchUpdate{
		Name:        request.Name,
		Description: request.Description,
		IsActive:    request.IsActive,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBranchResponse(b))
}

// AddMembership concede um vínculo na empresa
// @Summary Concede um vínculo
// @Tags memberships
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Param membership body dto.MembershipRequest true "Vínculo"
// @Success 201 {object} membership.Membership
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /companies/{id}/memberships [post]
func (c *CompanyController) AddMembership(ctx *gin.Context) {
	var request dto.MembershipRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	m, err := c.tenancy.AddMembership(ctx.Request.Context(), currentScope(ctx), tenancy.MembershipInput{
		UserID:    request.UserID,
		CompanyID: ctx.Param("id"),
		Role:      membership.Role(request.Role),
		BranchID:  request.BranchID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, m)
}

// ListMemberships lista os vínculos da empresa
// @Summary Lista vínculos da empresa
// @Tags memberships
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Success 200 {object} dto.MembershipListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /companies/{id}/memberships [get]
func (c *CompanyController) ListMemberships(ctx *gin.Context) {
	memberships, err := c.tenancy.ListMemberships(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if memberships == nil {
		memberships = []*membership.Membership{}
	}

	ctx.JSON(http.StatusOK, dto.MembershipListResponse{Memberships: memberships})
}

// UpdateMembership altera papel e filial de um vínculo
// @Summary Atualiza um vínculo
// @Tags memberships
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do vínculo"
// @Param membership body dto.MembershipUpdateRequest true "Papel e filial"
// @Success 200 {object} membership.Membership
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /memberships/{id} [put]
func (c *CompanyController) UpdateMembership(ctx *gin.Context) {
	var request dto.MembershipUpdateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	m, err := c.tenancy.UpdateMembership(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), membership.Role(request.Role), request.BranchID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, m)
}

// RemoveMembership remove um vínculo
// @Summary Remove um vínculo
// @Tags memberships
// @Security Bearer
// @Param id path string true "ID do vínculo"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /memberships/{id} [delete]
func (c *CompanyController) RemoveMembership(ctx *gin.Context) {
	if err := c.tenancy.RemoveMembership(ctx.Request.Context(), currentScope(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// CreateCategory cria uma categoria da empresa ou de uma filial
// @Summary Cria uma categoria
// @Tags categories
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Param category body dto.CategoryRequest true "Dados da categoria"
// @Success 201 {object} category.Category
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /companies/{id}/categories [post]
func (c *CompanyController) CreateCategory(ctx *gin.Context) {
	var request dto.CategoryRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	cat, err := c.tenancy.CreateCategory(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), request.BranchID, request.Name, request.Description)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, cat)
}

// ListCategories lista as categorias da empresa, opcionalmente as que valem para uma filial
// @Summary Lista categorias
// @Tags categories
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Param branch_id query string false "Filial"
// @Success 200 {object} dto.CategoryListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /companies/{id}/categories [get]
func (c *CompanyController) ListCategories(ctx *gin.Context) {
	categories, err := c.tenancy.ListCategories(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), ctx.Query("branch_id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}

	ctx.JSON(http.StatusOK, dto.CategoryListResponse{Categories: categories})
}

// DeleteCategory remove uma categoria
// @Summary Remove uma categoria
// @Tags categories
// @Security Bearer
// @Param id path string true "ID da categoria"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /categories/{id} [delete]
func (c *CompanyController) DeleteCategory(ctx *gin.Context) {
	if err := c.tenancy.DeleteCategory(ctx.Request.Context(), currentScope(ctx), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
