package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/internal/domain/membership"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
)

// UserController gerencia as requisições relacionadas a usuários
type UserController struct {
	tenancy *tenancy.Service
}

// NewUserController cria uma nova instância de UserController
func NewUserController(tenancySvc *tenancy.Service) *UserController {
	return &UserController{tenancy: tenancySvc}
}

// Create cria um usuário com vínculos
// @Summary Cria um usuário com vínculos
// @Description Cria o usuário e seus vínculos em uma única operação. Somente desenvolvedores.
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param user body dto.CreateUserRequest true "Dados do usuário"
// @Success 201 {object} dto.UserWithMembershipsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users [post]
func (c *UserController) Create(ctx *gin.Context) {
	var request dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	u, memberships, err := c.tenancy.CreateUserWithMemberships(ctx.Request.Context(), currentScope(ctx), request.ToInput())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.UserWithMembershipsResponse{
		User:        dto.ToUserResponse(u),
		Memberships: memberships,
	})
}

// CreateCompanyUser cria um usuário comum em uma filial da empresa
// @Summary Cria um usuário da empresa
// @Description Proprietários e supervisores criam usuários com papel USER em uma filial
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID da empresa"
// @Param user body dto.CompanyUserRequest true "Dados do usuário"
// @Success 201 {object} dto.UserWithMembershipsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /companies/{id}/users [post]
func (c *UserController) CreateCompanyUser(ctx *gin.Context) {
	var request dto.CompanyUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	u, m, err := c.tenancy.CreateCompanyUser(ctx.Request.Context(), currentScope(ctx), tenancy.CompanyUserInput{
		Profile:   request.Profile(),
		Password:  request.Password,
		CompanyID: ctx.Param("id"),
		BranchID:  request.BranchID,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.UserWithMembershipsResponse{
		User:        dto.ToUserResponse(u),
		Memberships: []*membership.Membership{m},
	})
}

// List lista usuários para administração
// @Summary Lista usuários
// @Description Desenvolvedores veem todos; proprietários veem os membros das suas empresas
// @Tags users
// @Produce json
// @Security Bearer
// @Param search query string false "Busca por usuário, e-mail, nome ou identificação"
// @Param page query int false "Página"
// @Param page_size query int false "Itens por página"
// @Success 200 {object} dto.UserListResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /users [get]
func (c *UserController) List(ctx *gin.Context) {
	p := pagination(ctx)

	users, total, err := c.tenancy.ListUsers(ctx.Request.Context(), currentScope(ctx), tenancy.UserQuery{
		Search: ctx.Query("search"),
		Limit:  p.PageSize,
		Offset: p.Offset(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserListResponse(users, total, p))
}

// Update altera cadastro, nível ou situação de um usuário
// @Summary Altera um usuário
// @Description Nível só pode ser alterado por desenvolvedores
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do usuário"
// @Param user body dto.UpdateUserRequest true "Campos alterados"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id} [patch]
func (c *UserController) Update(ctx *gin.Context) {
	var request dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	u, err := c.tenancy.UpdateUser(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), request.ToInput())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// Deactivate desativa a conta de um usuário
// @Summary Desativa um usuário
// @Description A conta deixa de autenticar e de enxergar empresas; o histórico é mantido
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "ID do usuário"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (c *UserController) Deactivate(ctx *gin.Context) {
	u, err := c.tenancy.SetUserActive(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"), false)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// GetByID busca um usuário pelo ID
// @Summary Busca um usuário
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "ID do usuário"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (c *UserController) GetByID(ctx *gin.Context) {
	u, err := c.tenancy.GetUser(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToUserResponse(u))
}

// ChangePassword altera a senha do usuário autenticado
// @Summary Altera a própria senha
// @Tags users
// @Accept json
// @Produce json
// @Security Bearer
// @Param password body dto.ChangePasswordRequest true "Senhas atual e nova"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /users/me/password [put]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var request dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	if err := c.tenancy.ChangePassword(ctx.Request.Context(), currentScope(ctx), request.CurrentPassword, request.NewPassword); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Senha alterada com sucesso", nil))
}

// RotateLoginToken gera um novo QR de login
// @Summary Renova o QR de login
// @Description Invalida o token de login atual. Vale para o próprio usuário ou para desenvolvedores.
// @Tags users
// @Produce json
// @Security Bearer
// @Param id path string true "ID do usuário"
// @Success 200 {object} dto.LoginTokenResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/login-token [post]
func (c *UserController) RotateLoginToken(ctx *gin.Context) {
	u, err := c.tenancy.RotateLoginToken(ctx.Request.Context(), currentScope(ctx), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToLoginTokenResponse(u))
}
