package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
	"github.com/hugohenrick/erp-estoque/pkg/auth"
)

// AuthController gerencia as requisições relacionadas à autenticação
type AuthController struct {
	tenancy    *tenancy.Service
	jwtService *auth.JWTService
}

// NewAuthController cria uma nova instância de AuthController
func NewAuthController(tenancySvc *tenancy.Service, jwtService *auth.JWTService) *AuthController {
	return &AuthController{
		tenancy:    tenancySvc,
		jwtService: jwtService,
	}
}

// Login autentica um usuário e retorna os tokens JWT
// @Summary Autentica um usuário
// @Description Verifica usuário e senha e retorna os tokens de acesso e renovação
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Credenciais de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	u, err := c.tenancy.AuthenticatePassword(ctx.Request.Context(), request.Username, request.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	c.issue(ctx, u)
}

// LoginWithToken autentica pelo conteúdo do QR de login
// @Summary Autentica pelo QR de login
// @Description Aceita "login_token:<uuid>" ou o uuid puro
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.TokenLoginRequest true "Token de login"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/login/token [post]
func (c *AuthController) LoginWithToken(ctx *gin.Context) {
	var request dto.TokenLoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	u, err := c.tenancy.AuthenticateLoginToken(ctx.Request.Context(), request.LoginToken)
	if err != nil {
		respondError(ctx, err)
		return
	}

	c.issue(ctx, u)
}

// Register cria uma conta sem vínculos
// @Summary Registra um usuário
// @Description Cria um usuário MEMBER sem vínculos com empresas
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.ProfileRequest true "Dados do usuário"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var request dto.ProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	u, err := c.tenancy.RegisterUser(ctx.Request.Context(), request.Profile(), request.Password)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToUserResponse(u))
}

// RefreshToken renova os tokens a partir de um token de renovação
// @Summary Renova os tokens
// @Description Valida o token de renovação e emite um novo par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param refresh body dto.RefreshTokenRequest true "Token de renovação"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var request dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		badRequest(ctx, err)
		return
	}

	claims, err := c.jwtService.ValidateToken(request.RefreshToken, auth.TokenRefresh)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Token de renovação inválido", err.Error()))
		return
	}

	// O usuário pode ter sido desativado depois da emissão
	u, err := c.tenancy.GetUser(ctx.Request.Context(), access.Unrestricted(claims.UserID), claims.UserID)
	if err != nil || !u.IsActive {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Token de renovação inválido", ""))
		return
	}

	c.issue(ctx, u)
}

// Me retorna o usuário autenticado e seu escopo
// @Summary Usuário autenticado
// @Description Retorna o usuário do token e as empresas e filiais visíveis
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	scope := currentScope(ctx)

	u, err := c.tenancy.GetUser(ctx.Request.Context(), scope, scope.UserID())
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MeResponse{
		User:  dto.ToUserResponse(u),
		Scope: scope.Summary(),
	})
}

func (c *AuthController) issue(ctx *gin.Context, u *user.User) {
	pair, err := c.jwtService.GenerateTokenPair(u)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Erro ao gerar token", ""))
		return
	}

	ctx.JSON(http.StatusOK, dto.LoginResponse{
		User:             dto.ToUserResponse(u),
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		ExpiresAt:        pair.ExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	})
}
