package dto

import (
	"time"

	"github.com/hugohenrick/erp-estoque/internal/domain/access"
)

// LoginRequest representa os dados para login com senha
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenLoginRequest representa o conteúdo lido do QR de login
type TokenLoginRequest struct {
	LoginToken string `json:"login_token" binding:"required"`
}

// LoginResponse representa a resposta de login bem-sucedido
type LoginResponse struct {
	User             UserResponse `json:"user"`
	AccessToken      string       `json:"access_token"`
	RefreshToken     string       `json:"refresh_token"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RefreshExpiresAt time.Time    `json:"refresh_expires_at"`
}

// RefreshTokenRequest representa os dados para renovação de token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// MeResponse traz o usuário autenticado e o escopo de acesso atual
type MeResponse struct {
	User  UserResponse   `json:"user"`
	Scope access.Summary `json:"scope"`
}
