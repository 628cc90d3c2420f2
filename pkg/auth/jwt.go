package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hugohenrick/erp-estoque/internal/config"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

// Erros específicos
var (
	ErrInvalidToken   = errors.New("token inválido")
	ErrExpiredToken   = errors.New("token expirado")
	ErrWrongTokenType = errors.New("tipo de token incorreto")
	ErrMissingJWTKey  = errors.New("chave secreta JWT não configurada")
)

// TokenType distingue tokens de acesso de tokens de renovação
type TokenType string

const (
	TokenAccess  TokenType = "access"
	TokenRefresh TokenType = "refresh"
)

// Claims são as claims do token. O escopo de acesso não vai no token:
// é recalculado a cada requisição a partir dos vínculos atuais.
type Claims struct {
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair é o par emitido no login
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresAt        time.Time `json:"expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// JWTService emite e valida tokens JWT assinados com HS256
type JWTService struct {
	secretKey         []byte
	issuer            string
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	now               func() time.Time
}

// NewJWTService cria o serviço a partir da configuração
func NewJWTService(cfg config.JWTConfig) (*JWTService, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingJWTKey
	}

	access := cfg.AccessExpiration
	if access <= 0 {
		access = 24 * time.Hour
	}
	refresh := cfg.RefreshExpiration
	if refresh <= 0 {
		refresh = 7 * 24 * time.Hour
	}

	return &JWTService{
		secretKey:         []byte(cfg.SecretKey),
		issuer:            cfg.Issuer,
		accessExpiration:  access,
		refreshExpiration: refresh,
		now:               time.Now,
	}, nil
}

// GenerateTokenPair gera os tokens de acesso e de renovação do usuário
func (s *JWTService) GenerateTokenPair(u *user.User) (*TokenPair, error) {
	now := s.now()

	access, accessExp, err := s.sign(u, TokenAccess, now, s.accessExpiration)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.sign(u, TokenRefresh, now, s.refreshExpiration)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresAt:        accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *JWTService) sign(u *user.User, kind TokenType, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID:    u.ID,
		Username:  u.Username,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   u.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken valida assinatura, validade e tipo do token
func (s *JWTService) ValidateToken(tokenString string, expected TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verificar o método de assinatura
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expected {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}
