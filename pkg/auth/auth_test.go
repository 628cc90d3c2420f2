package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/config"
	"github.com/hugohenrick/erp-estoque/internal/domain/user"
)

func newService(t *testing.T) *JWTService {
	t.Helper()
	s, err := NewJWTService(config.JWTConfig{
		SecretKey:         "segredo-de-teste",
		Issuer:            "teste",
		AccessExpiration:  time.Hour,
		RefreshExpiration: 24 * time.Hour,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func testUser() *user.User {
	return &user.User{ID: "11111111-1111-1111-1111-111111111111", Username: "ana", IsActive: true}
}

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	if _, err := NewJWTService(config.JWTConfig{}); !errors.Is(err, ErrMissingJWTKey) {
		t.Fatalf("esperava ErrMissingJWTKey, obteve %v", err)
	}
}

func TestTokenPairRoundTrip(t *testing.T) {
	s := newService(t)
	pair, err := s.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatal(err)
	}

	claims, err := s.ValidateToken(pair.AccessToken, TokenAccess)
	if err != nil {
		t.Fatalf("token de acesso deveria ser válido: %v", err)
	}
	if claims.UserID != testUser().ID || claims.Username != "ana" {
		t.Fatalf("claims inesperadas: %+v", claims)
	}

	if _, err := s.ValidateToken(pair.RefreshToken, TokenAccess); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("refresh não pode ser usado como acesso, obteve %v", err)
	}
	if _, err := s.ValidateToken(pair.AccessToken, TokenRefresh); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("acesso não pode ser usado como refresh, obteve %v", err)
	}
	if !pair.RefreshExpiresAt.After(pair.ExpiresAt) {
		t.Fatalf("refresh deveria expirar depois do acesso")
	}
}

func TestExpiredAndTamperedTokens(t *testing.T) {
	s := newService(t)
	pair, err := s.GenerateTokenPair(testUser())
	if err != nil {
		t.Fatal(err)
	}

	s.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := s.ValidateToken(pair.AccessToken, TokenAccess); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("esperava ErrExpiredToken, obteve %v", err)
	}

	other, _ := NewJWTService(config.JWTConfig{SecretKey: "outro-segredo"})
	if _, err := other.ValidateToken(pair.RefreshToken, TokenRefresh); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("assinatura de outra chave deveria ser rejeitada, obteve %v", err)
	}
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newService(t)
	pair, _ := s.GenerateTokenPair(testUser())

	router := gin.New()
	router.GET("/me", JWTAuthMiddleware(s), func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"sem cabeçalho", "", http.StatusUnauthorized},
		{"formato errado", "Token " + pair.AccessToken, http.StatusUnauthorized},
		{"token de refresh", "Bearer " + pair.RefreshToken, http.StatusUnauthorized},
		{"token válido", "Bearer " + pair.AccessToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("esperava %d, obteve %d (%s)", tt.status, w.Code, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != testUser().ID {
				t.Fatalf("user_id não propagado: %q", w.Body.String())
			}
		})
	}
}
