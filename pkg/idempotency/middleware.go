package idempotency

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
)

// Header é o cabeçalho que carrega a chave escolhida pelo cliente
const Header = "Idempotency-Key"

// maxKeyLength limita o tamanho da chave guardada no Redis
const maxKeyLength = 128

// Middleware aplica o guard às rotas de movimentação. Sem o cabeçalho, ou
// com guard nil, a requisição segue normalmente. Respostas de erro liberam
// a chave para que o cliente possa tentar de novo.
func Middleware(guard Guard, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(Header)
		if guard == nil || key == "" {
			c.Next()
			return
		}

		if len(key) > maxKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				http.StatusBadRequest,
				"Idempotency-Key inválida",
				"A chave deve ter no máximo 128 caracteres",
			))
			return
		}

		userID := c.GetString("user_id")
		ok, err := guard.Claim(c.Request.Context(), userID, key)
		if err != nil {
			log.Error("erro ao verificar idempotência", "error", err.Error(), "user_id", userID)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				http.StatusServiceUnavailable,
				"Verificação de idempotência indisponível",
				"",
			))
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponse(
				http.StatusConflict,
				"Requisição repetida",
				"Esta Idempotency-Key já foi usada",
			))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := guard.Release(c.Request.Context(), userID, key); err != nil {
				log.Warn("não foi possível liberar chave de idempotência", "error", err.Error(), "user_id", userID)
			}
		}
	}
}
