package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/dto"
	"github.com/hugohenrick/erp-estoque/internal/domain/access"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
	"github.com/hugohenrick/erp-estoque/pkg/auth"
)

// ScopeKey é a chave do escopo de acesso no contexto do gin
const ScopeKey = "access_scope"

// ScopeMiddleware recalcula o escopo de acesso do usuário autenticado a cada
// requisição, para que mudanças de vínculo valham imediatamente.
// Deve rodar depois de auth.JWTAuthMiddleware.
func ScopeMiddleware(tenancySvc *tenancy.Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userID := auth.GetUserID(ctx)
		if userID == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, "Não autenticado", ""))
			return
		}

		scope, err := tenancySvc.ComputeAccessScope(ctx.Request.Context(), userID)
		if err != nil {
			status, body := dto.FromError(err)
			if status == http.StatusNotFound || status == http.StatusForbidden {
				status = http.StatusUnauthorized
				body.Code = status
			}
			ctx.AbortWithStatusJSON(status, body)
			return
		}

		ctx.Set(ScopeKey, scope)
		ctx.Next()
	}
}

// currentScope devolve o escopo definido pelo ScopeMiddleware. Sem ele o
// escopo vazio não enxerga nada.
func currentScope(ctx *gin.Context) access.Scope {
	if v, ok := ctx.Get(ScopeKey); ok {
		if scope, ok := v.(access.Scope); ok {
			return scope
		}
	}
	return access.Scope{}
}

func respondError(ctx *gin.Context, err error) {
	status, body := dto.FromError(err)
	ctx.JSON(status, body)
}

func badRequest(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(http.StatusBadRequest, "Requisição inválida", err.Error()))
}

// pagination lê page e page_size da query
func pagination(ctx *gin.Context) dto.PaginationParams {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	return dto.GetPagination(page, pageSize)
}
