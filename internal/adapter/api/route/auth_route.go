package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/controller"
)

// SetupAuthRoutes configura as rotas para autenticação
func SetupAuthRoutes(router *gin.RouterGroup, authController *controller.AuthController, protected ...gin.HandlerFunc) {
	authRouter := router.Group("/auth")
	{
		// Rotas públicas
		authRouter.POST("/login", authController.Login)
		authRouter.POST("/login/token", authController.LoginWithToken)
		authRouter.POST("/register", authController.Register)
		authRouter.POST("/refresh-token", authController.RefreshToken)

		authRouter.GET("/me", append(protected, authController.Me)...)
	}
}
