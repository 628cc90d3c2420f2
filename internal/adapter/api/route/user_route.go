package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/controller"
)

// SetupUserRoutes configura as rotas para o módulo de usuários
func SetupUserRoutes(router *gin.RouterGroup, userController *controller.UserController) {
	userRouter := router.Group("/users")
	{
		userRouter.POST("", userController.Create)
		userRouter.GET("", userController.List)
		userRouter.GET("/:id", userController.GetByID)
		userRouter.PATCH("/:id", userController.Update)
		userRouter.DELETE("/:id", userController.Deactivate)
		userRouter.POST("/:id/login-token", userController.RotateLoginToken)
		userRouter.PUT("/me/password", userController.ChangePassword)
	}
}
