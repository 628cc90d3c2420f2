package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/controller"
)

// SetupItemRoutes configura itens e movimentações. idempotent envolve apenas
// as movimentações de estoque.
func SetupItemRoutes(router *gin.RouterGroup, itemController *controller.ItemController, idempotent gin.HandlerFunc) {
	itemRouter := router.Group("/items")
	{
		itemRouter.POST("", itemController.Create)
		itemRouter.GET("", itemController.List)
		itemRouter.GET("/scan", itemController.Scan)
		itemRouter.GET("/:id", itemController.GetByID)
		itemRouter.PATCH("/:id", itemController.Update)
		itemRouter.DELETE("/:id", itemController.Delete)

		itemRouter.PUT("/:id/original-stock", itemController.UpdateOriginalStock)
		itemRouter.PUT("/:id/hold", itemController.SetHold)
		itemRouter.DELETE("/:id/hold", itemController.ClearHold)

		movements := itemRouter.Group("/:id")
		movements.Use(idempotent)
		{
			movements.POST("/withdraw", itemController.Withdraw)
			movements.POST("/return", itemController.Return)
			movements.POST("/add-stock", itemController.AddStock)
			movements.POST("/remove-stock", itemController.RemoveStock)
		}
	}
}
