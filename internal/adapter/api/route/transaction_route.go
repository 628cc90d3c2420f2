package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/controller"
)

// SetupTransactionRoutes configura o livro de transações e as estatísticas
func SetupTransactionRoutes(router *gin.RouterGroup, transactionController *controller.TransactionController) {
	transactionRouter := router.Group("/transactions")
	{
		transactionRouter.GET("", transactionController.List)
		transactionRouter.GET("/:id", transactionController.GetByID)
	}

	router.GET("/statistics/branches", transactionController.Statistics)
}
