package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/controller"
	"github.com/hugohenrick/erp-estoque/internal/service/ledger"
	"github.com/hugohenrick/erp-estoque/internal/service/tenancy"
	"github.com/hugohenrick/erp-estoque/pkg/auth"
	"github.com/hugohenrick/erp-estoque/pkg/idempotency"
	"github.com/hugohenrick/erp-estoque/pkg/logger"
)

// Dependencies reúne o que as rotas precisam. Guard pode ser nil.
type Dependencies struct {
	Tenancy    *tenancy.Service
	Ledger     *ledger.Service
	JWTService *auth.JWTService
	Guard      idempotency.Guard
	Logger     logger.Logger
}

// SetupRoutes registra todas as rotas da API sob o grupo informado
func SetupRoutes(api *gin.RouterGroup, deps Dependencies) {
	authController := controller.NewAuthController(deps.Tenancy, deps.JWTService)
	userController := controller.NewUserController(deps.Tenancy)
	companyController := controller.NewCompanyController(deps.Tenancy)
	itemController := controller.NewItemController(deps.Ledger)
	transactionController := controller.NewTransactionController(deps.Ledger)

	authenticated := []gin.HandlerFunc{
		auth.JWTAuthMiddleware(deps.JWTService),
		controller.ScopeMiddleware(deps.Tenancy),
	}

	SetupAuthRoutes(api, authController, authenticated...)

	protected := api.Group("")
	protected.Use(authenticated...)
	{
		SetupUserRoutes(protected, userController)
		SetupCompanyRoutes(protected, companyController, userController)
		SetupItemRoutes(protected, itemController, idempotency.Middleware(deps.Guard, deps.Logger))
		SetupTransactionRoutes(protected, transactionController)
	}
}
