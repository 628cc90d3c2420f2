package route

import (
	"github.com/gin-gonic/gin"
	"github.com/hugohenrick/erp-estoque/internal/adapter/api/controller"
)

// SetupCompanyRoutes configura empresas, filiais, vínculos e categorias
func SetupCompanyRoutes(router *gin.RouterGroup, companyController *controller.CompanyController, userController *controller.UserController) {
	companyRouter := router.Group("/companies")
	{
		companyRouter.POST("", companyController.Create)
		companyRouter.GET("", companyController.List)
		companyRouter.GET("/:id", companyController.GetByID)

		companyRouter.POST("/:id/branches", companyController.CreateBranch)
		companyRouter.GET("/:id/branches", companyController.ListBranches)

		companyRouter.POST("/:id/memberships", companyController.AddMembership)
		companyRouter.GET("/:id/memberships", companyController.ListMemberships)

		companyRouter.POST("/:id/categories", companyController.CreateCategory)
		companyRouter.GET("/:id/categories", companyController.ListCategories)

		companyRouter.POST("/:id/users", userController.CreateCompanyUser)
	}

	branchRouter := router.Group("/branches")
	{
		branchRouter.GET("", companyController.ListVisibleBranches)
		branchRouter.GET("/:id", companyController.GetBranch)
		branchRouter.PATCH("/:id", companyController.UpdateBranch)
	}

	router.PUT("/memberships/:id", companyController.UpdateMembership)
	router.DELETE("/memberships/:id", companyController.RemoveMembership)
	router.DELETE("/categories/:id", companyController.DeleteCategory)
}
