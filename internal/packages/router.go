package packages

import (
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/middleware"
	"travelbook/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupPackageRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	// browsing is public
	public := router.Group("/packages")
	{
		public.GET("", controller.ListPackages)
		public.GET("/:id", controller.GetPackage)
	}

	authed := router.Group("/packages")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("/:id/reviews", controller.AddReview)

		// ownership is checked in the service
		manage := authed.Group("")
		manage.Use(middleware.RequireRoles(users.RoleAgency.String(), users.RoleAdmin.String()))
		{
			manage.POST("", controller.CreatePackage)
			manage.PUT("/:id", controller.UpdatePackage)
			manage.DELETE("/:id", controller.DeletePackage)
		}
	}
}
