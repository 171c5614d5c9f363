package places

import (
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/middleware"
	"travelbook/internal/users"

	"github.com/gin-gonic/gin"
)

func SetupPlaceRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	public := router.Group("/places")
	{
		public.GET("", controller.ListPlaces)
		public.GET("/search/nearby", controller.SearchNearby)
		public.GET("/:id", controller.GetPlace)
	}

	authed := router.Group("/places")
	authed.Use(middleware.JWTAuthWithConfig(cfg))
	{
		authed.POST("/:id/reviews", controller.AddReview)

		// the destination catalog is curated by admins
		manage := authed.Group("")
		manage.Use(middleware.RequireRoles(users.RoleAdmin.String()))
		{
			manage.POST("", controller.CreatePlace)
			manage.PUT("/:id", controller.UpdatePlace)
			manage.DELETE("/:id", controller.DeletePlace)
		}
	}
}
