package users

import (
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

type Router struct {
	controller *Controller
	config     *config.Config
}

func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{controller: controller, config: cfg}
}

// SetupRoutes registers profile and saved-item routes. /users/trips is owned by bookings.
func (r *Router) SetupRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.JWTAuthWithConfig(r.config))
	{
		users.GET("/profile", r.controller.GetProfile)
		users.PUT("/profile", r.controller.UpdateProfile)

		users.GET("/saved-items", r.controller.ListSavedItems)
		users.POST("/saved-items", r.controller.SaveItem)
		users.DELETE("/saved-items/:itemId", r.controller.RemoveSavedItem)
	}
}
