package auth

import (
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes mounts the credential endpoints under /auth. Token
// issuing routes are open; account routes need an access token.
func SetupAuthRoutes(router *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	group := router.Group("/auth")

	group.POST("/register", controller.Register)
	group.POST("/login", controller.Login)
	group.POST("/refresh", controller.RefreshToken)
	group.POST("/logout", controller.Logout)

	account := group.Group("", middleware.JWTAuthWithConfig(cfg))
	account.GET("/me", controller.GetMe)
	account.PUT("/change-password", controller.ChangePassword)
}
