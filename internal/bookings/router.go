package bookings

import (
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/middleware"
	"travelbook/internal/users"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes registers booking, trip and reconcile routes.
// Status and payment role checks live in the service.
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, cfg *config.Config) {
	auth := middleware.JWTAuthWithConfig(cfg)

	bookings := rg.Group("/bookings")
	bookings.Use(auth)
	{
		bookings.POST("", controller.CreateBooking)
		bookings.GET("", controller.ListBookings)
		bookings.GET("/:id", controller.GetBooking)
		bookings.PUT("/:id/status", controller.UpdateStatus)
		bookings.PUT("/:id/payment", controller.UpdatePaymentStatus)
		bookings.PUT("/:id/cancel", controller.CancelBooking)
	}

	trips := rg.Group("/users")
	trips.Use(auth)
	{
		trips.GET("/trips", controller.ListTrips)
	}

	admin := rg.Group("/admin/bookings")
	admin.Use(auth, middleware.RequireRoles(users.RoleAdmin.String()))
	{
		admin.POST("/reconcile", controller.Reconcile)
	}
}
