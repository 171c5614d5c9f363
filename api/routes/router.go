// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"travelbook/internal/auth"
	"travelbook/internal/bookings"
	"travelbook/internal/notifications"
	"travelbook/internal/packages"
	"travelbook/internal/places"
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/database"
	"travelbook/internal/users"
	"travelbook/pkg/cache"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies
type Router struct {
	config    *config.Config
	db        *database.DB
	publisher notifications.Publisher

	cacheService   cache.Service
	packageService packages.Service // booking pricing reads the catalog through it
	placeService   places.Service   // saved items resolve through it
	tripIndex      users.TripIndex
	reconciler     *bookings.Reconciler
}

// NewRouter creates a new router instance. publisher may be nil.
func NewRouter(cfg *config.Config, db *database.DB, publisher notifications.Publisher) *Router {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	r := &Router{
		config:    cfg,
		db:        db,
		publisher: publisher,
		tripIndex: users.NewTripIndex(db.GetPostgreSQL()),
	}
	if rdb := db.GetRedis(); rdb != nil {
		r.cacheService = cache.NewService(rdb)
	}
	return r
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupAuthRoutes(api)

		// places before users, saved items point at places
		r.setupPlaceRoutes(api)
		r.setupUserRoutes(api)

		// packages before bookings, bookings resolve prices through the catalog
		r.setupPackageRoutes(api)
		r.setupBookingRoutes(api)
	}
}

// Reconciler is available once SetupRoutes has run
func (r *Router) Reconciler() *bookings.Reconciler {
	return r.reconciler
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "travelbook-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "travelbook-backend",
			"cache":     r.cacheService != nil,
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}

// setupAuthRoutes configures authentication routes
func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authService := auth.NewService(auth.NewRepository(r.db.GetPostgreSQL()), r.config)
	auth.SetupAuthRoutes(rg, auth.NewController(authService), r.config)
}

// setupUserRoutes configures profile and saved item routes
func (r *Router) setupUserRoutes(rg *gin.RouterGroup) {
	userRepo := users.NewRepository(r.db.GetPostgreSQL())
	userService := users.NewService(userRepo, places.NewDirectoryAdapter(r.placeService), r.cacheService)
	userController := users.NewController(userService)
	users.NewRouter(userController, r.config).SetupRoutes(rg)
}

// setupPlaceRoutes configures the destination catalog routes
func (r *Router) setupPlaceRoutes(rg *gin.RouterGroup) {
	placeRepo := places.NewRepository(r.db.GetPostgreSQL())
	placeService := places.NewService(placeRepo)
	if r.cacheService != nil {
		placeService.SetCacheService(r.cacheService)
	}
	r.placeService = placeService

	places.SetupPlaceRoutes(rg, places.NewController(placeService), r.config)
}

// setupPackageRoutes configures the package catalog routes
func (r *Router) setupPackageRoutes(rg *gin.RouterGroup) {
	packageRepo := packages.NewRepository(r.db.GetPostgreSQL())
	packageService := packages.NewService(packageRepo)
	if r.cacheService != nil {
		packageService.SetCacheService(r.cacheService)
	}
	r.packageService = packageService

	packages.SetupPackageRoutes(rg, packages.NewController(packageService), r.config)
}

// setupBookingRoutes configures booking, trip and reconcile routes
func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL(), r.tripIndex)
	bookingService := bookings.NewService(bookingRepo, r.tripIndex, r.packageService, r.publisher)
	r.reconciler = bookings.NewReconciler(bookingRepo, r.tripIndex, r.config.Jobs.TripReconcileBatchSize)

	bookings.SetupBookingRoutes(rg, bookings.NewController(bookingService, r.reconciler), r.config)
}
