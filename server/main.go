package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelbook/api/routes"
	_ "travelbook/docs"
	"travelbook/internal/auth"
	"travelbook/internal/bookings"
	"travelbook/internal/notifications"
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/database"
	"travelbook/pkg/logger"
	"travelbook/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title                      travelbook API
// @version                    1.0
// @description                Travel package marketplace: catalog, bookings and trip history.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rl := cfg.RateLimit
		rateLimiter = ratelimit.NewRateLimiter(db.GetRedis(), &ratelimit.Config{
			Enabled:      rl.Enabled,
			Window:       rl.WindowDuration,
			DefaultLimit: rl.DefaultRequests,
			Limits: map[ratelimit.RateLimitType]int{
				ratelimit.RateLimitTypePublic:          rl.PublicRequests,
				ratelimit.RateLimitTypeAuth:            rl.AuthRequests,
				ratelimit.RateLimitTypeBooking:         rl.BookingRequests,
				ratelimit.RateLimitTypeBookingCritical: rl.BookingCriticalRequests,
				ratelimit.RateLimitTypeAdmin:           rl.AdminRequests,
				ratelimit.RateLimitTypeUser:            rl.UserRequests,
				ratelimit.RateLimitTypeHealth:          rl.HealthRequests,
			},
			WhitelistedIPs: rl.WhitelistedIPs,
		})
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	publisher := newPublisher(cfg, appLogger)
	defer publisher.Close()

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if consumer := startConsumer(bgCtx, cfg, db, appLogger); consumer != nil {
		defer func() {
			if err := consumer.Stop(); err != nil {
				appLogger.Error("Error stopping booking event consumer", slog.Any("error", err))
			}
		}()
	}

	appRouter := routes.NewRouter(cfg, db, publisher)
	router := setupRouter(appRouter, rateLimiter)

	if cfg.Jobs.TripReconcileEnabled {
		job := bookings.NewJobProcessor(appRouter.Reconciler(), cfg.Jobs.TripReconcileInterval)
		job.Start(bgCtx)
		defer job.Stop()
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("kafka", cfg.Kafka.Enabled),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Server failed", slog.Any("error", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Forced shutdown", slog.Any("error", err))
	}

	appLogger.Info("Server exited gracefully")
}

// newPublisher falls back to logging events when Kafka is off or unreachable
func newPublisher(cfg *config.Config, l *logger.Logger) notifications.Publisher {
	if !cfg.Kafka.Enabled {
		l.Info("Kafka disabled, booking events will only be logged")
		return notifications.NoopPublisher{}
	}

	producerCfg := notifications.DefaultKafkaProducerConfig()
	producerCfg.Brokers = cfg.Kafka.Brokers
	producerCfg.Topic = cfg.Kafka.BookingEventsTopic

	publisher, err := notifications.NewKafkaPublisher(producerCfg)
	if err != nil {
		l.Error("Failed to create Kafka producer, booking events will only be logged", slog.Any("error", err))
		return notifications.NoopPublisher{}
	}
	return publisher
}

func startConsumer(ctx context.Context, cfg *config.Config, db *database.DB, l *logger.Logger) *notifications.KafkaConsumer {
	if !cfg.Kafka.Enabled {
		return nil
	}

	consumerCfg := notifications.DefaultConsumerConfig()
	consumerCfg.Brokers = cfg.Kafka.Brokers
	consumerCfg.GroupID = cfg.Kafka.ConsumerGroupID
	consumerCfg.Topics = []string{cfg.Kafka.BookingEventsTopic}

	recipients := auth.NewRecipientAdapter(auth.NewRepository(db.GetPostgreSQL()))
	handler := notifications.NewMailHandler(recipients, notifications.NewMailSender(cfg.Email))

	consumer, err := notifications.NewKafkaConsumer(consumerCfg, handler)
	if err != nil {
		l.Error("Failed to start booking event consumer", slog.Any("error", err))
		return nil
	}
	consumer.Start(ctx, cfg.Kafka.NumConsumerWorkers)
	l.Info("Booking event consumer started", slog.Int("workers", cfg.Kafka.NumConsumerWorkers))
	return consumer
}

func setupRouter(appRouter *routes.Router, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(RequestLoggerMiddleware(appLogger), gin.Recovery())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	appRouter.SetupRoutes(engine)
	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
