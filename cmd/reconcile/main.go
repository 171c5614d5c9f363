package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"travelbook/internal/bookings"
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/database"
	"travelbook/internal/users"
	"travelbook/pkg/logger"

	"github.com/joho/godotenv"
)

// reconcile runs one trip index repair pass and exits non-zero if any
// booking could not be repaired
func main() {
	os.Exit(run())
}

func run() int {
	appLogger := logger.GetDefault()
	_ = godotenv.Load()

	cfg := config.Load()
	db, err := database.InitDB(cfg)
	if err != nil {
		appLogger.Error("failed to connect", slog.Any("error", err))
		return 1
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	trips := users.NewTripIndex(db.GetPostgreSQL())
	reconciler := bookings.NewReconciler(
		bookings.NewRepository(db.GetPostgreSQL(), trips),
		trips,
		cfg.Jobs.TripReconcileBatchSize,
	)

	report, err := reconciler.Run(ctx)
	if err != nil {
		appLogger.Error("trip reconcile failed", slog.Any("error", err))
		return 1
	}

	appLogger.Info("trip reconcile finished",
		slog.Int("scanned", report.Scanned),
		slog.Int("repaired", report.Repaired),
		slog.Int("failed", report.Failed),
	)
	if report.Failed > 0 {
		return 2
	}
	return 0
}
