package bookings

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"travelbook/pkg/logger"

	"github.com/google/uuid"
)

const defaultReconcileBatchSize = 200

// TripAppender is the write side of the trip index
type TripAppender interface {
	AppendTrip(ctx context.Context, userID, bookingID uuid.UUID) error
}

// Reconciler backfills trip index entries for bookings stored without one.
// Appends are idempotent so repeated runs are safe.
type Reconciler struct {
	repo      Repository
	trips     TripAppender
	batchSize int
}

func NewReconciler(repo Repository, trips TripAppender, batchSize int) *Reconciler {
	if batchSize <= 0 {
		batchSize = defaultReconcileBatchSize
	}
	return &Reconciler{repo: repo, trips: trips, batchSize: batchSize}
}

// Run makes one pass over every booking missing from its trip index.
// The pass walks forward by (created_at, id), so each booking is examined at
// most once and rows that keep failing cannot hide newer ones.
func (r *Reconciler) Run(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	var cursor *TripCursor
	log := logger.GetDefault().WithComponent("trip_reconciler")

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		batch, err := r.repo.FindMissingTrips(ctx, cursor, r.batchSize)
		if err != nil {
			return report, err
		}
		report.Scanned += len(batch)

		for _, b := range batch {
			if err := r.trips.AppendTrip(ctx, b.UserID, b.ID); err != nil {
				report.Failed++
				log.Error("failed to repair trip index",
					slog.String("booking_id", b.ID.String()),
					slog.String("user_id", b.UserID.String()),
					slog.Any("error", err),
				)
				continue
			}
			report.Repaired++
			log.LogTripIndexRepaired(ctx, b.ID.String(), b.UserID.String())
		}

		if len(batch) < r.batchSize {
			return report, nil
		}
		last := batch[len(batch)-1]
		cursor = &TripCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
}

// JobProcessor runs the reconciler on an interval
type JobProcessor struct {
	reconciler *Reconciler
	interval   time.Duration
	done       chan struct{}
	stopOnce   sync.Once
}

func NewJobProcessor(reconciler *Reconciler, interval time.Duration) *JobProcessor {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &JobProcessor{
		reconciler: reconciler,
		interval:   interval,
		done:       make(chan struct{}),
	}
}

// Start runs one pass immediately, then one per interval
func (jp *JobProcessor) Start(ctx context.Context) {
	go jp.loop(ctx)
	logger.GetDefault().Info("trip reconcile job started", slog.Duration("interval", jp.interval))
}

// Stop is safe to call more than once
func (jp *JobProcessor) Stop() {
	jp.stopOnce.Do(func() {
		close(jp.done)
		logger.GetDefault().Info("trip reconcile job stopped")
	})
}

func (jp *JobProcessor) loop(ctx context.Context) {
	ticker := time.NewTicker(jp.interval)
	defer ticker.Stop()

	jp.runOnce(ctx)
	for {
		select {
		case <-ticker.C:
			jp.runOnce(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) runOnce(ctx context.Context) {
	report, err := jp.reconciler.Run(ctx)
	if err != nil {
		logger.GetDefault().Error("trip reconcile failed", slog.Any("error", err))
		return
	}
	if report.Repaired > 0 || report.Failed > 0 {
		logger.GetDefault().Info("trip reconcile finished",
			slog.Int("scanned", report.Scanned),
			slog.Int("repaired", report.Repaired),
			slog.Int("failed", report.Failed),
		)
	}
}
