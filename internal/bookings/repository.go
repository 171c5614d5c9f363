package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travelbook/internal/users"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	// CreateWithTrip stores the booking and appends it to the owner's trip
	// index in one transaction
	CreateWithTrip(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, int64, error)

	// UpdateStatus only applies when the stored status still equals from
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, cancelledAt *time.Time) error
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to PaymentStatus) error

	// FindMissingTrips returns bookings absent from their owner's trip index,
	// oldest first, strictly after the cursor when one is given
	FindMissingTrips(ctx context.Context, after *TripCursor, limit int) ([]Booking, error)
}

// TripCursor is the position of the last booking a reconcile pass examined
type TripCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

type repository struct {
	db    *gorm.DB
	trips users.TripIndex
}

func NewRepository(db *gorm.DB, trips users.TripIndex) Repository {
	return &repository{db: db, trips: trips}
}

func (r *repository) CreateWithTrip(ctx context.Context, booking *Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return r.trips.WithTx(tx).AppendTrip(ctx, booking.UserID, booking.ID)
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking %s", ErrNotFound, id)
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Booking, error) {
	if len(ids) == 0 {
		return []Booking{}, nil
	}
	var bookings []Booking
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	query.normalize()

	db := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var bookings []Booking
	offset := (query.Page - 1) * query.Limit
	err := db.Order("created_at DESC").Offset(offset).Limit(query.Limit).Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status, cancelledAt *time.Time) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now().UTC(),
	}
	if cancelledAt != nil {
		updates["cancelled_at"] = *cancelledAt
	}

	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update booking status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %s is no longer %s", ErrInvalidTransition, id, from)
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, to PaymentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"payment_status": to,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update payment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: booking %s", ErrNotFound, id)
	}
	return nil
}

func (r *repository) FindMissingTrips(ctx context.Context, after *TripCursor, limit int) ([]Booking, error) {
	var bookings []Booking
	db := r.db.WithContext(ctx).
		Model(&Booking{}).
		Select("bookings.*").
		Joins("LEFT JOIN user_trips ut ON ut.booking_id = bookings.id AND ut.user_id = bookings.user_id").
		Where("ut.booking_id IS NULL")
	if after != nil {
		db = db.Where("(bookings.created_at, bookings.id) > (?, ?)", after.CreatedAt, after.ID)
	}
	err := db.Order("bookings.created_at ASC, bookings.id ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan trip index: %w", err)
	}
	return bookings, nil
}
