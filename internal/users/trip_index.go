package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TripIndex is the denormalized list of bookings attached to a user.
// Entries are only ever appended.
type TripIndex interface {
	AppendTrip(ctx context.Context, userID, bookingID uuid.UUID) error
	ListTrips(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	HasTrip(ctx context.Context, userID, bookingID uuid.UUID) (bool, error)
	// WithTx binds the index to an open transaction
	WithTx(tx *gorm.DB) TripIndex
}

type tripIndex struct {
	db *gorm.DB
}

func NewTripIndex(db *gorm.DB) TripIndex {
	return &tripIndex{db: db}
}

func (t *tripIndex) WithTx(tx *gorm.DB) TripIndex {
	return &tripIndex{db: tx}
}

func (t *tripIndex) AppendTrip(ctx context.Context, userID, bookingID uuid.UUID) error {
	entry := TripEntry{UserID: userID, BookingID: bookingID}
	err := t.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to append trip %s for user %s: %w", bookingID, userID, err)
	}
	return nil
}

func (t *tripIndex) ListTrips(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := t.db.WithContext(ctx).
		Model(&TripEntry{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("booking_id", &ids).Error
	return ids, err
}

func (t *tripIndex) HasTrip(ctx context.Context, userID, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := t.db.WithContext(ctx).
		Model(&TripEntry{}).
		Where("user_id = ? AND booking_id = ?", userID, bookingID).
		Count(&count).Error
	return count > 0, err
}
