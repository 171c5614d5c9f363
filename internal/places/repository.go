package places

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPlaceNotFound = errors.New("place not found")

type Repository interface {
	Create(ctx context.Context, place *Place) error
	GetByID(ctx context.Context, id uuid.UUID) (*Place, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Place, error)
	Save(ctx context.Context, place *Place) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query PlaceListQuery) ([]Place, int64, error)
	// FindWithin returns places inside the box, unordered
	FindWithin(ctx context.Context, box BoundingBox) ([]Place, error)
	AddReview(ctx context.Context, id uuid.UUID, review Review) (*Place, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, place *Place) error {
	return r.db.WithContext(ctx).Create(place).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Place, error) {
	var place Place
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&place).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaceNotFound
		}
		return nil, err
	}
	return &place, nil
}

func (r *repository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Place, error) {
	var places []Place
	if len(ids) == 0 {
		return places, nil
	}
	err := r.db.WithContext(ctx).Omit("reviews").Where("id IN ?", ids).Find(&places).Error
	return places, err
}

func (r *repository) Save(ctx context.Context, place *Place) error {
	return r.db.WithContext(ctx).Save(place).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Place{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPlaceNotFound
	}
	return nil
}

// List leaves reviews out; they are only served on the detail route
func (r *repository) List(ctx context.Context, query PlaceListQuery) ([]Place, int64, error) {
	var places []Place
	var totalCount int64

	query.normalize()
	db := r.db.WithContext(ctx).Model(&Place{})

	if query.Country != "" {
		db = db.Where("LOWER(country) LIKE ?", "%"+strings.ToLower(query.Country)+"%")
	}
	if query.State != "" {
		db = db.Where("LOWER(state) LIKE ?", "%"+strings.ToLower(query.State)+"%")
	}
	if query.Category != "" {
		db = db.Where("category = ?", query.Category)
	}
	if query.Featured != nil {
		db = db.Where("featured = ?", *query.Featured)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Omit("reviews").
		Order("rating DESC, created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&places).Error

	return places, totalCount, err
}

func (r *repository) FindWithin(ctx context.Context, box BoundingBox) ([]Place, error) {
	var places []Place
	err := r.db.WithContext(ctx).
		Omit("reviews").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Find(&places).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search places: %w", err)
	}
	return places, nil
}

// AddReview appends a review and recomputes the mean rating under a row lock
func (r *repository) AddReview(ctx context.Context, id uuid.UUID, review Review) (*Place, error) {
	var place Place
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&place).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlaceNotFound
			}
			return err
		}

		if review.Date.IsZero() {
			review.Date = time.Now().UTC()
		}
		place.Reviews = append(place.Reviews, review)
		place.Rating = averageRating(place.Reviews)

		if err := tx.Model(&place).Select("reviews", "rating", "updated_at").Updates(&place).Error; err != nil {
			return fmt.Errorf("failed to store review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &place, nil
}
