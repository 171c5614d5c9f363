package packages

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

var ErrPackageNotFound = errors.New("package not found")

type Repository interface {
	Create(ctx context.Context, pkg *Package) error
	GetByID(ctx context.Context, id uuid.UUID) (*Package, error)
	Save(ctx context.Context, pkg *Package) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, query PackageListQuery) ([]Package, int64, error)
	AddReview(ctx context.Context, id uuid.UUID, review Review) (*Package, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, pkg *Package) error {
	return r.db.WithContext(ctx).Create(pkg).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Package, error) {
	var pkg Package
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

func (r *repository) Save(ctx context.Context, pkg *Package) error {
	return r.db.WithContext(ctx).Save(pkg).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Package{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPackageNotFound
	}
	return nil
}

func (r *repository) List(ctx context.Context, query PackageListQuery) ([]Package, int64, error) {
	var pkgs []Package
	var totalCount int64

	query.normalize()
	db := r.db.WithContext(ctx).Model(&Package{})

	if query.Destination != "" {
		db = db.Where("LOWER(destination) LIKE ?", "%"+strings.ToLower(query.Destination)+"%")
	}
	if query.MinPrice > 0 {
		db = db.Where("price >= ?", query.MinPrice)
	}
	if query.MaxPrice > 0 {
		db = db.Where("price <= ?", query.MaxPrice)
	}
	if query.Difficulty != "" {
		db = db.Where("difficulty = ?", query.Difficulty)
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := db.Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&pkgs).Error

	return pkgs, totalCount, err
}

// AddReview appends a review and recomputes the mean rating under a row lock
func (r *repository) AddReview(ctx context.Context, id uuid.UUID, review Review) (*Package, error) {
	var pkg Package
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&pkg).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPackageNotFound
			}
			return err
		}

		if review.Date.IsZero() {
			review.Date = time.Now().UTC()
		}
		pkg.Reviews = append(pkg.Reviews, review)
		pkg.Rating = averageRating(pkg.Reviews)

		if err := tx.Model(&pkg).Select("reviews", "rating", "updated_at").Updates(&pkg).Error; err != nil {
			return fmt.Errorf("failed to store review: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &pkg, nil
}
