package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"travelbook/internal/users"

	"gorm.io/gorm"
)

// Repository reads and writes accounts for the credential flows. Profile
// edits live in the users package.
type Repository interface {
	Create(ctx context.Context, user *users.User) error
	FindByEmail(ctx context.Context, email string) (*users.User, error)
	FindByID(ctx context.Context, id string) (*users.User, error)
	SetPassword(ctx context.Context, id string, hash string) error
	// TakenField reports "email" or "phone" when either is already
	// registered, or "" when both are free.
	TakenField(ctx context.Context, email, phone string) (string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create relies on the unique indexes to catch a registration that raced
// past TakenField.
func (r *repository) Create(ctx context.Context, user *users.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *repository) FindByID(ctx context.Context, id string) (*users.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *repository) findOne(ctx context.Context, cond string, arg any) (*users.User, error) {
	var user users.User
	err := r.db.WithContext(ctx).Where(cond, arg).Take(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (r *repository) SetPassword(ctx context.Context, id string, hash string) error {
	res := r.db.WithContext(ctx).Model(&users.User{}).
		Where("id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) TakenField(ctx context.Context, email, phone string) (string, error) {
	var hits []struct {
		Email string
		Phone string
	}
	email = strings.ToLower(email)
	err := r.db.WithContext(ctx).Model(&users.User{}).
		Select("email", "phone").
		Where("email = ? OR phone = ?", email, phone).
		Limit(2).
		Scan(&hits).Error
	if err != nil {
		return "", fmt.Errorf("failed to check existing accounts: %w", err)
	}
	for _, h := range hits {
		if h.Email == email {
			return "email", nil
		}
	}
	if len(hits) > 0 {
		return "phone", nil
	}
	return "", nil
}
