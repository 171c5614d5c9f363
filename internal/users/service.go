package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"travelbook/internal/shared/constants"
	"travelbook/pkg/cache"
	"travelbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound = errors.New("saved item does not exist")
	ErrInvalidName  = errors.New("name cannot be empty")
)

// PlaceDirectory resolves saved item ids against the destination catalog
type PlaceDirectory interface {
	PlaceExists(ctx context.Context, id uuid.UUID) (bool, error)
	SavedPlaces(ctx context.Context, ids []uuid.UUID) ([]SavedPlace, error)
}

type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error)

	SaveItem(ctx context.Context, userID, itemID uuid.UUID) error
	UnsaveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ListSavedItems(ctx context.Context, userID uuid.UUID) ([]SavedPlace, error)
}

type service struct {
	repo         Repository
	places       PlaceDirectory
	cacheService cache.Service
}

// NewService builds the profile service. cacheService may be nil.
func NewService(repo Repository, places PlaceDirectory, cacheService cache.Service) Service {
	return &service{repo: repo, places: places, cacheService: cacheService}
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResponse, error) {
	key := constants.BuildUserProfileKey(userID.String())
	if s.cacheService != nil {
		var cached ProfileResponse
		if err := s.cacheService.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToProfileResponse(user)

	if s.cacheService != nil {
		if err := s.cacheService.Set(ctx, key, resp, constants.TTL_USER_PROFILE); err != nil {
			logger.GetDefault().Warn("failed to cache profile", slog.String("user_id", userID.String()), slog.Any("error", err))
		}
	}
	return &resp, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileResponse, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		updates["name"] = name
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if len(updates) == 0 {
		return s.GetProfile(ctx, userID)
	}

	user, err := s.repo.UpdateProfile(ctx, userID, updates)
	if err != nil {
		return nil, err
	}
	if s.cacheService != nil {
		if err := s.cacheService.Delete(ctx, constants.BuildUserProfileKey(userID.String())); err != nil {
			logger.GetDefault().Warn("failed to drop cached profile", slog.String("user_id", userID.String()), slog.Any("error", err))
		}
	}
	resp := ToProfileResponse(user)
	return &resp, nil
}

func (s *service) SaveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	exists, err := s.places.PlaceExists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to look up place %s: %w", itemID, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	return s.repo.AddSavedItem(ctx, userID, itemID)
}

func (s *service) UnsaveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.repo.RemoveSavedItem(ctx, userID, itemID)
}

// ListSavedItems returns saved places newest first. Places deleted from the
// catalog since they were saved are left out.
func (s *service) ListSavedItems(ctx context.Context, userID uuid.UUID) ([]SavedPlace, error) {
	items, err := s.repo.ListSavedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []SavedPlace{}, nil
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ItemID)
	}
	return s.places.SavedPlaces(ctx, ids)
}
