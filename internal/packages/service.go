package packages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"travelbook/internal/shared/constants"
	"travelbook/internal/users"
	"travelbook/pkg/cache"
	"travelbook/pkg/logger"

	"github.com/google/uuid"
)

var (
	ErrNotPackageOwner = errors.New("only the owning agency can modify this package")
	ErrInvalidPackage  = errors.New("invalid package")
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreatePackage(ctx context.Context, agencyID uuid.UUID, req CreatePackageRequest) (*Package, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*Package, error)
	ListPackages(ctx context.Context, query PackageListQuery) (*PaginatedPackages, error)
	UpdatePackage(ctx context.Context, actorID uuid.UUID, role users.Role, id uuid.UUID, req UpdatePackageRequest) (*Package, error)
	DeletePackage(ctx context.Context, actorID uuid.UUID, role users.Role, id uuid.UUID) error
	AddReview(ctx context.Context, userID, id uuid.UUID, req AddReviewRequest) (*Package, error)

	// FindByID is the read-only lookup bookings price against
	FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
}

type service struct {
	repo         Repository
	cacheService cache.Service
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) SetCacheService(cacheService cache.Service) {
	s.cacheService = cacheService
}

func (s *service) getCache(ctx context.Context, key string, dest interface{}) error {
	if s.cacheService == nil {
		return cache.ErrCacheMiss
	}
	return s.cacheService.Get(ctx, key, dest)
}

func (s *service) setCache(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.Set(ctx, key, value, ttl); err != nil {
		logger.GetDefault().Warn("failed to cache package data", slog.String("key", key), slog.Any("error", err))
	}
}

// invalidate drops listings and, when id is set, every per-package key
func (s *service) invalidate(ctx context.Context, id *uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	patterns := []string{constants.PATTERN_INVALIDATE_PACKAGES}
	if id != nil {
		patterns = append(patterns, constants.PATTERN_INVALIDATE_PACKAGE+id.String())
	}
	for _, pattern := range patterns {
		if err := s.cacheService.DeletePattern(ctx, pattern); err != nil {
			logger.GetDefault().Warn("failed to invalidate package cache", slog.String("pattern", pattern), slog.Any("error", err))
		}
	}
}

func (s *service) CreatePackage(ctx context.Context, agencyID uuid.UUID, req CreatePackageRequest) (*Package, error) {
	difficulty := Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = DifficultyModerate
	}
	if !difficulty.IsValid() {
		return nil, fmt.Errorf("%w: unknown difficulty %q", ErrInvalidPackage, req.Difficulty)
	}

	pkg := &Package{
		AgencyID:     agencyID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Price:        req.Price,
		Duration:     req.Duration,
		Destination:  strings.TrimSpace(req.Destination),
		Images:       req.Images,
		Itinerary:    req.Itinerary,
		Included:     req.Included,
		Excluded:     req.Excluded,
		MaxGroupSize: req.MaxGroupSize,
		Difficulty:   difficulty,
		Reviews:      []Review{},
	}
	if err := validatePackage(pkg); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to create package: %w", err)
	}

	s.invalidate(ctx, nil)
	return pkg, nil
}

func (s *service) GetPackage(ctx context.Context, id uuid.UUID) (*Package, error) {
	key := constants.BuildPackageDetailKey(id.String())

	var cached Package
	if err := s.getCache(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, key, pkg, constants.TTL_PACKAGE_DETAIL)
	return pkg, nil
}

func (s *service) ListPackages(ctx context.Context, query PackageListQuery) (*PaginatedPackages, error) {
	query.normalize()
	key := constants.BuildPackageListKey(strings.ToLower(query.Destination), query.MinPrice, query.MaxPrice, query.Difficulty, query.Page, query.Limit)

	var cached PaginatedPackages
	if err := s.getCache(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	pkgs, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list packages: %w", err)
	}
	if pkgs == nil {
		pkgs = []Package{}
	}

	result := &PaginatedPackages{
		Packages:   pkgs,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}

	s.setCache(ctx, key, result, constants.TTL_PACKAGE_LIST)
	return result, nil
}

// UpdatePackage never touches bookings; they keep the price they were created with
func (s *service) UpdatePackage(ctx context.Context, actorID uuid.UUID, role users.Role, id uuid.UUID, req UpdatePackageRequest) (*Package, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canManage(pkg, actorID, role) {
		return nil, ErrNotPackageOwner
	}

	if req.Title != nil {
		pkg.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		pkg.Description = *req.Description
	}
	if req.Price != nil {
		pkg.Price = *req.Price
	}
	if req.Duration != nil {
		pkg.Duration = *req.Duration
	}
	if req.Destination != nil {
		pkg.Destination = strings.TrimSpace(*req.Destination)
	}
	if req.Images != nil {
		pkg.Images = req.Images
	}
	if req.Itinerary != nil {
		pkg.Itinerary = req.Itinerary
	}
	if req.Included != nil {
		pkg.Included = req.Included
	}
	if req.Excluded != nil {
		pkg.Excluded = req.Excluded
	}
	if req.MaxGroupSize != nil {
		pkg.MaxGroupSize = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		pkg.Difficulty = Difficulty(*req.Difficulty)
	}

	if err := validatePackage(pkg); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, pkg); err != nil {
		return nil, fmt.Errorf("failed to update package: %w", err)
	}

	s.invalidate(ctx, &id)
	return pkg, nil
}

func (s *service) DeletePackage(ctx context.Context, actorID uuid.UUID, role users.Role, id uuid.UUID) error {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(pkg, actorID, role) {
		return ErrNotPackageOwner
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, &id)
	return nil
}

func (s *service) AddReview(ctx context.Context, userID, id uuid.UUID, req AddReviewRequest) (*Package, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidPackage)
	}

	pkg, err := s.repo.AddReview(ctx, id, Review{
		UserID:  userID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, &id)
	return pkg, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	fetch := func() (interface{}, error) {
		pkg, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return pkg.Snapshot(), nil
	}

	if s.cacheService == nil {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		snap := v.(Snapshot)
		return &snap, nil
	}

	var snap Snapshot
	key := constants.BuildPackageSnapshotKey(id.String())
	if err := s.cacheService.GetOrSet(ctx, key, constants.TTL_PACKAGE_SNAPSHOT, fetch, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func canManage(pkg *Package, actorID uuid.UUID, role users.Role) bool {
	return role == users.RoleAdmin || (role == users.RoleAgency && pkg.AgencyID == actorID)
}

func validatePackage(pkg *Package) error {
	switch {
	case pkg.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidPackage)
	case pkg.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalidPackage)
	case pkg.Duration <= 0:
		return fmt.Errorf("%w: duration must be at least one day", ErrInvalidPackage)
	case pkg.MaxGroupSize <= 0:
		return fmt.Errorf("%w: maxGroupSize must be positive", ErrInvalidPackage)
	case !pkg.Difficulty.IsValid():
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidPackage, pkg.Difficulty)
	}
	return nil
}
