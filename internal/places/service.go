package places

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"travelbook/internal/shared/constants"
	"travelbook/pkg/cache"
	"travelbook/pkg/logger"

	"github.com/google/uuid"
)

var ErrInvalidPlace = errors.New("invalid place")

const (
	defaultNearbyDistance = 10000.0
	maxNearbyDistance     = 200000.0
	maxNearbyResults      = 50
)

type Service interface {
	SetCacheService(cacheService cache.Service)

	CreatePlace(ctx context.Context, req CreatePlaceRequest) (*Place, error)
	GetPlace(ctx context.Context, id uuid.UUID) (*Place, error)
	ListPlaces(ctx context.Context, query PlaceListQuery) (*PaginatedPlaces, error)
	UpdatePlace(ctx context.Context, id uuid.UUID, req UpdatePlaceRequest) (*Place, error)
	DeletePlace(ctx context.Context, id uuid.UUID) error
	AddReview(ctx context.Context, userID, id uuid.UUID, req AddReviewRequest) (*Place, error)
	SearchNearby(ctx context.Context, query NearbyQuery) ([]NearbyPlace, error)

	// GetPlaces returns the places that still exist, in the order of ids
	GetPlaces(ctx context.Context, ids []uuid.UUID) ([]Place, error)
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
		logger.GetDefault().Warn("failed to cache place data", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *service) invalidate(ctx context.Context, id *uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.DeletePattern(ctx, constants.PATTERN_INVALIDATE_PLACES); err != nil {
		logger.GetDefault().Warn("failed to invalidate place listings", slog.Any("error", err))
	}
	if id != nil {
		if err := s.cacheService.Delete(ctx, constants.BuildPlaceDetailKey(id.String())); err != nil {
			logger.GetDefault().Warn("failed to invalidate place", slog.String("place_id", id.String()), slog.Any("error", err))
		}
	}
}

func (s *service) CreatePlace(ctx context.Context, req CreatePlaceRequest) (*Place, error) {
	place := &Place{
		Name:        strings.TrimSpace(req.Name),
		State:       strings.TrimSpace(req.State),
		Country:     strings.TrimSpace(req.Country),
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Featured:    req.Featured,
		Amenities:   req.Amenities,
		Category:    Category(req.Category),
		Reviews:     []Review{},
	}
	if req.Latitude == nil || req.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidPlace)
	}
	place.Latitude, place.Longitude = *req.Latitude, *req.Longitude
	if place.Amenities == nil {
		place.Amenities = []string{}
	}

	if err := validatePlace(place); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}

	s.invalidate(ctx, nil)
	return place, nil
}

func (s *service) GetPlace(ctx context.Context, id uuid.UUID) (*Place, error) {
	key := constants.BuildPlaceDetailKey(id.String())

	var cached Place
	if err := s.getCache(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.setCache(ctx, key, place, constants.TTL_PLACE_DETAIL)
	return place, nil
}

func (s *service) ListPlaces(ctx context.Context, query PlaceListQuery) (*PaginatedPlaces, error) {
	query.normalize()
	featured := ""
	if query.Featured != nil {
		featured = strconv.FormatBool(*query.Featured)
	}
	key := constants.BuildPlaceListKey(strings.ToLower(query.Country), strings.ToLower(query.State), query.Category, featured, query.Page, query.Limit)

	var cached PaginatedPlaces
	if err := s.getCache(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	places, total, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list places: %w", err)
	}
	if places == nil {
		places = []Place{}
	}

	result := &PaginatedPlaces{
		Places:     places,
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(query.Limit))),
	}

	s.setCache(ctx, key, result, constants.TTL_PLACE_LIST)
	return result, nil
}

func (s *service) UpdatePlace(ctx context.Context, id uuid.UUID, req UpdatePlaceRequest) (*Place, error) {
	place, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		place.Name = strings.TrimSpace(*req.Name)
	}
	if req.State != nil {
		place.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		place.Country = strings.TrimSpace(*req.Country)
	}
	if req.Description != nil {
		place.Description = *req.Description
	}
	if req.Image != nil {
		place.Image = *req.Image
	}
	if req.Price != nil {
		place.Price = *req.Price
	}
	if req.Featured != nil {
		place.Featured = *req.Featured
	}
	if req.Latitude != nil {
		place.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		place.Longitude = *req.Longitude
	}
	if req.Amenities != nil {
		place.Amenities = req.Amenities
	}
	if req.Category != nil {
		place.Category = Category(*req.Category)
	}

	if err := validatePlace(place); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, place); err != nil {
		return nil, fmt.Errorf("failed to update place: %w", err)
	}

	s.invalidate(ctx, &id)
	return place, nil
}

func (s *service) DeletePlace(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, &id)
	return nil
}

func (s *service) AddReview(ctx context.Context, userID, id uuid.UUID, req AddReviewRequest) (*Place, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidPlace)
	}

	place, err := s.repo.AddReview(ctx, id, Review{
		UserID:  userID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, &id)
	return place, nil
}

// SearchNearby narrows candidates with a bounding box in the database and
// then orders them by great-circle distance, nearest first.
func (s *service) SearchNearby(ctx context.Context, query NearbyQuery) ([]NearbyPlace, error) {
	if query.Latitude == nil || query.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", ErrInvalidPlace)
	}
	center := Point{Lat: *query.Latitude, Lng: *query.Longitude}
	if err := validatePoint(center); err != nil {
		return nil, err
	}

	radius := query.MaxDistance
	switch {
	case radius < 0:
		return nil, fmt.Errorf("%w: maxDistance must be positive", ErrInvalidPlace)
	case radius == 0:
		radius = defaultNearbyDistance
	case radius > maxNearbyDistance:
		radius = maxNearbyDistance
	}

	candidates, err := s.repo.FindWithin(ctx, boundingBox(center, radius))
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyPlace, 0, len(candidates))
	for _, p := range candidates {
		d := distanceMeters(center, p.point())
		if d > radius {
			continue
		}
		nearby = append(nearby, NearbyPlace{Place: p, Distance: math.Round(d)})
	}
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})
	if len(nearby) > maxNearbyResults {
		nearby = nearby[:maxNearbyResults]
	}
	return nearby, nil
}

func (s *service) GetPlaces(ctx context.Context, ids []uuid.UUID) ([]Place, error) {
	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch places: %w", err)
	}

	byID := make(map[uuid.UUID]Place, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	ordered := make([]Place, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func validatePoint(p Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90", ErrInvalidPlace)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180", ErrInvalidPlace)
	}
	return nil
}

func validatePlace(place *Place) error {
	switch {
	case place.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidPlace)
	case place.Country == "":
		return fmt.Errorf("%w: country is required", ErrInvalidPlace)
	case place.Price <= 0:
		return fmt.Errorf("%w: price must be positive", ErrInvalidPlace)
	case !place.Category.IsValid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidPlace, place.Category)
	}
	return validatePoint(place.point())
}
