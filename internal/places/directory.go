package places

import (
	"context"
	"errors"

	"travelbook/internal/users"

	"github.com/google/uuid"
)

// DirectoryAdapter lets saved items resolve places without users
// importing this package.
type DirectoryAdapter struct {
	service Service
}

func NewDirectoryAdapter(service Service) *DirectoryAdapter {
	return &DirectoryAdapter{service: service}
}

func (a *DirectoryAdapter) PlaceExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := a.service.GetPlace(ctx, id)
	if errors.Is(err, ErrPlaceNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (a *DirectoryAdapter) SavedPlaces(ctx context.Context, ids []uuid.UUID) ([]users.SavedPlace, error) {
	found, err := a.service.GetPlaces(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]users.SavedPlace, 0, len(found))
	for _, p := range found {
		out = append(out, users.SavedPlace{
			ID:       p.ID,
			Name:     p.Name,
			State:    p.State,
			Country:  p.Country,
			Image:    p.Image,
			Price:    p.Price,
			Rating:   p.Rating,
			Category: string(p.Category),
		})
	}
	return out, nil
}
