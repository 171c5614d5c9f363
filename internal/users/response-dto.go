package users

import (
	"time"

	"github.com/google/uuid"
)

type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToProfileResponse(u *User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// SavedPlace is the catalog summary shown for a saved item
type SavedPlace struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	State    string    `json:"state"`
	Country  string    `json:"country"`
	Image    string    `json:"image"`
	Price    float64   `json:"price"`
	Rating   float64   `json:"rating"`
	Category string    `json:"category"`
}
