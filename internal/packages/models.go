package packages

import (
	"time"

	"github.com/google/uuid"
)

type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
)

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyModerate, DifficultyChallenging:
		return true
	}
	return false
}

type ItineraryDay struct {
	Day         int      `json:"day"`
	Description string   `json:"description"`
	Activities  []string `json:"activities"`
}

type Review struct {
	UserID  uuid.UUID `json:"userId"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// Package is a bookable travel offer owned by an agency.
// List-valued fields are stored as jsonb.
type Package struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	AgencyID     uuid.UUID      `json:"agencyId" gorm:"type:uuid;not null;index"`
	Title        string         `json:"title" gorm:"not null;size:255"`
	Description  string         `json:"description" gorm:"type:text;not null"`
	Price        float64        `json:"price" gorm:"not null;check:price > 0"`
	Duration     int            `json:"duration" gorm:"not null;check:duration > 0"`
	Destination  string         `json:"destination" gorm:"not null;size:255"`
	Images       []string       `json:"images" gorm:"serializer:json;type:jsonb"`
	Itinerary    []ItineraryDay `json:"itinerary" gorm:"serializer:json;type:jsonb"`
	Included     []string       `json:"included" gorm:"serializer:json;type:jsonb"`
	Excluded     []string       `json:"excluded" gorm:"serializer:json;type:jsonb"`
	MaxGroupSize int            `json:"maxGroupSize" gorm:"not null;check:max_group_size > 0"`
	Difficulty   Difficulty     `json:"difficulty" gorm:"type:varchar(20);not null;default:'moderate'"`
	Rating       float64        `json:"rating" gorm:"default:0"`
	Reviews      []Review       `json:"reviews" gorm:"serializer:json;type:jsonb"`
	CreatedAt    time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Package) TableName() string {
	return "packages"
}

// Snapshot is the slice of a package a booking needs at creation time
type Snapshot struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Price        float64   `json:"price"`
	DurationDays int       `json:"durationDays"`
}

func (p *Package) Snapshot() Snapshot {
	return Snapshot{
		ID:           p.ID,
		Title:        p.Title,
		Price:        p.Price,
		DurationDays: p.Duration,
	}
}

// averageRating is the arithmetic mean of review ratings, 0 with no reviews
func averageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}
