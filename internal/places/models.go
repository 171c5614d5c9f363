package places

import (
	"time"

	"github.com/google/uuid"
)

type Category string

const (
	CategoryBeach       Category = "beach"
	CategoryMountain    Category = "mountain"
	CategoryCity        Category = "city"
	CategoryCountryside Category = "countryside"
	CategoryHistorical  Category = "historical"
	CategoryOther       Category = "other"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryBeach, CategoryMountain, CategoryCity, CategoryCountryside, CategoryHistorical, CategoryOther:
		return true
	}
	return false
}

type Review struct {
	UserID  uuid.UUID `json:"userId"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// Place is a destination in the public catalog. Users bookmark places as
// saved items.
type Place struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `json:"name" gorm:"not null;size:255"`
	State       string    `json:"state" gorm:"not null;size:120"`
	Country     string    `json:"country" gorm:"not null;size:120"`
	Description string    `json:"description" gorm:"type:text;not null"`
	Image       string    `json:"image" gorm:"not null"`
	Rating      float64   `json:"rating" gorm:"default:0"`
	Price       float64   `json:"price" gorm:"not null;check:chk_places_price,price > 0"`
	Featured    bool      `json:"featured" gorm:"not null;default:false"`
	Latitude    float64   `json:"latitude" gorm:"not null;index:idx_places_location;check:chk_places_latitude,latitude BETWEEN -90 AND 90"`
	Longitude   float64   `json:"longitude" gorm:"not null;index:idx_places_location;check:chk_places_longitude,longitude BETWEEN -180 AND 180"`
	Amenities   []string  `json:"amenities" gorm:"serializer:json;type:jsonb"`
	Category    Category  `json:"category" gorm:"type:varchar(20);not null"`
	Reviews     []Review  `json:"reviews,omitempty" gorm:"serializer:json;type:jsonb"`
	CreatedAt   time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (Place) TableName() string {
	return "places"
}

func (p *Place) point() Point {
	return Point{Lat: p.Latitude, Lng: p.Longitude}
}

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
