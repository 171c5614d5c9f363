package packages

type CreatePackageRequest struct {
	Title        string         `json:"title" binding:"required,min=3,max=255"`
	Description  string         `json:"description" binding:"required,max=5000"`
	Price        float64        `json:"price" binding:"required,gt=0"`
	Duration     int            `json:"duration" binding:"required,min=1"`
	Destination  string         `json:"destination" binding:"required,min=2,max=255"`
	Images       []string       `json:"images" binding:"omitempty,dive,url"`
	Itinerary    []ItineraryDay `json:"itinerary"`
	Included     []string       `json:"included"`
	Excluded     []string       `json:"excluded"`
	MaxGroupSize int            `json:"maxGroupSize" binding:"required,min=1"`
	Difficulty   string         `json:"difficulty" binding:"omitempty,oneof=easy moderate challenging"`
}

type UpdatePackageRequest struct {
	Title        *string        `json:"title" binding:"omitempty,min=3,max=255"`
	Description  *string        `json:"description" binding:"omitempty,max=5000"`
	Price        *float64       `json:"price" binding:"omitempty,gt=0"`
	Duration     *int           `json:"duration" binding:"omitempty,min=1"`
	Destination  *string        `json:"destination" binding:"omitempty,min=2,max=255"`
	Images       []string       `json:"images" binding:"omitempty,dive,url"`
	Itinerary    []ItineraryDay `json:"itinerary"`
	Included     []string       `json:"included"`
	Excluded     []string       `json:"excluded"`
	MaxGroupSize *int           `json:"maxGroupSize" binding:"omitempty,min=1"`
	Difficulty   *string        `json:"difficulty" binding:"omitempty,oneof=easy moderate challenging"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type PackageListQuery struct {
	Destination string  `form:"destination"`
	MinPrice    float64 `form:"minPrice" binding:"omitempty,min=0"`
	MaxPrice    float64 `form:"maxPrice" binding:"omitempty,min=0"`
	Difficulty  string  `form:"difficulty" binding:"omitempty,oneof=easy moderate challenging"`
	Page        int     `form:"page" binding:"omitempty,min=1"`
	Limit       int     `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q *PackageListQuery) normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
}
