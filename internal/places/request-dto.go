package places

type CreatePlaceRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=255"`
	State       string   `json:"state" binding:"required,max=120"`
	Country     string   `json:"country" binding:"required,max=120"`
	Description string   `json:"description" binding:"required,max=5000"`
	Image       string   `json:"image" binding:"required,url"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Featured    bool     `json:"featured"`
	Latitude    *float64 `json:"latitude" binding:"required"`
	Longitude   *float64 `json:"longitude" binding:"required"`
	Amenities   []string `json:"amenities"`
	Category    string   `json:"category" binding:"required,oneof=beach mountain city countryside historical other"`
}

type UpdatePlaceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=2,max=255"`
	State       *string  `json:"state" binding:"omitempty,max=120"`
	Country     *string  `json:"country" binding:"omitempty,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=5000"`
	Image       *string  `json:"image" binding:"omitempty,url"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	Featured    *bool    `json:"featured"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Amenities   []string `json:"amenities"`
	Category    *string  `json:"category" binding:"omitempty,oneof=beach mountain city countryside historical other"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

type PlaceListQuery struct {
	Country  string `form:"country"`
	State    string `form:"state"`
	Category string `form:"category" binding:"omitempty,oneof=beach mountain city countryside historical other"`
	Featured *bool  `form:"featured"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q *PlaceListQuery) normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
}

// NearbyQuery is a radius search. MaxDistance is in meters.
type NearbyQuery struct {
	Latitude    *float64 `form:"latitude" binding:"required"`
	Longitude   *float64 `form:"longitude" binding:"required"`
	MaxDistance float64  `form:"maxDistance" binding:"omitempty,gt=0"`
}
