package places

type PaginatedPlaces struct {
	Places     []Place `json:"places"`
	TotalCount int64   `json:"totalCount"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	TotalPages int     `json:"totalPages"`
}

type NearbyPlace struct {
	Place
	Distance float64 `json:"distance"`
}
