package packages

type PaginatedPackages struct {
	Packages   []Package `json:"packages"`
	TotalCount int64     `json:"totalCount"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}
