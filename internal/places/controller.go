package places

import (
	"errors"
	"net/http"

	"travelbook/internal/shared/middleware"
	"travelbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrPlaceNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Place not found", nil, nil)
	case errors.Is(err, ErrInvalidPlace):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}

func parsePlaceID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid place ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// ListPlaces godoc
// @Summary List destinations, highest rated first
// @Tags places
// @Produce json
// @Param country query string false "Country substring"
// @Param state query string false "State substring"
// @Param category query string false "Category"
// @Param featured query bool false "Featured only"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.StandardApiResponse{data=PaginatedPlaces}
// @Router /places [get]
func (ctrl *Controller) ListPlaces(c *gin.Context) {
	var query PlaceListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.ListPlaces(c.Request.Context(), query)
	if err != nil {
		ctrl.respondError(c, err, "Failed to fetch places")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Places retrieved successfully", result, nil)
}

func (ctrl *Controller) GetPlace(c *gin.Context) {
	id, ok := parsePlaceID(c)
	if !ok {
		return
	}

	place, err := ctrl.service.GetPlace(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to fetch place")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Place retrieved successfully", place, nil)
}

// SearchNearby godoc
// @Summary Destinations within a radius, nearest first
// @Tags places
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param maxDistance query number false "Radius in meters (default 10000)"
// @Success 200 {object} response.StandardApiResponse{data=[]NearbyPlace}
// @Router /places/search/nearby [get]
func (ctrl *Controller) SearchNearby(c *gin.Context) {
	var query NearbyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	nearby, err := ctrl.service.SearchNearby(c.Request.Context(), query)
	if err != nil {
		ctrl.respondError(c, err, "Failed to search places")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Places retrieved successfully", nearby, nil)
}

func (ctrl *Controller) CreatePlace(c *gin.Context) {
	var req CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	place, err := ctrl.service.CreatePlace(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create place")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Place created successfully", place, nil)
}

func (ctrl *Controller) UpdatePlace(c *gin.Context) {
	id, ok := parsePlaceID(c)
	if !ok {
		return
	}

	var req UpdatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	place, err := ctrl.service.UpdatePlace(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update place")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Place updated successfully", place, nil)
}

func (ctrl *Controller) DeletePlace(c *gin.Context) {
	id, ok := parsePlaceID(c)
	if !ok {
		return
	}

	if err := ctrl.service.DeletePlace(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete place")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Place deleted successfully", nil, nil)
}

func (ctrl *Controller) AddReview(c *gin.Context) {
	id, ok := parsePlaceID(c)
	if !ok {
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	place, err := ctrl.service.AddReview(c.Request.Context(), userID, id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to add review")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Review added successfully", place, nil)
}
