package packages

import (
	"errors"
	"net/http"

	"travelbook/internal/shared/middleware"
	"travelbook/internal/shared/utils/response"
	"travelbook/internal/users"

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
	case errors.Is(err, ErrPackageNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Package not found", nil, nil)
	case errors.Is(err, ErrNotPackageOwner):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidPackage):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}

func parsePackageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid package ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *Controller) ListPackages(c *gin.Context) {
	var query PackageListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := ctrl.service.ListPackages(c.Request.Context(), query)
	if err != nil {
		ctrl.respondError(c, err, "Failed to fetch packages")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Packages retrieved successfully", result, nil)
}

func (ctrl *Controller) GetPackage(c *gin.Context) {
	id, ok := parsePackageID(c)
	if !ok {
		return
	}

	pkg, err := ctrl.service.GetPackage(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to fetch package")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Package retrieved successfully", pkg, nil)
}

func (ctrl *Controller) CreatePackage(c *gin.Context) {
	var req CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	agencyID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	pkg, err := ctrl.service.CreatePackage(c.Request.Context(), agencyID, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create package")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Package created successfully", pkg, nil)
}

func (ctrl *Controller) UpdatePackage(c *gin.Context) {
	id, ok := parsePackageID(c)
	if !ok {
		return
	}

	var req UpdatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	pkg, err := ctrl.service.UpdatePackage(c.Request.Context(), actorID, users.Role(middleware.CurrentRole(c)), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update package")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Package updated successfully", pkg, nil)
}

func (ctrl *Controller) DeletePackage(c *gin.Context) {
	id, ok := parsePackageID(c)
	if !ok {
		return
	}

	actorID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	if err := ctrl.service.DeletePackage(c.Request.Context(), actorID, users.Role(middleware.CurrentRole(c)), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete package")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Package deleted successfully", nil, nil)
}

func (ctrl *Controller) AddReview(c *gin.Context) {
	id, ok := parsePackageID(c)
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

	pkg, err := ctrl.service.AddReview(c.Request.Context(), userID, id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to add review")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Review added successfully", pkg, nil)
}
