package users

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

// GetProfile godoc
// @Summary Get the caller's profile
// @Tags users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.StandardApiResponse{data=ProfileResponse}
// @Router /users/profile [get]
func (c *Controller) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	profile, err := c.service.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch profile", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Profile fetched successfully", profile, nil)
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} response.StandardApiResponse{data=ProfileResponse}
// @Router /users/profile [put]
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	profile, err := c.service.UpdateProfile(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(ctx, "error", http.StatusNotFound, "User not found", nil, nil)
		case errors.Is(err, ErrInvalidName):
			response.RespondJSON(ctx, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update profile", nil, err.Error())
		}
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Profile updated successfully", profile, nil)
}

func (c *Controller) SaveItem(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req SaveItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid item ID", nil, nil)
		return
	}

	if err := c.service.SaveItem(ctx.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			response.RespondJSON(ctx, "error", http.StatusNotFound, "Place not found", nil, nil)
			return
		}
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to save item", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Item saved", gin.H{"itemId": itemID}, nil)
}

func (c *Controller) ListSavedItems(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	saved, err := c.service.ListSavedItems(ctx.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to fetch saved items", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Saved items fetched successfully", saved, nil)
}

func (c *Controller) RemoveSavedItem(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	itemID, err := uuid.Parse(ctx.Param("itemId"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid item ID", nil, nil)
		return
	}

	if err := c.service.UnsaveItem(ctx.Request.Context(), userID, itemID); err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to remove saved item", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Item removed", nil, nil)
}
