package bookings

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
	service    Service
	reconciler *Reconciler
}

func NewController(service Service, reconciler *Reconciler) *Controller {
	return &Controller{service: service, reconciler: reconciler}
}

// respondError maps domain errors onto HTTP status codes
func respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrForbidden):
		response.RespondJSON(c, "error", http.StatusForbidden, err.Error(), nil, nil)
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, err.Error())
	}
}

func currentActor(c *gin.Context) (Actor, bool) {
	id, ok := middleware.CurrentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return Actor{}, false
	}
	return Actor{ID: id, Role: users.Role(middleware.CurrentRole(c))}, true
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid booking ID", nil, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// CreateBooking godoc
// @Summary      Create a booking
// @Description  End date and total price are derived from the package
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateBookingRequest true "Booking"
// @Success      201 {object} response.StandardApiResponse{data=BookingResponse}
// @Failure      400 {object} response.StandardApiResponse
// @Failure      404 {object} response.StandardApiResponse
// @Router       /bookings [post]
func (ctrl *Controller) CreateBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	packageID, err := uuid.Parse(req.Package)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid package ID", nil, err.Error())
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), actor.ID, CreateBookingInput{
		PackageID:       packageID,
		StartDate:       req.StartDate,
		NumberOfPeople:  req.NumberOfPeople,
		PaymentMethod:   req.PaymentMethod,
		SpecialRequests: req.SpecialRequests,
		ContactInfo:     req.ContactInfo,
	})
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", ToBookingResponse(booking), nil)
}

// ListBookings godoc
// @Summary      List the caller's bookings, newest first
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "Status filter"
// @Param        page   query int    false "Page"
// @Param        limit  query int    false "Page size"
// @Success      200 {object} response.StandardApiResponse{data=response.Page}
// @Router       /bookings [get]
func (ctrl *Controller) ListBookings(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var q BookingListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}
	query := ListQuery{Status: Status(q.Status), Page: q.Page, Limit: q.Limit}
	query.normalize()

	bookings, total, err := ctrl.service.ListUserBookings(c.Request.Context(), actor.ID, query)
	if err != nil {
		respondError(c, err, "Failed to fetch bookings")
		return
	}

	totalPages := int((total + int64(query.Limit) - 1) / int64(query.Limit))
	response.RespondJSON(c, "success", http.StatusOK, "Bookings retrieved successfully", response.Page{
		Items:      toBookingResponses(bookings),
		TotalCount: total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil)
}

// GetBooking godoc
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} response.StandardApiResponse{data=BookingResponse}
// @Failure      403 {object} response.StandardApiResponse
// @Failure      404 {object} response.StandardApiResponse
// @Router       /bookings/{id} [get]
func (ctrl *Controller) GetBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "Failed to fetch booking")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking retrieved successfully", ToBookingResponse(booking), nil)
}

// UpdateStatus godoc
// @Summary      Move a booking along its status machine
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string              true "Booking ID"
// @Param        request body UpdateStatusRequest true "New status"
// @Success      200 {object} response.StandardApiResponse{data=BookingResponse}
// @Router       /bookings/{id}/status [put]
func (ctrl *Controller) UpdateStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.SetStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		respondError(c, err, "Failed to update booking status")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking status updated successfully", ToBookingResponse(booking), nil)
}

// UpdatePaymentStatus godoc
// @Summary      Set a booking's payment status
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                     true "Booking ID"
// @Param        request body UpdatePaymentStatusRequest true "New payment status"
// @Success      200 {object} response.StandardApiResponse{data=BookingResponse}
// @Router       /bookings/{id}/payment [put]
func (ctrl *Controller) UpdatePaymentStatus(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	booking, err := ctrl.service.SetPaymentStatus(c.Request.Context(), actor, id, req.PaymentStatus)
	if err != nil {
		respondError(c, err, "Failed to update payment status")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Payment status updated successfully", ToBookingResponse(booking), nil)
}

// CancelBooking godoc
// @Summary      Cancel one of the caller's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Booking ID"
// @Success      200 {object} response.StandardApiResponse{data=BookingResponse}
// @Router       /bookings/{id}/cancel [put]
func (ctrl *Controller) CancelBooking(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	booking, err := ctrl.service.Cancel(c.Request.Context(), actor, id)
	if err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", ToBookingResponse(booking), nil)
}

// ListTrips handles GET /users/trips
func (ctrl *Controller) ListTrips(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	trips, err := ctrl.service.ListTrips(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err, "Failed to fetch trips")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trips retrieved successfully", toBookingResponses(trips), nil)
}

// Reconcile handles POST /admin/bookings/reconcile
func (ctrl *Controller) Reconcile(c *gin.Context) {
	report, err := ctrl.reconciler.Run(c.Request.Context())
	if err != nil {
		respondError(c, err, "Trip index reconciliation failed")
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Trip index reconciled", report, nil)
}
