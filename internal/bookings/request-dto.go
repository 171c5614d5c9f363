package bookings

// CreateBookingRequest has no endDate, totalPrice or status field, so any
// such values in the body are dropped during binding
type CreateBookingRequest struct {
	Package         string       `json:"package" binding:"required,uuid"`
	StartDate       string       `json:"startDate" binding:"required"`
	NumberOfPeople  int          `json:"numberOfPeople"`
	PaymentMethod   string       `json:"paymentMethod" binding:"required"`
	SpecialRequests string       `json:"specialRequests"`
	ContactInfo     *ContactInfo `json:"contactInfo"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

type BookingListQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}
