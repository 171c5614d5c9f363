package bookings

import "time"

type BookingResponse struct {
	ID              string       `json:"id"`
	BookingRef      string       `json:"bookingRef"`
	Package         string       `json:"package"`
	User            string       `json:"user"`
	StartDate       string       `json:"startDate"`
	EndDate         string       `json:"endDate"`
	NumberOfPeople  int          `json:"numberOfPeople"`
	TotalPrice      float64      `json:"totalPrice"`
	Status          string       `json:"status"`
	PaymentStatus   string       `json:"paymentStatus"`
	PaymentMethod   string       `json:"paymentMethod"`
	SpecialRequests string       `json:"specialRequests,omitempty"`
	ContactInfo     *ContactInfo `json:"contactInfo,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	CancelledAt     *time.Time   `json:"cancelledAt,omitempty"`
}

func ToBookingResponse(b *Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID.String(),
		BookingRef:      b.BookingRef,
		Package:         b.PackageID.String(),
		User:            b.UserID.String(),
		StartDate:       b.StartDate.Format(DateLayout),
		EndDate:         b.EndDate.Format(DateLayout),
		NumberOfPeople:  b.NumberOfPeople,
		TotalPrice:      b.TotalPrice,
		Status:          b.Status.String(),
		PaymentStatus:   b.PaymentStatus.String(),
		PaymentMethod:   string(b.PaymentMethod),
		SpecialRequests: b.SpecialRequests,
		ContactInfo:     b.ContactInfo,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		CancelledAt:     b.CancelledAt,
	}
}

func toBookingResponses(bookings []Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, ToBookingResponse(&bookings[i]))
	}
	return out
}
