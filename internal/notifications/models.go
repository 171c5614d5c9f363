package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventBookingCreated       EventType = "BOOKING_CREATED"
	EventBookingConfirmed     EventType = "BOOKING_CONFIRMED"
	EventBookingCompleted     EventType = "BOOKING_COMPLETED"
	EventBookingCancelled     EventType = "BOOKING_CANCELLED"
	EventPaymentStatusChanged EventType = "PAYMENT_STATUS_CHANGED"
)

// BookingEvent is the message published for every booking state change
type BookingEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	BookingID     uuid.UUID `json:"bookingId"`
	BookingRef    string    `json:"bookingRef"`
	UserID        uuid.UUID `json:"userId"`
	PackageID     uuid.UUID `json:"packageId"`
	PackageTitle  string    `json:"packageTitle,omitempty"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	StartDate     string    `json:"startDate,omitempty"`
	TotalPrice    float64   `json:"totalPrice"`
	ActorID       uuid.UUID `json:"actorId"`
	OccurredAt    time.Time `json:"occurredAt"`
}

func NewBookingEvent(eventType EventType, bookingID uuid.UUID) *BookingEvent {
	return &BookingEvent{
		ID:         uuid.New(),
		Type:       eventType,
		BookingID:  bookingID,
		OccurredAt: time.Now().UTC(),
	}
}

// PartitionKey keeps all events of one booking on one partition, in order
func (e *BookingEvent) PartitionKey() string {
	return e.BookingID.String()
}

func (e *BookingEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ParseBookingEvent(data []byte) (*BookingEvent, error) {
	var event BookingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
