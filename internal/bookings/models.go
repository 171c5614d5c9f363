package bookings

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID              uuid.UUID     `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	BookingRef      string        `json:"bookingRef" gorm:"type:varchar(32);uniqueIndex;not null"`
	PackageID       uuid.UUID     `json:"packageId" gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID     `json:"userId" gorm:"type:uuid;not null;index"`
	StartDate       time.Time     `json:"startDate" gorm:"type:date;not null"`
	EndDate         time.Time     `json:"endDate" gorm:"type:date;not null"`
	NumberOfPeople  int           `json:"numberOfPeople" gorm:"not null;check:chk_bookings_people,number_of_people >= 1"`
	TotalPrice      float64       `json:"totalPrice" gorm:"not null"`
	Status          Status        `json:"status" gorm:"type:varchar(20);not null;default:'pending';index;check:chk_bookings_status,status IN ('pending','confirmed','cancelled','completed')"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'pending';check:chk_bookings_payment_status,payment_status IN ('pending','paid','refunded')"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" gorm:"type:varchar(20);not null"`
	SpecialRequests string        `json:"specialRequests,omitempty" gorm:"type:text"`
	ContactInfo     *ContactInfo  `json:"contactInfo,omitempty" gorm:"serializer:json;type:jsonb"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	CancelledAt     *time.Time    `json:"cancelledAt,omitempty"`
}

func (Booking) TableName() string {
	return "bookings"
}

// ContactInfo is who the agency should reach about the trip
type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty" binding:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// ListQuery filters a user's bookings
type ListQuery struct {
	Status Status
	Page   int
	Limit  int
}

func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 || q.Limit > 100 {
		q.Limit = 10
	}
}

// ReconcileReport summarises one trip index repair pass
type ReconcileReport struct {
	Scanned  int `json:"scanned"`
	Repaired int `json:"repaired"`
	Failed   int `json:"failed"`
}
