package bookings

import (
	"travelbook/internal/users"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a booking operation
type Actor struct {
	ID   uuid.UUID
	Role users.Role
}

// CanTransitionBooking gates both status and payment status changes
func CanTransitionBooking(role users.Role) bool {
	return role.IsStaff()
}

// CanViewBooking allows the owner and staff
func CanViewBooking(actor Actor, b *Booking) bool {
	return b.UserID == actor.ID || actor.Role.IsStaff()
}

// CanCancelBooking allows the owner only
func CanCancelBooking(actor Actor, b *Booking) bool {
	return b.UserID == actor.ID
}
