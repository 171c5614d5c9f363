package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleAgency Role = "agency"
	RoleAdmin  Role = "admin"
)

const DefaultAvatar = "https://via.placeholder.com/150"

type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	Name      string    `json:"name" gorm:"not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone     string    `json:"phone" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Avatar    string    `json:"avatar"`
	Role      Role      `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// TripEntry is one row of a user's trip index. The composite key makes
// appends idempotent.
type TripEntry struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	BookingID uuid.UUID `json:"bookingId" gorm:"type:uuid;primaryKey;index"`
	CreatedAt time.Time `json:"createdAt"`
}

func (TripEntry) TableName() string {
	return "user_trips"
}

// SavedItem is a place bookmarked by a user
type SavedItem struct {
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;primaryKey"`
	ItemID    uuid.UUID `json:"itemId" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
}

func (SavedItem) TableName() string {
	return "saved_items"
}

func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleAgency, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsStaff reports whether the role may manage bookings it does not own
func (r Role) IsStaff() bool {
	return r == RoleAgency || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}
