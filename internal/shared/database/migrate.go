package database

import (
	"fmt"

	"travelbook/internal/bookings"
	"travelbook/internal/packages"
	"travelbook/internal/places"
	"travelbook/internal/users"

	"gorm.io/gorm"
)

// Migrate creates the extensions and tables the service needs
func Migrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to enable uuid-ossp: %w", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&users.TripEntry{},
		&users.SavedItem{},
		&packages.Package{},
		&places.Place{},
		&bookings.Booking{},
	); err != nil {
		return err
	}

	return migrateIndexes(db)
}

// migrateIndexes adds indexes AutoMigrate cannot express
func migrateIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_created ON bookings (user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_packages_destination_lower ON packages (LOWER(destination))`,
		`CREATE INDEX IF NOT EXISTS idx_places_rating ON places (rating DESC, created_at DESC)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply index %q: %w", stmt, err)
		}
	}
	return nil
}
