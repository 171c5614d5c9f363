package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"travelbook/internal/bookings"
	"travelbook/internal/notifications"
	"travelbook/internal/packages"
	"travelbook/internal/places"
	"travelbook/internal/shared/config"
	"travelbook/internal/shared/database"
	"travelbook/internal/users"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting travelbook database seeder...")

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")
}

// CleanDatabase truncates all tables, dependents first
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"saved_items",
		"user_trips",
		"bookings",
		"packages",
		"places",
		"users",
	}

	return s.db.PostgreSQL.Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			fmt.Printf("  Truncating table: %s\n", table)
			if err := tx.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
				return fmt.Errorf("failed to truncate table %s: %w", table, err)
			}
		}
		return nil
	})
}

// SeedAll seeds users, places, packages and a few bookings
func (s *Seeder) SeedAll() error {
	ctx := context.Background()

	userIDs, err := s.SeedUsers()
	if err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	placeIDs, err := s.SeedPlaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed places: %w", err)
	}
	if err := s.SeedSavedItems(ctx, userIDs["user1"], placeIDs); err != nil {
		return fmt.Errorf("failed to seed saved items: %w", err)
	}

	packageIDs, err := s.SeedPackages(ctx, []uuid.UUID{userIDs["agency1"], userIDs["agency2"]})
	if err != nil {
		return fmt.Errorf("failed to seed packages: %w", err)
	}

	if err := s.SeedBookings(ctx, []uuid.UUID{userIDs["user1"], userIDs["user2"]}, packageIDs); err != nil {
		return fmt.Errorf("failed to seed bookings: %w", err)
	}

	if s.db.Redis != nil {
		if err := s.db.Redis.FlushDB(ctx).Err(); err != nil {
			log.Printf("Warning: Failed to clear Redis cache: %v", err)
		}
	}
	return nil
}

// SeedUsers creates one admin, two agencies and two travellers, all with password "qwerty"
func (s *Seeder) SeedUsers() (map[string]uuid.UUID, error) {
	fmt.Println("  👤 Seeding users...")

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("qwerty"), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usersData := []struct {
		key   string
		name  string
		email string
		phone string
		role  users.Role
	}{
		{"admin", "Admin", "admin@travelbook.dev", "9000000000", users.RoleAdmin},
		{"agency1", "Himalayan Trails", "trails@travelbook.dev", "9000000101", users.RoleAgency},
		{"agency2", "Coastal Escapes", "coastal@travelbook.dev", "9000000102", users.RoleAgency},
		{"user1", "Asha Rao", "asha@travelbook.dev", "9000000201", users.RoleUser},
		{"user2", "Kabir Mehta", "kabir@travelbook.dev", "9000000202", users.RoleUser},
	}

	userIDs := make(map[string]uuid.UUID)
	for _, u := range usersData {
		user := users.User{
			ID:       uuid.New(),
			Name:     u.name,
			Email:    u.email,
			Phone:    u.phone,
			Password: string(hashedPassword),
			Avatar:   users.DefaultAvatar,
			Role:     u.role,
		}
		if err := s.db.PostgreSQL.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", u.email, err)
		}
		userIDs[u.key] = user.ID
		fmt.Printf("    ✅ Created user: %s (%s)\n", user.Email, user.Role)
	}
	return userIDs, nil
}

func ptr(f float64) *float64 { return &f }

// SeedPlaces creates a handful of destinations through the place service
func (s *Seeder) SeedPlaces(ctx context.Context) ([]uuid.UUID, error) {
	fmt.Println("  📍 Seeding places...")

	svc := places.NewService(places.NewRepository(s.db.PostgreSQL))
	requests := []places.CreatePlaceRequest{
		{
			Name: "Phewa Lake", State: "Gandaki", Country: "Nepal",
			Description: "Lakeside town at the gateway to the Annapurnas.",
			Image:       "https://images.travelbook.dev/phewa.jpg",
			Price:       3000, Featured: true,
			Latitude: ptr(28.2096), Longitude: ptr(83.9856),
			Amenities: []string{"Boating", "Paragliding"},
			Category:  string(places.CategoryMountain),
		},
		{
			Name: "Alleppey Backwaters", State: "Kerala", Country: "India",
			Description: "Palm-lined canals best seen from a houseboat.",
			Image:       "https://images.travelbook.dev/alleppey.jpg",
			Price:       5000,
			Latitude:    ptr(9.4981), Longitude: ptr(76.3388),
			Amenities: []string{"Houseboats"},
			Category:  string(places.CategoryCountryside),
		},
		{
			Name: "Radhanagar Beach", State: "Andaman and Nicobar", Country: "India",
			Description: "White sand beach on Havelock Island.",
			Image:       "https://images.travelbook.dev/radhanagar.jpg",
			Price:       4000, Featured: true,
			Latitude: ptr(11.9847), Longitude: ptr(92.9508),
			Category: string(places.CategoryBeach),
		},
	}

	var ids []uuid.UUID
	for _, req := range requests {
		place, err := svc.CreatePlace(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("failed to create place %s: %w", req.Name, err)
		}
		ids = append(ids, place.ID)
		fmt.Printf("    ✅ Created place: %s, %s\n", place.Name, place.Country)
	}
	return ids, nil
}

// SeedSavedItems bookmarks every seeded place for one traveller
func (s *Seeder) SeedSavedItems(ctx context.Context, userID uuid.UUID, placeIDs []uuid.UUID) error {
	placeSvc := places.NewService(places.NewRepository(s.db.PostgreSQL))
	svc := users.NewService(users.NewRepository(s.db.PostgreSQL), places.NewDirectoryAdapter(placeSvc), nil)
	for _, id := range placeIDs {
		if err := svc.SaveItem(ctx, userID, id); err != nil {
			return err
		}
	}
	return nil
}

// SeedPackages creates packages through the catalog service so validation applies
func (s *Seeder) SeedPackages(ctx context.Context, agencyIDs []uuid.UUID) ([]uuid.UUID, error) {
	fmt.Println("  🏔️  Seeding packages...")

	svc := packages.NewService(packages.NewRepository(s.db.PostgreSQL))
	requests := []packages.CreatePackageRequest{
		{
			Title:        "Annapurna Base Camp",
			Description:  "Classic teahouse trek to the foot of Annapurna I.",
			Price:        25000,
			Duration:     5,
			Destination:  "Pokhara, Nepal",
			MaxGroupSize: 12,
			Difficulty:   string(packages.DifficultyChallenging),
			Included:     []string{"Guide", "Permits", "Teahouse stays"},
			Excluded:     []string{"Flights"},
		},
		{
			Title:        "Kerala Backwaters",
			Description:  "Houseboat cruise through Alleppey and Kumarakom.",
			Price:        18000,
			Duration:     3,
			Destination:  "Alleppey, India",
			MaxGroupSize: 8,
			Difficulty:   string(packages.DifficultyEasy),
		},
		{
			Title:        "Spiti Valley Circuit",
			Description:  "High desert road trip through Kaza and Chandratal.",
			Price:        32000,
			Duration:     8,
			Destination:  "Spiti, India",
			MaxGroupSize: 10,
			Difficulty:   string(packages.DifficultyModerate),
		},
		{
			Title:        "Andaman Island Hopper",
			Description:  "Havelock, Neil and Port Blair with two dives.",
			Price:        41000,
			Duration:     6,
			Destination:  "Andaman, India",
			MaxGroupSize: 14,
		},
	}

	var ids []uuid.UUID
	for i, req := range requests {
		pkg, err := svc.CreatePackage(ctx, agencyIDs[i%len(agencyIDs)], req)
		if err != nil {
			return nil, fmt.Errorf("failed to create package %s: %w", req.Title, err)
		}
		ids = append(ids, pkg.ID)
		fmt.Printf("    ✅ Created package: %s (%.0f x %d days)\n", pkg.Title, pkg.Price, pkg.Duration)
	}
	return ids, nil
}

// SeedBookings books every traveller onto the first two packages
func (s *Seeder) SeedBookings(ctx context.Context, userIDs, packageIDs []uuid.UUID) error {
	fmt.Println("  🧳 Seeding bookings...")

	trips := users.NewTripIndex(s.db.PostgreSQL)
	catalog := packages.NewService(packages.NewRepository(s.db.PostgreSQL))
	repo := bookings.NewRepository(s.db.PostgreSQL, trips)
	svc := bookings.NewService(repo, trips, catalog, notifications.NoopPublisher{})

	start := time.Now().UTC().AddDate(0, 1, 0).Format(bookings.DateLayout)
	for _, userID := range userIDs {
		for _, packageID := range packageIDs[:2] {
			b, err := svc.CreateBooking(ctx, userID, bookings.CreateBookingInput{
				PackageID:      packageID,
				StartDate:      start,
				NumberOfPeople: 2,
				PaymentMethod:  string(bookings.PaymentCreditCard),
			})
			if err != nil {
				return err
			}
			fmt.Printf("    ✅ Created booking: %s (%s → %s, %.0f)\n",
				b.BookingRef, b.StartDate.Format(bookings.DateLayout), b.EndDate.Format(bookings.DateLayout), b.TotalPrice)
		}
	}
	return nil
}
