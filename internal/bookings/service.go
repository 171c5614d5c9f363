package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"travelbook/internal/notifications"
	"travelbook/internal/packages"
	"travelbook/pkg/logger"

	"github.com/google/uuid"
)

// PackageCatalog resolves the package a booking is made against
type PackageCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*packages.Snapshot, error)
}

// CreateBookingInput carries only what a client may choose. Derived fields
// such as end date and total price have no place here.
type CreateBookingInput struct {
	PackageID       uuid.UUID
	StartDate       string
	NumberOfPeople  int
	PaymentMethod   string
	SpecialRequests string
	ContactInfo     *ContactInfo
}

type Service interface {
	CreateBooking(ctx context.Context, actorID uuid.UUID, input CreateBookingInput) (*Booking, error)
	GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error)
	ListUserBookings(ctx context.Context, actorID uuid.UUID, query ListQuery) ([]Booking, int64, error)
	ListTrips(ctx context.Context, actorID uuid.UUID) ([]Booking, error)

	SetStatus(ctx context.Context, actor Actor, id uuid.UUID, newStatus string) (*Booking, error)
	SetPaymentStatus(ctx context.Context, actor Actor, id uuid.UUID, newPaymentStatus string) (*Booking, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error)
}

type service struct {
	repo      Repository
	trips     TripLister
	catalog   PackageCatalog
	publisher notifications.Publisher
	now       func() time.Time
}

// TripLister reads a user's trip index
type TripLister interface {
	ListTrips(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

func NewService(repo Repository, trips TripLister, catalog PackageCatalog, publisher notifications.Publisher) Service {
	if publisher == nil {
		publisher = notifications.NoopPublisher{}
	}
	return &service{
		repo:      repo,
		trips:     trips,
		catalog:   catalog,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) CreateBooking(ctx context.Context, actorID uuid.UUID, input CreateBookingInput) (*Booking, error) {
	pkg, err := s.catalog.FindByID(ctx, input.PackageID)
	if err != nil {
		if errors.Is(err, packages.ErrPackageNotFound) {
			return nil, fmt.Errorf("%w: package %s", ErrNotFound, input.PackageID)
		}
		return nil, fmt.Errorf("failed to resolve package: %w", err)
	}

	if input.NumberOfPeople < 1 {
		return nil, fmt.Errorf("%w: numberOfPeople must be at least 1", ErrInvalidInput)
	}
	start, err := ParseStartDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	method := PaymentMethod(strings.TrimSpace(input.PaymentMethod))
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, input.PaymentMethod)
	}

	ref, err := generateBookingReference(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{
		BookingRef:      ref,
		PackageID:       pkg.ID,
		UserID:          actorID,
		StartDate:       start,
		EndDate:         ComputeEndDate(start, pkg.DurationDays),
		NumberOfPeople:  input.NumberOfPeople,
		TotalPrice:      ComputeTotalPrice(pkg.Price, input.NumberOfPeople),
		Status:          StatusPending,
		PaymentStatus:   PaymentPending,
		PaymentMethod:   method,
		SpecialRequests: strings.TrimSpace(input.SpecialRequests),
		ContactInfo:     input.ContactInfo,
	}

	if err := s.repo.CreateWithTrip(ctx, booking); err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), pkg.ID.String(), actorID.String())

	event := s.newEvent(notifications.EventBookingCreated, booking, actorID)
	event.PackageTitle = pkg.Title
	s.publish(ctx, event)

	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanViewBooking(actor, booking) {
		return nil, fmt.Errorf("%w: not authorized to view this booking", ErrForbidden)
	}
	return booking, nil
}

func (s *service) ListUserBookings(ctx context.Context, actorID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	if query.Status != "" && !query.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, query.Status)
	}
	return s.repo.ListByUser(ctx, actorID, query)
}

// ListTrips returns the bookings in the caller's trip index, newest entry first
func (s *service) ListTrips(ctx context.Context, actorID uuid.UUID) ([]Booking, error) {
	ids, err := s.trips.ListTrips(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to read trip index: %w", err)
	}

	found, err := s.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]Booking, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}

	trips := make([]Booking, 0, len(ids))
	for _, id := range ids {
		if b, ok := byID[id]; ok {
			trips = append(trips, b)
		}
	}
	return trips, nil
}

func (s *service) SetStatus(ctx context.Context, actor Actor, id uuid.UUID, newStatus string) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionBooking(actor.Role) {
		return nil, fmt.Errorf("%w: only agencies and admins can update booking status", ErrForbidden)
	}

	next := Status(strings.TrimSpace(newStatus))
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, newStatus)
	}
	return s.transition(ctx, actor, booking, next)
}

func (s *service) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanCancelBooking(actor, booking) {
		return nil, fmt.Errorf("%w: not authorized to cancel this booking", ErrForbidden)
	}
	return s.transition(ctx, actor, booking, StatusCancelled)
}

// transition applies one edge of the status machine. The write is
// conditional on the status read, so a concurrent change makes it fail.
func (s *service) transition(ctx context.Context, actor Actor, booking *Booking, next Status) (*Booking, error) {
	from := booking.Status
	if !from.CanTransitionTo(next) {
		if from.IsTerminal() {
			return nil, fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, from)
		}
		return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, from, next)
	}

	now := s.now()
	var cancelledAt *time.Time
	if next == StatusCancelled {
		cancelledAt = &now
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, from, next, cancelledAt); err != nil {
		return nil, err
	}

	booking.Status = next
	booking.UpdatedAt = now
	if cancelledAt != nil {
		booking.CancelledAt = cancelledAt
	}

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(), "status", from.String(), next.String(), actor.ID.String())
	if eventType, ok := statusEvents[next]; ok {
		s.publish(ctx, s.newEvent(eventType, booking, actor.ID))
	}
	return booking, nil
}

var statusEvents = map[Status]notifications.EventType{
	StatusConfirmed: notifications.EventBookingConfirmed,
	StatusCompleted: notifications.EventBookingCompleted,
	StatusCancelled: notifications.EventBookingCancelled,
}

// SetPaymentStatus accepts any known value from any current value
func (s *service) SetPaymentStatus(ctx context.Context, actor Actor, id uuid.UUID, newPaymentStatus string) (*Booking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransitionBooking(actor.Role) {
		return nil, fmt.Errorf("%w: only agencies and admins can update payment status", ErrForbidden)
	}

	next := PaymentStatus(strings.TrimSpace(newPaymentStatus))
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, newPaymentStatus)
	}

	if err := s.repo.UpdatePaymentStatus(ctx, booking.ID, next); err != nil {
		return nil, err
	}

	from := booking.PaymentStatus
	booking.PaymentStatus = next
	booking.UpdatedAt = s.now()

	logger.GetDefault().LogBookingTransition(ctx, booking.ID.String(), "payment_status", from.String(), next.String(), actor.ID.String())
	s.publish(ctx, s.newEvent(notifications.EventPaymentStatusChanged, booking, actor.ID))
	return booking, nil
}

func (s *service) newEvent(eventType notifications.EventType, b *Booking, actorID uuid.UUID) *notifications.BookingEvent {
	event := notifications.NewBookingEvent(eventType, b.ID)
	event.BookingRef = b.BookingRef
	event.UserID = b.UserID
	event.PackageID = b.PackageID
	event.Status = b.Status.String()
	event.PaymentStatus = b.PaymentStatus.String()
	event.StartDate = b.StartDate.Format(DateLayout)
	event.TotalPrice = b.TotalPrice
	event.ActorID = actorID
	return event
}

// publish never fails the caller; the booking is already stored
func (s *service) publish(ctx context.Context, event *notifications.BookingEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.GetDefault().Warn("failed to publish booking event",
			slog.String("booking_id", event.BookingID.String()),
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
	}
}

// generateBookingReference returns TRV-YYYYMMDD-XXXXXX
func generateBookingReference(now time.Time) (string, error) {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	randomPart := make([]byte, 6)
	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}
	return fmt.Sprintf("TRV-%s-%s", now.Format("20060102"), string(randomPart)), nil
}
