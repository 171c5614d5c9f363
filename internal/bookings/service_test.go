package bookings

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"travelbook/internal/notifications"
	"travelbook/internal/packages"
	"travelbook/internal/users"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	repo      *memRepo
	publisher *recordingPublisher
	svc       Service
	pkg       packages.Snapshot
	owner     Actor
	agency    Actor
	admin     Actor
	stranger  Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pkg := packages.Snapshot{ID: uuid.New(), Title: "Annapurna Base Camp", Price: 25000, DurationDays: 5}
	repo := newMemRepo()
	pub := &recordingPublisher{}
	return &fixture{
		repo:      repo,
		publisher: pub,
		svc:       NewService(repo, repo, fakeCatalog{pkg.ID: pkg}, pub),
		pkg:       pkg,
		owner:     Actor{ID: uuid.New(), Role: users.RoleUser},
		agency:    Actor{ID: uuid.New(), Role: users.RoleAgency},
		admin:     Actor{ID: uuid.New(), Role: users.RoleAdmin},
		stranger:  Actor{ID: uuid.New(), Role: users.RoleUser},
	}
}

func (f *fixture) input() CreateBookingInput {
	return CreateBookingInput{
		PackageID:      f.pkg.ID,
		StartDate:      "2025-06-01",
		NumberOfPeople: 4,
		PaymentMethod:  "credit_card",
		ContactInfo:    &ContactInfo{Name: "Asha", Email: "asha@example.com", Phone: "9000000001"},
	}
}

func (f *fixture) create(t *testing.T) *Booking {
	t.Helper()
	b, err := f.svc.CreateBooking(context.Background(), f.owner.ID, f.input())
	require.NoError(t, err)
	return b
}

func TestCreateBookingDerivesDateAndPrice(t *testing.T) {
	f := newFixture(t)

	b := f.create(t)

	assert.Equal(t, date(2025, 6, 1), b.StartDate)
	assert.Equal(t, date(2025, 6, 6), b.EndDate)
	assert.Equal(t, 100000.0, b.TotalPrice)
	assert.Equal(t, StatusPending, b.Status)
	assert.Equal(t, PaymentPending, b.PaymentStatus)
	assert.Equal(t, f.owner.ID, b.UserID)
	assert.Equal(t, f.pkg.ID, b.PackageID)
	assert.Regexp(t, regexp.MustCompile(`^TRV-\d{8}-[A-Z0-9]{6}$`), b.BookingRef)

	trips, err := f.repo.ListTrips(context.Background(), f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, trips)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, notifications.EventBookingCreated, event.Type)
	assert.Equal(t, "Annapurna Base Camp", event.PackageTitle)
	assert.Equal(t, "2025-06-01", event.StartDate)
	assert.Equal(t, 100000.0, event.TotalPrice)
}

func TestCreateBookingValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*CreateBookingInput)
		wantErr error
	}{
		{"unknown package", func(in *CreateBookingInput) { in.PackageID = uuid.New() }, ErrNotFound},
		{"zero people", func(in *CreateBookingInput) { in.NumberOfPeople = 0 }, ErrInvalidInput},
		{"negative people", func(in *CreateBookingInput) { in.NumberOfPeople = -2 }, ErrInvalidInput},
		{"bad start date", func(in *CreateBookingInput) { in.StartDate = "01/06/2025" }, ErrInvalidInput},
		{"unknown payment method", func(in *CreateBookingInput) { in.PaymentMethod = "barter" }, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := f.input()
			tt.mutate(&in)
			_, err := f.svc.CreateBooking(ctx, f.owner.ID, in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, f.repo.order, "nothing is stored for rejected input")
}

func TestCreateBookingSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("brokers down")

	b := f.create(t)
	assert.Equal(t, StatusPending, b.Status)
	assert.Len(t, f.repo.order, 1)
}

func TestGetBookingAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.GetBooking(ctx, f.owner, b.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(ctx, f.agency, b.ID)
	assert.NoError(t, err)
	_, err = f.svc.GetBooking(ctx, f.admin, b.ID)
	assert.NoError(t, err)

	_, err = f.svc.GetBooking(ctx, f.stranger, b.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.GetBooking(ctx, f.stranger, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound, "existence is checked before access")
}

func TestAgencyConfirmsBooking(t *testing.T) {
	f := newFixture(t)
	b := f.create(t)

	confirmed, err := f.svc.SetStatus(context.Background(), f.agency, b.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, confirmed.Status)

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, stored.Status)
	assert.Equal(t, []notifications.EventType{notifications.EventBookingCreated, notifications.EventBookingConfirmed}, f.publisher.types())
	assert.Equal(t, f.agency.ID, f.publisher.events[1].ActorID)
}

func TestSetStatusForbiddenForUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	for _, actor := range []Actor{f.owner, f.stranger} {
		_, err := f.svc.SetStatus(ctx, actor, b.ID, "confirmed")
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = f.svc.SetPaymentStatus(ctx, actor, b.ID, "paid")
		assert.ErrorIs(t, err, ErrForbidden)
	}

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
	assert.Equal(t, PaymentPending, stored.PaymentStatus)
}

func TestSetStatusErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.SetStatus(ctx, f.agency, uuid.New(), "confirmed")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.SetStatus(ctx, f.agency, b.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.SetStatus(ctx, f.agency, b.ID, "pending")
	assert.ErrorIs(t, err, ErrInvalidTransition, "same state is rejected")

	_, err = f.svc.SetStatus(ctx, f.agency, b.ID, "completed")
	assert.ErrorIs(t, err, ErrInvalidTransition, "completion requires confirmation first")
}

func TestCompletedIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.SetStatus(ctx, f.agency, b.ID, "confirmed")
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, f.admin, b.ID, "completed")
	require.NoError(t, err)

	for _, next := range []string{"pending", "confirmed", "cancelled", "completed"} {
		_, err = f.svc.SetStatus(ctx, f.admin, b.ID, next)
		assert.ErrorIs(t, err, ErrInvalidTransition, next)
	}
	_, err = f.svc.Cancel(ctx, f.owner, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestOwnerCancelsConfirmedBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	_, err := f.svc.SetPaymentStatus(ctx, f.agency, b.ID, "paid")
	require.NoError(t, err)
	_, err = f.svc.SetStatus(ctx, f.agency, b.ID, "confirmed")
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, f.owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, PaymentPaid, cancelled.PaymentStatus, "cancel leaves payment status alone")
	require.NotNil(t, cancelled.CancelledAt)

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Equal(t, PaymentPaid, stored.PaymentStatus)
}

func TestCancelTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	first, err := f.svc.Cancel(ctx, f.owner, b.ID)
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, f.owner, b.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, stored.Status)
	assert.Equal(t, first.CancelledAt, stored.CancelledAt)
}

func TestCancelOnlyByOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	for _, actor := range []Actor{f.stranger, f.agency, f.admin} {
		_, err := f.svc.Cancel(ctx, actor, b.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	}

	_, err := f.svc.Cancel(ctx, f.owner, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelThroughSetStatusStampsTime(t *testing.T) {
	f := newFixture(t)
	fixed := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	f.svc.(*service).now = func() time.Time { return fixed }
	b := f.create(t)

	cancelled, err := f.svc.SetStatus(context.Background(), f.admin, b.ID, "cancelled")
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelledAt)
	assert.Equal(t, fixed, *cancelled.CancelledAt)
	assert.Contains(t, cancelled.BookingRef, "TRV-20250520-")
}

func TestSetPaymentStatusIsPermissive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	for _, next := range []string{"paid", "refunded", "pending", "paid"} {
		updated, err := f.svc.SetPaymentStatus(ctx, f.agency, b.ID, next)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatus(next), updated.PaymentStatus)
	}

	_, err := f.svc.SetPaymentStatus(ctx, f.agency, b.ID, "partial")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.svc.SetPaymentStatus(ctx, f.agency, uuid.New(), "paid")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConcurrentTransitionLoses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.create(t)

	// another writer confirms between our read and our write
	stale, err := f.repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	require.NoError(t, f.repo.UpdateStatus(ctx, b.ID, StatusPending, StatusConfirmed, nil))

	_, err = f.svc.(*service).transition(ctx, f.owner, stale, StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestListUserBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t)
	second := f.create(t)
	_, err := f.svc.CreateBooking(ctx, f.stranger.ID, f.input())
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, f.owner, first.ID)
	require.NoError(t, err)

	list, total, err := f.svc.ListUserBookings(ctx, f.owner.ID, ListQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID, "newest first")

	list, total, err = f.svc.ListUserBookings(ctx, f.owner.ID, ListQuery{Status: StatusCancelled})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, first.ID, list[0].ID)

	_, _, err = f.svc.ListUserBookings(ctx, f.owner.ID, ListQuery{Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListTrips(t *testing.T) {
	f := newFixture(t)
	first := f.create(t)
	second := f.create(t)

	trips, err := f.svc.ListTrips(context.Background(), f.owner.ID)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, second.ID, trips[0].ID)
	assert.Equal(t, first.ID, trips[1].ID)

	trips, err = f.svc.ListTrips(context.Background(), f.stranger.ID)
	require.NoError(t, err)
	assert.Empty(t, trips)
}
