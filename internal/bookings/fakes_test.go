package bookings

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"travelbook/internal/notifications"
	"travelbook/internal/packages"

	"github.com/google/uuid"
)

// memRepo keeps bookings and the trip index in memory
type memRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*Booking
	order    []uuid.UUID
	trips    map[uuid.UUID][]uuid.UUID

	// skipTrip stores bookings without a trip entry, like legacy rows
	skipTrip   bool
	appendFail map[uuid.UUID]bool
	clock      time.Time
}

func newMemRepo() *memRepo {
	return &memRepo{
		bookings:   map[uuid.UUID]*Booking{},
		trips:      map[uuid.UUID][]uuid.UUID{},
		appendFail: map[uuid.UUID]bool{},
		clock:      time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (m *memRepo) CreateWithTrip(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = uuid.New()
	m.clock = m.clock.Add(time.Minute)
	b.CreatedAt = m.clock
	b.UpdatedAt = m.clock
	cp := *b
	m.bookings[b.ID] = &cp
	m.order = append(m.order, b.ID)
	if !m.skipTrip {
		m.trips[b.UserID] = append(m.trips[b.UserID], b.ID)
	}
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, id := range ids {
		if b, ok := m.bookings[id]; ok {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memRepo) ListByUser(_ context.Context, userID uuid.UUID, query ListQuery) ([]Booking, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	query.normalize()

	var out []Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if b.UserID != userID || (query.Status != "" && b.Status != query.Status) {
			continue
		}
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	total := int64(len(out))
	start := (query.Page - 1) * query.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + query.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to Status, cancelledAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Status != from {
		return ErrInvalidTransition
	}
	b.Status = to
	if cancelledAt != nil {
		b.CancelledAt = cancelledAt
	}
	return nil
}

func (m *memRepo) UpdatePaymentStatus(_ context.Context, id uuid.UUID, to PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return ErrNotFound
	}
	b.PaymentStatus = to
	return nil
}

// m.order is creation order, which the clock keeps ascending by created_at
func (m *memRepo) FindMissingTrips(_ context.Context, after *TripCursor, limit int) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, id := range m.order {
		b := m.bookings[id]
		if after != nil && !afterCursor(b, after) {
			continue
		}
		if !m.hasTrip(b.UserID, b.ID) {
			out = append(out, *b)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func afterCursor(b *Booking, c *TripCursor) bool {
	if !b.CreatedAt.Equal(c.CreatedAt) {
		return b.CreatedAt.After(c.CreatedAt)
	}
	return bytes.Compare(b.ID[:], c.ID[:]) > 0
}

func (m *memRepo) hasTrip(userID, bookingID uuid.UUID) bool {
	for _, id := range m.trips[userID] {
		if id == bookingID {
			return true
		}
	}
	return false
}

func (m *memRepo) AppendTrip(_ context.Context, userID, bookingID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendFail[bookingID] {
		return errors.New("write failed")
	}
	if !m.hasTrip(userID, bookingID) {
		m.trips[userID] = append(m.trips[userID], bookingID)
	}
	return nil
}

// ListTrips returns newest entries first like the stored index
func (m *memRepo) ListTrips(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.trips[userID]
	out := make([]uuid.UUID, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		out = append(out, ids[i])
	}
	return out, nil
}

type fakeCatalog map[uuid.UUID]packages.Snapshot

func (f fakeCatalog) FindByID(_ context.Context, id uuid.UUID) (*packages.Snapshot, error) {
	snap, ok := f[id]
	if !ok {
		return nil, packages.ErrPackageNotFound
	}
	return &snap, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*notifications.BookingEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event *notifications.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []notifications.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notifications.EventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
