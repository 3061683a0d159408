package mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	dbt "tourcab/db/db"
)

// inMemoryBookingDBWrapper is an in-memory implementation of dbt.BookingDBWrapper.
type inMemoryBookingDBWrapper struct {
	bookings map[uuid.UUID]*dbt.Booking
	events   map[uuid.UUID][]dbt.StatusEvent
	now      func() time.Time

	mu sync.RWMutex
}

// NewInMemoryBookingDBWrapper creates and returns a new instance of inMemoryBookingDBWrapper.
func NewInMemoryBookingDBWrapper() dbt.BookingDBWrapper {
	return newInMemoryBookingDBWrapper(time.Now)
}

func newInMemoryBookingDBWrapper(now func() time.Time) *inMemoryBookingDBWrapper {
	return &inMemoryBookingDBWrapper{
		bookings: make(map[uuid.UUID]*dbt.Booking),
		events:   make(map[uuid.UUID][]dbt.StatusEvent),
		now:      now,
	}
}

func copyBooking(b *dbt.Booking) *dbt.Booking {
	c := *b
	c.Destinations = append([]dbt.Destination(nil), b.Destinations...)
	return &c
}

// CreateBooking stores a copy of b.
func (db *inMemoryBookingDBWrapper) CreateBooking(_ context.Context, b *dbt.Booking) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	if _, exists := db.bookings[b.ID]; exists {
		return fmt.Errorf("booking with ID %s already exists", b.ID)
	}

	now := db.now().UTC()
	b.Status = dbt.StatusPending
	b.CreatedAt = now
	b.UpdatedAt = now
	db.bookings[b.ID] = copyBooking(b)
	return nil
}

// GetBookingInfo retrieves booking information by ID.
func (db *inMemoryBookingDBWrapper) GetBookingInfo(_ context.Context, id uuid.UUID) (*dbt.BookingInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	b, exists := db.bookings[id]
	if !exists {
		return nil, fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
	}
	info := b.BookingInfo
	return &info, nil
}

// ListBookingInfo returns every booking, newest first.
func (db *inMemoryBookingDBWrapper) ListBookingInfo(_ context.Context) ([]dbt.BookingInfo, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	infos := make([]dbt.BookingInfo, 0, len(db.bookings))
	for _, b := range db.bookings {
		infos = append(infos, b.BookingInfo)
	}
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID.String() < infos[j].ID.String()
		}
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

func (db *inMemoryBookingDBWrapper) ListStatusEvents(_ context.Context, id uuid.UUID) ([]dbt.StatusEvent, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if _, exists := db.bookings[id]; !exists {
		return nil, fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
	}
	return append([]dbt.StatusEvent{}, db.events[id]...), nil
}

// UpdateBookingStatus sets the status and appends a status event.
func (db *inMemoryBookingDBWrapper) UpdateBookingStatus(_ context.Context, id uuid.UUID, status dbt.Status, actor string) (*dbt.BookingInfo, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	b, exists := db.bookings[id]
	if !exists {
		return nil, fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
	}

	now := db.now().UTC()
	db.events[id] = append(db.events[id], dbt.StatusEvent{
		BookingID: id,
		From:      b.Status,
		To:        status,
		Actor:     actor,
		At:        now,
	})
	b.Status = status
	b.UpdatedAt = now

	info := b.BookingInfo
	return &info, nil
}

// DeleteBooking removes the booking and its history.
func (db *inMemoryBookingDBWrapper) DeleteBooking(_ context.Context, id uuid.UUID) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, exists := db.bookings[id]; !exists {
		return fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
	}
	delete(db.bookings, id)
	delete(db.events, id)
	return nil
}

func (db *inMemoryBookingDBWrapper) DataLoaderGetDestinations(_ context.Context, ids []uuid.UUID) (map[uuid.UUID][]dbt.Destination, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	result := make(map[uuid.UUID][]dbt.Destination, len(ids))
	for _, id := range ids {
		dests := []dbt.Destination{}
		if b, exists := db.bookings[id]; exists {
			dests = append(dests, b.Destinations...)
		}
		result[id] = dests
	}
	return result, nil
}
