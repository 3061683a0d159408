package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is wrapped by every wrapper when a booking does not exist.
var ErrNotFound = errors.New("not found")

type BookingDBWrapper interface {
	// Create stores b with status forced to pending. The store assigns
	// CreatedAt and UpdatedAt.
	CreateBooking(ctx context.Context, b *Booking) error
	// Read
	GetBookingInfo(ctx context.Context, id uuid.UUID) (*BookingInfo, error)
	// ListBookingInfo returns all bookings, newest first.
	ListBookingInfo(ctx context.Context) ([]BookingInfo, error)
	ListStatusEvents(ctx context.Context, id uuid.UUID) ([]StatusEvent, error)
	// Update applies any status, including the current one, and records the
	// change as a StatusEvent.
	UpdateBookingStatus(ctx context.Context, id uuid.UUID, status Status, actor string) (*BookingInfo, error)
	// Delete
	DeleteBooking(ctx context.Context, id uuid.UUID) error
	// Data Loader
	// DataLoaderGetDestinations has an entry, possibly empty, for every id.
	DataLoaderGetDestinations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]Destination, error)
}

// Mode selects the store implementation.
type Mode string

const (
	ModeMemory   Mode = "mem"
	ModePostgres Mode = "pg"
)
