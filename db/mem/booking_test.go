package mem

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dbt "tourcab/db/db"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

// setupTest creates a new in-memory wrapper whose clock advances a minute per call.
func setupTest() *inMemoryBookingDBWrapper {
	clock := &stepClock{now: time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)}
	return newInMemoryBookingDBWrapper(clock.Now)
}

func newBooking(name string, dests ...string) *dbt.Booking {
	b := &dbt.Booking{
		BookingInfo: dbt.BookingInfo{
			ID:      uuid.New(),
			Kind:    dbt.KindCustomTrip,
			Name:    name,
			Email:   name + "@example.com",
			Status:  dbt.StatusConfirmed,
			Vehicle: "car",
		},
	}
	for _, d := range dests {
		b.Destinations = append(b.Destinations, dbt.Destination{Name: d, Category: "beach"})
	}
	return b
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()
	db := setupTest()

	b := newBooking("nimal", "Mirissa Beach")
	require.NoError(t, db.CreateBooking(ctx, b))
	assert.Equal(t, dbt.StatusPending, b.Status, "status is forced to pending")
	assert.False(t, b.CreatedAt.IsZero())

	got, err := db.GetBookingInfo(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "nimal", got.Name)
	assert.Equal(t, dbt.StatusPending, got.Status)

	err = db.CreateBooking(ctx, b)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateBooking_AssignsID(t *testing.T) {
	db := setupTest()
	b := newBooking("kamal")
	b.ID = uuid.Nil

	require.NoError(t, db.CreateBooking(context.Background(), b))
	assert.NotEqual(t, uuid.Nil, b.ID)
}

func TestCreateBooking_StoresCopy(t *testing.T) {
	ctx := context.Background()
	db := setupTest()
	b := newBooking("nimal", "Mirissa Beach")
	require.NoError(t, db.CreateBooking(ctx, b))

	b.Name = "changed"
	b.Destinations[0].Name = "changed"

	got, err := db.GetBookingInfo(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "nimal", got.Name)

	dests, err := db.DataLoaderGetDestinations(ctx, []uuid.UUID{b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Mirissa Beach", dests[b.ID][0].Name)
}

func TestListBookingInfo_NewestFirst(t *testing.T) {
	ctx := context.Background()
	db := setupTest()

	first := newBooking("first")
	second := newBooking("second")
	third := newBooking("third")
	for _, b := range []*dbt.Booking{first, second, third} {
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	list, err := db.ListBookingInfo(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestUpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	db := setupTest()
	b := newBooking("nimal")
	require.NoError(t, db.CreateBooking(ctx, b))

	tests := []struct {
		name string
		to   dbt.Status
	}{
		{name: "pending to completed", to: dbt.StatusCompleted},
		{name: "completed back to pending", to: dbt.StatusPending},
		{name: "self transition", to: dbt.StatusPending},
		{name: "cancel", to: dbt.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := db.UpdateBookingStatus(ctx, b.ID, tt.to, "owner@example.com")
			require.NoError(t, err)
			assert.Equal(t, tt.to, info.Status)
		})
	}

	events, err := db.ListStatusEvents(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, events, 4)
	assert.Equal(t, dbt.StatusPending, events[0].From)
	assert.Equal(t, dbt.StatusCompleted, events[0].To)
	assert.Equal(t, dbt.StatusPending, events[2].From)
	assert.Equal(t, dbt.StatusPending, events[2].To)
	assert.Equal(t, "owner@example.com", events[3].Actor)
}

func TestUpdateBookingStatus_Errors(t *testing.T) {
	ctx := context.Background()
	db := setupTest()
	b := newBooking("nimal")
	require.NoError(t, db.CreateBooking(ctx, b))

	_, err := db.UpdateBookingStatus(ctx, b.ID, dbt.Status("archived"), "x")
	assert.Error(t, err)

	_, err = db.UpdateBookingStatus(ctx, uuid.New(), dbt.StatusConfirmed, "x")
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

func TestDeleteBooking(t *testing.T) {
	ctx := context.Background()
	db := setupTest()
	b := newBooking("nimal", "Arugam Bay")
	require.NoError(t, db.CreateBooking(ctx, b))
	_, err := db.UpdateBookingStatus(ctx, b.ID, dbt.StatusConfirmed, "x")
	require.NoError(t, err)

	require.NoError(t, db.DeleteBooking(ctx, b.ID))

	_, err = db.GetBookingInfo(ctx, b.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	_, err = db.ListStatusEvents(ctx, b.ID)
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	assert.ErrorIs(t, db.DeleteBooking(ctx, b.ID), dbt.ErrNotFound)
}

func TestDataLoaderGetDestinations(t *testing.T) {
	ctx := context.Background()
	db := setupTest()
	a := newBooking("a", "Mirissa Beach", "Yala National Park")
	bb := newBooking("b")
	require.NoError(t, db.CreateBooking(ctx, a))
	require.NoError(t, db.CreateBooking(ctx, bb))
	missing := uuid.New()

	got, err := db.DataLoaderGetDestinations(ctx, []uuid.UUID{a.ID, bb.ID, missing})
	require.NoError(t, err)
	assert.Len(t, got[a.ID], 2)
	assert.Equal(t, "Yala National Park", got[a.ID][1].Name)
	assert.NotNil(t, got[bb.ID])
	assert.Empty(t, got[bb.ID])
	assert.Empty(t, got[missing])

	loader := dbt.NewBookingDataLoader(db)
	dests, err := loader.GetDestinations.Load(ctx, a.ID)
	require.NoError(t, err)
	assert.Len(t, dests, 2)
}
