package pg

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbt "tourcab/db/db"
)

// setupTest opens GORM on top of sqlmock so queries can be asserted without a server.
func setupTest(t *testing.T) (dbt.BookingDBWrapper, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: newGORMLogger(logger.Silent),
	})
	require.NoError(t, err)
	return NewGORMBookingDBWrapper(gdb), mock
}

func q(s string) string {
	return regexp.QuoteMeta(s)
}

var bookingColumns = []string{"id", "kind", "name", "email", "phone", "country", "passengers", "trip_date", "vehicle", "status", "created_at", "updated_at"}

func TestCreateBooking(t *testing.T) {
	db, mock := setupTest(t)

	b := &dbt.Booking{
		BookingInfo: dbt.BookingInfo{
			ID:       uuid.New(),
			Kind:     dbt.KindCustomTrip,
			Name:     "Nimal",
			Email:    "nimal@example.com",
			Status:   dbt.StatusCompleted,
			TripDate: time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		},
		Destinations: []dbt.Destination{
			{Name: "Mirissa Beach", Category: "beach"},
			{Name: "Yala National Park", Category: "wildlife"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO "bookings"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO "booking_destinations"`)).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, db.CreateBooking(context.Background(), b))
	assert.Equal(t, dbt.StatusPending, b.Status)
	assert.False(t, b.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_RollsBackOnDestinationFailure(t *testing.T) {
	db, mock := setupTest(t)

	b := &dbt.Booking{
		BookingInfo:  dbt.BookingInfo{ID: uuid.New(), Name: "Nimal"},
		Destinations: []dbt.Destination{{Name: "Mirissa Beach", Category: "beach"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec(q(`INSERT INTO "bookings"`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q(`INSERT INTO "booking_destinations"`)).WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err := db.CreateBooking(context.Background(), b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create destinations")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingInfo(t *testing.T) {
	db, mock := setupTest(t)
	id := uuid.New()
	created := time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(q(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(bookingColumns).
			AddRow(id, "customTrip", "Nimal", "nimal@example.com", "+94", "Sri Lanka", 2,
				time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC), "van", "confirmed", created, created))

	info, err := db.GetBookingInfo(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, dbt.StatusConfirmed, info.Status)
	assert.Equal(t, dbt.KindCustomTrip, info.Kind)
	assert.Equal(t, 2, info.Passengers)
	assert.Equal(t, 20, info.TripDate.Day())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBookingInfo_NotFound(t *testing.T) {
	db, mock := setupTest(t)

	mock.ExpectQuery(q(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows(bookingColumns))

	_, err := db.GetBookingInfo(context.Background(), uuid.New())
	assert.ErrorIs(t, err, dbt.ErrNotFound)
}

func TestListBookingInfo(t *testing.T) {
	db, mock := setupTest(t)
	newer, older := uuid.New(), uuid.New()
	t1 := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)

	mock.ExpectQuery(q(`SELECT * FROM "bookings" ORDER BY created_at DESC,id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status", "created_at"}).
			AddRow(newer, "second", "pending", t1).
			AddRow(older, "first", "cancelled", t0))

	list, err := db.ListBookingInfo(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer, list[0].ID)
	assert.Equal(t, dbt.StatusCancelled, list[1].Status)
	assert.True(t, list[1].TripDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus(t *testing.T) {
	db, mock := setupTest(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status"}).AddRow(id, "Nimal", "pending"))
	mock.ExpectExec(q(`UPDATE "bookings" SET`)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(q(`INSERT INTO "booking_status_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	info, err := db.UpdateBookingStatus(context.Background(), id, dbt.StatusConfirmed, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, dbt.StatusConfirmed, info.Status)
	assert.Equal(t, "Nimal", info.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus_NotFound(t *testing.T) {
	db, mock := setupTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery(q(`SELECT * FROM "bookings" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := db.UpdateBookingStatus(context.Background(), uuid.New(), dbt.StatusCancelled, "x")
	assert.ErrorIs(t, err, dbt.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus_InvalidStatus(t *testing.T) {
	db, mock := setupTest(t)

	_, err := db.UpdateBookingStatus(context.Background(), uuid.New(), dbt.Status("archived"), "x")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query for an invalid status")
}

func TestDeleteBooking(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		wantErr  error
	}{
		{name: "deleted", affected: 1},
		{name: "missing", affected: 0, wantErr: dbt.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupTest(t)
			mock.ExpectBegin()
			mock.ExpectExec(q(`DELETE FROM "bookings" WHERE id = $1`)).WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			err := db.DeleteBooking(context.Background(), uuid.New())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDataLoaderGetDestinations(t *testing.T) {
	db, mock := setupTest(t)
	a, b := uuid.New(), uuid.New()

	mock.ExpectQuery(q(`SELECT * FROM "booking_destinations" WHERE booking_id IN ($1,$2)`)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "position", "name", "category"}).
			AddRow(a, 0, "Ella Rock", "mountain").
			AddRow(a, 1, "Haputale", "mountain"))

	got, err := db.DataLoaderGetDestinations(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Equal(t, []dbt.Destination{
		{Name: "Ella Rock", Category: "mountain"},
		{Name: "Haputale", Category: "mountain"},
	}, got[a])
	assert.NotNil(t, got[b])
	assert.Empty(t, got[b])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithSearchPath(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{
			name: "keyword form",
			dsn:  "host=localhost user=postgres",
			want: "host=localhost user=postgres search_path=tourcab",
		},
		{
			name: "url form",
			dsn:  "postgres://u:p@db:5432/app?sslmode=disable",
			want: "postgres://u:p@db:5432/app?search_path=tourcab&sslmode=disable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withSearchPath(tt.dsn, "tourcab"))
		})
	}
}
