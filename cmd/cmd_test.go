package cmd

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dbt "tourcab/db/db"
)

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLines int
		wantFirst string
		wantErr   bool
	}{
		{name: "keyword", args: []string{"beach"}, wantLines: 5, wantFirst: "Unawatuna Beach"},
		{name: "limit", args: []string{"wildlife", "and", "beach", "--limit", "2"}, wantLines: 2, wantFirst: "Unawatuna Beach"},
		{name: "partial name", args: []string{"sigiri"}, wantLines: 1, wantFirst: "Sigiriya Rock Fortress"},
		{name: "nothing", args: []string{"qqq"}, wantLines: 1, wantFirst: "no suggestions"},
		{name: "bad limit", args: []string{"beach", "--limit", "0"}, wantErr: true},
		{name: "no text", args: []string{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := suggestCommand()
			var out bytes.Buffer
			c.SetOut(&out)
			c.SetErr(&bytes.Buffer{})
			c.SetArgs(tt.args)

			err := c.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			assert.Len(t, lines, tt.wantLines)
			assert.True(t, strings.HasPrefix(lines[0], tt.wantFirst), lines[0])
		})
	}
}

func TestHashPasswordCommand(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
	}{
		{name: "argument", args: []string{"s3cret"}},
		{name: "stdin", args: []string{}, stdin: "s3cret\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := hashPasswordCommand()
			var out bytes.Buffer
			c.SetOut(&out)
			c.SetIn(strings.NewReader(tt.stdin))
			c.SetArgs(tt.args)

			require.NoError(t, c.Execute())
			hash := strings.TrimSpace(out.String())
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
		})
	}

	c := hashPasswordCommand()
	c.SetOut(&bytes.Buffer{})
	c.SetErr(&bytes.Buffer{})
	c.SetIn(strings.NewReader(""))
	c.SetArgs([]string{})
	assert.Error(t, c.Execute())
}

func TestWriteBookingsCSV(t *testing.T) {
	created := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	bookings := []dbt.Booking{
		{
			BookingInfo: dbt.BookingInfo{
				ID:         uuid.MustParse("7f0b7d1e-2c1a-4d43-9d8e-2f0a3b1c4d5e"),
				Kind:       dbt.KindCustomTrip,
				Name:       "Nimal, Perera",
				Email:      "nimal@example.com",
				Passengers: 3,
				TripDate:   time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC),
				Vehicle:    "van",
				Status:     dbt.StatusPending,
				CreatedAt:  created,
			},
			Destinations: []dbt.Destination{{Name: "Ella Rock"}, {Name: "Haputale"}},
		},
		{
			BookingInfo: dbt.BookingInfo{
				ID:           uuid.New(),
				Kind:         dbt.KindPackage,
				Name:         "Ayesha",
				PackageTitle: "Hill Country Escape",
				Status:       dbt.StatusCancelled,
				CreatedAt:    created,
			},
		},
	}

	tests := []struct {
		name     string
		status   dbt.Status
		wantRows int
	}{
		{name: "all", wantRows: 2},
		{name: "pending only", status: dbt.StatusPending, wantRows: 1},
		{name: "none confirmed", status: dbt.StatusConfirmed, wantRows: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := writeBookingsCSV(&buf, bookings, tt.status)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, n)

			records, err := csv.NewReader(&buf).ReadAll()
			require.NoError(t, err)
			require.Len(t, records, tt.wantRows+1)
			assert.Equal(t, exportHeader, records[0])
		})
	}

	var buf bytes.Buffer
	_, err := writeBookingsCSV(&buf, bookings[:1], "")
	require.NoError(t, err)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	row := records[1]
	assert.Equal(t, "Nimal, Perera", row[4])
	assert.Equal(t, "2026-11-02", row[8])
	assert.Equal(t, "3", row[9])
	assert.Equal(t, "Ella Rock; Haputale", row[12])
	assert.Equal(t, "2026-10-16T09:30:00Z", row[1])
}
