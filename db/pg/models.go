package pg

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BookingModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Kind         string          `gorm:"size:32;not null"`
	Name         string          `gorm:"size:255;not null"`
	Email        string          `gorm:"size:255;not null"`
	Phone        string          `gorm:"size:64;not null"`
	Country      string          `gorm:"size:128;not null"`
	Passengers   int             `gorm:"not null"`
	TripDate     *datatypes.Date `gorm:"type:date"` // nil when no date was chosen
	Vehicle      string          `gorm:"size:32"`
	PackageID    string          `gorm:"size:64"`
	PackageTitle string          `gorm:"size:255"`
	Notes        string          `gorm:"type:text"`
	Status       string          `gorm:"size:20;not null;index"`
	// meta data
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName returns the table name for BookingModel.
func (BookingModel) TableName() string {
	return "bookings"
}

type BookingDestinationModel struct {
	BookingID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Position    int       `gorm:"primaryKey;autoIncrement:false"`
	Name        string    `gorm:"size:255;not null"`
	Category    string    `gorm:"size:32;not null"`
	Description string    `gorm:"type:text"`
	// meta data
	CreatedAt time.Time
}

// TableName returns the table name for BookingDestinationModel.
func (BookingDestinationModel) TableName() string {
	return "booking_destinations"
}

type BookingStatusEventModel struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	BookingID  uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStatus string    `gorm:"size:20;not null"`
	ToStatus   string    `gorm:"size:20;not null"`
	Actor      string    `gorm:"size:255;not null"`
	CreatedAt  time.Time
}

func (BookingStatusEventModel) TableName() string {
	return "booking_status_events"
}
