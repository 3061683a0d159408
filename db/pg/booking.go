package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbt "tourcab/db/db"
)

// GORMBookingDBWrapper is a GORM-based PostgreSQL implementation of dbt.BookingDBWrapper.
type GORMBookingDBWrapper struct {
	db *gorm.DB
}

// NewGORMBookingDBWrapper creates and returns a new instance of GORMBookingDBWrapper.
func NewGORMBookingDBWrapper(db *gorm.DB) dbt.BookingDBWrapper {
	return &GORMBookingDBWrapper{
		db: db,
	}
}

func toBookingModel(b *dbt.Booking) BookingModel {
	m := BookingModel{
		ID:           b.ID,
		Kind:         string(b.Kind),
		Name:         b.Name,
		Email:        b.Email,
		Phone:        b.Phone,
		Country:      b.Country,
		Passengers:   b.Passengers,
		Vehicle:      b.Vehicle,
		PackageID:    b.PackageID,
		PackageTitle: b.PackageTitle,
		Notes:        b.Notes,
		Status:       string(b.Status),
	}
	if !b.TripDate.IsZero() {
		d := datatypes.Date(b.TripDate)
		m.TripDate = &d
	}
	return m
}

func toBookingInfo(m BookingModel) dbt.BookingInfo {
	info := dbt.BookingInfo{
		ID:           m.ID,
		Kind:         dbt.Kind(m.Kind),
		Name:         m.Name,
		Email:        m.Email,
		Phone:        m.Phone,
		Country:      m.Country,
		Passengers:   m.Passengers,
		Vehicle:      m.Vehicle,
		PackageID:    m.PackageID,
		PackageTitle: m.PackageTitle,
		Notes:        m.Notes,
		Status:       dbt.Status(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.TripDate != nil {
		info.TripDate = time.Time(*m.TripDate)
	}
	return info
}

// CreateBooking inserts the booking and its destinations in one transaction.
func (pgdb *GORMBookingDBWrapper) CreateBooking(ctx context.Context, b *dbt.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.Status = dbt.StatusPending
	model := toBookingModel(b)

	err := pgdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&model).Error; err != nil {
			if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
				return fmt.Errorf("booking with ID %s already exists: %w", b.ID, err)
			}
			return fmt.Errorf("failed to create booking: %w", err)
		}
		if len(b.Destinations) == 0 {
			return nil
		}

		dests := make([]BookingDestinationModel, 0, len(b.Destinations))
		for i, d := range b.Destinations {
			dests = append(dests, BookingDestinationModel{
				BookingID:   b.ID,
				Position:    i,
				Name:        d.Name,
				Category:    d.Category,
				Description: d.Description,
			})
		}
		if err := tx.Create(&dests).Error; err != nil {
			return fmt.Errorf("failed to create destinations for booking %s: %w", b.ID, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// GetBookingInfo retrieves booking information by ID using GORM.
func (pgdb *GORMBookingDBWrapper) GetBookingInfo(ctx context.Context, id uuid.UUID) (*dbt.BookingInfo, error) {
	var m BookingModel
	result := pgdb.db.WithContext(ctx).First(&m, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get booking %s: %w", id, result.Error)
	}
	info := toBookingInfo(m)
	return &info, nil
}

// ListBookingInfo returns every booking, newest first.
func (pgdb *GORMBookingDBWrapper) ListBookingInfo(ctx context.Context) ([]dbt.BookingInfo, error) {
	var models []BookingModel
	result := pgdb.db.WithContext(ctx).Order("created_at DESC").Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", result.Error)
	}

	infos := make([]dbt.BookingInfo, 0, len(models))
	for _, m := range models {
		infos = append(infos, toBookingInfo(m))
	}
	return infos, nil
}

func (pgdb *GORMBookingDBWrapper) ListStatusEvents(ctx context.Context, id uuid.UUID) ([]dbt.StatusEvent, error) {
	if _, err := pgdb.GetBookingInfo(ctx, id); err != nil {
		return nil, err
	}

	var models []BookingStatusEventModel
	result := pgdb.db.WithContext(ctx).Where("booking_id = ?", id).Order("id").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list status events for booking %s: %w", id, result.Error)
	}

	events := make([]dbt.StatusEvent, 0, len(models))
	for _, m := range models {
		events = append(events, dbt.StatusEvent{
			BookingID: m.BookingID,
			From:      dbt.Status(m.FromStatus),
			To:        dbt.Status(m.ToStatus),
			Actor:     m.Actor,
			At:        m.CreatedAt,
		})
	}
	return events, nil
}

// UpdateBookingStatus locks the row, sets the status and records the event.
func (pgdb *GORMBookingDBWrapper) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status dbt.Status, actor string) (*dbt.BookingInfo, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status %q", status)
	}

	var m BookingModel
	err := pgdb.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
			}
			return fmt.Errorf("failed to load booking %s: %w", id, err)
		}

		event := BookingStatusEventModel{
			BookingID:  id,
			FromStatus: m.Status,
			ToStatus:   string(status),
			Actor:      actor,
		}
		if err := tx.Model(&m).Update("status", string(status)).Error; err != nil {
			return fmt.Errorf("failed to update status of booking %s: %w", id, err)
		}
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to record status event for booking %s: %w", id, err)
		}
		m.Status = string(status)
		return nil
	})
	if err != nil {
		return nil, err
	}

	info := toBookingInfo(m)
	return &info, nil
}

// DeleteBooking removes a booking; destinations and events cascade.
func (pgdb *GORMBookingDBWrapper) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	result := pgdb.db.WithContext(ctx).Delete(&BookingModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("booking %s: %w", id, dbt.ErrNotFound)
	}
	return nil
}

func (pgdb *GORMBookingDBWrapper) DataLoaderGetDestinations(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]dbt.Destination, error) {
	result := make(map[uuid.UUID][]dbt.Destination, len(ids))
	for _, id := range ids {
		result[id] = []dbt.Destination{}
	}
	if len(ids) == 0 {
		return result, nil
	}

	var models []BookingDestinationModel
	if err := pgdb.db.WithContext(ctx).Where("booking_id IN ?", ids).Order("booking_id").Order("position").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load destinations: %w", err)
	}
	for _, m := range models {
		result[m.BookingID] = append(result[m.BookingID], dbt.Destination{
			Name:        m.Name,
			Category:    m.Category,
			Description: m.Description,
		})
	}
	return result, nil
}
