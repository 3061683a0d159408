package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown status: %s", s)
	}
}

func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Kind tells custom trips from package bookings.
type Kind string

const (
	KindCustomTrip Kind = "customTrip"
	KindPackage    Kind = "package"
)

type BookingInfo struct {
	ID           uuid.UUID `json:"id" diff:"-"`
	Kind         Kind      `json:"kind" diff:"kind"`
	Name         string    `json:"name" diff:"name"`
	Email        string    `json:"email" diff:"email"`
	Phone        string    `json:"phone" diff:"phone"`
	Country      string    `json:"country" diff:"country"`
	Passengers   int       `json:"passengers" diff:"passengers"`
	TripDate     time.Time `json:"tripDate" diff:"tripDate"`
	Vehicle      string    `json:"vehicle,omitempty" diff:"vehicle"`
	PackageID    string    `json:"packageId,omitempty" diff:"packageId"`
	PackageTitle string    `json:"packageTitle,omitempty" diff:"packageTitle"`
	Notes        string    `json:"notes,omitempty" diff:"notes"`
	Status       Status    `json:"status" diff:"status"`
	CreatedAt    time.Time `json:"createdAt" diff:"-"`
	UpdatedAt    time.Time `json:"updatedAt" diff:"-"`
}

type Destination struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type Booking struct {
	BookingInfo
	Destinations []Destination `json:"destinations"`
}

// StatusEvent records one admin status change.
type StatusEvent struct {
	BookingID uuid.UUID `json:"bookingId"`
	From      Status    `json:"from"`
	To        Status    `json:"to"`
	Actor     string    `json:"actor"`
	At        time.Time `json:"at"`
}
