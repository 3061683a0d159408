package mq

import (
	"fmt"
	"time"

	"tourcab/db/db"

	"github.com/google/uuid"
)

type Action int

const (
	ActionCreate Action = iota
	ActionUpdate
	ActionDelete
	ActionCnt
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func ParseAction(s string) (Action, error) {
	for a := ActionCreate; a < ActionCnt; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %s", s)
}

// Change is one field difference between two versions of a booking.
type Change struct {
	Type string   `json:"type"`
	Path []string `json:"path"`
	From any      `json:"from"`
	To   any      `json:"to"`
}

// BookingMessage describes what happened to a booking.
// Booking is set for creates and updates, Changes only for updates.
type BookingMessage struct {
	Action    Action      `json:"action"`
	BookingID uuid.UUID   `json:"bookingId"`
	Booking   *db.Booking `json:"booking,omitempty"`
	Changes   []Change    `json:"changes,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	At        time.Time   `json:"at"`
}
