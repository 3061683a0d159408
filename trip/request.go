package trip

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tourcab/catalog"
)

// ValidationError describes why a trip request was rejected. Values are
// comparable, so the sentinels below work with errors.Is.
type ValidationError struct {
	Field string
	Code  string
	Msg   string
}

func (e ValidationError) Error() string {
	return e.Msg
}

var (
	ErrMissingDate        = ValidationError{Field: "date", Code: "missing_date", Msg: "please select your trip date"}
	ErrMissingDestination = ValidationError{Field: "destinations", Code: "missing_destination", Msg: "please select at least one destination"}
	ErrDateInPast         = ValidationError{Field: "date", Code: "date_in_past", Msg: "trip date cannot be in the past"}
	ErrInvalidVehicle     = ValidationError{Field: "vehicle", Code: "invalid_vehicle", Msg: "please choose a valid vehicle"}
	ErrInvalidPassengers  = ValidationError{Field: "passengers", Code: "invalid_passengers", Msg: "passengers must be at least 1"}
	ErrMissingContact     = ValidationError{Field: "contact", Code: "missing_contact", Msg: "name, email, phone and country are required"}
	ErrInvalidEmail       = ValidationError{Field: "email", Code: "invalid_email", Msg: "please enter a valid email address"}
)

// ErrSubmitFailed wraps any error returned by a Submitter.
var ErrSubmitFailed = errors.New("booking submission failed")

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

var validate = validator.New()

type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Country string `json:"country"`
}

func (c Contact) normalized() Contact {
	return Contact{
		Name:    strings.TrimSpace(c.Name),
		Email:   strings.TrimSpace(c.Email),
		Phone:   strings.TrimSpace(c.Phone),
		Country: strings.TrimSpace(c.Country),
	}
}

// ValidateContact trims c and checks that every field is set and the email
// is well-formed.
func ValidateContact(c Contact) (Contact, error) {
	contact := c.normalized()
	if contact.Name == "" || contact.Email == "" || contact.Phone == "" || contact.Country == "" {
		return Contact{}, ErrMissingContact
	}
	if err := validate.Var(contact.Email, "email"); err != nil {
		return Contact{}, ErrInvalidEmail
	}
	return contact, nil
}

// Draft is the not yet validated state of a planned trip. A zero Date means
// no date was chosen.
type Draft struct {
	Destinations []catalog.Destination
	Date         time.Time
	Vehicle      catalog.Vehicle
	Passengers   int
	Contact      Contact
	Notes        string
}

// TripRequest is a validated booking request, ready to be stored.
type TripRequest struct {
	Destinations []catalog.Destination `json:"destinations"`
	Date         time.Time             `json:"date"`
	Vehicle      catalog.Vehicle       `json:"vehicle"`
	Passengers   int                   `json:"passengers"`
	Contact      Contact               `json:"contact"`
	Notes        string                `json:"notes,omitempty"`
}

// Assemble validates d against today's date and builds a TripRequest.
// The date is checked before the destinations; contact details come last.
// d.Date is taken as a calendar date; today should already be in the
// planner's time zone.
func Assemble(d Draft, today time.Time) (TripRequest, error) {
	if d.Date.IsZero() {
		return TripRequest{}, ErrMissingDate
	}
	if len(d.Destinations) == 0 {
		return TripRequest{}, ErrMissingDestination
	}
	date := DateOf(d.Date)
	if date.Before(DateOf(today)) {
		return TripRequest{}, ErrDateInPast
	}

	vehicle := d.Vehicle
	if vehicle == "" {
		vehicle = catalog.DefaultVehicle
	}
	if !vehicle.IsValid() {
		return TripRequest{}, ErrInvalidVehicle
	}

	passengers := d.Passengers
	if passengers == 0 {
		passengers = 1
	}
	if passengers < 0 {
		return TripRequest{}, ErrInvalidPassengers
	}

	contact, err := ValidateContact(d.Contact)
	if err != nil {
		return TripRequest{}, err
	}

	return TripRequest{
		Destinations: append([]catalog.Destination(nil), d.Destinations...),
		Date:         date,
		Vehicle:      vehicle,
		Passengers:   passengers,
		Contact:      contact,
		Notes:        strings.TrimSpace(d.Notes),
	}, nil
}

// DateOf strips the clock from t, keeping its calendar date as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, day := t.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// Submitter persists a trip request and returns the new booking id.
type Submitter interface {
	Submit(ctx context.Context, req TripRequest) (string, error)
}

type SubmitterFunc func(ctx context.Context, req TripRequest) (string, error)

func (f SubmitterFunc) Submit(ctx context.Context, req TripRequest) (string, error) {
	return f(ctx, req)
}
