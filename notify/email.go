package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	FormContact    = "contact"
	FormPackage    = "package"
	FormCustomTrip = "customTrip"
)

var (
	ErrMissingFields = errors.New("missing required fields")
	ErrInvalidEmail  = errors.New("invalid email address")
)

var validate = validator.New()

// EmailRequest is a website form forwarded to the owner.
type EmailRequest struct {
	Type              string          `json:"type" validate:"required"`
	Name              string          `json:"name" validate:"required"`
	Email             string          `json:"email" validate:"required"`
	ContactNumber     string          `json:"contactNumber" validate:"required"`
	Country           string          `json:"country" validate:"required"`
	Message           string          `json:"message,omitempty"`
	PackageDetails    json.RawMessage `json:"packageDetails,omitempty"`
	CustomTripDetails json.RawMessage `json:"customTripDetails,omitempty"`
}

// Validate trims the required fields and checks them.
func (r *EmailRequest) Validate() error {
	r.Type = strings.TrimSpace(r.Type)
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.ContactNumber = strings.TrimSpace(r.ContactNumber)
	r.Country = strings.TrimSpace(r.Country)

	if err := validate.Struct(r); err != nil {
		return ErrMissingFields
	}
	if err := validate.Var(r.Email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// Message is one outgoing notification.
type Message struct {
	Subject string
	Text    string
	// ReplyTo is the visitor's address, so the owner can answer directly.
	ReplyTo string
}

// Compose renders the subject and plain text body for r.
func Compose(r EmailRequest) Message {
	var subject, extra string
	switch r.Type {
	case FormContact:
		subject = "Contact Form Message from " + r.Name
		extra = "Message: " + orNA(r.Message)
	case FormPackage:
		subject = "Package Booking Request from " + r.Name
		extra = "Package Details: " + indentJSON(r.PackageDetails)
	case FormCustomTrip:
		subject = "Custom Trip Request from " + r.Name
		extra = "Custom Trip Details: " + indentJSON(r.CustomTripDetails)
	default:
		subject = "Form Submission from " + r.Name
		extra = "Message: " + orNA(r.Message)
	}

	text := fmt.Sprintf("Name: %s\nEmail: %s\nContact Number: %s\nCountry: %s\n%s\n",
		r.Name, r.Email, r.ContactNumber, r.Country, extra)
	return Message{Subject: subject, Text: text, ReplyTo: r.Email}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

func indentJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "N/A"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
