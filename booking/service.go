package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tourcab/catalog"
	dbt "tourcab/db/db"
	"tourcab/mq/mq"
	"tourcab/notify"
	"tourcab/trip"
)

var ErrUnknownPackage = errors.New("unknown tour package")

// PackageRequest books one of the catalog tour packages. Date is optional.
type PackageRequest struct {
	PackageID  string       `json:"packageId"`
	Date       time.Time    `json:"date"`
	Passengers int          `json:"passengers"`
	Contact    trip.Contact `json:"contact"`
	Notes      string       `json:"notes,omitempty"`
}

// Service owns booking records: creation, admin status changes and removal.
// Every change is published to the queue; publishing and owner notification
// never fail the operation itself. Notifications are sent in the background.
type Service struct {
	db       dbt.BookingDBWrapper
	queue    mq.BookingMessageQueue
	notifier notify.Sender
	location *time.Location
	now      func() time.Time
	pending  sync.WaitGroup
}

type Option func(*Service)

func WithQueue(q mq.BookingMessageQueue) Option {
	return func(s *Service) { s.queue = q }
}

func WithNotifier(n notify.Sender) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLocation sets the zone used to decide what "today" is.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db dbt.BookingDBWrapper, opts ...Option) *Service {
	s := &Service{
		db:       db,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores req as a pending custom trip booking.
func (s *Service) Create(ctx context.Context, req trip.TripRequest) (*dbt.Booking, error) {
	b := &dbt.Booking{
		BookingInfo: dbt.BookingInfo{
			Kind:       dbt.KindCustomTrip,
			Name:       req.Contact.Name,
			Email:      req.Contact.Email,
			Phone:      req.Contact.Phone,
			Country:    req.Contact.Country,
			Passengers: req.Passengers,
			TripDate:   req.Date,
			Vehicle:    string(req.Vehicle),
			Notes:      req.Notes,
		},
		Destinations: make([]dbt.Destination, 0, len(req.Destinations)),
	}
	for _, d := range req.Destinations {
		b.Destinations = append(b.Destinations, dbt.Destination{
			Name:        d.Name,
			Category:    string(d.Category),
			Description: d.Description,
		})
	}

	if err := s.db.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "booking created", "id", b.ID, "kind", b.Kind, "destinations", len(b.Destinations))

	s.publish(ctx, mq.BookingMessage{Action: mq.ActionCreate, BookingID: b.ID, Booking: b})
	s.notifyAsync(ctx, b)
	return b, nil
}

// Submit implements trip.Submitter.
func (s *Service) Submit(ctx context.Context, req trip.TripRequest) (string, error) {
	b, err := s.Create(ctx, req)
	if err != nil {
		return "", err
	}
	return b.ID.String(), nil
}

// BookPackage stores a pending booking for a catalog package.
func (s *Service) BookPackage(ctx context.Context, req PackageRequest) (*dbt.Booking, error) {
	pkg, ok := catalog.LookupPackage(req.PackageID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, req.PackageID)
	}
	contact, err := trip.ValidateContact(req.Contact)
	if err != nil {
		return nil, err
	}
	var date time.Time
	if !req.Date.IsZero() {
		date = trip.DateOf(req.Date)
		if date.Before(trip.DateOf(s.now().In(s.location))) {
			return nil, trip.ErrDateInPast
		}
	}
	passengers := req.Passengers
	if passengers == 0 {
		passengers = 1
	}
	if passengers < 0 {
		return nil, trip.ErrInvalidPassengers
	}

	b := &dbt.Booking{
		BookingInfo: dbt.BookingInfo{
			Kind:         dbt.KindPackage,
			Name:         contact.Name,
			Email:        contact.Email,
			Phone:        contact.Phone,
			Country:      contact.Country,
			Passengers:   passengers,
			TripDate:     date,
			PackageID:    pkg.ID,
			PackageTitle: pkg.Title,
			Notes:        req.Notes,
		},
		Destinations: []dbt.Destination{},
	}
	if err := s.db.CreateBooking(ctx, b); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "package booked", "id", b.ID, "package", pkg.ID)

	s.publish(ctx, mq.BookingMessage{Action: mq.ActionCreate, BookingID: b.ID, Booking: b})
	s.notifyAsync(ctx, b)
	return b, nil
}

func (s *Service) loader(ctx context.Context) *dbt.BookingDataLoader {
	if l, ok := dbt.DataLoaderFromContext(ctx); ok {
		return l
	}
	return dbt.NewBookingDataLoader(s.db)
}

// List returns every booking, newest first, with destinations.
func (s *Service) List(ctx context.Context) ([]dbt.Booking, error) {
	infos, err := s.db.ListBookingInfo(ctx)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return []dbt.Booking{}, nil
	}

	ids := make([]uuid.UUID, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	dests, err := s.loader(ctx).GetDestinations.LoadAll(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load destinations: %w", err)
	}

	bookings := make([]dbt.Booking, len(infos))
	for i, info := range infos {
		bookings[i] = dbt.Booking{BookingInfo: info, Destinations: dests[i]}
	}
	return bookings, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dbt.Booking, error) {
	info, err := s.db.GetBookingInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	dests, err := s.loader(ctx).GetDestinations.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load destinations: %w", err)
	}
	return &dbt.Booking{BookingInfo: *info, Destinations: dests}, nil
}

// UpdateStatus moves a booking to status. Any status may follow any other.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status dbt.Status, actor string) (*dbt.BookingInfo, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("unknown status: %s", status)
	}
	before, err := s.db.GetBookingInfo(ctx, id)
	if err != nil {
		return nil, err
	}
	after, err := s.db.UpdateBookingStatus(ctx, id, status, actor)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "booking status changed", "id", id, "from", before.Status, "to", after.Status, "actor", actor)

	changes, err := changeSet(*before, *after)
	if err != nil {
		slog.WarnContext(ctx, "failed to diff booking", "id", id, "err", err)
	}
	s.publish(ctx, mq.BookingMessage{
		Action:    mq.ActionUpdate,
		BookingID: id,
		Booking:   &dbt.Booking{BookingInfo: *after},
		Changes:   changes,
		Actor:     actor,
	})
	return after, nil
}

// Delete removes a booking for good.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor string) error {
	if err := s.db.DeleteBooking(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "booking deleted", "id", id, "actor", actor)
	s.publish(ctx, mq.BookingMessage{Action: mq.ActionDelete, BookingID: id, Actor: actor})
	return nil
}

func (s *Service) History(ctx context.Context, id uuid.UUID) ([]dbt.StatusEvent, error) {
	return s.db.ListStatusEvents(ctx, id)
}

func (s *Service) publish(ctx context.Context, msg mq.BookingMessage) {
	if s.queue == nil {
		return
	}
	if msg.At.IsZero() {
		msg.At = s.now()
	}
	if err := s.queue.Publish(msg); err != nil {
		slog.WarnContext(ctx, "failed to publish booking message", "id", msg.BookingID, "action", msg.Action.String(), "err", err)
	}
}

// Wait blocks until every background notification has finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) notifyAsync(ctx context.Context, b *dbt.Booking) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		s.notify(ctx, b)
	}()
}

func (s *Service) notify(ctx context.Context, b *dbt.Booking) {
	req, err := notificationFor(b)
	if err != nil {
		slog.WarnContext(ctx, "failed to build booking notification", "id", b.ID, "err", err)
		return
	}
	if err := s.notifier.Send(ctx, notify.Compose(req)); err != nil {
		slog.WarnContext(ctx, "failed to notify owner", "id", b.ID, "err", err)
	}
}

type tripDetails struct {
	BookingID    uuid.UUID `json:"bookingId"`
	Destinations []string  `json:"destinations,omitempty"`
	Package      string    `json:"package,omitempty"`
	Date         string    `json:"date,omitempty"`
	Vehicle      string    `json:"vehicle,omitempty"`
	Passengers   int       `json:"passengers"`
	Notes        string    `json:"notes,omitempty"`
}

// notificationFor renders a booking the same way the website forms are relayed.
func notificationFor(b *dbt.Booking) (notify.EmailRequest, error) {
	details := tripDetails{
		BookingID:  b.ID,
		Passengers: b.Passengers,
		Notes:      b.Notes,
	}
	if !b.TripDate.IsZero() {
		details.Date = b.TripDate.Format(time.DateOnly)
	}
	for _, d := range b.Destinations {
		details.Destinations = append(details.Destinations, d.Name)
	}
	if b.Vehicle != "" {
		details.Vehicle = catalog.Vehicle(b.Vehicle).Label()
	}

	req := notify.EmailRequest{
		Name:          b.Name,
		Email:         b.Email,
		ContactNumber: b.Phone,
		Country:       b.Country,
	}
	if b.Kind == dbt.KindPackage {
		details.Package = b.PackageTitle
		raw, err := json.Marshal(details)
		if err != nil {
			return req, err
		}
		req.Type, req.PackageDetails = notify.FormPackage, raw
		return req, nil
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return req, err
	}
	req.Type, req.CustomTripDetails = notify.FormCustomTrip, raw
	return req, nil
}
