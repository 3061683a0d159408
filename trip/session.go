package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tourcab/catalog"
)

type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

var (
	ErrUnknownDestination = errors.New("unknown destination")
	ErrSubmitInProgress   = errors.New("submission already in progress")
	ErrAlreadySubmitted   = errors.New("trip already submitted")
)

// Session is one user's trip planner: typed text, debounced suggestions,
// the selection and the booking details, up to a single submission.
type Session struct {
	matcher   *Matcher
	debouncer *Debouncer[[]catalog.Destination]
	now       func() time.Time
	location  *time.Location
	listener  func([]catalog.Destination)

	mu          sync.Mutex
	input       string
	suggestions []catalog.Destination
	selection   *SelectionSet
	date        time.Time
	vehicle     catalog.Vehicle
	passengers  int
	contact     Contact
	notes       string
	state       State
	bookingID   string
}

type SessionOption func(*Session)

func WithDebounce(delay time.Duration) SessionOption {
	return func(s *Session) { s.debouncer = NewDebouncer[[]catalog.Destination](delay) }
}

func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// WithLocation sets the time zone used to decide what "today" is.
func WithLocation(loc *time.Location) SessionOption {
	return func(s *Session) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithSuggestionListener registers fn to receive every committed suggestion
// list. fn must not call back into the session.
func WithSuggestionListener(fn func([]catalog.Destination)) SessionOption {
	return func(s *Session) { s.listener = fn }
}

func NewSession(m *Matcher, opts ...SessionOption) *Session {
	s := &Session{
		matcher:   m,
		debouncer: NewDebouncer[[]catalog.Destination](DefaultDebounce),
		now:       time.Now,
		location:  time.Local,
		selection: NewSelectionSet(),
		vehicle:   catalog.DefaultVehicle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetInput records the typed text and schedules a suggestion recompute.
// Blank input clears the suggestions straight away.
func (s *Session) SetInput(text string) {
	s.mu.Lock()
	s.input = text
	s.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		s.debouncer.Cancel()
		s.commitSuggestions([]catalog.Destination{})
		return
	}
	s.debouncer.Schedule(
		func(context.Context) []catalog.Destination { return s.matcher.Suggest(text) },
		s.commitSuggestions,
	)
}

func (s *Session) commitSuggestions(list []catalog.Destination) {
	s.mu.Lock()
	s.suggestions = list
	s.mu.Unlock()
	if s.listener != nil {
		s.listener(append([]catalog.Destination{}, list...))
	}
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Session) Suggestions() []catalog.Destination {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]catalog.Destination{}, s.suggestions...)
}

// Add selects a destination by name and clears the input and the suggestions.
// Picking one that is already selected changes nothing.
func (s *Session) Add(name string) (bool, error) {
	d, ok := s.matcher.Catalog().Lookup(name)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownDestination, name)
	}
	if s.selection.Contains(d.Name) {
		return false, nil
	}
	s.debouncer.Cancel()

	s.mu.Lock()
	added := s.selection.Add(d)
	s.input = ""
	s.suggestions = nil
	s.mu.Unlock()

	if s.listener != nil {
		s.listener([]catalog.Destination{})
	}
	return added, nil
}

func (s *Session) Remove(name string) bool {
	return s.selection.Remove(name)
}

func (s *Session) Selection() []catalog.Destination {
	return s.selection.List()
}

func (s *Session) SetDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.date = date
}

func (s *Session) SetVehicle(v catalog.Vehicle) error {
	if !v.IsValid() {
		return ErrInvalidVehicle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicle = v
	return nil
}

func (s *Session) SetPassengers(n int) error {
	if n < 1 {
		return ErrInvalidPassengers
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passengers = n
	return nil
}

func (s *Session) SetContact(c Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contact = c
}

func (s *Session) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = notes
}

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftLocked()
}

func (s *Session) draftLocked() Draft {
	return Draft{
		Destinations: s.selection.List(),
		Date:         s.date,
		Vehicle:      s.vehicle,
		Passengers:   s.passengers,
		Contact:      s.contact,
		Notes:        s.notes,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) BookingID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingID
}

// Submit validates the draft and hands it to sub exactly once. Validation
// failures leave the session untouched. A failed submission may be retried
// by calling Submit again; nothing is retried automatically.
func (s *Session) Submit(ctx context.Context, sub Submitter) (string, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		return "", ErrSubmitInProgress
	case StateSubmitted:
		s.mu.Unlock()
		return "", ErrAlreadySubmitted
	}
	req, err := Assemble(s.draftLocked(), s.now().In(s.location))
	if err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.state = StateSubmitting
	s.mu.Unlock()

	id, err := sub.Submit(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateFailed
		return "", fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}
	s.state = StateSubmitted
	s.bookingID = id
	return id, nil
}

// Reset starts a fresh plan.
func (s *Session) Reset() {
	s.debouncer.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = ""
	s.suggestions = nil
	s.selection.Reset()
	s.date = time.Time{}
	s.vehicle = catalog.DefaultVehicle
	s.passengers = 0
	s.contact = Contact{}
	s.notes = ""
	s.state = StateIdle
	s.bookingID = ""
}

// Close drops any pending suggestion recompute.
func (s *Session) Close() {
	s.debouncer.Cancel()
}
