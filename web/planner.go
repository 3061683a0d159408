package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tourcab/catalog"
	"tourcab/trip"
)

// plannerCommand is one client instruction. Only the fields its op needs are set.
type plannerCommand struct {
	Op         string       `json:"op"`
	Text       string       `json:"text,omitempty"`
	Name       string       `json:"name,omitempty"`
	Date       string       `json:"date,omitempty"`
	Vehicle    string       `json:"vehicle,omitempty"`
	Passengers int          `json:"passengers,omitempty"`
	Contact    trip.Contact `json:"contact,omitempty"`
	Notes      string       `json:"notes,omitempty"`
}

type plannerState struct {
	Input        string                `json:"input"`
	Destinations []catalog.Destination `json:"destinations"`
	Date         string                `json:"date,omitempty"`
	Vehicle      catalog.Vehicle       `json:"vehicle"`
	Passengers   int                   `json:"passengers"`
	Contact      trip.Contact          `json:"contact"`
	Notes        string                `json:"notes,omitempty"`
	State        string                `json:"state"`
	BookingID    string                `json:"bookingId,omitempty"`
}

type plannerEvent struct {
	Type        string                `json:"type"`
	Suggestions []catalog.Destination `json:"suggestions,omitempty"`
	State       *plannerState         `json:"state,omitempty"`
	BookingID   string                `json:"bookingId,omitempty"`
	Code        string                `json:"code,omitempty"`
	Error       string                `json:"error,omitempty"`
}

func snapshot(s *trip.Session) *plannerState {
	d := s.Draft()
	st := &plannerState{
		Input:        s.Input(),
		Destinations: d.Destinations,
		Vehicle:      d.Vehicle,
		Passengers:   d.Passengers,
		Contact:      d.Contact,
		Notes:        d.Notes,
		State:        s.State().String(),
		BookingID:    s.BookingID(),
	}
	if !d.Date.IsZero() {
		st.Date = d.Date.Format("2006-01-02")
	}
	return st
}

func plannerError(err error) plannerEvent {
	var v trip.ValidationError
	switch {
	case errors.As(err, &v):
		return plannerEvent{Type: "error", Code: v.Code, Error: v.Msg}
	case errors.Is(err, trip.ErrUnknownDestination):
		return plannerEvent{Type: "error", Code: "unknown_destination", Error: err.Error()}
	case errors.Is(err, trip.ErrSubmitInProgress):
		return plannerEvent{Type: "error", Code: "submit_in_progress", Error: err.Error()}
	case errors.Is(err, trip.ErrAlreadySubmitted):
		return plannerEvent{Type: "error", Code: "already_submitted", Error: err.Error()}
	case errors.Is(err, trip.ErrSubmitFailed):
		return plannerEvent{Type: "error", Code: "submit_failed", Error: "we could not send your request, please try again"}
	default:
		return plannerEvent{Type: "error", Code: codeBadRequest, Error: err.Error()}
	}
}

// apply runs one command against the session. It returns the event to send
// back, if any beyond the state snapshot.
func (h *handler) apply(ctx context.Context, s *trip.Session, cmd plannerCommand) (*plannerEvent, error) {
	switch cmd.Op {
	case "input":
		s.SetInput(cmd.Text)
	case "add":
		if _, err := s.Add(cmd.Name); err != nil {
			return nil, err
		}
	case "remove":
		s.Remove(cmd.Name)
	case "date":
		date, err := parseDate(cmd.Date)
		if err != nil {
			return nil, err
		}
		s.SetDate(date)
	case "vehicle":
		v, err := catalog.ParseVehicle(cmd.Vehicle)
		if err != nil {
			return nil, trip.ErrInvalidVehicle
		}
		if err := s.SetVehicle(v); err != nil {
			return nil, err
		}
	case "passengers":
		if err := s.SetPassengers(cmd.Passengers); err != nil {
			return nil, err
		}
	case "contact":
		s.SetContact(cmd.Contact)
	case "notes":
		s.SetNotes(cmd.Notes)
	case "submit":
		id, err := s.Submit(ctx, h.deps.Bookings)
		if err != nil {
			return nil, err
		}
		return &plannerEvent{Type: "submitted", BookingID: id}, nil
	case "reset":
		s.Reset()
	default:
		return nil, errors.New("unknown op: " + strings.TrimSpace(cmd.Op))
	}
	return nil, nil
}

// plannerSocket drives one trip planner session over a websocket.
func (h *handler) plannerSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "planner upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	out := newWSConn(conn, h.ws)

	session := trip.NewSession(h.deps.Matcher,
		trip.WithDebounce(h.deps.Config.SuggestionDebounce),
		trip.WithLocation(h.deps.Config.TimeZone),
		trip.WithSuggestionListener(func(list []catalog.Destination) {
			// called from the debouncer; never block here
			if !out.trySend(plannerEvent{Type: "suggestions", Suggestions: list}) {
				slog.Debug("dropping planner suggestions, client is slow")
			}
		}),
	)
	defer session.Close()

	go out.writeLoop(ctx, cancel)
	out.enqueue(ctx, plannerEvent{Type: "state", State: snapshot(session)})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.InfoContext(ctx, "planner connection closed", "err", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}

		var cmd plannerCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			out.enqueue(ctx, plannerEvent{Type: "error", Code: codeBadRequest, Error: "invalid message"})
			continue
		}
		ev, err := h.apply(ctx, session, cmd)
		if err != nil {
			out.enqueue(ctx, plannerError(err))
		}
		if ev != nil {
			out.enqueue(ctx, *ev)
		}
		if cmd.Op != "input" {
			out.enqueue(ctx, plannerEvent{Type: "state", State: snapshot(session)})
		}
	}
}
