package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dbt "tourcab/db/db"
	"tourcab/mq/mq"
)

type snapshotEvent struct {
	Type     string        `json:"type"`
	Bookings []dbt.Booking `json:"bookings"`
}

type feedEvent struct {
	Type      string       `json:"type"`
	Action    string       `json:"action"`
	BookingID uuid.UUID    `json:"bookingId"`
	Booking   *dbt.Booking `json:"booking,omitempty"`
	Changes   []mq.Change  `json:"changes,omitempty"`
	Actor     string       `json:"actor,omitempty"`
	At        time.Time    `json:"at"`
}

// feedFilter narrows the feed to one action; nil passes everything.
func feedFilter(c *gin.Context) (*mq.Action, error) {
	raw := c.Query("action")
	if raw == "" {
		return nil, nil
	}
	a, err := mq.ParseAction(raw)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func feedTransform(only *mq.Action) func(mq.BookingMessage) (feedEvent, bool, error) {
	return func(msg mq.BookingMessage) (feedEvent, bool, error) {
		if only != nil && msg.Action != *only {
			return feedEvent{}, true, nil
		}
		return toFeedEvent(msg)
	}
}

func toFeedEvent(msg mq.BookingMessage) (feedEvent, bool, error) {
	return feedEvent{
		Type:      "change",
		Action:    msg.Action.String(),
		BookingID: msg.BookingID,
		Booking:   msg.Booking,
		Changes:   msg.Changes,
		Actor:     msg.Actor,
		At:        msg.At,
	}, false, nil
}

// adminFeed sends the current bookings, then every change as it happens.
// Clients apply changes last-write-wins on top of the snapshot.
// ?action=create|update|delete limits the changes to one kind.
func (h *handler) adminFeed(c *gin.Context) {
	only, err := feedFilter(c)
	if err != nil {
		abortError(c, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	var source mq.Subscriber[mq.BookingMessage] = h.deps.Queue
	if only != nil {
		source = mq.ForAction(h.deps.Queue, *only)
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "feed upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	out := newWSConn(conn, h.ws)
	go out.writeLoop(ctx, cancel)

	changes := make(chan feedEvent, wsSendBuffer)
	if err := mq.SubscribeProcessor(ctx, source, feedTransform(only), changes); err != nil {
		slog.ErrorContext(ctx, "failed to subscribe to booking changes", "err", err)
		return
	}

	list, err := h.deps.Bookings.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load feed snapshot", "err", err)
		return
	}
	out.enqueue(ctx, snapshotEvent{Type: "snapshot", Bookings: list})
	slog.InfoContext(ctx, "admin feed connected", "actor", actor(c), "bookings", len(list))

	go func() {
		defer cancel()
		for ev := range changes {
			if !out.enqueue(ctx, ev) {
				return
			}
		}
	}()

	// read only to notice the client going away and to handle control frames
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
