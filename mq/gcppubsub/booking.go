package gcppubsub

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/google/uuid"

	"tourcab/mq/mq"
)

const (
	bookingTopicID  = "booking-events"
	actionAttribute = "action"
	bookingIDAttr   = "bookingId"
)

// GCPBookingMessageQueue is an mq.BookingMessageQueue backed by GCP Pub/Sub.
type GCPBookingMessageQueue struct {
	client  *pubsub.Client
	service *GenericPubSubService[mq.BookingMessage]
}

// NewGCPBookingMessageQueue connects to projectID and prepares the booking topic.
func NewGCPBookingMessageQueue(ctx context.Context, projectID string) (*GCPBookingMessageQueue, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP Pub/Sub client for project %s: %w", projectID, err)
	}

	service, err := NewGenericPubSubService[mq.BookingMessage](ctx, client, bookingTopicID)
	if err != nil {
		client.Close()
		return nil, err
	}
	return &GCPBookingMessageQueue{client: client, service: service}, nil
}

func (q *GCPBookingMessageQueue) Publish(msg mq.BookingMessage) error {
	return q.service.Publish(msg, map[string]string{
		actionAttribute: msg.Action.String(),
		bookingIDAttr:   msg.BookingID.String(),
	})
}

func (q *GCPBookingMessageQueue) Subscribe() (uuid.UUID, <-chan mq.BookingMessage, error) {
	return q.service.Subscribe("")
}

// SubscribeAction only receives messages for one action.
func (q *GCPBookingMessageQueue) SubscribeAction(action mq.Action) (uuid.UUID, <-chan mq.BookingMessage, error) {
	return q.service.Subscribe(actionFilter(action))
}

func (q *GCPBookingMessageQueue) DeSubscribe(id uuid.UUID) error {
	return q.service.DeSubscribe(id)
}

func (q *GCPBookingMessageQueue) Close() error {
	q.service.Close()
	return q.client.Close()
}

func actionFilter(action mq.Action) string {
	return fmt.Sprintf("attributes.%s = \"%s\"", actionAttribute, action.String())
}

var (
	_ mq.BookingMessageQueue = (*GCPBookingMessageQueue)(nil)
	_ mq.ActionSubscriber    = (*GCPBookingMessageQueue)(nil)
)
