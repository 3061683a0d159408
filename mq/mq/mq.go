package mq

import "github.com/google/uuid"

// BookingMessageQueue carries booking lifecycle events to every live subscriber.
type BookingMessageQueue interface {
	Publish(msg BookingMessage) error
	Subscribe() (uuid.UUID, <-chan BookingMessage, error)
	DeSubscribe(id uuid.UUID) error
	Close() error
}

// Mode selects the queue implementation.
type Mode string

const (
	ModeGoChan    Mode = "go_chan"
	ModeRabbitMQ  Mode = "rabbitmq"
	ModeGCPPubSub Mode = "gcp_pub_sub"
)

// ActionSubscriber is implemented by queues that can filter by action on the
// broker side.
type ActionSubscriber interface {
	SubscribeAction(action Action) (uuid.UUID, <-chan BookingMessage, error)
}

type actionSubscription struct {
	queue  BookingMessageQueue
	action Action
}

// ForAction returns a Subscriber narrowed to one action when q can filter on
// the broker. Otherwise it subscribes to everything and consumers still need
// to skip other actions.
func ForAction(q BookingMessageQueue, action Action) Subscriber[BookingMessage] {
	if _, ok := q.(ActionSubscriber); !ok {
		return q
	}
	return actionSubscription{queue: q, action: action}
}

func (s actionSubscription) Subscribe() (uuid.UUID, <-chan BookingMessage, error) {
	return s.queue.(ActionSubscriber).SubscribeAction(s.action)
}

func (s actionSubscription) DeSubscribe(id uuid.UUID) error {
	return s.queue.DeSubscribe(id)
}
