package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"tourcab/mq/mq"
)

const (
	exchangeName   = "booking_events_exchange"
	bindingKey     = "booking.#"
	publishTimeout = 5 * time.Second
	deliverTimeout = time.Second
)

func routingKey(action mq.Action) string {
	return "booking." + action.String()
}

type rabbitConsumer struct {
	channel *amqp.Channel
	tag     string
}

// RabbitBookingMessageQueue publishes booking events to a topic exchange.
// Every subscriber gets its own exclusive queue, bound to all booking keys or
// to one action's key.
type RabbitBookingMessageQueue struct {
	conn      *amqp.Connection
	pubMu     sync.Mutex
	channel   *amqp.Channel
	mu        sync.Mutex
	consumers map[uuid.UUID]*rabbitConsumer
}

func NewRabbitBookingMessageQueue(conn *amqp.Connection) (*RabbitBookingMessageQueue, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}
	if err := DeclareExchange(ch, exchangeName); err != nil {
		ch.Close()
		return nil, err
	}

	return &RabbitBookingMessageQueue{
		conn:      conn,
		channel:   ch,
		consumers: make(map[uuid.UUID]*rabbitConsumer),
	}, nil
}

func (q *RabbitBookingMessageQueue) Publish(msg mq.BookingMessage) error {
	if msg.Action < 0 || msg.Action >= mq.ActionCnt {
		return fmt.Errorf("invalid action %d", msg.Action)
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing.
	q.pubMu.Lock()
	defer q.pubMu.Unlock()
	err = q.channel.PublishWithContext(ctx,
		exchangeName,           // exchange
		routingKey(msg.Action), // routing key
		false,                  // mandatory
		false,                  // immediate
		amqp.Publishing{
			ContentType: "application/json",
			MessageId:   msg.BookingID.String(),
			Timestamp:   msg.At,
			Body:        body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (q *RabbitBookingMessageQueue) Subscribe() (uuid.UUID, <-chan mq.BookingMessage, error) {
	return q.subscribe(bindingKey)
}

// SubscribeAction binds the subscriber queue to a single action's routing key.
func (q *RabbitBookingMessageQueue) SubscribeAction(action mq.Action) (uuid.UUID, <-chan mq.BookingMessage, error) {
	if action < 0 || action >= mq.ActionCnt {
		return uuid.Nil, nil, fmt.Errorf("invalid action %d", action)
	}
	return q.subscribe(routingKey(action))
}

func (q *RabbitBookingMessageQueue) subscribe(key string) (uuid.UUID, <-chan mq.BookingMessage, error) {
	ch, err := q.conn.Channel()
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	queue, err := ch.QueueDeclare(
		"",    // name, server generated
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(queue.Name, key, exchangeName, false, nil); err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to bind queue %s: %w", queue.Name, err)
	}

	subscriberID := uuid.New()
	tag := "tourcab-" + subscriberID.String()
	deliveries, err := ch.Consume(
		queue.Name, // queue
		tag,        // consumer
		true,       // auto-ack
		true,       // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		ch.Close()
		return uuid.Nil, nil, fmt.Errorf("failed to register a consumer: %w", err)
	}

	out := make(chan mq.BookingMessage)
	q.mu.Lock()
	q.consumers[subscriberID] = &rabbitConsumer{channel: ch, tag: tag}
	q.mu.Unlock()

	go func() {
		defer close(out)
		for d := range deliveries {
			var msg mq.BookingMessage
			if err := json.Unmarshal(d.Body, &msg); err != nil {
				slog.Warn("failed to unmarshal booking message", "err", err)
				continue
			}
			select {
			case out <- msg:
			case <-time.After(deliverTimeout):
				slog.Warn("timeout sending booking message to consumer", "id", subscriberID)
			}
		}
	}()

	return subscriberID, out, nil
}

// DeSubscribe cancels the consumer; its output channel closes once the
// delivery stream drains.
func (q *RabbitBookingMessageQueue) DeSubscribe(subscriberID uuid.UUID) error {
	q.mu.Lock()
	c, ok := q.consumers[subscriberID]
	delete(q.consumers, subscriberID)
	q.mu.Unlock()

	if !ok {
		return fmt.Errorf("consumer with ID %s not found", subscriberID)
	}
	if err := c.channel.Cancel(c.tag, false); err != nil {
		slog.Warn("failed to cancel consumer", "tag", c.tag, "err", err)
	}
	return c.channel.Close()
}

// Close closes every consumer channel and the connection.
func (q *RabbitBookingMessageQueue) Close() error {
	q.mu.Lock()
	for id, c := range q.consumers {
		c.channel.Close()
		delete(q.consumers, id)
	}
	q.mu.Unlock()

	if q.channel != nil {
		q.channel.Close()
	}
	if q.conn != nil {
		return q.conn.Close()
	}
	return nil
}

var (
	_ mq.BookingMessageQueue = (*RabbitBookingMessageQueue)(nil)
	_ mq.ActionSubscriber    = (*RabbitBookingMessageQueue)(nil)
)
