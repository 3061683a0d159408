package goch

import (
	"tourcab/mq/mq"
)

// DefaultBufferSize is used by NewGoChanBookingMessageQueue.
const DefaultBufferSize = 64

// GoChanBookingMessageQueue is the in-process mq.BookingMessageQueue.
type GoChanBookingMessageQueue struct {
	*fanOutQueueCore[mq.BookingMessage]
}

func NewGoChanBookingMessageQueue(bufferSize int) *GoChanBookingMessageQueue {
	return &GoChanBookingMessageQueue{
		fanOutQueueCore: newFanOutQueueCore[mq.BookingMessage](bufferSize),
	}
}

func (q *GoChanBookingMessageQueue) Close() error {
	q.Stop()
	return nil
}

var _ mq.BookingMessageQueue = (*GoChanBookingMessageQueue)(nil)
