package goch

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueFull   = errors.New("message queue is full")
	ErrQueueClosed = errors.New("message queue is closed")
)

const (
	publishTimeout = 50 * time.Millisecond
	deliverTimeout = 100 * time.Millisecond
)

// fanOutQueueCore copies every published message to all subscribers.
// A subscriber that cannot take a message within deliverTimeout is dropped
// and its channel closed.
type fanOutQueueCore[M any] struct {
	publishChan chan M
	subscribers map[uuid.UUID]chan M
	quit        chan struct{}
	done        chan struct{}
	bufferSize  int
	mu          sync.RWMutex
	stopOnce    sync.Once
}

func newFanOutQueueCore[M any](bufferSize int) *fanOutQueueCore[M] {
	if bufferSize < 0 {
		bufferSize = 0
	}
	core := &fanOutQueueCore[M]{
		publishChan: make(chan M, bufferSize),
		subscribers: make(map[uuid.UUID]chan M),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
		bufferSize:  bufferSize,
	}
	go core.fanOutRoutine()
	return core
}

func (q *fanOutQueueCore[M]) fanOutRoutine() {
	defer close(q.done)
	for {
		select {
		case msg := <-q.publishChan:
			q.deliver(msg)
		case <-q.quit:
			q.mu.Lock()
			for id, ch := range q.subscribers {
				close(ch)
				delete(q.subscribers, id)
			}
			q.mu.Unlock()
			return
		}
	}
}

func (q *fanOutQueueCore[M]) deliver(msg M) {
	var blocked []uuid.UUID

	q.mu.RLock()
	for id, ch := range q.subscribers {
		select {
		case ch <- msg:
		default:
			timer := time.NewTimer(deliverTimeout)
			select {
			case ch <- msg:
			case <-timer.C:
				blocked = append(blocked, id)
			}
			timer.Stop()
		}
	}
	q.mu.RUnlock()

	if len(blocked) == 0 {
		return
	}
	q.mu.Lock()
	for _, id := range blocked {
		if ch, ok := q.subscribers[id]; ok {
			close(ch)
			delete(q.subscribers, id)
			slog.Warn("removed blocked subscriber", "id", id)
		}
	}
	q.mu.Unlock()
}

// Publish hands msg to the fan-out routine, waiting at most publishTimeout.
func (q *fanOutQueueCore[M]) Publish(msg M) error {
	select {
	case <-q.quit:
		return ErrQueueClosed
	default:
	}

	select {
	case q.publishChan <- msg:
		return nil
	default:
	}

	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()
	select {
	case q.publishChan <- msg:
		return nil
	case <-q.quit:
		return ErrQueueClosed
	case <-timer.C:
		return ErrQueueFull
	}
}

func (q *fanOutQueueCore[M]) Subscribe() (uuid.UUID, <-chan M, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	select {
	case <-q.quit:
		return uuid.Nil, nil, ErrQueueClosed
	default:
	}

	id := uuid.New()
	ch := make(chan M, q.bufferSize)
	q.subscribers[id] = ch
	return id, ch, nil
}

func (q *fanOutQueueCore[M]) DeSubscribe(id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	ch, ok := q.subscribers[id]
	if !ok {
		return fmt.Errorf("subscriber %s not found", id)
	}
	delete(q.subscribers, id)
	close(ch)
	return nil
}

// Stop closes every subscriber channel and waits for the fan-out routine to exit.
func (q *fanOutQueueCore[M]) Stop() {
	q.stopOnce.Do(func() {
		close(q.quit)
	})
	<-q.done
}
