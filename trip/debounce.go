package trip

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before suggestions are recomputed.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs at most one delayed task at a time. Scheduling a new task
// cancels the pending one, and a task that has been superseded never commits,
// even if it was already computing when it lost.
type Debouncer[T any] struct {
	delay time.Duration

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer[T any](delay time.Duration) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer[T]{delay: delay}
}

// Schedule runs compute after the delay and hands its result to commit.
// commit runs while the debouncer is locked: it must not call back into the
// debouncer.
func (d *Debouncer[T]) Schedule(compute func(ctx context.Context) T, commit func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	d.timer = time.AfterFunc(d.delay, func() {
		result := compute(ctx)

		d.mu.Lock()
		defer d.mu.Unlock()
		if gen != d.gen || ctx.Err() != nil {
			return
		}
		d.timer = nil
		d.cancel = nil
		cancel()
		commit(result)
	})
}

// Cancel drops the pending task, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Pending reports whether a scheduled task has not committed yet.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer[T]) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
