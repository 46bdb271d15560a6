// Package debounce coalesces bursts of calls so only the last one runs.
package debounce

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultDelay is the quiet window used for console search.
const DefaultDelay = 300 * time.Millisecond

// ErrSuperseded is returned to callers replaced by a newer call on the same key.
var ErrSuperseded = errors.New("debounce: superseded by a newer call")

// Timer is the cancellable half of a scheduled callback.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d. time.AfterFunc satisfies it.
type AfterFunc func(d time.Duration, fn func()) Timer

func realAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Task is a scheduled callback that can be cancelled before it fires.
type Task struct {
	mu        sync.Mutex
	timer     Timer
	cancelled bool
}

// Schedule runs fn after d unless the returned task is cancelled first.
func Schedule(d time.Duration, fn func()) *Task {
	return scheduleWith(realAfterFunc, d, fn)
}

func scheduleWith(after AfterFunc, d time.Duration, fn func()) *Task {
	t := &Task{}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.timer = after(d, func() {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return
		}
		t.mu.Unlock()
		fn()
	})
	return t
}

// Cancel stops the task. It reports false when the task already fired.
func (t *Task) Cancel() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled {
		return false
	}
	if !t.timer.Stop() {
		return false
	}
	t.cancelled = true
	return true
}

// Debouncer runs only the most recent call per key after a quiet window.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	after   AfterFunc
	pending map[string]*call
}

type call struct {
	task *Task
	done chan error
}

// Option customises a Debouncer.
type Option func(*Debouncer)

// WithAfterFunc swaps the timer source, mainly for tests.
func WithAfterFunc(after AfterFunc) Option {
	return func(d *Debouncer) {
		if after != nil {
			d.after = after
		}
	}
}

// New returns a Debouncer with the given quiet window.
func New(delay time.Duration, opts ...Option) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	d := &Debouncer{
		delay:   delay,
		after:   realAfterFunc,
		pending: make(map[string]*call),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay returns the quiet window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Do schedules fn for key, cancelling any call still waiting on the same key.
// It blocks until fn has run, the call is superseded, or ctx ends first.
func (d *Debouncer) Do(ctx context.Context, key string, fn func(context.Context) error) error {
	c := &call{done: make(chan error, 1)}

	d.mu.Lock()
	if prev, ok := d.pending[key]; ok {
		if prev.task.Cancel() {
			prev.done <- ErrSuperseded
		}
	}
	d.pending[key] = c
	c.task = scheduleWith(d.after, d.delay, func() {
		d.release(key, c)
		c.done <- fn(ctx)
	})
	d.mu.Unlock()

	select {
	case err := <-c.done:
		return err
	case <-ctx.Done():
		d.mu.Lock()
		cancelled := c.task.Cancel()
		d.mu.Unlock()
		if cancelled {
			d.release(key, c)
			return ctx.Err()
		}
		return <-c.done
	}
}

// Pending reports how many keys have a call waiting.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

func (d *Debouncer) release(key string, c *call) {
	d.mu.Lock()
	if d.pending[key] == c {
		delete(d.pending, key)
	}
	d.mu.Unlock()
}
