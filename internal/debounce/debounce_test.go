package debounce

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTimer struct {
	clock   *fakeClock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && t.at <= c.now {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()
	for _, t := range due {
		t.fn()
	}
}

func TestDebouncerRunsOnlyLastCallInWindow(t *testing.T) {
	clock := &fakeClock{}
	d := New(300*time.Millisecond, WithAfterFunc(clock.AfterFunc))

	var mu sync.Mutex
	var executed []string
	results := make(chan error, 3)

	search := func(query string) {
		results <- d.Do(context.Background(), "session-1", func(context.Context) error {
			mu.Lock()
			executed = append(executed, query)
			mu.Unlock()
			return nil
		})
	}

	go search("l")
	require.Eventually(t, func() bool { return clock.Scheduled() == 1 }, time.Second, time.Millisecond)
	clock.Advance(100 * time.Millisecond)

	go search("la")
	require.Eventually(t, func() bool { return clock.Scheduled() == 2 }, time.Second, time.Millisecond)
	clock.Advance(150 * time.Millisecond)

	go search("lap")
	require.Eventually(t, func() bool { return clock.Scheduled() == 3 }, time.Second, time.Millisecond)
	clock.Advance(300 * time.Millisecond)

	var superseded, ok int
	for i := 0; i < 3; i++ {
		err := <-results
		switch {
		case errors.Is(err, ErrSuperseded):
			superseded++
		case err == nil:
			ok++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 2, superseded)
	assert.Equal(t, 1, ok)
	mu.Lock()
	assert.Equal(t, []string{"lap"}, executed)
	mu.Unlock()
	assert.Zero(t, d.Pending())
}

func TestDebouncerKeysAreIndependent(t *testing.T) {
	clock := &fakeClock{}
	d := New(300*time.Millisecond, WithAfterFunc(clock.AfterFunc))

	results := make(chan error, 2)
	go func() { results <- d.Do(context.Background(), "a", func(context.Context) error { return nil }) }()
	go func() {
		results <- d.Do(context.Background(), "b", func(context.Context) error { return errors.New("backend down") })
	}()
	require.Eventually(t, func() bool { return clock.Scheduled() == 2 }, time.Second, time.Millisecond)
	clock.Advance(300 * time.Millisecond)

	var failures int
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			assert.EqualError(t, err, "backend down")
			failures++
		}
	}
	assert.Equal(t, 1, failures)
}

func TestDebouncerContextCancellation(t *testing.T) {
	clock := &fakeClock{}
	d := New(300*time.Millisecond, WithAfterFunc(clock.AfterFunc))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- d.Do(ctx, "k", func(context.Context) error {
			t.Error("cancelled call must not run")
			return nil
		})
	}()
	require.Eventually(t, func() bool { return clock.Scheduled() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	clock.Advance(time.Second)
	assert.Zero(t, d.Pending())
}

func TestTaskCancel(t *testing.T) {
	fired := make(chan struct{}, 1)
	task := Schedule(time.Hour, func() { fired <- struct{}{} })
	assert.True(t, task.Cancel())
	assert.False(t, task.Cancel())

	quick := Schedule(time.Millisecond, func() { fired <- struct{}{} })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("task did not fire")
	}
	assert.False(t, quick.Cancel())
}
