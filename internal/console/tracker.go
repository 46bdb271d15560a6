package console

import (
	"sync"
	"time"
)

// DefaultTrackerIdle is how long a session's generation survives without activity.
const DefaultTrackerIdle = 12 * time.Hour

type generation struct {
	n    uint64
	seen time.Time
}

// Tracker hands out request generations per session. A result produced under
// an older generation than the session's current one is stale. Sessions idle
// for longer than the idle window are swept on the next Advance.
type Tracker struct {
	mu        sync.Mutex
	gens      map[string]generation
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
}

// NewTracker returns an empty tracker that forgets sessions idle past idle.
// A non-positive idle uses DefaultTrackerIdle.
func NewTracker(idle time.Duration) *Tracker {
	if idle <= 0 {
		idle = DefaultTrackerIdle
	}
	return &Tracker{gens: make(map[string]generation), idle: idle, now: time.Now}
}

// WithNow overrides the clock.
func (t *Tracker) WithNow(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// Advance starts a new generation for session and returns it.
func (t *Tracker) Advance(session string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.sweep(now)
	g := t.gens[session]
	g.n++
	g.seen = now
	t.gens[session] = g
	return g.n
}

// Current returns the latest generation for session.
func (t *Tracker) Current(session string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[session].n
}

// Fresh reports whether gen is still the latest generation for session.
func (t *Tracker) Fresh(session string, gen uint64) bool {
	return t.Current(session) == gen
}

// Len is the number of sessions tracked.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.gens)
}

// sweep runs at most once per idle window.
func (t *Tracker) sweep(now time.Time) {
	if now.Sub(t.lastSweep) < t.idle {
		return
	}
	t.lastSweep = now
	for session, g := range t.gens {
		if now.Sub(g.seen) >= t.idle {
			delete(t.gens, session)
		}
	}
}
