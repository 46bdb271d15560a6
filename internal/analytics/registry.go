package analytics

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Handle is a live chart instance owned by one session.
type Handle struct {
	Chart     string
	Group     string
	MountedAt time.Time
}

// DefaultIdle is how long a session's charts survive without a mount.
const DefaultIdle = 12 * time.Hour

// Registry tracks which charts each session has on screen. Charts are created
// when the analytics page opens and destroyed when it is left. Sessions that
// expire without leaving the page are dropped once idle past the idle window.
type Registry struct {
	mu        sync.Mutex
	catalog   *Catalog
	sessions  map[string]map[string]Handle
	seen      map[string]time.Time
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRegistry builds an empty registry over catalog.
func NewRegistry(catalog *Catalog) *Registry {
	return &Registry{
		catalog:  catalog,
		sessions: make(map[string]map[string]Handle),
		seen:     make(map[string]time.Time),
		idle:     DefaultIdle,
		now:      time.Now,
	}
}

// WithIdle sets how long an untouched session keeps its handles.
func (r *Registry) WithIdle(d time.Duration) *Registry {
	if d > 0 {
		r.idle = d
	}
	return r
}

// WithNow overrides the clock used for handle timestamps.
func (r *Registry) WithNow(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Mount creates handles for every chart of group unless the session already
// holds one of them. It returns the number of handles created.
func (r *Registry) Mount(session, group string) (int, error) {
	if !ValidGroup(group) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.sweep(now)
	r.seen[session] = now
	handles := r.sessions[session]
	for _, h := range handles {
		if h.Group == group {
			return 0, nil
		}
	}
	if handles == nil {
		handles = make(map[string]Handle)
		r.sessions[session] = handles
	}
	created := 0
	for _, chart := range r.catalog.Group(group) {
		handles[chart.Name] = Handle{Chart: chart.Name, Group: group, MountedAt: now}
		created++
	}
	return created, nil
}

// Unmount destroys every chart handle of the session and reports how many
// were dropped.
func (r *Registry) Unmount(session string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.sessions[session])
	delete(r.sessions, session)
	delete(r.seen, session)
	return n
}

// Sessions is the number of sessions holding handles.
func (r *Registry) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// sweep drops idle sessions, at most once per idle window. Callers hold mu.
func (r *Registry) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < r.idle {
		return
	}
	r.lastSweep = now
	for session, at := range r.seen {
		if now.Sub(at) >= r.idle {
			delete(r.sessions, session)
			delete(r.seen, session)
		}
	}
}

// Handles lists the chart names mounted for session, sorted.
func (r *Registry) Handles(session string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.sessions[session]))
	for name := range r.sessions[session] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count is the number of live handles across all sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, handles := range r.sessions {
		total += len(handles)
	}
	return total
}
