// Package notify keeps the transient toast notifications shown to an operator.
package notify

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Toast timings.
const (
	EntryDelay      = 10 * time.Millisecond
	DisplayDuration = 5000 * time.Millisecond
	ExitDuration    = 300 * time.Millisecond
)

// Severity selects the toast styling.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
)

// ParseSeverity maps unknown values to Success.
func ParseSeverity(v string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(v))) {
	case Error:
		return Error
	case Warning:
		return Warning
	default:
		return Success
	}
}

// Title is the capitalised severity shown as the toast heading.
func (s Severity) Title() string {
	switch s {
	case Error:
		return "Error"
	case Warning:
		return "Warning"
	default:
		return "Success"
	}
}

// Icon returns the icon class for the severity.
func (s Severity) Icon() string {
	switch s {
	case Error:
		return "fa-exclamation-circle"
	case Warning:
		return "fa-exclamation-triangle"
	default:
		return "fa-check-circle"
	}
}

// Color returns the accent colour for the severity.
func (s Severity) Color() string {
	switch s {
	case Error:
		return "#ef4444"
	case Warning:
		return "#f59e0b"
	default:
		return "#10b981"
	}
}

// Phase is where a toast is in its lifecycle.
type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseVisible  Phase = "visible"
	PhaseLeaving  Phase = "leaving"
	PhaseRemoved  Phase = "removed"
)

// Toast is one notification.
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}

// Phase reports the lifecycle phase at now.
func (t Toast) Phase(now time.Time) Phase {
	age := now.Sub(t.CreatedAt)
	switch {
	case age < EntryDelay:
		return PhaseEntering
	case age < DisplayDuration:
		return PhaseVisible
	case age < DisplayDuration+ExitDuration:
		return PhaseLeaving
	default:
		return PhaseRemoved
	}
}

// Remaining is how long the toast stays visible before its exit transition.
func (t Toast) Remaining(now time.Time) time.Duration {
	left := DisplayDuration - now.Sub(t.CreatedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Queue is an unbounded, ordered list of toasts.
type Queue struct {
	toasts []Toast
	now    func() time.Time
	newID  func() string
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{now: time.Now, newID: func() string { return uuid.NewString() }}
}

// WithNow overrides the queue clock for testing.
func (q *Queue) WithNow(fn func() time.Time) {
	if fn != nil {
		q.now = fn
	}
}

// Notify appends a toast and returns it.
func (q *Queue) Notify(message string, severity Severity) Toast {
	t := Toast{
		ID:        q.newID(),
		Message:   message,
		Severity:  ParseSeverity(string(severity)),
		CreatedAt: q.now(),
	}
	q.toasts = append(q.toasts, t)
	return t
}

// Success queues a success toast.
func (q *Queue) Success(message string) Toast { return q.Notify(message, Success) }

// Error queues an error toast.
func (q *Queue) Error(message string) Toast { return q.Notify(message, Error) }

// Warning queues a warning toast.
func (q *Queue) Warning(message string) Toast { return q.Notify(message, Warning) }

// Active drops removed toasts and returns the remainder in insertion order.
func (q *Queue) Active() []Toast {
	now := q.now()
	kept := q.toasts[:0]
	for _, t := range q.toasts {
		if t.Phase(now) != PhaseRemoved {
			kept = append(kept, t)
		}
	}
	q.toasts = kept
	out := make([]Toast, len(kept))
	copy(out, kept)
	return out
}

// Len returns the number of toasts held, including expired ones not yet pruned.
func (q *Queue) Len() int {
	return len(q.toasts)
}

// MarshalJSON stores the toast list.
func (q *Queue) MarshalJSON() ([]byte, error) {
	if q == nil || len(q.toasts) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(q.toasts)
}

// UnmarshalJSON restores the toast list.
func (q *Queue) UnmarshalJSON(data []byte) error {
	var toasts []Toast
	if err := json.Unmarshal(data, &toasts); err != nil {
		return err
	}
	q.toasts = toasts
	if q.now == nil {
		q.now = time.Now
	}
	if q.newID == nil {
		q.newID = func() string { return uuid.NewString() }
	}
	return nil
}
