package audit

import (
	"sync"
	"time"
)

// Trail is an append-only recorder of session lifecycle events. Ordering is
// insertion order, which for a single-threaded event model is also
// chronological order.
type Trail struct {
	mu     sync.RWMutex
	events []Event
	now    func() time.Time
}

// NewTrail returns an empty trail stamping events with time.Now.
func NewTrail() *Trail {
	return &Trail{now: time.Now}
}

// NewTrailWithClock returns a trail using the supplied clock. Tests pin the
// clock to assert timestamps.
func NewTrailWithClock(now func() time.Time) *Trail {
	return &Trail{now: now}
}

// Record appends a timestamped event and returns a snapshot of the full
// trail. The snapshot is a defensive copy: a payload built from it does not
// change when later events are recorded.
func (t *Trail) Record(typ Type, data map[string]any) []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, Event{Timestamp: t.now(), Type: typ, Data: data})
	return t.snapshotLocked()
}

// Snapshot returns a defensive copy of the trail in insertion order.
func (t *Trail) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshotLocked()
}

// Len reports the number of recorded events.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}

// Reset clears the trail. Used only on session reset, never mid-session.
func (t *Trail) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

func (t *Trail) snapshotLocked() []Event {
	return append([]Event{}, t.events...)
}
