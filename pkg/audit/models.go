// Package audit records the ordered, timestamped lifecycle events that
// substantiate an acceptance. Keep the event model transport-agnostic so
// hosts can persist or ship the trail however they like.
package audit

import "time"

// Type classifies an audit event. The taxonomy is deliberately minimal:
// acceptance is substantiated by readiness, scroll-through, field edits, and
// the submit itself. Consent toggles surface through the validity snapshot,
// not as discrete trail entries.
type Type string

const (
	// TypeReady marks the document engine becoming ready. Exactly one per
	// session, always first.
	TypeReady Type = "ready"
	// TypeScroll marks the scroll-through requirement being met. Recorded
	// once per crossing, never again while the signal stays satisfied.
	TypeScroll Type = "scroll"
	// TypeFieldChange marks a signer edit or programmatic field update.
	TypeFieldChange Type = "field_change"
	// TypeSubmit marks a submit attempt that passed the validity guard. At
	// most one per accepted session.
	TypeSubmit Type = "submit"
)

// Event is a single trail entry. Data carries event-specific detail: the
// percent reached for scroll, {fieldId, value, previousValue} for field
// changes.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Type      Type           `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
}
