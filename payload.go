package esign

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/superdoc-dev/esign/pkg/audit"
	"github.com/superdoc-dev/esign/pkg/domain"
	"github.com/superdoc-dev/esign/pkg/engine"
)

// State names the session's lifecycle position.
type State string

const (
	// StateInitializing: waiting for the engine's ready notification.
	StateInitializing State = "initializing"
	// StateTracking: signals are tracked and submission is possible.
	StateTracking State = "tracking"
	// StateDestroyed: terminal, reached only via Destroy.
	StateDestroyed State = "destroyed"
)

// Status is the snapshot hosts steer their UI by: the raw signals paired
// with the validity verdict that was computed from exactly those signals.
type Status struct {
	SessionID  string         `json:"sessionId"`
	State      State          `json:"state"`
	Signals    domain.Signals `json:"signals"`
	Verdict    domain.Verdict `json:"verdict"`
	Submitting bool           `json:"isSubmitting"`
	Disabled   bool           `json:"disabled"`
	StartedAt  time.Time      `json:"startedAt"`
	Elapsed    time.Duration  `json:"-"`
}

// SubmitPayload is the immutable acceptance record assembled when a submit
// passes the validity guard. It is constructed on demand and handed to the
// host's submission collaborator; the session does not persist it.
type SubmitPayload struct {
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
	// DurationSeconds is the elapsed wall-clock time since session start.
	DurationSeconds float64 `json:"duration"`
	// AuditTrail is a defensive copy: later events do not leak into a
	// payload already built.
	AuditTrail     []audit.Event         `json:"auditTrail"`
	DocumentFields []domain.TrackedField `json:"documentFields"`
	SignerFields   []domain.TrackedField `json:"signerFields"`
	// FullyCompleted reports whether every tracked field, required or not,
	// holds a present value.
	FullyCompleted bool `json:"isFullyCompleted"`
}

// Digest returns the canonical SHA-256 of the payload: json.Marshal bytes
// hashed, hex encoded. Hosts can anchor the digest to make the acceptance
// record tamper-evident.
func (p *SubmitPayload) Digest() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// DownloadPayload carries a draft export: the document source, the current
// field snapshot, and the exported bytes when the engine could produce them.
// Downloading is not acceptance, so building one is neither gated on
// validity nor recorded in the audit trail.
type DownloadPayload struct {
	SessionID string                `json:"sessionId"`
	Timestamp time.Time             `json:"timestamp"`
	Document  *engine.Document      `json:"-"`
	Format    engine.Format         `json:"format"`
	Fields    []domain.TrackedField `json:"fields"`
	Data      []byte                `json:"-"`
}
