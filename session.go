// Package esign orchestrates an eSignature acceptance workflow on top of an
// external rich-document engine: it tracks whether a signer has satisfied
// the configured requirements (scroll-through, signature, consents, required
// fields), synchronizes field values with the displayed document, and
// produces an auditable acceptance record.
package esign

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/superdoc-dev/esign/internal/docsync"
	"github.com/superdoc-dev/esign/internal/field"
	"github.com/superdoc-dev/esign/internal/validity"
	"github.com/superdoc-dev/esign/pkg/audit"
	"github.com/superdoc-dev/esign/pkg/domain"
	"github.com/superdoc-dev/esign/pkg/engine"
	"github.com/superdoc-dev/esign/pkg/metrics"
)

// Session is the signing session controller. It owns the requirement
// signals and the session clock, wires the field registry, the document
// sync adapter, the requirement evaluator, and the audit trail together,
// and exposes the public control surface.
//
// The workflow is logically single-threaded: transitions happen in response
// to discrete events (engine ready, scroll, input, click). The session still
// guards its state with a mutex, but releases it across suspend points (the
// host's submit handler, engine calls made outside mutations), so re-entrant
// calls from observers or during an awaited submit are legal.
type Session struct {
	mu sync.Mutex

	cfg        Config
	id         string
	state      State
	startedAt  time.Time
	disabled   bool
	submitting bool

	scrolled bool
	consents map[string]bool

	registry *field.Registry
	adapter  *docsync.Adapter
	trail    *audit.Trail
	verdict  domain.Verdict

	eng        engine.Engine
	ownsEngine bool

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// Option configures optional session collaborators.
type Option func(*Session)

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session in the initializing state. The configuration must
// carry either a live engine instance or a document+mount pair with a
// factory; otherwise New reports ErrNoEngine through the error observer and
// returns it, and the session never reaches tracking. Declared fields with
// an unrecognized kind are rejected at creation the same way.
func New(cfg Config, opts ...Option) (*Session, error) {
	cfg, err := cfg.normalized()
	if err != nil {
		err = fmt.Errorf("esign: config: %w", err)
		if cb := cfg.Observers.OnError; cb != nil {
			cb(err)
		}
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		id:       uuid.NewString(),
		state:    StateInitializing,
		disabled: cfg.Disabled,
		consents: make(map[string]bool),
		registry: field.NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.trail = audit.NewTrailWithClock(func() time.Time { return s.now() })
	s.startedAt = s.now()

	switch {
	case cfg.Engine != nil:
		s.eng = cfg.Engine
	case cfg.Document != nil && cfg.NewEngine != nil:
		eng, err := cfg.NewEngine(*cfg.Document, cfg.Mount)
		if err != nil {
			err = fmt.Errorf("esign: create engine: %w", err)
			s.notifyError(err)
			return nil, err
		}
		s.eng = eng
		s.ownsEngine = true
	default:
		s.notifyError(ErrNoEngine)
		return nil, ErrNoEngine
	}

	adapter, err := docsync.New(s.eng, s.registry, cfg.SignatureImage, s.logger)
	if err != nil {
		return nil, err
	}
	s.adapter = adapter
	return s, nil
}

// Start renders the document when the session owns its engine. Host-owned
// engines render on the host's schedule, so Start is a no-op for them. A
// render failure is an engine initialization failure: reported through the
// error observer, session stays initializing, and retry is the host's call.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	owns, st := s.ownsEngine, s.state
	s.mu.Unlock()
	if !owns || st != StateInitializing {
		return nil
	}
	if err := s.eng.Render(ctx); err != nil {
		err = fmt.Errorf("esign: render document: %w", err)
		s.notifyError(err)
		return err
	}
	return nil
}

// EngineReady transitions the session from initializing to tracking. The
// binding layer forwards the engine's ready notification here. In order:
// discovery, registry seeding (declared values win over placeholder text),
// initial pushes, the fields-discovered callback, the ready audit event, and
// the start of signal tracking. Repeat notifications are ignored so the
// trail keeps exactly one ready event.
func (s *Session) EngineReady(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateInitializing {
		s.mu.Unlock()
		return nil
	}

	fields, err := s.adapter.Discover(ctx, s.cfg.Fields)
	if err != nil {
		s.mu.Unlock()
		s.notifyError(err)
		return err
	}
	var pushErr error
	if err := s.adapter.PushAll(ctx, false); err != nil {
		// Initial pushes are best-effort: a stale placeholder must not keep
		// the session out of tracking.
		s.logger.Warn("initial field push failed", "error", err)
		pushErr = err
	}
	s.mu.Unlock()

	if pushErr != nil {
		s.notifyError(pushErr)
	}
	if cb := s.cfg.Observers.OnFieldsDiscovered; cb != nil {
		cb(fields)
	}

	s.mu.Lock()
	s.trail.Record(audit.TypeReady, nil)
	s.state = StateTracking
	s.refreshLocked()
	status := s.statusLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionsStarted.Inc()
	}
	s.logger.Info("session tracking", "session", s.id, "fields", len(fields))

	if cb := s.cfg.Observers.OnReady; cb != nil {
		cb()
	}
	s.notifyState(status)
	return nil
}

// EngineError forwards an engine failure to the error observer. The session
// stays in its current state; retry policy is a host concern.
func (s *Session) EngineError(err error) {
	if err == nil {
		return
	}
	s.notifyError(fmt.Errorf("esign: engine: %w", err))
}

// HandleScroll recomputes the scroll signal from the tracked container's
// geometry. Once the visible fraction crosses the threshold (or the content
// never exceeds the viewport, which is trivially scrolled-through), the
// signal latches true for the rest of the session; scrolling back up does
// not revoke it. Exactly one scroll audit event is recorded, at the
// crossing, carrying the percent reached.
func (s *Session) HandleScroll(offset, viewport, content float64) {
	s.mu.Lock()
	if s.state != StateTracking || s.scrolled {
		s.mu.Unlock()
		return
	}
	fraction := 1.0
	if content > viewport && content > 0 {
		fraction = (offset + viewport) / content
		if fraction > 1 {
			fraction = 1
		}
	}
	if fraction < s.cfg.ScrollThreshold {
		s.mu.Unlock()
		return
	}
	s.scrolled = true
	percent := math.Round(fraction * 100)
	s.trail.Record(audit.TypeScroll, map[string]any{"percent": percent})
	s.refreshLocked()
	status := s.statusLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.ScrollsSatisfied.Inc()
	}
	s.notifyState(status)
}

// FieldUpdate addresses one field value change. Ref may be an id or an
// alias; an alias shared by several fields broadcasts the value to all of
// them.
type FieldUpdate struct {
	Ref   string
	Value any
}

// SetField updates a single field. See UpdateFields.
func (s *Session) SetField(ctx context.Context, ref string, value any) error {
	return s.UpdateFields(ctx, []FieldUpdate{{Ref: ref, Value: value}})
}

// UpdateFields applies signer or programmatic field edits. For every field
// actually updated: the registry mutates, the new value is pushed into the
// document (a silent no-op while the engine is loading), a field_change
// audit event is recorded with {fieldId, value, previousValue}, and the
// field-change observer fires with the same triple. Unknown references are
// recoverable no-ops. Validity is re-evaluated before any observer sees the
// change.
func (s *Session) UpdateFields(ctx context.Context, updates []FieldUpdate) error {
	s.mu.Lock()
	if s.state == StateDestroyed {
		s.mu.Unlock()
		return ErrSessionDestroyed
	}

	var (
		changes  []field.Change
		pushErrs []error
	)
	for _, u := range updates {
		if u.Ref == "" {
			continue
		}
		for _, ch := range s.registry.Set(u.Ref, u.Value) {
			changes = append(changes, ch)
			if err := s.adapter.Push(ctx, ch.Field); err != nil {
				pushErrs = append(pushErrs, err)
			}
			s.trail.Record(audit.TypeFieldChange, map[string]any{
				"fieldId":       ch.Field.ID,
				"value":         ch.Field.Value,
				"previousValue": ch.Previous,
			})
			if ch.Field.Kind == domain.KindConsent {
				s.setConsentLocked(ch.Field, truthy(ch.Field.Value))
			}
		}
	}
	if len(changes) == 0 {
		s.mu.Unlock()
		return nil
	}
	s.refreshLocked()
	status := s.statusLocked()
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.FieldChanges.Add(float64(len(changes)))
	}
	for _, err := range pushErrs {
		s.notifyError(err)
	}
	if cb := s.cfg.Observers.OnFieldChange; cb != nil {
		for _, ch := range changes {
			cb(ch.Field.ID, ch.Field.Value, ch.Previous)
		}
	}
	s.notifyState(status)
	return nil
}

// ToggleConsent grants or withdraws a tracked consent. Consent changes
// surface through the recomputed validity state, not as audit entries: the
// trail's taxonomy stays minimal (ready, scroll, field_change, submit).
func (s *Session) ToggleConsent(name string, granted bool) {
	s.mu.Lock()
	if s.state == StateDestroyed || name == "" {
		s.mu.Unlock()
		return
	}
	s.consents[name] = granted
	s.refreshLocked()
	status := s.statusLocked()
	s.mu.Unlock()

	s.notifyState(status)
}

// Accept is submit under its acceptance name.
func (s *Session) Accept(ctx context.Context) (*SubmitPayload, error) {
	return s.Submit(ctx)
}

// Submit runs the terminal acceptance action. The guard rejects, with no
// state change, no audit event, and no observer notification, when the
// session is destroyed, disabled, already submitting, or not valid.
//
// Past the guard: a submit audit event is recorded, the payload is
// assembled from the live registry and a trail snapshot, and the host's
// submit handler runs with no session lock held. The submitting flag is
// cleared on every exit path, so a failing handler never leaves the session
// stuck; the handler's error is returned to the caller, and the trail keeps
// the submit attempt either way.
func (s *Session) Submit(ctx context.Context) (*SubmitPayload, error) {
	s.mu.Lock()
	switch {
	case s.state == StateDestroyed:
		s.mu.Unlock()
		return nil, ErrSessionDestroyed
	case s.disabled:
		s.mu.Unlock()
		return nil, ErrSessionDisabled
	case s.submitting:
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	case s.state != StateTracking || !s.verdict.Valid:
		s.mu.Unlock()
		return nil, ErrNotValid
	}

	s.submitting = true
	now := s.now()
	trail := s.trail.Record(audit.TypeSubmit, nil)
	payload := &SubmitPayload{
		SessionID:       s.id,
		Timestamp:       now,
		DurationSeconds: now.Sub(s.startedAt).Seconds(),
		AuditTrail:      trail,
		DocumentFields:  s.registry.ListSource(domain.SourceDocument),
		SignerFields:    s.registry.ListSource(domain.SourceSigner),
		FullyCompleted:  allPresent(s.registry.List()),
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if s.metrics != nil {
		s.metrics.SubmitAttempts.Inc()
	}

	if handler := s.cfg.Observers.OnSubmit; handler != nil {
		start := s.now()
		err := handler(ctx, payload)
		if s.metrics != nil {
			s.metrics.SubmitDuration.Observe(s.now().Sub(start).Seconds())
		}
		if err != nil {
			return nil, fmt.Errorf("esign: submit handler: %w", err)
		}
	}
	if s.metrics != nil {
		s.metrics.SubmitsAccepted.Inc()
	}
	s.logger.Info("session submitted", "session", s.id)
	return payload, nil
}

// RequestDownload assembles a draft export: document source, current field
// snapshot, and the engine's exported bytes when it is ready to produce
// them. A draft may be downloaded unsigned, so there is no validity gate;
// downloading is not acceptance, so no audit event is recorded. The
// download observer, when set, receives the payload and may veto it with an
// error.
func (s *Session) RequestDownload(ctx context.Context) (*DownloadPayload, error) {
	s.mu.Lock()
	if s.state == StateDestroyed {
		s.mu.Unlock()
		return nil, ErrSessionDestroyed
	}
	payload := &DownloadPayload{
		SessionID: s.id,
		Timestamp: s.now(),
		Document:  s.cfg.Document,
		Format:    s.cfg.DownloadFormat,
		Fields:    s.registry.List(),
	}
	s.mu.Unlock()

	if s.eng.Ready() {
		data, err := s.eng.Export(ctx, payload.Format)
		if err != nil {
			return nil, fmt.Errorf("esign: export document: %w", err)
		}
		payload.Data = data
	}

	if handler := s.cfg.Observers.OnDownload; handler != nil {
		if err := handler(ctx, payload); err != nil {
			return nil, fmt.Errorf("esign: download handler: %w", err)
		}
	}
	return payload, nil
}

// Reset returns the session to its freshly-tracked shape: the scroll signal
// clears, consents clear, every field returns to its declared initial value
// (pre-fill survives, signer input does not), the audit trail clears, and
// the session clock restarts. Discovery is not re-run and the engine is not
// reinitialized. Every in-document field is pushed back, restored pre-fill
// as its value and cleared fields as empty content, so the document never
// keeps showing discarded signer input. Idempotent.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateDestroyed {
		s.mu.Unlock()
		return ErrSessionDestroyed
	}
	s.scrolled = false
	s.consents = make(map[string]bool)
	s.registry.Reset()
	s.trail.Reset()
	s.startedAt = s.now()
	var pushErr error
	if err := s.adapter.PushAll(ctx, true); err != nil {
		s.logger.Warn("reset push failed", "error", err)
		pushErr = err
	}
	s.refreshLocked()
	status := s.statusLocked()
	s.mu.Unlock()

	if pushErr != nil {
		s.notifyError(pushErr)
	}
	s.notifyState(status)
	return nil
}

// Destroy tears the session down. The engine connection is closed only when
// the session created it; ownership of a host-supplied engine is never
// taken. Safe to call twice.
func (s *Session) Destroy() error {
	s.mu.Lock()
	if s.state == StateDestroyed {
		s.mu.Unlock()
		return nil
	}
	s.state = StateDestroyed
	owns := s.ownsEngine
	s.mu.Unlock()

	if owns {
		if err := s.eng.Close(); err != nil {
			return fmt.Errorf("esign: close engine: %w", err)
		}
	}
	return nil
}

// Disable marks the session disabled; the submit guard rejects while set.
func (s *Session) Disable() { s.setDisabled(true) }

// Enable clears the disabled mark.
func (s *Session) Enable() { s.setDisabled(false) }

func (s *Session) setDisabled(disabled bool) {
	s.mu.Lock()
	s.disabled = disabled
	status := s.statusLocked()
	s.mu.Unlock()
	s.notifyState(status)
}

// Status returns the current snapshot: signals and the verdict computed
// from exactly those signals.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// IsValid reports whether all configured requirements are satisfied.
func (s *Session) IsValid() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verdict.Valid
}

// Fields returns a snapshot of all tracked fields in discovery order.
// Mutations must go back through UpdateFields, never through the snapshot.
func (s *Session) Fields() []domain.TrackedField {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.List()
}

// AuditTrail returns a defensive copy of the recorded events.
func (s *Session) AuditTrail() []audit.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trail.Snapshot()
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// refreshLocked derives the dependent signals and re-runs evaluation. Must
// run after every signal mutation and before any observer notification for
// that mutation, so observers never see stale validity next to new signals.
func (s *Session) refreshLocked() {
	signals := s.signalsLocked()
	s.verdict = validity.Evaluate(signals, s.cfg.Requirements, s.registry.List())
}

func (s *Session) signalsLocked() domain.Signals {
	signals := domain.Signals{Scrolled: s.scrolled, Consents: s.consents}
	for _, f := range s.registry.List() {
		if f.Kind == domain.KindSignature && domain.ValuePresent(f.Value) {
			signals.Signed = true
			break
		}
	}
	return signals
}

func (s *Session) setConsentLocked(f domain.TrackedField, granted bool) {
	s.consents[f.ID] = granted
	if f.Alias != "" {
		s.consents[f.Alias] = granted
	}
}

func (s *Session) statusLocked() Status {
	return Status{
		SessionID:  s.id,
		State:      s.state,
		Signals:    s.signalsLocked().Clone(),
		Verdict:    s.verdict,
		Submitting: s.submitting,
		Disabled:   s.disabled,
		StartedAt:  s.startedAt,
		Elapsed:    s.now().Sub(s.startedAt),
	}
}

func (s *Session) notifyState(status Status) {
	if cb := s.cfg.Observers.OnStateChange; cb != nil {
		cb(status)
	}
}

func (s *Session) notifyError(err error) {
	if cb := s.cfg.Observers.OnError; cb != nil {
		cb(err)
	}
}

func allPresent(fields []domain.TrackedField) bool {
	for _, f := range fields {
		if !domain.ValuePresent(f.Value) {
			return false
		}
	}
	return true
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "false" && t != "0"
	default:
		return true
	}
}
