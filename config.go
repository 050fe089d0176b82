package esign

import (
	"context"
	"fmt"

	"github.com/superdoc-dev/esign/internal/stringsx"
	"github.com/superdoc-dev/esign/pkg/domain"
	"github.com/superdoc-dev/esign/pkg/engine"
	"github.com/superdoc-dev/esign/pkg/sigimage"
)

// DefaultScrollThreshold is the scrolled-through fraction that satisfies the
// scroll requirement. A presentation default, not an invariant; override via
// Config.ScrollThreshold.
const DefaultScrollThreshold = 0.95

// Config describes a signing session. Exactly one of the two engine paths
// must be taken: either Engine carries a live, host-owned engine instance,
// or Document+Mount+NewEngine let the session construct (and therefore own
// and later close) its own.
type Config struct {
	// Engine is a pre-existing engine instance. The session never closes an
	// engine it did not create.
	Engine engine.Engine

	// Document, Mount, and NewEngine describe the construct-our-own path.
	Document  *engine.Document
	Mount     string
	NewEngine engine.Factory

	// Requirements declares which acceptance signals gate submission.
	Requirements domain.Requirements

	// Fields declares the tracked fields the host knows up front: document
	// pre-fill values keyed by id/alias, and signer inputs (signature,
	// consent, text) with their validation rules. Declared values win over
	// placeholder text at discovery.
	Fields []domain.TrackedField

	// ScrollThreshold overrides DefaultScrollThreshold when > 0.
	ScrollThreshold float64

	// SignatureImage tunes the typed-signature rendering.
	SignatureImage sigimage.Options

	// DownloadFormat selects the export format for download payloads.
	// Defaults to PDF.
	DownloadFormat engine.Format

	// Disabled starts the session with the submit action disabled.
	Disabled bool

	Observers Observers
}

// Observers are the host callbacks the session produces. All are optional.
//
// Callbacks run on the caller's goroutine with no session lock held, so a
// callback may re-enter the session (read status, update fields). By the
// time any callback fires, validity has already been re-evaluated for the
// mutation that triggered it.
type Observers struct {
	// OnReady fires once the session transitions from initializing to
	// tracking.
	OnReady func()

	// OnStateChange fires after any signal mutation with the fresh status.
	OnStateChange func(Status)

	// OnFieldChange fires per updated field with the field id, the new
	// value, and the previous value.
	OnFieldChange func(id string, value, previous any)

	// OnFieldsDiscovered fires after discovery seeds the registry.
	OnFieldsDiscovered func([]domain.TrackedField)

	// OnSubmit is the external submission collaborator. Its error is not
	// swallowed: Submit returns it to the caller after the submitting flag
	// is cleared.
	OnSubmit func(context.Context, *SubmitPayload) error

	// OnDownload is the external render/export collaborator for draft
	// downloads.
	OnDownload func(context.Context, *DownloadPayload) error

	// OnError receives engine initialization failures and push failures.
	OnError func(error)
}

func (c Config) normalized() (Config, error) {
	c.Requirements.Consents = stringsx.Normalize(c.Requirements.Consents)
	if c.ScrollThreshold <= 0 || c.ScrollThreshold > 1 {
		c.ScrollThreshold = DefaultScrollThreshold
	}
	if c.DownloadFormat == "" {
		c.DownloadFormat = engine.FormatPDF
	}
	if len(c.Fields) > 0 {
		fields := make([]domain.TrackedField, len(c.Fields))
		copy(fields, c.Fields)
		for i := range fields {
			kind, err := domain.ParseFieldKind(fields[i].Kind.String())
			if err != nil {
				return c, fmt.Errorf("field %s: %w", fields[i].FieldReference, err)
			}
			fields[i].Kind = kind
		}
		c.Fields = fields
	}
	return c, nil
}
