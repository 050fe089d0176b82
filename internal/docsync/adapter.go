// Package docsync bridges the field registry and the document engine's
// tagged-content primitives: it discovers engine-native placeholders, seeds
// the registry from them, and writes field values back into the document.
package docsync

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/superdoc-dev/esign/internal/field"
	"github.com/superdoc-dev/esign/pkg/domain"
	"github.com/superdoc-dev/esign/pkg/engine"
	"github.com/superdoc-dev/esign/pkg/sigimage"
)

// Adapter translates between TrackedFields and engine update calls.
type Adapter struct {
	eng      engine.Engine
	registry *field.Registry
	sigOpts  sigimage.Options
	logger   *slog.Logger
}

// New returns an adapter writing through to eng and seeding registry.
func New(eng engine.Engine, registry *field.Registry, sigOpts sigimage.Options, logger *slog.Logger) (*Adapter, error) {
	if eng == nil {
		return nil, fmt.Errorf("docsync: engine is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("docsync: registry is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{eng: eng, registry: registry, sigOpts: sigOpts, logger: logger}, nil
}

// Discover queries the engine for tagged placeholders, merges them with the
// caller-declared fields, and seeds the registry. It returns the seeded
// fields in registry order.
//
// Ordering is whatever the engine reports; no re-sort. Placeholders without
// an id cannot be addressed later and are dropped. Initial value precedence
// per placeholder: caller-declared value > placeholder's existing text >
// empty string. Declared fields with no matching placeholder are still
// tracked (signer inputs rendered outside the document) but marked as absent
// from the document so pushes skip them.
func (a *Adapter) Discover(ctx context.Context, declared []domain.TrackedField) ([]domain.TrackedField, error) {
	placeholders, err := a.eng.Placeholders(ctx)
	if err != nil {
		return nil, fmt.Errorf("docsync: discover placeholders: %w", err)
	}

	matched := make(map[int]bool, len(declared))
	for _, p := range placeholders {
		if p.ID == "" {
			a.logger.Debug("dropping unaddressable placeholder", "alias", p.Alias)
			continue
		}
		f := domain.TrackedField{
			FieldReference: domain.FieldReference{ID: p.ID, Alias: p.Alias},
			Kind:           domain.KindText,
			Label:          p.Label,
			Source:         domain.SourceDocument,
			InDocument:     true,
		}
		initial := any(nil)
		if p.Text != "" {
			initial = p.Text
		}
		if i, ok := matchDeclared(declared, p); ok {
			matched[i] = true
			d := declared[i]
			f.Kind = d.Kind
			f.Validation = d.Validation
			if d.Label != "" {
				f.Label = d.Label
			}
			if d.Source != "" {
				f.Source = d.Source
			}
			if d.Value != nil {
				initial = d.Value
			}
		}
		if initial == nil {
			initial = ""
		}
		f.Value = initial
		f.Initial = initial
		a.registry.Add(f)
	}

	for i, d := range declared {
		if matched[i] || d.Empty() {
			continue
		}
		f := d
		if f.ID == "" {
			f.ID = f.Alias
		}
		if f.Kind == "" {
			f.Kind = domain.KindText
		}
		if f.Source == "" {
			f.Source = domain.SourceSigner
		}
		f.Initial = f.Value
		f.InDocument = false
		a.registry.Add(f)
	}

	return a.registry.List(), nil
}

func matchDeclared(declared []domain.TrackedField, p engine.Placeholder) (int, bool) {
	for i, d := range declared {
		if d.ID != "" && d.ID == p.ID {
			return i, true
		}
	}
	for i, d := range declared {
		if d.ID == "" && d.Alias != "" && d.Alias == p.Alias {
			return i, true
		}
	}
	return -1, false
}

// Push writes the field's current value into the document.
//
// If the engine is not ready this is a silent no-op: the user may interact
// before the document finishes loading and that must not crash observer UI.
// Fields with no document placeholder are skipped for the same reason.
//
// Kind fork: a signature value that is not already an image reference is
// rendered to a script-style image before injection; one that already is
// passes through unchanged; everything else is written as plain text, with
// absent values written as the empty string so the document never shows a
// stale value after a clear.
func (a *Adapter) Push(ctx context.Context, f domain.TrackedField) error {
	if !a.eng.Ready() {
		a.logger.Debug("engine not ready, skipping push", "field", f.ID)
		return nil
	}
	if !f.InDocument {
		return nil
	}

	content, err := a.render(f)
	if err != nil {
		return fmt.Errorf("docsync: render field %s: %w", f.ID, err)
	}
	if err := a.eng.UpdateField(ctx, f.ID, content); err != nil {
		return fmt.Errorf("docsync: update field %s: %w", f.ID, err)
	}
	return nil
}

// PushAll writes registry values into the document in bulk. With
// includeAbsent false, only fields holding a present value are pushed; used
// after seeding, where untouched placeholders must keep their document text.
// With includeAbsent true, every in-document field is pushed, absent values
// landing as empty content; used after a reset, where discarded signer input
// must not stay visible in the document.
func (a *Adapter) PushAll(ctx context.Context, includeAbsent bool) error {
	for _, f := range a.registry.List() {
		if !includeAbsent && !domain.ValuePresent(f.Value) {
			continue
		}
		if err := a.Push(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) render(f domain.TrackedField) (engine.Content, error) {
	if f.Kind == domain.KindSignature {
		text := domain.Stringify(f.Value)
		if sigimage.IsImageRef(text) {
			return engine.Content{ImageRef: text}, nil
		}
		if text == "" {
			return engine.Content{}, nil
		}
		uri, err := sigimage.Render(text, a.sigOpts)
		if err != nil {
			return engine.Content{}, err
		}
		return engine.Content{ImageRef: uri}, nil
	}
	return engine.Content{Text: domain.Stringify(f.Value)}, nil
}
