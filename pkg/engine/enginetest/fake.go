// Package enginetest provides a scriptable in-memory Engine for tests. Hosts
// can use it to exercise their own session wiring without a real document
// renderer.
package enginetest

import (
	"context"
	"sync"

	"github.com/superdoc-dev/esign/pkg/engine"
)

// Update journals a single UpdateField call.
type Update struct {
	ID      string
	Content engine.Content
}

// Fake implements engine.Engine against in-memory placeholder state.
type Fake struct {
	mu           sync.Mutex
	ready        bool
	rendered     bool
	closed       int
	placeholders []engine.Placeholder
	updates      []Update
	exported     map[engine.Format][]byte

	// RenderErr, PlaceholdersErr, and UpdateErr, when set, are returned by
	// the corresponding calls.
	RenderErr       error
	PlaceholdersErr error
	UpdateErr       error
}

// New returns a Fake that reports ready and serves the given placeholders.
func New(placeholders ...engine.Placeholder) *Fake {
	return &Fake{
		ready:        true,
		placeholders: placeholders,
		exported:     map[engine.Format][]byte{},
	}
}

// SetReady toggles the readiness the fake reports.
func (f *Fake) SetReady(ready bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ready = ready
}

// SetExport scripts the blob returned for a format.
func (f *Fake) SetExport(format engine.Format, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exported[format] = data
}

// Updates returns a copy of the journal of UpdateField calls.
func (f *Fake) Updates() []Update {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Update{}, f.updates...)
}

// LastUpdate returns the most recent update for the given placeholder id.
func (f *Fake) LastUpdate(id string) (Update, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.updates) - 1; i >= 0; i-- {
		if f.updates[i].ID == id {
			return f.updates[i], true
		}
	}
	return Update{}, false
}

// Rendered reports whether Render was called.
func (f *Fake) Rendered() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rendered
}

// Closed reports how many times Close was called.
func (f *Fake) Closed() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fake) Render(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RenderErr != nil {
		return f.RenderErr
	}
	f.rendered = true
	return nil
}

func (f *Fake) Ready() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ready
}

func (f *Fake) Placeholders(context.Context) ([]engine.Placeholder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.PlaceholdersErr != nil {
		return nil, f.PlaceholdersErr
	}
	return append([]engine.Placeholder{}, f.placeholders...), nil
}

func (f *Fake) UpdateField(_ context.Context, id string, content engine.Content) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.updates = append(f.updates, Update{ID: id, Content: content})
	for i := range f.placeholders {
		// Text pushes, including clearing ones, land in placeholder state;
		// image pushes replace the placeholder content wholesale.
		if f.placeholders[i].ID == id && content.ImageRef == "" {
			f.placeholders[i].Text = content.Text
		}
	}
	return nil
}

func (f *Fake) Export(_ context.Context, format engine.Format) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exported[format], nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	f.ready = false
	return nil
}
