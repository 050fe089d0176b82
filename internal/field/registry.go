// Package field implements the registry that is the single source of truth
// for tracked field values during a signing session.
package field

import (
	"sync"

	"github.com/superdoc-dev/esign/pkg/domain"
)

// Change reports one field whose value was updated, with the value it held
// before.
type Change struct {
	Field    domain.TrackedField
	Previous any
}

// Registry maps field identity to current value and metadata. Entries keep
// insertion order (discovery order for engine-reported fields), which is
// stable for display. Entries are never removed during a session, only reset
// to their declared initial values.
//
// Resolution rule: an id match wins outright; an alias match is a broadcast,
// updating every field sharing the alias. This supports the "same value
// appears N times in the document" case.
type Registry struct {
	mu      sync.RWMutex
	order   []string // ids in insertion order
	byID    map[string]*domain.TrackedField
	byAlias map[string][]string // alias -> ids sharing it, insertion order
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[string]*domain.TrackedField),
		byAlias: make(map[string][]string),
	}
}

// Add registers a field. Fields without an id cannot be addressed later and
// are dropped. Adding an id that already exists overwrites the entry in
// place, keeping its original position.
func (r *Registry) Add(f domain.TrackedField) {
	if f.ID == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byID[f.ID]; ok {
		prevAlias := existing.Alias
		*existing = f
		if prevAlias != f.Alias {
			r.reindexAliasesLocked()
		}
		return
	}
	entry := f
	r.byID[f.ID] = &entry
	r.order = append(r.order, f.ID)
	if f.Alias != "" {
		r.byAlias[f.Alias] = append(r.byAlias[f.Alias], f.ID)
	}
}

// Get returns the field for an id or alias. An id match wins; an alias
// shared by several fields returns the first in insertion order.
func (r *Registry) Get(ref string) (domain.TrackedField, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.byID[ref]; ok {
		return *f, true
	}
	if ids := r.byAlias[ref]; len(ids) > 0 {
		return *r.byID[ids[0]], true
	}
	return domain.TrackedField{}, false
}

// Set updates the value of the field(s) addressed by ref and returns the
// resulting changes. An unknown ref is a recoverable condition, not an
// error: discovery may not have run yet, or the caller pre-declared a value
// for a placeholder absent from this document variant. In that case Set is a
// silent no-op returning no changes.
func (r *Registry) Set(ref string, value any) []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.byID[ref]; ok {
		return []Change{r.setLocked(f, value)}
	}
	ids := r.byAlias[ref]
	changes := make([]Change, 0, len(ids))
	for _, id := range ids {
		changes = append(changes, r.setLocked(r.byID[id], value))
	}
	return changes
}

func (r *Registry) setLocked(f *domain.TrackedField, value any) Change {
	prev := f.Value
	f.Value = value
	return Change{Field: *f, Previous: prev}
}

// List returns copies of all fields in insertion order.
func (r *Registry) List() []domain.TrackedField {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TrackedField, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// ListSource returns copies of the fields with the given source, in
// insertion order.
func (r *Registry) ListSource(src domain.Source) []domain.TrackedField {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.TrackedField
	for _, id := range r.order {
		if f := r.byID[id]; f.Source == src {
			out = append(out, *f)
		}
	}
	return out
}

// Reset restores every field to its declared initial value. Initial values
// represent intentional pre-fill, so reset is not the same as clearing.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		f := r.byID[id]
		f.Value = f.Initial
	}
}

// Len reports the number of tracked fields.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *Registry) reindexAliasesLocked() {
	r.byAlias = make(map[string][]string, len(r.byAlias))
	for _, id := range r.order {
		if a := r.byID[id].Alias; a != "" {
			r.byAlias[a] = append(r.byAlias[a], id)
		}
	}
}
