// Package domain holds the value types shared between the signing session,
// the field registry, and the document sync layer.
package domain

import (
	"fmt"
	"strings"
)

// FieldKind is a domain value that classifies how a tracked field behaves.
// Invariant: the value must be one of the supported kinds; the kind decides
// how a value is pushed into the document and how it feeds validity.
type FieldKind string

// Supported field kinds.
const (
	KindText      FieldKind = "text"
	KindSignature FieldKind = "signature"
	KindConsent   FieldKind = "consent"
)

// validFieldKinds is the single source of truth for supported kinds.
var validFieldKinds = map[FieldKind]bool{
	KindText:      true,
	KindSignature: true,
	KindConsent:   true,
}

// ParseFieldKind constructs a FieldKind from external input. An empty value
// defaults to KindText so that plain discovered placeholders need no
// declaration.
func ParseFieldKind(s string) (FieldKind, error) {
	if s == "" {
		return KindText, nil
	}
	k := FieldKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid field kind %q", s)
	}
	return k, nil
}

// IsValid checks if the kind is one of the supported enum values.
func (k FieldKind) IsValid() bool {
	return validFieldKinds[k]
}

func (k FieldKind) String() string {
	return string(k)
}

// Source records who supplies a field's value.
type Source string

const (
	// SourceDocument marks host-supplied pre-fill fields that live as tagged
	// placeholders in the document.
	SourceDocument Source = "document"
	// SourceSigner marks fields the end user must complete (signature,
	// consent, free text).
	SourceSigner Source = "signer"
)

// FieldReference identifies a field. At least one of ID or Alias must be
// present; when both are given they are interchangeable keys into the same
// logical field. An alias may repeat across document positions.
type FieldReference struct {
	ID    string `json:"id,omitempty"`
	Alias string `json:"alias,omitempty"`
}

// Empty reports whether the reference carries no usable key.
func (r FieldReference) Empty() bool {
	return r.ID == "" && r.Alias == ""
}

func (r FieldReference) String() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Alias
}

// Validation carries per-field completion rules.
type Validation struct {
	Required  bool `json:"required,omitempty"`
	MinLength int  `json:"minLength,omitempty"`
	MaxLength int  `json:"maxLength,omitempty"`
}

// TrackedField is a FieldReference plus everything the session tracks about
// it: kind, current value, display label, validation rules, and the declared
// initial value the field returns to on reset.
//
// Lifecycle: created at discovery or caller declaration, mutated on every
// signer interaction or programmatic update, never deleted during a session.
type TrackedField struct {
	FieldReference
	Kind       FieldKind  `json:"kind"`
	Value      any        `json:"value,omitempty"`
	Label      string     `json:"label,omitempty"`
	Validation Validation `json:"validation,omitempty"`
	Source     Source     `json:"source,omitempty"`

	// Initial is the declared initial value restored on reset. Reset goes
	// back to this, not to empty: initial values are intentional pre-fill.
	Initial any `json:"-"`

	// InDocument is set when discovery found a matching tagged placeholder,
	// meaning pushes for this field have somewhere to land.
	InDocument bool `json:"-"`
}

// Satisfied reports whether the field's current value completes a required
// field. Numeric and boolean falsy-but-defined values (0, false) count as
// satisfied; only nil, empty string, and whitespace-only strings fail. Length
// bounds apply to textual values only.
func (f TrackedField) Satisfied() bool {
	if !ValuePresent(f.Value) {
		return false
	}
	if s, ok := f.Value.(string); ok {
		n := len(strings.TrimSpace(s))
		if f.Validation.MinLength > 0 && n < f.Validation.MinLength {
			return false
		}
		if f.Validation.MaxLength > 0 && n > f.Validation.MaxLength {
			return false
		}
	}
	return true
}

// ValuePresent reports whether a field value counts as supplied. nil and
// blank strings are absent; everything else, including 0 and false, is
// present.
func ValuePresent(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// Stringify renders a field value for plain-text injection into the document.
// nil becomes the empty string so a cleared field never leaves a stale value
// behind in the document.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
