package domain

import "sort"

// Requirements declares which acceptance signals the host demands before the
// session may be submitted. Zero value: nothing required.
type Requirements struct {
	// Scroll requires the signer to have scrolled through the document.
	Scroll bool `json:"scroll,omitempty"`
	// Signature requires a non-blank signature field value.
	Signature bool `json:"signature,omitempty"`
	// Consents lists the consent identifiers that must all be granted.
	Consents []string `json:"consents,omitempty"`
}

// Signals are the orthogonal facts the requirement evaluator reads. Owned
// exclusively by the session controller and mutated only through its event
// handlers.
type Signals struct {
	Scrolled bool            `json:"scrolled"`
	Signed   bool            `json:"signed"`
	Consents map[string]bool `json:"consents,omitempty"`
}

// NewSignals returns a zeroed signal set with an allocated consent set.
func NewSignals() Signals {
	return Signals{Consents: make(map[string]bool)}
}

// GrantedConsents returns the granted consent identifiers in sorted order,
// stable for snapshots and assertions.
func (s Signals) GrantedConsents() []string {
	out := make([]string, 0, len(s.Consents))
	for name, on := range s.Consents {
		if on {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy; snapshots handed to observers must not
// alias the live consent set.
func (s Signals) Clone() Signals {
	c := Signals{Scrolled: s.Scrolled, Signed: s.Signed, Consents: make(map[string]bool, len(s.Consents))}
	for name, on := range s.Consents {
		c.Consents[name] = on
	}
	return c
}

// Verdict is the per-requirement breakdown plus the aggregate answer that
// gates the submit action.
type Verdict struct {
	// Scroll reports scroll-through satisfaction. Trivially true when scroll
	// tracking was not required.
	Scroll bool `json:"scroll"`
	// Signature reports signature satisfaction. Trivially true when a
	// signature was not required.
	Signature bool `json:"signature"`
	// Consents lists the granted consent identifiers, sorted.
	Consents []string `json:"consents"`
	// RequiredFields reports whether every required field holds a
	// satisfying value.
	RequiredFields bool `json:"requiredFieldsSatisfied"`
	// Valid is the conjunction of everything above against the configured
	// requirements.
	Valid bool `json:"isValid"`
}
