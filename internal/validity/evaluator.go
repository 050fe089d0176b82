// Package validity computes the requirement verdict for a signing session.
// Evaluation is a pure function over the current signals, the configured
// requirements, and the tracked fields: no side effects, idempotent, safe to
// run on every signal change.
package validity

import "github.com/superdoc-dev/esign/pkg/domain"

// Evaluate derives the verdict. Requirements that were not configured are
// satisfied automatically; a required field passes when its value is present
// and, for text, non-blank after trimming (0 and false count as present).
func Evaluate(signals domain.Signals, req domain.Requirements, fields []domain.TrackedField) domain.Verdict {
	v := domain.Verdict{
		Scroll:    !req.Scroll || signals.Scrolled,
		Signature: !req.Signature || signals.Signed,
		Consents:  signals.GrantedConsents(),
	}

	v.RequiredFields = true
	for _, f := range fields {
		if f.Validation.Required && !f.Satisfied() {
			v.RequiredFields = false
			break
		}
	}

	consentsOK := true
	for _, name := range req.Consents {
		if !signals.Consents[name] {
			consentsOK = false
			break
		}
	}

	v.Valid = v.Scroll && v.Signature && v.RequiredFields && consentsOK
	return v
}
