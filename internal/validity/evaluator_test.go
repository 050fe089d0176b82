package validity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/superdoc-dev/esign/pkg/domain"
)

func TestEvaluate_NothingRequiredIsValid(t *testing.T) {
	v := Evaluate(domain.NewSignals(), domain.Requirements{}, nil)
	assert.True(t, v.Scroll)
	assert.True(t, v.Signature)
	assert.True(t, v.RequiredFields)
	assert.True(t, v.Valid)
}

func TestEvaluate_UnconfiguredRequirementsAutoSatisfy(t *testing.T) {
	// Only a signature is required; scroll stays satisfied even though the
	// signer never scrolled.
	signals := domain.NewSignals()
	v := Evaluate(signals, domain.Requirements{Signature: true}, nil)
	assert.True(t, v.Scroll)
	assert.False(t, v.Signature)
	assert.False(t, v.Valid)

	signals.Signed = true
	v = Evaluate(signals, domain.Requirements{Signature: true}, nil)
	assert.True(t, v.Valid)
}

func TestEvaluate_ConsentSuperset(t *testing.T) {
	req := domain.Requirements{Consents: []string{"terms", "privacy"}}
	signals := domain.NewSignals()

	assert.False(t, Evaluate(signals, req, nil).Valid)

	signals.Consents["terms"] = true
	assert.False(t, Evaluate(signals, req, nil).Valid)

	signals.Consents["privacy"] = true
	assert.True(t, Evaluate(signals, req, nil).Valid)

	// Extra consents beyond the required set do not hurt.
	signals.Consents["marketing"] = true
	assert.True(t, Evaluate(signals, req, nil).Valid)

	// Withdrawing one required consent invalidates again.
	signals.Consents["terms"] = false
	assert.False(t, Evaluate(signals, req, nil).Valid)
}

func TestEvaluate_RequiredFields(t *testing.T) {
	required := domain.Validation{Required: true}
	fields := []domain.TrackedField{
		{FieldReference: domain.FieldReference{ID: "name"}, Kind: domain.KindText, Validation: required},
		{FieldReference: domain.FieldReference{ID: "note"}, Kind: domain.KindText},
	}

	v := Evaluate(domain.NewSignals(), domain.Requirements{}, fields)
	assert.False(t, v.RequiredFields)
	assert.False(t, v.Valid)

	// Whitespace-only does not satisfy a required text field.
	fields[0].Value = "   "
	assert.False(t, Evaluate(domain.NewSignals(), domain.Requirements{}, fields).Valid)

	fields[0].Value = "Jane"
	assert.True(t, Evaluate(domain.NewSignals(), domain.Requirements{}, fields).Valid)
}

func TestEvaluate_IsPure(t *testing.T) {
	signals := domain.NewSignals()
	signals.Consents["terms"] = true
	req := domain.Requirements{Scroll: true, Consents: []string{"terms"}}

	first := Evaluate(signals, req, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, Evaluate(signals, req, nil))
	}
	assert.True(t, signals.Consents["terms"])
}
