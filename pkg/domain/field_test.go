package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFieldKind(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FieldKind
		wantErr bool
	}{
		{name: "empty defaults to text", in: "", want: KindText},
		{name: "text", in: "text", want: KindText},
		{name: "signature", in: "signature", want: KindSignature},
		{name: "consent", in: "consent", want: KindConsent},
		{name: "unknown rejected", in: "dropdown", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFieldKind(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValuePresent(t *testing.T) {
	assert.False(t, ValuePresent(nil))
	assert.False(t, ValuePresent(""))
	assert.False(t, ValuePresent("   \t"))

	// Falsy-but-defined values count as supplied.
	assert.True(t, ValuePresent(0))
	assert.True(t, ValuePresent(false))
	assert.True(t, ValuePresent("x"))
}

func TestTrackedFieldSatisfied(t *testing.T) {
	required := Validation{Required: true}

	t.Run("blank text fails", func(t *testing.T) {
		f := TrackedField{Value: "  ", Validation: required}
		assert.False(t, f.Satisfied())
	})

	t.Run("zero and false pass", func(t *testing.T) {
		assert.True(t, TrackedField{Value: 0, Validation: required}.Satisfied())
		assert.True(t, TrackedField{Value: false, Validation: required}.Satisfied())
	})

	t.Run("length bounds apply to trimmed text", func(t *testing.T) {
		f := TrackedField{Value: " ab ", Validation: Validation{Required: true, MinLength: 3}}
		assert.False(t, f.Satisfied())
		f.Value = "abc"
		assert.True(t, f.Satisfied())
		f.Validation.MaxLength = 2
		assert.False(t, f.Satisfied())
	})
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "Jane", Stringify("Jane"))
	assert.Equal(t, "42", Stringify(42))
	assert.Equal(t, "true", Stringify(true))
}

func TestSignalsGrantedConsents(t *testing.T) {
	s := NewSignals()
	s.Consents["terms"] = true
	s.Consents["marketing"] = false
	s.Consents["privacy"] = true
	assert.Equal(t, []string{"privacy", "terms"}, s.GrantedConsents())
}

func TestSignalsClone(t *testing.T) {
	s := NewSignals()
	s.Consents["terms"] = true
	c := s.Clone()
	c.Consents["terms"] = false
	assert.True(t, s.Consents["terms"])
}
