package stringsx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Nil(t, Normalize(nil))
	assert.Equal(t, []string{"terms", "privacy"},
		Normalize([]string{" terms ", "terms", "", "   ", "privacy"}))
}
