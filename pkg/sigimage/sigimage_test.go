package sigimage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_DataURI(t *testing.T) {
	uri, err := Render("Jane Doe", Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
	assert.True(t, IsImageRef(uri))
}

func TestRender_Deterministic(t *testing.T) {
	a, err := Render("Jane Doe", Options{})
	require.NoError(t, err)
	b, err := Render("Jane Doe", Options{})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Render("John Doe", Options{})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestRender_EmptyText(t *testing.T) {
	_, err := Render("   ", Options{})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestRenderImage_SizedToFit(t *testing.T) {
	small, err := RenderImage("ab", Options{Scale: 2})
	require.NoError(t, err)
	large, err := RenderImage("a much longer signature", Options{Scale: 2})
	require.NoError(t, err)
	assert.Greater(t, large.Bounds().Dx(), small.Bounds().Dx())
	assert.Equal(t, small.Bounds().Dy(), large.Bounds().Dy())
}

func TestRenderImage_ScaleGrowsOutput(t *testing.T) {
	one, err := RenderImage("Jane", Options{Scale: 1, Slant: -1})
	require.NoError(t, err)
	three, err := RenderImage("Jane", Options{Scale: 3, Slant: -1})
	require.NoError(t, err)
	assert.Equal(t, one.Bounds().Dx()*3, three.Bounds().Dx())
	assert.Equal(t, one.Bounds().Dy()*3, three.Bounds().Dy())
}

func TestIsImageRef(t *testing.T) {
	assert.True(t, IsImageRef("data:image/png;base64,AAAA"))
	assert.True(t, IsImageRef("data:image/jpeg;base64,AAAA"))
	assert.False(t, IsImageRef("Jane Doe"))
	assert.False(t, IsImageRef(""))
}
