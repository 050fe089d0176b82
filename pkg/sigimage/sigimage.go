// Package sigimage renders typed signature text into a deterministic
// script-style PNG. It is a pure function of its inputs: no canvas, no
// font files on disk, same bytes for the same text and options. The sync
// layer uses it when a signature field holds plain text rather than an
// image reference.
package sigimage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Options control the rendered signature's geometry. These are presentation
// defaults, not invariants; hosts may tune them.
type Options struct {
	// Scale multiplies the base glyph size. Default 3.
	Scale int
	// PaddingX and PaddingY surround the text, in pre-scale pixels.
	// Defaults 6 and 4.
	PaddingX int
	PaddingY int
	// Slant shifts each row horizontally toward the top of the image to
	// suggest a cursive hand, in pre-scale pixels across the full text
	// height. Default 2.
	Slant int
	// Ink is the stroke color. Default near-black.
	Ink color.Color
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 3
	}
	if o.PaddingX <= 0 {
		o.PaddingX = 6
	}
	if o.PaddingY <= 0 {
		o.PaddingY = 4
	}
	if o.Slant < 0 {
		o.Slant = 0
	} else if o.Slant == 0 {
		o.Slant = 2
	}
	if o.Ink == nil {
		o.Ink = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	}
	return o
}

// ErrEmptyText is returned when there is nothing to render.
var ErrEmptyText = errors.New("sigimage: empty signature text")

const dataURIPrefix = "data:image/png;base64,"

// IsImageRef reports whether a signature value already references image data
// and should pass through to the document unchanged.
func IsImageRef(v string) bool {
	return strings.HasPrefix(v, "data:image/")
}

// Render draws the text as a signature image and returns it as a PNG data
// URI suitable for rich injection into a document placeholder.
func Render(text string, opts Options) (string, error) {
	img, err := RenderImage(text, opts)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// RenderImage draws the text centered on a transparent canvas sized to fit
// the measured text, sheared for a script feel and scaled per the options.
func RenderImage(text string, opts Options) (image.Image, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	o := opts.withDefaults()

	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	textH := face.Metrics().Height.Ceil()

	// Slant allowance widens the canvas so sheared rows stay inside it.
	baseW := textW + 2*o.PaddingX + o.Slant
	baseH := textH + 2*o.PaddingY

	base := image.NewRGBA(image.Rect(0, 0, baseW, baseH))
	drawer := font.Drawer{
		Dst:  base,
		Src:  image.NewUniform(o.Ink),
		Face: face,
		Dot: fixed.P(
			o.PaddingX,
			o.PaddingY+face.Metrics().Ascent.Ceil(),
		),
	}
	drawer.DrawString(text)

	sheared := shear(base, o.Slant)
	return scale(sheared, o.Scale), nil
}

// shear shifts each row right by an amount that grows toward the top row.
func shear(src *image.RGBA, slant int) *image.RGBA {
	if slant == 0 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(b)
	h := b.Dy()
	for y := 0; y < h; y++ {
		dx := slant * (h - 1 - y) / h
		for x := 0; x < b.Dx()-dx; x++ {
			dst.Set(x+dx, y, src.At(x, y))
		}
	}
	return dst
}

// scale performs nearest-neighbor upscaling; deterministic and dependency-free.
func scale(src *image.RGBA, factor int) image.Image {
	if factor <= 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			dst.Set(x, y, src.At(b.Min.X+x/factor, b.Min.Y+y/factor))
		}
	}
	return dst
}
