package gfx

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestDrawImageClips(t *testing.T) {
	s := NewRGBA(image.Pt(10, 10)).(*RGBA)
	src := image.NewRGBA(image.Rect(5, 5, 9, 9))
	for y := 5; y < 9; y++ {
		for x := 5; x < 9; x++ {
			src.Set(x, y, red)
		}
	}
	s.DrawImage(src, image.Pt(-2, 1), image.Rect(0, 0, 10, 3))

	assert.Equal(t, red, s.Image().RGBAAt(0, 1))
	assert.Equal(t, red, s.Image().RGBAAt(1, 2))
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(2, 1), "source is 4 wide, drawn from x=-2")
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(0, 3), "clipped below y=3")
}

func TestFillRectBlends(t *testing.T) {
	s := NewRGBA(image.Pt(4, 4)).(*RGBA)
	s.FillRect(s.Bounds(), blue)
	s.FillRect(image.Rect(0, 0, 2, 2), color.NRGBA{A: 128})
	got := s.Image().RGBAAt(0, 0)
	assert.Equal(t, uint8(255), got.A)
	assert.InDelta(t, 127, int(got.B), 1)
	assert.Equal(t, blue, s.Image().RGBAAt(3, 3))
}

func TestCopyAreaOverlapping(t *testing.T) {
	s := NewRGBA(image.Pt(4, 1)).(*RGBA)
	s.Image().Set(0, 0, red)
	s.Image().Set(1, 0, blue)
	s.CopyArea(image.Rect(0, 0, 3, 1), 1, 0)

	assert.Equal(t, red, s.Image().RGBAAt(0, 0), "source column kept")
	assert.Equal(t, red, s.Image().RGBAAt(1, 0))
	assert.Equal(t, blue, s.Image().RGBAAt(2, 0))
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(3, 0))

	s.Clear()
	assert.Equal(t, color.RGBA{}, s.Image().RGBAAt(1, 0))
}
