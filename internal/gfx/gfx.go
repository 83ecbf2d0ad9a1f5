// Package gfx abstracts the painting surface the map renderer draws on.
// RGBA is the in-memory implementation; ebitengfx wraps an ebiten image.
package gfx

import (
	"image"
	"image/color"
	"image/draw"
)

// Surface is an off-screen buffer accepting the drawing primitives the
// renderer needs. Coordinates are in surface pixels.
type Surface interface {
	Bounds() image.Rectangle
	// DrawImage draws img with its origin at at, blending over existing
	// content and clipped to clip.
	DrawImage(img image.Image, at image.Point, clip image.Rectangle)
	// FillRect blends c over r.
	FillRect(r image.Rectangle, c color.Color)
	// CopyArea copies the pixels of r to r translated by (dx, dy). Source and
	// destination may overlap.
	CopyArea(r image.Rectangle, dx, dy int)
	// Clear sets every pixel to transparent black.
	Clear()
}

// Allocator creates surfaces of a given size.
type Allocator func(size image.Point) Surface

// RGBA is a Surface over an *image.RGBA.
type RGBA struct {
	img *image.RGBA
}

// NewRGBA returns a transparent surface of the given size.
func NewRGBA(size image.Point) Surface {
	return &RGBA{img: image.NewRGBA(image.Rectangle{Max: size})}
}

// Image returns the backing image.
func (s *RGBA) Image() *image.RGBA {
	return s.img
}

func (s *RGBA) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *RGBA) DrawImage(img image.Image, at image.Point, clip image.Rectangle) {
	dst := img.Bounds().Sub(img.Bounds().Min).Add(at).Intersect(clip)
	if dst.Empty() {
		return
	}
	sp := img.Bounds().Min.Add(dst.Min.Sub(at))
	draw.Draw(s.img, dst, img, sp, draw.Over)
}

func (s *RGBA) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(s.img, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func (s *RGBA) CopyArea(r image.Rectangle, dx, dy int) {
	dst := r.Add(image.Pt(dx, dy)).Intersect(s.img.Bounds())
	if dst.Empty() {
		return
	}
	draw.Draw(s.img, dst, s.img, dst.Min.Sub(image.Pt(dx, dy)), draw.Src)
}

func (s *RGBA) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}
