// Package ebitengfx implements gfx.Surface on top of an ebiten image so the
// map renderer can paint straight into a window.
package ebitengfx

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/oakwood-commons/skinkit/internal/gfx"
)

var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(color.White)
	}
	return whitePixel
}

// Surface is a gfx.Surface backed by an offscreen ebiten image. It must be
// used from the ebiten game loop.
type Surface struct {
	img     *ebiten.Image
	scratch *ebiten.Image
	// textures caches GPU copies of the faces drawn so far.
	textures map[image.Image]*ebiten.Image
}

// New returns a transparent surface of the given size.
func New(size image.Point) *Surface {
	return &Surface{
		img:      ebiten.NewImage(size.X, size.Y),
		textures: map[image.Image]*ebiten.Image{},
	}
}

// Allocator adapts New to gfx.Allocator.
func Allocator(size image.Point) gfx.Surface {
	return New(size)
}

// Image returns the backing image, for drawing onto the screen.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

func (s *Surface) Bounds() image.Rectangle {
	return s.img.Bounds()
}

func (s *Surface) texture(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if t, ok := s.textures[img]; ok {
		return t
	}
	t := ebiten.NewImageFromImage(img)
	s.textures[img] = t
	return t
}

func (s *Surface) DrawImage(img image.Image, at image.Point, clip image.Rectangle) {
	b := img.Bounds()
	dst := b.Sub(b.Min).Add(at).Intersect(clip).Intersect(s.img.Bounds())
	if dst.Empty() {
		return
	}
	tex := s.texture(img)
	src := dst.Sub(at).Add(tex.Bounds().Min)
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	s.img.DrawImage(tex.SubImage(src).(*ebiten.Image), &op)
}

func (s *Surface) FillRect(r image.Rectangle, c color.Color) {
	r = r.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	cr, cg, cb, ca := c.RGBA()
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(r.Dx()), float64(r.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	op.ColorScale.Scale(float32(cr)/0xffff, float32(cg)/0xffff, float32(cb)/0xffff, float32(ca)/0xffff)
	s.img.DrawImage(ensureWhitePixel(), &op)
}

// CopyArea goes through a scratch image because ebiten cannot draw an
// image onto itself.
func (s *Surface) CopyArea(r image.Rectangle, dx, dy int) {
	r = r.Intersect(s.img.Bounds())
	if r.Empty() {
		return
	}
	size := s.img.Bounds().Size()
	if s.scratch == nil || s.scratch.Bounds().Size() != size {
		s.scratch = ebiten.NewImage(size.X, size.Y)
	}
	s.scratch.Clear()
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	s.scratch.DrawImage(s.img.SubImage(r).(*ebiten.Image), &op)

	dst := r.Add(image.Pt(dx, dy)).Intersect(s.img.Bounds())
	if dst.Empty() {
		return
	}
	op.GeoM.Reset()
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	op.Blend = ebiten.BlendCopy
	s.img.DrawImage(s.scratch.SubImage(dst.Sub(image.Pt(dx, dy))).(*ebiten.Image), &op)
}

func (s *Surface) Clear() {
	s.img.Clear()
}
