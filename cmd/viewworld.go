package cmd

import (
	"image"
	"image/color"

	"github.com/oakwood-commons/skinkit/internal/mapview"
)

// demoFaceTile is the tile size the demo faces are drawn for. The renderer
// scales them to the configured tile size.
const demoFaceTile = 32

const (
	faceGrass mapview.FaceID = iota + 1
	faceWater
	faceSand
	faceTree
	faceRock
	faceTower
	numDemoFaces = int(faceTower)
)

// demoFaces is a FaceSource of generated images, indexed by FaceID-1.
type demoFaces []image.Image

func (f demoFaces) Face(id mapview.FaceID) (image.Image, bool) {
	i := int(id) - 1
	if i < 0 || i >= len(f) {
		return nil, false
	}
	return f[i], true
}

func newDemoFaces() demoFaces {
	t := demoFaceTile
	faces := make(demoFaces, numDemoFaces)
	faces[faceGrass-1] = tileImage(t, t, color.NRGBA{R: 58, G: 122, B: 52, A: 255}, color.NRGBA{R: 70, G: 140, B: 60, A: 255})
	faces[faceWater-1] = tileImage(t, t, color.NRGBA{R: 40, G: 80, B: 160, A: 255}, color.NRGBA{R: 60, G: 100, B: 190, A: 255})
	faces[faceSand-1] = tileImage(t, t, color.NRGBA{R: 194, G: 170, B: 110, A: 255}, color.NRGBA{R: 210, G: 186, B: 124, A: 255})
	faces[faceTree-1] = blobImage(t, t, color.NRGBA{R: 20, G: 80, B: 30, A: 255})
	faces[faceRock-1] = blobImage(t, t, color.NRGBA{R: 120, G: 120, B: 120, A: 255})
	// A 2×2 face anchored at its bottom right square.
	faces[faceTower-1] = blobImage(2*t, 2*t, color.NRGBA{R: 150, G: 90, B: 60, A: 255})
	return faces
}

// tileImage is an opaque w×h tile filled with base and a checker of accent.
func tileImage(w, h int, base, accent color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := base
			if (x/4+y/4)%2 == 0 {
				c = accent
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// blobImage is a transparent w×h image with a filled ellipse.
func blobImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := cx-2, cy-2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := (float64(x)+0.5-cx)/rx, (float64(y)+0.5-cy)/ry
			if dx*dx+dy*dy <= 1 {
				img.SetNRGBA(x, y, c)
			}
		}
	}
	return img
}

// demoWorld is an endless deterministic map. The grid shows the part of it
// starting at origin.
type demoWorld struct {
	seed uint32
}

func (w demoWorld) hash(x, y int) uint32 {
	h := w.seed ^ uint32(x)*0x9e3779b1 ^ uint32(y)*0x85ebca77
	h ^= h >> 15
	h *= 0x2c1b3c6d
	h ^= h >> 12
	h *= 0x297a2d39
	h ^= h >> 15
	return h
}

// square returns the contents of world square (x, y).
func (w demoWorld) square(x, y int) mapview.Square {
	h := w.hash(x, y)
	// Coarse cells give water and sand areas larger than one square.
	area := w.hash(x>>2, y>>2) % 10
	sq := mapview.Square{Darkness: mapview.FullBright}
	switch {
	case area == 0:
		sq.Layers[0] = faceWater
	case area == 1:
		sq.Layers[0] = faceSand
	default:
		sq.Layers[0] = faceGrass
		switch h % 23 {
		case 0, 1, 2:
			sq.Layers[1] = faceTree
		case 3:
			sq.Layers[1] = faceRock
		case 4:
			sq.Layers[2] = faceTower
		}
	}
	// Some areas are unlit or only remembered.
	switch w.hash(y>>3, x>>3) % 7 {
	case 0:
		sq.Darkness = uint8(64 + h%128)
	case 1:
		sq.Fog = true
	}
	return sq
}

// fill copies the world squares at origin+r into r of the grid.
func (w demoWorld) fill(tx *mapview.Tx, origin image.Point, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			sq := w.square(origin.X+x, origin.Y+y)
			tx.ClearSquare(x, y)
			for layer, f := range sq.Layers {
				if f != 0 {
					tx.SetFace(x, y, layer, f)
				}
			}
			if sq.Darkness != mapview.FullBright {
				tx.SetDarkness(x, y, sq.Darkness)
			}
			if sq.Fog {
				tx.SetFog(x, y, true)
			}
		}
	}
}

// exposed returns the grid strips of a size grid that a scroll by d moves
// in from outside the map.
func exposed(size, d image.Point) []image.Rectangle {
	var out []image.Rectangle
	full := image.Rectangle{Max: size}
	switch {
	case d.X > 0:
		out = append(out, image.Rect(size.X-d.X, 0, size.X, size.Y).Intersect(full))
	case d.X < 0:
		out = append(out, image.Rect(0, 0, -d.X, size.Y).Intersect(full))
	}
	switch {
	case d.Y > 0:
		out = append(out, image.Rect(0, size.Y-d.Y, size.X, size.Y).Intersect(full))
	case d.Y < 0:
		out = append(out, image.Rect(0, 0, size.X, -d.Y).Intersect(full))
	}
	return out
}
