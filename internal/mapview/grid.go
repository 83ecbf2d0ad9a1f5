// Package mapview renders the tile map. An Updater goroutine owns the map
// grid and publishes immutable snapshots; a Renderer turns them into pixels,
// repainting only what changed and blitting on scroll.
package mapview

import (
	"fmt"
	"image"
)

// NumLayers is the number of face layers per square, bottom first.
const NumLayers = 3

// FullBright is the darkness value of a fully lit square.
const FullBright = 255

// FaceID identifies a face image. Zero means no face.
type FaceID int32

// Square is one map cell.
type Square struct {
	Layers [NumLayers]FaceID
	// Darkness is 255 for full light and 0 for black.
	Darkness uint8
	Fog      bool
}

var emptySquare = Square{Darkness: FullBright}

// Grid is the mutable map. It is owned by the Updater.
type Grid struct {
	size    image.Point
	squares []Square
}

// NewGrid returns a w×h grid of empty, fully lit squares.
func NewGrid(w, h int) *Grid {
	g := &Grid{size: image.Pt(w, h), squares: make([]Square, w*h)}
	for i := range g.squares {
		g.squares[i] = emptySquare
	}
	return g
}

func (g *Grid) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.size.X && y < g.size.Y
}

func (g *Grid) at(x, y int) *Square {
	return &g.squares[y*g.size.X+x]
}

// Snapshot returns an immutable copy of the grid.
func (g *Grid) Snapshot() *Snapshot {
	return &Snapshot{size: g.size, squares: append([]Square(nil), g.squares...)}
}

func (g *Grid) scroll(dx, dy int) {
	next := make([]Square, len(g.squares))
	for y := 0; y < g.size.Y; y++ {
		for x := 0; x < g.size.X; x++ {
			sx, sy := x+dx, y+dy
			if g.in(sx, sy) {
				next[y*g.size.X+x] = *g.at(sx, sy)
			} else {
				next[y*g.size.X+x] = emptySquare
			}
		}
	}
	g.squares = next
}

// Snapshot is a read-only view of the grid at one point in time.
type Snapshot struct {
	size    image.Point
	squares []Square
}

// Size is the map size in squares. A nil snapshot has size zero.
func (s *Snapshot) Size() image.Point {
	if s == nil {
		return image.Point{}
	}
	return s.size
}

// Square returns the square at (x, y) and whether it lies inside the map.
func (s *Snapshot) Square(x, y int) (Square, bool) {
	if s == nil || x < 0 || y < 0 || x >= s.size.X || y >= s.size.Y {
		return Square{}, false
	}
	return s.squares[y*s.size.X+x], true
}

// Tx collects the mutations of one update. Coordinates recorded as changed
// are in the coordinates after every scroll of the transaction.
type Tx struct {
	g       *Grid
	changed []image.Point
	scrolls []image.Point
	newMap  bool
	err     error
}

func (tx *Tx) fail(x, y int) bool {
	if tx.g.in(x, y) {
		return false
	}
	if tx.err == nil {
		tx.err = fmt.Errorf("square (%d,%d) outside map %dx%d", x, y, tx.g.size.X, tx.g.size.Y)
	}
	return true
}

func (tx *Tx) touch(x, y int) {
	tx.changed = append(tx.changed, image.Pt(x, y))
}

// SetFace sets the face of one layer.
func (tx *Tx) SetFace(x, y, layer int, f FaceID) {
	if tx.fail(x, y) {
		return
	}
	if layer < 0 || layer >= NumLayers {
		if tx.err == nil {
			tx.err = fmt.Errorf("invalid layer %d", layer)
		}
		return
	}
	tx.g.at(x, y).Layers[layer] = f
	tx.touch(x, y)
}

// SetDarkness sets the light level of a square.
func (tx *Tx) SetDarkness(x, y int, d uint8) {
	if tx.fail(x, y) {
		return
	}
	tx.g.at(x, y).Darkness = d
	tx.touch(x, y)
}

// SetFog marks a square as remembered but not currently seen.
func (tx *Tx) SetFog(x, y int, fog bool) {
	if tx.fail(x, y) {
		return
	}
	tx.g.at(x, y).Fog = fog
	tx.touch(x, y)
}

// ClearSquare empties a square.
func (tx *Tx) ClearSquare(x, y int) {
	if tx.fail(x, y) {
		return
	}
	*tx.g.at(x, y) = emptySquare
	tx.touch(x, y)
}

// Scroll moves the view by (dx, dy) squares: the square at (x+dx, y+dy)
// moves to (x, y) and squares scrolled in are empty.
func (tx *Tx) Scroll(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	tx.g.scroll(dx, dy)
	kept := tx.changed[:0]
	for _, p := range tx.changed {
		p = p.Sub(image.Pt(dx, dy))
		if tx.g.in(p.X, p.Y) {
			kept = append(kept, p)
		}
	}
	tx.changed = kept
	for y := 0; y < tx.g.size.Y; y++ {
		for x := 0; x < tx.g.size.X; x++ {
			if !tx.g.in(x+dx, y+dy) {
				tx.touch(x, y)
			}
		}
	}
	tx.scrolls = append(tx.scrolls, image.Pt(dx, dy))
}

// NewMap replaces the grid with an empty w×h map.
func (tx *Tx) NewMap(w, h int) {
	if w <= 0 || h <= 0 {
		if tx.err == nil {
			tx.err = fmt.Errorf("invalid map size %dx%d", w, h)
		}
		return
	}
	*tx.g = *NewGrid(w, h)
	tx.changed = nil
	tx.scrolls = nil
	tx.newMap = true
}

func (tx *Tx) batch() Batch {
	seen := make(map[image.Point]bool, len(tx.changed))
	changed := make([]image.Point, 0, len(tx.changed))
	for _, p := range tx.changed {
		if !seen[p] {
			seen[p] = true
			changed = append(changed, p)
		}
	}
	return Batch{
		Snapshot: tx.g.Snapshot(),
		Changed:  changed,
		Scrolls:  tx.scrolls,
		NewMap:   tx.newMap,
	}
}

// Batch is what one update publishes to renderers.
type Batch struct {
	Snapshot *Snapshot
	// Changed squares, in the coordinates of Snapshot.
	Changed []image.Point
	// Scrolls in the order they happened.
	Scrolls []image.Point
	NewMap  bool
}
