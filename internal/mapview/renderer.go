package mapview

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/oakwood-commons/skinkit/internal/gfx"
)

// FaceSource resolves face images at their native tile size.
type FaceSource interface {
	Face(id FaceID) (image.Image, bool)
}

// Config configures a Renderer.
type Config struct {
	TileSize int
	// FaceTileSize is the tile size face images are drawn for. Faces are
	// scaled to TileSize. Zero means TileSize.
	FaceTileSize int
	// MaxFaceSpan bounds how many tiles a face may cover in each direction.
	// Zero means 1.
	MaxFaceSpan int
	// Background is painted under every tile. Its alpha is forced to opaque.
	Background color.Color
	// Fog is blended over squares outside the map and fogged squares.
	Fog color.Color
	// MaxDarknessAlpha is the overlay opacity of a fully dark square.
	MaxDarknessAlpha float64
	// Marker, if set, is painted over the player tile.
	Marker color.Color
	Faces  FaceSource
	// Alloc creates the buffer. Nil means gfx.NewRGBA.
	Alloc gfx.Allocator
	// OnScroll is called after a batch containing scrolls was applied.
	OnScroll func(dx, dy int)
}

// Stats count the work done by Paint.
type Stats struct {
	Clears           int
	FullRepaints     int
	Blits            int
	TilesPainted     int
	MarkerPaints     int
	DarknessComputed int
}

type scaledFace struct {
	img  image.Image
	span image.Point
}

// Renderer composites map snapshots into an off-screen buffer. It is safe
// for concurrent use: Apply is typically called from the goroutine
// following an Updater and Paint from the UI loop.
type Renderer struct {
	cfg Config

	mu           sync.Mutex
	snap         *Snapshot
	size         image.Point
	buf          gfx.Surface
	view         Viewport
	clearPending bool
	scrolls      []image.Point
	// dirty holds one bit per visible tile, row major from (MinX, MinY).
	dirty       []bool
	markerDrawn bool
	stats       Stats

	faces         map[FaceID]scaledFace
	darkness      [256]color.NRGBA
	darknessKnown [256]bool
}

// NewRenderer returns a renderer with an empty map.
func NewRenderer(cfg Config) *Renderer {
	if cfg.TileSize <= 0 {
		cfg.TileSize = 32
	}
	if cfg.FaceTileSize <= 0 {
		cfg.FaceTileSize = cfg.TileSize
	}
	if cfg.MaxFaceSpan <= 0 {
		cfg.MaxFaceSpan = 1
	}
	if cfg.Background == nil {
		cfg.Background = color.Black
	}
	bg := color.NRGBAModel.Convert(cfg.Background).(color.NRGBA)
	bg.A = 255
	cfg.Background = bg
	if cfg.Fog == nil {
		cfg.Fog = color.NRGBA{A: 160}
	}
	if cfg.Alloc == nil {
		cfg.Alloc = gfx.NewRGBA
	}
	cfg.MaxDarknessAlpha = math.Max(0, math.Min(1, cfg.MaxDarknessAlpha))
	return &Renderer{cfg: cfg, faces: map[FaceID]scaledFace{}}
}

// SetViewSize resizes the buffer. The next Paint repaints everything.
func (r *Renderer) SetViewSize(size image.Point) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if size == r.size && r.buf != nil {
		return
	}
	r.size = size
	r.buf = r.cfg.Alloc(size)
	r.recompute()
}

// recompute derives the viewport from the buffer and map sizes and
// schedules a clear.
func (r *Renderer) recompute() {
	r.view = ComputeViewport(r.size, r.snap.Size(), r.cfg.TileSize)
	r.dirty = make([]bool, r.view.Width()*r.view.Height())
	r.clearPending = true
	r.scrolls = r.scrolls[:0]
}

// Viewport returns the current viewport.
func (r *Renderer) Viewport() Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Stats returns the work counters.
func (r *Renderer) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Follow applies every batch from batches until the channel is closed or
// ctx is cancelled.
func (r *Renderer) Follow(ctx context.Context, batches <-chan Batch) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case b, ok := <-batches:
			if !ok {
				return nil
			}
			r.Apply(b)
		}
	}
}

// Apply records a batch. Pixels are updated lazily by the next Paint.
func (r *Renderer) Apply(b Batch) {
	r.mu.Lock()
	old := r.snap
	r.snap = b.Snapshot
	if b.NewMap || old.Size() != b.Snapshot.Size() {
		r.recompute()
		r.mu.Unlock()
		return
	}
	var total image.Point
	for _, d := range b.Scrolls {
		r.scroll(d)
		total = total.Add(d)
	}
	for _, p := range b.Changed {
		// The buffer still shows what old had at p before the scrolls.
		r.invalidate(old, p.Add(total), p)
		r.invalidate(b.Snapshot, p, p)
	}
	onScroll := r.cfg.OnScroll
	r.mu.Unlock()
	if onScroll != nil {
		for _, d := range b.Scrolls {
			onScroll(d.X, d.Y)
		}
	}
}

func (r *Renderer) index(x, y int) (int, bool) {
	if !r.view.Contains(x, y) {
		return 0, false
	}
	return (y-r.view.MinY)*r.view.Width() + (x - r.view.MinX), true
}

func (r *Renderer) markDirty(x, y int) {
	if i, ok := r.index(x, y); ok {
		r.dirty[i] = true
	}
}

func (r *Renderer) markAll() {
	for i := range r.dirty {
		r.dirty[i] = true
	}
}

// invalidate marks p and every tile covered by a multi-tile face whose
// head is at lookup in s.
func (r *Renderer) invalidate(s *Snapshot, lookup, p image.Point) {
	r.markDirty(p.X, p.Y)
	sq, ok := s.Square(lookup.X, lookup.Y)
	if !ok {
		return
	}
	for _, f := range sq.Layers {
		if f == 0 {
			continue
		}
		face, ok := r.face(f)
		if !ok {
			continue
		}
		for j := 0; j < face.span.Y; j++ {
			for i := 0; i < face.span.X; i++ {
				r.markDirty(p.X-i, p.Y-j)
			}
		}
	}
}

// scroll shifts the dirty bits the way the pending blit will shift the
// pixels. Tiles scrolled in are dirty, and so is the tile the player
// marker's pixels will be blitted to. Edge tiles only partly inside the
// buffer cannot be blitted whole, so tiles they move to are dirty too.
func (r *Renderer) scroll(d image.Point) {
	r.markDirty(r.view.Player.X, r.view.Player.Y)
	w, h := r.view.Width(), r.view.Height()
	bounds := image.Rectangle{Max: r.size}
	next := make([]bool, len(r.dirty))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sx, sy := x+d.X, y+d.Y
			if sx < 0 || sy < 0 || sx >= w || sy >= h {
				next[y*w+x] = true
				continue
			}
			src := r.view.TileRect(r.view.MinX+sx, r.view.MinY+sy)
			next[y*w+x] = r.dirty[sy*w+sx] || !src.In(bounds) ||
				r.crossesEdge(image.Pt(r.view.MinX+x, r.view.MinY+y), d)
		}
	}
	r.dirty = next
	r.scrolls = append(r.scrolls, d)
}

// crossesEdge reports whether the blit for scroll d leaves tile p showing
// the wrong side of the map border: p and its source differ in being inside
// the map, or a face head covering p scrolled out of the map.
func (r *Renderer) crossesEdge(p, d image.Point) bool {
	in := func(q image.Point) bool { return q.In(image.Rectangle{Max: r.snap.Size()}) }
	if in(p) != in(p.Add(d)) {
		return true
	}
	n := r.cfg.MaxFaceSpan
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			h := p.Add(image.Pt(i, j))
			if !in(h) && in(h.Add(d)) {
				return true
			}
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Paint brings the buffer up to date and returns it. It returns nil before
// the first SetViewSize.
func (r *Renderer) Paint() gfx.Surface {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.buf == nil {
		return nil
	}
	if r.clearPending {
		r.buf.Clear()
		r.markerDrawn = false
		r.markAll()
		r.clearPending = false
		r.scrolls = r.scrolls[:0]
		r.stats.Clears++
	}
	t := r.cfg.TileSize
	for _, d := range r.scrolls {
		if abs(d.X) >= r.view.Width() || abs(d.Y) >= r.view.Height() {
			r.markAll()
			r.stats.FullRepaints++
			continue
		}
		r.buf.CopyArea(r.buf.Bounds(), -d.X*t, -d.Y*t)
		r.stats.Blits++
	}
	r.scrolls = r.scrolls[:0]
	if r.markerDrawn {
		r.markDirty(r.view.Player.X, r.view.Player.Y)
	}
	w := r.view.Width()
	for i, dirty := range r.dirty {
		if !dirty {
			continue
		}
		r.paintTile(r.view.MinX+i%w, r.view.MinY+i/w)
		r.dirty[i] = false
	}
	r.paintMarker()
	return r.buf
}

func (r *Renderer) paintTile(x, y int) {
	rect := r.view.TileRect(x, y).Intersect(r.buf.Bounds())
	r.stats.TilesPainted++
	if rect.Empty() {
		return
	}
	r.buf.FillRect(rect, r.cfg.Background)
	sq, ok := r.snap.Square(x, y)
	if !ok {
		r.buf.FillRect(rect, r.cfg.Fog)
		return
	}
	for layer := 0; layer < NumLayers; layer++ {
		r.paintLayer(layer, x, y, rect)
	}
	if sq.Fog {
		r.buf.FillRect(rect, r.cfg.Fog)
	}
	if sq.Darkness < FullBright && r.cfg.MaxDarknessAlpha > 0 {
		r.buf.FillRect(rect, r.darknessColor(sq.Darkness))
	}
}

// paintLayer draws the parts of every face on layer that cover tile (x, y).
// A face is anchored at its head square, its bottom right tile, and
// extends up and left.
func (r *Renderer) paintLayer(layer, x, y int, clip image.Rectangle) {
	n := r.cfg.MaxFaceSpan
	for j := n - 1; j >= 0; j-- {
		for i := n - 1; i >= 0; i-- {
			sq, ok := r.snap.Square(x+i, y+j)
			if !ok || sq.Layers[layer] == 0 {
				continue
			}
			face, ok := r.face(sq.Layers[layer])
			if !ok || i >= face.span.X || j >= face.span.Y {
				continue
			}
			head := r.view.TileRect(x+i, y+j)
			size := face.img.Bounds().Size()
			r.buf.DrawImage(face.img, head.Max.Sub(size), clip)
		}
	}
}

func (r *Renderer) face(id FaceID) (scaledFace, bool) {
	if f, ok := r.faces[id]; ok {
		return f, true
	}
	if r.cfg.Faces == nil {
		return scaledFace{}, false
	}
	src, ok := r.cfg.Faces.Face(id)
	if !ok {
		return scaledFace{}, false
	}
	ft, t := r.cfg.FaceTileSize, r.cfg.TileSize
	b := src.Bounds()
	img := src
	if ft != t {
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*t/ft, b.Dy()*t/ft))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
		img = dst
	}
	span := image.Pt(ceilDiv(b.Dx(), ft), ceilDiv(b.Dy(), ft))
	span.X = min(max(span.X, 1), r.cfg.MaxFaceSpan)
	span.Y = min(max(span.Y, 1), r.cfg.MaxFaceSpan)
	f := scaledFace{img: img, span: span}
	r.faces[id] = f
	return f, true
}

// darknessColor is the overlay for darkness d. The mapping is pure, so each
// value is computed once.
func (r *Renderer) darknessColor(d uint8) color.NRGBA {
	if r.darknessKnown[d] {
		return r.darkness[d]
	}
	a := r.cfg.MaxDarknessAlpha * float64(FullBright-int(d)) / FullBright
	c := color.NRGBA{A: uint8(math.Round(a * 255))}
	r.darkness[d] = c
	r.darknessKnown[d] = true
	r.stats.DarknessComputed++
	return c
}

func (r *Renderer) paintMarker() {
	if r.cfg.Marker == nil {
		return
	}
	t := r.cfg.TileSize
	tile := r.view.TileRect(r.view.Player.X, r.view.Player.Y)
	inset := t / 4
	rect := image.Rect(tile.Min.X+inset, tile.Min.Y+inset, tile.Max.X-inset, tile.Max.Y-inset)
	r.buf.FillRect(rect.Intersect(r.buf.Bounds()), r.cfg.Marker)
	r.markerDrawn = true
	r.stats.MarkerPaints++
}
