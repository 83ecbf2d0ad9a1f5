package mapview

import "image"

// Viewport maps tiles to pixels. Tiles MinX..MaxX and MinY..MaxY
// (inclusive) are visible; the tile at MinX starts OffsetX pixels left of
// the buffer edge. The player tile, at the map centre, starts at pixel
// (PlayerX, PlayerY).
type Viewport struct {
	MinX, MaxX, MinY, MaxY int
	OffsetX, OffsetY       int
	PlayerX, PlayerY       int
	Player                 image.Point
	TileSize               int
}

// ceilDiv is ⌈a/b⌉ for b > 0.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// ComputeViewport centres the player tile of a map of mapSize squares in a
// buffer of size pixels and returns the tile range that covers the buffer
// with less than one tile of overshoot on each edge.
func ComputeViewport(size, mapSize image.Point, tile int) Viewport {
	v := Viewport{TileSize: tile, Player: image.Pt(mapSize.X/2, mapSize.Y/2)}
	v.PlayerX = (size.X - tile) / 2
	v.PlayerY = (size.Y - tile) / 2
	v.MinX = v.Player.X - ceilDiv(v.PlayerX, tile)
	v.MaxX = v.Player.X + ceilDiv(size.X-v.PlayerX-tile, tile)
	v.MinY = v.Player.Y - ceilDiv(v.PlayerY, tile)
	v.MaxY = v.Player.Y + ceilDiv(size.Y-v.PlayerY-tile, tile)
	v.OffsetX = (v.Player.X-v.MinX)*tile - v.PlayerX
	v.OffsetY = (v.Player.Y-v.MinY)*tile - v.PlayerY
	return v
}

// Width is the number of visible tile columns.
func (v Viewport) Width() int {
	return v.MaxX - v.MinX + 1
}

// Height is the number of visible tile rows.
func (v Viewport) Height() int {
	return v.MaxY - v.MinY + 1
}

// Contains reports whether tile (x, y) is visible.
func (v Viewport) Contains(x, y int) bool {
	return x >= v.MinX && x <= v.MaxX && y >= v.MinY && y <= v.MaxY
}

// TileRect is the pixel rectangle of tile (x, y) in the buffer. It may
// extend past the buffer edges.
func (v Viewport) TileRect(x, y int) image.Rectangle {
	px := (x-v.MinX)*v.TileSize - v.OffsetX
	py := (y-v.MinY)*v.TileSize - v.OffsetY
	return image.Rect(px, py, px+v.TileSize, py+v.TileSize)
}
