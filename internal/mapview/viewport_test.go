package mapview

import (
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 32, 0}, {1, 32, 1}, {32, 32, 1}, {33, 32, 2}, {-1, 32, 0}, {-32, 32, -1}, {-33, 32, -1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ceilDiv(tt.a, tt.b), "ceilDiv(%d, %d)", tt.a, tt.b)
	}
}

func TestViewportCoversBuffer(t *testing.T) {
	for _, tile := range []int{8, 16, 32, 33} {
		for _, w := range []int{1, 7, 31, 32, 100, 101, 640} {
			for _, h := range []int{1, 17, 64, 480} {
				for _, m := range []image.Point{{0, 0}, {1, 1}, {11, 11}, {25, 17}} {
					t.Run(fmt.Sprintf("%d/%dx%d/%v", tile, w, h, m), func(t *testing.T) {
						v := ComputeViewport(image.Pt(w, h), m, tile)
						first := v.TileRect(v.MinX, v.MinY)
						last := v.TileRect(v.MaxX, v.MaxY)

						assert.LessOrEqual(t, first.Min.X, 0)
						assert.Greater(t, first.Min.X, -tile)
						assert.LessOrEqual(t, first.Min.Y, 0)
						assert.Greater(t, first.Min.Y, -tile)
						assert.GreaterOrEqual(t, last.Max.X, w)
						assert.Less(t, last.Max.X, w+tile)
						assert.GreaterOrEqual(t, last.Max.Y, h)
						assert.Less(t, last.Max.Y, h+tile)

						assert.GreaterOrEqual(t, v.OffsetX, 0)
						assert.Less(t, v.OffsetX, tile)
						assert.GreaterOrEqual(t, v.OffsetY, 0)
						assert.Less(t, v.OffsetY, tile)

						p := v.TileRect(v.Player.X, v.Player.Y)
						assert.Equal(t, image.Pt(v.PlayerX, v.PlayerY), p.Min, "player tile is anchored")
					})
				}
			}
		}
	}
}

func TestViewportCentred(t *testing.T) {
	v := ComputeViewport(image.Pt(160, 160), image.Pt(11, 11), 32)
	assert.Equal(t, Viewport{
		MinX: 3, MaxX: 7, MinY: 3, MaxY: 7,
		PlayerX: 64, PlayerY: 64,
		Player:   image.Pt(5, 5),
		TileSize: 32,
	}, v)
	assert.Equal(t, 5, v.Width())
	assert.True(t, v.Contains(7, 3))
	assert.False(t, v.Contains(8, 3))
}
