package resource

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImage(t *testing.T) {
	fsys := fstest.MapFS{
		"pictures/frame.png": {Data: pngBytes(t, 12, 7)},
		"pictures/bad.png":   {Data: []byte("not a png")},
	}
	l := New(fsys)
	ctx := context.Background()

	img, err := l.Image(ctx, "frame")
	require.NoError(t, err)
	assert.Equal(t, image.Pt(12, 7), img.Bounds().Size())

	again, err := l.Image(ctx, "frame")
	require.NoError(t, err)
	assert.Same(t, img, again)

	_, err = l.Image(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "resource not found: pictures/missing.png")

	_, err = l.Image(ctx, "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen(t *testing.T) {
	l := New(fstest.MapFS{"global.skin": {Data: []byte("skin_name x 1x1 2x2\n")}})
	r, err := l.Open("global.skin")
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "skin_name x 1x1 2x2\n", string(data))

	assert.True(t, l.Exists("global.skin"))
	assert.False(t, l.Exists("main.skin"))
	_, err = l.Open("main.skin")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuiltinFaces(t *testing.T) {
	l := New(fstest.MapFS{})
	ctx := context.Background()

	small, err := l.Face(ctx, "@regular", 10)
	require.NoError(t, err)
	large, err := l.Face(ctx, "@regular", 20)
	require.NoError(t, err)
	cached, err := l.Face(ctx, "@regular", 10)
	require.NoError(t, err)
	assert.Same(t, small, cached)

	s := small.Measure("Hello")
	g := large.Measure("Hello")
	assert.Greater(t, s.X, 0)
	assert.Greater(t, g.X, s.X)
	assert.Equal(t, 2*small.LineHeight(), small.Measure("a\nb").Y)

	_, err = l.Face(ctx, "@fancy", 10)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Face(ctx, "missing.ttf", 10)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = l.Face(ctx, "@mono", 0)
	assert.Error(t, err)
}
