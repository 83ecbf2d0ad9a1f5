package settings

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRoundTrip(t *testing.T) {
	run := &Run{NoColor: true, SkinDir: "skins", Resolution: image.Pt(800, 600)}
	got, ok := FromContext(IntoContext(context.Background(), run))
	require.True(t, ok)
	assert.Same(t, run, got)
}

func TestFromContextMissing(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "empty", ctx: context.Background()},
		{name: "wrong type", ctx: context.WithValue(context.Background(), contextKey{}, "run")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, int8(0), NewCliParams().LogLevel(0))
	assert.Equal(t, int8(-1), (&Run{MinLogLevel: -1}).LogLevel(0))
	assert.Equal(t, int8(-2), (&Run{}).LogLevel(-2))
}
