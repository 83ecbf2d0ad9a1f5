package skin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/skinkit/internal/action"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		spec    string
		want    Key
		wantErr string
	}{
		{spec: "F1", want: Key{Name: "f1"}},
		{spec: "f12", want: Key{Name: "f12"}},
		{spec: "ESCAPE", want: Key{Name: "escape"}},
		{spec: "PAGE_UP", want: Key{Name: "pgup"}},
		{spec: "'a'", want: Key{Name: "a"}},
		{spec: "ctrl+'+'", want: Key{Name: "+", Ctrl: true}},
		{spec: "ctrl+alt+shift+F5", want: Key{Name: "f5", Ctrl: true, Alt: true, Shift: true}},
		{spec: "SHIFT+tab", want: Key{Name: "tab", Shift: true}},
		{spec: "F13", wantErr: "invalid key 'F13'"},
		{spec: "ctrl+", wantErr: "invalid key 'ctrl+'"},
		{spec: "meta+F1", wantErr: "invalid key 'meta+F1'"},
		{spec: "'ab'", wantErr: "invalid key ''ab''"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			k, err := ParseKey(tt.spec)
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, k)
		})
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "f1", Key{Name: "f1"}.String())
	assert.Equal(t, "ctrl+alt+shift+q", Key{Name: "q", Ctrl: true, Shift: true, Alt: true}.String())
}

func TestKeyBindings(t *testing.T) {
	kb := NewKeyBindings()
	help := action.NewCommandList("help", action.And)
	require.NoError(t, kb.Add(Key{Name: "f1"}, help))
	require.NoError(t, kb.Add(Key{Name: "f1", Ctrl: true}, help))
	assert.EqualError(t, kb.Add(Key{Name: "f1"}, help), "key 'f1' is bound more than once")

	l, ok := kb.Lookup(Key{Name: "f1"})
	assert.True(t, ok)
	assert.Same(t, help, l)
	_, ok = kb.Lookup(Key{Name: "f2"})
	assert.False(t, ok)
	assert.Equal(t, []Key{{Name: "f1"}, {Name: "f1", Ctrl: true}}, kb.Keys())
	assert.Equal(t, 2, kb.Len())

	var none *KeyBindings
	_, ok = none.Lookup(Key{Name: "f1"})
	assert.False(t, ok)
	assert.Zero(t, none.Len())
}
