package gamestate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStat(t *testing.T) {
	st, err := ParseStat("hp")
	require.NoError(t, err)
	assert.Equal(t, StatHP, st)

	_, err = ParseStat("mana")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid stat 'mana'")
	assert.Contains(t, err.Error(), "GRACE")
}

func TestModelStatsSubscription(t *testing.T) {
	m := NewModel()
	var got []Stat
	unsub := m.SubscribeStats(func(s Stat) { got = append(got, s) })
	assert.Equal(t, 1, m.StatSubscribers())

	m.SetStat(StatHP, 10, 20)
	v, max := m.Stat(StatHP)
	assert.Equal(t, 10, v)
	assert.Equal(t, 20, max)
	assert.Equal(t, []Stat{StatHP}, got)

	unsub()
	assert.Equal(t, 0, m.StatSubscribers())
	m.SetStat(StatSP, 1, 1)
	assert.Len(t, got, 1)
}

func TestModelItemLists(t *testing.T) {
	m := NewModel()
	inv := m.List("inventory")
	calls := 0
	unsub := inv.SubscribeItems(func() { calls++ })

	inv.SetItems([]Item{{Tag: 1, Name: "sword"}})
	assert.Equal(t, 1, calls)
	assert.Equal(t, []Item{{Tag: 1, Name: "sword"}}, m.List("inventory").Items())
	assert.Empty(t, m.List("floor").Items())

	unsub()
	assert.Equal(t, 0, inv.Subscribers())
}

func TestModelOptions(t *testing.T) {
	m := NewModel()
	assert.False(t, m.Option("sound"))
	m.SetOption("sound", true)
	assert.True(t, m.Observers().Options.Option("sound"))
}
