// Package gamestate declares the narrow observer interfaces skins bind
// widgets to, and an in-memory Model implementing all of them.
package gamestate

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Stat names a character statistic a gauge can display.
type Stat string

const (
	StatHP     Stat = "HP"
	StatSP     Stat = "SP"
	StatGrace  Stat = "GRACE"
	StatFood   Stat = "FOOD"
	StatExp    Stat = "EXP"
	StatSpeed  Stat = "SPEED"
	StatWeight Stat = "WEIGHT"
)

var knownStats = map[string]Stat{
	"HP": StatHP, "SP": StatSP, "GRACE": StatGrace, "FOOD": StatFood,
	"EXP": StatExp, "SPEED": StatSpeed, "WEIGHT": StatWeight,
}

// ParseStat resolves a stat name case-insensitively.
func ParseStat(s string) (Stat, error) {
	if st, ok := knownStats[strings.ToUpper(s)]; ok {
		return st, nil
	}
	names := make([]string, 0, len(knownStats))
	for k := range knownStats {
		names = append(names, k)
	}
	sort.Strings(names)
	return "", fmt.Errorf("invalid stat '%s' (valid: %s)", s, strings.Join(names, ", "))
}

// Item is one entry of an item list.
type Item struct {
	Tag  int
	Name string
	Face int
}

// Stats exposes character statistics.
type Stats interface {
	Stat(s Stat) (value, max int)
	SubscribeStats(fn func(Stat)) (unsubscribe func())
}

// Items exposes one list of items: inventory, floor, spells or skills.
type Items interface {
	Items() []Item
	SubscribeItems(fn func()) (unsubscribe func())
}

// Options exposes boolean client options checkboxes mirror.
type Options interface {
	Option(name string) bool
	SetOption(name string, on bool)
}

// Observers bundles every observer a skin can bind to. Nil members are
// allowed; widgets that need them fail to build.
type Observers struct {
	Stats     Stats
	Inventory Items
	Floor     Items
	Spells    Items
	Skills    Items
	Options   Options
}

// Model is an in-memory implementation of every observer. It is safe for
// concurrent use.
type Model struct {
	mu      sync.Mutex
	stats   map[Stat][2]int
	options map[string]bool
	lists   map[string]*itemList
	statSub subscribers[func(Stat)]
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{
		stats:   map[Stat][2]int{},
		options: map[string]bool{},
		lists:   map[string]*itemList{},
	}
}

// Observers returns the model wired into every observer slot.
func (m *Model) Observers() Observers {
	return Observers{
		Stats:     m,
		Inventory: m.List("inventory"),
		Floor:     m.List("floor"),
		Spells:    m.List("spells"),
		Skills:    m.List("skills"),
		Options:   m,
	}
}

// SetStat updates a statistic and notifies stat subscribers.
func (m *Model) SetStat(s Stat, value, max int) {
	m.mu.Lock()
	m.stats[s] = [2]int{value, max}
	subs := m.statSub.snapshot()
	m.mu.Unlock()
	for _, fn := range subs {
		fn(s)
	}
}

func (m *Model) Stat(s Stat) (int, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.stats[s]
	return v[0], v[1]
}

func (m *Model) SubscribeStats(fn func(Stat)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.statSub.add(fn)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.statSub.remove(id)
	}
}

// StatSubscribers is the number of live stat subscriptions.
func (m *Model) StatSubscribers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.statSub.fns)
}

func (m *Model) Option(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.options[name]
}

func (m *Model) SetOption(name string, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.options[name] = on
}

// List returns the named item list, creating it on first use.
func (m *Model) List(name string) *ItemListModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lists[name]
	if !ok {
		l = &itemList{}
		m.lists[name] = l
	}
	return &ItemListModel{m: m, l: l}
}

type itemList struct {
	items []Item
	subs  subscribers[func()]
}

// ItemListModel is one item list of a Model.
type ItemListModel struct {
	m *Model
	l *itemList
}

// SetItems replaces the list content and notifies subscribers.
func (lm *ItemListModel) SetItems(items []Item) {
	lm.m.mu.Lock()
	lm.l.items = append([]Item(nil), items...)
	subs := lm.l.subs.snapshot()
	lm.m.mu.Unlock()
	for _, fn := range subs {
		fn()
	}
}

func (lm *ItemListModel) Items() []Item {
	lm.m.mu.Lock()
	defer lm.m.mu.Unlock()
	return append([]Item(nil), lm.l.items...)
}

func (lm *ItemListModel) SubscribeItems(fn func()) func() {
	lm.m.mu.Lock()
	defer lm.m.mu.Unlock()
	id := lm.l.subs.add(fn)
	return func() {
		lm.m.mu.Lock()
		defer lm.m.mu.Unlock()
		lm.l.subs.remove(id)
	}
}

// Subscribers is the number of live subscriptions on the list.
func (lm *ItemListModel) Subscribers() int {
	lm.m.mu.Lock()
	defer lm.m.mu.Unlock()
	return len(lm.l.subs.fns)
}

type subscribers[F any] struct {
	next int
	fns  map[int]F
}

func (s *subscribers[F]) add(fn F) int {
	if s.fns == nil {
		s.fns = map[int]F{}
	}
	s.next++
	s.fns[s.next] = fn
	return s.next
}

func (s *subscribers[F]) remove(id int) {
	delete(s.fns, id)
}

func (s *subscribers[F]) snapshot() []F {
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]F, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.fns[id])
	}
	return out
}
