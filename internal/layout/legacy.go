package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/oakwood-commons/skinkit/internal/element"
)

// Wildcard is the add-list placeholder for every element not added explicitly.
const Wildcard = "*"

// ErrDuplicateWildcard is returned for a second wildcard in one dialog.
var ErrDuplicateWildcard = errors.New("duplicate '*'")

// AddEntry is one legacy "add" line: Name is inserted into Container ("" is
// the dialog root) with exactly one of Grid or Layered set.
type AddEntry struct {
	Container string
	Name      string
	Grid      *GridConstraint
	Layered   *LayeredConstraint
}

// AddList collects the add lines of one dialog in declaration order.
type AddList struct {
	entries  []AddEntry
	wildcard int
}

// NewAddList returns an empty list.
func NewAddList() *AddList {
	return &AddList{wildcard: -1}
}

// Add appends an entry. At most one wildcard is accepted.
func (l *AddList) Add(e AddEntry) error {
	if e.Name == Wildcard {
		if l.wildcard >= 0 {
			return ErrDuplicateWildcard
		}
		l.wildcard = len(l.entries)
	}
	l.entries = append(l.entries, e)
	return nil
}

// Len is the number of add lines, the wildcard included.
func (l *AddList) Len() int {
	return len(l.entries)
}

// Names returns the explicitly added element names.
func (l *AddList) Names() []string {
	var out []string
	for _, e := range l.entries {
		if e.Name != Wildcard {
			out = append(out, e.Name)
		}
	}
	return out
}

// Order expands the wildcard. The result holds the explicit entries before
// the wildcard in declaration order, then every name of registry that is
// neither added explicitly nor rejected by skip, in registry order, then the
// explicit entries after the wildcard.
func (l *AddList) Order(registry []string, skip func(name string) bool) []AddEntry {
	if l.wildcard < 0 {
		return append([]AddEntry(nil), l.entries...)
	}
	explicit := make(map[string]bool, len(l.entries))
	for _, e := range l.entries {
		explicit[e.Name] = true
	}
	w := l.entries[l.wildcard]
	out := make([]AddEntry, 0, len(l.entries)+len(registry))
	out = append(out, l.entries[:l.wildcard]...)
	for _, name := range registry {
		if explicit[name] || (skip != nil && skip(name)) {
			continue
		}
		e := w
		e.Name = name
		out = append(out, e)
	}
	out = append(out, l.entries[l.wildcard+1:]...)
	return out
}

// Tracker checks that a layout references every element exactly once.
type Tracker struct {
	used map[string]bool
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{used: map[string]bool{}}
}

// Use records a reference to name.
func (t *Tracker) Use(name string) error {
	if t.used[name] {
		return fmt.Errorf("layout defines element '%s' more than once: %w", name, ErrIncomplete)
	}
	t.used[name] = true
	return nil
}

// Used reports whether name was referenced.
func (t *Tracker) Used(name string) bool {
	return t.used[name]
}

// Check fails if any of names was not referenced.
func (t *Tracker) Check(names []string) error {
	var missing []string
	for _, n := range names {
		if !t.used[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("layout doesn't define elements {%s}: %w", strings.Join(missing, ", "), ErrIncomplete)
}

// Container is a legacy container: the dialog root (Element nil) or a panel.
type Container struct {
	Element *element.Element
	Layered bool
	Axis    Axis
}

// Translate turns ordered add entries into a layout tree rooted at the
// container named "". Grid children receive increasing GridIndex values in
// insertion order.
func Translate(entries []AddEntry, containers map[string]*Container, lookup func(string) (*element.Element, error), t *Tracker) (Node, error) {
	children := map[string][]AddEntry{}
	for _, e := range entries {
		if _, ok := containers[e.Container]; !ok {
			return nil, &InvariantError{Msg: fmt.Sprintf("add into unknown container '%s'", e.Container)}
		}
		children[e.Container] = append(children[e.Container], e)
	}
	b := &translator{children: children, containers: containers, lookup: lookup, tracker: t, active: map[string]bool{}}
	return b.build("")
}

type translator struct {
	children   map[string][]AddEntry
	containers map[string]*Container
	lookup     func(string) (*element.Element, error)
	tracker    *Tracker
	active     map[string]bool
}

func (b *translator) build(name string) (Node, error) {
	if b.active[name] {
		return nil, fmt.Errorf("container '%s' contains itself", name)
	}
	b.active[name] = true
	defer delete(b.active, name)

	c := b.containers[name]
	if c.Layered {
		return b.buildLayered(b.children[name])
	}
	return b.buildGrid(c.Axis, b.children[name])
}

func (b *translator) child(e AddEntry) (*element.Element, Node, error) {
	el, err := b.lookup(e.Name)
	if err != nil {
		return nil, nil, err
	}
	if err := b.tracker.Use(e.Name); err != nil {
		return nil, nil, err
	}
	if _, ok := b.containers[e.Name]; !ok {
		return el, nil, nil
	}
	content, err := b.build(e.Name)
	if err != nil {
		return nil, nil, err
	}
	return el, content, nil
}

func (b *translator) buildGrid(axis Axis, entries []AddEntry) (Node, error) {
	kind := Seq
	if axis == Vertical {
		kind = Par
	}
	g := &Group{Kind: kind}
	for i, e := range entries {
		if e.Grid == nil || e.Layered != nil {
			return nil, &InvariantError{Msg: fmt.Sprintf("element '%s' has no grid constraint in a grid container", e.Name)}
		}
		el, content, err := b.child(e)
		if err != nil {
			return nil, err
		}
		el.GridIndex = i
		g.Children = append(g.Children, &Leaf{
			Element: el,
			Axis:    axis,
			Legacy:  true,
			Weight:  e.Grid.Weight,
			Fill:    e.Grid.Fill,
			Content: content,
		})
	}
	return g, nil
}

func (b *translator) buildLayered(entries []AddEntry) (Node, error) {
	l := &Layered{}
	for _, e := range entries {
		if e.Layered == nil || e.Grid != nil {
			return nil, &InvariantError{Msg: fmt.Sprintf("element '%s' has no layered constraint in a layered container", e.Name)}
		}
		el, content, err := b.child(e)
		if err != nil {
			return nil, err
		}
		l.Children = append(l.Children, LayeredChild{Element: el, Constraint: *e.Layered, Content: content})
	}
	return l, nil
}
