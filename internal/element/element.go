// Package element defines the widgets a skin declares. An Element carries
// capability flags instead of a type hierarchy, so command targets are
// validated with a predicate rather than a type assertion.
package element

import (
	"fmt"
	"image"
	"strings"
)

// Unbounded as a maximum size component means the element grows without limit.
const Unbounded = 1 << 24

// Capability is a set of behaviours an element supports.
type Capability uint16

const (
	Scrollable Capability = 1 << iota
	Activatable
	Selectable
	TextInput
	HasItems
	Container
)

var capabilityNames = []struct {
	c    Capability
	name string
}{
	{Scrollable, "scrollable"},
	{Activatable, "activatable"},
	{Selectable, "selectable"},
	{TextInput, "text input"},
	{HasItems, "item list"},
	{Container, "container"},
}

// Has reports whether every capability in want is present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	var names []string
	for _, cn := range capabilityNames {
		if c&cn.c != 0 {
			names = append(names, cn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Article returns the capability name with an indefinite article, for
// messages like "'x' must be a scrollable element".
func (c Capability) Article() string {
	s := c.String()
	switch s[0] {
	case 'a', 'e', 'i', 'o', 'u':
		return "an " + s
	}
	return "a " + s
}

// Kind identifies the skin command that created an element.
type Kind string

const (
	KindPicture    Kind = "picture"
	KindFill       Kind = "fill"
	KindLabel      Kind = "label_text"
	KindButton     Kind = "button"
	KindTextButton Kind = "textbutton"
	KindCheckbox   Kind = "checkbox"
	KindGauge      Kind = "gauge"
	KindTextGauge  Kind = "textgauge"
	KindScrollbar  Kind = "scrollbar"
	KindQueryText  Kind = "query_text"
	KindLogLabel   Kind = "log_label"
	KindItemList   Kind = "item_list"
	KindMap        Kind = "map"
	KindMinimap    Kind = "minimap"
	KindPanel      Kind = "panel"
)

// Sizes are the minimum, preferred and maximum extents of an element.
type Sizes struct {
	Min  image.Point
	Pref image.Point
	Max  image.Point
}

// Fixed returns sizes that are all equal to p.
func Fixed(p image.Point) Sizes {
	return Sizes{Min: p, Pref: p, Max: p}
}

// Flexible returns sizes that may shrink to zero and grow without limit.
func Flexible(pref image.Point) Sizes {
	return Sizes{Pref: pref, Max: image.Pt(Unbounded, Unbounded)}
}

// ScrollState tracks the scroll position of a Scrollable element.
type ScrollState struct {
	Pos   int
	Total int
}

// Tooltip holds a tooltip both as source text and rendered HTML.
type Tooltip struct {
	Text string
	HTML string
}

// Element is one named widget of a dialog.
type Element struct {
	Name    string
	Kind    Kind
	Caps    Capability
	Visible bool
	// Ignored elements are exempt from layout and stay hidden.
	Ignored bool
	Sizes   Sizes
	// Bounds is assigned by the layout solver, relative to the dialog.
	Bounds image.Rectangle
	// GridIndex is the position along the growth axis of a legacy grid
	// container, or -1.
	GridIndex int
	// Layer is the z-order inside a layered container.
	Layer int

	Tooltip  *Tooltip
	Scroll   *ScrollState
	Selected bool
	// Text is the content of a TextInput element.
	Text      string
	Active    bool
	Selection int

	Widget Widget

	unsubscribe []func()
}

// New returns a visible element with the given capabilities.
func New(name string, kind Kind, caps Capability, sizes Sizes, w Widget) *Element {
	e := &Element{
		Name:      name,
		Kind:      kind,
		Caps:      caps,
		Visible:   true,
		Sizes:     sizes,
		GridIndex: -1,
		Widget:    w,
	}
	if caps.Has(Scrollable) {
		e.Scroll = &ScrollState{}
	}
	return e
}

// Is reports whether the element has all capabilities in c.
func (e *Element) Is(c Capability) bool {
	return e.Caps.Has(c)
}

// OnRelease registers fn to run when the element is released, typically to
// drop an observer subscription.
func (e *Element) OnRelease(fn func()) {
	e.unsubscribe = append(e.unsubscribe, fn)
}

// Release runs and clears the registered release hooks.
func (e *Element) Release() {
	for _, fn := range e.unsubscribe {
		fn()
	}
	e.unsubscribe = nil
}

// ScrollBy moves the scroll position by d, clamped to [0, Total]. It reports
// whether the position changed.
func (e *Element) ScrollBy(d int) bool {
	if e.Scroll == nil {
		return false
	}
	pos := e.Scroll.Pos + d
	if pos < 0 {
		pos = 0
	}
	if e.Scroll.Total > 0 && pos > e.Scroll.Total {
		pos = e.Scroll.Total
	}
	if pos == e.Scroll.Pos {
		return false
	}
	e.Scroll.Pos = pos
	return true
}

// CanScroll reports whether ScrollBy(d) would change the position.
func (e *Element) CanScroll(d int) bool {
	if e.Scroll == nil {
		return false
	}
	if d < 0 {
		return e.Scroll.Pos > 0
	}
	return e.Scroll.Total == 0 || e.Scroll.Pos < e.Scroll.Total
}

// CapabilityError reports an element used where it lacks a capability.
type CapabilityError struct {
	Name string
	Want Capability
}

func (e *CapabilityError) Error() string {
	return fmt.Sprintf("'%s' must be %s element", e.Name, e.Want.Article())
}

// Require fails with a CapabilityError unless e has every capability in c.
func Require(e *Element, c Capability) error {
	if !e.Is(c) {
		return &CapabilityError{Name: e.Name, Want: c}
	}
	return nil
}
