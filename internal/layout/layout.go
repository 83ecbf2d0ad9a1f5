// Package layout arranges the elements of a dialog. Every dialog is laid
// out by one tree of nodes: sequential groups place children left to right,
// parallel groups stack them top to bottom, and layered nodes position
// children with placement expressions. Legacy grid containers are translated
// into groups when a dialog is finalized.
package layout

import (
	"errors"
	"fmt"
	"image"

	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/expr"
)

// ErrIncomplete is returned when a layout leaves elements out or names an
// element twice.
var ErrIncomplete = errors.New("incomplete layout")

// InvariantError reports an internal inconsistency such as a constraint of
// the wrong shape for its container. It is not a user error.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "internal layout error: " + e.Msg
}

// Axis is a layout direction.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "VERTICAL"
	}
	return "HORIZONTAL"
}

// Fill says along which axes a legacy grid cell stretches its element.
type Fill int

const (
	FillNone Fill = iota
	FillHorizontal
	FillVertical
	FillBoth
)

// Includes reports whether f stretches along a.
func (f Fill) Includes(a Axis) bool {
	switch f {
	case FillBoth:
		return true
	case FillHorizontal:
		return a == Horizontal
	case FillVertical:
		return a == Vertical
	}
	return false
}

func (f Fill) String() string {
	return [...]string{"NONE", "HORIZONTAL", "VERTICAL", "BOTH"}[f]
}

// GridConstraint places an element in a legacy grid container.
type GridConstraint struct {
	Weight float64
	Fill   Fill
}

// LayeredConstraint places an element in a layered container. W and H may
// be nil to use the preferred size.
type LayeredConstraint struct {
	Layer      int
	X, Y, W, H *expr.Expr
}

// Unbounded as a maximum means no upper limit.
const Unbounded = element.Unbounded

// Range is a min/pref/max extent along one axis.
type Range struct {
	Min, Pref, Max int
}

// Fixed returns a range with all three values equal to n.
func Fixed(n int) Range {
	return Range{Min: n, Pref: n, Max: n}
}

// Valid reports whether 0 <= Min <= Pref <= Max.
func (r Range) Valid() bool {
	return r.Min >= 0 && r.Min <= r.Pref && r.Pref <= r.Max
}

// Node is an element of a layout tree.
type Node interface {
	measure() (w, h Range)
	place(r image.Rectangle) error
	walk(fn func(Node))
}

// GroupKind selects how a group arranges its children.
type GroupKind int

const (
	// Seq places children one after another, left to right.
	Seq GroupKind = iota
	// Par stacks children top to bottom, sharing the horizontal extent.
	Par
)

func (k GroupKind) String() string {
	if k == Par {
		return "par"
	}
	return "seq"
}

// Axis is the direction along which the group's children follow each other.
func (k GroupKind) Axis() Axis {
	if k == Par {
		return Vertical
	}
	return Horizontal
}

// Group is a sequential or parallel group.
type Group struct {
	Kind     GroupKind
	Children []Node
}

// Leaf places one element. Override replaces the element's own range along
// the enclosing group's axis. Content, if set, is laid out inside the
// element's bounds; it is used for legacy containers.
type Leaf struct {
	Element  *element.Element
	Axis     Axis
	Override *Range
	// Legacy grid cells stretch by Fill and grow by Weight instead of the
	// element's maximum size.
	Legacy  bool
	Weight  float64
	Fill    Fill
	Content Node
}

// Gap is empty space along the enclosing group's axis.
type Gap struct {
	Axis  Axis
	Range Range
}

// Layered positions children by placement expressions.
type Layered struct {
	Children []LayeredChild
}

// LayeredChild is one child of a Layered node.
type LayeredChild struct {
	Element    *element.Element
	Constraint LayeredConstraint
	Content    Node
}

// Elements returns every element referenced by the tree, in tree order.
func Elements(n Node) []*element.Element {
	var out []*element.Element
	n.walk(func(n Node) {
		switch v := n.(type) {
		case *Leaf:
			out = append(out, v.Element)
		case *Layered:
			for _, c := range v.Children {
				out = append(out, c.Element)
			}
		}
	})
	return out
}

// Preferred is the preferred size of the tree.
func Preferred(n Node) image.Point {
	w, h := n.measure()
	return image.Pt(w.Pref, h.Pref)
}

// Minimum is the minimum size of the tree.
func Minimum(n Node) image.Point {
	w, h := n.measure()
	return image.Pt(w.Min, h.Min)
}

// Solve assigns bounds to every element of the tree within r.
func Solve(n Node, r image.Rectangle) error {
	if n == nil {
		return nil
	}
	return n.place(r)
}

// Describe renders the tree structure as nested strings, used by tests and
// the dump command.
func Describe(n Node) any {
	switch v := n.(type) {
	case *Group:
		children := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			children = append(children, Describe(c))
		}
		return map[string]any{v.Kind.String(): children}
	case *Leaf:
		if v.Content != nil {
			return map[string]any{v.Element.Name: Describe(v.Content)}
		}
		return v.Element.Name
	case *Gap:
		return fmt.Sprintf("gap(%d,%d,%d)", v.Range.Min, v.Range.Pref, v.Range.Max)
	case *Layered:
		children := make([]any, 0, len(v.Children))
		for _, c := range v.Children {
			if c.Content != nil {
				children = append(children, map[string]any{c.Element.Name: Describe(c.Content)})
				continue
			}
			children = append(children, c.Element.Name)
		}
		return map[string]any{"layered": children}
	}
	return nil
}
