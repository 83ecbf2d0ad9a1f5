package skin

import (
	"errors"
	"fmt"
	"image"

	"github.com/oakwood-commons/skinkit/internal/args"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/layout"
	"github.com/oakwood-commons/skinkit/internal/parse"
)

const (
	// defaultGap is the preferred size of a "gap" line without sizes; it
	// may grow.
	defaultGap = 6
	// borderGap is the fixed size of a "border_gap" line.
	borderGap = 10
)

var groupKinds = map[string]layout.GroupKind{
	"SEQ": layout.Seq,
	"PAR": layout.Par,
}

var errMixedLayout = errors.New("cannot mix 'add' with 'begin seq|par' layout")

// groupNode is a "begin seq|par" block. Children are *groupNode or
// groupLeaf values.
type groupNode struct {
	kind     layout.GroupKind
	children []any
}

// groupLeaf is an element or gap line inside a group block.
type groupLeaf struct {
	element  *element.Element
	override *layout.Range
	gap      *layout.Range
}

func cmdLayout(c *ParseContext, a *args.Args) error {
	s, err := a.Get()
	if err != nil {
		return err
	}
	if c.layoutSet {
		return errors.New("layout already set")
	}
	if c.adds.Len() > 0 {
		return errors.New("'layout' must precede 'add'")
	}
	root := c.containers[""]
	switch s {
	case "grid":
		o, err := a.Get()
		if err != nil {
			return err
		}
		if root.Axis, err = parse.Orientation(o); err != nil {
			return err
		}
	case "layered":
		root.Layered = true
	default:
		return fmt.Errorf("invalid layout '%s' (valid: grid, layered)", s)
	}
	c.layoutSet = true
	return nil
}

func cmdBegin(c *ParseContext, a *args.Args) error {
	s, err := a.Get()
	if err != nil {
		return err
	}
	if s == "panel" {
		return beginPanel(c, a)
	}
	kind, err := parse.Enum("block", s, groupKinds)
	if err != nil {
		return err
	}
	if c.root != nil {
		return errors.New("group layout already defined")
	}
	if c.adds.Len() > 0 || len(c.panels) > 0 {
		return errMixedLayout
	}
	c.groups = append(c.groups, &groupNode{kind: kind})
	return nil
}

func beginPanel(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	mode, err := a.Get()
	if err != nil {
		return err
	}
	ct := &layout.Container{}
	p := &element.Panel{}
	switch mode {
	case "grid":
		o, err := a.Get()
		if err != nil {
			return err
		}
		if ct.Axis, err = parse.Orientation(o); err != nil {
			return err
		}
		p.Axis = ct.Axis.String()
	case "layered":
		ct.Layered = true
		p.Layered = true
	default:
		return fmt.Errorf("invalid panel layout '%s' (valid: grid, layered)", mode)
	}
	if c.root != nil {
		return errMixedLayout
	}
	e := element.New(name, element.KindPanel, element.Container, element.Flexible(image.Point{}), p)
	if err := c.addElement(e); err != nil {
		return err
	}
	ct.Element = e
	c.containers[name] = ct
	c.panels = append(c.panels, name)
	return nil
}

func cmdEnd(c *ParseContext, a *args.Args) error {
	if !a.HasMore() {
		return errors.New("'end' without 'begin'")
	}
	name, err := a.Get()
	if err != nil {
		return err
	}
	n := len(c.panels)
	if n == 0 {
		return fmt.Errorf("'end %s' without 'begin panel'", name)
	}
	if c.panels[n-1] != name {
		return fmt.Errorf("'end %s' does not match 'begin panel %s'", name, c.panels[n-1])
	}
	c.panels = c.panels[:n-1]
	return nil
}

func cmdAdd(c *ParseContext, a *args.Args) error {
	if c.root != nil {
		return errMixedLayout
	}
	name, err := a.Get()
	if err != nil {
		return err
	}
	if name != layout.Wildcard {
		if _, err := c.element(name); err != nil {
			return err
		}
	}
	entry := layout.AddEntry{Name: name}
	if n := len(c.panels); n > 0 {
		entry.Container = c.panels[n-1]
		if entry.Container == name {
			return fmt.Errorf("panel '%s' cannot contain itself", name)
		}
	}
	if c.containers[entry.Container].Layered {
		entry.Layered, err = layeredConstraint(a)
	} else {
		entry.Grid, err = gridConstraint(a)
	}
	if err != nil {
		return err
	}
	return c.adds.Add(entry)
}

func gridConstraint(a *args.Args) (*layout.GridConstraint, error) {
	weight, err := a.Get()
	if err != nil {
		return nil, err
	}
	fill, err := a.Get()
	if err != nil {
		return nil, err
	}
	return parse.GridConstraint(weight, fill)
}

func layeredConstraint(a *args.Args) (*layout.LayeredConstraint, error) {
	var f [3]string
	for i := range f {
		s, err := a.Get()
		if err != nil {
			return nil, err
		}
		f[i] = s
	}
	var w, h string
	if a.HasMore() {
		w, _ = a.Get()
		var err error
		if h, err = a.Get(); err != nil {
			return nil, err
		}
	}
	return parse.LayeredConstraint(f[0], f[1], f[2], w, h)
}

// groupLine handles a line inside a "begin seq|par" block: a nested block,
// its end, a gap or an element leaf.
func (c *ParseContext) groupLine(kw string, a *args.Args) error {
	top := c.groups[len(c.groups)-1]
	switch kw {
	case "begin":
		s, err := a.Get()
		if err != nil {
			return err
		}
		kind, err := parse.Enum("block", s, groupKinds)
		if err != nil {
			return err
		}
		g := &groupNode{kind: kind}
		top.children = append(top.children, g)
		c.groups = append(c.groups, g)
	case "end":
		c.groups = c.groups[:len(c.groups)-1]
		if len(c.groups) == 0 {
			c.root = top
		}
	case "gap":
		r, err := gapRange(a)
		if err != nil {
			return err
		}
		top.children = append(top.children, groupLeaf{gap: &r})
	case "border_gap":
		r := layout.Fixed(borderGap)
		top.children = append(top.children, groupLeaf{gap: &r})
	default:
		e, err := c.element(kw)
		if err != nil {
			return err
		}
		leaf := groupLeaf{element: e}
		if a.HasMore() {
			r, err := rangeArgs(a)
			if err != nil {
				return err
			}
			leaf.override = &r
		}
		top.children = append(top.children, leaf)
	}
	return nil
}

func gapRange(a *args.Args) (layout.Range, error) {
	switch a.Len() {
	case 1:
		return layout.Range{Pref: defaultGap, Max: layout.Unbounded}, nil
	case 2:
		n, err := a.Get()
		if err != nil {
			return layout.Range{}, err
		}
		size, err := parse.Int(n)
		if err != nil {
			return layout.Range{}, err
		}
		if size < 0 {
			return layout.Range{}, fmt.Errorf("invalid gap size %d", size)
		}
		return layout.Fixed(size), nil
	}
	return rangeArgs(a)
}

func rangeArgs(a *args.Args) (layout.Range, error) {
	var f [3]string
	for i := range f {
		s, err := a.Get()
		if err != nil {
			return layout.Range{}, err
		}
		f[i] = s
	}
	return parse.Range(f[0], f[1], f[2])
}

// buildLayout turns the group block or the add lines into the dialog's
// layout tree and checks that every element not ignored is laid out
// exactly once.
func (c *ParseContext) buildLayout() error {
	t := layout.NewTracker()
	var root layout.Node
	var err error
	if c.root != nil {
		root, err = buildGroup(c.root, t)
	} else {
		entries := c.adds.Order(c.elements.Names(), func(name string) bool {
			e, err := c.element(name)
			return err != nil || e.Ignored
		})
		root, err = layout.Translate(entries, c.containers, c.element, t)
	}
	if err != nil {
		return err
	}
	var required []string
	for _, e := range c.elements.Values() {
		if !e.Ignored {
			required = append(required, e.Name)
		}
	}
	if err := t.Check(required); err != nil {
		return err
	}
	c.dialog.Root = root
	return nil
}

func buildGroup(g *groupNode, t *layout.Tracker) (layout.Node, error) {
	axis := g.kind.Axis()
	out := &layout.Group{Kind: g.kind}
	for _, ch := range g.children {
		switch v := ch.(type) {
		case *groupNode:
			n, err := buildGroup(v, t)
			if err != nil {
				return nil, err
			}
			out.Children = append(out.Children, n)
		case groupLeaf:
			if v.gap != nil {
				out.Children = append(out.Children, &layout.Gap{Axis: axis, Range: *v.gap})
				continue
			}
			if err := t.Use(v.element.Name); err != nil {
				return nil, err
			}
			out.Children = append(out.Children, &layout.Leaf{Element: v.element, Axis: axis, Override: v.override})
		}
	}
	return out, nil
}
