package layout

import (
	"image"
	"sort"

	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/expr"
)

const unbounded = element.Unbounded

func satAdd(a, b int) int {
	if a >= unbounded || b >= unbounded || a+b >= unbounded {
		return unbounded
	}
	return a + b
}

func pick(w, h Range, a Axis) Range {
	if a == Vertical {
		return h
	}
	return w
}

func ranges(main, cross Range, a Axis) (w, h Range) {
	if a == Vertical {
		return cross, main
	}
	return main, cross
}

func sizeRange(s element.Sizes, a Axis) Range {
	if a == Vertical {
		return Range{Min: s.Min.Y, Pref: s.Pref.Y, Max: s.Max.Y}
	}
	return Range{Min: s.Min.X, Pref: s.Pref.X, Max: s.Max.X}
}

func normalize(r Range) Range {
	if r.Min < 0 {
		r.Min = 0
	}
	if r.Pref < r.Min {
		r.Pref = r.Min
	}
	if r.Max < r.Pref {
		r.Max = r.Pref
	}
	return r
}

func (g *Group) measure() (Range, Range) {
	axis := g.Kind.Axis()
	var main, cross Range
	for _, c := range g.Children {
		w, h := c.measure()
		m := pick(w, h, axis)
		x := pick(w, h, 1-axis)
		main.Min = satAdd(main.Min, m.Min)
		main.Pref = satAdd(main.Pref, m.Pref)
		main.Max = satAdd(main.Max, m.Max)
		cross.Min = max(cross.Min, x.Min)
		cross.Pref = max(cross.Pref, x.Pref)
		cross.Max = max(cross.Max, x.Max)
	}
	return ranges(normalize(main), normalize(cross), axis)
}

func (g *Group) place(r image.Rectangle) error {
	axis := g.Kind.Axis()
	spans := make([]Range, len(g.Children))
	weights := make([]float64, len(g.Children))
	for i, c := range g.Children {
		w, h := c.measure()
		spans[i] = pick(w, h, axis)
		weights[i] = growWeight(c, spans[i])
	}
	total := r.Dx()
	if axis == Vertical {
		total = r.Dy()
	}
	sizes := distribute(total, spans, weights)
	pos := r.Min
	for i, c := range g.Children {
		var cell image.Rectangle
		if axis == Vertical {
			cell = image.Rect(r.Min.X, pos.Y, r.Max.X, pos.Y+sizes[i])
			pos.Y += sizes[i]
		} else {
			cell = image.Rect(pos.X, r.Min.Y, pos.X+sizes[i], r.Max.Y)
			pos.X += sizes[i]
		}
		if err := c.place(cell); err != nil {
			return err
		}
	}
	return nil
}

func (g *Group) walk(fn func(Node)) {
	fn(g)
	for _, c := range g.Children {
		c.walk(fn)
	}
}

// growWeight is the share of surplus space a child receives. Legacy cells
// grow by their weight; everything else by how far it may grow.
func growWeight(n Node, span Range) float64 {
	if l, ok := n.(*Leaf); ok && l.Legacy {
		return l.Weight
	}
	room := span.Max - span.Pref
	if span.Max >= unbounded {
		room = max(span.Pref, 1)
	}
	return float64(room)
}

// distribute splits total among spans. Below the preferred sum each span
// shrinks towards its minimum in proportion to how much it can shrink; above
// it, surplus goes out in proportion to weights, capped at each maximum.
func distribute(total int, spans []Range, weights []float64) []int {
	sizes := make([]int, len(spans))
	sumPref, sumMin := 0, 0
	for i, s := range spans {
		sizes[i] = s.Pref
		sumPref += s.Pref
		sumMin += s.Min
	}
	switch {
	case total == sumPref || len(spans) == 0:
		return sizes
	case total < sumPref:
		if total <= sumMin {
			for i, s := range spans {
				sizes[i] = s.Min
			}
			return sizes
		}
		deficit := sumPref - total
		shrinkable := sumPref - sumMin
		given := 0
		for i, s := range spans {
			d := deficit * (s.Pref - s.Min) / shrinkable
			sizes[i] = s.Pref - d
			given += d
		}
		for rest := deficit - given; rest > 0; rest-- {
			for i := len(spans) - 1; i >= 0; i-- {
				if sizes[i] > spans[i].Min {
					sizes[i]--
					break
				}
			}
		}
		return sizes
	}
	surplus := total - sumPref
	for surplus > 0 {
		sumW := 0.0
		for i, s := range spans {
			if sizes[i] < s.Max {
				sumW += weights[i]
			}
		}
		if sumW <= 0 {
			break
		}
		given := 0
		for i, s := range spans {
			if sizes[i] >= s.Max || weights[i] <= 0 {
				continue
			}
			d := int(float64(surplus) * weights[i] / sumW)
			if d > s.Max-sizes[i] {
				d = s.Max - sizes[i]
			}
			sizes[i] += d
			given += d
		}
		if given == 0 {
			// Rounding left less than one pixel per child: hand out the
			// remainder one by one from the last growable child backwards.
			for i := len(spans) - 1; i >= 0 && surplus > 0; i-- {
				if sizes[i] < spans[i].Max && weights[i] > 0 {
					sizes[i]++
					surplus--
				}
			}
			break
		}
		surplus -= given
	}
	return sizes
}

func (l *Leaf) ranges() (Range, Range) {
	var w, h Range
	if l.Content != nil {
		w, h = l.Content.measure()
		l.Element.Sizes = element.Sizes{
			Min:  image.Pt(w.Min, h.Min),
			Pref: image.Pt(w.Pref, h.Pref),
			Max:  image.Pt(w.Max, h.Max),
		}
	} else {
		w = sizeRange(l.Element.Sizes, Horizontal)
		h = sizeRange(l.Element.Sizes, Vertical)
	}
	if l.Legacy {
		// A grid cell with weight grows without bound along the axis; one
		// without keeps its preferred size.
		main := pick(w, h, l.Axis)
		if l.Weight > 0 {
			main.Max = unbounded
		} else if !l.Fill.Includes(l.Axis) {
			main.Max = main.Pref
		}
		cross := pick(w, h, 1-l.Axis)
		if l.Fill.Includes(1 - l.Axis) {
			cross.Max = unbounded
		}
		w, h = ranges(main, cross, l.Axis)
	}
	if l.Override != nil {
		w, h = ranges(*l.Override, pick(w, h, 1-l.Axis), l.Axis)
	}
	return normalize(w), normalize(h)
}

func (l *Leaf) measure() (Range, Range) {
	return l.ranges()
}

func (l *Leaf) place(cell image.Rectangle) error {
	w, h := l.ranges()
	var bw, bh int
	if l.Legacy {
		bw = legacyExtent(cell.Dx(), w, l.Fill.Includes(Horizontal))
		bh = legacyExtent(cell.Dy(), h, l.Fill.Includes(Vertical))
	} else {
		bw = min(cell.Dx(), w.Max)
		bh = min(cell.Dy(), h.Max)
	}
	x := cell.Min.X + (cell.Dx()-bw)/2
	y := cell.Min.Y + (cell.Dy()-bh)/2
	l.Element.Bounds = image.Rect(x, y, x+bw, y+bh)
	if l.Content != nil {
		return l.Content.place(l.Element.Bounds)
	}
	return nil
}

func legacyExtent(cell int, r Range, fill bool) int {
	if fill {
		return cell
	}
	return min(cell, r.Pref)
}

func (l *Leaf) walk(fn func(Node)) {
	fn(l)
	if l.Content != nil {
		l.Content.walk(fn)
	}
}

func (g *Gap) measure() (Range, Range) {
	return ranges(g.Range, Range{}, g.Axis)
}

func (g *Gap) place(image.Rectangle) error {
	return nil
}

func (g *Gap) walk(fn func(Node)) {
	fn(g)
}

func (l *Layered) measure() (Range, Range) {
	var pw, ph int
	for _, c := range l.Children {
		if c.Content != nil {
			p := Preferred(c.Content)
			c.Element.Sizes.Pref = p
		}
		r, err := c.rect(image.Rect(0, 0, 0, 0))
		if err != nil {
			continue
		}
		pw = max(pw, abs(r.Max.X))
		ph = max(ph, abs(r.Max.Y))
	}
	return Range{Pref: pw, Max: unbounded}, Range{Pref: ph, Max: unbounded}
}

func (c *LayeredChild) rect(parent image.Rectangle) (image.Rectangle, error) {
	pref := c.Element.Sizes.Pref
	vars := expr.Vars{
		Width:      parent.Dx(),
		Height:     parent.Dy(),
		PrefWidth:  pref.X,
		PrefHeight: pref.Y,
	}
	x, err := c.Constraint.X.Eval(vars)
	if err != nil {
		return image.Rectangle{}, err
	}
	y, err := c.Constraint.Y.Eval(vars)
	if err != nil {
		return image.Rectangle{}, err
	}
	w, h := pref.X, pref.Y
	if c.Constraint.W != nil {
		if w, err = c.Constraint.W.Eval(vars); err != nil {
			return image.Rectangle{}, err
		}
	}
	if c.Constraint.H != nil {
		if h, err = c.Constraint.H.Eval(vars); err != nil {
			return image.Rectangle{}, err
		}
	}
	origin := parent.Min.Add(image.Pt(x, y))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(max(w, 0), max(h, 0)))}, nil
}

func (l *Layered) place(r image.Rectangle) error {
	// Lower layers first so that tree order is paint order.
	sort.SliceStable(l.Children, func(i, j int) bool {
		return l.Children[i].Constraint.Layer < l.Children[j].Constraint.Layer
	})
	for i := range l.Children {
		c := &l.Children[i]
		b, err := c.rect(r)
		if err != nil {
			return err
		}
		c.Element.Bounds = b
		c.Element.Layer = c.Constraint.Layer
		if c.Content != nil {
			if err := c.Content.place(b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Layered) walk(fn func(Node)) {
	fn(l)
	for _, c := range l.Children {
		if c.Content != nil {
			c.Content.walk(fn)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
