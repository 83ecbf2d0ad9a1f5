package parse

import (
	"fmt"

	"github.com/oakwood-commons/skinkit/internal/expr"
	"github.com/oakwood-commons/skinkit/internal/layout"
)

var orientations = map[string]layout.Axis{
	"HORIZONTAL": layout.Horizontal,
	"VERTICAL":   layout.Vertical,
}

// fills maps fill keywords. CENTER has always meant BOTH in skin files and
// existing skins depend on it.
var fills = map[string]layout.Fill{
	"NONE":       layout.FillNone,
	"HORIZONTAL": layout.FillHorizontal,
	"VERTICAL":   layout.FillVertical,
	"BOTH":       layout.FillBoth,
	"CENTER":     layout.FillBoth,
}

// Orientation parses HORIZONTAL or VERTICAL.
func Orientation(s string) (layout.Axis, error) {
	return Enum("orientation", s, orientations)
}

// Fill parses a grid fill keyword.
func Fill(s string) (layout.Fill, error) {
	return Enum("fill", s, fills)
}

// GridConstraint parses the weight and fill of a legacy grid cell.
func GridConstraint(weight, fill string) (*layout.GridConstraint, error) {
	w, err := Unit("weight", weight)
	if err != nil {
		return nil, err
	}
	f, err := Fill(fill)
	if err != nil {
		return nil, err
	}
	return &layout.GridConstraint{Weight: w, Fill: f}, nil
}

// LayeredConstraint parses the layer and extent expressions of a layered
// cell. w and h may be empty to keep the preferred size.
func LayeredConstraint(layer, x, y, w, h string) (*layout.LayeredConstraint, error) {
	l, err := Layer(layer)
	if err != nil {
		return nil, err
	}
	c := &layout.LayeredConstraint{Layer: l}
	if c.X, err = expr.Compile(x, expr.AxisX); err != nil {
		return nil, err
	}
	if c.Y, err = expr.Compile(y, expr.AxisY); err != nil {
		return nil, err
	}
	if w != "" {
		if c.W, err = expr.Compile(w, expr.AxisX); err != nil {
			return nil, err
		}
	}
	if h != "" {
		if c.H, err = expr.Compile(h, expr.AxisY); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Range parses min, pref and max of a group leaf or gap. max may be "*" for
// unbounded.
func Range(minS, prefS, maxS string) (layout.Range, error) {
	lo, err := Int(minS)
	if err != nil {
		return layout.Range{}, err
	}
	pref, err := Int(prefS)
	if err != nil {
		return layout.Range{}, err
	}
	hi := layout.Unbounded
	if maxS != "*" {
		if hi, err = Int(maxS); err != nil {
			return layout.Range{}, err
		}
	}
	r := layout.Range{Min: lo, Pref: pref, Max: hi}
	if !r.Valid() {
		return layout.Range{}, errInvalidRange(minS, prefS, maxS)
	}
	return r, nil
}

func errInvalidRange(lo, pref, hi string) error {
	return fmt.Errorf("invalid range '%s %s %s': need 0 <= min <= pref <= max", lo, pref, hi)
}
