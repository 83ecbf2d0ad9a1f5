package layout

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/expr"
)

func fixedElement(name string, w, h int) *element.Element {
	return element.New(name, element.KindPicture, 0, element.Fixed(image.Pt(w, h)), nil)
}

func flexElement(name string, w, h int) *element.Element {
	return element.New(name, element.KindFill, 0, element.Flexible(image.Pt(w, h)), nil)
}

func TestSeqPlacesLeftToRight(t *testing.T) {
	a := fixedElement("a", 10, 20)
	b := fixedElement("b", 30, 10)
	root := &Group{Kind: Seq, Children: []Node{
		&Leaf{Element: a, Axis: Horizontal},
		&Gap{Axis: Horizontal, Range: Fixed(5)},
		&Leaf{Element: b, Axis: Horizontal},
	}}

	assert.Equal(t, image.Pt(45, 20), Preferred(root))
	require.NoError(t, Solve(root, image.Rect(0, 0, 45, 20)))
	assert.Equal(t, image.Rect(0, 0, 10, 20), a.Bounds)
	assert.Equal(t, image.Rect(15, 5, 45, 15), b.Bounds, "cross axis centered at max size")
}

func TestParStacksTopToBottom(t *testing.T) {
	a := fixedElement("a", 10, 20)
	b := flexElement("b", 30, 10)
	root := &Group{Kind: Par, Children: []Node{
		&Leaf{Element: a, Axis: Vertical},
		&Leaf{Element: b, Axis: Vertical},
	}}

	assert.Equal(t, image.Pt(30, 30), Preferred(root))
	require.NoError(t, Solve(root, image.Rect(0, 0, 100, 50)))
	assert.Equal(t, image.Rect(45, 0, 55, 20), a.Bounds)
	assert.Equal(t, image.Rect(0, 20, 100, 50), b.Bounds, "flexible element takes the surplus")
}

func TestNestedGroupsPreserveStructure(t *testing.T) {
	a, b, c := fixedElement("a", 10, 10), fixedElement("b", 10, 10), fixedElement("c", 10, 10)
	root := &Group{Kind: Seq, Children: []Node{
		&Leaf{Element: a, Axis: Horizontal},
		&Group{Kind: Par, Children: []Node{
			&Leaf{Element: b, Axis: Vertical},
			&Leaf{Element: c, Axis: Vertical},
		}},
	}}
	assert.Equal(t, map[string]any{"seq": []any{"a", map[string]any{"par": []any{"b", "c"}}}}, Describe(root))
	assert.Equal(t, image.Pt(20, 20), Preferred(root))

	require.NoError(t, Solve(root, image.Rect(0, 0, 20, 20)))
	assert.Equal(t, image.Rect(0, 5, 10, 15), a.Bounds)
	assert.Equal(t, image.Rect(10, 0, 20, 10), b.Bounds)
	assert.Equal(t, image.Rect(10, 10, 20, 20), c.Bounds)

	names := []string{}
	for _, e := range Elements(root) {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestOverrideRange(t *testing.T) {
	a := fixedElement("a", 10, 10)
	root := &Group{Kind: Seq, Children: []Node{
		&Leaf{Element: a, Axis: Horizontal, Override: &Range{Min: 5, Pref: 40, Max: Unbounded}},
	}}
	assert.Equal(t, image.Pt(40, 10), Preferred(root))
	require.NoError(t, Solve(root, image.Rect(0, 0, 100, 10)))
	assert.Equal(t, 100, a.Bounds.Dx())
}

func TestDistribute(t *testing.T) {
	tests := []struct {
		name    string
		total   int
		spans   []Range
		weights []float64
		want    []int
	}{
		{name: "exact", total: 30, spans: []Range{{0, 10, 10}, {0, 20, 20}}, weights: []float64{0, 0}, want: []int{10, 20}},
		{name: "shrink proportional", total: 20, spans: []Range{{0, 10, 10}, {10, 20, 20}}, weights: []float64{0, 0}, want: []int{5, 15}},
		{name: "below minimum", total: 1, spans: []Range{{4, 10, 10}, {2, 20, 20}}, weights: []float64{0, 0}, want: []int{4, 2}},
		{name: "grow by weight", total: 40, spans: []Range{{0, 10, Unbounded}, {0, 10, Unbounded}}, weights: []float64{1, 3}, want: []int{15, 25}},
		{name: "grow capped", total: 40, spans: []Range{{0, 10, 12}, {0, 10, Unbounded}}, weights: []float64{1, 1}, want: []int{12, 28}},
		{name: "nothing grows", total: 40, spans: []Range{{0, 10, 10}}, weights: []float64{0}, want: []int{10}},
		{name: "rounding remainder", total: 13, spans: []Range{{0, 0, Unbounded}, {0, 0, Unbounded}, {0, 0, Unbounded}}, weights: []float64{1, 1, 1}, want: []int{4, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, distribute(tt.total, tt.spans, tt.weights))
		})
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Use("a"))
	err := tr.Use("a")
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "more than once")

	require.NoError(t, tr.Use("c"))
	err = tr.Check([]string{"a", "b", "c", "d"})
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Contains(t, err.Error(), "doesn't define elements {b, d}")
	require.NoError(t, tr.Check([]string{"a", "c"}))
}

func grid(name string) AddEntry {
	return AddEntry{Name: name, Grid: &GridConstraint{}}
}

func TestAddListWildcardOrder(t *testing.T) {
	registry := []string{"A", "B", "C", "D", "E"}
	orders := [][]AddEntry{
		{grid("A"), grid(Wildcard), grid("E")},
	}
	for _, adds := range orders {
		l := NewAddList()
		for _, e := range adds {
			require.NoError(t, l.Add(e))
		}
		got := []string{}
		for _, e := range l.Order(registry, nil) {
			got = append(got, e.Name)
		}
		assert.Equal(t, []string{"A", "B", "C", "D", "E"}, got)
	}
}

func TestAddListWildcardPhases(t *testing.T) {
	registry := []string{"A", "B", "C", "D", "E", "F"}
	l := NewAddList()
	for _, n := range []string{"F", "B", Wildcard, "A"} {
		require.NoError(t, l.Add(grid(n)))
	}
	var got []string
	for _, e := range l.Order(registry, func(n string) bool { return n == "D" }) {
		got = append(got, e.Name)
	}
	assert.Equal(t, []string{"F", "B", "C", "E", "A"}, got)
	assert.Equal(t, []string{"F", "B", "A"}, l.Names())
}

func TestAddListDuplicateWildcard(t *testing.T) {
	l := NewAddList()
	require.NoError(t, l.Add(grid(Wildcard)))
	require.NoError(t, l.Add(grid("x")))
	err := l.Add(grid(Wildcard))
	require.ErrorIs(t, err, ErrDuplicateWildcard)
	assert.Equal(t, "duplicate '*'", err.Error())
}

func TestTranslateGridIndices(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(fmt.Sprintf("%d elements", n), func(t *testing.T) {
			els := map[string]*element.Element{}
			var entries []AddEntry
			for i := 0; i < n; i++ {
				name := fmt.Sprintf("e%d", i)
				els[name] = fixedElement(name, 10, 10)
				entries = append(entries, AddEntry{Name: name, Grid: &GridConstraint{Weight: float64(n-i) / 10, Fill: FillBoth}})
			}
			containers := map[string]*Container{"": {Axis: Horizontal}}
			lookup := func(s string) (*element.Element, error) { return els[s], nil }
			root, err := Translate(entries, containers, lookup, NewTracker())
			require.NoError(t, err)
			for i := 0; i < n; i++ {
				assert.Equal(t, i, els[fmt.Sprintf("e%d", i)].GridIndex)
			}
			require.NoError(t, Solve(root, image.Rect(0, 0, 10*n, 10)))
			for i := 0; i < n; i++ {
				assert.Equal(t, 10*i, els[fmt.Sprintf("e%d", i)].Bounds.Min.X)
			}
		})
	}
}

func TestTranslateNestedPanels(t *testing.T) {
	panel := element.New("panel", element.KindPanel, element.Container, element.Sizes{}, nil)
	a, b, c := fixedElement("a", 10, 10), fixedElement("b", 20, 10), fixedElement("c", 5, 5)
	els := map[string]*element.Element{"panel": panel, "a": a, "b": b, "c": c}
	containers := map[string]*Container{
		"":      {Axis: Vertical},
		"panel": {Element: panel, Axis: Horizontal},
	}
	entries := []AddEntry{
		{Container: "panel", Name: "a", Grid: &GridConstraint{}},
		{Container: "", Name: "panel", Grid: &GridConstraint{Weight: 1, Fill: FillBoth}},
		{Container: "panel", Name: "b", Grid: &GridConstraint{}},
		{Container: "", Name: "c", Grid: &GridConstraint{}},
	}
	tr := NewTracker()
	root, err := Translate(entries, containers, func(s string) (*element.Element, error) { return els[s], nil }, tr)
	require.NoError(t, err)
	require.NoError(t, tr.Check([]string{"panel", "a", "b", "c"}))
	assert.Equal(t, map[string]any{"par": []any{map[string]any{"panel": map[string]any{"seq": []any{"a", "b"}}}, "c"}}, Describe(root))

	assert.Equal(t, image.Pt(30, 15), Preferred(root))
	require.NoError(t, Solve(root, image.Rect(0, 0, 30, 15)))
	assert.Equal(t, image.Rect(0, 0, 30, 10), panel.Bounds)
	assert.Equal(t, image.Rect(0, 0, 10, 10), a.Bounds)
	assert.Equal(t, image.Rect(10, 0, 30, 10), b.Bounds)
	assert.Equal(t, 0, a.GridIndex)
	assert.Equal(t, 1, b.GridIndex)
}

func TestTranslateSelfContainment(t *testing.T) {
	panel := element.New("p", element.KindPanel, element.Container, element.Sizes{}, nil)
	containers := map[string]*Container{"": {}, "p": {Element: panel}}
	entries := []AddEntry{
		{Container: "", Name: "p", Grid: &GridConstraint{}},
		{Container: "p", Name: "p", Grid: &GridConstraint{}},
	}
	_, err := Translate(entries, containers, func(string) (*element.Element, error) { return panel, nil }, NewTracker())
	require.Error(t, err)
}

func TestTranslateConstraintShapeMismatch(t *testing.T) {
	a := fixedElement("a", 1, 1)
	lookup := func(string) (*element.Element, error) { return a, nil }

	_, err := Translate([]AddEntry{{Name: "a", Layered: &LayeredConstraint{}}},
		map[string]*Container{"": {}}, lookup, NewTracker())
	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.NotErrorIs(t, err, ErrIncomplete)

	_, err = Translate([]AddEntry{{Name: "a", Grid: &GridConstraint{}}},
		map[string]*Container{"": {Layered: true}}, lookup, NewTracker())
	require.True(t, errors.As(err, &inv))
}

func TestLayeredPlacement(t *testing.T) {
	bg := fixedElement("bg", 100, 100)
	btn := fixedElement("btn", 20, 10)
	mustExpr := func(s string, a expr.Axis) *expr.Expr {
		x, err := expr.Compile(s, a)
		require.NoError(t, err)
		return x
	}
	root := &Layered{Children: []LayeredChild{
		{Element: btn, Constraint: LayeredConstraint{Layer: 5, X: mustExpr("WIDTH-PREF_WIDTH", expr.AxisX), Y: mustExpr("50%", expr.AxisY)}},
		{Element: bg, Constraint: LayeredConstraint{Layer: 0, X: expr.Constant(0), Y: expr.Constant(0), W: mustExpr("WIDTH", expr.AxisX), H: mustExpr("HEIGHT", expr.AxisY)}},
	}}
	require.NoError(t, Solve(root, image.Rect(10, 10, 210, 110)))
	assert.Equal(t, image.Rect(10, 10, 210, 110), bg.Bounds)
	assert.Equal(t, image.Rect(190, 60, 210, 70), btn.Bounds)
	assert.Equal(t, 5, btn.Layer)
	assert.Equal(t, "bg", root.Children[0].Element.Name, "children sorted by layer")
}
