package element

import (
	"fmt"
	"image"
	"image/color"

	"github.com/oakwood-commons/skinkit/internal/gamestate"
)

// Widget is the kind specific payload of an element. Describe returns the
// attributes shown by the dump and inspect commands.
type Widget interface {
	Describe() map[string]any
}

// Font is a named font handle from the skin's font table.
type Font struct {
	Name string
	Face FontFace
}

// FontFace is the part of a font face the builder needs for text metrics.
type FontFace interface {
	Measure(text string) image.Point
}

func (f *Font) String() string {
	if f == nil {
		return "none"
	}
	return f.Name
}

// Alignment is the horizontal alignment of label text.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "CENTER"
	case AlignRight:
		return "RIGHT"
	}
	return "LEFT"
}

// Orientation is the fill direction of a gauge.
type Orientation int

const (
	OrientWE Orientation = iota
	OrientEW
	OrientNS
	OrientSN
)

func (o Orientation) String() string {
	return [...]string{"WE", "EW", "NS", "SN"}[o]
}

func colorHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Picture shows an image.
type Picture struct {
	Image     string
	Alpha     float64
	ImageSize image.Point
}

func (p *Picture) Describe() map[string]any {
	return map[string]any{"image": p.Image, "alpha": p.Alpha}
}

// Fill paints a solid color.
type Fill struct {
	Color color.NRGBA
}

func (f *Fill) Describe() map[string]any {
	return map[string]any{"color": colorHex(f.Color)}
}

// Label shows static text.
type Label struct {
	Font  *Font
	Color color.NRGBA
	Align Alignment
	Text  string
}

func (l *Label) Describe() map[string]any {
	return map[string]any{"font": l.Font.String(), "color": colorHex(l.Color), "align": l.Align.String(), "text": l.Text}
}

// Button runs a command list when activated.
type Button struct {
	Up, Down    string
	AutoRepeat  bool
	CommandList string
	Text        string
	Font        *Font
	Color       color.NRGBA
}

func (b *Button) Describe() map[string]any {
	return map[string]any{"up": b.Up, "down": b.Down, "auto_repeat": b.AutoRepeat, "commands": b.CommandList, "text": b.Text}
}

// Checkbox mirrors a skin option.
type Checkbox struct {
	Checked, Unchecked string
	Font               *Font
	Color              color.NRGBA
	Option             string
	Text               string
}

func (c *Checkbox) Describe() map[string]any {
	return map[string]any{"option": c.Option, "text": c.Text, "font": c.Font.String()}
}

// Gauge displays a character stat as a bar, optionally with text.
type Gauge struct {
	Full, Negative, Empty string
	Stat                  gamestate.Stat
	Orientation           Orientation
	Font                  *Font
	Color                 color.NRGBA
	Text                  bool
	Value, Max            int
}

func (g *Gauge) Describe() map[string]any {
	return map[string]any{"stat": string(g.Stat), "orientation": g.Orientation.String(), "value": g.Value, "max": g.Max}
}

// Scrollbar scrolls another element.
type Scrollbar struct {
	Proportional bool
	Target       *Element
	Background   color.NRGBA
	Foreground   color.NRGBA
}

func (s *Scrollbar) Describe() map[string]any {
	return map[string]any{"target": s.Target.Name, "proportional": s.Proportional}
}

// QueryText is a single line text input.
type QueryText struct {
	Font          *Font
	ActiveColor   color.NRGBA
	InactiveColor color.NRGBA
	CommandList   string
}

func (q *QueryText) Describe() map[string]any {
	return map[string]any{"font": q.Font.String(), "commands": q.CommandList}
}

// LogLabel is a scrollable message log.
type LogLabel struct {
	Font       *Font
	Color      color.NRGBA
	Background *color.NRGBA
	Lines      []string
}

func (l *LogLabel) Describe() map[string]any {
	return map[string]any{"font": l.Font.String(), "lines": len(l.Lines)}
}

// ItemPainter draws item cells of item lists.
type ItemPainter struct {
	Font     *Font
	Color    color.NRGBA
	Selector string
}

// ItemSource names the observer an item list shows.
type ItemSource string

const (
	SourceInventory ItemSource = "INVENTORY"
	SourceFloor     ItemSource = "FLOOR"
	SourceSpells    ItemSource = "SPELLS"
	SourceSkills    ItemSource = "SKILLS"
)

// ItemList shows a grid of items from an observer.
type ItemList struct {
	Cell        image.Point
	Source      ItemSource
	CommandList string
	Painter     ItemPainter
	Items       []gamestate.Item
}

func (l *ItemList) Describe() map[string]any {
	return map[string]any{"cell": fmt.Sprintf("%dx%d", l.Cell.X, l.Cell.Y), "source": string(l.Source), "items": len(l.Items)}
}

// Columns is the number of item cells per row for the current bounds.
func (l *ItemList) Columns(bounds image.Rectangle) int {
	if l.Cell.X <= 0 {
		return 1
	}
	n := bounds.Dx() / l.Cell.X
	if n < 1 {
		return 1
	}
	return n
}

// MapView shows the tile map.
type MapView struct {
	TileSize int
	Mini     bool
}

func (m *MapView) Describe() map[string]any {
	return map[string]any{"tile_size": m.TileSize, "mini": m.Mini}
}

// Panel is a legacy container that arranges other elements.
type Panel struct {
	Layered bool
	Axis    string
}

func (p *Panel) Describe() map[string]any {
	if p.Layered {
		return map[string]any{"layout": "layered"}
	}
	return map[string]any{"layout": "grid", "axis": p.Axis}
}
