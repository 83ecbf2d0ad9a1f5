package skin

import (
	"fmt"
	"image"

	"github.com/oakwood-commons/skinkit/internal/args"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/gamestate"
	"github.com/oakwood-commons/skinkit/internal/parse"
)

var elementCommands = map[string]commandFunc{
	"picture":        cmdPicture,
	"fill":           cmdFill,
	"label_text":     cmdLabelText,
	"button":         cmdButton,
	"textbutton":     cmdTextButton,
	"checkbox":       cmdCheckbox,
	"gauge":          cmdGauge,
	"textgauge":      cmdTextGauge,
	"scrollbar":      cmdScrollbar,
	"query_text":     cmdQueryText,
	"log_label":      cmdLogLabel,
	"inventory_list": cmdInventoryList,
	"spell_list":     cmdSpellList,
	"skill_list":     cmdSkillList,
	"map":            cmdMap,
	"minimap":        cmdMinimap,
}

var alignments = map[string]element.Alignment{
	"LEFT":   element.AlignLeft,
	"CENTER": element.AlignCenter,
	"RIGHT":  element.AlignRight,
}

var orientations = map[string]element.Orientation{
	"WE": element.OrientWE,
	"EW": element.OrientEW,
	"NS": element.OrientNS,
	"SN": element.OrientSN,
}

var itemSources = map[string]element.ItemSource{
	"INVENTORY": element.SourceInventory,
	"FLOOR":     element.SourceFloor,
}

// textPadding surrounds the text of text buttons.
var textPadding = image.Pt(16, 8)

// mapTiles is the preferred map extent in tiles.
const mapTiles = 11

func cmdPicture(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	img, size, err := c.image(a)
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	alpha, err := parse.Alpha(s)
	if err != nil {
		return err
	}
	w := &element.Picture{Image: img, Alpha: alpha, ImageSize: size}
	return c.addElement(element.New(name, element.KindPicture, 0, element.Fixed(size), w))
}

func cmdFill(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	col, err := c.color(a)
	if err != nil {
		return err
	}
	return c.addElement(element.New(name, element.KindFill, 0, element.Flexible(image.Point{}), &element.Fill{Color: col}))
}

func cmdLabelText(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	f, err := c.font(a)
	if err != nil {
		return err
	}
	col, err := c.color(a)
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	align, err := parse.Enum("alignment", s, alignments)
	if err != nil {
		return err
	}
	text, err := c.text(a)
	if err != nil {
		return err
	}
	size := f.Face.Measure(text)
	sizes := element.Sizes{Min: size, Pref: size, Max: image.Pt(element.Unbounded, size.Y)}
	w := &element.Label{Font: f, Color: col, Align: align, Text: text}
	return c.addElement(element.New(name, element.KindLabel, 0, sizes, w))
}

func cmdButton(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	up, size, err := c.image(a)
	if err != nil {
		return err
	}
	down, _, err := c.image(a)
	if err != nil {
		return err
	}
	repeat, err := c.boolean(a)
	if err != nil {
		return err
	}
	l, err := c.commandList(a)
	if err != nil {
		return err
	}
	text, err := c.text(a)
	if err != nil {
		return err
	}
	w := &element.Button{Up: up, Down: down, AutoRepeat: repeat, CommandList: l.Name, Text: text}
	return c.addElement(element.New(name, element.KindButton, element.Activatable, element.Fixed(size), w))
}

func cmdTextButton(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	def := c.defs.textButton
	if def == nil {
		return missingDef("textbutton")
	}
	repeat, err := c.boolean(a)
	if err != nil {
		return err
	}
	l, err := c.commandList(a)
	if err != nil {
		return err
	}
	text, err := c.text(a)
	if err != nil {
		return err
	}
	size := def.Font.Face.Measure(text).Add(textPadding)
	sizes := element.Sizes{Min: size, Pref: size, Max: image.Pt(element.Unbounded, size.Y)}
	w := &element.Button{
		Up: def.Up, Down: def.Down, AutoRepeat: repeat, CommandList: l.Name,
		Text: text, Font: def.Font, Color: def.Color,
	}
	return c.addElement(element.New(name, element.KindTextButton, element.Activatable, sizes, w))
}

func cmdCheckbox(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	def := c.defs.checkbox
	if def == nil {
		return missingDef("checkbox")
	}
	option, err := a.Get()
	if err != nil {
		return err
	}
	if _, err := c.skin.options.Lookup(option); err != nil {
		return err
	}
	text, err := c.text(a)
	if err != nil {
		return err
	}
	img, err := c.skin.res.Image(c.ctx, def.Checked)
	if err != nil {
		return err
	}
	box := img.Bounds().Size()
	t := def.Font.Face.Measure(text)
	size := image.Pt(box.X+4+t.X, max(box.Y, t.Y))
	w := &element.Checkbox{
		Checked: def.Checked, Unchecked: def.Unchecked, Font: def.Font, Color: def.Color,
		Option: option, Text: text,
	}
	e := element.New(name, element.KindCheckbox, element.Activatable|element.Selectable, element.Fixed(size), w)
	e.Selected = c.skin.Option(option)
	return c.addElement(e)
}

func cmdGauge(c *ParseContext, a *args.Args) error {
	return gauge(c, a, false)
}

func cmdTextGauge(c *ParseContext, a *args.Args) error {
	return gauge(c, a, true)
}

func gauge(c *ParseContext, a *args.Args, withText bool) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	full, size, err := c.image(a)
	if err != nil {
		return err
	}
	neg, _, err := c.optImage(a)
	if err != nil {
		return err
	}
	empty, _, err := c.optImage(a)
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	stat, err := gamestate.ParseStat(s)
	if err != nil {
		return err
	}
	if s, err = a.Get(); err != nil {
		return err
	}
	orient, err := parse.Enum("orientation", s, orientations)
	if err != nil {
		return err
	}
	w := &element.Gauge{Full: full, Negative: neg, Empty: empty, Stat: stat, Orientation: orient, Text: withText}
	kind := element.KindGauge
	if withText {
		kind = element.KindTextGauge
		if w.Color, err = c.color(a); err != nil {
			return err
		}
		if w.Font, err = c.font(a); err != nil {
			return err
		}
	}
	text, err := c.text(a)
	if err != nil {
		return err
	}
	stats := c.skin.src.Observers.Stats
	if stats == nil {
		return fmt.Errorf("gauge '%s' needs a stats observer", name)
	}
	e := element.New(name, kind, 0, element.Fixed(size), w)
	e.Tooltip = tooltip(text)
	if err := c.addElement(e); err != nil {
		return err
	}
	w.Value, w.Max = stats.Stat(stat)
	e.OnRelease(stats.SubscribeStats(func(s gamestate.Stat) {
		if s == stat {
			w.Value, w.Max = stats.Stat(stat)
		}
	}))
	return nil
}

func cmdScrollbar(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	prop, err := c.boolean(a)
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	target, err := c.element(s)
	if err != nil {
		return err
	}
	if err := element.Require(target, element.Scrollable); err != nil {
		return err
	}
	bg, err := c.color(a)
	if err != nil {
		return err
	}
	fg, err := c.color(a)
	if err != nil {
		return err
	}
	sizes := element.Sizes{Min: image.Pt(8, 8), Pref: image.Pt(16, 64), Max: image.Pt(16, element.Unbounded)}
	w := &element.Scrollbar{Proportional: prop, Target: target, Background: bg, Foreground: fg}
	return c.addElement(element.New(name, element.KindScrollbar, 0, sizes, w))
}

func cmdQueryText(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	f, err := c.font(a)
	if err != nil {
		return err
	}
	active, err := c.color(a)
	if err != nil {
		return err
	}
	inactive, err := c.color(a)
	if err != nil {
		return err
	}
	l, err := c.commandList(a)
	if err != nil {
		return err
	}
	m := f.Face.Measure("W")
	sizes := element.Sizes{Min: m, Pref: image.Pt(m.X*20, m.Y), Max: image.Pt(element.Unbounded, m.Y)}
	w := &element.QueryText{Font: f, ActiveColor: active, InactiveColor: inactive, CommandList: l.Name}
	return c.addElement(element.New(name, element.KindQueryText, element.TextInput|element.Activatable, sizes, w))
}

func cmdLogLabel(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	f, err := c.font(a)
	if err != nil {
		return err
	}
	col, err := c.color(a)
	if err != nil {
		return err
	}
	bg, err := c.optColor(a)
	if err != nil {
		return err
	}
	m := f.Face.Measure("W")
	w := &element.LogLabel{Font: f, Color: col, Background: bg}
	return c.addElement(element.New(name, element.KindLogLabel, element.Scrollable, element.Flexible(image.Pt(m.X*40, m.Y*5)), w))
}

func cmdInventoryList(c *ParseContext, a *args.Args) error {
	return itemList(c, a, func(a *args.Args) (element.ItemSource, error) {
		s, err := a.Get()
		if err != nil {
			return "", err
		}
		return parse.Enum("item source", s, itemSources)
	})
}

func cmdSpellList(c *ParseContext, a *args.Args) error {
	return itemList(c, a, fixedSource(element.SourceSpells))
}

func cmdSkillList(c *ParseContext, a *args.Args) error {
	return itemList(c, a, fixedSource(element.SourceSkills))
}

func fixedSource(src element.ItemSource) func(*args.Args) (element.ItemSource, error) {
	return func(*args.Args) (element.ItemSource, error) { return src, nil }
}

func (c *ParseContext) items(src element.ItemSource) gamestate.Items {
	obs := c.skin.src.Observers
	switch src {
	case element.SourceInventory:
		return obs.Inventory
	case element.SourceFloor:
		return obs.Floor
	case element.SourceSpells:
		return obs.Spells
	case element.SourceSkills:
		return obs.Skills
	}
	return nil
}

func itemList(c *ParseContext, a *args.Args, source func(*args.Args) (element.ItemSource, error)) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	painter := c.defs.item
	if painter == nil {
		return missingDef("item")
	}
	var cell image.Point
	if cell.X, err = c.integer(a); err != nil {
		return err
	}
	if cell.Y, err = c.integer(a); err != nil {
		return err
	}
	if cell.X <= 0 || cell.Y <= 0 {
		return fmt.Errorf("invalid cell size %dx%d", cell.X, cell.Y)
	}
	src, err := source(a)
	if err != nil {
		return err
	}
	l, err := c.optCommandList(a)
	if err != nil {
		return err
	}
	items := c.items(src)
	if items == nil {
		return fmt.Errorf("item list '%s' needs a %s observer", name, src)
	}
	w := &element.ItemList{Cell: cell, Source: src, CommandList: listName(l), Painter: *painter}
	sizes := element.Sizes{Min: cell, Pref: image.Pt(cell.X*4, cell.Y*3), Max: image.Pt(element.Unbounded, element.Unbounded)}
	e := element.New(name, element.KindItemList, element.Scrollable|element.Selectable|element.HasItems, sizes, w)
	if err := c.addElement(e); err != nil {
		return err
	}
	update := func() {
		w.Items = items.Items()
		cols := w.Columns(e.Bounds)
		e.Scroll.Total = (len(w.Items) + cols - 1) / cols
	}
	update()
	e.OnRelease(items.SubscribeItems(update))
	return nil
}

func cmdMap(c *ParseContext, a *args.Args) error {
	return mapView(c, a, false)
}

func cmdMinimap(c *ParseContext, a *args.Args) error {
	return mapView(c, a, true)
}

func mapView(c *ParseContext, a *args.Args, mini bool) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	tile, err := c.integer(a)
	if err != nil {
		return err
	}
	if tile <= 0 {
		return fmt.Errorf("invalid tile size %d", tile)
	}
	kind := element.KindMap
	if mini {
		kind = element.KindMinimap
	}
	pref := image.Pt(tile*mapTiles, tile*mapTiles)
	return c.addElement(element.New(name, kind, 0, element.Flexible(pref), &element.MapView{TileSize: tile, Mini: mini}))
}
