package skin

import (
	"fmt"
	"sort"

	"github.com/oakwood-commons/skinkit/internal/action"
	"github.com/oakwood-commons/skinkit/internal/args"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/parse"
	"github.com/oakwood-commons/skinkit/internal/textdoc"
)

// commandFunc handles one command. The dispatcher checks that every field
// was consumed after it returns.
type commandFunc func(c *ParseContext, a *args.Args) error

type scope int

const (
	anyFile scope = iota
	globalOnly
	dialogOnly
)

var commands map[string]commandFunc

// scopes restricts where commands may appear; commands not listed are
// allowed in every file.
var scopes = map[string]scope{
	"skin_name": globalOnly,
	"dialog":    globalOnly,
}

func init() {
	commands = map[string]commandFunc{
		"skin_name":       cmdSkinName,
		"dialog":          cmdDialog,
		"font":            cmdFont,
		"color":           cmdColor,
		"def":             cmdDef,
		"commandlist":     cmdCommandList,
		"commandlist_add": cmdCommandListAdd,
		"key":             cmdKey,
		"event":           cmdEvent,
		"option":          cmdOption,

		"title":             cmdTitle,
		"set_modal":         cmdSetModal,
		"set_auto_size":     cmdSetAutoSize,
		"dialog_hide":       cmdDialogHide,
		"set_default":       cmdSetDefault,
		"set_forced_active": cmdSetForcedActive,
		"set_invisible":     cmdSetInvisible,
		"tooltip":           cmdTooltip,
		"ignore":            cmdIgnore,
		"layout":            cmdLayout,
		"begin":             cmdBegin,
		"end":               cmdEnd,
		"add":               cmdAdd,
	}
	for kw, fn := range elementCommands {
		commands[kw] = fn
	}
	for kw := range commands {
		if _, ok := scopes[kw]; ok {
			continue
		}
		switch kw {
		case "font", "color", "def", "commandlist", "commandlist_add", "key", "event", "option":
			scopes[kw] = anyFile
		default:
			scopes[kw] = dialogOnly
		}
	}
}

// Keywords returns the recognised command keywords.
func Keywords() []string {
	out := make([]string, 0, len(commands))
	for kw := range commands {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

func cmdSkinName(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	var res [2]string
	for i := range res {
		if res[i], err = a.Get(); err != nil {
			return err
		}
	}
	lo, err := parse.Size(res[0])
	if err != nil {
		return err
	}
	hi, err := parse.Size(res[1])
	if err != nil {
		return err
	}
	if !fits(lo, hi) {
		return fmt.Errorf("minimum resolution %s exceeds maximum %s", res[0], res[1])
	}
	if c.skin.Name != "" {
		return fmt.Errorf("skin name already set to '%s'", c.skin.Name)
	}
	c.skin.Name, c.skin.MinResolution, c.skin.MaxResolution = name, lo, hi
	return nil
}

func cmdDialog(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	names := append([]string{name}, a.Rest()...)
	for _, n := range names {
		if err := c.skin.EnsureDialog(n); err != nil {
			return err
		}
	}
	return nil
}

func cmdFont(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	file, err := a.Get()
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	size, err := parse.Float(s)
	if err != nil {
		return err
	}
	face, err := c.skin.res.Face(c.ctx, file, size)
	if err != nil {
		return err
	}
	return c.fonts.Insert(name, &element.Font{Name: name, Face: face})
}

func cmdColor(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	col, err := c.color(a)
	if err != nil {
		return err
	}
	return c.colors.Insert(name, col)
}

var defKinds = map[string]commandFunc{
	"DIALOG":     defDialog,
	"CHECKBOX":   defCheckbox,
	"TEXTBUTTON": defTextButton,
	"ITEM":       defItem,
}

func cmdDef(c *ParseContext, a *args.Args) error {
	s, err := a.Get()
	if err != nil {
		return err
	}
	fn, err := parse.Enum("definition", s, defKinds)
	if err != nil {
		return err
	}
	return fn(c, a)
}

func defDialog(c *ParseContext, a *args.Args) error {
	img, _, err := c.optImage(a)
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
	alpha, err := parse.Alpha(s)
	if err != nil {
		return err
	}
	c.defs.dialog = &Frame{Image: img, TitleFont: f, TitleColor: col, Alpha: alpha}
	if c.dialog != nil {
		c.dialog.Frame = c.defs.dialog
	}
	return nil
}

func defCheckbox(c *ParseContext, a *args.Args) error {
	checked, _, err := c.image(a)
	if err != nil {
		return err
	}
	unchecked, _, err := c.image(a)
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
	c.defs.checkbox = &checkboxDef{Checked: checked, Unchecked: unchecked, Font: f, Color: col}
	return nil
}

func defTextButton(c *ParseContext, a *args.Args) error {
	up, _, err := c.image(a)
	if err != nil {
		return err
	}
	down, _, err := c.image(a)
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
	c.defs.textButton = &textButtonDef{Up: up, Down: down, Font: f, Color: col}
	return nil
}

func defItem(c *ParseContext, a *args.Args) error {
	f, err := c.font(a)
	if err != nil {
		return err
	}
	col, err := c.color(a)
	if err != nil {
		return err
	}
	selector, _, err := c.optImage(a)
	if err != nil {
		return err
	}
	c.defs.item = &element.ItemPainter{Font: f, Color: col, Selector: selector}
	return nil
}

func cmdCommandList(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	t, err := action.ParseListType(s)
	if err != nil {
		return err
	}
	return c.skin.commandLists.Insert(name, action.NewCommandList(name, t))
}

func cmdCommandListAdd(c *ParseContext, a *args.Args) error {
	l, err := c.commandList(a)
	if err != nil {
		return err
	}
	s, err := a.Get()
	if err != nil {
		return err
	}
	var target *element.Element
	if !parse.IsNull(s) {
		if target, err = c.element(s); err != nil {
			return err
		}
	}
	kw, err := a.Get()
	if err != nil {
		return err
	}
	cmd, err := c.factory.Build(kw, target, a)
	if err != nil {
		return err
	}
	l.Add(cmd)
	return nil
}

func cmdKey(c *ParseContext, a *args.Args) error {
	s, err := a.Get()
	if err != nil {
		return err
	}
	k, err := ParseKey(s)
	if err != nil {
		return err
	}
	l, err := c.commandList(a)
	if err != nil {
		return err
	}
	if c.dialog != nil {
		return c.dialog.Keys.Add(k, l)
	}
	return c.skin.keys.Add(k, l)
}

func cmdEvent(c *ParseContext, a *args.Args) error {
	s, err := a.Get()
	if err != nil {
		return err
	}
	ev, err := parse.Enum("event", s, events)
	if err != nil {
		return err
	}
	l, err := c.commandList(a)
	if err != nil {
		return err
	}
	c.skin.events[ev] = append(c.skin.events[ev], l)
	return nil
}

func cmdOption(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	on, err := c.optCommandList(a)
	if err != nil {
		return err
	}
	off, err := c.optCommandList(a)
	if err != nil {
		return err
	}
	doc, err := c.text(a)
	if err != nil {
		return err
	}
	return c.skin.options.Insert(name, &Option{Name: name, On: on, Off: off, Doc: textdoc.Render(doc)})
}

func cmdTitle(c *ParseContext, a *args.Args) error {
	if c.dialog.Frame == nil {
		return missingDef("dialog")
	}
	title, err := c.text(a)
	if err != nil {
		return err
	}
	c.dialog.Title = title
	return nil
}

func cmdSetModal(c *ParseContext, _ *args.Args) error {
	c.dialog.Modal = true
	return nil
}

func cmdSetAutoSize(c *ParseContext, _ *args.Args) error {
	c.dialog.AutoSize = true
	return nil
}

func cmdDialogHide(c *ParseContext, a *args.Args) error {
	s, err := a.Get()
	if err != nil {
		return err
	}
	for _, name := range append([]string{s}, a.Rest()...) {
		st, err := parse.Enum("state", name, states)
		if err != nil {
			return err
		}
		c.dialog.Hidden[st] = true
	}
	return nil
}

// elementFlag defers fn on the named element to the end of the file.
func elementFlag(c *ParseContext, a *args.Args, fn func(e *element.Element)) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	c.later(func() error {
		e, err := c.element(name)
		if err != nil {
			return err
		}
		fn(e)
		return nil
	})
	return nil
}

func cmdSetDefault(c *ParseContext, a *args.Args) error {
	return elementFlag(c, a, func(e *element.Element) { c.dialog.Default = e })
}

func cmdSetForcedActive(c *ParseContext, a *args.Args) error {
	return elementFlag(c, a, func(e *element.Element) {
		c.dialog.ForcedActive = e
		e.Active = true
	})
}

func cmdSetInvisible(c *ParseContext, a *args.Args) error {
	return elementFlag(c, a, func(e *element.Element) { e.Visible = false })
}

func cmdIgnore(c *ParseContext, a *args.Args) error {
	return elementFlag(c, a, func(e *element.Element) {
		e.Ignored = true
		e.Visible = false
	})
}

func cmdTooltip(c *ParseContext, a *args.Args) error {
	name, err := a.Get()
	if err != nil {
		return err
	}
	text, err := c.text(a)
	if err != nil {
		return err
	}
	c.later(func() error {
		e, err := c.element(name)
		if err != nil {
			return err
		}
		e.Tooltip = tooltip(text)
		return nil
	})
	return nil
}

func tooltip(text string) *element.Tooltip {
	doc := textdoc.Render(text)
	if doc.IsZero() {
		return nil
	}
	return &element.Tooltip{Text: doc.Plain, HTML: doc.HTML}
}
