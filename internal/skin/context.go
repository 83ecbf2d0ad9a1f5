package skin

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/go-logr/logr"

	"github.com/oakwood-commons/skinkit/internal/action"
	"github.com/oakwood-commons/skinkit/internal/args"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/layout"
	"github.com/oakwood-commons/skinkit/internal/parse"
	"github.com/oakwood-commons/skinkit/internal/registry"
	"github.com/oakwood-commons/skinkit/pkg/logger"
)

type checkboxDef struct {
	Checked, Unchecked string
	Font               *element.Font
	Color              color.NRGBA
}

type textButtonDef struct {
	Up, Down string
	Font     *element.Font
	Color    color.NRGBA
}

// defs are the factories set up by "def" lines.
type defs struct {
	dialog     *Frame
	checkbox   *checkboxDef
	textButton *textButtonDef
	item       *element.ItemPainter
}

// ParseContext is the state of parsing one skin file. Dialog files start
// with a copy of the fonts, colors and definitions of the global file.
type ParseContext struct {
	ctx    context.Context
	log    logr.Logger
	skin   *Skin
	uri    string
	reader *args.Reader

	// dialog is nil while parsing the global file.
	dialog   *Dialog
	elements *registry.Cache[*element.Element]
	fonts    *registry.Cache[*element.Font]
	colors   *registry.Cache[color.NRGBA]
	defs     defs
	factory  *action.Factory

	adds       *layout.AddList
	containers map[string]*layout.Container
	layoutSet  bool
	panels     []string
	groups     []*groupNode
	root       *groupNode
	// line is the first line of the command being executed.
	line int
	// deferred run at the end of the file so they may name elements
	// defined further down.
	deferred []deferredCheck
}

// deferredCheck is a check queued by the command on line.
type deferredCheck struct {
	line int
	fn   func() error
}

func newParseContext(ctx context.Context, s *Skin, uri string, d *Dialog, global *ParseContext) *ParseContext {
	c := &ParseContext{
		ctx:        ctx,
		log:        logger.FromContext(ctx).WithName("skin").WithValues("uri", uri),
		skin:       s,
		uri:        uri,
		dialog:     d,
		elements:   registry.New[*element.Element]("element"),
		fonts:      registry.New[*element.Font]("font"),
		colors:     registry.New[color.NRGBA]("color"),
		adds:       layout.NewAddList(),
		containers: map[string]*layout.Container{"": {Axis: layout.Vertical}},
	}
	if d != nil {
		c.elements = d.Elements
	}
	if global != nil {
		c.fonts = global.fonts.Clone()
		c.colors = global.colors.Clone()
		c.defs = global.defs
	}
	if d != nil {
		d.Frame = c.defs.dialog
	}
	c.factory = action.NewFactory(action.Deps{
		Dialogs: s,
		Element: c.element,
		Text:    c.text,
	})
	return c
}

// parseFile runs every command of uri. d is the dialog the file defines,
// nil for the global file, whose context seeds dialog files.
func (s *Skin) parseFile(ctx context.Context, uri string, d *Dialog, global *ParseContext) (*ParseContext, error) {
	rc, err := s.res.Open(uri)
	if err != nil {
		return nil, &LoadError{URI: uri, Err: err}
	}
	defer rc.Close()

	c := newParseContext(ctx, s, uri, d, global)
	c.reader = args.NewReader(rc)
	c.log.V(1).Info("parsing skin file")
	for {
		line, ok, err := c.reader.Next()
		if err != nil {
			return nil, &LoadError{URI: uri, Line: c.reader.Line(), Err: err}
		}
		if !ok {
			break
		}
		c.line = c.reader.Line()
		if err := c.execute(line); err != nil {
			return nil, &LoadError{URI: uri, Line: c.line, Err: err}
		}
	}
	if err := c.finish(); err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, le
		}
		return nil, &LoadError{URI: uri, Err: err}
	}
	return c, nil
}

// execute runs one command line.
func (c *ParseContext) execute(line string) error {
	a, err := args.Parse(line)
	if err != nil {
		return err
	}
	kw, err := a.Get()
	if err != nil {
		return err
	}
	if len(c.groups) > 0 {
		if err := c.groupLine(kw, a); err != nil {
			return err
		}
		return a.End()
	}
	fn, ok := commands[kw]
	if !ok {
		return unknownKeyword(kw)
	}
	if err := c.checkScope(kw); err != nil {
		return err
	}
	c.log.V(2).Info("command", "line", c.reader.Line(), "keyword", kw)
	if err := fn(c, a); err != nil {
		return err
	}
	return a.End()
}

func (c *ParseContext) checkScope(kw string) error {
	switch scopes[kw] {
	case globalOnly:
		if c.dialog != nil {
			return fmt.Errorf("'%s' is only allowed in %s", kw, GlobalFile)
		}
	case dialogOnly:
		if c.dialog == nil {
			return fmt.Errorf("'%s' is not allowed in %s", kw, GlobalFile)
		}
	}
	return nil
}

// finish checks that every block is closed, applies deferred element flags
// and builds the dialog layout.
func (c *ParseContext) finish() error {
	if n := len(c.groups); n > 0 {
		return fmt.Errorf("missing 'end' for 'begin %s'", c.groups[n-1].kind)
	}
	if n := len(c.panels); n > 0 {
		return fmt.Errorf("missing 'end %s'", c.panels[n-1])
	}
	for _, d := range c.deferred {
		if err := d.fn(); err != nil {
			return &LoadError{URI: c.uri, Line: d.line, Err: err}
		}
	}
	if c.dialog == nil {
		return nil
	}
	return c.buildLayout()
}

// later queues fn to run when the file is finished. Its error is reported
// at the line of the current command.
func (c *ParseContext) later(fn func() error) {
	c.deferred = append(c.deferred, deferredCheck{line: c.line, fn: fn})
}

func (c *ParseContext) element(name string) (*element.Element, error) {
	return c.elements.Lookup(name)
}

func (c *ParseContext) addElement(e *element.Element) error {
	return c.elements.Insert(e.Name, e)
}

func (c *ParseContext) text(a *args.Args) (string, error) {
	return c.reader.Text(a)
}

func (c *ParseContext) lookupColor(name string) (color.NRGBA, bool) {
	col, err := c.colors.Lookup(name)
	return col, err == nil
}

func (c *ParseContext) color(a *args.Args) (color.NRGBA, error) {
	s, err := a.Get()
	if err != nil {
		return color.NRGBA{}, err
	}
	return parse.Color(s, c.lookupColor)
}

func (c *ParseContext) optColor(a *args.Args) (*color.NRGBA, error) {
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	if parse.IsNull(s) {
		return nil, nil
	}
	col, err := parse.Color(s, c.lookupColor)
	if err != nil {
		return nil, err
	}
	return &col, nil
}

func (c *ParseContext) font(a *args.Args) (*element.Font, error) {
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	return c.fonts.Lookup(s)
}

// image reads a picture name and returns it with its size.
func (c *ParseContext) image(a *args.Args) (string, image.Point, error) {
	s, err := a.Get()
	if err != nil {
		return "", image.Point{}, err
	}
	img, err := c.skin.res.Image(c.ctx, s)
	if err != nil {
		return "", image.Point{}, err
	}
	return s, img.Bounds().Size(), nil
}

// optImage is image for arguments that may be "null" or "none".
func (c *ParseContext) optImage(a *args.Args) (string, image.Point, error) {
	s, err := a.Get()
	if err != nil {
		return "", image.Point{}, err
	}
	if parse.IsNull(s) {
		return "", image.Point{}, nil
	}
	img, err := c.skin.res.Image(c.ctx, s)
	if err != nil {
		return "", image.Point{}, err
	}
	return s, img.Bounds().Size(), nil
}

func (c *ParseContext) commandList(a *args.Args) (*action.CommandList, error) {
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	return c.skin.commandLists.Lookup(s)
}

// optCommandList is commandList for arguments that may be "null".
func (c *ParseContext) optCommandList(a *args.Args) (*action.CommandList, error) {
	s, err := a.Get()
	if err != nil {
		return nil, err
	}
	if parse.IsNull(s) {
		return nil, nil
	}
	return c.skin.commandLists.Lookup(s)
}

func (c *ParseContext) boolean(a *args.Args) (bool, error) {
	s, err := a.Get()
	if err != nil {
		return false, err
	}
	return parse.Bool(s)
}

func (c *ParseContext) integer(a *args.Args) (int, error) {
	s, err := a.Get()
	if err != nil {
		return 0, err
	}
	return parse.Int(s)
}

func listName(l *action.CommandList) string {
	if l == nil {
		return ""
	}
	return l.Name
}
