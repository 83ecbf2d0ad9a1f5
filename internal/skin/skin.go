// Package skin interprets skin directories. A skin is a global.skin file
// plus one file per dialog; each line is one command naming a widget, a
// layout rule, a command list or a binding. Loading a skin yields dialogs
// of positioned elements wired to game state observers.
package skin

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"sort"
	"strings"

	"github.com/oakwood-commons/skinkit/internal/action"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/gamestate"
	"github.com/oakwood-commons/skinkit/internal/layout"
	"github.com/oakwood-commons/skinkit/internal/registry"
	"github.com/oakwood-commons/skinkit/internal/resource"
	"github.com/oakwood-commons/skinkit/internal/textdoc"
	"github.com/oakwood-commons/skinkit/pkg/logger"
)

// GlobalFile is the first file of every skin.
const GlobalFile = "global.skin"

// ErrNotConnected is returned by commands that talk to the game server when
// the skin has no client.
var ErrNotConnected = errors.New("not connected")

// Client receives what commands send to the game.
type Client interface {
	SendCommand(command string) error
	Login(account, password string) error
	Quit()
}

// Source is what a skin is loaded from.
type Source struct {
	// FS is rooted at the skin directory.
	FS        fs.FS
	Observers gamestate.Observers
	Client    Client
	// Resolution, if set, must lie within the skin's supported range.
	Resolution image.Point
}

// State is a client state a dialog can be hidden in.
type State string

const (
	StateStart   State = "START"
	StateMeta    State = "META"
	StateLogin   State = "LOGIN"
	StateNewChar State = "NEWCHAR"
	StatePlaying State = "PLAYING"
)

var states = map[string]State{
	"START": StateStart, "META": StateMeta, "LOGIN": StateLogin,
	"NEWCHAR": StateNewChar, "PLAYING": StatePlaying,
}

// Event is a client event command lists can be bound to.
type Event string

const (
	EventInit      Event = "INIT"
	EventConnect   Event = "CONNECT"
	EventLogin     Event = "LOGIN"
	EventDeath     Event = "DEATH"
	EventMapScroll Event = "MAPSCROLL"
)

var events = map[string]Event{
	"INIT": EventInit, "CONNECT": EventConnect, "LOGIN": EventLogin,
	"DEATH": EventDeath, "MAPSCROLL": EventMapScroll,
}

// Frame is the decoration of dialogs created by "def dialog".
type Frame struct {
	Image      string
	TitleFont  *element.Font
	TitleColor color.NRGBA
	Alpha      float64
}

// Dialog is one window of a skin.
type Dialog struct {
	Name     string
	Title    string
	Frame    *Frame
	Elements *registry.Cache[*element.Element]
	Root     layout.Node
	// Hidden lists the client states the dialog is not shown in.
	Hidden       map[State]bool
	Modal        bool
	AutoSize     bool
	Default      *element.Element
	ForcedActive *element.Element
	Keys         *KeyBindings
	Loaded       bool

	attempted bool
}

func newDialog(name string) *Dialog {
	return &Dialog{
		Name:     name,
		Elements: registry.New[*element.Element]("element"),
		Hidden:   map[State]bool{},
		Keys:     NewKeyBindings(),
	}
}

// Element looks up an element by name.
func (d *Dialog) Element(name string) (*element.Element, error) {
	return d.Elements.Lookup(name)
}

// HiddenIn reports whether the dialog is hidden in state st.
func (d *Dialog) HiddenIn(st State) bool {
	return d.Hidden[st]
}

// Option is a toggleable client option declared by the skin.
type Option struct {
	Name string
	On   *action.CommandList
	Off  *action.CommandList
	Doc  textdoc.Doc
}

// Skin is a loaded skin.
type Skin struct {
	Name          string
	MinResolution image.Point
	MaxResolution image.Point

	dialogs      *registry.Cache[*Dialog]
	commandLists *registry.Cache[*action.CommandList]
	options      *registry.Cache[*Option]
	keys         *KeyBindings
	events       map[Event][]*action.CommandList

	src          Source
	res          *resource.Loader
	open         map[string]bool
	optionValues map[string]bool
	quit         bool
}

func newSkin(src Source) *Skin {
	return &Skin{
		dialogs:      registry.New[*Dialog]("dialog"),
		commandLists: registry.New[*action.CommandList]("command list"),
		options:      registry.New[*Option]("option"),
		keys:         NewKeyBindings(),
		events:       map[Event][]*action.CommandList{},
		src:          src,
		res:          resource.New(src.FS),
		open:         map[string]bool{},
		optionValues: map[string]bool{},
	}
}

// Load parses the global file and then every dialog it declares or that a
// command refers to, until no unloaded dialog is left. On failure every
// observer subscription made so far is released and a *LoadError is
// returned.
func Load(ctx context.Context, src Source) (*Skin, error) {
	log := logger.FromContext(ctx).WithName("skin")
	s := newSkin(src)
	if err := s.load(ctx); err != nil {
		s.Detach()
		log.V(1).Info("skin load failed", "error", err.Error())
		return nil, err
	}
	log.V(1).Info("skin loaded", "name", s.Name, "dialogs", s.dialogs.Len(), "command_lists", s.commandLists.Len())
	return s, nil
}

func (s *Skin) load(ctx context.Context) error {
	global, err := s.parseFile(ctx, GlobalFile, nil, nil)
	if err != nil {
		return err
	}
	if s.Name == "" {
		return &LoadError{URI: GlobalFile, Err: errors.New("missing 'skin_name' command")}
	}
	if r := s.src.Resolution; r != (image.Point{}) {
		if !fits(s.MinResolution, r) || !fits(r, s.MaxResolution) {
			return &LoadError{URI: GlobalFile, Err: fmt.Errorf("resolution %dx%d not supported (min %dx%d, max %dx%d)",
				r.X, r.Y, s.MinResolution.X, s.MinResolution.Y, s.MaxResolution.X, s.MaxResolution.Y)}
		}
	}
	for d, ok := s.nextUnloaded(); ok; d, ok = s.nextUnloaded() {
		d.attempted = true
		if _, err := s.parseFile(ctx, d.Name+".skin", d, global); err != nil {
			return err
		}
		d.Loaded = true
	}
	return nil
}

func fits(small, big image.Point) bool {
	return small.X <= big.X && small.Y <= big.Y
}

// nextUnloaded returns the first registered dialog not yet parsed.
func (s *Skin) nextUnloaded() (*Dialog, bool) {
	for _, d := range s.dialogs.Values() {
		if !d.attempted {
			return d, true
		}
	}
	return nil, false
}

// EnsureDialog registers name for loading unless it is known already.
func (s *Skin) EnsureDialog(name string) error {
	if s.dialogs.Contains(name) {
		return nil
	}
	return s.dialogs.Insert(name, newDialog(name))
}

// Detach releases every observer subscription of every element.
func (s *Skin) Detach() {
	for _, d := range s.dialogs.Values() {
		for _, e := range d.Elements.Values() {
			e.Release()
		}
	}
}

// Dialog returns the named dialog.
func (s *Skin) Dialog(name string) (*Dialog, error) {
	return s.dialogs.Lookup(name)
}

// Dialogs returns every dialog in the order they were registered.
func (s *Skin) Dialogs() []*Dialog {
	return s.dialogs.Values()
}

// CommandList returns the named command list.
func (s *Skin) CommandList(name string) (*action.CommandList, error) {
	return s.commandLists.Lookup(name)
}

// CommandLists returns every command list in declaration order.
func (s *Skin) CommandLists() []*action.CommandList {
	return s.commandLists.Values()
}

// LookupOption returns the option declared under name.
func (s *Skin) LookupOption(name string) (*Option, error) {
	return s.options.Lookup(name)
}

// Options returns the declared options in declaration order.
func (s *Skin) Options() []*Option {
	return s.options.Values()
}

// KeyBindings returns the skin wide key bindings.
func (s *Skin) KeyBindings() *KeyBindings {
	return s.keys
}

// Events returns the command lists bound to ev in declaration order.
func (s *Skin) Events(ev Event) []*action.CommandList {
	return s.events[ev]
}

// Fire executes every command list bound to ev.
func (s *Skin) Fire(ev Event) error {
	for _, l := range s.events[ev] {
		if err := l.Execute(s); err != nil {
			return fmt.Errorf("event %s: %w", ev, err)
		}
	}
	return nil
}

// HandleKey executes the command list bound to k. Bindings of open dialogs,
// in registration order, take precedence over skin wide bindings.
func (s *Skin) HandleKey(k Key) (bool, error) {
	for _, d := range s.dialogs.Values() {
		if !s.open[d.Name] {
			continue
		}
		if l, ok := d.Keys.Lookup(k); ok {
			return true, l.Execute(s)
		}
	}
	if l, ok := s.keys.Lookup(k); ok {
		return true, l.Execute(s)
	}
	return false, nil
}

// Layout solves the layout of a dialog for a w×h area. An auto-sized
// dialog gets its preferred size instead. It returns the dialog bounds.
func (s *Skin) Layout(dialog string, w, h int) (image.Rectangle, error) {
	d, err := s.dialogs.Lookup(dialog)
	if err != nil {
		return image.Rectangle{}, err
	}
	if !d.Loaded {
		return image.Rectangle{}, fmt.Errorf("dialog '%s' is not loaded", dialog)
	}
	r := image.Rect(0, 0, w, h)
	if d.AutoSize && d.Root != nil {
		r = image.Rectangle{Max: layout.Preferred(d.Root)}
	}
	if err := layout.Solve(d.Root, r); err != nil {
		return image.Rectangle{}, fmt.Errorf("dialog '%s': %w", dialog, err)
	}
	return r, nil
}

// OpenDialogs returns the names of the open dialogs, sorted.
func (s *Skin) OpenDialogs() []string {
	var out []string
	for name, open := range s.open {
		if open {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Skin) OpenDialog(name string) {
	s.open[name] = true
}

func (s *Skin) CloseDialog(name string) {
	delete(s.open, name)
}

func (s *Skin) IsDialogOpen(name string) bool {
	return s.open[name]
}

func (s *Skin) SendCommand(command string) error {
	if s.src.Client == nil {
		return fmt.Errorf("%w: %s", ErrNotConnected, strings.TrimSpace(command))
	}
	return s.src.Client.SendCommand(command)
}

func (s *Skin) Login(account, password string) error {
	if s.src.Client == nil {
		return ErrNotConnected
	}
	return s.src.Client.Login(account, password)
}

func (s *Skin) Option(name string) bool {
	if o := s.src.Observers.Options; o != nil {
		return o.Option(name)
	}
	return s.optionValues[name]
}

// SetOption records the option value and runs the option's on or off
// command list. An option only known to the observers has no list.
func (s *Skin) SetOption(name string, on bool) error {
	if o := s.src.Observers.Options; o != nil {
		o.SetOption(name, on)
	} else {
		s.optionValues[name] = on
	}
	opt, err := s.options.Lookup(name)
	if err != nil {
		return nil
	}
	l := opt.Off
	if on {
		l = opt.On
	}
	if l == nil {
		return nil
	}
	if err := l.Execute(s); err != nil {
		return fmt.Errorf("option %s: %w", name, err)
	}
	return nil
}

func (s *Skin) Quit() {
	s.quit = true
	if s.src.Client != nil {
		s.src.Client.Quit()
	}
}

// QuitRequested reports whether a QUIT command ran.
func (s *Skin) QuitRequested() bool {
	return s.quit
}

var _ action.Env = (*Skin)(nil)
var _ action.DialogResolver = (*Skin)(nil)
