package skin

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/skinkit/internal/args"
	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/gamestate"
	"github.com/oakwood-commons/skinkit/internal/layout"
	"github.com/oakwood-commons/skinkit/internal/registry"
)

func pngFile(t *testing.T, w, h int) *fstest.MapFile {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &fstest.MapFile{Data: buf.Bytes()}
}

const demoGlobal = `# demo skin
skin_name demo 640x480 1920x1200
font body @regular 12
dialog main
`

// skinFS builds a skin directory from file contents keyed by name, plus a
// few pictures every test may use.
func skinFS(t *testing.T, files map[string]string) fstest.MapFS {
	t.Helper()
	fsys := fstest.MapFS{
		"pictures/logo.png":  pngFile(t, 48, 20),
		"pictures/bar.png":   pngFile(t, 100, 8),
		"pictures/up.png":    pngFile(t, 24, 24),
		"pictures/down.png":  pngFile(t, 24, 24),
		"pictures/on.png":    pngFile(t, 12, 12),
		"pictures/off.png":   pngFile(t, 12, 12),
		"pictures/frame.png": pngFile(t, 64, 64),
	}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func load(t *testing.T, files map[string]string, model *gamestate.Model) (*Skin, error) {
	t.Helper()
	src := Source{FS: skinFS(t, files)}
	if model != nil {
		src.Observers = model.Observers()
	}
	return Load(context.Background(), src)
}

func TestLoadSinglePictureGroup(t *testing.T) {
	s, err := load(t, map[string]string{
		GlobalFile: demoGlobal,
		"main.skin": `picture logo logo 1.0
begin seq
  logo
end
`,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	assert.Equal(t, image.Pt(640, 480), s.MinResolution)
	assert.Equal(t, image.Pt(1920, 1200), s.MaxResolution)

	d, err := s.Dialog("main")
	require.NoError(t, err)
	assert.True(t, d.Loaded)
	assert.Equal(t, []string{"logo"}, d.Elements.Names())

	g, ok := d.Root.(*layout.Group)
	require.True(t, ok, "root is a group")
	assert.Equal(t, layout.Seq, g.Kind)
	require.Len(t, g.Children, 1)
	leaf, ok := g.Children[0].(*layout.Leaf)
	require.True(t, ok)
	assert.Equal(t, "logo", leaf.Element.Name)

	_, err = s.Layout("main", 640, 480)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(48, 20), leaf.Element.Bounds.Size())
}

func TestCheckboxBeforeDef(t *testing.T) {
	_, err := load(t, map[string]string{
		GlobalFile: demoGlobal + "option sound null null Play sounds\n",
		"main.skin": `
checkbox snd sound Sound
`,
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDef)
	assert.Contains(t, err.Error(), "missing 'def checkbox' command")

	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "main.skin", le.URI)
	assert.Equal(t, 2, le.Line)
}

func TestExecSelectionNeedsItemList(t *testing.T) {
	_, err := load(t, map[string]string{
		GlobalFile: demoGlobal,
		"main.skin": `picture logo logo 1
commandlist use AND
commandlist_add use logo EXEC_SELECTION APPLY
add logo 1 BOTH
`,
	}, nil)
	require.Error(t, err)
	var ce *element.CapabilityError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "logo", ce.Name)
	assert.Equal(t, "main.skin:3: 'logo' must be an item list element", err.Error())
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		global  string
		main    string
		wantErr string
		is      error
	}{
		{
			name:    "unknown keyword",
			global:  demoGlobal,
			main:    "frobnicate x\n",
			wantErr: "main.skin:1: unknown keyword 'frobnicate'",
			is:      ErrUnknownKeyword,
		},
		{
			name:    "missing skin name",
			global:  "dialog main\n",
			main:    "",
			wantErr: "global.skin: missing 'skin_name' command",
		},
		{
			name:    "excess arguments",
			global:  demoGlobal,
			main:    "fill bg BLACK extra\n",
			wantErr: "main.skin:1: excess arguments: 'extra'",
			is:      args.ErrExcessArguments,
		},
		{
			name:    "duplicate element",
			global:  demoGlobal,
			main:    "fill bg BLACK\nfill bg WHITE\n",
			wantErr: "main.skin:2: duplicate name: element 'bg' already defined",
			is:      registry.ErrDuplicate,
		},
		{
			name:    "element not laid out",
			global:  demoGlobal,
			main:    "fill bg BLACK\nfill fg WHITE\nbegin par\nbg\nend\n",
			wantErr: "main.skin: ",
			is:      layout.ErrIncomplete,
		},
		{
			name:    "dialog command in dialog file",
			global:  demoGlobal,
			main:    "dialog other\n",
			wantErr: "main.skin:1: 'dialog' is only allowed in global.skin",
		},
		{
			name:    "element in global file",
			global:  demoGlobal + "fill bg BLACK\n",
			wantErr: "global.skin:5: 'fill' is not allowed in global.skin",
		},
		{
			name:    "unclosed group",
			global:  demoGlobal,
			main:    "fill bg BLACK\nbegin seq\nbg\n",
			wantErr: "main.skin: missing 'end' for 'begin seq'",
		},
		{
			name:    "title without def dialog",
			global:  demoGlobal,
			main:    "title Main\n",
			wantErr: "main.skin:1: missing 'def dialog' command",
			is:      ErrMissingDef,
		},
		{
			name:    "tooltip for undefined element",
			global:  demoGlobal,
			main:    "tooltip ghost Boo\n",
			wantErr: "main.skin:1: undefined name: element 'ghost' does not exist",
			is:      registry.ErrUndefined,
		},
		{
			name:    "tooltip reports its own line",
			global:  demoGlobal,
			main:    "fill bg BLACK\ntooltip ghost Boo\nbegin seq\nbg\nend\n",
			wantErr: "main.skin:2: undefined name: element 'ghost' does not exist",
			is:      registry.ErrUndefined,
		},
		{
			name:    "set_default of undefined element",
			global:  demoGlobal,
			main:    "fill bg BLACK\nbegin seq\nbg\nend\nset_default ghost\n",
			wantErr: "main.skin:5: undefined name: element 'ghost' does not exist",
			is:      registry.ErrUndefined,
		},
		{
			name:    "missing dialog file",
			global:  demoGlobal,
			wantErr: "main.skin: resource not found: main.skin",
		},
		{
			name:    "mixed layout",
			global:  demoGlobal,
			main:    "fill bg BLACK\nadd bg 1 BOTH\nbegin seq\n",
			wantErr: "main.skin:3: cannot mix 'add' with 'begin seq|par' layout",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files := map[string]string{GlobalFile: tt.global}
			if tt.name != "missing dialog file" {
				files["main.skin"] = tt.main
			}
			_, err := load(t, files, nil)
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.wantErr), "got %q", err.Error())
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestResolutionOutOfRange(t *testing.T) {
	src := Source{
		FS:         skinFS(t, map[string]string{GlobalFile: demoGlobal, "main.skin": ""}),
		Resolution: image.Pt(320, 200),
	}
	_, err := Load(context.Background(), src)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution 320x200 not supported")
}

func TestDetachOnFailure(t *testing.T) {
	model := gamestate.NewModel()
	_, err := load(t, map[string]string{
		GlobalFile: demoGlobal,
		"main.skin": `gauge hp bar null null HP WE Hit points
bogus
`,
	}, model)
	require.Error(t, err)
	assert.Equal(t, 0, model.StatSubscribers())
}

func TestGaugeFollowsStats(t *testing.T) {
	model := gamestate.NewModel()
	model.SetStat(gamestate.StatHP, 5, 10)
	s, err := load(t, map[string]string{
		GlobalFile: demoGlobal,
		"main.skin": `gauge hp bar null null HP WE **Hit** points
begin par
  hp
end
`,
	}, model)
	require.NoError(t, err)
	assert.Equal(t, 1, model.StatSubscribers())

	d, _ := s.Dialog("main")
	e, err := d.Element("hp")
	require.NoError(t, err)
	g := e.Widget.(*element.Gauge)
	assert.Equal(t, 5, g.Value)
	require.NotNil(t, e.Tooltip)
	assert.Equal(t, "Hit points", e.Tooltip.Text)

	model.SetStat(gamestate.StatHP, 7, 12)
	assert.Equal(t, 7, g.Value)
	assert.Equal(t, 12, g.Max)

	s.Detach()
	assert.Equal(t, 0, model.StatSubscribers())
}

func TestItemListFollowsInventory(t *testing.T) {
	model := gamestate.NewModel()
	s, err := load(t, map[string]string{
		GlobalFile: demoGlobal + "def item body WHITE none\n",
		"main.skin": `inventory_list inv 32 32 INVENTORY null
commandlist use AND
commandlist_add use inv EXEC_SELECTION APPLY
begin seq
  inv
end
`,
	}, model)
	require.NoError(t, err)

	d, _ := s.Dialog("main")
	e, _ := d.Element("inv")
	assert.True(t, e.Is(element.HasItems|element.Scrollable|element.Selectable))

	model.List("inventory").SetItems([]gamestate.Item{{Tag: 1, Name: "sword"}, {Tag: 2, Name: "shield"}})
	assert.Len(t, e.Widget.(*element.ItemList).Items, 2)
	assert.Equal(t, 2, e.Scroll.Total)

	l, err := s.CommandList("use")
	require.NoError(t, err)
	assert.Equal(t, "EXEC_SELECTION inv apply", l.Commands()[0].String())
}

func TestLegacyLayoutWithWildcard(t *testing.T) {
	s, err := load(t, map[string]string{
		GlobalFile: demoGlobal,
		"main.skin": `layout grid VERTICAL
fill top BLACK
fill a RED
fill b GREEN
fill bottom BLUE
add top 0 HORIZONTAL
add * 1 BOTH
add bottom 0 CENTER
`,
	}, nil)
	require.NoError(t, err)
	d, _ := s.Dialog("main")
	var names []string
	for _, e := range layout.Elements(d.Root) {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"top", "a", "b", "bottom"}, names)
}

func TestDialogsRequestedByCommands(t *testing.T) {
	s, err := load(t, map[string]string{
		GlobalFile: demoGlobal + `def dialog frame body WHITE 0.8
commandlist open_help AND
commandlist_add open_help null DIALOG_OPEN help
key F1 open_help
`,
		"main.skin": `title Main window
set_modal
dialog_hide START META
fill bg BLACK
ignore bg
`,
		"help.skin": `set_auto_size
label_text msg body WHITE CENTER Press F1
begin seq
  border_gap
  msg
  gap
end
`,
	}, nil)
	require.NoError(t, err)

	var names []string
	for _, d := range s.Dialogs() {
		names = append(names, d.Name)
		assert.True(t, d.Loaded, d.Name)
	}
	assert.Equal(t, []string{"main", "help"}, names)

	main, _ := s.Dialog("main")
	assert.Equal(t, "Main window", main.Title)
	require.NotNil(t, main.Frame)
	assert.Equal(t, "frame", main.Frame.Image)
	assert.True(t, main.Modal)
	assert.True(t, main.HiddenIn(StateStart))
	assert.False(t, main.HiddenIn(StatePlaying))
	bg, _ := main.Element("bg")
	assert.True(t, bg.Ignored)
	assert.False(t, bg.Visible)

	handled, err := s.HandleKey(Key{Name: "f1"})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, s.IsDialogOpen("help"))
	assert.Equal(t, []string{"help"}, s.OpenDialogs())

	handled, err = s.HandleKey(Key{Name: "f2"})
	require.NoError(t, err)
	assert.False(t, handled)

	r, err := s.Layout("help", 1024, 768)
	require.NoError(t, err)
	help, _ := s.Dialog("help")
	e, _ := help.Element("msg")
	assert.Equal(t, r.Dy(), e.Bounds.Dy())
	assert.Less(t, r.Dx(), 1024)
}

func TestDialogKeysTakePrecedence(t *testing.T) {
	s, err := load(t, map[string]string{
		GlobalFile: demoGlobal + `commandlist bye AND
commandlist_add bye null QUIT
commandlist say AND
commandlist_add say null EXECUTE say hello
key ctrl+'q' bye
commandlist open AND
commandlist_add open null DIALOG_OPEN main
event INIT open
`,
		"main.skin": `key ctrl+'q' say
`,
	}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Fire(EventInit))
	assert.True(t, s.IsDialogOpen("main"))

	_, err = s.HandleKey(Key{Name: "q", Ctrl: true})
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.False(t, s.QuitRequested())

	s.CloseDialog("main")
	handled, err := s.HandleKey(Key{Name: "q", Ctrl: true})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.True(t, s.QuitRequested())
}

type recordingClient struct {
	sent []string
}

func (c *recordingClient) SendCommand(cmd string) error {
	c.sent = append(c.sent, cmd)
	return nil
}
func (c *recordingClient) Login(string, string) error { return nil }
func (c *recordingClient) Quit()                      {}

func TestOptionsRunCommandLists(t *testing.T) {
	client := &recordingClient{}
	src := Source{
		FS: skinFS(t, map[string]string{
			GlobalFile: demoGlobal + `def checkbox on off body WHITE
commandlist sound_on AND
commandlist_add sound_on null EXECUTE sound on
commandlist sound_off AND
commandlist_add sound_off null EXECUTE sound off
option sound sound_on sound_off <<
Play **sound** effects.
.
`,
			"main.skin": `checkbox snd sound Sound
commandlist toggle AND
commandlist_add toggle null OPTION_SET sound on
begin seq
  snd
end
`,
		}),
		Client: client,
	}
	s, err := Load(context.Background(), src)
	require.NoError(t, err)

	opt, err := s.LookupOption("sound")
	require.NoError(t, err)
	assert.Equal(t, "Play sound effects.", opt.Doc.Plain)
	assert.Contains(t, opt.Doc.HTML, "<strong>sound</strong>")

	l, err := s.CommandList("toggle")
	require.NoError(t, err)
	require.NoError(t, l.Execute(s))
	assert.True(t, s.Option("sound"))
	assert.Equal(t, []string{"sound on"}, client.sent)

	require.NoError(t, s.SetOption("sound", false))
	assert.Equal(t, []string{"sound on", "sound off"}, client.sent)

	// Without a client the option's list fails, and the failure reaches
	// the command that set the option.
	src.Client = nil
	s, err = Load(context.Background(), src)
	require.NoError(t, err)
	err = s.SetOption("sound", true)
	require.ErrorIs(t, err, ErrNotConnected)
	assert.Contains(t, err.Error(), "option sound")
	assert.True(t, s.Option("sound"), "the value is recorded before the list runs")

	l, err = s.CommandList("toggle")
	require.NoError(t, err)
	assert.ErrorIs(t, s.SetOption("sound", false), ErrNotConnected)
	assert.False(t, s.Option("sound"))
	assert.ErrorIs(t, l.Execute(s), ErrNotConnected)
}

func TestKeywordsCoverElements(t *testing.T) {
	kws := Keywords()
	for _, kw := range []string{"picture", "checkbox", "inventory_list", "minimap", "begin", "add", "skin_name"} {
		assert.Contains(t, kws, kw)
	}
	assert.NotContains(t, kws, "item_list")
}
