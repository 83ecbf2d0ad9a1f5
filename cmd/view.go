package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/go-logr/logr"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/oakwood-commons/skinkit/internal/element"
	"github.com/oakwood-commons/skinkit/internal/gfx"
	"github.com/oakwood-commons/skinkit/internal/gfx/ebitengfx"
	"github.com/oakwood-commons/skinkit/internal/mapview"
	"github.com/oakwood-commons/skinkit/internal/skin"
	"github.com/oakwood-commons/skinkit/pkg/logger"
)

const (
	// scrollDuration is how long, in seconds, a one-square scroll eases.
	scrollDuration = 0.15
	// keyRepeatDelay and keyRepeatInterval are in ticks.
	keyRepeatDelay    = 15
	keyRepeatInterval = 6
)

var outlineColor = color.NRGBA{R: 255, G: 255, B: 255, A: 48}

// scrollAnimation eases the drawn map buffer from where a scroll left it
// back to its resting place.
type scrollAnimation struct {
	x, y *gween.Tween
	off  image.Point
}

// start adds a scroll by d squares of size tile to the running animation.
func (s *scrollAnimation) start(d image.Point, tile int) {
	s.off = s.off.Add(d.Mul(tile))
	s.x = gween.New(float32(s.off.X), 0, scrollDuration, ease.OutCubic)
	s.y = gween.New(float32(s.off.Y), 0, scrollDuration, ease.OutCubic)
}

// step advances the animation by dt seconds and returns the pixel offset
// the buffer is drawn at.
func (s *scrollAnimation) step(dt float32) image.Point {
	if s.x == nil {
		return image.Point{}
	}
	vx, doneX := s.x.Update(dt)
	vy, doneY := s.y.Update(dt)
	s.off = image.Pt(int(vx), int(vy))
	if doneX && doneY {
		s.x, s.y = nil, nil
		s.off = image.Point{}
	}
	return s.off
}

// viewKeys maps the keys skins can bind to their key names.
var viewKeys = map[ebiten.Key]string{
	ebiten.KeyF1: "f1", ebiten.KeyF2: "f2", ebiten.KeyF3: "f3", ebiten.KeyF4: "f4",
	ebiten.KeyF5: "f5", ebiten.KeyF6: "f6", ebiten.KeyF7: "f7", ebiten.KeyF8: "f8",
	ebiten.KeyF9: "f9", ebiten.KeyF10: "f10", ebiten.KeyF11: "f11", ebiten.KeyF12: "f12",
	ebiten.KeyEscape: "escape", ebiten.KeyTab: "tab", ebiten.KeyEnter: "enter",
}

var scrollKeys = map[ebiten.Key]image.Point{
	ebiten.KeyArrowLeft: {X: -1}, ebiten.KeyA: {X: -1},
	ebiten.KeyArrowRight: {X: 1}, ebiten.KeyD: {X: 1},
	ebiten.KeyArrowUp: {Y: -1}, ebiten.KeyW: {Y: -1},
	ebiten.KeyArrowDown: {Y: 1}, ebiten.KeyS: {Y: 1},
}

// repeating reports whether a key held for d ticks fires this tick.
func repeating(d int) bool {
	return d == 1 || (d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0)
}

// mapArea finds the first full size map element of the open dialogs, laid
// out for res. It returns the whole screen and tile when there is none.
func mapArea(s *skin.Skin, res image.Point, tile int) (image.Rectangle, int) {
	for _, name := range s.OpenDialogs() {
		d, err := s.Dialog(name)
		if err != nil || d.Root == nil {
			continue
		}
		r, err := s.Layout(name, res.X, res.Y)
		if err != nil {
			continue
		}
		for _, e := range d.Elements.Values() {
			if mv, ok := e.Widget.(*element.MapView); ok && !mv.Mini && !e.Bounds.Empty() {
				return e.Bounds.Add(r.Min), mv.TileSize
			}
		}
	}
	return image.Rectangle{Max: res}, tile
}

type viewGame struct {
	ctx      context.Context
	log      logr.Logger
	skin     *skin.Skin
	updater  *mapview.Updater
	renderer *mapview.Renderer
	world    demoWorld
	origin   image.Point
	gridSize image.Point
	res      image.Point
	area     image.Rectangle
	tile     int
	bg       color.Color

	scrolled chan image.Point
	anim     scrollAnimation
	overlay  *ebitengfx.Surface
	sized    bool
	// frames are the screen bounds of the visible elements of the open
	// dialogs, recomputed when openKey changes.
	frames  []image.Rectangle
	openKey string
}

func (g *viewGame) scroll(d image.Point) error {
	return g.updater.Update(g.ctx, func(tx *mapview.Tx) {
		tx.Scroll(d.X, d.Y)
		g.origin = g.origin.Add(d)
		for _, r := range exposed(g.gridSize, d) {
			g.world.fill(tx, g.origin, r)
		}
	})
}

func (g *viewGame) handleKeys() error {
	for k, d := range scrollKeys {
		if repeating(inpututil.KeyPressDuration(k)) {
			if err := g.scroll(d); err != nil {
				return err
			}
		}
	}
	for k, name := range viewKeys {
		if !inpututil.IsKeyJustPressed(k) {
			continue
		}
		key := skin.Key{
			Name:  name,
			Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
			Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
			Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
		}
		handled, err := g.skin.HandleKey(key)
		if err != nil {
			g.log.Error(err, "key binding failed", "key", key.String())
		}
		if !handled && name == "escape" {
			g.skin.Quit()
		}
	}
	return nil
}

func (g *viewGame) Update() error {
	if g.skin.QuitRequested() {
		return ebiten.Termination
	}
	if !g.sized {
		g.renderer.SetViewSize(g.area.Size())
		g.overlay = ebitengfx.New(g.res)
		g.sized = true
	}
	if err := g.handleKeys(); err != nil {
		return err
	}
	g.relayout()
drain:
	for {
		select {
		case d := <-g.scrolled:
			g.anim.start(d, g.tile)
			if err := g.skin.Fire(skin.EventMapScroll); err != nil {
				g.log.Error(err, "map scroll event failed")
			}
		default:
			break drain
		}
	}
	g.anim.step(float32(1) / float32(ebiten.TPS()))
	return nil
}

func (g *viewGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.bg)
	if buf, ok := g.renderer.Paint().(*ebitengfx.Surface); ok {
		var op ebiten.DrawImageOptions
		at := g.area.Min.Add(g.anim.off)
		op.GeoM.Translate(float64(at.X), float64(at.Y))
		screen.SubImage(g.area).(*ebiten.Image).DrawImage(buf.Image(), &op)
	}
	if g.overlay != nil {
		g.overlay.Clear()
		g.drawOutlines(g.overlay)
		screen.DrawImage(g.overlay.Image(), nil)
	}
	st := g.renderer.Stats()
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s  origin %d,%d  blits %d  repaints %d  tiles %d  TPS %.0f\ndialogs: %s",
		g.skin.Name, g.origin.X, g.origin.Y, st.Blits, st.FullRepaints, st.TilesPainted, ebiten.ActualTPS(),
		strings.Join(g.skin.OpenDialogs(), ", ")), 4, 4)
}

func (g *viewGame) relayout() {
	open := g.skin.OpenDialogs()
	key := strings.Join(open, ",")
	if key == g.openKey && g.frames != nil {
		return
	}
	g.openKey = key
	g.frames = []image.Rectangle{}
	for _, name := range open {
		d, err := g.skin.Dialog(name)
		if err != nil || d.Root == nil {
			continue
		}
		r, err := g.skin.Layout(name, g.res.X, g.res.Y)
		if err != nil {
			g.log.Error(err, "dialog layout failed", "dialog", name)
			continue
		}
		for _, e := range d.Elements.Values() {
			if e.Visible && !e.Bounds.Empty() {
				g.frames = append(g.frames, e.Bounds.Add(r.Min))
			}
		}
	}
}

// drawOutlines frames the elements of the open dialogs.
func (g *viewGame) drawOutlines(s gfx.Surface) {
	for _, r := range g.frames {
		strokeRect(s, r, outlineColor)
	}
}

func strokeRect(s gfx.Surface, r image.Rectangle, c color.Color) {
	s.FillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	s.FillRect(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	s.FillRect(image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1), c)
	s.FillRect(image.Rect(r.Max.X-1, r.Min.Y+1, r.Max.X, r.Max.Y-1), c)
}

func (g *viewGame) Layout(_, _ int) (int, int) {
	return g.res.X, g.res.Y
}

func newViewCmd(a *app) *cobra.Command {
	var seed uint32
	cmd := &cobra.Command{
		Use:   "view [skin]",
		Short: "Open a window previewing the map renderer of a skin",
		Long: `view opens a window with the open dialogs of a skin outlined and the map
element showing a generated world. Arrow keys or WASD scroll the map,
function keys run the skin's key bindings, escape quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.view(a.skinName(args), seed)
		},
	}
	cmd.Flags().Uint32Var(&seed, "seed", 1, "seed of the generated world")
	return cmd
}

func (a *app) view(name string, seed uint32) error {
	s, err := a.loadSkin(name, nil)
	if err != nil {
		return err
	}
	defer s.Detach()
	log := logger.FromContext(a.ctx).WithName("view")
	if err := s.Fire(skin.EventInit); err != nil {
		log.Error(err, "init event failed")
	}

	m := a.cfg.Map
	bg, fog, marker := m.Colors()
	res := a.run.Resolution
	area, tile := mapArea(s, res, m.TileSize)

	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()
	g := &viewGame{
		ctx:      ctx,
		log:      log,
		skin:     s,
		updater:  mapview.NewUpdater(m.Width, m.Height),
		world:    demoWorld{seed: seed},
		gridSize: image.Pt(m.Width, m.Height),
		res:      res,
		area:     area,
		tile:     tile,
		bg:       bg,
		scrolled: make(chan image.Point, 64),
	}
	g.renderer = mapview.NewRenderer(mapview.Config{
		TileSize:         tile,
		FaceTileSize:     demoFaceTile,
		MaxFaceSpan:      2,
		Background:       bg,
		Fog:              fog,
		MaxDarknessAlpha: m.MaxDarknessAlpha,
		Marker:           marker,
		Faces:            newDemoFaces(),
		Alloc:            ebitengfx.Allocator,
		OnScroll: func(dx, dy int) {
			select {
			case g.scrolled <- image.Pt(dx, dy):
			default:
			}
		},
	})

	go func() { _ = g.updater.Run(ctx) }()
	go func() { _ = g.renderer.Follow(ctx, g.updater.Batches()) }()
	// Centre the player square on world (0, 0).
	g.origin = image.Pt(-m.Width/2, -m.Height/2)
	if err := g.updater.Update(ctx, func(tx *mapview.Tx) {
		g.world.fill(tx, g.origin, image.Rectangle{Max: g.gridSize})
	}); err != nil {
		return err
	}
	log.V(1).Info("view started", "skin", s.Name, "area", area.String(), "tile", tile)

	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", s.Name, name))
	ebiten.SetWindowSize(res.X, res.Y)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}
