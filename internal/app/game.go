package app

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/surface"
	"github.com/nekomimist/nvpix/internal/ui"
	"github.com/nekomimist/nvpix/internal/viewer"
)

// textureCacheSize bounds the frames kept uploaded to the GPU.
const textureCacheSize = 8

const windowTitle = "nvpix"

// Game adapts the viewer to ebiten's Update/Draw loop. Frames are produced
// only when input arrives, the widget tree is dirty, or the viewer asks to be
// woken.
type Game struct {
	viewer  *viewer.Viewer
	input   *InputHandler
	surface *surface.Ebiten
	logger  *zap.Logger

	cmds []ui.DrawCommand

	width, height int
	lastUpdate    time.Time
	wake          *time.Timer

	fullscreen       bool
	savedWinW        int
	savedWinH        int
	windowW, windowH int
}

// NewGame wires v to an ebiten window.
func NewGame(v *viewer.Viewer, cfg config.Config, logger *zap.Logger) (*Game, error) {
	surf, err := surface.NewEbiten(textureCacheSize)
	if err != nil {
		return nil, err
	}
	g := &Game{
		viewer:  v,
		input:   NewInputHandler(cfg),
		surface: surf,
		logger:  logger.Named("app"),
		windowW: cfg.WindowWidth,
		windowH: cfg.WindowHeight,
	}
	prev := v.OnStateChange
	v.OnStateChange = func(from, to viewer.State) {
		if prev != nil {
			prev(from, to)
		}
		ebiten.SetWindowTitle(g.title())
	}
	v.SetFullscreen(cfg.Fullscreen)
	return g, nil
}

func (g *Game) title() string {
	p, ok := g.viewer.Current()
	if !ok {
		return windowTitle
	}
	return p.Name() + " - " + windowTitle
}

// Run opens the window and blocks until the viewer asks to exit or the window
// is closed.
func (g *Game) Run() error {
	ebiten.SetWindowTitle(g.title())
	ebiten.SetWindowSize(g.windowW, g.windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFPSMode(ebiten.FPSModeVsyncOffMinimum)
	defer func() {
		if g.wake != nil {
			g.wake.Stop()
		}
		g.surface.Purge()
	}()
	return ebiten.RunGame(g)
}

// WindowSize returns the last windowed size, also while fullscreen.
func (g *Game) WindowSize() (int, int) {
	if g.fullscreen {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			return g.savedWinW, g.savedWinH
		}
		return g.windowW, g.windowH
	}
	return g.windowW, g.windowH
}

func (g *Game) Update() error {
	now := time.Now()
	dt := time.Duration(0)
	if !g.lastUpdate.IsZero() {
		dt = now.Sub(g.lastUpdate)
	}
	g.lastUpdate = now

	engine := g.viewer.Engine()
	engine.SetSize(float64(g.width), float64(g.height))
	g.input.HandleInput(engine, g.viewer, now)
	g.viewer.Tick(dt)

	g.syncFullscreen()
	if !g.fullscreen {
		g.windowW, g.windowH = ebiten.WindowSize()
	}
	if g.viewer.ExitRequested() {
		return ebiten.Termination
	}

	if d, ok := g.viewer.NextWake(); ok {
		g.schedule(d)
	}
	return nil
}

// schedule requests another frame after d, replacing any pending request.
func (g *Game) schedule(d time.Duration) {
	if g.wake == nil {
		g.wake = time.AfterFunc(d, ebiten.ScheduleFrame)
		return
	}
	g.wake.Reset(d)
}

func (g *Game) syncFullscreen() {
	want := g.viewer.Fullscreen()
	if want == g.fullscreen {
		return
	}
	g.fullscreen = want
	if want {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if g.savedWinW > 0 && g.savedWinH > 0 {
		ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	engine := g.viewer.Engine()
	if g.cmds == nil || engine.NeedsRedraw() {
		g.cmds = engine.Redraw()
	}
	g.surface.SetTarget(screen)
	g.surface.Render(g.cmds)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
