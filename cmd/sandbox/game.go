package main

import (
	"fmt"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/swingkit/component"
	"github.com/milk9111/swingkit/prefabs"
	"github.com/milk9111/swingkit/sim"
	"go.uber.org/zap"
	"golang.design/x/clipboard"
	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"
)

const (
	baseWidth  = 1280
	baseHeight = 720
	frameRate  = 60

	statusFrames = 2 * frameRate
)

type Game struct {
	frames int

	sim        *sim.Simulation
	src        *deviceSource
	cam        camera
	colors     overlayColors
	playerFile string
	debug      bool

	paused  bool
	quit    bool
	pauseUI *ebitenui.UI

	log       *zap.Logger
	watcher   *prefabs.Watcher
	clipboard bool

	status      string
	statusUntil int
}

func NewGame(s *sim.Simulation, playerFile string, debug bool, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		sim:        s,
		src:        newDeviceSource(),
		cam:        fitCamera(s.Level().Bounds(), baseWidth, baseHeight),
		colors:     colorsFromSpec(s.Spec().Debug),
		playerFile: playerFile,
		debug:      debug,
		log:        log,
	}
	g.pauseUI = NewPauseUI(g)
	if err := clipboard.Init(); err != nil {
		log.Warn("clipboard unavailable", zap.Error(err))
	} else {
		g.clipboard = true
	}
	return g
}

// Watch reloads the player spec whenever a prefab file in dir changes.
func (g *Game) Watch(dir string) error {
	if dir == "" {
		return fmt.Errorf("sandbox: no prefab directory")
	}
	w, err := prefabs.NewWatcher(g.log.Named("watch"), dir)
	if err != nil {
		return fmt.Errorf("sandbox: watch %s: %w", dir, err)
	}
	g.watcher = w
	g.log.Info("watching prefabs", zap.String("dir", dir))
	return nil
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	g.frames++
	if g.quit {
		return ebiten.Termination
	}

	g.pollReload()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF1):
		g.debug = !g.debug
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		g.copySnapshot()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.sim.Respawn()
		g.flash("respawned")
	case inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.toggleModel()
	}

	g.src.poll(g.cam)
	g.sim.Frame(g.src, 1/float64(ebiten.TPS()))
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(name)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watch error", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	if filepath.Base(path) != filepath.Base(g.playerFile) {
		return
	}
	spec, err := prefabs.LoadPlayerSpecFile(g.playerFile)
	if err != nil {
		g.log.Warn("player reload failed", zap.Error(err))
		g.flash("reload failed: " + err.Error())
		return
	}
	if err := g.sim.ApplySpec(*spec); err != nil {
		g.flash("reload failed: " + err.Error())
		return
	}
	g.colors = colorsFromSpec(spec.Debug)
	g.flash("reloaded " + filepath.Base(path))
}

func (g *Game) toggleModel() {
	spec := g.sim.Spec()
	if component.GrappleModel(spec.Grapple.Model) == component.GrappleModelPull {
		spec.Grapple.Model = string(component.GrappleModelConstraint)
	} else {
		spec.Grapple.Model = string(component.GrappleModelPull)
	}
	if err := g.sim.ApplySpec(spec); err != nil {
		g.flash("model switch failed: " + err.Error())
		return
	}
	g.flash("grapple model: " + spec.Grapple.Model)
}

func (g *Game) copySnapshot() {
	if !g.clipboard {
		g.flash("clipboard unavailable")
		return
	}
	data, err := yaml.Marshal(g.sim.Snapshot())
	if err != nil {
		g.log.Error("marshal snapshot", zap.Error(err))
		return
	}
	clipboard.Write(clipboard.FmtText, data)
	g.flash("snapshot copied")
}

func (g *Game) flash(msg string) {
	g.status = msg
	g.statusUntil = g.frames + statusFrames
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	drawSpace(screen, g.cam, g.sim.World(), g.colors)
	if g.debug {
		drawCharacterDebug(screen, g.cam, g.sim, g.src.Pointer(), g.colors)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f    [Esc] pause [F1] overlay [F9] copy [R] respawn [Tab] model", g.frames, ebiten.ActualFPS()))
	if g.status != "" && g.frames < g.statusUntil {
		ebitenutil.DebugPrintAt(screen, g.status, 10, baseHeight-24)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
