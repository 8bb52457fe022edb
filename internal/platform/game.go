// Package platform runs the game pipeline inside an ebiten window.
package platform

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/ecs/debugui"
	debugui_ebiten "github.com/plus3/tileproto/ecs/debugui/ebiten"
	"github.com/plus3/tileproto/internal/game"
	"go.uber.org/zap"
)

// maxFrameDelta caps the time handed to physics after a stall.
const maxFrameDelta = 0.25

type Options struct {
	Title  string
	Width  int
	Height int
	TPS    int
	// Overlay is ticked once per Update between the ImGui frame calls. It
	// runs on the pipeline's storage. Nil disables the overlay.
	Overlay *ecs.Scheduler
	Imgui   *debugui_ebiten.ImguiBackend
}

// Game adapts a game.Pipeline to ebiten.Game. Update forwards key presses
// and ticks; Draw queues a render event holding the screen and ticks again.
type Game struct {
	pipeline *game.Pipeline
	opts     Options
	logger   *zap.Logger

	keys       []ebiten.Key
	inputState ecs.Singleton[debugui.ImguiInputState]
	lastDraw   time.Time
}

func NewGame(pipeline *game.Pipeline, opts Options, logger *zap.Logger) *Game {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.TPS <= 0 {
		opts.TPS = ebiten.DefaultTPS
	}
	g := &Game{
		pipeline: pipeline,
		opts:     opts,
		logger:   logger.Named("platform"),
	}
	g.inputState.Init(pipeline.Storage)
	return g
}

func (g *Game) Update() error {
	keys, quit := pressedKeys(g.keys)
	g.keys = keys
	if quit {
		return ebiten.Termination
	}

	captured := false
	if state := g.inputState.Get(); state != nil {
		captured = state.WantCaptureKeyboard
	}
	if !captured {
		for _, k := range keys {
			g.pipeline.PushKey(TranslateKey(k))
		}
	}

	dt := 1 / float64(g.opts.TPS)
	g.pipeline.Tick(dt)

	if g.opts.Overlay != nil {
		g.opts.Imgui.Begin()
		g.opts.Overlay.Once(dt)
		g.opts.Imgui.End()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	now := time.Now()
	dt := 1 / float64(g.opts.TPS)
	if !g.lastDraw.IsZero() {
		dt = min(now.Sub(g.lastDraw).Seconds(), maxFrameDelta)
	}
	g.lastDraw = now

	bounds := screen.Bounds()
	g.pipeline.PushRender(game.RenderEvent{
		DeltaTime: dt,
		Width:     bounds.Dx(),
		Height:    bounds.Dy(),
		Canvas:    ScreenCanvas{Screen: screen},
	})
	g.pipeline.Tick(dt)

	g.opts.Imgui.Overlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.opts.Imgui.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens the window and blocks until it closes or Escape is pressed.
func (g *Game) Run() error {
	if !g.opts.Imgui.Enabled() {
		ebiten.SetWindowSize(g.opts.Width, g.opts.Height)
		ebiten.SetWindowTitle(g.opts.Title)
	}
	ebiten.SetTPS(g.opts.TPS)

	g.logger.Info("window opened",
		zap.Int("width", g.opts.Width),
		zap.Int("height", g.opts.Height),
		zap.Int("tps", g.opts.TPS),
	)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		g.logger.Info("quit requested")
		return nil
	}
	return err
}
