// Command tick-bench drives the game pipeline headless against a generated
// map and prints a markdown report.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"math/rand"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/pkg/profile"
	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/internal/config"
	"github.com/plus3/tileproto/internal/game"
	"github.com/plus3/tileproto/internal/logging"
	"github.com/plus3/tileproto/internal/tilemap"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the benchmark should run for.")
	mode := flag.String("mode", "loop", "loop ticks back to back; ticker uses Scheduler.Run at -interval")
	interval := flag.Duration("interval", time.Second/60, "tick interval in ticker mode")
	width := flag.Int("width", 200, "generated map width in tiles")
	height := flag.Int("height", 100, "generated map height in tiles")
	players := flag.Int("players", 16, "number of player entities")
	impulse := flag.Bool("impulse", false, "use impulse input with dynamic players")
	noGravity := flag.Bool("no-gravity", false, "disable gravity")
	seed := flag.Int64("seed", 1, "random seed for the map and key presses")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	logLevel := flag.String("log-level", "info", "zap log level")
	flag.Parse()

	logger, err := logging.New(config.LoggingConfig{Level: *logLevel, Format: "console"})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	switch *profileMode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "":
	default:
		return fmt.Errorf("unknown profile mode %q", *profileMode)
	}

	rng := rand.New(rand.NewSource(*seed))

	// 1. Setup registry, storage and pipeline
	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	settings := game.DefaultSettings()
	if *impulse {
		settings.Input.Mode = game.InputImpulse
	}
	if *noGravity {
		settings.Physics.Gravity = cp.Vector{}
	}
	pipeline := game.NewPipeline(storage, settings, logger)

	// 2. Populate storage with the generated map and players
	m, err := tilemap.Parse([]byte(generateMap(rng, *width, *height)))
	if err != nil {
		return fmt.Errorf("generated map: %w", err)
	}
	if err := m.LoadAtlases(".", func(string) (game.Texture, error) { return benchTexture{}, nil }); err != nil {
		return err
	}
	tiles, err := m.Spawn(storage)
	if err != nil {
		return fmt.Errorf("spawn map: %w", err)
	}
	for i := 0; i < *players; i++ {
		ps := settings.Player
		ps.X = float64(rng.Intn(*width) * 16)
		ps.Y = 0
		if *impulse {
			ps.Density = 1
		}
		game.SpawnPlayer(storage, ps)
	}
	logger.Info("world populated", zap.Int("tiles", tiles), zap.Int("players", *players))

	// 3. Run the simulation
	inputMode := "step"
	if *impulse {
		inputMode = "impulse"
	}
	report := &Report{
		Duration:       *duration,
		Mode:           *mode,
		MapWidth:       *width,
		MapHeight:      *height,
		Tiles:          tiles,
		Players:        *players,
		InputMode:      inputMode,
		GravityOff:     *noGravity,
		GCPauseMetrics: *gcPauseMetrics,
	}

	canvas := &countingCanvas{}
	feeder := &feedSystem{rng: rng, canvas: canvas, pipeline: pipeline}
	feeder.feed(1.0 / 60)

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running", zap.Duration("duration", *duration), zap.String("mode", *mode))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	switch *mode {
	case "ticker":
		pipeline.Scheduler.Register(feeder)
		pipeline.Scheduler.Run(ctx, *interval)
		report.TotalUpdates = int64(pipeline.Scheduler.Ticks())
	case "loop":
		report.UpdateTime.Samples = runLoop(ctx, pipeline, feeder)
		report.TotalUpdates = int64(len(report.UpdateTime.Samples))
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}

	report.TotalTime = time.Since(startTime)
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Bodies = pipeline.BodyCount()
	report.Sprites = canvas.sprites
	report.Rects = canvas.rects
	report.Systems = pipeline.Scheduler.GetStats().Systems

	logger.Info("benchmark finished", zap.Int64("ticks", report.TotalUpdates))

	// 4. Generate report to console
	if err := report.Generate(os.Stdout); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	return nil
}

func runLoop(ctx context.Context, pipeline *game.Pipeline, feeder *feedSystem) []time.Duration {
	var samples []time.Duration
	lastFrameTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return samples
		default:
			deltaTime := time.Since(lastFrameTime).Seconds()
			lastFrameTime = time.Now()

			updateStart := time.Now()
			pipeline.Tick(deltaTime)
			samples = append(samples, time.Since(updateStart))

			feeder.feed(1.0 / 60)
		}
	}
}

// feedSystem queues the next tick's key press and render event. In ticker
// mode it is registered last so it runs after the render system.
type feedSystem struct {
	rng      *rand.Rand
	canvas   *countingCanvas
	pipeline *game.Pipeline
}

func (f *feedSystem) Execute(frame *ecs.UpdateFrame) {
	f.feed(frame.DeltaTime)
}

var benchKeys = []game.Key{game.KeyLeft, game.KeyRight, game.KeyUp, game.KeyDown, game.KeyUnknown}

func (f *feedSystem) feed(dt float64) {
	if f.rng.Intn(4) == 0 {
		f.pipeline.PushKey(benchKeys[f.rng.Intn(len(benchKeys))])
	}
	f.pipeline.PushRender(game.RenderEvent{DeltaTime: min(dt, 0.25), Width: 1280, Height: 720, Canvas: f.canvas})
}

// generateMap builds a descriptor with a solid floor and random platforms.
func generateMap(rng *rand.Rand, width, height int) string {
	var b strings.Builder
	fmt.Fprintf(&b, `width: %d
height: %d
tilesets:
  - firstgid: 1
    name: bench
    tilewidth: 16
    tileheight: 16
    image: bench.png
    imagewidth: 64
    imageheight: 32
    tiles:
      - id: 1
        properties: {shape: rect}
layers:
  - name: ground
    data:
`, width, height)
	for row := 0; row < height; row++ {
		b.WriteString("      - [")
		for col := 0; col < width; col++ {
			if col > 0 {
				b.WriteString(", ")
			}
			gid := 0
			switch {
			case row == height-1:
				gid = 2
			case rng.Intn(10) == 0:
				gid = 1 + rng.Intn(8)
			}
			b.WriteString(strconv.Itoa(gid))
		}
		b.WriteString("]\n")
	}
	return b.String()
}

type benchTexture struct{}

func (benchTexture) Bounds() image.Rectangle { return image.Rect(0, 0, 64, 32) }

type countingCanvas struct {
	clears  int64
	sprites int64
	rects   int64
}

func (c *countingCanvas) Clear(color.RGBA) { c.clears++ }

func (c *countingCanvas) DrawSprite(game.Texture, image.Rectangle, float64, float64, float64) {
	c.sprites++
}

func (c *countingCanvas) FillRect(float64, float64, float64, float64, color.RGBA) { c.rects++ }
