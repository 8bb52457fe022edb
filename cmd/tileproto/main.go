package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/ecs/debugui"
	debugui_ebiten "github.com/plus3/tileproto/ecs/debugui/ebiten"
	"github.com/plus3/tileproto/internal/config"
	"github.com/plus3/tileproto/internal/game"
	"github.com/plus3/tileproto/internal/logging"
	"github.com/plus3/tileproto/internal/platform"
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
	configPath := flag.String("config", envOr("TILEPROTO_CONFIG", "config/tileproto.toml"), "path to the TOML config")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *profileMode != "" {
		cfg.Debug.Profile = *profileMode
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if stop := startProfile(cfg.Debug.Profile); stop != nil {
		defer stop()
	}

	// With the overlay on, the ImGui backend creates the window.
	var imguiBackend *debugui_ebiten.ImguiBackend
	if cfg.Debug.Imgui {
		imguiBackend = debugui_ebiten.NewImguiBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	}

	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	debugui.RegisterComponents(registry)
	storage := ecs.NewStorage(registry)

	tiles, err := tilemap.Load(cfg.Assets.Map, platform.LoadTexture, logger)
	if err != nil {
		return err
	}
	count, err := tiles.Spawn(storage)
	if err != nil {
		return fmt.Errorf("spawn map %s: %w", cfg.Assets.Map, err)
	}

	settings := game.SettingsFromConfig(cfg)
	pipeline := game.NewPipeline(storage, settings, logger)
	game.SpawnPlayer(storage, settings.Player)

	logger.Info("world ready",
		zap.Int("tiles", count),
		zap.String("input_mode", cfg.Input.Mode),
		zap.Float64("player_density", cfg.Player.Density),
	)

	opts := platform.Options{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		TPS:    cfg.Window.TPS,
		Imgui:  imguiBackend,
	}
	if imguiBackend.Enabled() {
		opts.Overlay = ecs.NewScheduler(storage)
		debugui.Install(storage, opts.Overlay,
			debugui.NewPerformanceStats(storage, pipeline.Scheduler, 120,
				debugui.Gauge{Label: "Physics Bodies", Value: pipeline.BodyCount},
			),
			debugui.NewEntityBrowser(storage, 100),
		)
	}

	return platform.NewGame(pipeline, opts, logger).Run()
}

func startProfile(mode string) func() {
	var p interface{ Stop() }
	switch mode {
	case "cpu":
		p = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
	case "mem":
		p = profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	default:
		return nil
	}
	return p.Stop
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
