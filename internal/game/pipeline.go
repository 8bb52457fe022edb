package game

import (
	"image/color"

	"github.com/jakecoffman/cp"
	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/internal/config"
	"go.uber.org/zap"
)

type Settings struct {
	Input   InputSettings
	Physics PhysicsSettings
	Display DisplaySettings
	Player  PlayerSettings
}

func DefaultSettings() Settings {
	return Settings{
		Input:   DefaultInputSettings(),
		Physics: DefaultPhysicsSettings(),
		Display: DisplaySettings{
			DisplayScale: 0.5,
			UnitScale:    1,
			Background:   color.RGBA{0, 0, 0, 255},
		},
		Player: DefaultPlayerSettings(),
	}
}

// SettingsFromConfig converts a validated config.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{
		Input: InputSettings{
			Mode:     InputStep,
			StepSize: cfg.Input.StepSize,
			Impulse:  cfg.Input.Impulse,
		},
		Physics: PhysicsSettings{
			Gravity:   cp.Vector{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY},
			TimeScale: cfg.Physics.TimeScale,
		},
		Display: DisplaySettings{
			DisplayScale: cfg.Render.DisplayScale,
			UnitScale:    cfg.Render.UnitScale,
			Background:   rgba(cfg.Render.Background),
		},
		Player: PlayerSettings{
			X:           cfg.Player.X,
			Y:           cfg.Player.Y,
			Width:       cfg.Player.Width,
			Height:      cfg.Player.Height,
			Colour:      rgba(cfg.Player.Colour),
			Density:     cfg.Player.Density,
			Friction:    cfg.Player.Friction,
			Restitution: cfg.Player.Restitution,
		},
	}
	if cfg.Input.Mode == "impulse" {
		s.Input.Mode = InputImpulse
	}
	return s
}

func rgba(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// Pipeline is the storage, resources and Input → Physics → Render schedule
// of one game world. Platform code pushes events and calls Tick.
type Pipeline struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler
	Input     *InputSystem
	Physics   *PhysicsSystem
	Render    *RenderSystem
}

// NewPipeline installs the game resources into storage and registers the
// systems. The storage's registry must already hold the game components.
func NewPipeline(storage *ecs.Storage, settings Settings, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}

	storage.AddSingleton(KeyPressEvents{})
	storage.AddSingleton(RenderEvents{})
	storage.AddSingleton(NewForces())
	storage.AddSingleton(settings.Display)
	storage.AddSingleton(NewPhysicsWorld(settings.Physics))

	p := &Pipeline{
		Storage:   storage,
		Scheduler: ecs.NewScheduler(storage),
		Input:     NewInputSystem(settings.Input),
		Physics:   NewPhysicsSystem(settings.Physics, logger),
		Render:    NewRenderSystem(),
	}
	p.Scheduler.Register(p.Input)
	p.Scheduler.Register(p.Physics)
	p.Scheduler.Register(p.Render)

	logger.Debug("pipeline ready",
		zap.Int("input_mode", int(settings.Input.Mode)),
		zap.Float64("gravity_y", settings.Physics.Gravity.Y),
		zap.Float64("display_scale", settings.Display.DisplayScale),
	)
	return p
}

// PushKey queues a key press for the next tick.
func (p *Pipeline) PushKey(key Key) {
	var events *KeyPressEvents
	if p.Storage.ReadSingleton(&events) {
		events.Push(key)
	}
}

// PushRender queues a render event for the next tick.
func (p *Pipeline) PushRender(ev RenderEvent) {
	var events *RenderEvents
	if p.Storage.ReadSingleton(&events) {
		events.Push(ev)
	}
}

// Tick runs one scheduler pass.
func (p *Pipeline) Tick(dt float64) {
	p.Scheduler.Once(dt)
}

// BodyCount returns the number of live physics bodies.
func (p *Pipeline) BodyCount() int {
	var world *PhysicsWorld
	if !p.Storage.ReadSingleton(&world) {
		return 0
	}
	return world.Bodies.Len()
}
