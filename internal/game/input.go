package game

import (
	"github.com/plus3/tileproto/ecs"
)

// InputMode selects how the player responds to a key press.
type InputMode int

const (
	// InputStep moves the player's Transform by a fixed step.
	InputStep InputMode = iota
	// InputImpulse queues an impulse for the physics system.
	InputImpulse
)

type InputSettings struct {
	Mode     InputMode
	StepSize float64
	Impulse  float64
}

func DefaultInputSettings() InputSettings {
	return InputSettings{Mode: InputStep, StepSize: 64, Impulse: 2000}
}

// InputSystem consumes at most one key press per tick and applies it to every
// player.
type InputSystem struct {
	Players ecs.Query[struct {
		*Player
		*Transform
	}]
	Keys   ecs.Singleton[KeyPressEvents]
	Forces ecs.Singleton[Forces]

	Settings InputSettings
}

func NewInputSystem(settings InputSettings) *InputSystem {
	return &InputSystem{Settings: settings}
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	keys := s.Keys.Get()
	if keys == nil {
		return
	}
	key, ok := keys.Pop()
	if !ok {
		return
	}
	dx, dy := key.Direction()
	if dx == 0 && dy == 0 {
		return
	}

	switch s.Settings.Mode {
	case InputImpulse:
		forces := s.Forces.Get()
		if forces == nil {
			return
		}
		for id := range s.Players.Iter() {
			forces.Add(id, dx*s.Settings.Impulse, dy*s.Settings.Impulse)
		}
	default:
		for item := range s.Players.Values() {
			item.Transform.X += dx * s.Settings.StepSize
			item.Transform.Y += dy * s.Settings.StepSize
		}
	}
}
