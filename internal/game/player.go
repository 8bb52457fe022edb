package game

import (
	"image/color"

	"github.com/plus3/tileproto/ecs"
)

type PlayerSettings struct {
	X, Y          float64
	Width, Height float64
	Colour        color.RGBA
	// Density above zero gives the player a dynamic body.
	Density     float64
	Friction    float64
	Restitution float64
}

func DefaultPlayerSettings() PlayerSettings {
	return PlayerSettings{
		Width:  64,
		Height: 64,
		Colour: color.RGBA{255, 0, 0, 255},
	}
}

// SpawnPlayer creates the player entity.
func SpawnPlayer(storage *ecs.Storage, settings PlayerSettings) ecs.EntityId {
	b := storage.Build().
		With(Player{}).
		With(Transform{X: settings.X, Y: settings.Y}).
		With(RenderRect{Width: settings.Width, Height: settings.Height, Colour: settings.Colour})

	if settings.Density > 0 {
		b.With(RigidBodyDescriptor{
			HalfWidth:   settings.Width / 2,
			HalfHeight:  settings.Height / 2,
			Density:     settings.Density,
			Friction:    settings.Friction,
			Restitution: settings.Restitution,
		})
	}
	return b.Commit()
}
