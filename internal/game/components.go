package game

import (
	"image/color"

	"github.com/plus3/tileproto/ecs"
)

// Transform is an entity's position in world units.
type Transform struct {
	X, Y float64
}

// RenderRect draws a filled rectangle at the entity's Transform.
type RenderRect struct {
	Width, Height float64
	Colour        color.RGBA
}

// Tile draws a sub-rectangle of a shared atlas at the entity's Transform.
type Tile struct {
	SrcX, SrcY    float64
	Width, Height float64
	Atlas         *Atlas
}

// Atlas is one tileset image. Tiles share the pointer; nothing copies it.
type Atlas struct {
	Texture    Texture
	Path       string
	Width      int
	Height     int
	TileWidth  int
	TileHeight int
}

// TilesPerRow is the number of tiles across the atlas image.
func (a *Atlas) TilesPerRow() int {
	if a.TileWidth <= 0 {
		return 0
	}
	return a.Width / a.TileWidth
}

// Player marks the entities that respond to key presses.
type Player struct{}

// RigidBodyDescriptor requests a physics body for the entity. The physics
// system removes it once the body exists. Density 0 makes the body static.
type RigidBodyDescriptor struct {
	HalfWidth   float64
	HalfHeight  float64
	Density     float64
	Friction    float64
	Restitution float64
}

// RegisterComponents registers every component kind the game uses.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[RenderRect](registry)
	ecs.RegisterComponent[Tile](registry)
	ecs.RegisterComponent[Player](registry)
	ecs.RegisterComponent[RigidBodyDescriptor](registry)
}
