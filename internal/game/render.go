package game

import (
	"image"

	"github.com/plus3/tileproto/ecs"
)

// RenderSystem consumes at most one render event per tick and draws the
// world onto its canvas: background, then every tile sprite, then every
// rectangle.
type RenderSystem struct {
	Sprites ecs.Query[struct {
		*Transform
		*Tile
	}]
	Rects ecs.Query[struct {
		*Transform
		*RenderRect
	}]
	Events  ecs.Singleton[RenderEvents]
	Display ecs.Singleton[DisplaySettings]

	frames uint64
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	events := s.Events.Get()
	if events == nil {
		return
	}
	ev, ok := events.Pop()
	if !ok || ev.Canvas == nil {
		return
	}

	display := DisplaySettings{DisplayScale: 1, UnitScale: 1}
	if d := s.Display.Get(); d != nil {
		display = *d
	}
	scale := display.DisplayScale
	toScreen := display.UnitScale * scale

	canvas := ev.Canvas
	canvas.Clear(display.Background)

	for item := range s.Sprites.Values() {
		tile := item.Tile
		if tile.Atlas == nil || tile.Atlas.Texture == nil {
			continue
		}
		src := image.Rect(
			int(tile.SrcX), int(tile.SrcY),
			int(tile.SrcX+tile.Width), int(tile.SrcY+tile.Height),
		)
		canvas.DrawSprite(tile.Atlas.Texture, src, item.Transform.X*toScreen, item.Transform.Y*toScreen, scale)
	}

	for item := range s.Rects.Values() {
		r := item.RenderRect
		canvas.FillRect(item.Transform.X*toScreen, item.Transform.Y*toScreen, r.Width*scale, r.Height*scale, r.Colour)
	}

	s.frames++
}

// Frames returns the number of frames drawn.
func (s *RenderSystem) Frames() uint64 {
	return s.frames
}
