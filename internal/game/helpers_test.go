package game_test

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/plus3/tileproto/ecs"
	"github.com/plus3/tileproto/internal/game"
)

type fakeTexture struct {
	w, h int
}

func (f fakeTexture) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.w, f.h)
}

// recordingCanvas logs every draw call as a short string.
type recordingCanvas struct {
	ops []string
}

func (c *recordingCanvas) Clear(colour color.RGBA) {
	c.ops = append(c.ops, fmt.Sprintf("clear %d,%d,%d,%d", colour.R, colour.G, colour.B, colour.A))
}

func (c *recordingCanvas) DrawSprite(texture game.Texture, src image.Rectangle, x, y, scale float64) {
	c.ops = append(c.ops, fmt.Sprintf("sprite %v at %g,%g x%g", src, x, y, scale))
}

func (c *recordingCanvas) FillRect(x, y, width, height float64, colour color.RGBA) {
	c.ops = append(c.ops, fmt.Sprintf("rect %g,%g %gx%g", x, y, width, height))
}

func newPipeline(t *testing.T, modify ...func(*game.Settings)) *game.Pipeline {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	game.RegisterComponents(registry)
	settings := game.DefaultSettings()
	for _, m := range modify {
		m(&settings)
	}
	return game.NewPipeline(ecs.NewStorage(registry), settings, nil)
}

func transformOf(t *testing.T, p *game.Pipeline, id ecs.EntityId) game.Transform {
	t.Helper()
	tr := ecs.ReadComponent[game.Transform](p.Storage, id)
	if tr == nil {
		t.Fatalf("entity %d has no Transform", id)
	}
	return *tr
}
