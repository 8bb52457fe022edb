package game

import (
	"image"
	"image/color"
)

// Texture is a drawable image. *ebiten.Image satisfies it.
type Texture interface {
	Bounds() image.Rectangle
}

// Canvas is the draw target handed to the render system with each render
// event. Coordinates are screen pixels.
type Canvas interface {
	Clear(colour color.RGBA)
	DrawSprite(texture Texture, src image.Rectangle, x, y, scale float64)
	FillRect(x, y, width, height float64, colour color.RGBA)
}
