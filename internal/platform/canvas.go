package platform

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/tileproto/internal/game"
)

// ScreenCanvas draws onto an ebiten image. Textures that are not
// *ebiten.Image are skipped.
type ScreenCanvas struct {
	Screen *ebiten.Image
}

func (c ScreenCanvas) Clear(colour color.RGBA) {
	c.Screen.Fill(colour)
}

func (c ScreenCanvas) DrawSprite(texture game.Texture, src image.Rectangle, x, y, scale float64) {
	img, ok := texture.(*ebiten.Image)
	if !ok {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	c.Screen.DrawImage(img.SubImage(src).(*ebiten.Image), op)
}

func (c ScreenCanvas) FillRect(x, y, width, height float64, colour color.RGBA) {
	vector.DrawFilledRect(c.Screen, float32(x), float32(y), float32(width), float32(height), colour, false)
}
