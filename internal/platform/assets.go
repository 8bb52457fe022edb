package platform

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/tileproto/internal/game"
)

// LoadTexture decodes the image at path into an ebiten image. It satisfies
// tilemap.TextureLoader.
func LoadTexture(path string) (game.Texture, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return img, nil
}
