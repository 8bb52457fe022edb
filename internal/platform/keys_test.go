package platform_test

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/tileproto/internal/game"
	"github.com/plus3/tileproto/internal/platform"
	"github.com/stretchr/testify/assert"
)

func TestTranslateKey(t *testing.T) {
	tests := map[ebiten.Key]game.Key{
		ebiten.KeyArrowLeft:  game.KeyLeft,
		ebiten.KeyArrowRight: game.KeyRight,
		ebiten.KeyArrowUp:    game.KeyUp,
		ebiten.KeyArrowDown:  game.KeyDown,
		ebiten.KeyA:          game.KeyUnknown,
		ebiten.KeySpace:      game.KeyUnknown,
		ebiten.KeyEscape:     game.KeyUnknown,
	}
	for in, want := range tests {
		assert.Equal(t, want, platform.TranslateKey(in), in.String())
	}
}
