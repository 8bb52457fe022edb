package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/tileproto/internal/game"
)

// TranslateKey maps arrow keys to game keys; every other key is KeyUnknown.
func TranslateKey(key ebiten.Key) game.Key {
	switch key {
	case ebiten.KeyArrowLeft:
		return game.KeyLeft
	case ebiten.KeyArrowRight:
		return game.KeyRight
	case ebiten.KeyArrowUp:
		return game.KeyUp
	case ebiten.KeyArrowDown:
		return game.KeyDown
	}
	return game.KeyUnknown
}

// pressedKeys appends the keys pressed since the previous tick to buf.
// Escape is reported separately and never forwarded.
func pressedKeys(buf []ebiten.Key) (keys []ebiten.Key, quit bool) {
	for _, k := range inpututil.AppendJustPressedKeys(buf[:0]) {
		if k == ebiten.KeyEscape {
			quit = true
			continue
		}
		keys = append(keys, k)
	}
	return keys, quit
}
