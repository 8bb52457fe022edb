package game

// Key is a platform-independent key press.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	default:
		return "unknown"
	}
}

// Direction returns the unit vector for arrow keys and (0, 0) otherwise.
// Y grows downwards.
func (k Key) Direction() (dx, dy float64) {
	switch k {
	case KeyLeft:
		return -1, 0
	case KeyRight:
		return 1, 0
	case KeyUp:
		return 0, -1
	case KeyDown:
		return 0, 1
	}
	return 0, 0
}
