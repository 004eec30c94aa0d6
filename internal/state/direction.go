package state

import "github.com/gvalkov/golang-evdev"

// Direction indexes the eight numpad direction latches (spec §3).
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	UpLeft
	UpRight
	DownLeft
	DownRight
	numDirections
)

// DirectionForKey maps a bare numpad key code to the direction it latches,
// and reports whether the code is a directional key at all.
func DirectionForKey(code uint16) (Direction, bool) {
	switch code {
	case evdev.KEY_KP8:
		return Up, true
	case evdev.KEY_KP2:
		return Down, true
	case evdev.KEY_KP4:
		return Left, true
	case evdev.KEY_KP6:
		return Right, true
	case evdev.KEY_KP7:
		return UpLeft, true
	case evdev.KEY_KP9:
		return UpRight, true
	case evdev.KEY_KP1:
		return DownLeft, true
	case evdev.KEY_KP3:
		return DownRight, true
	default:
		return 0, false
	}
}

// Axis returns the unit (dx, dy) contribution of the direction, before any
// step-size scaling. Diagonals get their true per-axis weight applied by
// the caller (spec §4.E: round(step * 0.7071) per axis).
func (d Direction) Axis() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case UpLeft:
		return -1, -1
	case UpRight:
		return 1, -1
	case DownLeft:
		return -1, 1
	case DownRight:
		return 1, 1
	default:
		return 0, 0
	}
}

// IsDiagonal reports whether the direction combines two axes.
func (d Direction) IsDiagonal() bool {
	switch d {
	case UpLeft, UpRight, DownLeft, DownRight:
		return true
	default:
		return false
	}
}
