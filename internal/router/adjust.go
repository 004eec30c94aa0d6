package router

import "github.com/gvalkov/golang-evdev"

// resolveAdjust maps an Alt-held key to the parameter it tunes and the
// step direction, per the Alt-adjustment binding table in spec §4.D.
// Single-key bindings (marked "+/-" in the table) have Shift invert the
// direction, generalizing the table's explicit "NumLock (Shift inverts)"
// note to every other single-key row.
func resolveAdjust(code uint16, shift, autoscrollActive bool) (param string, increase bool, ok bool) {
	switch code {
	case evdev.KEY_NUMLOCK:
		return "MOUSE_SPEED", !shift, true
	case evdev.KEY_KPASTERISK:
		return "MOVEMENT_INTERVAL_SLOW_MS", !shift, true
	case evdev.KEY_KPMINUS:
		return "MOVEMENT_INTERVAL_FAST_MS", !shift, true
	case evdev.KEY_KPSLASH:
		return "MOVEMENT_ACCELERATION_TIME", !shift, true
	case evdev.KEY_KP4:
		return "JUMP_HORIZONTAL", false, true
	case evdev.KEY_KP6:
		return "JUMP_HORIZONTAL", true, true
	case evdev.KEY_KP2:
		return "JUMP_VERTICAL", false, true
	case evdev.KEY_KP8:
		return "JUMP_VERTICAL", true, true
	case evdev.KEY_KP1, evdev.KEY_KP3:
		return "JUMP_DIAGONAL", false, true
	case evdev.KEY_KP7, evdev.KEY_KP9:
		return "JUMP_DIAGONAL", true, true
	case evdev.KEY_KP5:
		return "JUMP_MARGIN", !shift, true
	case evdev.KEY_KP0:
		return "JUMP_INTERVAL_MS", !shift, true
	case evdev.KEY_KPPLUS:
		if autoscrollActive {
			return "AUTOSCROLL_SPEED", true, true
		}
		return "SCROLL_SPEED", true, true
	case evdev.KEY_KPENTER:
		if autoscrollActive {
			return "AUTOSCROLL_SPEED", false, true
		}
		return "SCROLL_SPEED", false, true
	case evdev.KEY_KPDOT:
		if autoscrollActive {
			return "AUTOSCROLL_INTERVAL_MS", !shift, true
		}
		return "SCROLL_INTERVAL_MS", !shift, true
	default:
		return "", false, false
	}
}

// jumpPoint describes one Ctrl+Shift+numpad absolute-jump target as a
// per-axis sign: -1 (near edge + margin), 0 (center), 1 (far edge -
// margin).
type jumpPoint struct {
	hx, vy int
}

func jumpPointFor(code uint16) (jumpPoint, bool) {
	switch code {
	case evdev.KEY_KP7:
		return jumpPoint{-1, -1}, true
	case evdev.KEY_KP8:
		return jumpPoint{0, -1}, true
	case evdev.KEY_KP9:
		return jumpPoint{1, -1}, true
	case evdev.KEY_KP4:
		return jumpPoint{-1, 0}, true
	case evdev.KEY_KP5:
		return jumpPoint{0, 0}, true
	case evdev.KEY_KP6:
		return jumpPoint{1, 0}, true
	case evdev.KEY_KP1:
		return jumpPoint{-1, 1}, true
	case evdev.KEY_KP2:
		return jumpPoint{0, 1}, true
	case evdev.KEY_KP3:
		return jumpPoint{1, 1}, true
	default:
		return jumpPoint{}, false
	}
}

// kind classifies the jump for the overlay: pure horizontal, pure
// vertical, diagonal, or none (the center target, KP5).
func (jp jumpPoint) kind() JumpKind {
	switch {
	case jp.hx != 0 && jp.vy != 0:
		return JumpDiagonalKind
	case jp.hx != 0:
		return JumpHorizontalKind
	case jp.vy != 0:
		return JumpVerticalKind
	default:
		return JumpNone
	}
}

func coordFor(sign, dim, margin int) int {
	switch sign {
	case -1:
		return margin
	case 1:
		return dim - margin
	default:
		return dim / 2
	}
}

// autoscrollWhitelisted reports whether code is one of the adjustment keys
// the autoscroll-cancel guard must not fire for (spec §4.D: "modifiers and
// the adjustment keys that tune autoscroll parameters" — modifiers are
// already intercepted earlier in the chain, so only the KP+/KPEnter/KP.
// trio matters here). KP+/KPEnter are exempt only while they're tuning
// AUTOSCROLL_SPEED (Ctrl or Alt held); KP. is exempt only while tuning
// AUTOSCROLL_INTERVAL_MS (Alt held). A bare press of any of the three
// still cancels autoscroll, matching the guard condition in the original.
func autoscrollWhitelisted(code uint16, ctrlPressed, altPressed bool) bool {
	switch code {
	case evdev.KEY_KPPLUS, evdev.KEY_KPENTER:
		return ctrlPressed || altPressed
	case evdev.KEY_KPDOT:
		return altPressed
	default:
		return false
	}
}

// dragPreserved reports whether code may be pressed without auto-releasing
// a held left button (spec §4.D: "KP0, KPDOT, or either Ctrl/Shift"),
// extended to the eight directional latches, KP5 and the drag-lock toggle
// itself (KPSLASH) — without this extension, using the numpad to move the
// pointer while drag-locked, the feature's entire purpose, would
// immediately cancel the drag, and toggling the lock off via KPSLASH would
// race against this same guard. KP5 is kept so its press-and-hold stays a
// no-op while the drag is locked (see SPEC_FULL.md §9).
func dragPreserved(code uint16) bool {
	switch code {
	case evdev.KEY_KP0, evdev.KEY_KPDOT, evdev.KEY_KPSLASH,
		evdev.KEY_KP1, evdev.KEY_KP2, evdev.KEY_KP3, evdev.KEY_KP4,
		evdev.KEY_KP5, evdev.KEY_KP6, evdev.KEY_KP7, evdev.KEY_KP8, evdev.KEY_KP9:
		return true
	default:
		return false
	}
}
