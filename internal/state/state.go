// Package state holds the single shared modal-state record the router (T1)
// mutates and the movement engine (T2) snapshots (spec §3, §5).
package state

import (
	"sync"
	"time"
)

// PendingCtrl tags a Control press not yet emitted to the virtual keyboard
// sink, awaiting disambiguation (spec §3, §4.D, Glossary "Pending Control").
type PendingCtrl int

const (
	PendingNone PendingCtrl = iota
	PendingLeft
	PendingRight
)

// DoublePressWindow is the Ctrl-toggle and Alt-panel double-press threshold
// (spec §6).
const DoublePressWindow = 300 * time.Millisecond

// AutoscrollFeedbackDebounce is the minimum gap between two "Autoscroll OFF"
// popups raised by the autoscroll-cancel guard (spec §3, §6).
const AutoscrollFeedbackDebounce = 800 * time.Millisecond

// AppState is the single shared modal-state record. All mutation happens on
// the router goroutine (T1) under Mu, except MovementStartTime, which the
// movement engine (T2) updates through MovementStart. T2 otherwise takes Mu
// only to copy a Snapshot, and releases it before any I/O (spec §5).
type AppState struct {
	Mu sync.Mutex

	CtrlPressed  bool
	AltPressed   bool
	ShiftPressed bool

	MouseMode bool

	Directions [numDirections]bool
	ScrollUp   bool
	ScrollDown bool

	AutoscrollUp   bool
	AutoscrollDown bool

	LeftButtonHeld   bool
	DragLocked       bool
	DragPopupVisible bool

	LastCtrlPressTime time.Time
	LastAltPressTime  time.Time

	PendingCtrl   PendingCtrl
	ForwardedCtrl map[int]bool // evdev key code -> forwarded-as-press

	MovementStartTime time.Time

	AdjustStartTimes map[int]time.Time

	LastAutoscrollFeedbackTime time.Time

	PanelActive    bool
	SelectedParam  int
	PanelOpenX     int
	PanelOpenY     int
}

// New returns a zeroed AppState ready to use.
func New() *AppState {
	return &AppState{
		ForwardedCtrl:    make(map[int]bool),
		AdjustStartTimes: make(map[int]time.Time),
	}
}

// Snapshot is the consistent, lock-free copy the movement engine works from
// after releasing Mu (spec §4.E step 1, §5).
type Snapshot struct {
	Directions     [numDirections]bool
	ScrollUp       bool
	ScrollDown     bool
	AutoscrollUp   bool
	AutoscrollDown bool
	CtrlPressed    bool
	MouseMode      bool
}

// Snapshot copies the fields the movement engine needs under the lock, then
// returns — the caller must not hold Mu afterward.
func (s *AppState) Snapshot() Snapshot {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return Snapshot{
		Directions:     s.Directions,
		ScrollUp:       s.ScrollUp,
		ScrollDown:     s.ScrollDown,
		AutoscrollUp:   s.AutoscrollUp,
		AutoscrollDown: s.AutoscrollDown,
		CtrlPressed:    s.CtrlPressed,
		MouseMode:      s.MouseMode,
	}
}

// AnyDirectionLatched reports whether any of the eight direction latches in
// the snapshot are set.
func (s Snapshot) AnyDirectionLatched() bool {
	for _, d := range s.Directions {
		if d {
			return true
		}
	}
	return false
}

// ClearAutoscroll clears both autoscroll latches, preserving the invariant
// that at most one is ever true (spec §8).
func (s *AppState) ClearAutoscroll() {
	s.AutoscrollUp = false
	s.AutoscrollDown = false
}

// SetAutoscroll latches exactly one autoscroll direction, clearing the other
// (spec §3: "mutually exclusive; at most one true").
func (s *AppState) SetAutoscroll(up bool) {
	s.AutoscrollUp = up
	s.AutoscrollDown = !up
}

// ClearDirectionsAndScroll drops every numpad direction and scroll latch,
// without touching autoscroll or button/drag state.
func (s *AppState) ClearDirectionsAndScroll() {
	s.ClearDirections()
	s.ScrollUp = false
	s.ScrollDown = false
}

// ClearDirections drops every numpad direction latch. Called before latching
// a fresh direction while Ctrl is held, collapsing jump mode to the single
// most-recently-touched direction (mirrors the original's memset of the
// numpad-direction array on every Ctrl-held numpad-direction event).
func (s *AppState) ClearDirections() {
	s.Directions = [numDirections]bool{}
}

// MovementStart updates MovementStartTime for the current tick and returns
// its value: held==true arms it on the rising edge (leaving an
// already-armed timestamp untouched so the acceleration ramp keeps
// counting from the first tick), held==false clears it. Called by the
// movement engine once per tick under Mu (spec §4.E step 4).
func (s *AppState) MovementStart(held bool, now time.Time) time.Time {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if !held {
		s.MovementStartTime = time.Time{}
		return time.Time{}
	}
	if s.MovementStartTime.IsZero() {
		s.MovementStartTime = now
	}
	return s.MovementStartTime
}

// ClearForModeOff is invoked when mouse mode toggles from on to off. Only
// autoscroll is dropped here; numpad-direction and scroll latches survive a
// mode toggle (spec §9).
func (s *AppState) ClearForModeOff() {
	s.ClearAutoscroll()
}

// ClearForPanelOpen is invoked when the adjustment panel activates (spec
// §4.H: "On panel show: clear all numpad and scroll latches, clear
// autoscroll, release any held left button and hide drag popup"). Button
// release and popup hiding are performed by the caller, which owns the
// sink/UI handles this package does not.
func (s *AppState) ClearForPanelOpen() {
	s.ClearDirectionsAndScroll()
	s.ClearAutoscroll()
}
