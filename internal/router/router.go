package router

import (
	"fmt"
	"time"

	"github.com/gvalkov/golang-evdev"

	"github.com/kat-daemon/katd/internal/config"
	"github.com/kat-daemon/katd/internal/input"
	"github.com/kat-daemon/katd/internal/logger"
	"github.com/kat-daemon/katd/internal/pointer"
	"github.com/kat-daemon/katd/internal/state"
)

// Router is the single-writer event router (T1, spec §5): HandleEvent must
// be called serially, one event fully processed (including emission and
// state mutation) before the next is read.
type Router struct {
	state   *state.AppState
	cfg     *config.Config
	sink    input.Sink
	backend pointer.Backend
	fb      Feedback
}

// New builds a Router over the shared state, config, virtual sink, pointer
// backend and feedback UI.
func New(st *state.AppState, cfg *config.Config, sink input.Sink, backend pointer.Backend, fb Feedback) *Router {
	if fb == nil {
		fb = NoopFeedback{}
	}
	return &Router{state: st, cfg: cfg, sink: sink, backend: backend, fb: fb}
}

// HandleEvent runs ev through the ordered dispatch chain from spec §4.D and
// returns the verdict. Must be called from a single goroutine.
func (r *Router) HandleEvent(ev input.RawEvent) Verdict {
	r.state.Mu.Lock()
	defer r.state.Mu.Unlock()

	if r.handleControl(ev) {
		return Consumed
	}
	if r.handleAlt(ev) {
		return Consumed
	}
	if r.handleShift(ev) {
		return Consumed
	}
	if r.handleEscapeInPanel(ev) {
		return Consumed
	}

	if r.state.MouseMode {
		return r.dispatchMouseMode(ev)
	}

	return r.forward(ev)
}

// --- Step 1: Control ---------------------------------------------------

func (r *Router) handleControl(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_LEFTCTRL && ev.Code != evdev.KEY_RIGHTCTRL {
		return false
	}
	switch ev.Value {
	case 1:
		r.onCtrlPress(ev.Code, ev.Time)
	case 0:
		r.onCtrlRelease(ev.Code)
	}
	return true
}

func (r *Router) onCtrlPress(code uint16, now time.Time) {
	prev := r.state.LastCtrlPressTime
	r.state.CtrlPressed = true

	if !prev.IsZero() && now.After(prev) && now.Sub(prev) < state.DoublePressWindow {
		r.toggleMouseMode()
		r.state.LastCtrlPressTime = time.Time{}
		return
	}
	r.state.PendingCtrl = pendingFor(code)
	r.state.LastCtrlPressTime = now
}

func (r *Router) onCtrlRelease(code uint16) {
	if r.state.ForwardedCtrl[int(code)] {
		r.sink.KeyUp(int(code))
		delete(r.state.ForwardedCtrl, int(code))
	}
	r.state.CtrlPressed = false
	r.state.PendingCtrl = state.PendingNone
}

func pendingFor(code uint16) state.PendingCtrl {
	if code == evdev.KEY_RIGHTCTRL {
		return state.PendingRight
	}
	return state.PendingLeft
}

func (r *Router) toggleMouseMode() {
	r.state.MouseMode = !r.state.MouseMode
	if r.state.MouseMode {
		r.fb.MarginOverlay(true, r.cfg.JumpMargin)
		r.showPopup("Mouse Mode ON")
		return
	}

	autoscrollWasOn := r.state.AutoscrollUp || r.state.AutoscrollDown
	r.state.ClearForModeOff()
	r.fb.MarginOverlay(false, 0)
	if autoscrollWasOn {
		r.showPopup("Mouse Mode and Autoscroll OFF")
	} else {
		r.showPopup("Mouse Mode OFF")
	}
}

// --- Step 2: Alt ---------------------------------------------------------

func (r *Router) handleAlt(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_LEFTALT && ev.Code != evdev.KEY_RIGHTALT {
		return false
	}

	switch ev.Value {
	case 1:
		now := ev.Time
		prev := r.state.LastAltPressTime
		r.state.AltPressed = true
		if r.state.MouseMode && !prev.IsZero() {
			d := now.Sub(prev)
			if d > 10*time.Millisecond && d < state.DoublePressWindow {
				r.openPanel()
			}
		}
		r.state.LastAltPressTime = now
	case 0:
		r.state.AltPressed = false
	}

	if !r.state.PanelActive {
		r.forward(ev)
	}
	return true
}

func (r *Router) openPanel() {
	r.state.ClearForPanelOpen()
	if r.state.LeftButtonHeld {
		r.sink.LeftUp()
		r.state.LeftButtonHeld = false
	}
	if r.state.DragPopupVisible {
		r.state.DragPopupVisible = false
		r.fb.DragPopupHide()
	}

	r.state.PanelActive = true
	r.state.SelectedParam = 0
	if x, y, err := r.backend.Position(); err == nil {
		r.state.PanelOpenX, r.state.PanelOpenY = x, y
	}

	rows := r.panelRows()
	r.fb.PanelShow(rows, r.state.SelectedParam)
}

func (r *Router) panelRows() []PanelRow {
	specs := config.Params(r.cfg)
	rows := make([]PanelRow, len(specs))
	for i, p := range specs {
		rows[i] = PanelRow{Name: p.Name, Value: p.FormatValue(), Unit: p.Unit}
	}
	return rows
}

func (r *Router) renderPanel() {
	r.fb.PanelUpdate(r.panelRows(), r.state.SelectedParam)
}

func (r *Router) closePanel(save bool) {
	r.state.PanelActive = false
	r.fb.PanelHide()
	if save {
		r.cfg.Clamp()
		if err := config.Save(r.cfg); err != nil {
			logger.Errorf("failed to save config: %v", err)
		}
	}
}

// --- Step 3: Shift ---------------------------------------------------------

func (r *Router) handleShift(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_LEFTSHIFT && ev.Code != evdev.KEY_RIGHTSHIFT {
		return false
	}
	switch ev.Value {
	case 1:
		r.state.ShiftPressed = true
	case 0:
		r.state.ShiftPressed = false
	}
	if !r.state.AutoscrollUp && !r.state.AutoscrollDown {
		r.forward(ev)
	}
	return true
}

// --- Step 4: Escape while panel active --------------------------------

func (r *Router) handleEscapeInPanel(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_ESC || ev.Value != 1 || !r.state.PanelActive {
		return false
	}
	r.closePanel(true)
	return true
}

// --- Step 5: mouse-mode dispatch ---------------------------------------

func (r *Router) dispatchMouseMode(ev input.RawEvent) Verdict {
	r.applyAutoscrollGuard(ev)
	r.applyDragAutoRelease(ev)

	if r.state.PanelActive {
		if r.handlePanelNav(ev) {
			return Consumed
		}
		r.closePanel(false)
		return r.forward(ev)
	}

	handlers := [...]func(input.RawEvent) bool{
		r.handleAltAdjust,
		r.handleScrollToggle,
		r.handleCtrlMinusAbsorb,
		r.handleAbsoluteJump,
		r.handleDirectionLatch,
		r.handleKp5Hold,
		r.handleDragLockToggle,
		r.handleMiddleClick,
		r.handleRightClick,
		r.handleNumLockMomentary,
	}
	for _, h := range handlers {
		if h(ev) {
			return Consumed
		}
	}
	return r.forward(ev)
}

func (r *Router) applyAutoscrollGuard(ev input.RawEvent) {
	if ev.Value != 1 {
		return
	}
	if !r.state.AutoscrollUp && !r.state.AutoscrollDown {
		return
	}
	if autoscrollWhitelisted(ev.Code, r.state.CtrlPressed, r.state.AltPressed) {
		return
	}

	r.state.ClearAutoscroll()
	now := ev.Time
	if now.Sub(r.state.LastAutoscrollFeedbackTime) >= state.AutoscrollFeedbackDebounce {
		r.state.LastAutoscrollFeedbackTime = now
		r.showPopup("Autoscroll OFF")
	}
}

func (r *Router) applyDragAutoRelease(ev input.RawEvent) {
	if ev.Value != 1 || !r.state.LeftButtonHeld {
		return
	}
	if dragPreserved(ev.Code) {
		return
	}

	r.sink.LeftUp()
	r.state.LeftButtonHeld = false
	r.state.DragLocked = false
	if r.state.DragPopupVisible {
		r.state.DragPopupVisible = false
		r.fb.DragPopupHide()
	}
}

// --- Panel navigation ---------------------------------------------------

func (r *Router) handlePanelNav(ev input.RawEvent) bool {
	switch ev.Code {
	case evdev.KEY_KP8, evdev.KEY_KP2:
		if ev.Value != 1 {
			return true
		}
		n := len(config.Params(r.cfg))
		if ev.Code == evdev.KEY_KP8 {
			r.state.SelectedParam = (r.state.SelectedParam - 1 + n) % n
		} else {
			r.state.SelectedParam = (r.state.SelectedParam + 1) % n
		}
		r.renderPanel()
		return true

	case evdev.KEY_KP4, evdev.KEY_KP6:
		if ev.Value == 0 {
			delete(r.state.AdjustStartTimes, int(ev.Code))
			return true
		}
		mult := r.repeatMultiplier(ev)
		specs := config.Params(r.cfg)
		specs[r.state.SelectedParam].Adjust(mult, ev.Code == evdev.KEY_KP6)
		r.cfg.Clamp()
		if err := config.Save(r.cfg); err != nil {
			logger.Errorf("failed to save config: %v", err)
		}
		r.renderPanel()
		return true

	default:
		return false
	}
}

// --- Mouse-mode functional handlers -------------------------------------

func (r *Router) handleAltAdjust(ev input.RawEvent) bool {
	if !r.state.AltPressed {
		return false
	}
	autoscrollActive := r.state.AutoscrollUp || r.state.AutoscrollDown
	paramName, increase, ok := resolveAdjust(ev.Code, r.state.ShiftPressed, autoscrollActive)
	if !ok {
		return false
	}
	if ev.Value == 0 {
		delete(r.state.AdjustStartTimes, int(ev.Code))
		return true
	}

	mult := r.repeatMultiplier(ev)
	spec := paramByName(r.cfg, paramName)
	if spec == nil {
		return true
	}
	spec.Adjust(mult, increase)
	r.cfg.Clamp()
	if err := config.Save(r.cfg); err != nil {
		logger.Errorf("failed to save config: %v", err)
	}
	r.showPopup(fmt.Sprintf("%s: %s %s", paramName, spec.FormatValue(), spec.Unit))
	return true
}

func (r *Router) repeatMultiplier(ev input.RawEvent) int {
	now := ev.Time
	if ev.Value == 1 {
		r.state.AdjustStartTimes[int(ev.Code)] = now
	}
	start := r.state.AdjustStartTimes[int(ev.Code)]
	if start.IsZero() {
		start = now
	}
	return config.RepeatMultiplier(now.Sub(start).Seconds())
}

func paramByName(cfg *config.Config, name string) *config.ParamSpec {
	for _, p := range config.Params(cfg) {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Router) handleScrollToggle(ev input.RawEvent) bool {
	up := ev.Code == evdev.KEY_KPPLUS
	down := ev.Code == evdev.KEY_KPENTER
	if !up && !down {
		return false
	}
	if ev.Value == 2 {
		return true
	}

	if r.state.CtrlPressed {
		if ev.Value != 1 {
			return true
		}
		if up {
			if r.state.AutoscrollUp {
				r.state.ClearAutoscroll()
			} else {
				r.state.SetAutoscroll(true)
			}
		} else {
			if r.state.AutoscrollDown {
				r.state.ClearAutoscroll()
			} else {
				r.state.SetAutoscroll(false)
			}
		}
		r.announceAutoscroll()
		r.state.PendingCtrl = state.PendingNone
		return true
	}

	held := ev.Value == 1
	if up {
		r.state.ScrollUp = held
	} else {
		r.state.ScrollDown = held
	}
	return true
}

func (r *Router) announceAutoscroll() {
	switch {
	case r.state.AutoscrollUp:
		r.showPopup("Autoscroll UP ON")
	case r.state.AutoscrollDown:
		r.showPopup("Autoscroll DOWN ON")
	default:
		r.showPopup("Autoscroll OFF")
	}
}

func (r *Router) handleCtrlMinusAbsorb(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_KPMINUS || !r.state.CtrlPressed {
		return false
	}
	r.state.PendingCtrl = state.PendingNone
	return true
}

func (r *Router) handleAbsoluteJump(ev input.RawEvent) bool {
	if !r.state.CtrlPressed || !r.state.ShiftPressed {
		return false
	}
	jp, ok := jumpPointFor(ev.Code)
	if !ok {
		return false
	}
	if ev.Value != 1 {
		return true
	}

	w, h, err := r.backend.ScreenSize()
	if err != nil {
		return true
	}
	margin := r.cfg.JumpMargin
	tx := coordFor(jp.hx, w, margin)
	ty := coordFor(jp.vy, h, margin)
	_ = r.backend.Warp(tx, ty)

	step := r.cfg.JumpDiagonal
	switch jp.kind() {
	case JumpHorizontalKind:
		step = r.cfg.JumpHorizontal
	case JumpVerticalKind:
		step = r.cfg.JumpVertical
	}
	r.fb.JumpOverlay(jp.kind(), step)
	r.state.PendingCtrl = state.PendingNone
	return true
}

func (r *Router) handleDirectionLatch(ev input.RawEvent) bool {
	dir, ok := state.DirectionForKey(ev.Code)
	if !ok {
		return false
	}
	if ev.Value == 2 {
		return true
	}
	if r.state.CtrlPressed {
		r.state.ClearDirections()
		r.state.PendingCtrl = state.PendingNone
	}
	r.state.Directions[dir] = ev.Value == 1
	return true
}

func (r *Router) handleKp5Hold(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_KP5 {
		return false
	}
	if ev.Value == 2 {
		return true
	}
	if r.state.DragLocked {
		// Resolved Open Question (SPEC_FULL.md §9): momentary hold is a
		// no-op on both edges while drag is locked.
		return true
	}
	if ev.Value == 1 {
		r.state.LeftButtonHeld = true
		r.sink.LeftDown()
	} else {
		r.state.LeftButtonHeld = false
		r.sink.LeftUp()
	}
	return true
}

func (r *Router) handleDragLockToggle(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_KPSLASH {
		return false
	}
	if ev.Value != 1 {
		return true
	}

	r.state.DragLocked = !r.state.DragLocked
	if r.state.DragLocked {
		r.sink.LeftDown()
		r.state.LeftButtonHeld = true
		r.state.DragPopupVisible = true
		r.fb.DragPopupShow()
	} else {
		r.sink.LeftUp()
		r.state.LeftButtonHeld = false
		r.state.DragPopupVisible = false
		r.fb.DragPopupHide()
	}
	return true
}

func (r *Router) releaseHeldLeftButton() {
	if r.state.LeftButtonHeld {
		r.sink.LeftUp()
		r.state.LeftButtonHeld = false
	}
}

func (r *Router) handleMiddleClick(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_KPASTERISK {
		return false
	}
	if ev.Value != 1 {
		return true
	}
	r.releaseHeldLeftButton()
	r.sink.Click("middle")
	return true
}

func (r *Router) handleRightClick(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_KPMINUS {
		return false
	}
	if ev.Value != 1 {
		return true
	}
	r.releaseHeldLeftButton()
	r.sink.Click("right")
	return true
}

func (r *Router) handleNumLockMomentary(ev input.RawEvent) bool {
	if ev.Code != evdev.KEY_NUMLOCK {
		return false
	}
	if ev.Value == 2 {
		return true
	}
	if r.state.DragLocked {
		return true
	}
	if ev.Value == 1 {
		r.state.LeftButtonHeld = true
		r.sink.LeftDown()
	} else {
		r.state.LeftButtonHeld = false
		r.sink.LeftUp()
	}
	return true
}

// --- Forwarding & pending-Control disambiguation ------------------------

func (r *Router) forward(ev input.RawEvent) Verdict {
	r.flushPendingCtrl()
	r.emit(ev)
	return Forward
}

func (r *Router) flushPendingCtrl() {
	if r.state.PendingCtrl == state.PendingNone {
		return
	}
	code := ctrlCodeFor(r.state.PendingCtrl)
	r.sink.KeyDown(code)
	r.state.ForwardedCtrl[code] = true
	r.state.PendingCtrl = state.PendingNone
}

func ctrlCodeFor(p state.PendingCtrl) int {
	if p == state.PendingRight {
		return int(evdev.KEY_RIGHTCTRL)
	}
	return int(evdev.KEY_LEFTCTRL)
}

func (r *Router) emit(ev input.RawEvent) {
	switch ev.Value {
	case 0:
		r.sink.KeyUp(int(ev.Code))
	default:
		// Treat repeats (value==2) as a re-press: Sink only exposes
		// down/up, and a held forwarded key is rare (most forwarded keys
		// are plain typing).
		r.sink.KeyDown(int(ev.Code))
	}
}

func (r *Router) showPopup(text string) {
	r.fb.Popup(text)
}
