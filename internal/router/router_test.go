package router

import (
	"testing"
	"time"

	"github.com/gvalkov/golang-evdev"

	"github.com/kat-daemon/katd/internal/config"
	"github.com/kat-daemon/katd/internal/input"
	"github.com/kat-daemon/katd/internal/pointer"
	"github.com/kat-daemon/katd/internal/state"
)

// fakeFeedback records popup text for assertions without a real UI worker.
type fakeFeedback struct {
	NoopFeedback
	Popups []string
}

func (f *fakeFeedback) Popup(text string) { f.Popups = append(f.Popups, text) }

func newTestRouter(cfg *config.Config) (*Router, *state.AppState, *input.FakeSink, *pointer.Fake, *fakeFeedback) {
	st := state.New()
	sink := input.NewFakeSink()
	fb := pointer.NewFake(1920, 1080)
	feedback := &fakeFeedback{}
	return New(st, cfg, sink, fb, feedback), st, sink, fb, feedback
}

func ev(code uint16, value int32, t time.Time) input.RawEvent {
	return input.RawEvent{Type: evdev.EV_KEY, Code: code, Value: value, Time: t}
}

func TestModeToggleOnDoublePress(t *testing.T) {
	cfg := config.Default()
	r, st, sink, _, fb := newTestRouter(&cfg)

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 0, base.Add(50*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base.Add(200*time.Millisecond)))

	if !st.MouseMode {
		t.Fatal("MouseMode = false, want true after double-press within 300ms")
	}
	if len(fb.Popups) == 0 || fb.Popups[len(fb.Popups)-1] != "Mouse Mode ON" {
		t.Fatalf("Popups = %v, want last entry \"Mouse Mode ON\"", fb.Popups)
	}
	if len(sink.Keys) != 0 {
		t.Fatalf("sink.Keys = %v, want no Control events emitted", sink.Keys)
	}
}

func TestCtrlPassThroughRetroactiveEmission(t *testing.T) {
	cfg := config.Default()
	r, _, sink, _, _ := newTestRouter(&cfg)

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_A, 1, base.Add(100*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_A, 0, base.Add(120*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 0, base.Add(150*time.Millisecond)))

	want := []input.KeyEvent{
		{Code: int(evdev.KEY_LEFTCTRL), Press: true},
		{Code: int(evdev.KEY_A), Press: true},
		{Code: int(evdev.KEY_A), Press: false},
		{Code: int(evdev.KEY_LEFTCTRL), Press: false},
	}
	if len(sink.Keys) != len(want) {
		t.Fatalf("sink.Keys = %v, want %v", sink.Keys, want)
	}
	for i, k := range want {
		if sink.Keys[i] != k {
			t.Fatalf("sink.Keys[%d] = %+v, want %+v", i, sink.Keys[i], k)
		}
	}
}

func TestAutoscrollToggleAndCancel(t *testing.T) {
	cfg := config.Default()
	r, st, _, _, fb := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_KPPLUS, 1, base.Add(10*time.Millisecond)))

	if !st.AutoscrollUp {
		t.Fatal("AutoscrollUp = false, want true after Ctrl+KP+")
	}
	if fb.Popups[len(fb.Popups)-1] != "Autoscroll UP ON" {
		t.Fatalf("last popup = %q, want \"Autoscroll UP ON\"", fb.Popups[len(fb.Popups)-1])
	}

	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 0, base.Add(20*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_A, 1, base.Add(30*time.Millisecond)))

	if st.AutoscrollUp {
		t.Fatal("AutoscrollUp = true, want false after a non-whitelisted key cancels it")
	}
	if fb.Popups[len(fb.Popups)-1] != "Autoscroll OFF" {
		t.Fatalf("last popup = %q, want \"Autoscroll OFF\"", fb.Popups[len(fb.Popups)-1])
	}
}

func TestCtrlShiftKp5JumpsToCenter(t *testing.T) {
	cfg := config.Default()
	cfg.JumpMargin = 20
	r, st, _, backend, _ := newTestRouter(&cfg)
	st.MouseMode = true
	backend.X, backend.Y = 100, 100

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_LEFTSHIFT, 1, base.Add(5*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_KP5, 1, base.Add(10*time.Millisecond)))

	x, y, _ := backend.Position()
	if x != 960 || y != 540 {
		t.Fatalf("Position() = (%d,%d), want (960,540)", x, y)
	}
}

func TestBareNumpadLatchesDirection(t *testing.T) {
	cfg := config.Default()
	r, st, _, _, _ := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KP6, 1, base))
	if !st.Directions[state.Right] {
		t.Fatal("Directions[Right] = false after bare KP6 press")
	}

	r.HandleEvent(ev(evdev.KEY_KP6, 0, base.Add(10*time.Millisecond)))
	if st.Directions[state.Right] {
		t.Fatal("Directions[Right] = true after KP6 release, want false")
	}
}

func TestDragLockToggleAndPreservedDirectionMove(t *testing.T) {
	cfg := config.Default()
	r, st, sink, _, fb := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KPSLASH, 1, base))
	if !st.DragLocked || !st.LeftButtonHeld {
		t.Fatal("drag lock toggle did not engage")
	}
	if !sink.LeftHeld {
		t.Fatal("sink left button not held after drag lock engaged")
	}

	// Moving via the numpad while drag-locked must not auto-release.
	r.HandleEvent(ev(evdev.KEY_KP8, 1, base.Add(10*time.Millisecond)))
	if !st.LeftButtonHeld || !st.DragLocked {
		t.Fatal("directional press during drag lock incorrectly released the drag")
	}

	r.HandleEvent(ev(evdev.KEY_KPSLASH, 1, base.Add(20*time.Millisecond)))
	if st.DragLocked || st.LeftButtonHeld {
		t.Fatal("second KP/ press did not release drag lock")
	}
	if sink.LeftHeld {
		t.Fatal("sink left button still held after drag lock released")
	}
	_ = fb
}

func TestDragAutoReleaseOnUnrelatedKey(t *testing.T) {
	cfg := config.Default()
	r, st, sink, _, _ := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KP5, 1, base))
	if !st.LeftButtonHeld {
		t.Fatal("KP5 press did not hold the left button")
	}

	r.HandleEvent(ev(evdev.KEY_KPASTERISK, 1, base.Add(10*time.Millisecond)))
	if st.LeftButtonHeld {
		t.Fatal("left button still held after an unrelated key (KP*) pressed")
	}
	if len(sink.Clicks) == 0 || sink.Clicks[len(sink.Clicks)-1] != "middle" {
		t.Fatalf("sink.Clicks = %v, want a trailing middle click", sink.Clicks)
	}
}

func TestAltAdjustClampsToMinimum(t *testing.T) {
	t.Setenv("HOME", t.TempDir()) // handleAltAdjust persists via config.Save
	cfg := config.Default()
	cfg.JumpMargin = 0
	r, st, _, _, _ := newTestRouter(&cfg)
	st.MouseMode = true
	st.AltPressed = true
	st.ShiftPressed = true // inverts JUMP_MARGIN's direction to decrease

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KP5, 1, base))
	r.HandleEvent(ev(evdev.KEY_KP5, 0, base.Add(10*time.Millisecond)))

	if cfg.JumpMargin < 0 {
		t.Fatalf("JumpMargin = %d, want >= 0 (its declared minimum)", cfg.JumpMargin)
	}
}

func TestPendingCtrlClearedAfterAbsoluteJump(t *testing.T) {
	cfg := config.Default()
	r, st, sink, _, _ := newTestRouter(&cfg)
	st.MouseMode = true
	// Set directly rather than via a KEY_LEFTSHIFT event, so the Shift
	// key's own forwarding doesn't flush PendingCtrl before the jump runs.
	st.ShiftPressed = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_KP5, 1, base.Add(10*time.Millisecond)))

	if st.PendingCtrl != state.PendingNone {
		t.Fatalf("PendingCtrl = %v after absolute jump, want PendingNone", st.PendingCtrl)
	}

	r.HandleEvent(ev(evdev.KEY_A, 1, base.Add(20*time.Millisecond)))
	for _, k := range sink.Keys {
		if k.Code == int(evdev.KEY_LEFTCTRL) {
			t.Fatalf("sink.Keys = %v, should not synthesize Ctrl after it was consumed by the jump", sink.Keys)
		}
	}
}

func TestPendingCtrlClearedAfterAutoscrollToggle(t *testing.T) {
	cfg := config.Default()
	r, st, sink, _, _ := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_KPPLUS, 1, base.Add(10*time.Millisecond)))

	if st.PendingCtrl != state.PendingNone {
		t.Fatalf("PendingCtrl = %v after autoscroll toggle, want PendingNone", st.PendingCtrl)
	}

	r.HandleEvent(ev(evdev.KEY_A, 1, base.Add(20*time.Millisecond)))
	for _, k := range sink.Keys {
		if k.Code == int(evdev.KEY_LEFTCTRL) {
			t.Fatalf("sink.Keys = %v, should not synthesize Ctrl after it was consumed by the autoscroll toggle", sink.Keys)
		}
	}
}

func TestPendingCtrlClearedAfterDirectionLatch(t *testing.T) {
	cfg := config.Default()
	r, st, sink, _, _ := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_KP6, 1, base.Add(10*time.Millisecond)))

	if st.PendingCtrl != state.PendingNone {
		t.Fatalf("PendingCtrl = %v after Ctrl-held direction latch, want PendingNone", st.PendingCtrl)
	}

	r.HandleEvent(ev(evdev.KEY_A, 1, base.Add(20*time.Millisecond)))
	for _, k := range sink.Keys {
		if k.Code == int(evdev.KEY_LEFTCTRL) {
			t.Fatalf("sink.Keys = %v, should not synthesize Ctrl after it was consumed by the direction latch", sink.Keys)
		}
	}
}

func TestCtrlHeldDirectionLatchCollapsesToSingleDirection(t *testing.T) {
	cfg := config.Default()
	r, st, _, _, _ := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base))
	r.HandleEvent(ev(evdev.KEY_KP8, 1, base.Add(10*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_KP6, 1, base.Add(20*time.Millisecond)))

	if st.Directions[state.Up] {
		t.Fatal("Directions[Up] still latched after a second Ctrl-held direction key, want collapsed")
	}
	if !st.Directions[state.Right] {
		t.Fatal("Directions[Right] = false, want true after the most recent Ctrl-held direction key")
	}
}

func TestModeOffPreservesDirectionLatch(t *testing.T) {
	cfg := config.Default()
	r, st, _, _, _ := newTestRouter(&cfg)
	st.MouseMode = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KP6, 1, base))
	if !st.Directions[state.Right] {
		t.Fatal("Directions[Right] = false after bare KP6 press")
	}

	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base.Add(10*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 0, base.Add(20*time.Millisecond)))
	r.HandleEvent(ev(evdev.KEY_LEFTCTRL, 1, base.Add(220*time.Millisecond)))
	if st.MouseMode {
		t.Fatal("MouseMode = true, want false after the second double-press")
	}
	if !st.Directions[state.Right] {
		t.Fatal("Directions[Right] = false after mode toggled off, want latch preserved")
	}
}

func TestBareAutoscrollAdjustKeyCancelsAutoscroll(t *testing.T) {
	cfg := config.Default()
	r, st, _, _, fb := newTestRouter(&cfg)
	st.MouseMode = true
	st.AutoscrollUp = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KPPLUS, 1, base))

	if st.AutoscrollUp {
		t.Fatal("AutoscrollUp = true, want false: a bare KP+ press (no Ctrl/Alt) must cancel autoscroll")
	}
	if fb.Popups[len(fb.Popups)-1] != "Autoscroll OFF" {
		t.Fatalf("last popup = %q, want \"Autoscroll OFF\"", fb.Popups[len(fb.Popups)-1])
	}
}

func TestAltHeldAutoscrollAdjustKeyPreservesAutoscroll(t *testing.T) {
	cfg := config.Default()
	r, st, _, _, _ := newTestRouter(&cfg)
	st.MouseMode = true
	st.AutoscrollUp = true
	st.AltPressed = true

	base := time.Unix(0, 0)
	r.HandleEvent(ev(evdev.KEY_KPPLUS, 1, base))

	if !st.AutoscrollUp {
		t.Fatal("AutoscrollUp = false, want true: Alt-held KP+ is tuning AUTOSCROLL_SPEED, not cancelling")
	}
}

func TestNoDuplicateForwardAndConsume(t *testing.T) {
	cfg := config.Default()
	r, _, sink, _, _ := newTestRouter(&cfg)

	base := time.Unix(0, 0)
	verdict := r.HandleEvent(ev(evdev.KEY_A, 1, base))
	if verdict != Forward {
		t.Fatalf("verdict = %v, want Forward for a plain key outside mouse mode", verdict)
	}
	if len(sink.Keys) != 1 {
		t.Fatalf("sink.Keys = %v, want exactly one synthesized key", sink.Keys)
	}
}
