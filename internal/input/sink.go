package input

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ThomasT75/uinput"

	"github.com/kat-daemon/katd/internal/logger"
)

// clickDelay is the press/release gap the spec requires for synthesized
// button clicks (spec §4.G: "press/sync/10 ms delay/release/sync").
const clickDelay = 10 * time.Millisecond

// Sinks owns the two virtual devices the router and movement engine write
// synthesized events to (Component G). It is the only writer of either.
type Sinks struct {
	mu       sync.Mutex
	keyboard uinput.Keyboard
	mouse    uinput.Mouse
	closed   bool
}

// NewSinks creates the virtual keyboard and virtual mouse sinks via uinput.
// Fails fatally (spec §7) if either device cannot be created.
func NewSinks() (*Sinks, error) {
	kb, err := uinput.CreateKeyboard("/dev/uinput", []byte("katd Virtual Keyboard"))
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual keyboard sink: %w", err)
	}

	mouse, err := uinput.CreateMouse("/dev/uinput", []byte("katd Virtual Mouse"))
	if err != nil {
		_ = kb.Close()
		return nil, fmt.Errorf("failed to create virtual mouse sink: %w", err)
	}

	return &Sinks{keyboard: kb, mouse: mouse}, nil
}

// Close destroys both virtual devices.
func (s *Sinks) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	errKb := s.keyboard.Close()
	errMouse := s.mouse.Close()
	if errKb != nil {
		return errKb
	}
	return errMouse
}

// KeyDown presses and holds a key on the virtual keyboard.
func (s *Sinks) KeyDown(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logWriteErr("key down", s.keyboard.KeyDown(code))
}

// KeyUp releases a key on the virtual keyboard.
func (s *Sinks) KeyUp(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logWriteErr("key up", s.keyboard.KeyUp(code))
}

// Move emits a relative pointer movement.
func (s *Sinks) Move(dx, dy int32) {
	if dx == 0 && dy == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logWriteErr("move", s.mouse.Move(dx, dy))
}

// Wheel emits a wheel tick. delta is in the library's click units; the
// ThomasT75 fork additionally synthesizes the matching REL_WHEEL_HI_RES
// (120-units-per-notch) event for each call, which is the reason this fork
// is used in place of upstream bendahl/uinput (see DESIGN.md).
func (s *Sinks) Wheel(horizontal bool, delta int32) {
	if delta == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logWriteErr("wheel", s.mouse.Wheel(horizontal, delta))
}

// LeftDown presses and holds the left mouse button.
func (s *Sinks) LeftDown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logWriteErr("left down", s.mouse.LeftPress())
}

// LeftUp releases the left mouse button.
func (s *Sinks) LeftUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logWriteErr("left up", s.mouse.LeftRelease())
}

// Click performs a full press/sync/delay/release/sync sequence on the given
// button ("middle" or "right").
func (s *Sinks) Click(button string) {
	s.mu.Lock()
	press, release := s.clickFuncs(button)
	s.logWriteErr(button+" press", press())
	s.mu.Unlock()

	time.Sleep(clickDelay)

	s.mu.Lock()
	s.logWriteErr(button+" release", release())
	s.mu.Unlock()
}

func (s *Sinks) clickFuncs(button string) (press, release func() error) {
	switch button {
	case "middle":
		return s.mouse.MiddlePress, s.mouse.MiddleRelease
	case "right":
		return s.mouse.RightPress, s.mouse.RightRelease
	default:
		return s.mouse.LeftPress, s.mouse.LeftRelease
	}
}

// logWriteErr applies the transient-error policy from spec §7/§4.G: writes
// failing because the device vanished during shutdown are dropped silently,
// everything else is logged.
func (s *Sinks) logWriteErr(op string, err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if strings.Contains(msg, "device gone") ||
		strings.Contains(msg, "no such device") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "invalid argument") {
		return
	}
	logger.Errorf("sink write failed (%s): %v", op, err)
}
