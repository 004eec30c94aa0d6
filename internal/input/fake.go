package input

import "sync"

// Sink is the surface the router and movement engine need from a virtual
// sink pair. *Sinks implements it against real uinput devices; FakeSink
// implements it in memory for tests (style grounded on the teacher's
// handler_test.go table-driven event assertions).
type Sink interface {
	KeyDown(code int)
	KeyUp(code int)
	Move(dx, dy int32)
	Wheel(horizontal bool, delta int32)
	LeftDown()
	LeftUp()
	Click(button string)
}

// KeyEvent records one synthesized keyboard event for assertions.
type KeyEvent struct {
	Code  int
	Press bool
}

// FakeSink records every call instead of touching /dev/uinput.
type FakeSink struct {
	mu         sync.Mutex
	Keys       []KeyEvent
	Moves      [][2]int32
	Wheels     []struct {
		Horizontal bool
		Delta      int32
	}
	LeftHeld bool
	Clicks   []string
}

func NewFakeSink() *FakeSink { return &FakeSink{} }

func (f *FakeSink) KeyDown(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Keys = append(f.Keys, KeyEvent{Code: code, Press: true})
}

func (f *FakeSink) KeyUp(code int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Keys = append(f.Keys, KeyEvent{Code: code, Press: false})
}

func (f *FakeSink) Move(dx, dy int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Moves = append(f.Moves, [2]int32{dx, dy})
}

func (f *FakeSink) Wheel(horizontal bool, delta int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Wheels = append(f.Wheels, struct {
		Horizontal bool
		Delta      int32
	}{horizontal, delta})
}

func (f *FakeSink) LeftDown() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LeftHeld = true
}

func (f *FakeSink) LeftUp() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LeftHeld = false
}

func (f *FakeSink) Click(button string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Clicks = append(f.Clicks, button)
}
