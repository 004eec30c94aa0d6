package pointer

import "sync"

// Fake is an in-memory Backend stand-in the router/engine tests warp
// against, exercising the wrap-math and no-warp-when-idle invariants from
// spec §8 without an X server.
type Fake struct {
	mu      sync.Mutex
	W, H    int
	X, Y    int
	Warps   [][2]int
	closed  bool
}

// NewFake returns a Fake with the given screen size, pointer starting at
// the origin.
func NewFake(w, h int) *Fake {
	return &Fake{W: w, H: h}
}

func (f *Fake) ScreenSize() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.W, f.H, nil
}

func (f *Fake) Position() (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.X, f.Y, nil
}

func (f *Fake) Warp(x, y int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.X, f.Y = x, y
	f.Warps = append(f.Warps, [2]int{x, y})
	return nil
}

func (f *Fake) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// WarpCount reports how many times Warp has been called.
func (f *Fake) WarpCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Warps)
}
