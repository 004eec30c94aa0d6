// Package pointer abstracts pointer position query, screen geometry and
// absolute warp — Component F (spec §4.F / §6: "Pointer Backend").
package pointer

// Backend is the abstract collaborator the movement engine and router warp
// the cursor through. Under X11 this maps to a root-window query and an
// XTest motion event followed by a flush (spec §6).
type Backend interface {
	ScreenSize() (w, h int, err error)
	Position() (x, y int, err error)
	Warp(x, y int) error
	Close() error
}

// WrapMod computes the Euclidean-wrapped coordinate: for any start x and
// delta dx against screen width w, the result is always in [0, w) even for
// negative offsets (spec §4.E step 3, §8 invariant "Wrap").
func WrapMod(x, dx, w int) int {
	if w <= 0 {
		return 0
	}
	r := (x + dx) % w
	if r < 0 {
		r += w
	}
	return r
}
