// Package engine runs the movement/scroll background loop — Component E,
// the counterpart to the router's event-driven side: it reads latched
// direction and scroll state and turns it into warps and wheel ticks on its
// own pace, independent of keyboard activity (spec §4.E, §5).
package engine

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/kat-daemon/katd/internal/config"
	"github.com/kat-daemon/katd/internal/input"
	"github.com/kat-daemon/katd/internal/pointer"
	"github.com/kat-daemon/katd/internal/state"
)

// idleTick is how often the engine re-checks state when nothing is
// latched, short enough to stay responsive to a fresh latch without busy
// looping (spec §4.E step 6: "always yield").
const idleTick = 15 * time.Millisecond

// Engine is the movement/scroll background loop (T2). It is the sole
// reader of cfg outside the router's adjustment writes, tolerant of torn
// reads per spec §5.
type Engine struct {
	state   *state.AppState
	cfg     *config.Config
	backend pointer.Backend
	sink    input.Sink
}

// New builds a movement engine over the given shared state, config,
// pointer backend and virtual sink.
func New(st *state.AppState, cfg *config.Config, backend pointer.Backend, sink input.Sink) *Engine {
	return &Engine{state: st, cfg: cfg, backend: backend, sink: sink}
}

// Run blocks until ctx is cancelled, driving the movement and scroll
// cadences concurrently — each paced independently so smooth motion never
// stalls waiting on a scroll interval and vice versa (a refinement of
// spec §4.E's single numbered tick list, which names both a movement sleep
// at step 4 and a scroll sleep at step 5; see DESIGN.md).
func (e *Engine) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); e.movementLoop(ctx) }()
	go func() { defer wg.Done(); e.scrollLoop(ctx) }()
	wg.Wait()
}

func (e *Engine) movementLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		snap := e.state.Snapshot()
		held := snap.AnyDirectionLatched()
		jumpMode := snap.CtrlPressed && held
		now := time.Now()
		start := e.state.MovementStart(held && !jumpMode, now)

		if snap.MouseMode && held {
			e.warp(snap, jumpMode)
		}

		sleepCtx(ctx, e.movementInterval(jumpMode, held, start, now))
	}
}

// warp computes the (dx, dy) step from the latched directions and moves
// the pointer by it with screen wrap (spec §4.E steps 2-3).
func (e *Engine) warp(snap state.Snapshot, jumpMode bool) {
	x, y, err := e.backend.Position()
	if err != nil {
		return
	}
	w, h, err := e.backend.ScreenSize()
	if err != nil {
		return
	}

	dx, dy := e.computeDelta(snap, jumpMode)
	if dx == 0 && dy == 0 {
		return
	}

	_ = e.backend.Warp(pointer.WrapMod(x, dx, w), pointer.WrapMod(y, dy, h))
}

// computeDelta sums each latched direction's contribution. Diagonals
// contribute round(step*0.7071) to each axis (spec §4.E step 2); combining
// an orthogonal latch with a diagonal one sums per axis.
func (e *Engine) computeDelta(snap state.Snapshot, jumpMode bool) (dx, dy int) {
	for d := state.Direction(0); int(d) < len(snap.Directions); d++ {
		if !snap.Directions[d] {
			continue
		}
		ax, ay := d.Axis()
		step := e.stepFor(d, jumpMode)
		if d.IsDiagonal() {
			c := int(math.Round(step * 0.7071))
			dx += ax * c
			dy += ay * c
		} else {
			dx += ax * int(step)
			dy += ay * int(step)
		}
	}
	return dx, dy
}

// stepFor returns the per-axis step size for one latched direction: the
// uniform mouse_speed in smooth mode, or the matching jump_* parameter in
// jump mode (spec §4.E step 2).
func (e *Engine) stepFor(d state.Direction, jumpMode bool) float64 {
	if !jumpMode {
		return float64(e.cfg.MouseSpeed)
	}
	switch {
	case d.IsDiagonal():
		return float64(e.cfg.JumpDiagonal)
	case d == state.Left || d == state.Right:
		return float64(e.cfg.JumpHorizontal)
	default:
		return float64(e.cfg.JumpVertical)
	}
}

// movementInterval derives the sleep before the next movement tick: the
// fixed jump interval in jump mode, an accelerating ramp from slow to fast
// in smooth mode, or the idle tick when nothing is held (spec §4.E step 4).
func (e *Engine) movementInterval(jumpMode, held bool, start, now time.Time) time.Duration {
	if !held {
		return idleTick
	}
	if jumpMode {
		return time.Duration(e.cfg.JumpIntervalMs) * time.Millisecond
	}

	accel := e.cfg.MovementAccelerationTime
	progress := 1.0
	if accel > 0 {
		progress = now.Sub(start).Seconds() / accel
	}
	progress = clamp01(progress)

	slow := float64(e.cfg.MovementIntervalSlowMs)
	fast := float64(e.cfg.MovementIntervalFastMs)
	ms := slow - (slow-fast)*progress
	return time.Duration(ms * float64(time.Millisecond))
}

func (e *Engine) scrollLoop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		snap := e.state.Snapshot()
		up := snap.ScrollUp || snap.AutoscrollUp
		down := snap.ScrollDown || snap.AutoscrollDown
		if !up && !down {
			sleepCtx(ctx, idleTick)
			continue
		}

		autoscroll := snap.AutoscrollUp || snap.AutoscrollDown
		speed := e.cfg.ScrollSpeed
		intervalMs := e.cfg.ScrollIntervalMs
		if autoscroll {
			speed = e.cfg.AutoscrollSpeed
			intervalMs = e.cfg.AutoscrollIntervalMs
		}

		if up {
			e.emitWheel(speed)
		} else {
			e.emitWheel(-speed)
		}
		sleepCtx(ctx, time.Duration(intervalMs)*time.Millisecond)
	}
}

// emitWheel translates a signed speed into hi-res wheel units (120 per
// notch); the uinput sink derives the matching low-res click internally
// (spec §4.E: "Wheel emission").
func (e *Engine) emitWheel(speed float64) {
	hiRes := int32(math.Round(speed * 120))
	if hiRes == 0 {
		return
	}
	e.sink.Wheel(false, hiRes)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
