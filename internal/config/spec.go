package config

import (
	"fmt"
	"math"
)

// ParamSpec is a declarative entry for one tunable: its file name, unit,
// minimum, format, and a get/set pair bound to a specific *Config. This is
// the Go equivalent of the original kat.c's config_items[] table of typed
// void pointers — a slice of closures instead of unsafe casts.
type ParamSpec struct {
	Name    string
	Unit    string
	Min     float64
	IsFloat bool
	Format  string // fmt verb used for both file serialization and display

	get func() float64
	set func(float64)
}

// epsilon half the minimum possible step (0.01), used to avoid the
// original's floating point "<= 0.10000001" kludge (spec §9).
const epsilon = 0.005

// scrollGranularityThreshold is the current-value boundary below which the
// dual-granularity step (spec §4.D) switches from a 0.1 unit to a 0.01 unit.
const scrollGranularityThreshold = 0.1

// Value returns the parameter's current value as a float64 (integers are
// exact in this range).
func (p *ParamSpec) Value() float64 { return p.get() }

// Clamp enforces Min on the current value.
func (p *ParamSpec) Clamp() {
	if p.get() < p.Min {
		p.set(p.Min)
	}
}

// FormatValue renders the current value the way the file and popups expect.
func (p *ParamSpec) FormatValue() string {
	if p.IsFloat {
		return fmt.Sprintf(p.Format, p.get())
	}
	return fmt.Sprintf(p.Format, int(p.get()))
}

// Adjust applies a signed step of the given repeat multiplier (spec §4.D),
// then clamps to Min. increase=true steps up, increase=false steps down.
func (p *ParamSpec) Adjust(multiplier int, increase bool) {
	step := multiplier
	if !increase {
		step = -multiplier
	}

	var delta float64
	switch {
	case !p.IsFloat:
		delta = float64(step)
	case p.isScrollGranularity():
		delta = p.scrollSpeedDelta(multiplier, increase)
	default:
		delta = float64(step) * 0.1
	}

	p.set(p.get() + delta)
	p.Clamp()
}

func (p *ParamSpec) isScrollGranularity() bool {
	return p.Name == "SCROLL_SPEED" || p.Name == "AUTOSCROLL_SPEED"
}

// scrollSpeedDelta implements the dual-granularity step (spec §4.D):
// unit is 0.01 when the current value is at or below the granularity
// threshold, else 0.1; when decreasing and a 0.1 step would cross below
// the threshold, the step becomes -multiplier*0.01 instead.
func (p *ParamSpec) scrollSpeedDelta(multiplier int, increase bool) float64 {
	current := p.get()
	unit := 0.1
	if current < scrollGranularityThreshold+epsilon {
		unit = 0.01
	}

	delta := float64(multiplier) * unit
	if !increase {
		delta = -delta
		if unit == 0.1 && current+delta < scrollGranularityThreshold {
			return -(float64(multiplier) * 0.01)
		}
	}
	return delta
}

// RepeatMultiplier derives the auto-repeat step multiplier from hold
// duration (spec §4.D table).
func RepeatMultiplier(elapsedSeconds float64) int {
	switch {
	case elapsedSeconds < 0.4:
		return 1
	case elapsedSeconds < 0.8:
		return 2
	case elapsedSeconds < 1.2:
		return 4
	case elapsedSeconds < 1.6:
		return 8
	case elapsedSeconds < 2.0:
		return 16
	default:
		return 32
	}
}

// Params returns the 13 parameter specs bound to c, in declaration order
// (the order the file header and Save() use).
func Params(c *Config) []*ParamSpec {
	return []*ParamSpec{
		{Name: "MOUSE_SPEED", Unit: "px", Min: 1, Format: "%d",
			get: func() float64 { return float64(c.MouseSpeed) },
			set: func(v float64) { c.MouseSpeed = int(math.Round(v)) }},
		{Name: "MOVEMENT_INTERVAL_SLOW_MS", Unit: "ms", Min: 1, Format: "%d",
			get: func() float64 { return float64(c.MovementIntervalSlowMs) },
			set: func(v float64) { c.MovementIntervalSlowMs = int(math.Round(v)) }},
		{Name: "MOVEMENT_INTERVAL_FAST_MS", Unit: "ms", Min: 1, Format: "%d",
			get: func() float64 { return float64(c.MovementIntervalFastMs) },
			set: func(v float64) { c.MovementIntervalFastMs = int(math.Round(v)) }},
		{Name: "MOVEMENT_ACCELERATION_TIME", Unit: "s", Min: 0.1, IsFloat: true, Format: "%.1f",
			get: func() float64 { return c.MovementAccelerationTime },
			set: func(v float64) { c.MovementAccelerationTime = round1(v) }},
		{Name: "JUMP_HORIZONTAL", Unit: "px", Min: 0, Format: "%d",
			get: func() float64 { return float64(c.JumpHorizontal) },
			set: func(v float64) { c.JumpHorizontal = int(math.Round(v)) }},
		{Name: "JUMP_VERTICAL", Unit: "px", Min: 0, Format: "%d",
			get: func() float64 { return float64(c.JumpVertical) },
			set: func(v float64) { c.JumpVertical = int(math.Round(v)) }},
		{Name: "JUMP_DIAGONAL", Unit: "px", Min: 0, Format: "%d",
			get: func() float64 { return float64(c.JumpDiagonal) },
			set: func(v float64) { c.JumpDiagonal = int(math.Round(v)) }},
		{Name: "JUMP_MARGIN", Unit: "px", Min: 0, Format: "%d",
			get: func() float64 { return float64(c.JumpMargin) },
			set: func(v float64) { c.JumpMargin = int(math.Round(v)) }},
		{Name: "JUMP_INTERVAL_MS", Unit: "ms", Min: 1, Format: "%d",
			get: func() float64 { return float64(c.JumpIntervalMs) },
			set: func(v float64) { c.JumpIntervalMs = int(math.Round(v)) }},
		{Name: "SCROLL_SPEED", Unit: "ticks", Min: 0.01, IsFloat: true, Format: "%.2f",
			get: func() float64 { return c.ScrollSpeed },
			set: func(v float64) { c.ScrollSpeed = round2(v) }},
		{Name: "SCROLL_INTERVAL_MS", Unit: "ms", Min: 1, Format: "%d",
			get: func() float64 { return float64(c.ScrollIntervalMs) },
			set: func(v float64) { c.ScrollIntervalMs = int(math.Round(v)) }},
		{Name: "AUTOSCROLL_SPEED", Unit: "ticks", Min: 0.01, IsFloat: true, Format: "%.2f",
			get: func() float64 { return c.AutoscrollSpeed },
			set: func(v float64) { c.AutoscrollSpeed = round2(v) }},
		{Name: "AUTOSCROLL_INTERVAL_MS", Unit: "ms", Min: 1, Format: "%d",
			get: func() float64 { return float64(c.AutoscrollIntervalMs) },
			set: func(v float64) { c.AutoscrollIntervalMs = int(math.Round(v)) }},
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
