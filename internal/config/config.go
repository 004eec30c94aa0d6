// Package config loads and persists the 13 tunables in spec §3 using the
// flat key/value format of spec §6, rather than the teacher's viper/TOML
// stack (see DESIGN.md for why viper doesn't fit this format).
package config

// Config holds the 13 tunables, each with a fixed identifier, unit, display
// format and lower bound (spec §3).
type Config struct {
	MouseSpeed               int
	MovementIntervalSlowMs   int
	MovementIntervalFastMs   int
	MovementAccelerationTime float64
	JumpHorizontal           int
	JumpVertical             int
	JumpDiagonal             int
	JumpMargin               int
	JumpIntervalMs           int
	ScrollSpeed              float64
	ScrollIntervalMs         int
	AutoscrollSpeed          float64
	AutoscrollIntervalMs     int
}

// Default returns the documented defaults (spec §3).
func Default() Config {
	return Config{
		MouseSpeed:               5,
		MovementIntervalSlowMs:   64,
		MovementIntervalFastMs:   8,
		MovementAccelerationTime: 0.4,
		JumpHorizontal:           100,
		JumpVertical:             100,
		JumpDiagonal:             100,
		JumpMargin:               20,
		JumpIntervalMs:           80,
		ScrollSpeed:              1.00,
		ScrollIntervalMs:         100,
		AutoscrollSpeed:          0.01,
		AutoscrollIntervalMs:     24,
	}
}

// Clamp enforces every parameter's minimum (spec §8 invariant:
// "∀ config parameter p: after any adjustment, value(p) >= min(p)").
func (c *Config) Clamp() {
	for _, p := range Params(c) {
		p.Clamp()
	}
}
