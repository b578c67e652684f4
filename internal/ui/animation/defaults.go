package animation

import "time"

// DefaultConfig returns the ring transition: half a second on the ease curve.
func DefaultConfig() Config {
	return Config{
		Duration:      500 * time.Millisecond,
		FrameInterval: 16 * time.Millisecond,
		Curve:         Ease.Curve(),
	}
}
