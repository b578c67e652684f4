package ring

import (
	"fmt"
	"math"
)

// Radius is the ring radius in device-independent units.
const Radius = 95

// Circumference returns the ring's stroke length.
func Circumference() float64 {
	return 2 * math.Pi * Radius
}

// Progress returns the filled share of the ring in [0, 1].
// A zero duration renders as a full ring.
func Progress(elapsed, duration int) float64 {
	if duration <= 0 {
		return 1
	}
	fraction := float64(elapsed) / float64(duration)
	return math.Max(0, math.Min(1, fraction))
}

// DashOffset returns the unfilled stroke length for progress.
func DashOffset(progress float64) float64 {
	progress = math.Max(0, math.Min(1, progress))
	return Circumference() * (1 - progress)
}

// FormatClock renders seconds as zero padded MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// RemainingLabel renders the line under the clock.
func RemainingLabel(remaining int) string {
	return FormatClock(remaining) + " left"
}
