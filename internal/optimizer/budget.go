package optimizer

import "math"

// Roll breakpoints as fractions of the maximum equip load.
const (
	// FastRoll is the light-load threshold.
	FastRoll = 0.3
	// NormalRoll is the medium-load threshold.
	NormalRoll = 0.7
	// FatRoll is the full-load threshold.
	FatRoll = 1.0
)

// Breakpoints lists the legal breakpoints in ascending order.
var Breakpoints = []float64{FastRoll, NormalRoll, FatRoll}

// Budget returns the weight available for armor:
// max(maxLoad*breakpoint - currentLoad, 0).
func Budget(maxLoad, currentLoad, breakpoint float64) float64 {
	return math.Max(maxLoad*breakpoint-currentLoad, 0)
}

// ValidBreakpoint reports whether b is exactly one of Breakpoints.
func ValidBreakpoint(b float64) bool {
	for _, bp := range Breakpoints {
		if b == bp {
			return true
		}
	}
	return false
}

// SnapBreakpoint returns the legal breakpoint nearest to b. Ties go to the lower one.
func SnapBreakpoint(b float64) float64 {
	best := Breakpoints[0]
	for _, bp := range Breakpoints[1:] {
		if math.Abs(bp-b) < math.Abs(best-b) {
			best = bp
		}
	}
	return best
}
