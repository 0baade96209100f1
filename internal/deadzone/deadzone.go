// Package deadzone converts raw sensor displacements into control signals
// that ignore small movements around the neutral position.
package deadzone

import "math"

// Activity describes which of the planar axes left their dead zone in a frame.
type Activity int

const (
	// None means both X and Y are inside their dead zones.
	None Activity = iota
	// XOnly means only X is outside its dead zone.
	XOnly
	// YOnly means only Y is outside its dead zone.
	YOnly
	// Both means X and Y are outside their dead zones.
	Both
)

// String returns the activity name used in logs.
func (a Activity) String() string {
	switch a {
	case XOnly:
		return "x"
	case YOnly:
		return "y"
	case Both:
		return "both"
	default:
		return "none"
	}
}

// Outside reports whether raw lies beyond the dead zone.
func Outside(raw, deadZone float64) bool {
	return math.Abs(raw) > deadZone
}

// Filter returns the signed residual of raw beyond the dead zone.
// Inside the dead zone (|raw| <= deadZone) it returns 0.
func Filter(raw, deadZone float64) float64 {
	if !Outside(raw, deadZone) {
		return 0
	}
	return (math.Abs(raw) - deadZone) * sign(raw)
}

// Classify combines the X and Y dead zone checks into a single Activity.
func Classify(x, y, deadZoneX, deadZoneY float64) Activity {
	outX := Outside(x, deadZoneX)
	outY := Outside(y, deadZoneY)

	switch {
	case outX && outY:
		return Both
	case outX:
		return XOnly
	case outY:
		return YOnly
	default:
		return None
	}
}

// Signal is the filtered result of one three-axis sample.
type Signal struct {
	X, Y, Z  float64
	Activity Activity
	ZActive  bool
}

// Apply filters each axis independently against its own dead zone.
func Apply(x, y, z, deadZoneX, deadZoneY, deadZoneZ float64) Signal {
	return Signal{
		X:        Filter(x, deadZoneX),
		Y:        Filter(y, deadZoneY),
		Z:        Filter(z, deadZoneZ),
		Activity: Classify(x, y, deadZoneX, deadZoneY),
		ZActive:  Outside(z, deadZoneZ),
	}
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
