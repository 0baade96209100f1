package sensor

import "math"

// Thresholds gate which gestures the sensor reports. They are pushed to the
// source at connect time and whenever settings are applied; gestures
// reaching the interpreter are assumed to satisfy them.
type Thresholds struct {
	MinArcDeg        float64 `json:"min_arc_deg" yaml:"min_arc_deg"`
	MinRadiusMm      float64 `json:"min_radius_mm" yaml:"min_radius_mm"`
	MinSwipeLengthMm float64 `json:"min_swipe_length_mm" yaml:"min_swipe_length_mm"`
	// MinSwipeVelocity is in mm/s.
	MinSwipeVelocity float64 `json:"min_swipe_velocity" yaml:"min_swipe_velocity"`
}

// DefaultThresholds mirrors the tracking service's factory gesture settings.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinArcDeg:        270,
		MinRadiusMm:      5,
		MinSwipeLengthMm: 150,
		MinSwipeVelocity: 1000,
	}
}

// Admit reports whether g meets the thresholds. Gestures of other types
// are always admitted.
func (t Thresholds) Admit(g Gesture) bool {
	switch g.Type {
	case GestureCircle:
		arcDeg := g.Progress * 360
		return g.Radius >= t.MinRadiusMm && arcDeg >= t.MinArcDeg
	case GestureSwipe:
		length := g.Position.Sub(g.StartPosition).Norm()
		return length >= t.MinSwipeLengthMm && g.Speed >= t.MinSwipeVelocity
	}
	return true
}

// Filter returns the gestures that pass Admit, preserving order.
func (t Thresholds) Filter(gestures []Gesture) []Gesture {
	if len(gestures) == 0 {
		return gestures
	}
	out := make([]Gesture, 0, len(gestures))
	for _, g := range gestures {
		if t.Admit(g) {
			out = append(out, g)
		}
	}
	return out
}

// MinArcRadians returns MinArcDeg in radians, the unit the tracking
// service configuration uses.
func (t Thresholds) MinArcRadians() float64 {
	return t.MinArcDeg * math.Pi / 180
}
