// Package gesture turns discrete sensor gestures and two-hand poses into
// camera intents.
package gesture

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/ayusman/handcam/internal/camera"
	"github.com/ayusman/handcam/internal/intent"
	"github.com/ayusman/handcam/internal/sensor"
)

// CircleStep is the sensitivity change of one full circle.
const CircleStep = 0.1

// Enabled selects which discrete gestures are acted on.
type Enabled struct {
	Circle bool
	Swipe  bool
}

// Classify maps a gesture to an intent. Only finished gestures of an
// enabled type produce one; everything else is ignored. Recognition
// thresholds have already been applied by the sensor.
func Classify(g sensor.Gesture, enabled Enabled) (intent.Intent, bool) {
	if g.State != sensor.StateStop {
		return intent.Intent{}, false
	}

	switch g.Type {
	case sensor.GestureCircle:
		if !enabled.Circle {
			return intent.Intent{}, false
		}
		return intent.SensitivityDelta(CircleStep * CircleDirection(g) * g.Progress), true

	case sensor.GestureSwipe:
		if !enabled.Swipe {
			return intent.Intent{}, false
		}
		d, ok := SwipeDirection(g.Direction)
		if !ok {
			return intent.Intent{}, false
		}
		return intent.SnapRotate(d), true
	}
	return intent.Intent{}, false
}

// CircleDirection returns +1 for a clockwise circle, where the circle's
// normal is within 90 degrees of the pointing finger, and -1 otherwise.
func CircleDirection(g sensor.Gesture) float64 {
	if float64(g.PointableDirection.Angle(g.Normal)) <= math.Pi/2 {
		return 1
	}
	return -1
}

// SwipeDirection picks the cardinal direction of the dominant axis of a
// swipe. Horizontal wins only when strictly larger. A zero component on
// the dominant axis has no direction.
func SwipeDirection(v r3.Vector) (camera.Direction, bool) {
	if math.Abs(v.X) > math.Abs(v.Y) {
		switch {
		case v.X < 0:
			return camera.Left, true
		case v.X > 0:
			return camera.Right, true
		}
		return "", false
	}
	switch {
	case v.Y < 0:
		return camera.Down, true
	case v.Y > 0:
		return camera.Up, true
	}
	return "", false
}
