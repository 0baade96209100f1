package gesture

import (
	"math"

	"github.com/ayusman/handcam/internal/sensor"
)

// Reset pose limits. Both hands must be open, turned over, and steady.
const (
	StillMaxGrab        = 0.2
	StillMinRollDeg     = 140.0
	StillMaxRotationDeg = 30.0
)

// Pair holds the two hands of a frame, assigned by the user's handedness.
type Pair struct {
	Left  sensor.Hand
	Right sensor.Hand
}

// IsStill reports whether both hands hold the reset pose in cur and have
// not turned by StillMaxRotationDeg or more since prev. Without a previous
// frame the pose cannot be confirmed.
func IsStill(cur, prev Pair, hasPrev bool) bool {
	if !hasPrev {
		return false
	}
	return handStill(cur.Left, prev.Left) && handStill(cur.Right, prev.Right)
}

func handStill(h, prev sensor.Hand) bool {
	if h.GrabStrength >= StillMaxGrab {
		return false
	}
	if math.Abs(h.Roll()) <= stillMinRollRad() {
		return false
	}
	return float64(h.PalmNormal.Angle(prev.PalmNormal)) < StillMaxRotationDeg*math.Pi/180
}

func stillMinRollRad() float64 {
	return StillMinRollDeg * math.Pi / 180
}

// Debouncer fires once a condition has held for a number of consecutive
// frames. The zero value is ready to use.
type Debouncer struct {
	count int
}

// Update records one frame. It returns true when the condition has held
// for more than waitSeconds at fps frames per second, then starts over. A
// frame without the condition starts over without firing.
func (d *Debouncer) Update(still bool, fps, waitSeconds float64) bool {
	if !still {
		d.count = 0
		return false
	}
	d.count++
	if float64(d.count) > waitSeconds*fps {
		d.count = 0
		return true
	}
	return false
}

// Count returns the number of consecutive frames seen so far.
func (d *Debouncer) Count() int {
	return d.count
}

// Reset clears the frame count.
func (d *Debouncer) Reset() {
	d.count = 0
}
