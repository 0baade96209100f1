// Package sensor defines hand-tracking frames and the sources that deliver
// them: the tracking service over WebSocket, recorded replays and a mock for
// tests. The webcam landmark pipeline lives in sensor/webcam.
package sensor

import (
	"math"

	"github.com/golang/geo/r3"
)

// Hand is one tracked hand in a frame. Positions are in millimetres in the
// sensor's frame of reference: x to the right, y up, z towards the user.
type Hand struct {
	ID           int       `json:"id"`
	Position     r3.Vector `json:"position"`
	PalmNormal   r3.Vector `json:"palm_normal"`
	GrabStrength float64   `json:"grab_strength"`
	IsRight      bool      `json:"is_right"`
	// ExtendedFingers counts fingers, thumb included, that are straight.
	ExtendedFingers int `json:"extended_fingers"`
	// Fingertip is the tip of the extended finger when exactly one is
	// extended, otherwise the tip of the frontmost finger.
	Fingertip r3.Vector `json:"fingertip"`
}

// Roll returns the rotation of the palm normal around the z axis in
// radians. A palm facing up has a roll near +/-pi.
func (h Hand) Roll() float64 {
	return math.Atan2(h.PalmNormal.X, -h.PalmNormal.Y)
}

// GestureType names a discrete gesture recognised by the sensor.
type GestureType string

const (
	GestureCircle GestureType = "circle"
	GestureSwipe  GestureType = "swipe"
)

// GestureState is the lifecycle stage of a gesture.
type GestureState string

const (
	StateStart   GestureState = "start"
	StateUpdate  GestureState = "update"
	StateStop    GestureState = "stop"
	StateInvalid GestureState = "invalid"
)

// Gesture is a discrete gesture event. Circle fields are set for circles,
// swipe fields for swipes.
type Gesture struct {
	Type  GestureType  `json:"type"`
	State GestureState `json:"state"`

	// Progress is the number of completed turns of a circle.
	Progress           float64   `json:"progress,omitempty"`
	PointableDirection r3.Vector `json:"pointable_direction"`
	Normal             r3.Vector `json:"normal"`
	Radius             float64   `json:"radius,omitempty"`

	Direction     r3.Vector `json:"direction"`
	Speed         float64   `json:"speed,omitempty"`
	StartPosition r3.Vector `json:"start_position"`
	Position      r3.Vector `json:"position"`
}

// Frame is one sensor sample. It is immutable once delivered.
type Frame struct {
	ID int64 `json:"id"`
	// Timestamp is in microseconds.
	Timestamp       int64     `json:"timestamp"`
	FramesPerSecond float64   `json:"fps"`
	Hands           []Hand    `json:"hands"`
	Gestures        []Gesture `json:"gestures,omitempty"`
}

// HandCount returns the number of tracked hands.
func (f *Frame) HandCount() int {
	if f == nil {
		return 0
	}
	return len(f.Hands)
}

// Leftmost returns the hand with the smallest x position.
func (f *Frame) Leftmost() (Hand, bool) {
	return f.pick(func(a, b Hand) bool { return a.Position.X < b.Position.X })
}

// Rightmost returns the hand with the largest x position.
func (f *Frame) Rightmost() (Hand, bool) {
	return f.pick(func(a, b Hand) bool { return a.Position.X > b.Position.X })
}

// Frontmost returns the hand closest to the screen (smallest z).
func (f *Frame) Frontmost() (Hand, bool) {
	return f.pick(func(a, b Hand) bool { return a.Position.Z < b.Position.Z })
}

// HandByID returns the hand with the given tracking ID.
func (f *Frame) HandByID(id int) (Hand, bool) {
	if f == nil {
		return Hand{}, false
	}
	for _, h := range f.Hands {
		if h.ID == id {
			return h, true
		}
	}
	return Hand{}, false
}

func (f *Frame) pick(better func(a, b Hand) bool) (Hand, bool) {
	if f.HandCount() == 0 {
		return Hand{}, false
	}
	best := f.Hands[0]
	for _, h := range f.Hands[1:] {
		if better(h, best) {
			best = h
		}
	}
	return best, true
}
