// Package interpreter turns each sensor frame into the camera intents it
// calls for.
package interpreter

import (
	"github.com/ayusman/handcam/internal/config"
	"github.com/ayusman/handcam/internal/deadzone"
	"github.com/ayusman/handcam/internal/gesture"
	"github.com/ayusman/handcam/internal/intent"
	"github.com/ayusman/handcam/internal/sensor"
)

// Hand pose limits.
const (
	// GestureMaxGrab is how closed the non-pointing hand may be while the
	// pointing hand draws gestures.
	GestureMaxGrab = 0.3
	// OrbitMaxGrab and OrbitMinFingers describe the open hand that orbits.
	OrbitMaxGrab    = 0.65
	OrbitMinFingers = 3
	// RollGain amplifies palm roll relative to positional orbit input.
	RollGain = 50.0
)

// Interpreter holds the state carried between frames: the previous frame
// and the reset debouncer. It is not safe for concurrent use; frames are
// processed one at a time in arrival order.
type Interpreter struct {
	// ring holds the current and previous frame.
	ring  [2]sensor.Frame
	count int
	head  int

	reset gesture.Debouncer
}

// New creates an Interpreter with no frame history.
func New() *Interpreter {
	return &Interpreter{}
}

// Process interprets frame f under settings s and returns the intents for
// it, discrete ones first.
func (it *Interpreter) Process(f sensor.Frame, s config.Settings) []intent.Intent {
	prev, hasPrev := it.Last()
	it.push(f)

	switch n := f.HandCount(); {
	case n > 1:
		return it.twoHands(&f, &prev, hasPrev, s)
	case n == 1:
		it.reset.Reset()
		return oneHand(&f, s)
	default:
		it.reset.Reset()
		return nil
	}
}

// Last returns the most recently processed frame, the lookback for the
// next call to Process.
func (it *Interpreter) Last() (sensor.Frame, bool) {
	if it.count == 0 {
		return sensor.Frame{}, false
	}
	return it.ring[it.head], true
}

// StillFrames returns how many consecutive frames have held the reset pose.
func (it *Interpreter) StillFrames() int {
	return it.reset.Count()
}

// Reset drops the frame history and the reset progress.
func (it *Interpreter) Reset() {
	it.ring = [2]sensor.Frame{}
	it.count = 0
	it.head = 0
	it.reset.Reset()
}

func (it *Interpreter) push(f sensor.Frame) {
	if it.count > 0 {
		it.head = (it.head + 1) % len(it.ring)
	}
	it.ring[it.head] = f
	if it.count < len(it.ring) {
		it.count++
	}
}

// pair assigns the hands of f to the user's non-pointing ("left") and
// pointing ("right") hand. Left-handed users mirror the assignment.
func pair(f *sensor.Frame, rightHanded bool) gesture.Pair {
	leftmost, _ := f.Leftmost()
	rightmost, _ := f.Rightmost()
	if rightHanded {
		return gesture.Pair{Left: leftmost, Right: rightmost}
	}
	return gesture.Pair{Left: rightmost, Right: leftmost}
}

// previousPair finds the hands of cur in the previous frame by tracking ID.
func previousPair(cur gesture.Pair, prev *sensor.Frame) (gesture.Pair, bool) {
	left, okLeft := prev.HandByID(cur.Left.ID)
	right, okRight := prev.HandByID(cur.Right.ID)
	return gesture.Pair{Left: left, Right: right}, okLeft && okRight
}

func (it *Interpreter) twoHands(f, prev *sensor.Frame, hasPrev bool, s config.Settings) []intent.Intent {
	var out []intent.Intent

	hands := pair(f, s.RightHanded)

	var prevHands gesture.Pair
	if hasPrev {
		prevHands, hasPrev = previousPair(hands, prev)
	}
	still := gesture.IsStill(hands, prevHands, hasPrev)
	if it.reset.Update(still, f.FramesPerSecond, s.ResetWaitSeconds) {
		out = append(out, intent.Home())
	}

	if hands.Left.GrabStrength < GestureMaxGrab && len(f.Gestures) > 0 {
		enabled := gesture.Enabled{Circle: s.CircleEnabled, Swipe: s.SwipeEnabled}
		if in, ok := gesture.Classify(f.Gestures[0], enabled); ok {
			out = append(out, in)
		}
	}
	return out
}

// oneHand derives continuous moves from the single tracked hand. One
// extended finger pans, an open hand orbits and zooms.
func oneHand(f *sensor.Frame, s config.Settings) []intent.Intent {
	h, _ := f.Frontmost()
	if h.IsRight != s.RightHanded {
		return nil
	}

	pos := h.Position
	if h.ExtendedFingers == 1 {
		pos.X, pos.Y = h.Fingertip.X, h.Fingertip.Y
	}
	pos.Y -= s.CenterHeight

	sig := deadzone.Apply(pos.X, pos.Y, pos.Z, s.DeadZoneX, s.DeadZoneY, s.DeadZoneZ)
	scale := s.Scale()

	var out []intent.Intent

	if h.ExtendedFingers == 1 {
		switch sig.Activity {
		case deadzone.XOnly:
			out = append(out, intent.Translate(sig.X*-scale, 0))
		case deadzone.YOnly:
			out = append(out, intent.Translate(0, sig.Y*-scale))
		case deadzone.Both:
			out = append(out, intent.Translate(sig.X*-scale, sig.Y*-scale))
		}
	}

	if h.GrabStrength < OrbitMaxGrab && h.ExtendedFingers > OrbitMinFingers {
		roll := h.Roll() * -scale * RollGain
		switch sig.Activity {
		case deadzone.XOnly:
			out = append(out, intent.Orbit(sig.X*-scale, 0, roll))
		case deadzone.YOnly:
			out = append(out, intent.Orbit(0, sig.Y*scale, roll))
		case deadzone.Both:
			out = append(out, intent.Orbit(sig.X*-scale, sig.Y*scale, roll))
		default:
			out = append(out, intent.Orbit(0, 0, roll))
		}

		if sig.ZActive {
			out = append(out, intent.Zoom(sig.Z*-scale))
		}
	}
	return out
}
