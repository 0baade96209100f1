// Package detector finds hands in webcam frames and describes them as
// MediaPipe hand landmarks.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger identifies one of the five fingers.
type Finger int

const (
	Thumb Finger = iota
	Index
	Middle
	Ring
	Pinky
)

// fingerJoints maps each finger to its base and tip landmark.
var fingerJoints = [5][2]int{
	Thumb:  {ThumbMCP, ThumbTip},
	Index:  {IndexMCP, IndexTip},
	Middle: {MiddleMCP, MiddleTip},
	Ring:   {RingMCP, RingTip},
	Pinky:  {PinkyMCP, PinkyTip},
}

// Curl ratios of tip-to-wrist over base-to-wrist distance. At or above
// ExtendedRatio a finger counts as straight, at or below CurledRatio as
// fully folded.
const (
	ExtendedRatio = 1.5
	CurledRatio   = 0.8
)

// Point3D is a landmark position. X and Y are normalized to the image
// (0..1, y down); Z is depth relative to the wrist in roughly X units.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// IsRight reports whether MediaPipe labelled the hand as a right hand.
func (h *HandLandmarks) IsRight() bool {
	return h.Handedness == "Right"
}

// ratio compares how far the tip is from the reference point with how far
// the finger base is. The thumb is measured against the index base since
// it folds across the palm rather than towards the wrist.
func (h *HandLandmarks) ratio(f Finger) float64 {
	base, tip := fingerJoints[f][0], fingerJoints[f][1]
	ref := h.Points[Wrist]
	if f == Thumb {
		ref = h.Points[IndexMCP]
	}

	baseDist := distance3D(h.Points[base], ref)
	if baseDist < 1e-10 {
		return 0
	}
	return distance3D(h.Points[tip], ref) / baseDist
}

// Extended reports whether finger f is straight.
func (h *HandLandmarks) Extended(f Finger) bool {
	return h.ratio(f) >= ExtendedRatio
}

// ExtendedCount returns how many fingers, thumb included, are straight.
func (h *HandLandmarks) ExtendedCount() int {
	n := 0
	for f := Thumb; f <= Pinky; f++ {
		if h.Extended(f) {
			n++
		}
	}
	return n
}

// GrabStrength estimates how closed the hand is, from 0 (open) to 1 (fist),
// by averaging the curl of the four non-thumb fingers.
func (h *HandLandmarks) GrabStrength() float64 {
	var sum float64
	for f := Index; f <= Pinky; f++ {
		curl := (ExtendedRatio - h.ratio(f)) / (ExtendedRatio - CurledRatio)
		sum += math.Max(0, math.Min(1, curl))
	}
	return sum / 4
}

// Tip returns the tip landmark of finger f.
func (h *HandLandmarks) Tip(f Finger) Point3D {
	return h.Points[fingerJoints[f][1]]
}
