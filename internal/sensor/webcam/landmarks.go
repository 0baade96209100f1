package webcam

import (
	"github.com/golang/geo/r3"

	"github.com/ayusman/handcam/internal/detector"
	"github.com/ayusman/handcam/internal/sensor"
)

// Scale of the webcam interaction volume. Normalized image coordinates are
// stretched to roughly the size of the tracking service's field of view so
// that dead zones and center height mean the same in both sources.
const (
	WidthMm  = 400.0
	HeightMm = 400.0
	DepthMm  = 200.0
	// ReferencePalmSize is the wrist to middle-knuckle distance, in
	// normalized image units, of a hand held at the neutral depth.
	ReferencePalmSize = 0.15
)

// toSensor maps a normalized image point into sensor millimetres: x to the
// right, y up from the bottom edge of the image.
func toSensor(p detector.Point3D) r3.Vector {
	return r3.Vector{
		X: (p.X - 0.5) * WidthMm,
		Y: (1 - p.Y) * HeightMm,
		Z: p.Z * WidthMm,
	}
}

// FromLandmarks converts detected landmarks into a Hand. The palm position
// is the centroid of the wrist and the four knuckles. Depth is estimated
// from the apparent palm size: a hand closer to the camera looks larger
// and is reported with a smaller z.
func FromLandmarks(lm detector.HandLandmarks, id int) sensor.Hand {
	palm := []int{detector.Wrist, detector.IndexMCP, detector.MiddleMCP, detector.RingMCP, detector.PinkyMCP}
	var center r3.Vector
	for _, i := range palm {
		center = center.Add(toSensor(lm.Points[i]))
	}
	center = center.Mul(1 / float64(len(palm)))

	wrist := lm.Points[detector.Wrist]
	middle := lm.Points[detector.MiddleMCP]
	size := r3.Vector{X: middle.X - wrist.X, Y: middle.Y - wrist.Y}.Norm()
	center.Z = (ReferencePalmSize - size) / ReferencePalmSize * DepthMm

	w := toSensor(wrist)
	normal := toSensor(lm.Points[detector.IndexMCP]).Sub(w).Cross(toSensor(lm.Points[detector.PinkyMCP]).Sub(w))
	if !lm.IsRight() {
		normal = normal.Mul(-1)
	}
	if normal.Norm() > 0 {
		normal = normal.Normalize()
	}

	h := sensor.Hand{
		ID:              id,
		Position:        center,
		PalmNormal:      normal,
		GrabStrength:    lm.GrabStrength(),
		IsRight:         lm.IsRight(),
		ExtendedFingers: lm.ExtendedCount(),
		Fingertip:       toSensor(lm.Tip(detector.Index)),
	}
	if h.ExtendedFingers == 1 {
		for f := detector.Thumb; f <= detector.Pinky; f++ {
			if lm.Extended(f) {
				h.Fingertip = toSensor(lm.Tip(f))
				break
			}
		}
	}
	return h
}
