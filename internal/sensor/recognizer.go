package sensor

import (
	"math"

	"github.com/golang/geo/r3"
)

// Path recognition parameters.
const (
	// MaxPathPoints bounds the fingertip history the recognizer keeps.
	MaxPathPoints = 60
	// MinPathPoints is the shortest history a gesture is recognized from.
	MinPathPoints = 6
	// MinStraightness is the ratio of displacement to travelled distance a
	// swipe needs.
	MinStraightness = 0.8
	// MinRadiusRatio is how close to the centroid, relative to the mean
	// radius, a circle's path may come.
	MinRadiusRatio = 0.5
)

// PathPoint is one fingertip sample.
type PathPoint struct {
	Position r3.Vector
	// Timestamp is in microseconds.
	Timestamp int64
}

// Recognizer turns a fingertip path into circle and swipe gestures, for
// sources that only report hand positions. It is not safe for concurrent
// use.
type Recognizer struct {
	thresholds Thresholds
	path       []PathPoint
}

// NewRecognizer creates a Recognizer gated by t.
func NewRecognizer(t Thresholds) *Recognizer {
	return &Recognizer{
		thresholds: t,
		path:       make([]PathPoint, 0, MaxPathPoints),
	}
}

// SetThresholds replaces the recognition thresholds.
func (r *Recognizer) SetThresholds(t Thresholds) {
	r.thresholds = t
}

// Reset forgets the current path.
func (r *Recognizer) Reset() {
	r.path = r.path[:0]
}

// Len returns the number of buffered samples.
func (r *Recognizer) Len() int {
	return len(r.path)
}

// Add appends a fingertip sample and returns the gesture it completes, if
// any. A recognized gesture is reported once in the stop state and the
// path starts over.
func (r *Recognizer) Add(p PathPoint) (Gesture, bool) {
	if len(r.path) == MaxPathPoints {
		copy(r.path, r.path[1:])
		r.path = r.path[:MaxPathPoints-1]
	}
	r.path = append(r.path, p)

	if len(r.path) < MinPathPoints {
		return Gesture{}, false
	}

	if g, ok := r.circle(); ok {
		r.Reset()
		return g, true
	}
	if g, ok := r.swipe(); ok {
		r.Reset()
		return g, true
	}
	return Gesture{}, false
}

// circle measures how far the path turns around its centroid in the x/y
// plane.
func (r *Recognizer) circle() (Gesture, bool) {
	var center r3.Vector
	for _, p := range r.path {
		center = center.Add(p.Position)
	}
	center = center.Mul(1 / float64(len(r.path)))

	var turned, radius float64
	nearest := math.Inf(1)
	prev := angleAround(center, r.path[0].Position)
	for i, p := range r.path {
		d := flat(p.Position.Sub(center)).Norm()
		radius += d
		nearest = math.Min(nearest, d)
		if i == 0 {
			continue
		}
		a := angleAround(center, p.Position)
		turned += wrapAngle(a - prev)
		prev = a
	}
	radius /= float64(len(r.path))

	// A path passing through its own centroid is a line, not a loop.
	if nearest < MinRadiusRatio*radius {
		return Gesture{}, false
	}
	if math.Abs(turned) < r.thresholds.MinArcRadians() || radius < r.thresholds.MinRadiusMm || radius == 0 {
		return Gesture{}, false
	}

	// Seen by the user, a clockwise circle turns negatively in the x/y
	// plane and its normal points into the screen, along the finger.
	normal := r3.Vector{Z: 1}
	if turned < 0 {
		normal = r3.Vector{Z: -1}
	}
	return Gesture{
		Type:               GestureCircle,
		State:              StateStop,
		Progress:           math.Abs(turned) / (2 * math.Pi),
		PointableDirection: r3.Vector{Z: -1},
		Normal:             normal,
		Radius:             radius,
	}, true
}

// swipe looks for the longest straight, fast enough trailing segment of
// the path.
func (r *Recognizer) swipe() (Gesture, bool) {
	n := len(r.path)
	end := r.path[n-1]

	var travelled float64
	var best Gesture
	found := false
	for i := n - 2; i >= 0; i-- {
		travelled += r.path[i+1].Position.Sub(r.path[i].Position).Norm()
		start := r.path[i]

		disp := end.Position.Sub(start.Position)
		length := disp.Norm()
		if length == 0 || length/travelled < MinStraightness {
			break
		}

		seconds := float64(end.Timestamp-start.Timestamp) / 1e6
		if seconds <= 0 {
			continue
		}
		speed := length / seconds
		if length < r.thresholds.MinSwipeLengthMm || speed < r.thresholds.MinSwipeVelocity {
			continue
		}

		best = Gesture{
			Type:          GestureSwipe,
			State:         StateStop,
			Direction:     disp.Normalize(),
			Speed:         speed,
			StartPosition: start.Position,
			Position:      end.Position,
		}
		found = true
	}
	return best, found
}

func flat(v r3.Vector) r3.Vector {
	return r3.Vector{X: v.X, Y: v.Y}
}

func angleAround(center, p r3.Vector) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X)
}

// wrapAngle maps a into (-pi, pi].
func wrapAngle(a float64) float64 {
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
