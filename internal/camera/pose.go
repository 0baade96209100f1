// Package camera implements the viewport camera math and the interface to
// the 3D application that owns the live camera.
package camera

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Pose is a camera position: the eye looks at target with up as the
// screen's vertical direction. Up is kept unit length.
type Pose struct {
	Eye    r3.Vector `json:"eye"`
	Target r3.Vector `json:"target"`
	Up     r3.Vector `json:"up"`
}

// Extents is the visible width and height of the view at the target.
type Extents struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Direction names a cardinal 90 degree snap rotation.
type Direction string

const (
	Left  Direction = "LEFT"
	Right Direction = "RIGHT"
	Up    Direction = "UP"
	Down  Direction = "DOWN"
)

// Valid reports whether d is one of the four snap directions.
func (d Direction) Valid() bool {
	switch d {
	case Left, Right, Up, Down:
		return true
	}
	return false
}

// CommitMode selects how a pose change is presented by the host.
type CommitMode int

const (
	// Instant applies the change without a transition. Used for continuous
	// hand tracking.
	Instant CommitMode = iota
	// Animated applies the change with the host's view transition.
	Animated
)

func (m CommitMode) String() string {
	if m == Animated {
		return "animated"
	}
	return "instant"
}

// ParseCommitMode is the inverse of CommitMode.String.
func ParseCommitMode(s string) (CommitMode, bool) {
	switch s {
	case "instant":
		return Instant, true
	case "animated":
		return Animated, true
	}
	return Instant, false
}

// ViewDirection returns the unit vector from the target to the eye.
func (p Pose) ViewDirection() r3.Vector {
	return p.Eye.Sub(p.Target).Normalize()
}

// Distance returns the distance between eye and target.
func (p Pose) Distance() float64 {
	return p.Eye.Sub(p.Target).Norm()
}

// ApproxEqual reports whether all three vectors of p and o differ by at most eps
// per component.
func (p Pose) ApproxEqual(o Pose, eps float64) bool {
	return vecNear(p.Eye, o.Eye, eps) && vecNear(p.Target, o.Target, eps) && vecNear(p.Up, o.Up, eps)
}

func (p Pose) String() string {
	return fmt.Sprintf("eye=%v target=%v up=%v", p.Eye, p.Target, p.Up)
}

func vecNear(a, b r3.Vector, eps float64) bool {
	d := a.Sub(b).Abs()
	return d.X <= eps && d.Y <= eps && d.Z <= eps
}
