package camera

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// DegToRad converts degrees to radians.
const DegToRad = math.Pi / 180

// SnapAngle is the rotation applied by a snap gesture.
const SnapAngle = 90 * DegToRad

// screenAxes returns the screen-aligned basis of a pose. Only Z is
// normalized; Y is the pose's up vector as given and X = Y x Z carries
// whatever magnitude that produces.
func screenAxes(p Pose) (x, y, z r3.Vector) {
	z = p.Eye.Sub(p.Target).Normalize()
	y = p.Up
	x = y.Cross(z)
	return x, y, z
}

// Orbit rotates the eye and up vector around the target. yaw turns about the
// screen Y axis, pitch about screen X and roll about screen Z, all in
// radians. The rotations are composed as R = Rx(pitch) * Ry(yaw) * Rz(roll);
// the order is not commutative and is part of the contract.
func Orbit(p Pose, yaw, pitch, roll float64) Pose {
	sx, sy, sz := screenAxes(p)

	rx := rotationAbout(pitch, sx, p.Target)
	ry := rotationAbout(yaw, sy, p.Target)
	rz := rotationAbout(roll, sz, p.Target)

	var rxy, r mat.Dense
	rxy.Mul(rx, ry)
	r.Mul(&rxy, rz)

	return Pose{
		Eye:    transformPoint(&r, p.Eye),
		Target: p.Target,
		Up:     transformVector(&r, p.Up).Normalize(),
	}
}

// Translate pans the view in the screen plane by moving eye and target
// together by scaleX * X + scaleY * Y of the screen basis.
func Translate(p Pose, scaleX, scaleY float64) Pose {
	sx, sy, _ := screenAxes(p)
	offset := sx.Mul(scaleX).Add(sy.Mul(scaleY))

	return Pose{
		Eye:    p.Eye.Add(offset),
		Target: p.Target.Add(offset),
		Up:     p.Up,
	}
}

// Zoom grows (scale > 0) or shrinks (scale < 0) the extents proportionally.
func Zoom(e Extents, scale float64) Extents {
	return Extents{
		Width:  e.Width + e.Width*scale,
		Height: e.Height + e.Height*scale,
	}
}

// SnapRotate turns the view by 90 degrees: LEFT and RIGHT yaw by +90 and -90,
// UP and DOWN pitch by +90 and -90. It returns false for an unknown direction.
func SnapRotate(p Pose, d Direction) (Pose, bool) {
	switch d {
	case Left:
		return Orbit(p, SnapAngle, 0, 0), true
	case Right:
		return Orbit(p, -SnapAngle, 0, 0), true
	case Up:
		return Orbit(p, 0, SnapAngle, 0), true
	case Down:
		return Orbit(p, 0, -SnapAngle, 0), true
	}
	return p, false
}

// rotationAbout builds the 4x4 homogeneous matrix rotating by angle radians
// about the line through center along axis. A zero-length axis yields the
// identity.
func rotationAbout(angle float64, axis, center r3.Vector) *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}

	n := axis.Norm()
	if n == 0 || angle == 0 {
		return m
	}
	u := axis.Mul(1 / n)

	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c

	rot := [3][3]float64{
		{t*u.X*u.X + c, t*u.X*u.Y - s*u.Z, t*u.X*u.Z + s*u.Y},
		{t*u.X*u.Y + s*u.Z, t*u.Y*u.Y + c, t*u.Y*u.Z - s*u.X},
		{t*u.X*u.Z - s*u.Y, t*u.Y*u.Z + s*u.X, t*u.Z*u.Z + c},
	}

	// p' = R(p - center) + center, so the translation column is center - R*center.
	cv := [3]float64{center.X, center.Y, center.Z}
	for i := 0; i < 3; i++ {
		tr := cv[i]
		for j := 0; j < 3; j++ {
			m.Set(i, j, rot[i][j])
			tr -= rot[i][j] * cv[j]
		}
		m.Set(i, 3, tr)
	}
	return m
}

func transformPoint(m mat.Matrix, p r3.Vector) r3.Vector {
	return apply(m, p, 1)
}

// transformVector applies only the rotational part of m.
func transformVector(m mat.Matrix, v r3.Vector) r3.Vector {
	return apply(m, v, 0)
}

func apply(m mat.Matrix, v r3.Vector, w float64) r3.Vector {
	in := mat.NewVecDense(4, []float64{v.X, v.Y, v.Z, w})
	var out mat.VecDense
	out.MulVec(m, in)
	return r3.Vector{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}
