package camera

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const epsilon = 1e-9

var approx = cmpopts.EquateApprox(0, epsilon)

func TestOrbit_SingleAxes(t *testing.T) {
	t.Run("yaw turns eye about up", func(t *testing.T) {
		got := Orbit(HomePose, 90*DegToRad, 0, 0)
		want := Pose{
			Eye:    r3.Vector{X: 500, Y: 0, Z: 0},
			Target: HomePose.Target,
			Up:     HomePose.Up,
		}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("Orbit yaw mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("pitch turns eye and up about screen x", func(t *testing.T) {
		got := Orbit(HomePose, 0, 90*DegToRad, 0)
		want := Pose{
			Eye:    r3.Vector{X: 0, Y: -500, Z: 0},
			Target: HomePose.Target,
			Up:     r3.Vector{X: 0, Y: 0, Z: 1},
		}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("Orbit pitch mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("roll leaves eye and turns up", func(t *testing.T) {
		got := Orbit(HomePose, 0, 0, 90*DegToRad)
		if diff := cmp.Diff(HomePose.Eye, got.Eye, approx); diff != "" {
			t.Errorf("roll moved the eye (-want +got):\n%s", diff)
		}
		want := r3.Vector{X: -1, Y: 0, Z: 0}
		if diff := cmp.Diff(want, got.Up, approx); diff != "" {
			t.Errorf("roll up mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("zero angles keep the pose", func(t *testing.T) {
		got := Orbit(HomePose, 0, 0, 0)
		if diff := cmp.Diff(HomePose, got, approx); diff != "" {
			t.Errorf("identity orbit changed pose (-want +got):\n%s", diff)
		}
	})
}

func TestOrbit_CompositionOrder(t *testing.T) {
	start := Pose{
		Eye:    r3.Vector{X: 120, Y: -40, Z: 310},
		Target: r3.Vector{X: 10, Y: 5, Z: -20},
		Up:     r3.Vector{X: 0, Y: 1, Z: 0},
	}
	// Make up perpendicular to the view so the screen basis is orthonormal.
	view := start.ViewDirection()
	start.Up = start.Up.Sub(view.Mul(start.Up.Dot(view))).Normalize()

	t.Run("pitch then yaw matches one call", func(t *testing.T) {
		stepwise := Orbit(Orbit(HomePose, 0, 90*DegToRad, 0), 90*DegToRad, 0, 0)
		combined := Orbit(HomePose, 90*DegToRad, 90*DegToRad, 0)
		if diff := cmp.Diff(stepwise, combined, approx); diff != "" {
			t.Errorf("composition mismatch (-stepwise +combined):\n%s", diff)
		}
	})

	t.Run("pitch yaw roll with arbitrary angles", func(t *testing.T) {
		yaw, pitch, roll := 0.7, -0.3, 0.45
		stepwise := Orbit(Orbit(Orbit(start, 0, pitch, 0), yaw, 0, 0), 0, 0, roll)
		combined := Orbit(start, yaw, pitch, roll)
		if diff := cmp.Diff(stepwise, combined, approx); diff != "" {
			t.Errorf("composition mismatch (-stepwise +combined):\n%s", diff)
		}
	})

	t.Run("order is not commutative", func(t *testing.T) {
		yawFirst := Orbit(Orbit(HomePose, 90*DegToRad, 0, 0), 0, 90*DegToRad, 0)
		combined := Orbit(HomePose, 90*DegToRad, 90*DegToRad, 0)
		if yawFirst.ApproxEqual(combined, epsilon) {
			t.Error("expected yaw-then-pitch to differ from pitch-then-yaw")
		}
	})
}

func TestOrbit_PreservesDistanceAndUnitUp(t *testing.T) {
	p := Orbit(HomePose, 0.4, -1.1, 2.3)
	if math.Abs(p.Distance()-HomePose.Distance()) > 1e-6 {
		t.Errorf("expected distance %v, got %v", HomePose.Distance(), p.Distance())
	}
	if math.Abs(p.Up.Norm()-1) > epsilon {
		t.Errorf("expected unit up, got norm %v", p.Up.Norm())
	}
	if p.Target != HomePose.Target {
		t.Errorf("target moved: %v", p.Target)
	}
}

func TestSnapRotate(t *testing.T) {
	for _, d := range []Direction{Left, Right, Up, Down} {
		t.Run(string(d)+" four times returns home", func(t *testing.T) {
			p := HomePose
			for i := 0; i < 4; i++ {
				var ok bool
				p, ok = SnapRotate(p, d)
				if !ok {
					t.Fatalf("SnapRotate(%s) not applied", d)
				}
			}
			if diff := cmp.Diff(HomePose, p, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
				t.Errorf("pose after four snaps (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("left and right are opposite yaws", func(t *testing.T) {
		l, _ := SnapRotate(HomePose, Left)
		r, _ := SnapRotate(HomePose, Right)
		if diff := cmp.Diff(r3.Vector{X: 500}, l.Eye, approx); diff != "" {
			t.Errorf("left eye (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(r3.Vector{X: -500}, r.Eye, approx); diff != "" {
			t.Errorf("right eye (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown direction is ignored", func(t *testing.T) {
		p, ok := SnapRotate(HomePose, Direction("DIAGONAL"))
		if ok {
			t.Error("expected unknown direction to be rejected")
		}
		if p != HomePose {
			t.Errorf("pose changed for unknown direction: %v", p)
		}
	})
}

func TestTranslate(t *testing.T) {
	t.Run("moves eye and target in the screen plane", func(t *testing.T) {
		got := Translate(HomePose, 10, -20)
		want := Pose{
			Eye:    r3.Vector{X: 10, Y: -20, Z: 500},
			Target: r3.Vector{X: 10, Y: -20, Z: 0},
			Up:     HomePose.Up,
		}
		if diff := cmp.Diff(want, got, approx); diff != "" {
			t.Errorf("Translate mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("screen x is not renormalized", func(t *testing.T) {
		// up tilted 30 degrees towards the view direction: |up x z| = cos 30.
		tilt := 30 * DegToRad
		p := HomePose
		p.Up = r3.Vector{X: 0, Y: math.Cos(tilt), Z: math.Sin(tilt)}

		got := Translate(p, 10, 0)
		wantX := 10 * math.Cos(tilt)
		if math.Abs(got.Eye.X-wantX) > epsilon {
			t.Errorf("expected eye x %v, got %v", wantX, got.Eye.X)
		}
		if math.Abs(got.Target.X-wantX) > epsilon {
			t.Errorf("expected target x %v, got %v", wantX, got.Target.X)
		}
	})
}

func TestZoom(t *testing.T) {
	cases := []struct {
		scale float64
		want  Extents
	}{
		{0.1, Extents{Width: 440, Height: 330}},
		{-0.5, Extents{Width: 200, Height: 150}},
		{0, HomeExtents},
	}
	for _, tc := range cases {
		got := Zoom(HomeExtents, tc.scale)
		if diff := cmp.Diff(tc.want, got, approx); diff != "" {
			t.Errorf("Zoom(%v) mismatch (-want +got):\n%s", tc.scale, diff)
		}
	}
}

func TestRotationAbout_ZeroAxis(t *testing.T) {
	m := rotationAbout(1.2, r3.Vector{}, r3.Vector{X: 3, Y: 4, Z: 5})
	p := r3.Vector{X: 1, Y: 2, Z: 3}
	if got := transformPoint(m, p); !vecNear(got, p, epsilon) {
		t.Errorf("expected identity for zero axis, got %v", got)
	}
}
