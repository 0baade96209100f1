package deadzone

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func TestFilter(t *testing.T) {
	t.Run("zero inside dead zone", func(t *testing.T) {
		for _, raw := range []float64{0, 1, -1, 9.99, -9.99, 10, -10} {
			if got := Filter(raw, 10); got != 0 {
				t.Errorf("Filter(%v, 10) = %v, want 0", raw, got)
			}
		}
	})

	t.Run("residual outside dead zone keeps sign", func(t *testing.T) {
		if got := Filter(25, 10); math.Abs(got-15) > epsilon {
			t.Errorf("Filter(25, 10) = %v, want 15", got)
		}
		if got := Filter(-25, 10); math.Abs(got+15) > epsilon {
			t.Errorf("Filter(-25, 10) = %v, want -15", got)
		}
	})

	t.Run("strictly increasing beyond dead zone", func(t *testing.T) {
		const dz = 7.5
		prev := 0.0
		for raw := dz + 0.5; raw < 200; raw += 0.5 {
			got := Filter(raw, dz)
			if got <= prev {
				t.Fatalf("Filter(%v) = %v, not greater than previous %v", raw, got, prev)
			}
			if neg := Filter(-raw, dz); math.Abs(neg+got) > epsilon {
				t.Fatalf("Filter(%v) = %v, want %v", -raw, neg, -got)
			}
			prev = got
		}
	})

	t.Run("zero dead zone passes raw through", func(t *testing.T) {
		if got := Filter(3.25, 0); got != 3.25 {
			t.Errorf("Filter(3.25, 0) = %v, want 3.25", got)
		}
		if got := Filter(0, 0); got != 0 {
			t.Errorf("Filter(0, 0) = %v, want 0", got)
		}
	})
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		x, y float64
		want Activity
	}{
		{"none", 5, -5, None},
		{"x only", 30, 5, XOnly},
		{"y only", -5, -30, YOnly},
		{"both", -30, 30, Both},
		{"boundary is inside", 10, 10, None},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.x, tc.y, 10, 10); got != tc.want {
				t.Errorf("Classify(%v, %v) = %v, want %v", tc.x, tc.y, got, tc.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	s := Apply(40, 3, -60, 10, 10, 50)

	if s.Activity != XOnly {
		t.Errorf("expected activity x, got %v", s.Activity)
	}
	if math.Abs(s.X-30) > epsilon {
		t.Errorf("expected X residual 30, got %v", s.X)
	}
	if s.Y != 0 {
		t.Errorf("expected Y residual 0, got %v", s.Y)
	}
	if !s.ZActive {
		t.Error("expected Z to be active")
	}
	if math.Abs(s.Z+10) > epsilon {
		t.Errorf("expected Z residual -10, got %v", s.Z)
	}
}
