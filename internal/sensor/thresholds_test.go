package sensor

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestThresholds_Admit(t *testing.T) {
	th := DefaultThresholds()

	t.Run("circle below minimum arc", func(t *testing.T) {
		g := Gesture{Type: GestureCircle, Progress: 0.5, Radius: 20}
		if th.Admit(g) {
			t.Error("expected half a turn to be rejected")
		}
	})

	t.Run("circle below minimum radius", func(t *testing.T) {
		g := Gesture{Type: GestureCircle, Progress: 1, Radius: 2}
		if th.Admit(g) {
			t.Error("expected small circle to be rejected")
		}
	})

	t.Run("circle meeting both minimums", func(t *testing.T) {
		g := Gesture{Type: GestureCircle, Progress: 0.75, Radius: 5}
		if !th.Admit(g) {
			t.Error("expected circle at the thresholds to be admitted")
		}
	})

	t.Run("swipe too short", func(t *testing.T) {
		g := Gesture{
			Type:          GestureSwipe,
			Speed:         2000,
			StartPosition: r3.Vector{X: 0},
			Position:      r3.Vector{X: 100},
		}
		if th.Admit(g) {
			t.Error("expected 100mm swipe to be rejected")
		}
	})

	t.Run("swipe too slow", func(t *testing.T) {
		g := Gesture{
			Type:          GestureSwipe,
			Speed:         500,
			StartPosition: r3.Vector{Y: 0},
			Position:      r3.Vector{Y: 300},
		}
		if th.Admit(g) {
			t.Error("expected slow swipe to be rejected")
		}
	})

	t.Run("swipe long and fast", func(t *testing.T) {
		g := Gesture{
			Type:          GestureSwipe,
			Speed:         1500,
			StartPosition: r3.Vector{X: -100},
			Position:      r3.Vector{X: 100},
		}
		if !th.Admit(g) {
			t.Error("expected swipe to be admitted")
		}
	})

	t.Run("other gesture types pass", func(t *testing.T) {
		if !th.Admit(Gesture{Type: "keyTap"}) {
			t.Error("expected unknown gesture type to be admitted")
		}
	})
}

func TestThresholds_Filter(t *testing.T) {
	th := DefaultThresholds()
	in := []Gesture{
		{Type: GestureCircle, Progress: 0.1, Radius: 20},
		{Type: GestureCircle, Progress: 1.5, Radius: 20},
		{Type: "keyTap"},
	}

	out := th.Filter(in)
	if len(out) != 2 {
		t.Fatalf("expected 2 gestures, got %d", len(out))
	}
	if out[0].Progress != 1.5 || out[1].Type != "keyTap" {
		t.Errorf("unexpected order: %+v", out)
	}

	if th.Filter(nil) != nil {
		t.Error("expected nil input to stay nil")
	}
}

func TestThresholds_MinArcRadians(t *testing.T) {
	th := Thresholds{MinArcDeg: 180}
	if got := th.MinArcRadians(); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("MinArcRadians() = %f, want pi", got)
	}
}
