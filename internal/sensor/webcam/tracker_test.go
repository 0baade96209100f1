package webcam

import (
	"testing"

	"github.com/golang/geo/r3"

	"github.com/ayusman/handcam/internal/config"
	"github.com/ayusman/handcam/internal/intent"
	"github.com/ayusman/handcam/internal/interpreter"
	"github.com/ayusman/handcam/internal/sensor"
)

func hand(x float64, right bool) sensor.Hand {
	return sensor.Hand{
		Position:     r3.Vector{X: x, Y: 200},
		PalmNormal:   r3.Vector{Y: 1},
		GrabStrength: 0.05,
		IsRight:      right,
	}
}

func TestTracker_Assign(t *testing.T) {
	t.Run("fresh ids", func(t *testing.T) {
		tr := NewTracker()
		hands := []sensor.Hand{hand(-100, false), hand(100, true)}
		tr.Assign(hands)
		if hands[0].ID != 1 || hands[1].ID != 2 {
			t.Errorf("expected ids 1 and 2, got %d and %d", hands[0].ID, hands[1].ID)
		}
	})

	t.Run("reordered detections keep their ids", func(t *testing.T) {
		tr := NewTracker()
		first := []sensor.Hand{hand(-100, false), hand(100, true)}
		tr.Assign(first)

		second := []sensor.Hand{hand(105, true), hand(-95, false)}
		tr.Assign(second)
		if second[0].ID != first[1].ID || second[1].ID != first[0].ID {
			t.Errorf("ids not carried over: first=%d,%d second=%d,%d",
				first[0].ID, first[1].ID, second[0].ID, second[1].ID)
		}
	})

	t.Run("same handedness matches nearest", func(t *testing.T) {
		tr := NewTracker()
		first := []sensor.Hand{hand(-60, true), hand(60, true)}
		tr.Assign(first)

		second := []sensor.Hand{hand(55, true), hand(-50, true)}
		tr.Assign(second)
		if second[0].ID != first[1].ID || second[1].ID != first[0].ID {
			t.Errorf("expected nearest match, got %d,%d", second[0].ID, second[1].ID)
		}
	})

	t.Run("handedness change is a new hand", func(t *testing.T) {
		tr := NewTracker()
		first := []sensor.Hand{hand(0, true)}
		tr.Assign(first)

		second := []sensor.Hand{hand(0, false)}
		tr.Assign(second)
		if second[0].ID == first[0].ID {
			t.Error("expected a new id for a hand of the other side")
		}
	})

	t.Run("large jump is a new hand", func(t *testing.T) {
		tr := NewTracker()
		first := []sensor.Hand{hand(-150, true)}
		tr.Assign(first)

		second := []sensor.Hand{hand(150, true)}
		tr.Assign(second)
		if second[0].ID == first[0].ID {
			t.Errorf("expected a new id after moving %v mm", 300.0)
		}
	})

	t.Run("reset forgets", func(t *testing.T) {
		tr := NewTracker()
		first := []sensor.Hand{hand(0, true)}
		tr.Assign(first)
		tr.Reset()

		second := []sensor.Hand{hand(0, true)}
		tr.Assign(second)
		if second[0].ID == first[0].ID {
			t.Error("expected a new id after reset")
		}
	})
}

// Two still hands reported in alternating order must still complete the
// reset pose once their IDs go through the tracker.
func TestTracker_ResetPoseWithAlternatingOrder(t *testing.T) {
	tr := NewTracker()
	it := interpreter.New()
	s := config.Defaults()

	homes := 0
	for i := 0; i < 60; i++ {
		left := hand(-100, false)
		right := hand(100, true)
		right.PalmNormal = r3.Vector{X: 0.57, Y: 0.82}.Normalize()

		hands := []sensor.Hand{left, right}
		if i%2 == 1 {
			hands = []sensor.Hand{right, left}
		}
		tr.Assign(hands)

		for _, in := range it.Process(sensor.Frame{ID: int64(i + 1), FramesPerSecond: 10, Hands: hands}, s) {
			if in.Kind == intent.KindHome {
				homes++
			}
		}
	}
	if homes != 2 {
		t.Errorf("expected 2 resets over 60 still frames, got %d", homes)
	}
}
