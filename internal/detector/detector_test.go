package detector

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestHandLandmarks_ExtendedFingers(t *testing.T) {
	t.Run("open palm has five extended fingers", func(t *testing.T) {
		palm := OpenPalmLandmarks()
		if got := palm.ExtendedCount(); got != 5 {
			t.Errorf("expected 5 extended fingers, got %d", got)
		}
	})

	t.Run("pointing hand extends only the index", func(t *testing.T) {
		pointing := PointingLandmarks()
		if got := pointing.ExtendedCount(); got != 1 {
			t.Errorf("expected 1 extended finger, got %d", got)
		}
		if !pointing.Extended(Index) {
			t.Error("expected index finger to be extended")
		}
		if pointing.Extended(Thumb) {
			t.Error("expected thumb to be tucked")
		}
	})

	t.Run("fist has no extended fingers", func(t *testing.T) {
		fist := FistLandmarks()
		if got := fist.ExtendedCount(); got != 0 {
			t.Errorf("expected 0 extended fingers, got %d", got)
		}
	})

	t.Run("degenerate hand is not extended", func(t *testing.T) {
		var h HandLandmarks
		if h.ExtendedCount() != 0 {
			t.Error("expected zero landmarks to have no extended fingers")
		}
	})
}

func TestHandLandmarks_GrabStrength(t *testing.T) {
	palm := OpenPalmLandmarks()
	if g := palm.GrabStrength(); g > 0.01 {
		t.Errorf("expected open palm grab near 0, got %f", g)
	}

	fist := FistLandmarks()
	if g := fist.GrabStrength(); g < 0.65 {
		t.Errorf("expected fist grab above 0.65, got %f", g)
	}

	pointing := PointingLandmarks()
	g := pointing.GrabStrength()
	if g <= palm.GrabStrength() || g >= fist.GrabStrength() {
		t.Errorf("expected pointing grab between palm and fist, got %f", g)
	}
}

func TestHandLandmarks_IsRight(t *testing.T) {
	h := OpenPalmLandmarks()
	if !h.IsRight() {
		t.Error("expected fixture to be a right hand")
	}
	h.Handedness = "Left"
	if h.IsRight() {
		t.Error("expected left hand")
	}
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		m := NewMockDetector()
		frame := gocv.NewMat()
		defer frame.Close()

		hands, err := m.Detect(&frame)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected 0 hands, got %d", len(hands))
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		m := NewMockDetector()
		m.SetHands([]HandLandmarks{OpenPalmLandmarks(), FistLandmarks()})

		frame := gocv.NewMat()
		defer frame.Close()

		hands, err := m.Detect(&frame)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(hands) != 2 {
			t.Errorf("expected 2 hands, got %d", len(hands))
		}
		if m.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", m.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		m := NewMockDetector()
		want := errors.New("detection failed")
		m.SetError(want)

		frame := gocv.NewMat()
		defer frame.Close()

		if _, err := m.Detect(&frame); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = NewMockDetector()
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestJSONHand_ToHandLandmarks(t *testing.T) {
	h := jsonHand{
		Points:     []Point3D{{X: 0.1, Y: 0.2, Z: 0.3}, {X: 0.4, Y: 0.5, Z: 0.6}},
		Handedness: "Left",
		Score:      0.8,
	}
	lm := h.toHandLandmarks()
	if lm.Points[1] != (Point3D{X: 0.4, Y: 0.5, Z: 0.6}) {
		t.Errorf("unexpected second point: %+v", lm.Points[1])
	}
	if lm.Points[2] != (Point3D{}) {
		t.Errorf("expected missing points to be zero, got %+v", lm.Points[2])
	}
	if lm.Handedness != "Left" || lm.Score != 0.8 {
		t.Errorf("unexpected metadata: %s %f", lm.Handedness, lm.Score)
	}
}
