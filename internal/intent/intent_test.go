package intent

import (
	"testing"

	"github.com/ayusman/handcam/internal/camera"
)

func TestIntent_Message(t *testing.T) {
	cases := []struct {
		in   Intent
		want string
	}{
		{Home(), "Camera set to HOME."},
		{SnapRotate(camera.Left), "View rotated by 90' LEFT."},
		{SensitivityDelta(0.123), "Sensitivity increased by 0.12."},
		{SensitivityDelta(-0.2), "Sensitivity decreased by 0.2."},
	}
	for _, tc := range cases {
		if got := tc.in.Message(); got != tc.want {
			t.Errorf("Message() = %q, want %q", got, tc.want)
		}
	}
}

func TestIntent_Discrete(t *testing.T) {
	for _, in := range []Intent{Home(), SnapRotate(camera.Up), SensitivityDelta(0.1)} {
		if !in.Discrete() {
			t.Errorf("expected %s to be discrete", in.Kind)
		}
	}
	for _, in := range []Intent{Translate(1, 2), Orbit(0.1, 0.2, 0.3), Zoom(0.1)} {
		if in.Discrete() {
			t.Errorf("expected %s to be continuous", in.Kind)
		}
	}
}

func TestIntent_Apply(t *testing.T) {
	h := camera.NewSimHost()

	steps := []Intent{
		Orbit(0.2, 0, 0),
		Translate(3, 4),
		Zoom(0.5),
		SnapRotate(camera.Down),
		SensitivityDelta(0.3),
	}
	for _, in := range steps {
		if err := in.Apply(h); err != nil {
			t.Fatalf("Apply(%s) error = %v", in.Kind, err)
		}
	}

	if got := h.Commits(camera.Instant); got != 3 {
		t.Errorf("expected 3 instant commits, got %d", got)
	}
	if got := h.Commits(camera.Animated); got != 1 {
		t.Errorf("expected 1 animated commit, got %d", got)
	}

	if err := Home().Apply(h); err != nil {
		t.Fatalf("Apply(home) error = %v", err)
	}
	p, _ := h.Pose()
	if p != camera.HomePose {
		t.Errorf("expected home pose after home intent, got %v", p)
	}
}
