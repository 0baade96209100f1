// Package intent describes the camera-control commands produced from sensor
// frames and applies them to a camera host.
package intent

import (
	"fmt"
	"math"

	"github.com/ayusman/handcam/internal/camera"
)

// Kind identifies what an Intent asks for.
type Kind string

const (
	KindHome             Kind = "home"
	KindSnapRotate       Kind = "snap_rotate"
	KindSensitivityDelta Kind = "sensitivity_delta"
	KindTranslate        Kind = "translate"
	KindOrbit            Kind = "orbit"
	KindZoom             Kind = "zoom"
)

// Intent is a single camera-control command. Only the fields relevant to
// Kind are set.
type Intent struct {
	Kind Kind `json:"kind"`

	// Orbit angles in radians.
	Yaw   float64 `json:"yaw,omitempty"`
	Pitch float64 `json:"pitch,omitempty"`
	Roll  float64 `json:"roll,omitempty"`

	// Translate scales along screen X and Y.
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// Zoom extents scale.
	Scale float64 `json:"scale,omitempty"`

	Direction camera.Direction `json:"direction,omitempty"`

	// Delta is the sensitivity change requested by a circle gesture.
	Delta float64 `json:"delta,omitempty"`
}

func Home() Intent { return Intent{Kind: KindHome} }

func SnapRotate(d camera.Direction) Intent {
	return Intent{Kind: KindSnapRotate, Direction: d}
}

func SensitivityDelta(delta float64) Intent {
	return Intent{Kind: KindSensitivityDelta, Delta: delta}
}

func Translate(x, y float64) Intent {
	return Intent{Kind: KindTranslate, X: x, Y: y}
}

func Orbit(yaw, pitch, roll float64) Intent {
	return Intent{Kind: KindOrbit, Yaw: yaw, Pitch: pitch, Roll: roll}
}

func Zoom(scale float64) Intent {
	return Intent{Kind: KindZoom, Scale: scale}
}

// Discrete reports whether the intent is a one-off action worth recording
// in the event log, as opposed to continuous hand tracking.
func (i Intent) Discrete() bool {
	switch i.Kind {
	case KindHome, KindSnapRotate, KindSensitivityDelta:
		return true
	}
	return false
}

// Message is the human-readable log line for a discrete intent.
func (i Intent) Message() string {
	switch i.Kind {
	case KindHome:
		return "Camera set to HOME."
	case KindSnapRotate:
		return fmt.Sprintf("View rotated by 90' %s.", i.Direction)
	case KindSensitivityDelta:
		d := math.Round(i.Delta*100) / 100
		if i.Delta > 0 {
			return fmt.Sprintf("Sensitivity increased by %g.", d)
		}
		return fmt.Sprintf("Sensitivity decreased by %g.", math.Abs(d))
	case KindTranslate:
		return fmt.Sprintf("translate x=%.4f y=%.4f", i.X, i.Y)
	case KindOrbit:
		return fmt.Sprintf("orbit yaw=%.4f pitch=%.4f roll=%.4f", i.Yaw, i.Pitch, i.Roll)
	case KindZoom:
		return fmt.Sprintf("zoom scale=%.4f", i.Scale)
	}
	return string(i.Kind)
}

// Apply executes a camera intent against h. Orbit, translate and zoom are
// committed instantly and snap rotations animated. Sensitivity changes do
// not touch the camera and are left to the caller.
func (i Intent) Apply(h camera.Host) error {
	switch i.Kind {
	case KindHome:
		return h.Home()
	case KindSnapRotate:
		return camera.SnapHost(h, i.Direction)
	case KindTranslate:
		return camera.TranslateHost(h, i.X, i.Y)
	case KindOrbit:
		return camera.OrbitHost(h, i.Yaw, i.Pitch, i.Roll, camera.Instant)
	case KindZoom:
		return camera.ZoomHost(h, i.Scale)
	}
	return nil
}
