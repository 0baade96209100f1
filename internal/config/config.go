// Package config holds the user settings that drive frame interpretation,
// their defaults, and the sanitizing of user input.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/handcam/internal/sensor"
)

// MinSensitivity is the lowest sensitivity circles can dial down to.
const MinSensitivity = 0.1

// ScaleDivisor converts sensitivity into the per-millimetre scale of
// continuous camera moves.
const ScaleDivisor = 1000.0

// Settings is a snapshot of the user configuration. It is passed by value
// into each frame and never changed during processing.
type Settings struct {
	// Dead zones in millimetres around the neutral hand position.
	DeadZoneX float64 `json:"dead_zone_x" yaml:"dead_zone_x"`
	DeadZoneY float64 `json:"dead_zone_y" yaml:"dead_zone_y"`
	DeadZoneZ float64 `json:"dead_zone_z" yaml:"dead_zone_z"`
	// CenterHeight is the height above the sensor of the neutral position.
	CenterHeight float64 `json:"center_height" yaml:"center_height"`
	Sensitivity  float64 `json:"sensitivity" yaml:"sensitivity"`

	Thresholds sensor.Thresholds `json:"thresholds" yaml:"thresholds"`

	RightHanded      bool    `json:"right_handed" yaml:"right_handed"`
	CircleEnabled    bool    `json:"circle_enabled" yaml:"circle_enabled"`
	SwipeEnabled     bool    `json:"swipe_enabled" yaml:"swipe_enabled"`
	ResetWaitSeconds float64 `json:"reset_wait_seconds" yaml:"reset_wait_seconds"`
}

// Defaults returns the first-run settings.
func Defaults() Settings {
	return Settings{
		DeadZoneX:        40,
		DeadZoneY:        40,
		DeadZoneZ:        50,
		CenterHeight:     200,
		Sensitivity:      0.5,
		Thresholds:       sensor.DefaultThresholds(),
		RightHanded:      true,
		CircleEnabled:    true,
		SwipeEnabled:     true,
		ResetWaitSeconds: 2,
	}
}

// Scale is the factor applied to filtered hand offsets in millimetres.
func (s Settings) Scale() float64 {
	return s.Sensitivity / ScaleDivisor
}

// LoadFile reads settings from a YAML file. Keys missing from the file keep
// their default, and negative values are made positive with a warning.
func LoadFile(path string) (Settings, []Diagnostic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, nil, fmt.Errorf("read config: %w", err)
	}

	s := Defaults()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	s, diags := s.Sanitize()
	return s, diags, nil
}

// Sanitize makes every numeric setting non-negative and keeps sensitivity
// at or above MinSensitivity.
func (s Settings) Sanitize() (Settings, []Diagnostic) {
	var diags []Diagnostic
	for _, f := range s.numericFields() {
		if *f.value < 0 {
			*f.value = -*f.value
			diags = append(diags, negativeDiagnostic(f.key))
		}
	}
	diags = append(diags, floorSensitivity(&s)...)
	return s, diags
}

// AdjustSensitivity adds delta to s, floors the result at MinSensitivity
// and rounds it to two decimals.
func AdjustSensitivity(s, delta float64) float64 {
	s += delta
	if s < MinSensitivity {
		s = MinSensitivity
	}
	return round2(s)
}
