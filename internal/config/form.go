package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Form keys. They match the YAML and JSON field names of Settings.
const (
	KeyDeadZoneX        = "dead_zone_x"
	KeyDeadZoneY        = "dead_zone_y"
	KeyDeadZoneZ        = "dead_zone_z"
	KeyCenterHeight     = "center_height"
	KeySensitivity      = "sensitivity"
	KeyMinArc           = "min_arc_deg"
	KeyMinRadius        = "min_radius_mm"
	KeyMinSwipeLength   = "min_swipe_length_mm"
	KeyMinSwipeVelocity = "min_swipe_velocity"
	KeyRightHanded      = "right_handed"
	KeyCircleEnabled    = "circle_enabled"
	KeySwipeEnabled     = "swipe_enabled"
	KeyResetWait        = "reset_wait_seconds"
)

// Severity grades a Diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic reports a problem with a user-supplied value. The setting is
// still applied, with the fallback the message describes.
type Diagnostic struct {
	Field    string   `json:"field"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s]: %s", strings.ToUpper(string(d.Severity)), d.Message)
}

func negativeDiagnostic(field string) Diagnostic {
	return Diagnostic{
		Field:    field,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Negative %s value detected. Converting to unsigned.", field),
	}
}

func invalidDiagnostic(field string) Diagnostic {
	return Diagnostic{
		Field:    field,
		Severity: SeverityError,
		Message:  fmt.Sprintf("Incorrect %s value.", field),
	}
}

func sensitivityFloorDiagnostic() Diagnostic {
	return Diagnostic{
		Field:    KeySensitivity,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf("Sensitivity below %v. Using %v.", MinSensitivity, MinSensitivity),
	}
}

// floorSensitivity raises s.Sensitivity to MinSensitivity and reports it.
func floorSensitivity(s *Settings) []Diagnostic {
	if s.Sensitivity >= MinSensitivity {
		return nil
	}
	s.Sensitivity = MinSensitivity
	return []Diagnostic{sensitivityFloorDiagnostic()}
}

// ParseNonNegative parses a user-entered number. Input that is not a
// number keeps prev and reports an error; a negative number is replaced by
// its absolute value and reports a warning.
func ParseNonNegative(input string, prev float64, field string) (float64, *Diagnostic) {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		d := invalidDiagnostic(field)
		return prev, &d
	}
	if v < 0 {
		d := negativeDiagnostic(field)
		return -v, &d
	}
	return v, nil
}

// Form is a set of user-entered values keyed by the Key constants. Keys
// not present leave the setting unchanged.
type Form map[string]string

type numericField struct {
	key   string
	value *float64
}

func (s *Settings) numericFields() []numericField {
	return []numericField{
		{KeyDeadZoneX, &s.DeadZoneX},
		{KeyDeadZoneY, &s.DeadZoneY},
		{KeyDeadZoneZ, &s.DeadZoneZ},
		{KeyCenterHeight, &s.CenterHeight},
		{KeySensitivity, &s.Sensitivity},
		{KeyMinArc, &s.Thresholds.MinArcDeg},
		{KeyMinRadius, &s.Thresholds.MinRadiusMm},
		{KeyMinSwipeLength, &s.Thresholds.MinSwipeLengthMm},
		{KeyMinSwipeVelocity, &s.Thresholds.MinSwipeVelocity},
		{KeyResetWait, &s.ResetWaitSeconds},
	}
}

type boolField struct {
	key   string
	value *bool
}

func (s *Settings) boolFields() []boolField {
	return []boolField{
		{KeyRightHanded, &s.RightHanded},
		{KeyCircleEnabled, &s.CircleEnabled},
		{KeySwipeEnabled, &s.SwipeEnabled},
	}
}

// ApplyForm returns s updated with the values in form, and a diagnostic
// for every value that could not be taken as entered.
func ApplyForm(s Settings, form Form) (Settings, []Diagnostic) {
	var diags []Diagnostic

	for _, f := range s.numericFields() {
		input, ok := form[f.key]
		if !ok {
			continue
		}
		v, d := ParseNonNegative(input, *f.value, f.key)
		*f.value = v
		if d != nil {
			diags = append(diags, *d)
		}
	}

	for _, f := range s.boolFields() {
		input, ok := form[f.key]
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(strings.TrimSpace(input))
		if err != nil {
			diags = append(diags, invalidDiagnostic(f.key))
			continue
		}
		*f.value = v
	}

	diags = append(diags, floorSensitivity(&s)...)
	return s, diags
}

// Form returns the settings as form values, the inverse of ApplyForm.
func (s Settings) Form() Form {
	form := make(Form)
	for _, f := range s.numericFields() {
		form[f.key] = strconv.FormatFloat(*f.value, 'f', -1, 64)
	}
	for _, f := range s.boolFields() {
		form[f.key] = strconv.FormatBool(*f.value)
	}
	return form
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
