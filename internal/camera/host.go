package camera

import "errors"

// ErrUnavailable is returned by a Host when no controllable document is open.
var ErrUnavailable = errors.New("camera host unavailable")

// Document kinds reported by hosts.
const (
	DocAssembly     = "ASSEMBLY"
	DocPart         = "PART"
	DocPresentation = "PRESENTATION"
)

// Status is the result of probing a host.
type Status struct {
	// Started is true when the 3D application is running and attached.
	Started bool `json:"started"`
	// Opened is true when a document with a controllable view is active.
	Opened bool `json:"opened"`
	// DocKind is informational and only used for display.
	DocKind string `json:"doc_kind,omitempty"`
}

// Available reports whether camera-affecting work may run.
func (s Status) Available() bool {
	return s.Started && s.Opened
}

// Host is the 3D application that owns the live camera. Callers borrow the
// camera for a single frame; a Host is not safe for concurrent mutation and
// must be driven from one goroutine.
type Host interface {
	// Probe re-attaches if needed and reports availability.
	Probe() Status
	Pose() (Pose, error)
	SetPose(Pose) error
	Extents() (Extents, error)
	SetExtents(Extents) error
	// Commit presents pending pose and extents changes.
	Commit(CommitMode) error
	// Home resets the view to the host's canonical default.
	Home() error
}

// OrbitHost applies Orbit to a host's current pose and commits it.
func OrbitHost(h Host, yaw, pitch, roll float64, mode CommitMode) error {
	p, err := h.Pose()
	if err != nil {
		return err
	}
	if err := h.SetPose(Orbit(p, yaw, pitch, roll)); err != nil {
		return err
	}
	return h.Commit(mode)
}

// TranslateHost pans the host's camera and commits it instantly.
func TranslateHost(h Host, scaleX, scaleY float64) error {
	p, err := h.Pose()
	if err != nil {
		return err
	}
	if err := h.SetPose(Translate(p, scaleX, scaleY)); err != nil {
		return err
	}
	return h.Commit(Instant)
}

// ZoomHost scales the host's extents and commits them instantly.
func ZoomHost(h Host, scale float64) error {
	e, err := h.Extents()
	if err != nil {
		return err
	}
	if err := h.SetExtents(Zoom(e, scale)); err != nil {
		return err
	}
	return h.Commit(Instant)
}

// SnapHost performs an animated 90 degree snap rotation. Unknown directions
// are ignored.
func SnapHost(h Host, d Direction) error {
	p, err := h.Pose()
	if err != nil {
		return err
	}
	next, ok := SnapRotate(p, d)
	if !ok {
		return nil
	}
	if err := h.SetPose(next); err != nil {
		return err
	}
	return h.Commit(Animated)
}
