package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a Detector whose results are set by the test.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Calls returns how many times Detect ran.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// curledFingers places middle, ring and pinky folded towards the palm.
func curledFingers(l *HandLandmarks) {
	l.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.68, Z: -0.02}
	l.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.05}
	l.Points[MiddleDIP] = Point3D{X: 0.47, Y: 0.68, Z: -0.04}
	l.Points[MiddleTip] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}

	l.Points[RingMCP] = Point3D{X: 0.45, Y: 0.70, Z: -0.02}
	l.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.05}
	l.Points[RingDIP] = Point3D{X: 0.43, Y: 0.69, Z: -0.05}
	l.Points[RingTip] = Point3D{X: 0.44, Y: 0.71, Z: -0.03}

	l.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.72, Z: -0.02}
	l.Points[PinkyPIP] = Point3D{X: 0.40, Y: 0.70, Z: -0.05}
	l.Points[PinkyDIP] = Point3D{X: 0.39, Y: 0.71, Z: -0.05}
	l.Points[PinkyTip] = Point3D{X: 0.40, Y: 0.73, Z: -0.03}
}

// tuckedThumb folds the thumb across the palm next to the index base.
func tuckedThumb(l *HandLandmarks) {
	l.Points[ThumbCMC] = Point3D{X: 0.53, Y: 0.76, Z: 0.0}
	l.Points[ThumbMCP] = Point3D{X: 0.56, Y: 0.72, Z: -0.01}
	l.Points[ThumbIP] = Point3D{X: 0.56, Y: 0.70, Z: -0.03}
	l.Points[ThumbTip] = Point3D{X: 0.54, Y: 0.69, Z: -0.04}
}

// PointingLandmarks returns a right hand with only the index finger
// extended upward.
func PointingLandmarks() HandLandmarks {
	l := HandLandmarks{Handedness: "Right", Score: 0.95}

	l.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}
	tuckedThumb(&l)

	l.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	l.Points[IndexPIP] = Point3D{X: 0.56, Y: 0.58, Z: -0.02}
	l.Points[IndexDIP] = Point3D{X: 0.565, Y: 0.50, Z: -0.02}
	l.Points[IndexTip] = Point3D{X: 0.57, Y: 0.42, Z: -0.02}

	curledFingers(&l)
	return l
}

// FistLandmarks returns a right hand with every finger folded.
func FistLandmarks() HandLandmarks {
	l := HandLandmarks{Handedness: "Right", Score: 0.95}

	l.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}
	tuckedThumb(&l)

	l.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.70, Z: -0.02}
	l.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.05}
	l.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.04}
	l.Points[IndexTip] = Point3D{X: 0.50, Y: 0.72, Z: -0.02}

	curledFingers(&l)
	return l
}

// OpenPalmLandmarks returns a right hand with all fingers spread upward.
func OpenPalmLandmarks() HandLandmarks {
	l := HandLandmarks{Handedness: "Right", Score: 0.95}

	l.Points[Wrist] = Point3D{X: 0.5, Y: 0.8, Z: 0.0}

	l.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	l.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	l.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	l.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	l.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	l.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	l.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	l.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	l.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	l.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	l.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	l.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	l.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	l.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	l.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	l.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	l.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	l.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	l.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	l.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return l
}
