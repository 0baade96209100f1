package sensor

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned when using a source after Close.
var ErrClosed = errors.New("sensor source closed")

// FrameBufferSize is the capacity of a source's frame channel. Frames are
// dropped when the consumer falls this far behind.
const FrameBufferSize = 8

// Source delivers hand-tracking frames to a single consumer.
type Source interface {
	// Start begins delivering frames. It does not block.
	Start(ctx context.Context) error
	// Frames is closed when the source stops.
	Frames() <-chan Frame
	// Connected reports whether the device is delivering data.
	Connected() bool
	// Configure pushes gesture recognition thresholds to the sensor.
	Configure(Thresholds) error
	Close() error
}

// MockSource is a Source fed by the test through Send.
type MockSource struct {
	frames     chan Frame
	connected  bool
	thresholds *Thresholds
	configured int
	closed     bool
	mu         sync.Mutex
	// sendMu serializes Send and Close so a frame is never sent on a
	// closed channel.
	sendMu sync.Mutex
}

// NewMockSource creates a connected MockSource.
func NewMockSource() *MockSource {
	return &MockSource{
		frames:    make(chan Frame, FrameBufferSize),
		connected: true,
	}
}

func (m *MockSource) Start(ctx context.Context) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

func (m *MockSource) Frames() <-chan Frame {
	return m.frames
}

// Send delivers f to the consumer, applying the configured thresholds to
// its gestures. It blocks while the buffer is full.
func (m *MockSource) Send(f Frame) error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if m.closed {
		return ErrClosed
	}

	m.mu.Lock()
	if m.thresholds != nil {
		f.Gestures = m.thresholds.Filter(f.Gestures)
	}
	m.mu.Unlock()

	m.frames <- f
	return nil
}

// SetConnected changes what Connected reports.
func (m *MockSource) SetConnected(connected bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = connected
}

func (m *MockSource) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *MockSource) Configure(t Thresholds) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.thresholds = &t
	m.configured++
	return nil
}

// Configured returns the last thresholds and how many times Configure ran.
func (m *MockSource) Configured() (Thresholds, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.thresholds == nil {
		return Thresholds{}, m.configured
	}
	return *m.thresholds, m.configured
}

func (m *MockSource) Close() error {
	m.sendMu.Lock()
	defer m.sendMu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.frames)
	return nil
}
