// Package webcam tracks hands in webcam images and delivers them as sensor
// frames. It is the only sensor source that needs OpenCV.
package webcam

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ayusman/handcam/internal/capture"
	"github.com/ayusman/handcam/internal/detector"
	"github.com/ayusman/handcam/internal/sensor"
)

// Source tracks hands in webcam images. Landmarks come from a detector,
// hand IDs from a Tracker and gestures from a sensor.Recognizer following
// the pointing fingertip.
type Source struct {
	cam      capture.Camera
	det      detector.Detector
	frames   chan sensor.Frame
	interval time.Duration
	tracker  *Tracker

	mu         sync.Mutex
	thresholds sensor.Thresholds
	connected  bool
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}
	dropped    int
}

// NewSource creates a source reading cam at its frame rate.
func NewSource(cam capture.Camera, det detector.Detector, thresholds sensor.Thresholds) *Source {
	fps := cam.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return &Source{
		cam:        cam,
		det:        det,
		frames:     make(chan sensor.Frame, sensor.FrameBufferSize),
		interval:   time.Second / time.Duration(fps),
		tracker:    NewTracker(),
		thresholds: thresholds,
		done:       make(chan struct{}),
	}
}

func (s *Source) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	if err := s.cam.Open(); err != nil {
		return fmt.Errorf("open camera: %w", err)
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	go s.run(ctx)
	return nil
}

func (s *Source) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.frames)
	defer s.setConnected(false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	rec := sensor.NewRecognizer(s.currentThresholds())
	start := time.Now()
	var id int64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		hands, err := s.detect()
		if errors.Is(err, capture.ErrEndOfFrames) {
			return
		}
		if err != nil {
			if s.Connected() {
				log.Printf("Webcam tracking: %v", err)
			}
			s.setConnected(false)
			s.tracker.Reset()
			continue
		}
		s.setConnected(true)
		s.tracker.Assign(hands)

		id++
		f := sensor.Frame{
			ID:              id,
			Timestamp:       time.Since(start).Microseconds(),
			FramesPerSecond: float64(s.cam.FPS()),
			Hands:           hands,
		}

		rec.SetThresholds(s.currentThresholds())
		if tip, ok := pointingTip(&f); ok {
			if g, ok := rec.Add(sensor.PathPoint{Position: tip.Fingertip, Timestamp: f.Timestamp}); ok {
				f.Gestures = append(f.Gestures, g)
			}
		} else {
			rec.Reset()
		}

		select {
		case s.frames <- f:
		default:
			s.mu.Lock()
			s.dropped++
			s.mu.Unlock()
		}
	}
}

// detect returns the hands in the next camera frame. IDs are left unset.
func (s *Source) detect() ([]sensor.Hand, error) {
	mat, err := s.cam.ReadFrame()
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	landmarks, err := s.det.Detect(mat)
	if err != nil {
		return nil, fmt.Errorf("detect hands: %w", err)
	}

	hands := make([]sensor.Hand, 0, len(landmarks))
	for _, lm := range landmarks {
		hands = append(hands, FromLandmarks(lm, 0))
	}
	return hands, nil
}

// pointingTip returns the frontmost hand with a single extended finger.
func pointingTip(f *sensor.Frame) (sensor.Hand, bool) {
	var best sensor.Hand
	found := false
	for _, h := range f.Hands {
		if h.ExtendedFingers != 1 {
			continue
		}
		if !found || h.Fingertip.Z < best.Fingertip.Z {
			best = h
			found = true
		}
	}
	return best, found
}

func (s *Source) currentThresholds() sensor.Thresholds {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thresholds
}

func (s *Source) setConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = v
}

func (s *Source) Frames() <-chan sensor.Frame {
	return s.frames
}

// Connected is true while frames are being read and analysed.
func (s *Source) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *Source) Configure(t sensor.Thresholds) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds = t
	return nil
}

// Dropped returns how many frames were discarded because the consumer was
// behind.
func (s *Source) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Close stops tracking and releases the camera and detector.
func (s *Source) Close() error {
	s.mu.Lock()
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if started {
		cancel()
		<-s.done
	}
	camErr := s.cam.Close()
	detErr := s.det.Close()
	return errors.Join(camErr, detErr)
}
