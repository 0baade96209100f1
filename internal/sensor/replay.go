package sensor

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// ReplaySource plays back frames recorded as JSON lines, one Frame per line.
// Blank lines and lines starting with '#' are skipped.
type ReplaySource struct {
	r        io.Reader
	closer   io.Closer
	realtime bool
	frames   chan Frame

	mu         sync.Mutex
	thresholds *Thresholds
	connected  bool
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}
	err        error
}

// NewReplaySource creates a source reading from r. When realtime is set,
// frames are paced by their FramesPerSecond; otherwise they are delivered
// as fast as the consumer reads them.
func NewReplaySource(r io.Reader, realtime bool) *ReplaySource {
	return &ReplaySource{
		r:        r,
		realtime: realtime,
		frames:   make(chan Frame, FrameBufferSize),
		done:     make(chan struct{}),
	}
}

// OpenReplay creates a source reading the recording at path. The file is
// closed by Close.
func OpenReplay(path string, realtime bool) (*ReplaySource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	s := NewReplaySource(f, realtime)
	s.closer = f
	return s, nil
}

func (s *ReplaySource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	s.connected = true
	go s.run(ctx)
	return nil
}

func (s *ReplaySource) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.frames)

	scanner := bufio.NewScanner(s.r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Bytes()
		if len(text) == 0 || text[0] == '#' {
			continue
		}

		var f Frame
		if err := json.Unmarshal(text, &f); err != nil {
			log.Printf("replay: skipping line %d: %v", line, err)
			continue
		}

		s.mu.Lock()
		if s.thresholds != nil {
			f.Gestures = s.thresholds.Filter(f.Gestures)
		}
		s.mu.Unlock()

		select {
		case s.frames <- f:
		case <-ctx.Done():
			return
		}

		if s.realtime && f.FramesPerSecond > 0 {
			select {
			case <-time.After(time.Duration(float64(time.Second) / f.FramesPerSecond)):
			case <-ctx.Done():
				return
			}
		}
	}

	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		s.err = fmt.Errorf("read replay: %w", err)
		s.mu.Unlock()
	}
}

func (s *ReplaySource) setConnected(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = v
}

func (s *ReplaySource) Frames() <-chan Frame {
	return s.frames
}

// Connected is true from Start until Close. A finished recording stays
// connected so frames still buffered are not dropped as stale.
func (s *ReplaySource) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *ReplaySource) Configure(t Thresholds) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds = &t
	return nil
}

// Err returns the read error that ended playback, if any.
func (s *ReplaySource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops playback, waits for it to finish and closes the recording
// opened by OpenReplay.
func (s *ReplaySource) Close() error {
	s.mu.Lock()
	started := s.started
	cancel := s.cancel
	closer := s.closer
	s.closer = nil
	s.mu.Unlock()

	if started {
		s.setConnected(false)
		cancel()
		<-s.done
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}
