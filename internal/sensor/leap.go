package sensor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/gorilla/websocket"
)

// DefaultLeapURL is the tracking service's local JSON WebSocket endpoint.
const DefaultLeapURL = "ws://127.0.0.1:6437/v6.json"

// ReconnectInterval is how long LeapSource waits between connection attempts.
const ReconnectInterval = time.Second

// LeapSource receives frames from the hand-tracking service's WebSocket
// JSON stream. It reconnects until closed and reports Connected only while
// a connection is up.
type LeapSource struct {
	url    string
	dialer *websocket.Dialer
	frames chan Frame

	mu         sync.Mutex
	thresholds Thresholds
	conn       *websocket.Conn
	connected  bool
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}
	dropped    int
}

// NewLeapSource creates a source for the service at url.
func NewLeapSource(url string, thresholds Thresholds) *LeapSource {
	if url == "" {
		url = DefaultLeapURL
	}
	return &LeapSource{
		url:        url,
		dialer:     websocket.DefaultDialer,
		frames:     make(chan Frame, FrameBufferSize),
		thresholds: thresholds,
		done:       make(chan struct{}),
	}
}

func (s *LeapSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.started = true
	go s.run(ctx)
	return nil
}

func (s *LeapSource) run(ctx context.Context) {
	defer close(s.done)
	defer close(s.frames)

	for {
		if err := s.session(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Tracking service connection: %v", err)
		}
		s.setConn(nil)

		select {
		case <-ctx.Done():
			return
		case <-time.After(ReconnectInterval):
		}
	}
}

// session runs one connection until it fails or ctx is cancelled.
func (s *LeapSource) session(ctx context.Context) error {
	conn, _, err := s.dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.url, err)
	}
	defer conn.Close()

	// Unblock ReadMessage on cancellation.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for _, msg := range []map[string]bool{{"background": true}, {"enableGestures": true}} {
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("configure service: %w", err)
		}
	}

	s.setConn(conn)
	log.Printf("Connected to tracking service at %s", s.url)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		f, ok, err := DecodeLeapFrame(data)
		if err != nil {
			log.Printf("Tracking service: %v", err)
			continue
		}
		if !ok {
			continue
		}

		s.mu.Lock()
		f.Gestures = s.thresholds.Filter(f.Gestures)
		s.mu.Unlock()

		select {
		case s.frames <- f:
		default:
			s.mu.Lock()
			s.dropped++
			s.mu.Unlock()
		}
	}
}

func (s *LeapSource) setConn(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn = conn
	s.connected = conn != nil
}

func (s *LeapSource) Frames() <-chan Frame {
	return s.frames
}

func (s *LeapSource) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Configure replaces the gesture thresholds. The service's JSON protocol has
// no gesture configuration, so the thresholds gate gestures as frames are
// decoded.
func (s *LeapSource) Configure(t Thresholds) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thresholds = t
	return nil
}

// Dropped returns how many frames were discarded because the consumer was
// behind.
func (s *LeapSource) Dropped() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

func (s *LeapSource) Close() error {
	s.mu.Lock()
	started := s.started
	cancel := s.cancel
	s.mu.Unlock()

	if !started {
		return nil
	}
	cancel()
	<-s.done
	return nil
}

// Wire format of the tracking service.

type leapFrame struct {
	ServiceVersion   string          `json:"serviceVersion"`
	Version          int             `json:"version"`
	ID               int64           `json:"id"`
	Timestamp        int64           `json:"timestamp"`
	CurrentFrameRate float64         `json:"currentFrameRate"`
	Hands            []leapHand      `json:"hands"`
	Pointables       []leapPointable `json:"pointables"`
	Gestures         []leapGesture   `json:"gestures"`
}

type leapHand struct {
	ID           int        `json:"id"`
	Type         string     `json:"type"`
	PalmPosition [3]float64 `json:"palmPosition"`
	PalmNormal   [3]float64 `json:"palmNormal"`
	GrabStrength float64    `json:"grabStrength"`
}

type leapPointable struct {
	ID          int        `json:"id"`
	HandID      int        `json:"handId"`
	Extended    bool       `json:"extended"`
	Tool        bool       `json:"tool"`
	TipPosition [3]float64 `json:"tipPosition"`
	Direction   [3]float64 `json:"direction"`
}

type leapGesture struct {
	ID            int        `json:"id"`
	Type          string     `json:"type"`
	State         string     `json:"state"`
	HandIDs       []int      `json:"handIds"`
	PointableIDs  []int      `json:"pointableIds"`
	Progress      float64    `json:"progress"`
	Radius        float64    `json:"radius"`
	Normal        [3]float64 `json:"normal"`
	Direction     [3]float64 `json:"direction"`
	Position      [3]float64 `json:"position"`
	StartPosition [3]float64 `json:"startPosition"`
	Speed         float64    `json:"speed"`
}

func vec(a [3]float64) r3.Vector {
	return r3.Vector{X: a[0], Y: a[1], Z: a[2]}
}

// DecodeLeapFrame converts one service message into a Frame. It returns
// false for messages that are not frames, such as the version handshake.
func DecodeLeapFrame(data []byte) (Frame, bool, error) {
	var lf leapFrame
	if err := json.Unmarshal(data, &lf); err != nil {
		return Frame{}, false, fmt.Errorf("decode frame: %w", err)
	}
	if lf.ID == 0 && lf.Timestamp == 0 && lf.Hands == nil {
		return Frame{}, false, nil
	}

	f := Frame{
		ID:              lf.ID,
		Timestamp:       lf.Timestamp,
		FramesPerSecond: lf.CurrentFrameRate,
		Hands:           make([]Hand, 0, len(lf.Hands)),
	}

	pointables := make(map[int]leapPointable, len(lf.Pointables))
	for _, p := range lf.Pointables {
		pointables[p.ID] = p
	}

	for _, lh := range lf.Hands {
		h := Hand{
			ID:           lh.ID,
			Position:     vec(lh.PalmPosition),
			PalmNormal:   vec(lh.PalmNormal),
			GrabStrength: lh.GrabStrength,
			IsRight:      lh.Type == "right",
		}

		var front, extended *leapPointable
		for i := range lf.Pointables {
			p := &lf.Pointables[i]
			if p.HandID != lh.ID || p.Tool {
				continue
			}
			if p.Extended {
				h.ExtendedFingers++
				extended = p
			}
			if front == nil || p.TipPosition[2] < front.TipPosition[2] {
				front = p
			}
		}
		switch {
		case h.ExtendedFingers == 1:
			h.Fingertip = vec(extended.TipPosition)
		case front != nil:
			h.Fingertip = vec(front.TipPosition)
		}

		f.Hands = append(f.Hands, h)
	}

	for _, lg := range lf.Gestures {
		g := Gesture{
			Type:  GestureType(lg.Type),
			State: gestureState(lg.State),
		}
		switch g.Type {
		case GestureCircle:
			g.Progress = lg.Progress
			g.Radius = lg.Radius
			g.Normal = vec(lg.Normal)
			if len(lg.PointableIDs) > 0 {
				if p, ok := pointables[lg.PointableIDs[0]]; ok {
					g.PointableDirection = vec(p.Direction)
				}
			}
		case GestureSwipe:
			g.Direction = vec(lg.Direction)
			g.Speed = lg.Speed
			g.Position = vec(lg.Position)
			g.StartPosition = vec(lg.StartPosition)
		}
		f.Gestures = append(f.Gestures, g)
	}

	return f, true, nil
}

func gestureState(s string) GestureState {
	switch GestureState(s) {
	case StateStart, StateUpdate, StateStop:
		return GestureState(s)
	}
	return StateInvalid
}
