package camera

import (
	"sync"

	"github.com/golang/geo/r3"
)

// HomePose is the canonical view used by SimHost.
var HomePose = Pose{
	Eye:    r3.Vector{X: 0, Y: 0, Z: 500},
	Target: r3.Vector{X: 0, Y: 0, Z: 0},
	Up:     r3.Vector{X: 0, Y: 1, Z: 0},
}

// HomeExtents is the canonical extents used by SimHost.
var HomeExtents = Extents{Width: 400, Height: 300}

// SimHost is an in-memory Host. It is used headless and in tests.
type SimHost struct {
	mu      sync.Mutex
	status  Status
	pose    Pose
	extents Extents
	pending bool
	commits map[CommitMode]int
	homes   int
}

// NewSimHost creates an available SimHost showing a part document at HomePose.
func NewSimHost() *SimHost {
	return &SimHost{
		status:  Status{Started: true, Opened: true, DocKind: DocPart},
		pose:    HomePose,
		extents: HomeExtents,
		commits: make(map[CommitMode]int),
	}
}

// SetStatus changes what Probe reports, simulating the host closing a
// document or exiting.
func (h *SimHost) SetStatus(s Status) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = s
}

// Probe reports the simulated status.
func (h *SimHost) Probe() Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *SimHost) Pose() (Pose, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.Available() {
		return Pose{}, ErrUnavailable
	}
	return h.pose, nil
}

func (h *SimHost) SetPose(p Pose) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.Available() {
		return ErrUnavailable
	}
	h.pose = p
	h.pending = true
	return nil
}

func (h *SimHost) Extents() (Extents, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.Available() {
		return Extents{}, ErrUnavailable
	}
	return h.extents, nil
}

func (h *SimHost) SetExtents(e Extents) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.Available() {
		return ErrUnavailable
	}
	h.extents = e
	h.pending = true
	return nil
}

func (h *SimHost) Commit(mode CommitMode) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.Available() {
		return ErrUnavailable
	}
	h.commits[mode]++
	h.pending = false
	return nil
}

func (h *SimHost) Home() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.status.Available() {
		return ErrUnavailable
	}
	h.pose = HomePose
	h.extents = HomeExtents
	h.pending = false
	h.homes++
	return nil
}

// Commits returns how many commits were made with mode.
func (h *SimHost) Commits(mode CommitMode) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.commits[mode]
}

// Homes returns how many times Home was called.
func (h *SimHost) Homes() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.homes
}

// Pending reports whether a pose or extents change has not been committed.
func (h *SimHost) Pending() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pending
}
