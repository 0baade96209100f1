package camera

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
)

// Bridge method names understood by BridgeHost and served by bridge
// executables.
const (
	MethodProbe      = "probe"
	MethodPose       = "pose"
	MethodSetPose    = "set_pose"
	MethodExtents    = "extents"
	MethodSetExtents = "set_extents"
	MethodCommit     = "commit"
	MethodHome       = "home"
)

// Caller performs one request/response exchange with a bridge process.
type Caller interface {
	Call(method string, params, result any) error
}

// CommitParams is the payload of a commit call.
type CommitParams struct {
	Mode string `json:"mode"`
}

// BridgeHost is a Host backed by a 3D application bridge. Each Host method
// is one call.
type BridgeHost struct {
	c Caller
}

// NewBridgeHost creates a host that drives the bridge behind c.
func NewBridgeHost(c Caller) *BridgeHost {
	return &BridgeHost{c: c}
}

// Probe asks the bridge for its status. A bridge that cannot answer is
// reported as not started.
func (h *BridgeHost) Probe() Status {
	var s Status
	if err := h.c.Call(MethodProbe, nil, &s); err != nil {
		log.Printf("Bridge probe failed: %v", err)
		return Status{}
	}
	return s
}

func (h *BridgeHost) Pose() (Pose, error) {
	var p Pose
	if err := h.c.Call(MethodPose, nil, &p); err != nil {
		return Pose{}, unavailable(err)
	}
	return p, nil
}

func (h *BridgeHost) SetPose(p Pose) error {
	return unavailable(h.c.Call(MethodSetPose, p, nil))
}

func (h *BridgeHost) Extents() (Extents, error) {
	var e Extents
	if err := h.c.Call(MethodExtents, nil, &e); err != nil {
		return Extents{}, unavailable(err)
	}
	return e, nil
}

func (h *BridgeHost) SetExtents(e Extents) error {
	return unavailable(h.c.Call(MethodSetExtents, e, nil))
}

func (h *BridgeHost) Commit(mode CommitMode) error {
	return unavailable(h.c.Call(MethodCommit, CommitParams{Mode: mode.String()}, nil))
}

func (h *BridgeHost) Home() error {
	return unavailable(h.c.Call(MethodHome, nil, nil))
}

// unavailable wraps bridge failures so callers can test them with
// errors.Is(err, ErrUnavailable).
func unavailable(err error) error {
	if err == nil || errors.Is(err, ErrUnavailable) {
		return err
	}
	return errors.Join(ErrUnavailable, err)
}

// Dispatch serves one bridge call from h. It is the bridge-side counterpart
// of BridgeHost.
func Dispatch(h Host, method string, params json.RawMessage) (any, error) {
	switch method {
	case MethodProbe:
		return h.Probe(), nil
	case MethodPose:
		return h.Pose()
	case MethodSetPose:
		var p Pose
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("set_pose params: %w", err)
		}
		return nil, h.SetPose(p)
	case MethodExtents:
		return h.Extents()
	case MethodSetExtents:
		var e Extents
		if err := json.Unmarshal(params, &e); err != nil {
			return nil, fmt.Errorf("set_extents params: %w", err)
		}
		return nil, h.SetExtents(e)
	case MethodCommit:
		var c CommitParams
		if err := json.Unmarshal(params, &c); err != nil {
			return nil, fmt.Errorf("commit params: %w", err)
		}
		mode, ok := ParseCommitMode(c.Mode)
		if !ok {
			return nil, fmt.Errorf("unknown commit mode %q", c.Mode)
		}
		return nil, h.Commit(mode)
	case MethodHome:
		return nil, h.Home()
	}
	return nil, fmt.Errorf("unknown method %q", method)
}
