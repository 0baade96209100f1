package webcam

import (
	"sort"

	"github.com/ayusman/handcam/internal/sensor"
)

// MaxMatchDistanceMm is how far a palm may move between two frames and
// still be taken for the same hand.
const MaxMatchDistanceMm = 150.0

// Tracker keeps hand IDs stable across frames. The detector reports hands
// in no particular order, so each detection is matched to the nearest palm
// of the same handedness from the previous frame. Unmatched detections get
// a fresh ID.
type Tracker struct {
	prev   []sensor.Hand
	nextID int
}

// NewTracker creates a Tracker with no history.
func NewTracker() *Tracker {
	return &Tracker{nextID: 1}
}

// Assign sets the ID of every hand in hands, in place.
func (t *Tracker) Assign(hands []sensor.Hand) {
	type candidate struct {
		cur, prev int
		dist      float64
	}

	var candidates []candidate
	for i, h := range hands {
		for j, p := range t.prev {
			if h.IsRight != p.IsRight {
				continue
			}
			if d := h.Position.Distance(p.Position); d <= MaxMatchDistanceMm {
				candidates = append(candidates, candidate{cur: i, prev: j, dist: d})
			}
		}
	}
	sort.Slice(candidates, func(a, b int) bool { return candidates[a].dist < candidates[b].dist })

	matched := make([]bool, len(hands))
	taken := make([]bool, len(t.prev))
	for _, c := range candidates {
		if matched[c.cur] || taken[c.prev] {
			continue
		}
		hands[c.cur].ID = t.prev[c.prev].ID
		matched[c.cur] = true
		taken[c.prev] = true
	}

	for i := range hands {
		if !matched[i] {
			hands[i].ID = t.nextID
			t.nextID++
		}
	}
	t.prev = append(t.prev[:0], hands...)
}

// Reset forgets all hands. The next detections get fresh IDs.
func (t *Tracker) Reset() {
	t.prev = t.prev[:0]
}
