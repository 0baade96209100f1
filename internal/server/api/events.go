package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/handcam/internal/store"
)

// DefaultEventLimit is how many events GET /api/events returns without a
// limit parameter.
const DefaultEventLimit = 100

// EventsHandler serves the action log at /api/events.
type EventsHandler struct {
	store *store.Store
}

// NewEventsHandler creates a new EventsHandler with the given store.
func NewEventsHandler(s *store.Store) *EventsHandler {
	return &EventsHandler{store: s}
}

type listEventsResponse struct {
	Events []*store.Event `json:"events"`
}

type clearEventsResponse struct {
	Deleted int64 `json:"deleted"`
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodDelete:
		h.clear(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// list handles GET /api/events?limit=N, newest first. limit=0 returns all.
func (h *EventsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := DefaultEventLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	events, err := h.store.Events().List(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []*store.Event{}
	}
	writeJSON(w, http.StatusOK, listEventsResponse{Events: events})
}

// clear handles DELETE /api/events.
func (h *EventsHandler) clear(w http.ResponseWriter, r *http.Request) {
	n, err := h.store.Events().Clear()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear events")
		return
	}
	writeJSON(w, http.StatusOK, clearEventsResponse{Deleted: n})
}
