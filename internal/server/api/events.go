package api

import (
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// defaultEventLimit caps the recent-events listing when no limit is given.
const defaultEventLimit = 100

// maxEventLimit is the largest listing a single request may ask for.
const maxEventLimit = 1000

// EventHandler serves the intent event log under /api/events.
type EventHandler struct {
	store  *store.Store
	routes *http.ServeMux
}

// NewEventHandler builds the handler and its route table.
func NewEventHandler(s *store.Store) *EventHandler {
	h := &EventHandler{store: s, routes: http.NewServeMux()}
	h.routes.HandleFunc("GET /api/events", h.list)
	h.routes.HandleFunc("GET /api/events/sessions", h.sessions)
	return h
}

// ServeHTTP satisfies http.Handler through the pattern routes.
func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.routes.ServeHTTP(w, r)
}

type listEventsResponse struct {
	Events []store.Event `json:"events"`
}

type listSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

// list returns recent events newest first. ?session= switches to one
// session in chronological order; ?limit= caps the recent listing.
func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxEventLimit)
	}

	var events []store.Event
	var err error
	if session := r.URL.Query().Get("session"); session != "" {
		events, err = h.store.Events().ListBySession(session)
	} else {
		events, err = h.store.Events().ListRecent(limit)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	if events == nil {
		events = []store.Event{}
	}

	writeJSON(w, http.StatusOK, listEventsResponse{Events: events})
}

// sessions returns all known session IDs, most recent first.
func (h *EventHandler) sessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Events().Sessions()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	if sessions == nil {
		sessions = []string{}
	}

	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: sessions})
}
