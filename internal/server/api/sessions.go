package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arvidsson/formcoach/internal/store"
)

// SessionHandler handles HTTP requests for completed session summaries.
type SessionHandler struct {
	store *store.Store
}

// NewSessionHandler creates a new SessionHandler with the given store.
func NewSessionHandler(s *store.Store) *SessionHandler {
	return &SessionHandler{store: s}
}

// ServeHTTP implements the http.Handler interface. Session summaries are
// written by the coaching pipeline, so the API is read-only. Expected paths:
// /api/sessions or /api/sessions/{id}.
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, path)
}

type sessionResponse struct {
	ID           string `json:"id"`
	ExerciseID   string `json:"exercise_id,omitempty"`
	ExerciseName string `json:"exercise_name"`
	Mode         string `json:"mode"`
	StartedAt    string `json:"started_at"`
	EndedAt      string `json:"ended_at"`
	Reps         int    `json:"reps"`
	Score        int    `json:"score"`
	Faults       int    `json:"faults"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

func toSessionResponse(s *store.Session) sessionResponse {
	return sessionResponse{
		ID:           s.ID,
		ExerciseID:   s.ExerciseID,
		ExerciseName: s.ExerciseName,
		Mode:         s.Mode,
		StartedAt:    s.StartedAt.Format(timeFormat),
		EndedAt:      s.EndedAt.Format(timeFormat),
		Reps:         s.Reps,
		Score:        s.Score,
		Faults:       s.Faults,
	}
}

// list handles GET /api/sessions and returns summaries, most recent first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.store.Sessions().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/sessions/{id}.
func (h *SessionHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	session, err := h.store.Sessions().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get session")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(session))
}
