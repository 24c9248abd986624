package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/arvidsson/formcoach/internal/store"
)

// PainHandler handles HTTP requests for pain check-ins.
type PainHandler struct {
	store *store.Store
}

// NewPainHandler creates a new PainHandler with the given store.
func NewPainHandler(s *store.Store) *PainHandler {
	return &PainHandler{store: s}
}

// ServeHTTP implements the http.Handler interface. Expected path: /api/pain.
func (h *PainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type painRequest struct {
	Score int    `json:"score"`
	Note  string `json:"note"`
}

type painResponse struct {
	ID        string `json:"id"`
	Score     int    `json:"score"`
	Note      string `json:"note"`
	CreatedAt string `json:"created_at"`
}

type listPainResponse struct {
	Logs []painResponse `json:"logs"`
}

func toPainResponse(p *store.PainLog) painResponse {
	return painResponse{
		ID:        p.ID,
		Score:     p.Score,
		Note:      p.Note,
		CreatedAt: p.CreatedAt.Format(timeFormat),
	}
}

// list handles GET /api/pain and returns check-ins, most recent first.
func (h *PainHandler) list(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.PainLogs().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list pain logs")
		return
	}

	response := listPainResponse{
		Logs: make([]painResponse, 0, len(logs)),
	}
	for _, p := range logs {
		response.Logs = append(response.Logs, toPainResponse(p))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/pain. Scores outside the 0-10 visual analog
// scale are rejected.
func (h *PainHandler) create(w http.ResponseWriter, r *http.Request) {
	var req painRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Score < 0 || req.Score > 10 {
		writeError(w, http.StatusBadRequest, "Score must be between 0 and 10")
		return
	}

	log := &store.PainLog{
		ID:    uuid.NewString(),
		Score: req.Score,
		Note:  req.Note,
	}

	if err := h.store.PainLogs().Create(log); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create pain log")
		return
	}

	writeJSON(w, http.StatusCreated, toPainResponse(log))
}
