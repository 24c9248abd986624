// Package api provides HTTP API handlers for the FormCoach application.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/arvidsson/formcoach/internal/store"
)

// ExerciseHandler handles HTTP requests for the exercise catalog.
type ExerciseHandler struct {
	store *store.Store
}

// NewExerciseHandler creates a new ExerciseHandler with the given store.
func NewExerciseHandler(s *store.Store) *ExerciseHandler {
	return &ExerciseHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to
// appropriate methods. Expected paths: /api/exercises or /api/exercises/{id}.
func (h *ExerciseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/exercises")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type exerciseRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	HoldSeconds int    `json:"hold_seconds"`
}

type exerciseResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	HoldSeconds int    `json:"hold_seconds"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type listExercisesResponse struct {
	Exercises []exerciseResponse `json:"exercises"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// timeFormat is the wire format for timestamps.
const timeFormat = "2006-01-02T15:04:05Z07:00"

func toExerciseResponse(e *store.Exercise) exerciseResponse {
	return exerciseResponse{
		ID:          e.ID,
		Name:        e.Name,
		Category:    e.Category,
		Description: e.Description,
		Sets:        e.Sets,
		Reps:        e.Reps,
		HoldSeconds: e.HoldSeconds,
		CreatedAt:   e.CreatedAt.Format(timeFormat),
		UpdatedAt:   e.UpdatedAt.Format(timeFormat),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/exercises and returns the whole catalog.
func (h *ExerciseHandler) list(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.store.Exercises().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list exercises")
		return
	}

	response := listExercisesResponse{
		Exercises: make([]exerciseResponse, 0, len(exercises)),
	}
	for _, e := range exercises {
		response.Exercises = append(response.Exercises, toExerciseResponse(e))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/exercises/{id}.
func (h *ExerciseHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	exercise, err := h.store.Exercises().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get exercise")
		return
	}

	writeJSON(w, http.StatusOK, toExerciseResponse(exercise))
}

// create handles POST /api/exercises.
func (h *ExerciseHandler) create(w http.ResponseWriter, r *http.Request) {
	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	exercise := &store.Exercise{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Sets:        req.Sets,
		Reps:        req.Reps,
		HoldSeconds: req.HoldSeconds,
	}

	if err := h.store.Exercises().Create(exercise); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create exercise")
		return
	}

	writeJSON(w, http.StatusCreated, toExerciseResponse(exercise))
}

// update handles PUT /api/exercises/{id}.
func (h *ExerciseHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req exerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	exercise, err := h.store.Exercises().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get exercise")
		return
	}

	if req.Name != "" {
		exercise.Name = req.Name
	}
	exercise.Category = req.Category
	exercise.Description = req.Description
	if req.Sets > 0 {
		exercise.Sets = req.Sets
	}
	if req.Reps > 0 {
		exercise.Reps = req.Reps
	}
	exercise.HoldSeconds = req.HoldSeconds

	if err := h.store.Exercises().Update(exercise); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update exercise")
		return
	}

	writeJSON(w, http.StatusOK, toExerciseResponse(exercise))
}

// delete handles DELETE /api/exercises/{id}.
func (h *ExerciseHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.store.Exercises().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Exercise not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete exercise")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
