// Package server provides the HTTP server for the FormCoach rehabilitation system.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/arvidsson/formcoach/internal/capture"
	"github.com/arvidsson/formcoach/internal/server/api"
	"github.com/arvidsson/formcoach/internal/store"
)

// Coach controls the camera-driven coaching session. The application
// orchestrator implements it; the server exposes it so the web UI can
// start and stop sessions without going through the tray.
type Coach interface {
	StartExercise(name string)
	EndSession() error
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Coach     Coach
}

// Server represents the HTTP server for the FormCoach application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register data API handlers if Store is configured
	if s.config.Store != nil {
		exerciseHandler := api.NewExerciseHandler(s.config.Store)
		s.mux.Handle("/api/exercises", exerciseHandler)
		s.mux.Handle("/api/exercises/", exerciseHandler)

		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)

		s.mux.Handle("/api/pain", api.NewPainHandler(s.config.Store))
	}

	// The coaching WebSocket accepts client-supplied pose frames, so it
	// works with or without a local camera. The store is optional too.
	s.mux.Handle("/api/coach", NewCoachHandler(s.config.Store))

	// Session control for the camera-driven pipeline
	if s.config.Coach != nil {
		s.mux.HandleFunc("/api/coach/start", s.handleCoachStart)
		s.mux.HandleFunc("/api/coach/end", s.handleCoachEnd)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		s.mux.Handle("/api/stream", NewStreamHandler(s.config.Camera))
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleCoachStart handles POST requests to /api/coach/start. It starts a
// camera-driven coaching session for the named exercise, replacing any
// session already in progress.
func (s *Server) handleCoachStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Exercise string `json:"exercise"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Exercise == "" {
		http.Error(w, "Exercise name is required", http.StatusBadRequest)
		return
	}

	s.config.Coach.StartExercise(req.Exercise)
	w.WriteHeader(http.StatusNoContent)
}

// handleCoachEnd handles POST requests to /api/coach/end. It ends the
// active coaching session and persists its summary.
func (s *Server) handleCoachEnd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.Coach.EndSession(); err != nil {
		http.Error(w, "No active session", http.StatusConflict)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
