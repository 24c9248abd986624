// Package server provides the HTTP server for the FormCoach rehabilitation system.
package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/arvidsson/formcoach/internal/engine"
	"github.com/arvidsson/formcoach/internal/pose"
	"github.com/arvidsson/formcoach/internal/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// CoachHandler runs live coaching over a WebSocket. Each connection gets its
// own analysis session: the client announces the exercise, then streams pose
// frames, and receives one snapshot back per frame.
type CoachHandler struct {
	store *store.Store
}

// NewCoachHandler creates a new CoachHandler. The store may be nil, in which
// case session summaries are not persisted.
func NewCoachHandler(s *store.Store) *CoachHandler {
	return &CoachHandler{store: s}
}

// startMessage is the first message a client sends after connecting.
type startMessage struct {
	Exercise string `json:"exercise"`
}

// frameMessage is one pose observation streamed by the client. Landmarks
// follow the MediaPipe Pose index order and must contain all 33 points.
type frameMessage struct {
	Landmarks []pose.Landmark `json:"landmarks"`
	Timestamp int64           `json:"ts"`
}

// ServeHTTP handles WebSocket upgrade requests on /api/coach.
func (h *CoachHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	var start startMessage
	if err := conn.ReadJSON(&start); err != nil {
		return
	}
	if start.Exercise == "" {
		conn.WriteJSON(map[string]string{"error": "exercise name required"})
		return
	}

	session := engine.NewSession(start.Exercise)
	startedAt := time.Now()
	faults := 0

	for {
		var msg frameMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}

		frame := toFrame(msg)
		snap := session.ProcessFrame(frame)
		faults += len(snap.Issues)

		if err := conn.WriteJSON(snap); err != nil {
			break
		}
	}

	h.persistSummary(session, startedAt, faults)
}

// toFrame converts a client frame message into a pose frame. Messages with
// the wrong landmark count are treated as empty frames.
func toFrame(msg frameMessage) *pose.Frame {
	if len(msg.Landmarks) != pose.NumLandmarks {
		return nil
	}

	frame := &pose.Frame{Timestamp: msg.Timestamp}
	copy(frame.Points[:], msg.Landmarks)
	return frame
}

// persistSummary records the finished session. Sessions that never completed
// a repetition are not worth keeping.
func (h *CoachHandler) persistSummary(session *engine.Session, startedAt time.Time, faults int) {
	if h.store == nil || session.Reps() == 0 {
		return
	}

	summary := &store.Session{
		ID:           uuid.NewString(),
		ExerciseName: session.Exercise(),
		Mode:         string(session.Mode()),
		StartedAt:    startedAt,
		EndedAt:      time.Now(),
		Reps:         session.Reps(),
		Score:        session.Score(),
		Faults:       faults,
	}

	if err := h.store.Sessions().Create(summary); err != nil {
		log.Printf("failed to persist session summary: %v", err)
	}
}
