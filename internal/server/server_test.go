package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arvidsson/formcoach/internal/app"
	"github.com/arvidsson/formcoach/internal/engine"
	"github.com/arvidsson/formcoach/internal/pose"
	"github.com/arvidsson/formcoach/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "formcoach-server-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func TestServer_Health(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", response["status"])
	}

	if _, ok := response["uptime"]; !ok {
		t.Error("expected uptime in response")
	}
}

func TestServer_Health_MethodNotAllowed(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}

func TestServer_ExerciseRoutesRequireStore(t *testing.T) {
	// Without a store the data routes are not registered
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/exercises", nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d without store, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "formcoach-static-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	indexPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(indexPath, []byte("<html>FormCoach</html>"), 0o644); err != nil {
		t.Fatalf("failed to write index file: %v", err)
	}

	srv := New(Config{StaticDir: tmpDir})

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	if !strings.Contains(rec.Body.String(), "FormCoach") {
		t.Errorf("expected index content, got %q", rec.Body.String())
	}
}

func TestServer_CoachControl(t *testing.T) {
	a := app.New(app.Config{})
	srv := New(Config{Coach: a})

	// Ending without an active session fails
	req := httptest.NewRequest(http.MethodPost, "/api/coach/end", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d without session, got %d", http.StatusConflict, rec.Code)
	}

	// Starting a session makes it visible on the orchestrator
	body := strings.NewReader(`{"exercise": "Knäböj"}`)
	req = httptest.NewRequest(http.MethodPost, "/api/coach/start", body)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	session := a.Session()
	if session == nil {
		t.Fatal("expected an active session after start")
	}
	if session.Mode() != engine.ModeLegs {
		t.Errorf("expected mode %q, got %q", engine.ModeLegs, session.Mode())
	}

	// Ending tears the session down
	req = httptest.NewRequest(http.MethodPost, "/api/coach/end", nil)
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}
	if a.Session() != nil {
		t.Error("expected no active session after end")
	}
}

func TestServer_CoachControl_RejectsBadRequests(t *testing.T) {
	srv := New(Config{Coach: app.New(app.Config{})})

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"missing exercise name", http.MethodPost, "/api/coach/start", `{}`, http.StatusBadRequest},
		{"malformed body", http.MethodPost, "/api/coach/start", `{`, http.StatusBadRequest},
		{"start requires POST", http.MethodGet, "/api/coach/start", "", http.StatusMethodNotAllowed},
		{"end requires POST", http.MethodGet, "/api/coach/end", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestServer_CoachControlRequiresCoach(t *testing.T) {
	srv := New(Config{})

	req := httptest.NewRequest(http.MethodPost, "/api/coach/start", strings.NewReader(`{"exercise": "Knäböj"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d without coach, got %d", http.StatusNotFound, rec.Code)
	}
}

// dialCoach connects a websocket client to the test server's coaching
// endpoint.
func dialCoach(t *testing.T, srv *Server) *websocket.Conn {
	t.Helper()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/coach"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial coach websocket: %v", err)
	}
	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}

// sendFrame streams one pose frame over the coaching socket and returns the
// snapshot the server answers with.
func sendFrame(t *testing.T, conn *websocket.Conn, f *pose.Frame, ts int64) engine.Snapshot {
	t.Helper()

	msg := frameMessage{Landmarks: f.Points[:], Timestamp: ts}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("failed to send frame: %v", err)
	}

	var snap engine.Snapshot
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	return snap
}

func TestCoachHandler_CalibratesAndCountsReps(t *testing.T) {
	srv := New(Config{})
	conn := dialCoach(t, srv)

	if err := conn.WriteJSON(startMessage{Exercise: "Knäböj"}); err != nil {
		t.Fatalf("failed to send start message: %v", err)
	}

	// Calibration needs 50 consecutive clean frames
	standing := pose.StandingFrame()
	var snap engine.Snapshot
	for i := 0; i < 50; i++ {
		snap = sendFrame(t, conn, standing, int64(i))
	}

	if snap.Calibrating {
		t.Fatal("expected calibration to complete after 50 clean frames")
	}
	if snap.Mode != engine.ModeLegs {
		t.Errorf("expected mode %q, got %q", engine.ModeLegs, snap.Mode)
	}

	// Drive one full squat cycle. The descent is faster than the minimum
	// descent time, which costs a tempo deduction but still counts the rep,
	// so the score lands back on 100.
	for _, angle := range []float64{180, 150, 90, 120, 170} {
		snap = sendFrame(t, conn, pose.SquatFrame(angle), 100)
	}

	if snap.Reps != 1 {
		t.Errorf("expected 1 rep, got %d", snap.Reps)
	}
	if snap.Score != 100 {
		t.Errorf("expected score 100, got %d", snap.Score)
	}
}

func TestCoachHandler_MissingExerciseName(t *testing.T) {
	srv := New(Config{})
	conn := dialCoach(t, srv)

	if err := conn.WriteJSON(startMessage{}); err != nil {
		t.Fatalf("failed to send start message: %v", err)
	}

	var response map[string]string
	if err := conn.ReadJSON(&response); err != nil {
		t.Fatalf("failed to read error response: %v", err)
	}

	if response["error"] == "" {
		t.Error("expected error response for missing exercise name")
	}
}

func TestCoachHandler_PersistsSummary(t *testing.T) {
	s := newTestStore(t)
	srv := New(Config{Store: s})
	conn := dialCoach(t, srv)

	if err := conn.WriteJSON(startMessage{Exercise: "Knäböj"}); err != nil {
		t.Fatalf("failed to send start message: %v", err)
	}

	standing := pose.StandingFrame()
	for i := 0; i < 50; i++ {
		sendFrame(t, conn, standing, int64(i))
	}
	for _, angle := range []float64{180, 150, 90, 120, 170} {
		sendFrame(t, conn, pose.SquatFrame(angle), 100)
	}

	// Closing the socket ends the session and writes the summary
	conn.Close()

	// The write happens after the read loop exits, poll briefly for it
	var sessions []*store.Session
	for i := 0; i < 50; i++ {
		var err error
		sessions, err = s.Sessions().List()
		if err != nil {
			t.Fatalf("failed to list sessions: %v", err)
		}
		if len(sessions) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	if len(sessions) != 1 {
		t.Fatalf("expected 1 persisted session, got %d", len(sessions))
	}
	if sessions[0].ExerciseName != "Knäböj" {
		t.Errorf("expected exercise 'Knäböj', got %q", sessions[0].ExerciseName)
	}
	if sessions[0].Reps != 1 {
		t.Errorf("expected 1 rep in summary, got %d", sessions[0].Reps)
	}
}
