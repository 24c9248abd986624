package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arvidsson/formcoach/internal/engine"
	"github.com/arvidsson/formcoach/internal/pose"
	"github.com/arvidsson/formcoach/internal/server"
	"github.com/arvidsson/formcoach/internal/store"
)

// frameMessage mirrors the wire format of the /api/coach websocket.
type frameMessage struct {
	Landmarks []pose.Landmark `json:"landmarks"`
	Timestamp int64           `json:"ts"`
}

func TestE2E_CompleteWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test")
	}

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "data.db")

	s, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	defer s.Close()

	srv := server.New(server.Config{Store: s})
	ts := httptest.NewServer(srv)
	defer ts.Close()

	client := ts.Client()

	t.Run("CreateExercise", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/exercises",
			"application/json",
			strings.NewReader(`{"name": "Knäböj", "category": "Ben", "sets": 3, "reps": 10}`),
		)
		if err != nil {
			t.Fatalf("create exercise error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("LogPain", func(t *testing.T) {
		resp, err := client.Post(
			ts.URL+"/api/pain",
			"application/json",
			strings.NewReader(`{"score": 3, "note": "Lätt molande i knät"}`),
		)
		if err != nil {
			t.Fatalf("log pain error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
		}
	})

	t.Run("CoachSession", func(t *testing.T) {
		url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/coach"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		if err != nil {
			t.Fatalf("dial coach websocket error = %v", err)
		}
		defer conn.Close()

		if err := conn.WriteJSON(map[string]string{"exercise": "Knäböj"}); err != nil {
			t.Fatalf("send start message error = %v", err)
		}

		send := func(f *pose.Frame) engine.Snapshot {
			t.Helper()
			msg := frameMessage{Landmarks: f.Points[:], Timestamp: time.Now().UnixMilli()}
			if err := conn.WriteJSON(msg); err != nil {
				t.Fatalf("send frame error = %v", err)
			}
			var snap engine.Snapshot
			if err := conn.ReadJSON(&snap); err != nil {
				t.Fatalf("read snapshot error = %v", err)
			}
			return snap
		}

		// Calibration: 50 clean standing frames
		standing := pose.StandingFrame()
		var snap engine.Snapshot
		for i := 0; i < 50; i++ {
			snap = send(standing)
		}
		if snap.Calibrating {
			t.Fatal("expected calibration to complete")
		}

		// One full squat cycle. Frames arrive at websocket speed, far
		// faster than the minimum descent time, so the bottom of the squat
		// must flag the tempo fault and take its deduction.
		var bottom engine.Snapshot
		for _, angle := range []float64{180, 150, 90, 120, 170} {
			snap = send(pose.SquatFrame(angle))
			if angle == 90 {
				bottom = snap
			}
		}

		tooFast := false
		for _, issue := range bottom.Issues {
			if issue == engine.IssueTooFast {
				tooFast = true
			}
		}
		if !tooFast {
			t.Errorf("expected %q at the bottom of a rushed squat, got %v", engine.IssueTooFast, bottom.Issues)
		}
		if bottom.Score != 98 {
			t.Errorf("score after tempo deduction = %d, want 98", bottom.Score)
		}

		if snap.Reps != 1 {
			t.Fatalf("expected 1 rep, got %d", snap.Reps)
		}
		// The completed rep earns back the tempo deduction
		if snap.Score != 100 {
			t.Errorf("final score = %d, want 100", snap.Score)
		}

		// Close ends the session, the server persists the summary
		conn.Close()

		deadline := time.Now().Add(2 * time.Second)
		var sessions []*store.Session
		for time.Now().Before(deadline) {
			sessions, err = s.Sessions().List()
			if err != nil {
				t.Fatalf("list sessions error = %v", err)
			}
			if len(sessions) > 0 {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		if len(sessions) != 1 {
			t.Fatalf("expected 1 persisted session, got %d", len(sessions))
		}
		if sessions[0].Reps != 1 {
			t.Errorf("summary reps = %d, want 1", sessions[0].Reps)
		}
	})

	t.Run("SessionHistory", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/sessions")
		if err != nil {
			t.Fatalf("list sessions error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}

		var response struct {
			Sessions []struct {
				ExerciseName string `json:"exercise_name"`
				Reps         int    `json:"reps"`
				Score        int    `json:"score"`
			} `json:"sessions"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			t.Fatalf("decode response error = %v", err)
		}

		if len(response.Sessions) != 1 {
			t.Fatalf("expected 1 session in history, got %d", len(response.Sessions))
		}
		if response.Sessions[0].ExerciseName != "Knäböj" {
			t.Errorf("exercise = %q, want 'Knäböj'", response.Sessions[0].ExerciseName)
		}
	})

	t.Run("Health", func(t *testing.T) {
		resp, err := client.Get(ts.URL + "/api/health")
		if err != nil {
			t.Fatalf("health check error = %v", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
		}
	})
}
