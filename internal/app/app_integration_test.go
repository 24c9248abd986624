package app

import (
	"errors"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/arvidsson/formcoach/internal/capture"
	"github.com/arvidsson/formcoach/internal/engine"
	"github.com/arvidsson/formcoach/internal/pose"
	"github.com/arvidsson/formcoach/internal/store"
)

func newTestApp(t *testing.T) (*App, *store.Store) {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	a := New(Config{
		Store:        s,
		MotionThresh: 0.05,
	})
	a.SetDetector(pose.NewMockDetector())

	return a, s
}

func TestApp_SessionLifecycle(t *testing.T) {
	a, _ := newTestApp(t)

	if err := a.EndSession(); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("EndSession() without session: got %v, want ErrNoActiveSession", err)
	}

	a.StartExercise("Knäböj")

	session := a.Session()
	if session == nil {
		t.Fatal("expected active session after StartExercise")
	}
	if session.Mode() != engine.ModeLegs {
		t.Errorf("expected mode %q, got %q", engine.ModeLegs, session.Mode())
	}

	if err := a.EndSession(); err != nil {
		t.Errorf("EndSession() error = %v", err)
	}
	if a.Session() != nil {
		t.Error("expected no active session after EndSession")
	}
}

func TestApp_EndSession_PersistsSummaryWithReps(t *testing.T) {
	a, s := newTestApp(t)

	a.StartExercise("Knäböj")
	session := a.Session()

	// Calibrate, then drive one squat cycle through the engine directly
	standing := pose.StandingFrame()
	for i := 0; i < 50; i++ {
		session.ProcessFrame(standing)
	}
	for _, angle := range []float64{180, 150, 90, 120, 170} {
		session.ProcessFrame(pose.SquatFrame(angle))
	}

	if session.Reps() != 1 {
		t.Fatalf("expected 1 rep, got %d", session.Reps())
	}

	if err := a.EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
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
	if sessions[0].Mode != "legs" {
		t.Errorf("expected mode 'legs', got %q", sessions[0].Mode)
	}
}

func TestApp_EndSession_DiscardsEmptySession(t *testing.T) {
	a, s := newTestApp(t)

	a.StartExercise("Knäböj")
	if err := a.EndSession(); err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}

	sessions, err := s.Sessions().List()
	if err != nil {
		t.Fatalf("failed to list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("expected no persisted sessions without reps, got %d", len(sessions))
	}
}

func TestApp_StartExercise_ReplacesActiveSession(t *testing.T) {
	a, _ := newTestApp(t)

	a.StartExercise("Knäböj")
	first := a.Session()

	a.StartExercise("Axelpress")
	second := a.Session()

	if first == second {
		t.Error("expected StartExercise to replace the active session")
	}
	if second.Mode() != engine.ModePress {
		t.Errorf("expected mode %q, got %q", engine.ModePress, second.Mode())
	}
}

func TestApp_Pipeline_FeedsSession(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	a, _ := newTestApp(t)

	// Alternating dark and bright frames so the presence gate always fires
	dark := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer dark.Close()
	bright := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(250, 250, 250, 0), 480, 640, gocv.MatTypeCV8UC3)
	defer bright.Close()

	a.camera = capture.NewMockCamera([]*gocv.Mat{&dark, &bright}, true)

	mock := pose.NewMockDetector()
	mock.SetFrame(pose.StandingFrame())
	a.SetDetector(mock)

	var snapshots atomic.Int64
	a.OnStatus(func(snap engine.Snapshot) {
		snapshots.Add(1)
	})

	if err := a.Start(); err != nil {
		t.Fatalf("app.Start() error = %v", err)
	}
	defer a.Stop()

	a.SetEnabled(true)
	a.StartExercise("Knäböj")

	// Let the pipeline run for a moment
	deadline := time.Now().Add(3 * time.Second)
	for snapshots.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}

	if snapshots.Load() == 0 {
		t.Error("expected the pipeline to deliver snapshots to the status callback")
	}

	// The alternating frames keep the presence gate firing, so the camera
	// should have been switched up to the active rate
	if fps := a.camera.FPS(); fps != ActiveFPS {
		t.Errorf("expected camera at active rate %d, got %d", ActiveFPS, fps)
	}
}
