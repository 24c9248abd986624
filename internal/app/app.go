// Package app provides the main application logic for the FormCoach
// rehabilitation coaching system.
package app

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arvidsson/formcoach/internal/capture"
	"github.com/arvidsson/formcoach/internal/engine"
	"github.com/arvidsson/formcoach/internal/pose"
	"github.com/arvidsson/formcoach/internal/speech"
	"github.com/arvidsson/formcoach/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while waiting for someone to step in front
	// of the camera.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active coaching.
	ActiveFPS = 15
	// IdleTimeoutMs is the time in milliseconds without motion before the
	// pipeline drops back to the idle rate.
	IdleTimeoutMs = 2000
)

// ErrNoActiveSession is returned when ending a session that was never started.
var ErrNoActiveSession = errors.New("no active coaching session")

// StatusFunc receives the per-frame engine snapshot, for UI surfaces like
// the tray.
type StatusFunc func(engine.Snapshot)

// Config holds configuration options for the application.
type Config struct {
	Store        *store.Store
	CameraID     int
	MotionThresh float64
	Announcer    speech.Announcer
}

// App orchestrates the coaching pipeline: camera capture, presence gating,
// pose detection, movement analysis and spoken feedback.
type App struct {
	config    Config
	camera    capture.Camera
	motion    *capture.MotionDetector
	detector  pose.Detector
	announcer speech.Announcer

	session      *engine.Session
	sessionStart time.Time
	faults       int

	enabled  bool
	statusFn StatusFunc
	mu       sync.RWMutex
	stopCh   chan struct{}
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	announcer := config.Announcer
	if announcer == nil {
		announcer = speech.Nop{}
	}

	a := &App{
		config:    config,
		camera:    capture.NewCamera(config.CameraID),
		motion:    capture.NewMotionDetector(motionThreshold),
		announcer: announcer,
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := pose.NewMediaPipeDetector(pose.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe pose detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = pose.NewMockDetector()
	}

	return a
}

// SetEnabled enables or disables coaching.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled returns whether coaching is currently enabled.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector sets the pose detector implementation to use.
func (a *App) SetDetector(d pose.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// OnStatus registers a callback invoked with every engine snapshot while a
// session is active. The callback runs on the pipeline goroutine and must
// return quickly.
func (a *App) OnStatus(fn StatusFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.statusFn = fn
}

// StartExercise begins a coaching session for the named exercise. Any
// session already in progress is ended and persisted first.
func (a *App) StartExercise(name string) {
	a.mu.Lock()
	prev := a.takeSessionLocked()
	a.session = engine.NewSession(name)
	a.sessionStart = time.Now()
	a.faults = 0
	a.mu.Unlock()

	if prev != nil {
		a.persistSummary(prev)
	}

	log.Printf("Started coaching session: %s (%s)", name, engine.ResolveMode(name))
}

// EndSession ends the active coaching session and persists its summary.
func (a *App) EndSession() error {
	a.mu.Lock()
	summary := a.takeSessionLocked()
	a.mu.Unlock()

	if summary == nil {
		return ErrNoActiveSession
	}

	a.persistSummary(summary)
	log.Printf("Ended coaching session: %s (%d reps, score %d)",
		summary.ExerciseName, summary.Reps, summary.Score)
	return nil
}

// Session returns the active engine session, or nil.
func (a *App) Session() *engine.Session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session
}

// takeSessionLocked detaches the active session and returns its summary,
// or nil when idle. Caller must hold the lock.
func (a *App) takeSessionLocked() *store.Session {
	if a.session == nil {
		return nil
	}

	summary := &store.Session{
		ID:           uuid.NewString(),
		ExerciseName: a.session.Exercise(),
		Mode:         string(a.session.Mode()),
		StartedAt:    a.sessionStart,
		EndedAt:      time.Now(),
		Reps:         a.session.Reps(),
		Score:        a.session.Score(),
		Faults:       a.faults,
	}
	a.session = nil
	return summary
}

// persistSummary writes a finished session summary to the store. Sessions
// without a single completed repetition are discarded.
func (a *App) persistSummary(summary *store.Session) {
	if a.config.Store == nil || summary.Reps == 0 {
		return
	}
	if err := a.config.Store.Sessions().Create(summary); err != nil {
		log.Printf("Failed to persist session summary: %v", err)
	}
}

// Start begins the coaching pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	// Open the camera
	if err := a.camera.Open(); err != nil {
		return err
	}

	// Set initial FPS to idle mode
	a.camera.SetFPS(IdleFPS)

	// Create stop channel and start the pipeline
	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	log.Println("Coaching pipeline started")
	return nil
}

// Stop halts the coaching pipeline and releases resources. An active
// session is ended and persisted.
func (a *App) Stop() {
	a.mu.Lock()

	// Signal the pipeline to stop
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	summary := a.takeSessionLocked()
	a.mu.Unlock()

	if summary != nil {
		a.persistSummary(summary)
	}

	// Close the camera
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	// Close motion detector
	a.motion.Close()

	// Close the pose detector if set
	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Coaching pipeline stopped")
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// MotionDetector returns the motion detector instance.
func (a *App) MotionDetector() *capture.MotionDetector {
	return a.motion
}

// Detector returns the pose detector.
func (a *App) Detector() pose.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}
