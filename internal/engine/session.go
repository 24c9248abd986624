package engine

import (
	"math"
	"time"

	"github.com/arvidsson/formcoach/internal/pose"
)

// praise messages rotated on completed reps.
var praise = []string{"Snyggt!", "Perfekt!", "Bra jobbat!", "En till!"}

// RepEvent marks a completed repetition and carries the normalized screen
// position (the hip midline) where the renderer can anchor its celebration.
type RepEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is the per-frame output of the engine, consumed by the UI and
// renderer. Issues are recomputed fresh every frame; RepCompleted and Shake
// are one-frame events.
type Snapshot struct {
	Mode                Mode      `json:"mode"`
	Calibrating         bool      `json:"calibrating"`
	CalibrationProgress int       `json:"calibrationProgress"`
	Phase               Phase     `json:"phase,omitempty"`
	Reps                int       `json:"reps"`
	Score               int       `json:"score"`
	Velocity            float64   `json:"velocity"`
	FastMovement        bool      `json:"fastMovement"`
	Issues              []string  `json:"issues,omitempty"`
	Feedback            string    `json:"feedback,omitempty"`
	RepCompleted        *RepEvent `json:"repCompleted,omitempty"`
	Shake               bool      `json:"shake,omitempty"`
}

// Session owns all mutable analysis state for one coaching session. It is
// push-driven and single-threaded: the camera pipeline (or the websocket
// handler) calls ProcessFrame once per frame, in order, and every mutation
// happens synchronously inside that call.
type Session struct {
	exercise   string
	mode       Mode
	calibrator Calibrator
	cycle      repCycle
	history    frameHistory
	score      formScore
	feedback   feedbackDispatcher
	reps       int

	// now is the session clock, replaceable in tests to simulate frame time.
	now func() time.Time
}

// NewSession starts a session for the named exercise. The movement archetype
// is resolved once from the name and stays fixed for the session.
func NewSession(exerciseName string) *Session {
	mode := ResolveMode(exerciseName)
	return &Session{
		exercise: exerciseName,
		mode:     mode,
		cycle:    newRepCycle(mode),
		score:    newFormScore(),
		now:      time.Now,
	}
}

// Exercise returns the exercise name the session was started with.
func (s *Session) Exercise() string { return s.exercise }

// Mode returns the resolved movement archetype.
func (s *Session) Mode() Mode { return s.mode }

// Reps returns the completed repetition count.
func (s *Session) Reps() int { return s.reps }

// Score returns the current form score rounded for display.
func (s *Session) Score() int { return s.score.display() }

// TakeAnnouncement removes and returns the pending spoken feedback, or nil.
// The caller hands it to the speech adapter; the engine never blocks on
// speech.
func (s *Session) TakeAnnouncement() *Announcement {
	return s.feedback.takePending()
}

// ProcessFrame runs the full analysis pipeline for one pose frame:
// calibration, joint angle, rep cycle, fault checks, tempo, score and
// feedback, in that order. A nil frame is skipped without mutating state.
func (s *Session) ProcessFrame(f *pose.Frame) Snapshot {
	if f == nil {
		return s.idleSnapshot()
	}

	now := s.now()

	if !s.calibrator.Done() {
		completed, prompt := s.calibrator.Observe(f)
		s.feedback.offer(prompt, completed, now)
		snap := s.idleSnapshot()
		snap.Calibrating = !completed
		snap.CalibrationProgress = s.calibrator.Progress()
		snap.Feedback = s.feedback.text
		return snap
	}

	s.history.push(f)
	velocity := s.history.velocity()

	var issues []string
	var repEvent *RepEvent
	shake := false

	if s.cycle != nil {
		a, b, c := s.cycle.joint()
		angle := JointAngle(f.At(a), f.At(b), f.At(c))

		ev := s.cycle.advance(angle, now)
		if ev.tooFast {
			issues = append(issues, IssueTooFast)
			s.score.add(-scoreTooFastDeduct)
			s.feedback.offer(cueTooFast, false, now)
		}
		if ev.repCompleted {
			s.reps++
			s.score.add(scoreRepBonus)
			hip := f.At(pose.LeftHip)
			repEvent = &RepEvent{X: hip.X, Y: hip.Y}
			s.feedback.offer(praise[(s.reps-1)%len(praise)], false, now)
		}

		if s.mode == ModeLegs || s.mode == ModeLunge {
			if valgusCollapse(f, angle) {
				issues = append(issues, IssueValgus)
				s.score.add(-scoreValgusDeduct)
				s.feedback.offer(cueValgus, true, now)
			}
			// The balance check is a leg-only asymmetry: there is no
			// equivalent for upper-body cycles.
			if s.cycle.phase() == PhaseTurn && posturalWobble(f, &s.history) {
				issues = append(issues, IssueWobble)
				shake = true
				s.feedback.offer(cueWobble, false, now)
			}
		}
	}

	snap := s.idleSnapshot()
	snap.Velocity = velocity
	snap.FastMovement = math.Abs(velocity) > fastVelocity
	snap.Issues = issues
	snap.Feedback = s.feedback.text
	snap.RepCompleted = repEvent
	snap.Shake = shake
	return snap
}

// idleSnapshot captures the stable session state without any per-frame
// events.
func (s *Session) idleSnapshot() Snapshot {
	snap := Snapshot{
		Mode:                s.mode,
		Calibrating:         !s.calibrator.Done(),
		CalibrationProgress: s.calibrator.Progress(),
		Reps:                s.reps,
		Score:               s.score.display(),
		Feedback:            s.feedback.text,
	}
	if s.cycle != nil {
		snap.Phase = s.cycle.phase()
	}
	return snap
}
