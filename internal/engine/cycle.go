package engine

import (
	"time"

	"github.com/arvidsson/formcoach/internal/pose"
)

// Phase represents the current position within one repetition.
type Phase string

const (
	// PhaseStart is the resting position between reps.
	PhaseStart Phase = "start"
	// PhaseEccentric is the lowering portion of the movement.
	PhaseEccentric Phase = "eccentric"
	// PhaseTurn is the bottom (legs) or top (press/pull) turnaround.
	PhaseTurn Phase = "turn"
	// PhaseConcentric is the effort portion back toward start.
	PhaseConcentric Phase = "concentric"
)

// minDescent is the shortest acceptable eccentric duration for leg
// movements; a faster descent trips the tempo fault.
const minDescent = 1500 * time.Millisecond

// cycleEvents reports what happened during one phase advance.
type cycleEvents struct {
	repCompleted bool
	// tooFast is set on the eccentric→turn transition when the descent
	// finished quicker than minDescent.
	tooFast bool
	descent time.Duration
}

// repCycle is the per-archetype repetition state machine. The two concrete
// cycles have different topologies: leg movements reach the turnaround
// through the eccentric (depth first), press/pull movements through the
// concentric (end-range first). They are intentionally not unified.
type repCycle interface {
	// advance feeds the current joint angle and wall-clock time to the
	// machine and reports any transition side effects.
	advance(angle float64, now time.Time) cycleEvents
	// phase returns the machine's current phase.
	phase() Phase
	// joint returns the proximal, vertex and distal landmark indices whose
	// angle drives this cycle.
	joint() (a, b, c int)
}

// newRepCycle selects the cycle implementation for a movement archetype.
// ModeGeneral has no cycle and returns nil.
func newRepCycle(mode Mode) repCycle {
	switch mode {
	case ModeLegs, ModeLunge:
		return &legCycle{current: PhaseStart}
	case ModePress, ModePull:
		return &upperCycle{current: PhaseStart}
	default:
		return nil
	}
}

// legCycle drives squat and lunge movements from the hip-knee-ankle angle.
// Topology: START →(<160°) ECCENTRIC →(<100°) TURN →(>110°) CONCENTRIC
// →(>165°, rep++) START.
type legCycle struct {
	current      Phase
	descentStart time.Time
}

func (c *legCycle) phase() Phase { return c.current }

func (c *legCycle) joint() (int, int, int) {
	return pose.LeftHip, pose.LeftKnee, pose.LeftAnkle
}

func (c *legCycle) advance(angle float64, now time.Time) cycleEvents {
	var ev cycleEvents

	switch c.current {
	case PhaseStart:
		if angle < 160 {
			c.current = PhaseEccentric
			c.descentStart = now
		}
	case PhaseEccentric:
		if angle < 100 {
			c.current = PhaseTurn
			ev.descent = now.Sub(c.descentStart)
			ev.tooFast = ev.descent < minDescent
		}
	case PhaseTurn:
		if angle > 110 {
			c.current = PhaseConcentric
		}
	case PhaseConcentric:
		if angle > 165 {
			c.current = PhaseStart
			ev.repCompleted = true
		}
	}

	return ev
}

// upperCycle drives press and pull movements from the shoulder-elbow-wrist
// angle. Topology: START →(>100°) CONCENTRIC →(>160°) TURN →(<150°)
// ECCENTRIC →(<70°, rep++) START. The turn→eccentric step is the designed
// path back down from the extended end-range.
type upperCycle struct {
	current Phase
}

func (c *upperCycle) phase() Phase { return c.current }

func (c *upperCycle) joint() (int, int, int) {
	return pose.LeftShoulder, pose.LeftElbow, pose.LeftWrist
}

func (c *upperCycle) advance(angle float64, now time.Time) cycleEvents {
	var ev cycleEvents

	switch c.current {
	case PhaseStart:
		if angle > 100 {
			c.current = PhaseConcentric
		}
	case PhaseConcentric:
		if angle > 160 {
			c.current = PhaseTurn
		}
	case PhaseTurn:
		if angle < 150 {
			c.current = PhaseEccentric
		}
	case PhaseEccentric:
		if angle < 70 {
			c.current = PhaseStart
			ev.repCompleted = true
		}
	}

	return ev
}
