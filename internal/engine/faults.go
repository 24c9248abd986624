package engine

import (
	"math"

	"github.com/arvidsson/formcoach/internal/pose"
)

// Issue labels shown in the active-issues display. The labels are the
// user-facing strings; severity is implied by category.
const (
	IssueValgus  = "Inåtvinkling"
	IssueTooFast = "För snabbt!"
	IssueWobble  = "Balansera!"
)

// Spoken cues paired with the issues above.
const (
	cueValgus  = "Pressa ut knäna!"
	cueTooFast = "Lite långsammare på vägen ner"
	cueWobble  = "Hitta balansen"
)

// Fault detection tuning.
const (
	// valgusActiveAngle is the knee angle below which the valgus check
	// runs; above it the legs are too straight for the ratio to mean much.
	valgusActiveAngle = 140.0
	// valgusRatio is the knee-width to hip-width ratio under which the
	// knees are considered collapsing inward.
	valgusRatio = 0.75
	// wobbleLookback is how many frames back the knee position is compared
	// against during the turn phase.
	wobbleLookback = 5
	// wobbleDelta is the horizontal knee drift, in normalized coordinates,
	// that trips the balance cue.
	wobbleDelta = 0.02
)

// valgusCollapse reports whether the knees have buckled inward relative to
// the hips. Only meaningful for leg movements while the knee is bent past
// valgusActiveAngle.
func valgusCollapse(f *pose.Frame, kneeAngle float64) bool {
	if kneeAngle >= valgusActiveAngle {
		return false
	}

	hipWidth := math.Abs(f.At(pose.LeftHip).X - f.At(pose.RightHip).X)
	if hipWidth == 0 {
		return false
	}
	kneeWidth := math.Abs(f.At(pose.LeftKnee).X - f.At(pose.RightKnee).X)

	return kneeWidth/hipWidth < valgusRatio
}

// posturalWobble reports whether the tracked knee has drifted horizontally
// since wobbleLookback frames ago. Checked only during the turn phase of
// leg movements; upper-body cycles have no balance check.
func posturalWobble(f *pose.Frame, history *frameHistory) bool {
	past := history.back(wobbleLookback)
	if past == nil {
		return false
	}
	delta := f.At(pose.LeftKnee).X - past.At(pose.LeftKnee).X
	return math.Abs(delta) > wobbleDelta
}
