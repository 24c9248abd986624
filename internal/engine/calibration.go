package engine

import "github.com/arvidsson/formcoach/internal/pose"

// Calibration prompts shown to the user while the baseline is captured.
const (
	PromptHoldStill   = "Håll dig stilla..."
	PromptBodyVisible = "Se till att hela kroppen syns i bild"
	MsgCalibrated     = "Kalibrering klar! Nu kör vi!"
)

// Calibration tuning.
const (
	// calibrationStep is added to the progress counter for every frame in
	// which all required landmarks are clearly visible.
	calibrationStep = 2
	// calibrationTarget is the progress at which calibration completes.
	calibrationTarget = 100
	// visibilityThreshold is the minimum landmark visibility accepted
	// during calibration.
	visibilityThreshold = 0.8
)

// Baseline is the patient's resting posture captured once per session, used
// as a vertical reference for the rest of the analysis.
type Baseline struct {
	ShoulderY float64
	HipY      float64
}

// Calibrator gates the analysis behind a sustained run of high-visibility
// frames. It is terminal: once calibrated it never re-enters accumulation.
type Calibrator struct {
	progress int
	baseline *Baseline
}

// requiredLandmarks are the torso points that must stay visible while the
// progress counter accumulates.
var requiredLandmarks = [3]int{pose.LeftShoulder, pose.LeftHip, pose.LeftAnkle}

// Done reports whether calibration has completed.
func (c *Calibrator) Done() bool {
	return c.baseline != nil
}

// Progress returns the accumulation counter in [0,100].
func (c *Calibrator) Progress() int {
	return c.progress
}

// Baseline returns the captured posture baseline, or nil before completion.
func (c *Calibrator) Baseline() *Baseline {
	return c.baseline
}

// Observe feeds one frame into the calibrator. It returns true exactly once,
// on the frame that completes calibration, along with the prompt to show the
// user. After completion the calibrator is inert.
func (c *Calibrator) Observe(f *pose.Frame) (completed bool, prompt string) {
	if c.Done() {
		return false, ""
	}

	for _, idx := range requiredLandmarks {
		if f.At(idx).Visibility < visibilityThreshold {
			c.progress = 0
			return false, PromptBodyVisible
		}
	}

	c.progress += calibrationStep
	if c.progress < calibrationTarget {
		return false, PromptHoldStill
	}

	c.progress = calibrationTarget
	c.baseline = &Baseline{
		ShoulderY: f.MidY(pose.LeftShoulder, pose.RightShoulder),
		HipY:      f.MidY(pose.LeftHip, pose.RightHip),
	}
	return true, MsgCalibrated
}
