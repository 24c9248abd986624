package engine

import (
	"testing"

	"github.com/arvidsson/formcoach/internal/pose"
)

func TestCalibrator_CompletesAfterFiftyFrames(t *testing.T) {
	var cal Calibrator
	frame := pose.StandingFrame()

	// 49 clean frames accumulate 98: not yet calibrated.
	for i := 0; i < 49; i++ {
		completed, prompt := cal.Observe(frame)
		if completed {
			t.Fatalf("calibration completed early at frame %d", i+1)
		}
		if prompt != PromptHoldStill {
			t.Fatalf("frame %d: prompt = %q, want %q", i+1, prompt, PromptHoldStill)
		}
	}
	if cal.Done() {
		t.Fatal("Done() = true after 49 frames")
	}
	if cal.Progress() != 98 {
		t.Fatalf("Progress() = %d after 49 frames, want 98", cal.Progress())
	}

	// The 50th frame crosses 100 and completes exactly once.
	completed, prompt := cal.Observe(frame)
	if !completed {
		t.Fatal("calibration did not complete on frame 50")
	}
	if prompt != MsgCalibrated {
		t.Errorf("completion prompt = %q, want %q", prompt, MsgCalibrated)
	}
	if !cal.Done() || cal.Progress() != 100 {
		t.Errorf("Done() = %v, Progress() = %d, want true/100", cal.Done(), cal.Progress())
	}
}

func TestCalibrator_BaselineFromCompletionFrame(t *testing.T) {
	var cal Calibrator
	frame := pose.StandingFrame()

	for !cal.Done() {
		cal.Observe(frame)
	}

	baseline := cal.Baseline()
	if baseline == nil {
		t.Fatal("Baseline() = nil after calibration")
	}

	wantShoulder := frame.MidY(pose.LeftShoulder, pose.RightShoulder)
	wantHip := frame.MidY(pose.LeftHip, pose.RightHip)
	if baseline.ShoulderY != wantShoulder {
		t.Errorf("ShoulderY = %f, want %f", baseline.ShoulderY, wantShoulder)
	}
	if baseline.HipY != wantHip {
		t.Errorf("HipY = %f, want %f", baseline.HipY, wantHip)
	}
}

func TestCalibrator_ResetsOnLowVisibility(t *testing.T) {
	var cal Calibrator
	clean := pose.StandingFrame()

	for i := 0; i < 20; i++ {
		cal.Observe(clean)
	}
	if cal.Progress() != 40 {
		t.Fatalf("Progress() = %d, want 40", cal.Progress())
	}

	// One frame with a barely-occluded ankle throws the whole run away.
	occluded := pose.StandingFrame()
	occluded.Points[pose.LeftAnkle].Visibility = 0.7
	completed, prompt := cal.Observe(occluded)
	if completed {
		t.Fatal("calibration completed on an occluded frame")
	}
	if prompt != PromptBodyVisible {
		t.Errorf("prompt = %q, want %q", prompt, PromptBodyVisible)
	}
	if cal.Progress() != 0 {
		t.Errorf("Progress() = %d after occluded frame, want 0", cal.Progress())
	}
}

func TestCalibrator_InertAfterCompletion(t *testing.T) {
	var cal Calibrator
	frame := pose.StandingFrame()

	for !cal.Done() {
		cal.Observe(frame)
	}
	baseline := cal.Baseline()

	// Further frames, even bad ones, change nothing.
	occluded := pose.StandingFrame()
	occluded.Points[pose.LeftShoulder].Visibility = 0
	completed, prompt := cal.Observe(occluded)
	if completed || prompt != "" {
		t.Errorf("Observe() after completion = (%v, %q), want (false, \"\")", completed, prompt)
	}
	if cal.Baseline() != baseline {
		t.Error("baseline changed after completion")
	}
}
