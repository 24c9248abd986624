package pose

import (
	"math"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	frame  *Frame
	queue  []*Frame
	err    error
	closed bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFrame sets the frame that will be returned by every Detect call.
func (m *MockDetector) SetFrame(f *Frame) {
	m.frame = f
}

// QueueFrames sets a sequence of frames returned by successive Detect
// calls. Once the queue drains, Detect falls back to the fixed frame.
func (m *MockDetector) QueueFrames(frames []*Frame) {
	m.queue = frames
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured frame or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) > 0 {
		f := m.queue[0]
		m.queue = m.queue[1:]
		return f, nil
	}
	return m.frame, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}

// Limb lengths used by the synthetic fixtures, in normalized image
// coordinates with y increasing downward.
const (
	fixtureThighLen = 0.18
	fixtureShinLen  = 0.18
	fixtureArmLen   = 0.14
)

// StandingFrame returns a synthetic frame of a person standing upright and
// fully visible, suitable for driving calibration in tests. All analysis
// landmarks carry visibility 0.9.
func StandingFrame() *Frame {
	return SquatFrame(180)
}

// SquatFrame returns a synthetic frame whose hip-knee-ankle angle equals
// kneeAngle degrees on both sides. 180 is upright standing; smaller values
// fold the hip toward the knee as in a deepening squat.
func SquatFrame(kneeAngle float64) *Frame {
	f := &Frame{}
	rad := kneeAngle * math.Pi / 180

	// Left leg: ankle directly below the knee, hip rotated by the knee angle.
	lKnee := Landmark{X: 0.44, Y: 0.62, Visibility: 0.9}
	lAnkle := Landmark{X: lKnee.X, Y: lKnee.Y + fixtureShinLen, Visibility: 0.9}
	lHip := Landmark{
		X:          lKnee.X + fixtureThighLen*math.Sin(rad),
		Y:          lKnee.Y + fixtureThighLen*math.Cos(rad),
		Visibility: 0.9,
	}

	// Right leg folds the same way, as seen from the side, so hip and knee
	// widths stay constant as the squat deepens.
	rKnee := Landmark{X: 0.56, Y: 0.62, Visibility: 0.9}
	rAnkle := Landmark{X: rKnee.X, Y: rKnee.Y + fixtureShinLen, Visibility: 0.9}
	rHip := Landmark{
		X:          rKnee.X + fixtureThighLen*math.Sin(rad),
		Y:          rKnee.Y + fixtureThighLen*math.Cos(rad),
		Visibility: 0.9,
	}

	f.Points[LeftKnee] = lKnee
	f.Points[RightKnee] = rKnee
	f.Points[LeftAnkle] = lAnkle
	f.Points[RightAnkle] = rAnkle
	f.Points[LeftHip] = lHip
	f.Points[RightHip] = rHip

	// Torso and arms hang from the hips; only their y matters to the engine.
	f.Points[LeftShoulder] = Landmark{X: lHip.X - 0.01, Y: lHip.Y - 0.22, Visibility: 0.9}
	f.Points[RightShoulder] = Landmark{X: rHip.X + 0.01, Y: rHip.Y - 0.22, Visibility: 0.9}
	f.Points[LeftElbow] = Landmark{X: lHip.X - 0.04, Y: lHip.Y - 0.10, Visibility: 0.9}
	f.Points[RightElbow] = Landmark{X: rHip.X + 0.04, Y: rHip.Y - 0.10, Visibility: 0.9}
	f.Points[LeftWrist] = Landmark{X: lHip.X - 0.05, Y: lHip.Y + 0.02, Visibility: 0.9}
	f.Points[RightWrist] = Landmark{X: rHip.X + 0.05, Y: rHip.Y + 0.02, Visibility: 0.9}
	f.Points[Nose] = Landmark{X: 0.5, Y: lHip.Y - 0.34, Visibility: 0.9}

	return f
}

// PressFrame returns a synthetic frame whose shoulder-elbow-wrist angle
// equals elbowAngle degrees on the left side. 180 is full overhead lockout;
// smaller values bend the arm as the weight lowers.
func PressFrame(elbowAngle float64) *Frame {
	f := StandingFrame()
	rad := elbowAngle * math.Pi / 180

	elbow := Landmark{X: 0.38, Y: 0.28, Visibility: 0.9}
	shoulder := Landmark{X: elbow.X, Y: elbow.Y + fixtureArmLen, Visibility: 0.9}
	wrist := Landmark{
		X:          elbow.X + fixtureArmLen*math.Sin(rad),
		Y:          elbow.Y + fixtureArmLen*math.Cos(rad),
		Visibility: 0.9,
	}

	f.Points[LeftShoulder] = shoulder
	f.Points[LeftElbow] = elbow
	f.Points[LeftWrist] = wrist

	return f
}
