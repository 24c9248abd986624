// Package pose provides body pose detection interfaces and types for motion analysis.
package pose

// Body landmark indices following the MediaPipe Pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftEyeInner   = 1
	LeftEye        = 2
	LeftEyeOuter   = 3
	RightEyeInner  = 4
	RightEye       = 5
	RightEyeOuter  = 6
	LeftEar        = 7
	RightEar       = 8
	MouthLeft      = 9
	MouthRight     = 10
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftElbow      = 13
	RightElbow     = 14
	LeftWrist      = 15
	RightWrist     = 16
	LeftPinky      = 17
	RightPinky     = 18
	LeftIndex      = 19
	RightIndex     = 20
	LeftThumb      = 21
	RightThumb     = 22
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumLandmarks   = 33
)

// Landmark represents a single tracked body keypoint. X and Y are normalized
// [0,1] image coordinates, Z is depth relative to the hip midpoint, and
// Visibility is the detector's confidence [0,1] that the point is correctly
// located.
type Landmark struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// Missing reports whether the landmark carries no observation at all.
// The detector fills every index, so an all-zero entry means the point
// was never produced for this frame.
func (l Landmark) Missing() bool {
	return l.X == 0 && l.Y == 0 && l.Z == 0 && l.Visibility == 0
}

// Frame represents the 33 body landmarks observed in one video frame.
type Frame struct {
	Points    [NumLandmarks]Landmark `json:"points"`
	Timestamp int64                  `json:"timestamp"`
}

// At returns the landmark at the given index, or a zero Landmark if the
// index is out of range.
func (f *Frame) At(i int) Landmark {
	if f == nil || i < 0 || i >= NumLandmarks {
		return Landmark{}
	}
	return f.Points[i]
}

// MidY returns the average y-coordinate of two landmarks, used for
// baseline posture measurements.
func (f *Frame) MidY(left, right int) float64 {
	return (f.At(left).Y + f.At(right).Y) / 2
}
