// Package engine implements the real-time motion-analysis core: calibration,
// joint kinematics, repetition state machines, form-fault detection, tempo
// tracking, scoring and user feedback, driven by one pose frame at a time.
package engine

import (
	"math"

	"github.com/arvidsson/formcoach/internal/pose"
)

// JointAngle returns the unsigned interior angle in degrees at joint vertex b,
// formed by the segments b-a (proximal) and b-c (distal), in the range
// [0,180]. The angle is computed in the image plane; z is ignored.
// Returns 0 if any of the three points is missing from the frame.
func JointAngle(a, b, c pose.Landmark) float64 {
	if a.Missing() || b.Missing() || c.Missing() {
		return 0
	}

	angle := math.Abs(math.Atan2(c.Y-b.Y, c.X-b.X)-math.Atan2(a.Y-b.Y, a.X-b.X)) * 180 / math.Pi
	if angle > 180 {
		angle = 360 - angle
	}
	return angle
}
