package engine

import "github.com/arvidsson/formcoach/internal/pose"

// Tempo tracking tuning.
const (
	// historySize is the number of recent frames kept for velocity and
	// stability checks.
	historySize = 15
	// velocityScale converts the per-frame hip displacement to the value
	// shown on the tempo gauge.
	velocityScale = 100
	// fastVelocity is the gauge value beyond which movement is flagged
	// as fast.
	fastVelocity = 2.0
)

// frameHistory is a bounded FIFO ring of recent pose frames. Index 0 is the
// most recent frame.
type frameHistory struct {
	frames []*pose.Frame
}

// push appends a frame, evicting the oldest once capacity is reached.
func (h *frameHistory) push(f *pose.Frame) {
	if len(h.frames) >= historySize {
		copy(h.frames, h.frames[1:])
		h.frames = h.frames[:historySize-1]
	}
	h.frames = append(h.frames, f)
}

// back returns the frame n positions before the most recent one, or nil if
// the history is not deep enough.
func (h *frameHistory) back(n int) *pose.Frame {
	idx := len(h.frames) - 1 - n
	if idx < 0 {
		return nil
	}
	return h.frames[idx]
}

func (h *frameHistory) len() int {
	return len(h.frames)
}

// velocity returns the scaled vertical velocity of the left hip between the
// two most recent frames. Positive values move down the image. Returns 0
// until two frames have been observed.
func (h *frameHistory) velocity() float64 {
	current := h.back(0)
	previous := h.back(1)
	if current == nil || previous == nil {
		return 0
	}
	return (current.At(pose.LeftHip).Y - previous.At(pose.LeftHip).Y) * velocityScale
}
