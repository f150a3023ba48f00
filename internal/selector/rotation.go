package selector

import "time"

const (
	// SpinDuration is how long every spin animates.
	SpinDuration = 3000 * time.Millisecond
	// MinTurns full rotations happen before the wheel settles.
	MinTurns = 5
)

// EaseOutCubic maps linear progress to 1 - (1-p)^3.
func EaseOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// TargetRotation is where the wheel stops, in degrees, when the winner sits
// at position in a pool of size.
func TargetRotation(current float64, position, size int) float64 {
	return current + MinTurns*360 + (360 - float64(position)/float64(size)*360)
}

// Animation moves the wheel from From to To degrees over Duration.
type Animation struct {
	From     float64
	To       float64
	Start    time.Time
	Duration time.Duration
}

// Progress is wall-clock elapsed time over Duration, clamped to [0, 1].
func (a Animation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	p := float64(now.Sub(a.Start)) / float64(a.Duration)
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

// Rotation is the eased angle at now.
func (a Animation) Rotation(now time.Time) float64 {
	p := a.Progress(now)
	if p >= 1 {
		return a.To
	}
	return a.From + (a.To-a.From)*EaseOutCubic(p)
}

// Done reports whether the full duration has elapsed.
func (a Animation) Done(now time.Time) bool { return a.Progress(now) >= 1 }
