package chart

import "time"

// Animation turns wall-clock time into a monotonic progress value in [0, 1].
// Stopping it freezes progress wherever it was; any partial value renders correctly.
type Animation struct {
	start    time.Time
	duration time.Duration
	stopped  bool
	last     float64
}

// StartAnimation begins an animation at now.
func StartAnimation(now time.Time, d time.Duration) *Animation {
	return &Animation{start: now, duration: d}
}

// Progress samples the animation at now.
func (a *Animation) Progress(now time.Time) float64 {
	if a == nil {
		return 1
	}
	if a.stopped {
		return a.last
	}
	p := 1.0
	if a.duration > 0 {
		p = float64(now.Sub(a.start)) / float64(a.duration)
	}
	p = min(max(p, a.last), 1)
	a.last = p
	return p
}

// Running reports whether the animation still has progress to make at now.
func (a *Animation) Running(now time.Time) bool {
	return a != nil && !a.stopped && a.Progress(now) < 1
}

// Stop cancels future progress.
func (a *Animation) Stop() {
	if a != nil {
		a.stopped = true
	}
}
