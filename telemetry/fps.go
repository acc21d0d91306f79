package telemetry

import "time"

// FPSCounter averages frame rate over the last N frame durations.
type FPSCounter struct {
	samples []time.Duration
	next    int
	count   int
	sum     time.Duration
}

// NewFPSCounter creates a counter averaging over n frames.
func NewFPSCounter(n int) *FPSCounter {
	if n < 1 {
		n = 100
	}
	return &FPSCounter{samples: make([]time.Duration, n)}
}

// Add records one frame duration. Non-positive durations are ignored.
func (f *FPSCounter) Add(frame time.Duration) {
	if frame <= 0 {
		return
	}
	f.sum -= f.samples[f.next]
	f.samples[f.next] = frame
	f.sum += frame
	f.next = (f.next + 1) % len(f.samples)
	if f.count < len(f.samples) {
		f.count++
	}
}

// FPS returns the averaged frame rate, or 0 before the first frame.
func (f *FPSCounter) FPS() float64 {
	if f.count == 0 || f.sum <= 0 {
		return 0
	}
	return float64(f.count) * float64(time.Second) / float64(f.sum)
}

// FrameTime returns the averaged frame duration.
func (f *FPSCounter) FrameTime() time.Duration {
	if f.count == 0 {
		return 0
	}
	return f.sum / time.Duration(f.count)
}

// Reset drops all samples.
func (f *FPSCounter) Reset() {
	clear(f.samples)
	f.next, f.count, f.sum = 0, 0, 0
}
