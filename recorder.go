package automation

import (
	"sync"
)

// Recorder captures a curve from a live stream of values, such as a
// parameter being moved during playback. Recording over a stretch of time
// that was already recorded replaces it.
//
// A Recorder is safe for concurrent use.
type Recorder struct {
	mu        sync.Mutex
	stroke    Stroke
	recording bool
	// samples closer in time than this to the previous one are dropped
	minInterval float64
}

// NewRecorder returns a recorder that keeps at most one sample per
// minInterval of time. A minInterval ≤ 0 keeps every sample.
func NewRecorder(minInterval float64) *Recorder {
	return &Recorder{minInterval: max(minInterval, 0)}
}

// Start discards previous samples and starts recording.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stroke.Reset()
	r.recording = true
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Record adds a sample. It reports whether the sample was kept; samples are
// dropped when not recording or when they follow the previous sample too
// closely.
func (r *Recorder) Record(t, value float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return false
	}
	p := Pt(t, value)
	if p.IsNaN() {
		return false
	}
	if last, ok := r.stroke.Last(); ok && r.minInterval > 0 {
		d := t - last.X
		if d < 0 {
			d = -d
		}
		if d < r.minInterval {
			return false
		}
	}
	r.stroke.Add(p)
	return true
}

// Points returns the samples recorded so far, in time order.
func (r *Recorder) Points() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stroke.Points()
}

// Stop ends recording and returns the samples. The samples are kept until the
// next Start.
func (r *Recorder) Stop() []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	return r.stroke.Points()
}

// Commit stops recording and writes the samples into a as linear keys (see
// [Automation.AddFromPoints]).
func (r *Recorder) Commit(a *Automation, tolerance float64) ([]KeyID, error) {
	pts := r.Stop()
	return a.AddFromPoints(pts, tolerance)
}
