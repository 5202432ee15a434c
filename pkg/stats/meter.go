// Package stats keeps the rolling frame-rate figures shown on the status line.
package stats

import (
	"fmt"
	"strings"
	"sync"
	"time"

	mstats "github.com/montanaflynn/stats"
)

// DefaultWindow is the number of frames averaged before the overall and
// pose-estimation rates are republished.
const DefaultWindow = 15

// Snapshot is an immutable copy of the published rates.
type Snapshot struct {
	Overall        float64 `json:"overall_fps"`
	PoseEstimation float64 `json:"pose_estimation_fps"`
	Detection      float64 `json:"detection_fps"`
	Frames         uint64  `json:"frames"`
	// Published is false until the first window completes.
	Published bool `json:"published"`
}

// String formats the snapshot as the on-frame status line. The overall and
// pose figures are left out until the first window has been published.
func (s Snapshot) String() string {
	var b strings.Builder
	if s.Published {
		fmt.Fprintf(&b, "Overall: %.1f FPS, Pose Est.: %.1f FPS, ", s.Overall, s.PoseEstimation)
	}
	fmt.Fprintf(&b, "Detection: %.1f FPS", s.Detection)
	return b.String()
}

// Meter accumulates per-frame timings. Observe is called from the frame
// loop; Snapshot may be called from any goroutine.
type Meter struct {
	window int

	mu         sync.RWMutex
	rates      mstats.Float64Data
	poseFrames int
	poseTime   time.Duration
	published  Snapshot
}

// NewMeter returns a meter averaging over window frames. A non-positive
// window selects DefaultWindow.
func NewMeter(window int) *Meter {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Meter{
		window: window,
		rates:  make(mstats.Float64Data, 0, window),
	}
}

// Window returns the averaging window in frames.
func (m *Meter) Window() int {
	return m.window
}

// Observe records one frame.
//
// frameElapsed is the wall time of the whole iteration, poseElapsed the
// time spent in pose estimation, posesFound whether at least one pose came
// back and detectionLatency the last detector inference time.
func (m *Meter) Observe(frameElapsed, poseElapsed time.Duration, posesFound bool, detectionLatency time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.published.Frames++

	if frameElapsed > 0 {
		m.rates = append(m.rates, 1/frameElapsed.Seconds())
	}
	m.poseTime += poseElapsed
	if posesFound {
		m.poseFrames++
	}
	if detectionLatency > 0 {
		m.published.Detection = 1 / detectionLatency.Seconds()
	}

	if m.published.Frames%uint64(m.window) != 0 {
		return
	}

	if mean, err := mstats.Mean(m.rates); err == nil {
		m.published.Overall = mean
	} else {
		m.published.Overall = 0
	}
	if m.poseTime > 0 {
		m.published.PoseEstimation = float64(m.poseFrames) / m.poseTime.Seconds()
	} else {
		m.published.PoseEstimation = 0
	}
	m.published.Published = true

	m.rates = m.rates[:0]
	m.poseFrames = 0
	m.poseTime = 0
}

// Snapshot returns the currently published rates.
func (m *Meter) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.published
}

// String returns the status line for the current snapshot.
func (m *Meter) String() string {
	return m.Snapshot().String()
}
