// Package detection runs the object-detection accelerator and turns its raw
// output tensor into pixel-space boxes.
package detection

import (
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultThreshold   = 0.60
	DefaultPersonLabel = 1
	DefaultDevice      = "MYRIAD"
	DefaultInputSize   = 300

	// RowSize is the width of one detection row:
	// [batch_idx, label_id, score, xmin, ymin, xmax, ymax]
	RowSize = 7
	// Channels is the number of colour channels the network expects.
	Channels = 3
)

// Box is an axis-aligned rectangle in frame pixel coordinates.
type Box struct {
	X, Y int // Top-left corner
	W, H int // Width and height
}

// Area returns the area of the box.
func (b Box) Area() int {
	return b.W * b.H
}

// Empty reports whether the box has no area.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

// ContainsStrict reports whether (x, y) lies strictly inside the box.
// Points on the boundary are outside.
func (b Box) ContainsStrict(x, y float64) bool {
	return x > float64(b.X) && x < float64(b.X+b.W) &&
		y > float64(b.Y) && y < float64(b.Y+b.H)
}

// Detection is one object found in a frame.
type Detection struct {
	Box   Box
	Label int     // Class label id
	Score float32 // Confidence in [0,1]
}

// Result holds everything one detection pass produced. Boxes, labels and
// scores travel together in Detections so they always line up.
type Result struct {
	Detections []Detection
	Persons    []Detection // Subset of Detections whose Label is the person label
	Latency    time.Duration
}

// Config holds detector configuration.
type Config struct {
	GraphPath   string  // OpenVINO IR topology (.xml)
	WeightsPath string  // IR weights (.bin); derived from GraphPath when empty
	Device      string  // CPU, GPU or MYRIAD
	PersonLabel int     // Class id treated as "person"
	Threshold   float64 // Keep rows with score strictly above this
	InputWidth  int     // Network input width
	InputHeight int     // Network input height
}

// DefaultConfig returns production defaults for MobileNet-SSD on a Myriad VPU.
func DefaultConfig() Config {
	return Config{
		GraphPath:   "mobilenet-ssd.xml",
		Device:      DefaultDevice,
		PersonLabel: DefaultPersonLabel,
		Threshold:   DefaultThreshold,
		InputWidth:  DefaultInputSize,
		InputHeight: DefaultInputSize,
	}
}

// Weights returns the weights path, deriving <graph>.bin when unset.
func (c Config) Weights() string {
	if c.WeightsPath != "" {
		return c.WeightsPath
	}
	return strings.TrimSuffix(c.GraphPath, filepath.Ext(c.GraphPath)) + ".bin"
}

// SelectMainActor picks the person with the largest box area.
// The first box wins a tie. With no candidates it returns the zero Box,
// which contains no point.
func SelectMainActor(persons []Detection) Box {
	var best Box
	bestArea := -1

	for _, p := range persons {
		if a := p.Box.Area(); a > bestArea {
			bestArea = a
			best = p.Box
		}
	}

	return best
}
