// Package overlay draws detections, keypoints and skeletons onto frames.
package overlay

import (
	"fmt"
	"image"
	"strings"

	"github.com/teslashibe/go-posefuse/pkg/detection"
	"github.com/teslashibe/go-posefuse/pkg/pose"
)

// DefaultKeypointThreshold is the minimum keypoint score that gets drawn.
const DefaultKeypointThreshold = 0.4

// Mode selects which poses are drawn.
type Mode string

const (
	// Multi draws every confident keypoint of every pose.
	Multi Mode = "multi"
	// Single draws only keypoints inside the main actor's box.
	Single Mode = "single"
)

// ParseMode parses a mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Multi, "":
		return Multi, nil
	case Single:
		return Single, nil
	default:
		return "", fmt.Errorf("overlay: unknown mode %q (want multi or single)", s)
	}
}

// Marker is a keypoint to draw.
type Marker struct {
	Name string
	At   image.Point
}

// Segment is a skeleton edge to draw.
type Segment struct {
	Edge     pose.Edge
	From, To image.Point
}

// Scene is everything Render will draw for a set of poses.
type Scene struct {
	Markers  []Marker
	Segments []Segment
}

// Plan decides which keypoints and edges to draw.
//
// A keypoint is a candidate when its score is at least threshold. In Multi
// mode every candidate is drawn; in Single mode only candidates strictly
// inside main. An edge is drawn when both endpoints are candidates and, in
// Single mode, both lie strictly inside main.
func Plan(poses []pose.Pose, main detection.Box, mode Mode, threshold float32) Scene {
	var scene Scene

	for _, p := range poses {
		candidates := make(map[string]pose.Keypoint, len(p.Keypoints))

		// Walk joints in vocabulary order so output is deterministic.
		for _, name := range pose.Joints {
			kp, ok := p.Keypoints[name]
			if !ok || kp.Score < threshold {
				continue
			}
			candidates[name] = kp

			if mode == Single && !inside(main, kp) {
				continue
			}
			scene.Markers = append(scene.Markers, Marker{Name: name, At: point(kp)})
		}

		for _, e := range pose.Edges {
			a, okA := candidates[e.A]
			b, okB := candidates[e.B]
			if !okA || !okB {
				continue
			}
			if mode == Single && !(inside(main, a) && inside(main, b)) {
				continue
			}
			scene.Segments = append(scene.Segments, Segment{Edge: e, From: point(a), To: point(b)})
		}
	}

	return scene
}

func inside(b detection.Box, kp pose.Keypoint) bool {
	return b.ContainsStrict(float64(kp.X), float64(kp.Y))
}

func point(kp pose.Keypoint) image.Point {
	return image.Pt(int(kp.X), int(kp.Y))
}
