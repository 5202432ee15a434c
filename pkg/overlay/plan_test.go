package overlay

import (
	"testing"

	"github.com/teslashibe/go-posefuse/pkg/detection"
	"github.com/teslashibe/go-posefuse/pkg/pose"
)

// makePose builds a pose from name -> (x, y, score).
func makePose(kps map[string][3]float32) pose.Pose {
	p := pose.Pose{Score: 1, Keypoints: make(map[string]pose.Keypoint)}
	for name, v := range kps {
		p.Keypoints[name] = pose.Keypoint{Name: name, X: v[0], Y: v[1], Score: v[2]}
	}
	return p
}

func markerNames(s Scene) map[string]bool {
	out := make(map[string]bool)
	for _, m := range s.Markers {
		out[m.Name] = true
	}
	return out
}

func hasEdge(s Scene, a, b string) bool {
	for _, seg := range s.Segments {
		if seg.Edge.A == a && seg.Edge.B == b {
			return true
		}
	}
	return false
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		ok   bool
	}{
		{"multi", Multi, true},
		{"Multi", Multi, true},
		{"", Multi, true},
		{"single", Single, true},
		{"SINGLE", Single, true},
		{"both", "", false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseMode(tc.in)
			if (err == nil) != tc.ok {
				t.Fatalf("ParseMode(%q) error = %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlan_Threshold(t *testing.T) {
	// The left eye sits exactly on the threshold; the right eye is just below.
	p := makePose(map[string][3]float32{
		pose.Nose:     {100, 100, 0.9},
		pose.LeftEye:  {110, 90, 0.4},
		pose.RightEye: {90, 90, 0.39},
	})

	scene := Plan([]pose.Pose{p}, detection.Box{}, Multi, 0.4)
	names := markerNames(scene)

	if !names[pose.Nose] || !names[pose.LeftEye] {
		t.Errorf("confident keypoints missing: %v", names)
	}
	if names[pose.RightEye] {
		t.Error("right eye below threshold should not be drawn")
	}
}

func TestPlan_EdgesNeedBothEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		nose, eye  float32
		expectEdge bool
	}{
		{"both pass", 0.9, 0.8, true},
		{"first fails", 0.1, 0.8, false},
		{"second fails", 0.9, 0.1, false},
		{"both fail", 0.1, 0.1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := makePose(map[string][3]float32{
				pose.Nose:    {100, 100, tc.nose},
				pose.LeftEye: {110, 90, tc.eye},
			})
			scene := Plan([]pose.Pose{p}, detection.Box{}, Multi, 0.4)
			if got := hasEdge(scene, pose.Nose, pose.LeftEye); got != tc.expectEdge {
				t.Errorf("edge drawn = %v, want %v", got, tc.expectEdge)
			}
		})
	}
}

func TestPlan_EdgeIndependentOfMapOrder(t *testing.T) {
	// Ear and eye pair is listed as (left ear, left eye); the ear comes
	// after the eye in joint order.
	p := makePose(map[string][3]float32{
		pose.LeftEar: {120, 90, 0.9},
		pose.LeftEye: {110, 90, 0.9},
	})

	for i := 0; i < 20; i++ {
		scene := Plan([]pose.Pose{p}, detection.Box{}, Multi, 0.4)
		if !hasEdge(scene, pose.LeftEar, pose.LeftEye) {
			t.Fatal("left ear - left eye edge missing")
		}
	}
}

func TestPlan_SingleModeStrictBox(t *testing.T) {
	box := detection.Box{X: 100, Y: 100, W: 100, H: 100}

	p := makePose(map[string][3]float32{
		pose.Nose:          {150, 150, 0.9}, // inside
		pose.LeftEye:       {160, 140, 0.9}, // inside
		pose.RightEye:      {100, 150, 0.9}, // on left edge
		pose.LeftEar:       {200, 150, 0.9}, // on right edge
		pose.RightEar:      {150, 100, 0.9}, // on top edge
		pose.LeftShoulder:  {150, 200, 0.9}, // on bottom edge
		pose.RightShoulder: {300, 300, 0.9}, // outside
	})

	scene := Plan([]pose.Pose{p}, box, Single, 0.4)
	names := markerNames(scene)

	if !names[pose.Nose] || !names[pose.LeftEye] {
		t.Errorf("inside keypoints missing: %v", names)
	}
	for _, n := range []string{pose.RightEye, pose.LeftEar, pose.RightEar, pose.LeftShoulder, pose.RightShoulder} {
		if names[n] {
			t.Errorf("%s is not strictly inside and must not be drawn", n)
		}
	}

	if !hasEdge(scene, pose.Nose, pose.LeftEye) {
		t.Error("edge with both endpoints inside should be drawn")
	}
	if hasEdge(scene, pose.Nose, pose.RightEye) {
		t.Error("edge touching the boundary should not be drawn")
	}
	if hasEdge(scene, pose.LeftShoulder, pose.RightShoulder) {
		t.Error("edge with endpoints outside should not be drawn")
	}
}

func TestPlan_SingleModeZeroBox(t *testing.T) {
	p := makePose(map[string][3]float32{
		pose.Nose:    {0, 0, 0.9},
		pose.LeftEye: {10, 10, 0.9},
	})

	scene := Plan([]pose.Pose{p}, detection.Box{}, Single, 0.4)
	if len(scene.Markers) != 0 || len(scene.Segments) != 0 {
		t.Errorf("zero main-actor box should suppress everything, got %+v", scene)
	}
}

func TestPlan_MultiIgnoresBox(t *testing.T) {
	box := detection.Box{X: 0, Y: 0, W: 10, H: 10}
	p := makePose(map[string][3]float32{
		pose.LeftHip:  {300, 300, 0.9},
		pose.RightHip: {340, 300, 0.9},
	})

	scene := Plan([]pose.Pose{p}, box, Multi, 0.4)
	if len(scene.Markers) != 2 {
		t.Errorf("Markers: got %d, want 2", len(scene.Markers))
	}
	if !hasEdge(scene, pose.LeftHip, pose.RightHip) {
		t.Error("hip edge missing in multi mode")
	}
}

func TestPlan_FullSkeleton(t *testing.T) {
	kps := make(map[string][3]float32)
	for i, name := range pose.Joints {
		kps[name] = [3]float32{float32(10 + i), float32(20 + i), 0.9}
	}

	scene := Plan([]pose.Pose{makePose(kps), makePose(kps)}, detection.Box{}, Multi, 0.4)
	if len(scene.Markers) != 2*pose.NumJoints {
		t.Errorf("Markers: got %d, want %d", len(scene.Markers), 2*pose.NumJoints)
	}
	if len(scene.Segments) != 2*len(pose.Edges) {
		t.Errorf("Segments: got %d, want %d", len(scene.Segments), 2*len(pose.Edges))
	}
}
