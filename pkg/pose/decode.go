package pose

// Outputs are the four tensors produced by the PoseNet decoder op.
type Outputs struct {
	Keypoints      []float32 // [1, N, 17, 2] as (y, x) in model input pixels
	KeypointScores []float32 // [1, N, 17]
	PoseScores     []float32 // [1, N]
	Count          int       // Number of valid poses
}

// Decode turns decoder outputs into poses in frame coordinates. scaleY and
// scaleX map model input pixels onto the frame. Poses scoring below
// minScore are dropped.
func Decode(out Outputs, scaleY, scaleX, minScore float32) []Pose {
	n := min(out.Count,
		len(out.PoseScores),
		len(out.KeypointScores)/NumJoints,
		len(out.Keypoints)/(NumJoints*2))
	if n < 0 {
		n = 0
	}

	poses := make([]Pose, 0, n)
	for i := 0; i < n; i++ {
		score := out.PoseScores[i]
		if score < minScore {
			continue
		}

		p := Pose{
			Score:     score,
			Keypoints: make(map[string]Keypoint, NumJoints),
		}
		for j, name := range Joints {
			k := i*NumJoints + j
			p.Keypoints[name] = Keypoint{
				Name:  name,
				Y:     out.Keypoints[2*k] * scaleY,
				X:     out.Keypoints[2*k+1] * scaleX,
				Score: out.KeypointScores[k],
			}
		}
		poses = append(poses, p)
	}

	return poses
}
