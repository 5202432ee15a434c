// Package pose runs the pose-estimation accelerator and exposes its output
// as named keypoints.
package pose

// Joint names in PoseNet output order.
const (
	Nose          = "nose"
	LeftEye       = "left eye"
	RightEye      = "right eye"
	LeftEar       = "left ear"
	RightEar      = "right ear"
	LeftShoulder  = "left shoulder"
	RightShoulder = "right shoulder"
	LeftElbow     = "left elbow"
	RightElbow    = "right elbow"
	LeftWrist     = "left wrist"
	RightWrist    = "right wrist"
	LeftHip       = "left hip"
	RightHip      = "right hip"
	LeftKnee      = "left knee"
	RightKnee     = "right knee"
	LeftAnkle     = "left ankle"
	RightAnkle    = "right ankle"
)

// Joints is the joint vocabulary, indexed as in the model output.
var Joints = [...]string{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist,
	LeftHip, RightHip, LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

// NumJoints is the number of keypoints per pose.
const NumJoints = len(Joints)

// Edge connects two anatomically adjacent joints.
type Edge struct {
	A, B string
}

// Edges is the skeleton drawn between confident keypoints.
var Edges = [...]Edge{
	{Nose, LeftEye},
	{Nose, RightEye},
	{Nose, LeftEar},
	{Nose, RightEar},
	{LeftEar, LeftEye},
	{RightEar, RightEye},
	{LeftEye, RightEye},
	{LeftShoulder, RightShoulder},
	{LeftShoulder, LeftElbow},
	{LeftShoulder, LeftHip},
	{RightShoulder, RightElbow},
	{RightShoulder, RightHip},
	{LeftElbow, LeftWrist},
	{RightElbow, RightWrist},
	{LeftHip, RightHip},
	{LeftHip, LeftKnee},
	{RightHip, RightKnee},
	{LeftKnee, LeftAnkle},
	{RightKnee, RightAnkle},
}

// IsJoint reports whether name belongs to the joint vocabulary.
func IsJoint(name string) bool {
	for _, j := range Joints {
		if j == name {
			return true
		}
	}
	return false
}

// Keypoint is one joint location.
type Keypoint struct {
	Name  string
	Y, X  float32 // Row and column in frame pixels
	Score float32
}

// Pose is one detected person, keyed by joint name.
type Pose struct {
	Score     float32
	Keypoints map[string]Keypoint
}
