package pose

import "errors"

// Sentinel errors for common conditions.
var (
	// ErrNoEdgeTPU is returned when no unassigned Edge TPU is attached.
	ErrNoEdgeTPU = errors.New("pose: no Edge TPU device found")

	// ErrModelNotFound is returned when the model file is missing.
	ErrModelNotFound = errors.New("pose: model file not found")

	// ErrUnexpectedOutputs is returned when the model is not a PoseNet
	// decoder graph with four output tensors.
	ErrUnexpectedOutputs = errors.New("pose: unexpected model outputs")

	// ErrEmptyFrame is returned when DetectPoses is given an empty frame.
	ErrEmptyFrame = errors.New("pose: empty frame")
)
