package detection

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrModelNotFound is returned when the graph or weights file is missing.
	ErrModelNotFound = errors.New("detection: model file not found")

	// ErrEmptyNet is returned when the backend could not build a network.
	ErrEmptyNet = errors.New("detection: failed to load network")

	// ErrEmptyFrame is returned when Detect is given an empty frame.
	ErrEmptyFrame = errors.New("detection: empty frame")

	// ErrClosed is returned when the detector is used after Close.
	ErrClosed = errors.New("detection: detector closed")
)

// ShapeMismatchError is returned at load time when the network's tensors
// do not match the layout the postprocessing relies on.
type ShapeMismatchError struct {
	// Tensor identifies the offending tensor ("input" or "output").
	Tensor string

	// Want describes the expected shape.
	Want string

	// Got is the shape reported by the model.
	Got []int
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("detection: %s shape mismatch: want %s, got %v", e.Tensor, e.Want, e.Got)
}
