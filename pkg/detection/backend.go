package detection

import "gocv.io/x/gocv"

// Tensor is a dense float32 tensor in row-major order.
type Tensor struct {
	Shape []int
	Data  []float32
}

// Rows returns the number of complete rows of the given width.
func (t Tensor) Rows(width int) int {
	if width <= 0 {
		return 0
	}
	return len(t.Data) / width
}

// ModelInfo describes the tensors of a loaded network.
type ModelInfo struct {
	Inputs  [][]int
	Outputs [][]int
}

// Backend loads a detection network onto an accelerator.
type Backend interface {
	// Load reads the network described by cfg and prepares it for inference.
	Load(cfg Config) (Handle, error)
}

// Handle is a loaded network ready for inference.
type Handle interface {
	// Info reports the input and output tensor shapes.
	Info() ModelInfo

	// Infer runs one forward pass on an NCHW blob.
	Infer(blob gocv.Mat) (Tensor, error)

	// Close releases accelerator resources.
	Close() error
}

// ValidateModelInfo checks the shapes the postprocessing depends on:
// one 4-D input with Channels channels and one 4-D output whose last
// dimension is RowSize.
func ValidateModelInfo(info ModelInfo) error {
	if len(info.Inputs) != 1 {
		return &ShapeMismatchError{Tensor: "input", Want: "exactly 1 input tensor", Got: []int{len(info.Inputs)}}
	}
	if in := info.Inputs[0]; len(in) != 4 || in[1] != Channels {
		return &ShapeMismatchError{Tensor: "input", Want: "[N 3 H W]", Got: in}
	}

	if len(info.Outputs) != 1 {
		return &ShapeMismatchError{Tensor: "output", Want: "exactly 1 output tensor", Got: []int{len(info.Outputs)}}
	}
	if out := info.Outputs[0]; len(out) != 4 || out[3] != RowSize {
		return &ShapeMismatchError{Tensor: "output", Want: "[1 1 N 7]", Got: out}
	}

	return nil
}
