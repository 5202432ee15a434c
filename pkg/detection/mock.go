package detection

import (
	"sync"

	"gocv.io/x/gocv"
)

// Mock implements Backend and Handle for testing.
type Mock struct {
	// ModelInfo is returned by Info. NewMock fills in MobileNet-SSD shapes.
	ModelInfo ModelInfo

	// LoadErr, when set, is returned by Load.
	LoadErr error

	// InferFunc is called when Infer is invoked.
	InferFunc func(blob gocv.Mat) (Tensor, error)

	mu        sync.Mutex
	loads     int
	infers    int
	closed    bool
	blobShape []int
}

// NewMock creates a mock that always returns the given rows.
func NewMock(rows ...[]float32) *Mock {
	out := RowsTensor(rows...)
	return &Mock{
		ModelInfo: ModelInfo{
			Inputs:  [][]int{{1, Channels, DefaultInputSize, DefaultInputSize}},
			Outputs: [][]int{{1, 1, 100, RowSize}},
		},
		InferFunc: func(gocv.Mat) (Tensor, error) {
			return out, nil
		},
	}
}

// RowsTensor packs detection rows into a [1 1 N 7] tensor.
func RowsTensor(rows ...[]float32) Tensor {
	data := make([]float32, 0, len(rows)*RowSize)
	for _, r := range rows {
		data = append(data, r...)
	}
	return Tensor{Shape: []int{1, 1, len(rows), RowSize}, Data: data}
}

// Load returns the mock itself as the handle.
func (m *Mock) Load(Config) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m, nil
}

// Info returns ModelInfo.
func (m *Mock) Info() ModelInfo {
	return m.ModelInfo
}

// Infer calls InferFunc and records the blob shape.
func (m *Mock) Infer(blob gocv.Mat) (Tensor, error) {
	m.mu.Lock()
	m.infers++
	m.blobShape = blob.Size()
	fn := m.InferFunc
	m.mu.Unlock()

	if fn == nil {
		return Tensor{}, nil
	}
	return fn(blob)
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// InferCount returns the number of Infer calls.
func (m *Mock) InferCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.infers
}

// BlobShape returns the shape of the last blob passed to Infer.
func (m *Mock) BlobShape() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blobShape
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
