package pose

import "sync"

// Mock implements Backend and Handle for testing.
type Mock struct {
	// ModelInfo is returned by Info.
	ModelInfo ModelInfo

	// LoadErr, when set, is returned by Load.
	LoadErr error

	// InvokeFunc is called when Invoke is invoked.
	InvokeFunc func(rgb []byte) (Outputs, error)

	mu      sync.Mutex
	invokes int
	lastLen int
	closed  bool
}

// NewMock creates a mock for a 641x481 PoseNet that returns no poses.
func NewMock() *Mock {
	return &Mock{
		ModelInfo: ModelInfo{Width: 641, Height: 481},
		InvokeFunc: func([]byte) (Outputs, error) {
			return Outputs{}, nil
		},
	}
}

// Load returns the mock itself as the handle.
func (m *Mock) Load(Config) (Handle, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m, nil
}

// Info returns ModelInfo.
func (m *Mock) Info() ModelInfo {
	return m.ModelInfo
}

// Invoke calls InvokeFunc and records the call.
func (m *Mock) Invoke(rgb []byte) (Outputs, error) {
	m.mu.Lock()
	m.invokes++
	m.lastLen = len(rgb)
	fn := m.InvokeFunc
	m.mu.Unlock()

	if fn == nil {
		return Outputs{}, nil
	}
	return fn(rgb)
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// InvokeCount returns the number of Invoke calls.
func (m *Mock) InvokeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.invokes
}

// LastInputLen returns the byte length of the last Invoke input.
func (m *Mock) LastInputLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLen
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// SinglePose builds decoder outputs for one pose whose keypoints are all at
// (y, x) with the given score, in model input pixels.
func SinglePose(y, x, score float32) Outputs {
	out := Outputs{
		Keypoints:      make([]float32, NumJoints*2),
		KeypointScores: make([]float32, NumJoints),
		PoseScores:     []float32{score},
		Count:          1,
	}
	for j := 0; j < NumJoints; j++ {
		out.Keypoints[2*j] = y
		out.Keypoints[2*j+1] = x
		out.KeypointScores[j] = score
	}
	return out
}
