package pose

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-posefuse/internal/log"
	"gocv.io/x/gocv"
)

// Default configuration values.
const (
	DefaultModelPath = "models/posenet_mobilenet_v1_075_481_641_quant_decoder_edgetpu.tflite"
)

// Config holds pose estimator configuration.
type Config struct {
	ModelPath string  // Edge TPU compiled PoseNet decoder model
	MinScore  float32 // Drop poses scoring below this
}

// DefaultConfig returns production defaults for PoseNet on a Coral Edge TPU.
func DefaultConfig() Config {
	return Config{
		ModelPath: DefaultModelPath,
	}
}

// ModelInfo describes the model input.
type ModelInfo struct {
	Width, Height int
}

// Backend loads a pose model onto an accelerator.
type Backend interface {
	Load(cfg Config) (Handle, error)
}

// Handle is a loaded pose model.
type Handle interface {
	// Info reports the model input size.
	Info() ModelInfo

	// Invoke runs the model on a packed RGB image of Info's size.
	Invoke(rgb []byte) (Outputs, error)

	// Close releases accelerator resources.
	Close() error
}

// Estimator finds human poses in frames.
type Estimator struct {
	handle Handle
	config Config
	info   ModelInfo
	logger *slog.Logger

	mu      sync.Mutex
	resized gocv.Mat
	rgb     gocv.Mat
}

// New loads the pose model through backend.
func New(backend Backend, cfg Config, logger *slog.Logger) (*Estimator, error) {
	logger = log.OrDiscard(logger).With("component", "pose")

	logger.Info("loading pose model", "model", cfg.ModelPath)
	handle, err := backend.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.ModelPath, err)
	}

	info := handle.Info()
	if info.Width <= 0 || info.Height <= 0 {
		handle.Close()
		return nil, fmt.Errorf("pose: invalid model input %dx%d", info.Width, info.Height)
	}

	logger.Info("pose model loaded", "input_width", info.Width, "input_height", info.Height)
	return &Estimator{
		handle:  handle,
		config:  cfg,
		info:    info,
		logger:  logger,
		resized: gocv.NewMat(),
		rgb:     gocv.NewMat(),
	}, nil
}

// DetectPoses estimates poses in a BGR frame. Keypoints are returned in
// frame coordinates together with the model inference time.
func (e *Estimator) DetectPoses(frame gocv.Mat) ([]Pose, time.Duration, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if frame.Empty() {
		return nil, 0, ErrEmptyFrame
	}

	if err := gocv.Resize(frame, &e.resized, image.Pt(e.info.Width, e.info.Height), 0, 0, gocv.InterpolationLinear); err != nil {
		return nil, 0, fmt.Errorf("pose: resize: %w", err)
	}
	if err := gocv.CvtColor(e.resized, &e.rgb, gocv.ColorBGRToRGB); err != nil {
		return nil, 0, fmt.Errorf("pose: convert: %w", err)
	}

	start := time.Now()
	out, err := e.handle.Invoke(e.rgb.ToBytes())
	elapsed := time.Since(start)
	if err != nil {
		return nil, elapsed, fmt.Errorf("pose: invoke: %w", err)
	}

	scaleY := float32(frame.Rows()) / float32(e.info.Height)
	scaleX := float32(frame.Cols()) / float32(e.info.Width)
	poses := Decode(out, scaleY, scaleX, e.config.MinScore)

	e.logger.Debug("poses", "count", len(poses), "latency", elapsed)
	return poses, elapsed, nil
}

// Info returns the model input size.
func (e *Estimator) Info() ModelInfo {
	return e.info
}

// Close releases the model and scratch buffers.
func (e *Estimator) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resized.Close()
	e.rgb.Close()
	return e.handle.Close()
}
