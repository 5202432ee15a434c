package detection

import (
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/teslashibe/go-posefuse/internal/log"
	"gocv.io/x/gocv"
)

// Detector wraps a loaded detection network together with its
// preprocessing and postprocessing.
type Detector struct {
	handle    Handle
	config    Config
	inputSize image.Point
	logger    *slog.Logger

	mu          sync.Mutex
	lastLatency time.Duration
	closed      bool
}

// New loads the network through backend and validates its tensor shapes.
func New(backend Backend, cfg Config, logger *slog.Logger) (*Detector, error) {
	logger = log.OrDiscard(logger).With("component", "detector")

	logger.Info("loading detection network", "graph", cfg.GraphPath, "device", cfg.Device)
	handle, err := backend.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.GraphPath, err)
	}

	info := handle.Info()
	if err := ValidateModelInfo(info); err != nil {
		handle.Close()
		return nil, err
	}

	// Input shape is [N C H W].
	in := info.Inputs[0]
	d := &Detector{
		handle:    handle,
		config:    cfg,
		inputSize: image.Pt(in[3], in[2]),
		logger:    logger,
	}

	logger.Info("detection network loaded",
		"input", in, "output", info.Outputs[0],
		"threshold", cfg.Threshold, "person_label", cfg.PersonLabel)
	return d, nil
}

// Detect runs one forward pass on frame and returns the detections above
// the configured threshold.
func (d *Detector) Detect(frame gocv.Mat) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return Result{}, ErrClosed
	}
	if frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	// Resize to the network input, HWC -> NCHW, batch of one.
	blob := gocv.BlobFromImage(frame, 1.0, d.inputSize, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	start := time.Now()
	out, err := d.handle.Infer(blob)
	latency := time.Since(start)
	if err != nil {
		return Result{}, fmt.Errorf("detection: infer: %w", err)
	}
	d.lastLatency = latency

	res := Postprocess(out, frame.Cols(), frame.Rows(), d.config.Threshold, d.config.PersonLabel)
	res.Latency = latency

	d.logger.Debug("detections",
		"count", len(res.Detections), "persons", len(res.Persons), "latency", latency)
	return res, nil
}

// LastLatency returns the inference time of the most recent Detect call.
func (d *Detector) LastLatency() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastLatency
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.config
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	return d.handle.Close()
}
