package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/teslashibe/go-posefuse/internal/log"
	"github.com/teslashibe/go-posefuse/pkg/detection"
	"github.com/teslashibe/go-posefuse/pkg/frame"
	"github.com/teslashibe/go-posefuse/pkg/labels"
	"github.com/teslashibe/go-posefuse/pkg/overlay"
	"github.com/teslashibe/go-posefuse/pkg/pipeline"
	"github.com/teslashibe/go-posefuse/pkg/pose"
	"github.com/teslashibe/go-posefuse/pkg/stats"
	"github.com/teslashibe/go-posefuse/pkg/web"
)

// SourceOpener opens the frame source. frame.Open is the default.
type SourceOpener func(inputs []string, opts frame.Options, logger *slog.Logger) (frame.Source, error)

// DisplayOpener opens the on-screen sink for a source with the given
// WaitKey delay.
type DisplayOpener func(delay int) pipeline.Sink

// Option customises an App, mostly to swap hardware for fakes in tests.
type Option func(*App)

// WithDetectionBackend replaces the OpenVINO backend.
func WithDetectionBackend(b detection.Backend) Option {
	return func(a *App) { a.detBackend = b }
}

// WithPoseBackend replaces the Edge TPU backend.
func WithPoseBackend(b pose.Backend) Option {
	return func(a *App) { a.poseBackend = b }
}

// WithSourceOpener replaces frame.Open.
func WithSourceOpener(open SourceOpener) Option {
	return func(a *App) { a.openSource = open }
}

// WithDisplay replaces the OpenCV window.
func WithDisplay(open DisplayOpener) Option {
	return func(a *App) { a.openDisplay = open }
}

// App owns every component of a run and their lifecycle.
type App struct {
	config Config
	runID  string
	logger *slog.Logger

	detBackend  detection.Backend
	poseBackend pose.Backend
	openSource  SourceOpener
	openDisplay DisplayOpener

	detector  *detection.Detector
	estimator *pose.Estimator
	source    frame.Source
	sink      pipeline.Sink
	preview   *web.Server
	meter     *stats.Meter
	pipeline  *pipeline.Pipeline
}

// New validates cfg and prepares an App. Nothing is loaded until Init.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	a := &App{
		config:     cfg,
		runID:      runID,
		logger:     log.OrDiscard(logger).With("run_id", runID),
		detBackend: detection.OpenVINOBackend{},
		openSource: frame.Open,
		openDisplay: func(delay int) pipeline.Sink {
			return pipeline.NewWindowSink(pipeline.DefaultWindowName, delay)
		},
	}
	a.poseBackend = pose.EdgeTPUBackend{Logger: a.logger}

	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// RunID identifies this run in logs and the preview API.
func (a *App) RunID() string {
	return a.runID
}

// Meter returns the frame-rate meter, nil before Init.
func (a *App) Meter() *stats.Meter {
	return a.meter
}

// Init loads labels, both models and the input, and opens the sinks.
// On failure everything opened so far is released.
func (a *App) Init() (err error) {
	defer func() {
		if err != nil {
			a.Shutdown()
		}
	}()

	cfg := a.config
	a.logger.Info("starting",
		"model_od", cfg.DetectorGraph,
		"model_hpe", cfg.PoseModel,
		"device", cfg.Device,
		"modality", cfg.Modality,
		"inputs", cfg.Inputs)

	cat, err := labels.ForGraph(cfg.DetectorGraph, cfg.LabelFile)
	if err != nil {
		return fmt.Errorf("labels: %w", err)
	}
	mode, err := overlay.ParseMode(cfg.Modality)
	if err != nil {
		return &ConfigError{Field: "Modality", Message: err.Error()}
	}

	a.estimator, err = pose.New(a.poseBackend, pose.Config{
		ModelPath: cfg.PoseModel,
		MinScore:  float32(cfg.PoseMinScore),
	}, a.logger)
	if err != nil {
		return fmt.Errorf("pose estimator: %w", err)
	}

	a.detector, err = detection.New(a.detBackend, detection.Config{
		GraphPath:   cfg.DetectorGraph,
		Device:      cfg.Device,
		PersonLabel: cfg.PersonLabel,
		Threshold:   cfg.Threshold,
		InputWidth:  cfg.DetectorWidth,
		InputHeight: cfg.DetectorHeight,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("detector: %w", err)
	}

	a.source, err = a.openSource(cfg.Inputs, frame.Options{
		CaptureWidth:  cfg.CaptureWidth,
		CaptureHeight: cfg.CaptureHeight,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}

	a.meter = stats.NewMeter(cfg.FPSWindow)

	var sinks pipeline.MultiSink
	if cfg.NoShow {
		sinks = append(sinks, pipeline.NewLogSink(a.logger))
	} else {
		sinks = append(sinks, a.openDisplay(a.source.Delay()))
	}
	if cfg.PreviewAddr != "" {
		a.preview = web.NewServer(cfg.PreviewAddr, a.runID, a.meter, a.logger)
		a.preview.StartAsync()
		sinks = append(sinks, pipeline.NewPreviewSink(a.preview.Frames()))
	}
	a.sink = sinks

	renderer := overlay.NewRenderer(mode, cat)
	renderer.Threshold = float32(cfg.KeypointThreshold)

	a.pipeline = pipeline.New(a.source, a.detector, a.estimator, renderer, a.sink, a.meter, a.logger)
	return nil
}

// Run processes frames until the input ends, ESC is pressed or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return fmt.Errorf("app: Run called before Init")
	}
	err := a.pipeline.Run(ctx)
	a.logger.Info("finished", "frames", a.pipeline.Frames(), "fps", a.meter.String())
	return err
}

// Shutdown releases every component. It is safe to call more than once.
func (a *App) Shutdown() error {
	var errs error
	if a.sink != nil {
		errs = multierr.Append(errs, a.sink.Close())
		a.sink = nil
	}
	if a.preview != nil {
		errs = multierr.Append(errs, a.preview.Shutdown())
		a.preview = nil
	}
	if a.source != nil {
		errs = multierr.Append(errs, a.source.Close())
		a.source = nil
	}
	if a.detector != nil {
		errs = multierr.Append(errs, a.detector.Close())
		a.detector = nil
	}
	if a.estimator != nil {
		errs = multierr.Append(errs, a.estimator.Close())
		a.estimator = nil
	}
	if errs != nil {
		a.logger.Warn("shutdown", "error", errs)
	}
	return errs
}
