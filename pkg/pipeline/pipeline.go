// Package pipeline runs the per-frame loop: read, detect, select the main
// actor, estimate poses, render, emit and account frame rates.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/teslashibe/go-posefuse/internal/log"
	"github.com/teslashibe/go-posefuse/pkg/detection"
	"github.com/teslashibe/go-posefuse/pkg/frame"
	"github.com/teslashibe/go-posefuse/pkg/overlay"
	"github.com/teslashibe/go-posefuse/pkg/pose"
	"github.com/teslashibe/go-posefuse/pkg/stats"
	"gocv.io/x/gocv"
)

// Detector finds objects in a frame.
type Detector interface {
	Detect(frame gocv.Mat) (detection.Result, error)
}

// PoseEstimator finds human poses in a frame.
type PoseEstimator interface {
	DetectPoses(frame gocv.Mat) ([]pose.Pose, time.Duration, error)
}

// Pipeline wires one source, both accelerators and a sink together.
type Pipeline struct {
	source    frame.Source
	detector  Detector
	estimator PoseEstimator
	renderer  *overlay.Renderer
	sink      Sink
	meter     *stats.Meter
	logger    *slog.Logger

	frames uint64
}

// New builds a pipeline. meter may be nil, in which case a default
// 15-frame meter is used.
func New(src frame.Source, det Detector, est PoseEstimator, r *overlay.Renderer, sink Sink, meter *stats.Meter, logger *slog.Logger) *Pipeline {
	if meter == nil {
		meter = stats.NewMeter(stats.DefaultWindow)
	}
	return &Pipeline{
		source:    src,
		detector:  det,
		estimator: est,
		renderer:  r,
		sink:      sink,
		meter:     meter,
		logger:    log.OrDiscard(logger).With("component", "pipeline"),
	}
}

// Meter returns the frame-rate meter fed by Run.
func (p *Pipeline) Meter() *stats.Meter {
	return p.meter
}

// Frames returns the number of frames emitted so far.
func (p *Pipeline) Frames() uint64 {
	return p.frames
}

// Run processes frames until the source is exhausted, a sink asks to stop
// or ctx is cancelled, all of which return nil. Any source, inference,
// render or sink error ends the loop and is returned.
//
// Cancellation is only observed between frames.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("frame loop started")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("frame loop cancelled", "frames", p.frames)
			return nil
		default:
		}

		img, err := p.source.Next()
		if errors.Is(err, io.EOF) {
			p.logger.Info("input exhausted", "frames", p.frames)
			return nil
		}
		if err != nil {
			return fmt.Errorf("read frame: %w", err)
		}

		stop, err := p.step(img)
		img.Close()
		if err != nil {
			return err
		}
		p.frames++
		if stop {
			p.logger.Info("stopped by sink", "frames", p.frames)
			return nil
		}
	}
}

// step handles one frame. img is annotated in place.
func (p *Pipeline) step(img gocv.Mat) (bool, error) {
	start := time.Now()

	res, err := p.detector.Detect(img)
	if err != nil {
		return false, fmt.Errorf("detect: %w", err)
	}
	main := detection.SelectMainActor(res.Persons)

	poseStart := time.Now()
	poses, _, err := p.estimator.DetectPoses(img)
	poseElapsed := time.Since(poseStart)
	if err != nil {
		return false, fmt.Errorf("estimate poses: %w", err)
	}

	if len(poses) > 0 {
		if err := p.renderer.Render(&img, poses, main); err != nil {
			return false, fmt.Errorf("render poses: %w", err)
		}
	}
	if err := p.renderer.DrawDetections(&img, res.Detections); err != nil {
		return false, fmt.Errorf("render detections: %w", err)
	}

	p.meter.Observe(time.Since(start), poseElapsed, len(poses) > 0, res.Latency)
	status := p.meter.String()
	if err := p.renderer.DrawStatus(&img, status); err != nil {
		return false, fmt.Errorf("render status: %w", err)
	}

	p.logger.Debug("frame",
		"detections", len(res.Detections),
		"persons", len(res.Persons),
		"main_actor", main,
		"poses", len(poses))

	stop, err := p.sink.Emit(img, status)
	if err != nil {
		return false, fmt.Errorf("emit: %w", err)
	}
	return stop, nil
}
