// posefuse draws object detections from an OpenVINO VPU and PoseNet
// skeletons from a Coral Edge TPU over images, video or a live camera.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/teslashibe/go-posefuse/internal/config"
	plog "github.com/teslashibe/go-posefuse/internal/log"
	"github.com/teslashibe/go-posefuse/pkg/app"
)

func main() {
	if err := config.LoadDotEnv(envFile()); err != nil {
		log.Fatalf("❌ Environment error: %v", err)
	}

	cfg := parseFlags()
	logger := plog.New(cfg.LogLevel, os.Stderr)

	a, err := app.New(cfg, logger)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	if err := a.Init(); err != nil {
		log.Fatalf("❌ Initialization failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runErr := a.Run(ctx)
	a.Shutdown()
	if runErr != nil {
		log.Fatalf("❌ Runtime error: %v", runErr)
	}
}

// envFile finds --env-file before the full flag set is parsed, so .env
// values can feed the flag defaults.
func envFile() string {
	path := ".env"
	args := os.Args[1:]
	for i, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "env-file" || !strings.HasPrefix(arg, "-") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return path
}

// inputList collects --input values; each may itself be a comma list.
type inputList struct {
	values []string
	set    bool
}

func (l *inputList) String() string {
	return strings.Join(l.values, ",")
}

func (l *inputList) Set(v string) error {
	if !l.set {
		l.values, l.set = nil, true
	}
	l.values = append(l.values, app.SplitInputs(v)...)
	return nil
}

// parseFlags parses command line flags and returns configuration.
// Environment values become flag defaults, so explicit flags win.
func parseFlags() app.Config {
	cfg := app.DefaultConfig()
	cfg.LoadEnvConfig()

	inputs := &inputList{values: cfg.Inputs}

	flag.String("env-file", ".env", "Optional .env file with POSEFUSE_* settings")
	flag.StringVar(&cfg.DetectorGraph, "model-od", cfg.DetectorGraph, "Object detector OpenVINO IR (.xml, .bin alongside) run on the VPU")
	flag.StringVar(&cfg.PoseModel, "model-hpe", cfg.PoseModel, "Edge TPU compiled PoseNet decoder model (.tflite)")
	flag.Var(inputs, "input", "Image(s), video file or capture device index; repeat or comma-separate")
	flag.StringVar(&cfg.Device, "device", cfg.Device, "Detector target: CPU, GPU or MYRIAD")
	flag.IntVar(&cfg.PersonLabel, "person-label", cfg.PersonLabel, "Class id of person for the detector")
	flag.StringVar(&cfg.Modality, "modality", cfg.Modality, "multi draws every pose; single only the main actor")
	flag.BoolVar(&cfg.NoShow, "no-show", cfg.NoShow, "Do not open a window; log frame rates instead")
	flag.StringVar(&cfg.LabelFile, "labels", cfg.LabelFile, "Label file for ssdlite_mobilenet_v2 graphs")
	flag.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "Detection score threshold")
	flag.Float64Var(&cfg.KeypointThreshold, "keypoint-threshold", cfg.KeypointThreshold, "Minimum keypoint score drawn")
	flag.Float64Var(&cfg.PoseMinScore, "pose-threshold", cfg.PoseMinScore, "Minimum pose score kept")
	flag.IntVar(&cfg.DetectorWidth, "od-width", cfg.DetectorWidth, "Detector network input width")
	flag.IntVar(&cfg.DetectorHeight, "od-height", cfg.DetectorHeight, "Detector network input height")
	flag.IntVar(&cfg.CaptureWidth, "capture-width", cfg.CaptureWidth, "Width requested from capture devices")
	flag.IntVar(&cfg.CaptureHeight, "capture-height", cfg.CaptureHeight, "Height requested from capture devices")
	flag.IntVar(&cfg.FPSWindow, "fps-window", cfg.FPSWindow, "Frames averaged per FPS update")
	flag.StringVar(&cfg.PreviewAddr, "preview-addr", cfg.PreviewAddr, "Serve a browser preview on this address, e.g. :8080")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.Parse()

	cfg.Inputs = inputs.values
	return cfg
}
