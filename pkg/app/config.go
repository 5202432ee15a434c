// Package app wires the frame source, both accelerators, the renderer and
// the display sinks into one run.
package app

import (
	"fmt"
	"strings"

	"github.com/teslashibe/go-posefuse/internal/config"
	"github.com/teslashibe/go-posefuse/pkg/detection"
	"github.com/teslashibe/go-posefuse/pkg/frame"
	"github.com/teslashibe/go-posefuse/pkg/labels"
	"github.com/teslashibe/go-posefuse/pkg/overlay"
	"github.com/teslashibe/go-posefuse/pkg/pose"
	"github.com/teslashibe/go-posefuse/pkg/stats"
)

// Config holds everything a run needs.
// Flag parsing is done in cmd/posefuse/main.go; this struct is data only.
type Config struct {
	LogLevel string

	// Object detector (OpenVINO IR on the VPU).
	DetectorGraph  string
	Device         string
	PersonLabel    int
	Threshold      float64
	DetectorWidth  int
	DetectorHeight int
	LabelFile      string

	// Pose estimator (PoseNet on the Edge TPU).
	PoseModel         string
	PoseMinScore      float64
	KeypointThreshold float64
	Modality          string

	// Input and output.
	Inputs        []string
	CaptureWidth  int
	CaptureHeight int
	NoShow        bool
	FPSWindow     int
	PreviewAddr   string // empty disables the browser preview
}

// DefaultConfig returns the defaults for a MobileNet-SSD + PoseNet run on
// capture device 0.
func DefaultConfig() Config {
	det := detection.DefaultConfig()
	return Config{
		LogLevel:          "info",
		DetectorGraph:     det.GraphPath,
		Device:            det.Device,
		PersonLabel:       det.PersonLabel,
		Threshold:         det.Threshold,
		DetectorWidth:     det.InputWidth,
		DetectorHeight:    det.InputHeight,
		LabelFile:         labels.DefaultLabelFile,
		PoseModel:         pose.DefaultModelPath,
		KeypointThreshold: overlay.DefaultKeypointThreshold,
		Modality:          string(overlay.Multi),
		Inputs:            []string{"0"},
		CaptureWidth:      frame.DefaultCaptureWidth,
		CaptureHeight:     frame.DefaultCaptureHeight,
		FPSWindow:         stats.DefaultWindow,
	}
}

// LoadEnvConfig applies POSEFUSE_* environment overrides. Call it before
// flag parsing so explicit flags win.
func (c *Config) LoadEnvConfig() {
	c.LogLevel = config.String("LOG_LEVEL", c.LogLevel)
	c.DetectorGraph = config.String("MODEL_OD", c.DetectorGraph)
	c.PoseModel = config.String("MODEL_HPE", c.PoseModel)
	c.Device = config.String("DEVICE", c.Device)
	c.LabelFile = config.String("LABELS", c.LabelFile)
	c.Modality = config.String("MODALITY", c.Modality)
	c.PreviewAddr = config.String("PREVIEW_ADDR", c.PreviewAddr)
	c.PersonLabel = config.Int("PERSON_LABEL", c.PersonLabel)
	c.FPSWindow = config.Int("FPS_WINDOW", c.FPSWindow)
	c.Threshold = config.Float("THRESHOLD", c.Threshold)
	c.KeypointThreshold = config.Float("KEYPOINT_THRESHOLD", c.KeypointThreshold)
	c.NoShow = config.Bool("NO_SHOW", c.NoShow)

	if in := config.String("INPUT", ""); in != "" {
		c.Inputs = SplitInputs(in)
	}
}

// Validate checks the configuration before anything is loaded.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DetectorGraph) == "" {
		return &ConfigError{Field: "DetectorGraph", Message: "--model-od is required"}
	}
	if strings.TrimSpace(c.PoseModel) == "" {
		return &ConfigError{Field: "PoseModel", Message: "--model-hpe is required"}
	}
	if len(c.Inputs) == 0 || strings.TrimSpace(c.Inputs[0]) == "" {
		return &ConfigError{Field: "Inputs", Message: "--input has to be set"}
	}
	if _, err := detection.ParseTarget(c.Device); err != nil {
		return &ConfigError{Field: "Device", Message: err.Error()}
	}
	if _, err := overlay.ParseMode(c.Modality); err != nil {
		return &ConfigError{Field: "Modality", Message: err.Error()}
	}
	if c.PersonLabel < 0 {
		return &ConfigError{Field: "PersonLabel", Message: "--person-label must not be negative"}
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return &ConfigError{Field: "Threshold", Message: fmt.Sprintf("--threshold %v is outside [0, 1]", c.Threshold)}
	}
	if c.KeypointThreshold < 0 || c.KeypointThreshold > 1 {
		return &ConfigError{Field: "KeypointThreshold", Message: fmt.Sprintf("--keypoint-threshold %v is outside [0, 1]", c.KeypointThreshold)}
	}
	if c.DetectorWidth <= 0 || c.DetectorHeight <= 0 {
		return &ConfigError{Field: "DetectorSize", Message: "--od-width and --od-height must be positive"}
	}
	if c.FPSWindow <= 0 {
		return &ConfigError{Field: "FPSWindow", Message: "--fps-window must be positive"}
	}
	if c.CaptureWidth < 0 || c.CaptureHeight < 0 {
		return &ConfigError{Field: "CaptureSize", Message: "--capture-width and --capture-height must not be negative"}
	}
	return nil
}

// SplitInputs splits a comma-separated input list, dropping empty entries.
func SplitInputs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}
