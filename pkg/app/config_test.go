package app

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.DetectorGraph != "mobilenet-ssd.xml" {
		t.Errorf("DetectorGraph = %q", cfg.DetectorGraph)
	}
	if cfg.Device != "MYRIAD" || cfg.PersonLabel != 1 || cfg.Threshold != 0.6 {
		t.Errorf("detector defaults = %q %d %v", cfg.Device, cfg.PersonLabel, cfg.Threshold)
	}
	if cfg.Modality != "multi" || cfg.KeypointThreshold != 0.4 {
		t.Errorf("overlay defaults = %q %v", cfg.Modality, cfg.KeypointThreshold)
	}
	if !reflect.DeepEqual(cfg.Inputs, []string{"0"}) {
		t.Errorf("Inputs = %v, want [0]", cfg.Inputs)
	}
	if cfg.FPSWindow != 15 {
		t.Errorf("FPSWindow = %d, want 15", cfg.FPSWindow)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"no graph", func(c *Config) { c.DetectorGraph = "" }, "DetectorGraph"},
		{"no pose model", func(c *Config) { c.PoseModel = " " }, "PoseModel"},
		{"no input", func(c *Config) { c.Inputs = nil }, "Inputs"},
		{"blank input", func(c *Config) { c.Inputs = []string{""} }, "Inputs"},
		{"bad device", func(c *Config) { c.Device = "TPU" }, "Device"},
		{"bad modality", func(c *Config) { c.Modality = "both" }, "Modality"},
		{"negative label", func(c *Config) { c.PersonLabel = -1 }, "PersonLabel"},
		{"threshold above one", func(c *Config) { c.Threshold = 1.5 }, "Threshold"},
		{"keypoint threshold below zero", func(c *Config) { c.KeypointThreshold = -0.1 }, "KeypointThreshold"},
		{"zero detector width", func(c *Config) { c.DetectorWidth = 0 }, "DetectorSize"},
		{"zero fps window", func(c *Config) { c.FPSWindow = 0 }, "FPSWindow"},
		{"negative capture", func(c *Config) { c.CaptureHeight = -1 }, "CaptureSize"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.edit(&cfg)

			err := cfg.Validate()
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Validate() = %v, want ConfigError", err)
			}
			if cfgErr.Field != tc.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tc.field)
			}
		})
	}
}

func TestValidate_AcceptsOriginalModalitySpelling(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Modality = "Multi"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("POSEFUSE_MODEL_OD", "ssdlite_mobilenet_v2.xml")
	t.Setenv("POSEFUSE_MODEL_HPE", "pose.tflite")
	t.Setenv("POSEFUSE_DEVICE", "CPU")
	t.Setenv("POSEFUSE_PREVIEW_ADDR", ":8080")
	t.Setenv("POSEFUSE_INPUT", "a.jpg, b.jpg,,")
	t.Setenv("POSEFUSE_THRESHOLD", "0.5")
	t.Setenv("POSEFUSE_NO_SHOW", "true")
	t.Setenv("POSEFUSE_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	cfg.LoadEnvConfig()

	if cfg.DetectorGraph != "ssdlite_mobilenet_v2.xml" || cfg.PoseModel != "pose.tflite" {
		t.Errorf("models = %q, %q", cfg.DetectorGraph, cfg.PoseModel)
	}
	if cfg.Device != "CPU" || cfg.PreviewAddr != ":8080" || cfg.LogLevel != "debug" {
		t.Errorf("device/preview/log = %q %q %q", cfg.Device, cfg.PreviewAddr, cfg.LogLevel)
	}
	if !reflect.DeepEqual(cfg.Inputs, []string{"a.jpg", "b.jpg"}) {
		t.Errorf("Inputs = %v", cfg.Inputs)
	}
	if cfg.Threshold != 0.5 || !cfg.NoShow {
		t.Errorf("threshold/no-show = %v %v", cfg.Threshold, cfg.NoShow)
	}
	// Untouched values keep their defaults.
	if cfg.PersonLabel != 1 {
		t.Errorf("PersonLabel = %d, want 1", cfg.PersonLabel)
	}
}

func TestSplitInputs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"0", []string{"0"}},
		{"a.jpg,b.jpg", []string{"a.jpg", "b.jpg"}},
		{" a.jpg , , b.jpg ", []string{"a.jpg", "b.jpg"}},
		{"", nil},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := SplitInputs(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitInputs(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
