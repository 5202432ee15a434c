package detection

import (
	"fmt"
	"image"
	"os"
	"strings"

	"gocv.io/x/gocv"
)

// OpenVINOBackend loads OpenVINO IR graphs through OpenCV's DNN module.
type OpenVINOBackend struct{}

// ParseTarget maps a device name to an OpenCV DNN target.
func ParseTarget(device string) (gocv.NetTargetType, error) {
	switch strings.ToUpper(strings.TrimSpace(device)) {
	case "CPU":
		return gocv.NetTargetCPU, nil
	case "GPU":
		return gocv.NetTargetFP16, nil
	case "MYRIAD", "VPU":
		return gocv.NetTargetVPU, nil
	default:
		return gocv.NetTargetCPU, fmt.Errorf("detection: unsupported device %q (want CPU, GPU or MYRIAD)", device)
	}
}

// Load reads the IR pair, selects the OpenVINO backend on the configured
// device and runs one warm-up pass to discover the output shape.
func (OpenVINOBackend) Load(cfg Config) (Handle, error) {
	for _, p := range []string{cfg.GraphPath, cfg.Weights()} {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrModelNotFound, p)
		}
	}

	target, err := ParseTarget(cfg.Device)
	if err != nil {
		return nil, err
	}

	net := gocv.ReadNet(cfg.GraphPath, cfg.Weights())
	if net.Empty() {
		return nil, fmt.Errorf("%w from %s", ErrEmptyNet, cfg.GraphPath)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendOpenVINO); err != nil {
		net.Close()
		return nil, fmt.Errorf("detection: set backend: %w", err)
	}
	if err := net.SetPreferableTarget(target); err != nil {
		net.Close()
		return nil, fmt.Errorf("detection: set target %s: %w", cfg.Device, err)
	}

	h := &openVINOHandle{net: net}
	h.info.Inputs = [][]int{{1, Channels, cfg.InputHeight, cfg.InputWidth}}

	// Warm up on a blank frame; this also compiles the graph on the device.
	blank := gocv.NewMatWithSize(cfg.InputHeight, cfg.InputWidth, gocv.MatTypeCV8UC3)
	defer blank.Close()
	blob := gocv.BlobFromImage(blank, 1.0, image.Pt(cfg.InputWidth, cfg.InputHeight), gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	if in := blob.Size(); len(in) == 4 {
		h.info.Inputs = [][]int{in}
	}

	out, err := h.Infer(blob)
	if err != nil {
		net.Close()
		return nil, fmt.Errorf("detection: warm-up: %w", err)
	}
	h.info.Outputs = [][]int{out.Shape}

	return h, nil
}

type openVINOHandle struct {
	net  gocv.Net
	info ModelInfo
}

func (h *openVINOHandle) Info() ModelInfo {
	return h.info
}

func (h *openVINOHandle) Infer(blob gocv.Mat) (Tensor, error) {
	h.net.SetInput(blob, "")

	out := h.net.Forward("")
	defer out.Close()

	if out.Empty() {
		return Tensor{}, fmt.Errorf("empty output")
	}

	data, err := out.DataPtrFloat32()
	if err != nil {
		return Tensor{}, fmt.Errorf("read output: %w", err)
	}

	return Tensor{
		Shape: out.Size(),
		Data:  append([]float32(nil), data...),
	}, nil
}

func (h *openVINOHandle) Close() error {
	return h.net.Close()
}
