package pose

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-tflite"
	"github.com/mattn/go-tflite/delegates/edgetpu"
	"github.com/teslashibe/go-posefuse/internal/log"
)

// numOutputs is the tensor count of a PoseNet decoder graph.
const numOutputs = 4

// EdgeTPUBackend runs TensorFlow Lite models on the first Coral Edge TPU.
type EdgeTPUBackend struct {
	Logger *slog.Logger
}

// Load opens the first Edge TPU, attaches it as a delegate and allocates
// the interpreter for cfg.ModelPath.
func (b EdgeTPUBackend) Load(cfg Config) (Handle, error) {
	logger := log.OrDiscard(b.Logger)

	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, cfg.ModelPath)
	}

	devices, err := edgetpu.DeviceList()
	if err != nil {
		return nil, fmt.Errorf("pose: list edge tpu devices: %w", err)
	}
	if len(devices) == 0 {
		return nil, ErrNoEdgeTPU
	}
	logger.Info("edge tpu found", "path", devices[0].Path, "devices", len(devices))

	model := tflite.NewModelFromFile(cfg.ModelPath)
	if model == nil {
		return nil, fmt.Errorf("pose: cannot read model %s", cfg.ModelPath)
	}

	options := tflite.NewInterpreterOptions()
	delegate := edgetpu.New(devices[0])
	if delegate == nil {
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("pose: cannot open edge tpu %s", devices[0].Path)
	}
	options.AddDelegate(delegate)
	options.SetErrorReporter(func(msg string, _ interface{}) {
		logger.Warn("tflite", "msg", msg)
	}, nil)

	interpreter := tflite.NewInterpreter(model, options)
	if interpreter == nil {
		delegate.Delete()
		options.Delete()
		model.Delete()
		return nil, fmt.Errorf("pose: cannot create interpreter")
	}

	h := &edgeTPUHandle{
		model:       model,
		options:     options,
		delegate:    delegate,
		interpreter: interpreter,
	}

	if status := interpreter.AllocateTensors(); status != tflite.OK {
		h.Close()
		return nil, fmt.Errorf("pose: allocate tensors: %v", status)
	}

	if n := interpreter.GetOutputTensorCount(); n != numOutputs {
		h.Close()
		return nil, fmt.Errorf("%w: want %d tensors, got %d", ErrUnexpectedOutputs, numOutputs, n)
	}

	// Input is [1, H, W, 3] uint8.
	input := interpreter.GetInputTensor(0)
	if input.NumDims() != 4 || input.Dim(3) != 3 || input.Type() != tflite.UInt8 {
		h.Close()
		return nil, fmt.Errorf("pose: unexpected input tensor %s", input.Name())
	}
	h.info = ModelInfo{Width: input.Dim(2), Height: input.Dim(1)}

	return h, nil
}

type edgeTPUHandle struct {
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	delegate    interface{ Delete() }
	interpreter *tflite.Interpreter
	info        ModelInfo
}

func (h *edgeTPUHandle) Info() ModelInfo {
	return h.info
}

func (h *edgeTPUHandle) Invoke(rgb []byte) (Outputs, error) {
	input := h.interpreter.GetInputTensor(0)
	if want := input.ByteSize(); uint(len(rgb)) != want {
		return Outputs{}, fmt.Errorf("input is %d bytes, model wants %d", len(rgb), want)
	}
	if status := input.CopyFromBuffer(rgb); status != tflite.OK {
		return Outputs{}, fmt.Errorf("copy input: %v", status)
	}

	if status := h.interpreter.Invoke(); status != tflite.OK {
		return Outputs{}, fmt.Errorf("invoke: %v", status)
	}

	out := Outputs{
		Keypoints:      h.interpreter.GetOutputTensor(0).Float32s(),
		KeypointScores: h.interpreter.GetOutputTensor(1).Float32s(),
		PoseScores:     h.interpreter.GetOutputTensor(2).Float32s(),
	}
	if count := h.interpreter.GetOutputTensor(3).Float32s(); len(count) > 0 {
		out.Count = int(count[0])
	}

	// The interpreter reuses its output buffers on the next Invoke.
	out.Keypoints = append([]float32(nil), out.Keypoints...)
	out.KeypointScores = append([]float32(nil), out.KeypointScores...)
	out.PoseScores = append([]float32(nil), out.PoseScores...)
	return out, nil
}

func (h *edgeTPUHandle) Close() error {
	if h.interpreter != nil {
		h.interpreter.Delete()
		h.interpreter = nil
	}
	if h.delegate != nil {
		h.delegate.Delete()
		h.delegate = nil
	}
	if h.options != nil {
		h.options.Delete()
		h.options = nil
	}
	if h.model != nil {
		h.model.Delete()
		h.model = nil
	}
	return nil
}
