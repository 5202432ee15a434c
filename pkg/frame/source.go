// Package frame turns the command-line input into an ordered stream of BGR
// frames: a list of still images, a video file or a live capture device.
package frame

import (
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/teslashibe/go-posefuse/internal/log"
	"gocv.io/x/gocv"
)

// Default capture resolution requested from live devices.
const (
	DefaultCaptureWidth  = 640
	DefaultCaptureHeight = 480
)

// Source yields frames until io.EOF.
type Source interface {
	// Next returns the next frame. The caller owns the Mat and must Close it.
	Next() (gocv.Mat, error)
	// Delay is the WaitKey delay in milliseconds for display sinks: 0 waits
	// for a key per image, 1 keeps video flowing.
	Delay() int
	Close() error
}

// Options tunes how live devices are opened.
type Options struct {
	CaptureWidth  int
	CaptureHeight int
}

// DefaultOptions returns the 640x480 capture request.
func DefaultOptions() Options {
	return Options{
		CaptureWidth:  DefaultCaptureWidth,
		CaptureHeight: DefaultCaptureHeight,
	}
}

// Validate checks the capture request.
func (o Options) Validate() error {
	if o.CaptureWidth < 0 {
		return &ConfigError{Field: "capture width", Message: "must not be negative"}
	}
	if o.CaptureHeight < 0 {
		return &ConfigError{Field: "capture height", Message: "must not be negative"}
	}
	return nil
}

// Open picks the source kind from the first input. If it decodes as an
// image every input is treated as an image; otherwise the first input is a
// video path, URL or (when it parses as an integer) a capture device index.
func Open(inputs []string, opts Options, logger *slog.Logger) (Source, error) {
	logger = log.OrDiscard(logger)

	if len(inputs) == 0 || strings.TrimSpace(inputs[0]) == "" {
		return nil, &ConfigError{Field: "input", Message: "at least one image, video or device is required"}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	first := gocv.IMRead(inputs[0], gocv.IMReadColor)
	if !first.Empty() {
		logger.Info("opened image list", "images", len(inputs))
		return &imageList{paths: inputs, first: &first}, nil
	}
	first.Close()

	return openVideo(inputs[0], opts, logger)
}

// imageList reads still images in order, one frame per path.
type imageList struct {
	paths []string
	idx   int
	first *gocv.Mat
}

func (s *imageList) Next() (gocv.Mat, error) {
	if s.idx >= len(s.paths) {
		return gocv.Mat{}, io.EOF
	}
	path := s.paths[s.idx]
	s.idx++

	if s.first != nil {
		img := *s.first
		s.first = nil
		return img, nil
	}

	img := gocv.IMRead(path, gocv.IMReadColor)
	if img.Empty() {
		img.Close()
		return gocv.Mat{}, &ReadError{Path: path}
	}
	return img, nil
}

func (s *imageList) Delay() int { return 0 }

func (s *imageList) Close() error {
	if s.first != nil {
		err := s.first.Close()
		s.first = nil
		return err
	}
	return nil
}

// video reads from a gocv capture until it stops delivering frames.
type video struct {
	cap    *gocv.VideoCapture
	name   string
	logger *slog.Logger
}

func openVideo(input string, opts Options, logger *slog.Logger) (Source, error) {
	device, isDevice := ParseDevice(input)

	var (
		vc  *gocv.VideoCapture
		err error
	)
	if isDevice {
		vc, err = gocv.OpenVideoCapture(device)
	} else {
		vc, err = gocv.OpenVideoCapture(input)
	}
	if err != nil || vc == nil || !vc.IsOpened() {
		if vc != nil {
			vc.Close()
		}
		return nil, &OpenError{Source: input}
	}

	if isDevice {
		if opts.CaptureWidth > 0 {
			vc.Set(gocv.VideoCaptureFrameWidth, float64(opts.CaptureWidth))
		}
		if opts.CaptureHeight > 0 {
			vc.Set(gocv.VideoCaptureFrameHeight, float64(opts.CaptureHeight))
		}
	}

	logger.Info("opened video",
		"source", input,
		"device", isDevice,
		"width", vc.Get(gocv.VideoCaptureFrameWidth),
		"height", vc.Get(gocv.VideoCaptureFrameHeight))

	return &video{cap: vc, name: input, logger: logger}, nil
}

func (s *video) Next() (gocv.Mat, error) {
	img := gocv.NewMat()
	if ok := s.cap.Read(&img); !ok || img.Empty() {
		img.Close()
		s.logger.Debug("video ended", "source", s.name)
		return gocv.Mat{}, io.EOF
	}
	return img, nil
}

func (s *video) Delay() int { return 1 }

func (s *video) Close() error {
	return s.cap.Close()
}

// ParseDevice reports whether input names a capture device index.
func ParseDevice(input string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
