package pipeline

import (
	"log/slog"

	"github.com/teslashibe/go-posefuse/internal/log"
	"go.uber.org/multierr"
	"gocv.io/x/gocv"
)

// EscapeKey is the key code that closes the display window.
const EscapeKey = 27

// DefaultWindowName is the title of the display window.
const DefaultWindowName = "Demo"

// Sink receives annotated frames.
type Sink interface {
	// Emit shows or forwards img. It must not retain img after returning.
	// stop asks the loop to end.
	Emit(img gocv.Mat, status string) (stop bool, err error)
	Close() error
}

// WindowSink shows frames in an OpenCV window.
type WindowSink struct {
	window *gocv.Window
	delay  int
}

// NewWindowSink opens a window. delay is the WaitKey delay in milliseconds;
// 0 blocks until a key is pressed.
func NewWindowSink(name string, delay int) *WindowSink {
	return &WindowSink{
		window: gocv.NewWindow(name),
		delay:  delay,
	}
}

// Emit shows img and stops on ESC.
func (s *WindowSink) Emit(img gocv.Mat, _ string) (bool, error) {
	s.window.IMShow(img)
	return s.window.WaitKey(s.delay) == EscapeKey, nil
}

// Close destroys the window.
func (s *WindowSink) Close() error {
	return s.window.Close()
}

// LogSink writes the status line to the log instead of showing frames.
type LogSink struct {
	logger *slog.Logger
}

// NewLogSink returns a sink for headless runs.
func NewLogSink(logger *slog.Logger) *LogSink {
	return &LogSink{logger: log.OrDiscard(logger)}
}

// Emit logs status.
func (s *LogSink) Emit(_ gocv.Mat, status string) (bool, error) {
	s.logger.Info(status)
	return false, nil
}

// Close is a no-op.
func (s *LogSink) Close() error { return nil }

// Broadcaster fans encoded frames out to preview clients.
type Broadcaster interface {
	BroadcastBinary(data []byte)
	ClientCount() int
}

// PreviewSink JPEG-encodes frames for the browser preview.
type PreviewSink struct {
	out Broadcaster
}

// NewPreviewSink returns a sink broadcasting to out.
func NewPreviewSink(out Broadcaster) *PreviewSink {
	return &PreviewSink{out: out}
}

// Emit encodes img when at least one client is watching.
func (s *PreviewSink) Emit(img gocv.Mat, _ string) (bool, error) {
	if s.out.ClientCount() == 0 {
		return false, nil
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, img)
	if err != nil {
		return false, err
	}
	defer buf.Close()

	s.out.BroadcastBinary(buf.GetBytes())
	return false, nil
}

// Close is a no-op; the hub is owned by the web server.
func (s *PreviewSink) Close() error { return nil }

// MultiSink emits to several sinks in order.
type MultiSink []Sink

// Emit forwards img to every sink and stops if any of them asks to.
func (m MultiSink) Emit(img gocv.Mat, status string) (bool, error) {
	var (
		stop bool
		errs error
	)
	for _, s := range m {
		st, err := s.Emit(img, status)
		stop = stop || st
		errs = multierr.Append(errs, err)
	}
	return stop, errs
}

// Close closes every sink and combines their errors.
func (m MultiSink) Close() error {
	var errs error
	for _, s := range m {
		errs = multierr.Append(errs, s.Close())
	}
	return errs
}
