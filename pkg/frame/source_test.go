package frame

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"gocv.io/x/gocv"
)

// writeImage writes a small solid JPEG and returns its path.
func writeImage(t *testing.T, dir, name string, w, h int) string {
	t.Helper()

	img := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	defer img.Close()
	img.SetTo(gocv.NewScalar(30, 60, 90, 0))

	path := filepath.Join(dir, name)
	if !gocv.IMWrite(path, img) {
		t.Fatalf("IMWrite(%s) failed", path)
	}
	return path
}

func TestOpen_EmptyInput(t *testing.T) {
	tests := []struct {
		name   string
		inputs []string
	}{
		{"nil", nil},
		{"empty first", []string{""}},
		{"blank first", []string{"  "}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Open(tc.inputs, DefaultOptions(), nil)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Open(%v) error = %v, want ConfigError", tc.inputs, err)
			}
		})
	}
}

func TestOpen_NegativeCapture(t *testing.T) {
	_, err := Open([]string{"0"}, Options{CaptureWidth: -1}, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
}

func TestOpen_ImageList(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.jpg", 64, 48)
	b := writeImage(t, dir, "b.jpg", 32, 24)

	src, err := Open([]string{a, b}, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	if src.Delay() != 0 {
		t.Errorf("Delay() = %d, want 0 for images", src.Delay())
	}

	wantSizes := [][2]int{{64, 48}, {32, 24}}
	for i, want := range wantSizes {
		img, err := src.Next()
		if err != nil {
			t.Fatalf("Next #%d: %v", i, err)
		}
		if img.Cols() != want[0] || img.Rows() != want[1] {
			t.Errorf("frame %d: got %dx%d, want %dx%d", i, img.Cols(), img.Rows(), want[0], want[1])
		}
		if img.Channels() != 3 {
			t.Errorf("frame %d: channels = %d, want 3", i, img.Channels())
		}
		img.Close()
	}

	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last image: error = %v, want io.EOF", err)
	}
}

func TestOpen_ImageListBadEntry(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.jpg", 16, 16)
	missing := filepath.Join(dir, "missing.jpg")

	src, err := Open([]string{a, missing}, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer src.Close()

	img, err := src.Next()
	if err != nil {
		t.Fatalf("first Next: %v", err)
	}
	img.Close()

	_, err = src.Next()
	var readErr *ReadError
	if !errors.As(err, &readErr) {
		t.Fatalf("error = %v, want ReadError", err)
	}
	if readErr.Path != missing {
		t.Errorf("Path = %q, want %q", readErr.Path, missing)
	}
}

func TestOpen_UnopenableVideo(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.mp4")

	_, err := Open([]string{missing}, DefaultOptions(), nil)
	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("error = %v, want OpenError", err)
	}
	if openErr.Source != missing {
		t.Errorf("Source = %q, want %q", openErr.Source, missing)
	}
}

func TestImageList_CloseWithoutReading(t *testing.T) {
	dir := t.TempDir()
	a := writeImage(t, dir, "a.jpg", 8, 8)

	src, err := Open([]string{a}, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		in     string
		id     int
		device bool
	}{
		{"0", 0, true},
		{"2", 2, true},
		{" 1 ", 1, true},
		{"-1", 0, false},
		{"video.mp4", 0, false},
		{"rtsp://cam/stream", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			id, ok := ParseDevice(tc.in)
			if ok != tc.device || id != tc.id {
				t.Errorf("ParseDevice(%q) = (%d, %v), want (%d, %v)", tc.in, id, ok, tc.id, tc.device)
			}
		})
	}
}
