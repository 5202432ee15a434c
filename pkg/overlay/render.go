package overlay

import (
	"image"
	"image/color"

	"github.com/teslashibe/go-posefuse/pkg/detection"
	"github.com/teslashibe/go-posefuse/pkg/labels"
	"github.com/teslashibe/go-posefuse/pkg/pose"
	"gocv.io/x/gocv"
)

var (
	keypointColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	edgeColor     = color.RGBA{R: 0, G: 0, B: 255, A: 0}
	boxColor      = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	textColor     = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// Renderer draws annotations in place on BGR frames.
type Renderer struct {
	Mode      Mode
	Threshold float32
	Labels    labels.Catalogue
}

// NewRenderer returns a renderer with the default keypoint threshold.
func NewRenderer(mode Mode, cat labels.Catalogue) *Renderer {
	return &Renderer{
		Mode:      mode,
		Threshold: DefaultKeypointThreshold,
		Labels:    cat,
	}
}

// Render draws keypoints and skeleton edges for poses, restricted to main
// in Single mode.
func (r *Renderer) Render(img *gocv.Mat, poses []pose.Pose, main detection.Box) error {
	return r.Draw(img, Plan(poses, main, r.Mode, r.Threshold))
}

// Draw paints a planned scene. Markers go first so edges overlay them.
func (r *Renderer) Draw(img *gocv.Mat, scene Scene) error {
	for _, m := range scene.Markers {
		if err := gocv.Circle(img, m.At, 5, keypointColor, -1); err != nil {
			return err
		}
		if err := gocv.PutText(img, m.Name, image.Pt(m.At.X+3, m.At.Y-7),
			gocv.FontHersheySimplex, 0.3, textColor, 1); err != nil {
			return err
		}
	}

	for _, s := range scene.Segments {
		if err := gocv.Line(img, s.From, s.To, edgeColor, 2); err != nil {
			return err
		}
	}
	return nil
}

// DrawDetections outlines every detection and captions it with its own
// class name.
func (r *Renderer) DrawDetections(img *gocv.Mat, dets []detection.Detection) error {
	for _, d := range dets {
		b := d.Box
		if err := gocv.Rectangle(img, image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H), boxColor, 1); err != nil {
			return err
		}
		if r.Labels == nil {
			continue
		}
		if err := gocv.PutText(img, r.Labels.Name(d.Label), image.Pt(b.X+3, b.Y-7),
			gocv.FontHersheySimplex, 0.4, textColor, 1); err != nil {
			return err
		}
	}
	return nil
}

// DrawStatus writes a status line in the top-left corner.
func (r *Renderer) DrawStatus(img *gocv.Mat, text string) error {
	if text == "" {
		return nil
	}
	return gocv.PutText(img, text, image.Pt(5, 20), gocv.FontHersheySimplex, 0.5, textColor, 1)
}
