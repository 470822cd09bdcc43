// Package viewer drives an interactive point cloud view from polled
// window input.
package viewer

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"

	"github.com/seqsense/pcdviewer/camera"
	"github.com/seqsense/pcdviewer/raster"
	"github.com/seqsense/pcdviewer/xyzrgb"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

var axesColor = color.RGBA{G: 0xFF, A: 0xFF}

// InputState is the input polled for a single frame.
type InputState struct {
	// Pressed and Released list buttons which changed state this frame.
	Pressed  []camera.Button
	Released []camera.Button
	// X and Y are the cursor position.
	X, Y int
	// WheelY is the vertical wheel delta, positive forward.
	WheelY float64
}

// Session owns the camera controller and the rendered frame of one loaded
// cloud. All methods must be called from the window thread.
type Session struct {
	cfg    *Config
	ctrl   *camera.Controller
	buf    *pc.PointCloud
	wheel  WheelTicker
	logger *slog.Logger

	cursor    image.Point
	hasCursor bool

	width, height int
	proj          mat.Mat4
	renderer      raster.Renderer
	frame         *image.RGBA
}

// NewSession prepares a view of cloud sized to the configured window.
func NewSession(cfg *Config, cloud *xyzrgb.Cloud, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		cfg:    cfg,
		ctrl:   camera.NewController(cfg.Gains()),
		buf:    cloud.Buffer(),
		logger: logger,
		renderer: raster.Renderer{
			PointSize:  cfg.PointSize,
			Axes:       cfg.DrawAxes,
			AxesLength: float32(cfg.AxesLength),
			AxesColor:  axesColor,
			Background: color.RGBA{A: 0xFF},
		},
	}
	s.Resize(cfg.Window.Width, cfg.Window.Height)
	return s
}

// Controller returns the camera controller.
func (s *Session) Controller() *camera.Controller {
	return s.ctrl
}

// Buffer returns the render buffer of the loaded cloud.
func (s *Session) Buffer() *pc.PointCloud {
	return s.buf
}

// Size returns the viewport size.
func (s *Session) Size() (int, int) {
	return s.width, s.height
}

// Projection returns the projection matrix of the current viewport.
func (s *Session) Projection() mat.Mat4 {
	return s.proj
}

// Resize updates the viewport. The camera state is not affected.
func (s *Session) Resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	if width == s.width && height == s.height {
		return
	}
	s.logger.Debug("viewport resized", "width", width, "height", height)
	s.width, s.height = width, height
	s.proj = s.cfg.Projection(width, height)
	s.ctrl.Invalidate()
}

// Apply feeds one frame of polled input to the controller: releases,
// presses, cursor motion, then wheel ticks.
func (s *Session) Apply(in InputState) {
	for _, b := range in.Released {
		s.ctrl.Release(b, in.X, in.Y)
	}
	for _, b := range in.Pressed {
		s.ctrl.Press(b, in.X, in.Y)
	}
	p := image.Pt(in.X, in.Y)
	if !s.hasCursor || p != s.cursor {
		s.ctrl.Move(in.X, in.Y)
		s.cursor = p
		s.hasCursor = true
	}
	if n := s.wheel.Ticks(in.WheelY); n != 0 {
		s.ctrl.Wheel(n)
	}
}

// Frame returns the current frame. It is redrawn only if the view changed
// since the last call; updated reports whether that happened.
func (s *Session) Frame() (img *image.RGBA, updated bool) {
	if !s.ctrl.Dirty() && s.frame != nil {
		return s.frame, false
	}
	r := image.Rect(0, 0, s.width, s.height)
	if s.frame == nil || s.frame.Rect != r {
		s.frame = image.NewRGBA(r)
	}
	if err := s.renderer.Render(s.frame, s.buf, s.ctrl.ViewMatrix(), s.proj); err != nil {
		s.logger.Error("failed to render", "error", err)
	}
	return s.frame, true
}

// Snapshot writes the current frame as PNG.
func (s *Session) Snapshot(w io.Writer) error {
	img, _ := s.Frame()
	return png.Encode(w, img)
}
