package main

import (
	"bytes"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"syscall/js"
	"time"

	"github.com/seqsense/pcdviewer/camera"
	"github.com/seqsense/pcdviewer/viewer"
	"github.com/seqsense/pcdviewer/xyzrgb"
	"github.com/seqsense/pcgol/pc"
	webgl "github.com/seqsense/webgl-go"
)

const (
	aVertexPosition = 0
	aVertexColor    = 1
)

var errNoFile = errors.New("point file must be given by ?file=<path>")

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := runWeb(logger); err != nil {
		logger.Error("exiting", "error", err)
	}
}

func runWeb(logger *slog.Logger) error {
	doc := js.Global().Get("document")
	canvas := doc.Call("getElementById", "mapCanvas")

	gl, err := webgl.New(canvas)
	if err != nil {
		return err
	}
	program, err := initProgram(gl)
	if err != nil {
		return err
	}

	search := js.Global().Get("location").Get("search").String()
	query, err := url.ParseQuery(strings.TrimPrefix(search, "?"))
	if err != nil {
		return err
	}
	if query.Has("debug") {
		showDebugInfo(gl, logger)
	}
	path := query.Get("file")
	if path == "" {
		return errNoFile
	}
	b, err := fetchGet(path)
	if err != nil {
		return err
	}
	cloud, err := xyzrgb.Load(bytes.NewReader(b))
	if err != nil {
		return err
	}
	logger.Info("points successfully loaded", "file", path, "points", cloud.Len())

	cfg := viewer.DefaultConfig()
	s := viewer.NewSession(cfg, cloud, logger)
	ctrl := s.Controller()

	projectionMatrixLocation := gl.GetUniformLocation(program, "uProjectionMatrix")
	modelViewMatrixLocation := gl.GetUniformLocation(program, "uModelViewMatrix")
	pointSizeLocation := gl.GetUniformLocation(program, "uPointSize")

	posBuf := gl.CreateBuffer()
	nPoints := s.Buffer().Points
	if nPoints > 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, posBuf)
		gl.BufferData(gl.ARRAY_BUFFER, webgl.ByteArrayBuffer(s.Buffer().Data), gl.STATIC_DRAW)
	}
	axesBuf := gl.CreateBuffer()
	gl.BindBuffer(gl.ARRAY_BUFFER, axesBuf)
	gl.BufferData(gl.ARRAY_BUFFER, webgl.ByteArrayBuffer(axesBuffer(cfg.AxesLength).Data), gl.STATIC_DRAW)

	gl.ClearColor(0.0, 0.0, 0.0, 1.0)
	gl.ClearDepth(1.0)
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.UseProgram(program)
	gl.EnableVertexAttribArray(aVertexPosition)
	gl.EnableVertexAttribArray(aVertexColor)
	gl.Uniform1f(pointSizeLocation, float32(cfg.PointSize))

	chEvent := make(chan camera.Event, 16)
	toCamera := func(b webgl.MouseButton) camera.Button {
		switch b {
		case 0:
			return camera.ButtonPrimary
		case 1:
			return camera.ButtonTertiary
		case 2:
			return camera.ButtonSecondary
		}
		return camera.ButtonNone
	}
	gl.Canvas.OnMouseDown(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chEvent <- camera.Event{Type: camera.EventPress, Button: toCamera(e.Button), X: e.OffsetX, Y: e.OffsetY}
	})
	gl.Canvas.OnMouseUp(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chEvent <- camera.Event{Type: camera.EventRelease, Button: toCamera(e.Button), X: e.OffsetX, Y: e.OffsetY}
	})
	gl.Canvas.OnMouseMove(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chEvent <- camera.Event{Type: camera.EventMove, X: e.OffsetX, Y: e.OffsetY}
	})
	gl.Canvas.OnContextMenu(func(e webgl.MouseEvent) {
		e.PreventDefault()
		e.StopPropagation()
	})
	chWheel := make(chan float64, 16)
	gl.Canvas.OnWheel(func(e webgl.WheelEvent) {
		e.PreventDefault()
		e.StopPropagation()
		chWheel <- wheelDetents(e)
	})
	wheel := &viewer.WheelTicker{}

	tick := time.NewTicker(time.Second / 8)
	defer tick.Stop()

	var width, height int
	for {
		newWidth := gl.Canvas.ClientWidth()
		newHeight := gl.Canvas.ClientHeight()
		if newWidth != width || newHeight != height {
			width, height = newWidth, newHeight
			gl.Canvas.SetWidth(width)
			gl.Canvas.SetHeight(height)
			gl.Viewport(0, 0, width, height)
			s.Resize(width, height)
			gl.UniformMatrix4fv(projectionMatrixLocation, false, s.Projection())
		}

		if ctrl.Dirty() {
			gl.UniformMatrix4fv(modelViewMatrixLocation, false, ctrl.ViewMatrix())
			gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
			if nPoints > 0 {
				drawBuffer(gl, posBuf, gl.POINTS, nPoints)
			}
			if cfg.DrawAxes {
				drawBuffer(gl, axesBuf, gl.LINES, 6)
			}
		}

		select {
		case e := <-chEvent:
			ctrl.Handle(e)
			if ctrl.Dragging() {
				setCursor(canvas, cursorMove)
			} else {
				setCursor(canvas, cursorDefault)
			}
		case d := <-chWheel:
			ctrl.Wheel(wheel.Ticks(d))
		case <-tick.C:
		}
	}
}

// drawBuffer draws n points of a buffer in the xyzrgb render layout.
func drawBuffer(gl *webgl.WebGL, buf webgl.Buffer, mode webgl.DrawMode, n int) {
	gl.BindBuffer(gl.ARRAY_BUFFER, buf)
	gl.VertexAttribPointer(aVertexPosition, 3, gl.FLOAT, false, xyzrgb.Stride, 0)
	gl.VertexAttribPointer(aVertexColor, 3, gl.UNSIGNED_BYTE, true, xyzrgb.Stride, xyzrgb.ColorOffset)
	gl.DrawArrays(mode, 0, n)
}

// wheelDetents converts a DOM wheel delta to detents, positive forward.
func wheelDetents(e webgl.WheelEvent) float64 {
	switch e.DeltaMode {
	case webgl.DOM_DELTA_LINE:
		return -e.DeltaY / 3
	case webgl.DOM_DELTA_PAGE:
		return -e.DeltaY
	}
	return -e.DeltaY / 100
}

func axesBuffer(l float64) *pc.PointCloud {
	green := xyzrgb.Color{G: 0xFF}
	return xyzrgb.BufferOf([]xyzrgb.Point{
		{Color: green}, {X: l, Color: green},
		{Color: green}, {Y: l, Color: green},
		{Color: green}, {Z: l, Color: green},
	})
}
