//go:build !js

// Package desktop shows a viewer session in a native window.
package desktop

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/seqsense/pcdviewer/camera"
	"github.com/seqsense/pcdviewer/viewer"
)

var buttons = []struct {
	ebiten ebiten.MouseButton
	camera camera.Button
}{
	{ebiten.MouseButtonLeft, camera.ButtonPrimary},
	{ebiten.MouseButtonRight, camera.ButtonSecondary},
	{ebiten.MouseButtonMiddle, camera.ButtonTertiary},
}

// Run opens a window showing s and blocks until it is closed.
func Run(s *viewer.Session, title string) error {
	w, h := s.Size()
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(&game{s: s})
}

type game struct {
	s   *viewer.Session
	img *ebiten.Image
}

func (g *game) Update() error {
	var in viewer.InputState
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustReleased(b.ebiten) {
			in.Released = append(in.Released, b.camera)
		}
		if inpututil.IsMouseButtonJustPressed(b.ebiten) {
			in.Pressed = append(in.Pressed, b.camera)
		}
	}
	in.X, in.Y = ebiten.CursorPosition()
	_, in.WheelY = ebiten.Wheel()
	g.s.Apply(in)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	frame, updated := g.s.Frame()
	b := frame.Rect
	if g.img == nil || g.img.Bounds().Dx() != b.Dx() || g.img.Bounds().Dy() != b.Dy() {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(b.Dx(), b.Dy())
		updated = true
	}
	if updated {
		g.img.WritePixels(frame.Pix)
	}
	screen.DrawImage(g.img, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.s.Resize(outsideWidth, outsideHeight)
	return g.s.Size()
}
