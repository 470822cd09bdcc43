// Package raster draws point clouds into RGBA images without a GPU.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// minW is the clip space w of the near clipping plane used for axis lines.
const minW = 1e-5

// Renderer draws points as squares with a depth test. It keeps its depth
// buffer between calls and is not safe for concurrent use.
type Renderer struct {
	// PointSize is the side of the square drawn for each point in pixels.
	PointSize int
	// Axes enables coordinate axes from the origin with X, Y and Z labels.
	Axes       bool
	AxesLength float32
	AxesColor  color.RGBA
	Background color.RGBA

	depth []float32
}

type vertex struct {
	x, y, z float32
}

// Render clears dst and draws buf transformed by proj * view. buf must
// have x, y, z and rgb fields, rgb packed as 0x00RRGGBB.
func (r *Renderer) Render(dst *image.RGBA, buf *pc.PointCloud, view, proj mat.Mat4) error {
	r.clear(dst)
	m := proj.Mul(view)

	if buf != nil && buf.Points > 0 {
		it, err := buf.Vec3Iterator()
		if err != nil {
			return err
		}
		itC, err := buf.Uint32Iterator("rgb")
		if err != nil {
			return err
		}
		size := r.PointSize
		if size < 1 {
			size = 1
		}
		for ; it.IsValid(); it.Incr() {
			c := itC.Uint32()
			itC.Incr()
			v, ok := project(dst.Rect, m, it.Vec3())
			if !ok {
				continue
			}
			r.plotPoint(dst, v, size, color.RGBA{
				R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xFF,
			})
		}
	}

	if r.Axes {
		r.drawAxes(dst, m)
	}
	return nil
}

func (r *Renderer) clear(dst *image.RGBA) {
	n := dst.Rect.Dx() * dst.Rect.Dy()
	if cap(r.depth) < n {
		r.depth = make([]float32, n)
	}
	r.depth = r.depth[:n]
	for i := range r.depth {
		r.depth[i] = 1
	}
	bg := r.Background
	for y := dst.Rect.Min.Y; y < dst.Rect.Max.Y; y++ {
		for x := dst.Rect.Min.X; x < dst.Rect.Max.X; x++ {
			dst.SetRGBA(x, y, bg)
		}
	}
}

// plot writes c at (x, y) if it passes the LEQUAL depth test.
func (r *Renderer) plot(dst *image.RGBA, x, y int, z float32, c color.RGBA) {
	p := image.Pt(x, y)
	if !p.In(dst.Rect) {
		return
	}
	i := (y-dst.Rect.Min.Y)*dst.Rect.Dx() + (x - dst.Rect.Min.X)
	if z > r.depth[i] {
		return
	}
	r.depth[i] = z
	dst.SetRGBA(x, y, c)
}

func (r *Renderer) plotPoint(dst *image.RGBA, v vertex, size int, c color.RGBA) {
	x0 := int(math.Floor(float64(v.x))) - (size-1)/2
	y0 := int(math.Floor(float64(v.y))) - (size-1)/2
	for y := y0; y < y0+size; y++ {
		for x := x0; x < x0+size; x++ {
			r.plot(dst, x, y, v.z, c)
		}
	}
}

func (r *Renderer) drawAxes(dst *image.RGBA, m mat.Mat4) {
	l := r.AxesLength
	ends := []struct {
		v     mat.Vec3
		label string
	}{
		{mat.Vec3{l, 0, 0}, "X"},
		{mat.Vec3{0, l, 0}, "Y"},
		{mat.Vec3{0, 0, l}, "Z"},
	}
	origin := clip(m, mat.Vec3{})
	for _, e := range ends {
		end := clip(m, e.v)
		r.drawLine(dst, origin, end)
		if v, ok := toScreen(dst.Rect, end); ok {
			r.drawLabel(dst, v, e.label)
		}
	}
}

func (r *Renderer) drawLine(dst *image.RGBA, a, b [4]float32) {
	a, b, ok := clipNear(a, b)
	if !ok {
		return
	}
	va := ndcToScreen(dst.Rect, a)
	vb := ndcToScreen(dst.Rect, b)

	dx := float64(vb.x - va.x)
	dy := float64(vb.y - va.y)
	n := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if n == 0 {
		n = 1
	}
	// Lines longer than this are far outside of any window.
	if n > 1<<16 {
		return
	}
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		x := va.x + (vb.x-va.x)*t
		y := va.y + (vb.y-va.y)*t
		z := va.z + (vb.z-va.z)*t
		if z < -1 || 1 < z {
			continue
		}
		r.plot(dst, int(math.Floor(float64(x))), int(math.Floor(float64(y))), z, r.AxesColor)
	}
}

func (r *Renderer) drawLabel(dst *image.RGBA, v vertex, label string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.AxesColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(int(v.x), int(v.y)),
	}
	d.DrawString(label)
}

func clip(m mat.Mat4, v mat.Vec3) [4]float32 {
	var out [4]float32
	for i := range out {
		out[i] = m[i]*v[0] + m[4+i]*v[1] + m[8+i]*v[2] + m[12+i]
	}
	return out
}

// clipNear trims the segment to the part in front of the camera.
func clipNear(a, b [4]float32) ([4]float32, [4]float32, bool) {
	switch {
	case a[3] < minW && b[3] < minW:
		return a, b, false
	case a[3] < minW:
		a = lerp4(b, a, (b[3]-minW)/(b[3]-a[3]))
	case b[3] < minW:
		b = lerp4(a, b, (a[3]-minW)/(a[3]-b[3]))
	}
	return a, b, true
}

func lerp4(a, b [4]float32, t float32) [4]float32 {
	var out [4]float32
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

func ndcToScreen(rect image.Rectangle, c [4]float32) vertex {
	x, y, z := c[0]/c[3], c[1]/c[3], c[2]/c[3]
	return vertex{
		x: float32(rect.Min.X) + (x+1)/2*float32(rect.Dx()),
		y: float32(rect.Min.Y) + (1-y)/2*float32(rect.Dy()),
		z: z,
	}
}

// toScreen returns the window position of a clip space point inside the
// view volume.
func toScreen(rect image.Rectangle, c [4]float32) (vertex, bool) {
	w := c[3]
	if w <= 0 {
		return vertex{}, false
	}
	for i := 0; i < 3; i++ {
		if c[i] < -w || w < c[i] {
			return vertex{}, false
		}
	}
	return ndcToScreen(rect, c), true
}

func project(rect image.Rectangle, m mat.Mat4, v mat.Vec3) (vertex, bool) {
	return toScreen(rect, clip(m, v))
}
