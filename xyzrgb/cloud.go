// Package xyzrgb loads colored point clouds stored as "x y z r g b" text
// records and exposes them as an interleaved render buffer.
package xyzrgb

import (
	"errors"
	"io"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
)

// Render buffer layout. Each point occupies Stride bytes: x, y, z as
// float32 at offsets 0, 4 and 8, followed by the color packed as a
// 0x00RRGGBB uint32 at ColorOffset. Values are stored in the host byte
// order, which is little endian on every supported target, so the color
// bytes read B, G, R, 0 in memory.
const (
	Stride      = 16
	ColorOffset = 12
)

var errEmpty = errors.New("empty point cloud")

// Color is an 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Packed returns the color as 0x00RRGGBB.
func (c Color) Packed() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// UnpackColor decodes a 0x00RRGGBB value.
func UnpackColor(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Point is a colored position. Z is already flipped to the renderer's
// axis convention.
type Point struct {
	X, Y, Z float64
	Color   Color
}

// Cloud is an ordered, immutable list of points.
type Cloud struct {
	points []Point
}

func newCloud(recs []record) *Cloud {
	c := &Cloud{points: make([]Point, len(recs))}
	for i, rec := range recs {
		c.points[i] = rec.point()
	}
	return c
}

// Len returns the number of points.
func (c *Cloud) Len() int {
	return len(c.points)
}

// At returns the i-th point in file order.
func (c *Cloud) At(i int) Point {
	return c.points[i]
}

// Points returns a copy of all points.
func (c *Cloud) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

// Buffer builds the interleaved render buffer as an unorganized PCD
// point cloud with fields x, y, z and rgb.
func (c *Cloud) Buffer() *pc.PointCloud {
	return BufferOf(c.points)
}

// BufferOf builds a render buffer of arbitrary points.
func BufferOf(points []Point) *pc.PointCloud {
	pp := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version:   0.7,
			Fields:    []string{"x", "y", "z", "rgb"},
			Size:      []int{4, 4, 4, 4},
			Type:      []string{"F", "F", "F", "U"},
			Count:     []int{1, 1, 1, 1},
			Width:     len(points),
			Height:    1,
			Viewpoint: []float32{0, 0, 0, 1, 0, 0, 0},
		},
		Points: len(points),
		Data:   make([]byte, len(points)*Stride),
	}
	if len(points) == 0 {
		return pp
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		panic(err)
	}
	itC, err := pp.Uint32Iterator("rgb")
	if err != nil {
		panic(err)
	}
	for _, p := range points {
		it.SetVec3(mat.Vec3{float32(p.X), float32(p.Y), float32(p.Z)})
		itC.SetUint32(p.Color.Packed())
		it.Incr()
		itC.Incr()
	}
	return pp
}

// Bounds returns the axis aligned bounding box of the cloud in render
// coordinates.
func (c *Cloud) Bounds() (min, max mat.Vec3, err error) {
	if len(c.points) == 0 {
		return mat.Vec3{}, mat.Vec3{}, errEmpty
	}
	it, err := c.Buffer().Vec3Iterator()
	if err != nil {
		return mat.Vec3{}, mat.Vec3{}, err
	}
	return pc.MinMaxVec3(it)
}

// WritePCD writes the render buffer as a PCD file.
func (c *Cloud) WritePCD(w io.Writer) error {
	return pc.Marshal(c.Buffer(), w)
}
