package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/seqsense/pcdviewer/camera"
	"github.com/seqsense/pcgol/mat"
	"gopkg.in/yaml.v3"
)

// Window is the initial window size.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Config holds the viewer tunables.
type Config struct {
	RotationScale    float64 `yaml:"rotation_scale"`
	TranslationScale float64 `yaml:"translation_scale"`
	WheelIncrement   float64 `yaml:"wheel_increment"`
	PointSize        int     `yaml:"point_size"`
	DrawAxes         bool    `yaml:"draw_axes"`
	AxesLength       float64 `yaml:"axes_length"`
	Window           Window  `yaml:"window"`
	// FOV is the vertical field of view in degrees.
	FOV  float64 `yaml:"fov"`
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// DefaultConfig returns the built-in tunables.
func DefaultConfig() *Config {
	g := camera.DefaultGains()
	return &Config{
		RotationScale:    g.Rotation,
		TranslationScale: g.Translation,
		WheelIncrement:   g.Wheel,
		PointSize:        1,
		DrawAxes:         true,
		AxesLength:       50,
		Window: Window{
			Width:  640,
			Height: 480,
		},
		FOV:  60,
		Near: 0.1,
		Far:  200,
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults. A leading ~ is expanded to the home directory.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if path == "" {
		return c, nil
	}
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if err := c.decode(b); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c *Config) decode(b []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return c.Validate()
}

// Validate checks that the config describes a usable view.
func (c *Config) Validate() error {
	switch {
	case !isFinite(c.RotationScale, c.TranslationScale, c.WheelIncrement, c.AxesLength, c.FOV, c.Near, c.Far):
		return errors.New("scales, axes_length, fov, near and far must be finite")
	case c.PointSize < 1:
		return errors.New("point_size must be positive")
	case c.Window.Width < 1 || c.Window.Height < 1:
		return errors.New("window size must be positive")
	case c.FOV <= 0 || c.FOV >= 180:
		return errors.New("fov must be within (0, 180)")
	case c.Near <= 0 || c.Far <= c.Near:
		return errors.New("near and far must satisfy 0 < near < far")
	case c.AxesLength < 0:
		return errors.New("axes_length must not be negative")
	}
	return nil
}

func isFinite(fs ...float64) bool {
	for _, f := range fs {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// Gains returns the controller gains.
func (c *Config) Gains() camera.Gains {
	return camera.Gains{
		Rotation:    c.RotationScale,
		Translation: c.TranslationScale,
		Wheel:       c.WheelIncrement,
	}
}

// Projection returns the perspective projection for a viewport.
// mat.Perspective takes the horizontal field of view, so FOV is widened
// by the aspect ratio to keep it vertical.
func (c *Config) Projection(width, height int) mat.Mat4 {
	if height < 1 {
		height = 1
	}
	aspect := float64(width) / float64(height)
	fovX := 2 * math.Atan(math.Tan(c.FOV*math.Pi/360)*aspect)
	return mat.Perspective(
		float32(fovX),
		float32(aspect),
		float32(c.Near), float32(c.Far),
	)
}
