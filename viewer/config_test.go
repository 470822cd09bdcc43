package viewer

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/seqsense/pcdviewer/camera"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "pcdviewer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	testCases := map[string]struct {
		body     string
		expected func(c *Config)
	}{
		"Empty": {
			body:     "",
			expected: func(c *Config) {},
		},
		"Overlay": {
			body: "rotation_scale: 0.5\ndraw_axes: false\nwindow:\n  width: 800\n",
			expected: func(c *Config) {
				c.RotationScale = 0.5
				c.DrawAxes = false
				c.Window.Width = 800
			},
		},
		"Projection": {
			body: "fov: 45\nnear: 1\nfar: 1000\npoint_size: 2\n",
			expected: func(c *Config) {
				c.FOV = 45
				c.Near = 1
				c.Far = 1000
				c.PointSize = 2
			},
		},
	}

	for name, tt := range testCases {
		t.Run(name, func(t *testing.T) {
			c, err := LoadConfig(writeConfig(t, t.TempDir(), tt.body))
			require.NoError(t, err)

			expected := DefaultConfig()
			tt.expected(expected)
			assert.Equal(t, expected, c)
		})
	}
}

func TestLoadConfig_Error(t *testing.T) {
	testCases := map[string]string{
		"UnknownField":   "rotation: 1\n",
		"WrongType":      "point_size: large\n",
		"ZeroPointSize":  "point_size: 0\n",
		"NearBehindFar":  "near: 10\nfar: 5\n",
		"ZeroNear":       "near: 0\n",
		"WideFOV":        "fov: 180\n",
		"NegativeLength": "axes_length: -1\n",
		"ZeroWindow":     "window:\n  height: 0\n",
		"NaNFOV":         "fov: .nan\n",
		"NaNNear":        "near: .nan\n",
		"InfFar":         "far: .inf\n",
		"NaNAxesLength":  "axes_length: .nan\n",
		"NaNGain":        "rotation_scale: .nan\n",
	}

	for name, body := range testCases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), body)
			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), path)
		})
	}
}

func TestLoadConfig_Default(t *testing.T) {
	c, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.Equal(t, camera.DefaultGains(), c.Gains())
}

func TestLoadConfig_HomeDir(t *testing.T) {
	homedir.DisableCache = true
	defer func() { homedir.DisableCache = false }()

	home := t.TempDir()
	t.Setenv("HOME", home)
	writeConfig(t, home, "wheel_increment: 2.5\n")

	c, err := LoadConfig("~/pcdviewer.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.WheelIncrement)
	assert.Equal(t, 2.5, c.Gains().Wheel)
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Projection(t *testing.T) {
	testCases := map[string]struct {
		fov           float64
		width, height int
	}{
		"Default": {fov: 60, width: 640, height: 480},
		"Square":  {fov: 60, width: 100, height: 100},
		"Tall":    {fov: 45, width: 300, height: 600},
		"Narrow":  {fov: 10, width: 1920, height: 1080},
	}

	for name, tt := range testCases {
		t.Run(name, func(t *testing.T) {
			c := DefaultConfig()
			c.FOV = tt.fov
			p := c.Projection(tt.width, tt.height)

			cot := 1 / math.Tan(tt.fov*math.Pi/360)
			aspect := float64(tt.width) / float64(tt.height)
			assert.InDelta(t, cot, float64(p[5]), 1e-4, "Vertical scale must follow fov")
			assert.InDelta(t, cot/aspect, float64(p[0]), 1e-4, "Horizontal scale must follow aspect")
		})
	}
}
