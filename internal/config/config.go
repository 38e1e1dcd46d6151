// Package config holds the viewer settings. Defaults are overridden by a
// TOML file, which is in turn overridden by command line flags.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/thedaneeffect/ebiten-objviewer/internal/camera"
	"github.com/thedaneeffect/ebiten-objviewer/internal/raster"
	"github.com/thedaneeffect/ebiten-objviewer/internal/source"
)

type Config struct {
	Window  Window         `toml:"window"`
	Camera  Camera         `toml:"camera"`
	Light   Light          `toml:"light"`
	Loader  Loader         `toml:"loader"`
	Profile Profile        `toml:"profile"`
	Models  []source.Model `toml:"models"`

	LogLevel string `toml:"log_level"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	VSync  bool   `toml:"vsync"`
	CPU    bool   `toml:"cpu"` // start with the software rasterizer
}

type Camera struct {
	Distance        float32 `toml:"distance"`
	MinDistance     float32 `toml:"min_distance"`
	MaxDistance     float32 `toml:"max_distance"`
	FOV             float32 `toml:"fov"` // degrees
	DragSensitivity float32 `toml:"drag_sensitivity"`
	ZoomSpeed       float32 `toml:"zoom_speed"`
	AutoRotate      float32 `toml:"auto_rotate"` // radians per second
}

type Light struct {
	Direction  [3]float32 `toml:"direction"`
	Color      [3]float32 `toml:"color"`
	Ambient    float32    `toml:"ambient"`
	Background [3]uint8   `toml:"background"`
}

type Loader struct {
	CacheSize int  `toml:"cache_size"`
	Watch     bool `toml:"watch"`
}

type Profile struct {
	CPUProfile string `toml:"cpu_profile"`
	MemProfile string `toml:"mem_profile"`
	PprofAddr  string `toml:"pprof_addr"`
}

func Default() Config {
	l := raster.DefaultLight()
	p := camera.DefaultParams()
	return Config{
		Window: Window{
			Title:  "005-viewer",
			Width:  1024,
			Height: 1024,
			VSync:  true,
		},
		Camera: Camera{
			Distance:        4,
			MinDistance:     p.MinDistance,
			MaxDistance:     p.MaxDistance,
			FOV:             60,
			DragSensitivity: p.Sensitivity,
			ZoomSpeed:       p.ZoomSpeed,
		},
		Light: Light{
			Direction:  l.Direction,
			Color:      l.Color,
			Ambient:    l.Ambient,
			Background: [3]uint8{130, 130, 130},
		},
		Loader: Loader{
			CacheSize: 8,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults. Unknown keys are rejected so typos
// don't silently fall back to defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if len(c.Models) == 0 {
		errs = append(errs, errors.New("no models configured"))
	}
	for i, m := range c.Models {
		if m.OBJ == "" {
			errs = append(errs, fmt.Errorf("model %d (%s) has no obj", i, m.Name))
		}
	}
	if c.Camera.MinDistance <= 0 || c.Camera.MinDistance > c.Camera.MaxDistance {
		errs = append(errs, fmt.Errorf("camera distance range [%v, %v] is invalid", c.Camera.MinDistance, c.Camera.MaxDistance))
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %v must be in (0, 180)", c.Camera.FOV))
	}
	if c.Loader.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("loader cache size %d must be positive", c.Loader.CacheSize))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (c Camera) Params() camera.Params {
	return camera.Params{
		Sensitivity: c.DragSensitivity,
		ZoomSpeed:   c.ZoomSpeed,
		MinDistance: c.MinDistance,
		MaxDistance: c.MaxDistance,
		AutoRotate:  c.AutoRotate,
	}
}

func (c Camera) FOVRadians() float32 {
	return mgl.DegToRad(c.FOV)
}

func (l Light) Light() raster.Light {
	return raster.Light{
		Direction: l.Direction,
		Color:     l.Color,
		Ambient:   l.Ambient,
	}
}

func (l Light) BackgroundColor() color.RGBA {
	return color.RGBA{R: l.Background[0], G: l.Background[1], B: l.Background[2], A: math.MaxUint8}
}
