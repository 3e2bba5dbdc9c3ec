package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"polar-anaglyph/internal/input"
	"polar-anaglyph/internal/logging"
	"polar-anaglyph/internal/scene"
	"polar-anaglyph/internal/stereo"
	"polar-anaglyph/internal/surface"
)

// Config holds everything a render run needs: the frame size, the scene, the
// per-frame inputs and where the images go.
type Config struct {
	// Output
	Output    string `json:"output" toml:"output"`
	OutputDir string `json:"output_dir" toml:"output_dir"`
	Format    string `json:"format" toml:"format"`

	// Render settings
	Width       int    `json:"width" toml:"width"`
	Height      int    `json:"height" toml:"height"`
	Supersample int    `json:"supersample" toml:"supersample"`
	Workers     int    `json:"workers" toml:"workers"`
	Mode        string `json:"mode" toml:"mode"`
	Texture     string `json:"texture" toml:"texture"`

	// Scene
	Camera  stereo.Params  `json:"camera" toml:"camera"`
	Surface surface.Params `json:"surface" toml:"surface"`

	// Per-frame inputs
	Filled        bool              `json:"filled" toml:"filled"`
	EyeSeparation int               `json:"eye_separation" toml:"eye_separation"`
	Orientation   input.Orientation `json:"orientation" toml:"orientation"`
	Drags         []Drag            `json:"drags" toml:"drags"`

	Sweep Sweep           `json:"sweep" toml:"sweep"`
	Log   logging.Options `json:"log" toml:"log"`
}

// Drag is one trackball gesture in pixel coordinates of the output frame.
type Drag struct {
	FromX float64 `json:"from_x" toml:"from_x"`
	FromY float64 `json:"from_y" toml:"from_y"`
	ToX   float64 `json:"to_x" toml:"to_x"`
	ToY   float64 `json:"to_y" toml:"to_y"`
}

// Sweep renders Frames frames with alpha stepping from AlphaFrom to AlphaTo
// (degrees, end exclusive). Frames <= 1 renders a single image.
type Sweep struct {
	Frames    int     `json:"frames" toml:"frames"`
	AlphaFrom float64 `json:"alpha_from" toml:"alpha_from"`
	AlphaTo   float64 `json:"alpha_to" toml:"alpha_to"`
}

// Default returns the configuration used when no file is given. Load starts
// from it, so a file only needs the keys it changes.
func Default() Config {
	return Config{
		Output:        "polar.webp",
		OutputDir:     "frames",
		Width:         512,
		Height:        512,
		Supersample:   1,
		Mode:          scene.ModeAnaglyph.String(),
		Camera:        stereo.DefaultParams(),
		Surface:       surface.DefaultParams(),
		EyeSeparation: input.DefaultRenderState().EyeSeparation,
		Sweep:         Sweep{AlphaTo: 360},
	}
}

// Load reads a JSON or TOML (by extension) config file over Default().
// Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
// Zero values, and a negative EyeSeparation, leave the file's setting alone.
type Flags struct {
	Output        string
	OutputDir     string
	Width         int
	Height        int
	Supersample   int
	Workers       int
	Mode          string
	Texture       string
	Filled        bool
	EyeSeparation int
	Frames        int
	LogLevel      string
}

// Resolve applies flags, then fills derived settings.
// Width and Height are not defaulted: a zero-sized frame is reported by the
// graphics backend.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Output != "" {
		c.Output = flags.Output
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Mode != "" {
		c.Mode = flags.Mode
	}
	if flags.Texture != "" {
		c.Texture = flags.Texture
	}
	if flags.Filled {
		c.Filled = true
	}
	if flags.EyeSeparation >= 0 {
		c.EyeSeparation = flags.EyeSeparation
	}
	if flags.Frames > 0 {
		c.Sweep.Frames = flags.Frames
	}
	if flags.LogLevel != "" {
		c.Log.Level = flags.LogLevel
	}

	// Defaults for render settings
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Format == "" {
		c.Format = formatFromPath(c.Output)
	}
	c.Format = strings.ToLower(c.Format)
}

// RenderWidth and RenderHeight are the supersampled frame size.
func (c *Config) RenderWidth() int  { return c.Width * c.Supersample }
func (c *Config) RenderHeight() int { return c.Height * c.Supersample }

// SceneOptions returns the renderer options, minus the texture image which the
// caller loads from c.Texture.
func (c *Config) SceneOptions() (scene.Options, error) {
	mode, err := scene.ParseMode(c.Mode)
	if err != nil {
		return scene.Options{}, fmt.Errorf("config: %w", err)
	}
	return scene.Options{
		Mode:    mode,
		Surface: c.Surface,
		Camera:  c.Camera,
	}, nil
}

// State returns the frame inputs: fill toggle, eye separation, device
// orientation and the view left by replaying Drags on a trackball.
func (c *Config) State() input.RenderState {
	s := input.DefaultRenderState().
		WithFilled(c.Filled).
		WithEyeSeparation(c.EyeSeparation).
		WithOrientation(c.Orientation)

	if len(c.Drags) > 0 {
		tb := input.NewTrackball(c.Width, c.Height, 0)
		for _, d := range c.Drags {
			s = s.WithView(tb.Drag(d.FromX, d.FromY, d.ToX, d.ToY))
		}
	}
	return s
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	default:
		return "webp"
	}
}
