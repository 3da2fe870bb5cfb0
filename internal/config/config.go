package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

// Light ceiling bounds. The upper bound matches the lights array declared in
// assets/shaders/main.frag.
const (
	MinLights     = 1
	MaxLightLimit = 16
)

// Texture units shared between the renderer and the main shader.
const (
	DiffuseTextureUnit = 0
	NormalTextureUnit  = 1
)

// WindowSettings configures the viewer window.
type WindowSettings struct {
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
	Title  string `toml:"title"`
}

// Settings holds render configuration. It is built once, optionally read
// from a TOML file, and handed by reference to whatever needs it.
type Settings struct {
	// LightLimit is the requested light ceiling; read it through MaxLights.
	LightLimit int `toml:"max_lights"`

	ClearColor [4]float32 `toml:"clear_color"`
	Ambient    [3]float32 `toml:"ambient"`
	Gamma      float32    `toml:"gamma"`

	ShadersDir           string `toml:"shaders_dir"`
	DefaultTexture       string `toml:"default_texture"`
	DefaultNormalTexture string `toml:"default_normal_texture"`

	// StrictHandles turns unresolved uniform or subroutine names into an
	// Init failure instead of a logged warning.
	StrictHandles bool `toml:"strict_handles"`

	FPSLimit int            `toml:"fps_limit"`
	Window   WindowSettings `toml:"window"`
}

// Default returns the settings used when no file is given.
func Default() *Settings {
	return &Settings{
		LightLimit: 8,
		ClearColor: [4]float32{0, 0, 0, 1},
		Ambient:    [3]float32{0.08, 0.08, 0.1},
		Gamma:      2.2,
		ShadersDir: "assets/shaders",
		FPSLimit:   120,
		Window: WindowSettings{
			Width:  900,
			Height: 600,
			Title:  "glscene",
		},
	}
}

// Load reads settings from a TOML file on top of Default.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML settings on top of Default. Unknown keys are rejected.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("parse config: %s", strict.String())
		}
		return nil, fmt.Errorf("parse config: %w", err)
	}
	s.SetMaxLights(s.LightLimit)
	if s.Gamma <= 0 {
		s.Gamma = 1
	}
	return s, nil
}

// Marshal encodes s as TOML.
func (s *Settings) Marshal() ([]byte, error) {
	return toml.Marshal(s)
}

// MaxLights returns the maximum number of registered lights.
func (s *Settings) MaxLights() int {
	return clampLights(s.LightLimit)
}

// SetMaxLights sets the light ceiling, clamped to what the shader supports.
func (s *Settings) SetMaxLights(n int) {
	s.LightLimit = clampLights(n)
}

func clampLights(n int) int {
	if n < MinLights {
		return MinLights
	}
	if n > MaxLightLimit {
		return MaxLightLimit
	}
	return n
}

// Clear returns the clear color as a vector.
func (s *Settings) Clear() mgl32.Vec4 {
	return mgl32.Vec4(s.ClearColor)
}

// PushTo uploads the global settings into p. p must be bound.
func (s *Settings) PushTo(p *shader.Program) {
	p.SetInt("maxLightNumber", int32(s.MaxLights()))
	p.SetVec3("ambientColor", mgl32.Vec3(s.Ambient))
	p.SetFloat("gamma", s.Gamma)
}
