package config

import (
	"os"
	"path/filepath"
	"testing"

	"glscene/internal/gpu/gputest"
	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	s, err := Parse([]byte(`
max_lights = 4
clear_color = [0.1, 0.2, 0.3, 1.0]
gamma = 1.8
strict_handles = true

[window]
width = 1280
title = "test"
`))
	require.NoError(t, err)

	assert.Equal(t, 4, s.MaxLights())
	assert.Equal(t, mgl32.Vec4{0.1, 0.2, 0.3, 1}, s.Clear())
	assert.Equal(t, float32(1.8), s.Gamma)
	assert.True(t, s.StrictHandles)
	assert.Equal(t, 1280, s.Window.Width)
	assert.Equal(t, "test", s.Window.Title)

	// untouched keys keep their defaults
	def := Default()
	assert.Equal(t, def.Window.Height, s.Window.Height)
	assert.Equal(t, def.ShadersDir, s.ShadersDir)
	assert.Equal(t, def.Ambient, s.Ambient)
}

func TestParseClamps(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantLight int
		wantGamma float32
	}{
		{name: "too many lights", input: "max_lights = 100", wantLight: MaxLightLimit, wantGamma: 2.2},
		{name: "zero lights", input: "max_lights = 0", wantLight: MinLights, wantGamma: 2.2},
		{name: "negative gamma", input: "gamma = -1.0", wantLight: 8, wantGamma: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.wantLight, s.MaxLights())
			assert.Equal(t, tt.wantGamma, s.Gamma)
		})
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("max_light = 3"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_light")
}

func TestParseRejectsBadSyntax(t *testing.T) {
	_, err := Parse([]byte("max_lights = "))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glscene.toml")
	require.NoError(t, os.WriteFile(path, []byte("fps_limit = 30\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, s.FPSLimit)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	s := Default()
	s.SetMaxLights(3)
	s.DefaultTexture = "assets/textures/white.png"

	data, err := s.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, s.LightLimit, back.LightLimit)
	assert.Equal(t, s.DefaultTexture, back.DefaultTexture)
	assert.Equal(t, s.Window, back.Window)
	assert.Equal(t, s.FPSLimit, back.FPSLimit)
	assert.InDelta(t, s.Gamma, back.Gamma, 1e-6)
}

func TestMaxLightsClampsDirectWrites(t *testing.T) {
	s := Default()
	s.LightLimit = 99
	assert.Equal(t, MaxLightLimit, s.MaxLights())
	s.SetMaxLights(-3)
	assert.Equal(t, MinLights, s.LightLimit)
}

func TestPushTo(t *testing.T) {
	dev := gputest.New()
	p, err := shader.Build(dev, shader.TagMain)
	require.NoError(t, err)

	s := Default()
	s.SetMaxLights(6)
	s.PushTo(p)

	lights := dev.UniformWrites("maxLightNumber")
	require.Len(t, lights, 1)
	assert.Equal(t, int32(6), lights[0].Int)

	ambient := dev.UniformWrites("ambientColor")
	require.Len(t, ambient, 1)
	assert.Equal(t, mgl32.Vec3(s.Ambient), ambient[0].Vec3)

	gamma := dev.UniformWrites("gamma")
	require.Len(t, gamma, 1)
	assert.Equal(t, s.Gamma, gamma[0].Float)
}

func TestSampleFileMatchesDefaults(t *testing.T) {
	s, err := Load(filepath.Join("..", "..", "glscene.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), s)
}
