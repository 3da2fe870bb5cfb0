package resources

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"glscene/internal/config"
	"glscene/internal/gpu/gputest"
	"glscene/internal/shader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, dir, name string, w, h int, c color.RGBA) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestFromImage(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "small kept", w: 16, h: 8, wantW: 16, wantH: 8},
		{name: "wide scaled", w: 4096, h: 1024, wantW: MaxTextureSize, wantH: 512},
		{name: "tall scaled", w: 100, h: 4096, wantW: 50, wantH: MaxTextureSize},
		{name: "thin clamped", w: 8192, h: 1, wantW: MaxTextureSize, wantH: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(3, 3, 3+tt.w, 3+tt.h))
			tex := FromImage(tt.name, src)
			assert.Equal(t, tt.name, tex.Name)
			assert.Equal(t, image.Rect(0, 0, tt.wantW, tt.wantH), tex.Image.Rect)
			assert.False(t, tex.Uploaded())
		})
	}
}

func TestSolid(t *testing.T) {
	c := color.RGBA{1, 2, 3, 4}
	tex := Solid("s", c)
	assert.Equal(t, image.Rect(0, 0, 1, 1), tex.Image.Rect)
	assert.Equal(t, c, tex.Image.RGBAAt(0, 0))
}

func TestTextureUploadIdempotent(t *testing.T) {
	dev := gputest.New()
	tex := Solid("s", color.RGBA{255, 255, 255, 255})

	tex.Upload(dev)
	id := tex.ID
	tex.Upload(dev)
	assert.Equal(t, id, tex.ID)
	assert.Equal(t, 1, dev.Count("UploadTexture"))

	tex.Release(dev)
	tex.Release(dev)
	assert.False(t, tex.Uploaded())
	assert.Equal(t, 1, dev.Count("DeleteTexture"))
}

func TestDecodeFile(t *testing.T) {
	dir := t.TempDir()
	path := writePNG(t, dir, "red.png", 4, 2, color.RGBA{255, 0, 0, 255})

	tex, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), tex.Image.Rect)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, tex.Image.RGBAAt(3, 1))

	_, err = DecodeFile(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	junk := filepath.Join(dir, "junk.png")
	require.NoError(t, os.WriteFile(junk, []byte("not an image"), 0o644))
	_, err = DecodeFile(junk)
	assert.Error(t, err)
}

func TestTextureCache(t *testing.T) {
	path := writePNG(t, t.TempDir(), "a.png", 2, 2, color.RGBA{0, 255, 0, 255})
	res := New(config.Default())

	a, err := res.Texture(path)
	require.NoError(t, err)
	b, err := res.Texture(path)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestAddReleasesGeneratedTexture(t *testing.T) {
	dev := gputest.New()
	p, err := shader.Build(dev, shader.TagMain)
	require.NoError(t, err)
	res := New(config.Default())
	require.NoError(t, res.Init(dev, p))

	gen := res.Add("generated/ridges", Solid("ridges", color.RGBA{128, 200, 255, 255}))
	assert.Same(t, gen, res.Add("generated/ridges", Solid("other", color.RGBA{})))
	gen.Upload(dev)

	res.Release()
	assert.Equal(t, 3, dev.Count("DeleteTexture"))
	assert.False(t, gen.Uploaded())
}

func TestInitDefaults(t *testing.T) {
	dev := gputest.New()
	p, err := shader.Build(dev, shader.TagMain)
	require.NoError(t, err)

	res := New(config.Default())
	require.NoError(t, res.Init(dev, p))
	assert.True(t, res.Initialized())

	require.NotNil(t, res.DefaultTexture)
	require.NotNil(t, res.DefaultNormalTexture)
	assert.True(t, res.DefaultTexture.Uploaded())
	assert.Equal(t, color.RGBA{128, 128, 255, 255}, res.DefaultNormalTexture.Image.RGBAAt(0, 0))

	sampler := dev.UniformWrites("normalTexture")
	require.Len(t, sampler, 1)
	assert.Equal(t, int32(config.NormalTextureUnit), sampler[0].Int)

	// a second Init keeps the uploaded defaults
	defaults := res.DefaultTexture
	require.NoError(t, res.Init(dev, p))
	assert.Same(t, defaults, res.DefaultTexture)
	assert.Equal(t, 2, dev.Count("UploadTexture"))

	res.Release()
	assert.Equal(t, 2, dev.Count("DeleteTexture"))
}

func TestInitFromFiles(t *testing.T) {
	dir := t.TempDir()
	settings := config.Default()
	settings.DefaultTexture = writePNG(t, dir, "white.png", 2, 2, color.RGBA{200, 200, 200, 255})

	dev := gputest.New()
	p, err := shader.Build(dev, shader.TagMain)
	require.NoError(t, err)

	res := New(settings)
	require.NoError(t, res.Init(dev, p))
	assert.Equal(t, image.Rect(0, 0, 2, 2), res.DefaultTexture.Image.Rect)

	settings.DefaultNormalTexture = filepath.Join(dir, "missing.png")
	failing := New(settings)
	err = failing.Init(dev, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "default_normal")
	assert.False(t, failing.Initialized())
}
