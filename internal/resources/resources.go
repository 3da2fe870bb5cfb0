// Package resources holds textures shared across the scene: the defaults
// bound when a material has none of its own, and a path-keyed cache.
package resources

import (
	"fmt"
	"image/color"

	"glscene/internal/config"
	"glscene/internal/gpu"
	"glscene/internal/shader"
)

// Resources is process-wide texture state. It is created from settings and
// initialized once against the main program.
type Resources struct {
	settings *config.Settings

	DefaultTexture       *Texture
	DefaultNormalTexture *Texture

	cache       map[string]*Texture
	dev         gpu.Device
	initialized bool
}

func New(settings *config.Settings) *Resources {
	return &Resources{
		settings: settings,
		cache:    make(map[string]*Texture),
	}
}

// Init loads and uploads the default textures and binds the sampler units
// in p. p must be bound.
func (r *Resources) Init(dev gpu.Device, p *shader.Program) error {
	r.dev = dev

	// a second Init, after the main program is replaced, keeps the defaults
	if !r.initialized {
		var err error
		r.DefaultTexture, err = r.loadOr(r.settings.DefaultTexture, "default", color.RGBA{255, 255, 255, 255})
		if err != nil {
			return err
		}
		r.DefaultNormalTexture, err = r.loadOr(r.settings.DefaultNormalTexture, "default_normal", color.RGBA{128, 128, 255, 255})
		if err != nil {
			return err
		}
	}
	r.DefaultTexture.Upload(dev)
	r.DefaultNormalTexture.Upload(dev)

	p.SetInt("diffuseTexture", config.DiffuseTextureUnit)
	p.SetInt("normalTexture", config.NormalTextureUnit)

	r.initialized = true
	return nil
}

func (r *Resources) loadOr(path, name string, fallback color.RGBA) (*Texture, error) {
	if path == "" {
		return Solid(name, fallback), nil
	}
	t, err := r.Texture(path)
	if err != nil {
		return nil, fmt.Errorf("load %s texture: %w", name, err)
	}
	return t, nil
}

// Initialized reports whether Init completed.
func (r *Resources) Initialized() bool {
	return r.initialized
}

// Texture returns the decoded texture for path, loading it on first use.
// The texture is uploaded by whoever first draws with it.
func (r *Resources) Texture(path string) (*Texture, error) {
	if t, ok := r.cache[path]; ok {
		return t, nil
	}
	t, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	r.cache[path] = t
	return t, nil
}

// Add caches a texture built in memory under key, so Release frees it with
// the rest. An entry already cached under key is kept and returned.
func (r *Resources) Add(key string, t *Texture) *Texture {
	if cached, ok := r.cache[key]; ok {
		return cached
	}
	r.cache[key] = t
	return t
}

// Release frees every uploaded texture known to r.
func (r *Resources) Release() {
	if r.dev == nil {
		return
	}
	for _, t := range r.cache {
		t.Release(r.dev)
	}
	if r.DefaultTexture != nil {
		r.DefaultTexture.Release(r.dev)
	}
	if r.DefaultNormalTexture != nil {
		r.DefaultNormalTexture.Release(r.dev)
	}
}
