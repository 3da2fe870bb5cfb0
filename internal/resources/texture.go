package resources

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"glscene/internal/gpu"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// MaxTextureSize bounds the longest edge of a decoded texture. Larger images
// are downscaled before upload.
const MaxTextureSize = 2048

// Texture is a decoded image and, once uploaded, its GPU handle.
type Texture struct {
	Name  string
	Image *image.RGBA
	ID    uint32
}

// Uploaded reports whether the texture has a GPU handle.
func (t *Texture) Uploaded() bool {
	return t.ID != 0
}

// Upload sends the image to the GPU. Repeated calls are no-ops.
func (t *Texture) Upload(dev gpu.Device) {
	if t.Uploaded() {
		return
	}
	t.ID = dev.UploadTexture(t.Image)
}

// Release frees the GPU handle. The decoded image is kept.
func (t *Texture) Release(dev gpu.Device) {
	if !t.Uploaded() {
		return
	}
	dev.DeleteTexture(t.ID)
	t.ID = 0
}

// DecodeFile loads an image file (png, jpeg, bmp or webp) as an RGBA texture.
func DecodeFile(path string) (*Texture, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return FromImage(path, img), nil
}

// FromImage converts img to RGBA, scaling it down if it exceeds
// MaxTextureSize.
func FromImage(name string, img image.Image) *Texture {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > MaxTextureSize || h > MaxTextureSize {
		if w >= h {
			h = h * MaxTextureSize / w
			w = MaxTextureSize
		} else {
			w = w * MaxTextureSize / h
			h = MaxTextureSize
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		rgba := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), img, b, draw.Src, nil)
		return &Texture{Name: name, Image: rgba}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return &Texture{Name: name, Image: rgba}
}

// Solid returns a 1x1 texture of a single color.
func Solid(name string, c color.RGBA) *Texture {
	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.SetRGBA(0, 0, c)
	return &Texture{Name: name, Image: rgba}
}
