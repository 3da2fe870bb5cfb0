package scene

import (
	"glscene/internal/config"
	"glscene/internal/gpu"
	"glscene/internal/resources"
	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// Material describes surface appearance for the Phong shading path.
type Material struct {
	Name      string
	Color     mgl32.Vec3
	Specular  mgl32.Vec3
	Shininess float32

	// DiffuseTexture is multiplied with Color. Nil binds the default texture.
	DiffuseTexture *resources.Texture
	// NormalTexture is a tangent-space normal map. Its presence switches the
	// object to the normal-mapped subroutines.
	NormalTexture *resources.Texture
}

// DefaultMaterial returns a plain white material.
func DefaultMaterial() *Material {
	return &Material{
		Name:      "default",
		Color:     mgl32.Vec3{1, 1, 1},
		Specular:  mgl32.Vec3{0.5, 0.5, 0.5},
		Shininess: 32,
	}
}

// HasNormalMap reports whether the material carries a normal texture.
func (m *Material) HasNormalMap() bool {
	return m != nil && m.NormalTexture != nil
}

func (m *Material) upload(dev gpu.Device) {
	if m.DiffuseTexture != nil {
		m.DiffuseTexture.Upload(dev)
	}
	if m.NormalTexture != nil {
		m.NormalTexture.Upload(dev)
	}
}

func (m *Material) push(p *shader.Program) {
	p.SetVec3("material.color", m.Color)
	p.SetVec3("material.specular", m.Specular)
	p.SetFloat("material.shininess", m.Shininess)
}

// bind attaches the material textures, falling back to the defaults in res.
func (m *Material) bind(dev gpu.Device, res *resources.Resources) {
	diffuse := m.DiffuseTexture
	if diffuse == nil {
		diffuse = res.DefaultTexture
	}
	normal := m.NormalTexture
	if normal == nil {
		normal = res.DefaultNormalTexture
	}
	if diffuse != nil {
		dev.BindTexture(config.DiffuseTextureUnit, diffuse.ID)
	}
	if normal != nil {
		dev.BindTexture(config.NormalTextureUnit, normal.ID)
	}
}
