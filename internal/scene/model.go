// Package scene holds the drawable objects handed to the renderer: models,
// their materials, light payloads, the camera and the sky.
package scene

import (
	"fmt"

	"glscene/internal/gpu"
	"glscene/internal/mesh"
	"glscene/internal/resources"
	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// Kind discriminates how a model is shaded.
type Kind int

const (
	// KindCommon is lit with the Phong model.
	KindCommon Kind = iota
	// KindLight is a light source drawn with its own emission.
	KindLight
)

func (k Kind) String() string {
	switch k {
	case KindCommon:
		return "common"
	case KindLight:
		return "light"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Model is a drawable object. A model of KindLight carries a Light payload
// and is both drawn and used to light the scene.
type Model struct {
	Name     string
	Kind     Kind
	Mesh     *mesh.Data
	Material *Material
	Light    *LightParams

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // static orientation, radians around x, y, z
	// SlopeAngle is the animated orientation; the renderer writes its y
	// component every frame.
	SlopeAngle mgl32.Vec3
	Scale      mgl32.Vec3

	transform mgl32.Mat4
	gpuMesh   gpu.Mesh
	uploaded  bool
}

// NewModel returns a common model. A nil material gets DefaultMaterial.
func NewModel(name string, data *mesh.Data, mat *Material) *Model {
	if mat == nil {
		mat = DefaultMaterial()
	}
	return &Model{
		Name:      name,
		Kind:      KindCommon,
		Mesh:      data,
		Material:  mat,
		Scale:     mgl32.Vec3{1, 1, 1},
		transform: mgl32.Ident4(),
	}
}

// NewLight returns a light model placed at position.
func NewLight(name string, data *mesh.Data, position mgl32.Vec3, params LightParams) *Model {
	m := NewModel(name, data, &Material{
		Name:      name,
		Color:     params.Color,
		Shininess: 1,
	})
	m.Kind = KindLight
	m.Light = &params
	m.Position = position
	return m
}

// Transform returns the local-to-world matrix from the last
// RecomputeTransform.
func (m *Model) Transform() mgl32.Mat4 {
	return m.transform
}

// RecomputeTransform rebuilds the local-to-world matrix as
// translate × slope × rotation × scale.
func (m *Model) RecomputeTransform() {
	t := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	s := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	m.transform = t.Mul4(eulerYXZ(m.SlopeAngle)).Mul4(eulerYXZ(m.Rotation)).Mul4(s)
}

func eulerYXZ(a mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(a[1]).Mul4(mgl32.HomogRotate3DX(a[0])).Mul4(mgl32.HomogRotate3DZ(a[2]))
}

// Uploaded reports whether Upload has run.
func (m *Model) Uploaded() bool {
	return m.uploaded
}

// Upload moves geometry and material textures to the GPU. It must run once
// before the model is drawn.
func (m *Model) Upload(dev gpu.Device) {
	if m.Material == nil {
		m.Material = DefaultMaterial()
	}
	if m.Mesh != nil {
		m.gpuMesh = m.Mesh.Upload(dev)
	}
	m.Material.upload(dev)
	m.uploaded = true
}

// PushUniforms sends the per-object uniforms to p, which must be bound.
func (m *Model) PushUniforms(p *shader.Program) {
	p.SetMat4("model", m.transform)
	p.SetMat3("normalMatrix", m.transform.Mat3().Inv().Transpose())
	m.Material.push(p)
	if m.Kind == KindLight && m.Light != nil {
		p.SetVec3("emission", m.Light.Radiance())
	}
}

// Draw binds the material textures and issues the draw call.
func (m *Model) Draw(dev gpu.Device, res *resources.Resources) {
	if m.Mesh == nil {
		return
	}
	m.Material.bind(dev, res)
	dev.DrawMesh(m.gpuMesh)
}

// Release frees the GPU geometry. Textures belong to their owners.
func (m *Model) Release(dev gpu.Device) {
	if !m.uploaded || m.Mesh == nil {
		return
	}
	dev.DeleteMesh(m.gpuMesh)
	m.gpuMesh = gpu.Mesh{}
	m.uploaded = false
}
