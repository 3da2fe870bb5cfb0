package scene

import (
	"glscene/internal/gpu"
	"glscene/internal/mesh"
	"glscene/internal/shader"

	"github.com/go-gl/mathgl/mgl32"
)

// GradientSky draws a procedural vertical gradient on an inverted cube that
// always sits at the far plane.
type GradientSky struct {
	ZenithColor  mgl32.Vec3
	HorizonColor mgl32.Vec3
	GroundColor  mgl32.Vec3

	program *shader.Program
	camera  *Camera
	cube    gpu.Mesh
}

// NewGradientSky uploads the sky cube. program must be the SkyBox program
// built from assets/shaders/sky.*; camera is not owned.
func NewGradientSky(dev gpu.Device, program *shader.Program, camera *Camera) *GradientSky {
	return &GradientSky{
		ZenithColor:  mgl32.Vec3{0.12, 0.28, 0.62},
		HorizonColor: mgl32.Vec3{0.62, 0.74, 0.88},
		GroundColor:  mgl32.Vec3{0.18, 0.17, 0.16},
		program:      program,
		camera:       camera,
		cube:         mesh.Cube(2).Upload(dev),
	}
}

// Draw renders the sky behind everything already in the depth buffer. It
// leaves the sky program bound.
func (s *GradientSky) Draw(dev gpu.Device) {
	view := s.camera.View().Mat3().Mat4() // rotation only
	s.program.Use()
	s.program.SetMat4("skyVP", s.camera.Projection().Mul4(view))
	s.program.SetVec3("zenithColor", s.ZenithColor)
	s.program.SetVec3("horizonColor", s.HorizonColor)
	s.program.SetVec3("groundColor", s.GroundColor)

	dev.EnableDepthTest(gpu.DepthLessEqual)
	dev.SetDepthMask(false)
	dev.DrawMesh(s.cube)
	dev.SetDepthMask(true)
	dev.EnableDepthTest(gpu.DepthLess)
}

// Release frees the sky cube.
func (s *GradientSky) Release(dev gpu.Device) {
	dev.DeleteMesh(s.cube)
}
