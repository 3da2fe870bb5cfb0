// Package gpu describes the GPU command surface used by the renderer.
//
// Everything that talks to the driver goes through Device so the scene and
// render packages can be exercised without a GL context.
package gpu

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// InvalidIndex is returned by SubroutineIndex when a name does not resolve.
const InvalidIndex = ^uint32(0)

// InvalidLocation is returned by uniform lookups when a name does not resolve.
const InvalidLocation int32 = -1

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	VertexStage Stage = iota
	FragmentStage
)

func (s Stage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// StageSource is GLSL source for one stage of a program.
type StageSource struct {
	Stage  Stage
	Source string
}

// DepthFunc is the depth comparison used when depth testing is enabled.
type DepthFunc int

const (
	DepthLess DepthFunc = iota
	DepthLessEqual
)

// Buffers selects framebuffer planes for Clear.
type Buffers uint8

const (
	ColorBuffer Buffers = 1 << iota
	DepthBuffer
)

// Attrib describes one float attribute of an interleaved vertex.
type Attrib struct {
	Location uint32
	Size     int32 // float components
}

// Mesh is a GPU resident vertex array.
type Mesh struct {
	VAO        uint32
	VBO        uint32
	EBO        uint32
	IndexCount int32
}

// Device is the set of GPU calls the renderer issues. Uniform and subroutine
// setters act on the program bound with UseProgram.
type Device interface {
	CompileProgram(sources ...StageSource) (uint32, error)
	ProgramLinked(program uint32) bool
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	UniformLocation(program uint32, name string) int32
	SubroutineIndex(program uint32, stage Stage, name string) uint32
	SubroutineUniformLocation(program uint32, stage Stage, name string) int32
	ActiveSubroutineUniforms(program uint32, stage Stage) int32
	UniformSubroutines(stage Stage, indices []uint32)

	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	UniformVec3(location int32, v mgl32.Vec3)
	UniformVec4(location int32, v mgl32.Vec4)
	UniformMat3(location int32, m mgl32.Mat3)
	UniformMat4(location int32, m mgl32.Mat4)

	UploadMesh(vertices []float32, layout []Attrib, indices []uint32) Mesh
	DrawMesh(m Mesh)
	DeleteMesh(m Mesh)

	UploadTexture(img *image.RGBA) uint32
	BindTexture(unit uint32, texture uint32)
	DeleteTexture(texture uint32)

	Viewport(width, height int32)
	EnableDepthTest(fn DepthFunc)
	SetDepthMask(write bool)
	ClearColor(c mgl32.Vec4)
	Clear(b Buffers)
}
