// Package glbackend implements gpu.Device on top of OpenGL 4.1 core.
package glbackend

import (
	"fmt"
	"image"
	"strings"

	"glscene/internal/gpu"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Device issues GL calls on the thread that owns the current context.
type Device struct{}

// New initializes the GL bindings. A context must be current.
func New() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("init gl: %w", err)
	}
	return &Device{}, nil
}

// Version reports the driver's GL version string.
func (d *Device) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func stageEnum(s gpu.Stage) uint32 {
	switch s {
	case gpu.VertexStage:
		return gl.VERTEX_SHADER
	default:
		return gl.FRAGMENT_SHADER
	}
}

// CompileProgram compiles every stage and links them into one program.
func (d *Device) CompileProgram(sources ...gpu.StageSource) (uint32, error) {
	shaders := make([]uint32, 0, len(sources))
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()
	for _, src := range sources {
		s, err := compileShader(src.Source, stageEnum(src.Stage))
		if err != nil {
			return 0, fmt.Errorf("%s stage: %w", src.Stage, err)
		}
		shaders = append(shaders, s)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}

func (d *Device) ProgramLinked(program uint32) bool {
	if program == 0 || !gl.IsProgram(program) {
		return false
	}
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (d *Device) UseProgram(program uint32)    { gl.UseProgram(program) }
func (d *Device) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (d *Device) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *Device) SubroutineIndex(program uint32, stage gpu.Stage, name string) uint32 {
	return gl.GetSubroutineIndex(program, stageEnum(stage), gl.Str(name+"\x00"))
}

func (d *Device) SubroutineUniformLocation(program uint32, stage gpu.Stage, name string) int32 {
	return gl.GetSubroutineUniformLocation(program, stageEnum(stage), gl.Str(name+"\x00"))
}

func (d *Device) ActiveSubroutineUniforms(program uint32, stage gpu.Stage) int32 {
	var n int32
	gl.GetProgramStageiv(program, stageEnum(stage), gl.ACTIVE_SUBROUTINE_UNIFORM_LOCATIONS, &n)
	return n
}

func (d *Device) UniformSubroutines(stage gpu.Stage, indices []uint32) {
	if len(indices) == 0 {
		return
	}
	gl.UniformSubroutinesuiv(stageEnum(stage), int32(len(indices)), &indices[0])
}

func (d *Device) Uniform1i(location int32, v int32)   { gl.Uniform1i(location, v) }
func (d *Device) Uniform1f(location int32, v float32) { gl.Uniform1f(location, v) }

func (d *Device) UniformVec3(location int32, v mgl32.Vec3) {
	gl.Uniform3fv(location, 1, &v[0])
}

func (d *Device) UniformVec4(location int32, v mgl32.Vec4) {
	gl.Uniform4fv(location, 1, &v[0])
}

func (d *Device) UniformMat3(location int32, m mgl32.Mat3) {
	gl.UniformMatrix3fv(location, 1, false, &m[0])
}

func (d *Device) UniformMat4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

// UploadMesh creates a VAO with one interleaved VBO and an element buffer.
func (d *Device) UploadMesh(vertices []float32, layout []gpu.Attrib, indices []uint32) gpu.Mesh {
	var m gpu.Mesh
	gl.GenVertexArrays(1, &m.VAO)
	gl.BindVertexArray(m.VAO)

	gl.GenBuffers(1, &m.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.VBO)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	var stride int32
	for _, a := range layout {
		stride += a.Size
	}
	var offset uintptr
	for _, a := range layout {
		gl.EnableVertexAttribArray(a.Location)
		gl.VertexAttribPointerWithOffset(a.Location, a.Size, gl.FLOAT, false, stride*4, offset)
		offset += uintptr(a.Size) * 4
	}

	gl.GenBuffers(1, &m.EBO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.EBO)
	if len(indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}
	m.IndexCount = int32(len(indices))

	gl.BindVertexArray(0)
	return m
}

func (d *Device) DrawMesh(m gpu.Mesh) {
	gl.BindVertexArray(m.VAO)
	gl.DrawElementsWithOffset(gl.TRIANGLES, m.IndexCount, gl.UNSIGNED_INT, 0)
	gl.BindVertexArray(0)
}

func (d *Device) DeleteMesh(m gpu.Mesh) {
	gl.DeleteBuffers(1, &m.EBO)
	gl.DeleteBuffers(1, &m.VBO)
	gl.DeleteVertexArrays(1, &m.VAO)
}

// UploadTexture uploads an RGBA image as a mipmapped, repeating 2D texture.
func (d *Device) UploadTexture(img *image.RGBA) uint32 {
	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	size := img.Rect.Size()
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(size.X),
		int32(size.Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(img.Pix),
	)
	gl.GenerateMipmap(gl.TEXTURE_2D)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

func (d *Device) BindTexture(unit uint32, texture uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, texture)
}

func (d *Device) DeleteTexture(texture uint32) {
	gl.DeleteTextures(1, &texture)
}

func (d *Device) Viewport(width, height int32) { gl.Viewport(0, 0, width, height) }

func (d *Device) EnableDepthTest(fn gpu.DepthFunc) {
	gl.Enable(gl.DEPTH_TEST)
	switch fn {
	case gpu.DepthLessEqual:
		gl.DepthFunc(gl.LEQUAL)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

func (d *Device) SetDepthMask(write bool) { gl.DepthMask(write) }

func (d *Device) ClearColor(c mgl32.Vec4) { gl.ClearColor(c[0], c[1], c[2], c[3]) }

func (d *Device) Clear(b gpu.Buffers) {
	var mask uint32
	if b&gpu.ColorBuffer != 0 {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if b&gpu.DepthBuffer != 0 {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	gl.Clear(mask)
}

// CheckError returns the first pending GL error, if any.
func (d *Device) CheckError(label string) error {
	if e := gl.GetError(); e != gl.NO_ERROR {
		return fmt.Errorf("gl error %s: 0x%x", label, e)
	}
	return nil
}

var _ gpu.Device = (*Device)(nil)
