// Package gputest provides an in-memory gpu.Device that records every call.
package gputest

import (
	"fmt"
	"image"

	"glscene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Call is one recorded device call. Loc is the uniform location for uniform
// setters and zero otherwise.
type Call struct {
	Op      string
	Program uint32
	Loc     int32
	Name    string
	Int     int32
	Float   float32
	Vec3    mgl32.Vec3
	Vec4    mgl32.Vec4
	Mat3    mgl32.Mat3
	Mat4    mgl32.Mat4
	Indices []uint32
	Mesh    gpu.Mesh
	Texture uint32
}

// Recorder is a gpu.Device backed by name tables. Names missing from a table
// resolve to gpu.InvalidLocation or gpu.InvalidIndex.
type Recorder struct {
	// Uniforms maps uniform names to locations. Nil means every name gets a
	// fresh location on first lookup.
	Uniforms map[string]int32
	// Subroutines maps subroutine function names to indices.
	Subroutines map[string]uint32
	// SubroutineUniforms maps subroutine uniform names to slot positions.
	SubroutineUniforms map[string]int32
	// CompileErr is returned by CompileProgram when set.
	CompileErr error
	// Unlinked lists programs that report a failed link.
	Unlinked map[uint32]bool

	Calls   []Call
	Current uint32
	Deleted map[uint32]bool

	nextProgram  uint32
	nextObject   uint32
	autoUniforms map[string]int32
}

// New returns a Recorder whose uniforms resolve automatically and whose
// subroutine tables match the main shader in assets/shaders.
func New() *Recorder {
	return &Recorder{
		Subroutines: map[string]uint32{
			"PhongLight":                0,
			"LighSourceLight":           1,
			"TransformToObjectLocal":    2,
			"NotTransformToObjectLocal": 3,
			"GetNormalFromTexture":      4,
			"GetOriginalNormal":         5,
		},
		// slot positions differ from declaration order
		SubroutineUniforms: map[string]int32{
			"shadeModel":         2,
			"toObjectLocalCoord": 0,
			"getNormalVec":       1,
		},
		Unlinked: map[uint32]bool{},
		Deleted:  map[uint32]bool{},
	}
}

func (r *Recorder) record(c Call) {
	r.Calls = append(r.Calls, c)
}

// NewProgram hands out a program handle without compiling anything.
func (r *Recorder) NewProgram(linked bool) uint32 {
	r.nextProgram++
	if !linked {
		r.Unlinked[r.nextProgram] = true
	}
	return r.nextProgram
}

func (r *Recorder) CompileProgram(sources ...gpu.StageSource) (uint32, error) {
	r.record(Call{Op: "CompileProgram", Int: int32(len(sources))})
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	return r.NewProgram(true), nil
}

func (r *Recorder) ProgramLinked(program uint32) bool {
	r.record(Call{Op: "ProgramLinked", Program: program})
	return program != 0 && !r.Unlinked[program] && !r.Deleted[program]
}

func (r *Recorder) UseProgram(program uint32) {
	r.Current = program
	r.record(Call{Op: "UseProgram", Program: program})
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.Deleted[program] = true
	r.record(Call{Op: "DeleteProgram", Program: program})
}

func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.record(Call{Op: "UniformLocation", Program: program, Name: name})
	if r.Uniforms != nil {
		if loc, ok := r.Uniforms[name]; ok {
			return loc
		}
		return gpu.InvalidLocation
	}
	if r.autoUniforms == nil {
		r.autoUniforms = map[string]int32{}
	}
	loc, ok := r.autoUniforms[name]
	if !ok {
		loc = int32(len(r.autoUniforms))
		r.autoUniforms[name] = loc
	}
	return loc
}

// Location returns the location a uniform name resolved to, or
// gpu.InvalidLocation if it was never looked up.
func (r *Recorder) Location(name string) int32 {
	if r.Uniforms != nil {
		if loc, ok := r.Uniforms[name]; ok {
			return loc
		}
		return gpu.InvalidLocation
	}
	if loc, ok := r.autoUniforms[name]; ok {
		return loc
	}
	return gpu.InvalidLocation
}

func (r *Recorder) SubroutineIndex(program uint32, stage gpu.Stage, name string) uint32 {
	r.record(Call{Op: "SubroutineIndex", Program: program, Name: name})
	if idx, ok := r.Subroutines[name]; ok {
		return idx
	}
	return gpu.InvalidIndex
}

func (r *Recorder) SubroutineUniformLocation(program uint32, stage gpu.Stage, name string) int32 {
	r.record(Call{Op: "SubroutineUniformLocation", Program: program, Name: name})
	if loc, ok := r.SubroutineUniforms[name]; ok {
		return loc
	}
	return gpu.InvalidLocation
}

func (r *Recorder) ActiveSubroutineUniforms(program uint32, stage gpu.Stage) int32 {
	r.record(Call{Op: "ActiveSubroutineUniforms", Program: program})
	return int32(len(r.SubroutineUniforms))
}

func (r *Recorder) UniformSubroutines(stage gpu.Stage, indices []uint32) {
	r.record(Call{Op: "UniformSubroutines", Program: r.Current, Indices: append([]uint32(nil), indices...)})
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record(Call{Op: "Uniform1i", Program: r.Current, Loc: location, Int: v})
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.record(Call{Op: "Uniform1f", Program: r.Current, Loc: location, Float: v})
}

func (r *Recorder) UniformVec3(location int32, v mgl32.Vec3) {
	r.record(Call{Op: "UniformVec3", Program: r.Current, Loc: location, Vec3: v})
}

func (r *Recorder) UniformVec4(location int32, v mgl32.Vec4) {
	r.record(Call{Op: "UniformVec4", Program: r.Current, Loc: location, Vec4: v})
}

func (r *Recorder) UniformMat3(location int32, m mgl32.Mat3) {
	r.record(Call{Op: "UniformMat3", Program: r.Current, Loc: location, Mat3: m})
}

func (r *Recorder) UniformMat4(location int32, m mgl32.Mat4) {
	r.record(Call{Op: "UniformMat4", Program: r.Current, Loc: location, Mat4: m})
}

func (r *Recorder) UploadMesh(vertices []float32, layout []gpu.Attrib, indices []uint32) gpu.Mesh {
	r.nextObject++
	m := gpu.Mesh{VAO: r.nextObject, VBO: r.nextObject, EBO: r.nextObject, IndexCount: int32(len(indices))}
	r.record(Call{Op: "UploadMesh", Mesh: m})
	return m
}

func (r *Recorder) DrawMesh(m gpu.Mesh) {
	r.record(Call{Op: "DrawMesh", Program: r.Current, Mesh: m})
}

func (r *Recorder) DeleteMesh(m gpu.Mesh) {
	r.record(Call{Op: "DeleteMesh", Mesh: m})
}

func (r *Recorder) UploadTexture(img *image.RGBA) uint32 {
	r.nextObject++
	r.record(Call{Op: "UploadTexture", Texture: r.nextObject, Name: img.Rect.String()})
	return r.nextObject
}

func (r *Recorder) BindTexture(unit uint32, texture uint32) {
	r.record(Call{Op: "BindTexture", Int: int32(unit), Texture: texture})
}

func (r *Recorder) DeleteTexture(texture uint32) {
	r.record(Call{Op: "DeleteTexture", Texture: texture})
}

func (r *Recorder) Viewport(width, height int32) {
	r.record(Call{Op: "Viewport", Vec4: mgl32.Vec4{0, 0, float32(width), float32(height)}})
}

func (r *Recorder) EnableDepthTest(fn gpu.DepthFunc) {
	r.record(Call{Op: "EnableDepthTest", Int: int32(fn)})
}

func (r *Recorder) SetDepthMask(write bool) {
	var v int32
	if write {
		v = 1
	}
	r.record(Call{Op: "SetDepthMask", Int: v})
}

func (r *Recorder) ClearColor(c mgl32.Vec4) {
	r.record(Call{Op: "ClearColor", Vec4: c})
}

func (r *Recorder) Clear(b gpu.Buffers) {
	r.record(Call{Op: "Clear", Int: int32(b)})
}

// Ops returns recorded calls with the given op, in order.
func (r *Recorder) Ops(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many calls with the given op were recorded.
func (r *Recorder) Count(op string) int {
	return len(r.Ops(op))
}

// UniformWrites returns every setter call that targeted name's location.
func (r *Recorder) UniformWrites(name string) []Call {
	loc := r.Location(name)
	if loc == gpu.InvalidLocation {
		return nil
	}
	var out []Call
	for _, c := range r.Calls {
		switch c.Op {
		case "Uniform1i", "Uniform1f", "UniformVec3", "UniformVec4", "UniformMat3", "UniformMat4":
			if c.Loc == loc {
				out = append(out, c)
			}
		}
	}
	return out
}

// Reset drops recorded calls but keeps name tables and handle counters.
func (r *Recorder) Reset() {
	r.Calls = nil
}

func (c Call) String() string {
	if c.Name != "" {
		return fmt.Sprintf("%s(%s)", c.Op, c.Name)
	}
	return c.Op
}

var _ gpu.Device = (*Recorder)(nil)
