package shader

import (
	"fmt"
	"os"
	"path/filepath"

	"glscene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Tag names the purpose a program serves. One live program exists per tag.
type Tag int

const (
	TagMain Tag = iota
	TagSkyBox
)

func (t Tag) String() string {
	switch t {
	case TagMain:
		return "Main"
	case TagSkyBox:
		return "SkyBox"
	default:
		return fmt.Sprintf("Tag(%d)", int(t))
	}
}

// Program is a compiled GPU program together with a cache of the uniform
// locations looked up through it.
type Program struct {
	tag    Tag
	id     uint32
	linked bool

	dev       gpu.Device
	locations map[string]int32
}

// New wraps an existing program handle. The link flag is queried from dev.
func New(dev gpu.Device, tag Tag, id uint32) *Program {
	return &Program{
		tag:       tag,
		id:        id,
		linked:    dev.ProgramLinked(id),
		dev:       dev,
		locations: make(map[string]int32),
	}
}

// Build compiles and links sources into a program for tag.
func Build(dev gpu.Device, tag Tag, sources ...gpu.StageSource) (*Program, error) {
	id, err := dev.CompileProgram(sources...)
	if err != nil {
		return nil, fmt.Errorf("build %s program: %w", tag, err)
	}
	return New(dev, tag, id), nil
}

// Load reads a vertex and fragment shader from dir and builds them.
func Load(dev gpu.Device, tag Tag, dir, vertexFile, fragmentFile string) (*Program, error) {
	vertexSource, err := os.ReadFile(filepath.Join(dir, vertexFile))
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %w", err)
	}
	fragmentSource, err := os.ReadFile(filepath.Join(dir, fragmentFile))
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %w", err)
	}
	return Build(dev, tag,
		gpu.StageSource{Stage: gpu.VertexStage, Source: string(vertexSource)},
		gpu.StageSource{Stage: gpu.FragmentStage, Source: string(fragmentSource)},
	)
}

func (p *Program) Tag() Tag       { return p.tag }
func (p *Program) ID() uint32     { return p.id }
func (p *Program) IsLinked() bool { return p.linked }

// Use binds the program for subsequent uniform updates and draws.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// UniformLocation resolves name once and serves later lookups from cache.
// Unresolved names are cached too.
func (p *Program) UniformLocation(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.id, name)
	p.locations[name] = loc
	return loc
}

// SetInt sets an integer uniform if it exists in the program.
func (p *Program) SetInt(name string, v int32) {
	if loc := p.UniformLocation(name); loc != gpu.InvalidLocation {
		p.dev.Uniform1i(loc, v)
	}
}

// SetFloat sets a float uniform if it exists in the program.
func (p *Program) SetFloat(name string, v float32) {
	if loc := p.UniformLocation(name); loc != gpu.InvalidLocation {
		p.dev.Uniform1f(loc, v)
	}
}

// SetBool sets a boolean uniform if it exists in the program.
func (p *Program) SetBool(name string, v bool) {
	var i int32
	if v {
		i = 1
	}
	p.SetInt(name, i)
}

// SetVec3 sets a vec3 uniform if it exists in the program.
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.UniformLocation(name); loc != gpu.InvalidLocation {
		p.dev.UniformVec3(loc, v)
	}
}

// SetVec4 sets a vec4 uniform if it exists in the program.
func (p *Program) SetVec4(name string, v mgl32.Vec4) {
	if loc := p.UniformLocation(name); loc != gpu.InvalidLocation {
		p.dev.UniformVec4(loc, v)
	}
}

// SetMat4 sets a mat4 uniform if it exists in the program.
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.UniformLocation(name); loc != gpu.InvalidLocation {
		p.dev.UniformMat4(loc, m)
	}
}

// SetMat3 sets a mat3 uniform if it exists in the program.
func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	if loc := p.UniformLocation(name); loc != gpu.InvalidLocation {
		p.dev.UniformMat3(loc, m)
	}
}

// release deletes the GPU program. The Program must not be used afterwards.
func (p *Program) release() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
	p.linked = false
	p.locations = make(map[string]int32)
}
