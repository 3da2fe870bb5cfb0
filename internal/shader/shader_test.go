package shader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"glscene/internal/gpu"
	"glscene/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, dev *gputest.Recorder, tag Tag) *Program {
	t.Helper()
	p, err := Build(dev, tag,
		gpu.StageSource{Stage: gpu.VertexStage, Source: "void main() {}"},
		gpu.StageSource{Stage: gpu.FragmentStage, Source: "void main() {}"},
	)
	require.NoError(t, err)
	return p
}

func TestRegisterReplacesAndReleases(t *testing.T) {
	dev := gputest.New()
	reg := NewRegistry()

	a := build(t, dev, TagMain)
	b := build(t, dev, TagMain)
	aID := a.ID()

	reg.Register(a)
	reg.Register(b)

	assert.Equal(t, 1, reg.Len())
	got, err := reg.Get(TagMain)
	require.NoError(t, err)
	assert.Same(t, b, got)

	assert.True(t, dev.Deleted[aID])
	assert.False(t, dev.Deleted[b.ID()])
	assert.False(t, a.IsLinked())
	assert.Zero(t, a.ID())
}

func TestRegisterSameProgramTwice(t *testing.T) {
	dev := gputest.New()
	reg := NewRegistry()
	p := build(t, dev, TagSkyBox)

	reg.Register(p)
	reg.Register(p)

	assert.Equal(t, 1, reg.Len())
	assert.Zero(t, dev.Count("DeleteProgram"))
}

func TestRegisterNilPanics(t *testing.T) {
	assert.Panics(t, func() { NewRegistry().Register(nil) })
}

func TestGetMissingTag(t *testing.T) {
	reg := NewRegistry()
	reg.Register(build(t, gputest.New(), TagMain))

	p, err := reg.Get(TagSkyBox)
	assert.Nil(t, p)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "SkyBox")
}

func TestRegistryRelease(t *testing.T) {
	dev := gputest.New()
	reg := NewRegistry()
	reg.Register(build(t, dev, TagMain))
	reg.Register(build(t, dev, TagSkyBox))

	reg.Release()
	assert.Zero(t, reg.Len())
	assert.Equal(t, 2, dev.Count("DeleteProgram"))
}

func TestBuildCompileError(t *testing.T) {
	dev := gputest.New()
	dev.CompileErr = errors.New("0:1: syntax error")

	p, err := Build(dev, TagMain)
	assert.Nil(t, p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build Main program")
	assert.ErrorIs(t, err, dev.CompileErr)
}

func TestLoadReadsBothStages(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.vert"), []byte("#version 410 core\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.frag"), []byte("#version 410 core\n"), 0o644))

	dev := gputest.New()
	p, err := Load(dev, TagSkyBox, dir, "a.vert", "a.frag")
	require.NoError(t, err)
	assert.Equal(t, TagSkyBox, p.Tag())
	assert.True(t, p.IsLinked())

	compiles := dev.Ops("CompileProgram")
	require.Len(t, compiles, 1)
	assert.Equal(t, int32(2), compiles[0].Int)

	_, err = Load(dev, TagSkyBox, dir, "missing.vert", "a.frag")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestUniformLocationCached(t *testing.T) {
	dev := gputest.New()
	dev.Uniforms = map[string]int32{"gamma": 3}
	p := build(t, dev, TagMain)

	for i := 0; i < 3; i++ {
		assert.Equal(t, int32(3), p.UniformLocation("gamma"))
		assert.Equal(t, gpu.InvalidLocation, p.UniformLocation("missing"))
	}
	assert.Equal(t, 2, dev.Count("UniformLocation"))
}

func TestSettersSkipMissingUniforms(t *testing.T) {
	dev := gputest.New()
	dev.Uniforms = map[string]int32{"present": 1}
	p := build(t, dev, TagMain)
	dev.Reset()

	p.SetFloat("missing", 1)
	p.SetVec3("missing", mgl32.Vec3{})
	p.SetMat4("missing", mgl32.Ident4())
	assert.Len(t, dev.Calls, 1, "only the location lookup is recorded")

	p.SetBool("present", true)
	writes := dev.UniformWrites("present")
	require.Len(t, writes, 1)
	assert.Equal(t, "Uniform1i", writes[0].Op)
	assert.Equal(t, int32(1), writes[0].Int)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "Main", TagMain.String())
	assert.Equal(t, "SkyBox", TagSkyBox.String())
	assert.Equal(t, "Tag(9)", Tag(9).String())
}
