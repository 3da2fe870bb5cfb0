package mesh

import (
	"path/filepath"
	"testing"

	"glscene/internal/gpu/gputest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCube(t *testing.T) {
	d := Cube(2)
	assert.Len(t, d.Vertices, 24)
	assert.Len(t, d.Indices, 36)

	for i, v := range d.Vertices {
		for axis := 0; axis < 3; axis++ {
			assert.InDelta(t, 1, abs(v.Position[axis]), 1e-6, "vertex %d axis %d", i, axis)
		}
		assert.InDelta(t, 1, v.Normal.Len(), 1e-6)
		assert.InDelta(t, 0, v.Normal.Dot(v.Tangent), 1e-6)
		// each vertex sits on the face its normal points out of
		assert.InDelta(t, 1, v.Position.Dot(v.Normal), 1e-6)
	}
}

func TestCubeWindingFacesOutward(t *testing.T) {
	d := Cube(1)
	for i := 0; i+2 < len(d.Indices); i += 3 {
		a, b, c := d.Vertices[d.Indices[i]], d.Vertices[d.Indices[i+1]], d.Vertices[d.Indices[i+2]]
		n := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, n.Dot(a.Normal), float32(0), "triangle %d", i/3)
	}
}

func TestSphere(t *testing.T) {
	tests := []struct {
		name          string
		segments      int
		rings         int
		wantVertices  int
		wantTriangles int
	}{
		{name: "regular", segments: 8, rings: 4, wantVertices: 9 * 5, wantTriangles: 8 * 4 * 2},
		{name: "clamped", segments: 1, rings: 1, wantVertices: 4 * 3, wantTriangles: 3 * 2 * 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Sphere(2, tt.segments, tt.rings)
			assert.Len(t, d.Vertices, tt.wantVertices)
			assert.Len(t, d.Indices, tt.wantTriangles*3)
			for _, v := range d.Vertices {
				assert.InDelta(t, 2, v.Position.Len(), 1e-5)
				assert.InDelta(t, 1, v.Tangent.Len(), 1e-5)
			}
		})
	}
}

func TestComputeTangentsFollowsU(t *testing.T) {
	d := &Data{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0, 0}},
			{Position: mgl32.Vec3{0, 1, 0}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{1, 0}},
			{Position: mgl32.Vec3{-1, 0, 0}, Normal: mgl32.Vec3{0, 0, 1}, UV: mgl32.Vec2{0, 1}},
		},
	}
	d.ComputeTangents()
	for _, v := range d.Vertices {
		assert.True(t, v.Tangent.ApproxEqual(mgl32.Vec3{0, 1, 0}), "got %v", v.Tangent)
	}
}

func TestComputeTangentsDegenerateUV(t *testing.T) {
	d := &Data{
		Vertices: []Vertex{
			{Position: mgl32.Vec3{0, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}},
			{Position: mgl32.Vec3{1, 0, 0}, Normal: mgl32.Vec3{0, 1, 0}},
			{Position: mgl32.Vec3{0, 0, 1}, Normal: mgl32.Vec3{0, 1, 0}},
		},
	}
	d.ComputeTangents()
	for _, v := range d.Vertices {
		assert.InDelta(t, 1, v.Tangent.Len(), 1e-6)
		assert.InDelta(t, 0, v.Tangent.Dot(v.Normal), 1e-6)
	}
}

func TestInterleave(t *testing.T) {
	d := &Data{Vertices: []Vertex{{
		Position: mgl32.Vec3{1, 2, 3},
		Normal:   mgl32.Vec3{4, 5, 6},
		UV:       mgl32.Vec2{7, 8},
		Tangent:  mgl32.Vec3{9, 10, 11},
	}}}
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, d.Interleave())

	var stride int32
	for _, a := range Layout {
		stride += a.Size
	}
	assert.Equal(t, int32(FloatsPerVertex), stride)
}

func TestUploadGeneratesIndices(t *testing.T) {
	dev := gputest.New()
	d := &Data{Vertices: make([]Vertex, 6)}

	m := d.Upload(dev)
	assert.Equal(t, int32(6), m.IndexCount)
	require.Equal(t, 1, dev.Count("UploadMesh"))

	m = Cube(1).Upload(dev)
	assert.Equal(t, int32(36), m.IndexCount)
}

func TestLoadGLTFMissingFile(t *testing.T) {
	_, err := LoadGLTF("testdata/does-not-exist.gltf")
	assert.Error(t, err)
}

// writeTriangleGLB saves a one-primitive binary glTF holding a single
// triangle with the given indices.
func writeTriangleGLB(t *testing.T, indices []uint16, tweak func(*gltf.Primitive)) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, indices)
	prim := &gltf.Primitive{
		Mode:       gltf.PrimitiveTriangles,
		Indices:    gltf.Index(idx),
		Attributes: gltf.PrimitiveAttributes{gltf.POSITION: pos},
	}
	if tweak != nil {
		tweak(prim)
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "tri", Primitives: []*gltf.Primitive{prim}})

	path := filepath.Join(t.TempDir(), "tri.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	return path
}

func TestLoadGLTF(t *testing.T) {
	parts, err := LoadGLTF(writeTriangleGLB(t, []uint16{0, 1, 2}, nil))
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "tri_p0", parts[0].Name)
	assert.Len(t, parts[0].Vertices, 3)
	assert.Equal(t, []uint32{0, 1, 2}, parts[0].Indices)
}

func TestLoadGLTFRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint16
		tweak   func(*gltf.Primitive)
		wantErr string
	}{
		{name: "vertex index", indices: []uint16{0, 1, 7}, wantErr: "index 7 out of range"},
		{name: "position accessor", indices: []uint16{0, 1, 2}, tweak: func(p *gltf.Primitive) {
			p.Attributes[gltf.POSITION] = 42
		}, wantErr: "accessor 42 out of range"},
		{name: "normal accessor", indices: []uint16{0, 1, 2}, tweak: func(p *gltf.Primitive) {
			p.Attributes[gltf.NORMAL] = 9
		}, wantErr: "accessor 9 out of range"},
		{name: "uv accessor", indices: []uint16{0, 1, 2}, tweak: func(p *gltf.Primitive) {
			p.Attributes[gltf.TEXCOORD_0] = 5
		}, wantErr: "accessor 5 out of range"},
		{name: "index accessor", indices: []uint16{0, 1, 2}, tweak: func(p *gltf.Primitive) {
			p.Indices = gltf.Index(3)
		}, wantErr: "accessor 3 out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTriangleGLB(t, tt.indices, tt.tweak)
			var err error
			require.NotPanics(t, func() { _, err = LoadGLTF(path) })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func BenchmarkSphere(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Sphere(1, 64, 32)
	}
}
