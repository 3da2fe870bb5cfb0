// Package mesh builds CPU-side geometry in the vertex layout the main shader
// expects: position, normal, uv, tangent.
package mesh

import (
	"glscene/internal/gpu"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex attribute locations in assets/shaders/main.vert.
const (
	PositionLocation = 0
	NormalLocation   = 1
	UVLocation       = 2
	TangentLocation  = 3
)

// Layout is the interleaved attribute layout of Data.Interleave.
var Layout = []gpu.Attrib{
	{Location: PositionLocation, Size: 3},
	{Location: NormalLocation, Size: 3},
	{Location: UVLocation, Size: 2},
	{Location: TangentLocation, Size: 3},
}

// FloatsPerVertex is the stride of Layout in floats.
const FloatsPerVertex = 11

type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	UV       mgl32.Vec2
	Tangent  mgl32.Vec3
}

// Data is an indexed triangle list.
type Data struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// Interleave flattens the vertices into Layout order.
func (d *Data) Interleave() []float32 {
	out := make([]float32, 0, len(d.Vertices)*FloatsPerVertex)
	for _, v := range d.Vertices {
		out = append(out,
			v.Position[0], v.Position[1], v.Position[2],
			v.Normal[0], v.Normal[1], v.Normal[2],
			v.UV[0], v.UV[1],
			v.Tangent[0], v.Tangent[1], v.Tangent[2],
		)
	}
	return out
}

// Upload sends the geometry to the GPU.
func (d *Data) Upload(dev gpu.Device) gpu.Mesh {
	indices := d.Indices
	if len(indices) == 0 {
		indices = make([]uint32, len(d.Vertices))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	return dev.UploadMesh(d.Interleave(), Layout, indices)
}

// ComputeTangents fills per-vertex tangents from positions and uvs.
// Triangles with degenerate uv area contribute nothing; vertices left without
// a tangent get an arbitrary one perpendicular to the normal.
func (d *Data) ComputeTangents() {
	for i := range d.Vertices {
		d.Vertices[i].Tangent = mgl32.Vec3{}
	}

	accum := func(i0, i1, i2 uint32) {
		v0, v1, v2 := d.Vertices[i0], d.Vertices[i1], d.Vertices[i2]

		e1 := v1.Position.Sub(v0.Position)
		e2 := v2.Position.Sub(v0.Position)
		du1, dv1 := v1.UV[0]-v0.UV[0], v1.UV[1]-v0.UV[1]
		du2, dv2 := v2.UV[0]-v0.UV[0], v2.UV[1]-v0.UV[1]

		denom := du1*dv2 - du2*dv1
		if denom == 0 {
			return
		}
		t := e1.Mul(dv2 / denom).Sub(e2.Mul(dv1 / denom))
		d.Vertices[i0].Tangent = d.Vertices[i0].Tangent.Add(t)
		d.Vertices[i1].Tangent = d.Vertices[i1].Tangent.Add(t)
		d.Vertices[i2].Tangent = d.Vertices[i2].Tangent.Add(t)
	}

	if len(d.Indices) > 0 {
		for i := 0; i+2 < len(d.Indices); i += 3 {
			accum(d.Indices[i], d.Indices[i+1], d.Indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(d.Vertices); i += 3 {
			accum(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	// Gram-Schmidt against the normal.
	for i := range d.Vertices {
		n := d.Vertices[i].Normal
		t := d.Vertices[i].Tangent
		t = t.Sub(n.Mul(n.Dot(t)))
		if t.LenSqr() < 1e-8 {
			if abs(n[0]) < 0.9 {
				t = mgl32.Vec3{1, 0, 0}.Sub(n.Mul(n[0]))
			} else {
				t = mgl32.Vec3{0, 1, 0}.Sub(n.Mul(n[1]))
			}
		}
		d.Vertices[i].Tangent = t.Normalize()
	}
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
