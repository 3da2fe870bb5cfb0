package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadGLTF reads every triangle primitive of a .gltf or .glb file. Node
// transforms are ignored; each primitive is returned in its mesh space.
func LoadGLTF(path string) ([]*Data, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	var out []*Data
	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			name := fmt.Sprintf("%s_p%d", m.Name, pi)
			if m.Name == "" {
				name = fmt.Sprintf("mesh%d_p%d", mi, pi)
			}

			posIdx, ok := prim.Attributes["POSITION"]
			if !ok {
				return nil, fmt.Errorf("%s: no POSITION attribute", name)
			}
			acr, err := accessor(doc, name, posIdx)
			if err != nil {
				return nil, err
			}
			positions, err := modeler.ReadPosition(doc, acr, nil)
			if err != nil {
				return nil, fmt.Errorf("%s positions: %w", name, err)
			}

			var normals [][3]float32
			if idx, ok := prim.Attributes["NORMAL"]; ok {
				if acr, err = accessor(doc, name, idx); err != nil {
					return nil, err
				}
				if normals, err = modeler.ReadNormal(doc, acr, nil); err != nil {
					return nil, fmt.Errorf("%s normals: %w", name, err)
				}
			}
			var uvs [][2]float32
			if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
				if acr, err = accessor(doc, name, idx); err != nil {
					return nil, err
				}
				if uvs, err = modeler.ReadTextureCoord(doc, acr, nil); err != nil {
					return nil, fmt.Errorf("%s uvs: %w", name, err)
				}
			}

			d := &Data{Name: name, Vertices: make([]Vertex, len(positions))}
			for i, p := range positions {
				v := Vertex{Position: mgl32.Vec3(p), Normal: mgl32.Vec3{0, 1, 0}}
				if i < len(normals) {
					v.Normal = mgl32.Vec3(normals[i])
				}
				if i < len(uvs) {
					v.UV = mgl32.Vec2(uvs[i])
				}
				d.Vertices[i] = v
			}
			if prim.Indices != nil {
				if acr, err = accessor(doc, name, *prim.Indices); err != nil {
					return nil, err
				}
				if d.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
					return nil, fmt.Errorf("%s indices: %w", name, err)
				}
				for _, i := range d.Indices {
					if int(i) >= len(d.Vertices) {
						return nil, fmt.Errorf("%s: index %d out of range", name, i)
					}
				}
			}
			d.ComputeTangents()
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle primitives", path)
	}
	return out, nil
}

func accessor(doc *gltf.Document, name string, i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(doc.Accessors) {
		return nil, fmt.Errorf("%s: accessor %d out of range", name, i)
	}
	return doc.Accessors[i], nil
}
