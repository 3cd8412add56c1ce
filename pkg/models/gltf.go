package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/taigrr/phonemock/pkg/math3d"
)

// LoadGLB loads every triangle primitive of a glTF or GLB file into a single
// mesh. Missing normals are computed.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := appendPrimitives(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("%s: no triangles", path)
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			hasNormals = true
			break
		}
	}
	if !hasNormals {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// LoadIconModel loads a replacement icon mesh and fits it to the icon box.
func LoadIconModel(path string) (*Mesh, error) {
	mesh, err := LoadGLB(path)
	if err != nil {
		return nil, err
	}
	mesh.FitToSize(IconSize)
	return mesh, nil
}

func appendPrimitives(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}
		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3(p)}
			if i < len(normals) {
				v.Normal = vec3(normals[i])
			}
			if i < len(uvs) {
				// glTF puts V=0 at the top of the image.
				v.UV = math3d.V2(float64(uvs[i][0]), 1-float64(uvs[i][1]))
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := int(indices[i]), int(indices[i+1]), int(indices[i+2])
			if a >= len(positions) || b >= len(positions) || c >= len(positions) {
				return fmt.Errorf("index out of range at triangle %d", i/3)
			}
			mesh.AddTriangle(base+a, base+b, base+c)
		}
	}
	return nil
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// ExportPart is one mesh placed in the exported scene.
type ExportPart struct {
	Mesh      *Mesh
	Transform math3d.Mat4
}

// ExportGLB writes the parts as a binary glTF, one node per part. Transforms
// are baked into the vertex data so the file loads identically anywhere.
func ExportGLB(path string, parts []ExportPart) error {
	doc := gltf.NewDocument()
	for _, part := range parts {
		if part.Mesh == nil || len(part.Mesh.Faces) == 0 {
			continue
		}
		positions := make([][3]float32, len(part.Mesh.Vertices))
		normals := make([][3]float32, len(part.Mesh.Vertices))
		uvs := make([][2]float32, len(part.Mesh.Vertices))
		for i, v := range part.Mesh.Vertices {
			p := part.Transform.MulVec3(v.Position)
			n := part.Transform.MulVec3Dir(v.Normal).Normalize()
			positions[i] = [3]float32{float32(p.X), float32(p.Y), float32(p.Z)}
			normals[i] = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
			uvs[i] = [2]float32{float32(v.UV.X), float32(1 - v.UV.Y)}
		}
		indices := make([]uint32, 0, 3*len(part.Mesh.Faces))
		for _, f := range part.Mesh.Faces {
			// Back to counter-clockwise.
			indices = append(indices, uint32(f.V[0]), uint32(f.V[2]), uint32(f.V[1]))
		}

		attrs := make(map[string]int)
		attrs[gltf.POSITION] = modeler.WritePosition(doc, positions)
		attrs[gltf.NORMAL] = modeler.WriteNormal(doc, normals)
		attrs[gltf.TEXCOORD_0] = modeler.WriteTextureCoord(doc, uvs)
		prim := &gltf.Primitive{
			Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
			Mode:    gltf.PrimitiveTriangles,
		}
		prim.Attributes = attrs

		doc.Meshes = append(doc.Meshes, &gltf.Mesh{
			Name:       part.Mesh.Name,
			Primitives: []*gltf.Primitive{prim},
		})
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name: part.Mesh.Name,
			Mesh: gltf.Index(len(doc.Meshes) - 1),
		})
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, len(doc.Nodes)-1)
	}
	if len(doc.Meshes) == 0 {
		return fmt.Errorf("export %s: nothing to write", path)
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
