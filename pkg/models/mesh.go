// Package models holds triangle meshes for the phone scene: the procedural
// shapes the scene is built from and glTF import/export.
package models

import (
	"slices"

	"github.com/taigrr/phonemock/pkg/math3d"
)

// Mesh is an indexed triangle mesh.
//
// Faces are stored clockwise as seen from outside, which is the rasterizer's
// front-facing convention once screen Y is flipped. Shape builders think in
// right-handed, counter-clockwise terms and go through AddTriangle, which
// flips them on the way in.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// Axis-aligned bounds, refreshed by CalculateBounds.
	BoundsMin, BoundsMax math3d.Vec3
}

type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face holds three vertex indices in stored (clockwise) order.
type Face struct {
	V [3]int
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(pos, normal math3d.Vec3, uv math3d.Vec2) int {
	m.Vertices = append(m.Vertices, MeshVertex{Position: pos, Normal: normal, UV: uv})
	return len(m.Vertices) - 1
}

// AddTriangle takes a counter-clockwise triangle and stores it clockwise.
func (m *Mesh) AddTriangle(a, b, c int) {
	m.Faces = append(m.Faces, Face{V: [3]int{a, c, b}})
}

// AddQuad splits the counter-clockwise quad a, b, c, d along a-c.
func (m *Mesh) AddQuad(a, b, c, d int) {
	m.AddTriangle(a, b, c)
	m.AddTriangle(a, c, d)
}

func (m *Mesh) TriangleCount() int { return len(m.Faces) }
func (m *Mesh) VertexCount() int   { return len(m.Vertices) }

// CalculateBounds recomputes BoundsMin and BoundsMax. An empty mesh keeps
// whatever bounds it had.
func (m *Mesh) CalculateBounds() {
	for i, v := range m.Vertices {
		if i == 0 {
			m.BoundsMin, m.BoundsMax = v.Position, v.Position
			continue
		}
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center is the middle of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size is the extent of the bounding box along each axis.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// areaNormal is the outward normal of face i scaled by twice its area.
func (m *Mesh) areaNormal(i int) math3d.Vec3 {
	f := m.Faces[i].V
	p0 := m.Vertices[f[0]].Position
	e1 := m.Vertices[f[1]].Position.Sub(p0)
	e2 := m.Vertices[f[2]].Position.Sub(p0)
	// Stored order is clockwise from outside.
	return e2.Cross(e1)
}

// FaceNormal is the outward unit normal of face i.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	return m.areaNormal(i).Normalize()
}

// CalculateSmoothNormals gives every vertex the area-weighted mean of the
// normals of the faces that use it. Unshared vertices end up flat.
func (m *Mesh) CalculateSmoothNormals() {
	sums := make([]math3d.Vec3, len(m.Vertices))
	for i, f := range m.Faces {
		n := m.areaNormal(i)
		for _, idx := range f.V {
			sums[idx] = sums[idx].Add(n)
		}
	}
	for i, n := range sums {
		m.Vertices[i].Normal = n.Normalize()
	}
}

// Transform bakes mat into the vertices. Normals take the rotation only,
// which holds while meshes are scaled uniformly.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = mat.MulVec3(v.Position)
		v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
	}
	m.CalculateBounds()
}

// FitToSize recentres the mesh on the origin and scales it so that its
// longest side measures size.
func (m *Mesh) FitToSize(size float64) {
	m.CalculateBounds()
	d := m.Size()
	longest := max(d.X, d.Y, d.Z)
	if longest <= 0 {
		return
	}
	m.Transform(math3d.ScaleUniform(size / longest).Mul(math3d.Translate(m.Center().Negate())))
}

// Clone copies the mesh so the copy can be transformed independently.
func (m *Mesh) Clone() *Mesh {
	c := *m
	c.Vertices = slices.Clone(m.Vertices)
	c.Faces = slices.Clone(m.Faces)
	return &c
}

// GetVertex, GetFace and GetBounds let the rasterizer draw a Mesh directly.

func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
