package render

import (
	"github.com/taigrr/phonemock/pkg/math3d"
)

// DrawMeshWireframe renders every triangle edge of a mesh, ignoring depth.
// Automatically performs frustum culling if the mesh provides bounds.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.culled(mesh, transform) {
		return
	}

	mvp := r.camera.ViewProjectionMatrix().Mul(transform)
	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.GetFace(i)

		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		r.drawLine3D(mvp, p0, p1, color)
		r.drawLine3D(mvp, p1, p2, color)
		r.drawLine3D(mvp, p2, p0, color)
	}
}

// DrawPointsWireframe marks each point with a single pixel.
func (r *Rasterizer) DrawPointsWireframe(points []math3d.Vec3, transform math3d.Mat4, color Color) {
	mvp := r.camera.ViewProjectionMatrix().Mul(transform)
	for _, p := range points {
		if sv, ok := r.project(mvp, p); ok {
			r.fb.SetPixel(int(sv.X), int(sv.Y), color)
		}
	}
}

// drawLine3D projects a segment and draws it. Segments with an endpoint
// behind the camera are skipped.
func (r *Rasterizer) drawLine3D(mvp math3d.Mat4, a, b math3d.Vec3, color Color) {
	sa, okA := r.project(mvp, a)
	sb, okB := r.project(mvp, b)
	if !okA || !okB {
		return
	}
	r.fb.Segment(sa.X, sa.Y, sb.X, sb.Y, color)
}
