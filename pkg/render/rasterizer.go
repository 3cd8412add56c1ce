package render

import (
	"math"

	"github.com/taigrr/phonemock/pkg/math3d"
)

// Vertex is a world-space vertex ready for rasterization.
type Vertex struct {
	Position math3d.Vec3
	UV       math3d.Vec2
	Color    Color // already lit
}

type Triangle struct {
	V [3]Vertex
}

// MeshRenderer is the read-only view of a mesh the rasterizer needs.
// models.Mesh satisfies it.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// BoundedMeshRenderer is a mesh that can be frustum culled before drawing.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// CullingStats counts frustum tests for the current frame.
type CullingStats struct {
	MeshesTested int
	MeshesCulled int
	MeshesDrawn  int
}

// Rasterizer draws triangles and point sprites into a Framebuffer with a
// depth buffer of the same size.
type Rasterizer struct {
	camera *Camera
	fb     *Framebuffer
	depth  []float64

	// The frustum is rebuilt whenever the camera's view-projection changes.
	frustum   Frustum
	frustumVP math3d.Mat4
	hasFrust  bool

	CullingStats CullingStats

	// DisableBackfaceCulling draws clockwise-on-screen triangles too.
	DisableBackfaceCulling bool
}

func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{camera: camera, fb: fb}
	r.Resize()
	return r
}

// Resize matches the depth buffer to the framebuffer. Call it after the
// framebuffer itself was resized.
func (r *Rasterizer) Resize() {
	n := r.Width() * r.Height()
	if cap(r.depth) < n {
		r.depth = make([]float64, n)
		return
	}
	r.depth = r.depth[:n]
}

// Release drops the depth buffer.
func (r *Rasterizer) Release() {
	r.depth = nil
}

func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// ClearDepth resets every depth sample to "infinitely far". Call it once per
// frame before drawing.
func (r *Rasterizer) ClearDepth() {
	if len(r.depth) == 0 {
		return
	}
	r.depth[0] = math.MaxFloat64
	for filled := 1; filled < len(r.depth); filled *= 2 {
		copy(r.depth[filled:], r.depth[:filled])
	}
}

func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// Visible reports whether a local-space box, placed by transform, touches
// the view frustum.
func (r *Rasterizer) Visible(local AABB, transform math3d.Mat4) bool {
	vp := r.camera.ViewProjectionMatrix()
	if !r.hasFrust || vp != r.frustumVP {
		r.frustum = ExtractFrustum(vp)
		r.frustumVP, r.hasFrust = vp, true
	}
	return r.frustum.IntersectAABB(local.Transform(transform))
}

// culled runs the frustum test for meshes that expose bounds and records
// the outcome. Meshes without bounds are always drawn and not counted.
func (r *Rasterizer) culled(mesh MeshRenderer, transform math3d.Mat4) bool {
	b, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}
	r.CullingStats.MeshesTested++
	lo, hi := b.GetBounds()
	if !r.Visible(AABB{Min: lo, Max: hi}, transform) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// screenVertex is a projected vertex: pixel position, NDC depth and the
// clip-space w kept for perspective-correct interpolation.
type screenVertex struct {
	X, Y, Z, W float64
}

// project maps p through viewProj to pixel coordinates. It fails for points
// on or behind the eye plane.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) (screenVertex, bool) {
	clip := viewProj.MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return screenVertex{}, false
	}
	ndc := clip.NDC()
	return screenVertex{
		X: (ndc.X + 1) / 2 * float64(r.Width()),
		Y: (1 - ndc.Y) / 2 * float64(r.Height()),
		Z: ndc.Z,
		W: clip.W,
	}, true
}

// edge is the line function e(x, y) = a*x + b*y + c. It is positive on the
// inner side of a counter-clockwise screen edge.
type edge struct{ a, b, c float64 }

func edgeThrough(p, q screenVertex, sign float64) edge {
	return edge{
		a: sign * (p.Y - q.Y),
		b: sign * (q.X - p.X),
		c: sign * (p.X*q.Y - q.X*p.Y),
	}
}

func (e edge) at(x, y float64) float64 { return e.a*x + e.b*y + e.c }

// rasterize visits the pixels covered by sv that pass the depth test and
// hands fn their barycentric weights. When fn reports a write and
// writeDepth is set, the pixel's depth is stored.
func (r *Rasterizer) rasterize(sv [3]screenVertex, writeDepth bool, fn func(x, y int, b0, b1, b2 float64) bool) {
	area := (sv[1].X-sv[0].X)*(sv[2].Y-sv[0].Y) - (sv[1].Y-sv[0].Y)*(sv[2].X-sv[0].X)
	if area == 0 {
		return
	}
	sign := 1.0
	if area < 0 {
		if !r.DisableBackfaceCulling {
			return
		}
		sign, area = -1, -area
	}

	w, h := r.Width(), r.Height()
	x0 := max(0, int(math.Floor(min(sv[0].X, sv[1].X, sv[2].X))))
	x1 := min(w-1, int(math.Ceil(max(sv[0].X, sv[1].X, sv[2].X))))
	y0 := max(0, int(math.Floor(min(sv[0].Y, sv[1].Y, sv[2].Y))))
	y1 := min(h-1, int(math.Ceil(max(sv[0].Y, sv[1].Y, sv[2].Y))))
	if x0 > x1 || y0 > y1 {
		return
	}

	// Edge i is opposite vertex i, so its value is that vertex's weight.
	e := [3]edge{
		edgeThrough(sv[1], sv[2], sign),
		edgeThrough(sv[2], sv[0], sign),
		edgeThrough(sv[0], sv[1], sign),
	}
	inv := 1 / area

	cx, cy := float64(x0)+0.5, float64(y0)+0.5
	row := [3]float64{e[0].at(cx, cy), e[1].at(cx, cy), e[2].at(cx, cy)}
	for y := y0; y <= y1; y++ {
		cur := row
		for x := x0; x <= x1; x++ {
			if cur[0] >= 0 && cur[1] >= 0 && cur[2] >= 0 {
				b0, b1, b2 := cur[0]*inv, cur[1]*inv, cur[2]*inv
				z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
				i := y*w + x
				if z < r.depth[i] && fn(x, y, b0, b1, b2) && writeDepth {
					r.depth[i] = z
				}
			}
			cur[0] += e[0].a
			cur[1] += e[1].a
			cur[2] += e[2].a
		}
		row[0] += e[0].b
		row[1] += e[1].b
		row[2] += e[2].b
	}
}

// projectTriangle projects all three vertices or none.
func (r *Rasterizer) projectTriangle(tri Triangle) (sv [3]screenVertex, ok bool) {
	vp := r.camera.ViewProjectionMatrix()
	for i, v := range tri.V {
		if sv[i], ok = r.project(vp, v.Position); !ok {
			return sv, false
		}
	}
	return sv, true
}

// DrawTriangleGouraud fills a triangle with its vertex colours blended
// across the face.
func (r *Rasterizer) DrawTriangleGouraud(tri Triangle) {
	sv, ok := r.projectTriangle(tri)
	if !ok {
		return
	}
	c0, c1, c2 := rgbOf(tri.V[0].Color), rgbOf(tri.V[1].Color), rgbOf(tri.V[2].Color)
	r.rasterize(sv, true, func(x, y int, b0, b1, b2 float64) bool {
		r.fb.SetPixel(x, y, c0.scale(b0).add(c1.scale(b1)).add(c2.scale(b2)).toColor())
		return true
	})
}

// DrawTriangleTextured composites an unlit textured triangle over the
// framebuffer at the given opacity, with perspective-correct UVs. Texels
// that end up fully transparent write neither colour nor depth.
func (r *Rasterizer) DrawTriangleTextured(tri Triangle, tex *Texture, opacity float64) {
	sv, ok := r.projectTriangle(tri)
	if !ok {
		return
	}
	var q [3]float64 // 1/w per vertex
	for i := range q {
		q[i] = 1 / sv[i].W
	}
	uv0, uv1, uv2 := tri.V[0].UV, tri.V[1].UV, tri.V[2].UV

	r.rasterize(sv, true, func(x, y int, b0, b1, b2 float64) bool {
		k0, k1, k2 := b0*q[0], b1*q[1], b2*q[2]
		norm := 1 / (k0 + k1 + k2)
		c := tex.Sample(
			(k0*uv0.X+k1*uv1.X+k2*uv2.X)*norm,
			(k0*uv0.Y+k1*uv1.Y+k2*uv2.Y)*norm,
		)
		if opacity < 1 {
			c = Fade(c, opacity)
		}
		if c.A == 0 {
			return false
		}
		r.fb.BlendPixel(x, y, c)
		return true
	})
}

// DrawMeshLit lights every vertex once in world space and Gouraud-shades
// the faces. Meshes with bounds are frustum culled first.
func (r *Rasterizer) DrawMeshLit(mesh MeshRenderer, transform math3d.Mat4, mat Material, lights *Lighting) {
	if r.culled(mesh, transform) {
		return
	}
	lit := make([]Vertex, mesh.VertexCount())
	for i := range lit {
		pos, normal, uv := mesh.GetVertex(i)
		lit[i] = Vertex{
			Position: transform.MulVec3(pos),
			UV:       uv,
			Color:    lights.Shade(transform.MulVec3Dir(normal).Normalize(), mat),
		}
	}
	for i := range mesh.TriangleCount() {
		f := mesh.GetFace(i)
		r.DrawTriangleGouraud(Triangle{V: [3]Vertex{lit[f[0]], lit[f[1]], lit[f[2]]}})
	}
}

// DrawMeshTextured draws a mesh unlit, sampling tex and compositing at the
// given opacity. Meshes with bounds are frustum culled first.
func (r *Rasterizer) DrawMeshTextured(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, opacity float64) {
	if tex == nil || r.culled(mesh, transform) {
		return
	}
	for i := range mesh.TriangleCount() {
		var tri Triangle
		for k, idx := range mesh.GetFace(i) {
			pos, _, uv := mesh.GetVertex(idx)
			tri.V[k] = Vertex{Position: transform.MulVec3(pos), UV: uv}
		}
		r.DrawTriangleTextured(tri, tex, opacity)
	}
}

// DrawPoints splats a square sprite per point. size is in world units, so
// sprites shrink with distance. Sprites are depth tested against what is
// already drawn but leave the depth buffer untouched.
func (r *Rasterizer) DrawPoints(points []math3d.Vec3, transform math3d.Mat4, color Color, size, opacity float64) {
	mvp := r.camera.ViewProjectionMatrix().Mul(transform)
	c := Fade(color, opacity)
	w, h := r.Width(), r.Height()
	// Pixels per world unit at w = 1.
	scale := size * float64(h) / 2 / math.Tan(r.camera.FOV/2)

	for _, p := range points {
		sv, ok := r.project(mvp, p)
		if !ok || sv.Z < -1 || sv.Z > 1 {
			continue
		}
		side := max(1, int(math.Round(scale/sv.W)))
		left, top := int(sv.X)-side/2, int(sv.Y)-side/2
		for y := max(0, top); y < min(h, top+side); y++ {
			for x := max(0, left); x < min(w, left+side); x++ {
				if sv.Z < r.depth[y*w+x] {
					r.fb.BlendPixel(x, y, c)
				}
			}
		}
	}
}
