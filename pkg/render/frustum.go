package render

import "github.com/taigrr/phonemock/pkg/math3d"

// Plane is Normal·p + D = 0. Points with positive distance are inside.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// DistanceToPoint returns the signed distance from the plane to a point.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six clip planes of a view-projection, normals inward.
// Order: Left, Right, Bottom, Top, Near, Far.
type Frustum struct {
	Planes [6]Plane
}

// ExtractFrustum derives the clip planes from a column-major view-projection
// matrix (Gribb/Hartmann): each plane is row 3 plus or minus row 0, 1 or 2.
func ExtractFrustum(m math3d.Mat4) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	wN, wD := row(3)

	var f Frustum
	for axis := range 3 {
		n, d := row(axis)
		f.Planes[2*axis] = normalizePlane(wN.Add(n), wD+d)
		f.Planes[2*axis+1] = normalizePlane(wN.Sub(n), wD-d)
	}
	return f
}

func normalizePlane(n math3d.Vec3, d float64) Plane {
	l := n.Len()
	if l == 0 {
		return Plane{Normal: n, D: d}
	}
	return Plane{Normal: n.Scale(1 / l), D: d / l}
}

// GetFrustum returns the current view frustum from the camera.
func (c *Camera) GetFrustum() Frustum {
	return ExtractFrustum(c.ViewProjectionMatrix())
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// For each plane only the corner furthest along the normal is tested.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		far := box.Min
		if plane.Normal.X >= 0 {
			far.X = box.Max.X
		}
		if plane.Normal.Y >= 0 {
			far.Y = box.Max.Y
		}
		if plane.Normal.Z >= 0 {
			far.Z = box.Max.Z
		}
		if plane.DistanceToPoint(far) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// BoundsOf returns the box around a set of points. It is empty (Min > Max)
// when points is empty.
func BoundsOf(points []math3d.Vec3) AABB {
	if len(points) == 0 {
		return AABB{Min: math3d.V3(1, 1, 1), Max: math3d.V3(-1, -1, -1)}
	}
	b := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Transform returns the box around all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	var out AABB
	for i := range 8 {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		p := m.MulVec3(c)
		if i == 0 {
			out = AABB{Min: p, Max: p}
			continue
		}
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}
