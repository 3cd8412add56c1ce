package math3d

import "math"

// Mat4 is a column-major 4x4 matrix. Element m[c*4+r] is row r of column c,
// so an affine transform keeps its X, Y and Z basis in m[0:3], m[4:7] and
// m[8:11] and its translation in m[12:15].
type Mat4 [16]float64

var (
	axisX = Vec3{X: 1}
	axisY = Vec3{Y: 1}
	axisZ = Vec3{Z: 1}
)

// affine assembles a transform from its three basis columns and an origin.
func affine(x, y, z, origin Vec3) Mat4 {
	return Mat4{
		x.X, x.Y, x.Z, 0,
		y.X, y.Y, y.Z, 0,
		z.X, z.Y, z.Z, 0,
		origin.X, origin.Y, origin.Z, 1,
	}
}

// Identity returns the identity transform.
func Identity() Mat4 {
	return affine(axisX, axisY, axisZ, Vec3{})
}

// Translate moves points by v.
func Translate(v Vec3) Mat4 {
	return affine(axisX, axisY, axisZ, v)
}

// Scale stretches each axis by the matching component of v.
func Scale(v Vec3) Mat4 {
	return affine(axisX.Scale(v.X), axisY.Scale(v.Y), axisZ.Scale(v.Z), Vec3{})
}

// ScaleUniform stretches all three axes by s.
func ScaleUniform(s float64) Mat4 {
	return Scale(Vec3{s, s, s})
}

// RotateX turns counter-clockwise about +X, looking down the axis.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return affine(axisX, Vec3{0, c, s}, Vec3{0, -s, c}, Vec3{})
}

// RotateY turns counter-clockwise about +Y.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return affine(Vec3{c, 0, -s}, axisY, Vec3{s, 0, c}, Vec3{})
}

// RotateZ turns counter-clockwise about +Z.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	return affine(Vec3{c, s, 0}, Vec3{-s, c, 0}, axisZ, Vec3{})
}

// EulerXYZ is RotateX(r.X) * RotateY(r.Y) * RotateZ(r.Z): applied to a
// point it turns about Z first, then Y, then X.
func EulerXYZ(r Vec3) Mat4 {
	return RotateX(r.X).Mul(RotateY(r.Y)).Mul(RotateZ(r.Z))
}

// Radians converts an angle in degrees.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Perspective is an OpenGL-style projection: right-handed view space in,
// clip space with depth in [-w, w] out. fovy is the vertical field of view
// in radians.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovy/2)
	depth := near - far

	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / depth
	m[11] = -1
	m[14] = 2 * far * near / depth
	return m
}

// Mul returns a * b, the transform that applies b first.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for c := range 4 {
		col := a.MulVec4(Vec4{b[c*4], b[c*4+1], b[c*4+2], b[c*4+3]})
		out[c*4], out[c*4+1], out[c*4+2], out[c*4+3] = col.X, col.Y, col.Z, col.W
	}
	return out
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out [4]float64
	for r := range 4 {
		out[r] = m[r]*v.X + m[4+r]*v.Y + m[8+r]*v.Z + m[12+r]*v.W
	}
	return Vec4{out[0], out[1], out[2], out[3]}
}

// MulVec3 transforms a point, dividing by w when the matrix is projective.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	p := m.MulVec4(Point(v))
	if p.W == 0 || p.W == 1 {
		return p.XYZ()
	}
	return p.XYZ().Scale(1 / p.W)
}

// MulVec3Dir transforms a direction, ignoring translation.
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(Vec4{v.X, v.Y, v.Z, 0}).XYZ()
}

// Translation is the origin of the transformed frame.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}
