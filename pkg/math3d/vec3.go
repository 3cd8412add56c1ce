// Package math3d provides the vector and matrix primitives used by the
// phone scene: points, directions, and column-major transforms.
package math3d

import "math"

// Vec3 is a point or direction in a right-handed space with +Y up.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 {
	return Vec3{x, y, z}
}

// Zero3 is the origin.
func Zero3() Vec3 {
	return Vec3{}
}

func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func (a Vec3) Sub(b Vec3) Vec3 {
	return a.Add(b.Negate())
}

func (a Vec3) Scale(s float64) Vec3 {
	return Vec3{s * a.X, s * a.Y, s * a.Z}
}

func (a Vec3) Negate() Vec3 {
	return a.Scale(-1)
}

func (a Vec3) Dot(b Vec3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross follows the right-hand rule: X cross Y is Z.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

// LenSq skips the square root; use it for comparisons against a threshold.
func (a Vec3) LenSq() float64 {
	return a.Dot(a)
}

func (a Vec3) Len() float64 {
	return math.Sqrt(a.LenSq())
}

// Normalize scales a to unit length. The zero vector stays zero so that
// degenerate faces produce no light rather than NaNs.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

// Min is the component-wise minimum, used to grow bounding boxes.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max is the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}
