package math3d

// Vec2 is a 2D vector, used for texture coordinates and 2D outlines.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns the vector sum a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product a * s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Len returns the length of the vector.
func (a Vec2) Len() float64 {
	return Vec3{a.X, a.Y, 0}.Len()
}

// Normalize returns the unit vector in the same direction.
// The zero vector is returned unchanged.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{a.X / l, a.Y / l}
}

// Perp returns the vector rotated 90 degrees clockwise.
// For a counter-clockwise outline this is the outward edge normal.
func (a Vec2) Perp() Vec2 {
	return Vec2{a.Y, -a.X}
}

// QuadraticBezier evaluates the quadratic Bézier p0 -> ctrl -> p1 at t.
func QuadraticBezier(p0, ctrl, p1 Vec2, t float64) Vec2 {
	u := 1 - t
	return Vec2{
		u*u*p0.X + 2*u*t*ctrl.X + t*t*p1.X,
		u*u*p0.Y + 2*u*t*ctrl.Y + t*t*p1.Y,
	}
}
