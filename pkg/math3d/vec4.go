package math3d

// Vec4 is a homogeneous coordinate, mostly seen in clip space.
type Vec4 struct {
	X, Y, Z, W float64
}

// Point lifts v to a homogeneous point (w = 1).
func Point(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 1}
}

// XYZ drops w without dividing.
func (v Vec4) XYZ() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// NDC divides through by w. A zero w leaves the components as they are.
func (v Vec4) NDC() Vec3 {
	if v.W == 0 {
		return v.XYZ()
	}
	return v.XYZ().Scale(1 / v.W)
}
