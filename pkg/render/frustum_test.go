package render

import (
	"math"
	"testing"

	"github.com/taigrr/phonemock/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// A plane on z = 0.08 facing the camera.
	screen := normalizePlane(math3d.V3(0, 0, 2), -0.16)

	tests := []struct {
		name  string
		point math3d.Vec3
		want  float64
	}{
		{"on the glass", math3d.V3(0.4, -1.2, 0.08), 0},
		{"camera side", math3d.V3(0, 0, 6), 5.92},
		{"inside the shell", math3d.V3(0, 0, -0.075), -0.155},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := screen.DistanceToPoint(tc.point); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := AABB{Min: math3d.V3(-1, -1, -1), Max: math3d.V3(1, 1, 1)}

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3(5, 0, -2)))
		if got.Center() != math3d.V3(5, 0, -2) {
			t.Errorf("center = %v", got.Center())
		}
	})

	t.Run("rotation grows bounds", func(t *testing.T) {
		got := box.Transform(math3d.RotateZ(math.Pi / 4))
		want := math.Sqrt2
		if math.Abs(got.Max.X-want) > 1e-9 || math.Abs(got.Max.Z-1) > 1e-9 {
			t.Errorf("max = %v, want (%v, %v, 1)", got.Max, want, want)
		}
	})
}

func TestBoundsOf(t *testing.T) {
	b := BoundsOf([]math3d.Vec3{{X: 1, Y: -2}, {X: -3, Z: 4}, {Y: 5}})
	if b.Min != math3d.V3(-3, -2, 0) || b.Max != math3d.V3(1, 5, 4) {
		t.Errorf("bounds = %+v", b)
	}

	empty := BoundsOf(nil)
	if empty.Min.X <= empty.Max.X {
		t.Errorf("empty bounds should be inverted, got %+v", empty)
	}
}

func TestExtractFrustumNormalized(t *testing.T) {
	frustum := ExtractFrustum(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))
	for i, plane := range frustum.Planes {
		if length := plane.Normal.Len(); math.Abs(length-1.0) > 1e-6 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, length)
		}
	}
}

// sceneFrustum is the stock camera volume (50 degrees, 4:3) seen from the
// origin, so the phone sits at z = -6.
func sceneFrustum() Frustum {
	return ExtractFrustum(math3d.Perspective(math3d.Radians(50), 4.0/3.0, 0.1, 1000))
}

func TestFrustumContainsPoint(t *testing.T) {
	f := sceneFrustum()
	tests := []struct {
		name  string
		point math3d.Vec3
		want  bool
	}{
		{"phone centre", math3d.V3(0, 0, -6), true},
		{"icon at orbit radius", math3d.V3(3.5, 0, -6), true},
		{"icon past the edge", math3d.V3(5, 0, -6), false},
		{"above the top edge", math3d.V3(0, 3, -6), false},
		{"behind the camera", math3d.V3(0, 0, 1), false},
		{"inside near plane", math3d.V3(0, 0, -0.05), false},
		{"past far plane", math3d.V3(0, 0, -1500), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.point); got != tc.want {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.want)
			}
		})
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := sceneFrustum()
	tests := []struct {
		name string
		box  AABB
		want bool
	}{
		{"phone body", AABB{math3d.V3(-0.9, -1.8, -6.1), math3d.V3(0.9, 1.8, -5.9)}, true},
		{"icon straddling the edge", AABB{math3d.V3(3.6, -0.2, -6.2), math3d.V3(4, 0.2, -5.8)}, true},
		{"icon off to the side", AABB{math3d.V3(9, -0.2, -6.2), math3d.V3(9.4, 0.2, -5.8)}, false},
		{"crosses near plane", AABB{math3d.V3(-1, -1, -2), math3d.V3(1, 1, 2)}, true},
		{"behind the camera", AABB{math3d.V3(-1, -1, 1), math3d.V3(1, 1, 4)}, false},
		{"encloses the view", AABB{math3d.V3(-2000, -2000, -2000), math3d.V3(2000, 2000, 2000)}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.want {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.want)
			}
		})
	}
}

func TestCameraFrustum(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 6), 50, 0.1, 1000)
	cam.SetAspectRatio(4.0 / 3.0)

	f := cam.GetFrustum()
	if !f.ContainsPoint(math3d.Zero3()) {
		t.Error("origin should be visible from (0,0,6)")
	}
	if f.ContainsPoint(math3d.V3(0, 0, 7)) {
		t.Error("point behind the camera should not be visible")
	}

	// Particles sit in z [-10, 0); the whole field must survive culling.
	if !f.IntersectAABB(AABB{math3d.V3(-7.5, -7.5, -10), math3d.V3(7.5, 7.5, 0)}) {
		t.Error("particle field bounds culled")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := sceneFrustum()
	box := AABB{math3d.V3(-0.9, -1.8, -6.1), math3d.V3(0.9, 1.8, -5.9)}
	for b.Loop() {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := AABB{math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1)}
	m := math3d.Translate(math3d.V3(1, 2, 3)).Mul(math3d.EulerXYZ(math3d.V3(0.3, 0.5, 0.1)))
	for b.Loop() {
		_ = box.Transform(m)
	}
}
