package math3d

import (
	"math"
	"testing"
)

func approxVec3(a, b Vec3, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps && math.Abs(a.Z-b.Z) < eps
}

func TestEulerXYZMatchesComposedRotations(t *testing.T) {
	r := V3(0.3, -0.7, 1.1)
	want := RotateX(r.X).Mul(RotateY(r.Y)).Mul(RotateZ(r.Z))
	got := EulerXYZ(r)
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("EulerXYZ[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRotationsAreRightHanded(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
		in   Vec3
		want Vec3
	}{
		{"X turns Y into Z", RotateX(math.Pi / 2), V3(0, 1, 0), V3(0, 0, 1)},
		{"Y turns Z into X", RotateY(math.Pi / 2), V3(0, 0, 1), V3(1, 0, 0)},
		{"Z turns X into Y", RotateZ(math.Pi / 2), V3(1, 0, 0), V3(0, 1, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.m.MulVec3(tc.in)
			if !approxVec3(got, tc.want, 1e-9) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestComposedTransformAppliesRightToLeft(t *testing.T) {
	m := Translate(V3(1, 2, 3)).Mul(RotateZ(math.Pi / 2)).Mul(ScaleUniform(2))
	got := m.MulVec3(V3(1, 0, 0))
	// scale -> (2,0,0), rotate about Z -> (0,2,0), translate -> (1,4,3)
	if !approxVec3(got, V3(1, 4, 3), 1e-9) {
		t.Errorf("composed point = %v, want (1,4,3)", got)
	}
	if tr := m.Translation(); !approxVec3(tr, V3(1, 2, 3), 1e-12) {
		t.Errorf("Translation() = %v", tr)
	}
	if d := m.MulVec3Dir(V3(1, 0, 0)); !approxVec3(d, V3(0, 2, 0), 1e-9) {
		t.Errorf("direction = %v, want (0,2,0)", d)
	}
}

func TestPerspectiveMapsNearAndFar(t *testing.T) {
	p := Perspective(Radians(90), 2, 1, 10)
	tests := []struct {
		name  string
		in    Vec3
		wantZ float64
	}{
		{"near plane", V3(0, 0, -1), -1},
		{"far plane", V3(0, 0, -10), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ndc := p.MulVec4(Point(tc.in)).NDC()
			if math.Abs(ndc.Z-tc.wantZ) > 1e-9 {
				t.Errorf("ndc z = %v, want %v", ndc.Z, tc.wantZ)
			}
		})
	}

	// A 90 degree fov puts y = -z on the top edge; aspect 2 halves x.
	ndc := p.MulVec4(Point(V3(2, 2, -2))).NDC()
	if !approxVec3(V3(ndc.X, ndc.Y, 0), V3(0.5, 1, 0), 1e-9) {
		t.Errorf("ndc = %v, want x 0.5 y 1", ndc)
	}
}

func TestQuadraticBezierEndpoints(t *testing.T) {
	p0, c, p1 := V2(0, 0), V2(1, 0), V2(1, 1)
	if got := QuadraticBezier(p0, c, p1, 0); got != p0 {
		t.Errorf("t=0 got %v", got)
	}
	if got := QuadraticBezier(p0, c, p1, 1); got != p1 {
		t.Errorf("t=1 got %v", got)
	}
	mid := QuadraticBezier(p0, c, p1, 0.5)
	if math.Abs(mid.X-0.75) > 1e-12 || math.Abs(mid.Y-0.25) > 1e-12 {
		t.Errorf("t=0.5 got %v, want (0.75, 0.25)", mid)
	}
}

func TestVec2PerpIsOutwardForCCW(t *testing.T) {
	// Bottom edge of a CCW square runs +X; outward is -Y.
	edge := V2(1, 0)
	if got := edge.Perp(); got != V2(0, -1) {
		t.Errorf("Perp() = %v, want (0,-1)", got)
	}
}

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkEulerXYZ(b *testing.B) {
	r := V3(0.1, 0.2, 0.3)

	for b.Loop() {
		_ = EulerXYZ(r)
	}
}
