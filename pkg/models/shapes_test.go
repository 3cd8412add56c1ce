package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/phonemock/pkg/math3d"
)

const eps = 1e-9

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// Every shape here is convex, so each face must point away from the center.
func assertOutward(t *testing.T, m *Mesh) {
	t.Helper()
	center := m.Center()
	for i, f := range m.Faces {
		n := m.FaceNormal(i)
		if n.LenSq() < 0.5 {
			continue // degenerate triangle at a pole
		}
		c := m.Vertices[f.V[0]].Position.
			Add(m.Vertices[f.V[1]].Position).
			Add(m.Vertices[f.V[2]].Position).
			Scale(1.0 / 3)
		if n.Dot(c.Sub(center)) <= 0 {
			t.Fatalf("%s: face %d points inward (normal %v, centroid %v)", m.Name, i, n, c)
		}
	}
}

func TestRoundedRectOutline(t *testing.T) {
	pts := RoundedRectOutline(2, 4, 0.5, 4)
	if got, want := len(pts), 4*5-1; got != want {
		t.Fatalf("points = %d, want %d", got, want)
	}

	// Counter-clockwise: positive signed area.
	area := 0.0
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		area += p.X*q.Y - q.X*p.Y
	}
	if area <= 0 {
		t.Errorf("signed area = %v, want positive", area)
	}

	for _, p := range pts {
		if math.Abs(p.X) > 1+eps || math.Abs(p.Y) > 2+eps {
			t.Errorf("point %v outside the 2x4 rectangle", p)
		}
	}
}

func TestPhoneShell(t *testing.T) {
	spec := DefaultShellSpec()
	m := PhoneShell(spec)

	tests := []struct {
		name      string
		got, want float64
	}{
		{"min z", m.BoundsMin.Z, -spec.BevelThickness},
		{"max z", m.BoundsMax.Z, spec.Depth + spec.BevelThickness},
		{"max x", m.BoundsMax.X, spec.Width/2 + spec.BevelSize},
		{"min y", m.BoundsMin.Y, -spec.Height/2 - spec.BevelSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The corner normals are averaged, so the bevel edge sits a hair inside.
			if !near(tt.got, tt.want, 1e-3) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	assertOutward(t, m)

	for i, v := range m.Vertices {
		if !near(v.Normal.Len(), 1, 1e-6) {
			t.Fatalf("vertex %d normal not unit: %v", i, v.Normal)
		}
	}
}

func TestShellSpecValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*ShellSpec)
		ok     bool
	}{
		{"default", func(*ShellSpec) {}, true},
		{"zero width", func(s *ShellSpec) { s.Width = 0 }, false},
		{"radius too large", func(s *ShellSpec) { s.Radius = 1 }, false},
		{"flat", func(s *ShellSpec) { s.Depth = 0 }, false},
		{"no curve segments", func(s *ShellSpec) { s.CurveSegments = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := DefaultShellSpec()
			tt.modify(&spec)
			err := spec.Validate()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("err = %v, want ErrInvalidSpec", err)
			}
		})
	}
}

func TestPlane(t *testing.T) {
	m := Plane("screen", ScreenWidth, ScreenHeight)
	if m.TriangleCount() != 2 {
		t.Fatalf("triangles = %d, want 2", m.TriangleCount())
	}
	for i := range m.Faces {
		if n := m.FaceNormal(i); !near(n.Z, 1, eps) {
			t.Errorf("face %d normal = %v, want +Z", i, n)
		}
	}
	// Top-left vertex carries UV (0,1) so canvas row 0 lands at the top.
	for _, v := range m.Vertices {
		wantU := 0.0
		if v.Position.X > 0 {
			wantU = 1
		}
		wantV := 0.0
		if v.Position.Y > 0 {
			wantV = 1
		}
		if v.UV != math3d.V2(wantU, wantV) {
			t.Errorf("vertex %v has uv %v", v.Position, v.UV)
		}
	}
}

func TestCapsule(t *testing.T) {
	m := Capsule(NotchRadius, NotchLength, NotchCapSegments, NotchRadialSegs)
	if !near(m.BoundsMax.Y, NotchLength/2+NotchRadius, 1e-9) {
		t.Errorf("top = %v", m.BoundsMax.Y)
	}
	if !near(m.BoundsMax.X, NotchRadius, 1e-9) {
		t.Errorf("max x = %v", m.BoundsMax.X)
	}
	assertOutward(t, m)
}

func TestBox(t *testing.T) {
	m := Box(IconSize, IconSize, IconDepth)
	if m.TriangleCount() != 12 || m.VertexCount() != 24 {
		t.Fatalf("got %d triangles / %d vertices", m.TriangleCount(), m.VertexCount())
	}
	size := m.Size()
	if !near(size.X, IconSize, eps) || !near(size.Z, IconDepth, eps) {
		t.Errorf("size = %v", size)
	}
	assertOutward(t, m)
}

func TestBuildPhoneGeometry(t *testing.T) {
	g, err := BuildPhoneGeometry(DefaultShellSpec())
	if err != nil {
		t.Fatal(err)
	}
	for name, m := range map[string]*Mesh{"shell": g.Shell, "screen": g.Screen, "notch": g.Notch, "ui": g.UI, "icon": g.Icon} {
		if m == nil || m.TriangleCount() == 0 {
			t.Errorf("%s mesh is empty", name)
		}
	}

	bad := DefaultShellSpec()
	bad.Height = -1
	if _, err := BuildPhoneGeometry(bad); !errors.Is(err, ErrInvalidSpec) {
		t.Errorf("err = %v, want ErrInvalidSpec", err)
	}
}

func TestFitToSize(t *testing.T) {
	m := Box(2, 4, 1)
	m.Transform(math3d.Translate(math3d.V3(5, 5, 5)))
	m.FitToSize(IconSize)

	if c := m.Center(); c.Len() > 1e-9 {
		t.Errorf("center = %v, want origin", c)
	}
	if s := m.Size(); !near(s.Y, IconSize, 1e-9) || !near(s.X, IconSize/2, 1e-9) {
		t.Errorf("size = %v", s)
	}
}
