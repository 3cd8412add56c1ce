package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/phonemock/pkg/math3d"
)

// ErrInvalidSpec is returned when shape dimensions cannot produce a mesh.
var ErrInvalidSpec = errors.New("invalid shape spec")

// ShellSpec describes the extruded phone body.
type ShellSpec struct {
	Width          float64
	Height         float64
	Radius         float64 // corner radius of the outline
	Depth          float64 // extrusion along +Z
	BevelThickness float64 // bevel extent along Z on each side
	BevelSize      float64 // bevel extent outward from the outline
	BevelSegments  int
	CurveSegments  int // samples per rounded corner
}

// DefaultShellSpec returns the phone body dimensions.
func DefaultShellSpec() ShellSpec {
	return ShellSpec{
		Width:          1.8,
		Height:         3.6,
		Radius:         0.25,
		Depth:          0.15,
		BevelThickness: 0.02,
		BevelSize:      0.02,
		BevelSegments:  3,
		CurveSegments:  12,
	}
}

// Validate reports whether the shell described by s can be built.
func (s ShellSpec) Validate() error {
	switch {
	case s.Width <= 0 || s.Height <= 0:
		return fmt.Errorf("%w: size %vx%v", ErrInvalidSpec, s.Width, s.Height)
	case s.Radius <= 0 || 2*s.Radius > min(s.Width, s.Height):
		return fmt.Errorf("%w: corner radius %v", ErrInvalidSpec, s.Radius)
	case s.Depth <= 0:
		return fmt.Errorf("%w: depth %v", ErrInvalidSpec, s.Depth)
	case s.BevelSegments < 1 || s.CurveSegments < 1:
		return fmt.Errorf("%w: segments %d/%d", ErrInvalidSpec, s.BevelSegments, s.CurveSegments)
	}
	return nil
}

// FrontZ is the shell's outermost z in its own frame: the flat front cap
// that PhoneShell closes the bevel with.
func (s ShellSpec) FrontZ() float64 {
	return s.Depth + s.BevelThickness
}

// PhoneGeometry is the static geometry of the mockup. It is built once and
// never mutated; scene nodes only move it around.
type PhoneGeometry struct {
	Shell  *Mesh
	Screen *Mesh
	Notch  *Mesh
	UI     *Mesh
	Icon   *Mesh
}

// Screen, notch and icon dimensions.
const (
	ScreenWidth      = 1.65
	ScreenHeight     = 3.4
	NotchRadius      = 0.15
	NotchLength      = 0.35
	NotchCapSegments = 4
	NotchRadialSegs  = 8
	IconSize         = 0.4
	IconDepth        = 0.1
)

// BuildPhoneGeometry builds every mesh the scene needs.
func BuildPhoneGeometry(spec ShellSpec) (PhoneGeometry, error) {
	if err := spec.Validate(); err != nil {
		return PhoneGeometry{}, err
	}
	return PhoneGeometry{
		Shell:  PhoneShell(spec),
		Screen: Plane("screen", ScreenWidth, ScreenHeight),
		Notch:  Capsule(NotchRadius, NotchLength, NotchCapSegments, NotchRadialSegs),
		UI:     Plane("ui", ScreenWidth, ScreenHeight),
		Icon:   Box(IconSize, IconSize, IconDepth),
	}, nil
}

// RoundedRectOutline returns a counter-clockwise outline of a rectangle
// centered on the origin whose corners are quadratic curves with the control
// point on the sharp corner.
func RoundedRectOutline(w, h, r float64, segments int) []math3d.Vec2 {
	hw, hh := w/2, h/2
	// Each corner: where the curve starts, the sharp corner, where it ends.
	corners := [4][3]math3d.Vec2{
		{{X: hw - r, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: -hh + r}},
		{{X: hw, Y: hh - r}, {X: hw, Y: hh}, {X: hw - r, Y: hh}},
		{{X: -hw + r, Y: hh}, {X: -hw, Y: hh}, {X: -hw, Y: hh - r}},
		{{X: -hw, Y: -hh + r}, {X: -hw, Y: -hh}, {X: -hw + r, Y: -hh}},
	}

	pts := make([]math3d.Vec2, 0, 4*(segments+1))
	for k, c := range corners {
		pts = append(pts, c[0])
		for s := 1; s <= segments; s++ {
			// The last corner ends where the first began.
			if k == len(corners)-1 && s == segments {
				break
			}
			pts = append(pts, math3d.QuadraticBezier(c[0], c[1], c[2], float64(s)/float64(segments)))
		}
	}
	return pts
}

// outlineNormals returns the outward normal at each point of a closed CCW
// outline, averaged from the two adjacent edges.
func outlineNormals(pts []math3d.Vec2) []math3d.Vec2 {
	n := len(pts)
	normals := make([]math3d.Vec2, n)
	for i := range pts {
		prev := pts[(i+n-1)%n]
		next := pts[(i+1)%n]
		in := pts[i].Sub(prev).Normalize().Perp()
		out := next.Sub(pts[i]).Normalize().Perp()
		normals[i] = in.Add(out).Normalize()
	}
	return normals
}

// PhoneShell extrudes the rounded outline into a bevelled slab that spans
// z = -BevelThickness to z = Depth + BevelThickness.
func PhoneShell(spec ShellSpec) *Mesh {
	mesh := NewMesh("shell")
	outline := RoundedRectOutline(spec.Width, spec.Height, spec.Radius, spec.CurveSegments)
	normals := outlineNormals(outline)
	n := len(outline)

	type ring struct{ z, offset float64 }
	var rings []ring
	segs := spec.BevelSegments
	for s := 0; s <= segs; s++ {
		a := float64(s) / float64(segs) * math.Pi / 2
		rings = append(rings, ring{z: -spec.BevelThickness * math.Cos(a), offset: spec.BevelSize * math.Sin(a)})
	}
	for s := 0; s <= segs; s++ {
		a := float64(s) / float64(segs) * math.Pi / 2
		rings = append(rings, ring{z: spec.Depth + spec.BevelThickness*math.Sin(a), offset: spec.BevelSize * math.Cos(a)})
	}

	uvOf := func(p math3d.Vec2) math3d.Vec2 {
		return math3d.V2(p.X/spec.Width+0.5, p.Y/spec.Height+0.5)
	}

	// Walls: one vertex per ring point, shared so normals come out smooth.
	base := len(mesh.Vertices)
	for _, r := range rings {
		for i, p := range outline {
			q := p.Add(normals[i].Scale(r.offset))
			mesh.AddVertex(math3d.V3(q.X, q.Y, r.z), math3d.Zero3(), uvOf(q))
		}
	}
	for k := 0; k+1 < len(rings); k++ {
		for i := range n {
			j := (i + 1) % n
			a := base + k*n + i
			b := base + k*n + j
			c := base + (k+1)*n + j
			d := base + (k+1)*n + i
			mesh.AddQuad(a, b, c, d)
		}
	}

	// Caps get their own vertices so the faces stay flat.
	backZ := rings[0].z
	frontZ := rings[len(rings)-1].z
	addCap := func(z float64, normal math3d.Vec3, front bool) {
		center := mesh.AddVertex(math3d.V3(0, 0, z), normal, math3d.V2(0.5, 0.5))
		first := len(mesh.Vertices)
		for _, p := range outline {
			mesh.AddVertex(math3d.V3(p.X, p.Y, z), normal, uvOf(p))
		}
		for i := range n {
			a := first + i
			b := first + (i+1)%n
			if front {
				mesh.AddTriangle(center, a, b)
			} else {
				mesh.AddTriangle(center, b, a)
			}
		}
	}

	mesh.CalculateSmoothNormals()
	addCap(frontZ, math3d.V3(0, 0, 1), true)
	addCap(backZ, math3d.V3(0, 0, -1), false)
	mesh.CalculateBounds()
	return mesh
}

// Plane builds a w x h quad in the XY plane facing +Z, with UV (0,0) at the
// bottom-left corner and (1,1) at the top-right.
func Plane(name string, w, h float64) *Mesh {
	mesh := NewMesh(name)
	hw, hh := w/2, h/2
	normal := math3d.V3(0, 0, 1)
	a := mesh.AddVertex(math3d.V3(-hw, -hh, 0), normal, math3d.V2(0, 0))
	b := mesh.AddVertex(math3d.V3(hw, -hh, 0), normal, math3d.V2(1, 0))
	c := mesh.AddVertex(math3d.V3(hw, hh, 0), normal, math3d.V2(1, 1))
	d := mesh.AddVertex(math3d.V3(-hw, hh, 0), normal, math3d.V2(0, 1))
	mesh.AddQuad(a, b, c, d)
	mesh.CalculateBounds()
	return mesh
}

// Capsule builds a capsule along Y: a cylinder of the given length capped by
// two hemispheres of the given radius.
func Capsule(radius, length float64, capSegments, radialSegments int) *Mesh {
	mesh := NewMesh("capsule")

	type ring struct{ y, lat float64 }
	var rings []ring
	for j := 0; j <= capSegments; j++ {
		lat := math.Pi/2 - float64(j)/float64(capSegments)*math.Pi/2
		rings = append(rings, ring{y: length / 2, lat: lat})
	}
	for j := 0; j <= capSegments; j++ {
		lat := -float64(j) / float64(capSegments) * math.Pi / 2
		rings = append(rings, ring{y: -length / 2, lat: lat})
	}

	cols := radialSegments + 1
	for k, r := range rings {
		for i := 0; i <= radialSegments; i++ {
			theta := float64(i) / float64(radialSegments) * 2 * math.Pi
			normal := math3d.V3(math.Cos(r.lat)*math.Cos(theta), math.Sin(r.lat), math.Cos(r.lat)*math.Sin(theta))
			pos := math3d.V3(0, r.y, 0).Add(normal.Scale(radius))
			uv := math3d.V2(float64(i)/float64(radialSegments), 1-float64(k)/float64(len(rings)-1))
			mesh.AddVertex(pos, normal, uv)
		}
	}
	for k := 0; k+1 < len(rings); k++ {
		for i := range radialSegments {
			a := k*cols + i
			b := k*cols + i + 1
			c := (k+1)*cols + i + 1
			d := (k+1)*cols + i
			mesh.AddQuad(a, b, c, d)
		}
	}
	mesh.CalculateBounds()
	return mesh
}

// Box builds an axis-aligned box centered on the origin with flat normals.
func Box(w, h, d float64) *Mesh {
	mesh := NewMesh("box")
	half := math3d.V3(w/2, h/2, d/2)
	extent := func(axis math3d.Vec3) float64 {
		return math.Abs(axis.X)*half.X + math.Abs(axis.Y)*half.Y + math.Abs(axis.Z)*half.Z
	}

	// normal, u, v with u x v = normal
	faces := [6][3]math3d.Vec3{
		{{X: 1}, {Z: -1}, {Y: 1}},
		{{X: -1}, {Z: 1}, {Y: 1}},
		{{Y: 1}, {X: 1}, {Z: -1}},
		{{Y: -1}, {X: 1}, {Z: 1}},
		{{Z: 1}, {X: 1}, {Y: 1}},
		{{Z: -1}, {X: -1}, {Y: 1}},
	}
	for _, f := range faces {
		normal, u, v := f[0], f[1], f[2]
		c := normal.Scale(extent(normal))
		us := u.Scale(extent(u))
		vs := v.Scale(extent(v))
		a := mesh.AddVertex(c.Sub(us).Sub(vs), normal, math3d.V2(0, 0))
		b := mesh.AddVertex(c.Add(us).Sub(vs), normal, math3d.V2(1, 0))
		cc := mesh.AddVertex(c.Add(us).Add(vs), normal, math3d.V2(1, 1))
		dd := mesh.AddVertex(c.Sub(us).Add(vs), normal, math3d.V2(0, 1))
		mesh.AddQuad(a, b, cc, dd)
	}
	mesh.CalculateBounds()
	return mesh
}
