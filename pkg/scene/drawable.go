package scene

import (
	"github.com/taigrr/phonemock/pkg/math3d"
	"github.com/taigrr/phonemock/pkg/models"
	"github.com/taigrr/phonemock/pkg/render"
)

// RenderMode selects how drawables are rasterized.
type RenderMode int

const (
	RenderShaded    RenderMode = iota // lit and textured
	RenderWireframe                   // edges only
)

func (m RenderMode) String() string {
	if m == RenderWireframe {
		return "wireframe"
	}
	return "shaded"
}

// Material describes a mesh surface. A textured material is drawn unlit.
type Material struct {
	Color             render.Color
	Emissive          render.Color
	EmissiveIntensity float64

	Texture     *render.Texture
	Unlit       bool
	Transparent bool    // drawn after every opaque drawable
	Opacity     float64 // used when Transparent; 0 means opaque
}

func (m Material) opacity() float64 {
	if !m.Transparent || m.Opacity <= 0 {
		return 1
	}
	return m.Opacity
}

// Drawable is anything a node can carry.
type Drawable interface {
	draw(dc *drawContext, world math3d.Mat4)
	transparent() bool
	// release drops buffers not already in seen and returns how many it
	// dropped.
	release(seen map[any]bool) int
}

type drawContext struct {
	r      *render.Rasterizer
	lights *render.Lighting
	mode   RenderMode
}

var unlitLighting = &render.Lighting{Ambient: render.ColorWhite, AmbientIntensity: 1}

// Mesh draws shared geometry with a material.
type Mesh struct {
	Geometry *models.Mesh
	Material Material
}

func (m *Mesh) transparent() bool { return m.Material.Transparent }

func (m *Mesh) draw(dc *drawContext, world math3d.Mat4) {
	if m.Geometry == nil {
		return
	}
	mat := m.Material
	switch {
	case dc.mode == RenderWireframe:
		dc.r.DrawMeshWireframe(m.Geometry, world, render.ColorWire)
	case mat.Texture != nil:
		dc.r.DrawMeshTextured(m.Geometry, world, mat.Texture, mat.opacity())
	default:
		lights := dc.lights
		if mat.Unlit {
			lights = unlitLighting
		}
		dc.r.DrawMeshLit(m.Geometry, world, render.Material{
			Color:             mat.Color,
			Emissive:          mat.Emissive,
			EmissiveIntensity: mat.EmissiveIntensity,
		}, lights)
	}
}

func (m *Mesh) release(seen map[any]bool) int {
	n := 0
	if g := m.Geometry; g != nil && !seen[g] {
		seen[g] = true
		g.Vertices, g.Faces = nil, nil
		n++
	}
	if t := m.Material.Texture; t != nil && !seen[t] {
		seen[t] = true
		t.Release()
		n++
	}
	m.Geometry = nil
	m.Material.Texture = nil
	return n
}

// Points draws a cloud of square sprites. Size is in world units.
type Points struct {
	Positions []math3d.Vec3
	Color     render.Color
	Size      float64
	Opacity   float64
}

func (p *Points) transparent() bool { return p.Opacity < 1 }

func (p *Points) draw(dc *drawContext, world math3d.Mat4) {
	if len(p.Positions) == 0 || !dc.r.Visible(render.BoundsOf(p.Positions), world) {
		return
	}
	if dc.mode == RenderWireframe {
		dc.r.DrawPointsWireframe(p.Positions, world, render.ColorWire)
		return
	}
	dc.r.DrawPoints(p.Positions, world, p.Color, p.Size, p.Opacity)
}

func (p *Points) release(map[any]bool) int {
	if p.Positions == nil {
		return 0
	}
	p.Positions = nil
	return 1
}
