package render

import (
	"math"

	"github.com/taigrr/phonemock/pkg/math3d"
)

// DirectionalLight shines from Position toward the origin. Only the
// direction of Position matters.
type DirectionalLight struct {
	Position  math3d.Vec3
	Color     Color
	Intensity float64
}

// Lighting is an ambient term plus any number of directional lights.
type Lighting struct {
	Ambient          Color
	AmbientIntensity float64
	Directional      []DirectionalLight
}

// Material is the per-draw surface description.
type Material struct {
	Color             Color
	Emissive          Color
	EmissiveIntensity float64
}

// Shade returns the lit color of a surface with world-space normal n.
// Diffuse is plain Lambert; emissive is added on top.
func (l *Lighting) Shade(n math3d.Vec3, m Material) Color {
	base := rgbOf(m.Color)
	light := rgbOf(l.Ambient).scale(l.AmbientIntensity)
	for _, d := range l.Directional {
		ndotl := math.Max(0, n.Dot(d.Position.Normalize()))
		light = light.add(rgbOf(d.Color).scale(d.Intensity * ndotl))
	}
	out := base.mul(light).add(rgbOf(m.Emissive).scale(m.EmissiveIntensity))
	return out.toColor()
}
