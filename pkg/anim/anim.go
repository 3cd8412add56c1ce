// Package anim holds the time-driven state of the mockup: the frame clock
// with its phase counters, the icon orbit, the particle field and the phone
// sway. Everything here is plain data advanced by fixed steps per tick.
package anim

import (
	"math"
	"math/rand/v2"

	"github.com/taigrr/phonemock/pkg/math3d"
)

// Per-tick increments.
const (
	TimeStep         = 0.01
	NotificationStep = 0.03
	ChartStep        = 0.02
	PhaseStep        = 0.005 // orbit angle step, scaled by each icon's speed
)

// Orbit layout.
const (
	IconCount   = 6
	OrbitRadius = 3.5
)

// Particle field layout.
const (
	ParticleCount = 50
	FieldSpread   = 15.0 // x and y span
	FieldDepth    = 10.0 // z span, shifted back by FieldOffsetZ
	FieldOffsetZ  = -5.0
)

// Frame is the animation clock. Its fields only ever grow.
type Frame struct {
	Time               float64
	NotificationOffset float64
	ChartPhase         float64
	Ticks              uint64
}

// Advance moves the clock and both phase counters forward one tick.
func (f *Frame) Advance() {
	f.Time += TimeStep
	f.NotificationOffset += NotificationStep
	f.ChartPhase += ChartStep
	f.Ticks++
}

// Icon is one orbiting cube.
type Icon struct {
	Angle               float64
	BaseRadius          float64
	AngularSpeed        float64
	VerticalPhaseOffset float64

	Position math3d.Vec3
	Rotation math3d.Vec3
}

// Orbit is the ring of icons around the phone.
type Orbit struct {
	Icons [IconCount]Icon
}

// NewOrbit places the icons evenly around the ring with random speeds and
// bob phases drawn from rng.
func NewOrbit(rng *rand.Rand) *Orbit {
	o := &Orbit{}
	for i := range o.Icons {
		a := slot(i)
		o.Icons[i] = Icon{
			Angle:               a,
			BaseRadius:          OrbitRadius,
			AngularSpeed:        0.3 + rng.Float64()*0.2,
			VerticalPhaseOffset: rng.Float64() * 2 * math.Pi,
			Position:            math3d.V3(math.Cos(a)*OrbitRadius, math.Sin(a)*OrbitRadius, math.Sin(a)*0.5),
		}
	}
	return o
}

func slot(i int) float64 {
	return float64(i) / IconCount * 2 * math.Pi
}

// Tick advances each icon by AngularSpeed*dtPhase and recomputes its
// position and spin at the given clock time.
func (o *Orbit) Tick(dtPhase, time float64) {
	for i := range o.Icons {
		ic := &o.Icons[i]
		ic.Angle += ic.AngularSpeed * dtPhase

		offset := ic.Angle + slot(i)
		r := ic.BaseRadius
		ic.Position = math3d.V3(
			math.Cos(offset)*r,
			math.Sin(offset)*r*0.8+math.Sin(time*0.8+ic.VerticalPhaseOffset)*0.3,
			math.Cos(offset)*0.5,
		)
		ic.Rotation = math3d.V3(time*0.5+float64(i), time*0.7+float64(i), 0)
	}
}

// ParticleField is a fixed cloud of points that only rotates as a whole.
type ParticleField struct {
	positions []float64 // x, y, z triples
	Yaw       float64
}

// NewParticleField scatters count points uniformly through the field box.
func NewParticleField(rng *rand.Rand, count int) *ParticleField {
	p := make([]float64, 0, 3*count)
	for range count {
		p = append(p,
			(rng.Float64()-0.5)*FieldSpread,
			(rng.Float64()-0.5)*FieldSpread,
			(rng.Float64()-0.5)*FieldDepth+FieldOffsetZ,
		)
	}
	return &ParticleField{positions: p}
}

// Len returns the number of particles.
func (f *ParticleField) Len() int { return len(f.positions) / 3 }

// At returns particle i.
func (f *ParticleField) At(i int) math3d.Vec3 {
	return math3d.V3(f.positions[3*i], f.positions[3*i+1], f.positions[3*i+2])
}

// Points returns all particle positions.
func (f *ParticleField) Points() []math3d.Vec3 {
	pts := make([]math3d.Vec3, f.Len())
	for i := range pts {
		pts[i] = f.At(i)
	}
	return pts
}

// Tick sets the field yaw for the clock time.
func (f *ParticleField) Tick(time float64) {
	f.Yaw = time * 0.05
}

// Sway is the idle motion of the phone group.
type Sway struct {
	RotX, RotY float64
	PosY       float64
}

// SwayAt returns the sway at clock time t.
func SwayAt(t float64) Sway {
	return Sway{
		RotY: math.Sin(t*0.3) * 0.15,
		RotX: math.Cos(t*0.2) * 0.05,
		PosY: math.Sin(t*0.5) * 0.1,
	}
}

// NewRand returns a PCG generator. A zero seed draws one from the runtime.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
