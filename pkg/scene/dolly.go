package scene

import "github.com/charmbracelet/harmonica"

// Dolly limits and spring tuning.
const (
	DollyMin       = 3.0
	DollyMax       = 20.0
	dollyFrequency = 5.0
)

// Dolly eases the camera distance toward a target with a critically damped
// spring, so zoom steps glide instead of jumping.
type Dolly struct {
	spring   harmonica.Spring
	position float64
	velocity float64
	target   float64
}

// NewDolly creates a dolly resting at z, stepped fps times per second.
func NewDolly(fps int, z float64) *Dolly {
	if fps <= 0 {
		fps = 60
	}
	z = clampDolly(z)
	return &Dolly{
		spring:   harmonica.NewSpring(harmonica.FPS(fps), dollyFrequency, 1.0),
		position: z,
		target:   z,
	}
}

// ZoomBy moves the target by delta, clamped to [DollyMin, DollyMax].
// Negative deltas move the camera closer.
func (d *Dolly) ZoomBy(delta float64) {
	d.target = clampDolly(d.target + delta)
}

// Update steps the spring once and returns the new position.
func (d *Dolly) Update() float64 {
	d.position, d.velocity = d.spring.Update(d.position, d.velocity, d.target)
	return d.position
}

// Position returns the current distance.
func (d *Dolly) Position() float64 { return d.position }

// Target returns the distance the dolly is heading for.
func (d *Dolly) Target() float64 { return d.target }

func clampDolly(z float64) float64 {
	return min(DollyMax, max(DollyMin, z))
}
