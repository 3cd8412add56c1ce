package anim

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestFrameAdvance(t *testing.T) {
	var f Frame
	const n = 250
	for range n {
		f.Advance()
	}

	tests := []struct {
		name      string
		got, want float64
	}{
		{"time", f.Time, n * TimeStep},
		{"notification", f.NotificationOffset, n * NotificationStep},
		{"chart", f.ChartPhase, n * ChartStep},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > tol {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
	if f.Ticks != n {
		t.Errorf("ticks = %d", f.Ticks)
	}
}

func TestNewOrbit(t *testing.T) {
	o := NewOrbit(NewRand(7))
	for i, ic := range o.Icons {
		wantAngle := float64(i) / 6 * 2 * math.Pi
		if math.Abs(ic.Angle-wantAngle) > tol {
			t.Errorf("icon %d angle = %v, want %v", i, ic.Angle, wantAngle)
		}
		if ic.BaseRadius != OrbitRadius {
			t.Errorf("icon %d radius = %v", i, ic.BaseRadius)
		}
		if ic.AngularSpeed < 0.3 || ic.AngularSpeed >= 0.5 {
			t.Errorf("icon %d speed %v outside [0.3, 0.5)", i, ic.AngularSpeed)
		}
		if ic.VerticalPhaseOffset < 0 || ic.VerticalPhaseOffset >= 2*math.Pi {
			t.Errorf("icon %d phase %v outside [0, 2π)", i, ic.VerticalPhaseOffset)
		}
		wantX := math.Cos(wantAngle) * OrbitRadius
		wantZ := math.Sin(wantAngle) * 0.5
		if math.Abs(ic.Position.X-wantX) > tol || math.Abs(ic.Position.Z-wantZ) > tol {
			t.Errorf("icon %d initial position = %v", i, ic.Position)
		}
	}
}

func TestOrbitDeterministicSeed(t *testing.T) {
	a, b := NewOrbit(NewRand(42)), NewOrbit(NewRand(42))
	if a.Icons != b.Icons {
		t.Error("same seed should give the same orbit")
	}
}

func TestOrbitTick(t *testing.T) {
	o := NewOrbit(NewRand(1))
	speed := o.Icons[2].AngularSpeed
	start := o.Icons[2].Angle
	const time = 1.5

	o.Tick(PhaseStep, time)

	ic := o.Icons[2]
	if math.Abs(ic.Angle-(start+speed*PhaseStep)) > tol {
		t.Errorf("angle = %v, want %v", ic.Angle, start+speed*PhaseStep)
	}

	offset := ic.Angle + 2.0/6*2*math.Pi
	wantY := math.Sin(offset)*OrbitRadius*0.8 + math.Sin(time*0.8+ic.VerticalPhaseOffset)*0.3
	if math.Abs(ic.Position.X-math.Cos(offset)*OrbitRadius) > tol ||
		math.Abs(ic.Position.Y-wantY) > tol ||
		math.Abs(ic.Position.Z-math.Cos(offset)*0.5) > tol {
		t.Errorf("position = %v", ic.Position)
	}
	if math.Abs(ic.Rotation.X-(time*0.5+2)) > tol || math.Abs(ic.Rotation.Y-(time*0.7+2)) > tol {
		t.Errorf("rotation = %v", ic.Rotation)
	}
}

func TestOrbitTickDepthBounded(t *testing.T) {
	o := NewOrbit(NewRand(3))
	for i := range 5000 {
		o.Tick(PhaseStep, float64(i)*TimeStep)
		for _, ic := range o.Icons {
			if math.Abs(ic.Position.Z) > 0.5+tol {
				t.Fatalf("z = %v escapes the ring", ic.Position.Z)
			}
		}
	}
}

func TestParticleField(t *testing.T) {
	f := NewParticleField(NewRand(9), ParticleCount)
	if f.Len() != ParticleCount {
		t.Fatalf("len = %d", f.Len())
	}
	for i := range f.Len() {
		p := f.At(i)
		if p.X < -7.5 || p.X >= 7.5 || p.Y < -7.5 || p.Y >= 7.5 || p.Z < -10 || p.Z >= 0 {
			t.Errorf("particle %d at %v outside the field", i, p)
		}
	}

	f.Tick(4)
	if math.Abs(f.Yaw-0.2) > tol {
		t.Errorf("yaw = %v, want 0.2", f.Yaw)
	}
	if len(f.Points()) != ParticleCount {
		t.Error("Points length mismatch")
	}
}

func TestSwayAt(t *testing.T) {
	tests := []struct {
		t    float64
		want Sway
	}{
		{0, Sway{RotX: 0.05}},
		{math.Pi / 0.6, Sway{RotY: 0.15, RotX: math.Cos(math.Pi/3) * 0.05, PosY: math.Sin(math.Pi/1.2) * 0.1}},
	}
	for _, tt := range tests {
		got := SwayAt(tt.t)
		if math.Abs(got.RotX-tt.want.RotX) > tol || math.Abs(got.RotY-tt.want.RotY) > tol || math.Abs(got.PosY-tt.want.PosY) > tol {
			t.Errorf("SwayAt(%v) = %+v, want %+v", tt.t, got, tt.want)
		}
	}
}
