package render

import "github.com/taigrr/phonemock/pkg/math3d"

var worldUp = math3d.V3(0, 1, 0)

// Camera is a perspective camera that keeps looking at a target point.
// View and projection are rebuilt lazily after any setter runs.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3

	FOV         float64 // vertical, radians
	AspectRatio float64 // width / height
	Near, Far   float64

	view, proj, viewProj math3d.Mat4
	staleView, staleProj bool
	staleVP              bool
}

// NewCamera creates a camera at pos aimed at the origin. fovDeg is the
// vertical field of view in degrees.
func NewCamera(pos math3d.Vec3, fovDeg, near, far float64) *Camera {
	return &Camera{
		Position:    pos,
		FOV:         math3d.Radians(fovDeg),
		AspectRatio: 1,
		Near:        near,
		Far:         far,
		staleView:   true,
		staleProj:   true,
		staleVP:     true,
	}
}

// SetPosition moves the eye. The target is unchanged.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	if pos == c.Position {
		return
	}
	c.Position = pos
	c.staleView = true
}

// LookAt aims the camera at target.
func (c *Camera) LookAt(target math3d.Vec3) {
	c.Target = target
	c.staleView = true
}

// SetAspectRatio records a new width/height ratio. The projection follows on
// the next matrix query, or immediately through UpdateProjection.
func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.staleProj = true
}

// UpdateProjection rebuilds the projection matrix now.
func (c *Camera) UpdateProjection() {
	c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
	c.staleProj = false
	c.staleVP = true
}

// ViewMatrix maps world space into eye space, where the camera sits at the
// origin looking down -Z with +Y up.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if !c.staleView {
		return c.view
	}
	back := c.Position.Sub(c.Target).Normalize()
	if back == (math3d.Vec3{}) {
		back = math3d.V3(0, 0, 1)
	}
	up := worldUp
	if up.Cross(back).LenSq() < 1e-12 {
		// Looking straight up or down; borrow -Z as the up hint.
		up = math3d.V3(0, 0, -1)
	}
	right := up.Cross(back).Normalize()
	up = back.Cross(right)

	eye := c.Position
	c.view = math3d.Mat4{
		right.X, up.X, back.X, 0,
		right.Y, up.Y, back.Y, 0,
		right.Z, up.Z, back.Z, 0,
		-right.Dot(eye), -up.Dot(eye), -back.Dot(eye), 1,
	}
	c.staleView = false
	c.staleVP = true
	return c.view
}

// ProjectionMatrix returns the projection, rebuilding it if stale.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.staleProj {
		c.UpdateProjection()
	}
	return c.proj
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	if c.staleVP {
		c.viewProj = proj.Mul(view)
		c.staleVP = false
	}
	return c.viewProj
}

// WorldToScreen projects p onto a screen of the given size. The point is
// not visible when it lies behind the eye or outside the clip volume.
func (c *Camera) WorldToScreen(p math3d.Vec3, screenWidth, screenHeight int) (x, y, depth float64, visible bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.NDC()
	if ndc.X < -1 || ndc.X > 1 || ndc.Y < -1 || ndc.Y > 1 || ndc.Z < -1 || ndc.Z > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X + 1) * 0.5 * float64(screenWidth)
	y = (1 - ndc.Y) * 0.5 * float64(screenHeight)
	return x, y, ndc.Z, true
}
