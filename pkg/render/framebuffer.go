// Package render is a small software rasterizer: a perspective camera, a
// depth-tested triangle and point rasterizer with Gouraud lighting, textures
// fed from live rasters, and half-block terminal presentation.
package render

import (
	"image"
	"image/color"
)

// Framebuffer is the colour target the rasterizer draws into. On a terminal
// each cell shows two vertically stacked pixels, so Height is twice the row
// count there.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []color.RGBA // row-major, premultiplied
}

// NewFramebuffer allocates a width x height target.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{}
	fb.Resize(width, height)
	return fb
}

// Resize changes the target size, reusing storage when it is large enough.
// Contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width, fb.Height = width, height
	n := width * height
	if cap(fb.Pixels) < n {
		fb.Pixels = make([]color.RGBA, n)
		return
	}
	fb.Pixels = fb.Pixels[:n]
}

// Release drops the pixel store.
func (fb *Framebuffer) Release() {
	fb.Width, fb.Height = 0, 0
	fb.Pixels = nil
}

// index returns the slot for (x, y), or -1 outside the target.
func (fb *Framebuffer) index(x, y int) int {
	if uint(x) >= uint(fb.Width) || uint(y) >= uint(fb.Height) {
		return -1
	}
	return y*fb.Width + x
}

// Clear fills every pixel with c.
func (fb *Framebuffer) Clear(c color.RGBA) {
	if len(fb.Pixels) == 0 {
		return
	}
	// Seed one pixel and keep doubling the filled prefix.
	fb.Pixels[0] = c
	for filled := 1; filled < len(fb.Pixels); filled *= 2 {
		copy(fb.Pixels[filled:], fb.Pixels[:filled])
	}
}

// SetPixel overwrites (x, y). Writes outside the target are dropped.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if i := fb.index(x, y); i >= 0 {
		fb.Pixels[i] = c
	}
}

// GetPixel reads (x, y), or transparent black outside the target.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if i := fb.index(x, y); i >= 0 {
		return fb.Pixels[i]
	}
	return color.RGBA{}
}

// BlendPixel composites the premultiplied colour c over (x, y).
func (fb *Framebuffer) BlendPixel(x, y int, c color.RGBA) {
	i := fb.index(x, y)
	switch {
	case i < 0 || c.A == 0:
		return
	case c.A == 255:
		fb.Pixels[i] = c
		return
	}
	keep := 255 - uint32(c.A)
	over := func(src, dst uint8) uint8 {
		return uint8(uint32(src) + (uint32(dst)*keep+127)/255)
	}
	d := fb.Pixels[i]
	fb.Pixels[i] = color.RGBA{over(c.R, d.R), over(c.G, d.G), over(c.B, d.B), over(c.A, d.A)}
}

// Segment draws a one-pixel line between two screen points by stepping
// along the longer axis.
func (fb *Framebuffer) Segment(x0, y0, x1, y1 float64, c color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := int(max(abs(dx), abs(dy)))
	if steps == 0 {
		fb.SetPixel(int(x0), int(y0), c)
		return
	}
	sx, sy := dx/float64(steps), dy/float64(steps)
	for i := 0; i <= steps; i++ {
		fb.SetPixel(int(x0+sx*float64(i)), int(y0+sy*float64(i)), c)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// ToImage copies the target into a new image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for i, p := range fb.Pixels {
		img.Pix[i*4], img.Pix[i*4+1], img.Pix[i*4+2], img.Pix[i*4+3] = p.R, p.G, p.B, p.A
	}
	return img
}
