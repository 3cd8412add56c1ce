package render

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// RasterSource is a CPU raster that changes over time. The texture uploads
// it only while NeedsUpload reports true, then acknowledges with Uploaded.
type RasterSource interface {
	Image() image.Image
	NeedsUpload() bool
	Uploaded()
}

// Texture is a fixed-size, premultiplied copy of a raster that meshes sample
// through UV coordinates. Coordinates outside [0,1] clamp to the edge.
type Texture struct {
	Width, Height int
	Pixels        []Color // row-major, row 0 is the image top

	// Nearest disables bilinear filtering.
	Nearest bool

	scratch *image.RGBA
	uploads int
}

// NewTexture creates a transparent texture of the given size.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Sync copies src in when it reports a change, rescaling it to the texture
// size, and acknowledges the upload. It reports whether a copy happened.
func (t *Texture) Sync(src RasterSource) bool {
	if !src.NeedsUpload() {
		return false
	}
	t.upload(src.Image())
	src.Uploaded()
	return true
}

// Uploads counts pixel uploads since creation.
func (t *Texture) Uploads() int {
	return t.uploads
}

// Release drops the pixel store.
func (t *Texture) Release() {
	t.Pixels, t.scratch = nil, nil
	t.Width, t.Height = 0, 0
}

func (t *Texture) upload(img image.Image) {
	if t.Width == 0 || t.Height == 0 {
		return
	}
	size := image.Rect(0, 0, t.Width, t.Height)
	src, ok := img.(*image.RGBA)
	if !ok || img.Bounds() != size {
		if t.scratch == nil {
			t.scratch = image.NewRGBA(size)
		}
		draw.ApproxBiLinear.Scale(t.scratch, size, img, img.Bounds(), draw.Src, nil)
		src = t.scratch
	}
	for y := range t.Height {
		row := src.Pix[y*src.Stride : y*src.Stride+4*t.Width]
		out := t.Pixels[y*t.Width : (y+1)*t.Width]
		for x := range out {
			out[x] = Color{R: row[4*x], G: row[4*x+1], B: row[4*x+2], A: row[4*x+3]}
		}
	}
	t.uploads++
}

// SetPixel writes (x, y); out-of-range writes are dropped.
func (t *Texture) SetPixel(x, y int, c Color) {
	if t.inside(x, y) {
		t.Pixels[y*t.Width+x] = c
	}
}

// GetPixel reads (x, y) with coordinates clamped to the edge.
func (t *Texture) GetPixel(x, y int) Color {
	x = max(0, min(x, t.Width-1))
	y = max(0, min(y, t.Height-1))
	if !t.inside(x, y) {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

func (t *Texture) inside(x, y int) bool {
	return uint(x) < uint(t.Width) && uint(y) < uint(t.Height)
}

// Sample looks the texture up at (u, v). V runs bottom to top, the reverse
// of image rows.
func (t *Texture) Sample(u, v float64) Color {
	if t.Width == 0 || t.Height == 0 {
		return Color{}
	}
	u = math.Max(0, math.Min(1, u))
	v = 1 - math.Max(0, math.Min(1, v))

	fx := u * float64(t.Width)
	fy := v * float64(t.Height)
	if t.Nearest {
		return t.GetPixel(int(fx), int(fy))
	}

	// Bilinear between the four texel centres around (fx, fy).
	fx, fy = fx-0.5, fy-0.5
	x0, y0 := math.Floor(fx), math.Floor(fy)
	tx, ty := fx-x0, fy-y0
	ix, iy := int(x0), int(y0)
	top := lerpColor(t.GetPixel(ix, iy), t.GetPixel(ix+1, iy), tx)
	bot := lerpColor(t.GetPixel(ix, iy+1), t.GetPixel(ix+1, iy+1), tx)
	return lerpColor(top, bot, ty)
}
