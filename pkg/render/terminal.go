package render

import (
	"image"
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. The framebuffer height should be 2x the terminal height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < fb.Width; col++ {
			x := col - area.Min.X
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// TerminalSurface presents frames on a terminal screen using half-block
// cells, with an optional one-line status overlay on the top row.
type TerminalSurface struct {
	screen  uv.Screen
	flush   func() error
	cols    int
	rows    int
	status  string
	overlay bool
}

// NewTerminalSurface creates a surface of cols x rows cells. flush pushes
// the drawn cells to the terminal.
func NewTerminalSurface(screen uv.Screen, flush func() error, cols, rows int) *TerminalSurface {
	return &TerminalSurface{screen: screen, flush: flush, cols: cols, rows: rows}
}

// FramebufferSize returns the pixel size that fills the surface.
func (t *TerminalSurface) FramebufferSize() (int, int) {
	return t.cols, t.rows * 2
}

// Resize changes the cell size of the surface.
func (t *TerminalSurface) Resize(cols, rows int) {
	t.cols, t.rows = cols, rows
}

// SetStatus sets the overlay text.
func (t *TerminalSurface) SetStatus(s string) {
	t.status = s
}

// ToggleOverlay shows or hides the status overlay.
func (t *TerminalSurface) ToggleOverlay() {
	t.overlay = !t.overlay
}

// Present draws fb and flushes it to the terminal.
func (t *TerminalSurface) Present(fb *Framebuffer) error {
	fb.Draw(t.screen, uv.Rectangle{Min: image.Pt(0, 0), Max: image.Pt(t.cols, t.rows)})
	if t.overlay && t.status != "" {
		t.drawStatus()
	}
	return t.flush()
}

// Release clears the cells the surface owns.
func (t *TerminalSurface) Release() {
	for row := range t.rows {
		for col := range t.cols {
			t.screen.SetCell(col, row, nil)
		}
	}
}

func (t *TerminalSurface) drawStatus() {
	style := uv.Style{Fg: ColorWire, Bg: ColorBlack}
	col := 0
	for _, r := range " " + t.status + " " {
		if col >= t.cols {
			break
		}
		t.screen.SetCell(col, 0, &uv.Cell{Content: string(r), Width: 1, Style: style})
		col++
	}
}
