// Package dashboard paints the phone's screen: a 512x1024 mobile dashboard
// whose notification card, chart and activity pulse move with the animation
// clock. The result is an image the renderer uploads as the UI texture.
package dashboard

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"
)

// Canvas size in pixels.
const (
	Width  = 512
	Height = 1024
)

// Layout.
const (
	StatusBarHeight = 60
	NotificationX   = 30
	NotificationY0  = 200
	CardWidth       = (Width - 90) / 2
	CardHeight      = 120
	TileY           = 340
	ChartY          = 520
	ChartHeight     = 180
	ChartSamples    = 15
	ActivityY       = 780
	NavHeight       = 80
	NavY            = Height - NavHeight
)

// Copy is the text shown on the dashboard.
type Copy struct {
	Clock        string
	Battery      string
	Title        string
	Greeting     string
	NoticeTitle  string
	NoticeBody   string
	Tiles        [2]Tile
	ChartTitle   string
	ActivityText string
	Nav          [3]string
}

// Tile is one stat card.
type Tile struct {
	Value string
	Label string
}

// DefaultCopy returns the stock dashboard text.
func DefaultCopy() Copy {
	return Copy{
		Clock:        "9:41",
		Battery:      "100%",
		Title:        "Dashboard",
		Greeting:     "Welcome back!",
		NoticeTitle:  "New Message",
		NoticeBody:   "Your project is ready to review",
		Tiles:        [2]Tile{{"2.4K", "Users"}, {"$12K", "Revenue"}},
		ChartTitle:   "Analytics",
		ActivityText: "342 Active Users",
		Nav:          [3]string{"Home", "Stats", "Profile"},
	}
}

// Generator redraws the dashboard into a single reused image.
type Generator struct {
	copy  Copy
	img   *image.RGBA
	dc    *gg.Context
	fonts *fontCache
	dirty bool
}

// NewGenerator allocates the canvas and loads the fonts.
func NewGenerator(c Copy) (*Generator, error) {
	fonts, err := newFontCache(typeScale)
	if err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, Width, Height))
	return &Generator{
		copy:  c,
		img:   img,
		dc:    gg.NewContextForRGBA(img),
		fonts: fonts,
	}, nil
}

// Image returns the canvas. It is overwritten by every Draw.
func (g *Generator) Image() image.Image { return g.img }

// NeedsUpload reports whether the canvas changed since the last upload.
func (g *Generator) NeedsUpload() bool { return g.dirty }

// Uploaded clears the upload flag.
func (g *Generator) Uploaded() { g.dirty = false }

// Close releases the font faces.
func (g *Generator) Close() {
	if g.fonts != nil {
		g.fonts.close()
		g.fonts = nil
	}
}

// NotificationY returns the top of the notification card.
func NotificationY(offset float64) float64 {
	return NotificationY0 + math.Sin(offset)*5
}

// ChartOffset returns the chart's vertical wave at sample i.
func ChartOffset(i int, phase float64) float64 {
	fi := float64(i)
	return math.Sin(fi*0.5+phase)*30 + math.Sin(fi*0.3+phase*0.7)*20
}

// ChartPoints returns the chart samples in canvas pixels.
func ChartPoints(phase float64) [ChartSamples][2]float64 {
	var pts [ChartSamples][2]float64
	chartWidth := float64(Width - 100)
	for i := range pts {
		x := 50 + float64(i)/float64(ChartSamples-1)*chartWidth
		pts[i] = [2]float64{x, ChartY + 90 + ChartOffset(i, phase)}
	}
	return pts
}

// PulseRadius returns the activity halo radius.
func PulseRadius(time float64) float64 {
	return (6 + math.Sin(time*3)*2) * 2
}

// Draw repaints the dashboard for the given clock and phases and marks the
// canvas for upload. The same inputs always produce the same pixels.
func (g *Generator) Draw(time, notificationOffset, chartPhase float64) *image.RGBA {
	dc := g.dc
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	g.drawStatusBar()
	g.drawHeader()
	g.drawNotification(NotificationY(notificationOffset))
	g.drawTiles()
	g.drawChart(chartPhase)
	g.drawActivity(time)
	g.drawNav()

	g.dirty = true
	return g.img
}

func (g *Generator) drawStatusBar() {
	dc := g.dc
	dc.SetRGBA255(15, 15, 30, 204)
	dc.DrawRectangle(0, 0, Width, StatusBarHeight)
	dc.Fill()

	g.text(g.copy.Clock, styleClock, "#ffffff", Width/2, 38, 0.5)
	g.text(g.copy.Battery, styleBody, "#4ade80", Width-30, 38, 1)
}

func (g *Generator) drawHeader() {
	g.text(g.copy.Title, styleTitle, "#ffffff", 30, 120, 0)
	g.text(g.copy.Greeting, styleGreeting, "#94a3b8", 30, 155, 0)
}

func (g *Generator) drawNotification(y float64) {
	dc := g.dc
	w := float64(Width - 60)

	// Layered rects stand in for a 20px blurred shadow.
	for k := 5; k >= 1; k-- {
		grow := float64(k) * 4
		dc.SetRGBA255(99, 102, 241, 128/(k+3))
		dc.DrawRoundedRectangle(NotificationX-grow, y-grow, w+2*grow, 80+2*grow, grow)
		dc.Fill()
	}

	dc.SetFillStyle(verticalGradient(y, 80, "#6366f1", "#8b5cf6"))
	dc.DrawRectangle(NotificationX, y, w, 80)
	dc.Fill()

	g.text(g.copy.NoticeTitle, styleHeading, "#ffffff", 50, y+30, 0)
	g.text(g.copy.NoticeBody, styleBody, "#e0e7ff", 50, y+55, 0)
}

func (g *Generator) drawTiles() {
	dc := g.dc
	tiles := [2]struct {
		x        float64
		from, to string
		label    string
	}{
		{30, "#ec4899", "#f43f5e", "#fce7f3"},
		{Width/2 + 15, "#06b6d4", "#0891b2", "#cffafe"},
	}
	for i, t := range tiles {
		dc.SetFillStyle(verticalGradient(TileY, CardHeight, t.from, t.to))
		dc.DrawRectangle(t.x, TileY, CardWidth, CardHeight)
		dc.Fill()

		g.text(g.copy.Tiles[i].Value, styleStat, "#ffffff", t.x+20, TileY+55, 0)
		g.text(g.copy.Tiles[i].Label, styleBody, t.label, t.x+20, TileY+85, 0)
	}
}

func (g *Generator) drawChart(phase float64) {
	dc := g.dc
	dc.SetRGBA255(30, 27, 75, 153)
	dc.DrawRectangle(30, ChartY, Width-60, ChartHeight+50)
	dc.Fill()

	g.text(g.copy.ChartTitle, styleHeading, "#ffffff", 50, ChartY+35, 0)

	pts := ChartPoints(phase)
	dc.SetHexColor("#6366f1")
	dc.SetLineWidth(3)
	dc.NewSubPath()
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p[0], p[1])
		} else {
			dc.LineTo(p[0], p[1])
		}
	}
	dc.Stroke()

	dc.SetHexColor("#8b5cf6")
	for _, p := range pts {
		dc.DrawCircle(p[0], p[1], 4)
		dc.Fill()
	}

	dc.SetRGBA255(100, 116, 139, 51)
	dc.SetLineWidth(1)
	for i := range 4 {
		y := float64(ChartY + 70 + i*30)
		dc.DrawLine(50, y, Width-50, y)
		dc.Stroke()
	}
}

func (g *Generator) drawActivity(time float64) {
	dc := g.dc
	dc.SetHexColor("#10b981")
	dc.DrawCircle(50, ActivityY, 6)
	dc.Fill()

	g.text(g.copy.ActivityText, styleBody, "#ffffff", 70, ActivityY+5, 0)

	dc.SetRGBA255(16, 185, 129, 77)
	dc.DrawCircle(50, ActivityY, PulseRadius(time))
	dc.Fill()
}

func (g *Generator) drawNav() {
	dc := g.dc
	dc.SetRGBA255(30, 27, 75, 242)
	dc.DrawRectangle(0, NavY, Width, NavHeight)
	dc.Fill()

	for i, item := range g.copy.Nav {
		x := float64((i + 1) * Width / 4)
		icon, label := "#64748b", "#94a3b8"
		if i == 0 {
			icon, label = "#6366f1", "#ffffff"
		}
		dc.SetHexColor(icon)
		dc.DrawCircle(x, NavY+25, 12)
		dc.Fill()
		g.text(item, styleNavCaption, label, x, NavY+55, 0.5)
	}
}

// text draws s with its baseline at y. ax is the horizontal anchor: 0 left,
// 0.5 centred, 1 right.
func (g *Generator) text(s string, st textStyle, hex string, x, y, ax float64) {
	face := g.fonts.face(st)
	g.dc.SetFontFace(face)
	g.dc.SetHexColor(hex)
	g.dc.DrawStringAnchored(s, x, y, ax, 0)
}

func verticalGradient(y, h float64, from, to string) gg.Gradient {
	grad := gg.NewLinearGradient(0, y, 0, y+h)
	grad.AddColorStop(0, hexColor(from))
	grad.AddColorStop(1, hexColor(to))
	return grad
}

// hexColor parses a palette literal; the palette is fixed, so a bad entry
// is a programming error.
func hexColor(s string) color.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 255}
}
