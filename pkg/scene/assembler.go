package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/phonemock/pkg/anim"
	"github.com/taigrr/phonemock/pkg/math3d"
	"github.com/taigrr/phonemock/pkg/models"
	"github.com/taigrr/phonemock/pkg/render"
)

// ErrDisposed is returned by Render once the Assembler has been disposed.
var ErrDisposed = errors.New("scene disposed")

// IconColors are the accent colours of the orbiting icons, in orbit order.
var IconColors = [anim.IconCount]string{"6366f1", "ec4899", "06b6d4", "8b5cf6", "f59e0b", "10b981"}

// Face layout along z, in the phone's frame. The gaps are measured from
// the shell's front cap.
const (
	ShellZ    = -0.075
	ScreenGap = 0.001
	UIGap     = 0.002
	NotchGap  = 0.011
)

// Config holds the camera and scene settings.
type Config struct {
	FOV     float64 // vertical, degrees
	Near    float64
	Far     float64
	CameraZ float64
	FPS     int // dolly spring rate

	Background    render.Color
	TextureWidth  int
	TextureHeight int

	Shell models.ShellSpec
	// IconModel replaces the cube icons when set.
	IconModel *models.Mesh
}

// DefaultConfig returns the stock camera and scene settings.
func DefaultConfig() Config {
	return Config{
		FOV:           50,
		Near:          0.1,
		Far:           1000,
		CameraZ:       6,
		FPS:           60,
		Background:    render.RGB(30, 30, 40),
		TextureWidth:  256,
		TextureHeight: 512,
		Shell:         models.DefaultShellSpec(),
	}
}

// Assembler owns the camera, lights and scene graph and renders frames.
type Assembler struct {
	cfg    Config
	camera *render.Camera
	fb     *render.Framebuffer
	rast   *render.Rasterizer
	lights *render.Lighting
	dolly  *Dolly
	mode   RenderMode

	root      *Node
	phone     *Node
	iconGroup *Node
	icons     [anim.IconCount]*Node
	particles *Node

	ui       render.RasterSource
	uiTex    *render.Texture
	disposed bool
}

// NewAssembler builds the scene for a width x height viewport. ui feeds the
// screen texture and field supplies the particle positions.
func NewAssembler(cfg Config, ui render.RasterSource, field *anim.ParticleField, width, height int) (*Assembler, error) {
	geo, err := models.BuildPhoneGeometry(cfg.Shell)
	if err != nil {
		return nil, fmt.Errorf("build geometry: %w", err)
	}
	if cfg.IconModel != nil {
		geo.Icon = cfg.IconModel
	}
	if cfg.TextureWidth <= 0 || cfg.TextureHeight <= 0 {
		return nil, fmt.Errorf("texture size %dx%d", cfg.TextureWidth, cfg.TextureHeight)
	}

	a := &Assembler{
		cfg:    cfg,
		camera: render.NewCamera(math3d.V3(0, 0, cfg.CameraZ), cfg.FOV, cfg.Near, cfg.Far),
		fb:     render.NewFramebuffer(max(width, 0), max(height, 0)),
		lights: defaultLights(),
		dolly:  NewDolly(cfg.FPS, cfg.CameraZ),
		ui:     ui,
		uiTex:  render.NewTexture(cfg.TextureWidth, cfg.TextureHeight),
	}
	a.camera.LookAt(math3d.Zero3())
	if width > 0 && height > 0 {
		a.camera.SetAspectRatio(float64(width) / float64(height))
	}
	a.camera.UpdateProjection()
	a.rast = render.NewRasterizer(a.camera, a.fb)

	a.build(geo, field)
	return a, nil
}

func defaultLights() *render.Lighting {
	return &render.Lighting{
		Ambient:          render.ColorWhite,
		AmbientIntensity: 0.8,
		Directional: []render.DirectionalLight{
			{Position: math3d.V3(3, 3, 5), Color: render.MustHex("6366f1"), Intensity: 2},
			{Position: math3d.V3(-3, -2, 3), Color: render.MustHex("8b5cf6"), Intensity: 1.5},
		},
	}
}

func (a *Assembler) build(geo models.PhoneGeometry, field *anim.ParticleField) {
	a.root = NewNode("root", nil)

	shell := NewNode("shell", &Mesh{Geometry: geo.Shell, Material: Material{Color: render.MustHex("1e1b4b")}})
	shell.Position.Z = ShellZ

	// Everything on the face is stacked just in front of the shell's front
	// cap so the depth test keeps it.
	front := ShellZ + a.cfg.Shell.FrontZ()

	screen := NewNode("screen", &Mesh{Geometry: geo.Screen, Material: Material{
		Color:             render.MustHex("0f0f1e"),
		Emissive:          render.MustHex("1a1a3e"),
		EmissiveIntensity: 0.5,
	}})
	screen.Position.Z = front + ScreenGap

	notch := NewNode("notch", &Mesh{Geometry: geo.Notch, Material: Material{Color: render.ColorBlack}})
	notch.Position = math3d.V3(0, 1.55, front+NotchGap)
	notch.Rotation.Z = math.Pi / 2

	ui := NewNode("ui", &Mesh{Geometry: geo.UI, Material: Material{
		Texture:     a.uiTex,
		Unlit:       true,
		Transparent: true,
		Opacity:     1,
	}})
	ui.Position.Z = front + UIGap

	a.phone = NewNode("phone", nil)
	a.phone.Add(shell, screen, notch, ui)

	a.iconGroup = NewNode("icons", nil)
	for i := range a.icons {
		c := render.MustHex(IconColors[i])
		a.icons[i] = NewNode(fmt.Sprintf("icon%d", i), &Mesh{Geometry: geo.Icon, Material: Material{
			Color:             c,
			Emissive:          c,
			EmissiveIntensity: 0.2,
		}})
		a.iconGroup.Add(a.icons[i])
	}

	var pts []math3d.Vec3
	if field != nil {
		pts = field.Points()
	}
	a.particles = NewNode("particles", &Points{
		Positions: pts,
		Color:     render.MustHex("6366f1"),
		Size:      0.05,
		Opacity:   0.6,
	})

	a.root.Add(a.phone, a.iconGroup, a.particles)
}

// Root returns the scene root. It is nil after Dispose.
func (a *Assembler) Root() *Node { return a.root }

// Camera returns the scene camera.
func (a *Assembler) Camera() *render.Camera { return a.camera }

// Dolly returns the camera zoom spring.
func (a *Assembler) Dolly() *Dolly { return a.dolly }

// Mode returns the current render mode.
func (a *Assembler) Mode() RenderMode { return a.mode }

// SetMode sets the render mode.
func (a *Assembler) SetMode(m RenderMode) { a.mode = m }

// ToggleWireframe switches between shaded and wireframe rendering.
func (a *Assembler) ToggleWireframe() {
	if a.mode == RenderWireframe {
		a.mode = RenderShaded
	} else {
		a.mode = RenderWireframe
	}
}

// CullingStats returns the culling counters of the last frame.
func (a *Assembler) CullingStats() render.CullingStats { return a.rast.CullingStats }

// Viewport returns the framebuffer size.
func (a *Assembler) Viewport() (int, int) { return a.fb.Width, a.fb.Height }

// SetViewport resizes the framebuffer and depth buffer. Non-positive sizes
// are ignored.
func (a *Assembler) SetViewport(width, height int) {
	if a.disposed || width <= 0 || height <= 0 {
		return
	}
	a.fb.Resize(width, height)
	a.rast.Resize()
}

// SetAspect updates the projection for a new aspect ratio. Non-positive
// ratios are ignored.
func (a *Assembler) SetAspect(aspect float64) {
	if a.disposed || aspect <= 0 {
		return
	}
	a.camera.SetAspectRatio(aspect)
	a.camera.UpdateProjection()
}

// Apply writes the animation state onto the scene: phone sway, icon
// transforms, particle yaw and the camera dolly.
func (a *Assembler) Apply(frame *anim.Frame, orbit *anim.Orbit, field *anim.ParticleField) {
	if a.disposed {
		return
	}
	if frame != nil {
		sway := anim.SwayAt(frame.Time)
		a.phone.Rotation = math3d.V3(sway.RotX, sway.RotY, 0)
		a.phone.Position.Y = sway.PosY
	}
	if orbit != nil {
		for i, ic := range orbit.Icons {
			a.icons[i].Position = ic.Position
			a.icons[i].Rotation = ic.Rotation
		}
	}
	if field != nil {
		a.particles.Rotation.Y = field.Yaw
	}

	z := a.dolly.Update()
	pos := a.camera.Position
	pos.Z = z
	a.camera.SetPosition(pos)
}

type deferredDraw struct {
	d     Drawable
	world math3d.Mat4
}

// Render draws the whole tree once and returns the framebuffer, which is
// reused by the next call. Transparent drawables are drawn last, in tree
// order.
func (a *Assembler) Render() (*render.Framebuffer, error) {
	if a.disposed {
		return nil, ErrDisposed
	}
	if a.ui != nil {
		a.uiTex.Sync(a.ui)
	}

	a.fb.Clear(a.cfg.Background)
	a.rast.ClearDepth()
	a.rast.ResetCullingStats()

	dc := &drawContext{r: a.rast, lights: a.lights, mode: a.mode}
	var later []deferredDraw
	a.root.Walk(math3d.Identity(), func(n *Node, world math3d.Mat4) bool {
		if n.Drawable == nil {
			return true
		}
		if n.Drawable.transparent() {
			later = append(later, deferredDraw{n.Drawable, world})
			return true
		}
		n.Drawable.draw(dc, world)
		return true
	})
	for _, d := range later {
		d.d.draw(dc, d.world)
	}
	return a.fb, nil
}

// ExportParts returns every mesh in the tree with its current world
// transform, for glTF export.
func (a *Assembler) ExportParts() []models.ExportPart {
	if a.disposed {
		return nil
	}
	var parts []models.ExportPart
	a.root.Walk(math3d.Identity(), func(n *Node, world math3d.Mat4) bool {
		if m, ok := n.Drawable.(*Mesh); ok && m.Geometry != nil {
			g := m.Geometry.Clone()
			g.Name = n.Name
			parts = append(parts, models.ExportPart{Mesh: g, Transform: world})
		}
		return true
	})
	return parts
}

// Dispose detaches the tree and releases geometry, textures, the
// framebuffer and the depth buffer. It returns how many resources were
// released; later calls release nothing and return 0.
func (a *Assembler) Dispose() int {
	if a.disposed {
		return 0
	}
	a.disposed = true

	n := 0
	seen := make(map[any]bool)
	a.root.Walk(math3d.Identity(), func(node *Node, _ math3d.Mat4) bool {
		if node.Drawable != nil {
			n += node.Drawable.release(seen)
		}
		return true
	})
	if a.uiTex != nil && !seen[a.uiTex] {
		a.uiTex.Release()
		n++
	}
	a.root.detach()
	a.root, a.phone, a.iconGroup, a.particles = nil, nil, nil, nil
	a.icons = [anim.IconCount]*Node{}
	a.uiTex = nil
	a.ui = nil

	a.fb.Release()
	a.rast.Release()
	return n + 2
}
