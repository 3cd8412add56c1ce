// Package mount attaches a phone mockup to a drawing container: it builds
// the scene, starts the render loop, follows container resizes and tears
// everything down again.
package mount

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/taigrr/phonemock/pkg/anim"
	"github.com/taigrr/phonemock/pkg/dashboard"
	"github.com/taigrr/phonemock/pkg/loop"
	"github.com/taigrr/phonemock/pkg/models"
	"github.com/taigrr/phonemock/pkg/render"
	"github.com/taigrr/phonemock/pkg/scene"
)

var (
	// ErrNoContainer is returned by Mount when there is nothing to mount into.
	ErrNoContainer = errors.New("no container")
	// ErrNoSurface is returned by Mount when the container cannot provide a
	// drawing surface.
	ErrNoSurface = errors.New("no drawing surface")
)

// Surface presents rendered frames.
type Surface interface {
	Present(fb *render.Framebuffer) error
	Release()
}

// Resizer is implemented by surfaces that track the viewport size.
type Resizer interface {
	Resize(width, height int)
}

// Container is where an instance is mounted. Sizes are in framebuffer
// pixels.
type Container interface {
	Size() (width, height int)
	Surface() (Surface, error)
}

// ResizeObserver reports container size changes. Observe returns a function
// that stops the notifications.
type ResizeObserver interface {
	Observe(fn func(width, height int)) (unobserve func())
}

// Options configures a mounted instance.
type Options struct {
	Scene scene.Config
	Copy  dashboard.Copy
	// Seed feeds the orbit and particle randomness. Zero picks one.
	Seed uint64
	// Logger defaults to discarding everything.
	Logger *slog.Logger
	// OnFatal is called after the instance has torn itself down because a
	// frame could not be rendered or presented.
	OnFatal func(error)
}

// DefaultOptions returns the stock options.
func DefaultOptions() Options {
	return Options{
		Scene: scene.DefaultConfig(),
		Copy:  dashboard.DefaultCopy(),
	}
}

// Instance is a mounted mockup.
type Instance struct {
	log       *slog.Logger
	onFatal   func(error)
	surface   Surface
	gen       *dashboard.Generator
	asm       *scene.Assembler
	orbit     *anim.Orbit
	field     *anim.ParticleField
	sched     *loop.Scheduler
	unobserve func()

	mounted bool
	err     error
}

// Mount builds the scene in c and starts rendering on host. ro may be nil
// when the container never resizes. On error nothing stays attached.
func Mount(c Container, host loop.Host, ro ResizeObserver, opts Options) (in *Instance, err error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var undo []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(undo) - 1; i >= 0; i-- {
			undo[i]()
		}
		logger.Error("mount failed", "err", err)
	}()

	surface, err := c.Surface()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSurface, err)
	}
	if surface == nil {
		return nil, ErrNoSurface
	}
	undo = append(undo, surface.Release)

	gen, err := dashboard.NewGenerator(opts.Copy)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	undo = append(undo, gen.Close)

	rng := anim.NewRand(opts.Seed)
	orbit := anim.NewOrbit(rng)
	field := anim.NewParticleField(rng, anim.ParticleCount)

	w, h := c.Size()
	asm, err := scene.NewAssembler(opts.Scene, gen, field, w, h)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	in = &Instance{
		log:     logger,
		onFatal: opts.OnFatal,
		surface: surface,
		gen:     gen,
		asm:     asm,
		orbit:   orbit,
		field:   field,
		mounted: true,
	}
	in.sched = loop.NewScheduler(host, pipeline{in}, logger)
	in.sched.OnError = in.fatal
	if r, ok := surface.(Resizer); ok && w > 0 && h > 0 {
		r.Resize(w, h)
	}
	if ro != nil {
		in.unobserve = ro.Observe(in.resize)
	}
	in.sched.Start()

	logger.Info("mounted", "width", w, "height", h, "seed", opts.Seed)
	return in, nil
}

// pipeline runs the per-tick work of an instance.
type pipeline struct{ in *Instance }

func (p pipeline) Draw(f *anim.Frame) {
	p.in.gen.Draw(f.Time, f.NotificationOffset, f.ChartPhase)
}

func (p pipeline) Animate(f *anim.Frame) {
	p.in.orbit.Tick(anim.PhaseStep, f.Time)
	p.in.field.Tick(f.Time)
	p.in.asm.Apply(f, p.in.orbit, p.in.field)
}

func (p pipeline) Render() error {
	fb, err := p.in.asm.Render()
	if err != nil {
		return err
	}
	if err := p.in.surface.Present(fb); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

func (in *Instance) resize(w, h int) {
	if !in.mounted {
		return
	}
	if w <= 0 || h <= 0 {
		in.log.Debug("resize skipped", "width", w, "height", h)
		return
	}
	in.asm.SetAspect(float64(w) / float64(h))
	in.asm.SetViewport(w, h)
	if r, ok := in.surface.(Resizer); ok {
		r.Resize(w, h)
	}
	in.log.Debug("resized", "width", w, "height", h)
}

func (in *Instance) fatal(err error) {
	in.err = err
	in.log.Error("frame failed, unmounting", "err", err)
	in.Unmount()
	if in.onFatal != nil {
		in.onFatal(err)
	}
}

// Unmount stops the loop, stops resize notifications, releases the scene
// and then the surface. It is safe to call more than once and on nil.
func (in *Instance) Unmount() {
	if in == nil || !in.mounted {
		return
	}
	in.mounted = false

	in.sched.Cancel()
	if in.unobserve != nil {
		in.unobserve()
		in.unobserve = nil
	}
	released := in.asm.Dispose()
	in.gen.Close()
	in.surface.Release()
	in.log.Info("unmounted", "released", released, "ticks", in.sched.Frame().Ticks)
}

// Mounted reports whether the instance is still attached.
func (in *Instance) Mounted() bool {
	return in != nil && in.mounted
}

// Err returns the error that made the instance unmount itself, if any.
func (in *Instance) Err() error {
	if in == nil {
		return nil
	}
	return in.err
}

// State returns the render loop state.
func (in *Instance) State() loop.State {
	if in == nil {
		return loop.Stopped
	}
	return in.sched.State()
}

// Frame returns a snapshot of the frame clock.
func (in *Instance) Frame() anim.Frame {
	if in == nil {
		return anim.Frame{}
	}
	return in.sched.Frame()
}

// Aspect returns the camera aspect ratio.
func (in *Instance) Aspect() float64 {
	if !in.Mounted() {
		return 0
	}
	return in.asm.Camera().AspectRatio
}

// Zoom moves the camera dolly target by delta.
func (in *Instance) Zoom(delta float64) {
	if in.Mounted() {
		in.asm.Dolly().ZoomBy(delta)
	}
}

// ToggleWireframe switches the render mode.
func (in *Instance) ToggleWireframe() {
	if in.Mounted() {
		in.asm.ToggleWireframe()
	}
}

// Mode returns the render mode.
func (in *Instance) Mode() scene.RenderMode {
	if !in.Mounted() {
		return scene.RenderShaded
	}
	return in.asm.Mode()
}

// CullingStats returns the culling counters of the last frame.
func (in *Instance) CullingStats() render.CullingStats {
	if !in.Mounted() {
		return render.CullingStats{}
	}
	return in.asm.CullingStats()
}

// UI returns the current dashboard raster.
func (in *Instance) UI() *dashboard.Generator {
	if !in.Mounted() {
		return nil
	}
	return in.gen
}

// ExportGLB writes the scene geometry, as currently posed, to path.
func (in *Instance) ExportGLB(path string) error {
	if !in.Mounted() {
		return scene.ErrDisposed
	}
	return models.ExportGLB(path, in.asm.ExportParts())
}
