// phonemock - Animated 3D phone mockup in your terminal
// A software-rendered phone with a live dashboard, orbiting app icons and
// drifting particles. Can also render headless snapshots and export glTF.
//
// Controls:
//
//	+/-         - Zoom in/out
//	X           - Toggle wireframe mode
//	?           - Toggle status overlay (FPS, tick, mode)
//	Esc         - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/taigrr/phonemock/pkg/loop"
	"github.com/taigrr/phonemock/pkg/models"
	"github.com/taigrr/phonemock/pkg/mount"
	"github.com/taigrr/phonemock/pkg/render"
)

var (
	targetFPS = flag.Int("fps", 60, "Target FPS")
	bgColor   = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	seed      = flag.Uint64("seed", 0, "Random seed for icon speeds and particles (0 = random)")
	iconModel = flag.String("icon-model", "", "GLB model to use for the orbiting icons")
	snapshot  = flag.String("snapshot", "", "Render headless to this PNG and exit")
	uiOut     = flag.String("ui", "", "Write the dashboard raster to this PNG and exit")
	exportOut = flag.String("export", "", "Write the scene geometry to this GLB and exit")
	size      = flag.String("size", "800x600", "Headless render size (WxH)")
	ticks     = flag.Int("ticks", 100, "Frames to run before a headless capture")
	logPath   = flag.String("log", "", "Write a structured log to this file")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "phonemock - Animated 3D phone mockup\n\n")
		fmt.Fprintf(os.Stderr, "Usage: phonemock [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  +/-         - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle status overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger, closeLog, err := openLog(*logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	opts := mount.DefaultOptions()
	opts.Seed = *seed
	opts.Logger = logger
	opts.Scene.FPS = *targetFPS

	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	opts.Scene.Background = render.RGB(bgR, bgG, bgB)

	if *iconModel != "" {
		mesh, err := models.LoadIconModel(*iconModel)
		if err != nil {
			return fmt.Errorf("load icon model: %w", err)
		}
		opts.Scene.IconModel = mesh
		logger.Info("icon model loaded", "path", *iconModel, "triangles", mesh.TriangleCount())
	}

	if *snapshot != "" || *uiOut != "" || *exportOut != "" {
		return runHeadless(opts)
	}
	return runTerminal(opts, logger)
}

func openLog(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { f.Close() }, nil
}

func runHeadless(opts mount.Options) error {
	var w, h int
	if _, err := fmt.Sscanf(*size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return fmt.Errorf("bad size %q (want WxH)", *size)
	}

	c := mount.NewOffscreen(w, h)
	host := loop.NewManual()
	inst, err := mount.Mount(c, host, c, opts)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	defer inst.Unmount()

	host.StepN(*ticks)
	if err := inst.Err(); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if *snapshot != "" {
		if err := savePNG(*snapshot, c.Image()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s (%dx%d, tick %d)\n", *snapshot, w, h, inst.Frame().Ticks)
	}
	if *uiOut != "" {
		if err := savePNG(*uiOut, inst.UI().Image()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *uiOut)
	}
	if *exportOut != "" {
		if err := inst.ExportGLB(*exportOut); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", *exportOut)
	}
	return nil
}

func savePNG(path string, img image.Image) error {
	if img == nil {
		return errors.New("no frame rendered (ticks must be > 0)")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func runTerminal(opts mount.Options, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var fatal error
	opts.OnFatal = func(err error) {
		fatal = err
		cancel()
	}

	tc, err := startTerminal(*targetFPS)
	if err != nil {
		return err
	}
	defer tc.shutdown()

	inst, err := mount.Mount(tc, tc.ticker, tc, opts)
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	tc.inst = inst
	go tc.handleEvents(cancel)

	if err := tc.ticker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("loop exited", "err", err)
	}
	inst.Unmount()
	return fatal
}
