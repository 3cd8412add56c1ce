package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/phonemock/pkg/loop"
	"github.com/taigrr/phonemock/pkg/mount"
	"github.com/taigrr/phonemock/pkg/render"
)

// termContainer mounts the mockup on the terminal. Framebuffer pixels are
// one column wide and half a row tall. It is also the resize observer:
// window size events are posted to the ticker so they run between frames.
type termContainer struct {
	term    *uv.Terminal
	surface *render.TerminalSurface
	ticker  *loop.Ticker
	inst    *mount.Instance

	mu       sync.Mutex
	observer func(w, h int)

	fpsFrames int
	fpsTime   time.Time
	fps       float64
}

func startTerminal(fps int) (*termContainer, error) {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return nil, fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return nil, fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	return &termContainer{
		term:    term,
		surface: render.NewTerminalSurface(term, term.Display, width, height),
		ticker:  loop.NewTicker(fps),
		fpsTime: time.Now(),
	}, nil
}

func (c *termContainer) shutdown() {
	c.term.ExitAltScreen()
	c.term.ShowCursor()
	c.term.Shutdown(context.Background())
}

// Size returns the framebuffer size that fills the terminal.
func (c *termContainer) Size() (int, int) {
	return c.surface.FramebufferSize()
}

// Surface returns a presenter that keeps the status overlay current.
func (c *termContainer) Surface() (mount.Surface, error) {
	return termPresenter{c}, nil
}

// Observe registers the resize callback. Only one observer is kept.
func (c *termContainer) Observe(fn func(w, h int)) func() {
	c.mu.Lock()
	c.observer = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		c.observer = nil
		c.mu.Unlock()
	}
}

func (c *termContainer) notify(w, h int) {
	c.mu.Lock()
	fn := c.observer
	c.mu.Unlock()
	if fn != nil {
		fn(w, h)
	}
}

// handleEvents reads terminal input until the event channel closes. It
// never touches scene state directly; everything is posted to the ticker.
func (c *termContainer) handleEvents(quit context.CancelFunc) {
	for ev := range c.term.Events() {
		switch ev := ev.(type) {
		case uv.WindowSizeEvent:
			cols, rows := ev.Width, ev.Height
			c.ticker.Post(func() {
				c.term.Erase()
				c.term.Resize(cols, rows)
				c.notify(cols, rows*2)
			})

		case uv.KeyPressEvent:
			switch {
			case ev.MatchString("escape"), ev.MatchString("ctrl+c"):
				quit()
				return
			case ev.MatchString("+", "="):
				c.ticker.Post(func() { c.inst.Zoom(-0.5) })
			case ev.MatchString("-", "_"):
				c.ticker.Post(func() { c.inst.Zoom(0.5) })
			case ev.MatchString("x"):
				c.ticker.Post(c.inst.ToggleWireframe)
			case ev.MatchString("?"), ev.MatchString("shift+/"):
				c.ticker.Post(c.surface.ToggleOverlay)
			}
		}
	}
}

// termPresenter updates the FPS counter and overlay text, then presents.
type termPresenter struct{ c *termContainer }

func (p termPresenter) Present(fb *render.Framebuffer) error {
	c := p.c
	c.fpsFrames++
	if elapsed := time.Since(c.fpsTime); elapsed >= time.Second {
		c.fps = float64(c.fpsFrames) / elapsed.Seconds()
		c.fpsFrames = 0
		c.fpsTime = time.Now()
	}
	if c.inst != nil {
		stats := c.inst.CullingStats()
		c.surface.SetStatus(fmt.Sprintf("%.0f FPS  tick %d  %s  %d/%d drawn",
			c.fps, c.inst.Frame().Ticks, c.inst.Mode(), stats.MeshesDrawn, stats.MeshesTested))
	}
	return c.surface.Present(fb)
}

func (p termPresenter) Release() {
	p.c.surface.Release()
}

// Resize is called by the instance with framebuffer pixel sizes.
func (p termPresenter) Resize(w, h int) {
	p.c.surface.Resize(w, (h+1)/2)
}
