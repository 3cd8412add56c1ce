package mount

import (
	"image"
	"sync"

	"github.com/taigrr/phonemock/pkg/render"
)

// Offscreen is an in-memory container. Its surface keeps a copy of the
// last presented frame, and it doubles as its own resize observer.
type Offscreen struct {
	mu        sync.Mutex
	width     int
	height    int
	observers map[int]func(w, h int)
	nextID    int
	last      *image.RGBA
	presents  int
	released  bool
	// SurfaceErr, when set, is returned by Surface.
	SurfaceErr error
	// PresentErr, when set, is returned by every Present.
	PresentErr error
}

// NewOffscreen creates a width x height container.
func NewOffscreen(width, height int) *Offscreen {
	return &Offscreen{width: width, height: height, observers: make(map[int]func(w, h int))}
}

// Size returns the current size.
func (o *Offscreen) Size() (int, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.width, o.height
}

// Surface returns the drawing surface.
func (o *Offscreen) Surface() (Surface, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.SurfaceErr != nil {
		return nil, o.SurfaceErr
	}
	o.released = false
	return offscreenSurface{o}, nil
}

// Observe registers fn for size changes.
func (o *Offscreen) Observe(fn func(w, h int)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()
	id := o.nextID
	o.nextID++
	o.observers[id] = fn
	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(o.observers, id)
	}
}

// Observers returns the number of registered observers.
func (o *Offscreen) Observers() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.observers)
}

// Resize changes the size and notifies every observer before returning.
func (o *Offscreen) Resize(width, height int) {
	o.mu.Lock()
	o.width, o.height = width, height
	fns := make([]func(w, h int), 0, len(o.observers))
	for _, fn := range o.observers {
		fns = append(fns, fn)
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(width, height)
	}
}

// Image returns the last presented frame, or nil before the first.
func (o *Offscreen) Image() image.Image {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.last == nil {
		return nil
	}
	return o.last
}

// Presents returns how many frames have been presented.
func (o *Offscreen) Presents() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.presents
}

// Released reports whether the surface has been released.
func (o *Offscreen) Released() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}

type offscreenSurface struct{ o *Offscreen }

func (s offscreenSurface) Present(fb *render.Framebuffer) error {
	o := s.o
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.PresentErr != nil {
		return o.PresentErr
	}
	o.last = fb.ToImage()
	o.presents++
	return nil
}

func (s offscreenSurface) Release() {
	s.o.mu.Lock()
	defer s.o.mu.Unlock()
	s.o.released = true
}
