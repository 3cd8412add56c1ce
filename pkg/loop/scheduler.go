package loop

import (
	"io"
	"log/slog"

	"github.com/taigrr/phonemock/pkg/anim"
)

// State is the scheduler state.
type State int

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Pipeline is the per-frame work, called in this order each tick.
type Pipeline interface {
	// Draw repaints the UI raster.
	Draw(f *anim.Frame)
	// Animate writes the animation state onto the scene.
	Animate(f *anim.Frame)
	// Render draws the scene. An error stops the scheduler.
	Render() error
}

// Scheduler advances the frame clock and runs the pipeline once per host
// frame. It starts Stopped, runs after Start and stops for good on Cancel
// or on a render error. It is not safe for concurrent use; call it from
// the host goroutine.
type Scheduler struct {
	host  Host
	pipe  Pipeline
	log   *slog.Logger
	frame anim.Frame

	state   State
	started bool
	pending FrameID

	// OnError is called once with the render error that stopped the loop.
	OnError func(error)
}

// NewScheduler creates a stopped scheduler. A nil logger discards.
func NewScheduler(host Host, pipe Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{host: host, pipe: pipe, log: logger}
}

// State returns the current state.
func (s *Scheduler) State() State { return s.state }

// Frame returns a copy of the frame clock.
func (s *Scheduler) Frame() anim.Frame { return s.frame }

// Start requests the first frame. Only the first call has an effect, so a
// cancelled scheduler cannot be restarted.
func (s *Scheduler) Start() {
	if s.started {
		return
	}
	s.started = true
	s.state = Running
	s.request()
	s.log.Debug("loop started")
}

// Cancel drops the pending frame and stops the scheduler. It is idempotent.
func (s *Scheduler) Cancel() {
	s.started = true
	if s.state != Running {
		return
	}
	s.stop()
	s.log.Debug("loop cancelled", "ticks", s.frame.Ticks)
}

func (s *Scheduler) stop() {
	s.state = Stopped
	if s.pending != 0 {
		s.host.CancelFrame(s.pending)
		s.pending = 0
	}
}

func (s *Scheduler) request() {
	s.pending = s.host.RequestFrame(s.tick)
}

func (s *Scheduler) tick() {
	s.pending = 0
	if s.state != Running {
		return
	}

	s.frame.Advance()
	s.pipe.Draw(&s.frame)
	s.pipe.Animate(&s.frame)
	if err := s.pipe.Render(); err != nil {
		if s.state == Running {
			s.stop()
		}
		s.log.Error("render failed, loop stopped", "err", err, "tick", s.frame.Ticks)
		if s.OnError != nil {
			s.OnError(err)
		}
		return
	}

	if s.state == Running {
		s.request()
	}
}
