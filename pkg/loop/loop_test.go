package loop

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taigrr/phonemock/pkg/anim"
)

// recorder is a Pipeline that logs the call order and the frame clock each
// stage saw.
type recorder struct {
	calls   []string
	seen    map[string][]anim.Frame
	failAt  uint64
	onCall  func(step string)
	lastErr error
}

func (r *recorder) Draw(f *anim.Frame)    { r.observe("draw", f) }
func (r *recorder) Animate(f *anim.Frame) { r.observe("animate", f) }

func (r *recorder) observe(step string, f *anim.Frame) {
	if r.seen == nil {
		r.seen = make(map[string][]anim.Frame)
	}
	r.seen[step] = append(r.seen[step], *f)
	r.record(step)
}

func (r *recorder) Render() error {
	r.record("render")
	if r.failAt != 0 && uint64(r.count("render")) == r.failAt {
		r.lastErr = errors.New("context lost")
		return r.lastErr
	}
	return nil
}

func (r *recorder) record(step string) {
	r.calls = append(r.calls, step)
	if r.onCall != nil {
		r.onCall(step)
	}
}

func (r *recorder) count(step string) int {
	n := 0
	for _, c := range r.calls {
		if c == step {
			n++
		}
	}
	return n
}

func TestSchedulerTickOrder(t *testing.T) {
	host := NewManual()
	rec := &recorder{}
	s := NewScheduler(host, rec, nil)

	if s.State() != Stopped || host.Pending() != 0 {
		t.Fatal("scheduler should start stopped with nothing pending")
	}
	s.Start()
	if s.State() != Running || host.Pending() != 1 {
		t.Fatalf("after Start: state %v, pending %d", s.State(), host.Pending())
	}

	host.Step()
	want := []string{"draw", "animate", "render"}
	if len(rec.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
	for i := range want {
		if rec.calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", rec.calls, want)
		}
	}
	if host.Pending() != 1 {
		t.Errorf("next frame not requested, pending = %d", host.Pending())
	}
}

func TestSchedulerAdvancesBeforeDraw(t *testing.T) {
	host := NewManual()
	rec := &recorder{}
	NewScheduler(host, rec, nil).Start()
	host.StepN(3)

	for _, step := range []string{"draw", "animate"} {
		frames := rec.seen[step]
		if len(frames) != 3 {
			t.Fatalf("%s saw %d frames, want 3", step, len(frames))
		}
		for i, f := range frames {
			tick := uint64(i + 1)
			if f.Ticks != tick || math.Abs(f.Time-float64(tick)*anim.TimeStep) > 1e-12 {
				t.Errorf("%s call %d saw ticks %d time %v, want ticks %d time %v",
					step, i, f.Ticks, f.Time, tick, float64(tick)*anim.TimeStep)
			}
		}
	}
}

func TestSchedulerFrameClock(t *testing.T) {
	host := NewManual()
	s := NewScheduler(host, &recorder{}, nil)
	s.Start()
	host.StepN(100)

	f := s.Frame()
	if f.Ticks != 100 {
		t.Fatalf("ticks = %d", f.Ticks)
	}
	if math.Abs(f.Time-1) > 1e-9 || math.Abs(f.NotificationOffset-3) > 1e-9 || math.Abs(f.ChartPhase-2) > 1e-9 {
		t.Errorf("frame = %+v", f)
	}
}

func TestSchedulerCancel(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *Scheduler, host *Manual)
	}{
		{"before first frame", func(s *Scheduler, host *Manual) { s.Start() }},
		{"after some frames", func(s *Scheduler, host *Manual) { s.Start(); host.StepN(3) }},
		{"never started", func(s *Scheduler, host *Manual) {}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host := NewManual()
			rec := &recorder{}
			s := NewScheduler(host, rec, nil)
			tt.setup(s, host)
			before := len(rec.calls)

			s.Cancel()
			s.Cancel()
			if s.State() != Stopped {
				t.Errorf("state = %v", s.State())
			}
			if host.Pending() != 0 {
				t.Errorf("pending = %d after Cancel", host.Pending())
			}

			s.Start()
			host.StepN(5)
			if len(rec.calls) != before || s.State() != Stopped {
				t.Error("Start after Cancel should be a no-op")
			}
		})
	}
}

func TestSchedulerStaleCallback(t *testing.T) {
	// A host that cannot cancel, so the callback still fires.
	host := &leakyHost{}
	rec := &recorder{}
	s := NewScheduler(host, rec, nil)
	s.Start()
	s.Cancel()

	host.fire()
	if len(rec.calls) != 0 {
		t.Errorf("callback after Cancel ran the pipeline: %v", rec.calls)
	}
}

type leakyHost struct{ fns []func() }

func (h *leakyHost) RequestFrame(fn func()) FrameID {
	h.fns = append(h.fns, fn)
	return FrameID(len(h.fns))
}
func (h *leakyHost) CancelFrame(FrameID) {}
func (h *leakyHost) fire() {
	fns := h.fns
	h.fns = nil
	for _, fn := range fns {
		fn()
	}
}

func TestSchedulerRenderError(t *testing.T) {
	host := NewManual()
	rec := &recorder{failAt: 3}
	s := NewScheduler(host, rec, nil)

	var got []error
	s.OnError = func(err error) { got = append(got, err) }
	s.Start()
	host.StepN(10)

	if len(got) != 1 || !errors.Is(got[0], rec.lastErr) {
		t.Fatalf("OnError calls = %v", got)
	}
	if s.State() != Stopped || host.Pending() != 0 {
		t.Error("render error should stop the loop")
	}
	if n := rec.count("render"); n != 3 {
		t.Errorf("render ran %d times, want 3", n)
	}
}

func TestSchedulerCancelDuringTick(t *testing.T) {
	host := NewManual()
	rec := &recorder{}
	s := NewScheduler(host, rec, nil)
	rec.onCall = func(step string) {
		if step == "animate" {
			s.Cancel()
		}
	}
	s.Start()
	host.Step()
	if host.Pending() != 0 {
		t.Error("a cancelled tick must not request another frame")
	}
}

func TestManualCancelFrame(t *testing.T) {
	m := NewManual()
	ran := 0
	a := m.RequestFrame(func() { ran++ })
	m.RequestFrame(func() { ran += 10 })
	m.CancelFrame(a)
	m.CancelFrame(99)

	if n := m.Step(); n != 1 || ran != 10 {
		t.Errorf("Step ran %d callbacks, total %d", n, ran)
	}
	if m.Step() != 0 {
		t.Error("frames should fire once")
	}
}

func TestTickerRun(t *testing.T) {
	tk := NewTicker(200)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var frames atomic.Int32
	var posted atomic.Bool
	var tick func()
	tick = func() {
		if frames.Add(1) >= 3 {
			cancel()
			return
		}
		tk.RequestFrame(tick)
	}
	tk.RequestFrame(tick)
	tk.Post(func() { posted.Store(true) })

	err := tk.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
	if frames.Load() < 3 {
		t.Errorf("frames = %d, want at least 3", frames.Load())
	}
	if !posted.Load() {
		t.Error("posted function did not run")
	}
}

func TestTickerInterval(t *testing.T) {
	tests := []struct {
		fps  int
		want time.Duration
	}{
		{60, time.Second / 60},
		{0, time.Second / 60},
		{10, 100 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := NewTicker(tt.fps).Interval(); got != tt.want {
			t.Errorf("NewTicker(%d).Interval() = %v, want %v", tt.fps, got, tt.want)
		}
	}
}
