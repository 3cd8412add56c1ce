// Package loop drives per-frame work. A Host schedules one-shot frame
// callbacks; the Scheduler re-arms itself each frame while running.
package loop

import (
	"context"
	"sync"
	"time"
)

// FrameID identifies a requested frame. Zero is never issued.
type FrameID uint64

// Host runs frame callbacks on its own goroutine. A callback runs at most
// once; one requested while frames are firing runs on the next frame.
type Host interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
}

type frameEntry struct {
	id FrameID
	fn func()
}

// frameQueue is the pending-callback bookkeeping shared by the hosts.
type frameQueue struct {
	mu      sync.Mutex
	next    FrameID
	pending []frameEntry
}

func (q *frameQueue) request(fn func()) FrameID {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, frameEntry{q.next, fn})
	return q.next
}

func (q *frameQueue) cancel(id FrameID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, e := range q.pending {
		if e.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

func (q *frameQueue) take() []frameEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	due := q.pending
	q.pending = nil
	return due
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Ticker fires pending frames on a fixed interval and runs posted functions
// between frames, all on the goroutine that calls Run.
type Ticker struct {
	frames   frameQueue
	interval time.Duration

	mu    sync.Mutex
	posts []func()
	wake  chan struct{}
}

// NewTicker creates a ticker firing fps times per second.
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{
		interval: time.Second / time.Duration(fps),
		wake:     make(chan struct{}, 1),
	}
}

// Interval returns the time between frames.
func (t *Ticker) Interval() time.Duration { return t.interval }

// RequestFrame schedules fn for the next frame.
func (t *Ticker) RequestFrame(fn func()) FrameID { return t.frames.request(fn) }

// CancelFrame drops a pending frame. Unknown ids are ignored.
func (t *Ticker) CancelFrame(id FrameID) { t.frames.cancel(id) }

// Pending returns the number of frames waiting to fire.
func (t *Ticker) Pending() int { return t.frames.len() }

// Post queues fn to run on the Run goroutine before the next frame. It is
// safe to call from any goroutine and never blocks.
func (t *Ticker) Post(fn func()) {
	t.mu.Lock()
	t.posts = append(t.posts, fn)
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Run fires frames until ctx is done, then returns ctx.Err().
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.wake:
			t.runPosts()
		case <-tk.C:
			t.runPosts()
			for _, e := range t.frames.take() {
				e.fn()
			}
		}
	}
}

func (t *Ticker) runPosts() {
	t.mu.Lock()
	posts := t.posts
	t.posts = nil
	t.mu.Unlock()
	for _, fn := range posts {
		fn()
	}
}

// Manual fires frames only when stepped. It is meant for tests and
// headless renders.
type Manual struct {
	frames frameQueue
}

// NewManual creates a manual host.
func NewManual() *Manual { return &Manual{} }

// RequestFrame schedules fn for the next Step.
func (m *Manual) RequestFrame(fn func()) FrameID { return m.frames.request(fn) }

// CancelFrame drops a pending frame.
func (m *Manual) CancelFrame(id FrameID) { m.frames.cancel(id) }

// Pending returns the number of frames waiting to fire.
func (m *Manual) Pending() int { return m.frames.len() }

// Step fires every pending frame and returns how many ran.
func (m *Manual) Step() int {
	due := m.frames.take()
	for _, e := range due {
		e.fn()
	}
	return len(due)
}

// StepN steps up to n times, stopping early once nothing is pending.
// It returns the number of steps taken.
func (m *Manual) StepN(n int) int {
	for i := range n {
		if m.Step() == 0 {
			return i
		}
	}
	return n
}
