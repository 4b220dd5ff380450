package floating

import (
	"sync/atomic"
	"time"
)

// FrameInterval is the delay LoopScheduler uses for animation frames.
const FrameInterval = 16 * time.Millisecond

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented it
	// from running.
	Stop() bool
}

// Scheduler defers work. Callbacks always run on the UI thread.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	RequestFrame(fn func()) Timer
}

// Timeout holds at most one pending timer. Setting a new one cancels the
// previous, so a newer action always supersedes an older one.
type Timeout struct {
	timer Timer
}

// Set schedules fn after d on s, cancelling any pending callback.
func (t *Timeout) Set(s Scheduler, d time.Duration, fn func()) {
	t.Clear()
	if s == nil {
		return
	}
	t.timer = s.AfterFunc(d, func() {
		t.timer = nil
		fn()
	})
}

// Frame schedules fn for the next frame on s, cancelling any pending callback.
func (t *Timeout) Frame(s Scheduler, fn func()) {
	t.Clear()
	if s == nil {
		return
	}
	t.timer = s.RequestFrame(func() {
		t.timer = nil
		fn()
	})
}

// Clear cancels the pending callback, if any.
func (t *Timeout) Clear() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Pending reports whether a callback is scheduled.
func (t *Timeout) Pending() bool {
	return t.timer != nil
}

// ManualScheduler is a deterministic Scheduler driven by Advance. Time only
// moves when the caller says so.
type ManualScheduler struct {
	now   time.Duration
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
	done    bool
}

func (t *manualTask) Stop() bool {
	if t.stopped || t.done {
		return false
	}
	t.stopped = true
	return true
}

// NewManualScheduler returns a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	task := &manualTask{at: s.now + d, seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// RequestFrame schedules fn at the current instant; it runs on the next
// Flush or Advance.
func (s *ManualScheduler) RequestFrame(fn func()) Timer {
	return s.AfterFunc(0, fn)
}

// Advance moves the clock forward by d, running every due callback in time
// order. Callbacks scheduled by callbacks run too if they fall due.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		task := s.nextDue(target)
		if task == nil {
			break
		}
		s.now = task.at
		task.done = true
		task.fn()
	}
	s.now = target
	s.compact()
}

// Flush runs everything due now, including pending frames.
func (s *ManualScheduler) Flush() {
	s.Advance(0)
}

// Now returns the elapsed virtual time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of live callbacks.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.stopped && !t.done {
			n++
		}
	}
	return n
}

func (s *ManualScheduler) nextDue(target time.Duration) *manualTask {
	var best *manualTask
	for _, t := range s.tasks {
		if t.stopped || t.done || t.at > target {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *ManualScheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.stopped && !t.done {
			live = append(live, t)
		}
	}
	s.tasks = live
}

// LoopScheduler runs real timers but never executes callbacks itself: due
// callbacks are posted to Tasks, which the UI loop drains and runs. This
// keeps all state mutation on the UI goroutine.
type LoopScheduler struct {
	tasks chan func()
}

// NewLoopScheduler returns a LoopScheduler whose task queue holds buffer
// callbacks before timer goroutines block.
func NewLoopScheduler(buffer int) *LoopScheduler {
	return &LoopScheduler{tasks: make(chan func(), buffer)}
}

type loopTimer struct {
	timer   *time.Timer
	stopped atomic.Bool
}

func (t *loopTimer) Stop() bool {
	if t.stopped.Swap(true) {
		return false
	}
	t.timer.Stop()
	return true
}

func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		s.tasks <- func() {
			// Stop may have raced with delivery; check again on the UI thread.
			if t.stopped.Swap(true) {
				return
			}
			fn()
		}
	})
	return t
}

func (s *LoopScheduler) RequestFrame(fn func()) Timer {
	return s.AfterFunc(FrameInterval, fn)
}

// Tasks is the queue of callbacks ready to run on the UI thread.
func (s *LoopScheduler) Tasks() <-chan func() {
	return s.tasks
}
