package floating

import (
	"testing"
	"time"

	"github.com/marcus/floatui/pkg/dom"
)

func rectOf(x, y, w, h float64) dom.Rect {
	return dom.Rect{X: x, Y: y, Width: w, Height: h}
}

func TestManualSchedulerOrdering(t *testing.T) {
	s := NewManualScheduler()
	var got []string
	s.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	s.AfterFunc(10*time.Millisecond, func() {
		got = append(got, "a")
		s.AfterFunc(5*time.Millisecond, func() { got = append(got, "b") })
	})
	stopped := s.AfterFunc(20*time.Millisecond, func() { got = append(got, "never") })
	if !stopped.Stop() {
		t.Error("Stop on a pending timer should report true")
	}

	s.Advance(25 * time.Millisecond)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("after 25ms got %v, want [a b]", got)
	}
	s.Advance(10 * time.Millisecond)
	if len(got) != 3 || got[2] != "c" {
		t.Errorf("after 35ms got %v, want [a b c]", got)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", s.Pending())
	}
}

func TestTimeoutSupersedes(t *testing.T) {
	s := NewManualScheduler()
	var to Timeout
	fired := ""
	to.Set(s, 10*time.Millisecond, func() { fired = "first" })
	to.Set(s, 20*time.Millisecond, func() { fired = "second" })

	s.Advance(15 * time.Millisecond)
	if fired != "" {
		t.Errorf("superseded timer fired: %q", fired)
	}
	s.Advance(10 * time.Millisecond)
	if fired != "second" {
		t.Errorf("fired = %q, want second", fired)
	}
	if to.Pending() {
		t.Error("timeout should be idle after firing")
	}

	to.Frame(s, func() { fired = "frame" })
	to.Clear()
	s.Flush()
	if fired != "second" {
		t.Error("cleared frame should not run")
	}
}

func TestLoopSchedulerPostsToQueue(t *testing.T) {
	s := NewLoopScheduler(4)
	ran := false
	s.AfterFunc(time.Millisecond, func() { ran = true })
	cancelled := s.AfterFunc(time.Millisecond, func() { t.Error("stopped task ran") })
	cancelled.Stop()

	deadline := time.After(time.Second)
	for !ran {
		select {
		case task := <-s.Tasks():
			task()
		case <-deadline:
			t.Fatal("timed out waiting for task")
		}
	}
}

func TestRefCountResetsOnZero(t *testing.T) {
	resets := 0
	r := NewRefCount(func() { resets++ })
	r.Acquire()
	r.Acquire()
	r.Release()
	if resets != 0 {
		t.Error("reset before last release")
	}
	r.Release()
	r.Release()
	if resets != 1 || r.Count() != 0 {
		t.Errorf("resets = %d count = %d, want 1 and 0", resets, r.Count())
	}
}

func TestSidePositioner(t *testing.T) {
	p := SidePositioner{Viewport: rectOf(0, 0, 80, 24)}
	ref := rectOf(10, 20, 10, 1)
	fl := rectOf(0, 0, 20, 6)

	pos := p.ComputePosition(ref, fl, PositionOptions{Placement: BottomStart, Flip: true})
	if pos.Placement != TopStart {
		t.Errorf("expected flip to top-start, got %s", pos.Placement)
	}
	if pos.X != 10 || pos.Y != 14 {
		t.Errorf("position = (%g,%g), want (10,14)", pos.X, pos.Y)
	}

	pos = p.ComputePosition(rectOf(75, 2, 4, 1), fl, PositionOptions{Placement: Bottom})
	if pos.X != 60 {
		t.Errorf("cross axis clamp: X = %g, want 60", pos.X)
	}

	if err := (PositionOptions{Placement: Top, Inner: true}).Validate(); err == nil {
		t.Error("inner with top placement should be reported")
	}
}
