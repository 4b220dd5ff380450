package hover

import (
	"math"
	"time"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
)

// DefaultBuffer is the margin in cells (or pixels) added around the cursor
// apex of the polygon.
const DefaultBuffer = 0.5

// Point is a 2-D coordinate.
type Point struct {
	X, Y float64
}

// Polygon is an ordered ring of points.
type Polygon []Point

// Contains reports whether p lies inside the polygon using the ray casting
// test: a horizontal ray from p toggles the state at every edge it crosses.
func (poly Polygon) Contains(p Point) bool {
	return PointInPolygon(p, poly)
}

// PointInPolygon is the ray casting test used by Polygon.Contains.
func PointInPolygon(p Point, poly Polygon) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		xi, yi := poly[i].X, poly[i].Y
		xj, yj := poly[j].X, poly[j].Y
		if (yi >= p.Y) != (yj >= p.Y) && p.X <= (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

func rectContains(r dom.Rect, p Point) bool {
	return p.X >= r.Left() && p.X <= r.Right() && p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Trough returns the rectangle directly between reference and floating
// element, narrowed to the smaller of the two along the cross axis.
func Trough(side floating.Side, ref, fl dom.Rect) Polygon {
	wider := fl.Width > ref.Width
	taller := fl.Height > ref.Height
	horiz, vert := fl, fl
	if wider {
		horiz = ref
	}
	if taller {
		vert = ref
	}
	left, right := horiz.Left(), horiz.Right()
	top, bottom := vert.Top(), vert.Bottom()

	switch side {
	case floating.SideTop:
		return Polygon{
			{left, ref.Top() + 1}, {left, fl.Bottom() - 1},
			{right, fl.Bottom() - 1}, {right, ref.Top() + 1},
		}
	case floating.SideLeft:
		return Polygon{
			{fl.Right() - 1, bottom}, {fl.Right() - 1, top},
			{ref.Left() + 1, top}, {ref.Left() + 1, bottom},
		}
	case floating.SideRight:
		return Polygon{
			{ref.Right() - 1, bottom}, {ref.Right() - 1, top},
			{fl.Left() + 1, top}, {fl.Left() + 1, bottom},
		}
	}
	return Polygon{
		{left, fl.Top() + 1}, {left, ref.Bottom() - 1},
		{right, ref.Bottom() - 1}, {right, fl.Top() + 1},
	}
}

// NewPolygon builds the safe polygon from the point where the pointer left
// the reference toward the floating element on side.
func NewPolygon(side floating.Side, ref, fl dom.Rect, leave Point, buffer float64) Polygon {
	x, y := leave.X, leave.Y
	wider := fl.Width > ref.Width
	taller := fl.Height > ref.Height
	fromRight := x > fl.Right()-fl.Width/2
	fromBottom := y > fl.Bottom()-fl.Height/2

	// apex spreads the cursor point across the cross axis.
	apex := func(v float64, after bool) (float64, float64) {
		if after {
			return v + buffer/2, v - buffer/2
		}
		if (side == floating.SideTop || side == floating.SideBottom) && fromRight ||
			(side == floating.SideLeft || side == floating.SideRight) && fromBottom {
			return v + buffer*4, v + buffer*4
		}
		return v - buffer*4, v - buffer*4
	}

	switch side {
	case floating.SideTop:
		a, b := apex(x, wider)
		first := fl.Top()
		if fromRight || wider {
			first = fl.Bottom() - buffer
		}
		second := fl.Bottom() - buffer
		if fromRight && !wider {
			second = fl.Top()
		}
		return Polygon{{a, y + buffer + 1}, {b, y + buffer + 1}, {fl.Left(), first}, {fl.Right(), second}}
	case floating.SideLeft:
		a, b := apex(y, taller)
		first := fl.Left()
		if fromBottom || taller {
			first = fl.Right() - buffer
		}
		second := fl.Right() - buffer
		if fromBottom && !taller {
			second = fl.Left()
		}
		return Polygon{{first, fl.Top()}, {second, fl.Bottom()}, {x + buffer + 1, a}, {x + buffer + 1, b}}
	case floating.SideRight:
		a, b := apex(y, taller)
		first := fl.Right()
		if fromBottom || taller {
			first = fl.Left() + buffer
		}
		second := fl.Left() + buffer
		if fromBottom && !taller {
			second = fl.Right()
		}
		return Polygon{{x - buffer, a}, {x - buffer, b}, {first, fl.Top()}, {second, fl.Bottom()}}
	}
	a, b := apex(x, wider)
	first := fl.Bottom()
	if fromRight || wider {
		first = fl.Top() + buffer
	}
	second := fl.Top() + buffer
	if fromRight && !wider {
		second = fl.Bottom()
	}
	return Polygon{{a, y - buffer}, {b, y - buffer}, {fl.Left(), first}, {fl.Right(), second}}
}

// Verdict is the outcome of one safe-polygon evaluation.
type Verdict int

const (
	// Stay takes no action.
	Stay Verdict = iota
	// Landed means the pointer reached the floating element.
	Landed
	// InTrough means the pointer is between the two rectangles.
	InTrough
	// Inside means the pointer is inside the polygon.
	Inside
	// Close means the floating element should close.
	Close
)

func (v Verdict) String() string {
	switch v {
	case Stay:
		return "stay"
	case Landed:
		return "landed"
	case InTrough:
		return "trough"
	case Inside:
		return "inside"
	case Close:
		return "close"
	}
	return "unknown"
}

// Input is everything Classify needs for one pointer event.
type Input struct {
	Side      floating.Side
	Reference dom.Rect
	Floating  dom.Rect
	// Leave is where the pointer left the reference (or the floating
	// element for a leave re-check).
	Leave  Point
	Cursor Point
	Buffer float64

	OverReference bool
	OverFloating  bool
	// IsLeave marks a re-check triggered by leaving the floating element.
	IsLeave bool
	// RelatedInFloating is set when a leave moved into the floating element.
	RelatedInFloating bool
	ChildOpen         bool
	// Landed is the destroyed flag carried over from earlier evaluations.
	Landed bool
}

// Classify evaluates one pointer position. It returns the verdict and the
// updated landed flag.
func Classify(in Input) (Verdict, bool) {
	landed := in.Landed
	if in.OverReference && !in.IsLeave {
		return Stay, landed
	}
	if in.ChildOpen {
		return Stay, landed
	}
	if in.OverFloating {
		landed = true
		if !in.IsLeave {
			return Landed, landed
		}
	}
	if in.IsLeave && in.RelatedInFloating {
		return Stay, landed
	}

	// Leaving through the far edge of the reference; 1 absorbs rounding.
	x, y, ref := in.Leave.X, in.Leave.Y, in.Reference
	switch in.Side {
	case floating.SideTop:
		if y >= ref.Bottom()-1 {
			return Close, landed
		}
	case floating.SideBottom:
		if y <= ref.Top()+1 {
			return Close, landed
		}
	case floating.SideLeft:
		if x >= ref.Right()-1 {
			return Close, landed
		}
	case floating.SideRight:
		if x <= ref.Left()+1 {
			return Close, landed
		}
	}

	if PointInPolygon(in.Cursor, Trough(in.Side, in.Reference, in.Floating)) {
		return InTrough, landed
	}
	if landed && !rectContains(in.Reference, in.Cursor) {
		return Close, landed
	}
	if PointInPolygon(in.Cursor, NewPolygon(in.Side, in.Reference, in.Floating, in.Leave, in.Buffer)) {
		return Inside, landed
	}
	return Close, landed
}

// SafePolygon is a CloseHandler that keeps the floating element open while
// the pointer travels from the reference toward it.
type SafePolygon struct {
	// Buffer widens the cursor apex. Zero means DefaultBuffer.
	Buffer float64
	// Rest closes the element when the pointer stops inside the polygon
	// for this long without reaching the floating element. Zero disables it.
	Rest time.Duration
	// MinSpeed closes the element when the pointer crawls through the
	// polygon slower than this many units per millisecond. Zero disables it.
	MinSpeed float64
	// Clock defaults to time.Now.
	Clock func() time.Time

	landed  bool
	timeout floating.Timeout
	last    Verdict

	sampled    bool
	lastPoint  Point
	lastSample time.Time
}

// NewSafePolygon returns a SafePolygon with the default buffer.
func NewSafePolygon() *SafePolygon {
	return &SafePolygon{Buffer: DefaultBuffer}
}

// Landed reports whether the pointer reached the floating element during the
// current session.
func (s *SafePolygon) Landed() bool {
	return s.landed
}

// Last returns the most recent verdict.
func (s *SafePolygon) Last() Verdict {
	return s.last
}

// Reset clears the session state. Hover calls it when the element closes.
func (s *SafePolygon) Reset() {
	s.sampled = false
	s.landed = false
	s.last = Stay
	s.timeout.Clear()
}

func (s *SafePolygon) buffer() float64 {
	if s.Buffer <= 0 {
		return DefaultBuffer
	}
	return s.Buffer
}

// speed records p and returns the pointer speed since the previous sample.
// It reports false until two samples at different times exist.
func (s *SafePolygon) speed(p Point) (float64, bool) {
	now := time.Now()
	if s.Clock != nil {
		now = s.Clock()
	}
	prev, at, ok := s.lastPoint, s.lastSample, s.sampled
	s.lastPoint, s.lastSample, s.sampled = p, now, true
	if !ok {
		return 0, false
	}
	elapsed := float64(now.Sub(at)) / float64(time.Millisecond)
	if elapsed <= 0 {
		return 0, false
	}
	return math.Hypot(p.X-prev.X, p.Y-prev.Y) / elapsed, true
}

// Handler returns the pointer listener for one leave of the reference.
func (s *SafePolygon) Handler(cc CloseContext) dom.Listener {
	return func(ev *dom.Event) {
		s.timeout.Clear()
		ctx := cc.Ctx
		ref, fl := ctx.Refs.Reference, ctx.Refs.Floating
		if ref == nil || fl == nil {
			return
		}
		speed, measured := s.speed(Point{ev.X, ev.Y})
		verdict, landed := Classify(Input{
			Side:              ctx.Placement.Side(),
			Reference:         ref.Rect(),
			Floating:          fl.Rect(),
			Leave:             cc.Leave,
			Cursor:            Point{ev.X, ev.Y},
			Buffer:            s.buffer(),
			OverReference:     ref.Contains(ev.Target),
			OverFloating:      fl.Contains(ev.Target),
			IsLeave:           ev.Type == dom.PointerLeave,
			RelatedInFloating: ev.RelatedTarget != nil && fl.Contains(ev.RelatedTarget),
			ChildOpen:         len(ctx.OpenChildren()) > 0,
			Landed:            s.landed,
		})
		s.landed = landed
		s.last = verdict
		switch verdict {
		case Close:
			ctx.Logger.Debug("hover: safe polygon close", "node", ctx.NodeID, "x", ev.X, "y", ev.Y)
			cc.OnClose()
		case Inside:
			if !landed && s.MinSpeed > 0 && measured && speed < s.MinSpeed {
				ctx.Logger.Debug("hover: safe polygon too slow", "node", ctx.NodeID, "speed", speed)
				s.last = Close
				cc.OnClose()
				return
			}
			if !landed && s.Rest > 0 {
				s.timeout.Set(ctx.Scheduler, s.Rest, cc.OnClose)
			}
		}
	}
}
