package floating

import (
	"strings"

	"github.com/marcus/floatui/pkg/dom"
)

// Side is the edge of the reference a floating element is anchored to.
type Side string

const (
	SideTop    Side = "top"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
	SideRight  Side = "right"
)

// Alignment positions the floating element along the anchored side.
type Alignment string

const (
	AlignCenter Alignment = ""
	AlignStart  Alignment = "start"
	AlignEnd    Alignment = "end"
)

// Placement is a side with an optional alignment, e.g. "bottom-start".
type Placement string

const (
	Top         Placement = "top"
	TopStart    Placement = "top-start"
	TopEnd      Placement = "top-end"
	Bottom      Placement = "bottom"
	BottomStart Placement = "bottom-start"
	BottomEnd   Placement = "bottom-end"
	Left        Placement = "left"
	LeftStart   Placement = "left-start"
	LeftEnd     Placement = "left-end"
	Right       Placement = "right"
	RightStart  Placement = "right-start"
	RightEnd    Placement = "right-end"
)

// Side returns the anchored side.
func (p Placement) Side() Side {
	side, _, _ := strings.Cut(string(p), "-")
	switch Side(side) {
	case SideTop, SideLeft, SideRight:
		return Side(side)
	}
	return SideBottom
}

// Alignment returns the alignment part of the placement.
func (p Placement) Alignment() Alignment {
	_, align, _ := strings.Cut(string(p), "-")
	return Alignment(align)
}

// Opposite returns the side facing s.
func (s Side) Opposite() Side {
	switch s {
	case SideTop:
		return SideBottom
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	}
	return SideTop
}

func makePlacement(s Side, a Alignment) Placement {
	if a == AlignCenter {
		return Placement(s)
	}
	return Placement(string(s) + "-" + string(a))
}

// Strategy is the CSS-like positioning strategy reported back to the host.
type Strategy string

const (
	StrategyAbsolute Strategy = "absolute"
	StrategyFixed    Strategy = "fixed"
)

// PositionOptions are passed to a Positioner.
type PositionOptions struct {
	Placement Placement
	Strategy  Strategy
	// Offset is the gap between reference and floating element.
	Offset float64
	// Flip moves the element to the opposite side when it would overflow.
	Flip bool
	// Inner anchors a scrollable listbox over the reference; it only makes
	// sense for bottom placements.
	Inner bool
}

// Position is the solver's answer.
type Position struct {
	X         float64
	Y         float64
	Placement Placement
	Strategy  Strategy
}

// Positioner is the external geometry solver.
type Positioner interface {
	ComputePosition(reference, floating dom.Rect, opts PositionOptions) Position
}

// SidePositioner is a minimal Positioner: it places the floating rectangle on
// the requested side, aligns it, flips on viewport overflow and clamps it
// into the viewport along the cross axis.
type SidePositioner struct {
	Viewport dom.Rect
}

// Validate reports option combinations the solver cannot honour.
func (o PositionOptions) Validate() error {
	if o.Inner && o.Placement.Side() != SideBottom {
		return &ConfigError{
			Component: "position",
			Option:    "inner",
			Reason:    "inner positioning requires a bottom placement; ignoring inner",
		}
	}
	return nil
}

func (p SidePositioner) ComputePosition(reference, floating dom.Rect, opts PositionOptions) Position {
	placement := opts.Placement
	if placement == "" {
		placement = Bottom
	}
	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyAbsolute
	}
	side, align := placement.Side(), placement.Alignment()

	if opts.Inner && side == SideBottom {
		x, _ := p.place(reference, floating, side, align, opts.Offset)
		return Position{X: x, Y: reference.Y, Placement: placement, Strategy: strategy}
	}

	x, y := p.place(reference, floating, side, align, opts.Offset)
	if opts.Flip && p.overflows(dom.Rect{X: x, Y: y, Width: floating.Width, Height: floating.Height}, side) {
		flipped := side.Opposite()
		fx, fy := p.place(reference, floating, flipped, align, opts.Offset)
		if !p.overflows(dom.Rect{X: fx, Y: fy, Width: floating.Width, Height: floating.Height}, flipped) {
			x, y, side = fx, fy, flipped
		}
	}
	x, y = p.clampCross(x, y, floating, side)
	return Position{X: x, Y: y, Placement: makePlacement(side, align), Strategy: strategy}
}

func (p SidePositioner) place(ref, fl dom.Rect, side Side, align Alignment, offset float64) (float64, float64) {
	var x, y float64
	switch side {
	case SideTop, SideBottom:
		switch align {
		case AlignStart:
			x = ref.X
		case AlignEnd:
			x = ref.Right() - fl.Width
		default:
			x = ref.X + (ref.Width-fl.Width)/2
		}
		if side == SideTop {
			y = ref.Y - fl.Height - offset
		} else {
			y = ref.Bottom() + offset
		}
	default:
		switch align {
		case AlignStart:
			y = ref.Y
		case AlignEnd:
			y = ref.Bottom() - fl.Height
		default:
			y = ref.Y + (ref.Height-fl.Height)/2
		}
		if side == SideLeft {
			x = ref.X - fl.Width - offset
		} else {
			x = ref.Right() + offset
		}
	}
	return x, y
}

func (p SidePositioner) overflows(r dom.Rect, side Side) bool {
	if p.Viewport.Empty() {
		return false
	}
	switch side {
	case SideTop:
		return r.Y < p.Viewport.Y
	case SideBottom:
		return r.Bottom() > p.Viewport.Bottom()
	case SideLeft:
		return r.X < p.Viewport.X
	}
	return r.Right() > p.Viewport.Right()
}

func (p SidePositioner) clampCross(x, y float64, fl dom.Rect, side Side) (float64, float64) {
	if p.Viewport.Empty() {
		return x, y
	}
	clamp := func(v, lo, hi float64) float64 {
		if v > hi {
			v = hi
		}
		if v < lo {
			v = lo
		}
		return v
	}
	switch side {
	case SideTop, SideBottom:
		x = clamp(x, p.Viewport.X, p.Viewport.Right()-fl.Width)
	default:
		y = clamp(y, p.Viewport.Y, p.Viewport.Bottom()-fl.Height)
	}
	return x, y
}
