// Package interact holds the smaller open/close interactions: click
// toggling, open on focus and ARIA role wiring.
package interact

import (
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// ClickEvent selects the input that toggles the element.
type ClickEvent int

const (
	OnClick ClickEvent = iota
	OnPointerDown
)

// ClickOptions configure the click interaction.
type ClickOptions struct {
	Enabled bool
	Event   ClickEvent
	// Toggle closes an open element on a second press.
	Toggle bool
	// IgnoreMouse leaves mouse input to other interactions such as hover.
	IgnoreMouse bool
	// KeyboardHandlers makes Enter and Space work on references that are
	// not buttons.
	KeyboardHandlers bool
	// StickIfOpen keeps an element that another input opened (hover) open
	// on the first press.
	StickIfOpen bool
}

// DefaultClickOptions returns a toggling click interaction.
func DefaultClickOptions() ClickOptions {
	return ClickOptions{Enabled: true, Toggle: true, KeyboardHandlers: true, StickIfOpen: true}
}

// Click toggles a floating element from presses on its reference.
type Click struct {
	ctx  *floating.Context
	opts ClickOptions

	pointerType  dom.PointerType
	pointerSeen  bool
	spacePressed bool
}

// NewClick attaches a Click to ctx.
func NewClick(ctx *floating.Context, opts ClickOptions) *Click {
	return &Click{ctx: ctx, opts: opts}
}

// Props contributes reference handlers.
func (c *Click) Props() props.Set {
	if c.ctx == nil || !c.opts.Enabled {
		return props.Set{}
	}
	return props.Set{
		Reference: props.New().
			On(props.OnPointerDown, c.onPointerDown).
			On(props.OnClick, c.onClick).
			On(props.OnKeyDown, c.onKeyDown).
			On(props.OnKeyUp, c.onKeyUp),
	}
}

// stuck reports whether hover or focus opened the element, in which case
// the first press keeps it open instead of toggling.
func (c *Click) stuck() bool {
	ev := c.ctx.Data.OpenEvent
	if !c.opts.StickIfOpen || ev == nil {
		return false
	}
	switch ev.Type {
	case dom.Click, dom.PointerDown, dom.KeyDown, dom.KeyUp:
		return false
	}
	return true
}

func (c *Click) press(ev *dom.Event) {
	if c.ctx.Open() && c.opts.Toggle && !c.stuck() {
		c.ctx.SetOpen(false, floating.ReasonClick)
		return
	}
	if c.ctx.Open() {
		// A stuck element now belongs to this input.
		c.ctx.Data.OpenEvent = ev
		return
	}
	c.ctx.Data.OpenEvent = ev
	c.ctx.SetOpen(true, floating.ReasonClick)
}

func (c *Click) onPointerDown(ev *dom.Event) {
	c.pointerType = ev.PointerType
	c.pointerSeen = true
	if c.opts.Event != OnPointerDown {
		return
	}
	if c.opts.IgnoreMouse && ev.PointerType.MouseLike() {
		return
	}
	c.press(ev)
}

func (c *Click) onClick(ev *dom.Event) {
	seen := c.pointerSeen
	c.pointerSeen = false
	if c.opts.Event == OnPointerDown && seen {
		return
	}
	if seen && c.opts.IgnoreMouse && c.pointerType.MouseLike() {
		return
	}
	c.press(ev)
}

func (c *Click) keyboardIgnored(ev *dom.Event) bool {
	return ev.DefaultPrevented() || !c.opts.KeyboardHandlers ||
		(ev.Target != nil && ev.Target.Tag == "button")
}

func (c *Click) onKeyDown(ev *dom.Event) {
	c.pointerSeen = false
	if c.keyboardIgnored(ev) {
		return
	}
	switch ev.Key {
	case " ":
		if !c.ctx.Refs.Reference.Typeable() {
			ev.PreventDefault()
			c.spacePressed = true
		}
	case "Enter":
		c.press(ev)
	}
}

func (c *Click) onKeyUp(ev *dom.Event) {
	if c.keyboardIgnored(ev) || c.ctx.Refs.Reference.Typeable() {
		return
	}
	if ev.Key == " " && c.spacePressed {
		c.spacePressed = false
		c.press(ev)
	}
}
