// Package hover opens and closes a floating element from pointer hover, with
// per-direction delays, rest detection and a pluggable close handler such as
// the safe polygon.
package hover

import (
	"time"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// Delay holds separate open and close delays.
type Delay struct {
	Open  time.Duration
	Close time.Duration
}

// Uniform returns a Delay using d in both directions.
func Uniform(d time.Duration) Delay {
	return Delay{Open: d, Close: d}
}

// CloseContext is handed to a CloseHandler when the pointer leaves.
type CloseContext struct {
	Ctx *floating.Context
	// Leave is where the pointer left.
	Leave   Point
	OnClose func()
}

// CloseHandler decides, from document pointer moves, when a hovered floating
// element closes after the pointer left its reference.
type CloseHandler interface {
	Handler(cc CloseContext) dom.Listener
	// Reset drops per-session state; called when the element closes.
	Reset()
}

// Options configure the hover interaction.
type Options struct {
	Enabled bool
	Delay   Delay
	// Rest opens only once the pointer has rested on the reference for this
	// long. It applies when the open delay is zero.
	Rest time.Duration
	// MouseOnly ignores touch and pen input.
	MouseOnly   bool
	HandleClose CloseHandler
}

// DefaultOptions returns an enabled hover with no delays.
func DefaultOptions() Options {
	return Options{Enabled: true}
}

// Validate reports options that cannot all be honoured.
func (o Options) Validate() error {
	if o.Rest > 0 && o.Delay.Open > 0 {
		return &floating.ConfigError{
			Component: "hover",
			Option:    "rest",
			Reason:    "rest has no effect with a non-zero open delay; the open delay is used",
		}
	}
	return nil
}

// Hover is the hover interaction for one Context.
type Hover struct {
	ctx  *floating.Context
	opts Options

	timeout floating.Timeout
	rest    floating.Timeout

	removeHandler func()
}

// New attaches a Hover to ctx.
func New(ctx *floating.Context, opts Options) *Hover {
	h := &Hover{ctx: ctx, opts: opts}
	if ctx == nil || !opts.Enabled {
		return h
	}
	floating.Warn(ctx.Logger, opts.Validate())
	unwatch := ctx.Watch(func(open bool) {
		if !open {
			h.cleanup()
		}
	})
	unsub := ctx.Events.Subscribe(floating.EventDismiss, func(e floating.Event) {
		if de, ok := e.(floating.DismissEvent); ok && de.NodeID == ctx.NodeID {
			h.cleanup()
		}
	})
	ctx.OnUnmount(func() {
		unwatch()
		unsub()
		h.cleanup()
	})
	return h
}

// Props contributes reference and floating pointer handlers.
func (h *Hover) Props() props.Set {
	if h.ctx == nil || !h.opts.Enabled {
		return props.Set{}
	}
	return props.Set{
		Reference: props.New().
			On(props.OnPointerEnter, h.onReferenceEnter).
			On(props.OnPointerMove, h.onReferenceMove).
			On(props.OnPointerLeave, h.onReferenceLeave),
		Floating: props.New().
			On(props.OnPointerEnter, h.onFloatingEnter).
			On(props.OnPointerLeave, h.onFloatingLeave),
	}
}

// Pending reports whether an open or close delay is running.
func (h *Hover) Pending() bool {
	return h.timeout.Pending() || h.rest.Pending()
}

func (h *Hover) ignored(ev *dom.Event) bool {
	return h.opts.MouseOnly && !ev.PointerType.MouseLike()
}

func (h *Hover) restMode() bool {
	return h.opts.Rest > 0 && h.opts.Delay.Open == 0
}

func (h *Hover) open(ev *dom.Event) {
	h.ctx.Data.OpenEvent = ev
	h.ctx.SetOpen(true, floating.ReasonHover)
}

func (h *Hover) close(reason floating.Reason) {
	h.ctx.SetOpen(false, reason)
}

func (h *Hover) onReferenceEnter(ev *dom.Event) {
	if h.ignored(ev) {
		return
	}
	h.timeout.Clear()
	if h.ctx.Open() || h.restMode() {
		return
	}
	if h.opts.Delay.Open > 0 && ev.PointerType.MouseLike() {
		h.timeout.Set(h.ctx.Scheduler, h.opts.Delay.Open, func() { h.open(ev) })
		return
	}
	h.open(ev)
}

func (h *Hover) onReferenceMove(ev *dom.Event) {
	if h.ignored(ev) || !h.restMode() || h.ctx.Open() {
		return
	}
	if !ev.PointerType.MouseLike() {
		h.open(ev)
		return
	}
	h.rest.Set(h.ctx.Scheduler, h.opts.Rest, func() { h.open(ev) })
}

func (h *Hover) onReferenceLeave(ev *dom.Event) {
	if h.ignored(ev) {
		return
	}
	h.rest.Clear()
	if !h.ctx.Open() {
		h.timeout.Clear()
		return
	}
	if h.ctx.Data.OpenReason == floating.ReasonClick {
		return
	}
	if h.opts.HandleClose != nil {
		h.timeout.Clear()
		h.bindHandler(Point{ev.X, ev.Y})
		return
	}
	h.closeWithDelay(ev)
}

func (h *Hover) onFloatingEnter(ev *dom.Event) {
	h.timeout.Clear()
}

func (h *Hover) onFloatingLeave(ev *dom.Event) {
	if !h.ctx.Open() || h.ctx.Data.OpenReason == floating.ReasonClick {
		return
	}
	if h.opts.HandleClose != nil {
		h.bindHandler(Point{ev.X, ev.Y})
		h.opts.HandleClose.Handler(h.closeContext(Point{ev.X, ev.Y}))(ev)
		return
	}
	h.closeWithDelay(ev)
}

func (h *Hover) closeContext(leave Point) CloseContext {
	return CloseContext{
		Ctx:   h.ctx,
		Leave: leave,
		OnClose: func() {
			h.unbindHandler()
			h.close(floating.ReasonSafePolygon)
		},
	}
}

func (h *Hover) bindHandler(leave Point) {
	h.unbindHandler()
	if h.ctx.Doc == nil {
		return
	}
	h.removeHandler = h.ctx.Doc.AddListener(dom.PointerMove, h.opts.HandleClose.Handler(h.closeContext(leave)))
}

func (h *Hover) unbindHandler() {
	if h.removeHandler != nil {
		h.removeHandler()
		h.removeHandler = nil
	}
}

func (h *Hover) closeWithDelay(ev *dom.Event) {
	if h.opts.Delay.Close > 0 && ev.PointerType.MouseLike() {
		h.timeout.Set(h.ctx.Scheduler, h.opts.Delay.Close, func() { h.close(floating.ReasonHover) })
		return
	}
	h.timeout.Clear()
	h.close(floating.ReasonHover)
}

func (h *Hover) cleanup() {
	h.timeout.Clear()
	h.rest.Clear()
	h.unbindHandler()
	if h.opts.HandleClose != nil {
		h.opts.HandleClose.Reset()
	}
}
