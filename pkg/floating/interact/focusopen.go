package interact

import (
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// FocusOptions configure the focus-to-open interaction.
type FocusOptions struct {
	Enabled bool
	// VisibleOnly opens only for keyboard focus. Typeable references open
	// on any focus.
	VisibleOnly bool
}

// DefaultFocusOptions opens on keyboard focus only.
func DefaultFocusOptions() FocusOptions {
	return FocusOptions{Enabled: true, VisibleOnly: true}
}

// FocusOpen opens a floating element when its reference gains focus and
// closes it once focus leaves both the reference and the floating element.
type FocusOpen struct {
	ctx  *floating.Context
	opts FocusOptions

	keyboard bool
	// blocked suppresses the reopen when focus returns to the reference
	// after an escape or reference press.
	blocked bool
	blur    floating.Timeout
}

// NewFocusOpen attaches a FocusOpen to ctx.
func NewFocusOpen(ctx *floating.Context, opts FocusOptions) *FocusOpen {
	f := &FocusOpen{ctx: ctx, opts: opts}
	if ctx == nil || !opts.Enabled {
		return f
	}
	var detach []func()
	if ctx.Doc != nil {
		detach = append(detach,
			ctx.Doc.AddListener(dom.KeyDown, func(*dom.Event) { f.keyboard = true }),
			ctx.Doc.AddListener(dom.PointerDown, func(*dom.Event) { f.keyboard = false }),
		)
	}
	unsub := ctx.Events.Subscribe(floating.EventDismiss, func(e floating.Event) {
		de, ok := e.(floating.DismissEvent)
		if !ok || de.NodeID != ctx.NodeID {
			return
		}
		if de.Reason == floating.ReasonEscapeKey || de.Reason == floating.ReasonReferencePress {
			f.blocked = true
		}
	})
	ctx.OnUnmount(func() {
		for _, fn := range detach {
			fn()
		}
		unsub()
		f.blur.Clear()
	})
	return f
}

// Props contributes reference focus handlers.
func (f *FocusOpen) Props() props.Set {
	if f.ctx == nil || !f.opts.Enabled {
		return props.Set{}
	}
	return props.Set{
		Reference: props.New().
			On(props.OnPointerLeave, func(*dom.Event) { f.blocked = false }).
			On(props.OnFocus, f.onFocus).
			On(props.OnBlur, f.onBlur),
	}
}

func (f *FocusOpen) onFocus(ev *dom.Event) {
	if f.blocked {
		return
	}
	f.blur.Clear()
	if f.opts.VisibleOnly && !f.keyboard && !ev.Target.Typeable() {
		return
	}
	f.ctx.Data.OpenEvent = ev
	f.ctx.SetOpen(true, floating.ReasonFocus)
}

func (f *FocusOpen) onBlur(ev *dom.Event) {
	f.blocked = false
	related := ev.RelatedTarget
	check := func() {
		active := f.ctx.Doc.ActiveElement()
		if related == nil && active == f.ctx.Refs.Reference {
			return
		}
		if f.ctx.InRegion(active) || f.ctx.InRegion(related) {
			return
		}
		f.ctx.SetOpen(false, floating.ReasonFocus)
	}
	if f.ctx.Scheduler == nil {
		check()
		return
	}
	// Wait for the new focus target to settle before deciding.
	f.blur.Set(f.ctx.Scheduler, 0, check)
}
