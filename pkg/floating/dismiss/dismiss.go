// Package dismiss closes a floating element on escape, outside presses and
// ancestor scrolls while respecting nested floating elements.
package dismiss

import (
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// Options select which signals dismiss the floating element.
type Options struct {
	Enabled        bool
	EscapeKey      bool
	OutsidePress   bool
	ReferencePress bool
	AncestorScroll bool
	// Bubbles lets a dismissal close ancestors too. When false an action is
	// swallowed by every level that still has an open descendant, so only
	// the deepest open element closes.
	Bubbles bool
}

// DefaultOptions enables escape and outside presses without bubbling.
func DefaultOptions() Options {
	return Options{
		Enabled:      true,
		EscapeKey:    true,
		OutsidePress: true,
	}
}

// Dismiss is the dismiss interaction for one Context.
type Dismiss struct {
	ctx  *floating.Context
	opts Options

	detach []func()
	// handled is the input event a descendant already dismissed on.
	handled *dom.Event
	unsub   func()
}

// New attaches a Dismiss to ctx. Listeners exist only while ctx is open and
// are removed when ctx closes or is unmounted.
func New(ctx *floating.Context, opts Options) *Dismiss {
	d := &Dismiss{ctx: ctx, opts: opts}
	if ctx == nil || !opts.Enabled {
		return d
	}
	unwatch := ctx.Watch(func(open bool) {
		if open {
			d.attach()
		} else {
			d.release()
		}
	})
	d.unsub = ctx.Events.Subscribe(floating.EventDismiss, d.onTreeDismiss)
	ctx.OnUnmount(func() {
		unwatch()
		d.unsub()
		d.release()
	})
	if ctx.Open() {
		d.attach()
	}
	return d
}

// Props contributes the reference press handler.
func (d *Dismiss) Props() props.Set {
	if d.ctx == nil || !d.opts.Enabled || !d.opts.ReferencePress {
		return props.Set{}
	}
	return props.Set{
		Reference: props.New().On(props.OnPointerDown, func(ev *dom.Event) {
			d.Dismiss(floating.ReasonReferencePress, ev)
		}),
	}
}

// Attached reports whether document listeners are registered.
func (d *Dismiss) Attached() bool {
	return len(d.detach) > 0
}

func (d *Dismiss) attach() {
	d.release()
	doc := d.ctx.Doc
	if doc == nil {
		return
	}
	if d.opts.EscapeKey {
		d.detach = append(d.detach, doc.AddListener(dom.KeyDown, d.onKeyDown))
	}
	if d.opts.OutsidePress {
		d.detach = append(d.detach, doc.AddListener(dom.PointerDown, d.onPointerDown))
	}
	if d.opts.AncestorScroll {
		seen := map[*dom.Element]bool{}
		for _, el := range []*dom.Element{d.ctx.Refs.Reference, d.ctx.Refs.Floating} {
			for _, anc := range el.ScrollableAncestors() {
				if seen[anc] {
					continue
				}
				seen[anc] = true
				d.detach = append(d.detach, anc.AddListener(dom.Scroll, d.onScroll))
			}
		}
		d.detach = append(d.detach, doc.AddListener(dom.Scroll, d.onScroll))
	}
	d.ctx.Logger.Debug("dismiss: listeners attached", "node", d.ctx.NodeID, "count", len(d.detach))
}

func (d *Dismiss) release() {
	for _, fn := range d.detach {
		fn()
	}
	d.detach = nil
	d.handled = nil
}

// blocked reports whether an open descendant should consume the action.
func (d *Dismiss) blocked(ev *dom.Event) bool {
	if d.opts.Bubbles {
		return false
	}
	if ev != nil && ev == d.handled {
		return true
	}
	return len(d.ctx.OpenChildren()) > 0
}

func (d *Dismiss) onTreeDismiss(e floating.Event) {
	de, ok := e.(floating.DismissEvent)
	if !ok || de.Source == nil || de.NodeID == d.ctx.NodeID || d.ctx.Tree == nil {
		return
	}
	if floating.IsDescendant(d.ctx.Tree.Nodes(), de.NodeID, d.ctx.NodeID) {
		d.handled = de.Source
	}
}

func (d *Dismiss) onKeyDown(ev *dom.Event) {
	if ev.Key != "Escape" || d.blocked(ev) {
		return
	}
	d.Dismiss(floating.ReasonEscapeKey, ev)
}

func (d *Dismiss) onPointerDown(ev *dom.Event) {
	if d.ctx.InRegion(ev.Target) || d.blocked(ev) {
		return
	}
	d.Dismiss(floating.ReasonOutsidePress, ev)
}

func (d *Dismiss) onScroll(ev *dom.Event) {
	if d.blocked(ev) {
		return
	}
	d.Dismiss(floating.ReasonAncestorScroll, ev)
}

// Dismiss announces the dismissal on the tree bus and closes the floating
// element. Calling it while closed does nothing.
func (d *Dismiss) Dismiss(reason floating.Reason, ev *dom.Event) {
	if d.ctx == nil || !d.ctx.Open() {
		return
	}
	d.ctx.Events.Emit(floating.DismissEvent{
		NodeID:        d.ctx.NodeID,
		Reason:        reason,
		PreventScroll: d.ctx.Nested() || reason == floating.ReasonOutsidePress,
		Source:        ev,
	})
	d.ctx.Logger.Debug("dismiss: closing", "node", d.ctx.NodeID, "reason", string(reason))
	d.ctx.SetOpen(false, reason)
}
