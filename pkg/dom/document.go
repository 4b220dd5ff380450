package dom

import "sort"

// FocusOptions mirrors the options accepted by a programmatic focus call.
type FocusOptions struct {
	PreventScroll bool
}

// Document owns an element tree, the focused element and document-level
// listeners.
type Document struct {
	Body     *Element
	Viewport Rect

	active      *Element
	lastFocus   FocusOptions
	listeners   listenerSet
	hovered     []*Element
	pointerType PointerType
}

// NewDocument returns a document with an empty body.
func NewDocument() *Document {
	d := &Document{listeners: make(listenerSet)}
	d.Body = d.CreateElement("body")
	return d
}

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{Tag: tag, doc: d}
}

// AddListener registers a document-level listener. Bubbling events reach it
// after every element on the propagation path; non-bubbling events never do.
func (d *Document) AddListener(t EventType, fn Listener) func() {
	if d == nil || fn == nil {
		return func() {}
	}
	return d.listeners.add(t, fn)
}

// ActiveElement returns the focused element, or nil when focus rests on the body.
func (d *Document) ActiveElement() *Element {
	if d == nil {
		return nil
	}
	if d.active != nil && !d.active.Connected() {
		d.active = nil
	}
	return d.active
}

// LastFocusOptions returns the options of the most recent successful focus call.
func (d *Document) LastFocusOptions() FocusOptions {
	return d.lastFocus
}

// Focus moves focus to el, firing blur/focusout on the previous element and
// focus/focusin on el. It reports whether el ends up focused.
func (d *Document) Focus(el *Element, opts FocusOptions) bool {
	if d == nil || el == nil || el.doc != d || !el.Connected() || !el.Focusable() {
		return false
	}
	prev := d.ActiveElement()
	if prev == el {
		return true
	}
	d.lastFocus = opts
	if prev != nil {
		d.Dispatch(&Event{Type: Blur, Target: prev, RelatedTarget: el})
		d.Dispatch(&Event{Type: FocusOut, Target: prev, RelatedTarget: el})
	}
	d.active = el
	d.Dispatch(&Event{Type: Focus, Target: el, RelatedTarget: prev})
	d.Dispatch(&Event{Type: FocusIn, Target: el, RelatedTarget: prev})
	return d.active == el
}

// Blur clears focus, firing blur/focusout on the focused element.
func (d *Document) Blur() {
	prev := d.ActiveElement()
	if prev == nil {
		return
	}
	d.active = nil
	d.Dispatch(&Event{Type: Blur, Target: prev})
	d.Dispatch(&Event{Type: FocusOut, Target: prev})
}

// Dispatch delivers ev to its target, then (for bubbling types) to every
// ancestor and finally the document, and runs the default action unless a
// listener prevented it. A nil target dispatches to the document only.
func (d *Document) Dispatch(ev *Event) {
	if d == nil || ev == nil {
		return
	}
	if ev.Target != nil {
		for n := ev.Target; n != nil; n = n.parent {
			ev.CurrentTarget = n
			if n.listeners != nil {
				n.listeners.invoke(ev.Type, ev)
			}
			if ev.stopped || !ev.Type.Bubbles() {
				break
			}
		}
	}
	if !ev.stopped && (ev.Target == nil || ev.Type.Bubbles()) {
		ev.CurrentTarget = nil
		d.listeners.invoke(ev.Type, ev)
	}
	if !ev.defaultPrevented {
		d.defaultAction(ev)
	}
}

func (d *Document) defaultAction(ev *Event) {
	switch ev.Type {
	case KeyDown:
		switch {
		case ev.Key == "Tab":
			d.MoveFocus(!ev.Shift)
		case ev.Key == "Enter" && ev.Target != nil && ev.Target.Tag == "button":
			d.Dispatch(&Event{Type: Click, Target: ev.Target})
		}
	case KeyUp:
		if ev.Key == " " && ev.Target != nil && ev.Target.Tag == "button" {
			d.Dispatch(&Event{Type: Click, Target: ev.Target, PointerType: ""})
		}
	case PointerDown:
		for n := ev.Target; n != nil; n = n.parent {
			if n.Focusable() {
				d.Focus(n, FocusOptions{})
				return
			}
		}
		d.Blur()
	}
}

// MoveFocus performs sequential Tab navigation over the whole document,
// wrapping at either end.
func (d *Document) MoveFocus(forward bool) {
	order := Tabbables(d.Body)
	if len(order) == 0 {
		return
	}
	idx := -1
	active := d.ActiveElement()
	for i, el := range order {
		if el == active {
			idx = i
			break
		}
	}
	var next int
	switch {
	case idx == -1 && forward:
		next = 0
	case idx == -1:
		next = len(order) - 1
	case forward:
		next = (idx + 1) % len(order)
	default:
		next = (idx - 1 + len(order)) % len(order)
	}
	d.Focus(order[next], FocusOptions{})
}

// ElementAt returns the topmost element whose rectangle contains (x, y).
// Later siblings render above earlier ones; elements with pointer-events
// disabled are transparent to the hit test.
func (d *Document) ElementAt(x, y float64) *Element {
	if d == nil {
		return nil
	}
	return hitTest(d.Body, x, y)
}

func hitTest(e *Element, x, y float64) *Element {
	if e.HasAttr("hidden") {
		return nil
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		if hit := hitTest(e.children[i], x, y); hit != nil {
			return hit
		}
	}
	if e.rect.Contains(x, y) && !e.PointerEventsNone() {
		return e
	}
	return nil
}

// Tabbables returns the tabbable descendants of root in Tab order: positive
// tab indices first in ascending order, then the rest in document order.
func Tabbables(root *Element) []*Element {
	var out []*Element
	var walk func(e *Element)
	walk = func(e *Element) {
		if e.HasAttr("hidden") || e.HasAttr("inert") {
			return
		}
		if e != root && e.Tabbable() {
			out = append(out, e)
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	if root == nil {
		return nil
	}
	walk(root)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := out[i].TabIndex()
		b, _ := out[j].TabIndex()
		if a > 0 && b > 0 {
			return a < b
		}
		return a > 0 && b == 0
	})
	return out
}
