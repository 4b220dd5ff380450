package dom

// Input helpers used by hosts to feed raw input into a document. They
// synthesize the same event sequences a browser would.

// PressKey dispatches keydown and keyup for key on the focused element.
func (d *Document) PressKey(key string) *Event {
	return d.pressKey(key, false)
}

// PressShiftKey is PressKey with the shift modifier held.
func (d *Document) PressShiftKey(key string) *Event {
	return d.pressKey(key, true)
}

func (d *Document) pressKey(key string, shift bool) *Event {
	down := &Event{Type: KeyDown, Target: d.ActiveElement(), Key: key, Shift: shift}
	d.Dispatch(down)
	d.Dispatch(&Event{Type: KeyUp, Target: d.ActiveElement(), Key: key, Shift: shift})
	return down
}

// MovePointer moves the pointer to (x, y), hit testing for the target.
func (d *Document) MovePointer(x, y float64, pt PointerType) {
	d.MovePointerOver(d.ElementAt(x, y), x, y, pt)
}

// MovePointerOver moves the pointer to (x, y) over target, firing
// pointerleave on elements the pointer left, pointerenter on elements it
// entered and a bubbling pointermove on the target.
func (d *Document) MovePointerOver(target *Element, x, y float64, pt PointerType) {
	d.pointerType = pt
	var chain []*Element
	for n := target; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	in := func(list []*Element, e *Element) bool {
		for _, item := range list {
			if item == e {
				return true
			}
		}
		return false
	}
	for _, old := range d.hovered {
		if !in(chain, old) {
			d.Dispatch(&Event{Type: PointerLeave, Target: old, RelatedTarget: target, X: x, Y: y, PointerType: pt})
		}
	}
	for i := len(chain) - 1; i >= 0; i-- {
		if !in(d.hovered, chain[i]) {
			d.Dispatch(&Event{Type: PointerEnter, Target: chain[i], X: x, Y: y, PointerType: pt})
		}
	}
	d.hovered = chain
	d.Dispatch(&Event{Type: PointerMove, Target: target, X: x, Y: y, PointerType: pt})
}

// PointerDownAt presses the primary button at (x, y).
func (d *Document) PointerDownAt(x, y float64, pt PointerType) *Event {
	return d.PointerDownOn(d.ElementAt(x, y), x, y, pt)
}

// PointerDownOn presses the primary button over target.
func (d *Document) PointerDownOn(target *Element, x, y float64, pt PointerType) *Event {
	d.pointerType = pt
	ev := &Event{Type: PointerDown, Target: target, X: x, Y: y, PointerType: pt}
	d.Dispatch(ev)
	return ev
}

// ClickOn performs pointerdown, pointerup and click over target.
func (d *Document) ClickOn(target *Element, x, y float64, pt PointerType) {
	d.PointerDownOn(target, x, y, pt)
	d.Dispatch(&Event{Type: PointerUp, Target: target, X: x, Y: y, PointerType: pt})
	d.Dispatch(&Event{Type: Click, Target: target, X: x, Y: y, PointerType: pt})
}

// ScrollElement fires a scroll event on el, or on the document when el is nil.
func (d *Document) ScrollElement(el *Element) {
	d.Dispatch(&Event{Type: Scroll, Target: el})
}

// LastPointerType returns the pointer type of the most recent pointer input.
func (d *Document) LastPointerType() PointerType {
	return d.pointerType
}
