package dom

// EventType names an event the engine subscribes to.
type EventType string

const (
	PointerDown  EventType = "pointerdown"
	PointerUp    EventType = "pointerup"
	PointerMove  EventType = "pointermove"
	PointerEnter EventType = "pointerenter"
	PointerLeave EventType = "pointerleave"
	Click        EventType = "click"
	KeyDown      EventType = "keydown"
	KeyUp        EventType = "keyup"
	Focus        EventType = "focus"
	Blur         EventType = "blur"
	FocusIn      EventType = "focusin"
	FocusOut     EventType = "focusout"
	Scroll       EventType = "scroll"
	Wheel        EventType = "wheel"
)

// Bubbles reports whether events of this type propagate to ancestors and the
// document after the target's own listeners run.
func (t EventType) Bubbles() bool {
	switch t {
	case PointerEnter, PointerLeave, Focus, Blur, Scroll:
		return false
	}
	return true
}

// PointerType identifies the input device behind a pointer event.
type PointerType string

const (
	Mouse PointerType = "mouse"
	Touch PointerType = "touch"
	Pen   PointerType = "pen"
)

// MouseLike reports whether p behaves like a mouse. An unknown (empty)
// pointer type is treated as a mouse.
func (p PointerType) MouseLike() bool {
	return p == "" || p == Mouse
}

// Event is a single dispatched input or focus event.
type Event struct {
	Type          EventType
	Target        *Element
	CurrentTarget *Element
	RelatedTarget *Element

	Key   string
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool

	X           float64
	Y           float64
	PointerType PointerType

	defaultPrevented bool
	stopped          bool
}

// PreventDefault cancels the document's default action for the event.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation stops the event from reaching further ancestors and the
// document. Listeners on the current target still run.
func (e *Event) StopPropagation() { e.stopped = true }

// PropagationStopped reports whether StopPropagation was called.
func (e *Event) PropagationStopped() bool { return e.stopped }

// Listener handles a dispatched event.
type Listener func(e *Event)

type listenerEntry struct {
	fn      Listener
	removed bool
}

// listenerSet keeps listeners in registration order. Entries removed while a
// dispatch is in flight are skipped, not spliced, so iteration stays stable.
type listenerSet map[EventType][]*listenerEntry

func (s listenerSet) add(t EventType, fn Listener) func() {
	entry := &listenerEntry{fn: fn}
	s[t] = append(s[t], entry)
	return func() {
		if entry.removed {
			return
		}
		entry.removed = true
		list := s[t]
		for i, e := range list {
			if e == entry {
				s[t] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

func (s listenerSet) snapshot(t EventType) []*listenerEntry {
	list := s[t]
	if len(list) == 0 {
		return nil
	}
	out := make([]*listenerEntry, len(list))
	copy(out, list)
	return out
}

func (s listenerSet) invoke(t EventType, ev *Event) {
	for _, entry := range s.snapshot(t) {
		if entry.removed {
			continue
		}
		entry.fn(ev)
	}
}
