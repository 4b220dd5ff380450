package floating

import "github.com/marcus/floatui/pkg/dom"

// EventName tags the events carried on a Bus.
type EventName string

const (
	EventDismiss      EventName = "dismiss"
	EventOpenChange   EventName = "openchange"
	EventVirtualFocus EventName = "virtualfocus"
)

// Reason records what caused an open state change.
type Reason string

const (
	ReasonHost           Reason = "host"
	ReasonHover          Reason = "hover"
	ReasonSafePolygon    Reason = "safe-polygon"
	ReasonClick          Reason = "click"
	ReasonFocus          Reason = "focus"
	ReasonFocusOut       Reason = "focus-out"
	ReasonEscapeKey      Reason = "escape-key"
	ReasonOutsidePress   Reason = "outside-press"
	ReasonReferencePress Reason = "reference-press"
	ReasonAncestorScroll Reason = "ancestor-scroll"
	ReasonListNavigation Reason = "list-navigation"
)

// Event is a typed payload on a Bus.
type Event interface {
	Name() EventName
}

// DismissEvent is emitted just before a dismissal closes a floating element.
type DismissEvent struct {
	NodeID string
	Reason Reason
	// PreventScroll asks focus return to avoid scrolling.
	PreventScroll bool
	// Source is the input event that triggered the dismissal, if any.
	Source *dom.Event
}

func (DismissEvent) Name() EventName { return EventDismiss }

// OpenChangeEvent is emitted after a Context's open state changes.
type OpenChangeEvent struct {
	NodeID string
	Open   bool
	Reason Reason
}

func (OpenChangeEvent) Name() EventName { return EventOpenChange }

// VirtualFocusEvent is emitted when virtual list navigation moves the
// active descendant. Element is nil when nothing is active.
type VirtualFocusEvent struct {
	NodeID  string
	Element *dom.Element
}

func (VirtualFocusEvent) Name() EventName { return EventVirtualFocus }

type subscription struct {
	fn      func(Event)
	removed bool
}

// Bus is a synchronous publish/subscribe channel keyed by event name. One bus
// is shared by every Context in a Tree.
type Bus struct {
	subs map[EventName][]*subscription
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[EventName][]*subscription)}
}

// Subscribe registers fn for events named name. The returned func unsubscribes.
func (b *Bus) Subscribe(name EventName, fn func(Event)) func() {
	sub := &subscription{fn: fn}
	b.subs[name] = append(b.subs[name], sub)
	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		list := b.subs[name]
		for i, s := range list {
			if s == sub {
				b.subs[name] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
	}
}

// Emit delivers ev to its subscribers in subscription order.
func (b *Bus) Emit(ev Event) {
	if b == nil || ev == nil {
		return
	}
	list := b.subs[ev.Name()]
	snapshot := make([]*subscription, len(list))
	copy(snapshot, list)
	for _, s := range snapshot {
		if !s.removed {
			s.fn(ev)
		}
	}
}
