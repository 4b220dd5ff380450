// Package props merges the attribute and handler contributions of independent
// interactions into one property set per target element.
//
// Attributes are plain key/value pairs: later contributions overwrite earlier
// ones and caller overrides win. Handlers are keyed by a closed set of event
// keys and are never overwritten: every contribution for a key is kept and
// invoked in contribution order.
package props

import (
	"sort"

	"github.com/marcus/floatui/pkg/dom"
)

// EventKey is one of the recognised handler keys.
type EventKey string

const (
	OnClick        EventKey = "onClick"
	OnPointerDown  EventKey = "onPointerDown"
	OnPointerEnter EventKey = "onPointerEnter"
	OnPointerLeave EventKey = "onPointerLeave"
	OnPointerMove  EventKey = "onPointerMove"
	OnKeyDown      EventKey = "onKeyDown"
	OnKeyUp        EventKey = "onKeyUp"
	OnFocus        EventKey = "onFocus"
	OnBlur         EventKey = "onBlur"
)

// Keys lists every recognised event key in a stable order.
var Keys = []EventKey{
	OnClick, OnPointerDown, OnPointerEnter, OnPointerLeave, OnPointerMove,
	OnKeyDown, OnKeyUp, OnFocus, OnBlur,
}

// EventType returns the dom event a key listens to.
func (k EventKey) EventType() dom.EventType {
	switch k {
	case OnClick:
		return dom.Click
	case OnPointerDown:
		return dom.PointerDown
	case OnPointerEnter:
		return dom.PointerEnter
	case OnPointerLeave:
		return dom.PointerLeave
	case OnPointerMove:
		return dom.PointerMove
	case OnKeyDown:
		return dom.KeyDown
	case OnKeyUp:
		return dom.KeyUp
	case OnFocus:
		return dom.Focus
	case OnBlur:
		return dom.Blur
	}
	return ""
}

// Handler reacts to an event on the bound element.
type Handler func(ev *dom.Event)

// Props is the attribute and handler set for one target element. A merged
// Props is never mutated; the builder methods return copies.
type Props struct {
	Attrs    map[string]string
	Handlers map[EventKey][]Handler
}

// New returns an empty Props.
func New() Props {
	return Props{}
}

// With returns a copy of p with attribute name set to value. An empty value
// removes the attribute when bound.
func (p Props) With(name, value string) Props {
	out := p.clone()
	if out.Attrs == nil {
		out.Attrs = make(map[string]string)
	}
	out.Attrs[name] = value
	return out
}

// On returns a copy of p with h appended to the handlers for key.
func (p Props) On(key EventKey, h Handler) Props {
	if h == nil {
		return p
	}
	out := p.clone()
	if out.Handlers == nil {
		out.Handlers = make(map[EventKey][]Handler)
	}
	out.Handlers[key] = append(out.Handlers[key], h)
	return out
}

// Attr returns the value of attribute name.
func (p Props) Attr(name string) (string, bool) {
	v, ok := p.Attrs[name]
	return v, ok
}

// Empty reports whether p carries nothing.
func (p Props) Empty() bool {
	return len(p.Attrs) == 0 && len(p.Handlers) == 0
}

// Call invokes the handlers registered for key, in order.
func (p Props) Call(key EventKey, ev *dom.Event) {
	for _, h := range p.Handlers[key] {
		h(ev)
	}
}

// AttrNames returns the attribute names in sorted order.
func (p Props) AttrNames() []string {
	names := make([]string, 0, len(p.Attrs))
	for name := range p.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p Props) clone() Props {
	out := Props{}
	if p.Attrs != nil {
		out.Attrs = make(map[string]string, len(p.Attrs))
		for k, v := range p.Attrs {
			out.Attrs[k] = v
		}
	}
	if p.Handlers != nil {
		out.Handlers = make(map[EventKey][]Handler, len(p.Handlers))
		for k, hs := range p.Handlers {
			out.Handlers[k] = append([]Handler(nil), hs...)
		}
	}
	return out
}

// Target names the element a Props set applies to.
type Target int

const (
	Reference Target = iota
	Floating
	Item
)

func (t Target) String() string {
	switch t {
	case Reference:
		return "reference"
	case Floating:
		return "floating"
	case Item:
		return "item"
	}
	return "unknown"
}

// Merge combines contributions for target, then applies user last. Handlers
// accumulate; attributes overwrite. The floating target defaults to
// tabindex="-1" so it is focusable without being a tab stop.
func Merge(target Target, user Props, contributions ...Props) Props {
	out := Props{
		Attrs:    make(map[string]string),
		Handlers: make(map[EventKey][]Handler),
	}
	if target == Floating {
		out.Attrs["tabindex"] = "-1"
	}
	layers := append(append([]Props(nil), contributions...), user)
	for _, layer := range layers {
		for name, value := range layer.Attrs {
			out.Attrs[name] = value
		}
		for _, key := range Keys {
			out.Handlers[key] = append(out.Handlers[key], layer.Handlers[key]...)
		}
	}
	for key, hs := range out.Handlers {
		if len(hs) == 0 {
			delete(out.Handlers, key)
		}
	}
	return out
}

// Bind applies p to el: attributes are written (an empty value removes the
// attribute) and one listener per handler key is registered. The returned
// func removes the listeners; attributes stay.
func (p Props) Bind(el *dom.Element) func() {
	if el == nil {
		return func() {}
	}
	for _, name := range p.AttrNames() {
		if value := p.Attrs[name]; value == "" {
			el.RemoveAttr(name)
		} else {
			el.SetAttr(name, value)
		}
	}
	var removers []func()
	for _, key := range Keys {
		handlers := p.Handlers[key]
		if len(handlers) == 0 {
			continue
		}
		removers = append(removers, el.AddListener(key.EventType(), func(ev *dom.Event) {
			for _, h := range handlers {
				h(ev)
			}
		}))
	}
	return func() {
		for _, remove := range removers {
			remove()
		}
		removers = nil
	}
}
