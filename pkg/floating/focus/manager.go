// Package focus manages keyboard focus while a floating element is open:
// modal trapping with focus guards, non-modal close on focus loss, initial
// focus, tab order and focus return.
package focus

import (
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// GuardAttr marks focus guard elements.
const GuardAttr = "data-floating-ui-focus-guard"

// Region is one part of the managed tab order.
type Region string

const (
	RegionReference Region = "reference"
	RegionFloating  Region = "floating"
	RegionContent   Region = "content"
)

// InitialFocus selects what receives focus when the element opens. Element
// wins when set; otherwise Index is a position in the tab order. A negative
// Index leaves focus where it is.
type InitialFocus struct {
	Index   int
	Element *dom.Element
}

// Options configure the focus manager.
type Options struct {
	Order          []Region
	Modal          bool
	InitialFocus   InitialFocus
	ReturnFocus    bool
	PreventTabbing bool
	EndGuard       bool
	// Ledger hides the rest of the document in modal mode. Nil skips hiding.
	Ledger *AriaHideLedger
}

// DefaultOptions returns a modal manager over the floating content.
func DefaultOptions() Options {
	return Options{
		Order:       []Region{RegionContent},
		Modal:       true,
		ReturnFocus: true,
		EndGuard:    true,
	}
}

// State is the manager's activation state.
type State int

const (
	Inactive State = iota
	ActiveModal
	ActiveNonModal
)

func (s State) String() string {
	switch s {
	case ActiveModal:
		return "active-modal"
	case ActiveNonModal:
		return "active-nonmodal"
	}
	return "inactive"
}

// Manager is the focus interaction for one Context.
type Manager struct {
	ctx  *floating.Context
	opts Options

	state         State
	previous      *dom.Element
	startGuard    *dom.Element
	endGuard      *dom.Element
	listeners     []func()
	undoHide      func()
	frame         floating.Timeout
	preventScroll bool
	// focusLeft is set when the element closes because focus moved away.
	focusLeft bool
}

// New attaches a Manager to ctx.
func New(ctx *floating.Context, opts Options) *Manager {
	if len(opts.Order) == 0 {
		opts.Order = []Region{RegionContent}
	}
	m := &Manager{ctx: ctx, opts: opts}
	if ctx == nil {
		return m
	}
	unwatch := ctx.Watch(func(open bool) {
		if open {
			m.activate()
		} else {
			m.deactivate()
		}
	})
	unsub := ctx.Events.Subscribe(floating.EventDismiss, func(e floating.Event) {
		if de, ok := e.(floating.DismissEvent); ok && de.NodeID == ctx.NodeID {
			m.preventScroll = de.PreventScroll
		}
	})
	ctx.OnUnmount(func() {
		unwatch()
		unsub()
		m.deactivate()
	})
	if ctx.Open() {
		m.activate()
	}
	return m
}

// State returns the current activation state.
func (m *Manager) State() State {
	return m.state
}

// Guards returns the start and end guard while modal.
func (m *Manager) Guards() (start, end *dom.Element) {
	return m.startGuard, m.endGuard
}

// Props contributes the Tab suppression handler.
func (m *Manager) Props() props.Set {
	if m.ctx == nil || !m.opts.PreventTabbing {
		return props.Set{}
	}
	return props.Set{
		Floating: props.New().On(props.OnKeyDown, func(ev *dom.Event) {
			if m.state != Inactive && ev.Key == "Tab" {
				ev.PreventDefault()
			}
		}),
	}
}

// TabOrder returns the managed tab stops in the configured region order.
// Anchors are included even when they are not tabbable.
func (m *Manager) TabOrder() []*dom.Element {
	var out []*dom.Element
	seen := make(map[*dom.Element]bool)
	add := func(el *dom.Element) {
		if el == nil || seen[el] || !el.Connected() {
			return
		}
		seen[el] = true
		out = append(out, el)
	}
	for _, region := range m.opts.Order {
		switch region {
		case RegionReference:
			add(m.ctx.Refs.Reference)
		case RegionFloating:
			add(m.ctx.Refs.Floating)
		case RegionContent:
			for _, el := range dom.Tabbables(m.ctx.Refs.Floating) {
				add(el)
			}
		}
	}
	return out
}

func (m *Manager) typeableCombobox() bool {
	ref := m.ctx.Refs.Reference
	return ref.Role() == "combobox" && ref.Typeable()
}

func (m *Manager) orderHasReference() bool {
	for _, r := range m.opts.Order {
		if r == RegionReference {
			return true
		}
	}
	return false
}

func (m *Manager) inRegion(el *dom.Element) bool {
	if el == nil {
		return false
	}
	if el.HasAttr(GuardAttr) {
		return true
	}
	if (m.orderHasReference() || m.typeableCombobox()) && m.ctx.Refs.Reference.Contains(el) {
		return true
	}
	if m.ctx.Refs.Floating.Contains(el) {
		return true
	}
	for _, child := range m.ctx.OpenChildren() {
		if child.Context != nil && child.Context.Refs.Floating.Contains(el) {
			return true
		}
	}
	return false
}

func (m *Manager) activate() {
	doc := m.ctx.Doc
	if doc == nil || m.state != Inactive {
		return
	}
	m.previous = doc.ActiveElement()
	m.preventScroll = false
	m.focusLeft = false
	fl := m.ctx.Refs.Floating

	if m.opts.Modal {
		m.state = ActiveModal
		m.insertGuards()
		if m.opts.Ledger != nil {
			keep := []*dom.Element{m.ctx.Refs.Reference, fl, m.startGuard, m.endGuard}
			for _, child := range m.ctx.OpenChildren() {
				if child.Context != nil {
					keep = append(keep, child.Context.Refs.Floating)
				}
			}
			m.undoHide = m.opts.Ledger.Hide(keep, doc.Body)
		}
		m.listeners = append(m.listeners, doc.AddListener(dom.FocusIn, m.onFocusIn))
	} else {
		m.state = ActiveNonModal
		m.listeners = append(m.listeners,
			m.ctx.Refs.Reference.AddListener(dom.FocusOut, m.onFocusOut),
			fl.AddListener(dom.FocusOut, m.onFocusOut),
		)
	}
	m.ctx.Logger.Debug("focus: activated", "node", m.ctx.NodeID, "state", m.state.String())
	m.frame.Frame(m.ctx.Scheduler, m.focusInitial)
}

func (m *Manager) newGuard() *dom.Element {
	g := m.ctx.Doc.CreateElement("span")
	g.SetAttr("tabindex", "0")
	g.SetAttr("aria-hidden", "true")
	g.SetAttr(GuardAttr, "")
	g.SetAttr("style", "opacity: 0; pointer-events: none; position: fixed")
	return g
}

func (m *Manager) insertGuards() {
	fl := m.ctx.Refs.Floating
	parent := fl.Parent()
	if parent == nil {
		return
	}
	m.startGuard = parent.InsertBefore(m.newGuard(), fl)
	m.listeners = append(m.listeners, m.startGuard.AddListener(dom.Focus, func(*dom.Event) {
		m.redirect(false)
	}))
	if m.opts.EndGuard {
		m.endGuard = parent.InsertBefore(m.newGuard(), fl.NextSibling())
		m.listeners = append(m.listeners, m.endGuard.AddListener(dom.Focus, func(*dom.Event) {
			m.redirect(true)
		}))
	}
}

// redirect moves focus off a guard: the end guard wraps to the first stop,
// the start guard to the last.
func (m *Manager) redirect(toFirst bool) {
	if m.typeableCombobox() {
		m.focus(m.ctx.Refs.Reference)
		return
	}
	order := m.TabOrder()
	if len(order) == 0 {
		m.focus(m.ctx.Refs.Floating)
		return
	}
	if toFirst {
		m.focus(order[0])
	} else {
		m.focus(order[len(order)-1])
	}
}

func (m *Manager) focus(el *dom.Element) {
	if el == nil {
		return
	}
	el.Focus(dom.FocusOptions{})
}

func (m *Manager) focusInitial() {
	if m.state == Inactive || m.typeableCombobox() {
		return
	}
	doc := m.ctx.Doc
	if m.ctx.Refs.Floating.Contains(doc.ActiveElement()) {
		return
	}
	init := m.opts.InitialFocus
	if init.Element != nil {
		m.focus(init.Element)
		return
	}
	if init.Index < 0 {
		return
	}
	order := m.TabOrder()
	switch {
	case init.Index < len(order):
		m.focus(order[init.Index])
	case len(order) > 0:
		m.focus(order[0])
	default:
		m.focus(m.ctx.Refs.Floating)
	}
}

func (m *Manager) onFocusIn(ev *dom.Event) {
	if m.state != ActiveModal || m.inRegion(ev.Target) {
		return
	}
	m.ctx.Logger.Debug("focus: trapped", "node", m.ctx.NodeID)
	if m.typeableCombobox() {
		m.focus(m.ctx.Refs.Reference)
		return
	}
	m.redirect(true)
}

func (m *Manager) onFocusOut(ev *dom.Event) {
	if m.state != ActiveNonModal {
		return
	}
	next := ev.RelatedTarget
	if next != nil && (m.ctx.InRegion(next) || next.HasAttr(GuardAttr) || m.ancestorAnchor(next)) {
		return
	}
	m.focusLeft = true
	m.ctx.SetOpen(false, floating.ReasonFocusOut)
}

// ancestorAnchor reports whether el is the reference or floating element of
// an ancestor. A parent menu taking focus back from a hovered item does not
// close its submenu.
func (m *Manager) ancestorAnchor(el *dom.Element) bool {
	for p := m.ctx.Parent(); p != nil; p = p.Parent() {
		if el == p.Refs.Floating || el == p.Refs.Reference {
			return true
		}
	}
	return false
}

func (m *Manager) deactivate() {
	if m.state == Inactive {
		return
	}
	m.state = Inactive
	m.frame.Clear()
	for _, fn := range m.listeners {
		fn()
	}
	m.listeners = nil
	if m.undoHide != nil {
		m.undoHide()
		m.undoHide = nil
	}

	doc := m.ctx.Doc
	active := doc.ActiveElement()
	guardFocused := active != nil && (active == m.startGuard || active == m.endGuard)
	m.startGuard.Remove()
	m.endGuard.Remove()
	m.startGuard, m.endGuard = nil, nil

	prev := m.previous
	m.previous = nil
	if prev == nil || !prev.Connected() {
		prev = m.ctx.Refs.Reference
	}
	if !m.opts.ReturnFocus || m.focusLeft || !prev.Connected() {
		return
	}
	// Focus that already moved to an unrelated element stays there.
	if active != nil && !guardFocused && !m.ctx.Refs.Floating.Contains(active) && !m.ctx.Refs.Reference.Contains(active) {
		return
	}
	prev.Focus(dom.FocusOptions{PreventScroll: m.preventScroll})
	m.ctx.Logger.Debug("focus: returned", "node", m.ctx.NodeID, "preventScroll", m.preventScroll)
}
