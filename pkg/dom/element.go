package dom

import (
	"strconv"
	"strings"
)

// Element is a node in a Document. The zero value is not usable; create
// elements with Document.CreateElement.
type Element struct {
	Tag  string
	Text string

	doc       *Document
	attrs     map[string]string
	parent    *Element
	children  []*Element
	rect      Rect
	listeners listenerSet
}

// Document returns the owning document.
func (e *Element) Document() *Document {
	if e == nil {
		return nil
	}
	return e.doc
}

// Attr returns the named attribute and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil || e.attrs == nil {
		return "", false
	}
	val, ok := e.attrs[name]
	return val, ok
}

// HasAttr reports whether the named attribute is present.
func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// SetAttr sets an attribute value.
func (e *Element) SetAttr(name, value string) {
	if e == nil {
		return
	}
	if e.attrs == nil {
		e.attrs = make(map[string]string)
	}
	e.attrs[name] = value
}

// RemoveAttr deletes an attribute.
func (e *Element) RemoveAttr(name string) {
	if e == nil || e.attrs == nil {
		return
	}
	delete(e.attrs, name)
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	id, _ := e.Attr("id")
	return id
}

// Role returns the element's role attribute.
func (e *Element) Role() string {
	role, _ := e.Attr("role")
	return role
}

// Parent returns the parent element, or nil for detached elements and the body.
func (e *Element) Parent() *Element {
	if e == nil {
		return nil
	}
	return e.parent
}

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	if e == nil || len(e.children) == 0 {
		return nil
	}
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// AppendChild adds child as the last child, detaching it from any previous parent.
func (e *Element) AppendChild(child *Element) *Element {
	if e == nil || child == nil {
		return child
	}
	child.Remove()
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// InsertBefore inserts newChild before ref. A nil or foreign ref appends.
func (e *Element) InsertBefore(newChild, ref *Element) *Element {
	if e == nil || newChild == nil {
		return newChild
	}
	newChild.Remove()
	for i, c := range e.children {
		if c == ref {
			e.children = append(e.children, nil)
			copy(e.children[i+1:], e.children[i:])
			e.children[i] = newChild
			newChild.parent = e
			return newChild
		}
	}
	return e.AppendChild(newChild)
}

// NextSibling returns the element following e in its parent, if any.
func (e *Element) NextSibling() *Element {
	if e == nil || e.parent == nil {
		return nil
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e && i+1 < len(siblings) {
			return siblings[i+1]
		}
	}
	return nil
}

// Remove detaches e from its parent. If e or a descendant held focus, the
// document's focus is cleared.
func (e *Element) Remove() {
	if e == nil || e.parent == nil {
		return
	}
	p := e.parent
	for i, c := range p.children {
		if c == e {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	e.parent = nil
	if e.doc != nil && e.Contains(e.doc.active) {
		e.doc.active = nil
	}
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	if e == nil || other == nil {
		return false
	}
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// Connected reports whether e is attached to its document's body.
func (e *Element) Connected() bool {
	if e == nil || e.doc == nil {
		return false
	}
	return e.doc.Body.Contains(e)
}

// Rect returns the element's bounding rectangle.
func (e *Element) Rect() Rect {
	if e == nil {
		return Rect{}
	}
	return e.rect
}

// SetRect updates the element's bounding rectangle.
func (e *Element) SetRect(r Rect) {
	if e == nil {
		return
	}
	e.rect = r
}

// AddListener registers fn for events of type t targeted at e (or bubbling
// through it). The returned func removes the listener.
func (e *Element) AddListener(t EventType, fn Listener) func() {
	if e == nil || fn == nil {
		return func() {}
	}
	if e.listeners == nil {
		e.listeners = make(listenerSet)
	}
	return e.listeners.add(t, fn)
}

// Focus moves document focus to e.
func (e *Element) Focus(opts FocusOptions) bool {
	if e == nil || e.doc == nil {
		return false
	}
	return e.doc.Focus(e, opts)
}

// TextContent returns the concatenated text of e and its descendants.
func (e *Element) TextContent() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(e.Text)
	for _, c := range e.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// TabIndex returns the effective tab index and whether it was set explicitly.
// Natively focusable controls default to 0, everything else to -1.
func (e *Element) TabIndex() (int, bool) {
	if e == nil {
		return -1, false
	}
	if raw, ok := e.Attr("tabindex"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n, true
		}
	}
	if e.nativelyFocusable() {
		return 0, false
	}
	return -1, false
}

func (e *Element) nativelyFocusable() bool {
	switch e.Tag {
	case "button", "input", "select", "textarea":
		return true
	case "a":
		return e.HasAttr("href")
	}
	_, editable := e.Attr("contenteditable")
	return editable
}

// Disabled reports whether e carries the disabled attribute or aria-disabled="true".
func (e *Element) Disabled() bool {
	if e == nil {
		return false
	}
	if e.HasAttr("disabled") {
		return true
	}
	v, _ := e.Attr("aria-disabled")
	return v == "true"
}

// Hidden reports whether e or an ancestor is hidden or inert.
func (e *Element) Hidden() bool {
	for n := e; n != nil; n = n.parent {
		if n.HasAttr("hidden") || n.HasAttr("inert") {
			return true
		}
	}
	return false
}

// Focusable reports whether e can receive focus, programmatically or by Tab.
func (e *Element) Focusable() bool {
	if e == nil || e.Hidden() {
		return false
	}
	if e.HasAttr("disabled") {
		return false
	}
	if e.doc != nil && e == e.doc.Body {
		return false
	}
	_, explicit := e.TabIndex()
	return explicit || e.nativelyFocusable()
}

// Tabbable reports whether e takes part in sequential Tab navigation.
func (e *Element) Tabbable() bool {
	if !e.Focusable() {
		return false
	}
	idx, _ := e.TabIndex()
	return idx >= 0
}

// Typeable reports whether e accepts typed text (text inputs, textareas,
// contenteditable).
func (e *Element) Typeable() bool {
	if e == nil {
		return false
	}
	switch e.Tag {
	case "textarea":
		return true
	case "input":
		t, _ := e.Attr("type")
		switch t {
		case "", "text", "search", "email", "url", "tel", "password", "number":
			return true
		}
		return false
	}
	_, editable := e.Attr("contenteditable")
	return editable
}

// Scrollable reports whether e is a scroll container (overflow auto or scroll).
func (e *Element) Scrollable() bool {
	v, _ := e.Attr("overflow")
	return v == "auto" || v == "scroll"
}

// ScrollableAncestors returns scroll containers enclosing e, nearest first.
func (e *Element) ScrollableAncestors() []*Element {
	var out []*Element
	if e == nil {
		return out
	}
	for n := e.parent; n != nil; n = n.parent {
		if n.Scrollable() {
			out = append(out, n)
		}
	}
	return out
}

// PointerEventsNone reports whether e is excluded from pointer hit testing.
func (e *Element) PointerEventsNone() bool {
	style, _ := e.Attr("style")
	style = strings.ReplaceAll(style, " ", "")
	return strings.Contains(style, "pointer-events:none")
}
