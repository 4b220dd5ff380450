package floating

import (
	"log/slog"

	"github.com/marcus/floatui/pkg/dom"
)

// Refs are the two elements a floating instance coordinates.
type Refs struct {
	Reference *dom.Element
	Floating  *dom.Element
}

// Data is the mutable bag interactions share about the current open session.
type Data struct {
	// OpenEvent is the input event that opened the element, if known.
	OpenEvent  *dom.Event
	OpenReason Reason
	// Typing is set by typeahead while a search string is being built.
	Typing bool
}

// Options configure a new Context.
type Options struct {
	Open         bool
	OnOpenChange func(open bool, reason Reason)
	Doc          *dom.Document
	Tree         *Tree
	// ParentID links this instance below another one in Tree.
	ParentID  string
	Scheduler Scheduler
	Logger    *slog.Logger
	Placement Placement
}

// Context is the per-instance state shared by reference with every
// interaction attached to one floating element.
type Context struct {
	Refs      Refs
	Data      Data
	Events    *Bus
	NodeID    string
	ParentID  string
	Tree      *Tree
	Doc       *dom.Document
	Scheduler Scheduler
	Logger    *slog.Logger
	Placement Placement

	open         bool
	onOpenChange func(bool, Reason)
	watchers     []*watcher
	unmount      []func()
	node         *Node
	closed       bool
}

type watcher struct {
	fn      func(open bool)
	removed bool
}

// New creates a Context and, when a Tree is given, registers its node.
func New(opts Options) *Context {
	c := &Context{
		Doc:          opts.Doc,
		Tree:         opts.Tree,
		ParentID:     opts.ParentID,
		Scheduler:    opts.Scheduler,
		Logger:       opts.Logger,
		Placement:    opts.Placement,
		open:         opts.Open,
		onOpenChange: opts.OnOpenChange,
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Placement == "" {
		c.Placement = Bottom
	}
	if c.Tree != nil {
		c.Events = c.Tree.Events
		c.NodeID = c.Tree.NewNodeID()
		c.node = &Node{ID: c.NodeID, ParentID: c.ParentID}
		c.Tree.AddNode(c.node)
		c.node.Context = c
	} else {
		c.Events = NewBus()
	}
	return c
}

// Open reports whether the floating element is open.
func (c *Context) Open() bool {
	return c != nil && c.open
}

// SetOpen requests a state change on behalf of an interaction. Watchers run
// first, then an OpenChangeEvent is emitted, then the host callback. Setting
// the current state again is a no-op.
func (c *Context) SetOpen(open bool, reason Reason) {
	if !c.apply(open, reason) {
		return
	}
	if c.onOpenChange != nil {
		c.onOpenChange(open, reason)
	}
}

// Update syncs state pushed by the host without calling back into it.
func (c *Context) Update(open bool) {
	c.apply(open, ReasonHost)
}

func (c *Context) apply(open bool, reason Reason) bool {
	if c == nil || c.closed || c.open == open {
		return false
	}
	c.open = open
	if open {
		c.Data.OpenReason = reason
	}
	snapshot := make([]*watcher, len(c.watchers))
	copy(snapshot, c.watchers)
	for _, w := range snapshot {
		if !w.removed {
			w.fn(open)
		}
	}
	if !open {
		c.Data = Data{}
	}
	c.Events.Emit(OpenChangeEvent{NodeID: c.NodeID, Open: open, Reason: reason})
	c.Logger.Debug("floating: open change", "node", c.NodeID, "open", open, "reason", string(reason))
	return true
}

// Watch registers fn to run on every open state change. The returned func
// stops watching.
func (c *Context) Watch(fn func(open bool)) func() {
	w := &watcher{fn: fn}
	c.watchers = append(c.watchers, w)
	return func() {
		w.removed = true
		for i, x := range c.watchers {
			if x == w {
				c.watchers = append(c.watchers[:i:i], c.watchers[i+1:]...)
				break
			}
		}
	}
}

// OnUnmount registers cleanup to run when the Context is closed.
func (c *Context) OnUnmount(fn func()) {
	c.unmount = append(c.unmount, fn)
}

// Close unmounts the instance: interactions are torn down in reverse order of
// registration and the node leaves the tree. Close is idempotent.
func (c *Context) Close() {
	if c == nil || c.closed {
		return
	}
	for i := len(c.unmount) - 1; i >= 0; i-- {
		c.unmount[i]()
	}
	c.unmount = nil
	c.watchers = nil
	c.closed = true
	c.open = false
	if c.Tree != nil {
		c.Tree.RemoveNode(c.node)
	}
}

// OpenChildren returns the open descendants of this instance.
func (c *Context) OpenChildren() []*Node {
	if c == nil || c.Tree == nil {
		return nil
	}
	return c.Tree.OpenChildren(c.NodeID)
}

// Nested reports whether this instance has a parent in its tree.
func (c *Context) Nested() bool {
	return c != nil && c.ParentID != ""
}

// Parent returns the parent Context, if registered.
func (c *Context) Parent() *Context {
	if !c.Nested() || c.Tree == nil {
		return nil
	}
	if n := c.Tree.Node(c.ParentID); n != nil {
		return n.Context
	}
	return nil
}

// InRegion reports whether el lies inside the reference, the floating
// element or the floating element of any open descendant.
func (c *Context) InRegion(el *dom.Element) bool {
	if el == nil {
		return false
	}
	if c.Refs.Reference.Contains(el) || c.Refs.Floating.Contains(el) {
		return true
	}
	for _, child := range c.OpenChildren() {
		if child.Context != nil && child.Context.Refs.Floating.Contains(el) {
			return true
		}
	}
	return false
}
