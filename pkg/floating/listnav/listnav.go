// Package listnav moves an active index through the items of a floating
// list with arrow keys, Home and End, pointer hover and typeahead. The
// active item is either focused for real or exposed through
// aria-activedescendant while focus stays put.
package listnav

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

// Orientation selects which arrow keys navigate.
type Orientation string

const (
	Vertical   Orientation = "vertical"
	Horizontal Orientation = "horizontal"
	Both       Orientation = "both"
)

// OpenFocus controls whether an item becomes active when the list opens.
type OpenFocus int

const (
	// OpenFocusAuto activates an item only when a key opened the list.
	OpenFocusAuto OpenFocus = iota
	OpenFocusAlways
	OpenFocusNever
)

// FocusMode decides how the active item is presented.
type FocusMode interface {
	// show presents el as active; el is nil when nothing is active.
	show(l *ListNav, el *dom.Element)
	virtual() bool
	String() string
}

var (
	// RealFocus moves document focus onto the active item and keeps a
	// roving tabindex on the items.
	RealFocus FocusMode = realFocus{}
	// VirtualFocus keeps focus where it is and points aria-activedescendant
	// at the active item.
	VirtualFocus FocusMode = virtualFocus{}
)

type realFocus struct{}

func (realFocus) virtual() bool  { return false }
func (realFocus) String() string { return "real" }

func (realFocus) show(l *ListNav, el *dom.Element) {
	for _, item := range l.items {
		if item == nil {
			continue
		}
		if item == el {
			item.SetAttr("tabindex", "0")
		} else {
			item.SetAttr("tabindex", "-1")
		}
	}
	if el != nil {
		el.Focus(dom.FocusOptions{PreventScroll: true})
	}
}

type virtualFocus struct{}

func (virtualFocus) virtual() bool  { return true }
func (virtualFocus) String() string { return "virtual" }

func (virtualFocus) show(l *ListNav, el *dom.Element) {
	owner := l.descendantOwner()
	if el == nil {
		owner.RemoveAttr("aria-activedescendant")
	} else {
		if el.ID() == "" {
			el.SetAttr("id", "floatui-item-"+uuid.NewString()[:8])
		}
		owner.SetAttr("aria-activedescendant", el.ID())
	}
	l.ctx.Events.Emit(floating.VirtualFocusEvent{NodeID: l.ctx.NodeID, Element: el})
}

// Options configure list navigation.
type Options struct {
	Enabled     bool
	Orientation Orientation
	// Cols > 1 lays the items out as a grid, row-major.
	Cols int
	Loop bool
	RTL  bool
	// Mode defaults to RealFocus.
	Mode FocusMode
	// AllowEscape lets a looping virtual list step past either end to an
	// inactive state. It needs Loop and VirtualFocus.
	AllowEscape        bool
	FocusItemOnOpen    OpenFocus
	FocusItemOnHover   bool
	OpenOnArrowKeyDown bool
	// DisabledIndices overrides the disabled state read from the items.
	DisabledIndices []int
	// OnNavigate observes every change of the active index.
	OnNavigate func(index int)
}

// DefaultOptions returns vertical real-focus navigation that follows hover
// and opens on arrow keys.
func DefaultOptions() Options {
	return Options{
		Enabled:            true,
		Orientation:        Vertical,
		Mode:               RealFocus,
		FocusItemOnHover:   true,
		OpenOnArrowKeyDown: true,
	}
}

// Validate reports option combinations that cannot be honoured.
func (o Options) Validate() error {
	var errs []error
	if o.AllowEscape && !o.Loop {
		errs = append(errs, &floating.ConfigError{Component: "listnav", Option: "allowEscape", Reason: "needs loop; escape is disabled"})
	}
	if o.AllowEscape && (o.Mode == nil || !o.Mode.virtual()) {
		errs = append(errs, &floating.ConfigError{Component: "listnav", Option: "allowEscape", Reason: "needs virtual focus; escape is disabled"})
	}
	if o.Cols > 1 && o.Orientation == Horizontal {
		errs = append(errs, &floating.ConfigError{Component: "listnav", Option: "cols", Reason: "grid navigation needs vertical or both orientation"})
	}
	return errors.Join(errs...)
}

// ListNav is the list navigation interaction for one Context.
type ListNav struct {
	ctx  *floating.Context
	opts Options

	items    []*dom.Element
	index    int // may sit one past either end while escaped
	active   int
	selected int
	lastKey  string

	// blockPointerLeave is set by keyboard navigation and cleared by pointer
	// movement, so a pointer resting on an item does not clobber the index.
	blockPointerLeave bool
	frame             floating.Timeout
}

// New attaches a ListNav to ctx.
func New(ctx *floating.Context, opts Options) *ListNav {
	if opts.Mode == nil {
		opts.Mode = RealFocus
	}
	if opts.Orientation == "" {
		opts.Orientation = Vertical
	}
	l := &ListNav{ctx: ctx, index: None, active: None, selected: None}
	if err := opts.Validate(); err != nil {
		if ctx != nil {
			floating.Warn(ctx.Logger, err)
		}
		opts.AllowEscape = false
	}
	l.opts = opts
	if ctx == nil || !opts.Enabled {
		return l
	}
	unwatch := ctx.Watch(func(open bool) {
		if open {
			l.onOpen()
		} else {
			l.onClose()
		}
	})
	ctx.OnUnmount(func() {
		unwatch()
		l.frame.Clear()
	})
	return l
}

// SetItems replaces the navigable items. Nil entries are placeholders and
// count as disabled. An active index that is no longer valid is dropped.
func (l *ListNav) SetItems(items []*dom.Element) {
	l.items = items
	if l.active != None && (outOfBounds(len(items), l.active) || l.disabled()(l.active)) {
		l.navigate(None)
	}
}

// Items returns the current items.
func (l *ListNav) Items() []*dom.Element {
	return l.items
}

// Active returns the active index or None.
func (l *ListNav) Active() int {
	return l.active
}

// SetSelected records the committed selection; it becomes active when the
// list opens.
func (l *ListNav) SetSelected(index int) {
	l.selected = index
}

// Selected returns the committed selection or None.
func (l *ListNav) Selected() int {
	return l.selected
}

// Navigate makes index active. Disabled or out of range indices clear the
// active item.
func (l *ListNav) Navigate(index int) {
	if outOfBounds(len(l.items), index) || l.disabled()(index) {
		index = None
	}
	l.index = index
	l.navigate(index)
}

func (l *ListNav) navigate(index int) {
	if outOfBounds(len(l.items), index) {
		index = None
	}
	if index != None && l.disabled()(index) {
		l.index = l.active
		return
	}
	if l.ctx == nil {
		l.active = index
		return
	}
	changed := index != l.active
	l.active = index
	if l.ctx.Open() {
		var el *dom.Element
		if index != None {
			el = l.items[index]
		}
		l.opts.Mode.show(l, el)
	}
	if changed {
		l.ctx.Logger.Debug("listnav: navigate", "node", l.ctx.NodeID, "index", index)
		if l.opts.OnNavigate != nil {
			l.opts.OnNavigate(index)
		}
	}
}

func (l *ListNav) disabled() Disabled {
	if l.opts.DisabledIndices != nil {
		return DisabledSet(l.opts.DisabledIndices)
	}
	return func(i int) bool {
		if outOfBounds(len(l.items), i) {
			return false
		}
		return l.items[i] == nil || l.items[i].Disabled()
	}
}

func (l *ListNav) descendantOwner() *dom.Element {
	ref := l.ctx.Refs.Reference
	if ref.Typeable() || ref.Role() == "combobox" {
		return ref
	}
	return l.ctx.Refs.Floating
}

// Props contributes keyboard handlers on the reference and floating element
// and pointer handlers on each item.
func (l *ListNav) Props() props.Set {
	if l.ctx == nil || !l.opts.Enabled {
		return props.Set{}
	}
	orientation := string(l.opts.Orientation)
	if l.opts.Orientation == Both {
		orientation = ""
	}
	item := props.New().
		On(props.OnFocus, l.onItemFocus).
		On(props.OnClick, l.onItemClick)
	if l.opts.FocusItemOnHover {
		item = item.
			On(props.OnPointerEnter, l.onItemEnter).
			On(props.OnPointerMove, l.onItemMove).
			On(props.OnPointerLeave, l.onItemLeave)
	}
	return props.Set{
		Reference: props.New().On(props.OnKeyDown, l.onReferenceKeyDown),
		Floating: props.New().
			With("aria-orientation", orientation).
			On(props.OnKeyDown, l.onFloatingKeyDown).
			On(props.OnPointerMove, func(*dom.Event) { l.blockPointerLeave = false }),
		Item: item,
	}
}

// onOpen picks the item that becomes active when the list opens: the
// selection first, then an end of the list chosen by the opening key.
func (l *ListNav) onOpen() {
	key := l.lastKey
	l.lastKey = ""
	disabled := l.disabled()
	target := None
	switch {
	case l.selected != None && !outOfBounds(len(l.items), l.selected) && !disabled(l.selected):
		if l.opts.FocusItemOnOpen != OpenFocusNever {
			target = l.selected
		}
	case l.opts.FocusItemOnOpen == OpenFocusAlways || (l.opts.FocusItemOnOpen == OpenFocusAuto && key != ""):
		if key == "" || toEndKey(key, l.opts.Orientation, l.opts.RTL) || l.ctx.Nested() {
			target = MinIndex(len(l.items), disabled)
		} else {
			target = MaxIndex(len(l.items), disabled)
		}
	}
	if target == None || outOfBounds(len(l.items), target) {
		return
	}
	run := func() {
		if l.ctx.Open() && l.active == None {
			l.index = target
			l.navigate(target)
		}
	}
	if l.ctx.Scheduler == nil {
		run()
		return
	}
	l.frame.Frame(l.ctx.Scheduler, run)
}

func (l *ListNav) onClose() {
	l.frame.Clear()
	l.lastKey = ""
	l.blockPointerLeave = false
	if l.active != None || l.opts.Mode.virtual() {
		l.opts.Mode.show(l, nil)
	}
	l.index = None
	if l.active != None {
		l.active = None
		if l.opts.OnNavigate != nil {
			l.opts.OnNavigate(None)
		}
	}
}

func stop(ev *dom.Event) {
	ev.PreventDefault()
	ev.StopPropagation()
}

func arrowKey(key string) bool {
	return strings.HasPrefix(key, "Arrow")
}

func switchOrientation(o Orientation, vertical, horizontal bool) bool {
	switch o {
	case Vertical:
		return vertical
	case Horizontal:
		return horizontal
	}
	return vertical || horizontal
}

func mainKey(key string, o Orientation) bool {
	return switchOrientation(o,
		key == "ArrowUp" || key == "ArrowDown",
		key == "ArrowLeft" || key == "ArrowRight")
}

func toEndKey(key string, o Orientation, rtl bool) bool {
	horizontal := key == "ArrowRight"
	if rtl {
		horizontal = key == "ArrowLeft"
	}
	return switchOrientation(o, key == "ArrowDown", horizontal) ||
		key == "Enter" || key == " " || key == ""
}

func crossOpenKey(key string, o Orientation, rtl bool) bool {
	vertical := key == "ArrowRight"
	if rtl {
		vertical = key == "ArrowLeft"
	}
	return switchOrientation(o, vertical, key == "ArrowDown")
}

func crossCloseKey(key string, o Orientation, rtl bool) bool {
	vertical := key == "ArrowLeft"
	if rtl {
		vertical = key == "ArrowRight"
	}
	return switchOrientation(o, vertical, key == "ArrowUp")
}

func (l *ListNav) onReferenceKeyDown(ev *dom.Event) {
	l.blockPointerLeave = true
	o, rtl := l.opts.Orientation, l.opts.RTL
	nested := l.ctx.Nested()
	isMain := mainKey(ev.Key, o)
	isCrossOpen := crossOpenKey(ev.Key, o, rtl)
	navKey := ev.Key == "Enter" || strings.TrimSpace(ev.Key) == ""
	if nested {
		navKey = navKey || isCrossOpen
	} else {
		navKey = navKey || isMain
	}

	if l.opts.Mode.virtual() && l.ctx.Open() {
		l.onFloatingKeyDown(ev)
		return
	}
	if !l.ctx.Open() && !l.opts.OpenOnArrowKeyDown && arrowKey(ev.Key) {
		return
	}
	if navKey {
		l.lastKey = ev.Key
		if nested && isMain {
			l.lastKey = ""
		}
	}
	if nested {
		if isCrossOpen {
			stop(ev)
			if l.ctx.Open() {
				l.index = MinIndex(len(l.items), l.disabled())
				l.navigate(l.index)
			} else {
				l.open(ev)
			}
		}
		return
	}
	if isMain {
		if l.selected != None {
			l.index = l.selected
		}
		stop(ev)
		if !l.ctx.Open() && l.opts.OpenOnArrowKeyDown {
			l.open(ev)
			return
		}
		l.onFloatingKeyDown(ev)
	}
}

func (l *ListNav) open(ev *dom.Event) {
	l.ctx.Data.OpenEvent = ev
	l.ctx.SetOpen(true, floating.ReasonListNavigation)
}

func (l *ListNav) onFloatingKeyDown(ev *dom.Event) {
	l.blockPointerLeave = true
	if !l.ctx.Open() {
		return
	}
	o, rtl := l.opts.Orientation, l.opts.RTL
	if l.ctx.Nested() && crossCloseKey(ev.Key, o, rtl) {
		stop(ev)
		l.ctx.SetOpen(false, floating.ReasonListNavigation)
		ref := l.ctx.Refs.Reference
		if l.opts.Mode.virtual() {
			l.ctx.Events.Emit(floating.VirtualFocusEvent{NodeID: l.ctx.ParentID, Element: ref})
		} else {
			ref.Focus(dom.FocusOptions{})
		}
		return
	}

	n := len(l.items)
	disabled := l.disabled()
	minIndex, maxIndex := MinIndex(n, disabled), MaxIndex(n, disabled)
	current := l.index

	switch ev.Key {
	case "Home":
		stop(ev)
		l.index = minIndex
		l.navigate(l.index)
		return
	case "End":
		stop(ev)
		l.index = maxIndex
		l.navigate(l.index)
		return
	}

	if l.opts.Cols > 1 {
		grid := ev.Key == "ArrowUp" || ev.Key == "ArrowDown" ||
			(o == Both && (ev.Key == "ArrowLeft" || ev.Key == "ArrowRight"))
		if grid {
			stop(ev)
			l.index = gridIndex(ev.Key, current, n, l.opts.Cols, disabled, l.opts.Loop, rtl, o, minIndex, maxIndex)
			l.navigate(l.index)
			return
		}
	}

	if !mainKey(ev.Key, o) {
		return
	}
	stop(ev)
	toEnd := toEndKey(ev.Key, o, rtl)

	// Nothing focused inside yet: start from the matching end.
	if !l.opts.Mode.virtual() && l.ctx.Doc != nil && l.ctx.Doc.ActiveElement() == l.ctx.Refs.Floating {
		if toEnd {
			l.index = minIndex
		} else {
			l.index = maxIndex
		}
		l.navigate(l.index)
		return
	}

	escape := l.opts.AllowEscape
	switch {
	case toEnd && l.opts.Loop:
		if current >= maxIndex {
			if escape && current != n {
				l.index = n
			} else {
				l.index = minIndex
			}
		} else {
			l.index = FindNonDisabledIndex(n, disabled, current, false, 1)
		}
	case toEnd:
		l.index = min(maxIndex, FindNonDisabledIndex(n, disabled, current, false, 1))
	case l.opts.Loop:
		if current <= minIndex {
			if escape && current != None {
				l.index = None
			} else {
				l.index = maxIndex
			}
		} else {
			l.index = FindNonDisabledIndex(n, disabled, current, true, 1)
		}
	default:
		l.index = max(minIndex, FindNonDisabledIndex(n, disabled, current, true, 1))
	}
	l.navigate(l.index)
}

func (l *ListNav) itemIndex(el *dom.Element) int {
	for i, item := range l.items {
		if item != nil && item == el {
			return i
		}
	}
	return None
}

func (l *ListNav) sync(el *dom.Element) {
	if !l.ctx.Open() {
		return
	}
	i := l.itemIndex(el)
	if i != None && i != l.active && !l.disabled()(i) {
		l.index = i
		l.navigate(i)
	}
}

func (l *ListNav) onItemFocus(ev *dom.Event) {
	if l.opts.Mode.virtual() {
		return
	}
	if i := l.itemIndex(ev.CurrentTarget); i != None && i != l.active && !l.disabled()(i) {
		l.index = i
		l.active = i
		if l.opts.OnNavigate != nil {
			l.opts.OnNavigate(i)
		}
	}
}

func (l *ListNav) onItemClick(ev *dom.Event) {
	if !l.opts.Mode.virtual() && ev.CurrentTarget != nil {
		ev.CurrentTarget.Focus(dom.FocusOptions{PreventScroll: true})
	}
}

func (l *ListNav) onItemEnter(ev *dom.Event) {
	if l.blockPointerLeave || ev.PointerType == dom.Touch {
		return
	}
	l.sync(ev.CurrentTarget)
}

func (l *ListNav) onItemMove(ev *dom.Event) {
	l.blockPointerLeave = false
	l.sync(ev.CurrentTarget)
}

func (l *ListNav) onItemLeave(ev *dom.Event) {
	if l.blockPointerLeave || ev.PointerType == dom.Touch || !l.ctx.Open() {
		return
	}
	l.index = None
	l.navigate(None)
	if !l.opts.Mode.virtual() {
		l.ctx.Refs.Floating.Focus(dom.FocusOptions{PreventScroll: true})
	}
}
