package monitor

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/dismiss"
	"github.com/marcus/floatui/pkg/floating/focus"
	"github.com/marcus/floatui/pkg/floating/hover"
	"github.com/marcus/floatui/pkg/floating/interact"
	"github.com/marcus/floatui/pkg/floating/listnav"
	"github.com/marcus/floatui/pkg/floating/props"
	"github.com/marcus/floatui/pkg/monitor/modal"
)

// Kind names a demo widget.
type Kind string

const (
	KindTooltip Kind = "tooltip"
	KindMenu    Kind = "menu"
	KindSubmenu Kind = "submenu"
	KindDialog  Kind = "dialog"
	KindSelect  Kind = "select"
)

const (
	toolbarY   = 1
	maxHistory = 50
)

var (
	menuLabels    = []string{"New file", "Open recent", "Share", "Rename", "Delete", "Quit"}
	submenuLabels = []string{"Email link", "Copy link", "Export PDF"}
	fruitLabels   = []string{"Apple", "Apricot", "Banana", "Cherry", "Grape", "Lemon", "Mango", "Orange", "Peach"}
)

// Widget is one reference/floating pair and the interactions wired to it.
type Widget struct {
	Kind      Kind
	Label     string
	Ctx       *floating.Context
	Reference *dom.Element
	Floating  *dom.Element
	Items     []*dom.Element
	Panel     *modal.Panel

	List      *listnav.ListNav
	Typeahead *listnav.Typeahead
	Role      *interact.Role
	Focus     *focus.Manager
	Hover     *hover.Hover
	Dismiss   *dismiss.Dismiss
	Click     *interact.Click

	placement floating.Placement
	offset    float64
	rendered  modal.Rendered
	parent    *Widget
	child     *Widget
	// swallowSpaceUp blocks the click a button would fire on the keyup of a
	// space that already committed a selection.
	swallowSpaceUp bool
}

// Rendered returns the panel as measured by the last layout.
func (w *Widget) Rendered() modal.Rendered {
	return w.rendered
}

// Scene is the document the monitor drives: a scrollable toolbar of
// references and the floating elements they control.
type Scene struct {
	Doc        *dom.Document
	Tree       *floating.Tree
	Scheduler  floating.Scheduler
	Positioner floating.SidePositioner
	Ledger     *focus.AriaHideLedger
	Logger     *slog.Logger
	Pane       *dom.Element
	Widgets    []*Widget

	// Chosen is the last activated menu item, Selected the select's value.
	Chosen   string
	Selected string

	cfg     *config.Config
	byNode  map[string]*Widget
	history []string
	hovered *dom.Element
	pressed *dom.Element
}

// NewScene builds the demo document. sched drives every delay; pass a
// ManualScheduler in tests.
func NewScene(cfg *config.Config, sched floating.Scheduler, logger *slog.Logger, width, height int) *Scene {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		Doc:       dom.NewDocument(),
		Tree:      floating.NewTree(),
		Scheduler: sched,
		Ledger:    focus.NewAriaHideLedger(),
		Logger:    logger,
		cfg:       cfg,
		byNode:    make(map[string]*Widget),
	}
	s.Pane = s.Doc.Body.AppendChild(s.Doc.CreateElement("div"))
	s.Pane.SetAttr("overflow", "auto")
	s.Resize(width, height)

	s.Tree.Events.Subscribe(floating.EventOpenChange, func(e floating.Event) {
		oc, ok := e.(floating.OpenChangeEvent)
		if !ok {
			return
		}
		state := "closed"
		if oc.Open {
			state = "opened"
		}
		s.note(fmt.Sprintf("%s %s (%s)", s.NodeLabel(s.Tree.Node(oc.NodeID)), state, oc.Reason))
	})

	x := 2
	s.buildTooltip(&x)
	s.buildMenu(&x)
	s.buildDialog(&x)
	s.buildSelect(&x)
	return s
}

// Resize sets the viewport. Open floating elements are placed again.
func (s *Scene) Resize(width, height int) {
	vp := dom.Rect{Width: float64(width), Height: float64(height)}
	s.Doc.Viewport = vp
	s.Doc.Body.SetRect(vp)
	s.Pane.SetRect(vp)
	s.Positioner = floating.SidePositioner{Viewport: vp}
	s.Layout()
}

func (s *Scene) note(msg string) {
	s.history = append(s.history, msg)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
	s.Logger.Debug("monitor: "+msg)
}

// History returns recent open changes and selections, oldest first.
func (s *Scene) History() []string {
	return s.history
}

// Status returns the most recent history entry.
func (s *Scene) Status() string {
	if len(s.history) == 0 {
		return ""
	}
	return s.history[len(s.history)-1]
}

// Widget returns the widget of kind k.
func (s *Scene) Widget(k Kind) *Widget {
	for _, w := range s.Widgets {
		if w.Kind == k {
			return w
		}
	}
	return nil
}

// NodeLabel names a tree node by its widget.
func (s *Scene) NodeLabel(n *floating.Node) string {
	if n == nil {
		return "?"
	}
	if w, ok := s.byNode[n.ID]; ok {
		return w.Label
	}
	return n.ID
}

// newWidget creates the context and elements of a widget. ref may be an
// existing element (a submenu trigger); otherwise a toolbar button is added
// at *x.
func (s *Scene) newWidget(kind Kind, label string, parent *Widget, ref *dom.Element, x *int, placement floating.Placement, offset float64) *Widget {
	w := &Widget{Kind: kind, Label: label, parent: parent, placement: placement, offset: offset, Panel: &modal.Panel{}}
	opts := floating.Options{
		Doc:       s.Doc,
		Tree:      s.Tree,
		Scheduler: s.Scheduler,
		Logger:    s.Logger,
		Placement: placement,
	}
	if parent != nil {
		opts.ParentID = parent.Ctx.NodeID
		parent.child = w
	}
	w.Ctx = floating.New(opts)

	if ref == nil {
		ref = s.Pane.AppendChild(s.Doc.CreateElement("button"))
		ref.Text = label
		width := len(label) + 4
		ref.SetRect(dom.Rect{X: float64(*x), Y: toolbarY, Width: float64(width), Height: 1})
		*x += width + 2
	}
	w.Reference = ref
	w.Floating = s.Doc.Body.AppendChild(s.Doc.CreateElement("div"))
	w.Floating.SetAttr("hidden", "")
	w.Floating.SetAttr("tabindex", "-1")
	w.Ctx.Refs = floating.Refs{Reference: ref, Floating: w.Floating}

	// Registered before any interaction so elements are visible and placed
	// when their watchers run.
	w.Ctx.Watch(func(open bool) {
		if open {
			w.Floating.RemoveAttr("hidden")
			s.place(w)
		} else {
			w.Floating.SetAttr("hidden", "")
		}
	})
	s.byNode[w.Ctx.NodeID] = w
	s.Widgets = append(s.Widgets, w)
	return w
}

func (s *Scene) addItems(w *Widget, tag string, labels []string) {
	for _, label := range labels {
		item := w.Floating.AppendChild(s.Doc.CreateElement(tag))
		item.Text = label
		w.Items = append(w.Items, item)
	}
}

// bind merges the interactions of w onto its elements. item supplies the
// user props of each item and may be nil.
func (s *Scene) bind(w *Widget, in *props.Interactions, ref props.Props, item func(i int) props.Props) {
	unbind := []func(){
		in.ReferenceProps(ref).Bind(w.Reference),
		in.FloatingProps(props.New()).Bind(w.Floating),
	}
	for i, el := range w.Items {
		user := props.New()
		if item != nil {
			user = item(i)
		}
		unbind = append(unbind, in.ItemProps(user).Bind(el))
	}
	w.Ctx.OnUnmount(func() {
		for _, fn := range unbind {
			fn()
		}
	})
}

func (s *Scene) buildTooltip(x *int) {
	w := s.newWidget(KindTooltip, "Tooltip", nil, nil, x, floating.Bottom, 1)
	w.Panel = &modal.Panel{Variant: modal.VariantTooltip, Body: []string{"Opens on hover or keyboard focus"}}
	w.Hover = hover.New(w.Ctx, s.cfg.HoverOptions())
	w.Dismiss = dismiss.New(w.Ctx, s.cfg.DismissOptions())
	w.Role = interact.NewRole(w.Ctx, interact.RoleTooltip)
	focusOpen := interact.NewFocusOpen(w.Ctx, interact.DefaultFocusOptions())
	s.bind(w, props.Use(w.Hover, focusOpen, w.Dismiss, w.Role), props.New(), nil)
}

func (s *Scene) listOptions() listnav.Options {
	opts := s.cfg.ListOptions()
	opts.Mode = listnav.RealFocus
	opts.AllowEscape = false
	return opts
}

func (s *Scene) menuFocus() focus.Options {
	return focus.Options{
		Order:        []focus.Region{focus.RegionContent},
		InitialFocus: focus.InitialFocus{Index: -1},
		ReturnFocus:  true,
	}
}

func (s *Scene) typeahead(w *Widget, onMatch func(i int)) *listnav.Typeahead {
	opts := s.cfg.TypeaheadOptions()
	opts.ActiveIndex = w.List.Active
	opts.OnMatch = onMatch
	t := listnav.NewTypeahead(w.Ctx, opts)
	t.SetLabels(listnav.Labels(w.Items))
	return t
}

func (s *Scene) buildMenu(x *int) {
	menu := s.newWidget(KindMenu, "Menu", nil, nil, x, floating.BottomStart, 0)
	menu.Panel = &modal.Panel{Variant: modal.VariantMenu}
	s.addItems(menu, "div", menuLabels)
	menu.Items[4].SetAttr("aria-disabled", "true")
	s.wireMenu(menu)

	sub := s.newWidget(KindSubmenu, "Share", menu, menu.Items[2], nil, floating.RightStart, 0)
	sub.Panel = &modal.Panel{Variant: modal.VariantMenu}
	s.addItems(sub, "div", submenuLabels)
	sub.Hover = hover.New(sub.Ctx, s.cfg.HoverOptions())
	s.wireMenu(sub)
}

// wireMenu attaches the menu interactions. Submenu triggers are bound by
// their own widget, so menu bindings must exist before the child is wired.
func (s *Scene) wireMenu(w *Widget) {
	for _, item := range w.Items {
		item.SetAttr("tabindex", "-1")
	}
	w.List = listnav.New(w.Ctx, s.listOptions())
	w.List.SetItems(w.Items)
	w.Typeahead = s.typeahead(w, func(i int) {
		if w.Ctx.Open() {
			w.List.Navigate(i)
		}
	})
	w.Click = interact.NewClick(w.Ctx, interact.DefaultClickOptions())
	w.Dismiss = dismiss.New(w.Ctx, s.cfg.DismissOptions())
	w.Role = interact.NewRole(w.Ctx, interact.RoleMenu)
	w.Focus = focus.New(w.Ctx, s.menuFocus())

	in := props.Use(w.List, w.Typeahead, w.Click, w.Dismiss, w.Role, w.Focus)
	if w.Hover != nil {
		in.Add(w.Hover)
	}
	s.bind(w, in, props.New(), func(i int) props.Props {
		return props.New().
			On(props.OnClick, func(*dom.Event) { s.activate(w, i) }).
			On(props.OnKeyDown, func(ev *dom.Event) {
				if ev.Key == "Enter" || (ev.Key == " " && !w.Ctx.Data.Typing) {
					if w.child != nil && w.child.Reference == w.Items[i] {
						return
					}
					ev.PreventDefault()
					s.activate(w, i)
				}
			})
	})
}

// activate commits a menu item and closes the whole menu chain.
func (s *Scene) activate(w *Widget, i int) {
	item := w.Items[i]
	if item.Disabled() || (w.child != nil && w.child.Reference == item) {
		return
	}
	s.Chosen = item.TextContent()
	s.note("chose " + s.Chosen)
	for c := w; c != nil; c = c.parent {
		c.Ctx.SetOpen(false, floating.ReasonClick)
	}
}

func (s *Scene) buildDialog(x *int) {
	w := s.newWidget(KindDialog, "Dialog", nil, nil, x, floating.Bottom, 0)
	w.Panel = &modal.Panel{
		Variant:  modal.VariantDialog,
		Title:    "Rename file",
		Body:     []string{"Focus stays inside until the dialog closes.", ""},
		MinWidth: 30,
	}
	name := w.Floating.AppendChild(s.Doc.CreateElement("input"))
	name.Text = "report.txt"
	ok := w.Floating.AppendChild(s.Doc.CreateElement("button"))
	ok.Text = "OK"
	cancel := w.Floating.AppendChild(s.Doc.CreateElement("button"))
	cancel.Text = "Cancel"
	w.Items = []*dom.Element{name, ok, cancel}

	opts := focus.DefaultOptions()
	opts.InitialFocus = focus.InitialFocus{Index: 0}
	opts.Ledger = s.Ledger
	w.Focus = focus.New(w.Ctx, opts)
	w.Click = interact.NewClick(w.Ctx, interact.DefaultClickOptions())
	w.Dismiss = dismiss.New(w.Ctx, s.cfg.DismissOptions())
	w.Role = interact.NewRole(w.Ctx, interact.RoleDialog)

	s.bind(w, props.Use(w.Click, w.Dismiss, w.Role, w.Focus), props.New(), func(i int) props.Props {
		switch i {
		case 1:
			return props.New().On(props.OnClick, func(*dom.Event) {
				s.Chosen = "renamed to " + name.Text
				s.note(s.Chosen)
				w.Ctx.SetOpen(false, floating.ReasonClick)
			})
		case 2:
			return props.New().On(props.OnClick, func(*dom.Event) {
				w.Ctx.SetOpen(false, floating.ReasonClick)
			})
		}
		return props.New()
	})
}

func (s *Scene) buildSelect(x *int) {
	w := s.newWidget(KindSelect, "Fruit: (none)", nil, nil, x, floating.BottomStart, 0)
	// Room for the longest choice so the button keeps its size.
	r := w.Reference.Rect()
	r.Width = float64(len("Fruit: ") + len("Apricot") + 4)
	w.Reference.SetRect(r)
	w.Panel = &modal.Panel{Variant: modal.VariantListbox, MaxVisible: 5}
	s.addItems(w, "div", fruitLabels)

	opts := s.cfg.ListOptions()
	opts.Mode = listnav.VirtualFocus
	opts.AllowEscape = false
	w.List = listnav.New(w.Ctx, opts)
	w.List.SetItems(w.Items)
	w.Typeahead = s.typeahead(w, func(i int) {
		if w.Ctx.Open() {
			w.List.Navigate(i)
			return
		}
		s.choose(w, i)
	})
	w.Click = interact.NewClick(w.Ctx, interact.DefaultClickOptions())
	w.Dismiss = dismiss.New(w.Ctx, s.cfg.DismissOptions())
	w.Role = interact.NewRole(w.Ctx, interact.RoleSelect)

	commit := func(ev *dom.Event) {
		if !w.Ctx.Open() || w.List.Active() == listnav.None {
			return
		}
		if ev.Key == "Enter" || (ev.Key == " " && !w.Ctx.Data.Typing) {
			ev.PreventDefault()
			w.swallowSpaceUp = ev.Key == " "
			s.choose(w, w.List.Active())
		}
	}
	ref := props.New().
		On(props.OnKeyDown, commit).
		On(props.OnKeyUp, func(ev *dom.Event) {
			if ev.Key == " " && w.swallowSpaceUp {
				w.swallowSpaceUp = false
				ev.PreventDefault()
			}
		})
	s.bind(w, props.Use(w.List, w.Typeahead, w.Click, w.Dismiss, w.Role), ref, func(i int) props.Props {
		return props.New().On(props.OnClick, func(*dom.Event) { s.choose(w, i) })
	})
}

// choose commits option i of the select and closes it.
func (s *Scene) choose(w *Widget, i int) {
	if i < 0 || i >= len(w.Items) {
		return
	}
	w.List.SetSelected(i)
	for j, item := range w.Items {
		item.SetAttr("aria-selected", fmt.Sprint(j == i))
	}
	s.Selected = w.Items[i].TextContent()
	w.Reference.Text = "Fruit: " + s.Selected
	s.note("selected " + s.Selected)
	w.Ctx.SetOpen(false, floating.ReasonClick)
	w.Reference.Focus(dom.FocusOptions{PreventScroll: true})
}

// syncPanel copies element state into the panel rows.
func (s *Scene) syncPanel(w *Widget) {
	if w.Kind == KindTooltip {
		return
	}
	active := s.Doc.ActiveElement()
	rows := make([]modal.Row, len(w.Items))
	for i, item := range w.Items {
		row := modal.Row{
			ID:       fmt.Sprintf("%s-%d", w.Kind, i),
			Label:    item.TextContent(),
			Disabled: item.Disabled(),
			Submenu:  w.child != nil && w.child.Reference == item,
			Data:     item,
		}
		switch {
		case w.List != nil:
			row.Active = w.List.Active() == i
			row.Selected = w.List.Selected() == i
		default:
			row.Active = item == active
		}
		if item.Tag == "input" {
			row.Label = "Name: [" + item.Text + "]"
		}
		rows[i] = row
	}
	w.Panel.Rows = rows
}

// place renders the panel of an open widget, positions its floating element
// and gives every visible item its row rectangle.
func (s *Scene) place(w *Widget) {
	s.syncPanel(w)
	r := w.Panel.Render()
	w.rendered = r
	size := dom.Rect{Width: float64(r.Width), Height: float64(r.Height)}

	var x, y float64
	if w.Kind == KindDialog {
		vp := s.Doc.Viewport
		x, y = (vp.Width-size.Width)/2, (vp.Height-size.Height)/2
	} else {
		pos := s.Positioner.ComputePosition(w.Reference.Rect(), size, floating.PositionOptions{
			Placement: w.placement,
			Offset:    w.offset,
			Flip:      true,
		})
		w.Ctx.Placement = pos.Placement
		x, y = pos.X, pos.Y
	}
	rect := dom.Rect{X: math.Round(x), Y: math.Round(y), Width: size.Width, Height: size.Height}
	w.Floating.SetRect(rect)

	for _, item := range w.Items {
		item.SetRect(dom.Rect{})
	}
	for _, hit := range r.Rows {
		w.Items[hit.Index].SetRect(dom.Rect{
			X:      rect.X + float64(hit.OffsetX),
			Y:      rect.Y + float64(hit.OffsetY),
			Width:  float64(hit.Width),
			Height: 1,
		})
	}
}

// Layout places every open widget, parents before children.
func (s *Scene) Layout() {
	for _, w := range s.Widgets {
		if w.Ctx.Open() {
			s.place(w)
		}
	}
}

// OpenWidgets returns the open widgets in stacking order.
func (s *Scene) OpenWidgets() []*Widget {
	var out []*Widget
	for _, w := range s.Widgets {
		if w.Ctx.Open() {
			out = append(out, w)
		}
	}
	return out
}

// Hovered returns the element under the pointer.
func (s *Scene) Hovered() *dom.Element {
	return s.hovered
}

// Close unmounts every widget.
func (s *Scene) Close() {
	for i := len(s.Widgets) - 1; i >= 0; i-- {
		s.Widgets[i].Ctx.Close()
	}
}
