package listnav

import (
	"errors"
	"fmt"
	"testing"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/floating/props"
)

type list struct {
	doc   *dom.Document
	sched *floating.ManualScheduler
	ctx   *floating.Context
	ref   *dom.Element
	float *dom.Element
	items []*dom.Element
	nav   *ListNav
}

func newList(n int, opts Options) *list {
	return newListIn(dom.NewDocument(), nil, "", n, opts)
}

func newListIn(doc *dom.Document, tree *floating.Tree, parentID string, n int, opts Options) *list {
	l := &list{doc: doc, sched: floating.NewManualScheduler()}
	l.ref = doc.Body.AppendChild(doc.CreateElement("button"))
	l.float = doc.Body.AppendChild(doc.CreateElement("div"))
	for i := 0; i < n; i++ {
		item := l.float.AppendChild(doc.CreateElement("div"))
		item.SetAttr("role", "option")
		item.Text = fmt.Sprintf("item %d", i)
		l.items = append(l.items, item)
	}
	l.ctx = floating.New(floating.Options{Doc: doc, Tree: tree, ParentID: parentID, Scheduler: l.sched})
	l.ctx.Refs = floating.Refs{Reference: l.ref, Floating: l.float}
	l.nav = New(l.ctx, opts)
	l.nav.SetItems(l.items)
	l.bind()
	return l
}

func (l *list) bind() {
	in := props.Use(l.nav)
	in.ReferenceProps(props.New()).Bind(l.ref)
	in.FloatingProps(props.New()).Bind(l.float)
	for _, item := range l.items {
		in.ItemProps(props.New()).Bind(item)
	}
}

func (l *list) press(key string) {
	l.doc.PressKey(key)
	l.sched.Flush()
}

// openWithKey focuses the reference and opens the list with ArrowDown.
func (l *list) openWithKey() {
	l.ref.Focus(dom.FocusOptions{})
	l.press("ArrowDown")
}

func (l *list) checkActive(t *testing.T, step string, want int) {
	t.Helper()
	if got := l.nav.Active(); got != want {
		t.Fatalf("%s: Active = %d, want %d", step, got, want)
	}
}

var sparseDisabled = []int{0, 1, 2, 5, 10, 15, 46, 47, 48}

func enabledIndices(n int, disabled []int) []int {
	skip := DisabledSet(disabled)
	var out []int
	for i := 0; i < n; i++ {
		if !skip(i) {
			out = append(out, i)
		}
	}
	return out
}

func TestFindNonDisabledIndex(t *testing.T) {
	disabled := DisabledSet(sparseDisabled)
	tests := []struct {
		name      string
		start     int
		decrement bool
		amount    int
		want      int
	}{
		{"from start", -1, false, 1, 3},
		{"skips run", 4, false, 1, 6},
		{"backwards", 6, true, 1, 4},
		{"past the end", 45, false, 1, 49},
		{"before the start", 3, true, 1, -1},
		{"by rows", 12, false, 3, 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindNonDisabledIndex(49, disabled, tt.start, tt.decrement, tt.amount); got != tt.want {
				t.Errorf("FindNonDisabledIndex = %d, want %d", got, tt.want)
			}
		})
	}
	if got := MinIndex(49, disabled); got != 3 {
		t.Errorf("MinIndex = %d, want 3", got)
	}
	if got := MaxIndex(49, disabled); got != 45 {
		t.Errorf("MaxIndex = %d, want 45", got)
	}
	allOff := func(int) bool { return true }
	if got := MinIndex(4, allOff); got != 4 {
		t.Errorf("MinIndex with everything disabled = %d, want 4", got)
	}
}

func TestLinearNavigationSkipsDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	opts.DisabledIndices = sparseDisabled
	l := newList(49, opts)
	l.openWithKey()
	l.checkActive(t, "open", 3)

	enabled := enabledIndices(49, sparseDisabled)
	for step := 1; step <= len(enabled); step++ {
		l.press("ArrowDown")
		want := enabled[step%len(enabled)]
		l.checkActive(t, fmt.Sprintf("step %d", step), want)
		if l.doc.ActiveElement() != l.items[want] {
			t.Fatalf("step %d: focus is not on item %d", step, want)
		}
	}
}

func TestLinearNavigationBackwardsWraps(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	opts.DisabledIndices = sparseDisabled
	l := newList(49, opts)
	l.openWithKey()

	l.press("ArrowUp")
	l.checkActive(t, "wrap to end", 45)
	l.press("ArrowUp")
	l.checkActive(t, "back one", 44)
}

func TestGridNavigationKeepsColumn(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	opts.Cols = 3
	opts.DisabledIndices = sparseDisabled
	l := newList(49, opts)
	l.openWithKey()
	l.checkActive(t, "open", 3)

	want := []int{6, 9, 12, 18, 21, 24, 27, 30, 33, 36, 39, 42, 45, 3}
	for i, w := range want {
		l.press("ArrowDown")
		l.checkActive(t, fmt.Sprintf("down %d", i+1), w)
	}
	l.press("ArrowUp")
	l.checkActive(t, "up from first row", 45)
}

func TestGridColumnWrapSkipsDisabled(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		disabled []int
		prev     int
		want     int
	}{
		{"wrap target disabled, column has no other item", 6, []int{3}, 0, 0},
		{"wrap target disabled, walks up the column", 9, []int{6}, 0, 3},
		{"wrap target enabled", 6, []int{3}, 1, 4},
	}
	for _, tt := range tests {
		skip := DisabledSet(tt.disabled)
		minIndex, maxIndex := MinIndex(tt.length, skip), MaxIndex(tt.length, skip)
		got := gridIndex("ArrowUp", tt.prev, tt.length, 3, skip, true, false, Vertical, minIndex, maxIndex)
		if got != tt.want {
			t.Errorf("%s: gridIndex(ArrowUp, %d) = %d, want %d", tt.name, tt.prev, got, tt.want)
		}
	}
}

func TestGridArrowUpNeverLandsOnDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.Loop = true
	opts.Cols = 3
	opts.DisabledIndices = []int{3}
	l := newList(6, opts)
	l.openWithKey()
	l.checkActive(t, "open", 0)

	l.press("ArrowUp")
	l.checkActive(t, "up from 0", 0)
	l.press("ArrowDown")
	l.checkActive(t, "down from 0", 0)
}

func TestGridRowMovesInBothOrientation(t *testing.T) {
	opts := DefaultOptions()
	opts.Orientation = Both
	opts.Loop = true
	opts.Cols = 3
	l := newList(9, opts)
	l.openWithKey()
	l.checkActive(t, "open", 0)

	steps := []struct {
		key  string
		want int
	}{
		{"ArrowRight", 1},
		{"ArrowRight", 2},
		{"ArrowRight", 0}, // wraps within the row
		{"ArrowLeft", 2},
		{"ArrowDown", 5},
		{"ArrowDown", 8},
		{"ArrowDown", 2},
	}
	for i, s := range steps {
		l.press(s.key)
		l.checkActive(t, fmt.Sprintf("step %d %s", i, s.key), s.want)
	}
}

func TestGridRowMovesRTL(t *testing.T) {
	opts := DefaultOptions()
	opts.Orientation = Both
	opts.Loop = true
	opts.RTL = true
	opts.Cols = 3
	l := newList(9, opts)
	l.openWithKey()
	l.checkActive(t, "open", 0)

	steps := []struct {
		key  string
		want int
	}{
		{"ArrowLeft", 1},
		{"ArrowLeft", 2},
		{"ArrowLeft", 0},
		{"ArrowRight", 2},
		{"ArrowRight", 1},
		{"ArrowDown", 4},
	}
	for i, s := range steps {
		l.press(s.key)
		l.checkActive(t, fmt.Sprintf("step %d %s", i, s.key), s.want)
	}
}

func TestHomeEndAndClamping(t *testing.T) {
	opts := DefaultOptions()
	opts.DisabledIndices = []int{0, 4}
	l := newList(5, opts)
	l.openWithKey()
	l.checkActive(t, "open", 1)

	l.press("ArrowUp")
	l.checkActive(t, "clamped at start", 1)
	l.press("End")
	l.checkActive(t, "end", 3)
	l.press("ArrowDown")
	l.checkActive(t, "clamped at end", 3)
	l.press("Home")
	l.checkActive(t, "home", 1)
}

func TestOpenFocusModes(t *testing.T) {
	tests := []struct {
		name     string
		mode     OpenFocus
		selected int
		want     int
	}{
		{"auto ignores pointer open", OpenFocusAuto, None, None},
		{"always", OpenFocusAlways, None, 0},
		{"never", OpenFocusNever, None, None},
		{"selection wins", OpenFocusAuto, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.FocusItemOnOpen = tt.mode
			l := newList(4, opts)
			l.nav.SetSelected(tt.selected)
			l.ctx.SetOpen(true, floating.ReasonClick)
			l.sched.Flush()
			if got := l.nav.Active(); got != tt.want {
				t.Errorf("Active = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestArrowUpOpensAtLastItem(t *testing.T) {
	l := newList(4, DefaultOptions())
	l.ref.Focus(dom.FocusOptions{})
	l.press("ArrowUp")
	if !l.ctx.Open() {
		t.Fatal("ArrowUp should open the list")
	}
	l.checkActive(t, "open", 3)
}

func TestArrowKeysDoNotOpenWhenDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.OpenOnArrowKeyDown = false
	l := newList(4, opts)
	l.ref.Focus(dom.FocusOptions{})
	l.press("ArrowDown")
	if l.ctx.Open() {
		t.Error("list opened on arrow key")
	}
	l.checkActive(t, "closed", None)
}

func TestCloseClearsActive(t *testing.T) {
	var seen []int
	opts := DefaultOptions()
	opts.OnNavigate = func(i int) { seen = append(seen, i) }
	l := newList(3, opts)
	l.openWithKey()
	l.press("ArrowDown")
	l.ctx.SetOpen(false, floating.ReasonEscapeKey)

	l.checkActive(t, "closed", None)
	want := []int{0, 1, None}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Errorf("OnNavigate calls = %v, want %v", seen, want)
	}
}

func TestRovingTabIndex(t *testing.T) {
	l := newList(3, DefaultOptions())
	l.openWithKey()
	l.press("ArrowDown")
	for i, item := range l.items {
		want := "-1"
		if i == 1 {
			want = "0"
		}
		if got, _ := item.Attr("tabindex"); got != want {
			t.Errorf("item %d tabindex = %q, want %q", i, got, want)
		}
	}
}

func TestVirtualFocusWithEscape(t *testing.T) {
	opts := DefaultOptions()
	opts.Mode = VirtualFocus
	opts.Loop = true
	opts.AllowEscape = true
	l := newList(3, opts)
	l.ref.SetAttr("role", "combobox")

	var events []*dom.Element
	l.ctx.Events.Subscribe(floating.EventVirtualFocus, func(e floating.Event) {
		events = append(events, e.(floating.VirtualFocusEvent).Element)
	})

	l.openWithKey()
	l.checkActive(t, "open", 0)

	steps := []int{1, 2, None, 0}
	for i, want := range steps {
		l.press("ArrowDown")
		l.checkActive(t, fmt.Sprintf("step %d", i), want)
		desc, ok := l.ref.Attr("aria-activedescendant")
		if want == None {
			if ok {
				t.Errorf("step %d: aria-activedescendant = %q while escaped", i, desc)
			}
			continue
		}
		if desc != l.items[want].ID() || desc == "" {
			t.Errorf("step %d: aria-activedescendant = %q, want id of item %d", i, desc, want)
		}
	}
	if l.doc.ActiveElement() != l.ref {
		t.Error("virtual focus must leave document focus on the reference")
	}
	if len(events) != 5 || events[3] != nil {
		t.Errorf("virtual focus events = %d, want 5 with a nil while escaped", len(events))
	}
}

func TestEscapeNeedsLoopAndVirtualFocus(t *testing.T) {
	opts := DefaultOptions()
	opts.AllowEscape = true
	err := opts.Validate()
	var cfg *floating.ConfigError
	if !errors.As(err, &cfg) {
		t.Fatalf("Validate = %v, want a ConfigError", err)
	}
	if cfg.Component != "listnav" || cfg.Option != "allowEscape" {
		t.Errorf("ConfigError = %+v", cfg)
	}

	l := newList(3, opts)
	l.openWithKey()
	l.press("ArrowUp")
	l.checkActive(t, "escape ignored", 0)
}

func TestHoverFollowsPointerUnlessKeyboardActive(t *testing.T) {
	l := newList(4, DefaultOptions())
	l.openWithKey()
	l.checkActive(t, "open", 0)

	// A stray enter right after keyboard use must not steal the index.
	l.doc.Dispatch(&dom.Event{Type: dom.PointerEnter, Target: l.items[2], PointerType: dom.Mouse})
	l.checkActive(t, "blocked enter", 0)
	l.doc.Dispatch(&dom.Event{Type: dom.PointerLeave, Target: l.items[2], PointerType: dom.Mouse})
	l.checkActive(t, "blocked leave", 0)

	l.doc.MovePointerOver(l.items[2], 5, 5, dom.Mouse)
	l.checkActive(t, "pointer move", 2)
	if l.doc.ActiveElement() != l.items[2] {
		t.Error("hovered item should take focus")
	}

	l.doc.MovePointerOver(l.float, 5, 5, dom.Mouse)
	l.checkActive(t, "pointer left", None)
	if l.doc.ActiveElement() != l.float {
		t.Error("leaving an item should park focus on the floating element")
	}
}

func TestSetItemsDropsStaleIndex(t *testing.T) {
	l := newList(4, DefaultOptions())
	l.openWithKey()
	l.press("End")
	l.checkActive(t, "end", 3)
	l.nav.SetItems(l.items[:2])
	l.checkActive(t, "shrunk", None)
}

func TestNestedCrossOrientationKeys(t *testing.T) {
	doc := dom.NewDocument()
	tree := floating.NewTree()
	parent := newListIn(doc, tree, "", 3, DefaultOptions())

	child := &list{doc: doc, sched: parent.sched}
	child.ref = parent.items[1]
	child.float = doc.Body.AppendChild(doc.CreateElement("div"))
	for i := 0; i < 2; i++ {
		child.items = append(child.items, child.float.AppendChild(doc.CreateElement("div")))
	}
	child.ctx = floating.New(floating.Options{Doc: doc, Tree: tree, ParentID: parent.ctx.NodeID, Scheduler: parent.sched})
	child.ctx.Refs = floating.Refs{Reference: child.ref, Floating: child.float}
	child.nav = New(child.ctx, DefaultOptions())
	child.nav.SetItems(child.items)
	child.bind()

	parent.openWithKey()
	parent.press("ArrowDown")
	parent.checkActive(t, "parent", 1)

	parent.press("ArrowRight")
	if !child.ctx.Open() {
		t.Fatal("ArrowRight on the parent item should open the submenu")
	}
	child.checkActive(t, "submenu", 0)
	if doc.ActiveElement() != child.items[0] {
		t.Fatal("focus should move into the submenu")
	}
	parent.checkActive(t, "parent unchanged", 1)

	parent.press("ArrowLeft")
	if child.ctx.Open() {
		t.Error("ArrowLeft should close the submenu")
	}
	if !parent.ctx.Open() {
		t.Error("closing the submenu must keep the parent open")
	}
	if doc.ActiveElement() != parent.items[1] {
		t.Error("focus should return to the parent item")
	}
}
