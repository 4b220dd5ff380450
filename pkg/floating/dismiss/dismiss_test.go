package dismiss

import (
	"testing"

	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
)

type layer struct {
	ctx     *floating.Context
	dismiss *Dismiss
	ref     *dom.Element
	float   *dom.Element
}

func newLayer(doc *dom.Document, tree *floating.Tree, parent *layer, opts Options, refRect, floatRect dom.Rect) *layer {
	l := &layer{}
	host := doc.Body
	parentID := ""
	if parent != nil {
		host = parent.float
		parentID = parent.ctx.NodeID
	}
	l.ref = host.AppendChild(doc.CreateElement("button"))
	l.ref.SetRect(refRect)
	l.float = doc.Body.AppendChild(doc.CreateElement("div"))
	l.float.SetRect(floatRect)
	l.ctx = floating.New(floating.Options{Doc: doc, Tree: tree, ParentID: parentID})
	l.ctx.Refs = floating.Refs{Reference: l.ref, Floating: l.float}
	l.dismiss = New(l.ctx, opts)
	l.dismiss.Props().Reference.Bind(l.ref)
	return l
}

func rect(x, y, w, h float64) dom.Rect {
	return dom.Rect{X: x, Y: y, Width: w, Height: h}
}

// chain builds three nested open layers: a menu, its submenu and a
// sub-submenu.
func chain(opts Options) (*dom.Document, []*layer) {
	doc := dom.NewDocument()
	doc.Body.SetRect(rect(0, 0, 200, 100))
	tree := floating.NewTree()
	root := newLayer(doc, tree, nil, opts, rect(0, 0, 10, 1), rect(0, 1, 20, 10))
	mid := newLayer(doc, tree, root, opts, rect(0, 2, 20, 1), rect(20, 2, 20, 10))
	leaf := newLayer(doc, tree, mid, opts, rect(20, 3, 20, 1), rect(40, 3, 20, 10))
	for _, l := range []*layer{root, mid, leaf} {
		l.ctx.SetOpen(true, floating.ReasonClick)
	}
	return doc, []*layer{root, mid, leaf}
}

func openStates(layers []*layer) []bool {
	out := make([]bool, len(layers))
	for i, l := range layers {
		out[i] = l.ctx.Open()
	}
	return out
}

func TestNestedDismissClosesOnlyTheLeaf(t *testing.T) {
	opts := DefaultOptions()
	opts.AncestorScroll = true

	tests := []struct {
		name   string
		action func(doc *dom.Document, layers []*layer)
	}{
		{"escape", func(doc *dom.Document, _ []*layer) { doc.PressKey("Escape") }},
		{"outside press", func(doc *dom.Document, _ []*layer) { doc.PointerDownAt(150, 90, dom.Mouse) }},
		{"document scroll", func(doc *dom.Document, _ []*layer) { doc.ScrollElement(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, layers := chain(opts)
			want := [][]bool{
				{true, true, false},
				{true, false, false},
				{false, false, false},
			}
			for step, w := range want {
				tt.action(doc, layers)
				got := openStates(layers)
				for i := range w {
					if got[i] != w[i] {
						t.Errorf("step %d: open = %v, want %v", step, got, w)
						break
					}
				}
			}
		})
	}
}

func TestNestedDismissRegardlessOfListenerOrder(t *testing.T) {
	doc := dom.NewDocument()
	tree := floating.NewTree()
	root := newLayer(doc, tree, nil, DefaultOptions(), rect(0, 0, 10, 1), rect(0, 1, 20, 10))
	child := newLayer(doc, tree, root, DefaultOptions(), rect(0, 2, 20, 1), rect(20, 2, 20, 10))

	// The child attaches its document listeners before its parent does.
	child.ctx.SetOpen(true, floating.ReasonClick)
	root.ctx.SetOpen(true, floating.ReasonClick)

	doc.PressKey("Escape")
	if !root.ctx.Open() {
		t.Error("parent closed by the escape its child consumed")
	}
	if child.ctx.Open() {
		t.Error("child should have closed")
	}
}

func TestBubblingClosesEveryLevel(t *testing.T) {
	opts := DefaultOptions()
	opts.Bubbles = true
	doc, layers := chain(opts)
	doc.PressKey("Escape")
	for i, open := range openStates(layers) {
		if open {
			t.Errorf("layer %d still open with bubbling enabled", i)
		}
	}
}

func TestPressInsideRegionKeepsOpen(t *testing.T) {
	doc, layers := chain(DefaultOptions())
	// Inside the leaf's floating element: nothing closes.
	doc.PointerDownAt(45, 5, dom.Mouse)
	for i, open := range openStates(layers) {
		if !open {
			t.Errorf("layer %d closed by a press inside the leaf", i)
		}
	}

	// Close the leaf, then press inside its former floating area: the mid
	// layer no longer counts it as part of its region.
	layers[2].ctx.SetOpen(false, floating.ReasonHost)
	doc.PointerDownOn(layers[2].float, 45, 5, dom.Mouse)
	if layers[1].ctx.Open() {
		t.Error("mid layer should close on a press outside its region")
	}
	if !layers[0].ctx.Open() {
		t.Error("root should stay open")
	}
}

func TestDismissEventCarriesPreventScroll(t *testing.T) {
	doc, layers := chain(DefaultOptions())
	var events []floating.DismissEvent
	layers[0].ctx.Events.Subscribe(floating.EventDismiss, func(e floating.Event) {
		events = append(events, e.(floating.DismissEvent))
	})

	doc.PressKey("Escape")
	doc.PressKey("Escape")
	doc.PressKey("Escape")

	if len(events) != 3 {
		t.Fatalf("got %d dismiss events, want 3", len(events))
	}
	if !events[0].PreventScroll || !events[1].PreventScroll {
		t.Error("nested dismissals should prevent scroll")
	}
	if events[2].PreventScroll {
		t.Error("root escape should not prevent scroll")
	}
	if events[2].Reason != floating.ReasonEscapeKey {
		t.Errorf("reason = %q, want escape-key", events[2].Reason)
	}
}

func TestListenersOnlyWhileOpen(t *testing.T) {
	doc := dom.NewDocument()
	l := newLayer(doc, nil, nil, DefaultOptions(), rect(0, 0, 10, 1), rect(0, 1, 10, 5))
	if l.dismiss.Attached() {
		t.Fatal("listeners attached while closed")
	}
	l.ctx.SetOpen(true, floating.ReasonClick)
	if !l.dismiss.Attached() {
		t.Fatal("listeners missing while open")
	}
	l.dismiss.Dismiss(floating.ReasonEscapeKey, nil)
	l.dismiss.Dismiss(floating.ReasonEscapeKey, nil)
	if l.dismiss.Attached() || l.ctx.Open() {
		t.Error("close should detach listeners")
	}

	l.ctx.SetOpen(true, floating.ReasonClick)
	l.ctx.Close()
	if l.dismiss.Attached() {
		t.Error("unmount should detach listeners")
	}
}

func TestReferencePressAndAncestorScroll(t *testing.T) {
	doc := dom.NewDocument()
	scroller := doc.Body.AppendChild(doc.CreateElement("div"))
	scroller.SetAttr("overflow", "auto")

	opts := DefaultOptions()
	opts.ReferencePress = true
	opts.AncestorScroll = true

	ctx := floating.New(floating.Options{Doc: doc})
	ref := scroller.AppendChild(doc.CreateElement("button"))
	ref.SetRect(rect(0, 0, 5, 1))
	ctx.Refs = floating.Refs{Reference: ref, Floating: doc.Body.AppendChild(doc.CreateElement("div"))}
	d := New(ctx, opts)
	d.Props().Reference.Bind(ref)

	ctx.SetOpen(true, floating.ReasonClick)
	doc.ScrollElement(scroller)
	if ctx.Open() {
		t.Error("scrolling an ancestor should close")
	}

	ctx.SetOpen(true, floating.ReasonClick)
	doc.PointerDownOn(ref, 1, 0, dom.Mouse)
	if ctx.Open() {
		t.Error("reference press should close")
	}
}
