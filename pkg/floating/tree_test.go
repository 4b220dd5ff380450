package floating

import (
	"testing"
)

func ids(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func openNode(id, parent string, open bool) *Node {
	n := &Node{ID: id, ParentID: parent}
	n.Context = &Context{open: open, Events: NewBus()}
	return n
}

func TestChildrenTransitiveClosure(t *testing.T) {
	nodes := []*Node{
		openNode("root", "", true),
		openNode("a", "root", true),
		openNode("b", "a", true),
		openNode("c", "b", true),
		openNode("sibling", "root", true),
		openNode("closed", "root", false),
		openNode("under-closed", "closed", true),
	}

	got := ids(Children(nodes, "root"))
	want := []string{"a", "sibling", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Children(root) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Children(root)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := ids(Children(nodes, "c")); len(got) != 0 {
		t.Errorf("Children(leaf) = %v, want none", got)
	}
}

func TestChildrenNeverIncludesSelf(t *testing.T) {
	// a -> b -> a forms a cycle through corrupt parent links.
	nodes := []*Node{
		openNode("a", "b", true),
		openNode("b", "a", true),
	}
	for _, id := range []string{"a", "b"} {
		for _, n := range Children(nodes, id) {
			if n.ID == id {
				t.Errorf("Children(%s) contains itself", id)
			}
		}
		for _, n := range Ancestors(nodes, id) {
			if n.ID == id {
				t.Errorf("Ancestors(%s) contains itself", id)
			}
		}
	}
}

func TestAncestorsChain(t *testing.T) {
	nodes := []*Node{
		openNode("root", "", false),
		openNode("a", "root", true),
		openNode("b", "a", false),
		openNode("c", "b", true),
	}

	got := ids(Ancestors(nodes, "c"))
	want := []string{"b", "a", "root"}
	if len(got) != len(want) {
		t.Fatalf("Ancestors(c) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Ancestors(c)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if len(Ancestors(nodes, "root")) != 0 {
		t.Error("root has no ancestors")
	}
	if len(Ancestors(nodes, "missing")) != 0 {
		t.Error("unknown id has no ancestors")
	}
	if !IsDescendant(nodes, "c", "root") || IsDescendant(nodes, "root", "c") {
		t.Error("IsDescendant direction is wrong")
	}
}

func TestContextRegistersAndUnregisters(t *testing.T) {
	tree := NewTree()
	parent := New(Options{Tree: tree})
	child := New(Options{Tree: tree, ParentID: parent.NodeID})

	if len(tree.Nodes()) != 2 {
		t.Fatalf("expected 2 nodes, got %d", len(tree.Nodes()))
	}
	if parent.NodeID == "" || parent.NodeID == child.NodeID {
		t.Error("node ids must be unique and non-empty")
	}
	if child.Parent() != parent {
		t.Error("child should resolve its parent context")
	}
	if child.Events != parent.Events {
		t.Error("contexts in one tree must share the bus")
	}

	parent.Update(true)
	child.Update(true)
	if got := parent.OpenChildren(); len(got) != 1 || got[0].Context != child {
		t.Errorf("OpenChildren = %v, want [child]", ids(got))
	}

	child.Close()
	if len(tree.Nodes()) != 1 {
		t.Errorf("expected 1 node after close, got %d", len(tree.Nodes()))
	}
	if child.Open() {
		t.Error("closed context reports open")
	}
}

func TestSetOpenIsIdempotentAndOrdered(t *testing.T) {
	var order []string
	c := New(Options{OnOpenChange: func(open bool, reason Reason) {
		order = append(order, "host")
	}})
	c.Watch(func(open bool) { order = append(order, "watch") })
	c.Events.Subscribe(EventOpenChange, func(ev Event) {
		order = append(order, "bus")
	})

	c.SetOpen(true, ReasonClick)
	c.SetOpen(true, ReasonClick)

	want := []string{"watch", "bus", "host"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
	if c.Data.OpenReason != ReasonClick {
		t.Errorf("OpenReason = %q, want click", c.Data.OpenReason)
	}

	order = nil
	c.Update(false)
	if len(order) != 2 {
		t.Errorf("Update should skip the host callback, got %v", order)
	}
}

func TestCloseRunsUnmountInReverse(t *testing.T) {
	c := New(Options{})
	var order []int
	c.OnUnmount(func() { order = append(order, 1) })
	c.OnUnmount(func() { order = append(order, 2) })
	c.Close()
	c.Close()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("unmount order = %v, want [2 1]", order)
	}
}
