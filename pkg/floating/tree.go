package floating

import "github.com/google/uuid"

// Node is one floating-element instance registered in a Tree.
type Node struct {
	ID       string
	ParentID string
	// Context is attached once the owning instance has initialised.
	Context *Context
}

func (n *Node) open() bool {
	return n != nil && n.Context != nil && n.Context.Open()
}

// Tree tracks parent/child relationships between floating-element instances
// and owns the event bus they share. One Tree lives as long as the outermost
// provider that created it.
type Tree struct {
	nodes  []*Node
	Events *Bus
}

// NewTree returns an empty tree with its own bus.
func NewTree() *Tree {
	return &Tree{Events: NewBus()}
}

// NewNodeID returns a fresh opaque node id.
func (t *Tree) NewNodeID() string {
	return uuid.NewString()
}

// AddNode appends node to the registry.
func (t *Tree) AddNode(node *Node) {
	if t == nil || node == nil {
		return
	}
	t.nodes = append(t.nodes, node)
}

// RemoveNode drops node from the registry.
func (t *Tree) RemoveNode(node *Node) {
	if t == nil || node == nil {
		return
	}
	for i, n := range t.nodes {
		if n == node {
			t.nodes = append(t.nodes[:i:i], t.nodes[i+1:]...)
			return
		}
	}
}

// Nodes returns the registered nodes in insertion order.
func (t *Tree) Nodes() []*Node {
	if t == nil {
		return nil
	}
	out := make([]*Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Node returns the node registered under id.
func (t *Tree) Node(id string) *Node {
	if t == nil {
		return nil
	}
	for _, n := range t.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// OpenChildren returns the currently open descendants of id.
func (t *Tree) OpenChildren(id string) []*Node {
	if t == nil || id == "" {
		return nil
	}
	return Children(t.nodes, id)
}

// Children returns the transitive set of currently open descendants of id,
// breadth first. A closed node hides its whole subtree. The node itself is
// never part of the result, even if parent links form a cycle.
func Children(nodes []*Node, id string) []*Node {
	seen := map[string]bool{id: true}
	var all []*Node
	frontier := []string{id}
	for len(frontier) > 0 {
		var next []string
		for _, n := range nodes {
			if seen[n.ID] || !n.open() {
				continue
			}
			for _, parent := range frontier {
				if n.ParentID == parent {
					seen[n.ID] = true
					all = append(all, n)
					next = append(next, n.ID)
					break
				}
			}
		}
		frontier = next
	}
	return all
}

// Ancestors returns the parent chain of id, nearest first, stopping at the
// root or at the first repeated node.
func Ancestors(nodes []*Node, id string) []*Node {
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	start, ok := byID[id]
	if !ok {
		return nil
	}
	seen := map[string]bool{id: true}
	var out []*Node
	for parentID := start.ParentID; parentID != ""; {
		if seen[parentID] {
			break
		}
		seen[parentID] = true
		parent, ok := byID[parentID]
		if !ok {
			break
		}
		out = append(out, parent)
		parentID = parent.ParentID
	}
	return out
}

// IsDescendant reports whether id sits somewhere below ancestorID.
func IsDescendant(nodes []*Node, id, ancestorID string) bool {
	for _, a := range Ancestors(nodes, id) {
		if a.ID == ancestorID {
			return true
		}
	}
	return false
}
