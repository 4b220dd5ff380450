package output

import (
	"fmt"
	"strings"

	"github.com/marcus/floatui/pkg/floating"
)

// TreeNode represents a floating node for rendering
type TreeNode struct {
	ID       string
	Label    string
	Open     bool
	Reason   floating.Reason
	Children []TreeNode
}

// TreeRenderOptions configures tree rendering behavior
type TreeRenderOptions struct {
	MaxDepth   int  // 0 = unlimited
	ShowState  bool // Whether to show the open/closed indicator
	ShowReason bool // Whether to show the last open reason
	ShortIDs   bool // Trim node ids to 8 characters
}

// stateMark returns an open/closed indicator symbol
func stateMark(open bool) string {
	if open {
		return " \u25cf" // ●
	}
	return " \u25cb" // ○
}

// FormatState renders the open state as a bracketed word.
func FormatState(open bool) string {
	if open {
		return "[open]"
	}
	return "[closed]"
}

// FromTree builds render nodes from a floating tree. Nodes whose parent is
// not registered are treated as roots. label names each node; nil uses the id.
func FromTree(tree *floating.Tree, label func(*floating.Node) string) []TreeNode {
	if tree == nil {
		return nil
	}
	nodes := tree.Nodes()
	known := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		known[n.ID] = true
	}
	var build func(parentID string) []TreeNode
	build = func(parentID string) []TreeNode {
		var out []TreeNode
		for _, n := range nodes {
			if parentID == "" {
				if n.ParentID != "" && known[n.ParentID] {
					continue
				}
			} else if n.ParentID != parentID {
				continue
			}
			tn := TreeNode{ID: n.ID, Label: n.ID}
			if label != nil {
				tn.Label = label(n)
			}
			if n.Context != nil {
				tn.Open = n.Context.Open()
				tn.Reason = n.Context.Data.OpenReason
			}
			tn.Children = build(n.ID)
			out = append(out, tn)
		}
		return out
	}
	return build("")
}

// RenderTree renders a tree starting from a single root node
// Returns the complete tree as a string (without the root - just children)
func RenderTree(root TreeNode, opts TreeRenderOptions) string {
	lines := renderTreeNodes(root.Children, opts, 0, "")
	return strings.Join(lines, "\n")
}

// RenderTreeLines renders multiple root nodes and returns individual lines
// Useful for embedding trees in other output
func RenderTreeLines(roots []TreeNode, opts TreeRenderOptions) []string {
	return renderTreeNodes(roots, opts, 0, "")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// renderTreeNodes recursively renders tree nodes
func renderTreeNodes(nodes []TreeNode, opts TreeRenderOptions, depth int, prefix string) []string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	var lines []string

	for i, node := range nodes {
		isLast := i == len(nodes)-1

		connector := "\u251c\u2500\u2500 " // ├──
		if isLast {
			connector = "\u2514\u2500\u2500 " // └──
		}

		id := node.ID
		if opts.ShortIDs {
			id = shortID(id)
		}
		parts := []string{id + ":", node.Label}
		if opts.ShowState {
			parts = append(parts, FormatState(node.Open)+stateMark(node.Open))
		}
		if opts.ShowReason && node.Open && node.Reason != "" {
			parts = append(parts, fmt.Sprintf("(%s)", node.Reason))
		}

		lines = append(lines, prefix+connector+strings.Join(parts, " "))

		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "\u2502   " // │
		}

		lines = append(lines, renderTreeNodes(node.Children, opts, depth+1, childPrefix)...)
	}

	return lines
}

// RenderOpenChain renders the open path through the tree as a single
// breadcrumb line, outermost first.
func RenderOpenChain(roots []TreeNode) string {
	var parts []string
	nodes := roots
	for {
		var next *TreeNode
		for i := range nodes {
			if nodes[i].Open {
				next = &nodes[i]
				break
			}
		}
		if next == nil {
			break
		}
		parts = append(parts, next.Label)
		nodes = next.Children
	}
	if len(parts) == 0 {
		return "(nothing open)"
	}
	return strings.Join(parts, " \u203a ") // ›
}
