// Package dom is the element tree the floating interaction engine runs on.
//
// It models the small slice of a browser document the engine needs: elements
// with attributes and bounding rectangles, a single focused element, and
// event dispatch with bubbling from the target to the document. Hosts (the
// terminal monitor, tests) build the tree, keep rectangles current and feed
// input through the helpers in input.go.
//
// Every handle is an optional *Element. Methods on a nil element are no-ops
// that return zero values, so callers never need to guard against an element
// that has been unmounted.
package dom
