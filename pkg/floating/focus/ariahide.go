package focus

import (
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
)

const (
	hiddenAttr = "aria-hidden"
	// MarkerAttr tags every element the ledger has hidden.
	MarkerAttr = "data-aria-hidden"
)

// AriaHideLedger applies aria-hidden to everything outside a kept set of
// elements. Overlapping Hide calls are reference counted so nested modal
// layers compose: an element is only revealed when its last hider releases
// it, and elements that were already hidden before the ledger touched them
// are never revealed. One ledger is shared by every modal layer of a
// document; it resets itself when the last lock is released.
type AriaHideLedger struct {
	counts       map[*dom.Element]int
	markers      map[*dom.Element]int
	uncontrolled map[*dom.Element]bool
	// prior holds the aria-hidden value an element had before its first
	// hider, restored when the last one releases it.
	prior map[*dom.Element]priorValue
	lock  *floating.RefCount
}

type priorValue struct {
	value string
	set   bool
}

// NewAriaHideLedger returns an empty ledger.
func NewAriaHideLedger() *AriaHideLedger {
	l := &AriaHideLedger{}
	l.reset()
	l.lock = floating.NewRefCount(l.reset)
	return l
}

func (l *AriaHideLedger) reset() {
	l.counts = make(map[*dom.Element]int)
	l.markers = make(map[*dom.Element]int)
	l.uncontrolled = make(map[*dom.Element]bool)
	l.prior = make(map[*dom.Element]priorValue)
}

// Locks returns the number of active Hide calls.
func (l *AriaHideLedger) Locks() int {
	return l.lock.Count()
}

// Count returns how many active Hide calls cover el.
func (l *AriaHideLedger) Count(el *dom.Element) int {
	return l.counts[el]
}

// Hide marks every subtree under root that contains none of keep as
// aria-hidden. The kept elements, their ancestors and live regions stay
// exposed. The returned func undoes this call; calling it again does nothing.
func (l *AriaHideLedger) Hide(keep []*dom.Element, root *dom.Element) func() {
	if root == nil {
		return func() {}
	}
	kept := make(map[*dom.Element]bool)
	stop := make(map[*dom.Element]bool)
	for _, el := range keep {
		if el == nil {
			continue
		}
		stop[el] = true
		for n := el; n != nil && !kept[n]; n = n.Parent() {
			kept[n] = true
		}
	}

	var hidden []*dom.Element
	var walk func(parent *dom.Element)
	walk = func(parent *dom.Element) {
		if parent == nil || stop[parent] {
			return
		}
		for _, node := range parent.Children() {
			if kept[node] {
				walk(node)
				continue
			}
			if node.HasAttr("aria-live") {
				continue
			}
			value, has := node.Attr(hiddenAttr)
			alreadyHidden := has && value != "false"
			l.counts[node]++
			l.markers[node]++
			hidden = append(hidden, node)
			if l.counts[node] == 1 {
				l.prior[node] = priorValue{value: value, set: has}
				if alreadyHidden {
					l.uncontrolled[node] = true
				}
			}
			if l.markers[node] == 1 {
				node.SetAttr(MarkerAttr, "true")
			}
			if !alreadyHidden {
				node.SetAttr(hiddenAttr, "true")
			}
		}
	}
	walk(root)
	l.lock.Acquire()

	done := false
	return func() {
		if done {
			return
		}
		done = true
		for _, node := range hidden {
			l.counts[node]--
			l.markers[node]--
			if l.counts[node] <= 0 {
				if !l.uncontrolled[node] {
					if p := l.prior[node]; p.set {
						node.SetAttr(hiddenAttr, p.value)
					} else {
						node.RemoveAttr(hiddenAttr)
					}
				}
				delete(l.uncontrolled, node)
				delete(l.prior, node)
				delete(l.counts, node)
			}
			if l.markers[node] <= 0 {
				node.RemoveAttr(MarkerAttr)
				delete(l.markers, node)
			}
		}
		l.lock.Release()
	}
}
