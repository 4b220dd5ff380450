package monitor

import (
	"unicode/utf8"

	"github.com/marcus/floatui/pkg/dom"
)

// KeyInput is one key press in document terms.
type KeyInput struct {
	Key   string
	Shift bool
	Alt   bool
	Ctrl  bool
}

// Terminal cells are addressed by their centers so edge tests on the
// document rectangles never tie.
func center(v int) float64 {
	return float64(v) + 0.5
}

// Key dispatches keydown and keyup on the focused element. Unprevented
// printable keys edit a focused text field.
func (s *Scene) Key(k KeyInput) {
	down := &dom.Event{Type: dom.KeyDown, Target: s.Doc.ActiveElement(), Key: k.Key, Shift: k.Shift, Alt: k.Alt, Ctrl: k.Ctrl}
	s.Doc.Dispatch(down)
	if !down.DefaultPrevented() {
		s.typeInto(down)
	}
	s.Doc.Dispatch(&dom.Event{Type: dom.KeyUp, Target: s.Doc.ActiveElement(), Key: k.Key, Shift: k.Shift, Alt: k.Alt, Ctrl: k.Ctrl})
	s.Layout()
}

func (s *Scene) typeInto(ev *dom.Event) {
	el := ev.Target
	if el == nil || !el.Typeable() || ev.Ctrl || ev.Alt || ev.Meta {
		return
	}
	switch {
	case ev.Key == "Backspace":
		if _, size := utf8.DecodeLastRuneInString(el.Text); size > 0 {
			el.Text = el.Text[:len(el.Text)-size]
		}
	case utf8.RuneCountInString(ev.Key) == 1:
		el.Text += ev.Key
	}
}

// PointerMove moves the pointer to cell (x, y), hit testing the document.
func (s *Scene) PointerMove(x, y int) {
	s.PointerMoveOver(s.Doc.ElementAt(center(x), center(y)), x, y)
}

// PointerMoveOver moves the pointer to cell (x, y) over target.
func (s *Scene) PointerMoveOver(target *dom.Element, x, y int) {
	s.hovered = target
	s.Doc.MovePointerOver(target, center(x), center(y), dom.Mouse)
	s.Layout()
}

// PointerDown presses the primary button over target.
func (s *Scene) PointerDown(target *dom.Element, x, y int) {
	s.pressed = target
	s.Doc.PointerDownOn(target, center(x), center(y), dom.Mouse)
	s.Layout()
}

// PointerUp releases the button; releasing over the pressed element clicks it.
func (s *Scene) PointerUp(target *dom.Element, x, y int) {
	pressed := s.pressed
	s.pressed = nil
	s.Doc.Dispatch(&dom.Event{Type: dom.PointerUp, Target: target, X: center(x), Y: center(y), PointerType: dom.Mouse})
	if target != nil && target == pressed {
		s.Doc.Dispatch(&dom.Event{Type: dom.Click, Target: target, X: center(x), Y: center(y), PointerType: dom.Mouse})
	}
	s.Layout()
}

// Click presses and releases at cell (x, y).
func (s *Scene) Click(x, y int) {
	target := s.Doc.ElementAt(center(x), center(y))
	s.PointerDown(target, x, y)
	s.PointerUp(target, x, y)
}

// Scroll scrolls the nearest scroll container of target, or the document.
func (s *Scene) Scroll(target *dom.Element) {
	for n := target; n != nil; n = n.Parent() {
		if n.Scrollable() {
			s.Doc.ScrollElement(n)
			s.Layout()
			return
		}
	}
	s.Doc.ScrollElement(nil)
	s.Layout()
}
