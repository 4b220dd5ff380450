package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/monitor/modal"
	"github.com/marcus/floatui/pkg/monitor/mouse"
)

// overlay draws block onto a canvas of the given width with its top-left
// cell at (x, y). Rows outside the canvas are dropped.
func overlay(canvas []string, width int, block string, x, y int) {
	if x < 0 {
		x = 0
	}
	for i, line := range strings.Split(block, "\n") {
		row := y + i
		if row < 0 || row >= len(canvas) {
			continue
		}
		fgW := ansi.StringWidth(line)
		left := ansi.Cut(canvas[row], 0, x)
		right := ansi.Cut(canvas[row], x+fgW, width)
		canvas[row] = left + line + right
	}
}

func (s *Scene) buttonStyle(el *dom.Element) lipgloss.Style {
	for n := el; n != nil; n = n.Parent() {
		if v, _ := n.Attr("aria-hidden"); v == "true" {
			return modal.ButtonInert
		}
	}
	switch {
	case el == s.Doc.ActiveElement():
		return modal.ButtonFocused
	case el == s.hovered:
		return modal.ButtonHover
	}
	return modal.Button
}

// Render draws the toolbar and every open panel into a width x height
// canvas and registers hit regions on hits, which may be nil.
func (s *Scene) Render(width, height int, hits *mouse.HitMap) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	canvas := make([]string, height)
	blank := strings.Repeat(" ", width)
	for i := range canvas {
		canvas[i] = blank
	}
	add := func(id string, r dom.Rect, data any) {
		if hits != nil && !r.Empty() {
			hits.AddRect(id, int(r.X), int(r.Y), int(r.Width), int(r.Height), data)
		}
	}

	for _, w := range s.Widgets {
		ref := w.Reference
		if ref.Parent() != s.Pane {
			continue
		}
		r := ref.Rect()
		label := ref.Text
		if inner := int(r.Width) - 4; lipgloss.Width(label) < inner {
			label += strings.Repeat(" ", inner-lipgloss.Width(label))
		}
		overlay(canvas, width, s.buttonStyle(ref).Render(label), int(r.X), int(r.Y))
		add(string(w.Kind)+"-ref", r, ref)
	}

	for _, w := range s.OpenWidgets() {
		r := w.Floating.Rect()
		overlay(canvas, width, w.rendered.Content, int(r.X), int(r.Y))
		add(string(w.Kind)+"-panel", r, w.Floating)
		for _, hit := range w.rendered.Rows {
			add(hit.ID, w.Items[hit.Index].Rect(), w.Items[hit.Index])
		}
	}

	for i := range canvas {
		canvas[i] = ansi.Truncate(canvas[i], width, "")
	}
	return strings.Join(canvas, "\n")
}
