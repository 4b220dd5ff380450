package modal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Variant selects the frame and row decorations of a panel.
type Variant int

const (
	VariantMenu Variant = iota
	VariantListbox
	VariantDialog
	VariantTooltip
)

// Row is one selectable line of a panel.
type Row struct {
	ID       string // Unique identifier for this row
	Label    string // Display text
	Active   bool   // Highlighted by list navigation or focus
	Selected bool   // Committed selection (listbox)
	Disabled bool
	Submenu  bool // Opens a nested panel
	Data     any  // Optional associated data
}

// RowHit locates a rendered row inside the panel.
type RowHit struct {
	Index   int
	ID      string
	OffsetX int
	OffsetY int
	Width   int
	Data    any
}

// Rendered is a measured panel.
type Rendered struct {
	Content string
	Width   int
	Height  int
	Rows    []RowHit
}

// Panel describes a floating panel. MaxVisible limits the rows shown at
// once; the window scrolls to keep the active row visible.
type Panel struct {
	Title      string
	Body       []string
	Rows       []Row
	Variant    Variant
	MinWidth   int
	MaxVisible int

	scrollOffset int
}

// ScrollOffset returns the index of the first visible row.
func (p *Panel) ScrollOffset() int {
	return p.scrollOffset
}

// frame returns the frame style, its horizontal padding and border width.
func (p *Panel) frame() (lipgloss.Style, int, int) {
	switch p.Variant {
	case VariantDialog:
		return dialogFrame, 1, 1
	case VariantTooltip:
		return tooltipFrame, 1, 0
	}
	return menuFrame, 0, 1
}

func (p *Panel) prefix(r Row) string {
	cursor, check := " ", " "
	if r.Active && p.Variant != VariantTooltip {
		cursor = RowCursor.Render("\u203a") // ›
	}
	if r.Selected && p.Variant == VariantListbox {
		check = "\u2713" // ✓
	}
	return cursor + check
}

func (p *Panel) rowStyle(r Row) lipgloss.Style {
	switch {
	case r.Disabled:
		return RowDisabled
	case r.Active:
		return RowActive
	}
	return RowNormal
}

// window clamps the scroll offset so active stays visible and returns the
// number of visible rows.
func (p *Panel) window() int {
	n := len(p.Rows)
	visible := n
	if p.MaxVisible > 0 {
		visible = min(p.MaxVisible, n)
	}
	active := -1
	for i, r := range p.Rows {
		if r.Active {
			active = i
			break
		}
	}
	if active >= 0 {
		if active < p.scrollOffset {
			p.scrollOffset = active
		} else if active >= p.scrollOffset+visible {
			p.scrollOffset = active - visible + 1
		}
	}
	p.scrollOffset = clamp(p.scrollOffset, 0, max(0, n-visible))
	return visible
}

// Render draws the panel and measures it.
func (p *Panel) Render() Rendered {
	frame, padX, border := p.frame()

	inner := p.MinWidth
	if w := lipgloss.Width(p.Title); w > inner {
		inner = w
	}
	for _, line := range p.Body {
		inner = max(inner, lipgloss.Width(line))
	}
	for _, r := range p.Rows {
		w := 2 + lipgloss.Width(r.Label)
		if r.Submenu {
			w += 2
		}
		inner = max(inner, w)
	}

	var lines []string
	if p.Title != "" {
		lines = append(lines, padRight(PanelTitle.Render(p.Title), inner))
	}
	for _, line := range p.Body {
		lines = append(lines, padRight(Body.Render(line), inner))
	}

	visible := p.window()
	if p.scrollOffset > 0 {
		lines = append(lines, padRight(MutedText.Render("↑ more above"), inner))
	}
	var hits []RowHit
	for i := 0; i < visible; i++ {
		idx := p.scrollOffset + i
		r := p.Rows[idx]
		label := r.Label
		if r.Submenu {
			label = padRight(label, inner-4) + " \u25b8" // ▸
		}
		line := p.prefix(r) + p.rowStyle(r).Render(padRight(label, inner-2))
		hits = append(hits, RowHit{
			Index:   idx,
			ID:      r.ID,
			OffsetX: border + padX,
			OffsetY: border + len(lines),
			Width:   inner,
			Data:    r.Data,
		})
		lines = append(lines, line)
	}
	if p.scrollOffset+visible < len(p.Rows) {
		lines = append(lines, padRight(MutedText.Render("↓ more below"), inner))
	}
	if len(lines) == 0 {
		lines = append(lines, padRight(MutedText.Render("(empty)"), inner))
	}

	content := frame.Render(strings.Join(lines, "\n"))
	return Rendered{
		Content: content,
		Width:   lipgloss.Width(content),
		Height:  lipgloss.Height(content),
		Rows:    hits,
	}
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
