// Package mouse classifies terminal mouse input against a map of hit
// regions laid out in cell coordinates.
package mouse

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DoubleClickWindow is the longest gap between two clicks on the same
// region that still counts as a double click.
const DoubleClickWindow = 400 * time.Millisecond

// Rect is a cell rectangle; the right and bottom edges are exclusive.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a named hit area carrying caller data.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap resolves cells to regions. Regions added later sit on top.
type HitMap struct {
	regions []Region
}

// NewHitMap returns an empty map.
func NewHitMap() *HitMap {
	return &HitMap{}
}

// AddRect registers a region.
func (h *HitMap) AddRect(id string, x, y, w, h2 int, data any) {
	h.regions = append(h.regions, Region{ID: id, Rect: Rect{X: x, Y: y, W: w, H: h2}, Data: data})
}

// Test returns the topmost region at (x, y), or nil.
func (h *HitMap) Test(x, y int) *Region {
	for i := len(h.regions) - 1; i >= 0; i-- {
		if h.regions[i].Rect.Contains(x, y) {
			return &h.regions[i]
		}
	}
	return nil
}

// Clear removes every region; call it before each render.
func (h *HitMap) Clear() {
	h.regions = h.regions[:0]
}

// Regions returns the registered regions in priority order, lowest first.
func (h *HitMap) Regions() []Region {
	return h.regions
}

// ActionType classifies one mouse message.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionDoubleClick
	ActionRelease
	ActionHover
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
)

// Action is the classified result of a mouse message.
type Action struct {
	Type   ActionType
	Region *Region
	X, Y   int
	DragDX int
	DragDY int
}

// ClickResult reports the region under a click.
type ClickResult struct {
	Region        *Region
	IsDoubleClick bool
}

// Handler tracks click timing and drags across mouse messages.
type Handler struct {
	HitMap *HitMap

	lastClickID   string
	lastClickTime time.Time

	dragging   bool
	dragRegion string
	dragStartX int
	dragStartY int
	dragValue  int
}

// NewHandler returns a Handler with an empty hit map.
func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleClick resolves a click and detects double clicks on one region.
func (h *Handler) HandleClick(x, y int) ClickResult {
	region := h.HitMap.Test(x, y)
	result := ClickResult{Region: region}
	if region == nil {
		h.lastClickID = ""
		return result
	}
	now := time.Now()
	if region.ID == h.lastClickID && now.Sub(h.lastClickTime) <= DoubleClickWindow {
		result.IsDoubleClick = true
		h.lastClickID = ""
		return result
	}
	h.lastClickID = region.ID
	h.lastClickTime = now
	return result
}

// StartDrag begins a drag on region, remembering a caller value such as a
// scroll offset.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.dragging = true
	h.dragRegion = region
	h.dragStartX, h.dragStartY = x, y
	h.dragValue = startValue
}

// IsDragging reports whether a drag is in progress.
func (h *Handler) IsDragging() bool { return h.dragging }

// DragRegion returns the region the drag started on.
func (h *Handler) DragRegion() string { return h.dragRegion }

// DragStartValue returns the value passed to StartDrag.
func (h *Handler) DragStartValue() int { return h.dragValue }

// DragDelta returns the offset of (x, y) from the drag start.
func (h *Handler) DragDelta(x, y int) (int, int) {
	return x - h.dragStartX, y - h.dragStartY
}

// EndDrag finishes the drag.
func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
}

// HandleMouse classifies msg. Shift turns vertical wheel motion into
// horizontal scrolling.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	a := Action{X: msg.X, Y: msg.Y, Region: h.HitMap.Test(msg.X, msg.Y)}
	switch msg.Action {
	case tea.MouseActionMotion:
		if h.dragging {
			a.Type = ActionDrag
			a.DragDX, a.DragDY = h.DragDelta(msg.X, msg.Y)
			return a
		}
		a.Type = ActionHover
	case tea.MouseActionRelease:
		if h.dragging {
			a.Type = ActionDragEnd
			h.EndDrag()
			return a
		}
		a.Type = ActionRelease
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.Type = ActionScrollUp
			if msg.Shift {
				a.Type = ActionScrollLeft
			}
		case tea.MouseButtonWheelDown:
			a.Type = ActionScrollDown
			if msg.Shift {
				a.Type = ActionScrollRight
			}
		case tea.MouseButtonWheelLeft:
			a.Type = ActionScrollLeft
		case tea.MouseButtonWheelRight:
			a.Type = ActionScrollRight
		case tea.MouseButtonLeft:
			res := h.HandleClick(msg.X, msg.Y)
			a.Region = res.Region
			a.Type = ActionClick
			if res.IsDoubleClick {
				a.Type = ActionDoubleClick
			}
		}
	}
	return a
}

// Clear drops regions and any drag in progress.
func (h *Handler) Clear() {
	h.HitMap.Clear()
	h.EndDrag()
}
