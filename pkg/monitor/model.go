// Package monitor is an interactive terminal playground for the floating
// interactions: a toolbar of references whose tooltip, menu, submenu,
// dialog and select are driven by the same engine a browser host would use.
package monitor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/marcus/floatui/internal/config"
	"github.com/marcus/floatui/internal/output"
	"github.com/marcus/floatui/pkg/dom"
	"github.com/marcus/floatui/pkg/floating"
	"github.com/marcus/floatui/pkg/monitor/modal"
	"github.com/marcus/floatui/pkg/monitor/mouse"
)

const (
	taskBuffer       = 64
	defaultTreeWidth = 36
	minTreeWidth     = 20
	dividerRegion    = "divider"
	chromeHeight     = 2 // status and help lines
)

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	treeStyle   = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(modal.BorderNormal).
			PaddingLeft(1)
)

// taskMsg carries a scheduler callback onto the update loop.
type taskMsg func()

// Model is the bubbletea model of the monitor.
type Model struct {
	scene *Scene
	sched *floating.LoopScheduler
	mouse *mouse.Handler
	keys  keyMap

	width     int
	height    int
	showTree  bool
	showHelp  bool
	treeWidth int
}

// New builds a monitor over a fresh scene.
func New(cfg *config.Config, logger *slog.Logger) Model {
	sched := floating.NewLoopScheduler(taskBuffer)
	return Model{
		scene:     NewScene(cfg, sched, logger, 80, 24-chromeHeight),
		sched:     sched,
		mouse:     mouse.NewHandler(),
		keys:      newKeyMap(),
		width:     80,
		height:    24,
		showTree:  true,
		treeWidth: defaultTreeWidth,
	}
}

// Scene returns the document the model drives.
func (m Model) Scene() *Scene {
	return m.scene
}

func (m Model) waitForTask() tea.Cmd {
	tasks := m.sched.Tasks()
	return func() tea.Msg {
		return taskMsg(<-tasks)
	}
}

// Init starts draining scheduled callbacks.
func (m Model) Init() tea.Cmd {
	return m.waitForTask()
}

func (m Model) sceneWidth() int {
	if !m.showTree {
		return m.width
	}
	return max(0, m.width-m.treeWidth)
}

func (m Model) sceneHeight() int {
	return max(0, m.height-chromeHeight)
}

func (m *Model) resize() {
	m.scene.Resize(m.sceneWidth(), m.sceneHeight())
}

func (m *Model) clampTree(w int) int {
	return max(minTreeWidth, min(w, m.width/2))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskMsg:
		msg()
		m.scene.Layout()
		return m, m.waitForTask()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.treeWidth = m.clampTree(m.treeWidth)
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tree):
			m.showTree = !m.showTree
			m.resize()
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
		if k, ok := domKey(msg); ok {
			m.scene.Key(k)
		}
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

// target resolves the element under an action: the region's element when
// one was registered, otherwise a document hit test.
func (m Model) target(a mouse.Action) *dom.Element {
	if a.Region != nil {
		if el, ok := a.Region.Data.(*dom.Element); ok {
			return el
		}
	}
	if a.X >= m.sceneWidth() {
		return nil
	}
	return m.scene.Doc.ElementAt(center(a.X), center(a.Y))
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	a := m.mouse.HandleMouse(msg)
	switch a.Type {
	case mouse.ActionHover:
		m.scene.PointerMoveOver(m.target(a), a.X, a.Y)
	case mouse.ActionClick, mouse.ActionDoubleClick:
		if a.Region != nil && a.Region.ID == dividerRegion {
			m.mouse.StartDrag(a.X, a.Y, dividerRegion, m.treeWidth)
			return
		}
		m.scene.PointerDown(m.target(a), a.X, a.Y)
	case mouse.ActionRelease:
		m.scene.PointerUp(m.target(a), a.X, a.Y)
	case mouse.ActionDrag:
		if m.mouse.DragRegion() == dividerRegion {
			m.treeWidth = m.clampTree(m.mouse.DragStartValue() - a.DragDX)
			m.resize()
		}
	case mouse.ActionScrollUp, mouse.ActionScrollDown, mouse.ActionScrollLeft, mouse.ActionScrollRight:
		m.scene.Scroll(m.target(a))
	}
}

func (m Model) renderTree(height int) string {
	roots := output.FromTree(m.scene.Tree, m.scene.NodeLabel)
	lines := []string{modal.PanelTitle.Render("Floating tree"), ""}
	lines = append(lines, output.RenderTreeLines(roots, output.TreeRenderOptions{
		ShowState:  true,
		ShowReason: true,
		ShortIDs:   true,
	})...)
	lines = append(lines, "", modal.PanelTitle.Render("History"))
	history := m.scene.History()
	room := height - len(lines)
	if room > 0 && len(history) > room {
		history = history[len(history)-room:]
	}
	for _, h := range history {
		lines = append(lines, modal.MutedText.Render(h))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	inner := m.treeWidth - 2
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, inner, "…")
	}
	return treeStyle.Width(m.treeWidth - 1).Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) helpLine() string {
	if !m.showHelp {
		return renderHelp(m.keys.ShortHelp())
	}
	var groups []string
	for _, group := range m.keys.FullHelp() {
		groups = append(groups, renderHelp(group))
	}
	return strings.Join(groups, "  •  ")
}

// View renders the scene, the tree panel, a status line and key help.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	m.mouse.HitMap.Clear()
	sw, sh := m.sceneWidth(), m.sceneHeight()
	body := m.scene.Render(sw, sh, m.mouse.HitMap)
	if m.showTree && sh > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.renderTree(sh))
		m.mouse.HitMap.AddRect(dividerRegion, sw, 0, 1, sh, nil)
	}

	chain := output.RenderOpenChain(output.FromTree(m.scene.Tree, m.scene.NodeLabel))
	status := fmt.Sprintf(" %s", chain)
	if s := m.scene.Status(); s != "" {
		status += "  │  " + s
	}
	status = statusStyle.Width(m.width).Render(ansi.Truncate(status, m.width, "…"))
	help := ansi.Truncate(m.helpLine(), m.width, "…")

	return strings.Join([]string{body, status, help}, "\n")
}

// Run starts the monitor in the alternate screen with mouse tracking.
func Run(cfg *config.Config, logger *slog.Logger) error {
	m := New(cfg, logger)
	defer m.scene.Close()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
