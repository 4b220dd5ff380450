package modal

import "github.com/charmbracelet/lipgloss"

// Colors shared with the monitor.
var (
	Primary      = lipgloss.Color("212")
	Error        = lipgloss.Color("196")
	Warning      = lipgloss.Color("214")
	Info         = lipgloss.Color("45")
	Muted        = lipgloss.Color("241")
	BgSecondary  = lipgloss.Color("235")
	TextMuted    = lipgloss.Color("241")
	BorderNormal = lipgloss.Color("240")
)

// Reference button styles.
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 2)

	ButtonHover = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("245")).
			Padding(0, 2)

	// ButtonInert is used for elements hidden from assistive technology
	// while a modal dialog is open.
	ButtonInert = lipgloss.NewStyle().
			Foreground(lipgloss.Color("239")).
			Background(lipgloss.Color("236")).
			Padding(0, 2)
)

// Text styles
var (
	PanelTitle = lipgloss.NewStyle().Bold(true)
	MutedText  = lipgloss.NewStyle().Foreground(Muted)
	Body       = lipgloss.NewStyle()
)

// Row styles
var (
	RowNormal = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	RowActive = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("255")).
			Bold(true)

	RowDisabled = lipgloss.NewStyle().
			Foreground(lipgloss.Color("239")).
			Strikethrough(true)

	RowCursor = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)
)

// Panel frames
var (
	menuFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderNormal)

	dialogFrame = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	tooltipFrame = lipgloss.NewStyle().
			Foreground(lipgloss.Color("235")).
			Background(lipgloss.Color("252")).
			Padding(0, 1)
)
