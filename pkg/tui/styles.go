package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/stefanpenner/switchback/pkg/graph"
)

// Palette
var (
	ColorPurple      = lipgloss.Color("#7D56F4")
	ColorGreen       = lipgloss.Color("#25A065")
	ColorBlue        = lipgloss.Color("#4285F4")
	ColorRed         = lipgloss.Color("#E05252")
	ColorYellow      = lipgloss.Color("#E5C07B")
	ColorGray        = lipgloss.Color("#626262")
	ColorGrayDim     = lipgloss.Color("#404040")
	ColorWhite       = lipgloss.Color("#FFFFFF")
	ColorOffWhite    = lipgloss.Color("#D0D0D0")
	ColorMagenta     = lipgloss.Color("#C678DD")
	ColorSelectionBg = lipgloss.Color("#2D3B4D")
	ColorCyan        = lipgloss.Color("#56B6C2")
	ColorOrange      = lipgloss.Color("#D19A66")
	ColorMoveBg      = lipgloss.Color("#3E2F1F")
)

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	HeaderCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorGray)
)

// Goal line styles
var (
	GoalLabelStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	GoalValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)
)

// Tree item styles
var (
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorSelectionBg)

	NextStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMagenta)

	MoveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorOrange).
			Background(ColorMoveBg)

	PathStyle = lipgloss.NewStyle().
			Foreground(ColorGrayDim)

	StatusMsgStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	DepthIndent = "  "
)

// Status styles
var (
	FinishedStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	StartedStyle  = lipgloss.NewStyle().Foreground(ColorYellow)
	WatchedStyle  = lipgloss.NewStyle().Foreground(ColorBlue)
	UnseenStyle   = lipgloss.NewStyle().Foreground(ColorOffWhite)
)

// Section styles
var (
	PathSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorCyan)

	OtherSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorGray)
)

// Modal styles
var (
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPurple).
			Padding(1, 2)

	ModalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	ConfirmYesStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	ConfirmNoStyle  = lipgloss.NewStyle().Foreground(ColorRed)
)

// Input styles
var (
	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorPurple).
				Bold(true)
)

// Search styles
var (
	ColorSearchRowBg  = lipgloss.Color("#1E1A2E")
	ColorSearchCharBg = lipgloss.Color("#2E2545")

	SearchBarStyle = lipgloss.NewStyle().
			Foreground(ColorWhite)

	SearchRowStyle = lipgloss.NewStyle().
			Background(ColorSearchRowBg)

	SearchCharStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple).
			Background(ColorSearchCharBg)

	SearchCharSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple).
				Background(ColorSelectionBg)

	SearchCountStyle = lipgloss.NewStyle().
				Foreground(ColorGray)
)

// Status icons
const (
	IconFinished  = "✓"
	IconStarted   = "◐"
	IconWatched   = "◉"
	IconUnseen    = "○"
	IconNext      = "→"
	IconExpanded  = "▼"
	IconCollapsed = "▶"
	IconMove      = "↕"
)

var statusLooks = map[graph.Status]struct {
	icon  string
	style lipgloss.Style
}{
	graph.StatusFinished: {IconFinished, FinishedStyle},
	graph.StatusStarted:  {IconStarted, StartedStyle},
	graph.StatusWatched:  {IconWatched, WatchedStyle},
	graph.StatusNext:     {IconNext, NextStyle},
}

// statusIcon renders the icon for a node status. Anything unknown is unseen.
func statusIcon(s graph.Status) string {
	look, ok := statusLooks[s]
	if !ok {
		return UnseenStyle.Render(IconUnseen)
	}
	return look.style.Render(look.icon)
}
