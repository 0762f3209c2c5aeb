package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/speakeasy-api/fieldmap/internal/impact"
)

const (
	colorGreen       = "#10B981"
	colorBlue        = "#3B82F6"
	colorYellow      = "#F59E0B"
	colorRed         = "#EF4444"
	colorPurple      = "#8B5CF6"
	colorGray        = "#6B7280"
	colorThemePurple = "#7C3AED"
	colorBackground  = "#374151"
	colorDetailGray  = "#9CA3AF"
	colorFooterText  = "#E5E7EB"
	colorWhite       = "#FFFFFF"
	colorCyan        = "#06B6D4"
	colorOrange      = "#F97316"
)

var semanticColors = map[impact.Color]lipgloss.Color{
	impact.ColorGreen:  lipgloss.Color(colorGreen),
	impact.ColorBlue:   lipgloss.Color(colorBlue),
	impact.ColorYellow: lipgloss.Color(colorYellow),
	impact.ColorPurple: lipgloss.Color(colorPurple),
	impact.ColorRed:    lipgloss.Color(colorRed),
	impact.ColorGray:   lipgloss.Color(colorGray),
}

// colorStyle returns a foreground style for a semantic color, or base when c is empty.
func colorStyle(base lipgloss.Style, c impact.Color) lipgloss.Style {
	if col, ok := semanticColors[c]; ok {
		return base.Foreground(col)
	}
	return base
}

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorThemePurple))

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDetailGray))

	ActiveTab = lipgloss.NewStyle().
			Padding(0, 1).
			Background(lipgloss.Color(colorThemePurple)).
			Foreground(lipgloss.Color(colorWhite)).
			Bold(true)

	InactiveTab = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color(colorGray))

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorGray)).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(lipgloss.Color(colorThemePurple))

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorThemePurple)).
			Bold(true)

	SelectedRow = lipgloss.NewStyle().
			Background(lipgloss.Color(colorBackground)).
			Bold(true)

	CommittedRow = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorCyan))

	NormalRow = lipgloss.NewStyle()

	SearchStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorCyan))

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Italic(true)

	// Center panel lines
	HeadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorThemePurple)).
			Bold(true)

	StatLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDetailGray))

	StatValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWhite)).
			Bold(true)

	DetailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorDetailGray))

	StatWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorOrange)).
			Bold(true)

	// Footer
	FooterStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(colorGray)).
			Foreground(lipgloss.Color(colorFooterText)).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreen))

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorRed)).
				Bold(true)

	HelpModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorThemePurple)).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorThemePurple))

	PopupStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(colorCyan)).
			Padding(0, 1)

	ScrollIndicatorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray))
)
