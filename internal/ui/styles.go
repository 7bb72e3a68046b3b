package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed     = lipgloss.Color("#FF0000")
	ColorGreen   = lipgloss.Color("#00FF00")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
	ColorWhite   = lipgloss.Color("#FFFFFF")
	ColorMagenta = lipgloss.Color("#FF00FF")
	ColorBlack   = lipgloss.Color("#000000")
	ColorSegment = lipgloss.Color("#2F4F6F")
	ColorChosen  = lipgloss.Color("#3FA7D6")
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorCyan)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PlayingDotStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorCyan).
			Bold(true)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	ModeBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorBlack).
			Background(ColorYellow).
			Bold(true)

	SnapOnStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta)
)

// Timeline cell styles.
var (
	RulerStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	WaveStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	SegmentStyle = lipgloss.NewStyle().
			Foreground(ColorWhite).
			Background(ColorSegment)

	SegmentSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorBlack).
				Background(ColorChosen).
				Bold(true)

	PlayheadStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	SnapGuideStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	CutGuideStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)
)
