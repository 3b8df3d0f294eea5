package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Sheet colors. The header and parent backgrounds match the spreadsheet
// style plan so the terminal table looks like the rendered sheet.
const (
	HeaderBackground = "#cccccc"
	ParentBackground = "#efefef"
)

var (
	ColorHeaderBg = lipgloss.Color(HeaderBackground)
	ColorParentBg = lipgloss.Color(ParentBackground)
	ColorSheetFg  = lipgloss.Color("#1f2430")

	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
	ColorBorder = lipgloss.AdaptiveColor{
		Light: "#8a9199",
		Dark:  "#5c6773",
	}

	// Status colors
	ColorStatusInProgress = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorStatusClosed = lipgloss.AdaptiveColor{
		Light: "#9099a1",
		Dark:  "#8090a0",
	}
	ColorStatusFeedback = lipgloss.AdaptiveColor{
		Light: "#a37acc",
		Dark:  "#d2a6ff",
	}

	// Priority colors
	ColorPriorityImmediate = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorPriorityUrgent = lipgloss.AdaptiveColor{
		Light: "#ff8f40",
		Dark:  "#ff8f40",
	}
	ColorPriorityHigh = lipgloss.AdaptiveColor{
		Light: "#e6b450",
		Dark:  "#e6b450",
	}
)

// Styles
var (
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	BoldStyle   = lipgloss.NewStyle().Bold(true)
	BorderStyle = lipgloss.NewStyle().Foreground(ColorBorder)

	// Table cells. Padding is set per cell so backgrounds span the column.
	HeaderCellStyle = lipgloss.NewStyle().
			Bold(true).
			Background(ColorHeaderBg).
			Foreground(ColorSheetFg).
			Align(lipgloss.Center).
			Padding(0, 1)
	ParentCellStyle = lipgloss.NewStyle().
			Bold(true).
			Background(ColorParentBg).
			Foreground(ColorSheetFg).
			Padding(0, 1)
	SyntheticCellStyle = lipgloss.NewStyle().
				Italic(true).
				Background(ColorParentBg).
				Foreground(ColorMuted).
				Padding(0, 1)
	ChildCellStyle = lipgloss.NewStyle().Padding(0, 1)

	StatusInProgressStyle = lipgloss.NewStyle().Foreground(ColorStatusInProgress)
	StatusClosedStyle     = lipgloss.NewStyle().Foreground(ColorStatusClosed)
	StatusFeedbackStyle   = lipgloss.NewStyle().Foreground(ColorStatusFeedback)

	PriorityImmediateStyle = lipgloss.NewStyle().Foreground(ColorPriorityImmediate).Bold(true)
	PriorityUrgentStyle    = lipgloss.NewStyle().Foreground(ColorPriorityUrgent).Bold(true)
	PriorityHighStyle      = lipgloss.NewStyle().Foreground(ColorPriorityHigh)
)

// RenderStatus renders a Redmine status with coloring.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "in progress":
		return StatusInProgressStyle.Render(status)
	case "feedback":
		return StatusFeedbackStyle.Render(status)
	case "resolved", "closed", "rejected":
		return StatusClosedStyle.Render(status)
	default:
		return status
	}
}

// RenderPriority renders a Redmine priority with coloring.
func RenderPriority(priority string) string {
	switch strings.ToLower(priority) {
	case "immediate":
		return PriorityImmediateStyle.Render(priority)
	case "urgent":
		return PriorityUrgentStyle.Render(priority)
	case "high":
		return PriorityHighStyle.Render(priority)
	case "low":
		return MutedStyle.Render(priority)
	default:
		return priority
	}
}

// RenderMuted renders text in muted gray.
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderBold renders text in bold.
func RenderBold(s string) string {
	return BoldStyle.Render(s)
}

// RenderAccent renders text with accent color.
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}
