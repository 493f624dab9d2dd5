package session

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/muurk/envmatch/internal/ui"
	"github.com/muurk/envmatch/internal/version"
)

const (
	appName   = "ENVMATCH"
	maskGlyph = "••••••••"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.MutedColor).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(ui.PrimaryColor)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true)

	rowStyle = lipgloss.NewStyle().
			Foreground(ui.TextColor)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(ui.SuccessColor).
				Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(ui.SuccessColor)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(ui.ErrorColor).
				Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.PrimaryColor).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true)

	inputErrorStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor)
)

func buildHeaderContent(location string) string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(appName + " " + version.Get().Version)

	right := mutedStyle.Render(location)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// renderApplicationContainer wraps a screen in the bordered full-terminal
// frame with a header and a footer pinned to the bottom.
func renderApplicationContainer(header, content, footer string, width, height int) string {
	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(width-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(width-4).
		Padding(0, 1)

	inner := lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(header),
		lipgloss.NewStyle().Width(width-4).Render(content),
		footerStyle.Render(footer),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.PrimaryColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}

// renderModal centers modal content over a dimmed screen
func renderModal(content string, width, height int) string {
	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		content,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// modalWidth caps a modal to the terminal, never below a usable minimum
func modalWidth(requested, terminalWidth int) int {
	limit := terminalWidth - 4
	if limit < 40 {
		limit = 40
	}
	return min(requested, limit)
}

// truncate shortens s to width terminal cells
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
