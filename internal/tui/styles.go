package tui

import "github.com/charmbracelet/lipgloss"

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))

	frame = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466"))

	header = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#ffffff")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#444466"))
)

// Summary renders a label/value table in the live view's palette.
func Summary(title string, labels []string, values []string) string {
	rows := make([]string, 0, len(labels)+1)
	rows = append(rows, header.Render(title))
	width := 0
	for _, l := range labels {
		width = max(width, len(l))
	}
	for i, l := range labels {
		rows = append(rows, dim.Render(padRight(l, width))+"  "+cyan.Render(values[i]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func padRight(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
