package cli

import "github.com/charmbracelet/lipgloss"

var styles = struct {
	title lipgloss.Style
	label lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	warn  lipgloss.Style
	faint lipgloss.Style
}{
	title: lipgloss.NewStyle().Bold(true),
	label: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	ok:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	fail:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	warn:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	faint: lipgloss.NewStyle().Faint(true),
}

// field renders "label: value" with the label padded to width.
func field(label string, width int, value string) string {
	return styles.label.Width(width).Render(label+":") + " " + value
}
