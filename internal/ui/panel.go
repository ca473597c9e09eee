// Package ui renders status lines, panels and progress bars for the todo
// list.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OK writes a success line.
func OK(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Success.Render(t.SymOK+" "+msg))
}

// Fail writes an error line.
func Fail(w io.Writer, t Theme, msg string) {
	fmt.Fprintln(w, t.Error.Render(t.SymFail+" "+msg))
}

// ProgressBar renders a Unicode progress bar with percentage.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	if width < 5 {
		width = 5
	}
	filled := int(float64(done) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	pct := int(float64(done) / float64(total) * 100)
	return fmt.Sprintf("%s %3d%%", bar, pct)
}

// Minutes formats a duration in minutes as "45m" or "1h30m".
func Minutes(n int) string {
	if n < 60 {
		return fmt.Sprintf("%dm", n)
	}
	if n%60 == 0 {
		return fmt.Sprintf("%dh", n/60)
	}
	return fmt.Sprintf("%dh%02dm", n/60, n%60)
}

// PanelString frames lines in the theme's border.
func PanelString(t Theme, lines []string) string {
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}

// Panel writes a framed box.
func Panel(w io.Writer, t Theme, lines []string) {
	fmt.Fprintln(w, PanelString(t, lines))
}
