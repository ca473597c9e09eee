package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, DoneText                            lipgloss.Style

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymOK, SymFail           string
	Border                   lipgloss.Border
}

// NewTheme returns the named theme. Unknown names get the classic theme.
func NewTheme(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			DoneText:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
			BoxUnchecked: "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
			Border: lipgloss.RoundedBorder(),
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain,
			Success: plain, Error: plain, Pending: plain,
			Selected: plain, DoneText: plain,
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			SymOK: "ok", SymFail: "error:",
			Border: lipgloss.ASCIIBorder(),
		}
	default:
		return Theme{
			Name:         "classic",
			Title:        lipgloss.NewStyle().Bold(true),
			Muted:        lipgloss.NewStyle().Faint(true),
			Accent:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Selected:     lipgloss.NewStyle().Bold(true).Reverse(true),
			DoneText:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
			BoxUnchecked: "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
			Border: lipgloss.NormalBorder(),
		}
	}
}

// Box returns the checkbox symbol for done.
func (t Theme) Box(done bool) string {
	if done {
		return t.BoxChecked
	}
	return t.BoxUnchecked
}
