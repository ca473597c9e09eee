package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/ui"
)

// row adapts a todo to list.Item. The todo id keys the row.
type row struct {
	todo model.Todo
}

func (r row) FilterValue() string { return r.todo.Title }

// rowDelegate draws one line per todo.
type rowDelegate struct {
	theme ui.Theme
}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	r, ok := item.(row)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = d.theme.Selected.Render(">") + " "
	}
	fmt.Fprint(w, prefix+rowLine(d.theme, r.todo))
}

// rowLine renders "☐ title (duration) #tag".
func rowLine(t ui.Theme, todo model.Todo) string {
	box := t.Muted.Render(t.Box(false))
	title := todo.Title
	if todo.Done {
		box = t.Success.Render(t.Box(true))
		title = t.DoneText.Render(title)
	}

	line := box + " " + title
	if todo.Duration > 0 {
		line += " " + t.Muted.Render("("+ui.Minutes(todo.Duration)+")")
	}
	if len(todo.Tags) > 0 {
		line += " " + t.Accent.Render("#"+strings.Join(todo.Tags, " #"))
	}
	return line
}
