package cli

import (
	"fmt"
	"io"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/todoapp"
	"github.com/idilsaglam/todolist/internal/ui"
)

const maxTitle = 80

func printList(w io.Writer, t ui.Theme, app *todoapp.App, group bool) error {
	return app.Render(func(v todoapp.View) error {
		d, p := stats(v.Todos)
		header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			t.Title.Render(v.Owner+"'s Todos"),
			t.Success.Render(t.SymDone), d,
			t.Pending.Render(t.SymPending), p,
			t.Accent.Render("Total"), len(v.Todos),
		)

		var lines []string
		lines = append(lines, header)
		lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
		lines = append(lines, "")

		if group {
			lines = append(lines, groupLines(t, v.Todos)...)
		} else {
			lines = append(lines, flatLines(t, v.Todos)...)
		}
		lines = append(lines, "")
		lines = append(lines, t.Muted.Render("Tip: run `todo` to add and edit todos"))
		ui.Panel(w, t, lines)
		return nil
	})
}

func stats(todos []model.Todo) (done, pending int) {
	for _, it := range todos {
		if it.Done {
			done++
		} else {
			pending++
		}
	}
	return
}

func flatLines(t ui.Theme, todos []model.Todo) []string {
	if len(todos) == 0 {
		return []string{t.Muted.Render("You have no todos")}
	}
	out := make([]string, 0, len(todos))
	for i, it := range todos {
		idx := fmt.Sprintf("%2d.", i+1)
		box := t.Muted.Render(t.Box(false))
		if it.Done {
			box = t.Success.Render(t.Box(true))
		}
		title := it.Title
		if r := []rune(title); len(r) > maxTitle {
			title = string(r[:maxTitle-3]) + "..."
		}
		line := fmt.Sprintf("%s %s %s", t.Muted.Render(idx), box, title)
		if it.Duration > 0 {
			line += " " + t.Muted.Render("("+ui.Minutes(it.Duration)+")")
		}
		out = append(out, line)
	}
	return out
}

func groupLines(t ui.Theme, todos []model.Todo) []string {
	var pend, done []model.Todo
	for _, it := range todos {
		if it.Done {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(t, pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(t, done)...)
	}
	return lines
}
