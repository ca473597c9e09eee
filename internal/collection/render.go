package collection

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/idilsaglam/todolist/internal/deep"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// ConsoleRender returns a RenderFunc that writes the items to w as a table,
// one row per item, _id first. A nil w writes to standard output.
func ConsoleRender[T Item](w io.Writer) RenderFunc[T] {
	if w == nil {
		w = os.Stdout
	}
	return func(items []T) error {
		if len(items) == 0 {
			_, err := fmt.Fprintln(w, "No items to display")
			return err
		}

		rows := make([]Data, 0, len(items))
		seen := map[string]bool{}
		var columns []string
		for _, item := range items {
			d, err := deep.ToData(item)
			if err != nil {
				return err
			}
			for k := range d {
				if k != "_id" && !seen[k] {
					seen[k] = true
					columns = append(columns, k)
				}
			}
			rows = append(rows, d)
		}
		sort.Strings(columns)
		columns = append([]string{"_id"}, columns...)

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers(columns...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			})
		for _, d := range rows {
			cells := make([]string, len(columns))
			for i, c := range columns {
				if v, ok := d[c]; ok && v != nil {
					cells[i] = fmt.Sprint(v)
				}
			}
			t.Row(cells...)
		}

		_, err := fmt.Fprintln(w, t.Render())
		return err
	}
}
