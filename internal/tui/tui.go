// Package tui is the interactive todo list: a Bubble Tea list with one row
// per todo plus the add and edit forms.
package tui

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/deep"
	"github.com/idilsaglam/todolist/internal/form"
	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/todoapp"
	"github.com/idilsaglam/todolist/internal/ui"
)

const statusLifetime = 3 * time.Second

type mode int

const (
	browsing mode = iota
	adding
	editing
)

// Options tune the interactive list.
type Options struct {
	Theme          ui.Theme
	MinTitleLength int
	Logger         *log.Logger
}

type keyMap struct {
	Toggle, Remove, Undo, Add, Edit, Quit key.Binding
	Next, Prev, Check, Submit, Cancel     key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Undo:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Next:   key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev field")),
		Check:  key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "check")),
		Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// input binds a form field to its text box. Checkboxes have no text box.
type input struct {
	field *form.Field
	text  textinput.Model
}

type clearStatusMsg struct{}

// Model is the Bubble Tea model of the todo list.
type Model struct {
	app    *todoapp.App
	theme  ui.Theme
	keys   keyMap
	logger *log.Logger

	list list.Model

	mode   mode
	form   *form.Form
	inputs []input
	focus  int
	editID string
	errs   map[string]string

	status    string
	statusErr bool
	undo      *model.Todo
}

// New returns a model showing app.
func New(app *todoapp.App, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	minTitle := opts.MinTitleLength
	if minTitle <= 0 {
		minTitle = model.DefaultMinTitleLength
	}

	m := Model{
		app:    app,
		theme:  opts.Theme,
		keys:   defaultKeys(),
		logger: logger,
		form:   form.TodoForm(minTitle),
	}
	m.form.SetLogger(logger)

	l := list.New(nil, rowDelegate{theme: opts.Theme}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = opts.Theme.Title
	l.Styles.HelpStyle = opts.Theme.Muted
	l.Styles.PaginationStyle = opts.Theme.Muted
	l.FilterInput.Prompt = "/ "
	l.DisableQuitKeybindings()

	extra := func() []key.Binding {
		return []key.Binding{m.keys.Toggle, m.keys.Add, m.keys.Edit, m.keys.Remove, m.keys.Undo, m.keys.Quit}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra
	m.list = l

	m.refresh()
	return m
}

// Run starts the list on the alternate screen and blocks until the user
// quits.
func Run(app *todoapp.App, opts Options) error {
	p := tea.NewProgram(New(app, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-4, msg.Height-4)
		return m, nil
	case clearStatusMsg:
		m.status, m.statusErr = "", false
		return m, nil
	case tea.KeyMsg:
		if m.mode != browsing {
			return m.updateForm(msg)
		}
		if !m.list.SettingFilter() {
			if next, cmd, handled := m.updateBrowsing(msg); handled {
				return next, cmd
			}
		}
	default:
		if m.mode != browsing {
			return m.updateText(msg)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Toggle):
		id := m.selectedID()
		if id == "" {
			return m, nil, true
		}
		if _, err := m.app.Toggle(id); err != nil {
			return m, m.flash(err.Error(), true), true
		}
		m.refresh()
		return m, nil, true

	case key.Matches(msg, m.keys.Remove):
		id := m.selectedID()
		if id == "" {
			return m, nil, true
		}
		removed, err := m.app.RemoveTodo(id)
		if err != nil {
			return m, m.flash(err.Error(), true), true
		}
		m.undo = &removed
		m.refresh()
		return m, m.flash(removed.Title+" removed", false), true

	case key.Matches(msg, m.keys.Undo):
		if m.undo == nil {
			return m, nil, true
		}
		restored := *m.undo
		if _, err := m.app.RestoreTodo(restored); err != nil {
			return m, m.flash(err.Error(), true), true
		}
		m.undo = nil
		m.refresh()
		return m, m.flash(restored.Title+" restored", false), true

	case key.Matches(msg, m.keys.Add):
		return m, m.openForm(adding, nil), true

	case key.Matches(msg, m.keys.Edit):
		id := m.selectedID()
		if id == "" {
			return m, nil, true
		}
		t, ok := m.app.GetTodoByID(id)
		if !ok {
			return m, nil, true
		}
		return m, m.openForm(editing, &t), true
	}
	return m, nil, false
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeForm()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.focusInput()
	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus - 1 + len(m.inputs)) % len(m.inputs)
		return m, m.focusInput()
	}

	if in := m.inputs[m.focus]; in.field.Kind == form.Checkbox {
		if key.Matches(msg, m.keys.Check) {
			in.field.Checked = !in.field.Checked
		}
		return m, nil
	}
	return m.updateText(msg)
}

// updateText feeds msg to the focused text box and copies its value back
// into the form.
func (m Model) updateText(msg tea.Msg) (tea.Model, tea.Cmd) {
	if len(m.inputs) == 0 {
		return m, nil
	}
	in := &m.inputs[m.focus]
	if in.field.Kind == form.Checkbox {
		return m, nil
	}
	var cmd tea.Cmd
	in.text, cmd = in.text.Update(msg)
	in.field.Value = in.text.Value()
	if m.errs != nil {
		m.errs = m.form.Errors()
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.errs = m.form.Errors()
	if len(m.errs) > 0 {
		return m, nil
	}

	data := m.form.Serialize()
	title, _ := data["title"].(string)
	verb := "created"
	var err error
	if m.mode == editing {
		verb = "updated"
		err = m.app.EditTodo(m.editID, data)
	} else {
		delete(data, "_id")
		_, err = m.app.CreateTodo(data)
	}
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			m.errs = map[string]string{ve.Field: ve.Err.Error()}
		} else {
			m.errs = map[string]string{"": err.Error()}
		}
		return m, nil
	}

	m.logger.Debug("todo saved", "title", title, "action", verb)
	m.closeForm()
	m.refresh()
	return m, m.flash(fmt.Sprintf("%s %s", title, verb), false)
}

func (m *Model) openForm(md mode, t *model.Todo) tea.Cmd {
	m.form.Reset()
	m.errs = nil
	m.editID = ""
	if t != nil {
		data, err := deep.ToData(*t)
		if err == nil {
			err = m.form.Populate(data)
		}
		if err != nil {
			m.logger.Error("populate form", "id", t.ID, "err", err)
			return m.flash(err.Error(), true)
		}
		m.editID = t.ID
	}

	m.inputs = m.inputs[:0]
	for _, fd := range m.form.Fields {
		if fd.Kind == form.Hidden {
			continue
		}
		ti := textinput.New()
		ti.Prompt = "> "
		ti.CharLimit = 200
		ti.Placeholder = placeholder(fd)
		ti.SetValue(fd.Value)
		ti.CursorEnd()
		m.inputs = append(m.inputs, input{field: fd, text: ti})
	}
	m.mode = md
	m.focus = 0
	return m.focusInput()
}

func (m *Model) closeForm() {
	m.mode = browsing
	m.form.Reset()
	m.inputs = nil
	m.errs = nil
	m.editID = ""
}

func (m *Model) focusInput() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].text.Focus()
		} else {
			m.inputs[i].text.Blur()
		}
	}
	return cmd
}

// refresh rebuilds the rows from the app and keeps the cursor in range.
func (m *Model) refresh() {
	var rows []list.Item
	_ = m.app.Render(func(v todoapp.View) error {
		rows = make([]list.Item, 0, len(v.Todos))
		for _, t := range v.Todos {
			rows = append(rows, row{todo: t})
		}
		return nil
	})
	m.list.Title = m.header()
	m.list.SetItems(rows)
	if n := len(rows); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) flash(msg string, failed bool) tea.Cmd {
	m.status, m.statusErr = msg, failed
	if failed {
		m.logger.Warn(msg)
	}
	return tea.Tick(statusLifetime, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

func (m Model) selectedID() string {
	r, ok := m.list.SelectedItem().(row)
	if !ok {
		return ""
	}
	return r.todo.ID
}

func (m Model) header() string {
	done, pending := m.app.Stats()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		m.theme.Title.Render(m.app.Owner()+"'s Todos"),
		m.theme.Success.Render(m.theme.SymDone), done,
		m.theme.Pending.Render(m.theme.SymPending), pending,
		m.theme.Accent.Render("Total"), done+pending,
	)
}

func (m Model) View() string {
	var lines []string
	switch {
	case m.mode != browsing:
		lines = m.formLines()
	case m.app.Len() == 0:
		lines = []string{
			m.header(),
			"",
			m.theme.Muted.Render("You have no todos"),
			"",
			m.theme.Muted.Render("a add • u undo • q quit"),
		}
	default:
		lines = []string{m.list.View()}
	}

	if m.status != "" {
		style, sym := m.theme.Success, m.theme.SymOK
		if m.statusErr {
			style, sym = m.theme.Error, m.theme.SymFail
		}
		lines = append(lines, "", style.Render(sym+" "+m.status))
	}
	return ui.PanelString(m.theme, lines)
}

func (m Model) formLines() []string {
	heading := "Add todo"
	if m.mode == editing {
		heading = "Edit todo"
	}
	lines := []string{m.theme.Title.Render(heading), ""}
	if msg := m.errs[""]; msg != "" {
		lines = append(lines, m.theme.Error.Render(msg), "")
	}

	for i, in := range m.inputs {
		label := in.field.Label
		if i == m.focus {
			label = m.theme.Selected.Render(label)
		}
		if in.field.Kind == form.Checkbox {
			cursor := "  "
			if i == m.focus {
				cursor = "> "
			}
			lines = append(lines, cursor+m.theme.Box(in.field.Checked)+" "+label)
		} else {
			lines = append(lines, label, in.text.View())
		}
		if msg := m.errs[in.field.Name]; msg != "" {
			lines = append(lines, m.theme.Error.Render(msg))
		}
		lines = append(lines, "")
	}

	help := []string{}
	for _, b := range []key.Binding{m.keys.Next, m.keys.Check, m.keys.Submit, m.keys.Cancel} {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	lines = append(lines, m.theme.Muted.Render(strings.Join(help, " • ")))
	return lines
}

func placeholder(fd *form.Field) string {
	switch fd.Kind {
	case form.Number:
		return "minutes"
	case form.List:
		return "comma separated"
	default:
		return strings.ToLower(fd.Label)
	}
}
