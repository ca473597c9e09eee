// Package todoapp is the owner-scoped todo list the UI layers talk to. It
// wraps a collection.Manager of model.Todo.
package todoapp

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/collection"
	"github.com/idilsaglam/todolist/internal/deep"
	"github.com/idilsaglam/todolist/internal/model"
)

// Options configure an App.
type Options struct {
	Owner          string
	StartingData   any
	MinTitleLength int
	Logger         *log.Logger
}

// View is what a render function receives.
type View struct {
	Owner string
	Todos []model.Todo
}

// App is one owner's todo list.
type App struct {
	owner  string
	todos  *collection.Manager[model.Todo]
	logger *log.Logger
}

// New builds an App seeded with opts.StartingData.
func New(opts Options) (*App, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	minTitle := opts.MinTitleLength
	if minTitle <= 0 {
		minTitle = model.DefaultMinTitleLength
	}

	todos, err := collection.New(collection.Options[model.Todo]{
		StartingData: opts.StartingData,
		ItemClass:    model.Constructor(model.Options{MinTitleLength: minTitle}),
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}
	return &App{owner: opts.Owner, todos: todos, logger: logger}, nil
}

// Owner returns the list owner's name.
func (a *App) Owner() string { return a.owner }

// Len returns the number of todos.
func (a *App) Len() int { return a.todos.Len() }

// CreateTodo adds a todo and returns its id.
func (a *App) CreateTodo(data collection.Data) (string, error) {
	id, err := a.todos.CreateItem(data)
	if err != nil {
		a.logger.Warn("create todo", "owner", a.owner, "err", err)
		return "", err
	}
	return id, nil
}

// UpdateTodo merges data into the todo with the given id.
func (a *App) UpdateTodo(id string, data collection.Data) error {
	if err := a.todos.UpdateItem(id, data); err != nil {
		a.logger.Warn("update todo", "owner", a.owner, "id", id, "err", err)
		return err
	}
	return nil
}

// EditTodo applies a full edit to the todo with the given id. Fields merge
// like UpdateTodo, except tags: when data holds a tags key, it replaces the
// current tags instead of adding to them.
func (a *App) EditTodo(id string, data collection.Data) error {
	tags, replaceTags := data["tags"]
	if !replaceTags {
		return a.UpdateTodo(id, data)
	}

	current, ok := a.todos.Item(id)
	if !ok {
		return fmt.Errorf("%w: item with id %s not found", collection.ErrNotFound, id)
	}
	base, err := deep.ToData(current)
	if err != nil {
		return err
	}
	patch := deep.Clone(data)
	delete(patch, "tags")
	merged, err := deep.Merge(base, patch)
	if err != nil {
		return err
	}
	merged["tags"] = tags

	if err := a.todos.ReplaceItem(id, merged); err != nil {
		a.logger.Warn("edit todo", "owner", a.owner, "id", id, "err", err)
		return err
	}
	return nil
}

// RemoveTodo deletes a todo and returns it.
func (a *App) RemoveTodo(id string) (model.Todo, error) {
	return a.todos.RemoveItem(id)
}

// RestoreTodo puts back a todo returned by RemoveTodo, keeping its id. It
// is appended at the end of the list.
func (a *App) RestoreTodo(t model.Todo) (string, error) {
	data, err := deep.ToData(t)
	if err != nil {
		return "", err
	}
	return a.todos.CreateItem(data)
}

// MarkAsDone sets done on a todo.
func (a *App) MarkAsDone(id string) error {
	return a.todos.UpdateItem(id, collection.Data{"done": true})
}

// MarkAsUndone clears done on a todo.
func (a *App) MarkAsUndone(id string) error {
	return a.todos.UpdateItem(id, collection.Data{"done": false})
}

// Toggle flips done on a todo and returns the new state. It returns false
// with any error, and the todo is left as it was.
func (a *App) Toggle(id string) (bool, error) {
	t, ok := a.todos.Item(id)
	if !ok {
		return false, fmt.Errorf("%w: item with id %s not found", collection.ErrNotFound, id)
	}
	if t.Done {
		return false, a.MarkAsUndone(id)
	}
	if err := a.MarkAsDone(id); err != nil {
		return false, err
	}
	return true, nil
}

// GetTodoByID returns a copy of the todo with the given id.
func (a *App) GetTodoByID(id string) (model.Todo, bool) {
	return a.todos.Item(id)
}

// FindTodoIDByTitle returns the id of the first todo with that title.
func (a *App) FindTodoIDByTitle(title string) (string, bool) {
	return a.todos.FindItemIDByField("title", title)
}

// Stats counts done and pending todos.
func (a *App) Stats() (done, pending int) {
	_ = a.todos.Render(func(items []model.Todo) error {
		for _, it := range items {
			if it.Done {
				done++
			} else {
				pending++
			}
		}
		return nil
	})
	return
}

// Render hands fn a View holding a copy of the todos.
func (a *App) Render(fn func(View) error) error {
	return a.todos.Render(func(items []model.Todo) error {
		return fn(View{Owner: a.owner, Todos: items})
	})
}

// RenderTable writes the todos as a table to w.
func (a *App) RenderTable(w io.Writer) error {
	return a.todos.Render(collection.ConsoleRender[model.Todo](w))
}
