package todoapp

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/collection"
	"github.com/idilsaglam/todolist/internal/model"
)

func newApp(t *testing.T) *App {
	t.Helper()
	a, err := New(Options{
		Owner: "James",
		StartingData: []collection.Data{
			{"title": "Buy milk", "duration": 10},
			{"title": "Walk dog", "duration": "30", "done": true},
		},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return a
}

func TestNewRejectsNonSequence(t *testing.T) {
	_, err := New(Options{Owner: "James", StartingData: "not-an-array"})
	if !errors.Is(err, collection.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestNewRejectsInvalidSeed(t *testing.T) {
	_, err := New(Options{StartingData: []collection.Data{{"title": "ok title"}, {"title": ""}}})
	if !errors.Is(err, model.ErrInvalidTodo) {
		t.Fatalf("got %v, want ErrInvalidTodo", err)
	}
}

func TestMarkAsDoneAndUndone(t *testing.T) {
	a := newApp(t)
	id, ok := a.FindTodoIDByTitle("Buy milk")
	if !ok {
		t.Fatal("Buy milk not found")
	}

	if err := a.MarkAsDone(id); err != nil {
		t.Fatal(err)
	}
	if got, _ := a.GetTodoByID(id); !got.Done {
		t.Error("MarkAsDone did not set done")
	}
	if done, pending := a.Stats(); done != 2 || pending != 0 {
		t.Errorf("Stats: got (%d, %d), want (2, 0)", done, pending)
	}

	if err := a.MarkAsUndone(id); err != nil {
		t.Fatal(err)
	}
	got, _ := a.GetTodoByID(id)
	if got.Done {
		t.Error("MarkAsUndone did not clear done")
	}
	if got.Title != "Buy milk" || got.Duration != 10 || got.ID != id {
		t.Errorf("other fields changed: %+v", got)
	}
}

func TestToggle(t *testing.T) {
	a := newApp(t)
	id, _ := a.FindTodoIDByTitle("Walk dog")

	done, err := a.Toggle(id)
	if err != nil || done {
		t.Fatalf("first toggle: got (%v, %v), want (false, nil)", done, err)
	}
	done, err = a.Toggle(id)
	if err != nil || !done {
		t.Fatalf("second toggle: got (%v, %v), want (true, nil)", done, err)
	}
	if _, err := a.Toggle("missing"); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("unknown id: got %v, want ErrNotFound", err)
	}
}

func TestToggleReportsFalseOnError(t *testing.T) {
	errLocked := errors.New("todos cannot be completed")
	noDone := func(d collection.Data) (model.Todo, error) {
		td, err := model.NewTodo(d)
		if err == nil && td.Done {
			return model.Todo{}, errLocked
		}
		return td, err
	}
	todos, err := collection.New(collection.Options[model.Todo]{
		StartingData: []collection.Data{{"title": "Buy milk"}},
		ItemClass:    noDone,
	})
	if err != nil {
		t.Fatal(err)
	}
	a := &App{owner: "James", todos: todos, logger: log.New(io.Discard)}
	id, _ := a.FindTodoIDByTitle("Buy milk")

	done, err := a.Toggle(id)
	if !errors.Is(err, errLocked) {
		t.Fatalf("got %v, want the constructor error", err)
	}
	if done {
		t.Error("Toggle reported done although the update failed")
	}
	if got, _ := a.GetTodoByID(id); got.Done {
		t.Error("todo changed after a failed toggle")
	}
}

func TestEditTodoReplacesTags(t *testing.T) {
	a, err := New(Options{
		Owner:        "James",
		StartingData: []collection.Data{{"title": "Clean up", "duration": 20, "tags": []string{"home", "chores"}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	id, _ := a.FindTodoIDByTitle("Clean up")

	tests := []struct {
		name string
		data collection.Data
		want string
	}{
		{"narrowed", collection.Data{"title": "Clean up", "tags": []string{"home"}}, "home"},
		{"replaced", collection.Data{"tags": "garden, home"}, "garden,home"},
		{"cleared", collection.Data{"tags": []string{}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.EditTodo(id, tt.data); err != nil {
				t.Fatalf("EditTodo failed: %v", err)
			}
			got, _ := a.GetTodoByID(id)
			if strings.Join(got.Tags, ",") != tt.want {
				t.Errorf("tags: got %v, want %q", got.Tags, tt.want)
			}
			if got.Title != "Clean up" || got.Duration != 20 {
				t.Errorf("other fields changed: %+v", got)
			}
		})
	}
}

func TestEditTodoWithoutTagsMerges(t *testing.T) {
	a := newApp(t)
	id, _ := a.FindTodoIDByTitle("Walk dog")

	if err := a.EditTodo(id, collection.Data{"title": "Walk the dog"}); err != nil {
		t.Fatal(err)
	}
	got, _ := a.GetTodoByID(id)
	if got.Title != "Walk the dog" || got.Duration != 30 || !got.Done {
		t.Errorf("got %+v", got)
	}
	if err := a.EditTodo("missing", collection.Data{"tags": []string{"x"}}); !errors.Is(err, collection.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := a.EditTodo(id, collection.Data{"title": "ab", "tags": []string{"x"}}); !errors.Is(err, model.ErrInvalidTodo) {
		t.Errorf("got %v, want ErrInvalidTodo", err)
	}
}

func TestUpdateTodoAppendsTags(t *testing.T) {
	a := newApp(t)
	id, _ := a.FindTodoIDByTitle("Buy milk")

	if err := a.UpdateTodo(id, collection.Data{"tags": []string{"shop"}}); err != nil {
		t.Fatal(err)
	}
	if err := a.UpdateTodo(id, collection.Data{"tags": []string{"home", "shop"}}); err != nil {
		t.Fatal(err)
	}
	got, _ := a.GetTodoByID(id)
	if strings.Join(got.Tags, ",") != "shop,home" {
		t.Errorf("tags: got %v, want [shop home]", got.Tags)
	}
}

func TestRemoveAndRestore(t *testing.T) {
	a := newApp(t)
	id, _ := a.FindTodoIDByTitle("Buy milk")

	removed, err := a.RemoveTodo(id)
	if err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 {
		t.Fatalf("Len: got %d, want 1", a.Len())
	}

	restored, err := a.RestoreTodo(removed)
	if err != nil {
		t.Fatal(err)
	}
	if restored != id {
		t.Errorf("restored id: got %s, want %s", restored, id)
	}
	if got, ok := a.GetTodoByID(id); !ok || got.Title != "Buy milk" {
		t.Errorf("restored todo: got (%+v, %v)", got, ok)
	}
}

func TestRenderView(t *testing.T) {
	a := newApp(t)

	var view View
	if err := a.Render(func(v View) error {
		view = v
		v.Todos[0].Title = "mutated"
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if view.Owner != "James" || len(view.Todos) != 2 {
		t.Errorf("view: got owner %q with %d todos", view.Owner, len(view.Todos))
	}
	if _, ok := a.FindTodoIDByTitle("Buy milk"); !ok {
		t.Error("render mutation leaked")
	}
}

func TestRenderTable(t *testing.T) {
	a := newApp(t)
	var buf bytes.Buffer
	if err := a.RenderTable(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Buy milk", "Walk dog", "duration"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("table missing %q", want)
		}
	}
}
