package form

import (
	"reflect"
	"testing"
	"time"

	"github.com/idilsaglam/todolist/internal/collection"
)

func TestSerialize(t *testing.T) {
	f := TodoForm(3)
	f.Field("title").Value = "  Buy milk "
	f.Field("duration").Value = "15"
	f.Field("done").Checked = true
	f.Field("tags").Value = "home, shop,, "

	want := collection.Data{
		"_id":      "",
		"title":    "Buy milk",
		"duration": "15",
		"done":     true,
		"tags":     []string{"home", "shop"},
	}
	if got := f.Serialize(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestPopulate(t *testing.T) {
	f := TodoForm(3)
	err := f.Populate(collection.Data{
		"_id":      "t1",
		"title":    "Walk dog",
		"duration": 30.0,
		"done":     "done",
		"tags":     []any{"a", "b"},
		"unknown":  "ignored",
	})
	if err != nil {
		t.Fatalf("Populate failed: %v", err)
	}

	checks := map[string]string{"_id": "t1", "title": "Walk dog", "duration": "30", "tags": "a, b"}
	for name, want := range checks {
		if got := f.Field(name).Value; got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
	if !f.Field("done").Checked {
		t.Error("done not checked")
	}

	if err := f.Populate(collection.Data{"title": nil, "done": false}); err != nil {
		t.Fatal(err)
	}
	if f.Field("title").Value != "" || f.Field("done").Checked {
		t.Error("nil/false values did not clear fields")
	}
}

func TestPopulateDate(t *testing.T) {
	f := New("due", &Field{Name: "due", Kind: Date})

	if err := f.Populate(collection.Data{"due": time.Date(2024, 3, 9, 15, 0, 0, 0, time.UTC)}); err != nil {
		t.Fatal(err)
	}
	if got := f.Field("due").Value; got != "2024-03-09" {
		t.Errorf("time value: got %q", got)
	}
	if err := f.Populate(collection.Data{"due": "2024-05-01T08:00:00Z"}); err != nil {
		t.Fatal(err)
	}
	if got := f.Field("due").Value; got != "2024-05-01" {
		t.Errorf("RFC3339 value: got %q", got)
	}
	if err := f.Populate(collection.Data{"due": "someday"}); err == nil {
		t.Error("expected error for an unparseable date")
	}
}

func TestPopulateNilForm(t *testing.T) {
	var f *Form
	if err := f.Populate(collection.Data{"title": "x"}); err == nil {
		t.Error("expected error for a nil form")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"required blank", "title", "   ", "This field is required and cannot be blank!"},
		{"too short", "title", "ab", "The title must be at least 3 characters long!"},
		{"ok title", "title", "abc", ""},
		{"empty duration", "duration", "", ""},
		{"bad duration", "duration", "3.5", "The duration must be a whole number of zero or more!"},
		{"negative duration", "duration", "-2", "The duration must be a whole number of zero or more!"},
		{"unknown field", "nope", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := TodoForm(3)
			if fd := f.Field(tt.field); fd != nil {
				fd.Value = tt.value
			}
			if got := f.Validate(tt.field); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidAndErrors(t *testing.T) {
	f := TodoForm(3)
	if f.Valid() {
		t.Error("empty form reported valid")
	}
	if errs := f.Errors(); len(errs) != 1 || errs["title"] == "" {
		t.Errorf("errors: got %v, want only title", errs)
	}
	f.Field("title").Value = "Read a book"
	if !f.Valid() {
		t.Errorf("filled form invalid: %v", f.Errors())
	}
}

func TestReset(t *testing.T) {
	f := TodoForm(3)
	_ = f.Populate(collection.Data{"_id": "t1", "title": "Walk dog", "done": true, "tags": "x"})
	f.Reset()
	for _, fd := range f.Fields {
		if fd.Value != "" || fd.Checked {
			t.Errorf("%s not cleared: %+v", fd.Name, fd)
		}
	}
}
