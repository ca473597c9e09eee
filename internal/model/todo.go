// Package model holds the todo item and the constructor the collection
// manager uses to build it from raw field data.
package model

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-viper/mapstructure/v2"

	"github.com/idilsaglam/todolist/internal/collection"
	"github.com/idilsaglam/todolist/internal/ident"
)

// DefaultMinTitleLength is the shortest title NewTodo accepts.
const DefaultMinTitleLength = 3

// ErrInvalidTodo is wrapped by every ValidationError.
var ErrInvalidTodo = errors.New("invalid todo")

// Todo is the domain model for a todo entry.
type Todo struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Duration int      `json:"duration"` // minutes
	Done     bool     `json:"done"`
	Tags     []string `json:"tags,omitempty"`
}

// GetID implements collection.Item.
func (t Todo) GetID() string { return t.ID }

// ValidationError names the field that failed.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

// Unwrap returns both the cause and ErrInvalidTodo.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidTodo, e.Err}
}

// Options tune validation.
type Options struct {
	MinTitleLength int
}

// NewTodo builds a Todo with the default options.
func NewTodo(data collection.Data) (Todo, error) {
	return build(data, Options{MinTitleLength: DefaultMinTitleLength})
}

// Constructor returns a collection.Constructor using opts.
func Constructor(opts Options) collection.Constructor[Todo] {
	return func(data collection.Data) (Todo, error) {
		return build(data, opts)
	}
}

// doneWords are the spellings of done a form checkbox or seed file may use.
var doneWords = map[string]bool{
	"true": true, "done": true, "on": true, "yes": true, "1": true,
	"false": false, "off": false, "no": false, "0": false, "": false,
}

// ParseDone reads a textual done value, ignoring case and surrounding space.
func ParseDone(s string) (bool, error) {
	done, ok := doneWords[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return false, fmt.Errorf("cannot read %q as done or not done", s)
	}
	return done, nil
}

func build(data collection.Data, opts Options) (Todo, error) {
	if s, ok := data["done"].(string); ok {
		done, err := ParseDone(s)
		if err != nil {
			return Todo{}, &ValidationError{Field: "done", Err: err}
		}
		data = maps.Clone(data)
		data["done"] = done
	}

	var t Todo
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &t,
		DecodeHook:       splitTags,
	})
	if err != nil {
		return Todo{}, err
	}
	if err := dec.Decode(data); err != nil {
		return Todo{}, &ValidationError{Field: "todo", Err: err}
	}

	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return Todo{}, &ValidationError{Field: "title", Err: errors.New("missing required field")}
	}
	if n := utf8.RuneCountInString(t.Title); n < opts.MinTitleLength {
		return Todo{}, &ValidationError{
			Field: "title",
			Err:   fmt.Errorf("must be at least %d characters long, got %d", opts.MinTitleLength, n),
		}
	}
	if t.Duration < 0 {
		return Todo{}, &ValidationError{
			Field: "duration",
			Err:   fmt.Errorf("must not be negative, got %d", t.Duration),
		}
	}
	t.Tags = normalizeTags(t.Tags)

	if t.ID == "" {
		t.ID = ident.New()
	}
	return t, nil
}

// splitTags lets a comma separated string stand in for a tag list.
func splitTags(from, to reflect.Type, v any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf([]string(nil)) {
		return strings.Split(v.(string), ","), nil
	}
	return v, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
