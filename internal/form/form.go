// Package form models the add/edit forms of the todo UI: fields that can be
// serialized into a record, populated from one, validated inline and reset.
package form

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/collection"
)

// Kind selects how a field serializes and populates.
type Kind int

const (
	Text Kind = iota
	Number
	Checkbox
	List
	Hidden
	Date
)

const dateLayout = "2006-01-02"

// Field is a single form input.
type Field struct {
	Name      string
	Label     string
	Kind      Kind
	Required  bool
	MinLength int

	Value   string // Text, Number, List, Hidden, Date
	Checked bool   // Checkbox
}

// Form is an ordered set of fields.
type Form struct {
	Name   string
	Fields []*Field

	logger *log.Logger
}

// New returns a form with the given fields.
func New(name string, fields ...*Field) *Form {
	return &Form{Name: name, Fields: fields, logger: log.New(io.Discard)}
}

// SetLogger sets where populate warnings go.
func (f *Form) SetLogger(l *log.Logger) {
	if l != nil {
		f.logger = l
	}
}

func (f *Form) log() *log.Logger {
	if f.logger == nil {
		f.logger = log.New(io.Discard)
	}
	return f.logger
}

// Field returns the named field or nil.
func (f *Form) Field(name string) *Field {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd
		}
	}
	return nil
}

// Serialize collects the field values into a record.
func (f *Form) Serialize() collection.Data {
	data := make(collection.Data, len(f.Fields))
	for _, fd := range f.Fields {
		switch fd.Kind {
		case Checkbox:
			data[fd.Name] = fd.Checked
		case List:
			data[fd.Name] = splitList(fd.Value)
		default:
			data[fd.Name] = strings.TrimSpace(fd.Value)
		}
	}
	return data
}

// Populate writes data into the matching fields. Missing values clear the
// field; keys with no matching field are skipped.
func (f *Form) Populate(data collection.Data) error {
	if f == nil {
		return errors.New("populate requires a form")
	}
	for name, value := range data {
		fd := f.Field(name)
		if fd == nil {
			f.log().Warn("could not find field, skipping", "form", f.Name, "field", name)
			continue
		}
		if err := fd.set(value); err != nil {
			return fmt.Errorf("populate %s: %w", name, err)
		}
	}
	return nil
}

func (fd *Field) set(value any) error {
	switch fd.Kind {
	case Checkbox:
		switch v := value.(type) {
		case nil:
			fd.Checked = false
		case bool:
			fd.Checked = v
		case string:
			switch strings.ToLower(strings.TrimSpace(v)) {
			case "true", "done", "on", "1":
				fd.Checked = true
			default:
				fd.Checked = false
			}
		default:
			return fmt.Errorf("checkbox cannot hold %T", value)
		}

	case List:
		switch v := value.(type) {
		case nil:
			fd.Value = ""
		case []string:
			fd.Value = strings.Join(v, ", ")
		case []any:
			parts := make([]string, 0, len(v))
			for _, p := range v {
				parts = append(parts, fmt.Sprint(p))
			}
			fd.Value = strings.Join(parts, ", ")
		default:
			fd.Value = fmt.Sprint(v)
		}

	case Date:
		switch v := value.(type) {
		case nil:
			fd.Value = ""
		case time.Time:
			fd.Value = v.Format(dateLayout)
		case string:
			if v == "" {
				fd.Value = ""
				break
			}
			ts, err := parseDate(v)
			if err != nil {
				return err
			}
			fd.Value = ts.Format(dateLayout)
		default:
			return fmt.Errorf("date cannot hold %T", value)
		}

	default:
		if value == nil {
			fd.Value = ""
		} else {
			fd.Value = fmt.Sprint(value)
		}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, dateLayout} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Reset clears every field, hidden ones included.
func (f *Form) Reset() {
	for _, fd := range f.Fields {
		fd.Value = ""
		fd.Checked = false
	}
}

// Validate returns the inline message for the named field, or "" when the
// field is valid or unknown.
func (f *Form) Validate(name string) string {
	fd := f.Field(name)
	if fd == nil {
		return ""
	}
	return fd.validate()
}

func (fd *Field) validate() string {
	if fd.Kind == Checkbox || fd.Kind == Hidden {
		return ""
	}
	v := strings.TrimSpace(fd.Value)
	if fd.Required && v == "" {
		return "This field is required and cannot be blank!"
	}
	if v != "" && fd.MinLength > 0 && utf8.RuneCountInString(v) < fd.MinLength {
		return fmt.Sprintf("The %s must be at least %d characters long!", strings.ToLower(fd.label()), fd.MinLength)
	}
	if v != "" && fd.Kind == Number {
		if n, err := strconv.Atoi(v); err != nil || n < 0 {
			return fmt.Sprintf("The %s must be a whole number of zero or more!", strings.ToLower(fd.label()))
		}
	}
	if v != "" && fd.Kind == Date {
		if _, err := parseDate(v); err != nil {
			return fmt.Sprintf("The %s must be a date like 2024-01-31!", strings.ToLower(fd.label()))
		}
	}
	return ""
}

func (fd *Field) label() string {
	if fd.Label != "" {
		return fd.Label
	}
	return fd.Name
}

// Errors returns the messages of every invalid field keyed by name.
func (f *Form) Errors() map[string]string {
	out := map[string]string{}
	for _, fd := range f.Fields {
		if msg := fd.validate(); msg != "" {
			out[fd.Name] = msg
		}
	}
	return out
}

// Valid reports whether every field validates.
func (f *Form) Valid() bool {
	return len(f.Errors()) == 0
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// TodoForm returns the add/edit form for a todo.
func TodoForm(minTitle int) *Form {
	return New("todo",
		&Field{Name: "_id", Kind: Hidden},
		&Field{Name: "title", Label: "Title", Kind: Text, Required: true, MinLength: minTitle},
		&Field{Name: "duration", Label: "Duration", Kind: Number},
		&Field{Name: "done", Label: "Done", Kind: Checkbox},
		&Field{Name: "tags", Label: "Tags", Kind: List},
	)
}
