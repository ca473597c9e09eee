// Package seed reads the starting data of a todo list. Files are read-only
// input: the list itself lives in memory for the session.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidSeed is wrapped by SchemaError.
var ErrInvalidSeed = errors.New("invalid seed")

const schemaURL = "todo-seed.schema.json"

// itemSchema describes one seed record. Strings are allowed where forms
// would produce them.
const itemSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title"],
    "properties": {
      "_id": {"type": "string", "minLength": 1},
      "title": {"type": "string"},
      "duration": {"type": ["integer", "string"]},
      "done": {
        "oneOf": [
          {"type": "boolean"},
          {"type": "string", "pattern": "^\\s*(?i:true|false|done|on|off|yes|no|1|0)?\\s*$"}
        ]
      },
      "tags": {
        "oneOf": [
          {"type": "array", "items": {"type": "string"}},
          {"type": "string"}
        ]
      }
    }
  }
}`

// Problem is one schema violation.
type Problem struct {
	Path    string
	Message string
}

// SchemaError lists every violation found in a seed file.
type SchemaError struct {
	File     string
	Problems []Problem
}

func (e *SchemaError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Path != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", p.Path, p.Message))
		} else {
			parts = append(parts, p.Message)
		}
	}
	return fmt.Sprintf("seed %s: %s", e.File, strings.Join(parts, "; "))
}

// Unwrap returns ErrInvalidSeed.
func (e *SchemaError) Unwrap() error { return ErrInvalidSeed }

// Load reads the starting data at path. An empty path or a missing file
// yields an empty list. Files ending in .toml are read from their "todos"
// array; anything else is parsed as JSON.
//
// The decoded document is returned as is, so a document that is not a list
// reaches the collection manager, which rejects it. List entries are checked
// against the seed schema.
func Load(path string) (any, error) {
	if path == "" {
		return []any{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []any{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}

	var doc any
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		doc, err = decodeTOML(b)
	} else {
		err = json.Unmarshal(b, &doc)
		if err != nil {
			err = fmt.Errorf("json unmarshal: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}

	if _, ok := doc.([]any); ok {
		if err := validate(path, doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// decodeTOML returns the "todos" array in JSON shape.
func decodeTOML(b []byte) (any, error) {
	var m map[string]any
	if _, err := toml.Decode(string(b), &m); err != nil {
		return nil, fmt.Errorf("toml decode: %w", err)
	}
	todos, ok := m["todos"]
	if !ok {
		return []any{}, nil
	}
	// Round-trip through JSON so numbers and tables look like JSON input.
	raw, err := json.Marshal(todos)
	if err != nil {
		return nil, fmt.Errorf("toml todos: %w", err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("toml todos: %w", err)
	}
	return doc, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(itemSchema)); err != nil {
		return nil, fmt.Errorf("load seed schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile seed schema: %w", err)
	}
	return schema, nil
}

func validate(path string, doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}
	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	serr := &SchemaError{File: path}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		serr.Problems = append(serr.Problems, Problem{Message: err.Error()})
		return serr
	}
	collectProblems(serr, ve)
	return serr
}

func collectProblems(serr *SchemaError, ve *jsonschema.ValidationError) {
	if len(ve.Causes) == 0 {
		serr.Problems = append(serr.Problems, Problem{
			Path:    jsonPointerToPath(ve.InstanceLocation),
			Message: ve.Message,
		})
		return
	}
	for _, cause := range ve.Causes {
		collectProblems(serr, cause)
	}
}

// jsonPointerToPath turns "/1/title" into "[1].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
