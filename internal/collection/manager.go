// Package collection manages an ordered, in-memory collection of items of a
// single caller-supplied type.
//
// Items are built by a constructor the caller hands to the manager, and each
// item carries an identifier assigned by that constructor. Every mutation
// replaces the backing slice instead of writing into it, so a slice taken
// before a write is never changed by it. Reads hand out deep copies.
//
// A Manager is not safe for concurrent use; it is meant to be owned by a
// single event loop.
package collection

import (
	"fmt"
	"io"
	"reflect"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/deep"
	"github.com/idilsaglam/todolist/internal/ident"
)

// Data is a raw field-data record handed to a Constructor.
type Data = deep.Data

// Item is implemented by every type a Manager can hold.
type Item interface {
	GetID() string
}

// Constructor turns raw field data into a validated item. It must assign an
// id when data carries none and keep the id when data carries one.
type Constructor[T Item] func(data Data) (T, error)

// RenderFunc receives a deep copy of the collection.
type RenderFunc[T Item] func(items []T) error

// Options configure a Manager.
type Options[T Item] struct {
	// StartingData is nil or a slice/array of records (Data, map[string]any
	// or structs that encode to JSON objects). Anything else is rejected.
	StartingData any
	// ItemClass builds items from records. Required.
	ItemClass Constructor[T]
	// Logger receives debug events. Defaults to a discarding logger.
	Logger *log.Logger
}

// Manager owns a collection of items of type T.
type Manager[T Item] struct {
	id     string
	build  Constructor[T]
	items  []T
	logger *log.Logger
}

// New validates opts, then creates one item per StartingData entry in
// order.
func New[T Item](opts Options[T]) (*Manager[T], error) {
	records, err := startingRecords(opts.StartingData)
	if err != nil {
		return nil, err
	}
	if opts.ItemClass == nil {
		return nil, fmt.Errorf("%w: 'itemClass' must be a constructor function; instead received nil", ErrInvalidArgument)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	m := &Manager[T]{
		id:     ident.New(),
		build:  opts.ItemClass,
		logger: logger,
	}
	if err := m.CreateItems(records); err != nil {
		return nil, err
	}
	return m, nil
}

func startingRecords(v any) ([]Data, error) {
	if v == nil {
		return nil, nil
	}
	if records, ok := v.([]Data); ok {
		return records, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: 'startingData' must be a sequence; instead received %v (of type %T)", ErrInvalidArgument, v, v)
	}
	out := make([]Data, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		d, err := deep.ToData(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("%w: 'startingData'[%d]: %v", ErrInvalidArgument, i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

// ID returns the manager's own identifier.
func (m *Manager[T]) ID() string { return m.id }

// Len returns the number of items.
func (m *Manager[T]) Len() int { return len(m.items) }

// CreateItem builds an item from data, appends it and returns its id.
func (m *Manager[T]) CreateItem(data Data) (string, error) {
	item, err := m.build(data)
	if err != nil {
		return "", err
	}
	id := item.GetID()
	if id == "" || m.indexOf(id) >= 0 {
		return "", fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}

	next := make([]T, len(m.items), len(m.items)+1)
	copy(next, m.items)
	m.items = append(next, item)

	m.logger.Debug("item created", "manager", m.id, "id", id)
	return id, nil
}

// CreateItems creates one item per record, in order. It stops at the first
// failure and returns it; items created before the failure stay in the
// collection.
func (m *Manager[T]) CreateItems(list []Data) error {
	for _, data := range list {
		if _, err := m.CreateItem(data); err != nil {
			return err
		}
	}
	return nil
}

// FindItemIDByField returns the id of the first item whose field equals
// value. Equality is strict: the dynamic types must match.
func (m *Manager[T]) FindItemIDByField(field string, value any) (string, bool) {
	for _, item := range m.items {
		got, ok := fieldValue(item, field)
		if ok && strictEqual(got, value) {
			return item.GetID(), true
		}
	}
	return "", false
}

// Item returns a deep copy of the item with the given id.
func (m *Manager[T]) Item(id string) (T, bool) {
	idx := m.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, false
	}
	return deep.Clone(m.items[idx]), true
}

// UpdateItem merges patch into the item's data, rebuilds the item with the
// constructor and puts it back at the same position. An _id key in patch is
// ignored. Nothing changes when an error is returned.
func (m *Manager[T]) UpdateItem(id string, patch Data) error {
	m.logger.Debug("updating item", "manager", m.id, "id", id, "patch", patch)

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: item with id %s not found", ErrNotFound, id)
	}

	base, err := deep.ToData(m.items[idx])
	if err != nil {
		return fmt.Errorf("item %s: %w", id, err)
	}
	if _, ok := patch["_id"]; ok {
		patch = deep.Clone(patch)
		delete(patch, "_id")
	}
	merged, err := deep.Merge(base, patch)
	if err != nil {
		return fmt.Errorf("item %s: %w", id, err)
	}
	return m.replaceAt(idx, id, merged)
}

// ReplaceItem rebuilds the item with the given id from data alone, without
// merging in its current fields, and puts it back at the same position. The
// id is kept whatever data says. Nothing changes when an error is returned.
func (m *Manager[T]) ReplaceItem(id string, data Data) error {
	m.logger.Debug("replacing item", "manager", m.id, "id", id)

	idx := m.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: item with id %s not found", ErrNotFound, id)
	}
	return m.replaceAt(idx, id, deep.Clone(data))
}

func (m *Manager[T]) replaceAt(idx int, id string, data Data) error {
	if data == nil {
		data = Data{}
	}
	data["_id"] = id

	updated, err := m.build(data)
	if err != nil {
		return err
	}
	if got := updated.GetID(); got != id {
		return fmt.Errorf("%w: %s became %q", ErrIDChanged, id, got)
	}

	next := make([]T, len(m.items))
	copy(next, m.items)
	next[idx] = updated
	m.items = next
	return nil
}

// RemoveItem removes the item with the given id and returns it. The caller
// owns the returned value.
func (m *Manager[T]) RemoveItem(id string) (T, error) {
	idx := m.indexOf(id)
	if idx < 0 {
		var zero T
		return zero, fmt.Errorf("%w: item with id %s not found", ErrNotFound, id)
	}

	removed := m.items[idx]
	next := make([]T, 0, len(m.items)-1)
	next = append(next, m.items[:idx]...)
	m.items = append(next, m.items[idx+1:]...)

	m.logger.Debug("item removed", "manager", m.id, "id", id)
	return removed, nil
}

// Render hands a deep copy of the collection to fn and returns fn's error.
// A nil fn prints a table to standard output.
func (m *Manager[T]) Render(fn RenderFunc[T]) error {
	if fn == nil {
		fn = ConsoleRender[T](nil)
	}
	return fn(deep.Clone(m.items))
}

func (m *Manager[T]) indexOf(id string) int {
	for i, item := range m.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
