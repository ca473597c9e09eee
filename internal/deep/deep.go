// Package deep copies and merges JSON-shaped records.
package deep

import (
	"encoding/json"
	"fmt"

	"dario.cat/mergo"
	"github.com/huandu/go-clone"
)

// Data is a raw field-data record. Nested records are map[string]any and
// sequences are []any once a value has been through ToData.
type Data = map[string]any

// Clone returns a structural deep copy of v. Nothing reachable from the
// result is shared with v.
func Clone[T any](v T) T {
	c, _ := clone.Clone(v).(T)
	return c
}

// ToData converts v into a JSON-shaped record by encoding and decoding it.
// v must encode to a JSON object.
func ToData(v any) (Data, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var d Data
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	if d == nil {
		return Data{}, nil
	}
	return d, nil
}

// Merge combines patch into a copy of base and returns the result.
//
// Patch values win on conflict, zero values included. Nested records are
// merged key by key. Sequences are appended: the result holds the base
// elements followed by the patch elements. Neither argument is modified.
func Merge(base, patch Data) (Data, error) {
	b, err := ToData(base)
	if err != nil {
		return nil, err
	}
	p, err := ToData(patch)
	if err != nil {
		return nil, err
	}
	if err := mergo.Merge(&b, p,
		mergo.WithOverride,
		mergo.WithAppendSlice,
	); err != nil {
		return nil, fmt.Errorf("merge record: %w", err)
	}
	return b, nil
}
