package collection

import (
	"reflect"
	"strings"
)

// fieldValue looks up name on a map with string keys or a struct. Struct
// fields match on their JSON key first, then on the Go field name.
func fieldValue(v any, name string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true

	case reflect.Struct:
		rt := rv.Type()
		byName := -1
		for i := 0; i < rt.NumField(); i++ {
			f := rt.Field(i)
			if !f.IsExported() {
				continue
			}
			if key := jsonKey(f); key == name {
				return rv.Field(i).Interface(), true
			}
			if f.Name == name && byName < 0 {
				byName = i
			}
		}
		if byName >= 0 {
			return rv.Field(byName).Interface(), true
		}
	}
	return nil, false
}

func jsonKey(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "" || tag == "-" {
		return ""
	}
	key, _, _ := strings.Cut(tag, ",")
	return key
}

// strictEqual reports whether a and b have the same dynamic type and
// compare equal. Values of incomparable types never match.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
