package state

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/dshills/rehance/internal/validation"
	"github.com/dshills/rehance/internal/value"
)

// Shape declares the fields of a record.
type Shape map[string]Field

// Field declares one field of a Shape.
type Field struct {
	// Kind selects the node built for the field.
	Kind Kind

	// Rules validate a value field.
	Rules []validation.Rule

	// Default is the initial data used when the record omits the field.
	Default any

	// Fields is the record shape of a trie field, or the item shape of a
	// collection field.
	Fields Shape
}

// Value declares a value field.
func Value(rules ...validation.Rule) Field {
	return Field{Kind: KindValue, Rules: rules}
}

// Group declares a nested record field.
func Group(fields Shape) Field {
	return Field{Kind: KindTrie, Fields: fields}
}

// Collection declares a repeatable group whose items have the given shape.
func Collection(item Shape) Field {
	return Field{Kind: KindCollection, Fields: item}
}

// WithDefault returns a copy of f with Default set.
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// Keys returns the field names in sorted order.
func (s Shape) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks the declaration recursively.
func (s Shape) Validate() error {
	return s.validate("")
}

func (s Shape) validate(prefix string) error {
	for _, key := range s.Keys() {
		path := joinPath(prefix, key)
		if key == "" || strings.Contains(key, ".") {
			return &StructureError{Op: "shape", Path: path, Err: fmt.Errorf("%w: field names must be non-empty and dot-free", ErrInvalidShape)}
		}
		f := s[key]
		switch f.Kind {
		case KindValue:
			if len(f.Fields) > 0 {
				return &StructureError{Op: "shape", Path: path, Err: fmt.Errorf("%w: value field declares nested fields", ErrInvalidShape)}
			}
		case KindTrie, KindCollection:
			if len(f.Rules) > 0 {
				return &StructureError{Op: "shape", Path: path, Err: fmt.Errorf("%w: rules belong on value fields", ErrInvalidShape)}
			}
			if err := f.Fields.validate(path); err != nil {
				return err
			}
		default:
			return &StructureError{Op: "shape", Path: path, Err: fmt.Errorf("%w: unknown kind %d", ErrInvalidShape, f.Kind)}
		}
	}
	return nil
}

// Defaults returns the record described by the declared defaults. Trie
// fields without a default contribute their own defaults; collection fields
// without one contribute an empty list.
func (s Shape) Defaults() map[string]any {
	out := make(map[string]any, len(s))
	for key, f := range s {
		switch {
		case f.Default != nil:
			out[key] = f.Default
		case f.Kind == KindTrie:
			out[key] = f.Fields.Defaults()
		case f.Kind == KindCollection:
			out[key] = []any{}
		default:
			out[key] = nil
		}
	}
	return out
}

// asRecord normalizes record data. nil is an empty record.
func asRecord(raw any) (map[string]any, bool) {
	switch r := raw.(type) {
	case nil:
		return map[string]any{}, true
	case map[string]any:
		if r == nil {
			return map[string]any{}, true
		}
		return r, true
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		return value.Map(raw), true
	}
	return nil, false
}

// asList normalizes collection data. nil is an empty list.
func asList(raw any) ([]any, bool) {
	if raw == nil {
		return nil, true
	}
	switch reflect.ValueOf(raw).Kind() {
	case reflect.Slice, reflect.Array:
		return value.List(raw), true
	}
	return nil, false
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
