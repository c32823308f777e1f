package value

import (
	"math"
	"reflect"
	"strconv"
)

// Booler is implemented by values that define their own truthiness.
type Booler interface {
	Bool() bool
}

// Stringer is implemented by values that define their own string form.
type Stringer interface {
	String() string
}

// Truthy reports whether v counts as present. nil, false, the empty string,
// NaN, nil pointers and zero-length slices, arrays and maps are not truthy.
// Zero numbers are truthy: a field holding 0 has a value.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return !math.IsNaN(v)
	case float32:
		return !math.IsNaN(float64(v))
	case Booler:
		return v.Bool()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(rv.Float())
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	}
	return true
}

// Empty reports whether v holds no data: nil, the empty string, NaN, a nil
// pointer, or a zero-length slice, array or map. 0 and false are not empty.
func Empty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case bool, int, int64:
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(rv.Float())
	}
	return false
}

// String converts a scalar to its string form. Non-scalar values (slices,
// maps, structs, pointers) yield "".
func String(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case Stringer:
		return v.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	}
	return ""
}

// List returns v itself when it is a []any, its elements as a []any when it
// is another slice or array type, and an empty list otherwise.
func List(v any) []any {
	if l, ok := v.([]any); ok {
		if l == nil {
			return []any{}
		}
		return l
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return []any{}
}

// Map returns v itself when it is a non-nil map[string]any, a converted copy
// when it is another map keyed by strings, and an empty map otherwise.
func Map(v any) map[string]any {
	if m, ok := v.(map[string]any); ok && m != nil {
		return m
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String && !rv.IsNil() {
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = iter.Value().Interface()
		}
		return out
	}
	return map[string]any{}
}

// Same reports whether a and b are the same value. Scalars compare with ==.
// Maps, slices, pointers, funcs and channels compare by reference: two
// distinct maps with equal contents are not the same. NaN is the same as NaN
// so that a field holding NaN is not perpetually changed.
func Same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}

	switch ra.Kind() {
	case reflect.Slice:
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	case reflect.Float32, reflect.Float64:
		fa, fb := ra.Float(), rb.Float()
		if math.IsNaN(fa) && math.IsNaN(fb) {
			return true
		}
		return fa == fb
	}

	if !ra.Comparable() {
		// Structs and arrays holding slices or maps.
		return reflect.DeepEqual(a, b)
	}
	return ra.Equal(rb)
}
