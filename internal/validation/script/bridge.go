package script

import (
	"reflect"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/rehance/internal/value"
)

// toLua converts a field value to a Lua value. Lists become sequences,
// string-keyed maps become tables, and other values fall back to their
// string form.
func toLua(L *lua.LState, v any) lua.LValue {
	return toLuaVisited(L, v, 0)
}

// maxDepth bounds conversion of self-referencing values.
const maxDepth = 32

func toLuaVisited(L *lua.LState, v any, depth int) lua.LValue {
	if v == nil || depth > maxDepth {
		return lua.LNil
	}

	switch val := v.(type) {
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case int:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case lua.LValue:
		return val
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.Slice, reflect.Array:
		t := L.NewTable()
		for _, item := range value.List(v) {
			t.Append(toLuaVisited(L, item, depth+1))
		}
		return t
	case reflect.Map:
		t := L.NewTable()
		for k, item := range value.Map(v) {
			t.RawSetString(k, toLuaVisited(L, item, depth+1))
		}
		return t
	case reflect.Pointer:
		if rv.IsNil() {
			return lua.LNil
		}
		return toLuaVisited(L, rv.Elem().Interface(), depth+1)
	}
	return lua.LString(value.String(v))
}
