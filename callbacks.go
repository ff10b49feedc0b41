package binlayout

import (
	"fmt"
	"reflect"
)

// validateLengthFuncs checks that every field referencing a
// lenfunc= callback names an exported, zero-argument method on t that returns
// an integer type. A missing method, a wrong parameter count, or a
// non-integer return type is a configuration error caught here,
// before any value is ever decoded or encoded.
func validateLengthFuncs(t reflect.Type, fields []*fieldSpec) {
	for _, fs := range fields {
		if fs.FuncName == "" {
			continue
		}
		m, ok := t.MethodByName(fs.FuncName)
		if !ok {
			// Methods declared with a pointer receiver are only
			// visible on *T; retry there before giving up.
			if pm, ok := reflect.PointerTo(t).MethodByName(fs.FuncName); ok {
				m = pm
			} else {
				panic(configErrWrap(t, fs.Name, fmt.Errorf("lenfunc method %q not found: %w", fs.FuncName, ErrCallback)))
			}
		}
		ft := m.Func.Type()
		if ft.NumIn() != 1 || ft.NumOut() != 1 || !isIntegerKind(ft.Out(0).Kind()) {
			panic(configErrWrap(t, fs.Name, fmt.Errorf("lenfunc method %q must have signature func() <integer>: %w", fs.FuncName, ErrCallback)))
		}
	}
}

func isIntegerKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// callLengthFunc invokes fs.FuncName on structVal (the containing
// struct value, addressable) and returns the result as an int.
func callLengthFunc(structVal reflect.Value, funcName string) int {
	m := structVal.MethodByName(funcName)
	if !m.IsValid() && structVal.CanAddr() {
		m = structVal.Addr().MethodByName(funcName)
	}
	if !m.IsValid() {
		panic(configErrWrap(structVal.Type(), funcName, fmt.Errorf("lenfunc method %q not found on value: %w", funcName, ErrCallback)))
	}
	out := m.Call(nil)[0]
	if out.Kind() == reflect.Int || out.Kind() == reflect.Int8 || out.Kind() == reflect.Int16 ||
		out.Kind() == reflect.Int32 || out.Kind() == reflect.Int64 {
		return int(out.Int())
	}
	return int(out.Uint())
}
