package binlayout

import "reflect"

var namedLayouts = map[string]reflect.Type{}

// RegisterLayout associates name with T's layout so that tools such
// as cmd/binlayout-dump can look up a type by name instead of linking
// against it directly.
func RegisterLayout[T any](name string) {
	namedLayouts[name] = reflect.TypeFor[T]()
}

// LookupLayout returns the type registered under name, if any.
func LookupLayout(name string) (reflect.Type, bool) {
	t, ok := namedLayouts[name]
	return t, ok
}
