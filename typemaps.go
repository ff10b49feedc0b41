package binlayout

import (
	"reflect"

	"github.com/creachadair/mds/mapset"
)

// integerKinds is the set of reflect.Kinds eligible for the integer
// directives (big=, little=, bits=): every fixed-width signed or
// unsigned integer kind. int and uint are excluded because their
// width is platform-dependent, which would make a layout's wire size
// ambiguous.
var integerKinds = mapset.New(
	reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
	reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
)

// byteSliceKinds is the set of reflect.Kinds eligible for directives
// that bind to a []byte field (bytes=, stop=, remaining, lenfunc= on
// a byte slice).
var byteSliceKinds = mapset.New(reflect.Slice)

func isEligibleInteger(t reflect.Type) bool {
	return integerKinds.Has(t.Kind())
}
