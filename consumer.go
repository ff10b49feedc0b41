package binlayout

import (
	"reflect"

	"github.com/nassora/binlayout/bitio"
)

// ToBytes encodes value, which must be a struct or pointer to struct
// whose fields carry `binlayout:"..."` tags.
func ToBytes(value any) ([]byte, error) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	w := bitio.NewWriter()
	if err := encodeValue(v, w); err != nil {
		return nil, err
	}
	return w.Finish(), nil
}

// FromBytes decodes data as t. ok is false if the decode ran off the
// end of data. It is equivalent to FromBytesAt(t, data, 0, len(data)).
func FromBytes(t reflect.Type, data []byte) (any, bool) {
	return FromBytesAt(t, data, 0, len(data))
}

// FromBytesAt decodes data[start:start+length] as t. ok is false if
// any read during the decode ran past the end of the region; the
// returned value is still populated (with zero
// bytes standing in for the missing data) for callers that want to
// inspect a truncated decode.
func FromBytesAt(t reflect.Type, data []byte, start, length int) (any, bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r := bitio.NewReader(data, start, length)
	v := decodeType(t, r)
	return v.Interface(), !r.Overrun()
}
