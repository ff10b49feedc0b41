package binlayout

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseFieldTagBigEndian(t *testing.T) {
	type layout struct {
		Value uint32 `binlayout:"order=0,big=3"`
	}
	si := getStructInfo(reflect.TypeOf(layout{}))
	if len(si.Fields) != 1 {
		t.Fatalf("len(Fields) = %d, want 1", len(si.Fields))
	}
	fs := si.Fields[0]
	if fs.Kind != kindBigEndianInt || fs.ByteWidth != 3 {
		t.Fatalf("fs = %+v, want Kind=kindBigEndianInt ByteWidth=3", fs)
	}
}

func TestDuplicateOrderIsConfigError(t *testing.T) {
	type layout struct {
		A uint8 `binlayout:"order=0,big=1"`
		B uint8 `binlayout:"order=0,big=1"`
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic on duplicate order=")
		}
		if _, ok := r.(*ConfigError); !ok {
			t.Fatalf("recovered %T, want *ConfigError", r)
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}

func TestMisalignedBitRunIsConfigError(t *testing.T) {
	type layout struct {
		A uint8 `binlayout:"order=0,bits=3"`
		B uint8 `binlayout:"order=1,bits=3"`
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic on a bit run that isn't a multiple of 8")
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}

func TestRemainingBytesMustBeLast(t *testing.T) {
	type layout struct {
		Tail []byte `binlayout:"order=0,remaining"`
		A    uint8  `binlayout:"order=1,big=1"`
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic when RemainingBytes isn't the last field")
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}

func TestFixedValueWidthMismatchIsConfigError(t *testing.T) {
	type layout struct {
		A uint16 `binlayout:"order=0,big=2,fixed=0x01"`
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic on fixed= width mismatch")
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}

func TestUnknownTagKeyIsErrBadTag(t *testing.T) {
	type layout struct {
		A uint8 `binlayout:"order=0,bogus=1"`
	}
	defer func() {
		r := recover()
		err, ok := r.(*ConfigError)
		if !ok {
			t.Fatalf("recovered %T, want *ConfigError", r)
		}
		if !errors.Is(err, ErrBadTag) {
			t.Fatalf("errors.Is(err, ErrBadTag) = false for %v", err)
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}

func TestWrongFieldTypeIsErrUnrepresentable(t *testing.T) {
	type layout struct {
		A string `binlayout:"order=0,big=2"`
	}
	defer func() {
		r := recover()
		err, ok := r.(*ConfigError)
		if !ok {
			t.Fatalf("recovered %T, want *ConfigError", r)
		}
		if !errors.Is(err, ErrUnrepresentable) {
			t.Fatalf("errors.Is(err, ErrUnrepresentable) = false for %v", err)
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}

func TestUnknownLenfuncIsConfigError(t *testing.T) {
	type layout struct {
		Body []byte `binlayout:"order=0,lenfunc=noSuchMethod"`
	}
	defer func() {
		r := recover()
		err, ok := r.(*ConfigError)
		if !ok {
			t.Fatalf("recovered %T, want *ConfigError", r)
		}
		if !errors.Is(err, ErrCallback) {
			t.Fatalf("errors.Is(err, ErrCallback) = false for %v", err)
		}
	}()
	getStructInfo(reflect.TypeOf(layout{}))
}
