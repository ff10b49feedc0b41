package binlayout

import (
	"bytes"
	"errors"
	"testing"
)

type fixedCountRepeat struct {
	Items []variableBlob `binlayout:"order=0,count=2"`
}

func TestEncodeChildFixedRepeatCountMismatch(t *testing.T) {
	v := fixedCountRepeat{Items: []variableBlob{{N: 0}}}
	_, err := ToBytes(v)
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("ToBytes error = %v (%T), want *EncodeError", err, err)
	}
}

func TestEncodeByteArrayVariableLengthMismatch(t *testing.T) {
	v := variableBlob{N: 3, Body: []byte{0x01, 0x02}}
	_, err := ToBytes(v)
	var encErr *EncodeError
	if !errors.As(err, &encErr) {
		t.Fatalf("ToBytes error = %v (%T), want *EncodeError", err, err)
	}
}

func TestEncodeByteArrayVariableZeroLength(t *testing.T) {
	v := variableBlob{N: 0, Body: nil}
	got, err := ToBytes(v)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	if want := []byte{0x00}; !bytes.Equal(got, want) {
		t.Fatalf("ToBytes = % X, want % X", got, want)
	}
}

func TestEncodeChildNested(t *testing.T) {
	v := withChild{Header: 0x07, Inner: nestedInner{V: 0x2A}}
	got, err := ToBytes(v)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	if want := []byte{0x07, 0x2A}; !bytes.Equal(got, want) {
		t.Fatalf("ToBytes = % X, want % X", got, want)
	}
}

func TestEncodeRemainingBytes(t *testing.T) {
	v := withRemaining{Header: 0x01, Tail: []byte{0xAA, 0xBB, 0xCC}}
	got, err := ToBytes(v)
	if err != nil {
		t.Fatalf("ToBytes: %v", err)
	}
	if want := []byte{0x01, 0xAA, 0xBB, 0xCC}; !bytes.Equal(got, want) {
		t.Fatalf("ToBytes = % X, want % X", got, want)
	}
}

func TestEncodePadTruncateFront(t *testing.T) {
	if got := string(padTruncateFront([]byte("ab"), 4)); got != "\x00\x00ab" {
		t.Fatalf("padTruncateFront short = %q, want zero-padded at front", got)
	}
	if got := string(padTruncateFront([]byte("abcdef"), 4)); got != "cdef" {
		t.Fatalf("padTruncateFront long = %q, want truncated at front", got)
	}
}
