// Package scenarios registers a handful of worked layouts as named
// types, so that cmd/binlayout-dump has something to decode without
// the caller writing Go.
package scenarios

import "github.com/nassora/binlayout"

func init() {
	binlayout.RegisterLayout[MixedEndian]("mixed-endian")
	binlayout.RegisterLayout[TerminatedBody]("terminated-body")
	binlayout.RegisterLayout[GenericParent]("generic-parent")
	binlayout.RegisterLayout[Repeated]("repeated")
}

// MixedEndian pairs big-endian and little-endian integer fields in
// one structure: a fixed 16-bit big-endian marker, a big-endian
// 24-bit value, a little-endian 24-bit value, and a fixed
// little-endian 16-bit trailer.
type MixedEndian struct {
	Marker  uint16 `binlayout:"order=0,big=2,fixed=0x7F-0x80"`
	Start   uint32 `binlayout:"order=1,big=3"`
	End     uint32 `binlayout:"order=2,little=3"`
	Trailer uint16 `binlayout:"order=3,little=2,fixed=0xAA-0x55"`
}

// SubBytePacked packs three sub-byte fields into a single byte.
type SubBytePacked struct {
	A uint8 `binlayout:"order=0,bits=3"`
	B uint8 `binlayout:"order=1,bits=2"`
	C uint8 `binlayout:"order=2,bits=3"`
}

// TerminatedBody is a terminator-bounded byte string bracketed by
// two fixed markers.
type TerminatedBody struct {
	Header uint16 `binlayout:"order=0,big=2,fixed=0x12-0x34"`
	Body   []byte `binlayout:"order=1,stop=0x00"`
	Footer uint16 `binlayout:"order=2,big=2,fixed=0x56-0x78"`
}

// RepeatedChild is the per-element structure repeated by Repeated:
// `{big16=0x7F80, big24, little24, little16=0xAA55}`. Magic and
// Trailer are FixedValue constraints, tolerated but not enforced on
// read.
type RepeatedChild struct {
	Magic   uint16 `binlayout:"order=0,big=2,fixed=0x7F-0x80"`
	Start   uint32 `binlayout:"order=1,big=3"`
	End     uint32 `binlayout:"order=2,little=3"`
	Trailer uint16 `binlayout:"order=3,little=2,fixed=0xAA-0x55"`
}

// Repeated is a start marker, a count, that many RepeatedChild
// structures, and an end marker.
type Repeated struct {
	Start    uint8           `binlayout:"order=0,big=1,fixed=0x55"`
	HowMany  uint16          `binlayout:"order=1,big=2"`
	Children []RepeatedChild `binlayout:"order=2,lenfunc=ChildCount"`
	End      uint8           `binlayout:"order=3,big=1,fixed=0xAA"`
}

func (r Repeated) ChildCount() int {
	return int(r.HowMany)
}

// GenericParent is a base type whose Specialise method promotes to
// SpecialParent once its two fields decode and TypeNumber == 3.
type GenericParent struct {
	TypeNumber  uint16 `binlayout:"order=0,big=2"`
	GenericData uint16 `binlayout:"order=1,big=2"`
}

func (p GenericParent) Specialise() any {
	if p.TypeNumber == 3 {
		return &SpecialParent{GenericParent: p}
	}
	return nil
}

// SpecialParent is the subtype GenericParent.Specialise selects for
// TypeNumber == 3.
type SpecialParent struct {
	GenericParent
	FixedString string `binlayout:"order=2,ascii=4"`
}
