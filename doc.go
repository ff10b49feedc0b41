// Package binlayout is a declarative binary codec: it converts
// between Go struct values and byte streams whose layout is described
// entirely by `binlayout:"..."` struct tags.
//
// A field's tag names one shape directive (big=, little=, bits=,
// bytes=, ascii=, lenfunc=, stop=, remaining, count=, or none for a
// nested struct) plus an order= giving its position on the wire.
// Layouts are derived from these tags via reflection on first use and
// cached for the lifetime of the process; a malformed layout panics
// with a *ConfigError the first time it is touched, not at package
// init.
//
// The codec is bit-accurate: PartialBigEndianBits fields (bits=) pack
// into shared bytes across consecutive fields, matching the low-level
// primitives in [github.com/nassora/binlayout/bitio]. A struct may
// also declare a zero-argument Specialise() any method; the decoder
// calls it once the struct's own fields are decoded and, if it
// returns a non-nil value of a different (but assignment-compatible)
// type, rewinds and decodes again as that type.
//
// Use [ToBytes] and [FromBytes] (or [FromBytesAt], for decoding a
// sub-region of a larger buffer) as the package's entry points.
package binlayout
