// Package bitio provides the bit-accurate reader and writer that
// underlie the binlayout codec.
//
// Reader and Writer know nothing about struct layouts or field
// directives; they only deal in bits and bytes. Reader is bounded to
// a fixed region of an input buffer and latches an overrun flag
// rather than returning an error, matching the codec's "always
// produce a value" decoding contract. Writer is append-only and
// coalesces sub-byte writes across calls so that runs of
// less-than-a-byte fields pack correctly regardless of how many
// separate calls produced them.
package bitio
