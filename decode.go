package binlayout

import (
	"fmt"
	"log"
	"reflect"

	"github.com/nassora/binlayout/bitio"
)

const maxSpecialiseDepth = 8

// SafetyLimit bounds how many bytes a single ByteArrayVariable field
// may claim via its lenfunc=. A lenfunc returning more than this is
// treated the same as returning 0: the field decodes to an empty
// byte slice rather than letting a corrupt or hostile length field
// drive an unbounded allocation. A package-level var, not a const, so
// a caller embedding binlayout in a context with different trust
// assumptions can raise or lower it before first use.
var SafetyLimit = 10240

const debugDecode = false

func debugDecodeLog(msg string, args ...any) {
	if !debugDecode {
		return
	}
	log.Printf(msg, args...)
}

// decodeType is the decoder's entry point: it walks t's layout over
// r and returns the decoded value, possibly of a more specific type
// than t if a specialiser fired.
func decodeType(t reflect.Type, r *bitio.Reader) reflect.Value {
	return decodeStruct(t, r, 0)
}

// decodeStruct snapshots the reader's position, decodes each of t's
// declared fields in order, then gives t's specialiser method (if
// any) a chance to request a full re-decode as a more specific type.
func decodeStruct(t reflect.Type, r *bitio.Reader, depth int) reflect.Value {
	si := getStructInfo(t)
	debugDecodeLog("decodeStruct(%s) depth=%d", t, depth)

	snap := r.Position()
	v := reflect.New(t).Elem()
	for _, fs := range si.Fields {
		decodeField(fs, v, r)
	}

	if si.Specialiser == nil {
		return v
	}
	if depth >= maxSpecialiseDepth {
		panic(configErrWrap(t, "Specialise", fmt.Errorf("specialisation chain exceeded max depth (%d): %w", maxSpecialiseDepth, ErrSpecialiseDepth)))
	}

	result := si.Specialiser.Func.Call([]reflect.Value{v})[0]
	if result.IsNil() {
		return v
	}
	chosen := result.Elem()

	ut := chosen.Type()
	wantPtr := ut.Kind() == reflect.Pointer
	if wantPtr {
		ut = ut.Elem()
	}
	if ut == t {
		return v
	}
	validateSpecialiseCompatible(t, ut)
	r.Reset(snap)
	specialised := decodeStruct(ut, r, depth+1)
	if wantPtr {
		p := reflect.New(ut)
		p.Elem().Set(specialised)
		return p
	}
	return specialised
}

// validateSpecialiseCompatible enforces that a specialised type is
// assignment-compatible with the base, expressed in Go as embedding
// base as the specialised type's first anonymous field.
func validateSpecialiseCompatible(base, specialised reflect.Type) {
	st := specialised
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct || st.NumField() == 0 || !st.Field(0).Anonymous || st.Field(0).Type != base {
		panic(configErrWrap(base, "Specialise", fmt.Errorf("returned type %s does not embed %s as its first field: %w", specialised, base, ErrUnrepresentable)))
	}
}

func decodeField(fs *fieldSpec, structVal reflect.Value, r *bitio.Reader) {
	fv := structVal.FieldByIndex(fs.Index)

	switch fs.Kind {
	case kindBigEndianInt:
		setIntValue(fv, readBigEndianUint(r, fs.ByteWidth))
	case kindLittleEndianInt:
		setIntValue(fv, readLittleEndianUint(r, fs.ByteWidth))
	case kindPartialBits:
		setIntValue(fv, readPartialBits(r, fs.BitWidth))
	case kindByteArrayFixed:
		fv.SetBytes(r.Bytes(fs.ByteWidth))
	case kindAsciiFixed:
		fv.SetString(string(r.Bytes(fs.ByteWidth)))
	case kindByteArrayVariable:
		n := callLengthFunc(structVal, fs.FuncName)
		if n < 1 || n > SafetyLimit {
			fv.SetBytes([]byte{})
			return
		}
		fv.SetBytes(r.Bytes(n))
	case kindByteArrayTerminated:
		fv.SetBytes(readTerminated(r, fs.Stop))
	case kindRemainingBytes:
		fv.SetBytes(r.Bytes(r.Remaining()))
	case kindChild:
		child := decodeStruct(fs.ChildType, r, 0)
		if fs.Type.Kind() == reflect.Interface {
			fv.Set(child)
		} else {
			fv.Set(adaptChildValue(child, fs.Type))
		}
	case kindChildFixedRepeat:
		decodeChildRepeat(fv, fs, r, fs.Count)
	case kindChildVariableRepeat:
		n := callLengthFunc(structVal, fs.FuncName)
		if n < 0 {
			n = 0
		}
		decodeChildRepeat(fv, fs, r, n)
	}
}

func decodeChildRepeat(fv reflect.Value, fs *fieldSpec, r *bitio.Reader, n int) {
	elemType := fv.Type().Elem()
	out := reflect.MakeSlice(fv.Type(), n, n)
	for i := 0; i < n; i++ {
		child := decodeStruct(fs.ChildType, r, 0)
		out.Index(i).Set(adaptChildValue(child, elemType))
	}
	fv.Set(out)
}

// adaptChildValue fits a decoded child value (whose type may be a
// specialised subtype of target) into target, which is either an
// interface (any specialisation is stored as-is), a pointer to a
// struct, or a struct.
func adaptChildValue(child reflect.Value, target reflect.Type) reflect.Value {
	if target.Kind() == reflect.Interface {
		return child
	}
	if child.Kind() == reflect.Pointer {
		child = child.Elem()
	}
	ptr := target.Kind() == reflect.Pointer
	base := target
	if ptr {
		base = target.Elem()
	}
	if child.Type() != base {
		// The child specialised into a type incompatible with this
		// field's static Go type; fall back to its embedded base view.
		child = child.Field(0)
	}
	if ptr {
		p := reflect.New(base)
		p.Elem().Set(child)
		return p
	}
	return child
}

func readBigEndianUint(r *bitio.Reader, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v = v<<8 | uint64(r.NextByte())
	}
	return v
}

func readLittleEndianUint(r *bitio.Reader, n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v |= uint64(r.NextByte()) << uint(8*i)
	}
	return v
}

// readPartialBits accumulates by reading whole bytes while bits > 8,
// then a final NextBits(bits) for the sub-byte remainder.
func readPartialBits(r *bitio.Reader, bits int) uint64 {
	var v uint64
	remaining := bits
	for remaining > 8 {
		v = v<<8 | uint64(r.NextByte())
		remaining -= 8
	}
	return v<<uint(remaining) | uint64(r.NextBits(remaining))
}

func readTerminated(r *bitio.Reader, stop byte) []byte {
	var out []byte
	for r.Remaining() > 0 {
		b := r.NextByte()
		out = append(out, b)
		if b == stop {
			break
		}
	}
	return out
}

func maskForBits(bits int) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return uint64(1)<<uint(bits) - 1
}

func setIntValue(fv reflect.Value, u uint64) {
	switch {
	case fv.CanUint():
		fv.SetUint(u & maskForBits(fv.Type().Bits()))
	case fv.CanInt():
		bits := fv.Type().Bits()
		m := maskForBits(bits)
		uv := u & m
		if bits < 64 && uv&(1<<uint(bits-1)) != 0 {
			uv |= ^m
		}
		fv.SetInt(int64(uv))
	}
}
