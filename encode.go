package binlayout

import (
	"log"
	"reflect"

	"github.com/nassora/binlayout/bitio"
)

const debugEncode = false

func debugEncodeLog(msg string, args ...any) {
	if !debugEncode {
		return
	}
	log.Printf(msg, args...)
}

// encodeValue is the encoder's entry point: it walks v's layout and
// writes it to w.
func encodeValue(v reflect.Value, w *bitio.Writer) error {
	return encodeStruct(v, w)
}

func encodeStruct(v reflect.Value, w *bitio.Writer) error {
	t := v.Type()
	si := getStructInfo(t)
	debugEncodeLog("encodeStruct(%s)", t)

	if !v.CanAddr() {
		addr := reflect.New(t).Elem()
		addr.Set(v)
		v = addr
	}

	for _, fs := range si.Fields {
		if err := encodeField(t, fs, v, w); err != nil {
			return err
		}
	}
	return nil
}

func encodeField(t reflect.Type, fs *fieldSpec, structVal reflect.Value, w *bitio.Writer) error {
	fv := structVal.FieldByIndex(fs.Index)

	switch fs.Kind {
	case kindBigEndianInt:
		if fs.FixedValue != nil {
			w.Write(fs.FixedValue)
			return nil
		}
		w.WriteBytesBigEndian(intFieldValue(fv), fs.ByteWidth)

	case kindLittleEndianInt:
		if fs.FixedValue != nil {
			w.Write(reverseBytes(fs.FixedValue))
			return nil
		}
		w.WriteBytesLittleEndian(intFieldValue(fv), fs.ByteWidth)

	case kindPartialBits:
		w.WriteBitsBigEndian(intFieldValue(fv), fs.BitWidth)

	case kindByteArrayFixed:
		if fs.FixedValue != nil {
			w.Write(fs.FixedValue)
			return nil
		}
		w.Write(padTruncateFront(fv.Bytes(), fs.ByteWidth))

	case kindAsciiFixed:
		if fs.FixedValue != nil {
			w.Write(fs.FixedValue)
			return nil
		}
		w.Write(padTruncateFront([]byte(fv.String()), fs.ByteWidth))

	case kindByteArrayVariable:
		arr := fv.Bytes()
		n := callLengthFunc(structVal, fs.FuncName)
		if n < 1 {
			if len(arr) != 0 {
				return encodeErr(t, fs.Name, "lenfunc %s returned %d, but field has %d bytes", fs.FuncName, n, len(arr))
			}
			return nil
		}
		if len(arr) != n {
			return encodeErr(t, fs.Name, "lenfunc %s returned %d, but field has %d bytes", fs.FuncName, n, len(arr))
		}
		w.Write(arr)

	case kindByteArrayTerminated:
		arr := fv.Bytes()
		w.Write(arr)
		if len(arr) == 0 || arr[len(arr)-1] != fs.Stop {
			w.PushByte(fs.Stop)
		}

	case kindRemainingBytes:
		w.Write(fv.Bytes())

	case kindChild:
		cv, err := childValueForEncode(fv)
		if err != nil {
			return encodeErr(t, fs.Name, "%s", err)
		}
		return encodeStruct(cv, w)

	case kindChildFixedRepeat:
		if fv.Len() != fs.Count {
			return encodeErr(t, fs.Name, "declared count=%d, but slice has %d elements", fs.Count, fv.Len())
		}
		return encodeChildRepeat(t, fs, fv, w)

	case kindChildVariableRepeat:
		n := callLengthFunc(structVal, fs.FuncName)
		if fv.Len() != n {
			return encodeErr(t, fs.Name, "lenfunc %s returned %d, but slice has %d elements", fs.FuncName, n, fv.Len())
		}
		return encodeChildRepeat(t, fs, fv, w)
	}
	return nil
}

func encodeChildRepeat(t reflect.Type, fs *fieldSpec, fv reflect.Value, w *bitio.Writer) error {
	for i := 0; i < fv.Len(); i++ {
		cv, err := childValueForEncode(fv.Index(i))
		if err != nil {
			return encodeErr(t, fs.Name, "element %d: %s", i, err)
		}
		if err := encodeStruct(cv, w); err != nil {
			return err
		}
	}
	return nil
}

func childValueForEncode(fv reflect.Value) (reflect.Value, error) {
	switch fv.Kind() {
	case reflect.Pointer:
		if fv.IsNil() {
			return reflect.Zero(fv.Type().Elem()), nil
		}
		return fv.Elem(), nil
	case reflect.Interface:
		if fv.IsNil() {
			return reflect.Value{}, errNilChildInterface
		}
		return fv.Elem(), nil
	default:
		return fv, nil
	}
}

func intFieldValue(fv reflect.Value) uint64 {
	if fv.CanUint() {
		return fv.Uint()
	}
	return uint64(fv.Int())
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// padTruncateFront fits b to exactly n bytes: zero-padding at the
// front if b is shorter, truncating from the front (keeping the
// trailing n bytes) if longer. Shared by the fixed-width byte array
// and ASCII string directives, which resolve over-length values the
// same way.
func padTruncateFront(b []byte, n int) []byte {
	if len(b) == n {
		return b
	}
	if len(b) > n {
		return b[len(b)-n:]
	}
	out := make([]byte, n)
	copy(out[n-len(b):], b)
	return out
}
