package binlayout

import (
	"fmt"
	"reflect"
	"strings"
)

const maxDescribeDepth = 10

// Describe renders a decoded value as a human-readable tree:
// integers in hex-and-decimal, byte arrays as `0x[HHHH..]`, strings
// quoted, children indented two spaces per depth, and a depth cap
// past which nesting is elided.
func Describe(value any) string {
	var b strings.Builder
	describeValue(&b, reflect.ValueOf(dereference(value)), 0)
	return b.String()
}

func dereference(value any) any {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

func describeValue(b *strings.Builder, v reflect.Value, depth int) {
	if !v.IsValid() {
		fmt.Fprintf(b, "<null>\n")
		return
	}
	t := v.Type()
	si := getStructInfo(t)
	fmt.Fprintf(b, "%s {\n", si.Name)
	describeFields(b, si, v, depth+1)
	writeIndent(b, depth)
	fmt.Fprintf(b, "}\n")
}

func describeFields(b *strings.Builder, si *structInfo, v reflect.Value, depth int) {
	if depth > maxDescribeDepth {
		writeIndent(b, depth)
		fmt.Fprintf(b, "...\n")
		return
	}
	for _, fs := range si.Fields {
		fv := v.FieldByIndex(fs.Index)
		if fv.Kind() == reflect.Slice && fv.IsNil() {
			continue
		}
		writeIndent(b, depth)
		describeField(b, fs, fv, depth)
	}
}

func describeField(b *strings.Builder, fs *fieldSpec, fv reflect.Value, depth int) {
	switch fs.Kind {
	case kindBigEndianInt, kindLittleEndianInt, kindPartialBits:
		fmt.Fprintf(b, "%s: %s\n", fs.Name, describeInt(fv))

	case kindByteArrayFixed, kindByteArrayVariable, kindByteArrayTerminated, kindRemainingBytes:
		if fv.IsNil() {
			return
		}
		fmt.Fprintf(b, "%s: %s\n", fs.Name, describeBytes(fv.Bytes()))

	case kindAsciiFixed:
		fmt.Fprintf(b, "%s: %q\n", fs.Name, fv.String())

	case kindChild:
		describeChildField(b, fs.Name, fv, depth)

	case kindChildFixedRepeat, kindChildVariableRepeat:
		fmt.Fprintf(b, "%s: [\n", fs.Name)
		for i := 0; i < fv.Len(); i++ {
			writeIndent(b, depth+1)
			describeChildField(b, fmt.Sprintf("%d", i), fv.Index(i), depth+1)
		}
		writeIndent(b, depth)
		fmt.Fprintf(b, "]\n")
	}
}

func describeChildField(b *strings.Builder, name string, fv reflect.Value, depth int) {
	cv := fv
	switch cv.Kind() {
	case reflect.Pointer:
		if cv.IsNil() {
			fmt.Fprintf(b, "%s: <null>\n", name)
			return
		}
		cv = cv.Elem()
	case reflect.Interface:
		if cv.IsNil() {
			fmt.Fprintf(b, "%s: <null>\n", name)
			return
		}
		cv = cv.Elem()
	}
	if depth+1 > maxDescribeDepth {
		fmt.Fprintf(b, "%s: ...\n", name)
		return
	}
	si := getStructInfo(cv.Type())
	fmt.Fprintf(b, "%s: %s {\n", name, si.Name)
	describeFields(b, si, cv, depth+1)
	writeIndent(b, depth)
	fmt.Fprintf(b, "}\n")
}

// describeInt renders an integer field as `0xHH..H (decimal)`, with
// the hex digit count scaled to the field's Go bit width: 2/4/8/16
// digits for 8/16/32/64-bit fields.
func describeInt(fv reflect.Value) string {
	bits := fv.Type().Bits()
	digits := bits / 4
	if digits == 0 {
		digits = 2
	}
	u := intFieldValue(fv)
	var signed int64
	if fv.CanInt() {
		signed = fv.Int()
	} else {
		signed = int64(u)
	}
	return fmt.Sprintf("0x%0*X (%d)", digits, u, signed)
}

func describeBytes(bs []byte) string {
	if len(bs) == 0 {
		return "0x[]"
	}
	var b strings.Builder
	b.WriteString("0x[")
	for _, c := range bs {
		fmt.Fprintf(&b, "%02X", c)
	}
	b.WriteString("]")
	return b.String()
}

func writeIndent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}
