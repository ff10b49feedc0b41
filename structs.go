package binlayout

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// fieldKind identifies which wire directive a tagged field uses.
type fieldKind int

const (
	kindBigEndianInt fieldKind = iota
	kindLittleEndianInt
	kindPartialBits
	kindByteArrayFixed
	kindAsciiFixed
	kindByteArrayVariable
	kindByteArrayTerminated
	kindRemainingBytes
	kindChild
	kindChildFixedRepeat
	kindChildVariableRepeat
)

func (k fieldKind) String() string {
	switch k {
	case kindBigEndianInt:
		return "big-endian int"
	case kindLittleEndianInt:
		return "little-endian int"
	case kindPartialBits:
		return "partial bits"
	case kindByteArrayFixed:
		return "fixed byte array"
	case kindAsciiFixed:
		return "fixed ASCII string"
	case kindByteArrayVariable:
		return "variable byte array"
	case kindByteArrayTerminated:
		return "terminated byte array"
	case kindRemainingBytes:
		return "remaining bytes"
	case kindChild:
		return "child struct"
	case kindChildFixedRepeat:
		return "fixed-count child repeat"
	case kindChildVariableRepeat:
		return "variable-count child repeat"
	default:
		return "unknown"
	}
}

// fieldSpec is the fully-resolved metadata for one tagged struct
// field.
type fieldSpec struct {
	Name  string
	Index []int
	Type  reflect.Type
	Order int
	Kind  fieldKind

	// ByteWidth is the declared byte count for Big/LittleEndianInt,
	// ByteArrayFixed and AsciiStringFixed.
	ByteWidth int
	// BitWidth is the declared bit count for PartialBigEndianBits.
	BitWidth int
	// Stop is the terminator byte for ByteArrayTerminated.
	Stop byte
	// FuncName is the zero-argument instance method name that
	// supplies the element/byte count for ByteArrayVariable and
	// ChildVariableRepeat.
	FuncName string
	// Count is the declared element count for ChildFixedRepeat.
	Count int
	// ChildType is the struct type decoded/encoded for Child,
	// ChildFixedRepeat and ChildVariableRepeat (the slice/pointer
	// element type, never the slice or pointer itself).
	ChildType reflect.Type
	// FixedValue holds the FixedValue(bytes) constraint, or nil if
	// the field has none.
	FixedValue []byte
}

// structInfo is the cached, ordered layout for one struct type.
type structInfo struct {
	Name   string
	Type   reflect.Type
	Fields []*fieldSpec

	// Specialiser, if non-nil, is the zero-argument "Specialise()
	// any" method found on Type.
	Specialiser *reflect.Method
}

var structInfoCache cache[*structInfo]

func init() {
	structInfoCache.Init(uncachedStructInfo, func(t reflect.Type) *structInfo {
		panic(configErr(t, "", "recursive struct layout (an embedded field cycles back to its own containing type)"))
	})
}

// getStructInfo returns the validated, cached layout for t, deriving
// and validating it from struct tags on first use. It panics with a
// *ConfigError if the layout is malformed: a bad struct tag is a
// programming error, not something callers catch and recover from.
func getStructInfo(t reflect.Type) *structInfo {
	return structInfoCache.Get(t)
}

func uncachedStructInfo(t reflect.Type) *structInfo {
	if t.Kind() != reflect.Struct {
		panic(configErrWrap(t, "", fmt.Errorf("not a struct: %w", ErrUnrepresentable)))
	}

	ret := &structInfo{Name: t.String(), Type: t}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tagStr, ok := f.Tag.Lookup("binlayout")
		if !ok {
			if f.Anonymous && isStructOrPointerToStruct(f.Type) {
				ret.Fields = append(ret.Fields, promotedFields(f, structElemType(f.Type))...)
				continue
			}
			panic(configErrWrap(t, f.Name, fmt.Errorf("exported field has no binlayout tag: %w", ErrBadTag)))
		}
		fs := parseFieldTag(t, f, tagStr)
		ret.Fields = append(ret.Fields, fs)
	}

	validateOrder(t, ret.Fields)
	validateBitRuns(t, ret.Fields)
	validateRemaining(t, ret.Fields)
	validateLengthFuncs(t, ret.Fields)

	sort.Slice(ret.Fields, func(i, j int) bool {
		return ret.Fields[i].Order < ret.Fields[j].Order
	})

	if m, ok := t.MethodByName("Specialise"); ok {
		validateSpecialiserSignature(t, m)
		ret.Specialiser = &m
	}

	return ret
}

// promotedFields flattens an anonymously embedded struct's own
// tagged fields into its embedder, adjusting each fieldSpec's Index
// to traverse through the embedding field first. This is how a
// specialised subtype (embedding its base as required by
// validateSpecialiseCompatible) ends up with a complete field list
// covering the base's fields too, since the decoder re-decodes a
// chosen subtype from scratch rather than grafting onto the value
// already decoded as the base.
func promotedFields(embedding reflect.StructField, embeddedType reflect.Type) []*fieldSpec {
	embedded := getStructInfo(embeddedType)
	out := make([]*fieldSpec, len(embedded.Fields))
	for i, fs := range embedded.Fields {
		cp := *fs
		cp.Index = append(append([]int(nil), embedding.Index...), fs.Index...)
		out[i] = &cp
	}
	return out
}

// parseFieldTag parses one field's `binlayout:"..."` tag into a
// fieldSpec, validating it against the field's declared Go type.
func parseFieldTag(t reflect.Type, f reflect.StructField, tagStr string) *fieldSpec {
	fs := &fieldSpec{
		Name:  f.Name,
		Index: append([]int(nil), f.Index...),
		Type:  f.Type,
		Order: -1,
	}

	var (
		sawShape bool
		fixedHex []string
	)

	for _, part := range strings.Split(tagStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, val, hasVal := strings.Cut(part, "=")

		switch key {
		case "order":
			n, err := strconv.Atoi(val)
			if err != nil {
				panic(configErrWrap(t, f.Name, fmt.Errorf("invalid order %q: %v: %w", val, err, ErrBadTag)))
			}
			fs.Order = n
		case "big", "little":
			requireShapeOnce(t, f, &sawShape)
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 8 {
				panic(configErrWrap(t, f.Name, fmt.Errorf("%s= requires a byte count in 1..8, got %q: %w", key, val, ErrBadTag)))
			}
			fs.ByteWidth = n
			if key == "big" {
				fs.Kind = kindBigEndianInt
			} else {
				fs.Kind = kindLittleEndianInt
			}
			requireIntType(t, f)
		case "bits":
			requireShapeOnce(t, f, &sawShape)
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 || n > 64 {
				panic(configErrWrap(t, f.Name, fmt.Errorf("bits= requires a bit count in 1..64, got %q: %w", val, ErrBadTag)))
			}
			fs.Kind = kindPartialBits
			fs.BitWidth = n
			requireIntType(t, f)
		case "bytes":
			requireShapeOnce(t, f, &sawShape)
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				panic(configErrWrap(t, f.Name, fmt.Errorf("bytes= requires a positive byte count, got %q: %w", val, ErrBadTag)))
			}
			fs.Kind = kindByteArrayFixed
			fs.ByteWidth = n
			requireByteSliceType(t, f)
		case "ascii":
			requireShapeOnce(t, f, &sawShape)
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				panic(configErrWrap(t, f.Name, fmt.Errorf("ascii= requires a positive byte count, got %q: %w", val, ErrBadTag)))
			}
			fs.Kind = kindAsciiFixed
			fs.ByteWidth = n
			requireStringType(t, f)
		case "lenfunc":
			requireShapeOnce(t, f, &sawShape)
			if val == "" {
				panic(configErrWrap(t, f.Name, fmt.Errorf("lenfunc= requires a method name: %w", ErrBadTag)))
			}
			fs.FuncName = val
			switch {
			case f.Type.Kind() == reflect.Slice && f.Type.Elem().Kind() == reflect.Uint8:
				fs.Kind = kindByteArrayVariable
			case f.Type.Kind() == reflect.Slice && isStructOrPointerToStruct(f.Type.Elem()):
				fs.Kind = kindChildVariableRepeat
				fs.ChildType = structElemType(f.Type.Elem())
			default:
				panic(configErrWrap(t, f.Name, fmt.Errorf("lenfunc= requires a []byte or []Struct field, got %s: %w", f.Type, ErrUnrepresentable)))
			}
		case "stop":
			requireShapeOnce(t, f, &sawShape)
			b, err := strconv.ParseUint(strings.TrimPrefix(val, "0x"), 16, 8)
			if err != nil {
				panic(configErrWrap(t, f.Name, fmt.Errorf("stop= requires a hex byte, got %q: %w", val, ErrBadTag)))
			}
			fs.Kind = kindByteArrayTerminated
			fs.Stop = byte(b)
			requireByteSliceType(t, f)
		case "remaining":
			requireShapeOnce(t, f, &sawShape)
			fs.Kind = kindRemainingBytes
			requireByteSliceType(t, f)
		case "count":
			requireShapeOnce(t, f, &sawShape)
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				panic(configErrWrap(t, f.Name, fmt.Errorf("count= requires a non-negative integer, got %q: %w", val, ErrBadTag)))
			}
			if f.Type.Kind() != reflect.Slice || !isStructOrPointerToStruct(f.Type.Elem()) {
				panic(configErrWrap(t, f.Name, fmt.Errorf("count= requires a []Struct field, got %s: %w", f.Type, ErrUnrepresentable)))
			}
			fs.Kind = kindChildFixedRepeat
			fs.Count = n
			fs.ChildType = structElemType(f.Type.Elem())
		case "fixed":
			if !hasVal {
				panic(configErrWrap(t, f.Name, fmt.Errorf("fixed= requires a hyphen-separated hex byte list, e.g. fixed=0x12-0x34: %w", ErrBadTag)))
			}
			fixedHex = strings.Split(val, "-")
		default:
			panic(configErrWrap(t, f.Name, fmt.Errorf("unknown binlayout tag key %q: %w", key, ErrBadTag)))
		}
	}

	if !sawShape {
		if isStructOrPointerToStruct(f.Type) {
			fs.Kind = kindChild
			fs.ChildType = structElemType(f.Type)
		} else {
			panic(configErrWrap(t, f.Name, fmt.Errorf("exported field has a binlayout tag but no recognised directive: %w", ErrBadTag)))
		}
	}

	if fs.Order < 0 {
		panic(configErrWrap(t, f.Name, fmt.Errorf("missing required order= tag: %w", ErrBadTag)))
	}

	if len(fixedHex) > 0 {
		fs.FixedValue = parseFixedValue(t, f, fixedHex)
		validateFixedValueWidth(t, f, fs)
	}

	return fs
}

func requireShapeOnce(t reflect.Type, f reflect.StructField, sawShape *bool) {
	if *sawShape {
		panic(configErrWrap(t, f.Name, fmt.Errorf("field has more than one shape directive: %w", ErrBadTag)))
	}
	*sawShape = true
}

func requireIntType(t reflect.Type, f reflect.StructField) {
	if isEligibleInteger(f.Type) {
		return
	}
	panic(configErrWrap(t, f.Name, fmt.Errorf("integer directive requires a fixed-width int/uint field, got %s: %w", f.Type, ErrUnrepresentable)))
}

func requireByteSliceType(t reflect.Type, f reflect.StructField) {
	if byteSliceKinds.Has(f.Type.Kind()) && f.Type.Elem().Kind() == reflect.Uint8 {
		return
	}
	panic(configErrWrap(t, f.Name, fmt.Errorf("directive requires a []byte field, got %s: %w", f.Type, ErrUnrepresentable)))
}

func requireStringType(t reflect.Type, f reflect.StructField) {
	if f.Type.Kind() == reflect.String {
		return
	}
	panic(configErrWrap(t, f.Name, fmt.Errorf("ascii= requires a string field, got %s: %w", f.Type, ErrUnrepresentable)))
}

func isStructOrPointerToStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}

func structElemType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}

func parseFixedValue(t reflect.Type, f reflect.StructField, hexBytes []string) []byte {
	out := make([]byte, len(hexBytes))
	for i, h := range hexBytes {
		v, err := strconv.ParseUint(strings.TrimPrefix(h, "0x"), 16, 8)
		if err != nil {
			panic(configErrWrap(t, f.Name, fmt.Errorf("invalid fixed= byte %q: %v: %w", h, err, ErrBadTag)))
		}
		out[i] = byte(v)
	}
	return out
}

func validateFixedValueWidth(t reflect.Type, f reflect.StructField, fs *fieldSpec) {
	switch fs.Kind {
	case kindBigEndianInt, kindLittleEndianInt, kindByteArrayFixed, kindAsciiFixed:
		if len(fs.FixedValue) != fs.ByteWidth {
			panic(configErrWrap(t, f.Name, fmt.Errorf("fixed= has %d bytes, but directive declares %d: %w", len(fs.FixedValue), fs.ByteWidth, ErrBadTag)))
		}
	default:
		panic(configErrWrap(t, f.Name, fmt.Errorf("fixed= is not supported on a %s field: %w", fs.Kind, ErrUnrepresentable)))
	}
}

// validateOrder enforces that every field has a unique order; ties
// are a configuration error. Ascending order is the sole rule for
// wire position.
func validateOrder(t reflect.Type, fields []*fieldSpec) {
	seen := map[int]string{}
	for _, fs := range fields {
		if prev, ok := seen[fs.Order]; ok {
			panic(configErrWrap(t, fs.Name, fmt.Errorf("duplicate order=%d, also used by field %s: %w", fs.Order, prev, ErrBadTag)))
		}
		seen[fs.Order] = fs.Name
	}
}

// validateBitRuns enforces that partial-bit fields only appear in
// runs whose total bit count is a multiple of eight: a run that ends
// mid-byte has nowhere to round to on the wire.
func validateBitRuns(t reflect.Type, fields []*fieldSpec) {
	ordered := append([]*fieldSpec(nil), fields...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	runBits := 0
	runStart := ""
	for _, fs := range ordered {
		if fs.Kind == kindPartialBits {
			if runBits == 0 {
				runStart = fs.Name
			}
			runBits += fs.BitWidth
			continue
		}
		if runBits != 0 {
			if runBits%8 != 0 {
				panic(configErrWrap(t, runStart, fmt.Errorf("partial-bit run totals %d bits, not a multiple of 8: %w", runBits, ErrBadTag)))
			}
			runBits = 0
		}
	}
	if runBits%8 != 0 {
		panic(configErrWrap(t, runStart, fmt.Errorf("partial-bit run totals %d bits, not a multiple of 8: %w", runBits, ErrBadTag)))
	}
}

// validateRemaining enforces that RemainingBytes appears at most
// once per structure, and only as the highest-ordered field: any
// field after it would have no bytes left to claim.
func validateRemaining(t reflect.Type, fields []*fieldSpec) {
	ordered := append([]*fieldSpec(nil), fields...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	count := 0
	for i, fs := range ordered {
		if fs.Kind != kindRemainingBytes {
			continue
		}
		count++
		if count > 1 {
			panic(configErrWrap(t, fs.Name, fmt.Errorf("RemainingBytes may appear at most once per structure: %w", ErrBadTag)))
		}
		if i != len(ordered)-1 {
			panic(configErrWrap(t, fs.Name, fmt.Errorf("RemainingBytes must be the highest-ordered field: %w", ErrBadTag)))
		}
	}
}

func validateSpecialiserSignature(t reflect.Type, m reflect.Method) {
	ft := m.Func.Type()
	// Method value includes the receiver as argument 0.
	if ft.NumIn() != 1 || ft.NumOut() != 1 || ft.Out(0).Kind() != reflect.Interface {
		panic(configErrWrap(t, "Specialise", fmt.Errorf("Specialise must have signature func (%s) Specialise() any: %w", t, ErrCallback)))
	}
}
