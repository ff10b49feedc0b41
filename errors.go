package binlayout

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel config errors: exported values alongside the typed
// wrapper, so ConfigError.Unwrap reaches one of these and callers can
// test the reason with errors.Is instead of parsing Error()'s text.
var (
	// ErrBadTag reports a binlayout struct tag that is malformed or
	// names a directive binlayout doesn't recognise.
	ErrBadTag = errors.New("malformed or unrecognised binlayout tag")
	// ErrUnrepresentable reports a field whose Go type cannot carry
	// the directive applied to it (e.g. big= on a string field).
	ErrUnrepresentable = errors.New("field type cannot represent directive")
	// ErrCallback reports a lenfunc= or Specialise callback that is
	// missing or has the wrong signature.
	ErrCallback = errors.New("callback not found or has the wrong signature")
	// ErrSpecialiseDepth reports a specialisation chain that recursed
	// past maxSpecialiseDepth without settling on a type.
	ErrSpecialiseDepth = errors.New("specialisation chain exceeded max depth")
)

// ConfigError reports a problem with a layout's struct tags, detected
// the first time the layout is used. ConfigErrors are programming
// errors: a well-formed layout never produces one at runtime. They
// are not caught locally; both decode and encode raise them as
// panics. ToBytes's error return carries only *EncodeError.
type ConfigError struct {
	// Type is the struct type whose layout is malformed.
	Type reflect.Type
	// Field is the offending field's name, if the error is specific
	// to one field.
	Field string
	// Reason is the underlying cause.
	Reason error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("binlayout: invalid layout for %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("binlayout: invalid layout for %s.%s: %s", e.Type, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Reason
}

func configErr(t reflect.Type, field string, reason string, args ...any) *ConfigError {
	return &ConfigError{Type: t, Field: field, Reason: fmt.Errorf(reason, args...)}
}

// configErrWrap builds a *ConfigError whose Reason already wraps one
// of the sentinel errors above (via fmt.Errorf's %w), so errors.Is
// sees through both the ConfigError and the formatted Reason.
func configErrWrap(t reflect.Type, field string, reason error) *ConfigError {
	return &ConfigError{Type: t, Field: field, Reason: reason}
}

// EncodeError reports a length or count mismatch discovered while
// encoding a value: a variable-length field whose declared-length
// callback disagrees with the supplied slice, a fixed repeater whose
// slice length doesn't match its declared count, or a value whose
// runtime type is incompatible with its field's directive.
type EncodeError struct {
	Type   reflect.Type
	Field  string
	Reason error
}

func (e *EncodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("binlayout: cannot encode %s: %s", e.Type, e.Reason)
	}
	return fmt.Sprintf("binlayout: cannot encode %s.%s: %s", e.Type, e.Field, e.Reason)
}

func (e *EncodeError) Unwrap() error {
	return e.Reason
}

func encodeErr(t reflect.Type, field string, reason string, args ...any) *EncodeError {
	return &EncodeError{Type: t, Field: field, Reason: fmt.Errorf(reason, args...)}
}

var errNilChildInterface = fmt.Errorf("nil interface value has no concrete type to encode")
