package record

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Kind -trimprefix=Kind -output=kind_string.go

// Kind discriminates why a field access failed.
type Kind int

const (
	// KindResolution: no readable/writable field matches the name
	// (and, for writes, the runtime type of the value).
	KindResolution Kind = iota + 1
	// KindInvocation: the resolved accessor or mutator itself failed.
	KindInvocation
	// KindKey: the key value cannot be used as a lookup key.
	KindKey
)

// Op is the field operation that failed.
type Op string

const (
	OpRead  Op = "read"
	OpWrite Op = "write"
)

// Sentinels matched by (*Error).Is, so callers can branch with errors.Is.
var (
	ErrResolution = errors.New("accessor resolution failed")
	ErrInvocation = errors.New("accessor invocation failed")
	ErrKey        = errors.New("unusable key value")
)

// Error describes a failed field access on a single record.
type Error struct {
	Kind  Kind
	Op    Op
	Field string
	// Type is the Go type of the record, as printed by %T.
	Type string
	// Index is the position of the record in its collection, -1 if unknown.
	Index int
	// Suggestions holds close field names for resolution failures.
	Suggestions []string
	Err         error
}

func newError(kind Kind, op Op, field string, rec any, err error) *Error {
	return &Error{
		Kind:  kind,
		Op:    op,
		Field: field,
		Type:  fmt.Sprintf("%T", rec),
		Index: -1,
		Err:   err,
	}
}

// NewKeyError reports a key value that cannot be used in a lookup index.
func NewKeyError(field string, rec, key any) *Error {
	return newError(KindKey, OpRead, field, rec, fmt.Errorf("key of type %T is not comparable", key))
}

func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s field %q", e.Op, e.Field)
	if e.Type != "" {
		fmt.Fprintf(&b, " of %s", e.Type)
	}

	if e.Index >= 0 {
		fmt.Fprintf(&b, " at index %d", e.Index)
	}

	fmt.Fprintf(&b, ": %s", e.sentinel())
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel belonging to the error kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

// AtIndex returns a copy of the error positioned in a collection.
func (e *Error) AtIndex(i int) *Error {
	cp := *e
	cp.Index = i

	return &cp
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindResolution:
		return ErrResolution
	case KindInvocation:
		return ErrInvocation
	case KindKey:
		return ErrKey
	default:
		return nil
	}
}

// AsError extracts the *Error from a wrapped chain.
func AsError(err error) (*Error, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re, true
	}

	return nil, false
}
