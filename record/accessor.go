package record

import (
	"errors"
	"fmt"
	"reflect"
)

// Accessor is implemented by records that expose their fields by name
// explicitly. It takes precedence over every reflective lookup.
type Accessor interface {
	// Get returns the value of field. A field that is absent reports
	// ok == false and no error.
	Get(field string) (value any, ok bool, err error)
	Set(field string, value any) error
}

// Representation tells how a record's fields are reached.
type Representation int

const (
	RepUnknown Representation = iota
	RepAccessor
	RepDynamic
	RepStructured
)

func (r Representation) String() string {
	switch r {
	case RepAccessor:
		return "accessor"
	case RepDynamic:
		return "dynamic"
	case RepStructured:
		return "structured"
	default:
		return "unknown"
	}
}

var (
	errNilRecord   = errors.New("nil record")
	errEmptyField  = errors.New("empty field name")
	errNoAccessor  = errors.New("no accessor for field")
	errNoMutator   = errors.New("no mutator for field")
	errUnsupported = errors.New("unsupported record type")
)

// Classify reports the representation of rec.
func Classify(rec any) Representation {
	if _, ok := rec.(Accessor); ok {
		return RepAccessor
	}

	rv, ok := indirect(reflect.ValueOf(rec))
	if !ok {
		return RepUnknown
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return RepDynamic
		}
	case reflect.Struct:
		return RepStructured
	}

	return RepUnknown
}

// Read returns the value of field on rec.
//
// Dynamic records look the name up as a map key; a missing key is
// reported with ok == false and a nil map fails like any nil record. Structured records resolve, in order, a
// Get<Field> method, a `link` tag, a `json` tag, the exported field named
// <Field>, and finally an exported field whose normalized name matches.
// <Field> is field with its first character upper-cased.
func Read(rec any, field string) (value any, ok bool, err error) {
	if field == "" {
		return nil, false, newError(KindResolution, OpRead, field, rec, errEmptyField)
	}

	switch r := rec.(type) {
	case nil:
		return nil, false, newError(KindResolution, OpRead, field, rec, errNilRecord)
	case Accessor:
		return readAccessor(r, field)
	case map[string]any:
		if r == nil {
			return nil, false, newError(KindResolution, OpRead, field, rec, errNilRecord)
		}

		value, ok = r[field]
		return value, ok, nil
	}

	rv, valid := indirect(reflect.ValueOf(rec))
	if !valid {
		return nil, false, newError(KindResolution, OpRead, field, rec, errNilRecord)
	}

	switch rv.Kind() {
	case reflect.Map:
		return readMap(rec, rv, field)
	case reflect.Struct:
		return readStruct(rec, rv, field)
	default:
		return nil, false, newError(KindResolution, OpRead, field, rec, errUnsupported)
	}
}

// Write stores value into field on rec.
//
// Structured records resolve a Set<Field> method or a field (same order
// as Read) whose type accepts the runtime type of value. A dynamic map
// value is also accepted by an interface the map implements or by a map
// type it converts to. Any other type mismatch fails with KindResolution;
// values are never coerced.
func Write(rec any, field string, value any) error {
	return write(rec, field, value, true)
}

// CanWrite resolves the mutator Write would use without invoking it.
// Records implementing Accessor cannot be checked and always pass.
func CanWrite(rec any, field string, value any) error {
	return write(rec, field, value, false)
}

func write(rec any, field string, value any, apply bool) error {
	if field == "" {
		return newError(KindResolution, OpWrite, field, rec, errEmptyField)
	}

	switch r := rec.(type) {
	case nil:
		return newError(KindResolution, OpWrite, field, rec, errNilRecord)
	case Accessor:
		if !apply {
			return nil
		}
		return writeAccessor(r, field, value)
	case map[string]any:
		if r == nil {
			return newError(KindResolution, OpWrite, field, rec, errNilRecord)
		}
		if apply {
			r[field] = value
		}
		return nil
	}

	rv := reflect.ValueOf(rec)
	isPtr := rv.Kind() == reflect.Pointer

	rv, valid := indirect(rv)
	if !valid {
		return newError(KindResolution, OpWrite, field, rec, errNilRecord)
	}

	switch rv.Kind() {
	case reflect.Map:
		return writeMap(rec, rv, field, value, apply)
	case reflect.Struct:
		if !isPtr || !rv.CanAddr() {
			return newError(KindResolution, OpWrite, field, rec,
				fmt.Errorf("struct %s is not addressable, pass a pointer", rv.Type()))
		}
		return writeStruct(rec, rv, field, value, apply)
	default:
		return newError(KindResolution, OpWrite, field, rec, errUnsupported)
	}
}

func readAccessor(r Accessor, field string) (value any, ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			value, ok = nil, false
			err = newError(KindInvocation, OpRead, field, r, fmt.Errorf("panic: %v", p))
		}
	}()

	value, ok, err = r.Get(field)
	if err != nil {
		return nil, false, adoptError(OpRead, field, r, err)
	}

	return value, ok, nil
}

func writeAccessor(r Accessor, field string, value any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = newError(KindInvocation, OpWrite, field, r, fmt.Errorf("panic: %v", p))
		}
	}()

	if err = r.Set(field, value); err != nil {
		return adoptError(OpWrite, field, r, err)
	}

	return nil
}

// adoptError keeps *Error values returned by custom accessors and
// classifies anything else as an invocation failure.
func adoptError(op Op, field string, rec any, err error) error {
	if re, ok := AsError(err); ok {
		cp := *re
		if cp.Field == "" {
			cp.Field = field
		}
		if cp.Op == "" {
			cp.Op = op
		}
		if cp.Type == "" {
			cp.Type = fmt.Sprintf("%T", rec)
		}
		return &cp
	}

	return newError(KindInvocation, op, field, rec, err)
}

func readMap(rec any, rv reflect.Value, field string) (any, bool, error) {
	kt := rv.Type().Key()
	if kt.Kind() != reflect.String {
		return nil, false, newError(KindResolution, OpRead, field, rec,
			fmt.Errorf("map key type %s is not string", kt))
	}

	if rv.IsNil() {
		return nil, false, newError(KindResolution, OpRead, field, rec, errNilRecord)
	}

	mv := rv.MapIndex(reflect.ValueOf(field).Convert(kt))
	if !mv.IsValid() {
		return nil, false, nil
	}

	return mv.Interface(), true, nil
}

func writeMap(rec any, rv reflect.Value, field string, value any, apply bool) error {
	mt := rv.Type()
	if mt.Key().Kind() != reflect.String {
		return newError(KindResolution, OpWrite, field, rec,
			fmt.Errorf("map key type %s is not string", mt.Key()))
	}

	if rv.IsNil() {
		return newError(KindResolution, OpWrite, field, rec, errNilRecord)
	}

	arg, err := argument(value, mt.Elem())
	if err != nil {
		return newError(KindResolution, OpWrite, field, rec, err)
	}

	if apply {
		rv.SetMapIndex(reflect.ValueOf(field).Convert(mt.Key()), arg)
	}

	return nil
}

// indirect follows pointers and interfaces down to the record value.
// It reports false for nil records.
func indirect(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return rv, false
		}
		rv = rv.Elem()
	}

	return rv, rv.IsValid()
}

// argument converts value into a reflect.Value settable into target,
// applying the dynamic map rule.
func argument(value any, target reflect.Type) (reflect.Value, error) {
	if value == nil {
		switch target.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(target), nil
		default:
			return reflect.Value{}, fmt.Errorf("cannot store nil into %s", target)
		}
	}

	vt := reflect.TypeOf(value)
	if !accepts(vt, target) {
		return reflect.Value{}, fmt.Errorf("value of type %s is not assignable to %s", vt, target)
	}

	arg := reflect.ValueOf(value)
	if !vt.AssignableTo(target) {
		arg = arg.Convert(target)
	}

	return arg, nil
}

// accepts reports whether a value of type vt can be stored into target.
// Assignability covers interfaces the value implements; dynamic maps are
// additionally converted between map types sharing key and element types
// (Dynamic <-> map[string]any).
func accepts(vt, target reflect.Type) bool {
	if vt.AssignableTo(target) {
		return true
	}

	return vt.Kind() == reflect.Map && vt.Key().Kind() == reflect.String &&
		target.Kind() == reflect.Map && vt.ConvertibleTo(target)
}
