package record

import (
	"reflect"
)

// Clone returns a shallow copy of rec that can be written without
// affecting the original: maps get a new map with the same entries,
// pointers to structs get a new struct with the same field values.
// Other values are already copies and are returned as is.
func Clone[T any](rec T) T {
	rv := reflect.ValueOf(rec)
	if !rv.IsValid() {
		return rec
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return rec
		}

		cp := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			cp.SetMapIndex(iter.Key(), iter.Value())
		}

		return cp.Interface().(T)

	case reflect.Pointer:
		if rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
			return rec
		}

		cp := reflect.New(rv.Elem().Type())
		cp.Elem().Set(rv.Elem())

		return cp.Interface().(T)
	}

	return rec
}
