package primitive

import (
	"math"
	"reflect"
	"strconv"
	"strings"

	"record-linker/options"
	"record-linker/utils"
)

// maxExactFloat is the largest magnitude at which every integer is representable by float64.
const maxExactFloat = 1 << 53

// Canonical rewrites a key value into the representation used for index
// lookups. With options.CategoryNone the value is returned unchanged, so
// keys compare with plain Go equality.
func Canonical(v any, allowed options.CategoryEnum) any {
	if v == nil || allowed == options.CategoryNone {
		return v
	}

	rv := reflect.ValueOf(v)
	kind := FromReflectType(rv.Type())

	if kind == KindPrimitiveEnum {
		if !allowed.Has(options.CategoryEnumString) {
			return v
		}

		bt, _ := BasicType(rv.Kind())
		rv = rv.Convert(bt)
		v = rv.Interface()
		kind = FromReflectType(bt)
	}

	numbers := allowed.Has(options.CategoryNumber) || allowed.Has(options.CategoryTextNumber)

	switch {
	case kind == KindString:
		s := rv.String()
		if allowed.Has(options.CategoryTrimSpace) {
			s = strings.TrimSpace(s)
		}

		if allowed.Has(options.CategoryTextNumber) {
			if n, ok := parseNumber(s); ok {
				return n
			}
		}

		if allowed.Has(options.CategoryFoldCase) {
			s = strings.ToLower(s)
		}

		return s

	case kind.IsNumber() && numbers:
		return canonicalNumber(rv, kind)
	}

	return v
}

// Comparable reports whether v can be used as a map key without panicking.
func Comparable(v any) bool {
	if v == nil {
		return true
	}

	return reflect.ValueOf(v).Comparable()
}

func canonicalNumber(rv reflect.Value, kind KindEnum) any {
	switch {
	case kind.IsSigned():
		return rv.Int()
	case kind.IsUnsigned():
		u := rv.Uint()
		if u <= math.MaxInt64 {
			return int64(u)
		}

		return u
	default:
		return canonicalFloat(rv.Float())
	}
}

func canonicalFloat(f float64) any {
	if f == math.Trunc(f) && utils.IsInRange(-maxExactFloat, f, maxExactFloat) {
		return int64(f)
	}

	return f
}

func parseNumber(s string) (any, bool) {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, true
	}

	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u, true
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}

	return canonicalFloat(f), true
}
