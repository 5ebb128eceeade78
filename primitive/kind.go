package primitive

import (
	"reflect"
	"time"
)

//go:generate go tool stringer -type=KindEnum -output=kind_string.go

type KindEnum int

const (
	_ KindEnum = iota // skip zero value, use it as a default (invalid) value for KindEnum

	KindInt
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindBool
	KindString
	KindTime
	KindDuration
	KindPrimitiveEnum // named type over any integer, float, boolean or string

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

func (k KindEnum) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

func (k KindEnum) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

func (k KindEnum) IsFloat() bool {
	switch k {
	default:
		return false
	case KindFloat32, KindFloat64:
		return true
	}
}

func (k KindEnum) IsSigned() bool {
	switch k {
	default:
		return false
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64:
		return true
	}
}

func (k KindEnum) IsUnsigned() bool {
	switch k {
	default:
		return false
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
}

var basicTypes = map[reflect.Type]KindEnum{
	reflect.TypeOf(int(0)):           KindInt,
	reflect.TypeOf(int8(0)):          KindInt8,
	reflect.TypeOf(int16(0)):         KindInt16,
	reflect.TypeOf(int32(0)):         KindInt32,
	reflect.TypeOf(int64(0)):         KindInt64,
	reflect.TypeOf(uint(0)):          KindUint,
	reflect.TypeOf(uint8(0)):         KindUint8,
	reflect.TypeOf(uint16(0)):        KindUint16,
	reflect.TypeOf(uint32(0)):        KindUint32,
	reflect.TypeOf(uint64(0)):        KindUint64,
	reflect.TypeOf(float32(0)):       KindFloat32,
	reflect.TypeOf(float64(0)):       KindFloat64,
	reflect.TypeOf(false):            KindBool,
	reflect.TypeOf(""):               KindString,
	reflect.TypeOf(time.Time{}):      KindTime,
	reflect.TypeOf(time.Duration(0)): KindDuration,
}

func FromReflectType(rtype reflect.Type) KindEnum {
	if rtype == nil {
		return 0
	}

	// check if true primitive type
	if k, ok := basicTypes[rtype]; ok {
		return k
	}

	// check if it's a primitive enum type
	if _, ok := BasicType(rtype.Kind()); ok {
		return KindPrimitiveEnum
	}

	return 0
}

// BasicType returns the unnamed Go type of a basic reflect.Kind.
func BasicType(kind reflect.Kind) (reflect.Type, bool) {
	switch kind {
	default:
		return nil, false
	case reflect.Int:
		return reflect.TypeOf(int(0)), true
	case reflect.Int8:
		return reflect.TypeOf(int8(0)), true
	case reflect.Int16:
		return reflect.TypeOf(int16(0)), true
	case reflect.Int32:
		return reflect.TypeOf(int32(0)), true
	case reflect.Int64:
		return reflect.TypeOf(int64(0)), true
	case reflect.Uint:
		return reflect.TypeOf(uint(0)), true
	case reflect.Uint8:
		return reflect.TypeOf(uint8(0)), true
	case reflect.Uint16:
		return reflect.TypeOf(uint16(0)), true
	case reflect.Uint32:
		return reflect.TypeOf(uint32(0)), true
	case reflect.Uint64:
		return reflect.TypeOf(uint64(0)), true
	case reflect.Float32:
		return reflect.TypeOf(float32(0)), true
	case reflect.Float64:
		return reflect.TypeOf(float64(0)), true
	case reflect.Bool:
		return reflect.TypeOf(false), true
	case reflect.String:
		return reflect.TypeOf(""), true
	}
}
