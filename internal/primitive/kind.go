// Package primitive classifies conversions between Go basic types.
//
// Element conversions between different basic types are spelled as plain
// Go conversions, which compile for every numeric pair and for integer to
// string. Category tells the pairs that keep every value apart from the
// ones that truncate, wrap or reinterpret.
package primitive

import (
	"github.com/cockroachdb/errors"
)

// Kind is a basic type, or KindNone for anything else.
type Kind int

const (
	KindNone Kind = iota

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
	KindUintptr
	KindFloat32
	KindFloat64
	KindBool
	KindString
	// KindDuration is time.Duration, an int64 underneath.
	KindDuration
)

var names = map[string]Kind{
	"int":     KindInt,
	"int8":    KindInt8,
	"int16":   KindInt16,
	"int32":   KindInt32,
	"rune":    KindInt32,
	"int64":   KindInt64,
	"uint":    KindUint,
	"uint8":   KindUint8,
	"byte":    KindUint8,
	"uint16":  KindUint16,
	"uint32":  KindUint32,
	"uint64":  KindUint64,
	"uintptr": KindUintptr,
	"float32": KindFloat32,
	"float64": KindFloat64,
	"bool":    KindBool,
	"string":  KindString,

	"time.Duration": KindDuration,
}

// FromName returns the kind of a type as written in source, e.g. "int32"
// or "time.Duration". Defined types other than time.Duration are KindNone.
func FromName(typ string) Kind {
	return names[typ]
}

// String returns the Go spelling of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint:
		return "uint"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindUintptr:
		return "uintptr"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindDuration:
		return "time.Duration"
	default:
		return "none"
	}
}

// IsNumber returns true for integer and floating-point kinds.
func (k Kind) IsNumber() bool {
	return k.IsInteger() || k.IsFloat()
}

// IsInteger returns true for signed and unsigned integer kinds.
func (k Kind) IsInteger() bool {
	return k.IsSigned() || k.IsUnsigned()
}

// IsFloat returns true for floating-point kinds.
func (k Kind) IsFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// IsSigned returns true for signed integer kinds.
func (k Kind) IsSigned() bool {
	switch k {
	case KindInt, KindInt8, KindInt16, KindInt32, KindInt64, KindDuration:
		return true
	default:
		return false
	}
}

// IsUnsigned returns true for unsigned integer kinds.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindUint, KindUint8, KindUint16, KindUint32, KindUint64, KindUintptr:
		return true
	default:
		return false
	}
}

// Sizes of int, uint and uintptr. As a source they may hold 64 bits, as a
// target only 32 are guaranteed.
const (
	wordSourceBits = 64
	wordTargetBits = 32
)

// Bits returns the width of a number kind. int, uint and uintptr report
// their widest size; see TargetBits.
func (k Kind) Bits() int {
	switch k {
	case KindInt8, KindUint8:
		return 8
	case KindInt16, KindUint16:
		return 16
	case KindInt32, KindUint32, KindFloat32:
		return 32
	case KindInt64, KindUint64, KindFloat64, KindDuration:
		return 64
	case KindInt, KindUint, KindUintptr:
		return wordSourceBits
	default:
		panic(errors.AssertionFailedf("bits requested for non-number kind %s", k))
	}
}

// TargetBits is Bits with int, uint and uintptr at their narrowest size.
func (k Kind) TargetBits() int {
	switch k {
	case KindInt, KindUint, KindUintptr:
		return wordTargetBits
	default:
		return k.Bits()
	}
}

// mantissaBits is the number of integer bits a float holds exactly.
func (k Kind) mantissaBits() int {
	if k == KindFloat32 {
		return 24
	}

	return 53
}
