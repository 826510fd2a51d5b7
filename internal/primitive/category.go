package primitive

import (
	"github.com/cockroachdb/errors"
)

// Category is the behaviour of a Go conversion between two kinds.
type Category int

const (
	// CategoryNone means the pair is not two basic kinds, or is not
	// convertible at all.
	CategoryNone Category = iota
	// CategorySafeNumber keeps every value.
	CategorySafeNumber
	// CategoryUnsafeNumber may truncate, wrap or lose precision.
	CategoryUnsafeNumber
	// CategoryRune converts an integer into the UTF-8 encoding of a code
	// point rather than its decimal text.
	CategoryRune
	// CategoryIdentical is the same kind on both sides.
	CategoryIdentical
)

// String returns a human-readable representation of the Category.
func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategorySafeNumber:
		return "safe"
	case CategoryUnsafeNumber:
		return "unsafe"
	case CategoryRune:
		return "rune"
	case CategoryIdentical:
		return "identical"
	default:
		return "unknown"
	}
}

// Classify returns the category of converting from into to.
func Classify(from, to Kind) Category {
	switch {
	case from == KindNone || to == KindNone:
		return CategoryNone
	case from == to:
		return CategoryIdentical
	case from.IsInteger() && to == KindString:
		return CategoryRune
	case !from.IsNumber() || !to.IsNumber():
		return CategoryNone
	case safeNumber(from, to):
		return CategorySafeNumber
	default:
		return CategoryUnsafeNumber
	}
}

// ClassifyNames is Classify over type names as written in source.
func ClassifyNames(from, to string) Category {
	return Classify(FromName(from), FromName(to))
}

// safeNumber reports whether every value of from is exactly representable
// in to.
func safeNumber(from, to Kind) bool {
	switch {
	case from == KindDuration || to == KindDuration:
		// Durations are int64 nanoseconds.
		return safeNumber(asInt64(from), asInt64(to))

	case from.IsFloat():
		return to.IsFloat() && from.Bits() <= to.Bits()

	case to.IsFloat():
		bits := from.Bits()
		if from.IsSigned() {
			bits--
		}

		return bits <= to.mantissaBits()

	case from.IsSigned() && to.IsSigned(), from.IsUnsigned() && to.IsUnsigned():
		return from.Bits() <= to.TargetBits()

	case from.IsUnsigned() && to.IsSigned():
		return from.Bits() < to.TargetBits()

	case from.IsSigned() && to.IsUnsigned():
		return false

	default:
		panic(errors.AssertionFailedf("unhandled number pair %s -> %s", from, to))
	}
}

func asInt64(k Kind) Kind {
	if k == KindDuration {
		return KindInt64
	}

	return k
}
