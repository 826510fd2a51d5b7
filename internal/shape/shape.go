package shape

import (
	"go/ast"
	"go/types"

	"fromremote/internal/common"
)

// Kind is the conversion combinator of a field.
type Kind int

const (
	Direct Kind = iota
	Sequence
	AssociativeMap
	Monadic
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Direct:
		return "direct"
	case Sequence:
		return "sequence"
	case AssociativeMap:
		return "map"
	case Monadic:
		return "monadic"
	default:
		return common.UnknownStr
	}
}

// MonadicKind distinguishes optional wrappers from fallible ones.
type MonadicKind int

const (
	NotMonadic MonadicKind = iota
	Optional
	Fallible
)

// String returns a human-readable representation of the MonadicKind.
func (k MonadicKind) String() string {
	switch k {
	case NotMonadic:
		return "none"
	case Optional:
		return "optional"
	case Fallible:
		return "fallible"
	default:
		return common.UnknownStr
	}
}

// Head is the concrete Go construct a shape was recognised from.
type Head int

const (
	HeadNone Head = iota
	HeadSlice
	HeadArray
	HeadMap
	HeadPointer
	HeadNull
	HeadResult
)

// String returns a human-readable representation of the Head.
func (h Head) String() string {
	switch h {
	case HeadNone:
		return "none"
	case HeadSlice:
		return "slice"
	case HeadArray:
		return "array"
	case HeadMap:
		return "map"
	case HeadPointer:
		return "pointer"
	case HeadNull:
		return "Null"
	case HeadResult:
		return "Result"
	default:
		return common.UnknownStr
	}
}

// Shape is the classification of one type expression.
type Shape struct {
	Kind  Kind
	Head  Head
	Monad MonadicKind
	// Type is the classified expression itself.
	Type ast.Expr
	// Elem is the element type of a Sequence or the inner type of a Monadic.
	Elem ast.Expr
	// Key and Value are the entry types of an AssociativeMap.
	Key   ast.Expr
	Value ast.Expr
	// Len is the length expression of an array.
	Len ast.Expr
}

// String returns the shape in a compact notation such as "sequence<string>".
func (s Shape) String() string {
	switch s.Kind {
	case Sequence:
		return "sequence<" + exprString(s.Elem) + ">"
	case AssociativeMap:
		return "map<" + exprString(s.Key) + ", " + exprString(s.Value) + ">"
	case Monadic:
		return s.Monad.String() + "<" + exprString(s.Elem) + ">"
	default:
		return "direct"
	}
}

// TypeString returns the Go spelling of the classified type.
func (s Shape) TypeString() string {
	return exprString(s.Type)
}

// ElemString returns the Go spelling of the element or inner type.
func (s Shape) ElemString() string {
	return exprString(s.Elem)
}

// KeyString returns the Go spelling of the map key type.
func (s Shape) KeyString() string {
	return exprString(s.Key)
}

// ValueString returns the Go spelling of the map value type.
func (s Shape) ValueString() string {
	return exprString(s.Value)
}

// LenString returns the Go spelling of the array length.
func (s Shape) LenString() string {
	return exprString(s.Len)
}

func exprString(e ast.Expr) string {
	if e == nil {
		return ""
	}

	return types.ExprString(e)
}
