package shape

import (
	"go/ast"
	"go/parser"

	"github.com/cockroachdb/errors"
)

// rule recognises one head. Rules are tried in table order.
type rule struct {
	head  Head
	kind  Kind
	monad MonadicKind
	// syntax documents the recognised Go spelling.
	syntax string
	match  func(e ast.Expr, s *Shape) bool
}

// table is the closed classification table: sequence-likes first, then
// map-likes, then monadic-likes.
var table = []rule{
	{
		head: HeadSlice, kind: Sequence, syntax: "[]E",
		match: func(e ast.Expr, s *Shape) bool {
			at, ok := e.(*ast.ArrayType)
			if !ok || at.Len != nil {
				return false
			}

			s.Elem = at.Elt

			return true
		},
	},
	{
		head: HeadArray, kind: Sequence, syntax: "[N]E",
		match: func(e ast.Expr, s *Shape) bool {
			at, ok := e.(*ast.ArrayType)
			if !ok || at.Len == nil {
				return false
			}

			s.Elem, s.Len = at.Elt, at.Len

			return true
		},
	},
	{
		head: HeadMap, kind: AssociativeMap, syntax: "map[K]V",
		match: func(e ast.Expr, s *Shape) bool {
			mt, ok := e.(*ast.MapType)
			if !ok {
				return false
			}

			s.Key, s.Value = mt.Key, mt.Value

			return true
		},
	},
	{
		head: HeadPointer, kind: Monadic, monad: Optional, syntax: "*T",
		match: func(e ast.Expr, s *Shape) bool {
			st, ok := e.(*ast.StarExpr)
			if !ok {
				return false
			}

			s.Elem = st.X

			return true
		},
	},
	{
		head: HeadNull, kind: Monadic, monad: Optional, syntax: "Null[T]",
		match: genericHead("Null"),
	},
	{
		head: HeadResult, kind: Monadic, monad: Fallible, syntax: "Result[T]",
		match: genericHead("Result"),
	},
}

// genericHead matches a single-argument instantiation whose type name is
// name, with or without a package qualifier.
func genericHead(name string) func(e ast.Expr, s *Shape) bool {
	return func(e ast.Expr, s *Shape) bool {
		ix, ok := e.(*ast.IndexExpr)
		if !ok || headName(ix.X) != name {
			return false
		}

		s.Elem = ix.Index

		return true
	}
}

func headName(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.Ident:
		return x.Name
	case *ast.SelectorExpr:
		return x.Sel.Name
	default:
		return ""
	}
}

// Classify assigns a shape to a type expression. It never fails: anything
// the table does not recognise is Direct.
func Classify(e ast.Expr) Shape {
	e = ast.Unparen(e)

	for _, r := range table {
		s := Shape{Type: e}
		if r.match(e, &s) {
			s.Kind, s.Head, s.Monad = r.kind, r.head, r.monad
			return s
		}
	}

	return Shape{Kind: Direct, Head: HeadNone, Type: e}
}

// Parse parses a Go type expression and classifies it.
func Parse(typ string) (Shape, error) {
	e, err := ParseType(typ)
	if err != nil {
		return Shape{}, err
	}

	return Classify(e), nil
}

// ParseType parses a Go type expression.
func ParseType(typ string) (ast.Expr, error) {
	e, err := parser.ParseExpr(typ)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing type %q", typ)
	}

	return e, nil
}

// TableEntry describes one row of the classification table.
type TableEntry struct {
	Syntax string
	Head   Head
	Kind   Kind
	Monad  MonadicKind
}

// Table returns the classification table in priority order.
func Table() []TableEntry {
	entries := make([]TableEntry, 0, len(table))
	for _, r := range table {
		entries = append(entries, TableEntry{Syntax: r.syntax, Head: r.head, Kind: r.kind, Monad: r.monad})
	}

	return entries
}
