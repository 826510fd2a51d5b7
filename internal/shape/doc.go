// Package shape classifies a field's declared Go type into the combinator
// that converts it.
//
// Classification only looks at the outermost node of the type expression:
//
//	[]E, [N]E              Sequence
//	map[K]V                AssociativeMap
//	*T, Null[T]            Monadic (optional)
//	Result[T]              Monadic (fallible)
//	anything else          Direct
//
// Generic heads are matched by identifier, ignoring the package qualifier,
// so sql.Null[T] and Null[T] classify identically. Element types are never
// classified again; the caller emits exactly one element-level conversion
// for them.
package shape
