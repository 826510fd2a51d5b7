package model

import (
	"strconv"

	"fromremote/internal/common"
)

// Kind is the kind of a local declaration.
type Kind int

const (
	KindUnknown Kind = iota
	KindStruct       // struct body, tuple or newtype
	KindEnum         // sealed interface or typed constants
	KindAlias        // type alias (unsupported)
	KindGeneric      // generic type declaration (unsupported)
	KindUnion        // untagged union (unsupported)
)

// String returns a human-readable representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindAlias:
		return "alias"
	case KindGeneric:
		return "generic"
	case KindUnion:
		return "union"
	default:
		return common.UnknownStr
	}
}

// ParseKind converts a kind name back into a Kind. Unknown names map to
// KindUnknown rather than failing; the synthesizer rejects them later.
func ParseKind(s string) Kind {
	switch s {
	case "struct":
		return KindStruct
	case "enum":
		return KindEnum
	case "alias":
		return KindAlias
	case "generic":
		return KindGeneric
	case "union":
		return KindUnion
	default:
		return KindUnknown
	}
}

// EnumStyle selects how an enum is spelled in Go.
type EnumStyle int

const (
	// EnumSum is a sealed interface whose variants are named types.
	EnumSum EnumStyle = iota
	// EnumConst is a defined type whose variants are typed constants.
	EnumConst
)

// String returns a human-readable representation of the EnumStyle.
func (s EnumStyle) String() string {
	switch s {
	case EnumSum:
		return "sum"
	case EnumConst:
		return "const"
	default:
		return common.UnknownStr
	}
}

// FieldSetKind tells unit, positional and named field sets apart.
type FieldSetKind int

const (
	FieldsUnit FieldSetKind = iota
	FieldsPositional
	FieldsNamed
)

// String returns a human-readable representation of the FieldSetKind.
func (k FieldSetKind) String() string {
	switch k {
	case FieldsUnit:
		return "unit"
	case FieldsPositional:
		return "positional"
	case FieldsNamed:
		return "named"
	default:
		return common.UnknownStr
	}
}

// Layout is the Go spelling of a positional member.
type Layout int

const (
	// LayoutTuple is a defined array type: position i is v[i].
	LayoutTuple Layout = iota
	// LayoutNewtype is a defined non-struct type with a single position
	// holding the value itself.
	LayoutNewtype
)

// String returns a human-readable representation of the Layout.
func (l Layout) String() string {
	switch l {
	case LayoutTuple:
		return "tuple"
	case LayoutNewtype:
		return "newtype"
	default:
		return common.UnknownStr
	}
}

// Field is one member field.
type Field struct {
	Name  string // empty for positional fields
	Index int    // declared position, also set for named fields
	Type  string // Go type expression as written in the local package
}

// Label returns the field name, or its position for positional fields.
func (f Field) Label() string {
	if f.Name != "" {
		return f.Name
	}

	return "#" + strconv.Itoa(f.Index)
}

// FieldSet is the ordered field list of a member.
type FieldSet struct {
	Kind   FieldSetKind
	Fields []Field
}

// Len returns the number of fields.
func (fs FieldSet) Len() int {
	return len(fs.Fields)
}

// Member is a struct body or one enum variant.
type Member struct {
	// Name is the declaration name for structs and the variant suffix for
	// enum variants (Fizz + A = FizzA).
	Name   string
	Fields FieldSet
	// Layout only matters for positional field sets.
	Layout Layout
}

// Import is an import visible to the local field type expressions.
type Import struct {
	Name string `yaml:"name,omitempty"` // explicit import name, if any
	Path string `yaml:"path"`
}

// Declaration is a local type that conversions are derived onto.
type Declaration struct {
	Name      string
	PkgPath   string
	Kind      Kind
	EnumStyle EnumStyle
	Members   []Member
	// Annotated is false when conversion was requested without naming any
	// remote counterpart.
	Annotated bool
	Remotes   []RemoteRef
	Imports   []Import
	// Pos is a "file:line" location used in diagnostics.
	Pos string
}

// IsStruct returns true if this is a struct declaration.
func (d *Declaration) IsStruct() bool {
	return d.Kind == KindStruct
}

// IsEnum returns true if this is an enum declaration.
func (d *Declaration) IsEnum() bool {
	return d.Kind == KindEnum
}

// VariantName returns the local Go identifier of an enum variant.
func (d *Declaration) VariantName(m Member) string {
	return d.Name + m.Name
}
