package synth

import (
	"strings"

	"fromremote/internal/model"
	"fromremote/internal/shape"
)

// Variable names used by generated procedures.
const (
	// SourceVar holds the incoming remote value.
	SourceVar = "other"
	// VariantVar holds the remote value narrowed to one sum-style variant.
	VariantVar = "variant"
)

// Conversion is one element-level conversion between two types. The
// emitter decides how it is spelled.
type Conversion struct {
	// Local is the target type as written in the local package.
	Local string
	// Remote is the source type, empty when it is not known.
	Remote string
}

// IsZero returns true if the conversion is unused.
func (c Conversion) IsZero() bool {
	return c.Local == "" && c.Remote == ""
}

// Binding names one remote field inside a destructure pattern.
type Binding struct {
	// Name is the field name for named members and _<i> for positional
	// ones.
	Name  string
	Field model.Field
	// Access is the Go expression reading the field from the remote value.
	Access string
}

// FieldConversion converts one remote field value into a local one.
type FieldConversion struct {
	Field   model.Field
	Binding Binding
	// Shape is the shape of the local field type.
	Shape shape.Shape
	// RemoteShape is the shape of the remote field type, or the zero Shape
	// when the remote type is unknown or shaped differently.
	RemoteShape shape.Shape
	// Elem is the whole-value conversion of a Direct field and the element
	// or inner conversion of a Sequence or Monadic one.
	Elem Conversion
	// Key and Value are the entry conversions of an AssociativeMap field.
	Key   Conversion
	Value Conversion
}

// String renders the conversion in a compact, language neutral notation,
// e.g. "collect(map(fizz, convert))".
func (fc FieldConversion) String() string {
	b := fc.Binding.Name

	switch fc.Shape.Kind {
	case shape.Sequence:
		return "collect(map(" + b + ", convert))"
	case shape.AssociativeMap:
		return "collect(map(" + b + ", (convert(k), convert(v))))"
	case shape.Monadic:
		return fc.Shape.Monad.String() + "(" + b + ").map(convert)"
	default:
		return "convert(" + b + ")"
	}
}

// MemberConversion is the destructure and construct pair of one struct
// body or enum variant.
type MemberConversion struct {
	// Local is the Go type constructed, e.g. "Foo" or "FizzA".
	Local string
	// Remote is the Go type destructured, e.g. "remote.Bar".
	Remote string
	Fields model.FieldSetKind
	Layout model.Layout
	// Bindings and Values are index aligned and follow declared order.
	Bindings []Binding
	Values   []FieldConversion
}

// IsUnit returns true if the member carries no fields.
func (m MemberConversion) IsUnit() bool {
	return m.Fields == model.FieldsUnit
}

// Pattern renders the destructure half, e.g. "remote.Bar{Bar, Fizz}".
func (m MemberConversion) Pattern() string {
	names := make([]string, 0, len(m.Bindings))
	for _, b := range m.Bindings {
		names = append(names, b.Name)
	}

	switch m.Fields {
	case model.FieldsNamed:
		return m.Remote + "{" + strings.Join(names, ", ") + "}"
	case model.FieldsPositional:
		return m.Remote + "(" + strings.Join(names, ", ") + ")"
	default:
		return m.Remote
	}
}

// Construct renders the construct half, e.g.
// "Foo{Bar: convert(Bar), Fizz: collect(map(Fizz, convert))}".
func (m MemberConversion) Construct() string {
	parts := make([]string, 0, len(m.Values))

	for _, v := range m.Values {
		if m.Fields == model.FieldsNamed {
			parts = append(parts, v.Field.Name+": "+v.String())
		} else {
			parts = append(parts, v.String())
		}
	}

	switch m.Fields {
	case model.FieldsNamed:
		return m.Local + "{" + strings.Join(parts, ", ") + "}"
	case model.FieldsPositional:
		return m.Local + "(" + strings.Join(parts, ", ") + ")"
	default:
		return m.Local
	}
}

// Arm is one case of an enum dispatch.
type Arm struct {
	// LocalVariant and RemoteVariant are Go spellings, e.g. "FizzA" and
	// "remote.BuzzA".
	LocalVariant  string
	RemoteVariant string
	Member        MemberConversion
}

// Procedure converts one remote type into one local declaration.
type Procedure struct {
	// Name is the generated function name, e.g. "FooFromBar".
	Name   string
	Local  string
	Remote model.RemoteRef
	Kind   model.Kind
	Style  model.EnumStyle
	// Struct is set for struct declarations.
	Struct *MemberConversion
	// Arms is set for enum declarations, one per variant in declared order.
	Arms []Arm
}

// IsEnum returns true if the procedure dispatches over enum variants.
func (p Procedure) IsEnum() bool {
	return p.Kind == model.KindEnum
}

// BindsVariant returns true if any arm reads fields of the narrowed remote
// variant.
func (p Procedure) BindsVariant() bool {
	for _, a := range p.Arms {
		if len(a.Member.Bindings) > 0 {
			return true
		}
	}

	return false
}

// String renders the whole procedure in the compact notation.
func (p Procedure) String() string {
	var sb strings.Builder

	sb.WriteString(p.Name + "(" + SourceVar + " " + p.Remote.String() + ") " + p.Local + " = ")

	if p.Struct != nil {
		sb.WriteString("let " + p.Struct.Pattern() + " = " + SourceVar + " in " + p.Struct.Construct())
		return sb.String()
	}

	sb.WriteString("match " + SourceVar + " {")

	for i, a := range p.Arms {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(" " + a.Member.Pattern() + " => " + a.Member.Construct())
	}

	sb.WriteString(" }")

	return sb.String()
}
