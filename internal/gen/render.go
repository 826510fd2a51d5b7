package gen

import (
	"fmt"
	"strings"

	"fromremote/internal/model"
	"fromremote/internal/shape"
	"fromremote/internal/synth"
)

// Closure-local names used by collection and wrapper conversions. Each
// conversion runs in its own closure, so they never clash with the
// caller's names.
const (
	outVar  = "out"
	elemVar = "elem"
	keyVar  = "key"
	valVar  = "val"
)

// target is one generated procedure a local type can be built with.
type target struct {
	name   string
	remote string
}

// resolver decides how element-level conversions are spelled.
type resolver struct {
	// targets maps annotated local type names to their procedures in
	// announcement order.
	targets map[string][]target
}

func newResolver(results []synth.Result) *resolver {
	r := &resolver{targets: make(map[string][]target)}

	for _, res := range results {
		for _, p := range res.Procedures {
			r.targets[p.Local] = append(r.targets[p.Local], target{name: p.Name, remote: p.Remote.String()})
		}
	}

	return r
}

// convert spells the conversion of arg from c.Remote to c.Local:
//   - a generated procedure when c.Local is annotated, preferring the one
//     for c.Remote and falling back to the first announced remote;
//   - arg itself when both types are known and identical;
//   - a Go conversion otherwise.
func (r *resolver) convert(c synth.Conversion, arg string) string {
	if targets, ok := r.targets[c.Local]; ok {
		for _, t := range targets {
			if c.Remote != "" && t.remote == c.Remote {
				return t.name + "(" + arg + ")"
			}
		}

		first := targets[0]

		return first.name + "(" + conversion(first.remote, arg) + ")"
	}

	if c.Remote != "" && c.Remote == c.Local {
		return arg
	}

	return conversion(c.Local, arg)
}

// conversion spells the Go conversion T(x), parenthesising types that
// would otherwise parse differently.
func conversion(typ, arg string) string {
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "<-") ||
		strings.HasPrefix(typ, "func") || strings.HasPrefix(typ, "chan") {
		return "(" + typ + ")(" + arg + ")"
	}

	return typ + "(" + arg + ")"
}

// procedureData renders one procedure.
func (g *Generator) procedureData(p synth.Procedure, r *resolver) procedureData {
	pd := procedureData{
		Name:   p.Name,
		Param:  synth.SourceVar,
		Remote: p.Remote.String(),
		Local:  p.Local,
	}

	if g.config.GenerateComments {
		pd.Doc = fmt.Sprintf("%s converts a %s into a %s.", p.Name, p.Remote, p.Local)
	}

	switch {
	case p.Struct != nil:
		pd.Body = "\treturn " + r.construct(*p.Struct, false)
	case p.Style == model.EnumConst:
		pd.Body = r.constSwitch(p)
	default:
		pd.Body = r.typeSwitch(p)
	}

	return pd
}

// typeSwitch dispatches a sum-style enum over its variant types.
func (r *resolver) typeSwitch(p synth.Procedure) string {
	var sb strings.Builder

	if p.BindsVariant() {
		fmt.Fprintf(&sb, "\tswitch %s := %s.(type) {\n", synth.VariantVar, synth.SourceVar)
	} else {
		fmt.Fprintf(&sb, "\tswitch %s.(type) {\n", synth.SourceVar)
	}

	sb.WriteString("\tcase nil:\n\t\treturn nil\n")

	for _, a := range p.Arms {
		fmt.Fprintf(&sb, "\tcase %s:\n\t\treturn %s\n", a.RemoteVariant, r.construct(a.Member, false))
	}

	sb.WriteString("\t}\n\n")
	fmt.Fprintf(&sb, "\tpanic(fmt.Sprintf(\"fromremote: %s: unexpected variant %%T\", %s))",
		p.Name, synth.SourceVar)

	return sb.String()
}

// constSwitch dispatches a const-style enum over its constants.
func (r *resolver) constSwitch(p synth.Procedure) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "\tswitch %s {\n", synth.SourceVar)

	for _, a := range p.Arms {
		fmt.Fprintf(&sb, "\tcase %s:\n\t\treturn %s\n", a.RemoteVariant, r.construct(a.Member, true))
	}

	sb.WriteString("\t}\n\n")
	fmt.Fprintf(&sb, "\tpanic(fmt.Sprintf(\"fromremote: %s: unexpected value %%v\", %s))",
		p.Name, synth.SourceVar)

	return sb.String()
}

// construct renders the local value of one member. Unit members are the
// bare constant for const-style enums and an empty composite literal
// otherwise.
func (r *resolver) construct(m synth.MemberConversion, constant bool) string {
	values := make([]string, 0, len(m.Values))
	for _, v := range m.Values {
		values = append(values, r.field(v))
	}

	switch m.Fields {
	case model.FieldsNamed:
		var sb strings.Builder

		sb.WriteString(m.Local + "{\n")

		for i, v := range m.Values {
			sb.WriteString(v.Field.Name + ": " + values[i] + ",\n")
		}

		sb.WriteString("}")

		return sb.String()

	case model.FieldsPositional:
		if m.Layout == model.LayoutNewtype {
			return m.Local + "(" + strings.Join(values, ", ") + ")"
		}

		return m.Local + "{" + strings.Join(values, ", ") + "}"

	default:
		if constant {
			return m.Local
		}

		return m.Local + "{}"
	}
}

// field renders the conversion of one field according to its shape.
func (r *resolver) field(fc synth.FieldConversion) string {
	src := fc.Binding.Access
	typ := fc.Shape.TypeString()

	switch fc.Shape.Kind {
	case shape.Sequence:
		return r.sequence(fc, src, typ)
	case shape.AssociativeMap:
		return r.associativeMap(fc, src, typ)
	case shape.Monadic:
		return r.monadic(fc, src, typ)
	default:
		return r.convert(fc.Elem, src)
	}
}

func (r *resolver) sequence(fc synth.FieldConversion, src, typ string) string {
	// A local array keeps the leading elements of a longer source and
	// zero-fills the rest of a shorter one.
	if fc.Shape.Head == shape.HeadArray {
		return closure(typ,
			"var "+outVar+" "+typ,
			"for i := range min(len("+outVar+"), len("+src+")) {",
			"\t"+outVar+"[i] = "+r.convert(fc.Elem, src+"[i]"),
			"}",
			"return "+outVar,
		)
	}

	elem := r.convert(fc.Elem, elemVar)

	lines := make([]string, 0, 8)
	if fc.RemoteShape.Head != shape.HeadArray {
		lines = append(lines, "if "+src+" == nil {", "\treturn nil", "}")
	}

	lines = append(lines,
		outVar+" := make("+typ+", len("+src+"))",
		"for i, "+elemVar+" := range "+src+" {",
		"\t"+outVar+"[i] = "+elem,
		"}",
		"return "+outVar,
	)

	return closure(typ, lines...)
}

func (r *resolver) associativeMap(fc synth.FieldConversion, src, typ string) string {
	return closure(typ,
		"if "+src+" == nil {",
		"\treturn nil",
		"}",
		outVar+" := make("+typ+", len("+src+"))",
		"for "+keyVar+", "+valVar+" := range "+src+" {",
		"\t"+outVar+"["+r.convert(fc.Key, keyVar)+"] = "+r.convert(fc.Value, valVar),
		"}",
		"return "+outVar,
	)
}

func (r *resolver) monadic(fc synth.FieldConversion, src, typ string) string {
	switch fc.Shape.Head {
	case shape.HeadNull:
		return closure(typ,
			"if !"+src+".Valid {",
			"\treturn "+typ+"{}",
			"}",
			"return "+typ+"{V: "+r.convert(fc.Elem, src+".V")+", Valid: true}",
		)

	case shape.HeadResult:
		return closure(typ,
			"if "+src+".Err != nil {",
			"\treturn "+typ+"{Err: "+src+".Err}",
			"}",
			"return "+typ+"{Value: "+r.convert(fc.Elem, src+".Value")+"}",
		)

	default:
		return closure(typ,
			"if "+src+" == nil {",
			"\treturn nil",
			"}",
			valVar+" := "+r.convert(fc.Elem, "*"+src),
			"return &"+valVar,
		)
	}
}

// closure wraps statements in an immediately invoked function returning
// typ.
func closure(typ string, stmts ...string) string {
	var sb strings.Builder

	sb.WriteString("func() " + typ + " {\n")

	for _, s := range stmts {
		sb.WriteString(s + "\n")
	}

	sb.WriteString("}()")

	return sb.String()
}
