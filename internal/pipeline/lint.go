package pipeline

import (
	"fmt"

	"fromremote/internal/diagnostic"
	"fromremote/internal/primitive"
	"fromremote/internal/shape"
	"fromremote/internal/synth"
)

// lint reports element conversions between basic types that compile to
// something other than a value-preserving conversion, and those that do
// not compile at all.
func lint(results []synth.Result, diags *diagnostic.Diagnostics) {
	for _, r := range results {
		seen := make(map[string]bool)

		for _, p := range r.Procedures {
			for _, m := range members(p) {
				for _, fc := range m.Values {
					for _, c := range conversions(fc) {
						lintConversion(r, m, fc, c, seen, diags)
					}
				}
			}
		}
	}
}

func lintConversion(r synth.Result, m synth.MemberConversion, fc synth.FieldConversion,
	c synth.Conversion, seen map[string]bool, diags *diagnostic.Diagnostics,
) {
	if c.Remote == "" {
		return
	}

	where := m.Local + "." + fc.Field.Label()
	key := where + ":" + c.Remote + ":" + c.Local

	if seen[key] {
		return
	}

	seen[key] = true

	switch primitive.ClassifyNames(c.Remote, c.Local) {
	case primitive.CategoryUnsafeNumber:
		diags.AddWarning(diagnostic.CodeLossyConversion,
			fmt.Sprintf("%s: converting %s to %s may lose information", where, c.Remote, c.Local),
			r.Decl.Name, r.Decl.Pos)

	case primitive.CategoryRune:
		diags.AddWarning(diagnostic.CodeRuneConversion,
			fmt.Sprintf("%s: converting %s to %s yields a rune, not decimal text", where, c.Remote, c.Local),
			r.Decl.Name, r.Decl.Pos)

	case primitive.CategoryNone:
		if primitive.FromName(c.Remote) != primitive.KindNone && primitive.FromName(c.Local) != primitive.KindNone {
			diags.AddError(diagnostic.CodeInconvertible,
				fmt.Sprintf("%s: %s cannot be converted to %s", where, c.Remote, c.Local),
				r.Decl.Name, r.Decl.Pos)
		}

	default:
	}
}

func members(p synth.Procedure) []synth.MemberConversion {
	if p.Struct != nil {
		return []synth.MemberConversion{*p.Struct}
	}

	out := make([]synth.MemberConversion, 0, len(p.Arms))
	for _, a := range p.Arms {
		out = append(out, a.Member)
	}

	return out
}

func conversions(fc synth.FieldConversion) []synth.Conversion {
	if fc.Shape.Kind == shape.AssociativeMap {
		return []synth.Conversion{fc.Key, fc.Value}
	}

	return []synth.Conversion{fc.Elem}
}
