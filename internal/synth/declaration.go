package synth

import (
	"github.com/cockroachdb/errors"

	"fromremote/internal/common"
	"fromremote/internal/model"
)

// Declaration synthesizes the procedure converting remote into decl.
func (s *Synthesizer) Declaration(decl model.Declaration, remote model.RemoteRef) (Procedure, error) {
	p := Procedure{
		Name:   ProcedureName(decl.Name, remote, false),
		Local:  decl.Name,
		Remote: remote,
		Kind:   decl.Kind,
		Style:  decl.EnumStyle,
	}

	switch decl.Kind {
	case model.KindStruct:
		if len(decl.Members) == 0 {
			return Procedure{}, errors.Wrapf(ErrUnsupportedUnitStruct, "%s has no body", decl.Name)
		}

		if len(decl.Members) > 1 {
			return Procedure{}, errors.AssertionFailedf("struct %s has %d bodies", decl.Name, len(decl.Members))
		}

		mc, err := s.Member(remote, decl.Name, decl.Members[0], false)
		if err != nil {
			return Procedure{}, err
		}

		p.Struct = &mc

	case model.KindEnum:
		for _, m := range decl.Members {
			if decl.EnumStyle == model.EnumConst && m.Fields.Kind != model.FieldsUnit {
				return Procedure{}, errors.WithHint(
					errors.Wrapf(ErrUnsupportedDeclarationKind, "constant variant %s carries fields", decl.VariantName(m)),
					"use an interface with variant types for variants that carry data",
				)
			}

			rv := remote.Variant(m.Name)

			mc, err := s.Member(rv, decl.VariantName(m), m, true)
			if err != nil {
				return Procedure{}, errors.Wrapf(err, "variant %s", m.Name)
			}

			p.Arms = append(p.Arms, Arm{
				LocalVariant:  decl.VariantName(m),
				RemoteVariant: rv.String(),
				Member:        mc,
			})
		}

	default:
		return Procedure{}, errors.WithHint(
			errors.Wrapf(ErrUnsupportedDeclarationKind, "%s is %s", decl.Name, decl.Kind),
			"only structs, defined types and enums can be converted",
		)
	}

	return p, nil
}

// ProcedureName returns the generated function name for a (local, remote)
// pair. qualify adds the remote package name, used when two remotes of one
// declaration share a type name.
func ProcedureName(local string, remote model.RemoteRef, qualify bool) string {
	if qualify && remote.Qualifier != "" {
		return local + "From" + common.UpperFirst(remote.Qualifier) + remote.Name
	}

	return local + "From" + remote.Name
}
