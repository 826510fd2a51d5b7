package synth

import (
	"strconv"

	"github.com/cockroachdb/errors"

	"fromremote/internal/model"
)

// Member synthesizes the destructure and construct pair for one struct body
// (isEnum false) or one enum variant (isEnum true). remote is the Go type
// being destructured and local the Go type being constructed.
func (s *Synthesizer) Member(
	remote model.RemoteRef,
	local string,
	m model.Member,
	isEnum bool,
) (MemberConversion, error) {
	mc := MemberConversion{
		Local:  local,
		Remote: remote.String(),
		Fields: m.Fields.Kind,
		Layout: m.Layout,
	}

	source := SourceVar
	if isEnum {
		source = VariantVar
	}

	switch m.Fields.Kind {
	case model.FieldsUnit:
		if !isEnum {
			return MemberConversion{}, errors.WithHint(
				errors.Wrapf(ErrUnsupportedUnitStruct, "%s has no fields", local),
				"declare at least one field, or model the type as an enum variant",
			)
		}

		return mc, nil

	case model.FieldsNamed:
		for _, f := range m.Fields.Fields {
			mc.Bindings = append(mc.Bindings, Binding{
				Name:   f.Name,
				Field:  f,
				Access: source + "." + f.Name,
			})
		}

	case model.FieldsPositional:
		for i, f := range m.Fields.Fields {
			b := Binding{Name: PositionalBinding(i), Field: f, Access: source}
			if m.Layout == model.LayoutTuple {
				b.Access = source + "[" + strconv.Itoa(i) + "]"
			}

			mc.Bindings = append(mc.Bindings, b)
		}

	default:
		return MemberConversion{}, errors.AssertionFailedf("member %s: unknown field set kind %s", local, m.Fields.Kind)
	}

	for _, b := range mc.Bindings {
		mc.Values = append(mc.Values, Field(b, s.remoteFieldType(remote, b.Field)))
	}

	return mc, nil
}

// PositionalBinding returns the binding name of position i. Names only need
// to be unique within one member.
func PositionalBinding(i int) string {
	return "_" + strconv.Itoa(i)
}

func (s *Synthesizer) remoteFieldType(remote model.RemoteRef, f model.Field) string {
	if s.opts.Remote == nil {
		return ""
	}

	typ, ok := s.opts.Remote.FieldType(remote, f)
	if !ok {
		return ""
	}

	return typ
}
