package synth

import (
	"fromremote/internal/shape"
)

// Field synthesizes the conversion of one remote field value. The shape is
// taken from the local field type; remoteType, when known, only supplies
// the remote side of the element conversions.
func Field(b Binding, remoteType string) FieldConversion {
	fc := FieldConversion{Field: b.Field, Binding: b}

	local, err := shape.Parse(b.Field.Type)
	if err != nil {
		// Unparsable types are converted as a whole, like any unknown type.
		fc.Shape = shape.Shape{Kind: shape.Direct}
		fc.Elem = Conversion{Local: b.Field.Type, Remote: remoteType}

		return fc
	}

	fc.Shape = local
	remote := remoteShape(remoteType, local)
	fc.RemoteShape = remote

	switch local.Kind {
	case shape.Sequence, shape.Monadic:
		fc.Elem = Conversion{Local: local.ElemString(), Remote: remote.ElemString()}
	case shape.AssociativeMap:
		fc.Key = Conversion{Local: local.KeyString(), Remote: remote.KeyString()}
		fc.Value = Conversion{Local: local.ValueString(), Remote: remote.ValueString()}
	default:
		fc.Elem = Conversion{Local: b.Field.Type, Remote: remoteType}
	}

	return fc
}

// remoteShape classifies the remote field type. It returns the zero Shape
// when the type is unknown or its shape differs from the local one.
func remoteShape(typ string, local shape.Shape) shape.Shape {
	if typ == "" {
		return shape.Shape{}
	}

	s, err := shape.Parse(typ)
	if err != nil || s.Kind != local.Kind || s.Monad != local.Monad {
		return shape.Shape{}
	}

	return s
}
