package synth

import (
	"github.com/cockroachdb/errors"
)

// Synthesis failures. Every one of them aborts the whole declaration.
var (
	ErrMissingAnnotation          = errors.New("missing remote annotation")
	ErrEmptyTargetList            = errors.New("remote annotation names no target")
	ErrUnsupportedDeclarationKind = errors.New("unsupported declaration kind")
	ErrUnsupportedUnitStruct      = errors.New("unit structs are not supported")
	ErrAmbiguousRemote            = errors.New("remotes cannot be told apart")
)

// Diagnostic codes, one per failure.
const (
	CodeMissingAnnotation          = "MissingAnnotation"
	CodeEmptyTargetList            = "EmptyTargetList"
	CodeUnsupportedDeclarationKind = "UnsupportedDeclarationKind"
	CodeUnsupportedUnitStruct      = "UnsupportedUnitStruct"
	CodeAmbiguousRemote            = "AmbiguousRemote"
)

// Code returns the diagnostic code of a synthesis error, or "" if err is
// not one of them.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrMissingAnnotation):
		return CodeMissingAnnotation
	case errors.Is(err, ErrEmptyTargetList):
		return CodeEmptyTargetList
	case errors.Is(err, ErrUnsupportedDeclarationKind):
		return CodeUnsupportedDeclarationKind
	case errors.Is(err, ErrUnsupportedUnitStruct):
		return CodeUnsupportedUnitStruct
	case errors.Is(err, ErrAmbiguousRemote):
		return CodeAmbiguousRemote
	default:
		return ""
	}
}
