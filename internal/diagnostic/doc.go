// Package diagnostic provides structured errors and warnings for the
// fromremote generator.
//
// Every diagnostic carries a code. Synthesis failures use the names of the
// synthesis error taxonomy (MissingAnnotation, EmptyTargetList,
// UnsupportedDeclarationKind, UnsupportedUnitStruct); the analyzer adds its
// own codes for directives and remote references it cannot resolve.
package diagnostic
