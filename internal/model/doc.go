// Package model defines the read-only declaration model consumed by the
// conversion synthesizer.
//
// A Declaration is a local Go type annotated with one or more remote
// counterparts. It owns either a single Member (struct) or an ordered list
// of Members (enum variants); every Member owns exactly one FieldSet.
//
// Declarations are produced by a front end: the Go analyzer in
// internal/analyze or the YAML loader in this package. Both normalise the
// announced remote names through ParseRemotes, so the synthesizer sees the
// same ordered set whichever form the annotation used.
package model
