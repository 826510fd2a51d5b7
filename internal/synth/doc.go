// Package synth derives conversion procedures from the declaration model.
//
// Synthesis runs top-down: All fans a declaration out over its remote
// counterparts, Declaration builds one procedure per remote, Member builds
// the destructure and construct halves for a struct body or enum variant,
// and Field picks the combinator for one field from its shape.
//
// The result is a small intermediate representation (Procedure) that the
// emitter in internal/gen renders to Go source. Synthesis is pure: the same
// declaration always yields the same procedures.
package synth
