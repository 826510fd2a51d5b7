// Package match finds the closest identifier among candidates. It backs
// the "did you mean" hints of diagnostics about remote names that do not
// exist.
package match
