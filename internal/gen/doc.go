// Package gen renders synthesized conversion procedures as Go source.
//
// Generation uses text/template for the file skeleton and
// golang.org/x/tools/imports to format the result and prune unused
// imports. One file is produced per package.
//
// Codegen patterns:
//   - Element conversion: call to another generated procedure, the bare
//     value for identical types, or a Go conversion T(x)
//   - Slice, array and map mapping in an immediately invoked closure
//   - Pointer, sql.Null and Result re-wrapping with the empty case kept
//   - Type switch (interface enums) or value switch (constant enums)
//     ending in an unreachable panic
package gen
