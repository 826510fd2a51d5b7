// Package analyze loads annotated Go packages and builds the declaration
// model from them.
//
// It uses golang.org/x/tools/go/packages with AST and go/types. A type
// declaration takes part when its doc comment carries the directive:
//
//	//fromremote:remote.Bar,remote.Pook
//	type Foo struct { ... }
//
// Remote names are resolved through the imports of the declaring file.
// The analyzer also answers remote field-type queries for the synthesizer
// (RemoteIndex).
package analyze
