// Package fromremote holds the runtime types generated conversions rely
// on.
//
// Generated code lives next to the annotated declarations and is produced
// by the fromremote command:
//
//	// Foo mirrors remote.Bar.
//	//
//	//fromremote:remote.Bar
//	type Foo struct {
//		Bar  uint64
//		Fizz []string
//	}
//
// yields
//
//	func FooFromBar(other remote.Bar) Foo
//
// Fields are converted according to their shape: slices, arrays and maps
// are rebuilt element by element, and pointers, sql.Null and Result keep
// their empty or failed state while converting the value they carry.
package fromremote
