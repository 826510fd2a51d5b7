package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, typ string) Shape {
	t.Helper()

	s, err := Parse(typ)
	require.NoError(t, err)

	return s
}

func TestClassify_Direct(t *testing.T) {
	for _, typ := range []string{
		"uint64", "string", "Foo", "time.Time", "any", "error",
		"func(int) string", "chan int", "struct{}", "interface{ M() }",
		"Pair[int, string]", "List[int]", "Optional[int]",
	} {
		s := mustParse(t, typ)
		assert.Equal(t, Direct, s.Kind, typ)
		assert.Equal(t, HeadNone, s.Head, typ)
		assert.Equal(t, typ, s.TypeString(), typ)
	}
}

func TestClassify_Sequence(t *testing.T) {
	s := mustParse(t, "[]string")
	assert.Equal(t, Sequence, s.Kind)
	assert.Equal(t, HeadSlice, s.Head)
	assert.Equal(t, "string", s.ElemString())
	assert.Equal(t, "sequence<string>", s.String())

	s = mustParse(t, "[4]remote.Bar")
	assert.Equal(t, Sequence, s.Kind)
	assert.Equal(t, HeadArray, s.Head)
	assert.Equal(t, "remote.Bar", s.ElemString())
	assert.Equal(t, "4", s.LenString())
}

func TestClassify_AssociativeMap(t *testing.T) {
	s := mustParse(t, "map[string][]int")
	assert.Equal(t, AssociativeMap, s.Kind)
	assert.Equal(t, HeadMap, s.Head)
	assert.Equal(t, "string", s.KeyString())
	assert.Equal(t, "[]int", s.ValueString())
	assert.Equal(t, "map<string, []int>", s.String())
}

func TestClassify_Monadic(t *testing.T) {
	s := mustParse(t, "*uint64")
	assert.Equal(t, Monadic, s.Kind)
	assert.Equal(t, HeadPointer, s.Head)
	assert.Equal(t, Optional, s.Monad)
	assert.Equal(t, "uint64", s.ElemString())

	s = mustParse(t, "sql.Null[int64]")
	assert.Equal(t, Monadic, s.Kind)
	assert.Equal(t, HeadNull, s.Head)
	assert.Equal(t, Optional, s.Monad)
	assert.Equal(t, "int64", s.ElemString())

	s = mustParse(t, "fromremote.Result[Foo]")
	assert.Equal(t, Monadic, s.Kind)
	assert.Equal(t, HeadResult, s.Head)
	assert.Equal(t, Fallible, s.Monad)
	assert.Equal(t, "fallible<Foo>", s.String())
}

func TestClassify_OnlyOutermostNode(t *testing.T) {
	// A map of sequences is only a map.
	s := mustParse(t, "map[string][]string")
	assert.Equal(t, AssociativeMap, s.Kind)

	// A slice of pointers is only a sequence.
	s = mustParse(t, "[]*Foo")
	assert.Equal(t, Sequence, s.Kind)
	assert.Equal(t, "*Foo", s.ElemString())

	// A pointer to a slice is only monadic.
	s = mustParse(t, "*[]Foo")
	assert.Equal(t, Monadic, s.Kind)
	assert.Equal(t, "[]Foo", s.ElemString())
}

func TestClassify_IgnoresElementType(t *testing.T) {
	pairs := [][2]string{
		{"[]int", "[]map[string]Foo"},
		{"[3]int", "[8]*Foo"},
		{"map[int]int", "map[Foo]*Bar"},
		{"*int", "*[]Foo"},
		{"sql.Null[int]", "Null[Foo]"},
		{"Result[int]", "x.Result[[]Foo]"},
	}

	for _, p := range pairs {
		a, b := mustParse(t, p[0]), mustParse(t, p[1])
		assert.Equal(t, a.Kind, b.Kind, p)
		assert.Equal(t, a.Head, b.Head, p)
		assert.Equal(t, a.Monad, b.Monad, p)
	}
}

func TestClassify_Parenthesised(t *testing.T) {
	s := mustParse(t, "([]int)")
	assert.Equal(t, Sequence, s.Kind)
	assert.Equal(t, "[]int", s.TypeString())
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("map[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parsing type "map["`)
}

func TestTable(t *testing.T) {
	entries := Table()
	require.Len(t, entries, 6)

	// Priority order: sequence-likes, map-likes, monadic-likes.
	kinds := make([]Kind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}

	assert.Equal(t, []Kind{Sequence, Sequence, AssociativeMap, Monadic, Monadic, Monadic}, kinds)
	assert.Equal(t, "Result[T]", entries[5].Syntax)
	assert.Equal(t, Fallible, entries[5].Monad)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "sequence", Sequence.String())
	assert.Equal(t, "map", AssociativeMap.String())
	assert.Equal(t, "monadic", Monadic.String())
	assert.Equal(t, "unknown", Kind(42).String())
	assert.Equal(t, "optional", Optional.String())
	assert.Equal(t, "pointer", HeadPointer.String())
}
