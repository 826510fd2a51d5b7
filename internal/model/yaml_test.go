package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fizzbuzzYAML = `
package: example.com/local
imports:
  - path: example.com/remote
declarations:
  - name: Foo
    kind: struct
    remotes: [remote.Bar, remote.Pook]
    members:
      - fields:
          - {name: Bar, type: uint64}
          - {name: Fizz, type: "[]string"}
  - name: Fizz
    kind: enum
    remotes: remote.Buzz
    members:
      - name: A
        fields:
          - type: "[2]uint64"
          - type: "*uint64"
        layout: tuple
      - name: B
        fields:
          - type: string
      - name: D
        fields:
          - {name: X, type: uint16}
          - {name: Y, type: uint32}
      - name: E
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(fizzbuzzYAML))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)
	assert.Equal(t, "example.com/local", f.Package)
	require.Len(t, f.Declarations, 2)
	require.NotNil(t, f.Declarations[0].Remotes)
	assert.Equal(t, NameList{"remote.Bar", "remote.Pook"}, *f.Declarations[0].Remotes)
	assert.Equal(t, NameList{"remote.Buzz"}, *f.Declarations[1].Remotes)
}

func TestFile_Build(t *testing.T) {
	f, err := Parse([]byte(fizzbuzzYAML))
	require.NoError(t, err)

	decls, err := f.Build()
	require.NoError(t, err)
	require.Len(t, decls, 2)

	foo := decls[0]
	assert.Equal(t, KindStruct, foo.Kind)
	assert.True(t, foo.Annotated)
	require.Len(t, foo.Remotes, 2)
	assert.Equal(t, "remote.Pook", foo.Remotes[1].String())
	require.Len(t, foo.Members, 1)
	assert.Equal(t, "Foo", foo.Members[0].Name)
	assert.Equal(t, FieldsNamed, foo.Members[0].Fields.Kind)
	assert.Equal(t, "[]string", foo.Members[0].Fields.Fields[1].Type)
	assert.Equal(t, 1, foo.Members[0].Fields.Fields[1].Index)
	assert.Equal(t, []Import{{Path: "example.com/remote"}}, foo.Imports)

	fizz := decls[1]
	assert.Equal(t, KindEnum, fizz.Kind)
	assert.Equal(t, EnumSum, fizz.EnumStyle)
	require.Len(t, fizz.Members, 4)

	a := fizz.Members[0]
	assert.Equal(t, FieldsPositional, a.Fields.Kind)
	assert.Equal(t, LayoutTuple, a.Layout)
	assert.Equal(t, "#1", a.Fields.Fields[1].Label())

	b := fizz.Members[1]
	assert.Equal(t, FieldsPositional, b.Fields.Kind)
	assert.Equal(t, LayoutNewtype, b.Layout)

	assert.Equal(t, FieldsNamed, fizz.Members[2].Fields.Kind)
	assert.Equal(t, FieldsUnit, fizz.Members[3].Fields.Kind)
	assert.Equal(t, "FizzE", fizz.VariantName(fizz.Members[3]))
}

func TestFile_Build_AnnotationForms(t *testing.T) {
	data := `
declarations:
  - name: Missing
    kind: struct
    members: [{fields: [{name: A, type: int}]}]
  - name: Empty
    kind: struct
    remotes: []
    members: [{fields: [{name: A, type: int}]}]
  - name: Unit
    kind: struct
    remotes: Bar
`
	f, err := Parse([]byte(data))
	require.NoError(t, err)

	decls, err := f.Build()
	require.NoError(t, err)
	require.Len(t, decls, 3)

	assert.False(t, decls[0].Annotated)
	assert.True(t, decls[1].Annotated)
	assert.Empty(t, decls[1].Remotes)

	require.Len(t, decls[2].Members, 1)
	assert.Equal(t, FieldsUnit, decls[2].Members[0].Fields.Kind)
}

func TestFile_Build_Errors(t *testing.T) {
	data := `
declarations:
  - name: Mixed
    kind: struct
    remotes: Bar
    members: [{fields: [{name: A, type: int}, {type: string}]}]
  - name: NoType
    kind: struct
    remotes: Bar
    members: [{fields: [{name: A}]}]
  - name: BadRemote
    kind: struct
    remotes: 9Bar
  - name: BadLayout
    kind: enum
    remotes: Bar
    members: [{name: A, layout: newtype, fields: [{type: int}, {type: int}]}]
`
	f, err := Parse([]byte(data))
	require.NoError(t, err)

	_, err = f.Build()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "Mixed")
	assert.Contains(t, msg, "NoType")
	assert.Contains(t, msg, "BadRemote")
	assert.Contains(t, msg, "BadLayout")
}

func TestToFile_RoundTripsDeclarations(t *testing.T) {
	f, err := Parse([]byte(fizzbuzzYAML))
	require.NoError(t, err)

	decls, err := f.Build()
	require.NoError(t, err)

	out, err := Marshal(ToFile(decls))
	require.NoError(t, err)

	again, err := Parse(out)
	require.NoError(t, err)

	rebuilt, err := again.Build()
	require.NoError(t, err)
	assert.Equal(t, decls, rebuilt)
}

func TestNameList_MarshalYAML(t *testing.T) {
	v, err := NameList{"Bar"}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "Bar", v)

	v, err = NameList{"Bar", "Pook"}.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, []string{"Bar", "Pook"}, v)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "struct", KindStruct.String())
	assert.Equal(t, "enum", KindEnum.String())
	assert.Equal(t, "union", KindUnion.String())
	assert.Equal(t, "unknown", KindUnknown.String())
	assert.Equal(t, KindEnum, ParseKind("enum"))
	assert.Equal(t, KindUnknown, ParseKind("class"))
}
