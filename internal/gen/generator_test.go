package gen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fromremote/internal/model"
	"fromremote/internal/synth"
)

const remotePath = "example.com/remote"

func remote(name string) model.RemoteRef {
	return model.RemoteRef{Qualifier: "remote", Path: remotePath, Name: name}
}

func named(fields ...string) model.FieldSet {
	fs := model.FieldSet{Kind: model.FieldsNamed}
	for i := 0; i < len(fields); i += 2 {
		fs.Fields = append(fs.Fields, model.Field{Name: fields[i], Index: i / 2, Type: fields[i+1]})
	}

	return fs
}

func positional(types ...string) model.FieldSet {
	fs := model.FieldSet{Kind: model.FieldsPositional}
	for i, typ := range types {
		fs.Fields = append(fs.Fields, model.Field{Index: i, Type: typ})
	}

	return fs
}

// remoteTypes answers FieldType from a table keyed by "Type.Field".
type remoteTypes map[string]string

func (r remoteTypes) FieldType(member model.RemoteRef, f model.Field) (string, bool) {
	typ, ok := r[member.Name+"."+f.Label()]
	return typ, ok
}

func synthesize(t *testing.T, remotes synth.RemoteTypes, decls ...model.Declaration) []synth.Result {
	t.Helper()

	results := make([]synth.Result, 0, len(decls))

	for _, d := range decls {
		procs, err := synth.All(d, synth.Options{Remote: remotes})
		require.NoError(t, err, d.Name)

		results = append(results, synth.Result{Decl: d, Procedures: procs})
	}

	return results
}

func generate(t *testing.T, results []synth.Result) string {
	t.Helper()

	cfg := DefaultGeneratorConfig()
	cfg.PackageName = "local"

	files, err := NewGenerator(cfg).Generate(results)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, DefaultFilename, files[0].Filename)

	src := string(files[0].Content)

	_, err = parser.ParseFile(token.NewFileSet(), files[0].Filename, src, parser.ParseComments)
	require.NoError(t, err, src)

	return src
}

func fooDecl(fields model.FieldSet, remotes ...model.RemoteRef) model.Declaration {
	return model.Declaration{
		Name:      "Foo",
		Kind:      model.KindStruct,
		Annotated: true,
		Remotes:   remotes,
		Members:   []model.Member{{Name: "Foo", Fields: fields}},
		Imports:   []model.Import{{Path: remotePath}},
	}
}

func TestGenerate_NamedStruct(t *testing.T) {
	results := synthesize(t, remoteTypes{"Bar.Bar": "uint64", "Bar.Fizz": "[]string"},
		fooDecl(named("Bar", "uint64", "Fizz", "[]string"), remote("Bar")))

	src := generate(t, results)

	assert.True(t, strings.HasPrefix(src, DefaultHeader), src)
	assert.Contains(t, src, "package local")
	assert.Contains(t, src, `"example.com/remote"`)
	assert.Contains(t, src, "// FooFromBar converts a remote.Bar into a Foo.")
	assert.Contains(t, src, "func FooFromBar(other remote.Bar) Foo {")
	assert.Regexp(t, `Bar:\s+other\.Bar,`, src)
	assert.Contains(t, src, "if other.Fizz == nil {")
	assert.Contains(t, src, "out := make([]string, len(other.Fizz))")
	assert.Contains(t, src, "out[i] = elem")
	assert.NotContains(t, src, `"fmt"`)
}

func TestGenerate_Shapes(t *testing.T) {
	decl := fooDecl(named(
		"Arr", "[4]int64",
		"Tags", "map[string]Inner",
		"Score", "*int64",
		"Seen", "sql.Null[int64]",
		"Last", "fromremote.Result[Inner]",
		"Raw", "int64",
	), remote("Bar"))
	decl.Imports = append(decl.Imports,
		model.Import{Path: "database/sql"},
		model.Import{Path: "fromremote"})

	inner := model.Declaration{
		Name:      "Inner",
		Kind:      model.KindStruct,
		Annotated: true,
		Remotes:   []model.RemoteRef{remote("Inner")},
		Members:   []model.Member{{Name: "Inner", Fields: named("N", "int")}},
		Imports:   []model.Import{{Path: remotePath}},
	}

	results := synthesize(t, remoteTypes{
		"Bar.Arr":   "[4]int32",
		"Bar.Tags":  "map[string]remote.Inner",
		"Bar.Score": "*int32",
		"Bar.Seen":  "sql.Null[int32]",
		"Bar.Last":  "fromremote.Result[remote.Inner]",
		"Bar.Raw":   "int64",
	}, decl, inner)

	src := generate(t, results)

	assert.Contains(t, src, "var out [4]int64")
	assert.Contains(t, src, "for i := range min(len(out), len(other.Arr)) {")
	assert.Contains(t, src, "out[i] = int64(other.Arr[i])")

	assert.Contains(t, src, "out := make(map[string]Inner, len(other.Tags))")
	assert.Contains(t, src, "out[key] = InnerFromInner(val)")

	assert.Contains(t, src, "if other.Score == nil {")
	assert.Contains(t, src, "val := int64(*other.Score)")
	assert.Contains(t, src, "return &val")

	assert.Contains(t, src, "if !other.Seen.Valid {")
	assert.Contains(t, src, "return sql.Null[int64]{V: int64(other.Seen.V), Valid: true}")

	assert.Contains(t, src, "if other.Last.Err != nil {")
	assert.Contains(t, src, "return fromremote.Result[Inner]{Value: InnerFromInner(other.Last.Value)}")

	assert.Regexp(t, `Raw:\s+other\.Raw,`, src)
	assert.Contains(t, src, "func InnerFromInner(other remote.Inner) Inner {")
}

func TestGenerate_SumEnum(t *testing.T) {
	fizz := model.Declaration{
		Name:      "Fizz",
		Kind:      model.KindEnum,
		EnumStyle: model.EnumSum,
		Annotated: true,
		Remotes:   []model.RemoteRef{remote("Buzz")},
		Members: []model.Member{
			{Name: "A", Fields: positional("uint64", "uint64"), Layout: model.LayoutTuple},
			{Name: "B", Fields: positional("string"), Layout: model.LayoutNewtype},
			{Name: "D", Fields: named("X", "uint16", "Y", "uint32")},
			{Name: "E"},
		},
		Imports: []model.Import{{Path: remotePath}},
	}

	src := generate(t, synthesize(t, nil, fizz))

	assert.Contains(t, src, `"fmt"`)
	assert.Contains(t, src, "func FizzFromBuzz(other remote.Buzz) Fizz {")
	assert.Contains(t, src, "switch variant := other.(type) {")
	assert.Contains(t, src, "case nil:")
	assert.Contains(t, src, "case remote.BuzzA:")
	assert.Contains(t, src, "return FizzA{uint64(variant[0]), uint64(variant[1])}")
	assert.Contains(t, src, "return FizzB(string(variant))")
	assert.Regexp(t, `X:\s+uint16\(variant\.X\),`, src)
	assert.Contains(t, src, "return FizzE{}")
	assert.Contains(t, src, `panic(fmt.Sprintf("fromremote: FizzFromBuzz: unexpected variant %T", other))`)
}

func TestGenerate_UnitOnlySumEnumDoesNotBind(t *testing.T) {
	decl := model.Declaration{
		Name:      "State",
		Kind:      model.KindEnum,
		EnumStyle: model.EnumSum,
		Annotated: true,
		Remotes:   []model.RemoteRef{remote("Status")},
		Members:   []model.Member{{Name: "On"}, {Name: "Off"}},
		Imports:   []model.Import{{Path: remotePath}},
	}

	src := generate(t, synthesize(t, nil, decl))

	assert.Contains(t, src, "switch other.(type) {")
	assert.NotContains(t, src, "variant :=")
	assert.Contains(t, src, "return StateOff{}")
}

func TestGenerate_ConstEnum(t *testing.T) {
	decl := model.Declaration{
		Name:      "Color",
		Kind:      model.KindEnum,
		EnumStyle: model.EnumConst,
		Annotated: true,
		Remotes:   []model.RemoteRef{remote("Colour")},
		Members:   []model.Member{{Name: "Red"}, {Name: "Green"}},
		Imports:   []model.Import{{Path: remotePath}},
	}

	src := generate(t, synthesize(t, nil, decl))

	assert.Contains(t, src, "switch other {")
	assert.Contains(t, src, "case remote.ColourRed:")
	assert.Contains(t, src, "return ColorRed\n")
	assert.Contains(t, src, `panic(fmt.Sprintf("fromremote: ColorFromColour: unexpected value %v", other))`)
}

func TestGenerate_MultipleRemotes(t *testing.T) {
	results := synthesize(t, nil,
		fooDecl(named("Bar", "uint64"), remote("Bar"), remote("Pook")))

	src := generate(t, results)

	assert.Contains(t, src, "func FooFromBar(other remote.Bar) Foo {")
	assert.Contains(t, src, "func FooFromPook(other remote.Pook) Foo {")
	assert.Less(t, strings.Index(src, "FooFromBar("), strings.Index(src, "FooFromPook("))
}

func TestGenerate_NestedFallsBackToFirstRemote(t *testing.T) {
	inner := model.Declaration{
		Name:      "Inner",
		Kind:      model.KindStruct,
		Annotated: true,
		Remotes:   []model.RemoteRef{remote("Inner")},
		Members:   []model.Member{{Name: "Inner", Fields: named("N", "int")}},
		Imports:   []model.Import{{Path: remotePath}},
	}

	// The remote field type is unknown, so the nested conversion converts
	// into the first remote of Inner before calling its procedure.
	results := synthesize(t, nil, fooDecl(named("In", "Inner"), remote("Bar")), inner)

	src := generate(t, results)

	assert.Regexp(t, `In:\s+InnerFromInner\(remote\.Inner\(other\.In\)\),`, src)
}

func TestGenerate_NoComments(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.PackageName = "local"
	cfg.GenerateComments = false

	files, err := NewGenerator(cfg).Generate(
		synthesize(t, nil, fooDecl(named("Bar", "uint64"), remote("Bar"))))
	require.NoError(t, err)
	require.Len(t, files, 1)

	assert.NotContains(t, string(files[0].Content), "converts a")
}

func TestGenerate_Empty(t *testing.T) {
	files, err := NewGenerator(DefaultGeneratorConfig()).Generate(nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGenerate_Deterministic(t *testing.T) {
	results := synthesize(t, nil, fooDecl(named("Bar", "uint64"), remote("Bar"), remote("Pook")))

	assert.Equal(t, generate(t, results), generate(t, results))
}

func TestConversion(t *testing.T) {
	assert.Equal(t, "int64(x)", conversion("int64", "x"))
	assert.Equal(t, "(*int64)(x)", conversion("*int64", "x"))
	assert.Equal(t, "(func())(x)", conversion("func()", "x"))
	assert.Equal(t, "(chan int)(x)", conversion("chan int", "x"))
}

func TestResolver_Convert(t *testing.T) {
	r := newResolver(synthesize(t, nil, fooDecl(named("Bar", "uint64"), remote("Bar"), remote("Pook"))))

	assert.Equal(t, "FooFromPook(x)", r.convert(synth.Conversion{Local: "Foo", Remote: "remote.Pook"}, "x"))
	assert.Equal(t, "FooFromBar(remote.Bar(x))", r.convert(synth.Conversion{Local: "Foo"}, "x"))
	assert.Equal(t, "x", r.convert(synth.Conversion{Local: "string", Remote: "string"}, "x"))
	assert.Equal(t, "string(x)", r.convert(synth.Conversion{Local: "string"}, "x"))
}

func TestWriteFiles_AndStale(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	files := []GeneratedFile{{Filename: "a_gen.go", Content: []byte("package a\n")}}

	stale, err := Stale(files, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_gen.go"}, stale)

	require.NoError(t, WriteFiles(files, dir))

	stale, err = Stale(files, dir)
	require.NoError(t, err)
	assert.Empty(t, stale)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_gen.go"), []byte("package b\n"), filePerm))

	stale, err = Stale(files, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_gen.go"}, stale)
}

func TestLeftover_AndRemoveFile(t *testing.T) {
	dir := t.TempDir()

	found, err := Leftover(dir, "a_gen.go", DefaultHeader)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_gen.go"), []byte("package a\n"), filePerm))

	found, err = Leftover(dir, "a_gen.go", DefaultHeader)
	require.NoError(t, err)
	assert.False(t, found, "a hand-written file is not ours")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a_gen.go"), []byte(DefaultHeader+"\n\npackage a\n"), filePerm))

	found, err = Leftover(dir, "a_gen.go", DefaultHeader)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, RemoveFile(dir, "a_gen.go"))
	require.NoError(t, RemoveFile(dir, "a_gen.go"))

	_, err = os.Stat(filepath.Join(dir, "a_gen.go"))
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDebugUnformatted(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, writeDebugUnformatted(dir, "x_gen.go", []byte("broken")))

	data, err := os.ReadFile(filepath.Join(dir, "x_gen.unformatted.txt"))
	require.NoError(t, err)
	assert.Equal(t, "broken", string(data))
}
