package analyze

import (
	"context"
	"fmt"
	"go/ast"
	"go/types"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"fromremote/internal/diagnostic"
	"fromremote/internal/match"
	"fromremote/internal/model"
)

// builder turns annotated type specs of one package into declarations.
type builder struct {
	analyzer *Analyzer
	ctx      context.Context
	pkg      *packages.Package
	specs    map[string]*ast.TypeSpec
	diags    *diagnostic.Diagnostics
	index    *RemoteIndex
}

// declaration builds the model of one candidate. It returns false when the
// declaration cannot take part in generation; the reason is reported as a
// diagnostic.
func (b *builder) declaration(c candidate) (model.Declaration, bool) {
	ts := c.spec
	decl := model.Declaration{
		Name:    ts.Name.Name,
		PkgPath: b.pkg.PkgPath,
		Imports: fileImports(c.file),
		Pos:     b.pos(ts),
	}

	if c.directive.Targets {
		decl.Annotated = true

		refs, err := model.ParseRemotes(c.directive.Names)
		if err != nil {
			b.diags.AddErr(err, diagnostic.CodeInvalidDirective, decl.Name, decl.Pos)
			return model.Declaration{}, false
		}

		ok := true

		for _, ref := range refs {
			resolved, imp, err := b.resolveRemote(c.file, ref)
			if err != nil {
				b.diags.AddErr(err, diagnostic.CodeUnresolvedRemote, decl.Name, decl.Pos)

				ok = false

				continue
			}

			decl.Remotes = append(decl.Remotes, resolved)

			if imp != nil {
				decl.Imports = appendImport(decl.Imports, *imp)
			}
		}

		if !ok {
			return model.Declaration{}, false
		}
	}

	obj, _ := b.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)

	switch {
	case ts.Assign.IsValid():
		decl.Kind = model.KindAlias
	case ts.TypeParams != nil && len(ts.TypeParams.List) > 0:
		decl.Kind = model.KindGeneric
	case obj == nil:
		decl.Kind = model.KindUnknown
	case types.IsInterface(obj.Type()):
		decl.Kind = model.KindEnum
		decl.EnumStyle = model.EnumSum
		decl.Members = b.sumVariants(obj)

		if !b.checkReceivers(decl, obj) {
			return model.Declaration{}, false
		}
	default:
		if consts := b.constVariants(obj); len(consts) > 0 {
			decl.Kind = model.KindEnum
			decl.EnumStyle = model.EnumConst
			decl.Members = consts

			break
		}

		decl.Kind = model.KindStruct
		m := body(ts, obj.Type())
		m.Name = decl.Name
		decl.Members = []model.Member{m}
	}

	if decl.IsEnum() {
		b.checkVariants(decl)
	}

	if (decl.IsStruct() || decl.IsEnum()) && !b.checkRemoteMembers(decl) {
		return model.Declaration{}, false
	}

	return decl, true
}

// checkRemoteMembers reports local fields and variants that the remote
// types lack, since the generated code would read them. It returns false
// when anything is missing.
func (b *builder) checkRemoteMembers(decl model.Declaration) bool {
	ok := true

	fail := func(msg, hint string) {
		err := errors.New(msg)
		if hint != "" {
			err = errors.WithHint(err, hint)
		}

		b.diags.AddErr(err, diagnostic.CodeMissingRemote, decl.Name, decl.Pos)

		ok = false
	}

	for _, r := range decl.Remotes {
		if decl.IsStruct() {
			b.checkFields(r, decl.Members[0], fail)
			continue
		}

		variants := make([]string, 0, len(decl.Members))
		for _, v := range b.index.Variants(r) {
			variants = append(variants, r.Variant(v).Name)
		}

		// Constants sharing a value would be duplicate switch cases.
		values := make(map[string]model.RemoteRef, len(decl.Members))

		for _, m := range decl.Members {
			v := r.Variant(m.Name)
			if !b.index.Has(v) {
				fail(fmt.Sprintf("%s has no remote counterpart %s", decl.VariantName(m), v), match.Hint(v.Name, variants))
				continue
			}

			if decl.EnumStyle == model.EnumSum {
				b.checkFields(v, m, fail)
				continue
			}

			val, ok := b.index.ConstValue(v)
			if !ok {
				continue
			}

			if prev, dup := values[val]; dup {
				fail(fmt.Sprintf("%s reads %s, which has the same value as %s", decl.VariantName(m), v, prev),
					"give the remote constants distinct values or drop one of the local variants")

				continue
			}

			values[val] = v
		}
	}

	return ok
}

// checkFields checks one member against the remote type it is read from.
func (b *builder) checkFields(ref model.RemoteRef, m model.Member, fail func(msg, hint string)) {
	switch m.Fields.Kind {
	case model.FieldsNamed:
		names, isStruct := b.index.Fields(ref)
		if !isStruct {
			fail(fmt.Sprintf("%s is not a struct but the local type has named fields", ref), "")
			return
		}

		have := make(map[string]bool, len(names))
		for _, n := range names {
			have[n] = true
		}

		for _, f := range m.Fields.Fields {
			if !have[f.Name] {
				fail(fmt.Sprintf("%s has no field %s", ref, f.Name), match.Hint(f.Name, names))
			}
		}

	case model.FieldsPositional:
		if m.Layout != model.LayoutTuple {
			return
		}

		n, isArray := b.index.Len(ref)
		if !isArray {
			fail(fmt.Sprintf("%s is not an array but the local type is", ref), "")
			return
		}

		if int64(m.Fields.Len()) > n {
			fail(fmt.Sprintf("%s has %d elements, the local type reads %d", ref, n, m.Fields.Len()), "")
		}

	default:
	}
}

// sumVariants returns the named types of the package that implement iface
// and whose name extends the interface name, in source order.
func (b *builder) sumVariants(iface *types.TypeName) []model.Member {
	it, _ := iface.Type().Underlying().(*types.Interface)

	var objs []*types.TypeName

	for _, tn := range typeNamesWithPrefix(b.pkg.Types.Scope(), iface.Name()) {
		if tn.IsAlias() || types.IsInterface(tn.Type()) || !types.Implements(tn.Type(), it) {
			continue
		}

		objs = append(objs, tn)
	}

	members := make([]model.Member, 0, len(objs))

	for _, tn := range objs {
		spec := b.specs[tn.Name()]
		if spec == nil {
			continue
		}

		m := body(spec, tn.Type())
		m.Name = strings.TrimPrefix(tn.Name(), iface.Name())
		members = append(members, m)
	}

	return members
}

// constVariants returns the typed constants of obj's type whose name
// extends the type name, in source order, as unit variants.
func (b *builder) constVariants(obj *types.TypeName) []model.Member {
	consts := constsWithPrefix(b.pkg.Types.Scope(), obj)

	members := make([]model.Member, 0, len(consts))
	for _, c := range consts {
		members = append(members, model.Member{Name: strings.TrimPrefix(c.Name(), obj.Name())})
	}

	return members
}

// checkReceivers reports variant types that implement a sum enum only
// through a pointer. A type switch on the value type never matches them.
func (b *builder) checkReceivers(decl model.Declaration, iface *types.TypeName) bool {
	ok := true

	report := func(variant, enum string) {
		err := errors.WithHint(
			errors.Newf("%s implements %s only through *%s", variant, enum, variant),
			"declare the methods of "+enum+" on "+variant+" with value receivers",
		)
		b.diags.AddErr(err, diagnostic.CodeUnsupportedVariant, decl.Name, decl.Pos)

		ok = false
	}

	for _, name := range pointerVariants(b.pkg.Types.Scope(), iface) {
		report(name, iface.Name())
	}

	for _, r := range decl.Remotes {
		for _, v := range b.index.PointerVariants(r) {
			report(r.Variant(v).String(), r.String())
		}
	}

	return ok
}

// checkVariants warns about remote variants without a local counterpart.
// They compile but reach the unreachable panic at run time.
func (b *builder) checkVariants(decl model.Declaration) {
	local := make(map[string]bool, len(decl.Members))
	for _, m := range decl.Members {
		local[m.Name] = true
	}

	if len(decl.Members) == 0 {
		b.diags.AddWarning(diagnostic.CodeUnmatchedVariant, "enum has no variants", decl.Name, decl.Pos)
	}

	for _, r := range decl.Remotes {
		for _, v := range b.index.Variants(r) {
			if !local[v] {
				b.diags.AddWarning(diagnostic.CodeUnmatchedVariant,
					"remote variant "+r.Variant(v).String()+" has no local counterpart", decl.Name, decl.Pos)
			}
		}
	}
}

// body builds the member of a struct declaration or sum variant from its
// type spec.
func body(ts *ast.TypeSpec, typ types.Type) model.Member {
	switch t := ast.Unparen(ts.Type).(type) {
	case *ast.StructType:
		fields := structFields(t)
		if len(fields) == 0 {
			return model.Member{Fields: model.FieldSet{Kind: model.FieldsUnit}}
		}

		return model.Member{Fields: model.FieldSet{Kind: model.FieldsNamed, Fields: fields}}

	case *ast.ArrayType:
		if arr, ok := typ.Underlying().(*types.Array); ok && t.Len != nil {
			if arr.Len() == 0 {
				return model.Member{Fields: model.FieldSet{Kind: model.FieldsUnit}}
			}

			elem := types.ExprString(t.Elt)
			fs := model.FieldSet{Kind: model.FieldsPositional}

			for i := range int(arr.Len()) {
				fs.Fields = append(fs.Fields, model.Field{Index: i, Type: elem})
			}

			return model.Member{Fields: fs, Layout: model.LayoutTuple}
		}
	}

	return model.Member{
		Fields: model.FieldSet{
			Kind:   model.FieldsPositional,
			Fields: []model.Field{{Index: 0, Type: types.ExprString(ts.Type)}},
		},
		Layout: model.LayoutNewtype,
	}
}

// structFields flattens a struct's field list in declared order.
func structFields(st *ast.StructType) []model.Field {
	var fields []model.Field

	for _, f := range st.Fields.List {
		typ := types.ExprString(f.Type)

		if len(f.Names) == 0 {
			fields = append(fields, model.Field{Name: embeddedName(f.Type), Index: len(fields), Type: typ})
			continue
		}

		for _, n := range f.Names {
			fields = append(fields, model.Field{Name: n.Name, Index: len(fields), Type: typ})
		}
	}

	return fields
}

func embeddedName(e ast.Expr) string {
	switch t := e.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}

// typeNamesWithPrefix returns the type names of scope that extend prefix,
// in source order.
func typeNamesWithPrefix(scope *types.Scope, prefix string) []*types.TypeName {
	var out []*types.TypeName

	for _, name := range scope.Names() {
		if len(name) <= len(prefix) || !strings.HasPrefix(name, prefix) {
			continue
		}

		if tn, ok := scope.Lookup(name).(*types.TypeName); ok {
			out = append(out, tn)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Pos() < out[j].Pos() })

	return out
}

// pointerVariants returns the names of the types extending iface's name
// that implement it only through a pointer, in source order.
func pointerVariants(scope *types.Scope, iface *types.TypeName) []string {
	it, ok := iface.Type().Underlying().(*types.Interface)
	if !ok {
		return nil
	}

	var out []string

	for _, tn := range typeNamesWithPrefix(scope, iface.Name()) {
		if tn.IsAlias() || types.IsInterface(tn.Type()) || types.Implements(tn.Type(), it) {
			continue
		}

		if types.Implements(types.NewPointer(tn.Type()), it) {
			out = append(out, tn.Name())
		}
	}

	return out
}

// constsWithPrefix returns the constants of obj's exact type that extend
// obj's name, in source order. A constant repeating the value of an
// earlier one is an alias and is left out.
func constsWithPrefix(scope *types.Scope, obj *types.TypeName) []*types.Const {
	var all []*types.Const

	for _, name := range scope.Names() {
		if len(name) <= len(obj.Name()) || !strings.HasPrefix(name, obj.Name()) {
			continue
		}

		if c, ok := scope.Lookup(name).(*types.Const); ok && types.Identical(c.Type(), obj.Type()) {
			all = append(all, c)
		}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Pos() < all[j].Pos() })

	seen := make(map[string]bool, len(all))
	out := all[:0]

	for _, c := range all {
		val := c.Val().ExactString()
		if seen[val] {
			continue
		}

		seen[val] = true
		out = append(out, c)
	}

	return out
}

// fileImports returns the named imports of a file.
func fileImports(f *ast.File) []model.Import {
	imports := make([]model.Import, 0, len(f.Imports))

	for _, spec := range f.Imports {
		path, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		imp := model.Import{Path: path}

		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}

			imp.Name = spec.Name.Name
		}

		imports = append(imports, imp)
	}

	return imports
}

func appendImport(imports []model.Import, imp model.Import) []model.Import {
	for _, have := range imports {
		if have.Path == imp.Path {
			return imports
		}
	}

	return append(imports, imp)
}

// pos returns a short "file:line" location of a node.
func (b *builder) pos(n ast.Node) string {
	p := b.pkg.Fset.Position(n.Pos())

	return filepath.Base(p.Filename) + ":" + strconv.Itoa(p.Line)
}

// posFile returns the file part of a "file:line:col" position.
func posFile(pos string) string {
	for range 2 {
		i := strings.LastIndex(pos, ":")
		if i < 0 {
			break
		}

		if _, err := strconv.Atoi(pos[i+1:]); err != nil {
			break
		}

		pos = pos[:i]
	}

	return pos
}
