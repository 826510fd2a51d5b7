package analyze

import (
	"go/ast"
	"go/types"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"fromremote/internal/common"
	"fromremote/internal/match"
	"fromremote/internal/model"
)

// resolveRemote fills in the import path of ref and checks that it names a
// type. When the remote package is not imported by the declaring file, the
// returned import must be added to the generated file.
func (b *builder) resolveRemote(file *ast.File, ref model.RemoteRef) (model.RemoteRef, *model.Import, error) {
	var imp *model.Import

	switch {
	case ref.IsLocal():
		// Declared in the local package.
	case ref.Path == b.pkg.PkgPath:
		ref.Qualifier, ref.Path = "", ""
	case ref.Path != "":
		if name, ok := b.importName(file, ref.Path); ok {
			ref.Qualifier = name
		} else {
			imp = &model.Import{Path: ref.Path}
		}
	default:
		path, blank, ok := b.importPath(file, ref.Qualifier)
		if !ok {
			return ref, nil, errors.WithHint(
				errors.Newf("package %s is not imported by %s", ref.Qualifier, filepath.Base(b.pkg.Fset.File(file.Pos()).Name())),
				"import the remote package or spell its full import path, e.g. //fromremote:example.com/api.Bar",
			)
		}

		ref.Path = path

		// A blank import only makes the package known; the generated
		// file still has to import it by name.
		if blank {
			imp = &model.Import{Path: path}
		}
	}

	tp := b.pkg.Types
	if ref.Path != "" {
		var err error

		tp, err = b.remotePackage(ref.Path)
		if err != nil {
			return ref, nil, err
		}

		if imp != nil {
			ref.Qualifier = tp.Name()
		}
	}

	if _, ok := tp.Scope().Lookup(ref.Name).(*types.TypeName); !ok {
		err := errors.Newf("%s is not a type declared in %s", ref.Name, tp.Path())
		if hint := match.Hint(ref.Name, typeNames(tp.Scope())); hint != "" {
			err = errors.WithHint(err, hint)
		}

		return ref, nil, err
	}

	b.index.add(tp)

	return ref, imp, nil
}

// importName returns the name path is imported under in file.
func (b *builder) importName(file *ast.File, path string) (string, bool) {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil || p != path {
			continue
		}

		if spec.Name != nil {
			return spec.Name.Name, spec.Name.Name != "_" && spec.Name.Name != "."
		}

		return b.packageName(p), true
	}

	return "", false
}

// importPath returns the path of the import that file refers to as name.
// Blank imports match by package name.
func (b *builder) importPath(file *ast.File, name string) (path string, blank, ok bool) {
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}

		blank = spec.Name != nil && spec.Name.Name == "_"

		local := b.packageName(p)
		if spec.Name != nil && !blank {
			local = spec.Name.Name
		}

		if local == name {
			return p, blank, true
		}
	}

	return "", false, false
}

// packageName returns the declared name of an imported package.
func (b *builder) packageName(path string) string {
	for _, tp := range b.pkg.Types.Imports() {
		if tp.Path() == path {
			return tp.Name()
		}
	}

	return common.PkgAlias(path)
}

// remotePackage returns the type information of a remote package.
func (b *builder) remotePackage(path string) (*types.Package, error) {
	for _, tp := range b.pkg.Types.Imports() {
		if tp.Path() == path {
			return tp, nil
		}
	}

	return b.analyzer.loadRemote(b.ctx, path)
}

// RemoteIndex answers questions about remote declarations of one local
// package. It implements synth.RemoteTypes.
type RemoteIndex struct {
	local *types.Package
	pkgs  map[string]*types.Package
	// names holds explicit import names used by the local package.
	names map[string]string
}

func newRemoteIndex(local *types.Package) *RemoteIndex {
	return &RemoteIndex{
		local: local,
		pkgs:  make(map[string]*types.Package),
		names: make(map[string]string),
	}
}

func (r *RemoteIndex) add(tp *types.Package) {
	r.pkgs[tp.Path()] = tp
}

func (r *RemoteIndex) addImportNames(f *ast.File) {
	for _, spec := range f.Imports {
		if spec.Name == nil || spec.Name.Name == "_" || spec.Name.Name == "." {
			continue
		}

		p, err := strconv.Unquote(spec.Path.Value)
		if err == nil {
			r.names[p] = spec.Name.Name
		}
	}
}

// lookup returns the type a reference names, or nil.
func (r *RemoteIndex) lookup(ref model.RemoteRef) *types.TypeName {
	tp := r.local
	if ref.Path != "" {
		tp = r.pkgs[ref.Path]
	}

	if tp == nil {
		return nil
	}

	tn, _ := tp.Scope().Lookup(ref.Name).(*types.TypeName)

	return tn
}

// FieldType returns the type of field f of the remote member type, spelled
// as the local package would spell it. Named fields are looked up by name,
// tuple positions yield the array element and a newtype yields its
// underlying type.
func (r *RemoteIndex) FieldType(member model.RemoteRef, f model.Field) (string, bool) {
	tn := r.lookup(member)
	if tn == nil {
		return "", false
	}

	switch u := tn.Type().Underlying().(type) {
	case *types.Struct:
		if f.Name == "" {
			return "", false
		}

		for i := range u.NumFields() {
			if u.Field(i).Name() == f.Name {
				return types.TypeString(u.Field(i).Type(), r.qualifier), true
			}
		}

		return "", false

	case *types.Array:
		if f.Name != "" || int64(f.Index) >= u.Len() {
			return "", false
		}

		return types.TypeString(u.Elem(), r.qualifier), true

	default:
		if f.Name != "" || f.Index != 0 {
			return "", false
		}

		return types.TypeString(u, r.qualifier), true
	}
}

// Variants returns the variant names of a remote enum, in source order:
// the suffixes of implementing types for an interface, or of typed
// constants otherwise.
func (r *RemoteIndex) Variants(ref model.RemoteRef) []string {
	tn := r.lookup(ref)
	if tn == nil || tn.Pkg() == nil {
		return nil
	}

	scope := tn.Pkg().Scope()

	var names []string

	if it, ok := tn.Type().Underlying().(*types.Interface); ok {
		for _, v := range typeNamesWithPrefix(scope, tn.Name()) {
			if !v.IsAlias() && !types.IsInterface(v.Type()) && types.Implements(v.Type(), it) {
				names = append(names, strings.TrimPrefix(v.Name(), tn.Name()))
			}
		}

		return names
	}

	for _, c := range constsWithPrefix(scope, tn) {
		names = append(names, strings.TrimPrefix(c.Name(), tn.Name()))
	}

	return names
}

// PointerVariants returns the variant names of a remote sum enum whose
// types implement it only through a pointer.
func (r *RemoteIndex) PointerVariants(ref model.RemoteRef) []string {
	tn := r.lookup(ref)
	if tn == nil || tn.Pkg() == nil {
		return nil
	}

	names := pointerVariants(tn.Pkg().Scope(), tn)
	for i, n := range names {
		names[i] = strings.TrimPrefix(n, tn.Name())
	}

	return names
}

func (r *RemoteIndex) qualifier(p *types.Package) string {
	if p.Path() == r.local.Path() {
		return ""
	}

	if name, ok := r.names[p.Path()]; ok {
		return name
	}

	return p.Name()
}

// Fields returns the field names of a remote struct type in declared
// order. It returns false when ref does not name a struct.
func (r *RemoteIndex) Fields(ref model.RemoteRef) ([]string, bool) {
	tn := r.lookup(ref)
	if tn == nil {
		return nil, false
	}

	st, ok := tn.Type().Underlying().(*types.Struct)
	if !ok {
		return nil, false
	}

	names := make([]string, 0, st.NumFields())
	for i := range st.NumFields() {
		names = append(names, st.Field(i).Name())
	}

	return names, true
}

// Len returns the length of a remote array type.
func (r *RemoteIndex) Len(ref model.RemoteRef) (int64, bool) {
	tn := r.lookup(ref)
	if tn == nil {
		return 0, false
	}

	arr, ok := tn.Type().Underlying().(*types.Array)
	if !ok {
		return 0, false
	}

	return arr.Len(), true
}

// ConstValue returns the exact value of a remote constant.
func (r *RemoteIndex) ConstValue(ref model.RemoteRef) (string, bool) {
	tp := r.local
	if ref.Path != "" {
		tp = r.pkgs[ref.Path]
	}

	if tp == nil {
		return "", false
	}

	c, ok := tp.Scope().Lookup(ref.Name).(*types.Const)
	if !ok {
		return "", false
	}

	return c.Val().ExactString(), true
}

// Has returns true if ref names a type or a constant.
func (r *RemoteIndex) Has(ref model.RemoteRef) bool {
	tp := r.local
	if ref.Path != "" {
		tp = r.pkgs[ref.Path]
	}

	if tp == nil {
		return false
	}

	switch tp.Scope().Lookup(ref.Name).(type) {
	case *types.TypeName, *types.Const:
		return true
	default:
		return false
	}
}

// typeNames returns the type names declared in scope.
func typeNames(scope *types.Scope) []string {
	var names []string

	for _, name := range scope.Names() {
		if _, ok := scope.Lookup(name).(*types.TypeName); ok {
			names = append(names, name)
		}
	}

	return names
}
