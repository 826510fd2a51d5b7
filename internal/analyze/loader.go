package analyze

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"

	"fromremote/internal/diagnostic"
	"fromremote/internal/logger"
	"fromremote/internal/model"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

// remoteLoadMode is enough to look up declarations of a remote package.
const remoteLoadMode = packages.NeedName | packages.NeedTypes

// Config configures an Analyzer.
type Config struct {
	// Directive is the comment keyword, "fromremote" when empty.
	Directive string
	// Dir is the directory packages are resolved from. Empty means the
	// current directory.
	Dir string
	// Generated is the base name of the generated file. Type errors
	// reported in it are downgraded to warnings, since it is about to be
	// rewritten.
	Generated string
}

// Analyzer loads Go packages and builds declaration models.
type Analyzer struct {
	cfg Config
	// remotes caches packages loaded only to resolve remote references.
	remotes map[string]*types.Package
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(cfg Config) *Analyzer {
	if cfg.Directive == "" {
		cfg.Directive = DefaultDirective
	}

	return &Analyzer{
		cfg:     cfg,
		remotes: make(map[string]*types.Package),
	}
}

// Package is the analysis result of one local package.
type Package struct {
	Name string
	Path string
	Dir  string
	// Files are the absolute paths of the package's Go files.
	Files []string
	// Decls are the annotated declarations in source order.
	Decls []model.Declaration
	// Rejected names annotated declarations dropped because of an error
	// diagnostic. The package must not be generated while any remain.
	Rejected []string
	// Remote answers remote field-type queries for this package.
	Remote *RemoteIndex
}

// Result is the outcome of one Load.
type Result struct {
	Packages    []*Package
	Diagnostics diagnostic.Diagnostics
}

// Load loads the packages matching patterns and builds their declaration
// models. Problems with individual declarations are reported as
// diagnostics; only a failure to run the loader itself is returned as an
// error.
func (a *Analyzer) Load(ctx context.Context, patterns ...string) (*Result, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
		Dir:     a.cfg.Dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	res := &Result{}

	for _, pkg := range pkgs {
		if !a.checkPackage(pkg, &res.Diagnostics) {
			continue
		}

		p := a.processPackage(ctx, pkg, &res.Diagnostics)
		res.Packages = append(res.Packages, p)

		logger.Logger.Debugw("analyzed package",
			"package", p.Path,
			"declarations", len(p.Decls))
	}

	return res, nil
}

// checkPackage reports loader errors and returns false if the package
// cannot be analyzed.
func (a *Analyzer) checkPackage(pkg *packages.Package, diags *diagnostic.Diagnostics) bool {
	ok := pkg.Types != nil && pkg.TypesInfo != nil

	for _, e := range pkg.Errors {
		if a.inGenerated(e) {
			diags.AddWarning(diagnostic.CodePackageError, e.Msg, "", e.Pos)
			continue
		}

		diags.AddError(diagnostic.CodePackageError, e.Msg, "", e.Pos)

		ok = false
	}

	return ok
}

func (a *Analyzer) inGenerated(e packages.Error) bool {
	if a.cfg.Generated == "" || e.Kind != packages.TypeError {
		return false
	}

	return filepath.Base(posFile(e.Pos)) == a.cfg.Generated
}

// candidate is a type declaration carrying the directive.
type candidate struct {
	spec      *ast.TypeSpec
	file      *ast.File
	directive Directive
}

// processPackage extracts annotated declarations from a loaded package.
func (a *Analyzer) processPackage(ctx context.Context, pkg *packages.Package, diags *diagnostic.Diagnostics) *Package {
	p := &Package{
		Name:  pkg.Name,
		Path:  pkg.PkgPath,
		Files: pkg.GoFiles,
	}

	if len(pkg.GoFiles) > 0 {
		p.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	b := &builder{
		analyzer: a,
		ctx:      ctx,
		pkg:      pkg,
		specs:    make(map[string]*ast.TypeSpec),
		diags:    diags,
		index:    newRemoteIndex(pkg.Types),
	}

	var candidates []candidate

	for _, file := range pkg.Syntax {
		b.index.addImportNames(file)

		for _, d := range file.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}

			for _, s := range gd.Specs {
				ts, ok := s.(*ast.TypeSpec)
				if !ok {
					continue
				}

				b.specs[ts.Name.Name] = ts

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}

				dir := ParseDirective(a.cfg.Directive, doc)
				if dir.Present {
					candidates = append(candidates, candidate{spec: ts, file: file, directive: dir})
				}
			}
		}
	}

	for _, c := range candidates {
		decl, ok := b.declaration(c)
		if !ok {
			p.Rejected = append(p.Rejected, c.spec.Name.Name)
			continue
		}

		p.Decls = append(p.Decls, decl)
	}

	p.Remote = b.index

	return p
}

// loadRemote loads a package that the local package does not import.
func (a *Analyzer) loadRemote(ctx context.Context, path string) (*types.Package, error) {
	if tp, ok := a.remotes[path]; ok {
		return tp, nil
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    remoteLoadMode,
		Dir:     a.cfg.Dir,
	}

	pkgs, err := packages.Load(cfg, path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load remote package %s", path)
	}

	if len(pkgs) != 1 || pkgs[0].Types == nil || len(pkgs[0].Errors) > 0 {
		return nil, errors.Newf("remote package %s could not be loaded", path)
	}

	a.remotes[path] = pkgs[0].Types

	return pkgs[0].Types, nil
}
