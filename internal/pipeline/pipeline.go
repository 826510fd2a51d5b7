// Package pipeline runs analysis, synthesis and rendering over Go packages.
package pipeline

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"fromremote/internal/analyze"
	"fromremote/internal/config"
	"fromremote/internal/diagnostic"
	"fromremote/internal/gen"
	"fromremote/internal/synth"
)

// Unit is the outcome for one package.
type Unit struct {
	Package *analyze.Package
	Results []synth.Result
	// Files is empty when the package has nothing to generate or failed.
	Files []gen.GeneratedFile
	// Failed is set when any declaration of the package failed.
	Failed bool
	// Leftover is set when the package generates nothing but a file from
	// an earlier run is still on disk.
	Leftover bool
}

// Outcome is the result of one Run.
type Outcome struct {
	Units       []Unit
	Diagnostics diagnostic.Diagnostics
	// Removed lists leftover files Generate deleted.
	Removed []string
}

// Runner holds the configuration shared by runs.
type Runner struct {
	cfg *config.Config
	dir string
}

// New creates a Runner resolving patterns relative to dir.
func New(cfg *config.Config, dir string) *Runner {
	return &Runner{cfg: cfg, dir: dir}
}

// Run analyzes the packages matching patterns and renders them. Per
// declaration problems end up in the diagnostics; a package with any
// failing declaration gets no output.
func (r *Runner) Run(ctx context.Context, patterns ...string) (*Outcome, error) {
	a := analyze.NewAnalyzer(analyze.Config{
		Directive: r.cfg.Directive,
		Dir:       r.dir,
		Generated: r.cfg.Output,
	})

	res, err := a.Load(ctx, patterns...)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Diagnostics: res.Diagnostics}

	for _, pkg := range res.Packages {
		unit, err := r.unit(ctx, pkg, &out.Diagnostics)
		if err != nil {
			return nil, err
		}

		out.Units = append(out.Units, unit)
	}

	return out, nil
}

func (r *Runner) unit(ctx context.Context, pkg *analyze.Package, diags *diagnostic.Diagnostics) (Unit, error) {
	unit := Unit{Package: pkg}

	opts := synth.Options{Remote: pkg.Remote, Workers: r.cfg.Workers}

	results, err := synth.Package(ctx, pkg.Decls, opts)
	if err != nil {
		if ctx.Err() != nil {
			return unit, errors.Wrap(ctx.Err(), "synthesis cancelled")
		}

		// Synthesis is pure, so redoing it per declaration attributes the
		// joined failure to each declaration.
		s := synth.New(opts)
		for _, decl := range pkg.Decls {
			_, err := s.All(decl)
			if err != nil {
				diags.AddErr(err, diagnostic.CodeSynthesis, decl.Name, decl.Pos)
			}
		}

		unit.Failed = true

		return unit, nil
	}

	unit.Results = results

	before := len(diags.Errors)
	lint(results, diags)

	if len(diags.Errors) > before || len(pkg.Rejected) > 0 {
		unit.Failed = true
		return unit, nil
	}

	g := gen.NewGenerator(gen.GeneratorConfig{
		PackageName:      pkg.Name,
		OutputDir:        pkg.Dir,
		Filename:         r.cfg.Output,
		Header:           r.cfg.Header,
		GenerateComments: r.cfg.Comments,
	})

	files, err := g.Generate(results)
	if err != nil {
		diags.AddErr(err, diagnostic.CodeSynthesis, "", pkg.Path)
		unit.Failed = true

		return unit, nil
	}

	unit.Files = files

	if len(files) == 0 {
		unit.Leftover, err = gen.Leftover(pkg.Dir, r.filename(), r.header())
		if err != nil {
			return unit, err
		}
	}

	return unit, nil
}

func (r *Runner) filename() string {
	if r.cfg.Output == "" {
		return gen.DefaultFilename
	}

	return r.cfg.Output
}

func (r *Runner) header() string {
	if r.cfg.Header == "" {
		return gen.DefaultHeader
	}

	return r.cfg.Header
}

// Generate runs and writes the output of every package that succeeded.
// It returns the written file paths. Leftover files of packages with
// nothing to generate are deleted.
func (r *Runner) Generate(ctx context.Context, patterns ...string) (*Outcome, []string, error) {
	out, err := r.Run(ctx, patterns...)
	if err != nil {
		return nil, nil, err
	}

	var written []string

	for _, u := range out.Units {
		if u.Leftover {
			err := gen.RemoveFile(u.Package.Dir, r.filename())
			if err != nil {
				return out, written, err
			}

			out.Removed = append(out.Removed, filepath.Join(u.Package.Dir, r.filename()))

			continue
		}

		if u.Failed || len(u.Files) == 0 {
			continue
		}

		err := gen.WriteFiles(u.Files, u.Package.Dir)
		if err != nil {
			return out, written, err
		}

		for _, f := range u.Files {
			written = append(written, filepath.Join(u.Package.Dir, f.Filename))
		}
	}

	return out, written, nil
}

// Check runs and returns the generated files that differ from disk,
// including leftovers that gen would delete.
func (r *Runner) Check(ctx context.Context, patterns ...string) (*Outcome, []string, error) {
	out, err := r.Run(ctx, patterns...)
	if err != nil {
		return nil, nil, err
	}

	var stale []string

	for _, u := range out.Units {
		if u.Failed {
			continue
		}

		if u.Leftover {
			stale = append(stale, filepath.Join(u.Package.Dir, r.filename()))
			continue
		}

		names, err := gen.Stale(u.Files, u.Package.Dir)
		if err != nil {
			return out, stale, err
		}

		for _, n := range names {
			stale = append(stale, filepath.Join(u.Package.Dir, n))
		}
	}

	return out, stale, nil
}
