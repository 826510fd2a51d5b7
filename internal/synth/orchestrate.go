package synth

import (
	"context"
	"runtime"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/errgroup"

	"fromremote/internal/logger"
	"fromremote/internal/model"
)

// RemoteTypes answers questions about remote declarations. Implementations
// come from the Go analyzer; synthesis works without one.
type RemoteTypes interface {
	// FieldType returns the type of field f of the remote member type, as
	// spelled from the local package.
	FieldType(member model.RemoteRef, f model.Field) (string, bool)
}

// Options configures synthesis.
type Options struct {
	// Remote supplies remote field types. May be nil.
	Remote RemoteTypes
	// Workers bounds concurrent declarations in Package. Zero means
	// GOMAXPROCS.
	Workers int
}

// Synthesizer derives procedures from declarations.
type Synthesizer struct {
	opts Options
}

// New creates a Synthesizer.
func New(opts Options) *Synthesizer {
	return &Synthesizer{opts: opts}
}

// All synthesizes one procedure per remote counterpart of decl, in
// announcement order. Any failure aborts the whole declaration.
func All(decl model.Declaration, opts Options) ([]Procedure, error) {
	return New(opts).All(decl)
}

// All synthesizes one procedure per remote counterpart of decl.
func (s *Synthesizer) All(decl model.Declaration) ([]Procedure, error) {
	if !decl.Annotated {
		return nil, errors.WithHint(
			errors.Wrapf(ErrMissingAnnotation, "%s", decl.Name),
			"name the remote type in the directive, e.g. //fromremote:remote.Bar",
		)
	}

	remotes := uniqueRemotes(decl.Remotes)
	if len(remotes) == 0 {
		return nil, errors.WithHint(
			errors.Wrapf(ErrEmptyTargetList, "%s", decl.Name),
			"list at least one remote type after the directive",
		)
	}

	names, err := procedureNames(decl.Name, remotes)
	if err != nil {
		return nil, err
	}

	procs := make([]Procedure, 0, len(remotes))

	for i, r := range remotes {
		p, err := s.Declaration(decl, r)
		if err != nil {
			return nil, errors.Wrapf(err, "%s from %s", decl.Name, r)
		}

		p.Name = names[i]
		procs = append(procs, p)
	}

	return procs, nil
}

// procedureNames names one procedure per remote. Remotes sharing a type
// name are told apart by package name. Two packages with the same name
// would also clash as imports of the generated file, so they are an
// error.
func procedureNames(local string, remotes []model.RemoteRef) ([]string, error) {
	counts := make(map[string]int, len(remotes))
	for _, r := range remotes {
		counts[r.Name]++
	}

	names := make([]string, len(remotes))
	seen := make(map[string]model.RemoteRef, len(remotes))

	for i, r := range remotes {
		names[i] = ProcedureName(local, r, counts[r.Name] > 1)

		if prev, dup := seen[names[i]]; dup {
			return nil, errors.WithHint(
				errors.Wrapf(ErrAmbiguousRemote, "%s: %s from %q and %s from %q both give %s",
					local, prev, prev.Path, r, r.Path, names[i]),
				"import one of the packages under another name and use that name in the directive",
			)
		}

		seen[names[i]] = r
	}

	return names, nil
}

// uniqueRemotes drops repeated references, keeping the first occurrence.
func uniqueRemotes(refs []model.RemoteRef) []model.RemoteRef {
	seen := make(map[model.RemoteRef]struct{}, len(refs))
	out := make([]model.RemoteRef, 0, len(refs))

	for _, r := range refs {
		if _, dup := seen[r]; dup {
			continue
		}

		seen[r] = struct{}{}
		out = append(out, r)
	}

	return out
}

// Result is the synthesis output of one declaration.
type Result struct {
	Decl       model.Declaration
	Procedures []Procedure
}

// Package synthesizes every declaration independently, running up to
// opts.Workers at once. Results keep declaration order. Failures are
// collected for all declarations and joined; no results are returned when
// any declaration fails.
func Package(ctx context.Context, decls []model.Declaration, opts Options) ([]Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	s := New(opts)
	results := make([]Result, len(decls))
	errs := make([]error, len(decls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, decl := range decls {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			procs, err := s.All(decl)
			if err != nil {
				errs[i] = err
				return nil
			}

			results[i] = Result{Decl: decl, Procedures: procs}

			logger.Logger.Debugw("synthesized declaration",
				"decl", decl.Name,
				"procedures", len(procs))

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return nil, err
	}

	err = errors.Join(errs...)
	if err != nil {
		return nil, err
	}

	return results, nil
}
