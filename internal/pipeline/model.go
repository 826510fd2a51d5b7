package pipeline

import (
	"context"

	"fromremote/internal/common"
	"fromremote/internal/diagnostic"
	"fromremote/internal/gen"
	"fromremote/internal/model"
	"fromremote/internal/synth"
)

// ModelOutcome is the result of running a YAML declaration model.
type ModelOutcome struct {
	Decls       []model.Declaration
	Results     []synth.Result
	Files       []gen.GeneratedFile
	Diagnostics diagnostic.Diagnostics
}

// Model synthesizes and renders the declarations of a YAML model. Remote
// field types are unknown, so every element conversion is spelled as a Go
// conversion or a call to a generated procedure.
func (r *Runner) Model(ctx context.Context, f *model.File) (*ModelOutcome, error) {
	out := &ModelOutcome{}

	decls, err := f.Build()
	if err != nil {
		out.Diagnostics.AddErr(err, diagnostic.CodeInvalidModel, "", "")
		return out, nil
	}

	out.Decls = decls
	opts := synth.Options{Workers: r.cfg.Workers}

	results, err := synth.Package(ctx, decls, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s := synth.New(opts)
		for _, d := range decls {
			_, err := s.All(d)
			if err != nil {
				out.Diagnostics.AddErr(err, diagnostic.CodeSynthesis, d.Name, d.Pos)
			}
		}

		return out, nil
	}

	out.Results = results

	g := gen.NewGenerator(gen.GeneratorConfig{
		PackageName:      common.PkgAlias(f.Package),
		Filename:         r.cfg.Output,
		Header:           r.cfg.Header,
		GenerateComments: r.cfg.Comments,
	})

	out.Files, err = g.Generate(results)
	if err != nil {
		out.Diagnostics.AddErr(err, diagnostic.CodeSynthesis, "", f.Package)
	}

	return out, nil
}
