package main

import (
	"context"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fromremote/internal/logger"
	"fromremote/internal/pipeline"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch [packages...]",
		Short: "Regenerate whenever a Go source file changes",
		Long: `Generate once, then watch the directories of the given packages and
regenerate after every burst of changes until interrupted.

The quiet period is watch.debounce_ms in fromremote.toml.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			pats := patterns(args)
			r := a.runner()

			out, err := a.regenerate(ctx, r, pats)
			if err != nil {
				return err
			}

			dirs := make([]string, 0, len(out.Units))
			for _, u := range out.Units {
				dirs = append(dirs, u.Package.Dir)
			}

			w, err := pipeline.NewWatcher(dirs, time.Duration(a.cfg.Watch.DebounceMs)*time.Millisecond, a.cfg.Output)
			if err != nil {
				return err
			}

			pterm.Info.Printfln("watching %d package(s), press Ctrl+C to stop", len(dirs))

			return w.Run(ctx, func(ctx context.Context) {
				_, err := a.regenerate(ctx, r, pats)
				if err != nil {
					logger.Logger.Errorw("regeneration failed", "error", err)
				}
			})
		},
	}
}

// regenerate runs gen once. Declaration errors are reported but do not
// stop watching.
func (a *app) regenerate(ctx context.Context, r *pipeline.Runner, pats []string) (*pipeline.Outcome, error) {
	out, written, err := r.Generate(ctx, pats...)
	if err != nil {
		return nil, err
	}

	for _, p := range written {
		pterm.Success.Println("wrote " + p)
	}

	for _, p := range out.Removed {
		pterm.Success.Println("removed " + p)
	}

	_ = report(out.Diagnostics)

	return out, nil
}
