package main

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [packages...]",
		Short: "Check that generated files are up to date",
		Long: `Regenerate in memory and compare with the files on disk.

Exit codes:
  0 - generated files are up to date
  1 - a declaration failed or the packages could not be loaded
  3 - a generated file is missing or out of date`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, stale, err := a.runner().Check(cmd.Context(), patterns(args)...)
			if err != nil {
				return err
			}

			err = report(out.Diagnostics)
			if err != nil {
				return err
			}

			if len(stale) > 0 {
				for _, p := range stale {
					pterm.Warning.Println("out of date: " + p)
				}

				return errors.WithHint(errors.Mark(errors.Newf("%d file(s) out of date", len(stale)), errStale),
					"run fromremote gen")
			}

			pterm.Success.Println("generated files are up to date")

			return nil
		},
	}
}
