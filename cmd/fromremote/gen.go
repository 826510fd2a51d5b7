package main

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fromremote/internal/gen"
	"fromremote/internal/model"
)

func newGenCmd(a *app) *cobra.Command {
	var modelPath, outDir string

	cmd := &cobra.Command{
		Use:   "gen [packages...]",
		Short: "Generate conversion functions",
		Long: `Generate conversion functions for every annotated declaration in the
given packages (default: the package in the current directory).

Each package gets one file, fromremote_gen.go by default. A package with
any failing declaration is left untouched.

With --model the declarations are read from a YAML model instead and the
file is written to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelPath != "" {
				return a.genModel(cmd, modelPath, outDir)
			}

			out, written, err := a.runner().Generate(cmd.Context(), patterns(args)...)
			if err != nil {
				return err
			}

			for _, p := range written {
				pterm.Success.Println("wrote " + p)
			}

			for _, p := range out.Removed {
				pterm.Success.Println("removed " + p)
			}

			if len(written) == 0 && len(out.Removed) == 0 && !out.Diagnostics.HasErrors() {
				pterm.Info.Println("no annotated declarations found")
			}

			return report(out.Diagnostics)
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "YAML declaration model to generate from")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory for --model")

	return cmd
}

func (a *app) genModel(cmd *cobra.Command, path, outDir string) error {
	f, err := model.LoadFile(path)
	if err != nil {
		return err
	}

	out, err := a.runner().Model(cmd.Context(), f)
	if err != nil {
		return err
	}

	err = report(out.Diagnostics)
	if err != nil {
		return err
	}

	if len(out.Files) == 0 {
		pterm.Info.Println("no procedures to generate")
		return nil
	}

	if outDir == "-" {
		for _, file := range out.Files {
			_, err := os.Stdout.Write(file.Content)
			if err != nil {
				return errors.Wrap(err, "writing to stdout")
			}
		}

		return nil
	}

	err = gen.WriteFiles(out.Files, outDir)
	if err != nil {
		return err
	}

	for _, file := range out.Files {
		pterm.Success.Println("wrote " + filepath.Join(outDir, file.Filename))
	}

	return nil
}
