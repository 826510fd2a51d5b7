package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"fromremote/internal/model"
	"fromremote/internal/shape"
	"fromremote/internal/synth"
)

type inspectOptions struct {
	yaml       bool
	model      string
	procedures bool
}

func newInspectCmd(a *app) *cobra.Command {
	var opts inspectOptions

	cmd := &cobra.Command{
		Use:   "inspect [packages...]",
		Short: "Show annotated declarations and field shapes",
		Long: `Show the declaration model of the given packages: every annotated
declaration with its remotes, members, fields and the shape each field is
converted with.

  --yaml        print the model as YAML instead of a table
  --model FILE  inspect a YAML model instead of Go packages
  --procedures  also print the synthesized procedures`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.model != "" {
				return a.inspectModel(cmd, opts)
			}

			out, err := a.runner().Run(cmd.Context(), patterns(args)...)
			if err != nil {
				return err
			}

			for _, u := range out.Units {
				if len(u.Package.Decls) == 0 {
					continue
				}

				err := show(u.Package.Path, u.Package.Decls, u.Results, opts)
				if err != nil {
					return err
				}
			}

			return report(out.Diagnostics)
		},
	}

	cmd.Flags().BoolVar(&opts.yaml, "yaml", false, "print the model as YAML")
	cmd.Flags().StringVar(&opts.model, "model", "", "YAML declaration model to inspect")
	cmd.Flags().BoolVarP(&opts.procedures, "procedures", "p", false, "print synthesized procedures")

	return cmd
}

func (a *app) inspectModel(cmd *cobra.Command, opts inspectOptions) error {
	f, err := model.LoadFile(opts.model)
	if err != nil {
		return err
	}

	out, err := a.runner().Model(cmd.Context(), f)
	if err != nil {
		return err
	}

	if len(out.Decls) > 0 {
		err := show(f.Package, out.Decls, out.Results, opts)
		if err != nil {
			return err
		}
	}

	return report(out.Diagnostics)
}

func show(pkg string, decls []model.Declaration, results []synth.Result, opts inspectOptions) error {
	if opts.yaml {
		data, err := model.Marshal(model.ToFile(decls))
		if err != nil {
			return errors.Wrap(err, "marshalling model")
		}

		_, err = os.Stdout.Write(data)

		return errors.Wrap(err, "writing model")
	}

	pterm.DefaultSection.Println(pkg)

	err := pterm.DefaultTable.WithHasHeader().WithData(declTable(decls)).Render()
	if err != nil {
		return errors.Wrap(err, "rendering table")
	}

	if opts.procedures {
		for _, r := range results {
			for _, p := range r.Procedures {
				pterm.Println(p.String())
			}
		}
	}

	return nil
}

// declTable lists one row per field, or per member when it has none.
func declTable(decls []model.Declaration) pterm.TableData {
	data := pterm.TableData{{"Declaration", "Kind", "Remotes", "Member", "Field", "Type", "Shape"}}

	for _, d := range decls {
		kind := d.Kind.String()
		if d.IsEnum() {
			kind += " (" + d.EnumStyle.String() + ")"
		}

		remotes := make([]string, 0, len(d.Remotes))
		for _, r := range d.Remotes {
			remotes = append(remotes, r.String())
		}

		if len(d.Members) == 0 {
			data = append(data, []string{d.Name, kind, strings.Join(remotes, ", "), "", "", "", ""})
		}

		for _, m := range d.Members {
			member := m.Name
			if d.IsEnum() {
				member = d.VariantName(m)
			}

			if m.Fields.Len() == 0 {
				data = append(data, []string{d.Name, kind, strings.Join(remotes, ", "), member, "", "", "unit"})
				continue
			}

			for _, f := range m.Fields.Fields {
				data = append(data, []string{
					d.Name, kind, strings.Join(remotes, ", "), member, f.Label(), f.Type, fieldShape(f.Type),
				})
			}
		}
	}

	return data
}

func fieldShape(typ string) string {
	s, err := shape.Parse(typ)
	if err != nil {
		return shape.Direct.String()
	}

	return s.String()
}
