package gen

import (
	"bytes"
	"path"
	"path/filepath"
	"sort"
	"text/template"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/imports"

	"fromremote/internal/logger"
	"fromremote/internal/model"
	"fromremote/internal/synth"
)

// Defaults for GeneratorConfig.
const (
	DefaultFilename = "fromremote_gen.go"
	DefaultHeader   = "// Code generated by fromremote. DO NOT EDIT."
)

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackageName is the name of the generated package.
	PackageName string
	// OutputDir is the directory where generated files are written.
	OutputDir string
	// Filename is the name of the generated file.
	Filename string
	// Header is the first line of the generated file.
	Header string
	// GenerateComments enables doc comments on generated functions.
	GenerateComments bool
}

// DefaultGeneratorConfig returns the default generator configuration.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Filename:         DefaultFilename,
		Header:           DefaultHeader,
		GenerateComments: true,
	}
}

// Generator generates Go code from synthesized procedures.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.Filename == "" {
		config.Filename = DefaultFilename
	}

	if config.Header == "" {
		config.Header = DefaultHeader
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "fromremote_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Generate renders the synthesis results of one package. It returns no
// files when there is nothing to generate.
func (g *Generator) Generate(results []synth.Result) ([]GeneratedFile, error) {
	var procs []synth.Procedure
	for _, r := range results {
		procs = append(procs, r.Procedures...)
	}

	if len(procs) == 0 {
		return nil, nil
	}

	r := newResolver(results)

	data := &templateData{
		Header:      g.config.Header,
		PackageName: g.config.PackageName,
		Imports:     collectImports(results),
	}

	for _, p := range procs {
		data.Procedures = append(data.Procedures, g.procedureData(p, r))
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "executing template")
	}

	target := filepath.Join(g.config.OutputDir, g.config.Filename)

	formatted, err := imports.Process(target, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		// Best-effort: keep the unformatted code around for debugging.
		if g.config.OutputDir != "" {
			_ = writeDebugUnformatted(g.config.OutputDir, g.config.Filename, buf.Bytes())
		}

		return nil, errors.Wrapf(err, "formatting %s", g.config.Filename)
	}

	logger.Logger.Debugw("rendered package",
		"package", g.config.PackageName,
		"procedures", len(procs),
		"bytes", len(formatted))

	return []GeneratedFile{{Filename: g.config.Filename, Content: formatted}}, nil
}

// importSpec is one import line of the generated file.
type importSpec struct {
	Alias string
	Path  string
}

// collectImports gathers the imports the declaring files used, the remote
// packages, and fmt for enum dispatch. Unused ones are pruned when the
// file is formatted.
func collectImports(results []synth.Result) []importSpec {
	byPath := make(map[string]importSpec)

	add := func(imp model.Import) {
		if imp.Path == "" {
			return
		}

		if _, ok := byPath[imp.Path]; !ok {
			byPath[imp.Path] = importSpec{Alias: imp.Name, Path: imp.Path}
		}
	}

	for _, r := range results {
		for _, p := range r.Procedures {
			if p.Remote.Path != "" && p.Remote.Qualifier != path.Base(p.Remote.Path) {
				add(model.Import{Name: p.Remote.Qualifier, Path: p.Remote.Path})
			}
		}

		for _, imp := range r.Decl.Imports {
			add(imp)
		}

		for _, p := range r.Procedures {
			add(model.Import{Path: p.Remote.Path})

			if p.IsEnum() {
				add(model.Import{Path: "fmt"})
			}
		}
	}

	specs := make([]importSpec, 0, len(byPath))
	for _, imp := range byPath {
		specs = append(specs, imp)
	}

	sort.Slice(specs, func(i, j int) bool {
		return specs[i].Path < specs[j].Path
	})

	return specs
}

// templateData holds all data needed for the file template.
type templateData struct {
	Header      string
	PackageName string
	Imports     []importSpec
	Procedures  []procedureData
}

// procedureData is one rendered procedure.
type procedureData struct {
	Doc    string
	Name   string
	Param  string
	Remote string
	Local  string
	// Body holds the statements of the function, already indented.
	Body string
}

var fileTemplate = template.Must(template.New("file").Parse(`{{.Header}}

package {{.PackageName}}

{{if .Imports}}
import (
{{range .Imports}}	{{if .Alias}}{{.Alias}} {{end}}"{{.Path}}"
{{end}})
{{end}}
{{range .Procedures}}
{{if .Doc}}// {{.Doc}}
{{end}}func {{.Name}}({{.Param}} {{.Remote}}) {{.Local}} {
{{.Body}}
}
{{end}}
`))
