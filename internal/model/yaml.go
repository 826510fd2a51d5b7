package model

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// File is the YAML form of a package's declaration model.
type File struct {
	Version      string            `yaml:"version"`
	Package      string            `yaml:"package"`
	Imports      []Import          `yaml:"imports,omitempty"`
	Declarations []DeclarationSpec `yaml:"declarations"`
}

// DeclarationSpec is the YAML form of a Declaration.
type DeclarationSpec struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Style string `yaml:"style,omitempty"`
	// Remotes is nil when the key is absent (missing annotation) and empty
	// when it names no target.
	Remotes *NameList    `yaml:"remotes,omitempty"`
	Members []MemberSpec `yaml:"members,omitempty"`
	Pos     string       `yaml:"pos,omitempty"`
}

// MemberSpec is the YAML form of a Member.
type MemberSpec struct {
	Name   string      `yaml:"name,omitempty"`
	Layout string      `yaml:"layout,omitempty"`
	Fields []FieldSpec `yaml:"fields,omitempty"`
}

// FieldSpec is the YAML form of a Field. Positional fields have no name.
type FieldSpec struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type"`
}

// NameList accepts either a single string or a list of strings.
type NameList []string

// UnmarshalYAML implements custom YAML unmarshaling for NameList.
func (l *NameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string

		err := node.Decode(&s)
		if err != nil {
			return err
		}

		if s == "" {
			*l = NameList{}
		} else {
			*l = NameList{s}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*l = arr

		return nil

	default:
		return fmt.Errorf("expected string or list of strings, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if the list has one entry.
func (l NameList) MarshalYAML() (any, error) {
	if len(l) == 1 {
		return l[0], nil
	}

	return []string(l), nil
}

// LoadFile loads and parses a YAML model file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read model file %s", path)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse model YAML")
	}

	if f.Version == "" {
		f.Version = "1"
	}

	return &f, nil
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}

// Build converts the YAML specs into Declarations.
func (f *File) Build() ([]Declaration, error) {
	decls := make([]Declaration, 0, len(f.Declarations))

	var errs error

	for _, spec := range f.Declarations {
		d, err := spec.build(f)
		if err != nil {
			errs = errors.Join(errs, errors.Wrapf(err, "declaration %s", spec.Name))
			continue
		}

		decls = append(decls, d)
	}

	if errs != nil {
		return nil, errs
	}

	return decls, nil
}

func (spec DeclarationSpec) build(f *File) (Declaration, error) {
	d := Declaration{
		Name:    spec.Name,
		PkgPath: f.Package,
		Kind:    ParseKind(spec.Kind),
		Imports: f.Imports,
		Pos:     spec.Pos,
	}

	if spec.Style == EnumConst.String() {
		d.EnumStyle = EnumConst
	}

	if spec.Remotes != nil {
		d.Annotated = true

		refs, err := ParseRemotes(*spec.Remotes)
		if err != nil {
			return Declaration{}, err
		}

		d.Remotes = refs
	}

	for _, ms := range spec.Members {
		m, err := ms.build()
		if err != nil {
			return Declaration{}, errors.Wrapf(err, "member %s", ms.Name)
		}

		if d.IsStruct() {
			m.Name = d.Name
		}

		d.Members = append(d.Members, m)
	}

	// A struct spelled without members is a unit struct.
	if d.IsStruct() && len(d.Members) == 0 {
		d.Members = []Member{{Name: d.Name}}
	}

	return d, nil
}

func (ms MemberSpec) build() (Member, error) {
	m := Member{Name: ms.Name}

	named := 0

	for i, fs := range ms.Fields {
		if fs.Type == "" {
			return Member{}, errors.Newf("field %d has no type", i)
		}

		if fs.Name != "" {
			named++
		}

		m.Fields.Fields = append(m.Fields.Fields, Field{Name: fs.Name, Index: i, Type: fs.Type})
	}

	switch {
	case len(ms.Fields) == 0:
		m.Fields.Kind = FieldsUnit
	case named == len(ms.Fields):
		m.Fields.Kind = FieldsNamed
	case named == 0:
		m.Fields.Kind = FieldsPositional
	default:
		return Member{}, errors.New("mixes named and positional fields")
	}

	switch ms.Layout {
	case LayoutNewtype.String():
		m.Layout = LayoutNewtype
	case LayoutTuple.String():
		m.Layout = LayoutTuple
	case "":
		if m.Fields.Kind == FieldsPositional && len(ms.Fields) == 1 {
			m.Layout = LayoutNewtype
		}
	default:
		return Member{}, errors.Newf("unknown layout %q", ms.Layout)
	}

	if m.Layout == LayoutNewtype && m.Fields.Kind == FieldsPositional && len(ms.Fields) != 1 {
		return Member{}, errors.Newf("newtype layout needs exactly one field, got %d", len(ms.Fields))
	}

	return m, nil
}

// ToFile converts Declarations back into their YAML form. All declarations
// are expected to come from the same package.
func ToFile(decls []Declaration) *File {
	f := &File{Version: "1"}

	seen := make(map[string]bool)

	for _, d := range decls {
		if f.Package == "" {
			f.Package = d.PkgPath
		}

		for _, imp := range d.Imports {
			if !seen[imp.Path] {
				seen[imp.Path] = true
				f.Imports = append(f.Imports, imp)
			}
		}

		f.Declarations = append(f.Declarations, toSpec(d))
	}

	return f
}

func toSpec(d Declaration) DeclarationSpec {
	spec := DeclarationSpec{
		Name: d.Name,
		Kind: d.Kind.String(),
		Pos:  d.Pos,
	}

	if d.IsEnum() {
		spec.Style = d.EnumStyle.String()
	}

	if d.Annotated {
		names := make(NameList, 0, len(d.Remotes))
		for _, r := range d.Remotes {
			if r.Path != "" {
				names = append(names, r.Path+"."+r.Name)
			} else {
				names = append(names, r.String())
			}
		}

		spec.Remotes = &names
	}

	for _, m := range d.Members {
		ms := MemberSpec{}
		if d.IsEnum() {
			ms.Name = m.Name
		}

		if m.Fields.Kind == FieldsPositional {
			ms.Layout = m.Layout.String()
		}

		for _, f := range m.Fields.Fields {
			ms.Fields = append(ms.Fields, FieldSpec{Name: f.Name, Type: f.Type})
		}

		spec.Members = append(spec.Members, ms)
	}

	return spec
}
