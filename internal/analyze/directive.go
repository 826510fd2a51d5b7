package analyze

import (
	"go/ast"
	"strings"
)

// DefaultDirective is the directive keyword used when none is configured.
const DefaultDirective = "fromremote"

// Directive is the parsed set of directive lines on one declaration.
type Directive struct {
	// Present is true if at least one directive line was found.
	Present bool
	// Targets is true if at least one line carried a ':' payload, even an
	// empty one.
	Targets bool
	// Names holds the raw payloads in order.
	Names []string
}

// ParseDirective collects the directive lines of a doc comment. Repeated
// lines append to the name list.
func ParseDirective(keyword string, doc *ast.CommentGroup) Directive {
	var d Directive

	if doc == nil {
		return d
	}

	prefix := "//" + keyword

	for _, c := range doc.List {
		rest, ok := strings.CutPrefix(c.Text, prefix)
		if !ok {
			continue
		}

		switch {
		case rest == "" || strings.TrimSpace(rest) == "":
			d.Present = true
		case rest[0] == ':':
			d.Present = true
			d.Targets = true
			d.Names = append(d.Names, rest[1:])
		}
	}

	return d
}
