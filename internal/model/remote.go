package model

import (
	"go/token"
	"strings"

	"github.com/cockroachdb/errors"

	"fromremote/internal/common"
)

// ErrInvalidRemote is returned for remote names that are not a Go type
// reference.
var ErrInvalidRemote = errors.New("invalid remote name")

// RemoteRef is one announced remote counterpart of a local declaration.
type RemoteRef struct {
	// Qualifier is the package name used to spell the type in generated
	// code. Empty for types of the local package.
	Qualifier string
	// Path is the import path of the remote package, empty when the type
	// lives in the local package or the qualifier is not resolved yet.
	Path string
	// Name is the remote type name.
	Name string
}

// String returns the Go spelling of the reference ("remote.Bar").
func (r RemoteRef) String() string {
	if r.Qualifier == "" {
		return r.Name
	}

	return r.Qualifier + "." + r.Name
}

// IsLocal returns true if the remote type lives in the local package.
func (r RemoteRef) IsLocal() bool {
	return r.Qualifier == "" && r.Path == ""
}

// Variant returns the reference of the remote enum variant with the given
// suffix (Buzz + A = BuzzA).
func (r RemoteRef) Variant(suffix string) RemoteRef {
	r.Name += suffix
	return r
}

// ParseRemote parses one remote name. Accepted forms:
//
//	Bar                      type in the local package
//	remote.Bar               package name, resolved through file imports
//	example.com/api/v1.Bar   full import path
func ParseRemote(s string) (RemoteRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return RemoteRef{}, errors.Wrap(ErrInvalidRemote, "empty name")
	}

	dot := strings.LastIndex(s, ".")
	if dot < 0 {
		if !token.IsIdentifier(s) {
			return RemoteRef{}, errors.Wrapf(ErrInvalidRemote, "%q", s)
		}

		return RemoteRef{Name: s}, nil
	}

	qual, name := s[:dot], s[dot+1:]
	if !token.IsIdentifier(name) || qual == "" {
		return RemoteRef{}, errors.Wrapf(ErrInvalidRemote, "%q", s)
	}

	if strings.Contains(qual, "/") {
		return RemoteRef{Qualifier: common.PkgAlias(qual), Path: qual, Name: name}, nil
	}

	if !token.IsIdentifier(qual) {
		return RemoteRef{}, errors.Wrapf(ErrInvalidRemote, "%q", s)
	}

	return RemoteRef{Qualifier: qual, Name: name}, nil
}

// ParseRemotes normalises announced remote names into an ordered set.
// Every entry may itself be a comma separated list; blanks are skipped and
// the first occurrence of a duplicate wins. An empty result is not an error
// here: the synthesizer reports it as an empty target list.
func ParseRemotes(names []string) ([]RemoteRef, error) {
	var (
		refs []RemoteRef
		errs error
	)

	seen := make(map[string]struct{})

	for _, entry := range names {
		for _, name := range strings.Split(entry, ",") {
			if strings.TrimSpace(name) == "" {
				continue
			}

			ref, err := ParseRemote(name)
			if err != nil {
				errs = errors.Join(errs, err)
				continue
			}

			key := ref.String()
			if ref.Path != "" {
				key = ref.Path + "." + ref.Name
			}

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			refs = append(refs, ref)
		}
	}

	if errs != nil {
		return nil, errs
	}

	return refs, nil
}
