package common

import (
	"path"
	"strings"
)

// UnknownStr is the String() value of unrecognised enum values.
const UnknownStr = "unknown"

// PkgAlias returns the package alias (last element of path) for a given package path.
// Returns empty string if pkgPath is empty. A trailing major version element
// ("/v2") is skipped, matching the package name Go modules conventionally use.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if dir := path.Dir(pkgPath); dir != "." && dir != "/" {
			base = path.Base(dir)
		}
	}

	return strings.NewReplacer("-", "", ".", "").Replace(base)
}

func isMajorVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}

	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// UpperFirst returns s with its first byte upper-cased.
func UpperFirst(s string) string {
	if s == "" {
		return ""
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
