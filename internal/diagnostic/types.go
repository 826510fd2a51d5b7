package diagnostic

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"

	"fromremote/internal/common"
	"fromremote/internal/synth"
)

// Analyzer diagnostic codes.
const (
	CodeInvalidDirective   = "InvalidDirective"
	CodeUnresolvedRemote   = "UnresolvedRemote"
	CodeMissingRemote      = "MissingRemoteMember"
	CodePackageError       = "PackageError"
	CodeUnmatchedVariant   = "UnmatchedVariant"
	CodeUnsupportedVariant = "UnsupportedVariant"
	CodeSynthesis          = "SynthesisFailed"
	CodeInvalidModel       = "InvalidModel"
)

// Conversion lint codes.
const (
	CodeLossyConversion = "LossyConversion"
	CodeRuneConversion  = "RuneConversion"
	CodeInconvertible   = "InconvertibleField"
)

// Diagnostics holds all diagnostic information from one run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity DiagnosticSeverity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Decl names the local declaration this relates to (if any).
	Decl string
	// Pos is a "file:line" location (if known).
	Pos string
	// Hints are potential fixes.
	Hints []string
}

// DiagnosticSeverity represents the severity level of a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticInfo DiagnosticSeverity = iota
	DiagnosticWarning
	DiagnosticError
)

// String returns a human-readable severity name.
func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticInfo:
		return "info"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, decl, pos string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  message,
		Decl:     decl,
		Pos:      pos,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, decl, pos string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: DiagnosticWarning,
		Code:     code,
		Message:  message,
		Decl:     decl,
		Pos:      pos,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, decl, pos string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: DiagnosticInfo,
		Code:     code,
		Message:  message,
		Decl:     decl,
		Pos:      pos,
	})
}

// AddErr records err as an error diagnostic. Synthesis errors keep their
// taxonomy code and hints; anything else uses fallbackCode.
func (d *Diagnostics) AddErr(err error, fallbackCode, decl, pos string) {
	if err == nil {
		return
	}

	code := synth.Code(err)
	if code == "" {
		code = fallbackCode
	}

	d.Errors = append(d.Errors, Diagnostic{
		Severity: DiagnosticError,
		Code:     code,
		Message:  err.Error(),
		Decl:     decl,
		Pos:      pos,
		Hints:    errors.GetAllHints(err),
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// All returns errors, then warnings, then infos.
func (d *Diagnostics) All() []Diagnostic {
	all := make([]Diagnostic, 0, len(d.Errors)+len(d.Warnings)+len(d.Infos))
	all = append(all, d.Errors...)
	all = append(all, d.Warnings...)

	return append(all, d.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Error() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.Newf("%d error(s): %s", len(d.Errors), strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.Pos != "" {
		prefix = append(prefix, d.Pos)
	}

	if d.Decl != "" {
		prefix = append(prefix, "["+d.Decl+"]")
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
