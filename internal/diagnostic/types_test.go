package diagnostic

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fromremote/internal/synth"
)

func TestDiagnostics_AddAndMerge(t *testing.T) {
	var d Diagnostics

	assert.True(t, d.IsValid())
	require.NoError(t, d.Error())

	d.AddWarning(CodeUnmatchedVariant, "remote variant BuzzF has no local counterpart", "Fizz", "local.go:12")
	d.AddInfo("Generated", "2 procedures", "Foo", "")
	assert.True(t, d.IsValid())

	var other Diagnostics
	other.AddError(CodeUnresolvedRemote, `package "remote" is not imported`, "Foo", "local.go:3")
	d.Merge(other)

	assert.True(t, d.HasErrors())
	require.Len(t, d.All(), 3)
	assert.Equal(t, DiagnosticError, d.All()[0].Severity)

	err := d.Error()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `local.go:3 [Foo]: [UnresolvedRemote] package "remote" is not imported`)
}

func TestDiagnostics_AddErr(t *testing.T) {
	var d Diagnostics

	d.AddErr(nil, CodeSynthesis, "Foo", "")
	assert.Empty(t, d.Errors)

	err := errors.WithHint(errors.Wrap(synth.ErrUnsupportedUnitStruct, "Foo"), "add a field")
	d.AddErr(err, CodeSynthesis, "Foo", "local.go:7")

	plain := errors.New("boom")
	d.AddErr(plain, CodeSynthesis, "Bar", "")

	require.Len(t, d.Errors, 2)
	assert.Equal(t, synth.CodeUnsupportedUnitStruct, d.Errors[0].Code)
	assert.Equal(t, []string{"add a field"}, d.Errors[0].Hints)
	assert.Equal(t, CodeSynthesis, d.Errors[1].Code)
}

func TestDiagnosticSeverity_String(t *testing.T) {
	assert.Equal(t, "info", DiagnosticInfo.String())
	assert.Equal(t, "warning", DiagnosticWarning.String())
	assert.Equal(t, "error", DiagnosticError.String())
	assert.Equal(t, "unknown", DiagnosticSeverity(9).String())
}

func TestDiagnostic_String(t *testing.T) {
	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
	assert.Equal(t, "[Fizz]: [X] msg", Diagnostic{Code: "X", Message: "msg", Decl: "Fizz"}.String())
}
