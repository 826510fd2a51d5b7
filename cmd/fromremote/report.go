package main

import (
	"github.com/pterm/pterm"

	"fromremote/internal/diagnostic"
)

// report prints diagnostics and returns them as an error when any is an
// error.
func report(diags diagnostic.Diagnostics) error {
	for _, d := range diags.Warnings {
		pterm.Warning.Println(d.String())
	}

	for _, d := range diags.Errors {
		pterm.Error.Println(d.String())

		for _, h := range d.Hints {
			pterm.Info.Println("hint: " + h)
		}
	}

	return diags.Error()
}
