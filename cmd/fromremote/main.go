// Package main provides the CLI entrypoint for fromremote.
//
// fromremote generates conversion functions from remote Go types into
// local mirrors of them:
//   - gen writes fromremote_gen.go into every annotated package
//   - check fails when a generated file is out of date
//   - inspect shows the declaration model and field shapes
//   - watch regenerates on every source change
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"

	"fromremote/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)

	stop()
	logger.Cleanup()

	if err != nil {
		pterm.Error.Println(err)

		for _, h := range errors.GetAllHints(err) {
			pterm.Info.Println("hint: " + h)
		}

		os.Exit(exitCode(err))
	}
}
