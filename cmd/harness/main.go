// Package main is the entry point for the harness command line tool.
package main

import (
	"os"

	apierrors "github.com/Dos-leg/harhhat-fund-me-fcc/internal/pkg/errors"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		os.Exit(apierrors.ExitCode(err))
	}
}
