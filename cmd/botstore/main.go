// Package main implements botstore, the command-line front end for the chat
// bot's account, site and form store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/botstore/internal/config"
	"github.com/phrazzld/botstore/internal/redact"
	"github.com/phrazzld/botstore/internal/store"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", redact.Error(err))
		stop()
		os.Exit(exitCode(err))
	}
}

// Exit codes let scripts tell a missing entity from a conflict or an outage.
const (
	exitFailure    = 1
	exitNotFound   = 3
	exitDuplicate  = 4
	exitConstraint = 5
	exitTempFail   = 75 // EX_TEMPFAIL
	exitConfig     = 78 // EX_CONFIG
)

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case store.IsNotFoundError(err):
		return exitNotFound
	case store.IsDuplicateError(err):
		return exitDuplicate
	case store.IsConstraintViolation(err):
		return exitConstraint
	case store.IsTransientError(err):
		return exitTempFail
	case errors.Is(err, config.ErrInvalidConfig):
		return exitConfig
	default:
		return exitFailure
	}
}
