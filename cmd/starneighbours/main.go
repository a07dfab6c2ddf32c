// Command starneighbours finds the repositories that share stargazers with a
// GitHub repository.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/benjaminlong/mergify-algos/internal/cli"
	errs "github.com/benjaminlong/mergify-algos/pkg/errors"
)

// Exit codes.
const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx)
	stop()
	os.Exit(exitCode(err))
}

func execute(ctx context.Context) error {
	c := cli.New(os.Stderr, cli.LogInfo)

	root := c.RootCommand()
	root.SilenceErrors = true

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every request and pipeline stage")
	root.PersistentPreRun = func(*cobra.Command, []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
			c.EnableHookLogging()
		}
	}

	err := root.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		if code := errs.GetCode(err); code != "" {
			c.Logger.Error(errs.UserMessage(err), "code", code)
		} else {
			c.Logger.Error(errs.UserMessage(err))
		}
	}
	return err
}

// exitCode maps a command error to a process exit status. Invalid input
// exits with 2 so scripts can tell it apart from upstream failures.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return exitInterrupted
	case errs.Is(err, errs.ErrCodeInvalidInput), errs.Is(err, errs.ErrCodeInvalidRepo), errs.Is(err, errs.ErrCodeInvalidMode):
		return exitUsage
	default:
		return exitFailure
	}
}
