package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"cloudproxy/internal/outcome"
	"cloudproxy/internal/services"
)

func main() {
	root := newRootCommand()
	executed, err := root.ExecuteC()
	os.Exit(exitCode(err, executed == root, os.Stderr))
}

// cycleExit carries a non-zero cycle outcome back to main so it becomes the
// process exit code without being printed as an error.
type cycleExit struct {
	outcome outcome.Outcome
}

func (e *cycleExit) Error() string {
	return "cycle finished with outcome " + e.outcome.String()
}

// exitCode maps the error returned by the command tree to a process exit code.
// The root command answers the gateway, so every failure it returns exits
// with one of the outcome codes; operator subcommands exit 1 on failure.
func exitCode(err error, gateway bool, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	var exit *cycleExit
	if errors.As(err, &exit) {
		return exit.outcome.ExitCode()
	}
	if errors.Is(err, services.ErrConfiguration) {
		msg := strings.TrimPrefix(err.Error(), services.ErrConfiguration.Error()+": ")
		fmt.Fprintf(stderr, "Invalid Configuration: %s\n", msg)
		return outcome.Error.ExitCode()
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, err)
	}
	if gateway {
		return outcome.Error.ExitCode()
	}
	return 1
}
