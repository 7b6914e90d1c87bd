package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joysoftware/pyship/cmd/cli"
	"github.com/joysoftware/pyship/internal/execshell"
)

const (
	exitErrorTemplateConstant      = "%v\n"
	defaultFailureExitCodeConstant = 1
)

// main executes the pyship command-line application.
func main() {
	executionError := cli.Execute()
	if executionError == nil {
		return
	}

	fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
	os.Exit(exitCodeForError(executionError))
}

// exitCodeForError propagates the external tool's exit code when one is known.
func exitCodeForError(executionError error) int {
	failedCommand := execshell.CommandFailedError{}
	if errors.As(executionError, &failedCommand) && failedCommand.Result.ExitCode > 0 {
		return failedCommand.Result.ExitCode
	}
	return defaultFailureExitCodeConstant
}
