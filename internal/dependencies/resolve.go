// Package dependencies resolves shared collaborators for the CLI commands.
package dependencies

import (
	"context"

	"go.uber.org/zap"

	"github.com/joysoftware/pyship/internal/execshell"
	"github.com/joysoftware/pyship/internal/ui"
)

// ToolExecutor runs the external tools used by the release workflow.
type ToolExecutor interface {
	ExecutePython(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteTwine(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ResolveToolExecutor returns the provided executor or constructs one backed by os/exec.
//
// Human-readable logging attaches the console event observer so lifecycle
// messages reflect the real exit status of each invocation.
func ResolveToolExecutor(existingExecutor ToolExecutor, logger *zap.Logger, humanReadableLogging bool) (ToolExecutor, error) {
	if existingExecutor != nil {
		return existingExecutor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		return execshell.NewShellExecutorWithObserver(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}
