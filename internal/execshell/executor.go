package execshell

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	commandStartingLogMessageConstant        = "external command starting"
	commandCompletedLogMessageConstant       = "external command completed"
	commandFailedLogMessageConstant          = "external command failed"
	commandExecutionFailedLogMessageConstant = "external command could not run"
	logFieldCommandNameConstant              = "command"
	logFieldCommandArgumentsConstant         = "arguments"
	logFieldWorkingDirectoryConstant         = "working_directory"
	logFieldInvocationIdentifierConstant     = "invocation_id"
	logFieldExitCodeConstant                 = "exit_code"
	logFieldDurationConstant                 = "duration"
	logFieldStandardErrorConstant            = "stderr"
)

// ShellExecutor coordinates external tool invocations with logging and lifecycle notifications.
type ShellExecutor struct {
	logger   *zap.Logger
	runner   CommandRunner
	observer CommandEventObserver
}

// NewShellExecutor constructs an executor that validates its collaborators.
func NewShellExecutor(logger *zap.Logger, runner CommandRunner) (*ShellExecutor, error) {
	return NewShellExecutorWithObserver(logger, runner, noopCommandEventObserver{})
}

// NewShellExecutorWithObserver constructs an executor notifying the supplied observer around every invocation.
func NewShellExecutorWithObserver(logger *zap.Logger, runner CommandRunner, observer CommandEventObserver) (*ShellExecutor, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}

	resolvedObserver := observer
	if resolvedObserver == nil {
		resolvedObserver = noopCommandEventObserver{}
	}

	return &ShellExecutor{logger: logger, runner: runner, observer: resolvedObserver}, nil
}

// Execute runs the supplied command, classifying the outcome into structured errors.
func (executor *ShellExecutor) Execute(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	if len(command.InvocationID) == 0 {
		command.InvocationID = uuid.NewString()
	}

	executor.observer.CommandStarted(command)
	executor.logger.Debug(
		commandStartingLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.Strings(logFieldCommandArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
		zap.String(logFieldInvocationIdentifierConstant, command.InvocationID),
	)

	executionStart := time.Now()
	executionResult, runError := executor.runner.Run(executionContext, command)
	executionResult.Duration = time.Since(executionStart)

	if runError != nil {
		executor.observer.CommandExecutionFailed(command, runError)
		executor.logger.Error(
			commandExecutionFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.String(logFieldInvocationIdentifierConstant, command.InvocationID),
			zap.Error(runError),
		)
		return ExecutionResult{}, CommandExecutionError{Command: command, Cause: runError}
	}

	executor.observer.CommandCompleted(command, executionResult)

	if executionResult.ExitCode != 0 {
		executor.logger.Warn(
			commandFailedLogMessageConstant,
			zap.String(logFieldCommandNameConstant, string(command.Name)),
			zap.String(logFieldInvocationIdentifierConstant, command.InvocationID),
			zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
			zap.Duration(logFieldDurationConstant, executionResult.Duration),
			zap.String(logFieldStandardErrorConstant, executionResult.StandardError),
		)
		return ExecutionResult{}, CommandFailedError{Command: command, Result: executionResult}
	}

	executor.logger.Debug(
		commandCompletedLogMessageConstant,
		zap.String(logFieldCommandNameConstant, string(command.Name)),
		zap.String(logFieldInvocationIdentifierConstant, command.InvocationID),
		zap.Int(logFieldExitCodeConstant, executionResult.ExitCode),
		zap.Duration(logFieldDurationConstant, executionResult.Duration),
	)

	return executionResult, nil
}

// ExecutePython runs the configured Python interpreter with the provided details.
func (executor *ShellExecutor) ExecutePython(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandPython, Details: details})
}

// ExecuteTwine runs the upload tool with the provided details.
func (executor *ShellExecutor) ExecuteTwine(executionContext context.Context, details CommandDetails) (ExecutionResult, error) {
	return executor.Execute(executionContext, ShellCommand{Name: CommandTwine, Details: details})
}
