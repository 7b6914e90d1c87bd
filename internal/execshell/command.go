package execshell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	pythonToolNameConstant                     = "python3"
	twineToolNameConstant                      = "twine"
	commandFailedErrorTemplateConstant         = "%s exited with code %d"
	commandFailedStandardErrorSuffixConstant   = ": %s"
	commandExecutionErrorTemplateConstant      = "%s could not be executed: %v"
	loggerNotConfiguredMessageConstant         = "logger not configured"
	commandRunnerNotConfiguredMessageConstant  = "command runner not configured"
	commandArgumentsJoinSeparatorLabelConstant = " "
	commandLabelWithArgumentsTemplateConstant  = "%s %s"
)

// CommandName identifies a supported external tool.
type CommandName string

// Supported tool enumerations.
const (
	CommandPython CommandName = CommandName(pythonToolNameConstant)
	CommandTwine  CommandName = CommandName(twineToolNameConstant)
)

// CommandDetails describes a single tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
}

// ShellCommand combines a CommandName with invocation details and an identifier.
type ShellCommand struct {
	Name         CommandName
	Details      CommandDetails
	InvocationID string
}

// Label renders the command name and arguments for human-readable output.
func (command ShellCommand) Label() string {
	if len(command.Details.Arguments) == 0 {
		return string(command.Name)
	}
	return fmt.Sprintf(commandLabelWithArgumentsTemplateConstant, string(command.Name), strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorLabelConstant))
}

// ExecutionResult captures the observable outcome of a command invocation.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
	Duration       time.Duration
}

// CommandRunner abstracts process execution for testability.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// Sentinel errors reported during executor construction.
var (
	ErrLoggerNotConfigured        = errors.New(loggerNotConfiguredMessageConstant)
	ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)
)

// CommandFailedError reports a command that ran to completion with a non-zero exit code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command including its exit code and captured standard error.
func (failure CommandFailedError) Error() string {
	baseMessage := fmt.Sprintf(commandFailedErrorTemplateConstant, failure.Command.Label(), failure.Result.ExitCode)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return baseMessage
	}
	return baseMessage + fmt.Sprintf(commandFailedStandardErrorSuffixConstant, trimmedStandardError)
}

// CommandExecutionError reports a command that could not be started or observed.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionErrorTemplateConstant, failure.Command.Label(), failure.Cause)
}

// Unwrap exposes the underlying cause for errors.Is and errors.As inspection.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}
