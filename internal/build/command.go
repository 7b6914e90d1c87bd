package build

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joysoftware/pyship/internal/dependencies"
)

const (
	buildCommandUseConstant                 = "build"
	buildCommandShortDescriptionConstant    = "Build the package distribution artifacts"
	buildCommandLongDescriptionConstant     = "build runs the external build tool against the package descriptor and writes distributable artifacts to the output directory."
	buildCommandExampleConstant             = "pyship build --working-directory ~/projects/pypi_smhi"
	unexpectedArgumentsErrorMessageConstant = "build does not accept positional arguments"
	commandExecutionErrorTemplateConstant   = "build failed: %w"
	workingDirectoryFlagNameConstant        = "working-directory"
	workingDirectoryFlagDescriptionConstant = "Directory containing the package descriptor"
	descriptorFlagNameConstant              = "descriptor"
	descriptorFlagDescriptionConstant       = "Package descriptor path relative to the working directory"
	outputDirectoryFlagNameConstant         = "output-directory"
	outputDirectoryFlagDescriptionConstant  = "Directory receiving the built artifacts"
	builtArtifactOutputTemplateConstant     = "BUILT: %s (%d bytes)"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current build configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the build command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	Executor                     dependencies.ToolExecutor
	HumanReadableLoggingProvider func() bool
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	buildCommand := &cobra.Command{
		Use:     buildCommandUseConstant,
		Short:   buildCommandShortDescriptionConstant,
		Long:    buildCommandLongDescriptionConstant,
		Example: buildCommandExampleConstant,
		RunE:    builder.run,
	}

	buildCommand.Flags().String(workingDirectoryFlagNameConstant, "", workingDirectoryFlagDescriptionConstant)
	buildCommand.Flags().String(descriptorFlagNameConstant, "", descriptorFlagDescriptionConstant)
	buildCommand.Flags().String(outputDirectoryFlagNameConstant, "", outputDirectoryFlagDescriptionConstant)

	return buildCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	buildOptions, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	executor, executorError := dependencies.ResolveToolExecutor(builder.Executor, logger, builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	buildService, serviceError := NewService(ServiceDependencies{Executor: executor, Logger: logger})
	if serviceError != nil {
		return serviceError
	}

	buildResult, buildError := buildService.Build(command.Context(), buildOptions)
	if buildError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, buildError)
	}

	for _, builtArtifact := range buildResult.Artifacts {
		fmt.Fprintln(command.OutOrStdout(), fmt.Sprintf(builtArtifactOutputTemplateConstant, builtArtifact.Path, builtArtifact.SizeBytes))
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	configuration := builder.resolveConfiguration()

	workingDirectoryFlagValue, workingDirectoryFlagError := command.Flags().GetString(workingDirectoryFlagNameConstant)
	if workingDirectoryFlagError != nil {
		return Options{}, workingDirectoryFlagError
	}

	descriptorFlagValue, descriptorFlagError := command.Flags().GetString(descriptorFlagNameConstant)
	if descriptorFlagError != nil {
		return Options{}, descriptorFlagError
	}

	outputDirectoryFlagValue, outputDirectoryFlagError := command.Flags().GetString(outputDirectoryFlagNameConstant)
	if outputDirectoryFlagError != nil {
		return Options{}, outputDirectoryFlagError
	}

	return Options{
		WorkingDirectory: selectStringValue(workingDirectoryFlagValue, configuration.WorkingDirectory),
		DescriptorPath:   selectStringValue(descriptorFlagValue, configuration.DescriptorPath),
		OutputDirectory:  selectStringValue(outputDirectoryFlagValue, configuration.OutputDirectory),
		Arguments:        append([]string{}, configuration.Arguments...),
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) humanReadableLoggingEnabled() bool {
	if builder.HumanReadableLoggingProvider == nil {
		return false
	}
	return builder.HumanReadableLoggingProvider()
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}

	return strings.TrimSpace(configurationValue)
}
