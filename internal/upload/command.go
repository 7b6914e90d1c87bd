package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/joysoftware/pyship/internal/dependencies"
)

const (
	uploadCommandUseConstant                = "upload"
	uploadCommandShortDescriptionConstant   = "Upload built artifacts to the package index"
	uploadCommandLongDescriptionConstant    = "upload publishes every artifact in the output directory to the remote package index using credentials resolved from the configured sources."
	uploadCommandExampleConstant            = "pyship upload --username-source env:TWINE_USERNAME --password-source file:~/.pypirc-token"
	unexpectedArgumentsErrorMessageConstant = "upload does not accept positional arguments"
	commandExecutionErrorTemplateConstant   = "upload failed: %w"
	workingDirectoryFlagNameConstant        = "working-directory"
	workingDirectoryFlagDescriptionConstant = "Directory containing the artifact output directory"
	outputDirectoryFlagNameConstant         = "output-directory"
	outputDirectoryFlagDescriptionConstant  = "Directory holding the artifacts to publish"
	repositoryURLFlagNameConstant           = "repository-url"
	repositoryURLFlagDescriptionConstant    = "Package index upload endpoint (defaults to the tool's configured index)"
	usernameSourceFlagNameConstant          = "username-source"
	usernameSourceFlagDescriptionConstant   = "Username source (env:NAME or file:/path)"
	passwordSourceFlagNameConstant          = "password-source"
	passwordSourceFlagDescriptionConstant   = "Password source (env:NAME or file:/path)"
	skipExistingFlagNameConstant            = "skip-existing"
	skipExistingFlagDescriptionConstant     = "Ask the upload tool to ignore versions already present on the index"
	usernameSourceParseErrorTemplate        = "invalid username source: %w"
	passwordSourceParseErrorTemplate        = "invalid password source: %w"
	uploadedArtifactOutputTemplateConstant  = "UPLOADED: %s"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current upload configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the upload command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	Executor                     dependencies.ToolExecutor
	CredentialResolver           CredentialResolver
	HumanReadableLoggingProvider func() bool
}

// Build constructs the upload command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	uploadCommand := &cobra.Command{
		Use:     uploadCommandUseConstant,
		Short:   uploadCommandShortDescriptionConstant,
		Long:    uploadCommandLongDescriptionConstant,
		Example: uploadCommandExampleConstant,
		RunE:    builder.run,
	}

	uploadCommand.Flags().String(workingDirectoryFlagNameConstant, "", workingDirectoryFlagDescriptionConstant)
	uploadCommand.Flags().String(outputDirectoryFlagNameConstant, "", outputDirectoryFlagDescriptionConstant)
	uploadCommand.Flags().String(repositoryURLFlagNameConstant, "", repositoryURLFlagDescriptionConstant)
	uploadCommand.Flags().String(usernameSourceFlagNameConstant, "", usernameSourceFlagDescriptionConstant)
	uploadCommand.Flags().String(passwordSourceFlagNameConstant, "", passwordSourceFlagDescriptionConstant)
	uploadCommand.Flags().Bool(skipExistingFlagNameConstant, false, skipExistingFlagDescriptionConstant)

	return uploadCommand, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errors.New(unexpectedArgumentsErrorMessageConstant)
	}

	uploadOptions, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()
	executor, executorError := dependencies.ResolveToolExecutor(builder.Executor, logger, builder.humanReadableLoggingEnabled())
	if executorError != nil {
		return executorError
	}

	uploadService, serviceError := NewService(ServiceDependencies{
		Executor:           executor,
		CredentialResolver: builder.CredentialResolver,
		Logger:             logger,
	})
	if serviceError != nil {
		return serviceError
	}

	uploadResult, uploadError := uploadService.Upload(command.Context(), uploadOptions)
	if uploadError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, uploadError)
	}

	for _, uploadedArtifact := range uploadResult.UploadedArtifacts {
		fmt.Fprintln(command.OutOrStdout(), fmt.Sprintf(uploadedArtifactOutputTemplateConstant, uploadedArtifact))
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (Options, error) {
	configuration := builder.resolveConfiguration()

	workingDirectoryFlagValue, workingDirectoryFlagError := command.Flags().GetString(workingDirectoryFlagNameConstant)
	if workingDirectoryFlagError != nil {
		return Options{}, workingDirectoryFlagError
	}

	outputDirectoryFlagValue, outputDirectoryFlagError := command.Flags().GetString(outputDirectoryFlagNameConstant)
	if outputDirectoryFlagError != nil {
		return Options{}, outputDirectoryFlagError
	}

	repositoryURLFlagValue, repositoryURLFlagError := command.Flags().GetString(repositoryURLFlagNameConstant)
	if repositoryURLFlagError != nil {
		return Options{}, repositoryURLFlagError
	}

	usernameSourceFlagValue, usernameSourceFlagError := command.Flags().GetString(usernameSourceFlagNameConstant)
	if usernameSourceFlagError != nil {
		return Options{}, usernameSourceFlagError
	}
	usernameSourceValue := selectStringValue(usernameSourceFlagValue, configuration.UsernameSource)
	parsedUsernameSource, usernameParseError := ParseCredentialSource(usernameSourceValue)
	if usernameParseError != nil {
		return Options{}, fmt.Errorf(usernameSourceParseErrorTemplate, usernameParseError)
	}

	passwordSourceFlagValue, passwordSourceFlagError := command.Flags().GetString(passwordSourceFlagNameConstant)
	if passwordSourceFlagError != nil {
		return Options{}, passwordSourceFlagError
	}
	passwordSourceValue := selectStringValue(passwordSourceFlagValue, configuration.PasswordSource)
	parsedPasswordSource, passwordParseError := ParseCredentialSource(passwordSourceValue)
	if passwordParseError != nil {
		return Options{}, fmt.Errorf(passwordSourceParseErrorTemplate, passwordParseError)
	}

	skipExistingValue := configuration.SkipExisting
	if command.Flags().Changed(skipExistingFlagNameConstant) {
		flagSkipExistingValue, skipExistingFlagError := command.Flags().GetBool(skipExistingFlagNameConstant)
		if skipExistingFlagError != nil {
			return Options{}, skipExistingFlagError
		}
		skipExistingValue = flagSkipExistingValue
	}

	return Options{
		WorkingDirectory: selectStringValue(workingDirectoryFlagValue, configuration.WorkingDirectory),
		OutputDirectory:  selectStringValue(outputDirectoryFlagValue, configuration.OutputDirectory),
		RepositoryURL:    selectStringValue(repositoryURLFlagValue, configuration.RepositoryURL),
		UsernameSource:   parsedUsernameSource,
		PasswordSource:   parsedPasswordSource,
		SkipExisting:     skipExistingValue,
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
