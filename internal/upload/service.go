package upload

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/joysoftware/pyship/internal/artifacts"
	"github.com/joysoftware/pyship/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant   = "upload executor not configured"
	workingDirectoryMissingMessageConstant = "working directory must be provided"
	noArtifactsErrorTemplateConstant       = "no artifacts found in %s; run build first"
	inventoryScanErrorTemplateConstant     = "unable to enumerate upload artifacts: %w"
	usernameResolutionErrorTemplate        = "unable to resolve index username: %w"
	passwordResolutionErrorTemplate        = "unable to resolve index password: %w"
	uploadSubcommandNameConstant           = "upload"
	repositoryURLFlagConstant              = "--repository-url"
	skipExistingFlagConstant               = "--skip-existing"
	usernameEnvironmentVariableConstant    = "TWINE_USERNAME"
	passwordEnvironmentVariableConstant    = "TWINE_PASSWORD"
	nonInteractiveVariableConstant         = "TWINE_NON_INTERACTIVE"
	nonInteractiveEnabledValueConstant     = "1"
	uploadCompletedLogMessageConstant      = "artifact upload completed"
	logFieldArtifactCountConstant          = "artifact_count"
	logFieldRepositoryURLConstant          = "repository_url"
	logFieldUploadDurationConstant         = "duration"
)

// TwineExecutor runs the external upload tool.
type TwineExecutor interface {
	ExecuteTwine(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies lists collaborators required by the upload service.
type ServiceDependencies struct {
	Executor           TwineExecutor
	Scanner            *artifacts.Scanner
	CredentialResolver CredentialResolver
	Logger             *zap.Logger
}

// Service enumerates built artifacts and publishes them through the upload tool.
type Service struct {
	executor           TwineExecutor
	scanner            *artifacts.Scanner
	credentialResolver CredentialResolver
	logger             *zap.Logger
}

// Options describes a single upload invocation.
type Options struct {
	WorkingDirectory string
	OutputDirectory  string
	RepositoryURL    string
	UsernameSource   CredentialSourceConfiguration
	PasswordSource   CredentialSourceConfiguration
	SkipExisting     bool
}

// Result reports the outcome of an upload invocation.
type Result struct {
	ExecutionResult   execshell.ExecutionResult
	UploadedArtifacts []string
}

// NewService validates dependencies and constructs an upload service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, errors.New(executorNotConfiguredMessageConstant)
	}

	resolvedScanner := dependencies.Scanner
	if resolvedScanner == nil {
		resolvedScanner = artifacts.NewScanner()
	}

	resolvedCredentialResolver := dependencies.CredentialResolver
	if resolvedCredentialResolver == nil {
		resolvedCredentialResolver = NewCredentialResolver(nil, nil)
	}

	resolvedLogger := dependencies.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	return &Service{
		executor:           dependencies.Executor,
		scanner:            resolvedScanner,
		credentialResolver: resolvedCredentialResolver,
		logger:             resolvedLogger,
	}, nil
}

// Upload publishes every artifact in the output directory to the package index.
//
// The external tool is never invoked when the inventory is empty, and
// credentials are passed through its non-interactive environment variables so
// the session never blocks on terminal input.
func (service *Service) Upload(executionContext context.Context, options Options) (Result, error) {
	workingDirectory := strings.TrimSpace(options.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return Result{}, errors.New(workingDirectoryMissingMessageConstant)
	}

	outputDirectory := strings.TrimSpace(options.OutputDirectory)
	if len(outputDirectory) > 0 && !filepath.IsAbs(outputDirectory) {
		outputDirectory = filepath.Join(workingDirectory, outputDirectory)
	}

	inventory, scanError := service.scanner.Scan(outputDirectory)
	if scanError != nil {
		return Result{}, fmt.Errorf(inventoryScanErrorTemplateConstant, scanError)
	}
	if len(inventory) == 0 {
		return Result{}, fmt.Errorf(noArtifactsErrorTemplateConstant, outputDirectory)
	}

	usernameValue, usernameError := service.credentialResolver.ResolveCredential(executionContext, options.UsernameSource)
	if usernameError != nil {
		return Result{}, fmt.Errorf(usernameResolutionErrorTemplate, usernameError)
	}

	passwordValue, passwordError := service.credentialResolver.ResolveCredential(executionContext, options.PasswordSource)
	if passwordError != nil {
		return Result{}, fmt.Errorf(passwordResolutionErrorTemplate, passwordError)
	}

	uploadArguments := []string{uploadSubcommandNameConstant}
	trimmedRepositoryURL := strings.TrimSpace(options.RepositoryURL)
	if len(trimmedRepositoryURL) > 0 {
		uploadArguments = append(uploadArguments, repositoryURLFlagConstant, trimmedRepositoryURL)
	}
	if options.SkipExisting {
		uploadArguments = append(uploadArguments, skipExistingFlagConstant)
	}
	uploadArguments = append(uploadArguments, artifacts.Paths(inventory)...)

	executionResult, executionError := service.executor.ExecuteTwine(executionContext, execshell.CommandDetails{
		Arguments:        uploadArguments,
		WorkingDirectory: workingDirectory,
		EnvironmentVariables: map[string]string{
			usernameEnvironmentVariableConstant: usernameValue,
			passwordEnvironmentVariableConstant: passwordValue,
			nonInteractiveVariableConstant:      nonInteractiveEnabledValueConstant,
		},
	})
	if executionError != nil {
		return Result{}, executionError
	}

	service.logger.Info(
		uploadCompletedLogMessageConstant,
		zap.Int(logFieldArtifactCountConstant, len(inventory)),
		zap.String(logFieldRepositoryURLConstant, trimmedRepositoryURL),
		zap.Duration(logFieldUploadDurationConstant, executionResult.Duration),
	)

	return Result{
		ExecutionResult:   executionResult,
		UploadedArtifacts: artifacts.Names(inventory),
	}, nil
}
