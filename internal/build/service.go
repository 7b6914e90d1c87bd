package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/joysoftware/pyship/internal/artifacts"
	"github.com/joysoftware/pyship/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant   = "build executor not configured"
	workingDirectoryMissingMessageConstant = "working directory must be provided"
	buildArgumentsMissingMessageConstant   = "build arguments must be provided"
	descriptorMissingErrorTemplateConstant = "package descriptor %s not found: %w"
	artifactScanErrorTemplateConstant      = "unable to verify build output: %w"
	noArtifactsProducedTemplateConstant    = "build completed but no artifacts appeared in %s"
	buildCompletedLogMessageConstant       = "package build completed"
	logFieldArtifactCountConstant          = "artifact_count"
	logFieldOutputDirectoryConstant        = "output_directory"
	logFieldBuildDurationConstant          = "duration"
)

// PythonExecutor runs the external build tool.
type PythonExecutor interface {
	ExecutePython(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ServiceDependencies lists collaborators required by the build service.
type ServiceDependencies struct {
	Executor PythonExecutor
	Scanner  *artifacts.Scanner
	Logger   *zap.Logger
}

// Service coordinates descriptor validation, tool invocation, and output verification.
type Service struct {
	executor PythonExecutor
	scanner  *artifacts.Scanner
	logger   *zap.Logger
}

// Options describes a single build invocation.
type Options struct {
	WorkingDirectory string
	DescriptorPath   string
	OutputDirectory  string
	Arguments        []string
}

// Result reports the outcome of a build invocation.
type Result struct {
	ExecutionResult execshell.ExecutionResult
	OutputDirectory string
	Artifacts       []artifacts.Artifact
}

// NewService validates dependencies and constructs a build service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Executor == nil {
		return nil, errors.New(executorNotConfiguredMessageConstant)
	}

	resolvedScanner := dependencies.Scanner
	if resolvedScanner == nil {
		resolvedScanner = artifacts.NewScanner()
	}

	resolvedLogger := dependencies.Logger
	if resolvedLogger == nil {
		resolvedLogger = zap.NewNop()
	}

	return &Service{executor: dependencies.Executor, scanner: resolvedScanner, logger: resolvedLogger}, nil
}

// Build runs the external build tool and reports the artifacts the invocation
// added to the output directory. The directory is inventoried before and
// after the run so leftovers from earlier releases are never counted.
func (service *Service) Build(executionContext context.Context, options Options) (Result, error) {
	workingDirectory := strings.TrimSpace(options.WorkingDirectory)
	if len(workingDirectory) == 0 {
		return Result{}, errors.New(workingDirectoryMissingMessageConstant)
	}
	if len(options.Arguments) == 0 {
		return Result{}, errors.New(buildArgumentsMissingMessageConstant)
	}

	descriptorPath := resolveAgainstWorkingDirectory(workingDirectory, options.DescriptorPath)
	if len(descriptorPath) > 0 {
		if _, statError := os.Stat(descriptorPath); statError != nil {
			return Result{}, fmt.Errorf(descriptorMissingErrorTemplateConstant, descriptorPath, statError)
		}
	}

	outputDirectory := resolveAgainstWorkingDirectory(workingDirectory, options.OutputDirectory)
	priorInventory, priorScanError := service.scanner.Scan(outputDirectory)
	if priorScanError != nil {
		return Result{}, fmt.Errorf(artifactScanErrorTemplateConstant, priorScanError)
	}

	executionResult, executionError := service.executor.ExecutePython(executionContext, execshell.CommandDetails{
		Arguments:        append([]string{}, options.Arguments...),
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		return Result{}, executionError
	}

	currentInventory, scanError := service.scanner.Scan(outputDirectory)
	if scanError != nil {
		return Result{}, fmt.Errorf(artifactScanErrorTemplateConstant, scanError)
	}
	producedArtifacts := artifacts.Difference(currentInventory, priorInventory)
	if len(producedArtifacts) == 0 {
		return Result{}, fmt.Errorf(noArtifactsProducedTemplateConstant, outputDirectory)
	}

	service.logger.Info(
		buildCompletedLogMessageConstant,
		zap.Int(logFieldArtifactCountConstant, len(producedArtifacts)),
		zap.String(logFieldOutputDirectoryConstant, outputDirectory),
		zap.Duration(logFieldBuildDurationConstant, executionResult.Duration),
	)

	return Result{
		ExecutionResult: executionResult,
		OutputDirectory: outputDirectory,
		Artifacts:       producedArtifacts,
	}, nil
}

func resolveAgainstWorkingDirectory(workingDirectory string, candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return trimmedPath
	}
	if filepath.IsAbs(trimmedPath) {
		return trimmedPath
	}
	return filepath.Join(workingDirectory, trimmedPath)
}
