package upload_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joysoftware/pyship/internal/execshell"
	"github.com/joysoftware/pyship/internal/upload"
)

const (
	testOutputDirectoryNameConstant    = "dist"
	testSourceDistributionNameConstant = "smhi_pkg-1.0.19.tar.gz"
	testWheelDistributionNameConstant  = "smhi_pkg-1.0.19-py3-none-any.whl"
	testRepositoryURLConstant          = "https://test.pypi.org/legacy/"
	testUsernameValueConstant          = "__token__"
	testPasswordValueConstant          = "pypi-secret-value"
	testUsernameVariableNameConstant   = "PYSHIP_USERNAME"
	testPasswordVariableNameConstant   = "PYSHIP_PASSWORD"
)

type scriptedTwineExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedTwineExecutor) ExecuteTwine(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	return executor.executionResult, executor.executionError
}

func staticCredentialLookup(testInstance *testing.T) upload.EnvironmentLookup {
	testInstance.Helper()
	return func(key string) (string, bool) {
		switch key {
		case testUsernameVariableNameConstant:
			return testUsernameValueConstant, true
		case testPasswordVariableNameConstant:
			return testPasswordValueConstant, true
		default:
			return "", false
		}
	}
}

func environmentSource(referenceName string) upload.CredentialSourceConfiguration {
	return upload.CredentialSourceConfiguration{
		Type:      upload.CredentialSourceTypeEnvironment,
		Reference: referenceName,
	}
}

func populatedOptions(workingDirectory string) upload.Options {
	return upload.Options{
		WorkingDirectory: workingDirectory,
		OutputDirectory:  testOutputDirectoryNameConstant,
		UsernameSource:   environmentSource(testUsernameVariableNameConstant),
		PasswordSource:   environmentSource(testPasswordVariableNameConstant),
	}
}

func writeUploadArtifacts(testInstance *testing.T, workingDirectory string) {
	testInstance.Helper()
	outputDirectory := filepath.Join(workingDirectory, testOutputDirectoryNameConstant)
	require.NoError(testInstance, os.MkdirAll(outputDirectory, 0o755))
	for _, artifactName := range []string{testSourceDistributionNameConstant, testWheelDistributionNameConstant} {
		writeError := os.WriteFile(filepath.Join(outputDirectory, artifactName), []byte("artifact"), 0o600)
		require.NoError(testInstance, writeError)
	}
}

func newTestUploadService(testInstance *testing.T, executor upload.TwineExecutor) *upload.Service {
	testInstance.Helper()
	uploadService, creationError := upload.NewService(upload.ServiceDependencies{
		Executor:           executor,
		CredentialResolver: upload.NewCredentialResolver(staticCredentialLookup(testInstance), nil),
	})
	require.NoError(testInstance, creationError)
	return uploadService
}

func TestUploadOffersExactlyScannedArtifacts(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeUploadArtifacts(testInstance, workingDirectory)

	executor := &scriptedTwineExecutor{}
	uploadService := newTestUploadService(testInstance, executor)

	uploadResult, uploadError := uploadService.Upload(context.Background(), populatedOptions(workingDirectory))
	require.NoError(testInstance, uploadError)
	require.Equal(testInstance, []string{testWheelDistributionNameConstant, testSourceDistributionNameConstant}, uploadResult.UploadedArtifacts)

	require.Len(testInstance, executor.recordedCommands, 1)
	recordedCommand := executor.recordedCommands[0]
	require.Equal(testInstance, "upload", recordedCommand.Arguments[0])

	outputDirectory := filepath.Join(workingDirectory, testOutputDirectoryNameConstant)
	require.Equal(testInstance, []string{
		filepath.Join(outputDirectory, testWheelDistributionNameConstant),
		filepath.Join(outputDirectory, testSourceDistributionNameConstant),
	}, recordedCommand.Arguments[1:])
}

func TestUploadExportsNonInteractiveCredentials(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeUploadArtifacts(testInstance, workingDirectory)

	executor := &scriptedTwineExecutor{}
	uploadService := newTestUploadService(testInstance, executor)

	_, uploadError := uploadService.Upload(context.Background(), populatedOptions(workingDirectory))
	require.NoError(testInstance, uploadError)

	environmentVariables := executor.recordedCommands[0].EnvironmentVariables
	require.Equal(testInstance, testUsernameValueConstant, environmentVariables["TWINE_USERNAME"])
	require.Equal(testInstance, testPasswordValueConstant, environmentVariables["TWINE_PASSWORD"])
	require.Equal(testInstance, "1", environmentVariables["TWINE_NON_INTERACTIVE"])
}

func TestUploadAppendsRepositoryAndSkipExistingFlags(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeUploadArtifacts(testInstance, workingDirectory)

	executor := &scriptedTwineExecutor{}
	uploadService := newTestUploadService(testInstance, executor)

	uploadOptions := populatedOptions(workingDirectory)
	uploadOptions.RepositoryURL = testRepositoryURLConstant
	uploadOptions.SkipExisting = true

	_, uploadError := uploadService.Upload(context.Background(), uploadOptions)
	require.NoError(testInstance, uploadError)

	recordedArguments := executor.recordedCommands[0].Arguments
	require.Equal(testInstance, []string{"upload", "--repository-url", testRepositoryURLConstant, "--skip-existing"}, recordedArguments[:4])
}

func TestUploadRefusesEmptyArtifactDirectory(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()

	executor := &scriptedTwineExecutor{}
	uploadService := newTestUploadService(testInstance, executor)

	_, uploadError := uploadService.Upload(context.Background(), populatedOptions(workingDirectory))
	require.Error(testInstance, uploadError)
	require.Contains(testInstance, uploadError.Error(), "no artifacts found")
	require.Empty(testInstance, executor.recordedCommands)
}

func TestUploadReportsCredentialResolutionFailures(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeUploadArtifacts(testInstance, workingDirectory)

	executor := &scriptedTwineExecutor{}
	uploadService := newTestUploadService(testInstance, executor)

	uploadOptions := populatedOptions(workingDirectory)
	uploadOptions.PasswordSource = environmentSource("PYSHIP_UNSET_VARIABLE")

	_, uploadError := uploadService.Upload(context.Background(), uploadOptions)
	require.Error(testInstance, uploadError)
	require.Contains(testInstance, uploadError.Error(), "index password")
	require.Empty(testInstance, executor.recordedCommands)
}

func TestUploadPropagatesToolFailureVerbatim(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	writeUploadArtifacts(testInstance, workingDirectory)

	failingCommand := execshell.ShellCommand{Name: execshell.CommandTwine}
	executor := &scriptedTwineExecutor{
		executionError: execshell.CommandFailedError{
			Command: failingCommand,
			Result:  execshell.ExecutionResult{ExitCode: 1, StandardError: "400 File already exists"},
		},
	}
	uploadService := newTestUploadService(testInstance, executor)

	_, uploadError := uploadService.Upload(context.Background(), populatedOptions(workingDirectory))
	require.Error(testInstance, uploadError)

	failedError := execshell.CommandFailedError{}
	require.ErrorAs(testInstance, uploadError, &failedError)
	require.Equal(testInstance, 1, failedError.Result.ExitCode)
	require.Contains(testInstance, failedError.Result.StandardError, "already exists")
}

func TestUploadWrapsInventoryScanFailures(testInstance *testing.T) {
	executor := &scriptedTwineExecutor{}
	uploadService := newTestUploadService(testInstance, executor)

	uploadOptions := populatedOptions(testInstance.TempDir())
	uploadOptions.OutputDirectory = ""

	_, uploadError := uploadService.Upload(context.Background(), uploadOptions)
	require.Error(testInstance, uploadError)
	require.Contains(testInstance, uploadError.Error(), "unable to enumerate upload artifacts")
	require.Empty(testInstance, executor.recordedCommands)
}

func TestUploadValidatesWorkingDirectory(testInstance *testing.T) {
	uploadService := newTestUploadService(testInstance, &scriptedTwineExecutor{})

	_, uploadError := uploadService.Upload(context.Background(), upload.Options{})
	require.Error(testInstance, uploadError)
}

func TestNewServiceRequiresExecutor(testInstance *testing.T) {
	_, creationError := upload.NewService(upload.ServiceDependencies{})
	require.Error(testInstance, creationError)
}
