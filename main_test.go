package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joysoftware/pyship/internal/execshell"
)

func TestExitCodeForError(testInstance *testing.T) {
	wrappedToolFailure := fmt.Errorf("upload failed: %w", execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandTwine},
		Result:  execshell.ExecutionResult{ExitCode: 2},
	})

	testCases := []struct {
		name             string
		executionError   error
		expectedExitCode int
	}{
		{
			name:             "tool_exit_code_propagates",
			executionError:   wrappedToolFailure,
			expectedExitCode: 2,
		},
		{
			name:             "other_errors_exit_one",
			executionError:   errors.New("unable to load configuration"),
			expectedExitCode: 1,
		},
		{
			name: "zero_exit_code_still_fails",
			executionError: execshell.CommandFailedError{
				Command: execshell.ShellCommand{Name: execshell.CommandPython},
			},
			expectedExitCode: 1,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedExitCode, exitCodeForError(testCase.executionError))
		})
	}
}
