// Package pathutils normalizes filesystem paths supplied through flags and configuration.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	homeDirectoryPrefixConstant = "~"
	homeDirectorySlashConstant  = "~/"
)

// HomeExpander replaces a leading tilde with the current user's home directory.
type HomeExpander struct {
	homeDirectoryLookup func() (string, error)
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return &HomeExpander{homeDirectoryLookup: os.UserHomeDir}
}

// NewHomeExpanderWithLookup constructs a HomeExpander using the provided lookup function.
func NewHomeExpanderWithLookup(homeDirectoryLookup func() (string, error)) *HomeExpander {
	resolvedLookup := homeDirectoryLookup
	if resolvedLookup == nil {
		resolvedLookup = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryLookup: resolvedLookup}
}

// Expand substitutes the home directory for a leading tilde and cleans the result.
func (expander *HomeExpander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return trimmedPath
	}

	if trimmedPath != homeDirectoryPrefixConstant && !strings.HasPrefix(trimmedPath, homeDirectorySlashConstant) {
		return trimmedPath
	}

	homeDirectory, lookupError := expander.homeDirectoryLookup()
	if lookupError != nil || len(homeDirectory) == 0 {
		return trimmedPath
	}

	if trimmedPath == homeDirectoryPrefixConstant {
		return homeDirectory
	}

	return filepath.Join(homeDirectory, strings.TrimPrefix(trimmedPath, homeDirectorySlashConstant))
}
