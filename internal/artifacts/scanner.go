// Package artifacts inventories the distribution directory shared by the build and upload commands.
package artifacts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	hiddenFilePrefixConstant            = "."
	directoryReadErrorTemplateConstant  = "unable to read artifact directory %s: %w"
	artifactStatErrorTemplateConstant   = "unable to inspect artifact %s: %w"
	emptyDirectoryArgumentErrorConstant = "artifact directory must be provided"
)

// Artifact describes a single distributable file.
type Artifact struct {
	Name       string
	Path       string
	SizeBytes  int64
	ModifiedAt time.Time
}

// Scanner lists distributable files in an artifact directory.
type Scanner struct{}

// NewScanner constructs a Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan returns the regular files in the directory sorted by name.
//
// A missing directory yields an empty inventory rather than an error because
// the build step creates the directory on first use. Subdirectories and
// hidden files are skipped.
func (scanner *Scanner) Scan(artifactDirectory string) ([]Artifact, error) {
	trimmedDirectory := strings.TrimSpace(artifactDirectory)
	if len(trimmedDirectory) == 0 {
		return nil, errors.New(emptyDirectoryArgumentErrorConstant)
	}

	directoryEntries, readError := os.ReadDir(trimmedDirectory)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, wrapDirectoryReadError(trimmedDirectory, readError)
	}

	inventory := make([]Artifact, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		if directoryEntry.IsDir() {
			continue
		}
		if strings.HasPrefix(directoryEntry.Name(), hiddenFilePrefixConstant) {
			continue
		}

		entryInformation, statError := directoryEntry.Info()
		if statError != nil {
			return nil, wrapArtifactStatError(directoryEntry.Name(), statError)
		}
		if !entryInformation.Mode().IsRegular() {
			continue
		}

		inventory = append(inventory, Artifact{
			Name:       directoryEntry.Name(),
			Path:       filepath.Join(trimmedDirectory, directoryEntry.Name()),
			SizeBytes:  entryInformation.Size(),
			ModifiedAt: entryInformation.ModTime(),
		})
	}

	sort.Slice(inventory, func(firstIndex int, secondIndex int) bool {
		return inventory[firstIndex].Name < inventory[secondIndex].Name
	})

	return inventory, nil
}

func wrapDirectoryReadError(artifactDirectory string, readError error) error {
	return fmt.Errorf(directoryReadErrorTemplateConstant, artifactDirectory, readError)
}

func wrapArtifactStatError(artifactName string, statError error) error {
	return fmt.Errorf(artifactStatErrorTemplateConstant, artifactName, statError)
}

// Difference returns the entries of the current inventory that are absent
// from the previous one or whose size or modification time changed. The
// output directory accumulates across runs, so a plain listing cannot tell a
// fresh distribution from a leftover.
func Difference(currentInventory []Artifact, previousInventory []Artifact) []Artifact {
	previousByName := make(map[string]Artifact, len(previousInventory))
	for _, previousEntry := range previousInventory {
		previousByName[previousEntry.Name] = previousEntry
	}

	changedEntries := make([]Artifact, 0, len(currentInventory))
	for _, currentEntry := range currentInventory {
		previousEntry, existedBefore := previousByName[currentEntry.Name]
		if existedBefore && previousEntry.SizeBytes == currentEntry.SizeBytes && previousEntry.ModifiedAt.Equal(currentEntry.ModifiedAt) {
			continue
		}
		changedEntries = append(changedEntries, currentEntry)
	}

	return changedEntries
}

// Names extracts the artifact names from an inventory preserving order.
func Names(inventory []Artifact) []string {
	artifactNames := make([]string, 0, len(inventory))
	for _, artifactEntry := range inventory {
		artifactNames = append(artifactNames, artifactEntry.Name)
	}
	return artifactNames
}

// Paths extracts the artifact paths from an inventory preserving order.
func Paths(inventory []Artifact) []string {
	artifactPaths := make([]string, 0, len(inventory))
	for _, artifactEntry := range inventory {
		artifactPaths = append(artifactPaths, artifactEntry.Path)
	}
	return artifactPaths
}
