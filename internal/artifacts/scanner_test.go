package artifacts_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joysoftware/pyship/internal/artifacts"
)

const (
	testSourceDistributionNameConstant = "smhi_pkg-1.0.19.tar.gz"
	testWheelDistributionNameConstant  = "smhi_pkg-1.0.19-py3-none-any.whl"
	testHiddenFileNameConstant         = ".DS_Store"
	testNestedDirectoryNameConstant    = "unpacked"
	testArtifactContentConstant        = "artifact-bytes"
)

func TestScannerScanListsRegularFilesSorted(testInstance *testing.T) {
	artifactDirectory := testInstance.TempDir()
	writeTestArtifact(testInstance, artifactDirectory, testSourceDistributionNameConstant)
	writeTestArtifact(testInstance, artifactDirectory, testWheelDistributionNameConstant)
	writeTestArtifact(testInstance, artifactDirectory, testHiddenFileNameConstant)
	require.NoError(testInstance, os.Mkdir(filepath.Join(artifactDirectory, testNestedDirectoryNameConstant), 0o755))

	inventory, scanError := artifacts.NewScanner().Scan(artifactDirectory)
	require.NoError(testInstance, scanError)
	require.Equal(testInstance, []string{testWheelDistributionNameConstant, testSourceDistributionNameConstant}, artifacts.Names(inventory))

	for _, artifactEntry := range inventory {
		require.Equal(testInstance, filepath.Join(artifactDirectory, artifactEntry.Name), artifactEntry.Path)
		require.Equal(testInstance, int64(len(testArtifactContentConstant)), artifactEntry.SizeBytes)
	}
}

func TestScannerScanMissingDirectoryYieldsEmptyInventory(testInstance *testing.T) {
	missingDirectory := filepath.Join(testInstance.TempDir(), "dist")

	inventory, scanError := artifacts.NewScanner().Scan(missingDirectory)
	require.NoError(testInstance, scanError)
	require.Empty(testInstance, inventory)
}

func TestScannerScanRejectsEmptyDirectoryArgument(testInstance *testing.T) {
	_, scanError := artifacts.NewScanner().Scan("   ")
	require.Error(testInstance, scanError)
}

func TestDifferenceReportsNewAndChangedEntries(testInstance *testing.T) {
	baselineTime := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	previousInventory := []artifacts.Artifact{
		{Name: "unchanged.tar.gz", SizeBytes: 10, ModifiedAt: baselineTime},
		{Name: "rebuilt.whl", SizeBytes: 20, ModifiedAt: baselineTime},
	}
	currentInventory := []artifacts.Artifact{
		{Name: "unchanged.tar.gz", SizeBytes: 10, ModifiedAt: baselineTime},
		{Name: "rebuilt.whl", SizeBytes: 20, ModifiedAt: baselineTime.Add(time.Minute)},
		{Name: "fresh.tar.gz", SizeBytes: 30, ModifiedAt: baselineTime.Add(time.Minute)},
	}

	difference := artifacts.Difference(currentInventory, previousInventory)
	require.Equal(testInstance, []string{"rebuilt.whl", "fresh.tar.gz"}, artifacts.Names(difference))
}

func TestArtifactPathsPreserveOrder(testInstance *testing.T) {
	inventory := []artifacts.Artifact{
		{Name: "a.whl", Path: "/dist/a.whl"},
		{Name: "b.tar.gz", Path: "/dist/b.tar.gz"},
	}

	require.Equal(testInstance, []string{"/dist/a.whl", "/dist/b.tar.gz"}, artifacts.Paths(inventory))
}

func writeTestArtifact(testInstance *testing.T, artifactDirectory string, artifactName string) {
	testInstance.Helper()
	writeError := os.WriteFile(filepath.Join(artifactDirectory, artifactName), []byte(testArtifactContentConstant), 0o600)
	require.NoError(testInstance, writeError)
}
