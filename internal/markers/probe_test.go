package markers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/workcopy/internal/markers"
)

const (
	testAttributesWithPatternsConstant = "*.bin filter=lfs diff=lfs merge=lfs -text\n*.iso filter=lfs diff=lfs merge=lfs\n# comment line\n*.txt text\n"
	testAttributesWithoutGlobConstant  = "filter=lfs diff=lfs merge=lfs\n"
	testHookWithMarkerConstant         = "#!/bin/sh\ncommand -v git-lfs >/dev/null 2>&1 || exit 2\ngit lfs pre-push \"$@\"\n"
	testHookWithoutMarkerConstant      = "#!/bin/sh\nexit 0\n"
)

func prepareRepositoryLayout(testInstance *testing.T) string {
	repositoryPath := testInstance.TempDir()
	require.NoError(testInstance, os.MkdirAll(filepath.Join(repositoryPath, ".git", "hooks"), 0o755))
	return repositoryPath
}

func TestProbeEnsureIgnoreFileCreatesOnlyOnce(testInstance *testing.T) {
	repositoryPath := prepareRepositoryLayout(testInstance)
	probe := markers.NewProbe(nil)

	created, creationError := probe.EnsureIgnoreFile(repositoryPath)
	require.NoError(testInstance, creationError)
	require.True(testInstance, created)
	require.True(testInstance, probe.HasIgnoreFile(repositoryPath))

	createdAgain, secondCreationError := probe.EnsureIgnoreFile(repositoryPath)
	require.NoError(testInstance, secondCreationError)
	require.False(testInstance, createdAgain)
}

func TestProbeLfsTrackedPatterns(testInstance *testing.T) {
	testCases := []struct {
		name              string
		attributesContent string
		expectedPatterns  []string
	}{
		{
			name:              "patterns_with_globs",
			attributesContent: testAttributesWithPatternsConstant,
			expectedPatterns:  []string{"*.bin", "*.iso"},
		},
		{
			name:              "directive_without_glob",
			attributesContent: testAttributesWithoutGlobConstant,
			expectedPatterns:  nil,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath := prepareRepositoryLayout(testInstance)
			probe := markers.NewProbe(nil)
			require.NoError(testInstance, os.WriteFile(probe.AttributesFilePath(repositoryPath), []byte(testCase.attributesContent), 0o644))

			trackedPatterns, parseError := probe.LfsTrackedPatterns(repositoryPath)
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedPatterns, trackedPatterns)
		})
	}
}

func TestProbeLfsTrackedPatternsWithoutAttributesFile(testInstance *testing.T) {
	repositoryPath := prepareRepositoryLayout(testInstance)
	probe := markers.NewProbe(nil)

	trackedPatterns, parseError := probe.LfsTrackedPatterns(repositoryPath)
	require.NoError(testInstance, parseError)
	require.Empty(testInstance, trackedPatterns)
}

func TestProbePrePushHookMarkerDetection(testInstance *testing.T) {
	testCases := []struct {
		name           string
		hookContent    string
		expectedMarker bool
	}{
		{name: "hook_with_marker", hookContent: testHookWithMarkerConstant, expectedMarker: true},
		{name: "hook_without_marker", hookContent: testHookWithoutMarkerConstant, expectedMarker: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			repositoryPath := prepareRepositoryLayout(testInstance)
			probe := markers.NewProbe(nil)
			require.NoError(testInstance, os.WriteFile(probe.PrePushHookPath(repositoryPath), []byte(testCase.hookContent), 0o755))

			containsMarker, readError := probe.PrePushHookContainsLfsMarker(repositoryPath)
			require.NoError(testInstance, readError)
			require.Equal(testInstance, testCase.expectedMarker, containsMarker)
		})
	}
}

func TestProbeRemovePrePushHookAndLfsDirectory(testInstance *testing.T) {
	repositoryPath := prepareRepositoryLayout(testInstance)
	probe := markers.NewProbe(nil)

	require.NoError(testInstance, os.WriteFile(probe.PrePushHookPath(repositoryPath), []byte(testHookWithMarkerConstant), 0o755))
	require.NoError(testInstance, os.MkdirAll(probe.LfsDirectoryPath(repositoryPath), 0o755))

	require.NoError(testInstance, probe.RemovePrePushHook(repositoryPath))
	require.False(testInstance, probe.HasPrePushHook(repositoryPath))
	require.NoError(testInstance, probe.RemovePrePushHook(repositoryPath))

	require.NoError(testInstance, probe.RemoveLfsDirectory(repositoryPath))
	require.False(testInstance, probe.HasLfsDirectory(repositoryPath))
}
