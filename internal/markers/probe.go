package markers

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/temirov/workcopy/internal/filesystem"
)

const (
	// IgnoreFileNameConstant is the ignore file expected at the repository root.
	IgnoreFileNameConstant = ".gitignore"
	// AttributesFileNameConstant is the attributes file expected at the repository root.
	AttributesFileNameConstant = ".gitattributes"
	// LfsHookMarkerConstant is the literal expected inside a pre-push hook managed by the LFS extension.
	LfsHookMarkerConstant = "git-lfs"

	gitMetadataDirectoryNameConstant = ".git"
	hooksDirectoryNameConstant       = "hooks"
	prePushHookFileNameConstant      = "pre-push"
	lfsDirectoryNameConstant         = "lfs"
	markerFilePermissionsConstant    = os.FileMode(0o644)
)

// lfsFilterLinePattern matches attribute lines with an optional glob followed by the LFS filter directive.
var lfsFilterLinePattern = regexp.MustCompile(`^\s*(\S+)?\s*filter=lfs\s+diff=lfs\s+merge=lfs`)

// Probe classifies repository state by inspecting marker files on disk.
type Probe struct {
	fileSystem filesystem.FileSystem
}

// NewProbe constructs a Probe using the provided filesystem, defaulting to the operating system.
func NewProbe(fileSystem filesystem.FileSystem) *Probe {
	resolvedFileSystem := fileSystem
	if resolvedFileSystem == nil {
		resolvedFileSystem = filesystem.OSFileSystem{}
	}
	return &Probe{fileSystem: resolvedFileSystem}
}

// IgnoreFilePath returns the location of the repository ignore file.
func (probe *Probe) IgnoreFilePath(repositoryPath string) string {
	return filepath.Join(repositoryPath, IgnoreFileNameConstant)
}

// AttributesFilePath returns the location of the repository attributes file.
func (probe *Probe) AttributesFilePath(repositoryPath string) string {
	return filepath.Join(repositoryPath, AttributesFileNameConstant)
}

// PrePushHookPath returns the location of the pre-push hook file.
func (probe *Probe) PrePushHookPath(repositoryPath string) string {
	return filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant, hooksDirectoryNameConstant, prePushHookFileNameConstant)
}

// LfsDirectoryPath returns the location of the large-file-storage backing directory.
func (probe *Probe) LfsDirectoryPath(repositoryPath string) string {
	return filepath.Join(repositoryPath, gitMetadataDirectoryNameConstant, lfsDirectoryNameConstant)
}

// HasIgnoreFile reports whether the ignore file exists at the repository root.
func (probe *Probe) HasIgnoreFile(repositoryPath string) bool {
	return probe.pathExists(probe.IgnoreFilePath(repositoryPath))
}

// HasAttributesFile reports whether the attributes file exists at the repository root.
func (probe *Probe) HasAttributesFile(repositoryPath string) bool {
	return probe.pathExists(probe.AttributesFilePath(repositoryPath))
}

// HasPrePushHook reports whether the pre-push hook file exists.
func (probe *Probe) HasPrePushHook(repositoryPath string) bool {
	return probe.pathExists(probe.PrePushHookPath(repositoryPath))
}

// HasLfsDirectory reports whether the large-file-storage backing directory exists.
func (probe *Probe) HasLfsDirectory(repositoryPath string) bool {
	return probe.pathExists(probe.LfsDirectoryPath(repositoryPath))
}

// EnsureIgnoreFile creates an empty ignore file when absent and reports whether creation happened.
func (probe *Probe) EnsureIgnoreFile(repositoryPath string) (bool, error) {
	return probe.ensureMarkerFile(probe.IgnoreFilePath(repositoryPath))
}

// EnsureAttributesFile creates an empty attributes file when absent and reports whether creation happened.
func (probe *Probe) EnsureAttributesFile(repositoryPath string) (bool, error) {
	return probe.ensureMarkerFile(probe.AttributesFilePath(repositoryPath))
}

// PrePushHookContainsLfsMarker reports whether the pre-push hook declares the LFS marker.
func (probe *Probe) PrePushHookContainsLfsMarker(repositoryPath string) (bool, error) {
	hookContent, readError := probe.fileSystem.ReadFile(probe.PrePushHookPath(repositoryPath))
	if readError != nil {
		return false, readError
	}
	return strings.Contains(string(hookContent), LfsHookMarkerConstant), nil
}

// AttributesDeclaresLfsFilter reports whether any attributes line carries the LFS filter directive.
func (probe *Probe) AttributesDeclaresLfsFilter(repositoryPath string) (bool, error) {
	attributeLines, readError := probe.readAttributeLines(repositoryPath)
	if readError != nil {
		return false, readError
	}
	for _, attributeLine := range attributeLines {
		if lfsFilterLinePattern.MatchString(attributeLine) {
			return true, nil
		}
	}
	return false, nil
}

// LfsTrackedPatterns parses the attributes file and returns the glob patterns bound to the LFS filter.
func (probe *Probe) LfsTrackedPatterns(repositoryPath string) ([]string, error) {
	attributeLines, readError := probe.readAttributeLines(repositoryPath)
	if readError != nil {
		return nil, readError
	}

	var trackedPatterns []string
	for _, attributeLine := range attributeLines {
		lineMatch := lfsFilterLinePattern.FindStringSubmatch(attributeLine)
		if lineMatch == nil {
			continue
		}
		trackedPattern := strings.TrimSpace(lineMatch[1])
		if len(trackedPattern) == 0 {
			continue
		}
		trackedPatterns = append(trackedPatterns, trackedPattern)
	}
	return trackedPatterns, nil
}

// RemovePrePushHook deletes the pre-push hook file when present.
func (probe *Probe) RemovePrePushHook(repositoryPath string) error {
	hookPath := probe.PrePushHookPath(repositoryPath)
	if !probe.pathExists(hookPath) {
		return nil
	}
	return probe.fileSystem.Remove(hookPath)
}

// RemoveLfsDirectory deletes the large-file-storage backing directory when present.
func (probe *Probe) RemoveLfsDirectory(repositoryPath string) error {
	return probe.fileSystem.RemoveAll(probe.LfsDirectoryPath(repositoryPath))
}

func (probe *Probe) ensureMarkerFile(markerPath string) (bool, error) {
	if probe.pathExists(markerPath) {
		return false, nil
	}
	writeError := probe.fileSystem.WriteFile(markerPath, []byte{}, markerFilePermissionsConstant)
	if writeError != nil {
		return false, writeError
	}
	return true, nil
}

func (probe *Probe) readAttributeLines(repositoryPath string) ([]string, error) {
	attributesContent, readError := probe.fileSystem.ReadFile(probe.AttributesFilePath(repositoryPath))
	if readError != nil {
		if os.IsNotExist(readError) {
			return nil, nil
		}
		return nil, readError
	}
	return strings.Split(string(attributesContent), "\n"), nil
}

func (probe *Probe) pathExists(path string) bool {
	_, statError := probe.fileSystem.Stat(path)
	return statError == nil
}
