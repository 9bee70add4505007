package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"github.com/temirov/workcopy/internal/execshell"
	"github.com/temirov/workcopy/internal/gitrepo"
)

// VersionControlAdapter exposes the subset of the external tool surface used by the manager.
type VersionControlAdapter interface {
	IsWorkingTree(executionContext context.Context, repositoryPath string) (bool, error)
	CloneRepository(executionContext context.Context, options gitrepo.CloneOptions) error
	ReadSignature(executionContext context.Context, repositoryPath string, scope gitrepo.ConfigurationScope) (gitrepo.Signature, error)
	WriteSignature(executionContext context.Context, repositoryPath string, scope gitrepo.ConfigurationScope, signature gitrepo.Signature) error
	InstallLfsHooks(executionContext context.Context, repositoryPath string) error
	UninstallLfsHooks(executionContext context.Context, repositoryPath string) error
	TrackPattern(executionContext context.Context, repositoryPath string, pattern string) error
	UntrackPattern(executionContext context.Context, repositoryPath string, pattern string) error
	GarbageCollect(executionContext context.Context, repositoryPath string) error
	CountUnpackedObjects(executionContext context.Context, repositoryPath string) (gitrepo.UnpackedObjects, error)
}

// MarkerProbe classifies repository state from marker files on disk.
type MarkerProbe interface {
	HasAttributesFile(repositoryPath string) bool
	HasPrePushHook(repositoryPath string) bool
	HasLfsDirectory(repositoryPath string) bool
	EnsureIgnoreFile(repositoryPath string) (bool, error)
	EnsureAttributesFile(repositoryPath string) (bool, error)
	PrePushHookContainsLfsMarker(repositoryPath string) (bool, error)
	AttributesDeclaresLfsFilter(repositoryPath string) (bool, error)
	LfsTrackedPatterns(repositoryPath string) ([]string, error)
	RemovePrePushHook(repositoryPath string) error
	RemoveLfsDirectory(repositoryPath string) error
}

// BranchStateRefresher re-reads branch state during a repository refresh.
type BranchStateRefresher interface {
	RefreshBranchState(executionContext context.Context, repositoryPath string, refreshMode bool) error
}

// WorktreeStateRefresher re-reads working-tree change state during a repository refresh.
type WorktreeStateRefresher interface {
	RefreshWorktreeState(executionContext context.Context, repositoryPath string, refreshMode bool) error
}

// RepositoryHistoryRecorder records repositories in a most-recently-used history.
type RepositoryHistoryRecorder interface {
	Record(repositoryPath string) error
}

// ExternalToolLocator resolves external executables required before opening a repository.
type ExternalToolLocator interface {
	Locate(toolName string) (string, error)
}

// ShellCommandExecutor runs arbitrary shell commands for platform open operations.
type ShellCommandExecutor interface {
	Execute(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error)
}

// Observer receives repository lifecycle notifications.
type Observer interface {
	// RepositoryRefreshing reports that a refresh attempt started (true) or stopped (false).
	RepositoryRefreshing(started bool)
	// RepositoryRefreshed reports that repository state was re-read successfully.
	RepositoryRefreshed()
}

// Dependencies enumerates the collaborators required by the Manager.
type Dependencies struct {
	Logger               *zap.Logger
	Adapter              VersionControlAdapter
	Probe                MarkerProbe
	BranchRefresher      BranchStateRefresher
	WorktreeRefresher    WorktreeStateRefresher
	HistoryRecorder      RepositoryHistoryRecorder
	ToolLocator          ExternalToolLocator
	ShellCommandExecutor ShellCommandExecutor
}

// Configuration carries the tunable behavior of the Manager.
type Configuration struct {
	// MergeToolName is the external merge/diff tool that must be installed before opening; empty disables the check.
	MergeToolName string
	// DefaultTrackingPatterns are the glob patterns registered when enabling large-file-storage with defaults.
	DefaultTrackingPatterns []string
	// HistoryToolName is the executable spawned by OpenHistoryTool.
	HistoryToolName string
	// FileOpenerName overrides the platform file opener; empty selects the platform default.
	FileOpenerName string
}

type noopBranchStateRefresher struct{}

func (noopBranchStateRefresher) RefreshBranchState(context.Context, string, bool) error {
	return nil
}

type noopWorktreeStateRefresher struct{}

func (noopWorktreeStateRefresher) RefreshWorktreeState(context.Context, string, bool) error {
	return nil
}

type noopRepositoryHistoryRecorder struct{}

func (noopRepositoryHistoryRecorder) Record(string) error {
	return nil
}
