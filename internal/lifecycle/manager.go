package lifecycle

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/temirov/workcopy/internal/gitrepo"
)

const (
	notWorkingTreeMessageConstant = "path is not inside a git working tree"

	repositoryPathFieldNameConstant = "repository_path"
	filePathFieldNameConstant       = "file_path"
	toolNameFieldNameConstant       = "tool_name"
	platformFieldNameConstant       = "platform"

	ignoreFileCreatedLogMessageConstant        = "Created missing ignore file"
	ignoreFileProvisionLogMessageConstant      = "Unable to provision ignore file"
	historyRecordFailureLogMessageConstant     = "Unable to record repository in history"
	signatureReadFailureLogMessageConstant     = "Unable to read commit signature"
	signatureIncompleteLogMessageConstant      = "Commit signature is incomplete"
	branchRefreshFailureLogMessageConstant     = "Unable to refresh branch state"
	worktreeRefreshFailureLogMessageConstant   = "Unable to refresh working tree state"
	refreshWithoutRepositoryLogMessageConstant = "Refresh requested without an open repository"
	refreshFailureLogMessageConstant           = "Repository refresh failed"
	unpackedObjectsFailureLogMessageConstant   = "Unable to count unpacked objects"
	optimizeFailureLogMessageConstant          = "Unable to optimize repository storage"
	markerProbeFailureLogMessageConstant       = "Unable to inspect repository marker files"
)

// unpackedObjectCountUnavailableConstant is returned when the object count cannot be determined.
const unpackedObjectCountUnavailableConstant = int64(-1)

// Manager owns a single repository working-copy handle and coordinates open,
// clone, refresh, signature, and large-file-storage operations against it.
// Open, Close, and Clone are expected to run on one goroutine; Refresh may be
// dispatched to a background goroutine and is guarded against overlap.
type Manager struct {
	logger               *zap.Logger
	adapter              VersionControlAdapter
	probe                MarkerProbe
	branchRefresher      BranchStateRefresher
	worktreeRefresher    WorktreeStateRefresher
	historyRecorder      RepositoryHistoryRecorder
	toolLocator          ExternalToolLocator
	shellCommandExecutor ShellCommandExecutor
	configuration        Configuration

	repositoryPath  string
	lfsEnabled      bool
	cachedSignature gitrepo.Signature

	refreshActive    atomic.Bool
	observers        []observerRegistration
	observerMutex    sync.Mutex
	observerSequence int64
}

// NewManager validates the provided collaborators and builds a Manager.
func NewManager(dependencies Dependencies, configuration Configuration) (*Manager, error) {
	if dependencies.Adapter == nil {
		return nil, ErrVersionControlAdapterNotConfigured
	}
	if dependencies.Probe == nil {
		return nil, ErrMarkerProbeNotConfigured
	}
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	branchRefresher := dependencies.BranchRefresher
	if branchRefresher == nil {
		branchRefresher = noopBranchStateRefresher{}
	}
	worktreeRefresher := dependencies.WorktreeRefresher
	if worktreeRefresher == nil {
		worktreeRefresher = noopWorktreeStateRefresher{}
	}
	historyRecorder := dependencies.HistoryRecorder
	if historyRecorder == nil {
		historyRecorder = noopRepositoryHistoryRecorder{}
	}
	toolLocator := dependencies.ToolLocator
	if toolLocator == nil {
		toolLocator = systemToolLocator{}
	}
	return &Manager{
		logger:               logger,
		adapter:              dependencies.Adapter,
		probe:                dependencies.Probe,
		branchRefresher:      branchRefresher,
		worktreeRefresher:    worktreeRefresher,
		historyRecorder:      historyRecorder,
		toolLocator:          toolLocator,
		shellCommandExecutor: dependencies.ShellCommandExecutor,
		configuration:        configuration,
	}, nil
}

// errNotWorkingTree reports an open attempt against a path outside any working tree.
var errNotWorkingTree = errors.New(notWorkingTreeMessageConstant)

// Open establishes a handle on the repository at repositoryPath. An empty path
// closes any current handle and reports success. Re-opening the already open
// path refreshes it without tearing down the handle first. When verifySettings
// is true an incomplete commit signature is logged as a warning. The returned
// boolean reports whether repository state was refreshed successfully.
func (manager *Manager) Open(executionContext context.Context, repositoryPath string, verifySettings bool) (bool, error) {
	trimmedPath := strings.TrimSpace(repositoryPath)
	if trimmedPath == "" {
		manager.Dispose()
		return true, nil
	}
	if mergeToolError := manager.ensureMergeToolInstalled(); mergeToolError != nil {
		return false, mergeToolError
	}
	absolutePath, absoluteError := filepath.Abs(trimmedPath)
	if absoluteError != nil {
		manager.Dispose()
		return false, OpenError{RepositoryPath: trimmedPath, Cause: absoluteError}
	}
	refreshMode := manager.repositoryPath != "" && manager.repositoryPath == absolutePath
	if !refreshMode {
		manager.Dispose()
	}
	insideWorkingTree, workingTreeError := manager.adapter.IsWorkingTree(executionContext, absolutePath)
	if workingTreeError != nil {
		manager.Dispose()
		return false, OpenError{RepositoryPath: absolutePath, Cause: workingTreeError}
	}
	if !insideWorkingTree {
		manager.Dispose()
		return false, OpenError{RepositoryPath: absolutePath, Cause: errNotWorkingTree}
	}
	manager.repositoryPath = absolutePath
	manager.lfsEnabled = manager.detectLfsState(absolutePath, false)
	if !refreshMode {
		manager.prepareOpenedRepository(executionContext, absolutePath, verifySettings)
	}
	return manager.refreshInternal(executionContext, refreshMode), nil
}

// prepareOpenedRepository performs the one-time steps of a fresh open: ignore
// file provisioning, history recording, and signature caching. Failures here
// are logged and never abort the open.
func (manager *Manager) prepareOpenedRepository(executionContext context.Context, repositoryPath string, verifySettings bool) {
	ignoreFileCreated, ignoreFileError := manager.probe.EnsureIgnoreFile(repositoryPath)
	switch {
	case ignoreFileError != nil:
		manager.logger.Warn(ignoreFileProvisionLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(ignoreFileError))
	case ignoreFileCreated:
		manager.logger.Warn(ignoreFileCreatedLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath))
	}
	if recordError := manager.historyRecorder.Record(repositoryPath); recordError != nil {
		manager.logger.Warn(historyRecordFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(recordError))
	}
	signature, signatureError := manager.adapter.ReadSignature(executionContext, repositoryPath, gitrepo.ConfigurationScopeLocal)
	if signatureError != nil {
		manager.logger.Warn(signatureReadFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(signatureError))
	} else {
		manager.cachedSignature = signature
	}
	if verifySettings && !manager.cachedSignature.IsComplete() {
		manager.logger.Warn(signatureIncompleteLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath))
	}
}

// refreshInternal re-reads branch and working tree state for the open
// repository. The first failing step short-circuits the refresh; observers are
// notified only after both steps succeed.
func (manager *Manager) refreshInternal(executionContext context.Context, refreshMode bool) bool {
	repositoryPath := manager.repositoryPath
	if branchError := manager.branchRefresher.RefreshBranchState(executionContext, repositoryPath, refreshMode); branchError != nil {
		manager.logger.Warn(branchRefreshFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(branchError))
		return false
	}
	if worktreeError := manager.worktreeRefresher.RefreshWorktreeState(executionContext, repositoryPath, refreshMode); worktreeError != nil {
		manager.logger.Warn(worktreeRefreshFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, repositoryPath), zap.Error(worktreeError))
		return false
	}
	manager.notifyRefreshed()
	return true
}

// Close releases the current repository handle. Closing without an open handle
// is a no-op.
func (manager *Manager) Close() {
	manager.Dispose()
}

// Dispose clears the repository handle and all cached state. It is idempotent.
func (manager *Manager) Dispose() {
	manager.repositoryPath = ""
	manager.lfsEnabled = false
	manager.cachedSignature = gitrepo.Signature{}
}

// Refresh re-reads the open repository's state. When useBackground is true the
// work runs on a new goroutine and observers see a start notification, the
// refreshed notification, then a stop notification. At most one refresh runs
// at a time; an overlapping request completes immediately with false. The
// returned channel is buffered and delivers exactly one completion value.
func (manager *Manager) Refresh(executionContext context.Context, useBackground bool) <-chan bool {
	completion := make(chan bool, 1)
	if !useBackground {
		completion <- manager.runGuardedRefresh(executionContext)
		return completion
	}
	if manager.refreshActive.Load() {
		completion <- false
		return completion
	}
	go func() {
		completion <- manager.runGuardedRefresh(executionContext)
	}()
	return completion
}

func (manager *Manager) runGuardedRefresh(executionContext context.Context) bool {
	if !manager.refreshActive.CompareAndSwap(false, true) {
		return false
	}
	manager.notifyRefreshing(true)
	refreshed := manager.performRefresh(executionContext)
	manager.refreshActive.Store(false)
	manager.notifyRefreshing(false)
	return refreshed
}

func (manager *Manager) performRefresh(executionContext context.Context) bool {
	currentPath := manager.repositoryPath
	if currentPath == "" {
		manager.logger.Warn(refreshWithoutRepositoryLogMessageConstant)
		return false
	}
	refreshed, openError := manager.Open(executionContext, currentPath, false)
	if openError != nil {
		manager.logger.Warn(refreshFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, currentPath), zap.Error(openError))
		return false
	}
	return refreshed
}

// Clone clones remoteURL beneath parentDirectory and returns the path of the
// cloned repository. Credentials supplied by the prompter are streamed to the
// clone process and never retained. The clone is not opened; the caller decides
// whether to open the returned path.
func (manager *Manager) Clone(executionContext context.Context, remoteURL string, parentDirectory string, credentialPrompter gitrepo.CredentialPrompter) (string, error) {
	cloneOptions := gitrepo.CloneOptions{
		RemoteURL:          remoteURL,
		ParentDirectory:    parentDirectory,
		CredentialPrompter: credentialPrompter,
	}
	if cloneError := manager.adapter.CloneRepository(executionContext, cloneOptions); cloneError != nil {
		return "", CloneError{RemoteURL: remoteURL, Cause: cloneError}
	}
	clonedPath := filepath.Join(parentDirectory, gitrepo.CloneDirectoryName(remoteURL))
	manager.lfsEnabled = manager.detectLfsState(clonedPath, true)
	return clonedPath, nil
}

// UpdateSignature persists signature to the global configuration scope and
// caches it on success.
func (manager *Manager) UpdateSignature(executionContext context.Context, signature gitrepo.Signature) error {
	if manager.repositoryPath == "" {
		return ErrNoRepositoryOpen
	}
	writeError := manager.adapter.WriteSignature(executionContext, manager.repositoryPath, gitrepo.ConfigurationScopeGlobal, signature)
	if writeError != nil {
		return SignatureError{Cause: writeError}
	}
	manager.cachedSignature = signature
	return nil
}

// UnpackedObjectCount reports the number and human-readable size of unpacked
// objects in the open repository. When no repository is open or the count
// fails, it reports -1 and an empty size.
func (manager *Manager) UnpackedObjectCount(executionContext context.Context) (int64, string) {
	if manager.repositoryPath == "" {
		manager.logger.Warn(unpackedObjectsFailureLogMessageConstant, zap.Error(ErrNoRepositoryOpen))
		return unpackedObjectCountUnavailableConstant, ""
	}
	unpackedObjects, countError := manager.adapter.CountUnpackedObjects(executionContext, manager.repositoryPath)
	if countError != nil {
		manager.logger.Warn(unpackedObjectsFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, manager.repositoryPath), zap.Error(countError))
		return unpackedObjectCountUnavailableConstant, ""
	}
	return unpackedObjects.Count, unpackedObjects.HumanSize
}

// Optimize runs storage optimization on the open repository and reports
// whether it succeeded.
func (manager *Manager) Optimize(executionContext context.Context) bool {
	if manager.repositoryPath == "" {
		manager.logger.Warn(optimizeFailureLogMessageConstant, zap.Error(ErrNoRepositoryOpen))
		return false
	}
	if collectError := manager.adapter.GarbageCollect(executionContext, manager.repositoryPath); collectError != nil {
		manager.logger.Warn(optimizeFailureLogMessageConstant, zap.String(repositoryPathFieldNameConstant, manager.repositoryPath), zap.Error(collectError))
		return false
	}
	return true
}

// RepositoryPath returns the path of the open repository, or an empty string.
func (manager *Manager) RepositoryPath() string {
	return manager.repositoryPath
}

// IsOpen reports whether a repository handle is currently held.
func (manager *Manager) IsOpen() bool {
	return manager.repositoryPath != ""
}

// LfsEnabled reports the cached large-file-storage flag.
func (manager *Manager) LfsEnabled() bool {
	return manager.lfsEnabled
}

// CachedSignature returns the signature cached at open or update time.
func (manager *Manager) CachedSignature() gitrepo.Signature {
	return manager.cachedSignature
}

func (manager *Manager) ensureMergeToolInstalled() error {
	mergeToolName := strings.TrimSpace(manager.configuration.MergeToolName)
	if mergeToolName == "" {
		return nil
	}
	if _, locateError := manager.toolLocator.Locate(mergeToolName); locateError != nil {
		return MergeToolNotInstalledError{ToolName: mergeToolName}
	}
	return nil
}

type systemToolLocator struct{}

func (systemToolLocator) Locate(toolName string) (string, error) {
	return exec.LookPath(toolName)
}
