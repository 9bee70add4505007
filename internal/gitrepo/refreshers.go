package gitrepo

import (
	"context"
	"sync"
)

// BranchStateRefresher re-reads the branch list after repository state may have changed.
type BranchStateRefresher struct {
	manager *RepositoryManager

	mutex        sync.Mutex
	branchNames  []string
	lastReadPath string
}

// NewBranchStateRefresher constructs a branch refresher backed by the repository manager.
func NewBranchStateRefresher(manager *RepositoryManager) (*BranchStateRefresher, error) {
	if manager == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &BranchStateRefresher{manager: manager}, nil
}

// RefreshBranchState re-reads local branches for the repository.
func (refresher *BranchStateRefresher) RefreshBranchState(executionContext context.Context, repositoryPath string, refreshMode bool) error {
	branchNames, listError := refresher.manager.ListBranches(executionContext, repositoryPath)
	if listError != nil {
		return listError
	}

	refresher.mutex.Lock()
	defer refresher.mutex.Unlock()
	refresher.branchNames = branchNames
	refresher.lastReadPath = repositoryPath
	return nil
}

// BranchNames returns the branches captured by the most recent refresh.
func (refresher *BranchStateRefresher) BranchNames() []string {
	refresher.mutex.Lock()
	defer refresher.mutex.Unlock()
	duplicatedNames := make([]string, len(refresher.branchNames))
	copy(duplicatedNames, refresher.branchNames)
	return duplicatedNames
}

// WorktreeStateRefresher re-reads pending working-tree changes after repository state may have changed.
type WorktreeStateRefresher struct {
	manager *RepositoryManager

	mutex       sync.Mutex
	changeLines []string
}

// NewWorktreeStateRefresher constructs a worktree refresher backed by the repository manager.
func NewWorktreeStateRefresher(manager *RepositoryManager) (*WorktreeStateRefresher, error) {
	if manager == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &WorktreeStateRefresher{manager: manager}, nil
}

// RefreshWorktreeState re-reads the porcelain status for the repository.
func (refresher *WorktreeStateRefresher) RefreshWorktreeState(executionContext context.Context, repositoryPath string, refreshMode bool) error {
	changeLines, listError := refresher.manager.ListWorktreeChanges(executionContext, repositoryPath)
	if listError != nil {
		return listError
	}

	refresher.mutex.Lock()
	defer refresher.mutex.Unlock()
	refresher.changeLines = changeLines
	return nil
}

// ChangeLines returns the working-tree changes captured by the most recent refresh.
func (refresher *WorktreeStateRefresher) ChangeLines() []string {
	refresher.mutex.Lock()
	defer refresher.mutex.Unlock()
	duplicatedLines := make([]string, len(refresher.changeLines))
	copy(duplicatedLines, refresher.changeLines)
	return duplicatedLines
}
