// Package gitrepo wraps the external version-control tool's command surface.
//
// It exposes RepositoryManager for clone, configuration, large-file-storage,
// and maintenance operations, along with refreshers that re-read branch and
// working-tree state for the lifecycle manager.
package gitrepo
