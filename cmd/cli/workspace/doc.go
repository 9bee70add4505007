// Package workspace provides the Cobra commands that operate on a repository
// working copy: open, clone, large-file-storage transitions, signature
// maintenance, storage maintenance, and the recent-repository list.
package workspace
