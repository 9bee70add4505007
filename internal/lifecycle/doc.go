// Package lifecycle coordinates a single repository working-copy handle:
// opening and closing, cloning, background refresh with overlap protection,
// commit signature maintenance, and large-file-storage state transitions.
package lifecycle
