// Package markers inspects the marker files that classify a working copy:
// the ignore file, the attributes file, the pre-push hook, and the
// large-file-storage backing directory.
package markers
