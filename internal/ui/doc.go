// Package ui renders human-readable command lifecycle events for console
// log output.
package ui
