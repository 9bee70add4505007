// Package cli assembles the workcopy command-line application: configuration
// loading, logger construction, and the command hierarchy.
package cli
