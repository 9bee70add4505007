// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and defines the abstractions used throughout
// workcopy to run git, git-lfs, and platform shell openers in a testable
// manner.
package execshell
