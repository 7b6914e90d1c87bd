// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging, lifecycle observers, and per-invocation
// identifiers via ShellExecutor, exposes OSCommandRunner for default process
// execution, and defines the abstractions pyship uses to run the package
// build and upload tools in a testable manner.
package execshell
