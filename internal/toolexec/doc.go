// Package toolexec runs the external programs the gallery depends on
// (convert, tar, jhead) and applies a per-invocation failure policy.
//
// Callers describe each call with an Invocation. The Runner executes it through
// an Executor, reports the outcome to an optional Observer (the metrics
// recorder), and then decides whether the failure aborts the run, is logged as
// a warning, or silently degrades the result.
package toolexec
