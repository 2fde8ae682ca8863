// Package services defines shared utilities consumed by the gallery pipeline
// and its external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp the run correlation ID and the running
//     command so log lines can be tied back to one invocation.
//   - Structured error markers plus the Wrap helper, and Hint, which turns a
//     classified failure into the guidance printed by the CLI.
package services
