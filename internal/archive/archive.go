// Package archive bundles the gallery's original images into a gzip tarball
// offered as a download link.
package archive

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"simplegallery/internal/logging"
	"simplegallery/internal/toolexec"
)

// Archiver runs tar through a toolexec runner.
type Archiver struct {
	runner *toolexec.Runner
	binary string
	logger *slog.Logger
}

// New constructs an archiver for the tar binary.
func New(runner *toolexec.Runner, binary string, logger *slog.Logger) *Archiver {
	return &Archiver{
		runner: runner,
		binary: binary,
		logger: logging.NewComponentLogger(logger, "archive"),
	}
}

// Create writes dest as `tar -czf dest members...` run from workDir. Members
// are paths relative to workDir. With no members nothing is written. A failed
// run is logged, the partial archive is removed, and false is returned; the
// error is reserved for cancellation.
func (a *Archiver) Create(ctx context.Context, workDir, dest string, members []string) (bool, error) {
	logger := logging.WithContext(ctx, a.logger)
	if len(members) == 0 {
		logger.Info("no images to archive", logging.String("dest", dest))
		return false, nil
	}

	args := append([]string{"-czf", dest}, members...)
	outcome, err := a.runner.Run(ctx, toolexec.Invocation{
		Tool:   "tar",
		Binary: a.binary,
		Args:   args,
		Dir:    workDir,
		Policy: toolexec.PolicyWarn,
		Hint:   "check free space and that every listed image exists",
		Impact: "the gallery is published without a download archive",
	})
	if err != nil || !outcome.OK() {
		removePartial(logger, resolve(workDir, dest))
		return false, err
	}

	logger.Info("archive written", logging.String("dest", dest), logging.Int("members", len(members)))
	return true, nil
}

func resolve(workDir, path string) string {
	if filepath.IsAbs(path) || workDir == "" {
		return path
	}
	return filepath.Join(workDir, path)
}

func removePartial(logger *slog.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug("remove partial archive failed", logging.String("path", path), logging.Error(err))
	}
}
