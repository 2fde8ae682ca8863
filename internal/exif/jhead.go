package exif

import (
	"context"
	"strings"

	"simplegallery/internal/toolexec"
)

// JheadReader runs `jhead FILE` and returns its report verbatim.
type JheadReader struct {
	runner *toolexec.Runner
	binary string
}

// NewJheadReader builds a reader that shells out through runner.
func NewJheadReader(runner *toolexec.Runner, binary string) *JheadReader {
	return &JheadReader{runner: runner, binary: binary}
}

func (r *JheadReader) Read(ctx context.Context, path string) (string, error) {
	outcome, err := r.runner.Run(ctx, toolexec.Invocation{
		Tool:   "jhead",
		Binary: r.binary,
		Args:   []string{path},
		Policy: toolexec.PolicyDegrade,
	})
	if err != nil {
		return "", err
	}
	if outcome.Err != nil {
		return "", outcome.Err
	}
	return strings.TrimSpace(string(outcome.Output)), nil
}

func (r *JheadReader) Close() error { return nil }
