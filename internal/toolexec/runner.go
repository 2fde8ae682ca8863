package toolexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"simplegallery/internal/logging"
	"simplegallery/internal/services"
)

// Policy decides what a failed invocation means for the run.
type Policy int

const (
	// PolicyFatal aborts the command with an error.
	PolicyFatal Policy = iota
	// PolicyWarn logs a warning and lets the run continue.
	PolicyWarn
	// PolicyDegrade records the failure at debug level and continues with a
	// degraded result.
	PolicyDegrade
)

func (p Policy) String() string {
	switch p {
	case PolicyFatal:
		return "fatal"
	case PolicyWarn:
		return "warn"
	case PolicyDegrade:
		return "degrade"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

const maxOutputInError = 512

// Observer receives the result of every invocation.
type Observer interface {
	ObserveTool(tool string, err error)
}

// Invocation describes one external program call.
type Invocation struct {
	// Tool is the logical name (convert, tar, jhead) used in logs and metrics.
	Tool   string
	Binary string
	Args   []string
	// Dir is the working directory; empty inherits the process cwd.
	Dir    string
	Policy Policy
	// Hint and Impact annotate the warning logged under PolicyWarn.
	Hint   string
	Impact string
}

// Outcome captures the result of an invocation.
type Outcome struct {
	Output   []byte
	Err      error
	Duration time.Duration
}

// OK reports whether the program exited successfully.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Option configures the runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithObserver registers a callback notified after each invocation.
func WithObserver(observer Observer) Option {
	return func(r *Runner) {
		r.observer = observer
	}
}

// Runner executes invocations and applies their failure policy.
type Runner struct {
	exec     Executor
	logger   *slog.Logger
	observer Observer
}

// NewRunner constructs a runner that shells out with os/exec by default.
func NewRunner(logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		exec:   commandExecutor{},
		logger: logging.NewComponentLogger(logger, "toolexec"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes inv. The returned error is non-nil only when the failure is
// fatal under inv.Policy or the context was cancelled; the Outcome always
// carries the underlying failure.
func (r *Runner) Run(ctx context.Context, inv Invocation) (Outcome, error) {
	binary := strings.TrimSpace(inv.Binary)
	if binary == "" {
		err := services.Wrap(services.ErrConfiguration, stageOf(ctx), inv.Tool, "binary not configured", nil)
		return Outcome{Err: err}, err
	}

	logger := logging.WithContext(ctx, r.logger).With(logging.String(logging.FieldTool, inv.Tool))
	logger.Debug("running external tool",
		logging.String("binary", binary),
		logging.Any("args", inv.Args),
		logging.String("dir", inv.Dir),
	)

	start := time.Now()
	output, execErr := r.exec.Run(ctx, inv.Dir, binary, inv.Args)
	outcome := Outcome{Output: output, Err: execErr, Duration: time.Since(start)}

	if r.observer != nil {
		r.observer.ObserveTool(inv.Tool, execErr)
	}

	if execErr == nil {
		logger.Debug("external tool finished", logging.Duration("duration", outcome.Duration))
		return outcome, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}

	detail := summarizeOutput(output)
	switch inv.Policy {
	case PolicyWarn:
		attrs := []logging.Attr{
			logging.Error(execErr),
			logging.String("binary", binary),
		}
		if detail != "" {
			attrs = append(attrs, logging.String("output", detail))
		}
		if hint := strings.TrimSpace(inv.Hint); hint != "" {
			attrs = append(attrs, logging.String(logging.FieldErrorHint, hint))
		}
		if impact := strings.TrimSpace(inv.Impact); impact != "" {
			attrs = append(attrs, logging.String(logging.FieldImpact, impact))
		}
		logging.WarnWithContext(logger, inv.Tool+" failed", inv.Tool+"_failed", attrs...)
		return outcome, nil
	case PolicyDegrade:
		logger.Debug("external tool failed; continuing without its output",
			logging.Error(execErr),
			logging.String("output", detail),
		)
		return outcome, nil
	default:
		msg := fmt.Sprintf("%s exited with error", binary)
		if detail != "" {
			msg += ": " + detail
		}
		err := services.Wrap(services.ErrExternalTool, stageOf(ctx), inv.Tool, msg, execErr)
		return outcome, err
	}
}

func stageOf(ctx context.Context) string {
	stage, _ := services.StageFromContext(ctx)
	return stage
}

func summarizeOutput(output []byte) string {
	text := strings.TrimSpace(string(output))
	if len(text) > maxOutputInError {
		text = "..." + text[len(text)-maxOutputInError:]
	}
	return text
}

