package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"simplegallery/internal/archive"
	"simplegallery/internal/config"
	"simplegallery/internal/convert"
	"simplegallery/internal/exif"
	"simplegallery/internal/logging"
	"simplegallery/internal/metrics"
	"simplegallery/internal/services"
	"simplegallery/internal/toolexec"
)

// Option configures the pipeline.
type Option func(*Pipeline)

// WithOutput sets where operator-facing progress text is printed.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		if w != nil {
			p.out = w
		}
	}
}

// WithExecutor injects a custom executor for every external tool (primarily
// for tests).
func WithExecutor(exec toolexec.Executor) Option {
	return func(p *Pipeline) {
		p.executor = exec
	}
}

// WithEXIFReader replaces the configured EXIF backend.
func WithEXIFReader(reader exif.Reader) Option {
	return func(p *Pipeline) {
		p.reader = reader
	}
}

// WithMetrics records run metrics and writes them to metrics.textfile.
func WithMetrics(rec *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = rec
	}
}

// Pipeline wires the gallery commands to their collaborators.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	out      io.Writer
	executor toolexec.Executor
	reader   exif.Reader
	metrics  *metrics.Recorder

	runner    *toolexec.Runner
	converter *convert.Converter
	archiver  *archive.Archiver
}

// New constructs a pipeline. A nil cfg uses the defaults.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "gallery"),
		out:    os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}

	runnerOpts := []toolexec.Option{toolexec.WithExecutor(p.executor)}
	if p.metrics != nil {
		runnerOpts = append(runnerOpts, toolexec.WithObserver(p.metrics))
	}
	p.runner = toolexec.NewRunner(logger, runnerOpts...)
	p.converter = convert.New(p.runner, cfg.Tools.Convert)
	p.archiver = archive.New(p.runner, cfg.Tools.Tar, logger)
	return p
}

// Run executes cmd and records its outcome.
func (p *Pipeline) Run(ctx context.Context, cmd Command, opts Options) error {
	ctx = services.WithStage(ctx, cmd.String())
	logger := logging.WithContext(ctx, p.logger)
	logger.Debug("command starting", logging.String("dir", opts.Dir), logging.Bool("archive", opts.Archive))

	start := time.Now()
	var err error
	switch cmd {
	case CommandPrepare:
		err = p.Prepare(ctx, opts)
	case CommandProcess:
		err = p.Process(ctx, opts)
	default:
		err = fmt.Errorf("unknown command %s", cmd)
	}
	elapsed := time.Since(start)

	p.metrics.RunFinished(cmd.String(), elapsed, err)
	if werr := p.metrics.WriteTextfile(p.cfg.Metrics.Textfile); werr != nil {
		logging.WarnWithContext(logger, "metrics textfile not written", "metrics_write_failed",
			logging.Error(werr),
			logging.String("path", p.cfg.Metrics.Textfile),
			logging.String(logging.FieldErrorHint, "check that the metrics.textfile directory exists and is writable"),
			logging.String(logging.FieldImpact, "run metrics are stale"),
		)
	}

	if err != nil {
		logger.Debug("command failed", logging.Error(err), logging.Duration("duration", elapsed))
		return err
	}
	logger.Info("command finished", logging.Duration("duration", elapsed))
	return nil
}

// acquireLock takes the advisory lock under _web. The web directory must exist.
func (p *Pipeline) acquireLock(ctx context.Context, layout Layout) (func(), error) {
	lock := flock.New(layout.Lock)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		stage, _ := services.StageFromContext(ctx)
		return nil, services.Wrap(services.ErrBusy, stage, "acquire lock", "another simplegallery run holds "+layout.Lock, nil)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logging.WithContext(ctx, p.logger).Debug("release lock failed", logging.Error(err))
		}
	}, nil
}

// archive bundles members (relative to the gallery directory) into the archive.
func (p *Pipeline) archive(ctx context.Context, layout Layout, members []string) error {
	_, err := p.archiver.Create(ctx, layout.Dir, layout.ArchiveRel(), members)
	return err
}

func (p *Pipeline) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

func (p *Pipeline) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func validateDir(dir string) error {
	if dir == "" {
		return services.Wrap(services.ErrConfiguration, "", "", "gallery directory required", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrConfiguration, "", "", dir+" is not a valid directory", err)
		}
		return fmt.Errorf("inspect %s: %w", dir, err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrConfiguration, "", "", dir+" is not a valid directory", nil)
	}
	return nil
}

func baseNames(paths []string) []string {
	names := make([]string, 0, len(paths))
	for _, path := range paths {
		names = append(names, filepath.Base(path))
	}
	return names
}
