package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"simplegallery/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp directory per test.
// Logging stays on the console handler and metrics are disabled unless an
// option turns them on.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Gallery.EXIFReader = config.EXIFReaderNone

	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithEXIFReader selects the EXIF backend on the test config.
func WithEXIFReader(reader string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Gallery.EXIFReader = reader
	}
}

// WithMetricsTextfile enables the metrics textfile inside the temp directory.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "simplegallery.prom")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the default simplegallery external
// binaries are stubbed. Each stub exits 0 without output.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"convert", "tar", "jhead"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			WriteStub(b.t, binDir, name, "exit 0")
		}
		PrependPath(b.t, binDir)
	}
}

// WithStub writes a stub with a custom shell body and points the matching
// [tools] entry at it. PATH is left untouched.
func WithStub(tool, body string) ConfigOption {
	return func(b *configBuilder) {
		path := WriteStub(b.t, filepath.Join(b.baseDir, "bin"), tool, body)
		switch tool {
		case "convert":
			b.cfg.Tools.Convert = path
		case "tar":
			b.cfg.Tools.Tar = path
		case "jhead":
			b.cfg.Tools.Jhead = path
		case "exiftool":
			b.cfg.Tools.Exiftool = path
		default:
			b.t.Fatalf("unknown tool %q", tool)
		}
	}
}

// WriteStub writes an executable shell script named name into dir and
// returns its path.
func WriteStub(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	script := []byte("#!/bin/sh\n" + body + "\n")
	if err := os.WriteFile(target, script, 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// PrependPath puts dir at the front of PATH for the duration of the test.
func PrependPath(t testing.TB, dir string) {
	t.Helper()
	oldPath := os.Getenv("PATH")
	if err := os.Setenv("PATH", dir+string(os.PathListSeparator)+oldPath); err != nil {
		t.Fatalf("set PATH: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Setenv("PATH", oldPath)
	})
}
