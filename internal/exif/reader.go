package exif

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"simplegallery/internal/config"
	"simplegallery/internal/logging"
	"simplegallery/internal/toolexec"
)

// ErrDisabled is returned by the none backend.
var ErrDisabled = errors.New("exif extraction disabled")

// Reader extracts EXIF text for one image.
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
	Close() error
}

// New returns the backend selected by gallery.exif_reader. When the exiftool
// process cannot be started the returned reader fails every call, so the scan
// still completes with absent metadata.
func New(cfg *config.Config, runner *toolexec.Runner, logger *slog.Logger) Reader {
	logger = logging.NewComponentLogger(logger, "exif")
	reader := config.EXIFReaderJhead
	if cfg != nil {
		reader = cfg.Gallery.EXIFReader
	}
	switch reader {
	case config.EXIFReaderNone:
		return noneReader{}
	case config.EXIFReaderBuiltin:
		return BuiltinReader{}
	case config.EXIFReaderExiftool:
		r, err := NewExiftoolReader(cfg.Tools.Exiftool)
		if err != nil {
			logging.WarnWithContext(logger, "exiftool unavailable", "exif_reader_unavailable",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "install exiftool or set gallery.exif_reader"),
				logging.String(logging.FieldImpact, "images are scanned without EXIF metadata"),
			)
			return failingReader{err: err}
		}
		return r
	default:
		binary := "jhead"
		if cfg != nil {
			binary = cfg.Tools.Jhead
		}
		return NewJheadReader(runner, binary)
	}
}

type noneReader struct{}

func (noneReader) Read(context.Context, string) (string, error) { return "", ErrDisabled }

func (noneReader) Close() error { return nil }

type failingReader struct {
	err error
}

func (f failingReader) Read(context.Context, string) (string, error) { return "", f.err }

func (failingReader) Close() error { return nil }

// formatFields renders key/value pairs as sorted "key : value" lines.
func formatFields(fields map[string]string) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	width := 0
	for k := range fields {
		keys = append(keys, k)
		if len(k) > width {
			width = len(k)
		}
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%-*s : %s\n", width, k, fields[k])
	}
	return b.String()
}
