package exif

import (
	"context"
	"fmt"
	"os"
	"strings"

	goexif "github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// BuiltinReader decodes EXIF in process without any external tool.
type BuiltinReader struct{}

type fieldWalker map[string]string

func (w fieldWalker) Walk(name goexif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	if tag.Format() == tiff.StringVal {
		if s, err := tag.StringVal(); err == nil {
			w[string(name)] = strings.TrimSpace(s)
			return nil
		}
	}
	w[string(name)] = tag.String()
	return nil
}

func (BuiltinReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	x, err := goexif.Decode(f)
	if err != nil {
		return "", fmt.Errorf("decode exif %s: %w", path, err)
	}
	fields := fieldWalker{}
	if err := x.Walk(fields); err != nil {
		return "", fmt.Errorf("walk exif %s: %w", path, err)
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("no exif fields in %s", path)
	}
	return formatFields(fields), nil
}

func (BuiltinReader) Close() error { return nil }
