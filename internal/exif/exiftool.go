package exif

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/barasher/go-exiftool"
)

// ExiftoolReader keeps one exiftool process open for the whole scan.
type ExiftoolReader struct {
	mu   sync.Mutex
	tool *exiftool.Exiftool
}

// NewExiftoolReader starts exiftool. An empty binary uses the one on PATH.
func NewExiftoolReader(binary string) (*ExiftoolReader, error) {
	var opts []func(*exiftool.Exiftool) error
	if binary = strings.TrimSpace(binary); binary != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binary))
	}
	tool, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("start exiftool: %w", err)
	}
	return &ExiftoolReader{tool: tool}, nil
}

func (r *ExiftoolReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tool == nil {
		return "", errors.New("exiftool closed")
	}
	results := r.tool.ExtractMetadata(path)
	if len(results) == 0 {
		return "", fmt.Errorf("exiftool returned no metadata for %s", path)
	}
	meta := results[0]
	if meta.Err != nil {
		return "", meta.Err
	}
	fields := make(map[string]string, len(meta.Fields))
	for k, v := range meta.Fields {
		if k == "SourceFile" || strings.HasPrefix(k, "File") || k == "Directory" {
			continue
		}
		fields[k] = fmt.Sprint(v)
	}
	if len(fields) == 0 {
		return "", fmt.Errorf("no exif fields in %s", path)
	}
	return formatFields(fields), nil
}

// Close stops the exiftool process.
func (r *ExiftoolReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tool == nil {
		return nil
	}
	err := r.tool.Close()
	r.tool = nil
	return err
}
