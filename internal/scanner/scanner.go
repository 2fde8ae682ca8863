// Package scanner enumerates the images in a gallery directory.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"simplegallery/internal/exif"
	"simplegallery/internal/logging"
)

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".png":  {},
}

// Image is one scanned file. EXIF is nil when extraction failed or is disabled.
type Image struct {
	Path string
	EXIF *string
}

// Result summarises a scan.
type Result struct {
	Images []Image
	// BadNames lists base names that need URL escaping.
	BadNames     []string
	EXIFFailures int
}

// Paths returns the image paths in scan order.
func (r Result) Paths() []string {
	paths := make([]string, 0, len(r.Images))
	for _, img := range r.Images {
		paths = append(paths, img.Path)
	}
	return paths
}

// Options configures a scan.
type Options struct {
	// Reader extracts EXIF text. Nil skips extraction.
	Reader exif.Reader
	Logger *slog.Logger
	// OnImage is called after each image is scanned.
	OnImage func(Image)
}

// IsImageFile reports whether name has a gallery image extension.
func IsImageFile(name string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// NeedsURLEscaping reports whether the base name of name contains anything
// outside the unreserved URL characters A-Z a-z 0-9 _ . - ~.
func NeedsURLEscaping(name string) bool {
	base := filepath.Base(name)
	for i := 0; i < len(base); i++ {
		c := base[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '-':
		default:
			return true
		}
	}
	return false
}

// Scan lists the direct children of dir in lexical order and returns the image
// files among them. Subdirectories are not descended into.
func Scan(ctx context.Context, dir string, opts Options) (Result, error) {
	logger := logging.WithContext(ctx, logging.NewComponentLogger(opts.Logger, "scanner"))

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Result{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	result := Result{Images: []Image{}}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		img := Image{Path: filepath.Join(dir, entry.Name())}
		if NeedsURLEscaping(entry.Name()) {
			result.BadNames = append(result.BadNames, entry.Name())
		}
		if opts.Reader != nil {
			text, err := opts.Reader.Read(ctx, img.Path)
			switch {
			case err == nil:
				img.EXIF = &text
				logger.Debug("exif extracted", logging.String("path", img.Path), logging.String("exif", text))
			case errors.Is(err, exif.ErrDisabled):
			default:
				if ctxErr := ctx.Err(); ctxErr != nil {
					return result, ctxErr
				}
				result.EXIFFailures++
				logger.Debug("exif unavailable", logging.String("path", img.Path), logging.Error(err))
			}
		}
		result.Images = append(result.Images, img)
		if opts.OnImage != nil {
			opts.OnImage(img)
		}
	}

	logger.Info("scan complete",
		logging.String("dir", dir),
		logging.Int("images", len(result.Images)),
		logging.Int("unsafe_names", len(result.BadNames)),
		logging.Int("exif_failures", result.EXIFFailures),
	)
	return result, nil
}
