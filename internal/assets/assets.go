// Package assets ships the static viewer files copied into every gallery's
// _web directory.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"simplegallery/internal/fileutil"
)

//go:embed static
var staticFS embed.FS

// Files returns the embedded asset tree rooted at the web directory layout.
func Files() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Names lists the staged asset paths relative to the web directory.
func Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(Files(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	return names, err
}

// Stage copies every asset into webDir, overwriting existing copies.
func Stage(webDir string) error {
	files := Files()
	names, err := Names()
	if err != nil {
		return fmt.Errorf("list assets: %w", err)
	}
	for _, name := range names {
		dst := filepath.Join(webDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create asset directory: %w", err)
		}
		if err := fileutil.CopyFromFS(files, name, dst, 0o644); err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
	}
	return nil
}
