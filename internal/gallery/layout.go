package gallery

import (
	"fmt"
	"os"
	"path/filepath"

	"simplegallery/internal/sidecar"
)

const (
	WebDirName   = "_web"
	ArchiveName  = "sg.tgz"
	IndexName    = "index.html"
	lockFileName = ".sg.lock"
)

// Layout names every path a gallery directory uses.
type Layout struct {
	Dir     string
	Web     string
	Images  string
	Med     string
	Tmb     string
	Sidecar string
	Archive string
	Index   string
	Lock    string
}

// NewLayout derives the layout for dir.
func NewLayout(dir string) Layout {
	web := filepath.Join(dir, WebDirName)
	return Layout{
		Dir:     dir,
		Web:     web,
		Images:  filepath.Join(web, "images"),
		Med:     filepath.Join(web, "med"),
		Tmb:     filepath.Join(web, "tmb"),
		Sidecar: sidecar.Path(dir),
		Archive: filepath.Join(web, ArchiveName),
		Index:   filepath.Join(web, IndexName),
		Lock:    filepath.Join(web, lockFileName),
	}
}

// ArchiveRel is the archive path relative to the gallery directory, as passed
// to tar.
func (l Layout) ArchiveRel() string {
	return filepath.Join(WebDirName, ArchiveName)
}

// ThumbnailPath returns the thumbnail destination for base.
func (l Layout) ThumbnailPath(base string) string {
	return filepath.Join(l.Tmb, base)
}

// MediumPath returns the medium rendition destination for base.
func (l Layout) MediumPath(base string) string {
	return filepath.Join(l.Med, base)
}

// Ensure creates the output directories. Existing directories are kept.
func (l Layout) Ensure() error {
	for _, dir := range []string{l.Web, l.Images, l.Med, l.Tmb} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// HasArchive reports whether the archive file exists.
func (l Layout) HasArchive() bool {
	info, err := os.Stat(l.Archive)
	return err == nil && info.Mode().IsRegular()
}
