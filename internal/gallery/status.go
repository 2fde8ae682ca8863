package gallery

import (
	"errors"
	"os"
	"path/filepath"

	"simplegallery/internal/sidecar"
)

// EntryStatus reports which files exist for one manifest record.
type EntryStatus struct {
	Filename  string
	Title     string
	Source    bool
	Thumbnail bool
	Medium    bool
}

// Status is a read-only snapshot of a gallery directory.
type Status struct {
	Layout Layout
	// Prepared is false when sg.json does not exist.
	Prepared bool
	// ManifestErr is set when sg.json exists but cannot be decoded.
	ManifestErr error
	Entries     []EntryStatus
	Index       bool
	Archive     bool
}

// Rendered counts entries that have both renditions.
func (s Status) Rendered() int {
	n := 0
	for _, e := range s.Entries {
		if e.Thumbnail && e.Medium {
			n++
		}
	}
	return n
}

// Inspect reads dir's manifest and checks which derived files exist. It never
// writes anything.
func Inspect(dir string) (Status, error) {
	if err := validateDir(dir); err != nil {
		return Status{}, err
	}
	layout := NewLayout(dir)
	status := Status{
		Layout:  layout,
		Index:   fileExists(layout.Index),
		Archive: layout.HasArchive(),
	}

	records, err := sidecar.Load(dir)
	switch {
	case err == nil:
		status.Prepared = true
	case errors.Is(err, sidecar.ErrMissing):
		return status, nil
	case errors.Is(err, sidecar.ErrMalformed):
		status.Prepared = true
		status.ManifestErr = err
		return status, nil
	default:
		return status, err
	}

	status.Entries = make([]EntryStatus, 0, len(records))
	for _, record := range records {
		src := record.Filename
		base := filepath.Base(src)
		status.Entries = append(status.Entries, EntryStatus{
			Filename:  record.Filename,
			Title:     record.Title,
			Source:    src != "" && fileExists(src),
			Thumbnail: src != "" && fileExists(layout.ThumbnailPath(base)),
			Medium:    src != "" && fileExists(layout.MediumPath(base)),
		})
	}
	return status, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
