package preflight

import (
	"fmt"
	"path/filepath"

	"simplegallery/internal/config"
	"simplegallery/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string
	Passed   bool
	Optional bool
	Detail   string
}

// RunAll executes the directory and tool checks for a gallery directory.
func RunAll(cfg *config.Config, dir string) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Gallery directory", dir))

	// The output directory only exists after the first prepare.
	web := filepath.Join(dir, "_web")
	if _, err := statDir(web); err == nil {
		results = append(results, CheckDirectoryAccess("Web directory", web))
	}

	for _, status := range CheckSystemDeps(cfg) {
		detail := status.Detail
		if status.Available {
			detail = fmt.Sprintf("%s (%s)", status.Description, status.Path)
		}
		results = append(results, Result{
			Name:     status.Name,
			Passed:   status.Available,
			Optional: status.Optional,
			Detail:   detail,
		})
	}

	return results
}

// Failed reports whether any required check failed.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed && !r.Optional {
			return true
		}
	}
	return false
}

// CheckSystemDeps evaluates the external programs the configuration selects.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "ImageMagick convert",
			Command:     cfg.Tools.Convert,
			Description: "Required by process for thumbnails and medium renditions",
		},
		{
			Name:        "tar",
			Command:     cfg.Tools.Tar,
			Description: "Required by --archive",
			Optional:    true,
		},
	}
	switch cfg.Gallery.EXIFReader {
	case config.EXIFReaderJhead:
		requirements = append(requirements, deps.Requirement{
			Name:        "jhead",
			Command:     cfg.Tools.Jhead,
			Description: "Reads EXIF metadata during prepare",
			Optional:    true,
		})
	case config.EXIFReaderExiftool:
		requirements = append(requirements, deps.Requirement{
			Name:        "exiftool",
			Command:     cfg.Tools.Exiftool,
			Description: "Reads EXIF metadata during prepare",
			Optional:    true,
		})
	}
	return deps.CheckBinaries(requirements)
}

// MissingRequiredTools lists the names of required programs that could not be
// found.
func MissingRequiredTools(cfg *config.Config) []string {
	if cfg == nil {
		return nil
	}
	var names []string
	for _, status := range deps.Missing(CheckSystemDeps(cfg), false) {
		names = append(names, status.Name)
	}
	return names
}
