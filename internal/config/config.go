package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed sample_config.toml
var sampleConfig string

// EnvConfigPath names the environment variable that points at an explicit
// configuration file.
const EnvConfigPath = "SIMPLEGALLERY_CONFIG"

// EXIF reader backends accepted by gallery.exif_reader.
const (
	EXIFReaderJhead    = "jhead"
	EXIFReaderExiftool = "exiftool"
	EXIFReaderBuiltin  = "builtin"
	EXIFReaderNone     = "none"
)

// Tools contains the external executables the gallery pipeline shells out to.
type Tools struct {
	Convert  string `toml:"convert"`
	Tar      string `toml:"tar"`
	Jhead    string `toml:"jhead"`
	Exiftool string `toml:"exiftool"`
}

// Gallery contains settings that shape the generated gallery.
type Gallery struct {
	// Title is the page title. Empty derives one from the gallery directory name.
	Title string `toml:"title"`
	// EXIFReader selects how prepare extracts EXIF text: jhead, exiftool,
	// builtin, or none.
	EXIFReader string `toml:"exif_reader"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	File   string `toml:"file"`
}

// Metrics contains configuration for the run metrics textfile.
type Metrics struct {
	// Textfile is written in Prometheus text exposition format after every
	// run. Empty disables metrics output.
	Textfile string `toml:"textfile"`
}

// Config encapsulates all configuration values for simplegallery.
type Config struct {
	Tools   Tools   `toml:"tools"`
	Gallery Gallery `toml:"gallery"`
	Logging Logging `toml:"logging"`
	Metrics Metrics `toml:"metrics"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/simplegallery/config.toml")
}

// Load locates, parses, and validates a configuration file. An empty path
// falls back to $SIMPLEGALLERY_CONFIG, the user config directory, and finally
// ./simplegallery.toml. The second return value is the resolved path and the
// third reports whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			if os.IsNotExist(err) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("inspect config %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config path %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("simplegallery.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// GalleryTitle returns the configured page title, or a title derived from the
// gallery directory name when none is configured.
func (c *Config) GalleryTitle(dir string) string {
	if title := strings.TrimSpace(c.Gallery.Title); title != "" {
		return title
	}
	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "Gallery"
	}
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(base))
	if len(words) == 0 {
		return "Gallery"
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Sample returns the annotated sample configuration shipped with the binary.
func Sample() string {
	return sampleConfig
}
