package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGallery(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMetrics(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGallery() error {
	switch c.Gallery.EXIFReader {
	case EXIFReaderJhead, EXIFReaderExiftool, EXIFReaderBuiltin, EXIFReaderNone:
		return nil
	default:
		return fmt.Errorf("gallery.exif_reader: unsupported value %q (expected jhead, exiftool, builtin, or none)", c.Gallery.EXIFReader)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateMetrics() error {
	if c.Metrics.Textfile == "" {
		return nil
	}
	if !strings.HasSuffix(c.Metrics.Textfile, ".prom") {
		return fmt.Errorf("metrics.textfile: %s must end in .prom", filepath.Base(c.Metrics.Textfile))
	}
	return nil
}
