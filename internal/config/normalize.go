package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTools()
	c.normalizeGallery()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if err := c.normalizeMetrics(); err != nil {
		return err
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.Convert = strings.TrimSpace(c.Tools.Convert)
	if c.Tools.Convert == "" {
		c.Tools.Convert = defaultConvertBinary
	}
	c.Tools.Tar = strings.TrimSpace(c.Tools.Tar)
	if c.Tools.Tar == "" {
		c.Tools.Tar = defaultTarBinary
	}
	c.Tools.Jhead = strings.TrimSpace(c.Tools.Jhead)
	if c.Tools.Jhead == "" {
		c.Tools.Jhead = defaultJheadBinary
	}
	c.Tools.Exiftool = strings.TrimSpace(c.Tools.Exiftool)
	if c.Tools.Exiftool == "" {
		c.Tools.Exiftool = defaultExiftoolBinary
	}
}

func (c *Config) normalizeGallery() {
	c.Gallery.Title = strings.TrimSpace(c.Gallery.Title)
	if value, ok := os.LookupEnv("SIMPLEGALLERY_EXIF_READER"); ok && strings.TrimSpace(value) != "" {
		c.Gallery.EXIFReader = value
	}
	c.Gallery.EXIFReader = strings.ToLower(strings.TrimSpace(c.Gallery.EXIFReader))
	if c.Gallery.EXIFReader == "" {
		c.Gallery.EXIFReader = defaultEXIFReader
	}
}

func (c *Config) normalizeLogging() error {
	if value, ok := os.LookupEnv("SIMPLEGALLERY_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}

func (c *Config) normalizeMetrics() error {
	if textfile := strings.TrimSpace(c.Metrics.Textfile); textfile != "" {
		expanded, err := expandPath(textfile)
		if err != nil {
			return fmt.Errorf("metrics.textfile: %w", err)
		}
		c.Metrics.Textfile = expanded
	}
	return nil
}
