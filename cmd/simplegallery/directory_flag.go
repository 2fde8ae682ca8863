package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// directoryValue is a pflag.Value that only accepts existing directories and
// stores them with exactly one trailing separator.
type directoryValue struct {
	path string
}

func (d *directoryValue) String() string {
	return d.path
}

func (d *directoryValue) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("directory must not be empty")
	}
	info, err := os.Stat(value)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a valid directory", value)
	}
	d.path = normalizeDirectory(value)
	return nil
}

func (d *directoryValue) Type() string {
	return "directory"
}

func normalizeDirectory(value string) string {
	sep := string(filepath.Separator)
	trimmed := strings.TrimRight(value, sep)
	if trimmed == "" {
		return sep
	}
	return trimmed + sep
}
