// Package config loads, normalizes, and validates simplegallery configuration.
//
// It supplies defaults for the external tool binaries (ImageMagick convert,
// tar, jhead, exiftool), reads an optional TOML file, and honours environment
// fallbacks such as SIMPLEGALLERY_LOG_LEVEL. A missing configuration file is
// not an error: every field has a working default so the gallery commands run
// on a bare system that has the external tools on PATH.
//
// Obtain settings through this package so commands receive trimmed binary
// names, canonical log formats, and clear validation errors.
package config
