// Package exif extracts a human-readable EXIF summary for each scanned image.
//
// Extraction is best effort. Every backend returns an error instead of
// partial text, and callers treat any error as "no metadata". Backends:
//
//   - jhead: the jhead command line tool (default)
//   - exiftool: a long-running exiftool process via go-exiftool
//   - builtin: in-process decoding with goexif
//   - none: extraction disabled
package exif
