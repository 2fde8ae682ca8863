// Package sidecar reads and writes sg.json, the editable manifest that
// prepare produces and process consumes.
//
// The file starts with a "#" comment line followed by a JSON array of
// {"filename", "title"} objects. Lines whose first character is '#' are
// ignored when decoding, so the operator can annotate the file freely.
package sidecar

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"simplegallery/internal/fileutil"
	"simplegallery/internal/services"
)

// FileName is the manifest name inside the gallery directory.
const FileName = "sg.json"

const header = "#\n"

var (
	// ErrMissing reports that no manifest exists in the gallery directory.
	ErrMissing = errors.New("sidecar missing")
	// ErrMalformed reports a manifest that is not a JSON array of records.
	ErrMalformed = errors.New("sidecar malformed")
)

// Record is one gallery entry. Filename is the image path as written by
// prepare; Title is the caption and may be empty.
type Record struct {
	Filename string `json:"filename"`
	Title    string `json:"title"`
}

// Path returns the manifest location for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// FromPaths builds records with empty titles in the given order.
func FromPaths(paths []string) []Record {
	records := make([]Record, 0, len(paths))
	for _, p := range paths {
		records = append(records, Record{Filename: p})
	}
	return records
}

// Encode renders records in manifest form: the comment header, an indented
// JSON array, and a trailing newline. An empty slice is written as [].
func Encode(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}
	var buf bytes.Buffer
	buf.WriteString(header)
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode sidecar: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses manifest bytes, skipping comment lines.
func Decode(data []byte) ([]Record, error) {
	var body bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	trimmed := bytes.TrimSpace(body.Bytes())
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformed)
	}
	var records []Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Load reads the manifest from dir. Missing files wrap ErrMissing and
// services.ErrNotFound; undecodable files wrap ErrMalformed and
// services.ErrValidation.
func Load(dir string) ([]Record, error) {
	path := Path(dir)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNotFound, "process", "load sidecar", "Could not open "+path, fmt.Errorf("%w: %w", ErrMissing, err))
		}
		return nil, services.Wrap(services.ErrNotFound, "process", "load sidecar", "Could not open "+path, err)
	}
	records, err := Decode(data)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "process", "load sidecar", FileName+" is not valid json.", err)
	}
	return records, nil
}

// Write stores records as dir's manifest, replacing any existing file atomically.
func Write(dir string, records []Record) error {
	data, err := Encode(records)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", FileName, err)
	}
	return nil
}
