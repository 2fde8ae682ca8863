// Package render produces the gallery's index.html from an embedded template.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"simplegallery/internal/fileutil"
)

//go:embed templates/index.html.tmpl
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))

// Entry is one image on the index page. TnFilename is the base name shared
// by the tmb/ and med/ renditions.
type Entry struct {
	TnFilename string
	Title      string
}

// Context is the template input.
type Context struct {
	Title  string
	Images []Entry
	// Archive is the archive link relative to the index, empty when absent.
	Archive string
}

// Index executes the index template into w.
func Index(w io.Writer, data Context) error {
	if err := indexTemplate.ExecuteTemplate(w, "index.html.tmpl", data); err != nil {
		return fmt.Errorf("render index: %w", err)
	}
	return nil
}

// WriteIndex renders the page and replaces path atomically.
func WriteIndex(path string, data Context) error {
	var buf bytes.Buffer
	if err := Index(&buf, data); err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}
