package exporter

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Format selects a document renderer.
type Format string

const (
	FormatText Format = "text"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a config or flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Ext is the file extension for f.
func (f Format) Ext() string {
	if f == FormatXLSX {
		return ".xlsx"
	}
	return ".txt"
}

// Render writes doc in format f.
func Render(w io.Writer, doc *Document, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(w, doc)
	case FormatText, "":
		return WriteText(w, doc)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// Save renders doc into dir and returns the written path. A nil doc is a
// no-op and returns "".
func Save(dir string, doc *Document, f Format) (string, error) {
	if doc == nil {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, doc.FileName(f))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	if err := Render(file, doc, f); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	log.Printf("[INFO] exported %s (%d predictions) to %s", doc.ID, len(doc.Predictions), path)
	return path, nil
}
