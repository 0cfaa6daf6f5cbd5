// Package extract turns uploaded documents into plain text for ingestion.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"docqa/internal/chunker"
)

var (
	ErrUnsupported = errors.New("unsupported document: expected PDF or UTF-8 text")

	pdfMagic = []byte("%PDF-")
)

// Kind reports "pdf" or "text" for data named name, or ErrUnsupported.
func Kind(name string, data []byte) (string, error) {
	if bytes.HasPrefix(data, pdfMagic) || strings.EqualFold(filepath.Ext(name), ".pdf") {
		return "pdf", nil
	}
	if utf8.Valid(data) && bytes.IndexByte(data, 0) < 0 {
		return "text", nil
	}
	return "", ErrUnsupported
}

// Text extracts the plain text of a PDF or UTF-8 document. PDF pages are
// joined with the paragraph separator so each page starts a new chunk.
// A blank document or a PDF without text yields "", which ingests as an
// empty index.
func Text(name string, data []byte) (string, error) {
	kind, err := Kind(name, data)
	if err != nil {
		return "", err
	}
	if kind == "pdf" {
		return PDFText(data)
	}
	return string(data), nil
}

// FromFile reads path and extracts its text.
func FromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return Text(filepath.Base(path), data)
}

func joinPages(pages []string) string {
	return strings.Join(pages, chunker.DefaultSeparator)
}
