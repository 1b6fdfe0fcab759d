// Package document extracts text from uploaded files.
//
// The loader selects a parser by file extension and produces zero or more
// Documents, each holding extracted text and provenance metadata. Loading
// has no network or persistence side effects; failures surface to the
// caller and are never retried here.
package document

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat indicates the file extension has no registered parser.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrExtraction indicates a parser failed irrecoverably.
	ErrExtraction = errors.New("text extraction failed")
)

// Document is a raw extracted text segment with provenance metadata.
// Documents are transient: produced here, consumed by the chunker,
// never persisted as-is.
type Document struct {
	Content  string
	Metadata map[string]string
}

// loaderFunc parses one file into documents.
type loaderFunc func(path string) ([]Document, error)

// plainTextExtensions are formats loaded verbatim as a single document.
var plainTextExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".go":   true,
	".py":   true,
	".js":   true,
	".ts":   true,
	".java": true,
	".c":    true,
	".cpp":  true,
	".rs":   true,
	".rb":   true,
	".sh":   true,
	".yaml": true,
	".yml":  true,
	".json": true,
	".xml":  true,
	".sql":  true,
	".log":  true,
}

// loaders maps non-plain-text extensions to their parsers.
var loaders = map[string]loaderFunc{
	".html": loadHTML,
	".htm":  loadHTML,
	".csv":  loadCSV,
	".pdf":  loadPDF,
}

// Supported reports whether the extension (with leading dot, any case)
// has a registered parser.
func Supported(ext string) bool {
	ext = strings.ToLower(ext)
	return plainTextExtensions[ext] || loaders[ext] != nil
}

// Load parses the file at path into documents. The parser is selected by
// the path's extension. Returns ErrUnsupportedFormat for unknown
// extensions and ErrExtraction (wrapped) when parsing fails.
func Load(path string) ([]Document, error) {
	ext := strings.ToLower(filepath.Ext(path))

	if plainTextExtensions[ext] {
		return loadPlainText(path)
	}

	loader, ok := loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	return loader(path)
}

func loadPlainText(path string) ([]Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrExtraction, filepath.Base(path), err)
	}

	text := string(content)
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	return []Document{{
		Content:  text,
		Metadata: baseMetadata(path),
	}}, nil
}

// baseMetadata builds the provenance metadata shared by all parsers.
func baseMetadata(path string) map[string]string {
	return map[string]string{
		"source":   filepath.Base(path),
		"file_ext": strings.ToLower(filepath.Ext(path)),
	}
}
