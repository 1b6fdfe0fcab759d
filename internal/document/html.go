package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// loadHTML extracts the visible text of an HTML file as a single document.
// Script, style, and head content is dropped.
func loadHTML(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrExtraction, filepath.Base(path), err)
	}
	defer func() {
		_ = f.Close()
	}()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrExtraction, filepath.Base(path), err)
	}

	// Grab the title before dropping head content.
	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript, head").Remove()

	text := normalizeWhitespace(doc.Text())
	if text == "" {
		return nil, nil
	}

	meta := baseMetadata(path)
	if title != "" {
		meta["title"] = title
	}

	return []Document{{Content: text, Metadata: meta}}, nil
}

// normalizeWhitespace collapses runs of blank lines and trims each line.
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
