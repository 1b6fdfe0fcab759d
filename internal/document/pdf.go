package document

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// loadPDF produces one document per page. Pages with no extractable text
// are skipped; an entirely image-based PDF therefore yields zero documents,
// which the indexing service records as a parsing failure.
func loadPDF(path string) (docs []Document, err error) {
	// The pdf library panics on some malformed files; convert to ErrExtraction.
	defer func() {
		if r := recover(); r != nil {
			docs = nil
			err = fmt.Errorf("%w: parsing %s: %v", ErrExtraction, filepath.Base(path), r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrExtraction, filepath.Base(path), err)
	}
	defer func() {
		_ = f.Close()
	}()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: extracting %s page %d: %w", ErrExtraction, filepath.Base(path), i, err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		meta := baseMetadata(path)
		meta["page"] = strconv.Itoa(i)
		docs = append(docs, Document{Content: text, Metadata: meta})
	}

	return docs, nil
}
