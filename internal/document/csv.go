package document

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// loadCSV produces one document per data row, rendered as
// "header: value" lines so column meaning survives embedding.
// The first row is treated as the header.
func loadCSV(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", ErrExtraction, filepath.Base(path), err)
	}
	defer func() {
		_ = f.Close()
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s header: %w", ErrExtraction, filepath.Base(path), err)
	}

	var docs []Document
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s row %d: %w", ErrExtraction, filepath.Base(path), row+1, err)
		}
		row++

		var b strings.Builder
		for i, field := range record {
			if i < len(header) {
				b.WriteString(header[i])
				b.WriteString(": ")
			}
			b.WriteString(field)
			b.WriteString("\n")
		}

		content := strings.TrimSpace(b.String())
		if content == "" {
			continue
		}

		meta := baseMetadata(path)
		meta["row"] = strconv.Itoa(row)
		docs = append(docs, Document{Content: content, Metadata: meta})
	}

	return docs, nil
}
