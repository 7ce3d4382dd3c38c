package storage

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFPageCount returns the number of pages in a PDF payload, or 0 with an
// error when the payload is not a readable PDF. The parser panics on some
// malformed files, so the call is fenced with recover.
func PDFPageCount(payload []byte) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			count = 0
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return 0, fmt.Errorf("parse pdf: %w", err)
	}
	return reader.NumPage(), nil
}

// PDFText extracts the plain text of a PDF payload. Pages the parser cannot
// read are skipped rather than failing the whole document.
func PDFText(payload []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
