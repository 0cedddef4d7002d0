package rasterize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// TextLayer returns the embedded text of each page, in page order. Pages
// without a text layer come back as empty strings; scanned PDFs typically
// return all-empty slices and need rasterization instead.
func TextLayer(content []byte) ([]string, error) {
	doc, err := open(content)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// a broken page falls back to OCR with the rest of the doc
			texts = append(texts, "")
			continue
		}
		texts = append(texts, pageText)
	}
	return texts, nil
}

// HasText reports whether any page carries a non-blank text layer.
func HasText(texts []string) bool {
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}

// PageCount parses the document structure and returns its page count.
func PageCount(content []byte) (int, error) {
	doc, err := open(content)
	if err != nil {
		return 0, err
	}
	return doc.NumPage(), nil
}

func open(content []byte) (*pdf.Reader, error) {
	if !IsPDF(content) {
		return nil, fmt.Errorf("not a valid PDF file")
	}
	doc, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("parsing PDF: %w", err)
	}
	return doc, nil
}
