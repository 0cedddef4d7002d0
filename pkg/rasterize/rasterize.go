package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ConfigurationError indicates a missing or broken rasterization backend.
// It is a deployment problem, distinct from malformed input.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Rasterizer renders the pages of a document into bitmaps at a target DPI,
// in page order.
type Rasterizer interface {
	RenderPages(ctx context.Context, doc []byte, dpi int) ([][]byte, error)
}

// IsPDF reports whether content carries the PDF magic header.
func IsPDF(content []byte) bool {
	return len(content) >= 4 && string(content[:4]) == "%PDF"
}

// Poppler rasterizes PDFs by shelling out to pdftoppm.
type Poppler struct {
	Binary   string // pdftoppm path, defaults to "pdftoppm"
	MaxPages int    // zero means no limit
}

// NewPoppler creates a pdftoppm-backed rasterizer.
func NewPoppler() *Poppler {
	return &Poppler{Binary: "pdftoppm"}
}

// RenderPages writes the document to a scratch directory, renders every
// page to PNG at the requested DPI and returns the page bitmaps in order.
func (p *Poppler) RenderPages(ctx context.Context, doc []byte, dpi int) ([][]byte, error) {
	binary := p.Binary
	if binary == "" {
		binary = "pdftoppm"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, &ConfigurationError{
			Message: fmt.Sprintf("%s not found: install poppler-utils to process PDF uploads", binary),
		}
	}
	if dpi <= 0 {
		dpi = 400
	}

	tmpDir, err := os.MkdirTemp("", "labreport-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	inPath := filepath.Join(tmpDir, "doc.pdf")
	if err := os.WriteFile(inPath, doc, 0o600); err != nil {
		return nil, fmt.Errorf("writing scratch PDF: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	args := []string{"-r", strconv.Itoa(dpi), "-png"}
	if p.MaxPages > 0 {
		args = append(args, "-f", "1", "-l", strconv.Itoa(p.MaxPages))
	}
	args = append(args, inPath, prefix)

	cmd := exec.CommandContext(ctx, binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	// pdftoppm zero-pads page numbers, so lexical order is page order
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing rendered pages: %w", err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("pdftoppm produced no pages")
	}

	pages := make([][]byte, 0, len(matches))
	for _, m := range matches {
		content, err := os.ReadFile(m)
		if err != nil {
			return nil, fmt.Errorf("reading rendered page %s: %w", filepath.Base(m), err)
		}
		pages = append(pages, content)
	}
	return pages, nil
}
