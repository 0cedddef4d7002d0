// +build ocr

package ocrengine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// numericWhitelist restricts ProfileNumeric to the characters that occur
// in lab values and their units.
const numericWhitelist = "0123456789./mgdL%"

// Tesseract implements Engine on a locally installed Tesseract.
type Tesseract struct {
	cfg Config
}

// NewTesseract creates a Tesseract-backed engine.
func NewTesseract(cfg Config) *Tesseract {
	return &Tesseract{cfg: cfg.withDefaults()}
}

// Recognize runs OCR over a prepared bitmap. A page that reads as empty
// returns empty text and no error.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, profile Profile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(image) == 0 {
		return "", fmt.Errorf("no image content provided for OCR")
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.cfg.Language); err != nil {
		return "", fmt.Errorf("setting OCR language %q: %w", t.cfg.Language, err)
	}
	if err := client.SetVariable("user_defined_dpi", strconv.Itoa(t.cfg.DPI)); err != nil {
		return "", fmt.Errorf("setting OCR dpi hint: %w", err)
	}

	switch profile {
	case ProfileNumeric:
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
			return "", fmt.Errorf("setting page segmentation mode: %w", err)
		}
		if err := client.SetWhitelist(numericWhitelist); err != nil {
			return "", fmt.Errorf("setting character whitelist: %w", err)
		}
	default:
		if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
			return "", fmt.Errorf("setting page segmentation mode: %w", err)
		}
		if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
			return "", fmt.Errorf("setting interword space preservation: %w", err)
		}
	}

	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("setting OCR image data: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR text extraction failed: %w", err)
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.TrimSpace(text), nil
}
