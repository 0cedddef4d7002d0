// +build !ocr

package ocrengine

import "context"

// Tesseract is the fallback engine used when the binary was built without
// the ocr tag. Every recognition attempt fails with installation guidance.
type Tesseract struct {
	cfg Config
}

// NewTesseract creates the fallback engine.
func NewTesseract(cfg Config) *Tesseract {
	return &Tesseract{cfg: cfg.withDefaults()}
}

// Recognize always fails: this build has no Tesseract support.
func (t *Tesseract) Recognize(ctx context.Context, image []byte, profile Profile) (string, error) {
	return "", &NotBuiltError{
		Message: "OCR requires a build with the ocr tag and Tesseract installed (sudo apt install tesseract-ocr libtesseract-dev)",
	}
}
