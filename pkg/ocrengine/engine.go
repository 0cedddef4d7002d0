package ocrengine

import "context"

// Profile selects the recognition mode for a bitmap.
type Profile int

const (
	// ProfileBlock reads a uniform block of report text, keeping the wide
	// interword gaps that table layouts produce.
	ProfileBlock Profile = iota
	// ProfileNumeric reads a single line restricted to digits, units and
	// the punctuation that appears in lab values.
	ProfileNumeric
)

// NotBuiltError indicates a binary compiled without OCR support. It maps
// to a service-misconfiguration response, not an input problem.
type NotBuiltError struct {
	Message string
}

func (e *NotBuiltError) Error() string {
	return e.Message
}

// Engine turns a prepared bitmap into recognized text. Empty text is a
// valid result, not an error.
type Engine interface {
	Recognize(ctx context.Context, image []byte, profile Profile) (string, error)
}

// Config holds recognition settings shared by engine implementations.
type Config struct {
	Language string // Tesseract language code (e.g. "eng", "eng+fra")
	DPI      int    // resolution hint for bitmaps without DPI metadata
}

// DefaultConfig returns the settings used for printed lab reports.
func DefaultConfig() Config {
	return Config{
		Language: "eng",
		DPI:      300,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Language == "" {
		c.Language = def.Language
	}
	if c.DPI <= 0 {
		c.DPI = def.DPI
	}
	return c
}
