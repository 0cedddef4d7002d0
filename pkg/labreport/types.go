package labreport

import "fmt"

// Field is a canonical analyte name from the fixed extraction vocabulary.
// The vocabulary is closed: every key produced by the extractor, the unit
// normalizer and the derived-metric pass is one of the fields registered
// in the alias table.
type Field string

// Fields referenced directly by the conversion and derived-metric logic.
// The full vocabulary lives in aliases.go.
const (
	FieldTotalCholesterol Field = "total_cholesterol"
	FieldHDL              Field = "hdl"
	FieldLDL              Field = "ldl"
	FieldTriglycerides    Field = "triglycerides"
	FieldNonHDL           Field = "non_hdl"
	FieldCholHDLRatio     Field = "chol_hdl_ratio"
	FieldGlucose          Field = "glucose"
)

// RawMeasurement is a value as it appeared on the page: the numeric token
// plus the unit token found to its right, if any.
type RawMeasurement struct {
	Value float64
	Unit  string // empty when no recognizable unit followed the value
}

// FieldMap maps canonical fields to numeric values in their canonical unit
// (mg/dL for convertible analytes).
type FieldMap map[Field]float64

// Validate checks that every key belongs to the canonical vocabulary.
func (m FieldMap) Validate() error {
	for f := range m {
		if !IsCanonical(f) {
			return fmt.Errorf("field %q is not in the canonical vocabulary", f)
		}
	}
	return nil
}

// PageResult holds the extraction output of a single page.
type PageResult struct {
	Fields  FieldMap `json:"fields"`
	RawText string   `json:"raw_text"`
}

// Meta describes where a document result came from.
type Meta struct {
	Pages  int    `json:"pages"`
	Source string `json:"source"`        // "image" or "pdf"
	DPI    int    `json:"dpi,omitempty"` // rasterization DPI; zero when no rasterization happened
}

// DocumentResult is the merged output for a whole document.
type DocumentResult struct {
	Fields  FieldMap `json:"fields"`
	RawText string   `json:"raw_text"`
	Meta    Meta     `json:"meta"`
}
