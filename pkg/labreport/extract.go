package labreport

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// lookaheadLines is how far below an alias hit the value may sit when
	// OCR breaks a table row apart.
	lookaheadLines = 2
	// rangeWindow is the number of characters inspected on each side of a
	// numeric token when deciding whether it belongs to a reference range.
	rangeWindow = 6
	// unitWindow is how far right of a value a unit token is accepted.
	unitWindow = 20
)

var (
	reNumber = regexp.MustCompile(`\d+(?:\.\d+)?`)
	reRange  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:-|–|to|~)\s*\d+(?:\.\d+)?\b`)
	reUnit   = regexp.MustCompile(`(?i)\b(?:mg/?dL|mmol/?L)\b`)
)

// Extract scans recognized text line by line and resolves each canonical
// field at most once: the first alias hit with a usable value locks the
// field for the page. Fields that never match are simply absent.
func Extract(text string) map[Field]RawMeasurement {
	out := make(map[Field]RawMeasurement)
	lines := nonEmptyLines(text)
	pats := Patterns()
	for i, ln := range lines {
		for _, field := range fieldOrder {
			if _, done := out[field]; done {
				continue
			}
			loc := pats[field].FindStringIndex(ln)
			if loc == nil {
				continue
			}
			// Value anywhere to the right on the same line; reports are
			// usually tables so it rarely sits next to the name.
			m, ok := standaloneValue(ln[loc[1]:])
			if !ok {
				for j := 1; j <= lookaheadLines && i+j < len(lines); j++ {
					if m, ok = standaloneValue(lines[i+j]); ok {
						break
					}
				}
			}
			if ok {
				out[field] = m
			}
		}
	}
	return out
}

// standaloneValue finds the first numeric token in s that is not part of a
// reference range, plus the unit printed to its right if one is close enough.
func standaloneValue(s string) (RawMeasurement, bool) {
	for _, span := range reNumber.FindAllStringIndex(s, -1) {
		start, end := span[0], span[1]
		window := s[max(0, start-rangeWindow):min(len(s), end+rangeWindow)]
		if reRange.MatchString(window) {
			continue
		}
		v, err := strconv.ParseFloat(s[start:end], 64)
		if err != nil {
			continue
		}
		unit := reUnit.FindString(s[end:min(len(s), end+unitWindow)])
		return RawMeasurement{Value: v, Unit: unit}, true
	}
	return RawMeasurement{}, false
}

func nonEmptyLines(text string) []string {
	var out []string
	for _, ln := range strings.Split(text, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

// Parse is the full per-page text pipeline: whitespace normalization,
// field extraction, unit conversion and derived metrics.
func Parse(text string) FieldMap {
	fields := NormalizeUnits(Extract(NormalizeText(text)))
	AddDerived(fields)
	return fields
}
