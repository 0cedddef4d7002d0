package labreport

import "strings"

const (
	// PageSeparator joins per-page raw texts in a merged document.
	PageSeparator = "\n\n-----\n\n"
	// DefaultRawTextCap bounds merged raw text in a document result.
	DefaultRawTextCap = 5000
)

// MergePages combines per-page results into one field map and one raw text.
// Pages are taken in slice order, which is page-index order: the lowest
// page index wins every field conflict. Raw texts are joined with
// PageSeparator and truncated to maxRawText bytes (DefaultRawTextCap when
// maxRawText is zero or negative).
func MergePages(pages []PageResult, maxRawText int) (FieldMap, string) {
	if maxRawText <= 0 {
		maxRawText = DefaultRawTextCap
	}
	merged := make(FieldMap)
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.RawText
		for f, v := range p.Fields {
			if _, taken := merged[f]; !taken {
				merged[f] = v
			}
		}
	}
	raw := strings.Join(texts, PageSeparator)
	if len(raw) > maxRawText {
		raw = raw[:maxRawText]
	}
	return merged, raw
}
