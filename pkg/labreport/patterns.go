package labreport

import (
	"regexp"
	"strings"
	"sync"
)

// patternTable is built exactly once per process and only read afterwards,
// so concurrent extraction needs no locking.
var patternTable = sync.OnceValue(buildPatterns)

// Patterns returns the compiled alias matcher for every canonical field.
// The returned map is shared and must not be mutated.
func Patterns() map[Field]*regexp.Regexp {
	return patternTable()
}

// aliasToPattern turns one alias phrase into a word-boundary anchored
// pattern: words stay in order and any run of non-word characters may sit
// between them, so "chol total" matches "Chol, Total" and "CHOL  TOTAL".
func aliasToPattern(alias string) string {
	parts := strings.Fields(strings.ToLower(strings.TrimSpace(alias)))
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return `\b` + strings.Join(parts, `\W*`) + `\b`
}

func buildPatterns() map[Field]*regexp.Regexp {
	out := make(map[Field]*regexp.Regexp, len(aliases))
	for field, variants := range aliases {
		pats := make([]string, len(variants))
		for i, a := range variants {
			pats[i] = aliasToPattern(a)
		}
		out[field] = regexp.MustCompile(`(?i)(?:` + strings.Join(pats, `|`) + `)`)
	}
	return out
}
