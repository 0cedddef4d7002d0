package labreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergePagesLowestIndexWins(t *testing.T) {
	pages := []PageResult{
		{Fields: FieldMap{FieldGlucose: 10}, RawText: "page one"},
		{Fields: FieldMap{FieldGlucose: 99, FieldHDL: 45}, RawText: "page two"},
	}

	fields, raw := MergePages(pages, 0)

	assert.Equal(t, 10.0, fields[FieldGlucose], "first page must win the conflict")
	assert.Equal(t, 45.0, fields[FieldHDL], "fields unique to later pages still merge")
	assert.Equal(t, "page one"+PageSeparator+"page two", raw)
}

func TestMergePagesTruncatesRawText(t *testing.T) {
	long := strings.Repeat("x", 4000)
	pages := []PageResult{
		{Fields: FieldMap{}, RawText: long},
		{Fields: FieldMap{}, RawText: long},
	}

	_, raw := MergePages(pages, 0)

	full := long + PageSeparator + long
	require.Len(t, raw, DefaultRawTextCap)
	assert.True(t, strings.HasPrefix(full, raw), "truncated text must be a prefix of the joined text")
}

func TestMergePagesCustomCap(t *testing.T) {
	pages := []PageResult{{RawText: "0123456789"}}
	_, raw := MergePages(pages, 4)
	assert.Equal(t, "0123", raw)
}

func TestMergePagesEmpty(t *testing.T) {
	fields, raw := MergePages(nil, 0)
	assert.Empty(t, fields)
	assert.Empty(t, raw)
}
