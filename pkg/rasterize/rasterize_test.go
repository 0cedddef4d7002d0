package rasterize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.False(t, IsPDF([]byte("PNG image data")))
	assert.False(t, IsPDF([]byte("%PD")))
	assert.False(t, IsPDF(nil))
}

func TestTextLayerRejectsNonPDF(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
	}{
		{"empty", nil},
		{"plain text", []byte("This is not a PDF file")},
		{"truncated header", []byte("%PDF")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texts, err := TextLayer(tt.content)
			assert.Error(t, err)
			assert.Nil(t, texts)
		})
	}
}

func TestPageCountRejectsNonPDF(t *testing.T) {
	_, err := PageCount([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestHasText(t *testing.T) {
	assert.False(t, HasText(nil))
	assert.False(t, HasText([]string{"", "   ", "\n\n"}))
	assert.True(t, HasText([]string{"", "Glucose 105"}))
}

func TestPopplerMissingBinary(t *testing.T) {
	p := &Poppler{Binary: "pdftoppm-that-does-not-exist"}
	_, err := p.RenderPages(context.Background(), []byte("%PDF-1.4"), 400)
	require.Error(t, err)

	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Message, "poppler-utils")
}

func TestConfigurationErrorMessage(t *testing.T) {
	err := &ConfigurationError{Message: "backend missing"}
	assert.Equal(t, "backend missing", err.Error())
}
