package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sora-Andrea/predictive-risk-app/internal/config"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/imaging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/labreport"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ocrengine"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/rasterize"
)

// fakeEngine maps bitmap content to scripted recognition output.
type fakeEngine struct {
	texts map[string]string
	err   error
}

func (f *fakeEngine) Recognize(_ context.Context, image []byte, _ ocrengine.Profile) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.texts[string(image)], nil
}

// fakeRasterizer returns fixed page bitmaps.
type fakeRasterizer struct {
	pages [][]byte
	err   error
}

func (f *fakeRasterizer) RenderPages(_ context.Context, _ []byte, _ int) ([][]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

func newTestProcessor(engine ocrengine.Engine, rasterizer rasterize.Rasterizer) *Processor {
	p := New(engine, rasterizer, config.Default().Processing)
	// bypass image decoding, the fake bitmaps are plain byte tags
	p.normalize = func(content []byte) ([]byte, error) {
		return content, nil
	}
	return p
}

func TestProcessImage(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{
		"scan": "Total Cholesterol 200 mg/dL\nHDL 50 mg/dL",
	}}
	p := newTestProcessor(engine, &fakeRasterizer{})

	result, err := p.ProcessImage(context.Background(), "doc-1", []byte("scan"))
	require.NoError(t, err)

	assert.Equal(t, 200.0, result.Fields[labreport.FieldTotalCholesterol])
	assert.Equal(t, 50.0, result.Fields[labreport.FieldHDL])
	assert.Equal(t, 150.0, result.Fields[labreport.FieldNonHDL])
	assert.Equal(t, 4.0, result.Fields[labreport.FieldCholHDLRatio])
	assert.Equal(t, labreport.Meta{Pages: 1, Source: "image"}, result.Meta)
	assert.Contains(t, result.RawText, "Total Cholesterol 200")
}

func TestProcessImageDecodeErrorPropagates(t *testing.T) {
	p := newTestProcessor(&fakeEngine{}, &fakeRasterizer{})
	p.normalize = func(content []byte) ([]byte, error) {
		return nil, &imaging.DecodeError{Message: "content is not a decodable image"}
	}

	_, err := p.ProcessImage(context.Background(), "doc-1", []byte("junk"))
	require.Error(t, err)

	var decodeErr *imaging.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestProcessPDFMergesInPageOrder(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{
		"page-a": "Glucose 10 mg/dL",
		"page-b": "Glucose 99 mg/dL\nHDL 45 mg/dL",
	}}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("page-a"), []byte("page-b")}}
	p := newTestProcessor(engine, rasterizer)

	result, err := p.ProcessPDF(context.Background(), "doc-1", []byte("%PDF-1.4 scanned"))
	require.NoError(t, err)

	assert.Equal(t, 10.0, result.Fields[labreport.FieldGlucose], "first page must win")
	assert.Equal(t, 45.0, result.Fields[labreport.FieldHDL])
	assert.Equal(t, 2, result.Meta.Pages)
	assert.Equal(t, "pdf", result.Meta.Source)
	assert.Equal(t, p.cfg.RasterDPI, result.Meta.DPI)
	assert.Contains(t, result.RawText, labreport.PageSeparator)
}

func TestProcessPDFTruncatesRawText(t *testing.T) {
	long := strings.Repeat("the quick brown fox\n", 200)
	engine := &fakeEngine{texts: map[string]string{
		"page-a": long,
		"page-b": long,
	}}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("page-a"), []byte("page-b")}}
	p := newTestProcessor(engine, rasterizer)

	result, err := p.ProcessPDF(context.Background(), "doc-1", []byte("%PDF-1.4 scanned"))
	require.NoError(t, err)
	assert.LessOrEqual(t, len(result.RawText), labreport.DefaultRawTextCap)
}

func TestProcessPDFRespectsPageLimit(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{}}
	rasterizer := &fakeRasterizer{pages: [][]byte{
		[]byte("p1"), []byte("p2"), []byte("p3"), []byte("p4"),
	}}
	p := newTestProcessor(engine, rasterizer)
	p.cfg.PDFMaxPages = 2

	result, err := p.ProcessPDF(context.Background(), "doc-1", []byte("%PDF-1.4 scanned"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Meta.Pages)
}

func TestProcessPDFRejectsNonPDF(t *testing.T) {
	p := newTestProcessor(&fakeEngine{}, &fakeRasterizer{})

	_, err := p.ProcessPDF(context.Background(), "doc-1", []byte("PNG bytes pretending"))
	require.Error(t, err)

	var decodeErr *imaging.DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

func TestProcessPDFConfigurationErrorPropagates(t *testing.T) {
	rasterizer := &fakeRasterizer{err: &rasterize.ConfigurationError{Message: "pdftoppm not found"}}
	p := newTestProcessor(&fakeEngine{}, rasterizer)

	_, err := p.ProcessPDF(context.Background(), "doc-1", []byte("%PDF-1.4 scanned"))
	require.Error(t, err)

	var cfgErr *rasterize.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestProcessPDFPageFailureAbortsDocument(t *testing.T) {
	engine := &fakeEngine{err: errors.New("recognition blew up")}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("p1"), []byte("p2")}}
	p := newTestProcessor(engine, rasterizer)

	_, err := p.ProcessPDF(context.Background(), "doc-1", []byte("%PDF-1.4 scanned"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recognition blew up")
}

func TestProcessPDFEmptyPageStillContributesText(t *testing.T) {
	engine := &fakeEngine{texts: map[string]string{
		"page-a": "nothing recognizable here",
		"page-b": "HDL 45 mg/dL",
	}}
	rasterizer := &fakeRasterizer{pages: [][]byte{[]byte("page-a"), []byte("page-b")}}
	p := newTestProcessor(engine, rasterizer)

	result, err := p.ProcessPDF(context.Background(), "doc-1", []byte("%PDF-1.4 scanned"))
	require.NoError(t, err)
	assert.Equal(t, 45.0, result.Fields[labreport.FieldHDL])
	assert.Contains(t, result.RawText, "nothing recognizable here")
}
