package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Sora-Andrea/predictive-risk-app/internal/config"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/imaging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/labreport"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/logging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ocrengine"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/rasterize"
)

// Processor runs the full extraction pipeline for uploaded documents:
// normalize, recognize, parse for single bitmaps; rasterize plus the same
// per-page pipeline, then an ordered merge, for PDFs.
type Processor struct {
	engine     ocrengine.Engine
	rasterizer rasterize.Rasterizer
	cfg        *config.ProcessingConfig

	// normalize is the image preparation stage; swappable in tests
	normalize func(content []byte) ([]byte, error)
}

// New wires a processor from its collaborators.
func New(engine ocrengine.Engine, rasterizer rasterize.Rasterizer, cfg *config.ProcessingConfig) *Processor {
	opts := cfg.Imaging
	return &Processor{
		engine:     engine,
		rasterizer: rasterizer,
		cfg:        cfg,
		normalize: func(content []byte) ([]byte, error) {
			return imaging.Normalize(content, opts)
		},
	}
}

// ProcessImage handles a single uploaded bitmap (PNG or JPEG).
func (p *Processor) ProcessImage(ctx context.Context, documentID string, content []byte) (*labreport.DocumentResult, error) {
	logger := logging.GetDocumentLogger(documentID, "image")

	page, err := p.processBitmap(ctx, content)
	if err != nil {
		return nil, err
	}

	fields, raw := labreport.MergePages([]labreport.PageResult{*page}, p.cfg.RawTextCap)
	logger.Info().
		Int("fields", len(fields)).
		Int("text_length", len(raw)).
		Msg("Image processed")

	return &labreport.DocumentResult{
		Fields:  fields,
		RawText: raw,
		Meta:    labreport.Meta{Pages: 1, Source: "image"},
	}, nil
}

// ProcessPDF handles an uploaded PDF. Documents with an embedded text
// layer are parsed directly; scanned documents are rasterized and each
// page goes through the bitmap pipeline. Page order is preserved either
// way, so the merge is deterministic.
func (p *Processor) ProcessPDF(ctx context.Context, documentID string, content []byte) (*labreport.DocumentResult, error) {
	logger := logging.GetDocumentLogger(documentID, "pdf")

	if !rasterize.IsPDF(content) {
		return nil, &imaging.DecodeError{Message: "content is not a valid PDF document"}
	}

	if texts, err := rasterize.TextLayer(content); err == nil && rasterize.HasText(texts) {
		logger.Debug().Int("pages", len(texts)).Msg("Using embedded text layer")
		return p.fromTextLayer(texts), nil
	}

	bitmaps, err := p.rasterizer.RenderPages(ctx, content, p.cfg.RasterDPI)
	if err != nil {
		return nil, err
	}
	if p.cfg.PDFMaxPages > 0 && len(bitmaps) > p.cfg.PDFMaxPages {
		logger.Warn().
			Int("pages", len(bitmaps)).
			Int("limit", p.cfg.PDFMaxPages).
			Msg("Truncating page set")
		bitmaps = bitmaps[:p.cfg.PDFMaxPages]
	}

	pages := make([]labreport.PageResult, len(bitmaps))
	g, gctx := errgroup.WithContext(ctx)
	if p.cfg.MaxWorkers > 0 {
		g.SetLimit(p.cfg.MaxWorkers)
	}
	for i, bitmap := range bitmaps {
		g.Go(func() error {
			page, err := p.processBitmap(gctx, bitmap)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			pages[i] = *page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fields, raw := labreport.MergePages(pages, p.cfg.RawTextCap)
	logger.Info().
		Int("pages", len(pages)).
		Int("fields", len(fields)).
		Msg("PDF processed")

	return &labreport.DocumentResult{
		Fields:  fields,
		RawText: raw,
		Meta:    labreport.Meta{Pages: len(pages), Source: "pdf", DPI: p.cfg.RasterDPI},
	}, nil
}

// processBitmap runs one page through normalize, recognize and parse.
// Pages whose text resolves no fields still contribute their raw text.
func (p *Processor) processBitmap(ctx context.Context, content []byte) (*labreport.PageResult, error) {
	prepared, err := p.normalize(content)
	if err != nil {
		return nil, err
	}
	text, err := p.engine.Recognize(ctx, prepared, ocrengine.ProfileBlock)
	if err != nil {
		return nil, err
	}
	return pageFromText(text), nil
}

func (p *Processor) fromTextLayer(texts []string) *labreport.DocumentResult {
	pages := make([]labreport.PageResult, len(texts))
	for i, t := range texts {
		pages[i] = *pageFromText(t)
	}
	fields, raw := labreport.MergePages(pages, p.cfg.RawTextCap)
	return &labreport.DocumentResult{
		Fields:  fields,
		RawText: raw,
		Meta:    labreport.Meta{Pages: len(texts), Source: "pdf"},
	}
}

func pageFromText(text string) *labreport.PageResult {
	clean := labreport.NormalizeText(text)
	return &labreport.PageResult{
		Fields:  labreport.Parse(clean),
		RawText: clean,
	}
}
