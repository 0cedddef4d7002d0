package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Sora-Andrea/predictive-risk-app/internal/risk"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/imaging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/labreport"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/logging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ocrengine"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/rasterize"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ratelimit"
)

// DocumentProcessor runs the extraction pipeline for an uploaded document.
type DocumentProcessor interface {
	ProcessImage(ctx context.Context, documentID string, content []byte) (*labreport.DocumentResult, error)
	ProcessPDF(ctx context.Context, documentID string, content []byte) (*labreport.DocumentResult, error)
}

// Handlers contains the HTTP handlers for the API
type Handlers struct {
	processor     DocumentProcessor
	maxUploadSize int64
	limiter       *ratelimit.UploadLimiter
}

// NewHandlers creates a new handlers instance
func NewHandlers(processor DocumentProcessor, maxUploadSize int64) *Handlers {
	return &Handlers{
		processor:     processor,
		maxUploadSize: maxUploadSize,
	}
}

// WithLimiter enables per-client throttling of extraction requests.
func (h *Handlers) WithLimiter(limiter *ratelimit.UploadLimiter) *Handlers {
	h.limiter = limiter
	return h
}

// validTypes lists the upload formats the pipeline accepts.
var validTypes = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"pdf":  true,
}

// Health returns the service health status
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "predictive-risk-app",
		"version":   "0.1.0",
		"timestamp": time.Now().UTC(),
	})
}

// ExtractLabs accepts a multipart lab-report upload and returns the
// extracted canonical fields, raw text and provenance metadata.
func (h *Handlers) ExtractLabs(c *fiber.Ctx) error {
	logger := logging.GetLogger("api")

	if h.limiter != nil {
		if ok, retryIn := h.limiter.Allow(c.IP()); !ok {
			c.Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retryIn.Seconds()))))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many extraction requests, slow down",
			})
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "No file uploaded or invalid file format",
			"details": err.Error(),
		})
	}

	if file.Size > h.maxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large: %d bytes. Maximum size is %d bytes", file.Size, h.maxUploadSize),
		})
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(file.Filename), "."))
	if !validTypes[ext] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Unsupported file type: %q. Supported types: png, jpg, jpeg, pdf", ext),
		})
	}

	src, err := file.Open()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process uploaded file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to read uploaded file")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read file content",
		})
	}

	documentID := uuid.New().String()
	logger.Info().
		Str("document_id", documentID).
		Str("filename", file.Filename).
		Int64("size", file.Size).
		Str("type", ext).
		Msg("Processing upload")

	var result *labreport.DocumentResult
	if ext == "pdf" {
		result, err = h.processor.ProcessPDF(c.Context(), documentID, content)
	} else {
		result, err = h.processor.ProcessImage(c.Context(), documentID, content)
	}
	if err != nil {
		if h.limiter != nil {
			h.limiter.RecordError(c.IP())
		}
		return h.extractionError(c, logger.With().Str("document_id", documentID).Logger(), err)
	}
	if h.limiter != nil {
		h.limiter.RecordSuccess(c.IP())
	}

	return c.JSON(result)
}

// extractionError maps pipeline failures onto HTTP statuses: bad input is
// the client's problem, a missing backend is a deployment problem.
func (h *Handlers) extractionError(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	var decodeErr *imaging.DecodeError
	if errors.As(err, &decodeErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Could not decode the uploaded document",
			"details": decodeErr.Message,
		})
	}

	var cfgErr *rasterize.ConfigurationError
	if errors.As(err, &cfgErr) {
		logger.Error().Err(err).Msg("Rasterization backend unavailable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "PDF processing is not available on this deployment",
			"details": cfgErr.Message,
		})
	}

	var notBuilt *ocrengine.NotBuiltError
	if errors.As(err, &notBuilt) {
		logger.Error().Err(err).Msg("OCR support missing from this build")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":   "OCR is not available on this deployment",
			"details": notBuilt.Message,
		})
	}

	logger.Error().Err(err).Msg("Extraction failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Failed to process document",
	})
}

// Predict scores cardiovascular risk from user-supplied or previously
// extracted fields.
func (h *Handlers) Predict(c *fiber.Ctx) error {
	var req risk.Input
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": err.Error(),
		})
	}

	return c.JSON(risk.Score(req))
}
