package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/Sora-Andrea/predictive-risk-app/pkg/imaging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/labreport"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/logging"
	"github.com/Sora-Andrea/predictive-risk-app/pkg/ocrengine"
)

// Config holds the complete service configuration
type Config struct {
	Logging    *logging.LogConfig `json:"logging"`
	Server     *ServerConfig      `json:"server"`
	Processing *ProcessingConfig  `json:"processing"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	ReadTimeout   time.Duration `json:"read_timeout"`
	WriteTimeout  time.Duration `json:"write_timeout"`
	MaxUploadSize int64         `json:"max_upload_size"` // bytes
	CORSOrigins   string        `json:"cors_origins"`

	// UploadMinInterval spaces extraction requests per client IP.
	// Zero disables throttling.
	UploadMinInterval time.Duration `json:"upload_min_interval"`
}

// ProcessingConfig holds extraction pipeline settings
type ProcessingConfig struct {
	// OCR settings
	OCRLanguage string `json:"ocr_language"` // tesseract language
	OCRDPIHint  int    `json:"ocr_dpi_hint"` // resolution hint for bare bitmaps

	// PDF settings
	RasterDPI   int `json:"raster_dpi"`   // pdftoppm rendering resolution
	PDFMaxPages int `json:"pdf_max_pages"` // max pages to process

	// Output settings
	RawTextCap int `json:"raw_text_cap"` // merged raw text limit, bytes

	// Concurrency
	MaxWorkers int `json:"max_workers"` // parallel page workers

	// Image normalization
	Imaging imaging.Options `json:"imaging"`
}

// OCRConfig builds the engine configuration from processing settings.
func (p *ProcessingConfig) OCRConfig() ocrengine.Config {
	return ocrengine.Config{
		Language: p.OCRLanguage,
		DPI:      p.OCRDPIHint,
	}
}

// Default returns a complete default configuration
func Default() *Config {
	return &Config{
		Logging: logging.DefaultLogConfig(),

		Server: &ServerConfig{
			Host:          "0.0.0.0",
			Port:          8080,
			ReadTimeout:   30 * time.Second,
			WriteTimeout:  60 * time.Second,
			MaxUploadSize: 25 * 1024 * 1024, // 25MB
			CORSOrigins:   "*",

			UploadMinInterval: 500 * time.Millisecond,
		},

		Processing: &ProcessingConfig{
			OCRLanguage: "eng",
			OCRDPIHint:  300,
			RasterDPI:   400,
			PDFMaxPages: 20,
			RawTextCap:  labreport.DefaultRawTextCap,
			MaxWorkers:  runtime.NumCPU(),
			Imaging:     imaging.DefaultOptions(),
		},
	}
}

// Load returns the default configuration with environment overrides applied
func Load() *Config {
	cfg := Default()

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.Format = getEnv("LOG_FORMAT", cfg.Logging.Format)
	cfg.Logging.OutputFile = getEnv("LOG_FILE", cfg.Logging.OutputFile)

	cfg.Server.Host = getEnv("HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("PORT", cfg.Server.Port)
	cfg.Server.CORSOrigins = getEnv("CORS_ORIGINS", cfg.Server.CORSOrigins)
	if mb := getEnvInt("MAX_UPLOAD_MB", 0); mb > 0 {
		cfg.Server.MaxUploadSize = int64(mb) * 1024 * 1024
	}
	if ms := getEnvInt("UPLOAD_MIN_INTERVAL_MS", -1); ms >= 0 {
		cfg.Server.UploadMinInterval = time.Duration(ms) * time.Millisecond
	}

	cfg.Processing.OCRLanguage = getEnv("OCR_LANGUAGE", cfg.Processing.OCRLanguage)
	cfg.Processing.OCRDPIHint = getEnvInt("OCR_DPI_HINT", cfg.Processing.OCRDPIHint)
	cfg.Processing.RasterDPI = getEnvInt("PDF_RASTER_DPI", cfg.Processing.RasterDPI)
	cfg.Processing.PDFMaxPages = getEnvInt("PDF_MAX_PAGES", cfg.Processing.PDFMaxPages)
	cfg.Processing.MaxWorkers = getEnvInt("MAX_PAGE_WORKERS", cfg.Processing.MaxWorkers)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
