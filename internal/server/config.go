package server

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/image-transform-mcp/internal/imaging"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvLogLevel       = "IMAGE_TRANSFORM_LOG_LEVEL"
	EnvJPEGQuality    = "IMAGE_TRANSFORM_JPEG_QUALITY"
	EnvPNGCompression = "IMAGE_TRANSFORM_PNG_COMPRESSION"
	EnvResampler      = "IMAGE_TRANSFORM_RESAMPLER"
)

// Config holds the server-wide defaults. Tool arguments override them per call.
type Config struct {
	// Debug enables per-request logging to stderr.
	Debug bool

	// JPEGQuality is the default JPEG quality (1-100).
	JPEGQuality int

	// PNGCompression is the default PNG compression level (0-9).
	PNGCompression int

	// Resampler names the default resize filter, see imaging.ResamplerNames.
	Resampler string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		JPEGQuality:    imaging.DefaultJPEGQuality,
		PNGCompression: imaging.DefaultPNGCompression,
		Resampler:      "lanczos",
	}
}

// ConfigFromEnv starts from DefaultConfig and applies any environment overrides.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	cfg.Debug = strings.EqualFold(os.Getenv(EnvLogLevel), "debug")

	if v := os.Getenv(EnvJPEGQuality); v != "" {
		q, err := strconv.Atoi(v)
		if err != nil || q < 1 || q > 100 {
			return cfg, fmt.Errorf("%s must be an integer between 1 and 100, got %q", EnvJPEGQuality, v)
		}
		cfg.JPEGQuality = q
	}

	if v := os.Getenv(EnvPNGCompression); v != "" {
		level, err := strconv.Atoi(v)
		if err != nil || level < 0 || level > 9 {
			return cfg, fmt.Errorf("%s must be an integer between 0 and 9, got %q", EnvPNGCompression, v)
		}
		cfg.PNGCompression = level
	}

	if v := os.Getenv(EnvResampler); v != "" {
		if _, err := imaging.ResamplerByName(v); err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvResampler, err)
		}
		cfg.Resampler = v
	}

	return cfg, nil
}
