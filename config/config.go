// Package config loads guideline-export settings from YAML, .env files, and
// GUIDELINE_EXPORT_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "GUIDELINE_EXPORT_"

// Config is the root configuration.
type Config struct {
	Export   ExportConfig   `yaml:"export"`
	PDF      PDFConfig      `yaml:"pdf"`
	Template TemplateConfig `yaml:"template"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ExportConfig controls where artifacts are written.
type ExportConfig struct {
	// OutputDir receives artifacts written by the file sink.
	OutputDir string `yaml:"output_dir"`
	// Prefix is prepended to artifact keys inside OutputDir.
	Prefix string `yaml:"prefix"`
	// Format is used when a request names none.
	Format string `yaml:"format"`
}

// PDFConfig configures the PDF document factory.
type PDFConfig struct {
	Enabled   bool   `yaml:"enabled"`
	PageSize  string `yaml:"page_size"`
	Landscape bool   `yaml:"landscape"`
}

// TemplateConfig points at an optional HTML template replacing the built-in one.
type TemplateConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	ListenAddress   string        `yaml:"listen_address"`
	BasePath        string        `yaml:"base_path"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path"`
	Namespace string `yaml:"namespace"`
}

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		Export: ExportConfig{
			OutputDir: "exports",
			Format:    "csv",
		},
		PDF: PDFConfig{
			Enabled:  true,
			PageSize: "A4",
		},
		Server: ServerConfig{
			ListenAddress:   "127.0.0.1:8080",
			BasePath:        "/exports",
			MaxBodyBytes:    8 * 1024 * 1024,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      "/metrics",
			Namespace: "guideline",
		},
	}
}

var (
	validLevels    = []string{"debug", "info", "warn", "error"}
	validFormats   = []string{"text", "json"}
	validPageSizes = []string{"A3", "A4", "A5", "LETTER", "LEGAL"}
)

// Validate reports the first invalid setting.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !oneOf(cfg.Logging.Level, validLevels) {
		return fmt.Errorf("logging.level %q must be one of %s", cfg.Logging.Level, strings.Join(validLevels, ", "))
	}
	if !oneOf(cfg.Logging.Format, validFormats) {
		return fmt.Errorf("logging.format %q must be one of %s", cfg.Logging.Format, strings.Join(validFormats, ", "))
	}
	if cfg.PDF.Enabled && !oneOf(strings.ToUpper(cfg.PDF.PageSize), validPageSizes) {
		return fmt.Errorf("pdf.page_size %q must be one of %s", cfg.PDF.PageSize, strings.Join(validPageSizes, ", "))
	}
	if strings.TrimSpace(cfg.Export.OutputDir) == "" {
		return fmt.Errorf("export.output_dir is required")
	}
	if strings.TrimSpace(cfg.Server.ListenAddress) == "" {
		return fmt.Errorf("server.listen_address is required")
	}
	if !strings.HasPrefix(cfg.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path %q must start with /", cfg.Server.BasePath)
	}
	if cfg.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative")
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with /", cfg.Metrics.Path)
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
