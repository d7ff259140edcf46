package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LookupFunc resolves an environment variable.
type LookupFunc func(key string) (string, bool)

// Load builds a configuration from defaults, the YAML file at path (skipped
// when path is empty), variables from dotenv files, and the process
// environment. Process variables win over dotenv values.
func Load(path string, dotenvFiles ...string) (*Config, error) {
	fileEnv, err := readDotEnv(dotenvFiles)
	if err != nil {
		return nil, err
	}
	lookup := func(key string) (string, bool) {
		if val, ok := os.LookupEnv(key); ok {
			return val, true
		}
		val, ok := fileEnv[key]
		return val, ok
	}
	return LoadWithLookup(path, lookup)
}

// LoadWithLookup is Load with an explicit environment.
func LoadWithLookup(path string, lookup LookupFunc) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	if lookup != nil {
		applyEnvOverrides(&cfg, lookup)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func readDotEnv(files []string) (map[string]string, error) {
	merged := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file %q: %w", file, err)
		}
		for key, val := range values {
			if _, seen := merged[key]; !seen {
				merged[key] = val
			}
		}
	}
	return merged, nil
}

// applyEnvOverrides applies GUIDELINE_EXPORT_SECTION_FIELD variables.
// Unparseable numbers, booleans, and durations are ignored.
func applyEnvOverrides(cfg *Config, lookup LookupFunc) {
	str := func(name string, dst *string) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			*dst = val
		}
	}
	boolean := func(name string, dst *bool) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				*dst = b
			}
		}
	}
	duration := func(name string, dst *time.Duration) {
		if val, ok := lookup(EnvPrefix + name); ok && val != "" {
			if d, err := time.ParseDuration(val); err == nil {
				*dst = d
			}
		}
	}

	str("EXPORT_OUTPUT_DIR", &cfg.Export.OutputDir)
	str("EXPORT_PREFIX", &cfg.Export.Prefix)
	str("EXPORT_FORMAT", &cfg.Export.Format)

	boolean("PDF_ENABLED", &cfg.PDF.Enabled)
	str("PDF_PAGE_SIZE", &cfg.PDF.PageSize)
	boolean("PDF_LANDSCAPE", &cfg.PDF.Landscape)

	str("TEMPLATE_PATH", &cfg.Template.Path)

	str("SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	str("SERVER_BASE_PATH", &cfg.Server.BasePath)
	if val, ok := lookup(EnvPrefix + "SERVER_MAX_BODY_BYTES"); ok && val != "" {
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = n
		}
	}
	duration("SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	duration("SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	duration("SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	if val, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok && val != "" {
		cfg.Logging.Level = strings.ToLower(val)
	}
	str("LOG_FORMAT", &cfg.Logging.Format)

	boolean("METRICS_ENABLED", &cfg.Metrics.Enabled)
	str("METRICS_PATH", &cfg.Metrics.Path)
	str("METRICS_NAMESPACE", &cfg.Metrics.Namespace)
}
