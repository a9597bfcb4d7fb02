package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"msmeinsights/internal/errors"
)

// Default input files, resolved against the working directory
const (
	DefaultFullCSV = "csic_database.csv"
	DefaultExplCSV = "csic2010_with_explanations.csv"
	DefaultPredCSV = "csis2010_predictions.csv"
)

// DefaultMaxBytes caps how much of one input file is read
const DefaultMaxBytes int64 = 256 << 20

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Report  ReportConfig
	Server  ServerConfig
	Logging LoggingConfig
	Metrics MetricsConfig
}

// DataConfig holds the three input table paths. Request-level path
// overrides must name a regular file under Dir.
type DataConfig struct {
	FullCSV        string
	ExplCSV        string
	PredCSV        string
	Dir            string
	AllowOverrides bool
	MaxBytes       int64
}

// ReportConfig holds report shaping limits
type ReportConfig struct {
	ScatterSampleSize int
	AlertLimit        int
	TopN              int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// LoggingConfig holds logger settings. An empty File logs to stderr.
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:    loadDataConfig(),
		Report:  loadReportConfig(),
		Server:  loadServerConfig(),
		Logging: loadLoggingConfig(),
		Metrics: MetricsConfig{Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true)},
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Data: DataConfig{
			FullCSV:        DefaultFullCSV,
			ExplCSV:        DefaultExplCSV,
			PredCSV:        DefaultPredCSV,
			Dir:            ".",
			AllowOverrides: true,
			MaxBytes:       DefaultMaxBytes,
		},
		Report: ReportConfig{
			ScatterSampleSize: 2000,
			AlertLimit:        5,
			TopN:              3,
		},
		Server: ServerConfig{
			Port:    "8080",
			GinMode: "release",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func loadDataConfig() DataConfig {
	d := Default().Data
	return DataConfig{
		FullCSV:        getEnvOrDefault("FULL_CSV", d.FullCSV),
		ExplCSV:        getEnvOrDefault("EXPL_CSV", d.ExplCSV),
		PredCSV:        getEnvOrDefault("PRED_CSV", d.PredCSV),
		Dir:            getEnvOrDefault("DATA_DIR", d.Dir),
		AllowOverrides: getEnvBoolOrDefault("DATA_ALLOW_OVERRIDES", d.AllowOverrides),
		MaxBytes:       int64(getEnvIntOrDefault("DATA_MAX_BYTES", int(d.MaxBytes))),
	}
}

// ResolveOverride maps a request-supplied path to a regular file inside Dir.
// Relative paths are taken from Dir; symlinks are followed before the check.
func (d DataConfig) ResolveOverride(path string) (string, error) {
	if !d.AllowOverrides {
		return "", errors.InvalidInput("input path overrides are disabled")
	}

	root, err := filepath.Abs(d.Dir)
	if err != nil {
		return "", errors.InvalidInput(fmt.Sprintf("data directory %q is unusable", d.Dir))
	}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(root, candidate)
	}
	resolved, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", errors.InvalidInput(fmt.Sprintf("input %q not found in the data directory", path))
	}

	rel, err := filepath.Rel(root, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.InvalidInput(fmt.Sprintf("input %q is outside the data directory", path))
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return "", errors.InvalidInput(fmt.Sprintf("input %q is not a regular file", path))
	}
	return resolved, nil
}

func loadReportConfig() ReportConfig {
	d := Default().Report
	return ReportConfig{
		ScatterSampleSize: getEnvIntOrDefault("SCATTER_SAMPLE_SIZE", d.ScatterSampleSize),
		AlertLimit:        getEnvIntOrDefault("ALERT_LIMIT", d.AlertLimit),
		TopN:              getEnvIntOrDefault("TOP_N", d.TopN),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadLoggingConfig() LoggingConfig {
	d := Default().Logging
	return LoggingConfig{
		Level:      getEnvOrDefault("LOG_LEVEL", d.Level),
		Format:     getEnvOrDefault("LOG_FORMAT", d.Format),
		File:       getEnvOrDefault("LOG_FILE", ""),
		MaxSizeMB:  getEnvIntOrDefault("LOG_MAX_SIZE_MB", d.MaxSizeMB),
		MaxBackups: getEnvIntOrDefault("LOG_MAX_BACKUPS", d.MaxBackups),
		MaxAgeDays: getEnvIntOrDefault("LOG_MAX_AGE_DAYS", d.MaxAgeDays),
	}
}

// Validate checks the values that would otherwise break a render pass
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if c.Report.ScatterSampleSize <= 0 {
		return errors.ConfigInvalid("SCATTER_SAMPLE_SIZE must be positive")
	}
	if c.Report.AlertLimit <= 0 {
		return errors.ConfigInvalid("ALERT_LIMIT must be positive")
	}
	if c.Report.TopN <= 0 {
		return errors.ConfigInvalid("TOP_N must be positive")
	}
	if c.Data.Dir == "" {
		return errors.ConfigInvalid("DATA_DIR is required")
	}
	if c.Data.MaxBytes <= 0 {
		return errors.ConfigInvalid("DATA_MAX_BYTES must be positive")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid("GIN_MODE must be debug, release or test")
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be console or json")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
