// Package config provides configuration management for the catalog report tool.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"catalogreport/internal/formatter"
	"catalogreport/internal/logger"
)

// DefaultPath is where the CLI looks for a config file when none is given.
const DefaultPath = "configs/report.yaml"

// Environment variables that override file settings.
const (
	EnvLogLevel       = "CATALOG_LOG_LEVEL"
	EnvReportFormat   = "CATALOG_REPORT_FORMAT"
	EnvCurrency       = "CATALOG_CURRENCY"
	EnvRejectNegative = "CATALOG_REJECT_NEGATIVE"
)

// Configuration validation errors.
var (
	ErrInvalidReportFormat = errors.New("report.format must be one of: text, json, yaml")
	ErrMissingCurrency     = errors.New("report.currency is required")
	ErrInvalidNameWidth    = errors.New("report.max_name_width must be non-negative")
	ErrInvalidLogLevel     = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidEnvValue     = errors.New("invalid environment value")
)

// Config represents the complete report configuration.
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Report  ReportConfig  `yaml:"report"`
	Logging LoggingConfig `yaml:"logging"`
}

// ParserConfig controls how strictly catalog records are checked.
type ParserConfig struct {
	RequireFieldDash bool `yaml:"require_field_dash"`
	RejectNegative   bool `yaml:"reject_negative"`
}

// ReportConfig defines report output.
type ReportConfig struct {
	Format       string `yaml:"format"`
	Currency     string `yaml:"currency"`
	MaxNameWidth int    `yaml:"max_name_width"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Format:   formatter.FormatText,
			Currency: "€",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults.
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the effective configuration to path in the layout LoadConfig reads.
func (c *Config) SaveConfig(path string) error {
	if err := c.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid config: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)

	if err := enc.Encode(c); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush config: %w", err)
	}

	return f.Close()
}

// ApplyEnv overrides settings from envFile (if it exists) and the process environment.
// Process variables win over the file.
func (c *Config) ApplyEnv(envFile string) error {
	vars := map[string]string{}

	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read env file: %w", err)
		}

		for k, v := range fileVars {
			vars[k] = v
		}
	}

	for _, key := range []string{EnvLogLevel, EnvReportFormat, EnvCurrency, EnvRejectNegative} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}

	if v, ok := vars[EnvLogLevel]; ok {
		c.Logging.Level = v
	}

	if v, ok := vars[EnvReportFormat]; ok {
		c.Report.Format = v
	}

	if v, ok := vars[EnvCurrency]; ok {
		c.Report.Currency = v
	}

	if v, ok := vars[EnvRejectNegative]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnvValue, EnvRejectNegative, v)
		}

		c.Parser.RejectNegative = b
	}

	return c.Validate()
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Report.Format {
	case formatter.FormatText, formatter.FormatJSON, formatter.FormatYAML:
	default:
		return ErrInvalidReportFormat
	}

	if c.Report.Currency == "" {
		return ErrMissingCurrency
	}

	if c.Report.MaxNameWidth < 0 {
		return ErrInvalidNameWidth
	}

	if _, ok := logger.ParseLevel(c.Logging.Level); !ok {
		return ErrInvalidLogLevel
	}

	return nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Format: %s, StrictDash: %t, RejectNegative: %t, LogLevel: %s}",
		c.Report.Format,
		c.Parser.RequireFieldDash,
		c.Parser.RejectNegative,
		c.Logging.Level,
	)
}
