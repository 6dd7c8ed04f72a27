// Package config loads kdbxinfo settings from an optional YAML file and KDBXINFO_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-andiamo/kdbxinfo/internal/digest"
	"github.com/go-andiamo/kdbxinfo/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. KDBXINFO_LOG_LEVEL
const EnvPrefix = "KDBXINFO"

type Config struct {
	// Output is the report format: text, json or yaml
	Output string `mapstructure:"output" yaml:"output"`
	// Workers is the number of files inspected concurrently
	Workers int `mapstructure:"workers" yaml:"workers"`
	// Digests are the whole-file digest algorithms to report
	Digests []string `mapstructure:"digests" yaml:"digests"`
	// TerminatorLength is the expected value length of the end of header record
	TerminatorLength int `mapstructure:"terminator_length" yaml:"terminator_length"`
	// NoFormatVersion treats the header records as starting directly after the signature
	NoFormatVersion bool `mapstructure:"no_format_version" yaml:"no_format_version"`
	// Strict makes header warnings fail the run
	Strict bool      `mapstructure:"strict" yaml:"strict"`
	Log    LogConfig `mapstructure:"log" yaml:"log"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// File, when set, receives the logs (rotated) instead of stderr
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// DefaultTerminatorLength is the end of header value length accepted when none is configured
const DefaultTerminatorLength = 2

// MaxWorkers bounds the configured worker count
const MaxWorkers = 64

func Default() *Config {
	digests := make([]string, 0, len(digest.Default))
	for _, alg := range digest.Default {
		digests = append(digests, string(alg))
	}
	return &Config{
		Output:           string(report.FormatText),
		Workers:          4,
		Digests:          digests,
		TerminatorLength: DefaultTerminatorLength,
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("output", cfg.Output)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("digests", cfg.Digests)
	v.SetDefault("terminator_length", cfg.TerminatorLength)
	v.SetDefault("no_format_version", cfg.NoFormatVersion)
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.max_size_mb", cfg.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age_days", cfg.Log.MaxAgeDays)
	v.SetDefault("log.compress", cfg.Log.Compress)
}

// Load reads the config file at path (when not empty) from fs, applies environment overrides and validates the result
func Load(fs afero.Fs, path string) (*Config, error) {
	v := viper.New()
	v.SetFs(fs)
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting, reporting all problems at once
func (c *Config) Validate() error {
	var errs []error
	if _, err := report.ParseFormat(c.Output); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 1 || c.Workers > MaxWorkers {
		errs = append(errs, fmt.Errorf("workers must be between 1 and %d, got %d", MaxWorkers, c.Workers))
	}
	if _, err := digest.ParseAlgorithms(c.Digests); err != nil {
		errs = append(errs, err)
	}
	if c.TerminatorLength < 0 || c.TerminatorLength > 0xFFFF {
		errs = append(errs, fmt.Errorf("terminator_length must be between 0 and 65535, got %d", c.TerminatorLength))
	}
	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB < 1 {
		errs = append(errs, fmt.Errorf("log.max_size_mb must be at least 1 when log.file is set, got %d", c.Log.MaxSizeMB))
	}
	if c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Errorf("log.max_backups must not be negative, got %d", c.Log.MaxBackups))
	}
	if c.Log.MaxAgeDays < 0 {
		errs = append(errs, fmt.Errorf("log.max_age_days must not be negative, got %d", c.Log.MaxAgeDays))
	}
	return errors.Join(errs...)
}

// SlogLevel maps the configured level name onto a slog.Level
func (l LogConfig) SlogLevel() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", l.Level)
}
