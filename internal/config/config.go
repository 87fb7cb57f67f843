// Package config provides configuration management for canon using Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/canon/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// Evaluator providers.
const (
	ProviderHeuristic = "heuristic"
	ProviderGemini    = "gemini"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version   int             `mapstructure:"version" yaml:"version"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
	Batch     BatchConfig     `mapstructure:"batch" yaml:"batch"`
	Evaluator EvaluatorConfig `mapstructure:"evaluator" yaml:"evaluator"`
}

// StoreConfig locates the package store.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// BatchConfig tunes batch reconversion.
type BatchConfig struct {
	Workers     int    `mapstructure:"workers" yaml:"workers"`
	MetricsPath string `mapstructure:"metrics_path" yaml:"metrics_path"`
}

// EvaluatorConfig selects and tunes the content evaluator used by scoring.
type EvaluatorConfig struct {
	Provider         string        `mapstructure:"provider" yaml:"provider"`
	Model            string        `mapstructure:"model" yaml:"model"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MinContentLength int           `mapstructure:"min_content_length" yaml:"min_content_length"`
	CacheSize        int           `mapstructure:"cache_size" yaml:"cache_size"`
	APIKey           string        `mapstructure:"api_key" yaml:"-"`
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Calling it again discards any previously selected config file.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support: CANON_EVALUATOR_API_KEY -> evaluator.api_key
	viper.SetEnvPrefix("CANON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("store.path", paths.StorePath())
	viper.SetDefault("batch.workers", 4)
	viper.SetDefault("batch.metrics_path", "")
	viper.SetDefault("evaluator.provider", ProviderHeuristic)
	viper.SetDefault("evaluator.model", "gemini-2.5-flash")
	viper.SetDefault("evaluator.timeout", 10*time.Second)
	viper.SetDefault("evaluator.min_content_length", 200)
	viper.SetDefault("evaluator.cache_size", 1024)
	viper.SetDefault("evaluator.api_key", "")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Implicit load falls back to defaults.
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
		} else if path != "" && isNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", path, err)
		} else {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, fmt.Errorf("validating config: %w", errs[0])
	}

	return &cfg, nil
}
