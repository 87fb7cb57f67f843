package config

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/canon/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a version this build does not read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidProvider indicates an unrecognized evaluator provider.
	ErrInvalidProvider = errors.New("invalid evaluator provider")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrOutOfRange indicates a numeric field outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, &FieldError{Field: "version", Value: strconv.Itoa(cfg.Version), Err: ErrUnsupportedVersion})
	}

	switch cfg.Evaluator.Provider {
	case ProviderHeuristic, ProviderGemini:
	default:
		errs = append(errs, &FieldError{Field: "evaluator.provider", Value: cfg.Evaluator.Provider, Err: ErrInvalidProvider})
	}

	if cfg.Batch.Workers < 1 || cfg.Batch.Workers > 256 {
		errs = append(errs, &FieldError{Field: "batch.workers", Value: strconv.Itoa(cfg.Batch.Workers), Err: ErrOutOfRange})
	}
	if cfg.Evaluator.Timeout <= 0 {
		errs = append(errs, &FieldError{Field: "evaluator.timeout", Value: cfg.Evaluator.Timeout.String(), Err: ErrOutOfRange})
	}
	if cfg.Evaluator.MinContentLength < 0 {
		errs = append(errs, &FieldError{Field: "evaluator.min_content_length", Value: strconv.Itoa(cfg.Evaluator.MinContentLength), Err: ErrOutOfRange})
	}
	if cfg.Evaluator.CacheSize < 0 {
		errs = append(errs, &FieldError{Field: "evaluator.cache_size", Value: strconv.Itoa(cfg.Evaluator.CacheSize), Err: ErrOutOfRange})
	}

	if err := validatePath(cfg.Store.Path); err != nil {
		errs = append(errs, &FieldError{Field: "store.path", Value: cfg.Store.Path, Err: err})
	}
	if err := validatePath(cfg.Batch.MetricsPath); err != nil {
		errs = append(errs, &FieldError{Field: "batch.metrics_path", Value: cfg.Batch.MetricsPath, Err: err})
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError represents an error for a specific configuration key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
