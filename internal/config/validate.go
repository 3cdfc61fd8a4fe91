package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidWindow indicates a negative fallback window size
	ErrInvalidWindow = errors.New("invalid fallback window")

	// ErrInvalidDepth indicates a non-positive tree walk depth bound
	ErrInvalidDepth = errors.New("invalid max depth")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCacheSize indicates a non-positive cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidPattern indicates a language glob that does not compile
	ErrInvalidPattern = errors.New("invalid language pattern")

	// ErrEmptyColumn indicates a missing dataset column name
	ErrEmptyColumn = errors.New("empty dataset column name")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateResolver(&cfg.Resolver); err != nil {
		errs = append(errs, err)
	}

	if err := validateLanguages(&cfg.Languages); err != nil {
		errs = append(errs, err)
	}

	if err := validateBatch(&cfg.Batch); err != nil {
		errs = append(errs, err)
	}

	if err := validateDataset(&cfg.Dataset); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateResolver(cfg *ResolverConfig) error {
	var errs []error

	if cfg.Front < 0 {
		errs = append(errs, fmt.Errorf("%w: front cannot be negative, got %d", ErrInvalidWindow, cfg.Front))
	}
	if cfg.Back < 0 {
		errs = append(errs, fmt.Errorf("%w: back cannot be negative, got %d", ErrInvalidWindow, cfg.Back))
	}
	if cfg.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidDepth, cfg.MaxDepth))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLanguages(cfg *LanguagesConfig) error {
	var errs []error

	for _, pattern := range cfg.CPP {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateBatch(cfg *BatchConfig) error {
	var errs []error

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}
	if cfg.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size must be positive, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateDataset(cfg *DatasetConfig) error {
	var errs []error

	columns := []struct {
		key   string
		value string
	}{
		{"project_column", cfg.ProjectColumn},
		{"file_column", cfg.FileColumn},
		{"line_column", cfg.LineColumn},
		{"function_column", cfg.FunctionColumn},
		{"code_column", cfg.CodeColumn},
	}
	for _, col := range columns {
		if strings.TrimSpace(col.value) == "" {
			errs = append(errs, fmt.Errorf("%w: %s is required", ErrEmptyColumn, col.key))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// validationErrors keeps every underlying error reachable through errors.Is.
type validationErrors []error

func (v validationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (v validationErrors) Unwrap() []error {
	return v
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return validationErrors(errs)
}
