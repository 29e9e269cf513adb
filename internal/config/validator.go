package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "demo.inserter.delay_ms")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(c.Store.Path) == "" {
		errors = append(errors, ValidationError{
			Field:   "store.path",
			Value:   c.Store.Path,
			Message: "must not be empty",
		})
	}

	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateDemo()...)

	if c.Watch.DebounceMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "watch.debounce_ms",
			Value:   c.Watch.DebounceMs,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}

// validateDemo validates the DemoConfig
func (c *Config) validateDemo() []ValidationError {
	var errors []ValidationError

	if c.Demo.SeedRecords < 0 {
		errors = append(errors, ValidationError{
			Field:   "demo.seed_records",
			Value:   c.Demo.SeedRecords,
			Message: "must be non-negative",
		})
	}

	workers := []struct {
		field string
		cfg   WorkerConfig
	}{
		{"demo.name_reader", c.Demo.NameReader},
		{"demo.phone_reader", c.Demo.PhoneReader},
		{"demo.inserter", c.Demo.Inserter},
		{"demo.remover", c.Demo.Remover},
	}
	for _, w := range workers {
		if w.cfg.Iterations < 0 {
			errors = append(errors, ValidationError{
				Field:   w.field + ".iterations",
				Value:   w.cfg.Iterations,
				Message: "must be non-negative",
			})
		}
		if w.cfg.DelayMs < 0 {
			errors = append(errors, ValidationError{
				Field:   w.field + ".delay_ms",
				Value:   w.cfg.DelayMs,
				Message: "must be non-negative",
			})
		}
	}

	return errors
}
