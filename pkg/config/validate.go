package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateInference(&cfg.Inference)...)
	errs = append(errs, validateAdapterManager(&cfg.AdapterManager)...)
	errs = append(errs, validateAdapters(cfg.Adapters)...)
	errs = append(errs, validateAPIKeys(&cfg.APIKeys)...)
	errs = append(errs, validateSecurity(&cfg.Security)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.MaxHeaderBytes < 0 || cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be between 0 and 10MB",
		})
	}

	return errs
}

func validateInference(cfg *InferenceConfig) []FieldError {
	var errs []FieldError

	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		errs = append(errs, FieldError{
			Field:   "inference.base_url",
			Message: fmt.Sprintf("invalid URL format: %v", err),
		})
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		errs = append(errs, FieldError{
			Field:   "inference.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}
	if cfg.MaxTokens < 0 {
		errs = append(errs, FieldError{
			Field:   "inference.max_tokens",
			Message: "max tokens must be non-negative",
		})
	}

	return errs
}

func validateAdapterManager(cfg *AdapterManagerConfig) []FieldError {
	var errs []FieldError

	if cfg.WorkerPoolSize < 1 || cfg.WorkerPoolSize > 64 {
		errs = append(errs, FieldError{
			Field:   "adapter_manager.worker_pool_size",
			Message: "worker pool size must be between 1 and 64",
		})
	}
	if cfg.PreloadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "adapter_manager.preload_timeout",
			Message: "preload timeout must be positive",
		})
	}
	if cfg.WarmSchedule != "" {
		if _, err := cron.ParseStandard(cfg.WarmSchedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "adapter_manager.warm_schedule",
				Message: fmt.Sprintf("invalid cron schedule: %v", err),
			})
		}
	}

	return errs
}

// validateAdapters rejects duplicate adapter names and incomplete entries.
// Entries without a name are tolerated here; the adapter manager skips them
// with a warning when it builds its config store.
func validateAdapters(adapters []AdapterConfig) []FieldError {
	var errs []FieldError
	seen := make(map[string]int, len(adapters))

	for i, adapter := range adapters {
		if adapter.Name == "" {
			continue
		}
		prefix := fmt.Sprintf("adapters[%d]", i)

		if first, dup := seen[adapter.Name]; dup {
			errs = append(errs, FieldError{
				Field:   prefix + ".name",
				Message: fmt.Sprintf("duplicate adapter name %q (first defined at adapters[%d])", adapter.Name, first),
			})
			continue
		}
		seen[adapter.Name] = i

		if adapter.Implementation == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".implementation",
				Message: "implementation is required",
			})
		}
		if adapter.Adapter == "" {
			errs = append(errs, FieldError{
				Field:   prefix + ".adapter",
				Message: "domain adapter is required",
			})
		}
	}

	return errs
}

func validateAPIKeys(cfg *APIKeysConfig) []FieldError {
	var errs []FieldError
	seen := make(map[string]bool, len(cfg.Keys))

	for i, key := range cfg.Keys {
		prefix := fmt.Sprintf("api_keys.keys[%d]", i)
		if key.Key == "" {
			errs = append(errs, FieldError{Field: prefix + ".key", Message: "key is required"})
			continue
		}
		if seen[key.Key] {
			errs = append(errs, FieldError{Field: prefix + ".key", Message: "duplicate api key"})
		}
		seen[key.Key] = true
	}

	if cfg.Watch && cfg.File == "" {
		errs = append(errs, FieldError{
			Field:   "api_keys.watch",
			Message: "watch requires api_keys.file",
		})
	}

	return errs
}

func validateSecurity(cfg *SecurityConfig) []FieldError {
	var errs []FieldError

	if cfg.AdminAuth.Enabled && len(cfg.AdminAuth.SecretKey) < 16 {
		errs = append(errs, FieldError{
			Field:   "security.admin_auth.secret_key",
			Message: "secret key must be at least 16 characters when admin auth is enabled",
		})
	}

	return errs
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	switch cfg.Logging.Output {
	case "stdout", "stderr", "file":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.output",
			Message: fmt.Sprintf("invalid log output %q (must be stdout, stderr, or file)", cfg.Logging.Output),
		})
	}

	switch cfg.Tracing.Sampler {
	case "always", "never", "ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be always, never, or ratio)", cfg.Tracing.Sampler),
		})
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sample_ratio",
			Message: "sample ratio must be between 0 and 1",
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}
