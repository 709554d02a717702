package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// ${VAR} references in the file are expanded from the environment before
// parsing. Defaults are applied and the result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults without validating.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention GANYMEDE_SECTION_FIELD (e.g., GANYMEDE_SERVER_LISTEN_ADDRESS)
// and always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies GANYMEDE_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	// General overrides
	setBool("GANYMEDE_GENERAL_VERBOSE", &cfg.General.Verbose)
	setBool("GANYMEDE_GENERAL_INFERENCE_ONLY", &cfg.General.InferenceOnly)

	// Server overrides
	setString("GANYMEDE_SERVER_LISTEN_ADDRESS", &cfg.Server.ListenAddress)
	setDuration("GANYMEDE_SERVER_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("GANYMEDE_SERVER_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("GANYMEDE_SERVER_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Inference overrides
	setString("GANYMEDE_INFERENCE_BASE_URL", &cfg.Inference.BaseURL)
	setString("GANYMEDE_INFERENCE_API_KEY", &cfg.Inference.APIKey)
	setString("GANYMEDE_INFERENCE_MODEL", &cfg.Inference.Model)
	setDuration("GANYMEDE_INFERENCE_TIMEOUT", &cfg.Inference.Timeout)

	// Embedding overrides
	setString("GANYMEDE_EMBEDDINGS_BASE_URL", &cfg.Embeddings.BaseURL)
	setString("GANYMEDE_EMBEDDINGS_API_KEY", &cfg.Embeddings.APIKey)
	setString("GANYMEDE_EMBEDDINGS_MODEL", &cfg.Embeddings.Model)

	// Datasource overrides
	setString("GANYMEDE_DATASOURCES_SQLITE_PATH", &cfg.Datasources.SQLite.Path)
	setString("GANYMEDE_DATASOURCES_VECTOR_PATH", &cfg.Datasources.Vector.Path)

	// Adapter manager overrides
	if val := os.Getenv("GANYMEDE_ADAPTER_MANAGER_WORKER_POOL_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.AdapterManager.WorkerPoolSize = i
		}
	}
	setBool("GANYMEDE_ADAPTER_MANAGER_PRELOAD_ON_STARTUP", &cfg.AdapterManager.PreloadOnStartup)
	setDuration("GANYMEDE_ADAPTER_MANAGER_PRELOAD_TIMEOUT", &cfg.AdapterManager.PreloadTimeout)
	setString("GANYMEDE_ADAPTER_MANAGER_WARM_SCHEDULE", &cfg.AdapterManager.WarmSchedule)

	// Security overrides
	setBool("GANYMEDE_SECURITY_ADMIN_AUTH_ENABLED", &cfg.Security.AdminAuth.Enabled)
	setString("GANYMEDE_SECURITY_ADMIN_AUTH_SECRET_KEY", &cfg.Security.AdminAuth.SecretKey)

	// Telemetry overrides
	setString("GANYMEDE_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	setString("GANYMEDE_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	setString("GANYMEDE_TELEMETRY_LOGGING_OUTPUT", &cfg.Telemetry.Logging.Output)
	setBool("GANYMEDE_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	setString("GANYMEDE_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	setBool("GANYMEDE_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	setString("GANYMEDE_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
}

func setString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func setDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
