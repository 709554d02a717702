package config

import (
	"log/slog"
	"sort"
)

// LogSummary writes a human-oriented overview of the effective configuration
// at startup. Secrets are never logged; only whether they are set.
func LogSummary(cfg *Config, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "config.summary")

	mode := "rag"
	if cfg.General.InferenceOnly {
		mode = "inference_only"
	}
	logger.Info("server configuration",
		"mode", mode,
		"listen_address", cfg.Server.ListenAddress,
		"read_timeout", cfg.Server.ReadTimeout.String(),
		"write_timeout", cfg.Server.WriteTimeout.String(),
		"verbose", cfg.General.Verbose,
	)

	logger.Info("inference provider",
		"provider", cfg.Inference.Provider,
		"base_url", cfg.Inference.BaseURL,
		"model", cfg.Inference.Model,
		"temperature", cfg.Inference.Temperature,
		"api_key_set", cfg.Inference.APIKey != "",
	)

	if !cfg.General.InferenceOnly {
		logger.Info("adapter manager",
			"adapters", AdapterNames(cfg),
			"worker_pool_size", cfg.AdapterManager.WorkerPoolSize,
			"preload_on_startup", cfg.AdapterManager.PreloadOnStartup,
			"preload_timeout", cfg.AdapterManager.PreloadTimeout.String(),
			"warm_schedule", cfg.AdapterManager.WarmSchedule,
		)
		logger.Info("datasources",
			"sqlite_path", cfg.Datasources.SQLite.Path,
			"vector_path", cfg.Datasources.Vector.Path,
			"embedding_model", cfg.Embeddings.Model,
		)
	}

	logger.Info("api keys",
		"inline_keys", len(cfg.APIKeys.Keys),
		"file", cfg.APIKeys.File,
		"watch", cfg.APIKeys.Watch,
		"admin_auth", cfg.Security.AdminAuth.Enabled,
	)

	logger.Info("telemetry",
		"log_level", cfg.Telemetry.Logging.Level,
		"log_format", cfg.Telemetry.Logging.Format,
		"log_output", cfg.Telemetry.Logging.Output,
		"metrics_enabled", cfg.Telemetry.Metrics.Enabled,
		"metrics_path", cfg.Telemetry.Metrics.Path,
		"tracing_enabled", cfg.Telemetry.Tracing.Enabled,
		"tracing_endpoint", cfg.Telemetry.Tracing.Endpoint,
	)
}

// AdapterNames returns the sorted names of all named adapters.
func AdapterNames(cfg *Config) []string {
	names := make([]string, 0, len(cfg.Adapters))
	for _, a := range cfg.Adapters {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}
	sort.Strings(names)
	return names
}
