package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:3000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Inference defaults
	DefaultInferenceProvider    = "openai"
	DefaultInferenceBaseURL     = "https://api.openai.com/v1"
	DefaultInferenceModel       = "gpt-4o-mini"
	DefaultInferenceTemperature = float32(0.1)
	DefaultInferenceTimeout     = 60 * time.Second

	// Embedding defaults
	DefaultEmbeddingsBaseURL = "https://api.openai.com/v1"
	DefaultEmbeddingsModel   = "text-embedding-3-small"

	// Datasource defaults
	DefaultSQLitePath        = "data/documents.db"
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultVectorPath        = "data/vectors.db"
	DefaultVectorMinScore    = 0.3

	// Adapter manager defaults
	DefaultWorkerPoolSize         = 5
	DefaultPreloadTimeout         = 30 * time.Second
	DefaultManagerShutdownTimeout = 10 * time.Second

	// Telemetry defaults
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "json"
	DefaultLogOutput         = "stdout"
	DefaultLogFilePath       = "logs/ganymede.log"
	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 5
	DefaultLogFileMaxAgeDays = 30
	DefaultMetricsPath       = "/metrics"
	DefaultMetricsNamespace  = "ganymede"
	DefaultTracingService    = "ganymede"
	DefaultTracingEndpoint   = "localhost:4317"
	DefaultTracingSampler    = "always"
	DefaultTracingRatio      = 1.0
)

// ApplyDefaults fills zero-valued fields with their defaults. Fields that
// were set explicitly are left untouched.
func ApplyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyInferenceDefaults(&cfg.Inference)

	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = DefaultEmbeddingsBaseURL
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = DefaultEmbeddingsModel
	}

	// Datasource defaults
	if cfg.Datasources.SQLite.Path == "" {
		cfg.Datasources.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Datasources.SQLite.BusyTimeout == 0 {
		cfg.Datasources.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Datasources.Vector.Path == "" {
		cfg.Datasources.Vector.Path = DefaultVectorPath
	}
	if cfg.Datasources.Vector.MinScore == 0 {
		cfg.Datasources.Vector.MinScore = DefaultVectorMinScore
	}

	// Adapter manager defaults
	am := &cfg.AdapterManager
	if am.WorkerPoolSize == 0 {
		am.WorkerPoolSize = DefaultWorkerPoolSize
	}
	if am.PreloadTimeout == 0 {
		am.PreloadTimeout = DefaultPreloadTimeout
	}
	if am.ShutdownTimeout == 0 {
		am.ShutdownTimeout = DefaultManagerShutdownTimeout
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyServerDefaults(cfg *ServerConfig) {
	if cfg.ListenAddress == "" {
		cfg.ListenAddress = DefaultListenAddress
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.IdleTimeout == 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.MaxHeaderBytes == 0 {
		cfg.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
}

func applyInferenceDefaults(cfg *InferenceConfig) {
	if cfg.Provider == "" {
		cfg.Provider = DefaultInferenceProvider
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultInferenceBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultInferenceModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultInferenceTemperature
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultInferenceTimeout
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	logging := &cfg.Logging
	if logging.Level == "" {
		logging.Level = DefaultLogLevel
	}
	if logging.Format == "" {
		logging.Format = DefaultLogFormat
	}
	if logging.Output == "" {
		logging.Output = DefaultLogOutput
	}
	if logging.File.Path == "" {
		logging.File.Path = DefaultLogFilePath
	}
	if logging.File.MaxSizeMB == 0 {
		logging.File.MaxSizeMB = DefaultLogFileMaxSizeMB
	}
	if logging.File.MaxBackups == 0 {
		logging.File.MaxBackups = DefaultLogFileMaxBackups
	}
	if logging.File.MaxAgeDays == 0 {
		logging.File.MaxAgeDays = DefaultLogFileMaxAgeDays
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Tracing.Endpoint == "" {
		cfg.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingRatio
	}
}
