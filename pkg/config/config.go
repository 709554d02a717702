package config

import "time"

// Config is the root configuration structure for Ganymede.
// It contains all configuration sections for the HTTP server, the inference
// provider, retriever adapters, security, and telemetry.
type Config struct {
	// General contains process-wide switches.
	General GeneralConfig `yaml:"general"`

	// Server contains HTTP server configuration including listen address
	// and timeouts.
	Server ServerConfig `yaml:"server"`

	// Inference contains configuration for the LLM provider used to answer
	// chat requests.
	Inference InferenceConfig `yaml:"inference"`

	// Embeddings contains configuration for the embedding endpoint used by
	// vector retrievers.
	Embeddings EmbeddingsConfig `yaml:"embeddings"`

	// Datasources contains connection settings shared by retrievers of the
	// same datasource type.
	Datasources DatasourcesConfig `yaml:"datasources"`

	// AdapterManager contains configuration for the dynamic adapter manager.
	AdapterManager AdapterManagerConfig `yaml:"adapter_manager"`

	// Adapters is the ordered list of retriever adapters that can be loaded
	// on demand. Adapter names must be unique.
	Adapters []AdapterConfig `yaml:"adapters"`

	// APIKeys maps client API keys to adapters.
	APIKeys APIKeysConfig `yaml:"api_keys"`

	// Security contains authentication settings for administrative endpoints.
	Security SecurityConfig `yaml:"security"`

	// Telemetry contains configuration for logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GeneralConfig contains process-wide switches.
type GeneralConfig struct {
	// Verbose enables additional informational logging in hot paths.
	// Default: false
	Verbose bool `yaml:"verbose"`

	// InferenceOnly disables retrieval entirely. Chat requests are sent to
	// the provider without document context.
	// Default: false
	InferenceOnly bool `yaml:"inference_only"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Chat requests include retrieval and generation, so this is
	// larger than the read timeout.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown of in-flight requests.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// InferenceConfig contains configuration for the chat completion provider.
// Any OpenAI-compatible endpoint (OpenAI, Ollama, vLLM, LM Studio) is supported.
type InferenceConfig struct {
	// Provider is the provider name used in logs.
	// Default: "openai"
	Provider string `yaml:"provider"`

	// BaseURL is the API base URL.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKey is the provider API key. Supports ${ENV} expansion.
	APIKey string `yaml:"api_key"`

	// Model is the chat model identifier.
	// Default: "gpt-4o-mini"
	Model string `yaml:"model"`

	// Temperature is the sampling temperature.
	// Default: 0.1
	Temperature float32 `yaml:"temperature"`

	// MaxTokens caps the completion length. Zero leaves it to the provider.
	MaxTokens int `yaml:"max_tokens"`

	// Timeout bounds a single completion request.
	// Default: 60s
	Timeout time.Duration `yaml:"timeout"`

	// SystemPrompt is used when an API key has no prompt of its own.
	SystemPrompt string `yaml:"system_prompt"`

	// RefusalMessage replaces a completion the provider stopped with a
	// content filter. Empty uses the built-in refusal.
	RefusalMessage string `yaml:"refusal_message"`
}

// EmbeddingsConfig contains configuration for the embedding endpoint.
type EmbeddingsConfig struct {
	// BaseURL is the API base URL.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKey is the embeddings API key. Supports ${ENV} expansion.
	APIKey string `yaml:"api_key"`

	// Model is the embedding model identifier.
	// Default: "text-embedding-3-small"
	Model string `yaml:"model"`
}

// DatasourcesConfig contains settings shared by retrievers per datasource.
type DatasourcesConfig struct {
	// SQLite configures relational retrievers backed by SQLite.
	SQLite SQLiteDatasourceConfig `yaml:"sqlite"`

	// Vector configures the embedded vector store.
	Vector VectorDatasourceConfig `yaml:"vector"`
}

// SQLiteDatasourceConfig configures the SQLite datasource.
type SQLiteDatasourceConfig struct {
	// Path is the database file path.
	// Default: "data/documents.db"
	Path string `yaml:"path"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// VectorDatasourceConfig configures the embedded vector store.
type VectorDatasourceConfig struct {
	// Path is the database file path holding embeddings.
	// Default: "data/vectors.db"
	Path string `yaml:"path"`

	// MinScore is the default minimum cosine similarity for a match.
	// Default: 0.3
	MinScore float64 `yaml:"min_score"`
}

// AdapterManagerConfig configures the dynamic adapter manager.
type AdapterManagerConfig struct {
	// WorkerPoolSize is the number of workers constructing adapters.
	// Default: 5
	WorkerPoolSize int `yaml:"worker_pool_size"`

	// PreloadOnStartup loads every configured adapter before serving.
	// Default: false
	PreloadOnStartup bool `yaml:"preload_on_startup"`

	// PreloadTimeout bounds each adapter during preloading.
	// Default: 30s
	PreloadTimeout time.Duration `yaml:"preload_timeout"`

	// WarmSchedule is an optional cron expression that periodically preloads
	// adapters which are not cached (e.g. "@every 5m").
	WarmSchedule string `yaml:"warm_schedule"`

	// ShutdownTimeout bounds the wait for in-flight constructions on close.
	// Default: 10s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AdapterConfig describes one retriever adapter.
type AdapterConfig struct {
	// Name is the unique adapter name clients route to.
	Name string `yaml:"name"`

	// Implementation is the registered retriever implementation identifier
	// (e.g. "relational.sqlite", "vector.sqlite").
	Implementation string `yaml:"implementation"`

	// Datasource is the datasource type (e.g. "sqlite", "vector").
	Datasource string `yaml:"datasource"`

	// Adapter is the domain adapter name (e.g. "qa", "generic").
	Adapter string `yaml:"adapter"`

	// Config holds implementation and domain adapter parameters.
	Config map[string]any `yaml:"config"`
}

// APIKeysConfig configures API key to adapter routing.
type APIKeysConfig struct {
	// File is an optional YAML file containing additional keys.
	File string `yaml:"file"`

	// Watch reloads File when it changes.
	// Default: false
	Watch bool `yaml:"watch"`

	// Keys are inline key bindings.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig binds a client API key to an adapter.
type APIKeyConfig struct {
	// Key is the client API key. Supports ${ENV} expansion.
	Key string `yaml:"key"`

	// Adapter is the adapter name used for retrieval.
	Adapter string `yaml:"adapter"`

	// SystemPrompt overrides the inference system prompt for this key.
	SystemPrompt string `yaml:"system_prompt"`

	// Active disables the key when explicitly set to false.
	Active *bool `yaml:"active"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	// AdminAuth protects /admin endpoints with bearer JWTs.
	AdminAuth AdminAuthConfig `yaml:"admin_auth"`
}

// AdminAuthConfig configures HS256 JWT verification for admin endpoints.
type AdminAuthConfig struct {
	// Enabled turns on token verification.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SecretKey is the HS256 signing secret. Supports ${ENV} expansion.
	SecretKey string `yaml:"secret_key"`

	// Issuer, when set, must match the token "iss" claim.
	Issuer string `yaml:"issuer"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// Output is "stdout", "stderr", or "file".
	// Default: "stdout"
	Output string `yaml:"output"`

	// AddSource includes file:line in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// File configures rotation when Output is "file".
	File LogFileConfig `yaml:"file"`
}

// LogFileConfig configures rotating log files.
type LogFileConfig struct {
	// Path is the log file path.
	// Default: "logs/ganymede.log"
	Path string `yaml:"path"`

	// MaxSizeMB is the size at which the file is rotated.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb"`

	// MaxBackups is the number of rotated files kept.
	// Default: 5
	MaxBackups int `yaml:"max_backups"`

	// MaxAgeDays is the number of days rotated files are kept.
	// Default: 30
	MaxAgeDays int `yaml:"max_age_days"`

	// Compress gzips rotated files.
	Compress bool `yaml:"compress"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path the metrics are served on.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace prefixes every metric name.
	// Default: "ganymede"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "ganymede"
	ServiceName string `yaml:"service_name"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: false
	Insecure bool `yaml:"insecure"`

	// Sampler is "always", "never", or "ratio".
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces kept by the "ratio" sampler.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
