package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "0.0.0.0:3000"
  read_timeout: "45s"

inference:
  base_url: "http://localhost:11434/v1"
  model: "llama3"

adapter_manager:
  worker_pool_size: 3
  preload_timeout: "5s"

adapters:
  - name: support-faq
    implementation: relational.sqlite
    datasource: sqlite
    adapter: qa
    config:
      table: faq
      confidence_threshold: 0.4
  - name: handbook
    implementation: vector.sqlite
    datasource: vector
    adapter: generic

telemetry:
  logging:
    level: debug
    format: text
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:3000" {
		t.Errorf("expected listen address %q, got %q", "0.0.0.0:3000", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("expected read timeout 45s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("expected default write timeout, got %v", cfg.Server.WriteTimeout)
	}
	if cfg.AdapterManager.WorkerPoolSize != 3 {
		t.Errorf("expected worker pool size 3, got %d", cfg.AdapterManager.WorkerPoolSize)
	}
	if len(cfg.Adapters) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(cfg.Adapters))
	}
	faq := cfg.Adapters[0]
	if faq.Implementation != "relational.sqlite" || faq.Adapter != "qa" {
		t.Errorf("unexpected adapter config: %+v", faq)
	}
	if faq.Config["table"] != "faq" {
		t.Errorf("expected table param faq, got %v", faq.Config["table"])
	}
	if faq.Config["confidence_threshold"] != 0.4 {
		t.Errorf("expected confidence threshold 0.4, got %v", faq.Config["confidence_threshold"])
	}
}

func TestLoadConfig_ExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_GANYMEDE_KEY", "sk-from-env")

	path := writeConfig(t, `
inference:
  api_key: "${TEST_GANYMEDE_KEY}"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Inference.APIKey != "sk-from-env" {
		t.Errorf("expected expanded api key, got %q", cfg.Inference.APIKey)
	}
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist in chain, got %v", err)
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [unclosed")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadConfig_DuplicateAdapterNamesFail(t *testing.T) {
	path := writeConfig(t, `
adapters:
  - name: docs
    implementation: relational.sqlite
    adapter: generic
  - name: docs
    implementation: vector.sqlite
    adapter: generic
`)

	_, err := LoadConfig(path)
	if err == nil {
		t.Fatal("expected duplicate adapter names to fail validation")
	}

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if vErr.Errors[0].Field != "adapters[1].name" {
		t.Errorf("expected error on adapters[1].name, got %s", vErr.Errors[0].Field)
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_address: "127.0.0.1:3000"
`)

	t.Setenv("GANYMEDE_SERVER_LISTEN_ADDRESS", "0.0.0.0:9000")
	t.Setenv("GANYMEDE_ADAPTER_MANAGER_WORKER_POOL_SIZE", "8")
	t.Setenv("GANYMEDE_ADAPTER_MANAGER_PRELOAD_TIMEOUT", "2s")
	t.Setenv("GANYMEDE_GENERAL_INFERENCE_ONLY", "true")
	t.Setenv("GANYMEDE_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected overridden listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.AdapterManager.WorkerPoolSize != 8 {
		t.Errorf("expected worker pool size 8, got %d", cfg.AdapterManager.WorkerPoolSize)
	}
	if cfg.AdapterManager.PreloadTimeout != 2*time.Second {
		t.Errorf("expected preload timeout 2s, got %v", cfg.AdapterManager.PreloadTimeout)
	}
	if !cfg.General.InferenceOnly {
		t.Error("expected inference only mode from env")
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %q", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfig(t, "{}")
	t.Setenv("GANYMEDE_TELEMETRY_LOGGING_LEVEL", "verbose")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("expected validation failure after invalid override")
	}
}
