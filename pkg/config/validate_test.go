package config

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// newTestConfig returns a configuration with defaults applied.
func newTestConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	cfg := newTestConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.AdapterManager.WorkerPoolSize != DefaultWorkerPoolSize {
		t.Errorf("expected default worker pool size, got %d", cfg.AdapterManager.WorkerPoolSize)
	}
	if cfg.AdapterManager.PreloadTimeout != DefaultPreloadTimeout {
		t.Errorf("expected default preload timeout, got %v", cfg.AdapterManager.PreloadTimeout)
	}
	if cfg.Inference.Model != DefaultInferenceModel {
		t.Errorf("expected default model, got %q", cfg.Inference.Model)
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected default namespace, got %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Server:         ServerConfig{ListenAddress: "0.0.0.0:1"},
		AdapterManager: AdapterManagerConfig{WorkerPoolSize: 2},
	}
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:1" {
		t.Errorf("listen address overwritten: %q", cfg.Server.ListenAddress)
	}
	if cfg.AdapterManager.WorkerPoolSize != 2 {
		t.Errorf("worker pool size overwritten: %d", cfg.AdapterManager.WorkerPoolSize)
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	if err := Validate(newTestConfig()); err != nil {
		t.Errorf("expected default config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := newTestConfig()
	cfg.Server.ListenAddress = ""
	cfg.AdapterManager.WorkerPoolSize = 0
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	var vErr ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(vErr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(vErr.Errors), vErr.Errors)
	}
	if !strings.Contains(vErr.Error(), "validation failed with 3 errors") {
		t.Errorf("error message should mention multiple errors: %s", vErr.Error())
	}
}

func TestValidate_Adapters(t *testing.T) {
	tests := []struct {
		name       string
		adapters   []AdapterConfig
		wantError  bool
		errorField string
	}{
		{
			name: "valid adapters",
			adapters: []AdapterConfig{
				{Name: "a", Implementation: "relational.sqlite", Adapter: "qa"},
				{Name: "b", Implementation: "vector.sqlite", Adapter: "generic"},
			},
		},
		{
			name: "unnamed entries are tolerated",
			adapters: []AdapterConfig{
				{Implementation: "relational.sqlite", Adapter: "qa"},
			},
		},
		{
			name: "duplicate names",
			adapters: []AdapterConfig{
				{Name: "a", Implementation: "relational.sqlite", Adapter: "qa"},
				{Name: "a", Implementation: "relational.sqlite", Adapter: "qa"},
			},
			wantError:  true,
			errorField: "adapters[1].name",
		},
		{
			name:       "missing implementation",
			adapters:   []AdapterConfig{{Name: "a", Adapter: "qa"}},
			wantError:  true,
			errorField: "adapters[0].implementation",
		},
		{
			name:       "missing domain adapter",
			adapters:   []AdapterConfig{{Name: "a", Implementation: "relational.sqlite"}},
			wantError:  true,
			errorField: "adapters[0].adapter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig()
			cfg.Adapters = tt.adapters

			err := Validate(cfg)
			if !tt.wantError {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var vErr ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Errors[0].Field != tt.errorField {
				t.Errorf("expected error field %q, got %q", tt.errorField, vErr.Errors[0].Field)
			}
		})
	}
}

func TestValidate_WarmSchedule(t *testing.T) {
	cfg := newTestConfig()
	cfg.AdapterManager.WarmSchedule = "@every 5m"
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected valid schedule, got %v", err)
	}

	cfg.AdapterManager.WarmSchedule = "not a schedule"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected invalid schedule to fail")
	}
}

func TestValidate_AdminAuthRequiresSecret(t *testing.T) {
	cfg := newTestConfig()
	cfg.Security.AdminAuth.Enabled = true
	cfg.Security.AdminAuth.SecretKey = "short"

	if err := Validate(cfg); err == nil {
		t.Fatal("expected short secret to fail")
	}
}

func TestValidate_APIKeys(t *testing.T) {
	cfg := newTestConfig()
	cfg.APIKeys.Keys = []APIKeyConfig{{Key: "k1", Adapter: "a"}, {Key: "k1", Adapter: "b"}}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected duplicate api keys to fail")
	}

	cfg.APIKeys.Keys = nil
	cfg.APIKeys.Watch = true
	if err := Validate(cfg); err == nil {
		t.Fatal("expected watch without file to fail")
	}
}

func TestLogSummary_DoesNotLogSecrets(t *testing.T) {
	cfg := newTestConfig()
	cfg.Inference.APIKey = "sk-super-secret"
	cfg.Adapters = []AdapterConfig{{Name: "zeta"}, {Name: "alpha"}, {}}

	var buf bytes.Buffer
	LogSummary(cfg, slog.New(slog.NewJSONHandler(&buf, nil)))

	out := buf.String()
	if strings.Contains(out, "sk-super-secret") {
		t.Error("summary leaked the inference api key")
	}
	if !strings.Contains(out, `"api_key_set":true`) {
		t.Errorf("expected api_key_set flag in summary: %s", out)
	}
	if !strings.Contains(out, `["alpha","zeta"]`) {
		t.Errorf("expected sorted adapter names in summary: %s", out)
	}
}
