package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/retrievers/vector"
	"mercator-hq/ganymede/pkg/security/auth"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func newFAQDatabase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.db")

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE faq (id TEXT PRIMARY KEY, body TEXT NOT NULL)`,
		`INSERT INTO faq VALUES ('1', '{"question":"How do I reset my password?","answer":"Use the reset link."}')`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("failed to seed db: %v", err)
		}
	}
	return path
}

func adaptersConfig(dbPath string) string {
	return `
datasources:
  sqlite:
    path: "` + dbPath + `"

adapter_manager:
  preload_timeout: "10s"

adapters:
  - name: support-faq
    implementation: relational.sqlite
    datasource: sqlite
    adapter: qa
    config:
      table: faq
      content_column: body
  - name: billing
    implementation: relational.sqlite
    datasource: sqlite
    adapter: generic
    config:
      table: invoices

api_keys:
  keys:
    - key: sk-test
      adapter: support-faq

security:
  admin_auth:
    secret_key: "cmd-test-secret-0123456789"
    issuer: "ganymede"
`
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	for _, want := range []string{"Ganymede " + Version, "Git Commit:", "Go Version:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		wantErr  bool
		wantCode int
		wantOut  string
	}{
		{
			name:    "valid",
			config:  adaptersConfig("docs.db"),
			wantOut: "Configuration valid",
		},
		{
			name: "inference only",
			config: `
general:
  inference_only: true
api_keys:
  keys:
    - key: sk-any
`,
			wantOut: "inference only",
		},
		{
			name: "unknown implementation",
			config: `
adapters:
  - name: wiki
    implementation: elastic.search
    datasource: elastic
    adapter: qa
`,
			wantErr:  true,
			wantCode: cli.ExitFailure,
		},
		{
			name: "duplicate adapters",
			config: `
adapters:
  - name: wiki
    implementation: relational.sqlite
    adapter: qa
  - name: wiki
    implementation: vector.sqlite
    adapter: generic
`,
			wantErr:  true,
			wantCode: cli.ExitConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.config)
			out, err := execute(t, "validate", "--config", path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validate error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if code := cli.ExitCode(err); code != tt.wantCode {
					t.Errorf("exit code = %d, want %d", code, tt.wantCode)
				}
				return
			}
			if !strings.Contains(out, tt.wantOut) {
				t.Errorf("output missing %q:\n%s", tt.wantOut, out)
			}
		})
	}
}

func TestValidateCommand_MissingFile(t *testing.T) {
	_, err := execute(t, "validate", "--config", filepath.Join(t.TempDir(), "absent.yaml"))

	var cfgErr *cli.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestAdaptersList(t *testing.T) {
	path := writeConfig(t, adaptersConfig("docs.db"))

	out, err := execute(t, "adapters", "list", "--config", path, "--format", "json")
	if err != nil {
		t.Fatalf("adapters list failed: %v", err)
	}

	var rows []adapterRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 adapters, got %d", len(rows))
	}
	if rows[0].Name != "support-faq" || rows[0].Implementation != "relational.sqlite" || rows[1].Adapter != "generic" {
		t.Errorf("unexpected rows: %+v", rows)
	}

	out, err = execute(t, "adapters", "list", "--config", path, "--format", "text")
	if err != nil {
		t.Fatalf("adapters list failed: %v", err)
	}
	if !strings.HasPrefix(out, "NAME") || !strings.Contains(out, "support-faq") {
		t.Errorf("unexpected text output:\n%s", out)
	}
}

func TestAdaptersPreload(t *testing.T) {
	path := writeConfig(t, adaptersConfig(newFAQDatabase(t)))

	out, err := execute(t, "adapters", "preload", "--config", path, "--format", "json", "--timeout", "5s")
	if err == nil {
		t.Fatal("expected error when an adapter fails to preload")
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("exit code = %d, want %d", cli.ExitCode(err), cli.ExitFailure)
	}

	var rows []preloadRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 results, got %d", len(rows))
	}

	// Rows are sorted by name.
	billing, faq := rows[0], rows[1]
	if billing.Name != "billing" || billing.Success || billing.Error == "" {
		t.Errorf("billing should fail on its missing table: %+v", billing)
	}
	if faq.Name != "support-faq" || !faq.Success || faq.Message != "Preloaded successfully" {
		t.Errorf("support-faq should preload: %+v", faq)
	}
}

func TestAdaptersPreload_InferenceOnly(t *testing.T) {
	path := writeConfig(t, "general:\n  inference_only: true\n")

	_, err := execute(t, "adapters", "preload", "--config", path, "--format", "text")
	if err == nil || !strings.Contains(err.Error(), "inference-only") {
		t.Errorf("expected inference-only error, got %v", err)
	}
}

func TestTokenCommand(t *testing.T) {
	path := writeConfig(t, adaptersConfig("docs.db"))

	out, err := execute(t, "token", "--config", path, "--subject", "ops", "--ttl", "10m")
	if err != nil {
		t.Fatalf("token failed: %v", err)
	}

	verifier, err := auth.NewVerifier(config.AdminAuthConfig{
		Enabled:   true,
		SecretKey: "cmd-test-secret-0123456789",
		Issuer:    "ganymede",
	})
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}
	claims, err := verifier.VerifyToken(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("subject = %q, want ops", claims.Subject)
	}
}

func TestTokenCommand_NoSecret(t *testing.T) {
	path := writeConfig(t, "api_keys:\n  keys:\n    - key: sk-any\n")

	_, err := execute(t, "token", "--config", path, "--subject", "ops")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("expected config error, got %v", err)
	}
}

func TestRunCommand_DryRun(t *testing.T) {
	path := writeConfig(t, adaptersConfig("docs.db"))

	out, err := execute(t, "run", "--config", path, "--dry-run", "--log-level", "error")
	if err != nil {
		t.Fatalf("run --dry-run failed: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected output:\n%s", out)
	}

	_, err = execute(t, "run", "--config", path, "--dry-run", "--log-level", "loud")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("invalid log level should be a config error, got %v", err)
	}
}

// newEmbeddingServer serves OpenAI-style embeddings with one dimension per
// vocabulary word.
func newEmbeddingServer(t *testing.T, vocab ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Input) == 0 {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		vec := make([]float32, len(vocab))
		for i, word := range vocab {
			vec[i] = float32(strings.Count(strings.ToLower(req.Input[0]), word))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  "test-embed",
			"data":   []map[string]any{{"object": "embedding", "index": 0, "embedding": vec}},
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func indexConfig(t *testing.T, embeddingsURL string) (configPath, vectorPath string) {
	t.Helper()
	vectorPath = filepath.Join(t.TempDir(), "vectors.db")
	configPath = writeConfig(t, `
datasources:
  sqlite:
    path: "`+newFAQDatabase(t)+`"
  vector:
    path: "`+vectorPath+`"

embeddings:
  base_url: "`+embeddingsURL+`/v1"
  api_key: "test-key"

adapters:
  - name: handbook
    implementation: vector.sqlite
    datasource: vector
    adapter: generic
  - name: support-faq
    implementation: relational.sqlite
    datasource: sqlite
    adapter: qa
    config:
      table: faq
      content_column: body
`)
	return configPath, vectorPath
}

func writeDocuments(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docs.jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		t.Fatalf("failed to write documents: %v", err)
	}
	return path
}

func TestAdaptersIndex(t *testing.T) {
	srv := newEmbeddingServer(t, "vacation", "salary")
	configPath, vectorPath := indexConfig(t, srv.URL)
	docs := writeDocuments(t,
		`{"id":"policy-1","content":"Vacation requests need two weeks notice.","metadata":{"team":"hr"}}`,
		``,
		`{"id":"policy-2","content":"Salary is paid monthly."}`,
	)

	out, err := execute(t, "adapters", "index", "handbook", "--config", configPath, "--file", docs, "--format", "json")
	if err != nil {
		t.Fatalf("adapters index failed: %v", err)
	}

	var rows []indexRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}
	if len(rows) != 1 || rows[0].Adapter != "handbook" || rows[0].Indexed != 2 {
		t.Errorf("unexpected result: %+v", rows)
	}

	ctx := context.Background()
	store, err := vector.OpenStore(ctx, vectorPath, vector.DefaultCollection, config.DefaultSQLiteBusyTimeout)
	if err != nil {
		t.Fatalf("failed to open vector store: %v", err)
	}
	defer store.Close()

	count, err := store.Count(ctx)
	if err != nil || count != 2 {
		t.Errorf("expected 2 stored documents, got %d (%v)", count, err)
	}
	matches, err := store.Search(ctx, []float32{1, 0}, 1, 0.5)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "policy-1" || matches[0].Metadata["team"] != "hr" {
		t.Errorf("unexpected matches: %+v", matches)
	}
}

func TestAdaptersIndex_Errors(t *testing.T) {
	srv := newEmbeddingServer(t, "vacation")
	configPath, _ := indexConfig(t, srv.URL)

	tests := []struct {
		name    string
		adapter string
		lines   []string
		wantErr string
	}{
		{
			name:    "retriever without indexing",
			adapter: "support-faq",
			lines:   []string{`{"id":"1","content":"x"}`},
			wantErr: "does not accept documents",
		},
		{
			name:    "unknown adapter",
			adapter: "wiki",
			lines:   []string{`{"id":"1","content":"x"}`},
			wantErr: "no configuration found",
		},
		{
			name:    "invalid line",
			adapter: "handbook",
			lines:   []string{`{"id":"1","content":"vacation"}`, `{not json`},
			wantErr: "line 2: invalid JSON",
		},
		{
			name:    "missing content",
			adapter: "handbook",
			lines:   []string{`{"id":"1"}`},
			wantErr: "id and content are required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs := writeDocuments(t, tt.lines...)
			_, err := execute(t, "adapters", "index", tt.adapter, "--config", configPath, "--file", docs, "--format", "text")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
			if code := cli.ExitCode(err); code != cli.ExitFailure {
				t.Errorf("exit code = %d, want %d", code, cli.ExitFailure)
			}
		})
	}
}
