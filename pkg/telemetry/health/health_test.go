package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestChecker_ReadinessAggregation(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]CheckFunc
		wantStatus string
	}{
		{
			name:       "no checks",
			checks:     nil,
			wantStatus: "ready",
		},
		{
			name: "all ok",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return nil },
			},
			wantStatus: "ready",
		},
		{
			name: "one failing",
			checks: map[string]CheckFunc{
				"a": func(context.Context) error { return nil },
				"b": func(context.Context) error { return errors.New("down") },
			},
			wantStatus: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(time.Second)
			for name, check := range tt.checks {
				c.RegisterCheck(name, check)
			}

			status := c.CheckReadiness(context.Background())
			if status.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", status.Status, tt.wantStatus)
			}
			if len(status.Checks) != len(tt.checks) {
				t.Errorf("got %d results, want %d", len(status.Checks), len(tt.checks))
			}
		})
	}
}

func TestChecker_Timeout(t *testing.T) {
	c := New(20 * time.Millisecond)
	c.RegisterCheck("slow", func(ctx context.Context) error {
		time.Sleep(time.Second)
		return nil
	})

	status := c.CheckReadiness(context.Background())
	res := status.Checks["slow"]
	if res.Status != "unhealthy" || res.Message != "health check timeout" {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestChecker_ListChecks(t *testing.T) {
	c := New(0)
	c.RegisterCheck("zeta", func(context.Context) error { return nil })
	c.RegisterCheck("alpha", func(context.Context) error { return nil })
	c.RegisterCheck("alpha", func(context.Context) error { return nil })

	if got := c.ListChecks(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("ListChecks() = %v", got)
	}
}

func TestHandlers(t *testing.T) {
	c := New(time.Second)
	c.RegisterCheck("broken", func(context.Context) error { return errors.New("nope") })

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		method   string
		wantCode int
		wantBody bool
	}{
		{name: "liveness", handler: c.LivenessHandler(), method: http.MethodGet, wantCode: http.StatusOK, wantBody: true},
		{name: "liveness head", handler: c.LivenessHandler(), method: http.MethodHead, wantCode: http.StatusOK},
		{name: "readiness degraded", handler: c.ReadinessHandler(), method: http.MethodGet, wantCode: http.StatusServiceUnavailable, wantBody: true},
		{name: "version", handler: VersionHandler("1.2.3", "abc", "now"), method: http.MethodGet, wantCode: http.StatusOK, wantBody: true},
		{name: "post rejected", handler: c.LivenessHandler(), method: http.MethodPost, wantCode: http.StatusMethodNotAllowed, wantBody: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, "/", nil))

			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Body.Len() > 0; got != tt.wantBody {
				t.Errorf("has body = %v, want %v", got, tt.wantBody)
			}
		})
	}
}

func TestVersionHandler_Body(t *testing.T) {
	rec := httptest.NewRecorder()
	VersionHandler("1.2.3", "abc", "now")(rec, httptest.NewRequest(http.MethodGet, "/version", nil))

	var info VersionInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if info.Version != "1.2.3" || info.Commit != "abc" || info.GoVersion == "" {
		t.Errorf("unexpected info: %+v", info)
	}
}
