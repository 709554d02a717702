package apikeys

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/ganymede/pkg/config"
)

func TestMiddleware_Handle(t *testing.T) {
	store, err := NewStore(config.APIKeysConfig{
		Keys: []config.APIKeyConfig{
			{Key: "sk-valid", Adapter: "support-faq"},
			{Key: "sk-disabled", Adapter: "support-faq", Active: boolPtr(false)},
		},
	}, quietLogger())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	tests := []struct {
		name           string
		sources        []Source
		setupRequest   func(*http.Request)
		expectedStatus int
	}{
		{
			name: "bearer token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer sk-valid")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "x-api-key header",
			setupRequest: func(r *http.Request) {
				r.Header.Set("X-API-Key", "sk-valid")
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "query parameter",
			sources: []Source{{Type: "query", Name: "api_key"}},
			setupRequest: func(r *http.Request) {
				r.URL.RawQuery = "api_key=sk-valid"
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong scheme",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic sk-valid")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing key",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unknown key",
			setupRequest: func(r *http.Request) {
				r.Header.Set("X-API-Key", "sk-unknown")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "disabled key",
			setupRequest: func(r *http.Request) {
				r.Header.Set("X-API-Key", "sk-disabled")
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *Binding
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				b, ok := FromContext(r.Context())
				if !ok {
					t.Error("binding missing from context")
				}
				got = b
				w.WriteHeader(http.StatusOK)
			})

			handler := NewMiddleware(store, tt.sources).Handle(next)
			req := httptest.NewRequest(http.MethodPost, "/v1/chat", nil)
			tt.setupRequest(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK && (got == nil || got.AdapterName != "support-faq") {
				t.Errorf("unexpected binding: %+v", got)
			}
		})
	}
}

func TestFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := FromContext(req.Context()); ok {
		t.Error("expected no binding in a bare context")
	}
}
