package server

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"mercator-hq/ganymede/pkg/adaptermanager"
	"mercator-hq/ganymede/pkg/inference"
	"mercator-hq/ganymede/pkg/security/apikeys"
	"mercator-hq/ganymede/pkg/telemetry/logging"
)

const maxChatBodyBytes = 1 << 20

// ChatRequestBody is the JSON body of POST /v1/chat.
type ChatRequestBody struct {
	Message string              `json:"message"`
	History []inference.Message `json:"history,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		s.deps.Metrics.Requests().RecordRequest(status, time.Since(start))
	}()

	binding, ok := apikeys.FromContext(r.Context())
	if !ok {
		status = "unauthorized"
		writeError(w, newAPIError(http.StatusUnauthorized, "authentication_error", "", "Missing or invalid API key"))
		return
	}

	var body ChatRequestBody
	dec := json.NewDecoder(io.LimitReader(r.Body, maxChatBodyBytes))
	if err := dec.Decode(&body); err != nil {
		status = "invalid_request"
		writeError(w, newAPIError(http.StatusBadRequest, ErrorTypeInvalidRequest, "invalid_json",
			fmt.Sprintf("Invalid JSON body: %v", err)))
		return
	}

	ctx := r.Context()
	if binding.AdapterName != "" {
		ctx = logging.WithAdapter(ctx, binding.AdapterName)
	}

	resp, err := s.deps.Chat.Chat(ctx, inference.ChatRequest{
		Message:      body.Message,
		AdapterName:  binding.AdapterName,
		SystemPrompt: binding.SystemPrompt,
		History:      body.History,
		APIKey:       binding.Key,
	})
	if err != nil {
		apiErr := classify(ctx, err)
		status = "error"
		if apiErr.status < http.StatusInternalServerError {
			status = "invalid_request"
		}
		s.logger.ErrorContext(ctx, "chat request failed", "error", err, "status", apiErr.status)
		writeError(w, apiErr)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

type adapterHealthResponse struct {
	adaptermanager.HealthStatus
	Warmer *warmerHealth `json:"warmer,omitempty"`
}

type warmerHealth struct {
	Running bool       `json:"running"`
	NextRun *time.Time `json:"next_run,omitempty"`
}

func (s *Server) handleAdapterHealth(w http.ResponseWriter, r *http.Request) {
	resp := adapterHealthResponse{HealthStatus: s.deps.Adapters.HealthCheck()}
	if s.deps.Warmer != nil {
		resp.Warmer = &warmerHealth{
			Running: s.deps.Warmer.IsRunning(),
			NextRun: s.deps.Warmer.NextRun(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type adapterListResponse struct {
	Available []string `json:"available"`
	Cached    []string `json:"cached"`
}

func (s *Server) handleListAdapters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, adapterListResponse{
		Available: s.deps.Adapters.AvailableAdapters(),
		Cached:    s.deps.Adapters.CachedAdapters(),
	})
}

type preloadAllResponse struct {
	Successful int                    `json:"successful"`
	Total      int                    `json:"total"`
	Results    map[string]preloadItem `json:"results"`
}

type preloadItem struct {
	Success    bool    `json:"success"`
	Message    string  `json:"message,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

func (s *Server) handlePreloadAll(w http.ResponseWriter, r *http.Request) {
	var timeout time.Duration
	if raw := r.URL.Query().Get("timeout"); raw != "" {
		d, err := parseTimeout(raw)
		if err != nil {
			writeError(w, newAPIError(http.StatusBadRequest, ErrorTypeInvalidRequest, "invalid_value", err.Error()))
			return
		}
		timeout = d
	}

	results := s.deps.Adapters.PreloadAll(r.Context(), timeout)

	resp := preloadAllResponse{
		Total:   len(results),
		Results: make(map[string]preloadItem, len(results)),
	}
	for name, res := range results {
		if res.Success {
			resp.Successful++
		}
		resp.Results[name] = preloadItem{
			Success:    res.Success,
			Message:    res.Message,
			Error:      res.Error,
			DurationMS: float64(res.Duration.Microseconds()) / 1000,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// maxPreloadTimeout caps the per-adapter timeout accepted from a request.
const maxPreloadTimeout = time.Hour

var errInvalidTimeout = fmt.Errorf("timeout must be a positive duration or number of seconds, at most %s", maxPreloadTimeout)

// parseTimeout accepts a Go duration ("30s") or a number of seconds ("30").
func parseTimeout(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		secs, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || math.IsNaN(secs) || secs <= 0 || secs > maxPreloadTimeout.Seconds() {
			return 0, errInvalidTimeout
		}
		d = time.Duration(secs * float64(time.Second))
	}
	if d <= 0 || d > maxPreloadTimeout {
		return 0, errInvalidTimeout
	}
	return d, nil
}

func (s *Server) handlePreloadAdapter(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := s.deps.Adapters.PreloadAdapter(r.Context(), name); err != nil {
		writeError(w, classify(r.Context(), err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"adapter_name": name,
		"success":      true,
		"message":      "Preloaded successfully",
	})
}

func (s *Server) handleRemoveAdapter(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	removed := s.deps.Adapters.RemoveAdapter(r.Context(), name)
	writeJSON(w, http.StatusOK, map[string]any{
		"adapter_name": name,
		"removed":      removed,
	})
}

func (s *Server) handleClearAdapters(w http.ResponseWriter, r *http.Request) {
	errs := s.deps.Adapters.ClearCache(r.Context())
	failures := make([]string, 0, len(errs))
	for _, err := range errs {
		failures = append(failures, err.Error())
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cleared":  true,
		"failures": failures,
	})
}
