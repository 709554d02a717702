package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mercator-hq/ganymede/pkg/adaptermanager"
	"mercator-hq/ganymede/pkg/inference"
)

// ErrorResponse is the JSON body of every error answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	Message string `json:"message"`

	// Type categorizes the error, e.g. "invalid_request_error".
	Type string `json:"type"`

	Code string `json:"code,omitempty"`
}

// Error types.
const (
	ErrorTypeInvalidRequest = "invalid_request_error"
	ErrorTypeNotFound       = "not_found"
	ErrorTypeServerError    = "server_error"
	ErrorTypeBadGateway     = "bad_gateway"
	ErrorTypeUnavailable    = "service_unavailable"
	ErrorTypeGatewayTimeout = "gateway_timeout"
)

// apiError is an error paired with its HTTP status.
type apiError struct {
	status int
	body   ErrorResponse
}

func newAPIError(status int, errType, code, message string) *apiError {
	return &apiError{
		status: status,
		body: ErrorResponse{Error: ErrorDetail{
			Message: message,
			Type:    errType,
			Code:    code,
		}},
	}
}

// classify maps service errors to HTTP answers.
func classify(ctx context.Context, err error) *apiError {
	var (
		completionErr   *inference.CompletionError
		notFoundErr     *adaptermanager.ConfigNotFoundError
		constructionErr *adaptermanager.ConstructionError
	)

	switch {
	case errors.Is(err, inference.ErrEmptyMessage):
		return newAPIError(http.StatusBadRequest, ErrorTypeInvalidRequest, "missing_field", err.Error())

	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newAPIError(http.StatusGatewayTimeout, ErrorTypeGatewayTimeout, "timeout",
			"Request timeout: the request took too long to complete")

	case errors.Is(err, adaptermanager.ErrClosed):
		return newAPIError(http.StatusServiceUnavailable, ErrorTypeUnavailable, "shutting_down",
			"The server is shutting down")

	case errors.As(err, &notFoundErr):
		return newAPIError(http.StatusNotFound, ErrorTypeNotFound, "adapter_not_found", err.Error())

	case errors.As(err, &constructionErr):
		return newAPIError(http.StatusServiceUnavailable, ErrorTypeUnavailable, "adapter_unavailable", err.Error())

	case errors.As(err, &completionErr):
		return newAPIError(http.StatusBadGateway, ErrorTypeBadGateway, "provider_error",
			"The inference provider returned an error")

	default:
		return newAPIError(http.StatusInternalServerError, ErrorTypeServerError, "",
			"An internal error occurred. Please try again later.")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, e *apiError) {
	writeJSON(w, e.status, e.body)
}
