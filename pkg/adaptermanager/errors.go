package adaptermanager

import (
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by operations on a manager that has been closed.
var ErrClosed = errors.New("adapter manager is closed")

// ConfigNotFoundError is returned when an adapter name has no configuration.
type ConfigNotFoundError struct {
	// Name is the requested adapter name.
	Name string
}

// Error implements the error interface.
func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no configuration found for adapter %q", e.Name)
}

// ConstructionError wraps a failure to build or initialize an adapter.
type ConstructionError struct {
	// Name is the adapter that failed.
	Name string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	return fmt.Sprintf("failed to construct adapter %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

// PreloadTimeoutError reports that preloading an adapter did not complete
// within its timeout. The construction may still complete in the background.
type PreloadTimeoutError struct {
	Name    string
	Timeout time.Duration
}

// Error implements the error interface.
func (e *PreloadTimeoutError) Error() string {
	return fmt.Sprintf("preloading adapter %q timed out after %s", e.Name, e.Timeout)
}

// TeardownError wraps a failure to close an adapter. The adapter has already
// been evicted when this error is returned.
type TeardownError struct {
	Name  string
	Cause error
}

// Error implements the error interface.
func (e *TeardownError) Error() string {
	return fmt.Sprintf("failed to close adapter %q: %v", e.Name, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TeardownError) Unwrap() error {
	return e.Cause
}
