package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestConfigError(t *testing.T) {
	cause := errors.New("missing listen address")
	err := NewConfigError("config.yaml", cause)

	want := "config error in config.yaml: missing listen address"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should see the wrapped cause")
	}
}

func TestCommandError(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewCommandError("run", cause)

	want := "command run failed: underlying error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain", err: errors.New("boom"), want: ExitFailure},
		{name: "command", err: NewCommandError("run", errors.New("boom")), want: ExitFailure},
		{name: "config", err: NewConfigError("c.yaml", errors.New("bad")), want: ExitConfig},
		{name: "wrapped config", err: fmt.Errorf("startup: %w", NewConfigError("c.yaml", errors.New("bad"))), want: ExitConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
